package assistantService

import (
	"context"
	"time"

	"ArdenGolang/internal/dispatch"
	"ArdenGolang/internal/entity"
	contextPkg "ArdenGolang/pkg/context"

	"github.com/sirupsen/logrus"
)

// audit records every executed decision of one session until events closes.
func (s *assistantService) audit(userID string, events <-chan dispatch.Event, done chan<- struct{}) {
	defer close(done)

	for ev := range events {
		if ev.Type != dispatch.EventExecuted || ev.Decision == nil || ev.Result == nil {
			continue
		}

		record := entity.CommandRecord{
			ID:                s.utils.NewID(),
			UserID:            userID,
			Intent:            string(ev.Decision.Kind),
			Confidence:        ev.Decision.Confidence,
			NeedsConfirmation: ev.Decision.NeedsConfirmation,
			Success:           ev.Result.Success,
			Message:           ev.Result.Message,
			CreatedAt:         ev.At,
		}
		if err := s.saveRecord(record); err != nil {
			s.log.WithFields(logrus.Fields{
				"user_id": userID,
				"intent":  record.Intent,
				"error":   err.Error(),
			}).Error("Failed to record executed command")
		}
	}
}

func (s *assistantService) saveRecord(record entity.CommandRecord) error {
	ctx := contextPkg.WithUserID(contextPkg.WithRequestID(context.Background(), record.ID), record.UserID)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := s.assistantRepo.NewClient(false)
	if err != nil {
		return err
	}
	return client.Commands.CreateCommandRecord(ctx, record)
}
