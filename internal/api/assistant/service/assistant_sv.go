package assistantService

import (
	"context"
	"errors"

	"ArdenGolang/internal/api/assistant"
	"ArdenGolang/internal/dispatch"
	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/generator"

	"github.com/sirupsen/logrus"
)

func (s *assistantService) SubmitInput(ctx context.Context, userID string, req assistant.SubmitInputRequest) (*assistant.TurnResponse, error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}

	outcome, err := sess.runtime.SubmitInput(ctx, req.Text)
	if err != nil {
		return nil, s.mapError(userID, err)
	}
	return turnResponse(sess.runtime, outcome), nil
}

func (s *assistantService) ConfirmPending(ctx context.Context, userID string) (*assistant.TurnResponse, error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}

	outcome, err := sess.runtime.ConfirmPending(ctx)
	if err != nil {
		return nil, s.mapError(userID, err)
	}
	return turnResponse(sess.runtime, outcome), nil
}

func (s *assistantService) CancelPending(ctx context.Context, userID string) (*assistant.StateResponse, error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}

	changed := sess.runtime.CancelPending()
	return stateResponse(sess.runtime, changed), nil
}

func (s *assistantService) Stop(ctx context.Context, userID string) (*assistant.StateResponse, error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}

	changed := sess.runtime.Stop()
	return stateResponse(sess.runtime, changed), nil
}

func (s *assistantService) GetTranscript(ctx context.Context, userID string) (*assistant.TranscriptResponse, error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}

	return &assistant.TranscriptResponse{
		Entries:    sess.runtime.Transcript(),
		Pending:    pendingOf(sess.runtime),
		Processing: sess.runtime.Processing(),
	}, nil
}

func (s *assistantService) ClearTranscript(ctx context.Context, userID string) error {
	sess, err := s.session(userID)
	if err != nil {
		return err
	}

	sess.runtime.ClearTranscript()
	return nil
}

func (s *assistantService) GetPending(ctx context.Context, userID string) (*assistant.PendingResponse, error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, err
	}

	pending := pendingOf(sess.runtime)
	return &assistant.PendingResponse{
		Pending: pending != nil,
		Action:  pending,
	}, nil
}

func (s *assistantService) GetHistory(ctx context.Context, userID string, page, limit int) ([]entity.CommandRecord, int, error) {
	if s.assistantRepo == nil {
		return nil, 0, assistant.ErrHistoryUnavailable
	}
	if page < 1 || limit < 1 {
		return nil, 0, assistant.ErrInvalidPagination
	}

	client, err := s.assistantRepo.NewClient(false)
	if err != nil {
		return nil, 0, err
	}
	return client.Commands.GetCommandRecordsByUserID(ctx, userID, limit, (page-1)*limit)
}

func (s *assistantService) ClearHistory(ctx context.Context, userID string) (int64, error) {
	if s.assistantRepo == nil {
		return 0, assistant.ErrHistoryUnavailable
	}

	client, err := s.assistantRepo.NewClient(true)
	if err != nil {
		return 0, err
	}
	n, err := client.Commands.DeleteCommandRecordsByUserID(ctx, userID)
	if err != nil {
		_ = client.Rollback()
		return 0, err
	}
	return n, client.Commit()
}

func (s *assistantService) Subscribe(ctx context.Context, userID string) (<-chan dispatch.Event, func(), error) {
	sess, err := s.session(userID)
	if err != nil {
		return nil, nil, err
	}

	release := s.watch(sess)
	events, unsubscribe := sess.runtime.Subscribe(s.config.StreamBuffer)
	return events, func() {
		unsubscribe()
		release()
	}, nil
}

func (s *assistantService) mapError(userID string, err error) error {
	var mapped error
	switch {
	case errors.Is(err, dispatch.ErrEmptyInput):
		mapped = assistant.ErrEmptyInput
	case errors.Is(err, dispatch.ErrNothingPending):
		mapped = assistant.ErrNothingPending
	case errors.Is(err, dispatch.ErrTurnCancelled):
		mapped = assistant.ErrTurnCancelled
	case errors.Is(err, dispatch.ErrClosed):
		mapped = assistant.ErrSessionClosed
	case errors.Is(err, generator.ErrGenerationTimeout):
		mapped = assistant.ErrGenerationTimeout
	case errors.Is(err, generator.ErrBackendUnavailable):
		mapped = assistant.ErrBackendUnavailable
	default:
		return err
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"error":   err.Error(),
	}).Debug("Assistant request rejected")
	return mapped
}

func turnResponse(rt *dispatch.Runtime, outcome dispatch.Outcome) *assistant.TurnResponse {
	return &assistant.TurnResponse{
		Outcome:    string(outcome.Kind),
		Entry:      outcome.Entry,
		Decision:   outcome.Decision,
		Result:     outcome.Result,
		Pending:    pendingOf(rt),
		Processing: rt.Processing(),
	}
}

func stateResponse(rt *dispatch.Runtime, changed bool) *assistant.StateResponse {
	return &assistant.StateResponse{
		Changed:    changed,
		Pending:    pendingOf(rt),
		Processing: rt.Processing(),
	}
}

func pendingOf(rt *dispatch.Runtime) *entity.Decision {
	d, ok := rt.Pending()
	if !ok {
		return nil
	}
	return &d
}
