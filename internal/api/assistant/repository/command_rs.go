package assistantRepository

import (
	"context"
	"database/sql"
	"time"

	"ArdenGolang/internal/entity"
	contextPkg "ArdenGolang/pkg/context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type CommandRecordDB struct {
	ID                sql.NullString  `db:"id"`
	UserID            sql.NullString  `db:"user_id"`
	Intent            sql.NullString  `db:"intent"`
	Confidence        sql.NullFloat64 `db:"confidence"`
	NeedsConfirmation sql.NullBool    `db:"needs_confirmation"`
	Success           sql.NullBool    `db:"success"`
	Message           sql.NullString  `db:"message"`
	CreatedAt         time.Time       `db:"created_at"`
}

func (r *commandRepository) CreateCommandRecord(ctx context.Context, record entity.CommandRecord) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":                 record.ID,
		"user_id":            record.UserID,
		"intent":             record.Intent,
		"confidence":         record.Confidence,
		"needs_confirmation": record.NeedsConfirmation,
		"success":            record.Success,
		"message":            record.Message,
		"created_at":         record.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateCommandRecord, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateCommandRecord")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    contextPkg.GetUserID(ctx),
			"error":      err.Error(),
		}).Error("Database error when creating command record")
		return err
	}

	return nil
}

func (r *commandRepository) GetCommandRecordsByUserID(ctx context.Context, userID string, limit, offset int) ([]entity.CommandRecord, int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var recordsDB []CommandRecordDB
	var total int

	countQuery, countArgs, err := sqlx.Named(queryCountCommandRecordsByUserID, map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountCommandRecordsByUserID named query preparation err")
		return nil, 0, err
	}
	countQuery = r.q.Rebind(countQuery)

	if err := r.q.QueryRowxContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountCommandRecordsByUserID execution err")
		return nil, 0, err
	}

	argsKV := map[string]interface{}{
		"user_id": userID,
		"limit":   limit,
		"offset":  offset,
	}

	query, args, err := sqlx.Named(queryGetCommandRecordsByUserID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCommandRecordsByUserID named query preparation err")
		return nil, 0, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &recordsDB, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCommandRecordsByUserID execution err")
		return nil, 0, err
	}

	records := make([]entity.CommandRecord, 0, len(recordsDB))
	for _, recordDB := range recordsDB {
		records = append(records, r.makeCommandRecord(recordDB))
	}

	return records, total, nil
}

func (r *commandRepository) DeleteCommandRecordsByUserID(ctx context.Context, userID string) (int64, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteCommandRecordsByUserID, map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteCommandRecordsByUserID named query preparation err")
		return 0, err
	}
	query = r.q.Rebind(query)

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteCommandRecordsByUserID execution err")
		return 0, err
	}

	return res.RowsAffected()
}

func (r *commandRepository) makeCommandRecord(db CommandRecordDB) entity.CommandRecord {
	return entity.CommandRecord{
		ID:                db.ID.String,
		UserID:            db.UserID.String,
		Intent:            db.Intent.String,
		Confidence:        db.Confidence.Float64,
		NeedsConfirmation: db.NeedsConfirmation.Bool,
		Success:           db.Success.Bool,
		Message:           db.Message.String,
		CreatedAt:         db.CreatedAt,
	}
}
