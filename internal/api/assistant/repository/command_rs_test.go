package assistantRepository_test

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	assistantRepository "ArdenGolang/internal/api/assistant/repository"
	"ArdenGolang/internal/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (assistantRepository.Client, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := assistantRepository.New(sqlx.NewDb(db, "postgres"), log)
	client, err := repo.NewClient(false)
	require.NoError(t, err)
	return client, mock
}

func TestCreateCommandRecord(t *testing.T) {
	client, mock := newClient(t)
	at := time.Date(2025, 10, 25, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assistant_commands")).
		WithArgs("01J", "user-1", "set-flashlight", 0.99, false, true, "Flashlight turned on", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := client.Commands.CreateCommandRecord(context.Background(), entity.CommandRecord{
		ID:         "01J",
		UserID:     "user-1",
		Intent:     "set-flashlight",
		Confidence: 0.99,
		Success:    true,
		Message:    "Flashlight turned on",
		CreatedAt:  at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCommandRecord_DatabaseError(t *testing.T) {
	client, mock := newClient(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assistant_commands")).
		WillReturnError(errors.New("connection reset"))

	err := client.Commands.CreateCommandRecord(context.Background(), entity.CommandRecord{ID: "x"})
	assert.EqualError(t, err, "connection reset")
}

func TestGetCommandRecordsByUserID(t *testing.T) {
	client, mock := newClient(t)
	at := time.Date(2025, 10, 25, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "intent", "confidence", "needs_confirmation", "success", "message", "created_at",
	}).
		AddRow("b", "user-1", "send-message", 0.85, true, false, "no handler registered for send-message", at).
		AddRow("a", "user-1", "calculate", 0.8, false, true, nil, at.Add(-time.Minute))

	mock.ExpectQuery(regexp.QuoteMeta("FROM assistant_commands")).
		WithArgs("user-1", 2, 0).
		WillReturnRows(rows)

	records, total, err := client.Commands.GetCommandRecordsByUserID(context.Background(), "user-1", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, records, 2)

	assert.Equal(t, "send-message", records[0].Intent)
	assert.True(t, records[0].NeedsConfirmation)
	assert.False(t, records[0].Success)
	assert.Equal(t, "", records[1].Message)
	assert.Equal(t, at.Add(-time.Minute), records[1].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCommandRecordsByUserID_CountFails(t *testing.T) {
	client, mock := newClient(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnError(errors.New("timeout"))

	_, _, err := client.Commands.GetCommandRecordsByUserID(context.Background(), "user-1", 10, 0)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCommandRecordsByUserID(t *testing.T) {
	client, mock := newClient(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assistant_commands")).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := client.Commands.DeleteCommandRecordsByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestNewClient_Transaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	log := logrus.New()
	log.SetOutput(io.Discard)
	repo := assistantRepository.New(sqlx.NewDb(db, "postgres"), log)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assistant_commands")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	client, err := repo.NewClient(true)
	require.NoError(t, err)
	require.NoError(t, client.Commands.CreateCommandRecord(context.Background(), entity.CommandRecord{ID: "x"}))
	require.NoError(t, client.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
