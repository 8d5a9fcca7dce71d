package assistantService_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"ArdenGolang/internal/api/assistant"
	assistantRepository "ArdenGolang/internal/api/assistant/repository"
	assistantService "ArdenGolang/internal/api/assistant/service"
	"ArdenGolang/internal/dispatch"
	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/generator"
	"ArdenGolang/pkg/nlp"
	"ArdenGolang/pkg/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memoryCommands struct {
	mu      sync.Mutex
	records []entity.CommandRecord
}

func (m *memoryCommands) CreateCommandRecord(_ context.Context, record entity.CommandRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *memoryCommands) GetCommandRecordsByUserID(_ context.Context, userID string, limit, offset int) ([]entity.CommandRecord, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var mine []entity.CommandRecord
	for _, r := range m.records {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	total := len(mine)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return mine[offset:end], total, nil
}

func (m *memoryCommands) DeleteCommandRecordsByUserID(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0]
	var n int64
	for _, r := range m.records {
		if r.UserID == userID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return n, nil
}

func (m *memoryCommands) snapshot() []entity.CommandRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.CommandRecord{}, m.records...)
}

type memoryRepository struct {
	commands *memoryCommands
}

func (r *memoryRepository) NewClient(bool) (assistantRepository.Client, error) {
	return assistantRepository.Client{
		Commands: r.commands,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

func newService(t *testing.T, repo assistantRepository.Repository) assistantService.IAssistantService {
	t.Helper()
	log := quietLogger()
	svc, err := assistantService.NewAssistantService(log, repo, generator.NewStandIn(log, nlp.NewProcessor()), utils.New(), nil)
	require.NoError(t, err)
	return svc
}

func TestSubmitInput_ExecutesAndAudits(t *testing.T) {
	commands := &memoryCommands{}
	svc := newService(t, &memoryRepository{commands: commands})
	ctx := context.Background()

	resp, err := svc.SubmitInput(ctx, "user-1", assistant.SubmitInputRequest{Text: "turn on the flashlight"})
	require.NoError(t, err)
	assert.Equal(t, string(dispatch.OutcomeExecuted), resp.Outcome)
	require.NotNil(t, resp.Entry)
	assert.Equal(t, "Flashlight turned on", resp.Entry.Text)
	assert.Nil(t, resp.Pending)

	transcript, err := svc.GetTranscript(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, transcript.Entries, 2)
	assert.True(t, transcript.Entries[0].IsFromUser)

	svc.Close()

	records := commands.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, "user-1", records[0].UserID)
	assert.Equal(t, "set-flashlight", records[0].Intent)
	assert.True(t, records[0].Success)
}

func TestConfirmFlow(t *testing.T) {
	commands := &memoryCommands{}
	svc := newService(t, &memoryRepository{commands: commands})
	ctx := context.Background()

	resp, err := svc.SubmitInput(ctx, "user-1", assistant.SubmitInputRequest{Text: "send a message to Bob saying hi"})
	require.NoError(t, err)
	assert.Equal(t, string(dispatch.OutcomeAwaiting), resp.Outcome)
	require.NotNil(t, resp.Pending)
	assert.Equal(t, entity.IntentSendMessage, resp.Pending.Kind)

	pending, err := svc.GetPending(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, pending.Pending)

	// another user has nothing waiting
	_, err = svc.ConfirmPending(ctx, "user-2")
	assert.ErrorIs(t, err, assistant.ErrNothingPending)

	resp, err = svc.ConfirmPending(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, string(dispatch.OutcomeFailed), resp.Outcome)
	assert.Equal(t, "Error executing action: no handler registered for send-message", resp.Entry.Text)

	_, err = svc.ConfirmPending(ctx, "user-1")
	assert.ErrorIs(t, err, assistant.ErrNothingPending)

	svc.Close()
	records := commands.snapshot()
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
	assert.True(t, records[0].NeedsConfirmation)
}

func TestCancelPending(t *testing.T) {
	svc := newService(t, nil)
	defer svc.Close()
	ctx := context.Background()

	state, err := svc.CancelPending(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, state.Changed)

	_, err = svc.SubmitInput(ctx, "user-1", assistant.SubmitInputRequest{Text: "call mom"})
	require.NoError(t, err)

	state, err = svc.CancelPending(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, state.Changed)
	assert.Nil(t, state.Pending)

	transcript, err := svc.GetTranscript(ctx, "user-1")
	require.NoError(t, err)
	last := transcript.Entries[len(transcript.Entries)-1]
	assert.Equal(t, dispatch.CancelledMessage, last.Text)
}

func TestClearTranscriptKeepsPending(t *testing.T) {
	svc := newService(t, nil)
	defer svc.Close()
	ctx := context.Background()

	_, err := svc.SubmitInput(ctx, "user-1", assistant.SubmitInputRequest{Text: "call mom"})
	require.NoError(t, err)
	require.NoError(t, svc.ClearTranscript(ctx, "user-1"))

	transcript, err := svc.GetTranscript(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, transcript.Entries)
	assert.NotNil(t, transcript.Pending)
}

func TestSubmitInput_MapsErrors(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	_, err := svc.SubmitInput(ctx, "user-1", assistant.SubmitInputRequest{Text: "   "})
	assert.ErrorIs(t, err, assistant.ErrEmptyInput)

	svc.Close()
	_, err = svc.SubmitInput(ctx, "user-1", assistant.SubmitInputRequest{Text: "hello"})
	assert.ErrorIs(t, err, assistant.ErrSessionClosed)
}

func TestHistory(t *testing.T) {
	commands := &memoryCommands{}
	svc := newService(t, &memoryRepository{commands: commands})
	ctx := context.Background()

	for _, text := range []string{"turn on the flashlight", "what time is it", "turn off the flashlight"} {
		_, err := svc.SubmitInput(ctx, "user-1", assistant.SubmitInputRequest{Text: text})
		require.NoError(t, err)
	}
	svc.Close()

	records, total, err := svc.GetHistory(ctx, "user-1", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, records, 1)

	_, _, err = svc.GetHistory(ctx, "user-1", 0, 10)
	assert.ErrorIs(t, err, assistant.ErrInvalidPagination)

	n, err := svc.ClearHistory(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestHistory_Unconfigured(t *testing.T) {
	svc := newService(t, nil)
	defer svc.Close()

	_, _, err := svc.GetHistory(context.Background(), "user-1", 1, 10)
	assert.True(t, errors.Is(err, assistant.ErrHistoryUnavailable))
}

func TestSubscribe_StreamsEntries(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	events, unsubscribe, err := svc.Subscribe(ctx, "user-1")
	require.NoError(t, err)
	defer unsubscribe()

	_, err = svc.SubmitInput(ctx, "user-1", assistant.SubmitInputRequest{Text: "what day is it"})
	require.NoError(t, err)

	var texts []string
	timeout := time.After(2 * time.Second)
	for len(texts) < 2 {
		select {
		case ev := <-events:
			if ev.Type == dispatch.EventEntry {
				texts = append(texts, ev.Entry.Text)
			}
		case <-timeout:
			t.Fatalf("got %v before timeout", texts)
		}
	}
	assert.Equal(t, "what day is it", texts[0])

	svc.Close()
	for range events {
	}
}

func TestIdleEviction_SkipsStreamedSessions(t *testing.T) {
	log := quietLogger()
	config := assistantService.DefaultConfig()
	config.IdleTimeout = 20 * time.Millisecond
	svc, err := assistantService.NewAssistantService(log, nil, generator.NewStandIn(log, nlp.NewProcessor()), utils.New(), config)
	require.NoError(t, err)
	defer svc.Close()
	ctx := context.Background()

	_, err = svc.SubmitInput(ctx, "listener", assistant.SubmitInputRequest{Text: "what day is it"})
	require.NoError(t, err)
	events, unsubscribe, err := svc.Subscribe(ctx, "listener")
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)
	_, err = svc.GetPending(ctx, "other")
	require.NoError(t, err)

	select {
	case _, ok := <-events:
		require.True(t, ok, "stream closed by idle eviction")
	default:
	}
	transcript, err := svc.GetTranscript(ctx, "listener")
	require.NoError(t, err)
	assert.Len(t, transcript.Entries, 2)

	unsubscribe()
	time.Sleep(60 * time.Millisecond)
	_, err = svc.GetPending(ctx, "other")
	require.NoError(t, err)

	transcript, err = svc.GetTranscript(ctx, "listener")
	require.NoError(t, err)
	assert.Empty(t, transcript.Entries)
}
