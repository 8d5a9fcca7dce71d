package gate_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ArdenGolang/internal/entity"
	"ArdenGolang/internal/gate"
	"ArdenGolang/pkg/param"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decision(confidence float64, confirm bool) entity.Decision {
	return entity.Decision{
		Kind:                    entity.IntentSendMessage,
		Parameters:              param.Params{"recipient": param.String("Sam"), "body": param.String("hi")},
		Confidence:              confidence,
		NeedsConfirmation:       confirm,
		NaturalLanguageResponse: "I'll send that.",
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		confirm    bool
		want       gate.Action
		wantState  gate.State
	}{
		{"low confidence clarifies", 0.69, false, gate.ActionClarify, gate.StateIdle},
		{"low confidence with confirmation still clarifies", 0.2, true, gate.ActionClarify, gate.StateIdle},
		{"threshold executes", 0.7, false, gate.ActionExecute, gate.StateIdle},
		{"sensitive awaits", 0.95, true, gate.ActionAwait, gate.StateAwaitingConfirmation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gate.New(gate.DefaultThreshold)
			got, err := g.Evaluate(decision(tt.confidence, tt.confirm))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantState, g.State())
		})
	}
}

func TestConfirm_IsTerminal(t *testing.T) {
	now := time.Date(2025, 10, 25, 9, 0, 0, 0, time.UTC)
	g := gate.New(gate.DefaultThreshold).WithClock(func() time.Time { return now })

	_, err := g.Evaluate(decision(0.9, true))
	require.NoError(t, err)

	p, ok := g.Pending()
	require.True(t, ok)
	assert.Equal(t, now, p.Since)

	d, ok := g.Confirm()
	require.True(t, ok)
	assert.Equal(t, entity.IntentSendMessage, d.Kind)

	_, ok = g.Confirm()
	assert.False(t, ok)
	assert.Equal(t, gate.StateIdle, g.State())
}

func TestCancel(t *testing.T) {
	g := gate.New(gate.DefaultThreshold)
	assert.False(t, g.Cancel())

	_, err := g.Evaluate(decision(0.9, true))
	require.NoError(t, err)
	assert.True(t, g.Cancel())

	_, ok := g.Confirm()
	assert.False(t, ok)
}

func TestEvaluate_RejectsSecondPending(t *testing.T) {
	g := gate.New(gate.DefaultThreshold)
	_, err := g.Evaluate(decision(0.9, true))
	require.NoError(t, err)

	_, err = g.Evaluate(decision(0.9, false))
	assert.ErrorIs(t, err, gate.ErrConfirmationPending)

	assert.True(t, g.Supersede())
	action, err := g.Evaluate(decision(0.9, false))
	require.NoError(t, err)
	assert.Equal(t, gate.ActionExecute, action)
}

func TestPending_ReturnsCopy(t *testing.T) {
	g := gate.New(gate.DefaultThreshold)
	_, err := g.Evaluate(decision(0.9, true))
	require.NoError(t, err)

	p, _ := g.Pending()
	p.Decision.Parameters["recipient"] = param.String("Mallory")

	again, _ := g.Pending()
	assert.True(t, again.Decision.Parameters["recipient"].Equal(param.String("Sam")))
}

func TestConfirm_ConcurrentCallersGetOneDecision(t *testing.T) {
	g := gate.New(gate.DefaultThreshold)
	_, err := g.Evaluate(decision(0.9, true))
	require.NoError(t, err)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := g.Confirm(); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestNew_FallsBackToDefaultThreshold(t *testing.T) {
	assert.Equal(t, gate.DefaultThreshold, gate.New(0).Threshold())
	assert.Equal(t, 0.8, gate.New(0.8).Threshold())
}
