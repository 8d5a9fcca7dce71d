package gate

import (
	"errors"
	"sync"
	"time"

	"ArdenGolang/internal/entity"
)

const DefaultThreshold = 0.7

type Action int

const (
	// ActionClarify drops the decision and surfaces its response text.
	ActionClarify Action = iota
	// ActionExecute runs the decision now.
	ActionExecute
	// ActionAwait holds the decision until Confirm or Cancel.
	ActionAwait
)

func (a Action) String() string {
	switch a {
	case ActionExecute:
		return "execute"
	case ActionAwait:
		return "await"
	default:
		return "clarify"
	}
}

type State int

const (
	StateIdle State = iota
	StateAwaitingConfirmation
)

var ErrConfirmationPending = errors.New("gate: a decision is already awaiting confirmation")

type Pending struct {
	Decision entity.Decision
	Since    time.Time
}

// Gate holds at most one decision awaiting confirmation.
type Gate struct {
	mu        sync.Mutex
	threshold float64
	pending   *Pending
	clock     func() time.Time
}

func New(threshold float64) *Gate {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Gate{
		threshold: threshold,
		clock:     time.Now,
	}
}

// WithClock overrides the clock for deterministic testing.
func (g *Gate) WithClock(clock func() time.Time) *Gate {
	g.clock = clock
	return g
}

func (g *Gate) Threshold() float64 {
	return g.threshold
}

// Evaluate decides what happens to a freshly interpreted decision. Only
// ActionAwait stores it. The caller must clear an occupied slot first.
func (g *Gate) Evaluate(d entity.Decision) (Action, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending != nil {
		return ActionClarify, ErrConfirmationPending
	}

	switch {
	case d.Confidence < g.threshold:
		return ActionClarify, nil
	case d.NeedsConfirmation:
		g.pending = &Pending{Decision: d.Clone(), Since: g.clock()}
		return ActionAwait, nil
	default:
		return ActionExecute, nil
	}
}

// Confirm takes the held decision out of the slot. Only the first call after
// an ActionAwait returns ok.
func (g *Gate) Confirm() (entity.Decision, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return entity.Decision{}, false
	}
	d := g.pending.Decision
	g.pending = nil
	return d, true
}

// Cancel discards the held decision and reports whether there was one.
func (g *Gate) Cancel() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	had := g.pending != nil
	g.pending = nil
	return had
}

// Supersede discards the held decision because new input arrived.
func (g *Gate) Supersede() bool {
	return g.Cancel()
}

func (g *Gate) Pending() (Pending, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return Pending{}, false
	}
	return Pending{Decision: g.pending.Decision.Clone(), Since: g.pending.Since}, true
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending != nil {
		return StateAwaitingConfirmation
	}
	return StateIdle
}
