package builtin

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ArdenGolang/internal/capability"
	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/param"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MaxTimerDuration bounds a single countdown.
const MaxTimerDuration = 24 * time.Hour

type RunningTimer struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Deadline time.Time `json:"deadline"`
}

type timerEntry struct {
	RunningTimer
	timer *time.Timer
}

// Timers runs in-process countdowns. Completed timers are logged and removed.
type Timers struct {
	mu     sync.Mutex
	log    *logrus.Logger
	timers map[string]*timerEntry
	unit   time.Duration
	onFire func(RunningTimer)
}

func NewTimers(log *logrus.Logger) *Timers {
	return &Timers{
		log:    log,
		timers: make(map[string]*timerEntry),
		unit:   time.Second,
	}
}

// OnFire registers a callback invoked when a timer completes.
func (t *Timers) OnFire(fn func(RunningTimer)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onFire = fn
}

func describeDuration(seconds int64) string {
	minutes, rest := seconds/60, seconds%60
	plural := func(n int64, word string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, word)
		}
		return fmt.Sprintf("%d %ss", n, word)
	}

	switch {
	case minutes > 0 && rest > 0:
		return plural(minutes, "minute") + " and " + plural(rest, "second")
	case minutes > 0:
		return plural(minutes, "minute")
	default:
		return plural(rest, "second")
	}
}

func (t *Timers) Handle(_ context.Context, p param.Params) (entity.ExecutionResult, error) {
	duration, err := capability.Int(p, "duration")
	if err != nil {
		return entity.ExecutionResult{}, err
	}
	if duration <= 0 {
		return entity.ExecutionResult{}, capability.ExecutionFailed("Timer duration must be positive")
	}
	if duration > int64(MaxTimerDuration/t.unit) {
		return entity.ExecutionResult{}, capability.ExecutionFailed("Timer duration cannot exceed %s", describeDuration(int64(MaxTimerDuration/time.Second)))
	}
	label, ok := capability.OptionalString(p, "label")
	if !ok {
		label = "Timer"
	}

	running := t.Start(time.Duration(duration)*t.unit, label)

	return entity.ExecutionResult{
		Success: true,
		Message: "Timer started for " + describeDuration(duration),
		Data: param.Params{
			"timerId":  param.String(running.ID),
			"label":    param.String(label),
			"deadline": param.String(running.Deadline.Format(time.RFC3339)),
		},
	}, nil
}

func (t *Timers) Start(d time.Duration, label string) RunningTimer {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := &timerEntry{RunningTimer: RunningTimer{
		ID:       uuid.New().String(),
		Label:    label,
		Deadline: time.Now().Add(d),
	}}
	entry.timer = time.AfterFunc(d, func() { t.complete(entry.ID) })
	t.timers[entry.ID] = entry
	return entry.RunningTimer
}

func (t *Timers) complete(id string) {
	t.mu.Lock()
	entry, ok := t.timers[id]
	delete(t.timers, id)
	onFire := t.onFire
	t.mu.Unlock()

	if !ok {
		return
	}
	if t.log != nil {
		t.log.WithFields(logrus.Fields{
			"timer_id": id,
			"label":    entry.Label,
		}).Info("Timer completed")
	}
	if onFire != nil {
		onFire(entry.RunningTimer)
	}
}

func (t *Timers) Cancel(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.timers[id]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(t.timers, id)
	return true
}

func (t *Timers) List() []RunningTimer {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]RunningTimer, 0, len(t.timers))
	for _, e := range t.timers {
		out = append(out, e.RunningTimer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deadline.Before(out[j].Deadline) })
	return out
}

// StopAll cancels every running timer.
func (t *Timers) StopAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, e := range t.timers {
		e.timer.Stop()
		delete(t.timers, id)
	}
}
