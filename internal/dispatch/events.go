package dispatch

import (
	"sync"
	"time"

	"ArdenGolang/internal/entity"
)

type EventType string

const (
	EventEntry    EventType = "entry"
	EventPending  EventType = "pending"
	EventCleared  EventType = "cleared"
	EventExecuted EventType = "executed"
	EventState    EventType = "state"
)

// Event is one observable change of runtime state. Pending is nil on an
// EventPending when the slot was emptied.
type Event struct {
	Type       EventType               `json:"type"`
	At         time.Time               `json:"at"`
	Entry      *entity.TranscriptEntry `json:"entry,omitempty"`
	Pending    *entity.Decision        `json:"pending,omitempty"`
	Decision   *entity.Decision        `json:"decision,omitempty"`
	Result     *entity.ExecutionResult `json:"result,omitempty"`
	Error      string                  `json:"error,omitempty"`
	Processing bool                    `json:"processing"`
}

type observers struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

func newObservers() *observers {
	return &observers{subs: make(map[int]chan Event)}
}

func (o *observers) subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 32
	}
	ch := make(chan Event, buffer)

	o.mu.Lock()
	id := o.next
	o.next++
	o.subs[id] = ch
	o.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			if _, ok := o.subs[id]; ok {
				delete(o.subs, id)
				close(ch)
			}
			o.mu.Unlock()
		})
	}
}

// publish never blocks; a subscriber that falls behind misses events.
func (o *observers) publish(ev Event) (dropped int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, ch := range o.subs {
		select {
		case ch <- ev:
		default:
			dropped++
		}
	}
	return dropped
}

func (o *observers) closeAll() {
	o.mu.Lock()
	defer o.mu.Unlock()

	for id, ch := range o.subs {
		delete(o.subs, id)
		close(ch)
	}
}
