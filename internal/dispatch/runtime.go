package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"ArdenGolang/internal/capability"
	"ArdenGolang/internal/entity"
	"ArdenGolang/internal/gate"
	"ArdenGolang/internal/interpreter"
	"ArdenGolang/pkg/generator"
	"ArdenGolang/pkg/utils"

	"github.com/sirupsen/logrus"
)

const (
	ConfirmationPrompt = "Would you like me to proceed?"
	CancelledMessage   = "Action cancelled."
	SupersededMessage  = "Previous request discarded."

	immediateErrorPrefix = "Error: "
	confirmErrorPrefix   = "Error executing action: "
)

var (
	ErrEmptyInput     = errors.New("dispatch: input is empty")
	ErrTurnCancelled  = errors.New("dispatch: turn cancelled")
	ErrNothingPending = errors.New("dispatch: no action awaiting confirmation")
	ErrClosed         = errors.New("dispatch: runtime closed")
)

type OutcomeKind string

const (
	OutcomeClarified OutcomeKind = "clarified"
	OutcomeAwaiting  OutcomeKind = "awaiting_confirmation"
	OutcomeExecuted  OutcomeKind = "executed"
	OutcomeFailed    OutcomeKind = "failed"
	OutcomeCancelled OutcomeKind = "cancelled"
)

// Outcome describes how one runtime action settled.
type Outcome struct {
	Kind     OutcomeKind             `json:"kind"`
	Entry    *entity.TranscriptEntry `json:"entry,omitempty"`
	Decision *entity.Decision        `json:"decision,omitempty"`
	Result   *entity.ExecutionResult `json:"result,omitempty"`
}

type Config struct {
	SystemInstruction string
	Threshold         float64
	HistoryTurns      int
	TurnTimeout       time.Duration
}

func DefaultConfig() Config {
	return Config{
		SystemInstruction: interpreter.SystemInstruction,
		Threshold:         gate.DefaultThreshold,
		HistoryTurns:      generator.DefaultHistoryTurns,
		TurnTimeout:       60 * time.Second,
	}
}

type Option func(*Runtime)

func WithConfig(cfg Config) Option {
	return func(r *Runtime) {
		if cfg.SystemInstruction != "" {
			r.cfg.SystemInstruction = cfg.SystemInstruction
		}
		if cfg.Threshold > 0 {
			r.cfg.Threshold = cfg.Threshold
		}
		if cfg.HistoryTurns >= 0 {
			r.cfg.HistoryTurns = cfg.HistoryTurns
		}
		r.cfg.TurnTimeout = cfg.TurnTimeout
	}
}

func WithSchemaValidator(v *interpreter.SchemaValidator) Option {
	return func(r *Runtime) {
		r.schema = v
	}
}

func WithClock(clock func() time.Time) Option {
	return func(r *Runtime) {
		r.clock = clock
	}
}

func WithLogFields(fields logrus.Fields) Option {
	return func(r *Runtime) {
		r.fields = fields
	}
}

// Runtime owns one conversation: its transcript, its confirmation gate and
// the in-flight generation.
type Runtime struct {
	log       *logrus.Logger
	fields    logrus.Fields
	generator generator.IGenerator
	registry  capability.IRegistry
	gate      *gate.Gate
	schema    *interpreter.SchemaValidator
	ids       utils.IUtils
	clock     func() time.Time
	cfg       Config
	observers *observers

	mu         sync.Mutex
	transcript []entity.TranscriptEntry
	turn       uint64
	cancelTurn context.CancelFunc
	genDone    chan struct{}
	processing bool
	closed     bool

	// handlers run one at a time
	execMu sync.Mutex
	// executing counts handler runs Close must wait for
	executing sync.WaitGroup
}

func New(log *logrus.Logger, gen generator.IGenerator, registry capability.IRegistry, opts ...Option) *Runtime {
	r := &Runtime{
		log:       log,
		fields:    logrus.Fields{},
		generator: gen,
		registry:  registry,
		ids:       utils.New(),
		clock:     time.Now,
		cfg:       DefaultConfig(),
		observers: newObservers(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.gate = gate.New(r.cfg.Threshold).WithClock(r.clock)
	return r
}

func (r *Runtime) logger() *logrus.Entry {
	return r.log.WithFields(r.fields)
}

// SubmitInput runs one turn. It cancels any in-flight generation, supersedes a
// pending decision and waits until the turn settles. A turn that is cancelled
// or superseded leaves no transcript entry and returns ErrTurnCancelled.
func (r *Runtime) SubmitInput(ctx context.Context, text string) (Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{}, ErrEmptyInput
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	if r.cancelTurn != nil {
		r.cancelTurn()
	}
	previous := r.genDone

	var (
		turnCtx context.Context
		cancel  context.CancelFunc
	)
	if r.cfg.TurnTimeout > 0 {
		turnCtx, cancel = context.WithTimeout(ctx, r.cfg.TurnTimeout)
	} else {
		turnCtx, cancel = context.WithCancel(ctx)
	}
	r.turn++
	turn := r.turn
	r.cancelTurn = cancel
	genDone := make(chan struct{})
	r.genDone = genDone

	history := r.historyLocked()
	if r.gate.Supersede() {
		r.appendLocked(r.assistantEntry(SupersededMessage, nil, false))
		r.publishPendingLocked(nil)
	}
	r.appendLocked(entity.TranscriptEntry{
		ID:         r.ids.NewID(),
		Text:       text,
		IsFromUser: true,
		Timestamp:  r.clock(),
	})
	r.setProcessingLocked(true)
	r.mu.Unlock()

	defer func() {
		cancel()
		r.mu.Lock()
		if r.turn == turn {
			r.cancelTurn = nil
			r.setProcessingLocked(false)
		}
		r.mu.Unlock()
	}()

	output, genErr := r.generate(turnCtx, previous, genDone, history, text)

	r.mu.Lock()
	if r.turn != turn || errors.Is(turnCtx.Err(), context.Canceled) {
		r.mu.Unlock()
		r.logger().WithField("turn", turn).Debug("Turn cancelled before settling")
		return Outcome{Kind: OutcomeCancelled}, ErrTurnCancelled
	}

	if genErr != nil {
		r.logger().WithField("error", genErr.Error()).Warn("Generation failed")
		entry := r.appendLocked(r.assistantEntry(immediateErrorPrefix+genErr.Error(), nil, false))
		r.mu.Unlock()
		return Outcome{Kind: OutcomeFailed, Entry: &entry}, nil
	}

	decision, parseErr := interpreter.Parse(output)
	if parseErr != nil {
		if !interpreter.IsUnrecognizedKind(parseErr) {
			r.logger().WithFields(logrus.Fields{
				"error":  parseErr.Error(),
				"output": output,
			}).Warn("Could not parse generator output")
			entry := r.appendLocked(r.assistantEntry(immediateErrorPrefix+parseErr.Error(), nil, false))
			r.mu.Unlock()
			return Outcome{Kind: OutcomeFailed, Entry: &entry}, nil
		}
		r.logger().WithField("error", parseErr.Error()).Warn("Generator produced an unrecognized intent")
		if strings.TrimSpace(decision.NaturalLanguageResponse) == "" {
			decision.NaturalLanguageResponse = capability.UnknownMessage
		}
	}

	if r.schema != nil {
		if err := r.schema.Validate(decision); err != nil {
			r.logger().WithFields(logrus.Fields{
				"intent": decision.Kind,
				"error":  err.Error(),
			}).Debug("Decision parameters do not match schema")
		}
	}

	action, err := r.gate.Evaluate(decision)
	if err != nil {
		entry := r.appendLocked(r.assistantEntry(immediateErrorPrefix+err.Error(), nil, false))
		r.mu.Unlock()
		return Outcome{Kind: OutcomeFailed, Entry: &entry, Decision: &decision}, nil
	}

	r.logger().WithFields(logrus.Fields{
		"intent":     decision.Kind,
		"confidence": decision.Confidence,
		"action":     action.String(),
	}).Info("Decision evaluated")

	switch action {
	case gate.ActionClarify:
		entry := r.appendLocked(r.assistantEntry(decision.NaturalLanguageResponse, nil, false))
		r.mu.Unlock()
		return Outcome{Kind: OutcomeClarified, Entry: &entry, Decision: &decision}, nil

	case gate.ActionAwait:
		kind := decision.Kind
		text := strings.TrimSpace(decision.NaturalLanguageResponse + " " + ConfirmationPrompt)
		entry := r.appendLocked(r.assistantEntry(text, &kind, true))
		pending := decision.Clone()
		r.publishPendingLocked(&pending)
		r.mu.Unlock()
		return Outcome{Kind: OutcomeAwaiting, Entry: &entry, Decision: &decision}, nil
	}

	if r.closed {
		r.mu.Unlock()
		return Outcome{Kind: OutcomeCancelled}, ErrClosed
	}
	r.executing.Add(1)
	r.mu.Unlock()
	defer r.executing.Done()
	return r.execute(ctx, decision, immediateErrorPrefix), nil
}

func (r *Runtime) generate(ctx context.Context, previous, done chan struct{}, history []generator.Turn, input string) (string, error) {
	defer close(done)

	if previous != nil {
		select {
		case <-previous:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	prompt := generator.NewPrompt(r.cfg.SystemInstruction, history, input, r.cfg.HistoryTurns)
	stream, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	output, err := generator.Collect(ctx, stream)
	if errors.Is(err, context.DeadlineExceeded) {
		err = generator.ErrGenerationTimeout
	}
	return output, err
}

// ConfirmPending executes the decision awaiting confirmation. Without one it
// does nothing and returns ErrNothingPending. A closed runtime returns
// ErrClosed and keeps the decision unexecuted.
func (r *Runtime) ConfirmPending(ctx context.Context) (Outcome, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return Outcome{}, ErrClosed
	}
	r.executing.Add(1)
	r.mu.Unlock()
	defer r.executing.Done()

	decision, ok := r.gate.Confirm()
	if !ok {
		return Outcome{}, ErrNothingPending
	}

	r.mu.Lock()
	r.publishPendingLocked(nil)
	r.mu.Unlock()

	return r.execute(ctx, decision, confirmErrorPrefix), nil
}

// CancelPending discards the decision awaiting confirmation and notes it in
// the transcript. It reports whether there was one.
func (r *Runtime) CancelPending() bool {
	if !r.gate.Cancel() {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.publishPendingLocked(nil)
	r.appendLocked(r.assistantEntry(CancelledMessage, nil, false))
	return true
}

// Stop cancels the in-flight generation, if any. The cancelled turn leaves no
// transcript entry.
func (r *Runtime) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancelTurn == nil {
		return false
	}
	r.cancelTurn()
	r.cancelTurn = nil
	return true
}

// ClearTranscript removes every entry. A pending decision stays pending.
func (r *Runtime) ClearTranscript() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transcript = nil
	r.publishLocked(Event{Type: EventCleared})
}

func (r *Runtime) Transcript() []entity.TranscriptEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.TranscriptEntry{}, r.transcript...)
}

func (r *Runtime) Pending() (entity.Decision, bool) {
	p, ok := r.gate.Pending()
	return p.Decision, ok
}

func (r *Runtime) Processing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.processing
}

// Subscribe streams runtime events. The returned func unsubscribes and closes
// the channel.
func (r *Runtime) Subscribe(buffer int) (<-chan Event, func()) {
	return r.observers.subscribe(buffer)
}

// Close stops the in-flight turn, waits for running handlers and closes every
// subscription. Later calls that would run a handler return ErrClosed.
func (r *Runtime) Close() {
	r.mu.Lock()
	r.closed = true
	if r.cancelTurn != nil {
		r.cancelTurn()
		r.cancelTurn = nil
	}
	done := r.genDone
	r.mu.Unlock()

	if done != nil {
		<-done
	}
	r.executing.Wait()
	r.observers.closeAll()
}

func (r *Runtime) execute(ctx context.Context, decision entity.Decision, errPrefix string) Outcome {
	kind := decision.Kind

	r.execMu.Lock()
	start := r.clock()
	result, err := r.registry.Dispatch(context.WithoutCancel(ctx), decision)
	elapsed := r.clock().Sub(start)
	r.execMu.Unlock()

	fields := logrus.Fields{
		"intent":     kind,
		"elapsed_ms": elapsed.Milliseconds(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		fields["error"] = err.Error()
		r.logger().WithFields(fields).Warn("Capability failed")

		entry := r.appendLocked(r.assistantEntry(errPrefix+err.Error(), &kind, false))
		failed := entity.ExecutionResult{Success: false, Message: err.Error()}
		r.publishLocked(Event{Type: EventExecuted, Decision: &decision, Result: &failed, Error: err.Error()})
		return Outcome{Kind: OutcomeFailed, Entry: &entry, Decision: &decision, Result: &failed}
	}

	fields["success"] = result.Success
	r.logger().WithFields(fields).Info("Capability executed")

	message := result.Message
	if strings.TrimSpace(message) == "" {
		message = decision.NaturalLanguageResponse
	}
	entry := r.appendLocked(r.assistantEntry(message, &kind, false))
	r.publishLocked(Event{Type: EventExecuted, Decision: &decision, Result: &result})
	return Outcome{Kind: OutcomeExecuted, Entry: &entry, Decision: &decision, Result: &result}
}

func (r *Runtime) historyLocked() []generator.Turn {
	n := len(r.transcript)
	if r.cfg.HistoryTurns < n {
		n = r.cfg.HistoryTurns
	}
	turns := make([]generator.Turn, 0, n)
	for _, e := range r.transcript[len(r.transcript)-n:] {
		turns = append(turns, generator.Turn{Text: e.Text, IsFromUser: e.IsFromUser})
	}
	return turns
}

func (r *Runtime) assistantEntry(text string, kind *entity.IntentKind, requiresConfirmation bool) entity.TranscriptEntry {
	return entity.TranscriptEntry{
		ID:                   r.ids.NewID(),
		Text:                 text,
		Timestamp:            r.clock(),
		AssociatedKind:       kind,
		RequiresConfirmation: requiresConfirmation,
	}
}

func (r *Runtime) appendLocked(e entity.TranscriptEntry) entity.TranscriptEntry {
	r.transcript = append(r.transcript, e)
	r.publishLocked(Event{Type: EventEntry, Entry: &e})
	return e
}

func (r *Runtime) publishPendingLocked(d *entity.Decision) {
	r.publishLocked(Event{Type: EventPending, Pending: d})
}

func (r *Runtime) setProcessingLocked(processing bool) {
	r.processing = processing
	r.publishLocked(Event{Type: EventState})
}

func (r *Runtime) publishLocked(ev Event) {
	ev.At = r.clock()
	ev.Processing = r.processing
	if dropped := r.observers.publish(ev); dropped > 0 {
		r.logger().WithFields(logrus.Fields{
			"event":   ev.Type,
			"dropped": dropped,
		}).Debug("Slow subscribers missed an event")
	}
}
