package capability

import (
	"context"
	"fmt"
	"sync"

	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/param"

	"github.com/sirupsen/logrus"
)

const UnknownMessage = "I'm not sure how to help with that. Could you rephrase?"

// Handler performs the effect of one intent kind. It receives a copy of the
// decision's parameters.
type Handler interface {
	Handle(ctx context.Context, params param.Params) (entity.ExecutionResult, error)
}

type HandlerFunc func(ctx context.Context, params param.Params) (entity.ExecutionResult, error)

func (f HandlerFunc) Handle(ctx context.Context, params param.Params) (entity.ExecutionResult, error) {
	return f(ctx, params)
}

type IRegistry interface {
	Register(kind entity.IntentKind, h Handler) error
	Lookup(kind entity.IntentKind) (Handler, bool)
	Kinds() []entity.IntentKind
	Dispatch(ctx context.Context, d entity.Decision) (entity.ExecutionResult, error)
}

type Registry struct {
	mu       sync.RWMutex
	handlers map[entity.IntentKind]Handler
	log      *logrus.Logger
}

func NewRegistry(log *logrus.Logger) *Registry {
	return &Registry{
		handlers: make(map[entity.IntentKind]Handler),
		log:      log,
	}
}

// Register installs h for kind, replacing any previous handler. The unknown
// kind is answered by the registry itself and cannot be registered.
func (r *Registry) Register(kind entity.IntentKind, h Handler) error {
	if !kind.Valid() || kind == entity.IntentUnknown {
		return fmt.Errorf("capability: cannot register handler for %q", kind)
	}
	if h == nil {
		return fmt.Errorf("capability: nil handler for %q", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = h
	return nil
}

func (r *Registry) Lookup(kind entity.IntentKind) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[kind]
	return h, ok
}

func (r *Registry) Kinds() []entity.IntentKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]entity.IntentKind, 0, len(r.handlers))
	for _, k := range entity.IntentKinds() {
		if _, ok := r.handlers[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Dispatch routes d to its handler. Handler failures, including panics, come
// back as *Error.
func (r *Registry) Dispatch(ctx context.Context, d entity.Decision) (res entity.ExecutionResult, err error) {
	if d.Kind == entity.IntentUnknown {
		return entity.ExecutionResult{Success: false, Message: UnknownMessage}, nil
	}

	h, ok := r.Lookup(d.Kind)
	if !ok {
		return entity.ExecutionResult{}, ExecutionFailed("no handler registered for %s", d.Kind)
	}

	defer func() {
		if rec := recover(); rec != nil {
			if r.log != nil {
				r.log.WithFields(logrus.Fields{
					"intent": d.Kind,
					"panic":  rec,
				}).Error("Capability handler panicked")
			}
			res = entity.ExecutionResult{}
			err = ExecutionFailed("handler for %s failed unexpectedly", d.Kind)
		}
	}()

	res, err = h.Handle(ctx, d.Parameters.Clone())
	if err != nil {
		return entity.ExecutionResult{}, Wrap(err)
	}
	return res, nil
}
