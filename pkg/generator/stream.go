package generator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Source pushes fragments through emit until it returns false or the source
// is exhausted. It must return promptly once ctx is done.
type Source func(ctx context.Context, emit func(fragment string) bool) error

type Stream struct {
	fragments chan string
	done      chan struct{}
	cancel    context.CancelFunc
	closeOnce sync.Once
	err       error
	count     int
}

type streamConfig struct {
	maxFragments int
}

type StreamOption func(*streamConfig)

func WithMaxFragments(n int) StreamOption {
	return func(c *streamConfig) {
		if n > 0 {
			c.maxFragments = n
		}
	}
}

// Start runs src on its own goroutine and exposes what it emits as a Stream.
// The stream ends at the end marker, after the fragment cap, when src returns,
// or when ctx is cancelled.
func Start(ctx context.Context, backend string, log *logrus.Logger, src Source, opts ...StreamOption) *Stream {
	cfg := streamConfig{maxFragments: DefaultMaxFragments}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		fragments: make(chan string),
		done:      make(chan struct{}),
		cancel:    cancel,
	}

	go func() {
		defer close(s.done)
		defer cancel()

		start := time.Now()
		ended := false

		emit := func(fragment string) bool {
			if ended || ctx.Err() != nil {
				return false
			}
			if i := strings.Index(fragment, EndMarker); i >= 0 {
				fragment = fragment[:i]
				ended = true
			}
			if fragment != "" {
				select {
				case s.fragments <- fragment:
					s.count++
				case <-ctx.Done():
					return false
				}
			}
			if s.count >= cfg.maxFragments {
				ended = true
			}
			return !ended
		}

		err := src(ctx, emit)
		if ctxErr := ctx.Err(); ctxErr != nil && !ended {
			err = ctxErr
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				err = ErrGenerationTimeout
			}
		}
		s.err = err
		close(s.fragments)

		if log != nil {
			fields := logrus.Fields{
				"backend":    backend,
				"elapsed_ms": time.Since(start).Milliseconds(),
				"fragments":  s.count,
			}
			if err != nil {
				fields["error"] = err.Error()
			}
			log.WithFields(fields).Info("Generation finished")
		}
	}()

	return s
}

func (s *Stream) Fragments() <-chan string {
	return s.fragments
}

// Err blocks until the producer has stopped and reports why it stopped.
func (s *Stream) Err() error {
	<-s.done
	return s.err
}

// Close cancels the producer and waits for it to release its resources.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		for range s.fragments {
		}
		<-s.done
	})
}

// Collect concatenates the stream. Partial text is never returned alongside
// an error.
func Collect(ctx context.Context, s *Stream) (string, error) {
	defer s.Close()

	var b strings.Builder
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case fragment, ok := <-s.fragments:
			if !ok {
				if err := s.Err(); err != nil {
					return "", err
				}
				return b.String(), nil
			}
			b.WriteString(fragment)
		}
	}
}

// Chunk splits text into fragments of at most size runes.
func Chunk(text string, size int) []string {
	if size <= 0 {
		size = 1
	}
	runes := []rune(text)
	out := make([]string, 0, len(runes)/size+1)
	for len(runes) > 0 {
		n := size
		if n > len(runes) {
			n = len(runes)
		}
		out = append(out, string(runes[:n]))
		runes = runes[n:]
	}
	return out
}
