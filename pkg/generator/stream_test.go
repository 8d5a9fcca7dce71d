package generator_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ArdenGolang/pkg/generator"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func endless(produced *atomic.Int64) generator.Source {
	return func(ctx context.Context, emit func(string) bool) error {
		for {
			if !emit("tok ") {
				return nil
			}
			produced.Add(1)
		}
	}
}

func TestStream_StopsAtFragmentCap(t *testing.T) {
	defer goleak.VerifyNone(t)

	var produced atomic.Int64
	s := generator.Start(context.Background(), "test", quietLogger(), endless(&produced), generator.WithMaxFragments(512))

	text, err := generator.Collect(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 512, strings.Count(text, "tok"))
}

func TestStream_StopsAtEndMarker(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := func(ctx context.Context, emit func(string) bool) error {
		for _, f := range []string{`{"a":`, `1}<|end|>trailing`, "never"} {
			if !emit(f) {
				return nil
			}
		}
		return nil
	}

	text, err := generator.Collect(context.Background(), generator.Start(context.Background(), "test", quietLogger(), src))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)
}

func TestStream_CancelReleasesProducer(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	var produced atomic.Int64
	slow := func(ctx context.Context, emit func(string) bool) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Millisecond):
			}
			if !emit("x") {
				return nil
			}
			produced.Add(1)
		}
	}

	s := generator.Start(ctx, "test", quietLogger(), slow)
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	text, err := generator.Collect(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, text)

	after := produced.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, produced.Load(), "producer kept emitting after cancellation")
}

func TestStream_CloseWithoutReading(t *testing.T) {
	defer goleak.VerifyNone(t)

	var produced atomic.Int64
	s := generator.Start(context.Background(), "test", quietLogger(), endless(&produced))
	s.Close()
	s.Close()
	assert.Less(t, produced.Load(), int64(2))
}

func TestStream_SourceErrorSurfaces(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("backend exploded")
	src := func(ctx context.Context, emit func(string) bool) error {
		emit("partial")
		return boom
	}

	_, err := generator.Collect(context.Background(), generator.Start(context.Background(), "test", quietLogger(), src))
	assert.ErrorIs(t, err, boom)
}

func TestStream_DeadlineBecomesTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	src := func(ctx context.Context, emit func(string) bool) error {
		<-ctx.Done()
		return ctx.Err()
	}
	s := generator.Start(ctx, "test", quietLogger(), src)
	for range s.Fragments() {
	}
	assert.ErrorIs(t, s.Err(), generator.ErrGenerationTimeout)
}

func TestNewPrompt_KeepsLastTurns(t *testing.T) {
	history := make([]generator.Turn, 0, 8)
	for i := 0; i < 8; i++ {
		history = append(history, generator.Turn{Text: string(rune('a' + i)), IsFromUser: i%2 == 0})
	}

	p := generator.NewPrompt("system", history, "now", generator.DefaultHistoryTurns)
	require.Len(t, p.History, 5)
	assert.Equal(t, "d", p.History[0].Text)

	formatted := p.Format()
	assert.True(t, strings.HasPrefix(formatted, "<|system|>\nsystem<|end|>\n"))
	assert.True(t, strings.HasSuffix(formatted, "<|user|>\nnow<|end|>\n<|assistant|>\n"))
	assert.NotContains(t, formatted, "\nc<|end|>")
}
