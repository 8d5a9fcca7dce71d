package generator

import (
	"context"
	"time"

	"ArdenGolang/pkg/nlp"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const StandInName = "standin"

// standInGenerator answers from the rule table instead of a model. It streams
// the canned JSON in small chunks so callers exercise the same code path as a
// real backend.
type standInGenerator struct {
	log          *logrus.Logger
	processor    nlp.INLPProcessor
	chunkSize    int
	delay        time.Duration
	maxFragments int
}

type StandInOption func(*standInGenerator)

// WithFragmentDelay paces fragments, mimicking model latency.
func WithFragmentDelay(d time.Duration) StandInOption {
	return func(g *standInGenerator) {
		g.delay = d
	}
}

func WithChunkSize(n int) StandInOption {
	return func(g *standInGenerator) {
		if n > 0 {
			g.chunkSize = n
		}
	}
}

func WithStandInMaxFragments(n int) StandInOption {
	return func(g *standInGenerator) {
		g.maxFragments = n
	}
}

func NewStandIn(log *logrus.Logger, processor nlp.INLPProcessor, opts ...StandInOption) IGenerator {
	g := &standInGenerator{
		log:          log,
		processor:    processor,
		chunkSize:    8,
		maxFragments: DefaultMaxFragments,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *standInGenerator) Name() string {
	return StandInName
}

func (g *standInGenerator) Generate(ctx context.Context, prompt Prompt) (*Stream, error) {
	result, err := g.processor.ProcessCommand(prompt.Input)
	if err != nil {
		return nil, err
	}

	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(result)
	if err != nil {
		return nil, err
	}

	g.log.WithFields(logrus.Fields{
		"rule":   result.Rule,
		"intent": result.Intent,
	}).Debug("Stand-in matched rule")

	fragments := Chunk(string(body), g.chunkSize)

	return Start(ctx, StandInName, g.log, func(ctx context.Context, emit func(string) bool) error {
		for _, f := range fragments {
			if g.delay > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(g.delay):
				}
			}
			if !emit(f) {
				return nil
			}
		}
		return nil
	}, WithMaxFragments(g.maxFragments)), nil
}
