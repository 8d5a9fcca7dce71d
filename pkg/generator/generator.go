package generator

import (
	"context"
	"errors"
	"strings"
)

const (
	DefaultHistoryTurns = 5
	DefaultMaxFragments = 512
	EndMarker           = "<|end|>"
)

var (
	ErrBackendUnavailable = errors.New("generation backend unavailable")
	ErrGenerationTimeout  = errors.New("generation timed out")
)

// IGenerator produces a fragment stream for a prompt. Implementations must
// stop producing once ctx is done.
type IGenerator interface {
	Name() string
	Generate(ctx context.Context, prompt Prompt) (*Stream, error)
}

type Turn struct {
	Text       string
	IsFromUser bool
}

type Prompt struct {
	System  string
	History []Turn
	Input   string
}

// NewPrompt keeps only the last `window` turns of history.
func NewPrompt(system string, history []Turn, input string, window int) Prompt {
	if window < 0 {
		window = 0
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}
	return Prompt{
		System:  system,
		History: append([]Turn{}, history...),
		Input:   input,
	}
}

// Format renders the prompt in the chat template understood by the on-device
// model runtime.
func (p Prompt) Format() string {
	var b strings.Builder
	b.WriteString("<|system|>\n")
	b.WriteString(p.System)
	b.WriteString(EndMarker + "\n")
	for _, t := range p.History {
		if t.IsFromUser {
			b.WriteString("<|user|>\n")
		} else {
			b.WriteString("<|assistant|>\n")
		}
		b.WriteString(t.Text)
		b.WriteString(EndMarker + "\n")
	}
	b.WriteString("<|user|>\n")
	b.WriteString(p.Input)
	b.WriteString(EndMarker + "\n")
	b.WriteString("<|assistant|>\n")
	return b.String()
}
