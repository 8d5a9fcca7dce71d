package nlp

import (
	"ArdenGolang/internal/entity"
	"ArdenGolang/pkg/param"
)

type IntentResult struct {
	Intent            entity.IntentKind `json:"intent"`
	Parameters        param.Params      `json:"parameters"`
	Confidence        float64           `json:"confidence"`
	NeedsConfirmation bool              `json:"needsConfirmation"`
	Response          string            `json:"naturalLanguageResponse"`
	Rule              string            `json:"-"`
	ProcessingTime    string            `json:"-"`
}

type INLPProcessor interface {
	ProcessCommand(text string) (*IntentResult, error)
	Rules() []string
}

type rule struct {
	name  string
	match func(u utterance) bool
	build func(u utterance) *IntentResult
}
