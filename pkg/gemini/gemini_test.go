package gemini_test

import (
	"io"
	"testing"

	"ArdenGolang/pkg/gemini"
	"ArdenGolang/pkg/generator"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	log := logrus.New()
	log.SetOutput(io.Discard)

	_, err := gemini.NewGeminiClient(log, 64)
	assert.ErrorIs(t, err, generator.ErrBackendUnavailable)
}

func TestHistory_MapsRoles(t *testing.T) {
	prompt := generator.NewPrompt("sys", []generator.Turn{
		{Text: "turn on the flashlight", IsFromUser: true},
		{Text: "Flashlight turned on"},
	}, "thanks", 5)

	history := gemini.History(prompt)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, genai.Text("Flashlight turned on"), history[1].Parts[0])
}
