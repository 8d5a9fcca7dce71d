package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"

	"ArdenGolang/pkg/generator"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const BackendName = "gemini"

type IGemini interface {
	generator.IGenerator
	Close()
}

type geminiClient struct {
	log          *logrus.Logger
	modelName    string
	client       *genai.Client
	maxFragments int
}

func NewGeminiClient(log *logrus.Logger, maxFragments int) (IGemini, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is required", generator.ErrBackendUnavailable)
	}

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &geminiClient{
		log:          log,
		modelName:    modelName,
		client:       client,
		maxFragments: maxFragments,
	}, nil
}

func (g *geminiClient) Name() string {
	return BackendName
}

// History converts prompt turns into gemini chat contents.
func History(prompt generator.Prompt) []*genai.Content {
	history := make([]*genai.Content, 0, len(prompt.History))
	for _, turn := range prompt.History {
		role := "model"
		if turn.IsFromUser {
			role = "user"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}
	return history
}

func (g *geminiClient) Generate(ctx context.Context, prompt generator.Prompt) (*generator.Stream, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(prompt.System)}}
	model.SetTemperature(0.1)
	model.SetMaxOutputTokens(int32(g.maxFragments))
	model.ResponseMIMEType = "application/json"

	return generator.Start(ctx, BackendName, g.log, func(ctx context.Context, emit func(string) bool) error {
		cs := model.StartChat()
		cs.History = History(prompt)

		iter := cs.SendMessageStream(ctx, genai.Text(prompt.Input))
		for {
			res, err := iter.Next()
			if errors.Is(err, iterator.Done) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("gemini stream error: %w", err)
			}
			for _, cand := range res.Candidates {
				if cand.Content == nil {
					continue
				}
				for _, part := range cand.Content.Parts {
					text, ok := part.(genai.Text)
					if !ok {
						continue
					}
					if !emit(string(text)) {
						return nil
					}
				}
			}
		}
	}, generator.WithMaxFragments(g.maxFragments)), nil
}

func (g *geminiClient) Close() {
	if g.client != nil {
		g.client.Close()
	}
}
