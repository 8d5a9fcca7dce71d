package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"ArdenGolang/pkg/generator"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const BackendName = "openai"

type chatGPTService struct {
	log          *logrus.Logger
	client       *openai.Client
	model        string
	maxFragments int
}

func NewChatGPT(log *logrus.Logger, maxFragments int) (generator.IGenerator, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", generator.ErrBackendUnavailable)
	}

	model := os.Getenv("OPENAI_CHAT_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}

	return &chatGPTService{
		log:          log,
		client:       openai.NewClientWithConfig(config),
		model:        model,
		maxFragments: maxFragments,
	}, nil
}

func (c *chatGPTService) Name() string {
	return BackendName
}

func Messages(prompt generator.Prompt) []openai.ChatCompletionMessage {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: prompt.System},
	}
	for _, turn := range prompt.History {
		role := openai.ChatMessageRoleAssistant
		if turn.IsFromUser {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt.Input,
	})
}

func (c *chatGPTService) Generate(ctx context.Context, prompt generator.Prompt) (*generator.Stream, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    Messages(prompt),
		Temperature: 0.1,
		MaxTokens:   c.maxFragments,
		Stream:      true,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ChatGPT API error: %v", generator.ErrBackendUnavailable, err)
	}

	return generator.Start(ctx, BackendName, c.log, func(ctx context.Context, emit func(string) bool) error {
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("ChatGPT stream error: %w", err)
			}
			if len(resp.Choices) == 0 {
				continue
			}
			if !emit(resp.Choices[0].Delta.Content) {
				return nil
			}
		}
	}, generator.WithMaxFragments(c.maxFragments)), nil
}
