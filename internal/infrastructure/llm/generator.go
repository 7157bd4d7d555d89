package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Generator turns a prompt into a single chat completion. The temperature
// is fixed per handle: answering runs deterministic, case generation runs
// slightly warmer so repeated sessions differ.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewGenerator(client *openai.Client, model string, temperature float32) *Generator {
	return &Generator{
		client:      client,
		model:       model,
		temperature: temperature,
	}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", wrapTemporaryIfNeeded(fmt.Errorf("chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: response has no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
