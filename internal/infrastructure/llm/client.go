package llm

import (
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// NewClient builds a client for any OpenAI-compatible completion API.
// An empty baseURL targets the public OpenAI endpoint.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if u := strings.TrimSpace(baseURL); u != "" {
		cfg.BaseURL = u
	}
	return openai.NewClientWithConfig(cfg)
}
