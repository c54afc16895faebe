package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the chat-completion contract the triage scorer depends on: a
// system instruction and a user message in, the raw model text out.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIClient calls the OpenAI chat completion API.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIClient constructs an OpenAI-backed client.  Credentials and
// model selection come from configuration; nothing is read from the
// environment here.
func NewOpenAIClient(apiKey, model string, temperature float32, maxTokens int) *OpenAIClient {
	return &OpenAIClient{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Complete sends the instruction and user message and returns the first
// choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	if c.client == nil {
		return "", errors.New("openai client not initialized")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
