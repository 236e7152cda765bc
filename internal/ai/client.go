// Package ai holds the chat-completion client used for resume parsing,
// job analysis, match scoring and interview generation.
package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Client is an abstraction over chat-completion providers
type Client interface {
	// Chat generates free-form text from a prompt
	Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// ChatJSON generates a JSON document from a prompt, with markdown
	// code fences already stripped
	ChatJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// Model returns the primary model name
	Model() string
}

// NewClient returns a Groq-backed client, or a canned-response client
// when no API key is configured so the rest of the system stays usable.
func NewClient(apiKey, model string) Client {
	if apiKey == "" {
		log.Println("[ai] no API key configured, using canned responses")
		return NewMockClient()
	}
	return NewGroqClient(apiKey, model)
}

// GroqClient implements Client against Groq's OpenAI-compatible API
type GroqClient struct {
	client *openai.Client
	models []string
}

// Fallback models tried in order when the configured model is
// unavailable or rate limited.
var fallbackModels = []string{
	"llama-3.3-70b-versatile",
	"llama-3.1-8b-instant",
	"gemma2-9b-it",
}

const groqBaseURL = "https://api.groq.com/openai/v1"

// NewGroqClient creates a client for Groq's chat completion endpoint
func NewGroqClient(apiKey, model string) *GroqClient {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL

	models := make([]string, 0, len(fallbackModels)+1)
	if model != "" {
		models = append(models, model)
	}
	for _, m := range fallbackModels {
		if m != model {
			models = append(models, m)
		}
	}

	return &GroqClient{
		client: openai.NewClientWithConfig(cfg),
		models: models,
	}
}

// Model returns the primary model name
func (c *GroqClient) Model() string {
	return c.models[0]
}

// Chat generates free-form text from a prompt
func (c *GroqClient) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.complete(ctx, systemPrompt, userPrompt, nil)
}

// ChatJSON generates a JSON document from a prompt
func (c *GroqClient) ChatJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	text, err := c.complete(ctx, systemPrompt, userPrompt, &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	})
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// complete walks the model list until one answers
func (c *GroqClient) complete(ctx context.Context, systemPrompt, userPrompt string, format *openai.ChatCompletionResponseFormat) (string, error) {
	messages := []openai.ChatCompletionMessage{}
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	var lastErr error
	for _, model := range c.models {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:          model,
			Messages:       messages,
			Temperature:    0.1, // low temperature for consistent output
			ResponseFormat: format,
		})
		if err != nil {
			lastErr = err
			log.Printf("[ai] model %s failed, trying next: %v", model, err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("no choices in response from %s", model)
			continue
		}
		text := strings.TrimSpace(resp.Choices[0].Message.Content)
		if text == "" {
			lastErr = fmt.Errorf("empty response from %s", model)
			continue
		}
		return text, nil
	}
	return "", fmt.Errorf("all models failed: %w", lastErr)
}
