package ai

import (
	"context"
	"errors"
	"sync"
)

// ErrUnavailable signals that no model backend is configured. Callers
// fall back to their heuristic paths when they see it.
var ErrUnavailable = errors.New("ai: no model backend configured")

// MockClient is a Client with scripted responses. With no responses
// queued every call returns ErrUnavailable, which is the behavior of a
// deployment without an API key.
type MockClient struct {
	mu        sync.Mutex
	responses []string
	err       error

	// Prompts records every prompt received, for assertions
	Prompts []string
}

// NewMockClient creates an empty mock client
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Queue appends scripted responses returned in order by Chat and ChatJSON
func (c *MockClient) Queue(responses ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = append(c.responses, responses...)
}

// Fail makes every subsequent call return err
func (c *MockClient) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Model returns the mock model name
func (c *MockClient) Model() string {
	return "mock"
}

// Chat returns the next scripted response
func (c *MockClient) Chat(_ context.Context, _, userPrompt string) (string, error) {
	return c.next(userPrompt)
}

// ChatJSON returns the next scripted response with code fences stripped
func (c *MockClient) ChatJSON(_ context.Context, _, userPrompt string) (string, error) {
	text, err := c.next(userPrompt)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *MockClient) next(prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Prompts = append(c.Prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	if len(c.responses) == 0 {
		return "", ErrUnavailable
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}
