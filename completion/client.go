// Package completion talks to an OpenAI-compatible chat-completion endpoint.
package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// DefaultURL is the Groq chat-completion endpoint.
const DefaultURL = "https://api.groq.com/openai/v1/chat/completions"

const chatCompletionsPath = "/chat/completions"

// maxErrorMessage bounds how much of an upstream error message ends up in an
// error.
const maxErrorMessage = 512

// Completer sends one prompt and returns the generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options configures a Client. URL is the full chat-completion endpoint, as
// in GROQ_API_URL.
type Options struct {
	URL         string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client is a Completer backed by go-openai. Each call is a single attempt.
type Client struct {
	opts   Options
	client *openai.Client
}

// NewClient creates a client. An empty URL means DefaultURL.
func NewClient(opts Options) *Client {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}

	config := openai.DefaultConfig(opts.APIKey)
	config.BaseURL = baseURL(opts.URL)
	config.HTTPClient = &http.Client{Timeout: opts.Timeout}

	return &Client{
		opts:   opts,
		client: openai.NewClientWithConfig(config),
	}
}

// baseURL strips the endpoint path that go-openai appends itself.
func baseURL(endpoint string) string {
	return strings.TrimSuffix(strings.TrimRight(endpoint, "/"), chatCompletionsPath)
}

// Complete posts prompt as a single user message. A response without
// choices[0].message.content yields "" and no error.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(c.opts.Temperature),
		MaxTokens:   c.opts.MaxTokens,
	})
	if err != nil {
		return "", describe(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// describe keeps the upstream HTTP status in the error text.
func describe(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return fmt.Errorf("request failed with status code %d: %s", apiErr.HTTPStatusCode, truncate(apiErr.Message))
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return fmt.Errorf("request failed with status code %d: %w", reqErr.HTTPStatusCode, err)
	}
	return fmt.Errorf("failed to call completion API: %w", err)
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxErrorMessage {
		return s[:maxErrorMessage]
	}
	return s
}
