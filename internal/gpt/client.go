// Package gpt talks to an OpenAI-compatible chat-completions API. Its one
// job in the planner is turning free-text instructions into structured steps
// with dependencies (see Structurer).
package gpt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/x/ansi"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT4oMini

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithModel overrides the default model name.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at another OpenAI-compatible server.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float32) ClientOption {
	return func(c *Client) { c.temperature = t }
}

// WithMaxTokens sets the response token limit.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) { c.maxTokens = n }
}

// WithHTTPTimeout sets the per-request HTTP timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithBackoff replaces the retry policy. The factory is called once per Chat.
func WithBackoff(newBackoff func() backoff.BackOff) ClientOption {
	return func(c *Client) { c.newBackoff = newBackoff }
}

// Client sends chat completions and retries transient failures.
type Client struct {
	api         *openai.Client
	apiKey      string
	baseURL     string
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	newBackoff  func() backoff.BackOff
	log         *logger.Logger
}

// NewClient creates a chat client. An empty apiKey yields a client whose
// every call fails with domain.ErrNotConfigured.
func NewClient(apiKey string, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:      apiKey,
		model:       DefaultModel,
		temperature: 0.2,
		maxTokens:   1500,
		timeout:     60 * time.Second,
		newBackoff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff(
				backoff.WithInitialInterval(500*time.Millisecond),
				backoff.WithMaxInterval(5*time.Second),
				backoff.WithMaxElapsedTime(30*time.Second),
			)
		},
		log: log,
	}
	for _, o := range opts {
		o(c)
	}

	cfg := openai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: c.timeout}
	c.api = openai.NewClientWithConfig(cfg)
	return c
}

// Configured reports whether the client has credentials.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Chat sends a system prompt and a user message and returns the reply.
// With jsonMode set the model is asked for a JSON object.
func (c *Client) Chat(ctx context.Context, system, user string, jsonMode bool) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("gpt: %w: no API key", domain.ErrNotConfigured)
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	c.log.Debug("gpt: chat %s (%d chars)", c.model, len(system)+len(user))

	attempt := func() (string, error) {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			if !retryable(err) {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", backoff.Permanent(fmt.Errorf("%w: no choices", domain.ErrBadLLMResponse))
		}
		return resp.Choices[0].Message.Content, nil
	}
	notify := func(err error, wait time.Duration) {
		c.log.Warn("gpt: attempt failed, retrying in %s: %v", wait, err)
	}

	reply, err := backoff.RetryNotifyWithData(attempt, backoff.WithContext(c.newBackoff(), ctx), notify)
	if err != nil {
		return "", fmt.Errorf("gpt: chat: %w", err)
	}

	c.log.Debug("gpt: reply (%d chars): %s", len(reply), truncate(reply, 120))
	return reply, nil
}

// retryable reports whether a failed request is worth repeating: rate
// limits, server errors, and transport failures are; other client errors
// are not.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	default:
		return true
	}
	return status == http.StatusTooManyRequests || status >= 500 || status == 0
}

// truncate shortens s to at most n cells for logging without splitting a
// character.
func truncate(s string, n int) string {
	return ansi.Truncate(s, n, "...")
}
