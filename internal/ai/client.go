// Package ai provides the completion client and helpers for AI-backed tools.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/circuitbreaker"
	"github.com/summitridge/leadgen/internal/config"
	apperrors "github.com/summitridge/leadgen/internal/errors"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tunes a single completion call.
type Options struct {
	// Temperature is the sampling temperature. Nil selects
	// DefaultTemperature; Temp(0) requests deterministic output.
	Temperature *float64
	// MaxTokens defaults to 1000 when zero. Tools use 500-2000.
	MaxTokens int
	// System is an optional system instruction prepended to the messages.
	System string
}

// Temp returns a pointer for Options.Temperature.
func Temp(v float64) *float64 {
	return &v
}

// Default option values.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
)

// Advisory texts returned in place of model output. Every downstream consumer
// is written to behave sanely when it receives these.
const (
	// NotConfiguredText is returned when no provider credential is present.
	NotConfiguredText = "AI features are not currently configured. Please call or email our office and we'll be glad to help you directly."
	// UnavailableText is returned on provider or transport failure.
	UnavailableText = "Sorry, I'm having trouble responding right now. Please try again in a moment, or reach out to our office directly."
)

// Completion is the result of one completion call. Text is always usable:
// on failure it carries an advisory fallback and Err carries the detail.
type Completion struct {
	Text string
	Err  error
}

// Completer is the interface AI-backed tools consume.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts Options) Completion
	CompleteMessages(ctx context.Context, messages []Message, opts Options) Completion
}

// Client calls an OpenAI-compatible chat completions endpoint. It never
// returns an error without also returning usable fallback text, and it makes
// exactly one attempt per call: provider errors are terminal for the turn.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewClient creates a completion client. An empty API key puts the client in
// degraded mode: it never calls out and answers with NotConfiguredText.
func NewClient(cfg *config.OpenAIConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: circuitbreaker.New("completion-api", nil, logger),
		logger:  logger,
	}
}

// Configured returns true if a provider credential is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// IsCircuitOpen returns true if the provider circuit breaker is open.
func (c *Client) IsCircuitOpen() bool {
	return c.breaker.IsOpen()
}

// Complete runs a single-prompt completion, with an optional system
// instruction from opts.
func (c *Client) Complete(ctx context.Context, prompt string, opts Options) Completion {
	var messages []Message
	if opts.System != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: opts.System})
	}
	messages = append(messages, Message{Role: RoleUser, Content: prompt})
	return c.CompleteMessages(ctx, messages, opts)
}

// CompleteMessages runs a completion over a full role-tagged message list.
func (c *Client) CompleteMessages(ctx context.Context, messages []Message, opts Options) Completion {
	if !c.Configured() {
		return Completion{Text: NotConfiguredText, Err: apperrors.ErrNotConfigured}
	}

	var text string
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var execErr error
		text, execErr = c.doRequest(ctx, messages, opts)
		return execErr
	})
	if err != nil {
		c.logger.Warn("completion request failed", zap.Error(err))
		return Completion{Text: UnavailableText, Err: apperrors.ProviderError(err)}
	}

	return Completion{Text: text}
}

// chatRequest is the provider wire request.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// chatResponse is the provider wire response.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// chatError is the provider error envelope.
type chatError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// doRequest performs the actual HTTP round-trip.
func (c *Client) doRequest(ctx context.Context, messages []Message, opts Options) (string, error) {
	temperature := DefaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}
	if opts.System != "" && (len(messages) == 0 || messages[0].Role != RoleSystem) {
		messages = append([]Message{{Role: RoleSystem, Content: opts.System}}, messages...)
	}

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp chatError
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("provider error: %s - %s", errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("provider error: status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from provider")
	}

	c.logger.Debug("completion generated",
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
	)

	return chatResp.Choices[0].Message.Content, nil
}
