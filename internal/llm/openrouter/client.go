package openrouter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"recommender-backend/internal/llm"
	"recommender-backend/internal/shared/metrics"
	"recommender-backend/internal/shared/telemetry"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "anthropic/claude-3-haiku"
	DefaultOrigin  = "http://localhost:3000"
	DefaultTitle   = "AI Book & Movie Recommender"

	breakerName     = "openrouter"
	maxErrorBodyLen = 2048
)

// Config carries everything the client needs; nothing is read from the environment.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Origin is sent as HTTP-Referer to identify the deployment.
	Origin string
	// Title is sent as X-Title.
	Title string
	// Timeout of zero keeps the transport default.
	Timeout time.Duration
	// BreakerMaxFailures of zero disables the circuit breaker.
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
	HTTPClient         *http.Client
}

// Client implements llm.Completer against the OpenRouter chat-completions API.
type Client struct {
	cfg        Config
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[string]
}

// NewClient constructs a client. A missing API key is not an error here; Complete reports it.
func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if strings.TrimSpace(cfg.Origin) == "" {
		cfg.Origin = DefaultOrigin
	}
	if strings.TrimSpace(cfg.Title) == "" {
		cfg.Title = DefaultTitle
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	c := &Client{
		cfg:        cfg,
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		httpClient: httpClient,
	}
	if cfg.BreakerMaxFailures > 0 {
		c.breaker = newBreaker(cfg.BreakerMaxFailures, cfg.BreakerOpenTimeout)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
}

// Complete sends prompt as a single user message and returns the first choice's content.
// An empty choices list yields an empty reply, not an error.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", llm.ErrMissingCredential
	}
	if c.breaker == nil {
		return c.completeOnce(ctx, prompt)
	}
	reply, err := c.breaker.Execute(func() (string, error) {
		return c.completeOnce(ctx, prompt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", llm.ErrUnavailable, err)
	}
	return reply, err
}

func (c *Client) completeOnce(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	reply, err := c.send(ctx, prompt)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ObserveLLMRequest(outcome, time.Since(start))
	return reply, err
}

func (c *Client) send(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", c.cfg.Origin)
	req.Header.Set("X-Title", c.cfg.Title)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("openrouter request timeout: %w", err)
		}
		return "", fmt.Errorf("openrouter request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openrouter read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &llm.StatusError{
			Code:   resp.StatusCode,
			Status: statusText(resp),
			Body:   truncate(strings.TrimSpace(string(body)), maxErrorBodyLen),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("openrouter response parse: %w", err)
	}
	logUsage(c.cfg.Model, parsed)
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

// statusText returns the reason phrase, e.g. "Internal Server Error".
func statusText(resp *http.Response) string {
	code := fmt.Sprintf("%d", resp.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func logUsage(model string, parsed chatResponse) {
	fields := map[string]any{"model": model, "response_model": parsed.Model, "choices": len(parsed.Choices)}
	if parsed.Usage != nil {
		fields["prompt_tokens"] = parsed.Usage.PromptTokens
		fields["completion_tokens"] = parsed.Usage.CompletionTokens
		fields["total_tokens"] = parsed.Usage.TotalTokens
	}
	telemetry.Info("llm.response", fields)
}

var _ llm.Completer = (*Client)(nil)
