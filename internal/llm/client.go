// Package llm wraps the Anthropic messages API with streaming output. The
// client is constructed once and injected; callers receive deltas through a
// callback as they arrive.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"

	// The thinking feature requires at least this budget.
	minReasoningBudget = 1024
)

// Message is one turn of a chat transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chunk is a single streamed delta: type "text" or "thinking".
type Chunk struct {
	Type  string `json:"type"`
	Delta string `json:"delta"`
}

// Streamer is what the HTTP layer consumes; tests substitute a fake.
type Streamer interface {
	StreamChat(ctx context.Context, model string, messages []Message, fn func(Chunk) error) error
}

type Client struct {
	apiKey          string
	baseURL         string
	httpc           *http.Client
	maxTokens       int
	reasoningBudget int
	reasoningModel  string
	log             *zap.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the internal HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpc = h
		}
	}
}

func WithMaxTokens(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithReasoning marks a model name as the reasoning variant and sets its
// thinking budget.
func WithReasoning(model string, budget int) Option {
	return func(c *Client) {
		c.reasoningModel = model
		c.reasoningBudget = budget
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		// First headers can take a while on busy models.
		ResponseHeaderTimeout: 120 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConnsPerHost:   16,
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		// Timeout stays 0 so long streamed reads are not cut off.
		httpc:     &http.Client{Timeout: 0, Transport: tr},
		maxTokens: 1028,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type thinkingConfig struct {
	Type         string `json:"type"`
	BudgetTokens int    `json:"budget_tokens"`
}

type messagesRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Messages    []Message       `json:"messages"`
	Stream      bool            `json:"stream"`
	Temperature float64         `json:"temperature"`
	Thinking    *thinkingConfig `json:"thinking,omitempty"`
}

type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		Thinking string `json:"thinking"`
	} `json:"delta"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// StreamChat runs one streamed completion, invoking fn for every delta.
// A non-nil error from fn aborts the stream and is returned as-is.
func (c *Client) StreamChat(ctx context.Context, model string, messages []Message, fn func(Chunk) error) error {
	body := messagesRequest{
		Model:       model,
		MaxTokens:   c.maxTokens,
		Messages:    messages,
		Stream:      true,
		Temperature: 0.1,
	}
	if model == c.reasoningModel {
		if c.reasoningBudget >= minReasoningBudget {
			body.Thinking = &thinkingConfig{Type: "enabled", BudgetTokens: c.reasoningBudget}
			body.Temperature = 1.0
		} else {
			c.log.Warn("reasoning budget below minimum, thinking disabled",
				zap.String("model", model),
				zap.Int("budget", c.reasoningBudget),
			)
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Anthropic-Version", anthropicVersion)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("anthropic api error: status=%d body=%s", resp.StatusCode, truncate(string(raw), 512))
	}

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "event:") || strings.HasPrefix(line, ":") {
			continue
		}
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		var ev streamEvent
		if err := json.Unmarshal([]byte(strings.TrimSpace(data)), &ev); err != nil {
			c.log.Warn("skipping undecodable stream event", zap.Error(err))
			continue
		}
		switch ev.Type {
		case "content_block_delta":
			switch ev.Delta.Type {
			case "text_delta":
				if err := fn(Chunk{Type: "text", Delta: ev.Delta.Text}); err != nil {
					return err
				}
			case "thinking_delta":
				if err := fn(Chunk{Type: "thinking", Delta: ev.Delta.Thinking}); err != nil {
					return err
				}
			}
		case "error":
			if ev.Error != nil {
				return fmt.Errorf("stream error: %s: %s", ev.Error.Type, ev.Error.Message)
			}
			return fmt.Errorf("stream error")
		case "message_stop":
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
