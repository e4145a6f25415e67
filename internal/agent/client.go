package agent

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yungbote/linguabridge-backend/internal/pkg/httpx"
	"github.com/yungbote/linguabridge-backend/internal/platform/envutil"
	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
)

const minSecretBytes = 32

// Client executes reasoning work on the agent backend. Every request body is
// HMAC-signed; the backend rejects unsigned or tampered payloads.
type Client interface {
	Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error)
}

type Config struct {
	BaseURL    string
	Secret     string
	Timeout    time.Duration
	MaxRetries int

	// HTTPClient overrides the transport, primarily for tests. Nil means a
	// default client with Timeout applied.
	HTTPClient *http.Client
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		BaseURL:    envutil.GetEnv("AGENT_BASE_URL", "http://localhost:9300", log),
		Secret:     strings.TrimSpace(os.Getenv("AGENT_SIGNING_SECRET")),
		Timeout:    envutil.GetEnvDuration("AGENT_TIMEOUT", 30*time.Second, log),
		MaxRetries: envutil.GetEnvAsInt("AGENT_MAX_RETRIES", 2, log),
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv(log))
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	// Short secrets make forged signatures practical; refuse to start.
	if len(cfg.Secret) < minSecretBytes {
		return nil, fmt.Errorf("agent: AGENT_SIGNING_SECRET must be at least %d bytes", minSecretBytes)
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("agent: base URL required")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &client{
		log:        log.With("client", "AgentClient"),
		cfg:        cfg,
		httpClient: httpClient,
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

// PromptMessage is the unit of work handed to the backend.
type PromptMessage struct {
	Kind         string          `json:"kind"`
	Text         string          `json:"text,omitempty"`
	SelectedText string          `json:"selectedText,omitempty"`
	Language     string          `json:"language,omitempty"`
	Context      json.RawMessage `json:"context,omitempty"`
}

// ExecuteRequest carries one unit of work plus its tracing identity.
// CorrelationID is the session identifier, stable across every call the
// session makes; RequestID is the turn identifier, unique per call.
type ExecuteRequest struct {
	Prompt        PromptMessage
	CorrelationID string
	RequestID     string
}

// TokenUsage is the backend's self-reported consumption for one call.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

type ExecuteResult struct {
	Output     json.RawMessage `json:"output"`
	Usage      TokenUsage      `json:"usage"`
	StatusCode int             `json:"-"`
}

type executeWire struct {
	PromptMessage PromptMessage `json:"promptMessage"`
}

// HTTPError is any non-2xx backend response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "agent: <nil error>"
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 2000 {
		msg = msg[:2000] + "..."
	}
	return fmt.Sprintf("agent http %d: %s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// RateLimitedError marks backpressure responses (429/503); callers open a
// cooldown window instead of retrying inline.
type RateLimitedError struct {
	StatusCode int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("agent rate limited (http %d)", e.StatusCode)
}

func IsRateLimited(err error) bool {
	var rl *RateLimitedError
	return errors.As(err, &rl)
}

func (c *client) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error) {
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("agent client unavailable")
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(executeWire{PromptMessage: req.Prompt}); err != nil {
		return nil, err
	}
	body := buf.Bytes()

	backoff := 1 * time.Second
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		res, resp, err := c.doOnce(ctx, req, body)
		if err == nil {
			return res, nil
		}

		// Rate limits are not retried inline; the caller opens a cooldown.
		if IsRateLimited(err) || !httpx.IsRetryableError(err) || attempt == c.cfg.MaxRetries {
			return nil, err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("Agent request retrying",
			"attempt", attempt+1,
			"max_retries", c.cfg.MaxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoff *= 2
	}
}

func (c *client) doOnce(ctx context.Context, req ExecuteRequest, body []byte) (*ExecuteResult, *http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/execute", bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Signature", Sign(c.cfg.Secret, body))
	if cid := strings.TrimSpace(req.CorrelationID); cid != "" {
		httpReq.Header.Set("X-Correlation-Id", cid)
	}
	if rid := strings.TrimSpace(req.RequestID); rid != "" {
		httpReq.Header.Set("X-Request-Id", rid)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, nil, fmt.Errorf("agent: execute: %w", err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, resp, readErr
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		return nil, resp, &RateLimitedError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out ExecuteResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, resp, fmt.Errorf("agent: decode response: %w", err)
	}
	out.StatusCode = resp.StatusCode
	return &out, resp, nil
}

// Sign computes the signature header value for a request body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a signature header against a body in constant time.
func Verify(secret, header string, body []byte) bool {
	return hmac.Equal([]byte(header), []byte(Sign(secret, body)))
}
