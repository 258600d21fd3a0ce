// Package guard is the client SDK for the promptsentry prompt-injection
// detection service.
//
// The client's core rule is fail open: any operational failure of the
// detection service (unreachable, slow, erroring, or returning garbage)
// is folded into a response with Safe=true and a descriptive Error
// string, never surfaced as a Go error. Only programming errors (such as
// an empty prompt) are returned as errors, and those are raised before
// any network activity.
package guard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/promptsentry/promptsentry-go/canary"
	"github.com/promptsentry/promptsentry-go/guardhttp"
)

const (
	defaultBaseURL     = "https://api.promptsentry.dev"
	defaultMaxWaitTime = 1000 * time.Millisecond
	detectPath         = "/v1/detect"

	// EnvAPIKey is the environment variable consulted for the API key
	// when none is supplied via WithAPIKey.
	EnvAPIKey = "PROMPTSENTRY_API_KEY"
)

// Client calls the detection service. Construct it with NewClient; the
// zero value is not usable.
//
// A Client is safe for concurrent use: configuration is read-only after
// construction and each call carries its own deadline.
type Client struct {
	apiKey       string
	baseURL      string
	maxWaitTime  time.Duration
	canaryLength int
	canaryFormat string
	httpClient   *http.Client
	logger       guardhttp.Logger
	metrics      guardhttp.Metrics
}

// NewClient creates a detection client.
//
// The API key comes from WithAPIKey or, failing that, the EnvAPIKey
// environment variable. Construction fails when neither is set. The env
// lookup happens here, once, so Detect itself stays free of ambient
// state.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:      defaultBaseURL,
		maxWaitTime:  defaultMaxWaitTime,
		canaryLength: canary.DefaultLength,
		canaryFormat: canary.DefaultFormat,
		httpClient:   &http.Client{},
		logger:       guardhttp.NopLogger{},
		metrics:      guardhttp.NopMetrics{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		c.apiKey = os.Getenv(EnvAPIKey)
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("api key not provided and %s not set", EnvAPIKey)
	}

	return c, nil
}

// Detect sends req to the detection service and returns its verdict.
//
// An empty prompt is a programming error and returns a
// guardhttp.ErrInvalidArgument before any network activity. Every
// operational failure (non-2xx status, timeout, transport error,
// malformed body) fails open: the returned response has Safe=true,
// an empty DetectionID, a descriptive Error string, and a nil error.
//
// Exactly one outbound request is made per invocation; there are no
// retries. The call is bounded by the configured max wait time and is
// cancelled when the deadline elapses.
func (c *Client) Detect(ctx context.Context, req DetectionRequest) (DetectionResponse, error) {
	if req.Prompt == "" {
		return DetectionResponse{}, guardhttp.NewInvalidArgumentError("prompt must be a non-empty string")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return DetectionResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.maxWaitTime)
	defer cancel()

	url := c.baseURL + detectPath
	httpReq, err := http.NewRequestWithContext(callCtx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return DetectionResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	c.metrics.RecordRequest()
	c.logger.LogRequest(ctx, guardhttp.RequestLog{
		Endpoint:    detectPath,
		Timestamp:   start,
		PromptChars: len(req.Prompt),
		APIKey:      c.apiKey,
	})

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Distinguish our own deadline from caller cancellation: only the
		// former gets the max-wait message.
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			msg := fmt.Sprintf("Request exceeded max wait time of %dms", c.maxWaitTime.Milliseconds())
			return c.failOpen(ctx, start, guardhttp.ErrTypeTimeout, 0, msg), nil
		}
		return c.failOpen(ctx, start, guardhttp.ErrTypeTransport, 0, err.Error()), nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		// The deadline can also elapse mid-body-read; that is still a
		// timeout, not a transport failure.
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			msg := fmt.Sprintf("Request exceeded max wait time of %dms", c.maxWaitTime.Milliseconds())
			return c.failOpen(ctx, start, guardhttp.ErrTypeTimeout, 0, msg), nil
		}
		return c.failOpen(ctx, start, guardhttp.ErrTypeTransport, resp.StatusCode, err.Error()), nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cause := guardhttp.ErrTypeUnexpectedStatus
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			cause = guardhttp.ErrTypeAuthentication
		}
		msg := fmt.Sprintf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
		return c.failOpen(ctx, start, cause, resp.StatusCode, msg), nil
	}

	var result DetectionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return c.failOpen(ctx, start, guardhttp.ErrTypeDecode, resp.StatusCode, err.Error()), nil
	}

	c.metrics.RecordDuration(time.Since(start))
	c.logger.LogResponse(ctx, guardhttp.ResponseLog{
		Endpoint:    detectPath,
		Timestamp:   time.Now(),
		Duration:    time.Since(start),
		StatusCode:  resp.StatusCode,
		Safe:        result.Safe,
		DetectionID: result.DetectionID,
	})

	return result, nil
}

// failOpen folds an operational failure into a safe response and records
// it with the logger and metrics sink.
func (c *Client) failOpen(ctx context.Context, start time.Time, cause guardhttp.ErrorType, statusCode int, message string) DetectionResponse {
	duration := time.Since(start)
	c.metrics.RecordDuration(duration)
	c.metrics.RecordFailOpen(cause)
	c.logger.LogFailOpen(ctx, guardhttp.FailOpenLog{
		Endpoint:   detectPath,
		Timestamp:  time.Now(),
		Duration:   duration,
		Cause:      cause,
		StatusCode: statusCode,
		Message:    message,
	})

	return DetectionResponse{
		Safe:        true,
		DetectionID: "",
		Error:       message,
	}
}

// EmbedCanary embeds a freshly generated canary word into prompt using
// the client's configured canary length and marker format. It returns the
// combined text and the canary word.
func (c *Client) EmbedCanary(prompt string) (string, string, error) {
	word, err := canary.Generate(c.canaryLength)
	if err != nil {
		return "", "", err
	}
	return canary.Embed(prompt, word, c.canaryFormat)
}

// CheckCanary reports whether word leaked into completion. See
// canary.Check for semantics.
func (c *Client) CheckCanary(completion, word string) canary.LeakageResult {
	return canary.Check(completion, word)
}
