package guard

import (
	"net/http"
	"time"

	"github.com/promptsentry/promptsentry-go/guardhttp"
)

// Option configures a Client at construction time. Configuration is
// immutable afterward, which is what makes a Client safe to share across
// goroutines.
type Option func(*Client)

// WithAPIKey sets the API key explicitly, taking precedence over the
// EnvAPIKey environment variable.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithBaseURL overrides the service base URL (for testing or self-hosted
// deployments).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithMaxWaitTime bounds how long a Detect call may take before the
// client cancels it and fails open.
func WithMaxWaitTime(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.maxWaitTime = d
		}
	}
}

// WithHTTPClient injects a custom HTTP client. The per-call deadline is
// applied via context, so the injected client needs no Timeout of its own.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger installs a structured logger for request/response/fail-open
// events. The default is guardhttp.NopLogger.
func WithLogger(l guardhttp.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics installs a metrics sink. The default is guardhttp.NopMetrics.
func WithMetrics(m guardhttp.Metrics) Option {
	return func(c *Client) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithCanaryLength sets the default canary word length used by
// EmbedCanary. Zero keeps the package default.
func WithCanaryLength(length int) Option {
	return func(c *Client) {
		if length > 0 {
			c.canaryLength = length
		}
	}
}

// WithCanaryFormat sets the default canary marker template used by
// EmbedCanary. The template must contain the canary.Placeholder token.
func WithCanaryFormat(format string) Option {
	return func(c *Client) {
		if format != "" {
			c.canaryFormat = format
		}
	}
}
