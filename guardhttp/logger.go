package guardhttp

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Logger provides structured logging for detection API calls.
type Logger interface {
	// LogRequest logs an outgoing API request (API key redacted)
	LogRequest(ctx context.Context, req RequestLog)

	// LogResponse logs an API response with timing info
	LogResponse(ctx context.Context, resp ResponseLog)

	// LogFailOpen logs an operational failure that was folded into a
	// safe response
	LogFailOpen(ctx context.Context, fo FailOpenLog)
}

// RequestLog contains request information for logging.
type RequestLog struct {
	Endpoint    string
	Timestamp   time.Time
	PromptChars int    // Character count of prompt
	APIKey      string // Will be redacted to last 4 chars
}

// ResponseLog contains response information for logging.
type ResponseLog struct {
	Endpoint    string
	Timestamp   time.Time
	Duration    time.Duration
	StatusCode  int
	Safe        bool
	DetectionID string
}

// FailOpenLog contains information about a folded operational failure.
type FailOpenLog struct {
	Endpoint   string
	Timestamp  time.Time
	Duration   time.Duration
	Cause      ErrorType
	StatusCode int
	Message    string
}

// LogLevel defines the logging verbosity level.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelError
)

// LogFormat defines the output format for logs.
type LogFormat int

const (
	LogFormatHuman LogFormat = iota
	LogFormatJSON
)

// DefaultLogger writes logs in structured format to stdout.
type DefaultLogger struct {
	level      LogLevel
	redactKeys bool
	format     LogFormat
}

// NewDefaultLogger creates a logger with the specified config.
func NewDefaultLogger(level LogLevel, format LogFormat, redactKeys bool) *DefaultLogger {
	return &DefaultLogger{
		level:      level,
		redactKeys: redactKeys,
		format:     format,
	}
}

// SetRedaction enables or disables API key redaction.
func (l *DefaultLogger) SetRedaction(enabled bool) {
	l.redactKeys = enabled
}

// LogRequest logs an API request.
func (l *DefaultLogger) LogRequest(ctx context.Context, req RequestLog) {
	if l.level > LogLevelDebug {
		return
	}

	// Redact API key to last 4 characters
	redacted := req.APIKey
	if l.redactKeys {
		redacted = RedactAPIKey(req.APIKey)
	}

	if l.format == LogFormatJSON {
		log.Printf(`{"level":"debug","type":"request","endpoint":"%s","timestamp":"%s","prompt_chars":%d,"api_key":"%s"}`,
			req.Endpoint, req.Timestamp.Format(time.RFC3339), req.PromptChars, redacted)
	} else {
		log.Printf("[DEBUG] %s: Request sent (prompt=%d chars, key=%s)",
			req.Endpoint, req.PromptChars, redacted)
	}
}

// LogResponse logs an API response.
func (l *DefaultLogger) LogResponse(ctx context.Context, resp ResponseLog) {
	if l.level > LogLevelInfo {
		return
	}

	if l.format == LogFormatJSON {
		log.Printf(`{"level":"info","type":"response","endpoint":"%s","timestamp":"%s","duration_ms":%d,"status_code":%d,"safe":%t,"detection_id":"%s"}`,
			resp.Endpoint, resp.Timestamp.Format(time.RFC3339),
			resp.Duration.Milliseconds(), resp.StatusCode, resp.Safe, resp.DetectionID)
	} else {
		log.Printf("[INFO] %s: Response received (duration=%.1fs, status=%d, safe=%t)",
			resp.Endpoint, resp.Duration.Seconds(), resp.StatusCode, resp.Safe)
	}
}

// LogFailOpen logs an operational failure folded into a safe response.
func (l *DefaultLogger) LogFailOpen(ctx context.Context, fo FailOpenLog) {
	if l.level > LogLevelError {
		return
	}

	if l.format == LogFormatJSON {
		log.Printf(`{"level":"error","type":"fail_open","endpoint":"%s","timestamp":"%s","duration_ms":%d,"cause":"%s","status_code":%d,"message":"%s"}`,
			fo.Endpoint, fo.Timestamp.Format(time.RFC3339),
			fo.Duration.Milliseconds(), fo.Cause.String(), fo.StatusCode,
			TruncateForLogging(fo.Message))
	} else {
		log.Printf("[ERROR] %s: failing open (%s, status=%d): %s",
			fo.Endpoint, fo.Cause.String(), fo.StatusCode, TruncateForLogging(fo.Message))
	}
}

// NopLogger discards all log records. It is the client default so the
// SDK is silent unless a host application opts in.
type NopLogger struct{}

// LogRequest implements Logger.
func (NopLogger) LogRequest(ctx context.Context, req RequestLog) {}

// LogResponse implements Logger.
func (NopLogger) LogResponse(ctx context.Context, resp ResponseLog) {}

// LogFailOpen implements Logger.
func (NopLogger) LogFailOpen(ctx context.Context, fo FailOpenLog) {}

// RedactAPIKey shows only the last 4 characters of an API key with
// explicit redaction markers.
func RedactAPIKey(key string) string {
	if len(key) <= 4 {
		return "[REDACTED]"
	}
	return fmt.Sprintf("[REDACTED-%s]", key[len(key)-4:])
}
