package guardhttp

import "fmt"

const (
	// MaxLoggedBodyLength is the maximum length of response body text to
	// include in logs. Bodies longer than this are truncated to prevent
	// logging sensitive data (prompts may contain user content).
	MaxLoggedBodyLength = 200
)

// TruncateForLogging safely truncates a body string for logging purposes.
//
// Returns the first MaxLoggedBodyLength characters plus a truncation
// indicator if truncated.
func TruncateForLogging(body string) string {
	if len(body) <= MaxLoggedBodyLength {
		return body
	}
	return body[:MaxLoggedBodyLength] + fmt.Sprintf("... [truncated, total length=%d bytes]", len(body))
}
