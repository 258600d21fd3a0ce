// Package canary generates honeytoken canary words, embeds them into
// prompts, and checks model completions for leakage.
//
// A canary word is a random token planted in a system prompt. If it ever
// reappears in a completion, the prompt was leaked verbatim and the
// completion should be treated as compromised.
package canary

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/promptsentry/promptsentry-go/guardhttp"
)

const (
	// DefaultLength is the canary word length used when no length is given.
	DefaultLength = 8

	// Placeholder is the token substituted with the canary word in a
	// format template.
	Placeholder = "{canary}"

	// DefaultFormat wraps the canary word in an HTML comment so it stays
	// invisible in rendered output.
	DefaultFormat = "<!-- {canary} -->"
)

// LeakageResult reports whether a canary word appeared in a completion.
type LeakageResult struct {
	Leaked     bool   `json:"leaked"`
	CanaryWord string `json:"canaryWord"`
	Error      string `json:"error,omitempty"`
}

// Generate returns a random lowercase hexadecimal string of the requested
// length. A length of zero falls back to DefaultLength; the upstream
// source treated "no length" and "zero length" identically and that
// behavior is kept. Negative lengths are rejected.
//
// Randomness comes from crypto/rand: canary words must be unguessable or
// an attacker could fake a leak check.
func Generate(length int) (string, error) {
	if length < 0 {
		return "", guardhttp.NewInvalidArgumentError("canary length must not be negative")
	}
	if length == 0 {
		length = DefaultLength
	}

	// Each random byte yields two hex characters; draw one extra byte for
	// odd lengths and truncate.
	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf)[:length], nil
}

// Embed prepends a canary marker line to prompt and returns the combined
// text along with the canary word used.
//
// When word is empty a fresh word is generated. When format is empty
// DefaultFormat is used; otherwise format must contain Placeholder, which
// is substituted with the word. The marker always comes first, then a
// single newline, then the unmodified prompt, so the marker lands at the
// top when the result is installed as a system prompt.
func Embed(prompt, word, format string) (string, string, error) {
	if prompt == "" {
		return "", "", guardhttp.NewInvalidArgumentError("prompt must be a non-empty string")
	}

	if word == "" {
		generated, err := Generate(0)
		if err != nil {
			return "", "", err
		}
		word = generated
	}

	if format == "" {
		format = DefaultFormat
	}

	marker := strings.ReplaceAll(format, Placeholder, word)
	return marker + "\n" + prompt, word, nil
}

// Check reports whether word occurs anywhere in completion as an exact,
// case-sensitive substring. No normalization or fuzzy matching is done.
//
// Check never fails out-of-band: invalid inputs are reported in the
// result's Error field with Leaked=false.
func Check(completion, word string) LeakageResult {
	if completion == "" {
		return LeakageResult{
			Leaked:     false,
			CanaryWord: word,
			Error:      "Completion must be a non-empty string",
		}
	}
	if word == "" {
		return LeakageResult{
			Leaked:     false,
			CanaryWord: word,
			Error:      "Canary word must be a non-empty string",
		}
	}

	return LeakageResult{
		Leaked:     strings.Contains(completion, word),
		CanaryWord: word,
	}
}
