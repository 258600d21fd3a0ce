package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// IsInteractive checks if stdin is a TTY, indicating that the user can
// provide interactive input. Returns false in CI environments or when
// input is piped.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// PromptAPIKey reads the API key from the terminal without echoing it.
// Only call this when IsInteractive() is true.
func PromptAPIKey(out io.Writer) (string, error) {
	fmt.Fprint(out, "API key: ")
	key, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read api key: %w", err)
	}
	return string(key), nil
}
