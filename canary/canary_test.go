package canary_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/promptsentry/promptsentry-go/canary"
	"github.com/promptsentry/promptsentry-go/guardhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lowercaseHex = regexp.MustCompile(`^[0-9a-f]+$`)

func TestGenerate_Length(t *testing.T) {
	word, err := canary.Generate(8)

	require.NoError(t, err)
	assert.Len(t, word, 8)
	assert.Regexp(t, lowercaseHex, word)
}

func TestGenerate_OddLength(t *testing.T) {
	word, err := canary.Generate(7)

	require.NoError(t, err)
	assert.Len(t, word, 7)
	assert.Regexp(t, lowercaseHex, word)
}

func TestGenerate_ZeroUsesDefault(t *testing.T) {
	word, err := canary.Generate(0)

	require.NoError(t, err)
	assert.Len(t, word, canary.DefaultLength)
}

func TestGenerate_NegativeRejected(t *testing.T) {
	_, err := canary.Generate(-1)

	require.Error(t, err)
	assert.ErrorIs(t, err, guardhttp.ErrInvalidArgument)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		word, err := canary.Generate(8)
		require.NoError(t, err)
		assert.False(t, seen[word], "generated duplicate canary %q", word)
		seen[word] = true
	}
}

func TestEmbed_Defaults(t *testing.T) {
	combined, word, err := canary.Embed("What is the capital of France?", "", "")

	require.NoError(t, err)
	assert.Len(t, word, canary.DefaultLength)

	lines := strings.SplitN(combined, "\n", 2)
	require.Len(t, lines, 2)
	assert.Equal(t, "<!-- "+word+" -->", lines[0], "marker line comes first")
	assert.Equal(t, "What is the capital of France?", lines[1], "prompt is unchanged")
	assert.Contains(t, combined, word)
}

func TestEmbed_ExplicitWordAndFormat(t *testing.T) {
	combined, word, err := canary.Embed("do the thing", "cafe1234", "### {canary} ###")

	require.NoError(t, err)
	assert.Equal(t, "cafe1234", word)
	assert.Equal(t, "### cafe1234 ###\ndo the thing", combined)
}

func TestEmbed_EmptyPrompt(t *testing.T) {
	_, _, err := canary.Embed("", "", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, guardhttp.ErrInvalidArgument)
}

func TestCheck_Leaked(t *testing.T) {
	result := canary.Check("some output with test123 hidden inside", "test123")

	assert.True(t, result.Leaked)
	assert.Equal(t, "test123", result.CanaryWord)
	assert.Empty(t, result.Error)
}

func TestCheck_NotLeaked(t *testing.T) {
	result := canary.Check("some output with testing456 inside", "test123")

	assert.False(t, result.Leaked)
	assert.Equal(t, "test123", result.CanaryWord)
	assert.Empty(t, result.Error)
}

func TestCheck_CaseSensitive(t *testing.T) {
	result := canary.Check("leaked TEST123 here", "test123")

	assert.False(t, result.Leaked, "matching is exact and case-sensitive")
}

func TestCheck_EmptyCompletion(t *testing.T) {
	result := canary.Check("", "x")

	assert.False(t, result.Leaked)
	assert.Equal(t, "Completion must be a non-empty string", result.Error)
}

func TestCheck_EmptyWord(t *testing.T) {
	result := canary.Check("x", "")

	assert.False(t, result.Leaked)
	assert.Equal(t, "Canary word must be a non-empty string", result.Error)
}
