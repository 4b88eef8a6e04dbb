package rocketleague

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{name: "short", input: "abc", n: 5, expected: "abc"},
		{name: "exact", input: "abcde", n: 5, expected: "abcde"},
		{name: "ascii", input: "abcdef", n: 3, expected: "abc"},
		// "é" is two bytes, the cut lands between them
		{name: "inside two byte rune", input: "abé", n: 3, expected: "ab"},
		{name: "after two byte rune", input: "abéd", n: 4, expected: "abé"},
		// "€" is three bytes
		{name: "inside three byte rune", input: "a€b", n: 3, expected: "a"},
		{name: "only a multi byte rune", input: "€", n: 2, expected: ""},
		{name: "zero", input: "abc", n: 0, expected: ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			result := truncate(c.input, c.n)
			require.Equal(t, c.expected, result)
			require.True(t, utf8.ValidString(result))
		})
	}
}

func TestNewStatusErrorKeepsBodyValidUTF8(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("a", maxStatusErrorBody-1) + "ééé"

	statusErr := newStatusError(502, []byte(body))

	require.Equal(t, 502, statusErr.StatusCode)
	require.Equal(t, strings.Repeat("a", maxStatusErrorBody-1), statusErr.Body)
	require.True(t, utf8.ValidString(statusErr.Body))
}
