package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContentHashIgnoresTitleWhitespace(t *testing.T) {
	require.Equal(t, contentHash("hello", "body"), contentHash("  hello  ", "body"))
}

func TestContentHashKeepsBodyWhitespace(t *testing.T) {
	require.NotEqual(t, contentHash("hello", "body"), contentHash("hello", " body "))
}

func TestContentHashDistinguishesTitleAndBody(t *testing.T) {
	require.NotEqual(t, contentHash("a", "b"), contentHash("b", "a"))
	require.NotEqual(t, contentHash("a", ""), contentHash("", "a"))
}

func TestContentHashIsStable(t *testing.T) {
	// Hex md5 of "hellobody"; the export and import sides must never drift
	// from this computation or old archives stop deduplicating.
	require.Equal(t, "562d1638d31817a2109ac274a3dc194d", contentHash("hello", "body"))
}
