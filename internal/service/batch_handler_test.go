package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/msgvault/internal/pkg/timeutil"
)

func TestParseAuthor(t *testing.T) {
	require.Equal(t, int64(12), parseAuthor("12"))
	require.Equal(t, int64(12), parseAuthor(" 12 "))
	require.Equal(t, int64(0), parseAuthor(""))
	require.Equal(t, int64(0), parseAuthor("bob"))
	require.Equal(t, int64(0), parseAuthor("-3"))
}

func TestNormalizeDate(t *testing.T) {
	require.Equal(t, "2026-01-02 03:04:05", normalizeDate("2026-01-02 03:04:05"))

	fixed := normalizeDate("not-a-date")
	require.True(t, timeutil.IsDateTime(fixed))
	require.NotEqual(t, "not-a-date", fixed)
}
