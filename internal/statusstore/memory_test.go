package statusstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErr "github.com/xxxsen/msgvault/internal/pkg/errors"
)

func TestMemoryStoreTakeIsReadOnce(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "export:count", "42", 0))

	value, err := store.Take(ctx, "export:count")
	require.NoError(t, err)
	require.Equal(t, "42", value)

	_, err = store.Take(ctx, "export:count")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestMemoryStoreGetDoesNotConsume(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "import:state", "processing", 0))
	for i := 0; i < 3; i++ {
		value, err := store.Get(ctx, "import:state")
		require.NoError(t, err)
		require.Equal(t, "processing", value)
	}
	require.NoError(t, store.Delete(ctx, "import:state"))
	_, err := store.Get(ctx, "import:state")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "export:file", "url", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)
	_, err := store.Get(ctx, "export:file")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "import:state", "processing", 0))
	time.Sleep(20 * time.Millisecond)
	value, err := store.Get(ctx, "import:state")
	require.NoError(t, err)
	require.Equal(t, "processing", value)
}
