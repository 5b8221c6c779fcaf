package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLockerMutualExclusion(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	token, ok, err := locker.Acquire(ctx, "lock", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, token)

	_, ok, err = locker.Acquire(ctx, "lock", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, locker.Release(ctx, "lock", token))
	_, ok, err = locker.Acquire(ctx, "lock", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryLockerExpiredLeaseIsReclaimable(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	_, ok, err := locker.Acquire(ctx, "lock", 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(30 * time.Millisecond)
	_, ok, err = locker.Acquire(ctx, "lock", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryLockerReleaseRequiresToken(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	token, ok, err := locker.Acquire(ctx, "lock", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, locker.Release(ctx, "lock", "stale-token"))
	_, ok, err = locker.Acquire(ctx, "lock", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, locker.Release(ctx, "lock", token))
}

func TestMemoryLockerRefreshExtendsLease(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	token, ok, err := locker.Acquire(ctx, "lock", 20*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, locker.Refresh(ctx, "lock", token, time.Minute))
	time.Sleep(30 * time.Millisecond)

	_, ok, err = locker.Acquire(ctx, "lock", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)
}
