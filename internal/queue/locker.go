package queue

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker is the lease protecting queue processing. Acquire returns a token
// identifying the holder; Refresh and Release only act when the token still
// matches, so a worker whose lease expired cannot stomp on its successor.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Refresh(ctx context.Context, key, token string, ttl time.Duration) error
	Release(ctx context.Context, key, token string) error
}

const refreshScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
end
return 0
`

const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

type redisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) Locker {
	return &redisLocker{client: client}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := newToken()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (l *redisLocker) Refresh(ctx context.Context, key, token string, ttl time.Duration) error {
	return l.client.Eval(ctx, refreshScript, []string{key}, token, ttl.Milliseconds()).Err()
}

func (l *redisLocker) Release(ctx context.Context, key, token string) error {
	return l.client.Eval(ctx, releaseScript, []string{key}, token).Err()
}

type memoryLease struct {
	token   string
	expires time.Time
}

type memoryLocker struct {
	mu     sync.Mutex
	leases map[string]memoryLease
}

// NewMemoryLocker is used by tests and single-node deployments without redis.
func NewMemoryLocker() Locker {
	return &memoryLocker{leases: make(map[string]memoryLease)}
}

func (l *memoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	_ = ctx
	l.mu.Lock()
	defer l.mu.Unlock()
	if lease, ok := l.leases[key]; ok && time.Now().Before(lease.expires) {
		return "", false, nil
	}
	token := newToken()
	l.leases[key] = memoryLease{token: token, expires: time.Now().Add(ttl)}
	return token, true, nil
}

func (l *memoryLocker) Refresh(ctx context.Context, key, token string, ttl time.Duration) error {
	_ = ctx
	l.mu.Lock()
	defer l.mu.Unlock()
	if lease, ok := l.leases[key]; ok && lease.token == token {
		l.leases[key] = memoryLease{token: token, expires: time.Now().Add(ttl)}
	}
	return nil
}

func (l *memoryLocker) Release(ctx context.Context, key, token string) error {
	_ = ctx
	l.mu.Lock()
	defer l.mu.Unlock()
	if lease, ok := l.leases[key]; ok && lease.token == token {
		delete(l.leases, key)
	}
	return nil
}

func newToken() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
