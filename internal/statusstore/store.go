package statusstore

import (
	"context"
	"time"
)

// Store holds short-lived status flags that carry asynchronous completion
// state across a request boundary. Take has read-once semantics: reading a
// flag deletes it, so a flag is displayed at most once.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Take(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
