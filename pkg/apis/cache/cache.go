package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is not present.
var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores content under key. A zero duration never expires.
	Set(ctx context.Context, key string, content []byte, duration time.Duration) error
}
