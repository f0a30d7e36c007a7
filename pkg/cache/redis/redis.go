package redis

import (
	"context"
	"time"

	"github.com/pkg/errors"
	r "gopkg.in/redis.v5"

	"github.com/openshift/ci-hud/pkg/apis/cache"
)

const prefix = "_CIHUD_"

type Cache struct {
	client *r.Client
}

func NewRedisCache(url string) (*Cache, error) {
	opts, err := r.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "invalid redis url")
	}

	return &Cache{
		client: r.NewClient(opts),
	}, nil
}

// Ping checks that the server is reachable.
func (c Cache) Ping() error {
	return c.client.Ping().Err()
}

func (c Cache) Get(_ context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(prefix + key).Bytes()
	if err == r.Nil {
		return nil, cache.ErrMiss
	}
	return b, err
}

func (c Cache) Set(_ context.Context, key string, content []byte, duration time.Duration) error {
	return c.client.Set(prefix+key, content, duration).Err()
}

func (c Cache) Close() error {
	return c.client.Close()
}
