package flags

import (
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/openshift/ci-hud/pkg/apis/cache"
	"github.com/openshift/ci-hud/pkg/cache/compressed"
	"github.com/openshift/ci-hud/pkg/cache/redis"
)

// CacheFlags holds caching configuration.
type CacheFlags struct {
	RedisURL string
	Compress bool
	// DetailTTL overrides the configured cache lifetime of finished build details.
	DetailTTL time.Duration
}

func NewCacheFlags() *CacheFlags {
	return &CacheFlags{Compress: true}
}

func (f *CacheFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.RedisURL,
		"redis-url",
		os.Getenv("REDIS_URL"),
		"Redis URL for caching build details and sharing preferences")
	fs.BoolVar(&f.Compress, "cache-compress", f.Compress, "Gzip cached build details")
	fs.DurationVar(&f.DetailTTL, "cache-detail-ttl", f.DetailTTL, "How long finished build details are cached (0 uses the config file)")
}

// GetCacheClient returns nil when no redis URL is configured.
func (f *CacheFlags) GetCacheClient() (cache.Cache, error) {
	if f.RedisURL == "" {
		return nil, nil
	}
	c, err := redis.NewRedisCache(f.RedisURL)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetDetailCache wraps the cache client for build details, compressing when enabled.
func (f *CacheFlags) GetDetailCache(c cache.Cache) (cache.Cache, error) {
	if c == nil || !f.Compress {
		return c, nil
	}
	cc, err := compressed.NewCompressedCache(c)
	if err != nil {
		return nil, err
	}
	return cc, nil
}
