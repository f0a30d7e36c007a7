package cachedsource

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/openshift/ci-hud/pkg/apis/cache"
	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
	"github.com/openshift/ci-hud/pkg/source"
	"github.com/openshift/ci-hud/pkg/status"
)

const keyPrefix = "detail:"

// Source caches build details once every job in them has finished. Indexes are never
// cached since they grow with every push.
type Source struct {
	inner source.Source
	cache cache.Cache
	ttl   time.Duration
}

func New(inner source.Source, c cache.Cache, ttl time.Duration) *Source {
	return &Source{inner: inner, cache: c, ttl: ttl}
}

func (s *Source) ListBuilds(ctx context.Context, branch string) ([]v1.Build, error) {
	return s.inner.ListBuilds(ctx, branch)
}

func (s *Source) BuildDetail(ctx context.Context, prefix, id string) (map[string]v1.JobResult, error) {
	key := keyPrefix + source.DetailKey(prefix, id)
	logger := log.WithField("key", key)

	b, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var cached map[string]v1.JobResult
		if err := json.Unmarshal(b, &cached); err != nil {
			logger.WithError(err).Warning("discarding undecodable cache entry")
			break
		}
		return cached, nil
	case !errors.Is(err, cache.ErrMiss):
		logger.WithError(err).Warning("cache read failed")
	}

	results, err := s.inner.BuildDetail(ctx, prefix, id)
	if err != nil {
		return nil, err
	}
	if !finished(results) {
		return results, nil
	}

	b, err = json.Marshal(results)
	if err != nil {
		logger.WithError(err).Warning("could not encode build detail")
		return results, nil
	}
	if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
		logger.WithError(err).Warning("cache write failed")
	}
	return results, nil
}

// finished reports whether every job result is terminal. An empty detail is not
// cached, it is usually a build whose jobs have not reported yet.
func finished(results map[string]v1.JobResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if !status.Classify(r.Status).IsTerminal() {
			return false
		}
	}
	return true
}
