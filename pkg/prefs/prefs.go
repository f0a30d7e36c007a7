package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"

	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/openshift/ci-hud/pkg/apis/cache"
)

// CacheKey is where preferences live in a shared cache.
const CacheKey = "prefs2"

type Preferences struct {
	ShowNotifications bool `json:"showNotifications" yaml:"showNotifications"`
	ShowServiceJobs   bool `json:"showServiceJobs" yaml:"showServiceJobs"`
}

func Defaults() Preferences {
	return Preferences{ShowNotifications: true, ShowServiceJobs: true}
}

// stored distinguishes an absent field from false; every absent field defaults to true.
type stored struct {
	ShowNotifications *bool `json:"showNotifications,omitempty" yaml:"showNotifications,omitempty"`
	ShowServiceJobs   *bool `json:"showServiceJobs,omitempty" yaml:"showServiceJobs,omitempty"`
}

func (s stored) preferences() Preferences {
	p := Defaults()
	if s.ShowNotifications != nil {
		p.ShowNotifications = *s.ShowNotifications
	}
	if s.ShowServiceJobs != nil {
		p.ShowServiceJobs = *s.ShowServiceJobs
	}
	return p
}

type Store interface {
	Load(ctx context.Context) (Preferences, error)
	Save(ctx context.Context, p Preferences) error
}

// FileStore keeps preferences in a YAML file.
type FileStore struct {
	Path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Load(_ context.Context) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), pkgerrors.WithMessage(err, "could not read preferences")
	}
	var st stored
	if err := yaml.Unmarshal(data, &st); err != nil {
		return Defaults(), pkgerrors.WithMessage(err, "couldn't unmarshal preferences")
	}
	return st.preferences(), nil
}

func (s *FileStore) Save(_ context.Context, p Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return pkgerrors.WithMessage(os.WriteFile(s.Path, data, 0o600), "could not write preferences")
}

// CacheStore keeps preferences in a cache.Cache, e.g. redis, so they are shared by every
// server replica.
type CacheStore struct {
	Cache cache.Cache
}

func NewCacheStore(c cache.Cache) *CacheStore {
	return &CacheStore{Cache: c}
}

func (s *CacheStore) Load(ctx context.Context) (Preferences, error) {
	b, err := s.Cache.Get(ctx, CacheKey)
	if errors.Is(err, cache.ErrMiss) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), pkgerrors.Wrap(err, "could not load preferences")
	}
	var st stored
	if err := json.Unmarshal(b, &st); err != nil {
		log.WithError(err).Warning("ignoring undecodable preferences")
		return Defaults(), nil
	}
	return st.preferences(), nil
}

func (s *CacheStore) Save(ctx context.Context, p Preferences) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return pkgerrors.Wrap(s.Cache.Set(ctx, CacheKey, b, 0), "could not save preferences")
}
