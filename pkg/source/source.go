package source

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
)

// ErrNotFound is returned by an ObjectReader when the key does not exist.
var ErrNotFound = errors.New("object not found")

// Source provides the build history of a branch.
type Source interface {
	// ListBuilds returns the builds of branch, oldest first, without job results.
	ListBuilds(ctx context.Context, branch string) ([]v1.Build, error)
	// BuildDetail returns the job results for one build.
	BuildDetail(ctx context.Context, prefix, id string) (map[string]v1.JobResult, error)
}

// ObjectReader reads a single object from the job status bucket.
type ObjectReader interface {
	Read(ctx context.Context, key string) ([]byte, error)
}

// IndexKey is the object listing the builds of a branch.
func IndexKey(branch string) string {
	return fmt.Sprintf("%s/index.json", branch)
}

// DetailKey is the object holding the job results of one build.
func DetailKey(prefix, id string) string {
	return fmt.Sprintf("%s/%s.json", prefix, id)
}

// PrefixFor returns the detail prefix of a branch: master builds have their own prefix,
// every other branch shares the pull request prefix.
func PrefixFor(branch string) string {
	if branch == "master" {
		return "master"
	}
	return "pr"
}

// BucketSource reads the bucket layout through an ObjectReader.
type BucketSource struct {
	Reader ObjectReader
}

func NewBucketSource(r ObjectReader) *BucketSource {
	return &BucketSource{Reader: r}
}

func (s *BucketSource) ListBuilds(ctx context.Context, branch string) ([]v1.Build, error) {
	key := IndexKey(branch)
	data, err := s.Reader.Read(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "could not read %s", key)
	}
	builds, err := ParseIndex(data)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "could not parse %s", key)
	}
	return builds, nil
}

func (s *BucketSource) BuildDetail(ctx context.Context, prefix, id string) (map[string]v1.JobResult, error) {
	key := DetailKey(prefix, id)
	data, err := s.Reader.Read(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "could not read %s", key)
	}
	results, err := ParseDetail(data)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "could not parse %s", key)
	}
	return results, nil
}
