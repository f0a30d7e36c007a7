package s3source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/ci-hud/pkg/source"
)

type fakeS3 struct {
	objects map[string]string
	err     error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	o, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("no such key")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte(o)))}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"ossci-job-status/master/index.json": `[{"id": "aaa"}]`,
		"ossci-job-status/master/aaa.json":   `{"ci/circleci: build": {"status": "failure"}}`,
	}}
	s := source.NewBucketSource(NewReaderWithClient(client, DefaultBucket))

	builds, err := s.ListBuilds(context.TODO(), "master")
	require.NoError(t, err)
	require.Len(t, builds, 1)

	detail, err := s.BuildDetail(context.TODO(), "master", "aaa")
	require.NoError(t, err)
	assert.Equal(t, "failure", detail["ci/circleci: build"].Status)

	_, err = s.BuildDetail(context.TODO(), "pr", "bbb")
	assert.ErrorIs(t, err, source.ErrNotFound)
}

func TestS3SourceError(t *testing.T) {
	r := NewReaderWithClient(&fakeS3{err: fmt.Errorf("access denied")}, "bucket")
	_, err := r.Read(context.TODO(), "master/index.json")
	require.Error(t, err)
	assert.NotErrorIs(t, err, source.ErrNotFound)
	assert.Contains(t, err.Error(), "s3://bucket/master/index.json")
}
