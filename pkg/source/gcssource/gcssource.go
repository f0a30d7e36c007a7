package gcssource

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/option"

	"github.com/openshift/ci-hud/pkg/source"
)

// Reader reads a mirror of the job status bucket from Google Cloud Storage.
type Reader struct {
	bkt    *storage.BucketHandle
	bucket string
}

func NewGCSClient(ctx context.Context, serviceAccountCredentialFile string) (*storage.Client, error) {
	if len(serviceAccountCredentialFile) > 0 {
		return storage.NewClient(ctx, option.WithCredentialsFile(serviceAccountCredentialFile))
	}
	return storage.NewClient(ctx, option.WithoutAuthentication())
}

func New(ctx context.Context, bucket, serviceAccountCredentialFile string) (*source.BucketSource, error) {
	client, err := NewGCSClient(ctx, serviceAccountCredentialFile)
	if err != nil {
		return nil, errors.Wrap(err, "could not create gcs client")
	}
	return source.NewBucketSource(NewReader(client, bucket)), nil
}

func NewReader(client *storage.Client, bucket string) *Reader {
	return &Reader{bkt: client.Bucket(bucket), bucket: bucket}
}

func (r *Reader) Read(ctx context.Context, key string) ([]byte, error) {
	gcsReader, err := r.bkt.Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, errors.Wrapf(source.ErrNotFound, "gs://%s/%s", r.bucket, key)
		}
		return nil, errors.Wrapf(err, "error reading gs://%s/%s", r.bucket, key)
	}
	defer gcsReader.Close()

	return io.ReadAll(gcsReader)
}
