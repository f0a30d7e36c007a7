package s3source

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"

	"github.com/openshift/ci-hud/pkg/source"
)

const (
	DefaultBucket = "ossci-job-status"
	DefaultRegion = "us-east-1"
)

type Config struct {
	Bucket string
	Region string
	// Endpoint overrides the S3 endpoint, e.g. for MinIO.
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	// Anonymous sends unsigned requests, for public buckets.
	Anonymous bool
}

// GetObjectAPI is the part of the S3 client the reader needs.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Reader struct {
	client GetObjectAPI
	bucket string
}

func New(ctx context.Context, cfg Config) (*source.BucketSource, error) {
	r, err := NewReader(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return source.NewBucketSource(r), nil
}

func NewReader(ctx context.Context, cfg Config) (*Reader, error) {
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultBucket
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	switch {
	case cfg.Anonymous:
		opts = append(opts, config.WithCredentialsProvider(aws.AnonymousCredentials{}))
	case cfg.AccessKeyID != "":
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "could not load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewReaderWithClient(client, cfg.Bucket), nil
}

func NewReaderWithClient(client GetObjectAPI, bucket string) *Reader {
	return &Reader{client: client, bucket: bucket}
}

func (r *Reader) Read(ctx context.Context, key string) ([]byte, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, errors.Wrapf(source.ErrNotFound, "s3://%s/%s", r.bucket, key)
		}
		return nil, errors.Wrapf(err, "could not get s3://%s/%s", r.bucket, key)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}
