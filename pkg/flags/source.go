package flags

import (
	"context"
	"net/url"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/openshift/ci-hud/pkg/apis/cache"
	"github.com/openshift/ci-hud/pkg/source"
	"github.com/openshift/ci-hud/pkg/source/cachedsource"
	"github.com/openshift/ci-hud/pkg/source/gcssource"
	"github.com/openshift/ci-hud/pkg/source/httpsource"
	"github.com/openshift/ci-hud/pkg/source/s3source"
)

const (
	SourceHTTP = "http"
	SourceS3   = "s3"
	SourceGCS  = "gcs"
)

// SourceFlags select where build indexes and details are read from.
type SourceFlags struct {
	Kind    string
	BaseURL string

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Anonymous       bool

	GCSBucket                    string
	ServiceAccountCredentialFile string
}

func NewSourceFlags() *SourceFlags {
	return &SourceFlags{
		Kind:              SourceHTTP,
		BaseURL:           httpsource.DefaultBaseURL,
		S3Bucket:          s3source.DefaultBucket,
		S3Region:          s3source.DefaultRegion,
		S3AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}
}

func (f *SourceFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Kind, "source", f.Kind, "Where to read build status from: {http,s3,gcs}")
	fs.StringVar(&f.BaseURL, "source-url", f.BaseURL, "Base URL of the job status bucket for the http source")

	fs.StringVar(&f.S3Bucket, "s3-bucket", f.S3Bucket, "S3 bucket holding job status")
	fs.StringVar(&f.S3Region, "s3-region", f.S3Region, "Region of the S3 bucket")
	fs.StringVar(&f.S3Endpoint, "s3-endpoint", f.S3Endpoint, "Custom S3 endpoint, e.g. for MinIO")
	fs.BoolVar(&f.S3Anonymous, "s3-anonymous", f.S3Anonymous, "Send unsigned requests to a public S3 bucket")

	fs.StringVar(&f.GCSBucket, "google-storage-bucket", f.GCSBucket, "GCS bucket mirroring the job status bucket")
	fs.StringVar(&f.ServiceAccountCredentialFile,
		"google-service-account-credential-file",
		f.ServiceAccountCredentialFile,
		"location of a credential file described by https://cloud.google.com/docs/authentication/production")
}

func (f *SourceFlags) Validate() error {
	switch f.Kind {
	case SourceHTTP:
		if _, err := url.ParseRequestURI(f.BaseURL); err != nil {
			return errors.WithMessage(err, "source URL must be valid")
		}
	case SourceS3:
		if f.S3Bucket == "" {
			return errors.New("--s3-bucket is required for the s3 source")
		}
	case SourceGCS:
		if f.GCSBucket == "" {
			return errors.New("--google-storage-bucket is required for the gcs source")
		}
	default:
		return errors.Errorf("unknown source %q", f.Kind)
	}
	return nil
}

// GetSource builds the configured source. When detailCache is not nil finished build
// details are cached for ttl.
func (f *SourceFlags) GetSource(ctx context.Context, detailCache cache.Cache, ttl time.Duration) (source.Source, error) {
	var src source.Source
	switch f.Kind {
	case SourceS3:
		s, err := s3source.New(ctx, s3source.Config{
			Bucket:          f.S3Bucket,
			Region:          f.S3Region,
			Endpoint:        f.S3Endpoint,
			AccessKeyID:     f.S3AccessKeyID,
			SecretAccessKey: f.S3SecretAccessKey,
			Anonymous:       f.S3Anonymous,
		})
		if err != nil {
			return nil, err
		}
		src = s
	case SourceGCS:
		s, err := gcssource.New(ctx, f.GCSBucket, f.ServiceAccountCredentialFile)
		if err != nil {
			return nil, err
		}
		src = s
	default:
		src = httpsource.New(f.BaseURL)
	}

	if detailCache != nil && ttl > 0 {
		src = cachedsource.New(src, detailCache, ttl)
	}
	return src, nil
}
