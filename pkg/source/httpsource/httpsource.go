package httpsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/openshift/ci-hud/pkg/source"
)

// DefaultBaseURL is the public job status bucket.
const DefaultBaseURL = "https://s3.amazonaws.com/ossci-job-status"

// Reader fetches bucket objects with plain HTTP GETs below BaseURL.
type Reader struct {
	BaseURL string
	Client  *http.Client
}

func New(baseURL string) *source.BucketSource {
	return source.NewBucketSource(NewReader(baseURL))
}

func NewReader(baseURL string) *Reader {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Reader{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *Reader) Read(ctx context.Context, key string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", r.BaseURL, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	log.WithField("url", url).Debug("fetching")
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusForbidden:
		// S3 answers 403 for missing keys in buckets that do not allow listing.
		return nil, errors.Wrapf(source.ErrNotFound, "%s returned %d", url, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Errorf("%s returned %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
