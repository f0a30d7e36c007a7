package source

import (
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
)

// ParseIndex decodes a branch index: a JSON array of builds, oldest first.
func ParseIndex(data []byte) ([]v1.Build, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid json")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, errors.New("index is not an array")
	}

	builds := []v1.Build{}
	var parseErr error
	root.ForEach(func(_, b gjson.Result) bool {
		id := b.Get("id").String()
		if id == "" {
			parseErr = errors.Errorf("build without id: %s", b.Raw)
			return false
		}
		builds = append(builds, v1.Build{
			ID:        id,
			Timestamp: parseTimestamp(b.Get("timestamp")),
			Author: v1.Author{
				Username: b.Get("author.username").String(),
				Name:     b.Get("author.name").String(),
			},
			Message: b.Get("message").String(),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return builds, nil
}

// ParseDetail decodes the job results of a build: an object keyed by job name.
func ParseDetail(data []byte) (map[string]v1.JobResult, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid json")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New("build detail is not an object")
	}

	results := map[string]v1.JobResult{}
	root.ForEach(func(job, r gjson.Result) bool {
		results[job.String()] = v1.JobResult{
			Status:   r.Get("status").String(),
			BuildURL: r.Get("build_url").String(),
		}
		return true
	})
	return results, nil
}

// parseTimestamp accepts RFC 3339 strings and unix seconds. Anything else is the zero time.
func parseTimestamp(r gjson.Result) time.Time {
	switch r.Type {
	case gjson.Number:
		return time.Unix(r.Int(), 0).UTC()
	case gjson.String:
		if t, err := time.Parse(time.RFC3339, r.String()); err == nil {
			return t
		}
	}
	return time.Time{}
}
