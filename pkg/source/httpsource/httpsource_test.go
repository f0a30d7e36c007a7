package httpsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/ci-hud/pkg/source"
)

func TestHTTPSource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/master/index.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": "aaa", "author": {"username": "jdoe"}, "message": "m"}]`))
	})
	mux.HandleFunc("/master/aaa.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ci/circleci: build": {"status": "success", "build_url": "u"}}`))
	})
	mux.HandleFunc("/pr/boom.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := New(srv.URL + "/")

	builds, err := s.ListBuilds(context.TODO(), "master")
	require.NoError(t, err)
	require.Len(t, builds, 1)
	assert.Equal(t, "jdoe", builds[0].Author.Display())

	detail, err := s.BuildDetail(context.TODO(), "master", "aaa")
	require.NoError(t, err)
	assert.Equal(t, "success", detail["ci/circleci: build"].Status)

	_, err = s.BuildDetail(context.TODO(), "pr", "missing")
	assert.ErrorIs(t, err, source.ErrNotFound)

	_, err = s.BuildDetail(context.TODO(), "pr", "boom")
	require.Error(t, err)
	assert.NotErrorIs(t, err, source.ErrNotFound)
}

func TestNewReaderDefault(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewReader("").BaseURL)
}
