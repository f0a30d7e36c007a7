package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
)

func TestParseIndex(t *testing.T) {
	data := `[
  {"id": "aaa", "timestamp": "2020-05-01T10:00:00Z", "author": {"username": "jdoe", "name": "Jane Doe"}, "message": "first (#1)"},
  {"id": "bbb", "timestamp": 1588327200, "author": {"name": "John Roe"}, "message": "second"},
  {"id": "ccc", "timestamp": "yesterday", "message": "third"}
]`
	builds, err := ParseIndex([]byte(data))
	require.NoError(t, err)
	require.Len(t, builds, 3)

	assert.Equal(t, v1.Build{
		ID:        "aaa",
		Timestamp: time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC),
		Author:    v1.Author{Username: "jdoe", Name: "Jane Doe"},
		Message:   "first (#1)",
	}, builds[0])
	assert.Equal(t, "John Roe", builds[1].Author.Display())
	assert.Equal(t, time.Unix(1588327200, 0).UTC(), builds[1].Timestamp)
	assert.True(t, builds[2].Timestamp.IsZero())
	assert.Equal(t, "", builds[2].Author.Display())
}

func TestParseIndexErrors(t *testing.T) {
	for name, data := range map[string]string{
		"invalid json": `[{"id": `,
		"not an array": `{"id": "aaa"}`,
		"missing id":   `[{"message": "x"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseIndex([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestParseDetail(t *testing.T) {
	data := `{
  "ci/circleci: pytorch_linux_build": {"status": "success", "build_url": "https://circleci.com/1"},
  "__dr.ci": {"status": "pending"}
}`
	results, err := ParseDetail([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, map[string]v1.JobResult{
		"ci/circleci: pytorch_linux_build": {Status: "success", BuildURL: "https://circleci.com/1"},
		"__dr.ci":                          {Status: "pending"},
	}, results)

	_, err = ParseDetail([]byte(`["a"]`))
	assert.Error(t, err)
}

func TestLayout(t *testing.T) {
	assert.Equal(t, "master/index.json", IndexKey("master"))
	assert.Equal(t, "pr/abc.json", DetailKey("pr", "abc"))
	assert.Equal(t, "master", PrefixFor("master"))
	assert.Equal(t, "pr", PrefixFor("release/1.5"))
}
