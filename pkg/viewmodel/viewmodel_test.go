package viewmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
	"github.com/openshift/ci-hud/pkg/grouping"
	"github.com/openshift/ci-hud/pkg/jobfilter"
)

func TestBuild(t *testing.T) {
	now := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	builds := []v1.Build{
		{
			ID:        "0123456789abcdef",
			Timestamp: now.Add(-2 * time.Hour),
			Author:    v1.Author{Name: "Jane Doe"},
			Message:   "Fix lint (#42)\n\nlonger body",
			JobResults: map[string]v1.JobResult{
				"ci/circleci: pytorch_build": {Status: "failure"},
				"ci/circleci: Lint":          {Status: "success"},
			},
		},
		{
			ID:        "fedcba9876543210",
			Timestamp: now.Add(-3 * time.Hour),
			Author:    v1.Author{Username: "jdoe", Name: "Jane Doe"},
			Message:   "Add thing",
			JobResults: map[string]v1.JobResult{
				"ci/circleci: pytorch_build": {Status: "failure"},
			},
		},
	}
	known := []string{
		"ci/circleci: Lint",
		"ci/circleci: docker-builder",
		"ci/circleci: pytorch_build",
		"binary_linux_build",
	}

	view := Build(Input{
		AllKnownJobs: known,
		Mode:         v1.ModeDefault,
		Broken:       v1.BreakageState{"ci/circleci: pytorch_build": 2},
		Groups:       grouping.DefaultDefinitions(),
		Expanded:     sets.New[string](),
		Builds:       builds,
		ServiceRules: jobfilter.DefaultServiceRules,
		Nightly:      jobfilter.NewDefaultNightlyClassifier(),
		Now:          now,
	})

	assert.Equal(t, []string{"ci/circleci: Lint", "ci/circleci: pytorch_build"}, view.VisibleJobs)
	assert.Equal(t, []grouping.Header{
		{Kind: grouping.GroupHeader, Label: "Lint Jobs", Toggle: "Lint Jobs"},
		{Kind: grouping.JobHeader, Label: "pytorch_build", Job: "ci/circleci: pytorch_build", Failing: true},
	}, view.Headers)
	assert.Equal(t, 1, view.BrokenCount)
	assert.False(t, view.FilterActive)

	require.Len(t, view.Rows, 2)
	first := view.Rows[0]
	assert.Equal(t, "0123456789abcdef", first.BuildID)
	assert.Equal(t, 42, first.PullRequest)
	assert.Equal(t, "https://github.com/pytorch/pytorch/pull/42", first.PullURL)
	assert.Equal(t, "2 hours ago", first.When)
	assert.Equal(t, "Jane Doe", first.Author)
	assert.Equal(t, "Fix lint ", first.Description)
	assert.Equal(t, "0123456", first.ShortSHA)
	assert.Equal(t, "https://github.com/pytorch/pytorch/commit/0123456789abcdef", first.CommitURL)
	assert.Len(t, first.Cells, 2)

	second := view.Rows[1]
	assert.Equal(t, "jdoe", second.Author)
	assert.Zero(t, second.PullRequest)
	assert.Empty(t, second.PullURL)
}

func TestBuildFilterAndServiceJobs(t *testing.T) {
	known := []string{"ci/circleci: docker-builder", "pytorch_build", "pytorch_test"}

	view := Build(Input{
		AllKnownJobs:    known,
		FilterText:      "docker|test",
		ShowServiceJobs: true,
		Mode:            v1.ModeDefault,
		ServiceRules:    jobfilter.DefaultServiceRules,
		RepositoryURL:   "https://github.com/example/repo/",
	})

	assert.Equal(t, []string{"ci/circleci: docker-builder", "pytorch_test"}, view.VisibleJobs)
	assert.True(t, view.FilterActive)
	assert.Empty(t, view.Rows)
}
