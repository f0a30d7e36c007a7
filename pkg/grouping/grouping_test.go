package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
	"github.com/openshift/ci-hud/pkg/status"
)

func build(id string, results map[string]string) v1.Build {
	jr := map[string]v1.JobResult{}
	for job, s := range results {
		jr[job] = v1.JobResult{Status: s}
	}
	return v1.Build{ID: id, JobResults: jr}
}

func TestGroupCollapsed(t *testing.T) {
	jobs := []string{"build", "Lint-a", "test", "Lint-b"}
	builds := []v1.Build{
		build("b0", map[string]string{"build": "success", "Lint-a": "success", "Lint-b": "failure"}),
		build("b1", map[string]string{"test": "pending"}),
	}

	res := Group(jobs, DefaultDefinitions(), sets.New[string](), builds, sets.New("test"))

	assert.Equal(t, []Header{
		{Kind: JobHeader, Label: "build", Job: "build"},
		{Kind: GroupHeader, Label: "Lint Jobs", Toggle: "Lint Jobs"},
		{Kind: JobHeader, Label: "test", Job: "test", Failing: true},
	}, res.Headers)
	assert.Equal(t, []GroupState{{Name: "Lint Jobs", Members: []string{"Lint-a", "Lint-b"}}}, res.Groups)

	require.Len(t, res.Rows, 2)
	row0 := res.Rows[0]
	require.Len(t, row0, 3)
	assert.Equal(t, JobCell, row0[0].Kind)
	assert.Equal(t, status.Success, row0[0].Outcome)
	assert.Equal(t, GroupCell, row0[1].Kind)
	assert.Equal(t, []MemberResult{
		{Job: "Lint-a", Result: v1.JobResult{Status: "success"}},
		{Job: "Lint-b", Result: v1.JobResult{Status: "failure"}},
	}, row0[1].Underlying)
	assert.Equal(t, status.Failure, row0[1].Outcome)
	assert.Equal(t, BlankCell, row0[2].Kind)

	row1 := res.Rows[1]
	require.Len(t, row1, 3)
	assert.Equal(t, BlankCell, row1[0].Kind)
	assert.Equal(t, GroupCell, row1[1].Kind)
	assert.Equal(t, []MemberResult{
		{Job: "Lint-a", Missing: true},
		{Job: "Lint-b", Missing: true},
	}, row1[1].Underlying)
	assert.Equal(t, status.Outcome(""), row1[1].Outcome)
	assert.Nil(t, row1[1].Glyph)
	assert.Equal(t, status.Pending, row1[2].Outcome)
	require.NotNil(t, row1[2].Glyph)
	assert.True(t, row1[2].Glyph.Animated)
}

func TestGroupExpanded(t *testing.T) {
	jobs := []string{"Lint-a", "build", "Lint-b"}
	builds := []v1.Build{
		build("b0", map[string]string{"Lint-a": "success", "build": "success", "Lint-b": "failure"}),
	}

	res := Group(jobs, DefaultDefinitions(), sets.New("Lint Jobs"), builds, sets.New("Lint-b"))

	assert.Equal(t, []Header{
		{Kind: JobHeader, Label: "Lint-a", Job: "Lint-a"},
		{Kind: JobHeader, Label: "build", Job: "build"},
		{Kind: JobHeader, Label: "Lint-b", Job: "Lint-b", Failing: true},
	}, res.Headers)
	assert.Equal(t, []GroupState{{Name: "Lint Jobs", Expanded: true, Members: []string{"Lint-a", "Lint-b"}}}, res.Groups)
	require.Len(t, res.Rows[0], 3)
	for _, c := range res.Rows[0] {
		assert.Equal(t, JobCell, c.Kind)
		assert.Empty(t, c.Underlying)
	}
	assert.Equal(t, status.Failure, res.Rows[0][2].Outcome)
}

func TestGroupCollapsedColumnCount(t *testing.T) {
	jobs := []string{"Lint-a", "Lint-b", "build", "Lint-c"}
	tests := []struct {
		name   string
		builds []v1.Build
	}{
		{
			name:   "every member reported",
			builds: []v1.Build{build("b0", map[string]string{"Lint-a": "success", "Lint-b": "failure", "Lint-c": "success", "build": "success"})},
		},
		{
			name:   "one member reported",
			builds: []v1.Build{build("b0", map[string]string{"Lint-b": "success"})},
		},
		{
			name:   "no member reported",
			builds: []v1.Build{build("b0", map[string]string{"build": "failure"})},
		},
		{
			name: "mixed builds",
			builds: []v1.Build{
				build("b0", map[string]string{"Lint-a": "success", "Lint-b": "success", "Lint-c": "success"}),
				build("b1", map[string]string{"Lint-c": "failure"}),
				build("b2", map[string]string{}),
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			first := Group(jobs, DefaultDefinitions(), sets.New[string](), tc.builds, nil)
			second := Group(jobs, DefaultDefinitions(), sets.New[string](), tc.builds, nil)

			for _, res := range []Result{first, second} {
				assert.Equal(t, []Header{
					{Kind: GroupHeader, Label: "Lint Jobs", Toggle: "Lint Jobs"},
					{Kind: JobHeader, Label: "build", Job: "build"},
				}, res.Headers)
				require.Len(t, res.Rows, len(tc.builds))
				for _, row := range res.Rows {
					require.Len(t, row, 2)
					assert.Equal(t, GroupCell, row[0].Kind)
					assert.Len(t, row[0].Underlying, 3)
				}
			}
			assert.Equal(t, first, second)
		})
	}
}

func TestGroupFirstDefinitionWins(t *testing.T) {
	lint, err := NewDefinition("Lint Jobs", "lint")
	require.NoError(t, err)
	docs, err := NewDefinition("Docs", "doc")
	require.NoError(t, err)

	jobs := []string{"doc_lint", "doc_build"}
	res := Group(jobs, []Definition{lint, docs}, nil, nil, nil)

	assert.Equal(t, []Header{
		{Kind: GroupHeader, Label: "Lint Jobs", Toggle: "Lint Jobs"},
		{Kind: GroupHeader, Label: "Docs", Toggle: "Docs"},
	}, res.Headers)
	assert.Empty(t, res.Rows)
}

func TestGroupWithoutClaims(t *testing.T) {
	jobs := []string{"ci/circleci: build"}
	builds := []v1.Build{build("b0", map[string]string{"ci/circleci: build": "weird"})}

	res := Group(jobs, DefaultDefinitions(), nil, builds, nil)

	assert.Equal(t, []Header{{Kind: JobHeader, Label: "build", Job: "ci/circleci: build"}}, res.Headers)
	assert.Empty(t, res.Groups)
	require.Len(t, res.Rows[0], 1)
	assert.Equal(t, status.Pending, res.Rows[0][0].Outcome)
	assert.Equal(t, "weird", res.Rows[0][0].Glyph.Symbol)
}

func TestNewDefinitionInvalid(t *testing.T) {
	_, err := NewDefinition("bad", "(")
	assert.Error(t, err)
}

func TestSummarizeWorstOf(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     status.Outcome
	}{
		{name: "all success", statuses: []string{"success", "SUCCESS"}, want: status.Success},
		{name: "failure beats infra", statuses: []string{"infrastructure_fail", "failure"}, want: status.Failure},
		{name: "infra beats pending", statuses: []string{"pending", "infrastructure_fail"}, want: status.InfraFailure},
		{name: "pending beats aborted", statuses: []string{"cancelled", "pending"}, want: status.Pending},
		{name: "aborted beats skipped", statuses: []string{"skipped", "ABORTED"}, want: status.Aborted},
		{name: "skipped beats success", statuses: []string{"success", "skipped"}, want: status.Skipped},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Cell{Kind: GroupCell}
			for _, s := range tc.statuses {
				c.Underlying = append(c.Underlying, MemberResult{Result: v1.JobResult{Status: s}})
			}
			summarize(&c)
			assert.Equal(t, tc.want, c.Outcome)
		})
	}
}
