package grouping

import (
	"regexp"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
	"github.com/openshift/ci-hud/pkg/jobfilter"
	"github.com/openshift/ci-hud/pkg/status"
)

// Definition claims every job whose name matches Match. Definitions are ordered; the
// first one that matches a job owns it.
type Definition struct {
	Name  string
	Match *regexp.Regexp
}

func NewDefinition(name, pattern string) (Definition, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Definition{}, errors.Wrapf(err, "invalid pattern for group %q", name)
	}
	return Definition{Name: name, Match: re}, nil
}

// DefaultDefinitions collapses lint jobs into a single column.
func DefaultDefinitions() []Definition {
	return []Definition{{Name: "Lint Jobs", Match: regexp.MustCompile("Lint")}}
}

type HeaderKind string

const (
	GroupHeader HeaderKind = "group"
	JobHeader   HeaderKind = "job"
)

// Header is one column of the grid. Group headers carry the group name in Toggle so the
// client can expand them; job headers carry the full job name and whether it is broken.
type Header struct {
	Kind    HeaderKind `json:"kind"`
	Label   string     `json:"label"`
	Toggle  string     `json:"toggle,omitempty"`
	Job     string     `json:"job,omitempty"`
	Failing bool       `json:"failing,omitempty"`
}

type CellKind string

const (
	JobCell   CellKind = "job"
	GroupCell CellKind = "group"
	// BlankCell is a job column for which the build reported nothing.
	BlankCell CellKind = "blank"
)

// MemberResult is the result of one job folded into a group cell.
type MemberResult struct {
	Job    string       `json:"job"`
	Result v1.JobResult `json:"result"`
	// Missing is set when the build has no result for the job.
	Missing bool `json:"missing,omitempty"`
}

type Cell struct {
	Kind CellKind `json:"kind"`
	// Name is the job name for job cells and the group name for group cells.
	Name    string         `json:"name"`
	Result  *v1.JobResult  `json:"result,omitempty"`
	Outcome status.Outcome `json:"outcome,omitempty"`
	Glyph   *status.Glyph  `json:"glyph,omitempty"`
	// Underlying holds the members of a collapsed group in visible order.
	Underlying []MemberResult `json:"underlying,omitempty"`
}

// GroupState describes a definition that claimed at least one visible job.
type GroupState struct {
	Name     string   `json:"name"`
	Expanded bool     `json:"expanded"`
	Members  []string `json:"members"`
}

type Result struct {
	Headers []Header `json:"headers"`
	// Rows is aligned with the builds passed to Group.
	Rows   [][]Cell     `json:"rows"`
	Groups []GroupState `json:"groups"`
}

// Group lays out the grid for visibleJobs across builds. Jobs claimed by a collapsed group
// share a single column positioned where the first claimed job would have been.
func Group(visibleJobs []string, defs []Definition, expanded sets.Set[string], builds []v1.Build, broken sets.Set[string]) Result {
	owner := make([]*Definition, len(visibleJobs))
	groups := []GroupState{}
	groupIndex := map[string]int{}
	for i, job := range visibleJobs {
		d := find(defs, job)
		if d == nil {
			continue
		}
		owner[i] = d
		gi, ok := groupIndex[d.Name]
		if !ok {
			gi = len(groups)
			groupIndex[d.Name] = gi
			groups = append(groups, GroupState{Name: d.Name, Expanded: expanded.Has(d.Name)})
		}
		groups[gi].Members = append(groups[gi].Members, job)
	}

	headers := []Header{}
	seen := sets.New[string]()
	for i, job := range visibleJobs {
		if d := owner[i]; d != nil && !expanded.Has(d.Name) {
			if seen.Has(d.Name) {
				continue
			}
			seen.Insert(d.Name)
			headers = append(headers, Header{Kind: GroupHeader, Label: d.Name, Toggle: d.Name})
			continue
		}
		headers = append(headers, Header{
			Kind:    JobHeader,
			Label:   jobfilter.SummarizeJob(job),
			Job:     job,
			Failing: broken.Has(job),
		})
	}

	rows := make([][]Cell, 0, len(builds))
	for _, b := range builds {
		rows = append(rows, row(b, visibleJobs, owner, expanded))
	}

	return Result{Headers: headers, Rows: rows, Groups: groups}
}

func row(b v1.Build, visibleJobs []string, owner []*Definition, expanded sets.Set[string]) []Cell {
	cells := []Cell{}
	// group name -> index of its cell in this row
	groupCell := map[string]int{}
	for i, job := range visibleJobs {
		r, ok := b.Result(job)
		if d := owner[i]; d != nil && !expanded.Has(d.Name) {
			ci, added := groupCell[d.Name]
			if !added {
				ci = len(cells)
				groupCell[d.Name] = ci
				cells = append(cells, Cell{Kind: GroupCell, Name: d.Name})
			}
			cells[ci].Underlying = append(cells[ci].Underlying, MemberResult{Job: job, Result: r, Missing: !ok})
			continue
		}
		if !ok {
			cells = append(cells, Cell{Kind: BlankCell, Name: job})
			continue
		}
		result := r
		glyph := status.GlyphFor(r.Status)
		cells = append(cells, Cell{
			Kind:    JobCell,
			Name:    job,
			Result:  &result,
			Outcome: status.Classify(r.Status),
			Glyph:   &glyph,
		})
	}
	for _, ci := range groupCell {
		summarize(&cells[ci])
	}
	return cells
}

// summarize sets the outcome of a group cell to the worst outcome among its members.
// A group cell with no observed member results is left blank.
func summarize(c *Cell) {
	var worst status.Outcome
	for _, m := range c.Underlying {
		if m.Missing {
			continue
		}
		o := status.Classify(m.Result.Status)
		if worst == "" || o.Worse(worst) {
			worst = o
		}
	}
	if worst == "" {
		return
	}
	glyph := status.GlyphForOutcome(worst)
	c.Outcome = worst
	c.Glyph = &glyph
}

func find(defs []Definition, job string) *Definition {
	for i := range defs {
		if defs[i].Match != nil && defs[i].Match.MatchString(job) {
			return &defs[i]
		}
	}
	return nil
}
