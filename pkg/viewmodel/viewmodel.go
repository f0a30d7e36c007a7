package viewmodel

import (
	"fmt"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
	"github.com/openshift/ci-hud/pkg/commitmsg"
	"github.com/openshift/ci-hud/pkg/grouping"
	"github.com/openshift/ci-hud/pkg/jobfilter"
)

const DefaultRepositoryURL = "https://github.com/pytorch/pytorch"

type Input struct {
	AllKnownJobs    []string
	FilterText      string
	ShowServiceJobs bool
	Mode            v1.Mode
	Broken          v1.BreakageState
	Groups          []grouping.Definition
	Expanded        sets.Set[string]
	// Builds are newest first.
	Builds []v1.Build

	ServiceRules jobfilter.ServiceRules
	Nightly      *jobfilter.NightlyClassifier
	// RepositoryURL is used to link commits and pull requests.
	RepositoryURL string
	Now           time.Time
}

// Row is one build with its cells and descriptive columns.
type Row struct {
	BuildID     string          `json:"buildID"`
	PullRequest int             `json:"pullRequest,omitempty"`
	PullURL     string          `json:"pullURL,omitempty"`
	When        string          `json:"when"`
	Timestamp   time.Time       `json:"timestamp"`
	Author      string          `json:"author"`
	Description string          `json:"description"`
	ShortSHA    string          `json:"shortSHA"`
	CommitURL   string          `json:"commitURL"`
	Cells       []grouping.Cell `json:"cells"`
}

type View struct {
	Mode         v1.Mode               `json:"mode"`
	VisibleJobs  []string              `json:"visibleJobs"`
	Headers      []grouping.Header     `json:"headers"`
	Groups       []grouping.GroupState `json:"groups"`
	Rows         []Row                 `json:"rows"`
	BrokenCount  int                   `json:"brokenCount"`
	FilterActive bool                  `json:"filterActive"`
}

// Build derives the grid for one render. It is a pure function of its input.
func Build(in Input) View {
	visible := jobfilter.Visible(in.AllKnownJobs, jobfilter.Options{
		FilterText:      in.FilterText,
		ShowServiceJobs: in.ShowServiceJobs,
		Mode:            in.Mode,
	}, in.ServiceRules, in.Nightly)

	broken := sets.New[string](in.Broken.Jobs()...)
	grid := grouping.Group(visible, in.Groups, in.Expanded, in.Builds, broken)

	repo := strings.TrimSuffix(in.RepositoryURL, "/")
	if repo == "" {
		repo = DefaultRepositoryURL
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	rows := make([]Row, 0, len(in.Builds))
	for i, b := range in.Builds {
		r := Row{
			BuildID:     b.ID,
			When:        commitmsg.SummarizeDate(b.Timestamp, now),
			Timestamp:   b.Timestamp,
			Author:      b.Author.Display(),
			Description: commitmsg.FirstLine(commitmsg.DropPullRequestNumber(b.Message)),
			ShortSHA:    commitmsg.ShortSHA(b.ID),
			CommitURL:   fmt.Sprintf("%s/commit/%s", repo, b.ID),
			Cells:       grid.Rows[i],
		}
		if n, ok := commitmsg.PullRequestNumber(b.Message); ok {
			r.PullRequest = n
			r.PullURL = fmt.Sprintf("%s/pull/%d", repo, n)
		}
		rows = append(rows, r)
	}

	return View{
		Mode:         in.Mode,
		VisibleJobs:  visible,
		Headers:      grid.Headers,
		Groups:       grid.Groups,
		Rows:         rows,
		BrokenCount:  len(in.Broken),
		FilterActive: in.FilterText != "",
	}
}
