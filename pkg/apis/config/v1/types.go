package v1

import (
	"strings"
	"time"

	"github.com/openshift/ci-hud/pkg/breakage"
	"github.com/openshift/ci-hud/pkg/grouping"
	"github.com/openshift/ci-hud/pkg/jobfilter"
)

type HudConfig struct {
	// Families are the branch/job families that can be displayed. The first is the
	// default session.
	Families []FamilyConfig `yaml:"families"`

	// FamilyPrefix is stripped from a family name to get the branch in the bucket.
	FamilyPrefix string `yaml:"familyPrefix,omitempty"`

	// RepositoryURL is the GitHub repository commits and pull requests link to.
	RepositoryURL string `yaml:"repositoryURL,omitempty"`

	// WindowSize is how many builds beyond the newest are scanned for consecutive failures.
	WindowSize int `yaml:"windowSize,omitempty"`

	RefreshInterval  time.Duration `yaml:"refreshInterval,omitempty"`
	FetchConcurrency int           `yaml:"fetchConcurrency,omitempty"`

	// DetailCacheTTL is how long finished build details are cached. Zero disables caching.
	DetailCacheTTL time.Duration `yaml:"detailCacheTTL,omitempty"`

	Groups      []GroupConfig           `yaml:"groups,omitempty"`
	Nightly     NightlyConfig           `yaml:"nightly,omitempty"`
	ServiceJobs jobfilter.ServiceRules  `yaml:"serviceJobs,omitempty"`
	Breakage    breakage.CandidateRules `yaml:"breakage,omitempty"`
	SEV         SEVConfig               `yaml:"sev,omitempty"`
}

type FamilyConfig struct {
	Name string `yaml:"name"`
	// Branch overrides the branch derived from the family name.
	Branch string `yaml:"branch,omitempty"`
	// TrackBreakage defaults to true for families carrying the family prefix.
	TrackBreakage *bool `yaml:"trackBreakage,omitempty"`
}

// GroupConfig collapses jobs whose names match Regex into a single column.
type GroupConfig struct {
	Name  string `yaml:"name"`
	Regex string `yaml:"regex"`
}

type NightlyConfig struct {
	Substrings []string `yaml:"substrings,omitempty"`
	// PullRequestAllowlist are jobs matching Substrings that still run on every pull request.
	PullRequestAllowlist []string `yaml:"pullRequestAllowlist,omitempty"`
}

type SEVConfig struct {
	// Query is appended to the issue search, e.g. "repo:pytorch/pytorch label:\"ci: sev\"".
	Query string `yaml:"query,omitempty"`
}

// Family returns the named family, or a family derived from the name when it is not
// configured.
func (c *HudConfig) Family(name string) FamilyConfig {
	for _, f := range c.Families {
		if f.Name == name {
			return f
		}
	}
	return FamilyConfig{Name: name}
}

// BranchFor returns the bucket branch for a family.
func (c *HudConfig) BranchFor(f FamilyConfig) string {
	if f.Branch != "" {
		return f.Branch
	}
	return strings.TrimPrefix(f.Name, c.FamilyPrefix)
}

func (c *HudConfig) TracksBreakage(f FamilyConfig) bool {
	if f.TrackBreakage != nil {
		return *f.TrackBreakage
	}
	return c.FamilyPrefix != "" && strings.HasPrefix(f.Name, c.FamilyPrefix)
}

// DefaultFamily is the family a new session starts on.
func (c *HudConfig) DefaultFamily() FamilyConfig {
	if len(c.Families) == 0 {
		return FamilyConfig{Name: "pytorch-master"}
	}
	return c.Families[0]
}

// GroupDefinitions compiles the configured groups in order.
func (c *HudConfig) GroupDefinitions() ([]grouping.Definition, error) {
	defs := make([]grouping.Definition, 0, len(c.Groups))
	for _, g := range c.Groups {
		d, err := grouping.NewDefinition(g.Name, g.Regex)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, nil
}

func (c *HudConfig) NightlyClassifier() *jobfilter.NightlyClassifier {
	return jobfilter.NewNightlyClassifier(c.Nightly.Substrings, c.Nightly.PullRequestAllowlist)
}
