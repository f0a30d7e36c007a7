package v1

import (
	"time"

	"github.com/openshift/ci-hud/pkg/breakage"
	"github.com/openshift/ci-hud/pkg/jobfilter"
)

const (
	DefaultFamilyPrefix     = "pytorch-"
	DefaultRepositoryURL    = "https://github.com/pytorch/pytorch"
	DefaultRefreshInterval  = 60 * time.Second
	DefaultFetchConcurrency = 10
	DefaultDetailCacheTTL   = 24 * time.Hour
	DefaultSEVQuery         = `repo:pytorch/pytorch label:"ci: sev"`
)

// Default returns the configuration used when no config file is given.
func Default() *HudConfig {
	c := &HudConfig{
		Families: []FamilyConfig{{Name: "pytorch-master"}},
	}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills every unset field.
func (c *HudConfig) ApplyDefaults() {
	if c.FamilyPrefix == "" {
		c.FamilyPrefix = DefaultFamilyPrefix
	}
	if c.RepositoryURL == "" {
		c.RepositoryURL = DefaultRepositoryURL
	}
	if c.WindowSize == 0 {
		c.WindowSize = breakage.DefaultWindowSize
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}
	if c.FetchConcurrency == 0 {
		c.FetchConcurrency = DefaultFetchConcurrency
	}
	if c.Groups == nil {
		c.Groups = []GroupConfig{{Name: "Lint Jobs", Regex: "Lint"}}
	}
	if c.Nightly.Substrings == nil {
		c.Nightly.Substrings = jobfilter.DefaultNightlySubstrings
	}
	if c.Nightly.PullRequestAllowlist == nil {
		c.Nightly.PullRequestAllowlist = jobfilter.DefaultPullRequestAllowlist
	}
	if c.ServiceJobs.Prefixes == nil && c.ServiceJobs.Names == nil {
		c.ServiceJobs = jobfilter.DefaultServiceRules
	}
	if c.Breakage.IgnoredJobs == nil && c.Breakage.IgnoredSubstrings == nil {
		c.Breakage = breakage.DefaultCandidateRules
	}
	if c.SEV.Query == "" {
		c.SEV.Query = DefaultSEVQuery
	}
}
