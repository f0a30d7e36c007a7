package jobfilter

import (
	"strings"

	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
)

// DefaultNightlySubstrings mark binary and smoke test jobs, which normally only run on the
// nightly schedule. "nigthly_" is a misspelling that exists in real job names.
var DefaultNightlySubstrings = []string{"binary_", "smoke_", "nightly_", "nigthly_"}

// DefaultPullRequestAllowlist lists jobs that match the nightly substrings but also run
// on every pull request.
var DefaultPullRequestAllowlist = []string{
	"binary_linux_manywheel_2_7mu_cpu_devtoolset7_build",
	"binary_linux_manywheel_3_7m_cu100_devtoolset7_build",
	"binary_linux_conda_2_7_cpu_devtoolset7_build",
	"binary_macos_wheel_3_6_cpu_build",
	"binary_macos_conda_2_7_cpu_build",
	"binary_macos_libtorch_2_7_cpu_build",
	"binary_linux_manywheel_2_7mu_cpu_devtoolset7_test",
	"binary_linux_manywheel_3_7m_cu100_devtoolset7_test",
	"binary_linux_conda_2_7_cpu_devtoolset7_test",
	"binary_linux_libtorch_2_7m_cpu_devtoolset7_shared-with-deps_build",
	"binary_linux_libtorch_2_7m_cpu_devtoolset7_shared-with-deps_test",
	"binary_linux_libtorch_2_7m_cpu_gcc5_4_cxx11-abi_shared-with-deps",
	"pytorch_linux_xenial_pynightly",
}

type rule struct {
	name    string
	matches func(job string) bool
	nightly bool
}

// NightlyClassifier decides whether a job is a nightly job. Rules are evaluated top-down
// and the first match wins; a job matching no rule is not nightly.
type NightlyClassifier struct {
	rules []rule
}

// NewNightlyClassifier builds the rule list: allowlisted pull request jobs first, then the
// nightly name markers. A job is allowlisted when its name contains an allowlist entry,
// so suffixed variants of an allowlisted job stay on pull requests too.
func NewNightlyClassifier(substrings, pullRequestAllowlist []string) *NightlyClassifier {
	return &NightlyClassifier{
		rules: []rule{
			{
				name:    "runs-on-pull-requests",
				matches: func(job string) bool { return containsAny(job, pullRequestAllowlist) },
				nightly: false,
			},
			{
				name:    "nightly-marker",
				matches: func(job string) bool { return containsAny(job, substrings) },
				nightly: true,
			},
		},
	}
}

func NewDefaultNightlyClassifier() *NightlyClassifier {
	return NewNightlyClassifier(DefaultNightlySubstrings, DefaultPullRequestAllowlist)
}

func (c *NightlyClassifier) IsNightly(job string) bool {
	if c == nil {
		return false
	}
	for _, r := range c.rules {
		if r.matches(job) {
			return r.nightly
		}
	}
	return false
}

// InMode reports whether job is displayed in mode: nightly jobs in nightly mode only,
// all others in the default mode only.
func (c *NightlyClassifier) InMode(job string, mode v1.Mode) bool {
	return c.IsNightly(job) == (mode == v1.ModeNightly)
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
