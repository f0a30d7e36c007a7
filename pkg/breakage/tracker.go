package breakage

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
	"github.com/openshift/ci-hud/pkg/status"
)

// DefaultWindowSize is the number of builds, beyond the newest, that are scanned for
// consecutive failures.
const DefaultWindowSize = 10

// minConsecutiveFailures is the count at which a job is considered broken. A single failure
// is too often a flake to alert on.
const minConsecutiveFailures = 2

// CandidateRules removes jobs from breakage tracking that are known to be noisy or that
// do not run on every build.
type CandidateRules struct {
	IgnoredJobs       []string `yaml:"ignoredJobs,omitempty" json:"ignoredJobs,omitempty"`
	IgnoredSubstrings []string `yaml:"ignoredSubstrings,omitempty" json:"ignoredSubstrings,omitempty"`
}

// DefaultCandidateRules skip the docs push job, the Dr. CI bot and the nightly upload jobs.
var DefaultCandidateRules = CandidateRules{
	IgnoredJobs:       []string{"pytorch_doc_push", "__dr.ci"},
	IgnoredSubstrings: []string{"nightlies"},
}

// Candidates returns the known jobs eligible for breakage tracking.
func Candidates(knownJobs []string, rules CandidateRules) sets.Set[string] {
	ignored := sets.New[string](rules.IgnoredJobs...)
	candidates := sets.New[string]()
	for _, job := range knownJobs {
		if ignored.Has(job) || containsAny(job, rules.IgnoredSubstrings) {
			continue
		}
		candidates.Insert(job)
	}
	return candidates
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Track walks builds newest-first and counts, per candidate job, the failures seen before
// the job's most recent success. Only the first windowSize+1 builds are considered, since a
// job that has not reported in that long may have been removed. Jobs with fewer than two
// failures are omitted.
//
// Outcomes other than success and failure neither count nor resolve a job, so a job that
// stays pending is never reported and never cleared.
func Track(candidates sets.Set[string], buildsNewestFirst []v1.Build, windowSize int) v1.BreakageState {
	stillUnknown := candidates.Clone()
	failureCount := map[string]int{}

	for i := 0; i < len(buildsNewestFirst) && i <= windowSize && stillUnknown.Len() > 0; i++ {
		build := buildsNewestFirst[i]
		// iterate a snapshot since resolved jobs are removed as we go
		for _, job := range stillUnknown.UnsortedList() {
			result, ok := build.Result(job)
			if !ok {
				continue
			}
			switch status.Classify(result.Status) {
			case status.Failure:
				failureCount[job]++
			case status.Success:
				stillUnknown.Delete(job)
			}
		}
	}

	state := v1.BreakageState{}
	for job, count := range failureCount {
		if count >= minConsecutiveFailures {
			state[job] = count
		}
	}
	return state
}
