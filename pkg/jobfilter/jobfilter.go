package jobfilter

import (
	"regexp"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
)

// NameMatches reports whether a job name passes the user supplied filter. The filter is
// tried as a plain substring first and then as a regular expression. An empty filter
// matches everything; an invalid expression only matches as a substring.
func NameMatches(name, filter string) bool {
	if strings.Contains(name, filter) {
		return true
	}
	re, err := regexp.Compile(filter)
	if err != nil {
		return false
	}
	return re.MatchString(name)
}

// ServiceRules identifies housekeeping jobs (image builds, registry garbage collection,
// bots) that users usually want hidden.
type ServiceRules struct {
	Prefixes []string `yaml:"prefixes,omitempty" json:"prefixes,omitempty"`
	Names    []string `yaml:"names,omitempty" json:"names,omitempty"`
}

var DefaultServiceRules = ServiceRules{
	Prefixes: []string{"ci/circleci: docker", "ci/circleci: ecr_gc"},
	Names:    []string{"welcome"},
}

func (r ServiceRules) IsServiceJob(name string) bool {
	for _, n := range r.Names {
		if name == n {
			return true
		}
	}
	for _, p := range r.Prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Options are the user controlled visibility settings.
type Options struct {
	FilterText      string
	ShowServiceJobs bool
	Mode            v1.Mode
}

// Visible applies the name filter, then service job suppression, then the nightly
// partition, and returns the surviving jobs in their original order.
func Visible(jobs []string, opts Options, service ServiceRules, nightly *NightlyClassifier) []string {
	visible := make([]string, 0, len(jobs))
	for _, job := range jobs {
		if opts.FilterText != "" && !NameMatches(job, opts.FilterText) {
			continue
		}
		if !opts.ShowServiceJobs && service.IsServiceJob(job) {
			continue
		}
		if nightly != nil && !nightly.InMode(job, opts.Mode) {
			continue
		}
		visible = append(visible, job)
	}
	return visible
}

// KnownJobs is the sorted union of job names reported by any build, restricted to the
// jobs that belong to mode.
func KnownJobs(builds []v1.Build, mode v1.Mode, nightly *NightlyClassifier) []string {
	known := sets.New[string]()
	for _, b := range builds {
		for job := range b.JobResults {
			if nightly.InMode(job, mode) {
				known.Insert(job)
			}
		}
	}
	jobs := known.UnsortedList()
	sort.Strings(jobs)
	return jobs
}

const circleCIPrefix = "ci/circleci: "

// SummarizeJob shortens a job name for display by dropping the CircleCI context prefix.
func SummarizeJob(name string) string {
	return strings.TrimPrefix(name, circleCIPrefix)
}
