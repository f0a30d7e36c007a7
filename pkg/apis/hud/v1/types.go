package v1

import "time"

// Build is one CI run, typically a single commit, along with the results of every sub-job
// that reported for it.
type Build struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Author    Author    `json:"author"`
	Message   string    `json:"message"`
	// JobResults is keyed by job name. A build whose detail fetch failed carries an
	// empty, non-nil map.
	JobResults map[string]JobResult `json:"job_results"`
}

// Result returns the result for the named job, and whether the build has one.
func (b Build) Result(job string) (JobResult, bool) {
	r, ok := b.JobResults[job]
	return r, ok
}

type Author struct {
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Display prefers the username and falls back to the full name.
func (a Author) Display() string {
	if a.Username != "" {
		return a.Username
	}
	return a.Name
}

type JobResult struct {
	Status   string `json:"status"`
	BuildURL string `json:"build_url"`
}

// BreakageState maps a confirmed-broken job to its count of consecutive failures.
// Counts are always at least 2.
type BreakageState map[string]int

// Jobs returns the job names in the state.
func (s BreakageState) Jobs() []string {
	jobs := make([]string, 0, len(s))
	for j := range s {
		jobs = append(jobs, j)
	}
	return jobs
}

type EventKind string

const (
	EventBroken EventKind = "broken"
	EventFixed  EventKind = "fixed"
)

// NotificationEvent is a transition of a single job between two consecutive cycles.
type NotificationEvent struct {
	Job  string    `json:"job"`
	Kind EventKind `json:"kind"`
}

// Mode selects which half of the job namespace a session displays.
type Mode string

const (
	ModeDefault Mode = "default"
	ModeNightly Mode = "nightly"
)

// ParseMode maps anything other than "nightly" to the default mode.
func ParseMode(s string) Mode {
	if Mode(s) == ModeNightly {
		return ModeNightly
	}
	return ModeDefault
}
