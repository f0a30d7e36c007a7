package breakage

import (
	"sort"

	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
)

// Diff compares the breakage state of two consecutive cycles. A nil previous state means
// this is the first cycle of the session: it only establishes a baseline and yields no
// events. Fixed events come first, then Broken, each sorted by job name.
func Diff(previous *v1.BreakageState, current v1.BreakageState) []v1.NotificationEvent {
	if previous == nil {
		return nil
	}

	var fixed, broken []string
	for job := range *previous {
		if _, ok := current[job]; !ok {
			fixed = append(fixed, job)
		}
	}
	for job := range current {
		if _, ok := (*previous)[job]; !ok {
			broken = append(broken, job)
		}
	}
	sort.Strings(fixed)
	sort.Strings(broken)

	events := make([]v1.NotificationEvent, 0, len(fixed)+len(broken))
	for _, job := range fixed {
		events = append(events, v1.NotificationEvent{Job: job, Kind: v1.EventFixed})
	}
	for _, job := range broken {
		events = append(events, v1.NotificationEvent{Job: job, Kind: v1.EventBroken})
	}
	return events
}
