package breakage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		previous *v1.BreakageState
		current  v1.BreakageState
		want     []v1.NotificationEvent
	}{
		{
			name:    "no previous state never alerts",
			current: v1.BreakageState{"A": 2, "B": 5},
			want:    nil,
		},
		{
			name:     "newly broken and newly fixed",
			previous: &v1.BreakageState{"A": 2, "B": 3},
			current:  v1.BreakageState{"B": 4, "C": 2},
			want: []v1.NotificationEvent{
				{Job: "A", Kind: v1.EventFixed},
				{Job: "C", Kind: v1.EventBroken},
			},
		},
		{
			name:     "still broken is not re-notified",
			previous: &v1.BreakageState{"A": 2},
			current:  v1.BreakageState{"A": 3},
			want:     []v1.NotificationEvent{},
		},
		{
			name:     "empty previous state alerts on everything current",
			previous: &v1.BreakageState{},
			current:  v1.BreakageState{"b": 2, "a": 2},
			want: []v1.NotificationEvent{
				{Job: "a", Kind: v1.EventBroken},
				{Job: "b", Kind: v1.EventBroken},
			},
		},
		{
			name:     "everything fixed",
			previous: &v1.BreakageState{"z": 2, "y": 2},
			current:  v1.BreakageState{},
			want: []v1.NotificationEvent{
				{Job: "y", Kind: v1.EventFixed},
				{Job: "z", Kind: v1.EventFixed},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diff(tt.previous, tt.current))
		})
	}
}
