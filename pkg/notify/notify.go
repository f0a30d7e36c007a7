package notify

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
	"github.com/openshift/ci-hud/pkg/jobfilter"
)

var notificationsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cihud_notifications_total",
	Help: "Breakage transitions sent to notification channels, by kind",
}, []string{"kind"})

// Message is a single user facing alert.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Format renders an event for family.
func Format(family string, ev v1.NotificationEvent) Message {
	icon := "❌"
	if ev.Kind == v1.EventFixed {
		icon = "✅"
	}
	return Message{
		Title: icon + " " + family,
		Body:  jobfilter.SummarizeJob(ev.Job),
	}
}

// Dispatch sends every event in order. Delivery failures are logged and otherwise
// ignored.
func Dispatch(ctx context.Context, n Notifier, family string, events []v1.NotificationEvent) {
	for _, ev := range events {
		msg := Format(family, ev)
		notificationsMetric.WithLabelValues(string(ev.Kind)).Inc()
		if err := n.Notify(ctx, msg); err != nil {
			log.WithError(err).WithField("job", ev.Job).Warningf("could not deliver %s notification", ev.Kind)
		}
	}
}

// LogNotifier writes notifications to the log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, msg Message) error {
	log.WithField("body", msg.Body).Info(msg.Title)
	return nil
}

// Multi delivers to every notifier, even when some of them fail.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var failed []string
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			failed = append(failed, err.Error())
		}
	}
	if len(failed) > 0 {
		return &MultiError{Messages: failed}
	}
	return nil
}

type MultiError struct {
	Messages []string
}

func (e *MultiError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Permission is the user's notification permission as reported by the client.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

func ParsePermission(s string) Permission {
	switch Permission(s) {
	case PermissionGranted, PermissionDenied:
		return Permission(s)
	}
	return PermissionDefault
}

// Warn reports whether the user asked for notifications they will not receive.
func (p Permission) Warn(showNotifications bool) bool {
	return showNotifications && p == PermissionDenied
}
