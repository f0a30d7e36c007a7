package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	configv1 "github.com/openshift/ci-hud/pkg/apis/config/v1"
	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
	"github.com/openshift/ci-hud/pkg/breakage"
	"github.com/openshift/ci-hud/pkg/jobfilter"
	"github.com/openshift/ci-hud/pkg/notify"
	"github.com/openshift/ci-hud/pkg/source"
)

// connectHistorySize bounds the number of connect times kept for health reporting.
const connectHistorySize = 100

// Session identifies what is being displayed.
type Session struct {
	Family string  `json:"family"`
	Mode   v1.Mode `json:"mode"`
}

// Snapshot is the committed result of one cycle. It is never modified after commit.
type Snapshot struct {
	CycleID string  `json:"cycleID"`
	Session Session `json:"session"`
	// Builds are newest first.
	Builds    []v1.Build             `json:"builds"`
	KnownJobs []string               `json:"knownJobs"`
	Broken    v1.BreakageState       `json:"broken"`
	Events    []v1.NotificationEvent `json:"events"`
	// TracksBreakage is false for families that are displayed without alerting.
	TracksBreakage bool          `json:"tracksBreakage"`
	FetchFailures  int           `json:"fetchFailures"`
	StartedAt      time.Time     `json:"startedAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	ConnectedIn    time.Duration `json:"connectedIn"`
}

// Refresher periodically rebuilds the snapshot of one session. Overlapping cycles are
// allowed; the most recently started cycle to finish wins and older results are dropped.
type Refresher struct {
	config   *configv1.HudConfig
	source   source.Source
	notifier notify.Notifier
	nightly  *jobfilter.NightlyClassifier

	// NotificationsEnabled is consulted before dispatching events.
	NotificationsEnabled func(ctx context.Context) bool
	now                  func() time.Time

	mu sync.Mutex
	// started counts cycles begun; committed is the number of the cycle last committed.
	started   uint64
	committed uint64
	// epoch changes on every Reset so cycles of an abandoned session are discarded.
	epoch        uint64
	session      Session
	previous     *v1.BreakageState
	snapshot     *Snapshot
	connectTimes []time.Duration
}

func New(cfg *configv1.HudConfig, src source.Source, notifier notify.Notifier) *Refresher {
	return &Refresher{
		config:   cfg,
		source:   src,
		notifier: notifier,
		nightly:  cfg.NightlyClassifier(),
		NotificationsEnabled: func(context.Context) bool {
			return true
		},
		now:     time.Now,
		session: Session{Family: cfg.DefaultFamily().Name, Mode: v1.ModeDefault},
	}
}

func (r *Refresher) Session() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Snapshot returns the last committed snapshot, or nil before the first cycle completes.
func (r *Refresher) Snapshot() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot
}

// ConnectTimes returns the connect durations of recent committed cycles, oldest first.
func (r *Refresher) ConnectTimes() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.connectTimes...)
}

// Reset switches to another session and forgets everything derived from the old one,
// including the breakage baseline, so the first cycle afterwards does not alert.
func (r *Refresher) Reset(family string, mode v1.Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = Session{Family: family, Mode: mode}
	r.epoch++
	r.previous = nil
	r.snapshot = nil
	r.connectTimes = nil
	log.WithField("family", family).WithField("mode", mode).Info("session reset")
}

// Run performs a cycle immediately and then every interval until ctx is done.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := r.Cycle(ctx); err != nil {
			log.WithError(err).Warning("refresh cycle failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Cycle fetches the build history of the current session and commits a new snapshot.
// It returns nil without error when a newer cycle or a reset made the result obsolete.
func (r *Refresher) Cycle(ctx context.Context) (*Snapshot, error) {
	r.mu.Lock()
	r.started++
	number, epoch, session := r.started, r.epoch, r.session
	r.mu.Unlock()

	cycleID := uuid.New().String()
	logger := log.WithField("cycle", cycleID).WithField("family", session.Family)
	startedAt := r.now()

	family := r.config.Family(session.Family)
	branch := r.config.BranchFor(family)
	builds, failures, err := r.fetch(ctx, logger, session.Family, branch)
	if err != nil {
		return nil, errors.Wrapf(err, "could not list builds of %s", branch)
	}
	updatedAt := r.now()
	refreshDurationMetric.Observe(updatedAt.Sub(startedAt).Seconds())

	known := jobfilter.KnownJobs(builds, session.Mode, r.nightly)
	tracks := r.config.TracksBreakage(family)
	current := v1.BreakageState{}
	if tracks {
		candidates := breakage.Candidates(known, r.config.Breakage)
		current = breakage.Track(candidates, builds, r.config.WindowSize)
	}

	r.mu.Lock()
	if epoch != r.epoch || number < r.committed {
		r.mu.Unlock()
		logger.Info("discarding result of superseded cycle")
		return nil, nil
	}
	var events []v1.NotificationEvent
	if tracks {
		events = breakage.Diff(r.previous, current)
		r.previous = &current
	}
	snap := &Snapshot{
		CycleID:        cycleID,
		Session:        session,
		Builds:         builds,
		KnownJobs:      known,
		Broken:         current,
		Events:         events,
		TracksBreakage: tracks,
		FetchFailures:  failures,
		StartedAt:      startedAt,
		UpdatedAt:      updatedAt,
		ConnectedIn:    updatedAt.Sub(startedAt),
	}
	r.committed = number
	r.snapshot = snap
	r.connectTimes = append(r.connectTimes, snap.ConnectedIn)
	if len(r.connectTimes) > connectHistorySize {
		r.connectTimes = r.connectTimes[len(r.connectTimes)-connectHistorySize:]
	}
	r.mu.Unlock()

	brokenJobsMetric.WithLabelValues(session.Family).Set(float64(len(current)))
	logger.WithField("builds", len(builds)).WithField("broken", len(current)).
		Infof("refreshed in %s", snap.ConnectedIn)

	if len(events) > 0 && r.notifier != nil && r.NotificationsEnabled(ctx) {
		notify.Dispatch(ctx, r.notifier, session.Family, events)
	}
	return snap, nil
}

// fetch lists the builds of branch and fills in their job results, newest first. A build
// whose detail cannot be fetched is kept with no results.
func (r *Refresher) fetch(ctx context.Context, logger *log.Entry, family, branch string) ([]v1.Build, int, error) {
	listed, err := r.source.ListBuilds(ctx, branch)
	if err != nil {
		return nil, 0, err
	}

	n := len(listed)
	builds := make([]v1.Build, n)
	for i := range listed {
		builds[n-1-i] = listed[i]
	}

	prefix := source.PrefixFor(branch)
	failed := make([]bool, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.FetchConcurrency)
	for i := range builds {
		g.Go(func() error {
			results, err := r.source.BuildDetail(gctx, prefix, builds[i].ID)
			if err != nil {
				logger.WithError(err).WithField("build", builds[i].ID).Warning("could not fetch build detail, continuing")
				results = map[string]v1.JobResult{}
				failed[i] = true
			}
			builds[i].JobResults = results
			return nil
		})
	}
	_ = g.Wait()

	failures := 0
	for _, f := range failed {
		if f {
			failures++
		}
	}
	if failures > 0 {
		fetchFailuresMetric.WithLabelValues(family).Add(float64(failures))
	}
	return builds, failures, nil
}
