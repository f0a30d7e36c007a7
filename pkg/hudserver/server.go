package hudserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	metrics "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"
	"k8s.io/apimachinery/pkg/util/sets"

	configv1 "github.com/openshift/ci-hud/pkg/apis/config/v1"
	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
	"github.com/openshift/ci-hud/pkg/grouping"
	"github.com/openshift/ci-hud/pkg/jobfilter"
	"github.com/openshift/ci-hud/pkg/notify"
	"github.com/openshift/ci-hud/pkg/prefs"
	"github.com/openshift/ci-hud/pkg/refresh"
	"github.com/openshift/ci-hud/pkg/sev"
	"github.com/openshift/ci-hud/pkg/viewmodel"
)

// httpMetrics records request metrics for every handler. It registers with the default
// prometheus registry, so it must only be created once.
var httpMetrics = middleware.New(middleware.Config{
	Recorder: metrics.NewRecorder(metrics.Config{Prefix: "cihud"}),
})

// SEVReporter returns the currently open SEVs.
type SEVReporter interface {
	Current(ctx context.Context) ([]sev.SEV, error)
}

type Server struct {
	config    *configv1.HudConfig
	refresher *refresh.Refresher
	prefs     prefs.Store
	sev       SEVReporter
	groups    []grouping.Definition
	nightly   *jobfilter.NightlyClassifier

	listenAddr  string
	metricsAddr string
	now         func() time.Time

	// ctx outlives requests and is used for cycles triggered by a request.
	ctx context.Context

	mu       sync.Mutex
	expanded sets.Set[string]
}

func NewServer(ctx context.Context, cfg *configv1.HudConfig, refresher *refresh.Refresher, store prefs.Store, sevReporter SEVReporter, listenAddr, metricsAddr string) (*Server, error) {
	groups, err := cfg.GroupDefinitions()
	if err != nil {
		return nil, err
	}
	return &Server{
		config:      cfg,
		refresher:   refresher,
		prefs:       store,
		sev:         sevReporter,
		groups:      groups,
		nightly:     cfg.NightlyClassifier(),
		listenAddr:  listenAddr,
		metricsAddr: metricsAddr,
		now:         time.Now,
		ctx:         ctx,
		expanded:    sets.New[string](),
	}, nil
}

// Handler returns the API routes wrapped in request metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/view", s.jsonView)
	mux.HandleFunc("/api/broken", s.jsonBroken)
	mux.HandleFunc("/api/events", s.jsonEvents)
	mux.HandleFunc("/api/preferences", s.jsonPreferences)
	mux.HandleFunc("/api/groups/toggle", s.jsonToggleGroup)
	mux.HandleFunc("/api/session", s.jsonSession)
	mux.HandleFunc("/api/sev", s.jsonSEV)
	mux.HandleFunc("/api/health", s.jsonHealth)
	mux.HandleFunc("/refresh", s.refresh)
	return std.Handler("", httpMetrics, mux)
}

// Serve listens until ctx is done. Metrics are served on their own listener when
// metricsAddr is set.
func (s *Server) Serve(ctx context.Context) error {
	if s.metricsAddr != "" {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsServer := &http.Server{Addr: s.metricsAddr, Handler: metricsMux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			log.Infof("serving metrics on %s", s.metricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("metrics server failed")
			}
		}()
		defer metricsServer.Close()
	}

	httpServer := &http.Server{Addr: s.listenAddr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warning("error shutting down server")
		}
	}()

	log.Infof("serving HUD on %s", s.listenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "server failed")
	}
	return nil
}

// ViewResponse is the complete state needed to draw the HUD.
type ViewResponse struct {
	Session     refresh.Session   `json:"session"`
	Ready       bool              `json:"ready"`
	UpdatedAt   *time.Time        `json:"updatedAt,omitempty"`
	ConnectedIn time.Duration     `json:"connectedIn"`
	Preferences prefs.Preferences `json:"preferences"`
	// NotificationWarning is set when notifications are enabled but the client denied them.
	NotificationWarning bool           `json:"notificationWarning"`
	View                viewmodel.View `json:"view"`
}

func (s *Server) jsonView(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	p, err := s.prefs.Load(r.Context())
	if err != nil {
		log.WithError(err).Warning("could not load preferences, using defaults")
	}
	session := s.refresher.Session()
	snap := s.refresher.Snapshot()

	in := viewmodel.Input{
		FilterText:      r.URL.Query().Get("filter"),
		ShowServiceJobs: p.ShowServiceJobs,
		Mode:            session.Mode,
		Groups:          s.groups,
		Expanded:        s.expandedGroups(),
		ServiceRules:    s.config.ServiceJobs,
		Nightly:         s.nightly,
		RepositoryURL:   s.config.RepositoryURL,
		Now:             s.now(),
	}
	resp := ViewResponse{
		Session:             session,
		Preferences:         p,
		NotificationWarning: notify.ParsePermission(r.URL.Query().Get("permission")).Warn(p.ShowNotifications),
	}
	if snap != nil {
		in.AllKnownJobs = snap.KnownJobs
		in.Broken = snap.Broken
		in.Builds = snap.Builds
		resp.Ready = true
		resp.UpdatedAt = &snap.UpdatedAt
		resp.ConnectedIn = snap.ConnectedIn
	}
	resp.View = viewmodel.Build(in)
	RespondWithJSON(http.StatusOK, w, resp)
}

// BrokenJob is a confirmed broken job with its consecutive failure count.
type BrokenJob struct {
	Job      string `json:"job"`
	Failures int    `json:"failures"`
}

func (s *Server) jsonBroken(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	broken := []BrokenJob{}
	if snap := s.refresher.Snapshot(); snap != nil {
		for job, n := range snap.Broken {
			broken = append(broken, BrokenJob{Job: job, Failures: n})
		}
	}
	sort.Slice(broken, func(i, j int) bool { return broken[i].Job < broken[j].Job })
	RespondWithJSON(http.StatusOK, w, broken)
}

func (s *Server) jsonEvents(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	events := []v1.NotificationEvent{}
	if snap := s.refresher.Snapshot(); snap != nil && snap.Events != nil {
		events = snap.Events
	}
	RespondWithJSON(http.StatusOK, w, events)
}

func (s *Server) jsonPreferences(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPut) {
		return
	}
	if r.Method == http.MethodPut {
		current, err := s.prefs.Load(r.Context())
		if err != nil {
			log.WithError(err).Warning("could not load preferences, using defaults")
		}
		// Fields missing from the body keep their current value.
		if err := json.NewDecoder(r.Body).Decode(&current); err != nil {
			respondWithError(http.StatusBadRequest, w, "could not decode preferences: "+err.Error())
			return
		}
		if err := s.prefs.Save(r.Context(), current); err != nil {
			respondWithError(http.StatusInternalServerError, w, err.Error())
			return
		}
		RespondWithJSON(http.StatusOK, w, current)
		return
	}

	p, err := s.prefs.Load(r.Context())
	if err != nil {
		log.WithError(err).Warning("could not load preferences, using defaults")
	}
	RespondWithJSON(http.StatusOK, w, p)
}

func (s *Server) jsonToggleGroup(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		respondWithError(http.StatusBadRequest, w, "name is required")
		return
	}

	s.mu.Lock()
	if s.expanded.Has(name) {
		s.expanded.Delete(name)
	} else {
		s.expanded.Insert(name)
	}
	expanded := sets.List(s.expanded)
	s.mu.Unlock()

	RespondWithJSON(http.StatusOK, w, map[string][]string{"expanded": expanded})
}

func (s *Server) expandedGroups() sets.Set[string] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded.Clone()
}

func (s *Server) jsonSession(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if r.Method == http.MethodPost {
		family := r.URL.Query().Get("family")
		if family == "" {
			family = s.refresher.Session().Family
		}
		mode := v1.ParseMode(r.URL.Query().Get("mode"))
		s.refresher.Reset(family, mode)
		go func() {
			if _, err := s.refresher.Cycle(s.ctx); err != nil {
				log.WithError(err).Warning("refresh after session change failed")
			}
		}()
	}
	RespondWithJSON(http.StatusOK, w, s.refresher.Session())
}

func (s *Server) jsonSEV(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	if s.sev == nil {
		RespondWithJSON(http.StatusOK, w, []sev.SEV{})
		return
	}
	sevs, err := s.sev.Current(r.Context())
	if err != nil {
		respondWithError(http.StatusBadGateway, w, err.Error())
		return
	}
	RespondWithJSON(http.StatusOK, w, sevs)
}

// Health reports how fresh the data is and how long fetching it takes.
type Health struct {
	Session        refresh.Session `json:"session"`
	Ready          bool            `json:"ready"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
	Age            string          `json:"age,omitempty"`
	ConnectedIn    time.Duration   `json:"connectedIn"`
	FetchFailures  int             `json:"fetchFailures"`
	Cycles         int             `json:"cycles"`
	MedianConnect  float64         `json:"medianConnectSeconds"`
	P95Connect     float64         `json:"p95ConnectSeconds"`
	BrokenJobCount int             `json:"brokenJobCount"`
}

func (s *Server) jsonHealth(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	h := Health{Session: s.refresher.Session()}
	if snap := s.refresher.Snapshot(); snap != nil {
		h.Ready = true
		h.UpdatedAt = &snap.UpdatedAt
		h.Age = s.now().Sub(snap.UpdatedAt).Round(time.Second).String()
		h.ConnectedIn = snap.ConnectedIn
		h.FetchFailures = snap.FetchFailures
		h.BrokenJobCount = len(snap.Broken)
	}

	durations := s.refresher.ConnectTimes()
	h.Cycles = len(durations)
	if len(durations) > 0 {
		seconds := make([]float64, 0, len(durations))
		for _, d := range durations {
			seconds = append(seconds, d.Seconds())
		}
		data := stats.LoadRawData(seconds)
		h.MedianConnect, _ = stats.Median(data)
		h.P95Connect, _ = stats.Percentile(data, 95)
	}
	RespondWithJSON(http.StatusOK, w, h)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	snap, err := s.refresher.Cycle(r.Context())
	if err != nil {
		respondWithError(http.StatusBadGateway, w, err.Error())
		return
	}
	if snap == nil {
		RespondWithJSON(http.StatusAccepted, w, map[string]string{"status": "superseded"})
		return
	}
	RespondWithJSON(http.StatusOK, w, map[string]interface{}{
		"status":      "refreshed",
		"cycleID":     snap.CycleID,
		"builds":      len(snap.Builds),
		"broken":      len(snap.Broken),
		"connectedIn": snap.ConnectedIn.String(),
	})
}
