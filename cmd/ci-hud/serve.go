package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/openshift/ci-hud/pkg/flags"
	"github.com/openshift/ci-hud/pkg/flags/configflags"
	"github.com/openshift/ci-hud/pkg/hudserver"
	"github.com/openshift/ci-hud/pkg/refresh"
	"github.com/openshift/ci-hud/pkg/sev"
)

type ServerFlags struct {
	APIFlags          *flags.APIFlags
	CacheFlags        *flags.CacheFlags
	ConfigFlags       *configflags.ConfigFlags
	GitHubFlags       *flags.GitHubFlags
	NotificationFlags *flags.NotificationFlags
	PreferencesFlags  *flags.PreferencesFlags
	SessionFlags      *flags.SessionFlags
	SourceFlags       *flags.SourceFlags
}

func NewServerFlags() *ServerFlags {
	return &ServerFlags{
		APIFlags:          flags.NewAPIFlags(),
		CacheFlags:        flags.NewCacheFlags(),
		ConfigFlags:       configflags.NewConfigFlags(),
		GitHubFlags:       flags.NewGitHubFlags(),
		NotificationFlags: flags.NewNotificationFlags(),
		PreferencesFlags:  flags.NewPreferencesFlags(),
		SessionFlags:      flags.NewSessionFlags(),
		SourceFlags:       flags.NewSourceFlags(),
	}
}

func (f *ServerFlags) BindFlags(fs *pflag.FlagSet) {
	f.APIFlags.BindFlags(fs)
	f.CacheFlags.BindFlags(fs)
	f.ConfigFlags.BindFlags(fs)
	f.GitHubFlags.BindFlags(fs)
	f.NotificationFlags.BindFlags(fs)
	f.PreferencesFlags.BindFlags(fs)
	f.SessionFlags.BindFlags(fs)
	f.SourceFlags.BindFlags(fs)
}

func (f *ServerFlags) Validate() error {
	if err := f.SessionFlags.Validate(); err != nil {
		return err
	}
	if err := f.SourceFlags.Validate(); err != nil {
		return err
	}
	return f.NotificationFlags.Validate()
}

func NewServeCommand() *cobra.Command {
	f := NewServerFlags()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HUD server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Validate(); err != nil {
				return errors.WithMessage(err, "error validating options")
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := f.ConfigFlags.GetConfig()
			if err != nil {
				return err
			}

			cacheClient, err := f.CacheFlags.GetCacheClient()
			if err != nil {
				return errors.WithMessage(err, "couldn't get cache client")
			}
			detailCache, err := f.CacheFlags.GetDetailCache(cacheClient)
			if err != nil {
				return errors.WithMessage(err, "couldn't get detail cache")
			}
			ttl := cfg.DetailCacheTTL
			if f.CacheFlags.DetailTTL > 0 {
				ttl = f.CacheFlags.DetailTTL
			}

			src, err := f.SourceFlags.GetSource(ctx, detailCache, ttl)
			if err != nil {
				return errors.WithMessage(err, "couldn't create build source")
			}

			store := f.PreferencesFlags.GetStore(cacheClient)
			refresher := refresh.New(cfg, src, f.NotificationFlags.GetNotifier())
			refresher.NotificationsEnabled = func(ctx context.Context) bool {
				p, err := store.Load(ctx)
				if err != nil {
					log.WithError(err).Warning("could not load preferences, notifications stay enabled")
				}
				return p.ShowNotifications
			}
			if f.SessionFlags.Family != "" {
				refresher.Reset(f.SessionFlags.Family, f.SessionFlags.GetMode())
			} else if mode := f.SessionFlags.GetMode(); mode != refresher.Session().Mode {
				refresher.Reset(refresher.Session().Family, mode)
			}

			reporter := sev.NewReporter(ctx, f.GitHubFlags.GetCredentials(), cfg.SEV.Query)

			server, err := hudserver.NewServer(ctx, cfg, refresher, store, reporter,
				f.APIFlags.ListenAddr, f.APIFlags.MetricsAddr)
			if err != nil {
				return errors.WithMessage(err, "couldn't create server")
			}

			go refresher.Run(ctx, cfg.RefreshInterval)
			return server.Serve(ctx)
		},
	}

	f.BindFlags(cmd.Flags())

	return cmd
}
