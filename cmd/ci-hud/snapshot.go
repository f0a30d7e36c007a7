package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/openshift/ci-hud/pkg/flags"
	"github.com/openshift/ci-hud/pkg/flags/configflags"
	"github.com/openshift/ci-hud/pkg/notify"
	"github.com/openshift/ci-hud/pkg/refresh"
	"github.com/openshift/ci-hud/pkg/viewmodel"
)

type SnapshotFlags struct {
	ConfigFlags  *configflags.ConfigFlags
	SessionFlags *flags.SessionFlags
	SourceFlags  *flags.SourceFlags

	FilterText      string
	ShowServiceJobs bool
	Expanded        []string
	Timeout         time.Duration
}

func NewSnapshotFlags() *SnapshotFlags {
	return &SnapshotFlags{
		ConfigFlags:     configflags.NewConfigFlags(),
		SessionFlags:    flags.NewSessionFlags(),
		SourceFlags:     flags.NewSourceFlags(),
		ShowServiceJobs: true,
		Timeout:         2 * time.Minute,
	}
}

func (f *SnapshotFlags) BindFlags(fs *pflag.FlagSet) {
	f.ConfigFlags.BindFlags(fs)
	f.SessionFlags.BindFlags(fs)
	f.SourceFlags.BindFlags(fs)
	fs.StringVar(&f.FilterText, "filter", f.FilterText, "Only show jobs whose name contains or matches this text")
	fs.BoolVar(&f.ShowServiceJobs, "show-service-jobs", f.ShowServiceJobs, "Include service jobs")
	fs.StringSliceVar(&f.Expanded, "expand", f.Expanded, "Groups to show job by job")
	fs.DurationVar(&f.Timeout, "timeout", f.Timeout, "Give up fetching builds after this long")
}

func (f *SnapshotFlags) Validate() error {
	if err := f.SessionFlags.Validate(); err != nil {
		return err
	}
	return f.SourceFlags.Validate()
}

func NewSnapshotCommand() *cobra.Command {
	f := NewSnapshotFlags()

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch the current build history once and print the HUD view as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Validate(); err != nil {
				return errors.WithMessage(err, "error validating options")
			}
			ctx, cancel := context.WithTimeout(context.Background(), f.Timeout)
			defer cancel()

			cfg, err := f.ConfigFlags.GetConfig()
			if err != nil {
				return err
			}
			groups, err := cfg.GroupDefinitions()
			if err != nil {
				return err
			}
			src, err := f.SourceFlags.GetSource(ctx, nil, 0)
			if err != nil {
				return errors.WithMessage(err, "couldn't create build source")
			}

			// A single cycle has no previous state, so nothing is ever sent.
			refresher := refresh.New(cfg, src, notify.LogNotifier{})
			family := f.SessionFlags.Family
			if family == "" {
				family = refresher.Session().Family
			}
			refresher.Reset(family, f.SessionFlags.GetMode())

			snap, err := refresher.Cycle(ctx)
			if err != nil {
				return errors.WithMessage(err, "couldn't fetch builds")
			}
			if snap == nil {
				return errors.New("refresh was superseded")
			}

			view := viewmodel.Build(viewmodel.Input{
				AllKnownJobs:    snap.KnownJobs,
				FilterText:      f.FilterText,
				ShowServiceJobs: f.ShowServiceJobs,
				Mode:            snap.Session.Mode,
				Broken:          snap.Broken,
				Groups:          groups,
				Expanded:        sets.New[string](f.Expanded...),
				Builds:          snap.Builds,
				ServiceRules:    cfg.ServiceJobs,
				Nightly:         cfg.NightlyClassifier(),
				RepositoryURL:   cfg.RepositoryURL,
				Now:             time.Now(),
			})
			out, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(out))
			return nil
		},
	}

	f.BindFlags(cmd.Flags())

	return cmd
}
