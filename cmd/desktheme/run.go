// cmd/desktheme/run.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhwani-ris/frappe-desk-theme/internal/controller"
	"github.com/dhwani-ris/frappe-desk-theme/internal/desk"
	"github.com/dhwani-ris/frappe-desk-theme/internal/scheduler"
	"github.com/dhwani-ris/frappe-desk-theme/internal/theme"
	"github.com/dhwani-ris/frappe-desk-theme/internal/watch"
)

var runOpts struct {
	outFile string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the theme pipeline until interrupted",
	Long: `Run applies the cached theme, fetches a fresh one when the cache has
expired, and keeps the rendered CSS custom-property block up to date. With
refresh enabled in the config, a scheduled job re-fetches on the configured
cron; with an override file configured, local edits apply immediately.
Sending SIGHUP forces an immediate re-fetch regardless of cache validity.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runOpts.outFile, "out", "o", "", "write rendered CSS to this file on every change")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.Logger.WithContext(ctx)

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	themeClient, err := newClient()
	if err != nil {
		return err
	}

	notifier := desk.NewFanoutNotifier()
	ctrl, err := controller.New(controller.Options{
		Document: desk.NewMemDocument(),
		Cache:    store,
		Fetcher:  themeClient,
		Session:  desk.StaticSession(cfg.Session.Roles),
		Layout:   notifier,
	})
	if err != nil {
		return err
	}
	defer ctrl.Stop()

	if runOpts.outFile != "" {
		ctrl.OnThemeRefreshed(func(refreshed *theme.Config) {
			writeCSS(ctx, runOpts.outFile, refreshed)
		})
	}

	ctrl.Start(ctx)
	if runOpts.outFile != "" {
		writeCSS(ctx, runOpts.outFile, ctrl.Theme())
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Refresh.Enabled {
		sched, err := scheduler.New()
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		if err := scheduler.RegisterRefreshJob(sched, ctrl, cfg.Refresh.Cron); err != nil {
			return fmt.Errorf("failed to register refresh job: %w", err)
		}
		sched.Start()
		g.Go(func() error {
			<-ctx.Done()
			return sched.Stop()
		})
	}

	if cfg.Override.File != "" {
		watcher, err := watch.NewOverrideWatcher(cfg.Override.File, ctrl)
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				return fmt.Errorf("override watcher: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		return refreshOnHangup(ctx, func(ctx context.Context) error {
			_, err := ctrl.Refresh(ctx)
			return err
		})
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("Shutting down")
		return nil
	})

	log.Info().
		Str("server", cfg.Server.BaseURL).
		Bool("refresh_enabled", cfg.Refresh.Enabled).
		Msg("Theme pipeline running")

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// refreshOnHangup triggers an unconditional theme refresh on every SIGHUP
// until ctx is cancelled. The "theme changed" signal for deployments that
// want a re-fetch without waiting for the cache to expire.
func refreshOnHangup(ctx context.Context, refresh func(context.Context) error) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
			log.Ctx(ctx).Info().Msg("Theme refresh requested")
			if err := refresh(ctx); err != nil {
				log.Ctx(ctx).Warn().Err(err).Msg("Requested theme refresh failed")
			}
		}
	}
}

func writeCSS(ctx context.Context, path string, cfg *theme.Config) {
	css := theme.Compute(cfg).RenderCSS()
	if err := os.WriteFile(path, []byte(css), 0o644); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("Failed to write rendered CSS")
		return
	}
	log.Ctx(ctx).Debug().Str("path", path).Msg("Rendered CSS written")
}
