// cmd/desktheme/root.go
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dhwani-ris/frappe-desk-theme/internal/cache"
	"github.com/dhwani-ris/frappe-desk-theme/internal/client"
	"github.com/dhwani-ris/frappe-desk-theme/internal/config"
)

var (
	version = "dev"
	commit  = "unknown"
)

var globalOpts struct {
	configPath string
	verbose    bool
}

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "desktheme",
	Short: "Desk theme client for the admin console",
	Long: `desktheme fetches the desk theme document from the admin console,
caches it locally, and applies it as CSS custom properties plus a small set
of visibility toggles.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.Load(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cfg.App.Environment == "development" {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalOpts.configPath, "config", "c", "config.yaml", "path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false, "enable debug logging")
}

func setupLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if globalOpts.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func openStore() (*cache.Store, error) {
	store, err := cache.Open(cfg.Cache.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open theme cache: %w", err)
	}
	return store, nil
}

func newClient() (*client.Client, error) {
	opts := []client.Option{}
	if cfg.Server.TimeoutSeconds > 0 {
		opts = append(opts, client.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		}))
	}
	c, err := client.New(cfg.Server.BaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create theme client: %w", err)
	}
	return c, nil
}
