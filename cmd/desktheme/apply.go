// cmd/desktheme/apply.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dhwani-ris/frappe-desk-theme/internal/controller"
	"github.com/dhwani-ris/frappe-desk-theme/internal/desk"
	"github.com/dhwani-ris/frappe-desk-theme/internal/theme"
)

var applyOpts struct {
	outFile string
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run the startup sequence once and print the rendered CSS",
	Long: `Apply runs the load/cache/fetch sequence a single time and prints the
resulting CSS custom-property block. A fetch failure with a cached theme
present still succeeds; only total failure leaves the defaults.`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyOpts.outFile, "out", "o", "", "write rendered CSS to this file instead of stdout")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := log.Logger.WithContext(context.Background())

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	themeClient, err := newClient()
	if err != nil {
		return err
	}

	ctrl, err := controller.New(controller.Options{
		Document: desk.NewMemDocument(),
		Cache:    store,
		Fetcher:  themeClient,
		Session:  desk.StaticSession(cfg.Session.Roles),
	})
	if err != nil {
		return err
	}
	ctrl.Start(ctx)

	css := theme.Compute(ctrl.Theme()).RenderCSS()
	if applyOpts.outFile != "" {
		if err := os.WriteFile(applyOpts.outFile, []byte(css), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", applyOpts.outFile, err)
		}
		log.Info().Str("path", applyOpts.outFile).Msg("Rendered CSS written")
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), css)
	return nil
}
