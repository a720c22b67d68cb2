// cmd/desktheme/cache.go
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhwani-ris/frappe-desk-theme/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local theme cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the cached theme entry and its validity",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := store.Load(context.Background())
		if errors.Is(err, cache.ErrCacheMiss) {
			fmt.Fprintln(cmd.OutOrStdout(), "cache: empty")
			return nil
		}
		if err != nil {
			return err
		}

		now := time.Now()
		written := time.UnixMilli(entry.Timestamp)
		state := "stale"
		if entry.FreshAt(now) {
			state = "valid"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cache: %s\nwritten: %s (%s ago)\nversion: %d\n",
			state, written.Format(time.RFC3339), now.Sub(written).Round(time.Second), entry.Version)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cached theme entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
