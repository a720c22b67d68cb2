// internal/watch/watcher.go

// Package watch feeds local theme-override changes into the controller. A
// JSON file on disk stands in for the console's "theme changed" signal:
// whenever the file is written, its contents replace the current theme.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dhwani-ris/frappe-desk-theme/internal/controller"
	"github.com/dhwani-ris/frappe-desk-theme/internal/theme"
)

// debounceWindow coalesces the burst of events editors emit per save.
const debounceWindow = 100 * time.Millisecond

// OverrideWatcher applies a local theme-override file whenever it changes.
type OverrideWatcher struct {
	path string
	ctrl *controller.Controller
}

// NewOverrideWatcher creates a watcher for the override file at path.
func NewOverrideWatcher(path string, ctrl *controller.Controller) (*OverrideWatcher, error) {
	if path == "" {
		return nil, fmt.Errorf("override file path is required")
	}
	if ctrl == nil {
		return nil, fmt.Errorf("override watcher requires a controller")
	}
	return &OverrideWatcher{path: path, ctrl: ctrl}, nil
}

// Run watches until ctx is cancelled. The file may not exist yet; the parent
// directory is watched so a later creation is picked up. An existing file is
// applied once at startup.
func (w *OverrideWatcher) Run(ctx context.Context) error {
	logger := log.Ctx(ctx).With().Str("component", "override_watcher").Str("path", w.path).Logger()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	if _, err := os.Stat(w.path); err == nil {
		w.applyFile(ctx, &logger)
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			// Rename covers editors that save by replacing the file.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, func() {
				w.applyFile(ctx, &logger)
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("Override watcher error")
		}
	}
}

func (w *OverrideWatcher) applyFile(ctx context.Context, logger *zerolog.Logger) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read override file")
		return
	}
	cfg, err := theme.Decode(data)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to decode override file")
		return
	}
	w.ctrl.ApplyOverride(ctx, cfg)
	logger.Info().Msg("Theme override applied")
}
