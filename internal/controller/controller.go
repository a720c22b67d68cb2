// internal/controller/controller.go

// Package controller owns the theme load/cache/apply pipeline: read cached
// state, fetch fresh state when the cache has expired, and map the current
// theme document onto the console's style surface.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/dhwani-ris/frappe-desk-theme/internal/cache"
	"github.com/dhwani-ris/frappe-desk-theme/internal/desk"
	"github.com/dhwani-ris/frappe-desk-theme/internal/theme"
)

// DefaultRevealDelay lets property application settle before the login box
// transition runs. Purely cosmetic.
const DefaultRevealDelay = 150 * time.Millisecond

// ThemeCache is the persisted cache surface the controller needs.
type ThemeCache interface {
	Load(ctx context.Context) (*cache.Entry, error)
	Save(ctx context.Context, cfg *theme.Config, now time.Time) error
}

// ThemeFetcher retrieves the current theme document from the server.
type ThemeFetcher interface {
	FetchTheme(ctx context.Context) (*theme.Config, error)
}

// Options wires a Controller to its collaborators. Document, Cache, and
// Fetcher are required; the rest are optional capabilities.
type Options struct {
	Document desk.Document
	Cache    ThemeCache
	Fetcher  ThemeFetcher

	// AppSwitcher is called when the theme hides the app switcher and
	// names a default app. May be nil.
	AppSwitcher desk.AppSwitcher
	// Session supplies the user's roles for the search visibility rule.
	// May be nil (no roles, search never hidden by rule).
	Session desk.Session
	// Layout delivers layout-changed notifications. May be nil.
	Layout desk.LayoutNotifier

	// RevealDelay overrides DefaultRevealDelay. Zero or negative reveals
	// synchronously, which tests rely on.
	RevealDelay *time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Controller holds the current theme state and applies it to the document.
// One instance is constructed by the composition root and passed to anything
// that needs to trigger a refresh.
type Controller struct {
	mu  sync.Mutex
	cfg *theme.Config

	doc     desk.Document
	store   ThemeCache
	fetcher ThemeFetcher
	apps    desk.AppSwitcher
	session desk.Session
	layout  desk.LayoutNotifier

	revealDelay time.Duration
	now         func() time.Time

	refresh singleflight.Group

	listenerMu  sync.Mutex
	refreshed   []func(*theme.Config)
	unsubscribe func()
}

// New creates a Controller from opts.
func New(opts Options) (*Controller, error) {
	if opts.Document == nil {
		return nil, fmt.Errorf("controller requires a document")
	}
	if opts.Cache == nil {
		return nil, fmt.Errorf("controller requires a cache")
	}
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("controller requires a fetcher")
	}

	revealDelay := DefaultRevealDelay
	if opts.RevealDelay != nil {
		revealDelay = *opts.RevealDelay
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Controller{
		doc:         opts.Document,
		store:       opts.Cache,
		fetcher:     opts.Fetcher,
		apps:        opts.AppSwitcher,
		session:     opts.Session,
		layout:      opts.Layout,
		revealDelay: revealDelay,
		now:         now,
	}, nil
}

// Start runs the startup sequence: apply cached state immediately if any,
// fetch fresh state unless the cache is still valid, re-apply, and install
// the layout listener. Every step tolerates failure; whatever happens the
// document ends up styled (defaults at worst) with the login box revealed.
func (c *Controller) Start(ctx context.Context) {
	logger := log.Ctx(ctx)

	entry, err := c.store.Load(ctx)
	switch {
	case err == nil:
		c.setTheme(&entry.Data)
		c.Apply(ctx)
	case errors.Is(err, cache.ErrCacheMiss):
		// No usable cache; keep the login box from staying hidden while
		// we go to the network.
		c.doc.SetInlineDisplay(desk.SelectorLoginBox, "block")
	default:
		logger.Warn().Err(err).Msg("Theme cache read failed")
		c.doc.SetInlineDisplay(desk.SelectorLoginBox, "block")
	}

	cacheValid := entry != nil && entry.FreshAt(c.now())
	if !cacheValid {
		if err := c.loadFresh(ctx, entry); err != nil {
			logger.Error().Err(err).Msg("Theme fetch failed with no cached fallback")
		}
	}

	// Fetched data may differ from what the cache pre-applied; apply the
	// final state unconditionally so total failure still lands on defaults.
	c.Apply(ctx)
	c.doc.SetInlineDisplay(desk.SelectorLoginBox, "block")

	c.installLayoutListener()
}

// loadFresh fetches and persists a new theme document. On fetch failure the
// existing entry (even stale) is kept as state; with no entry at all the
// failure is returned.
func (c *Controller) loadFresh(ctx context.Context, entry *cache.Entry) error {
	logger := log.Ctx(ctx)

	cfg, err := c.fetcher.FetchTheme(ctx)
	if err != nil {
		if entry != nil {
			logger.Warn().Err(err).Msg("Theme fetch failed, using cached theme")
			return nil
		}
		return err
	}

	if err := c.store.Save(ctx, cfg, c.now()); err != nil {
		// Cache write failure is silent beyond the log; the fetched
		// theme still applies.
		logger.Warn().Err(err).Msg("Theme cache write failed")
	}
	c.setTheme(cfg)
	return nil
}

// Refresh re-fetches the theme unconditionally, ignoring cache validity,
// then persists, applies, and notifies subscribers. Concurrent refreshes
// share a single fetch.
func (c *Controller) Refresh(ctx context.Context) (*theme.Config, error) {
	v, err, _ := c.refresh.Do("refresh", func() (any, error) {
		cfg, err := c.fetcher.FetchTheme(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.store.Save(ctx, cfg, c.now()); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("Theme cache write failed")
		}
		c.setTheme(cfg)
		c.Apply(ctx)
		c.emitRefreshed(cfg)
		return cfg, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*theme.Config), nil
}

// RefreshIfStale refreshes only when no valid cache entry exists. The
// periodic scheduler uses it so a fresh cache suppresses network traffic.
func (c *Controller) RefreshIfStale(ctx context.Context) (*theme.Config, bool, error) {
	entry, err := c.store.Load(ctx)
	if err == nil && entry.FreshAt(c.now()) {
		return &entry.Data, false, nil
	}
	cfg, err := c.Refresh(ctx)
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// ApplyOverride replaces the current theme state without touching the cache
// or the network. The local override watcher feeds this path.
func (c *Controller) ApplyOverride(ctx context.Context, cfg *theme.Config) {
	c.setTheme(cfg)
	c.Apply(ctx)
	c.emitRefreshed(cfg)
}

// Theme returns the current theme state, which may be nil.
func (c *Controller) Theme() *theme.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// OnThemeRefreshed registers fn to run after every successful refresh.
func (c *Controller) OnThemeRefreshed(fn func(*theme.Config)) {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()
	c.refreshed = append(c.refreshed, fn)
}

// Stop removes the layout listener. Safe to call more than once.
func (c *Controller) Stop() {
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Apply maps the current state onto the document: clear every themed
// property, set the computed sheet, then run the class/visibility side
// effects. Safe with nil or partial state, and idempotent.
func (c *Controller) Apply(ctx context.Context) {
	cfg := c.Theme()
	sheet := theme.Compute(cfg)

	for _, name := range theme.PropertyNames() {
		c.doc.ClearStyleProperty(name)
	}
	for _, name := range sheet.Names() {
		value, _ := sheet.Get(name)
		c.doc.SetStyleProperty(name, value)
	}

	c.toggleSidebar(cfg)
	c.applySearchVisibility()
	c.switchDefaultApp(ctx, cfg)
	c.revealLoginBox()
}

// toggleSidebar expands the sidebar only on an explicit hide_side_bar of 0;
// an unset field must not expand.
func (c *Controller) toggleSidebar(cfg *theme.Config) {
	expanded := cfg != nil && cfg.HideSideBar != nil && *cfg.HideSideBar == 0
	if expanded {
		c.doc.AddClass(desk.SelectorSidebar, desk.ClassSidebarExpanded)
	} else {
		c.doc.RemoveClass(desk.SelectorSidebar, desk.ClassSidebarExpanded)
	}
}

// ApplySearchVisibility re-runs only the search-bar toggle. The layout
// listener calls this on every notification instead of the full Apply.
func (c *Controller) ApplySearchVisibility() {
	c.applySearchVisibility()
}

func (c *Controller) applySearchVisibility() {
	cfg := c.Theme()

	var roles []string
	if c.session != nil {
		roles = c.session.Roles()
	}
	var rules []theme.HideSearchRule
	if cfg != nil {
		rules = cfg.HideSearch
	}

	if theme.ShouldHideSearch(roles, rules) {
		c.doc.SetInlineDisplay(desk.SelectorSearchBar, "none")
	} else {
		c.doc.SetInlineDisplay(desk.SelectorSearchBar, "")
	}
}

func (c *Controller) switchDefaultApp(ctx context.Context, cfg *theme.Config) {
	if cfg == nil || cfg.HideAppSwitcher == 0 {
		return
	}
	logger := log.Ctx(ctx)

	if cfg.DefaultApp == "" {
		// The server validates this pairing; tolerate a document that
		// slipped through without a default app.
		logger.Warn().Msg("Theme hides the app switcher but names no default app")
		return
	}
	if c.apps == nil {
		logger.Debug().Str("app", cfg.DefaultApp).Msg("App switcher capability not present")
		return
	}
	if err := c.apps.SetCurrentApp(ctx, cfg.DefaultApp); err != nil {
		logger.Warn().Err(err).Str("app", cfg.DefaultApp).Msg("Failed to switch default app")
	}
}

func (c *Controller) revealLoginBox() {
	if !c.doc.HasElement(desk.SelectorLoginBox) {
		return
	}
	if c.revealDelay <= 0 {
		c.doc.SetInlineDisplay(desk.SelectorLoginBox, "block")
		return
	}
	time.AfterFunc(c.revealDelay, func() {
		c.doc.SetInlineDisplay(desk.SelectorLoginBox, "block")
	})
}

func (c *Controller) installLayoutListener() {
	if c.layout == nil {
		return
	}
	c.listenerMu.Lock()
	defer c.listenerMu.Unlock()
	if c.unsubscribe != nil {
		return
	}
	c.unsubscribe = c.layout.OnLayoutChange(c.applySearchVisibility)
}

func (c *Controller) setTheme(cfg *theme.Config) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

func (c *Controller) emitRefreshed(cfg *theme.Config) {
	c.listenerMu.Lock()
	listeners := make([]func(*theme.Config), len(c.refreshed))
	copy(listeners, c.refreshed)
	c.listenerMu.Unlock()

	for _, fn := range listeners {
		fn(cfg)
	}
}
