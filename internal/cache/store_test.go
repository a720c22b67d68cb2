package cache

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/dhwani-ris/frappe-desk-theme/internal/theme"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "theme_cache.db"))
	if err != nil {
		t.Fatalf("open cache store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestFresh(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	tests := []struct {
		name      string
		timestamp int64
		want      bool
	}{
		{name: "just_written", timestamp: now.UnixMilli(), want: true},
		{name: "one_ms_inside_ttl", timestamp: now.UnixMilli() - (TTL.Milliseconds() - 1), want: true},
		{name: "exactly_ttl_old", timestamp: now.UnixMilli() - TTL.Milliseconds(), want: false},
		{name: "well_past_ttl", timestamp: now.UnixMilli() - 2*TTL.Milliseconds(), want: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Fresh(now, test.timestamp); got != test.want {
				t.Fatalf("Fresh(now, %d) = %t, want %t", test.timestamp, got, test.want)
			}
		})
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)

	hideSideBar := 0
	cfg := &theme.Config{
		NavbarColor:          "#112233",
		HideSideBar:          &hideSideBar,
		HideAppSwitcher:      1,
		DefaultApp:           "crm",
		CustomLoginPageTitle: "Console",
		HideSearch:           []theme.HideSearchRule{{Role: "Sales User"}},
		CarouselImages:       []theme.CarouselImage{{Image: "/files/a.png", Caption: "a"}},
	}

	if err := store.Save(ctx, cfg, now); err != nil {
		t.Fatalf("save: %v", err)
	}

	entry, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(&entry.Data, cfg) {
		t.Errorf("round-tripped config differs:\ngot  %+v\nwant %+v", entry.Data, *cfg)
	}
	if entry.Timestamp != now.UnixMilli() {
		t.Errorf("timestamp = %d, want %d", entry.Timestamp, now.UnixMilli())
	}
	if entry.Version != SchemaVersion {
		t.Errorf("version = %d, want %d", entry.Version, SchemaVersion)
	}
	if !entry.FreshAt(now.Add(time.Hour)) {
		t.Error("entry stale one hour after write, want fresh")
	}
	if entry.FreshAt(now.Add(TTL)) {
		t.Error("entry fresh exactly TTL after write, want stale")
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &theme.Config{NavbarColor: "#000000"}
	second := &theme.Config{NavbarColor: "#ffffff"}

	if err := store.Save(ctx, first, time.UnixMilli(1000)); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := store.Save(ctx, second, time.UnixMilli(2000)); err != nil {
		t.Fatalf("save second: %v", err)
	}

	entry, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if entry.Data.NavbarColor != "#ffffff" {
		t.Errorf("NavbarColor = %q, want latest write", entry.Data.NavbarColor)
	}
	if entry.Timestamp != 2000 {
		t.Errorf("timestamp = %d, want 2000", entry.Timestamp)
	}
}

func TestStoreLoadMiss(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background())
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("load on empty store: err = %v, want ErrCacheMiss", err)
	}
}

func TestStoreMalformedPayloadIsMiss(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.db.ExecContext(ctx,
		`INSERT INTO theme_cache (key, data, timestamp, version) VALUES (?, ?, ?, ?)`,
		themeKey, "{not json", time.Now().UnixMilli(), SchemaVersion); err != nil {
		t.Fatalf("seed malformed row: %v", err)
	}

	_, err := store.Load(ctx)
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("load malformed entry: err = %v, want ErrCacheMiss", err)
	}
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear empty cache: %v", err)
	}

	if err := store.Save(ctx, &theme.Config{NavbarColor: "#112233"}, time.Now()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if _, err := store.Load(ctx); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("load after clear: err = %v, want ErrCacheMiss", err)
	}
}
