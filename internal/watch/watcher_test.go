package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dhwani-ris/frappe-desk-theme/internal/cache"
	"github.com/dhwani-ris/frappe-desk-theme/internal/controller"
	"github.com/dhwani-ris/frappe-desk-theme/internal/desk"
	"github.com/dhwani-ris/frappe-desk-theme/internal/theme"
)

type stubCache struct{}

func (stubCache) Load(ctx context.Context) (*cache.Entry, error) {
	return nil, cache.ErrCacheMiss
}

func (stubCache) Save(ctx context.Context, cfg *theme.Config, now time.Time) error {
	return nil
}

type stubFetcher struct{}

func (stubFetcher) FetchTheme(ctx context.Context) (*theme.Config, error) {
	return &theme.Config{}, nil
}

func newTestController(t *testing.T, doc desk.Document) *controller.Controller {
	t.Helper()
	noDelay := time.Duration(0)
	ctrl, err := controller.New(controller.Options{
		Document:    doc,
		Cache:       stubCache{},
		Fetcher:     stubFetcher{},
		RevealDelay: &noDelay,
	})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return ctrl
}

func waitForProperty(t *testing.T, doc *desk.MemDocument, name, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if got, _ := doc.StyleProperty(name); got == want {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	got, _ := doc.StyleProperty(name)
	t.Fatalf("property %s = %q, want %q before deadline", name, got, want)
}

func TestNewOverrideWatcherValidation(t *testing.T) {
	ctrl := newTestController(t, desk.NewMemDocument())

	if _, err := NewOverrideWatcher("", ctrl); err == nil {
		t.Error("empty path accepted")
	}
	if _, err := NewOverrideWatcher("/tmp/override.json", nil); err == nil {
		t.Error("nil controller accepted")
	}
}

func TestRunAppliesExistingFileOnStartup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.json")
	if err := os.WriteFile(path, []byte(`{"navbar_color": "#101010"}`), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	doc := desk.NewMemDocument()
	ctrl := newTestController(t, doc)
	watcher, err := NewOverrideWatcher(path, ctrl)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		watcher.Run(ctx)
		close(done)
	}()

	waitForProperty(t, doc, theme.PropNavbarColor, "#101010")

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestRunAppliesFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.json")

	doc := desk.NewMemDocument()
	ctrl := newTestController(t, doc)
	watcher, err := NewOverrideWatcher(path, ctrl)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	// Give the watcher time to install before creating the file.
	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(path, []byte(`{"navbar_color": "#fefefe"}`), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	waitForProperty(t, doc, theme.PropNavbarColor, "#fefefe")

	if err := os.WriteFile(path, []byte(`{"navbar_color": "#202020"}`), 0o644); err != nil {
		t.Fatalf("rewrite override: %v", err)
	}
	waitForProperty(t, doc, theme.PropNavbarColor, "#202020")
}

func TestRunAppliesAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.json")
	if err := os.WriteFile(path, []byte(`{"navbar_color": "#101010"}`), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	doc := desk.NewMemDocument()
	ctrl := newTestController(t, doc)
	watcher, err := NewOverrideWatcher(path, ctrl)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	waitForProperty(t, doc, theme.PropNavbarColor, "#101010")

	// Save the way editors do: write a temp file, rename it over the target.
	tmp := filepath.Join(dir, "override.json.tmp")
	if err := os.WriteFile(tmp, []byte(`{"navbar_color": "#303030"}`), 0o644); err != nil {
		t.Fatalf("write temp override: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename override: %v", err)
	}
	waitForProperty(t, doc, theme.PropNavbarColor, "#303030")
}
