package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dhwani-ris/frappe-desk-theme/internal/theme"
)

func TestNewValidatesBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "empty", baseURL: "", wantErr: true},
		{name: "whitespace", baseURL: "   ", wantErr: true},
		{name: "no_scheme", baseURL: "example.com", wantErr: true},
		{name: "valid", baseURL: "https://desk.example.com", wantErr: false},
		{name: "trailing_slash", baseURL: "https://desk.example.com/", wantErr: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := New(test.baseURL)
			if (err != nil) != test.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %t", test.baseURL, err, test.wantErr)
			}
		})
	}
}

func TestFetchThemeUnwrapsEnvelope(t *testing.T) {
	var gotPath, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message": {"navbar_color": "#112233", "hide_app_switcher": 1, "default_app": "crm"}}`))
	}))
	defer server.Close()

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	cfg, err := c.FetchTheme(context.Background())
	if err != nil {
		t.Fatalf("fetch theme: %v", err)
	}
	if gotPath != ThemeMethodPath {
		t.Errorf("request path = %q, want %q", gotPath, ThemeMethodPath)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept header = %q, want application/json", gotAccept)
	}
	if cfg.NavbarColor != "#112233" || cfg.HideAppSwitcher != 1 || cfg.DefaultApp != "crm" {
		t.Errorf("decoded config = %+v, want unwrapped message fields", cfg)
	}
}

func TestFetchThemeNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = c.FetchTheme(context.Background())
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("fetch error = %v, want ErrUnexpectedStatus", err)
	}
}

func TestFetchThemeEmptyPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty_object", body: "{}"},
		{name: "empty_message", body: `{"message": {}}`},
		{name: "blank_body", body: ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(test.body))
			}))
			defer server.Close()

			c, err := New(server.URL)
			if err != nil {
				t.Fatalf("new client: %v", err)
			}

			_, err = c.FetchTheme(context.Background())
			if !errors.Is(err, theme.ErrEmptyTheme) {
				t.Fatalf("fetch error = %v, want ErrEmptyTheme", err)
			}
		})
	}
}

func TestFetchThemeContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c, err := New(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.FetchTheme(ctx); err == nil {
		t.Fatal("fetch with cancelled context succeeded, want error")
	}
}
