package showcase

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "showcase.yaml")
	data := `name: Studio
api_url: https://cms.example.org
cache_ttl: 90s
cms_timeout: 2s
preview_images: true
popups:
  /projects/:
    title: About
    body: Projects across the **city**.
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := SiteConfig{
		Name:          "Studio",
		APIURL:        "https://cms.example.org",
		CacheTTL:      90 * time.Second,
		CMSTimeout:    2 * time.Second,
		PreviewImages: true,
		Popups: map[string]Popup{
			"/projects/": {Title: "About", Body: "Projects across the **city**."},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("cache_ttl: [nope"), 0o644)
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}

	cfg, err := LoadConfig("")
	if err != nil || cfg.Name != "" {
		t.Errorf("empty path = %+v, %v", cfg, err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SITE_NAME", "Env Studio")
	t.Setenv("API_URL", "http://cms.internal:1337")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CACHE_TTL", "1m")

	cfg := SiteConfig{Name: "File Studio", Author: "Ana"}
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Name != "Env Studio" || cfg.APIURL != "http://cms.internal:1337" {
		t.Errorf("strings not applied: %+v", cfg)
	}
	if cfg.Author != "Ana" {
		t.Errorf("unset variables must keep file values, Author = %q", cfg.Author)
	}
	if !cfg.CookieSecure || cfg.CacheTTL != time.Minute {
		t.Errorf("typed values not applied: %+v", cfg)
	}
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"COOKIE_SECURE", "maybe"},
		{"CACHE_TTL", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			var cfg SiteConfig
			if err := ApplyEnv(&cfg); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	cfg := SiteConfig{Name: "Studio", Description: "Public art", CacheTTL: -1}
	cfg.setDefaults()

	if cfg.APIURL != "http://localhost:1337" || cfg.Addr != ":3000" || cfg.NewsSort != "createdAt:desc" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.CacheTTL != -1 {
		t.Error("a negative CacheTTL must stay disabled")
	}
	if cfg.Welcome != (Popup{Title: "Welcome to Studio", Body: "Public art"}) {
		t.Errorf("Welcome = %+v", cfg.Welcome)
	}
}
