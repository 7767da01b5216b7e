package showcase

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Popup is a modal shown on the first visit of a page in a session. Body is
// markdown.
type Popup struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// SiteConfig holds all configuration for a showcase site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Showcase")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD

	Addr string `yaml:"addr"` // Listen address (default ":3000")

	APIURL     string        `yaml:"api_url"`     // CMS base URL (default "http://localhost:1337")
	NewsSort   string        `yaml:"news_sort"`   // default "createdAt:desc"
	CMSTimeout time.Duration `yaml:"cms_timeout"` // default 5s
	CacheTTL   time.Duration `yaml:"cache_ttl"`   // Content cache TTL (default 5min, negative disables)

	ViewerIdleTTL time.Duration `yaml:"viewer_idle_ttl"` // default 30min

	PlaceholderImage string `yaml:"placeholder_image"` // default "/public/images/placeholder.png"
	UnsafeHTML       bool   `yaml:"unsafe_html"`       // skip sanitizing of markdown bodies
	PreviewImages    bool   `yaml:"preview_images"`    // serve card images through /media/preview/
	PreviewMaxWidth  int    `yaml:"preview_max_width"` // default 800

	Popups  map[string]Popup `yaml:"popups"` // keyed by page path, e.g. "/projects/"
	Welcome Popup            `yaml:"welcome"`

	SessionSecret string `yaml:"session_secret"` // Required: session encryption secret
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS
	LogLevel      string `yaml:"log_level"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Showcase"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.APIURL == "" {
		c.APIURL = "http://localhost:1337"
	}
	if c.NewsSort == "" {
		c.NewsSort = "createdAt:desc"
	}
	if c.CMSTimeout == 0 {
		c.CMSTimeout = 5 * time.Second
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.ViewerIdleTTL == 0 {
		c.ViewerIdleTTL = 30 * time.Minute
	}
	if c.PlaceholderImage == "" {
		c.PlaceholderImage = "/public/images/placeholder.png"
	}
	if c.PreviewMaxWidth == 0 {
		c.PreviewMaxWidth = 800
	}
	if c.Welcome.Title == "" && c.Welcome.Body == "" {
		c.Welcome = Popup{Title: "Welcome to " + c.Name, Body: c.Description}
	}
}

// LoadConfig reads a YAML config file. An empty path yields the zero config.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides file values with environment variables that are set.
func ApplyEnv(cfg *SiteConfig) error {
	set := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set("SITE_NAME", &cfg.Name)
	set("SITE_URL", &cfg.URL)
	set("SITE_DESCRIPTION", &cfg.Description)
	set("SITE_AUTHOR", &cfg.Author)
	set("API_URL", &cfg.APIURL)
	set("LISTEN_ADDR", &cfg.Addr)
	set("SESSION_SECRET", &cfg.SessionSecret)
	set("LOG_LEVEL", &cfg.LogLevel)

	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = b
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = d
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger sets the application logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.Log = l
		}
	}
}

// WithClock replaces time.Now, used for the footer year and viewer idling.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithHTTPClient sets the client used for CMS and media requests. The default
// uses CMSTimeout.
func WithHTTPClient(h *http.Client) Option {
	return func(a *App) {
		a.httpClient = h
	}
}
