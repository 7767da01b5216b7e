// Package showcase serves a news and project showcase backed by a headless
// Strapi CMS. Records are fetched, normalized and rendered to cards on the
// server; htmx drives card expansion, filtering and the image gallery, whose
// state machines live per viewer in the interact package.
package showcase

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/showcase/cms"
	"github.com/eringen/showcase/richtext"
)

// App is the central showcase application. It wires together the CMS client,
// content cache, viewer store, handlers and middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	CMS     *cms.Client
	Cache   *ContentCache
	Viewers *ViewerStore
	Log     *zap.Logger

	renderer       *richtext.Renderer
	previewLimiter *RateLimiter
	httpClient     *http.Client
	mediaHTTP      *http.Client
	customRoutes   []func(*App)
	staticDir      string
	now            func() time.Time
}

// New creates an App with middleware and routes installed. The returned App
// can serve requests through a.Echo without Start.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("showcase: SessionSecret is required")
	}

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Log:       zap.NewNop(),
		staticDir: "public",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	hc := a.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.CMSTimeout}
	}
	a.mediaHTTP = hc
	a.CMS = cms.NewClient(cfg.APIURL,
		cms.WithHTTPClient(hc),
		cms.WithLogger(a.Log.Named("cms")),
		cms.WithNewsSort(cfg.NewsSort),
	)
	a.Cache = NewContentCache(a.CMS, cfg.CacheTTL)
	a.Viewers = NewViewerStore(cfg.ViewerIdleTTL, a.Log.Named("viewers"))
	a.Viewers.now = a.now

	var ropts []richtext.Option
	if cfg.UnsafeHTML {
		ropts = append(ropts, richtext.WithUnsafeHTML())
	}
	a.renderer = richtext.New(ropts...)
	a.previewLimiter = NewRateLimiter(120, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

// Start runs the idle viewer sweep and the HTTP server until it stops.
func (a *App) Start() error {
	interval := a.Config.ViewerIdleTTL / 2
	if interval <= 0 {
		interval = time.Minute
	}
	stopCleanup := a.Viewers.StartCleanup(interval)
	defer stopCleanup()

	a.Log.Info("listening", zap.String("addr", a.Config.Addr), zap.String("cms", a.CMS.BaseURL()))
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close releases background resources. Call this when the app is shutting
// down.
func (a *App) Close() error {
	a.previewLimiter.Stop()
	_ = a.Log.Sync()
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/healthz", handleHealth)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET(previewPath, a.handlePreview)

	e.GET("/", a.handleIndex)
	e.GET("/news/", a.handleSection(cms.News))
	e.GET("/projects/", a.handleSection(cms.Project))

	ui := e.Group("/ui/:section")
	ui.POST("/cards/:id/toggle", a.handleToggle)
	ui.GET("/gallery/", a.handleGallery)
	ui.POST("/gallery/open", a.handleGalleryOpen)
	ui.POST("/gallery/step", a.handleGalleryStep)
	ui.POST("/gallery/key", a.handleGalleryKey)
	ui.POST("/gallery/click", a.handleGalleryClick)
	ui.POST("/gallery/close", a.handleGalleryClose)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or exits if it
// is empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		fmt.Fprintf(os.Stderr, "showcase: required environment variable %s is not set\n", key)
		os.Exit(1)
	}
	return v
}
