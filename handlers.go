package showcase

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/showcase/cms"
	"github.com/eringen/showcase/filter"
	"github.com/eringen/showcase/views"
)

func parseSection(s string) (cms.Kind, bool) {
	switch s {
	case cms.News.String():
		return cms.News, true
	case cms.Project.String():
		return cms.Project, true
	}
	return 0, false
}

// sectionOf and cardOf split a gallery group id ("projects/7").
func sectionOf(groupID string) string {
	section, _, _ := strings.Cut(groupID, "/")
	return section
}

func cardOf(groupID string) string {
	_, card, _ := strings.Cut(groupID, "/")
	return card
}

func (a *App) handleIndex(c echo.Context) error {
	v, err := a.viewerFor(c)
	if err != nil {
		return err
	}
	v.Gallery.Reset()
	p, err := a.page(c, "/", views.PageMeta{
		Description: a.Config.Description,
		URL:         BuildURL(a.Config.URL),
	})
	if err != nil {
		return err
	}
	return Render(c, views.Index(p))
}

// handleSection serves a section page. Full pages render the loading shell
// and start from a clean interaction state; htmx requests for the container
// get the populated fragment.
func (a *App) handleSection(kind cms.Kind) echo.HandlerFunc {
	path := "/" + kind.String() + "/"
	title := "News"
	if kind == cms.Project {
		title = "Projects"
	}
	return func(c echo.Context) error {
		v, err := a.viewerFor(c)
		if err != nil {
			return err
		}
		f := filter.FromQuery(c.QueryParams())

		if isHTMX(c) && c.QueryParam("partial") == views.PartialName(kind) {
			return Render(c, views.ListFragment(a.list(c.Request().Context(), v, kind, f)))
		}

		v.Cards(kind).Reset()
		v.Gallery.Reset()
		p, err := a.page(c, path, views.PageMeta{
			Title:       title,
			Description: a.Config.Description,
			URL:         BuildURL(a.Config.URL, kind.String()),
		})
		if err != nil {
			return err
		}
		l := views.ListFor(kind, f)
		if kind == cms.Project {
			return Render(c, views.ProjectsPage(p, l))
		}
		return Render(c, views.NewsPage(p, l))
	}
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c)
}

func (a *App) handleFeed(c echo.Context) error {
	news, err := a.Cache.List(c.Request().Context(), cms.News)
	if err != nil {
		a.Log.Warn("feed unavailable", zap.Error(err))
		return echo.NewHTTPError(http.StatusServiceUnavailable, "feed unavailable")
	}
	return a.renderRSS(c, news)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(filepath.Join(a.staticDir, "favicon.svg"))
}

// handleRobots serves public/robots.txt, or a permissive default pointing at
// the sitemap.
func (a *App) handleRobots(c echo.Context) error {
	file := filepath.Join(a.staticDir, "robots.txt")
	if _, err := os.Stat(file); err == nil {
		return c.File(file)
	}
	body := "User-agent: *\nAllow: /\nSitemap: " + strings.TrimRight(a.Config.URL, "/") + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.bare()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 && code != http.StatusServiceUnavailable {
		a.Log.Error("server error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		_ = RenderStatus(c, code, views.ServerError(a.bare()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
