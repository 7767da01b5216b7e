package showcase

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eringen/showcase/cms"
	"github.com/eringen/showcase/filter"
	"github.com/eringen/showcase/interact"
	"github.com/eringen/showcase/views"
)

// uiViewer resolves the :section parameter and the session viewer shared by
// every interaction endpoint.
func (a *App) uiViewer(c echo.Context) (cms.Kind, *Viewer, error) {
	kind, ok := parseSection(c.Param("section"))
	if !ok {
		return 0, nil, echo.ErrNotFound
	}
	v, err := a.viewerFor(c)
	if err != nil {
		return 0, nil, err
	}
	return kind, v, nil
}

// handleToggle flips one card and answers with the whole container so every
// other card collapses in the same swap. An expansion asks htmx to scroll the
// card into view once the settle delay has passed.
func (a *App) handleToggle(c echo.Context) error {
	kind, v, err := a.uiViewer(c)
	if err != nil {
		return err
	}
	tr := v.Cards(kind).Toggle(c.Param("id"))

	form, err := c.FormParams()
	if err != nil {
		form = url.Values{}
	}
	l := a.list(c.Request().Context(), v, kind, filter.FromQuery(form))

	if tr.Scroll != nil && v.Cards(kind).IsExpanded(tr.ID) {
		c.Response().Header().Set("HX-Reswap", fmt.Sprintf("outerHTML settle:%dms show:#card-%s:top",
			tr.Scroll.Delay.Milliseconds(), tr.Scroll.CardID))
	}
	return Render(c, views.ListFragment(l))
}

func (a *App) renderGallery(c echo.Context, kind cms.Kind, snap interact.Snapshot) error {
	return Render(c, views.GalleryFragment(a.galleryView(c.Request().Context(), snap, kind.String())))
}

func (a *App) handleGallery(c echo.Context) error {
	kind, v, err := a.uiViewer(c)
	if err != nil {
		return err
	}
	return a.renderGallery(c, kind, v.Gallery.Snapshot())
}

// handleGalleryOpen handles a click on image `index` of card `card`.
func (a *App) handleGalleryOpen(c echo.Context) error {
	kind, v, err := a.uiViewer(c)
	if err != nil {
		return err
	}
	id := c.FormValue("card")
	index, err := strconv.Atoi(c.FormValue("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid index")
	}
	rec, _, ok := a.findCard(c.Request().Context(), kind, id)
	if !ok {
		return a.renderGallery(c, kind, v.Gallery.Snapshot())
	}
	grp := interact.Group{ID: views.GroupID(kind, id), Images: a.imageURLs(rec)}
	return a.renderGallery(c, kind, v.Gallery.ClickImage(grp, index))
}

func (a *App) handleGalleryStep(c echo.Context) error {
	kind, v, err := a.uiViewer(c)
	if err != nil {
		return err
	}
	dir, err := strconv.Atoi(c.FormValue("dir"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid direction")
	}
	return a.renderGallery(c, kind, v.Gallery.Step(dir))
}

func (a *App) handleGalleryKey(c echo.Context) error {
	kind, v, err := a.uiViewer(c)
	if err != nil {
		return err
	}
	return a.renderGallery(c, kind, v.Gallery.Key(c.FormValue("key")))
}

func (a *App) handleGalleryClick(c echo.Context) error {
	kind, v, err := a.uiViewer(c)
	if err != nil {
		return err
	}
	return a.renderGallery(c, kind, v.Gallery.Click(interact.ParseTarget(c.FormValue("target"))))
}

func (a *App) handleGalleryClose(c echo.Context) error {
	kind, v, err := a.uiViewer(c)
	if err != nil {
		return err
	}
	return a.renderGallery(c, kind, v.Gallery.Close())
}
