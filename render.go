package showcase

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/showcase/cms"
	"github.com/eringen/showcase/filter"
	"github.com/eringen/showcase/interact"
	"github.com/eringen/showcase/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

func (a *App) siteView() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}

func (a *App) modal(p Popup) views.Modal {
	return views.Modal{Title: p.Title, Body: a.renderer.Markdown(p.Body)}
}

// page builds the shell for path. The popup opens on the first visit of path
// in this session only.
func (a *App) page(c echo.Context, path string, meta views.PageMeta) (views.Page, error) {
	first, err := firstVisit(c, path)
	if err != nil {
		return views.Page{}, err
	}
	p := views.Page{
		Site:      a.siteView(),
		Meta:      meta,
		Path:      path,
		CSRFToken: CsrfToken(c),
		Year:      a.now().Year(),
		Welcome:   a.modal(a.Config.Welcome),
		ShowPopup: first,
	}
	if pop, ok := a.Config.Popups[path]; ok {
		m := a.modal(pop)
		p.Popup = &m
	}
	return p, nil
}

// bare is the shell used by error pages, which must not touch the session.
func (a *App) bare() views.Page {
	return views.Page{Site: a.siteView(), Year: a.now().Year()}
}

// imageURLs resolves the images of r for display.
func (a *App) imageURLs(r cms.Record) []string {
	if len(r.Images) == 0 {
		return nil
	}
	media := a.CMS.Media()
	out := make([]string, 0, len(r.Images))
	for _, img := range r.Images {
		u := media.URL(img.URL)
		if a.Config.PreviewImages {
			u = previewURL(u)
		}
		out = append(out, u)
	}
	return out
}

// list fetches kind and builds the container state for viewer v. Fetch
// failures become the inline error state, never an HTTP error.
func (a *App) list(ctx context.Context, v *Viewer, kind cms.Kind, f filter.State) views.List {
	l := views.List{Kind: kind, Filter: f, Placeholder: a.Config.PlaceholderImage}
	records, err := a.Cache.List(ctx, kind)
	if err != nil {
		a.Log.Warn("content unavailable", zap.Stringer("kind", kind), zap.Error(err))
		l.Err = err
		return l
	}

	cards := v.Cards(kind)
	visible := filter.Apply(records, f)
	ids := make([]string, len(records))
	for i, r := range records {
		id := views.CardID(r, i)
		ids[i] = id
		l.Cards = append(l.Cards, views.Card{
			ID:       id,
			Record:   r,
			Body:     a.renderer.Render(r.Body),
			Images:   a.imageURLs(r),
			Expanded: cards.IsExpanded(id),
			Hidden:   !visible[i],
		})
	}
	cards.Retain(ids)
	a.dropStaleGallery(v, kind, ids)

	if kind == cms.Project {
		l.Options = filter.OptionsOf(records)
	}
	return l
}

// dropStaleGallery closes the gallery when its card is no longer rendered.
func (a *App) dropStaleGallery(v *Viewer, kind cms.Kind, ids []string) {
	snap := v.Gallery.Snapshot()
	if !snap.Open {
		return
	}
	for _, id := range ids {
		if snap.GroupID == views.GroupID(kind, id) {
			return
		}
	}
	if sectionOf(snap.GroupID) == kind.String() {
		v.Gallery.RemoveGroup(snap.GroupID)
	}
}

// galleryView pairs the viewer's gallery state with the alt text of the open
// image.
func (a *App) galleryView(ctx context.Context, snap interact.Snapshot, section string) views.Gallery {
	g := views.Gallery{Section: section, Snap: snap}
	if !snap.Open {
		return g
	}
	g.Section = sectionOf(snap.GroupID)
	kind, ok := parseSection(g.Section)
	if !ok {
		return g
	}
	rec, _, ok := a.findCard(ctx, kind, cardOf(snap.GroupID))
	if !ok {
		return g
	}
	if snap.Index < len(rec.Images) && rec.Images[snap.Index].Alt != "" {
		g.Alt = rec.Images[snap.Index].Alt
	} else {
		g.Alt = rec.Title
	}
	return g
}

// findCard looks a card up by its DOM id in the cached collection.
func (a *App) findCard(ctx context.Context, kind cms.Kind, id string) (cms.Record, int, bool) {
	records, err := a.Cache.List(ctx, kind)
	if err != nil {
		return cms.Record{}, 0, false
	}
	for i, r := range records {
		if views.CardID(r, i) == id {
			return r, i, true
		}
	}
	return cms.Record{}, 0, false
}
