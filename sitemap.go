package showcase

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/showcase/cms"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
}

// renderSitemap lists the three pages. Cards are fragments of their section
// and have no URL of their own.
func (a *App) renderSitemap(c echo.Context) error {
	base := a.Config.URL
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: BuildURL(base), ChangeFreq: "monthly"},
			{Loc: BuildURL(base, cms.News.String()), ChangeFreq: "daily"},
			{Loc: BuildURL(base, cms.Project.String()), ChangeFreq: "weekly"},
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
