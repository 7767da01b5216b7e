package showcase

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/showcase/cms"
	"github.com/eringen/showcase/views"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Author      string   `xml:"author,omitempty"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
}

var feedDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func pubDate(raw string) string {
	for _, layout := range feedDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(time.RFC1123Z)
		}
	}
	return ""
}

func (a *App) renderRSS(c echo.Context, news []cms.Record) error {
	base := a.Config.URL
	section := BuildURL(base, "news")
	items := make([]rssItem, 0, len(news))
	for i, r := range news {
		link := section + "#card-" + views.CardID(r, i)
		desc := r.Summary
		if desc == "" {
			desc = a.renderer.Render(r.Body)
		}
		items = append(items, rssItem{
			Title:       r.Title,
			Link:        link,
			Description: desc,
			Author:      r.Author,
			Categories:  r.Tags,
			PubDate:     pubDate(r.RawDate),
			GUID:        link,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
