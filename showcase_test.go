package showcase

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

const (
	newsJSON     = `{"data":[{"id":1,"title":"Spring Cleanup","publishedDate":"2025-05-01","content":"Hello","tags":"+park +volunteers"}]}`
	projectsJSON = `{"data":[
		{"id":1,"title":"Mural","artist":"Ana","area":"North","year":"2023","tags":"paint, walls","banners":[{"url":"/uploads/a.jpg","alternativeText":"mural"},{"url":"/uploads/b.jpg"}]},
		{"id":2,"attributes":{"title":"Roof","artist":"Bo","area":"South","year":"2024","tags":["solar"]}}
	]}`
)

func fakeCMS(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/news-items":
			io.WriteString(w, newsJSON)
		case "/api/projects":
			io.WriteString(w, projectsJSON)
		case "/uploads/wide.png":
			img := image.NewRGBA(image.Rect(0, 0, 1600, 800))
			w.Header().Set("Content-Type", "image/png")
			png.Encode(w, img)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, apiURL string, mutate ...func(*SiteConfig)) *App {
	t.Helper()
	cfg := SiteConfig{
		Name:          "Studio",
		APIURL:        apiURL,
		SessionSecret: "test-secret-0123456789abcdef",
		CacheTTL:      -1,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	app, err := New(cfg, WithStaticDir(t.TempDir()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

// browser replays cookies across requests and echoes the CSRF cookie back as
// the header, the way the page's hx-headers attribute does.
type browser struct {
	t       *testing.T
	app     *App
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, app *App) *browser {
	return &browser{t: t, app: app, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}
	if method != http.MethodGet {
		if ck, ok := b.cookies["_csrf"]; ok {
			req.Header.Set("X-CSRF-Token", ck.Value)
		}
	}
	rec := httptest.NewRecorder()
	b.app.Echo.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		b.cookies[ck.Name] = ck
	}
	return rec
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, target, nil, false)
}

func (b *browser) fragment(target string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, target, nil, true)
}

func (b *browser) post(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return b.do(http.MethodPost, target, form, true)
}

func TestNewRequiresSessionSecret(t *testing.T) {
	if _, err := New(SiteConfig{}); err == nil {
		t.Fatal("expected an error without SessionSecret")
	}
}

func TestNewsListRendersRecords(t *testing.T) {
	app := newTestApp(t, fakeCMS(t).URL)
	rec := newBrowser(t, app).fragment("/news/?partial=list")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Spring Cleanup", "May 2025", "<p>Hello</p>", `<span class="tag-pill">park</span>`} {
		if !strings.Contains(body, want) {
			t.Errorf("news list missing %q:\n%s", want, body)
		}
	}
}

func TestNewsPageShellLoadsLazily(t *testing.T) {
	app := newTestApp(t, fakeCMS(t).URL)
	body := newBrowser(t, app).get("/news/").Body.String()
	for _, want := range []string{"Loading news...", `hx-get="/news/?partial=list"`, `hx-trigger="load"`} {
		if !strings.Contains(body, want) {
			t.Errorf("news page missing %q", want)
		}
	}
	if strings.Contains(body, "Spring Cleanup") {
		t.Error("shell should not wait for the CMS")
	}
}

func TestNewsListShowsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	apiURL := srv.URL
	srv.Close()

	app := newTestApp(t, apiURL)
	rec := newBrowser(t, app).fragment("/news/?partial=list")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for the inline error", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Error Loading News") {
		t.Errorf("error state missing:\n%s", rec.Body.String())
	}
}

func TestProjectsListShowsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	app := newTestApp(t, srv.URL)
	body := newBrowser(t, app).fragment("/projects/?partial=grid").Body.String()
	if !strings.Contains(body, "Error Loading Projects:") || !strings.Contains(body, "API Error: 503") {
		t.Errorf("error state missing:\n%s", body)
	}
}

func TestProjectsFilterHidesCards(t *testing.T) {
	app := newTestApp(t, fakeCMS(t).URL)
	body := newBrowser(t, app).fragment("/projects/?partial=grid&area=North").Body.String()

	if !strings.Contains(body, `id="card-1" class="project-card" data-tags="paint, walls" data-artist="Ana" data-area="North" data-date="2023" style="scroll-margin-top:24px"`) {
		t.Errorf("visible card wrong:\n%s", body)
	}
	if !strings.Contains(body, `id="card-2" class="project-card" data-tags="solar" data-artist="Bo" data-area="South" data-date="2024" style="display:none;`) {
		t.Errorf("filtered card should be hidden:\n%s", body)
	}
	if !strings.Contains(body, `<option value="South">South</option>`) {
		t.Errorf("filter options not populated:\n%s", body)
	}
}

func TestToggleKeepsOneCardExpanded(t *testing.T) {
	app := newTestApp(t, fakeCMS(t).URL)
	b := newBrowser(t, app)
	b.get("/projects/")

	rec := b.post("/ui/projects/cards/1/toggle", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("HX-Reswap"); got != "outerHTML settle:10ms show:#card-1:top" {
		t.Errorf("HX-Reswap = %q", got)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `id="card-1" class="project-card expanded"`) || strings.Count(body, "project-card expanded") != 1 {
		t.Errorf("card 1 should be the only expanded card:\n%s", body)
	}

	body = b.post("/ui/projects/cards/2/toggle", nil).Body.String()
	if !strings.Contains(body, `id="card-2" class="project-card expanded"`) || strings.Count(body, "project-card expanded") != 1 {
		t.Errorf("card 2 should replace card 1:\n%s", body)
	}

	rec = b.post("/ui/projects/cards/2/toggle", nil)
	if strings.Contains(rec.Body.String(), "expanded") {
		t.Errorf("second click should collapse:\n%s", rec.Body.String())
	}
	if rec.Header().Get("HX-Reswap") != "" {
		t.Error("collapsing must not scroll")
	}
}

func TestHiddenCardKeepsExpansion(t *testing.T) {
	app := newTestApp(t, fakeCMS(t).URL)
	b := newBrowser(t, app)
	b.get("/projects/")
	b.post("/ui/projects/cards/2/toggle", nil)

	body := b.fragment("/projects/?partial=grid&area=North").Body.String()
	if !strings.Contains(body, `id="card-2" class="project-card expanded"`) {
		t.Errorf("filtered out card should stay expanded:\n%s", body)
	}
	body = b.fragment("/projects/?partial=grid").Body.String()
	if !strings.Contains(body, `id="card-2" class="project-card expanded" data-tags="solar" data-artist="Bo" data-area="South" data-date="2024" style="scroll-margin-top:24px"`) {
		t.Errorf("clearing the filter lost the expansion:\n%s", body)
	}

	b.get("/projects/")
	if body = b.fragment("/projects/?partial=grid").Body.String(); strings.Contains(body, "expanded") {
		t.Errorf("a full page load should start collapsed:\n%s", body)
	}
}

func TestToggleRequiresCSRFToken(t *testing.T) {
	app := newTestApp(t, fakeCMS(t).URL)
	req := httptest.NewRequest(http.MethodPost, "/ui/projects/cards/1/toggle", nil)
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestUnknownSectionIsNotFound(t *testing.T) {
	app := newTestApp(t, fakeCMS(t).URL)
	b := newBrowser(t, app)
	b.get("/")
	if rec := b.post("/ui/blog/cards/1/toggle", nil); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGalleryFlow(t *testing.T) {
	srv := fakeCMS(t)
	app := newTestApp(t, srv.URL)
	b := newBrowser(t, app)
	b.get("/projects/")

	body := b.post("/ui/projects/gallery/open", url.Values{"card": {"1"}, "index": {"0"}}).Body.String()
	if !strings.Contains(body, `src="`+srv.URL+`/uploads/a.jpg"`) || !strings.Contains(body, `data-index="0"`) {
		t.Fatalf("gallery did not open:\n%s", body)
	}
	if !strings.Contains(body, `alt="mural"`) {
		t.Errorf("alt text missing:\n%s", body)
	}

	steps := []struct {
		key   string
		index string
	}{
		{"ArrowLeft", "0"},
		{"ArrowRight", "1"},
		{"ArrowRight", "1"},
	}
	for _, st := range steps {
		body = b.post("/ui/projects/gallery/key", url.Values{"key": {st.key}}).Body.String()
		if !strings.Contains(body, `data-index="`+st.index+`"`) {
			t.Fatalf("after %s want index %s:\n%s", st.key, st.index, body)
		}
	}

	body = b.post("/ui/projects/gallery/click", url.Values{"target": {"image"}}).Body.String()
	if !strings.Contains(body, "gallery-image expanded") {
		t.Error("clicking the image must not close the gallery")
	}

	body = b.post("/ui/projects/gallery/key", url.Values{"key": {"Escape"}}).Body.String()
	if !strings.Contains(body, "image-overlay fading") || !strings.Contains(body, "load delay:300ms") {
		t.Fatalf("escape should fade the overlay:\n%s", body)
	}

	time.Sleep(400 * time.Millisecond)
	if got := b.fragment("/ui/projects/gallery/").Body.String(); got != `<div id="gallery"></div>` {
		t.Errorf("overlay not removed after the fade: %q", got)
	}
}

func TestPopupShownOncePerSession(t *testing.T) {
	app := newTestApp(t, fakeCMS(t).URL, func(c *SiteConfig) {
		c.Popups = map[string]Popup{"/projects/": {Title: "About", Body: "Hello **there**"}}
	})
	b := newBrowser(t, app)

	first := b.get("/projects/").Body.String()
	if !strings.Contains(first, `id="popup-modal" class="modal open"`) || !strings.Contains(first, "<strong>there</strong>") {
		t.Errorf("first visit should open the popup:\n%s", first)
	}
	second := b.get("/projects/").Body.String()
	if strings.Contains(second, "modal open") {
		t.Error("popup reopened on the second visit")
	}
	if !strings.Contains(second, `id="popup-modal" class="modal"`) {
		t.Error("popup should still be rendered for the info button")
	}

	if home := b.get("/").Body.String(); !strings.Contains(home, `id="welcome-modal" class="modal open"`) {
		t.Error("pages without a popup show the welcome modal on first visit")
	}
}

func TestFeedAndSitemap(t *testing.T) {
	app := newTestApp(t, fakeCMS(t).URL)
	b := newBrowser(t, app)

	feed := b.get("/feed.xml")
	if ct := feed.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Errorf("feed content type = %q", ct)
	}
	for _, want := range []string{"<title>Spring Cleanup</title>", "Thu, 01 May 2025 00:00:00 +0000", "http://localhost:3000/news/#card-1"} {
		if !strings.Contains(feed.Body.String(), want) {
			t.Errorf("feed missing %q:\n%s", want, feed.Body.String())
		}
	}

	sitemap := b.get("/sitemap.xml").Body.String()
	for _, want := range []string{"<loc>http://localhost:3000</loc>", "<loc>http://localhost:3000/news/</loc>", "<loc>http://localhost:3000/projects/</loc>"} {
		if !strings.Contains(sitemap, want) {
			t.Errorf("sitemap missing %q:\n%s", want, sitemap)
		}
	}

	if robots := b.get("/robots.txt").Body.String(); !strings.Contains(robots, "Sitemap: http://localhost:3000/sitemap.xml") {
		t.Errorf("robots = %q", robots)
	}
	if health := b.get("/healthz"); health.Code != http.StatusOK || !strings.Contains(health.Body.String(), `"ok"`) {
		t.Errorf("healthz = %d %s", health.Code, health.Body.String())
	}
}

func TestNotFoundPage(t *testing.T) {
	app := newTestApp(t, fakeCMS(t).URL)
	rec := newBrowser(t, app).get("/nope/")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Page not found") {
		t.Errorf("404 page = %d %s", rec.Code, rec.Body.String())
	}
}

func TestPreviewDownscalesCMSImages(t *testing.T) {
	srv := fakeCMS(t)
	app := newTestApp(t, srv.URL, func(c *SiteConfig) { c.PreviewImages = true })
	b := newBrowser(t, app)

	rec := b.get("/media/preview/?src=" + url.QueryEscape(srv.URL+"/uploads/wide.png"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("content type = %q", ct)
	}
	img, err := jpeg.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r := img.Bounds(); r.Dx() != 800 || r.Dy() != 400 {
		t.Errorf("preview size = %dx%d, want 800x400", r.Dx(), r.Dy())
	}

	if rec := b.get("/media/preview/?src=/uploads/wide.png"); rec.Code != http.StatusOK {
		t.Errorf("relative CMS path status = %d", rec.Code)
	}

	grid := b.fragment("/projects/?partial=grid").Body.String()
	if !strings.Contains(grid, `src="/media/preview/?src=`) {
		t.Errorf("card images should go through the proxy:\n%s", grid)
	}
}

func TestPreviewRejectsForeignHosts(t *testing.T) {
	app := newTestApp(t, fakeCMS(t).URL)
	rec := newBrowser(t, app).get("/media/preview/?src=" + url.QueryEscape("https://elsewhere.example/a.png"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
