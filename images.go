package showcase

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/gif"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

const (
	jpegQuality   = 80
	maxSourceSize = 20 << 20 // 20MB
	previewPath   = "/media/preview/"
)

// previewImage decodes an image from src, downscales it to maxWidth when it
// is wider, and encodes it as JPEG.
func previewImage(src io.Reader, maxWidth int) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxWidth > 0 && w > maxWidth {
		newH := h * maxWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// previewURL routes a resolved media URL through the preview proxy.
func previewURL(src string) string {
	if src == "" {
		return ""
	}
	return previewPath + "?src=" + url.QueryEscape(src)
}

// allowedSource reports whether u points at the CMS host. The proxy never
// fetches anything else.
func (a *App) allowedSource(u *url.URL) bool {
	base, err := url.Parse(a.CMS.BaseURL())
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.EqualFold(u.Host, base.Host)
}

func (a *App) handlePreview(c echo.Context) error {
	if !a.previewLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many requests")
	}

	raw := c.QueryParam("src")
	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		raw = a.CMS.Media().URL(raw)
	}
	u, err := url.Parse(raw)
	if err != nil || !a.allowedSource(u) {
		return c.String(http.StatusBadRequest, "Invalid image source")
	}

	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodGet, u.String(), nil)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image source")
	}
	resp, err := a.mediaHTTP.Do(req)
	if err != nil {
		a.Log.Warn("preview fetch failed", zap.String("src", u.String()), zap.Error(err))
		return c.String(http.StatusBadGateway, "Image unavailable")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.String(http.StatusBadGateway, "Image unavailable")
	}

	data, err := previewImage(io.LimitReader(resp.Body, maxSourceSize), a.Config.PreviewMaxWidth)
	if err != nil {
		return c.String(http.StatusUnprocessableEntity, "Invalid image: "+err.Error())
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Blob(http.StatusOK, "image/jpeg", data)
}
