// Package cms reads news items and projects from a Strapi CMS and normalizes
// both schema revisions (v4 "attributes" payloads and flat v5 payloads) into
// Records.
package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrMalformed is returned when a response has no "data" array.
var ErrMalformed = errors.New("cms: response has no data array")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API Error: %d", e.Code)
}

const defaultNewsSort = "createdAt:desc"

// Client provides read-only access to the news and project collections.
type Client struct {
	baseURL  string
	http     *http.Client
	log      *zap.Logger
	newsSort string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client (5s timeout).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithLogger sets the logger used for request failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithNewsSort sets the sort parameter for the news collection.
func WithNewsSort(sort string) Option {
	return func(c *Client) {
		c.newsSort = sort
	}
}

// NewClient constructs a Client for the CMS at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:     &http.Client{Timeout: 5 * time.Second},
		newsSort: defaultNewsSort,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 5 * time.Second}
	}
	if strings.TrimSpace(c.newsSort) == "" {
		c.newsSort = defaultNewsSort
	}
	return c
}

// BaseURL returns the CMS base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Media returns a resolver for asset paths served by this CMS.
func (c *Client) Media() Media {
	return Media{Base: c.baseURL}
}

// ListNews fetches the news collection in the CMS sort order.
func (c *Client) ListNews(ctx context.Context) ([]Record, error) {
	return c.list(ctx, "news-items", "populate=*&sort="+url.PathEscape(c.newsSort), NormalizeNews)
}

// ListProjects fetches the project collection in the CMS sort order.
func (c *Client) ListProjects(ctx context.Context) ([]Record, error) {
	return c.list(ctx, "projects", "populate=*", NormalizeProject)
}

// List fetches the collection for kind.
func (c *Client) List(ctx context.Context, kind Kind) ([]Record, error) {
	if kind == Project {
		return c.ListProjects(ctx)
	}
	return c.ListNews(ctx)
}

func (c *Client) list(ctx context.Context, collection, rawQuery string, norm func(map[string]any) Record) ([]Record, error) {
	items, err := c.fetch(ctx, collection, rawQuery)
	if err != nil {
		c.log.Warn("cms request failed", zap.String("collection", collection), zap.Error(err))
		return nil, err
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, norm(item))
	}
	return records, nil
}

type envelope struct {
	Data []any `json:"data"`
}

func (c *Client) fetch(ctx context.Context, collection, rawQuery string) ([]map[string]any, error) {
	endpoint, err := url.JoinPath(c.baseURL, "api", collection)
	if err != nil {
		return nil, fmt.Errorf("cms: join path %s: %w", collection, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("cms: build request %s: %w", collection, err)
	}
	req.URL.RawQuery = rawQuery
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cms: request %s: %w", collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("cms: decode %s: %w", collection, err)
	}
	if env.Data == nil {
		return nil, ErrMalformed
	}
	items := make([]map[string]any, 0, len(env.Data))
	for _, d := range env.Data {
		if m, ok := d.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items, nil
}
