// Package feed is the paginated feed client behind the dashboard's
// lazy-loading posts list. Pages are fetched on demand with an
// offset/limit cursor; the cursor only advances on success, so a failed
// page can simply be retried.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
)

// Post is one feed entry.
type Post struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// DefaultPageSize matches the page's original batch size.
const DefaultPageSize = 10

// Client pages through a remote feed.
type Client struct {
	baseURL  string
	pageSize int
	http     *http.Client
	log      *slog.Logger

	mu     sync.Mutex
	offset int
	done   bool
}

// NewClient builds a feed client. A nil httpClient falls back to
// http.DefaultClient; a non-positive pageSize falls back to
// DefaultPageSize; a nil logger falls back to the default logger.
func NewClient(baseURL string, pageSize int, httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:  baseURL,
		pageSize: pageSize,
		http:     httpClient,
		log:      log,
	}
}

// Next fetches the next page. An empty page marks the feed exhausted;
// afterwards Next returns no posts without touching the network until
// Reset. Errors leave the cursor where it was.
func (c *Client) Next(ctx context.Context) ([]Post, error) {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return nil, nil
	}
	offset := c.offset
	c.mu.Unlock()

	posts, err := c.fetch(ctx, offset)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(posts) == 0 {
		c.done = true
		return nil, nil
	}
	c.offset = offset + c.pageSize
	return posts, nil
}

func (c *Client) fetch(ctx context.Context, offset int) ([]Post, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse feed url: %w", err)
	}
	q := u.Query()
	q.Set("_start", strconv.Itoa(offset))
	q.Set("_limit", strconv.Itoa(c.pageSize))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch feed page: unexpected status %d", resp.StatusCode)
	}

	var posts []Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, fmt.Errorf("decode feed page: %w", err)
	}

	c.log.Debug("feed page loaded", "offset", offset, "count", len(posts))
	return posts, nil
}

// Done reports whether the feed has been exhausted.
func (c *Client) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Reset rewinds the cursor to the beginning.
func (c *Client) Reset() {
	c.mu.Lock()
	c.offset = 0
	c.done = false
	c.mu.Unlock()
}
