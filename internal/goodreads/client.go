// Package goodreads fetches a user's shelf from goodreads.com and
// parses it into the book model.
package goodreads

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goreads/goreads/internal/book"
)

const (
	// DefaultBaseURL is the production Goodreads endpoint.
	DefaultBaseURL = "https://www.goodreads.com"

	// Goodreads serves the full review table only to browser user agents.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"

	maxWorkers = 32
)

// StatusError reports a non-200 response from Goodreads.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	if e.StatusCode == http.StatusNotFound {
		return fmt.Sprintf("404 Not Found: %s", e.URL)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.URL)
}

// ProgressFunc is called after each page is fetched during FetchLibrary.
type ProgressFunc func(fetched, total int)

// Client fetches shelf pages from Goodreads.
type Client struct {
	BaseURL     string
	Shelf       string
	HTTPClient  *http.Client
	UserAgent   string
	MaxParallel int // 0 means min(32, NumCPU*5)
}

// NewClient creates a Client for the "read" shelf with the given
// request timeout. Redirects are followed by default.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		Shelf:      "read",
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  userAgent,
	}
}

// ShelfURL returns the shelf page URL for a user and page number.
func (c *Client) ShelfURL(userID, page int) string {
	return fmt.Sprintf("%s/review/list/%d?page=%d&shelf=%s", c.BaseURL, userID, page, c.Shelf)
}

// FetchPage retrieves the raw HTML of one shelf page.
func (c *Client) FetchPage(ctx context.Context, userID, page int) (string, error) {
	url := c.ShelfURL(userID, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), nil
}

// FetchLibrary retrieves the user's complete shelf. The first page is
// fetched alone to learn the page count; remaining pages are fetched
// concurrently with bounded parallelism. Books keep page order.
func (c *Client) FetchLibrary(ctx context.Context, userID int, progress ProgressFunc) (*book.Library, error) {
	firstHTML, err := c.FetchPage(ctx, userID, 1)
	if err != nil {
		return nil, err
	}

	firstBooks, err := ParseBooks(firstHTML)
	if err != nil {
		return nil, fmt.Errorf("parsing page 1: %w", err)
	}

	totalPages, err := ParsePageCount(firstHTML)
	if err != nil {
		return nil, fmt.Errorf("parsing pagination: %w", err)
	}
	slog.Debug("fetched first shelf page", "user", userID, "pages", totalPages, "books", len(firstBooks))
	if progress != nil {
		progress(1, totalPages)
	}

	pages := make([][]book.Book, totalPages+1)
	pages[1] = firstBooks

	if totalPages > 1 {
		var (
			mu      sync.Mutex
			fetched = 1
		)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.parallelism())

		for page := 2; page <= totalPages; page++ {
			g.Go(func() error {
				pageHTML, err := c.FetchPage(gctx, userID, page)
				if err != nil {
					return err
				}
				books, err := ParseBooks(pageHTML)
				if err != nil {
					return fmt.Errorf("parsing page %d: %w", page, err)
				}

				mu.Lock()
				pages[page] = books
				fetched++
				done := fetched
				mu.Unlock()

				if progress != nil {
					progress(done, totalPages)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	lib := &book.Library{UserID: userID}
	for _, books := range pages {
		lib.Books = append(lib.Books, books...)
	}
	return lib, nil
}

// parallelism returns the worker limit for page fetches, mirroring the
// min(32, NumCPU*5) sizing the shelf endpoint tolerates well.
func (c *Client) parallelism() int {
	if c.MaxParallel > 0 {
		return c.MaxParallel
	}
	n := runtime.NumCPU() * 5
	if n < 1 {
		n = 1
	}
	if n > maxWorkers {
		n = maxWorkers
	}
	return n
}
