// Package api is the client for the library's book, content and glossary
// HTTP JSON API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nikbrunner/pbb/internal/logger"
	"github.com/nikbrunner/pbb/internal/model"
)

const (
	DefaultBaseURL = "https://localhost:8443"
	DefaultTimeout = 10 * time.Second

	catalogPageSize = 100
	maxCatalogPages = 1000
	maxErrorBody    = 512
)

var (
	ErrRequest  = errors.New("API request failed")
	ErrNotFound = errors.New("not found")
	// ErrInappropriateQuery is returned when the glossary rejects a search term.
	ErrInappropriateQuery = errors.New("your search contains words that are not appropriate for this sacred library, please refine your search")
)

// StatusError is a non-2xx response. It matches ErrRequest, and
// ErrNotFound for 404.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Is(target error) bool {
	return target == ErrRequest || (target == ErrNotFound && e.Code == http.StatusNotFound)
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL           string
	SiteURL           string // host serving page images and reader links; defaults to BaseURL
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 disables rate limiting
	Logger            *slog.Logger
	HTTPClient        *http.Client
}

// Client handles communication with the library API.
type Client struct {
	baseURL     string
	siteURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// NewClient creates a new API client.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	siteURL := strings.TrimRight(opts.SiteURL, "/")
	if siteURL == "" {
		siteURL = baseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		baseURL:     baseURL,
		siteURL:     siteURL,
		httpClient:  httpClient,
		rateLimiter: limiter,
		logger:      log,
	}
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("api request", "method", method, "path", path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRequest, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("api response",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(respBody),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(respBody))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: snippet}
	}
	return respBody, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func bookPath(id model.BookID, rest string) string {
	return "/api/v1/books/" + url.PathEscape(id.String()) + rest
}

// Books returns the whole catalog, following pagination until the
// reported total is reached.
func (c *Client) Books(ctx context.Context) ([]model.Book, error) {
	first, err := c.booksPage(ctx, 1, catalogPageSize)
	if err != nil {
		return nil, fmt.Errorf("fetch books: %w", err)
	}

	books := first.Books
	if len(books) >= first.Total {
		return books, nil
	}

	size := first.Size
	if size <= 0 {
		size = catalogPageSize
	}
	pages := (first.Total + size - 1) / size
	if pages > maxCatalogPages {
		pages = maxCatalogPages
	}

	for page := 2; page <= pages; page++ {
		next, err := c.booksPage(ctx, page, size)
		if err != nil {
			return nil, fmt.Errorf("fetch books page %d: %w", page, err)
		}
		if len(next.Books) == 0 {
			break
		}
		books = append(books, next.Books...)
	}

	c.logger.Debug("fetched catalog", "books", len(books), "total", first.Total)
	return books, nil
}

func (c *Client) booksPage(ctx context.Context, page, size int) (*BookList, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))

	body, err := c.get(ctx, "/api/v1/books?"+params.Encode())
	if err != nil {
		return nil, err
	}
	return DecodeBooks(body)
}

// BookPages returns the page descriptors of a book.
func (c *Client) BookPages(ctx context.Context, id model.BookID) (*PageList, error) {
	body, err := c.get(ctx, bookPath(id, "/pages"))
	if err != nil {
		return nil, fmt.Errorf("fetch pages for book %s: %w", id, err)
	}
	return DecodePages(body)
}

// TOC returns the flat table of contents of a book.
func (c *Client) TOC(ctx context.Context, id model.BookID) ([]model.TOCEntry, error) {
	body, err := c.get(ctx, bookPath(id, "/toc"))
	if err != nil {
		return nil, fmt.Errorf("fetch toc for book %s: %w", id, err)
	}
	return DecodeTOC(body)
}

// PageContent returns the extracted text of one page.
func (c *Client) PageContent(ctx context.Context, id model.BookID, page int) (string, error) {
	body, err := c.get(ctx, bookPath(id, "/content/"+strconv.Itoa(page)))
	if err != nil {
		return "", fmt.Errorf("fetch content for book %s, page %d: %w", id, page, err)
	}
	return DecodeContent(body)
}

// SearchGlossary searches the glossary. A 400 response means the term was
// rejected and yields ErrInappropriateQuery.
func (c *Client) SearchGlossary(ctx context.Context, term string, page, size int) (*GlossaryResults, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 50
	}

	body, err := c.do(ctx, http.MethodPost, "/api/v1/glossary/search", glossaryRequest{
		Query: term,
		Page:  page,
		Size:  size,
	})
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusBadRequest {
			return nil, ErrInappropriateQuery
		}
		return nil, fmt.Errorf("search glossary for %q: %w", term, err)
	}
	return DecodeGlossary(body)
}

// PageImageURL returns the URL of a page scan.
func (c *Client) PageImageURL(id model.BookID, page int) string {
	return fmt.Sprintf("%s/pbb_book_pages/%s/%d.webp", c.siteURL, url.PathEscape(id.String()), page)
}

// ReaderURL returns the web reader link for a book page.
func (c *Client) ReaderURL(id model.BookID, page int) string {
	params := url.Values{}
	params.Set("book_id", id.String())
	params.Set("page", strconv.Itoa(page))
	return c.siteURL + "/reader?" + params.Encode()
}
