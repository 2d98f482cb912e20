package wiki

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rfctools/wikihist/internal/fetch"
	"github.com/rfctools/wikihist/internal/markup"
	"github.com/rfctools/wikihist/internal/model"
)

// DefaultBaseURL is the revision-log root the tool was built against.
// The page slug is appended as a path segment.
const DefaultBaseURL = "https://wiki.php.net/rfc"

// AuthorResolver resolves a username to an author identity.
// people.Directory is the production implementation.
type AuthorResolver interface {
	Resolve(ctx context.Context, username string) (model.AuthorIdentity, error)
}

// Crawler walks the paginated revision log of a wiki page and produces
// normalized revision records.
//
// Design decision: Pagination is an explicit loop over a cursor and a
// growing accumulator rather than recursion, so arbitrarily long histories
// never grow the call stack.
type Crawler struct {
	// source fetches revision-log pages.
	source fetch.PageSource

	// authors resolves row usernames to identities.
	authors AuthorResolver

	// baseURL is the revision-log root URL.
	baseURL string

	// startCursor is the offset of the first page requested.
	startCursor int

	// delay is a politeness pause between page fetches.
	delay time.Duration

	// logger receives debug-level progress output.
	logger *slog.Logger
}

// CrawlerOption configures a Crawler.
type CrawlerOption func(*Crawler)

// WithBaseURL sets the revision-log root URL.
func WithBaseURL(baseURL string) CrawlerOption {
	return func(c *Crawler) {
		c.baseURL = baseURL
	}
}

// WithStartCursor sets the offset of the first page requested.
func WithStartCursor(cursor int) CrawlerOption {
	return func(c *Crawler) {
		c.startCursor = cursor
	}
}

// WithDelay sets the politeness delay between page fetches.
func WithDelay(d time.Duration) CrawlerOption {
	return func(c *Crawler) {
		c.delay = d
	}
}

// WithLogger sets the logger used for progress output.
func WithLogger(logger *slog.Logger) CrawlerOption {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// NewCrawler creates a Crawler over the given page source and resolver.
func NewCrawler(source fetch.PageSource, authors AuthorResolver, opts ...CrawlerOption) *Crawler {
	c := &Crawler{
		source:  source,
		authors: authors,
		baseURL: DefaultBaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Crawl fetches the full revision history of a wiki page.
//
// Pages are fetched sequentially starting at the configured cursor. A page
// fetch that fails or returns non-200 ends the crawl with whatever has
// accumulated so far; a failure on the very first page yields an empty,
// non-nil slice and no error. The server-echoed next cursor is
// authoritative: the crawl continues only while it strictly increases,
// which guards against non-advancing or regressive pagination responses.
//
// The only error returned is context cancellation, alongside the records
// accumulated up to that point.
func (c *Crawler) Crawl(ctx context.Context, slug string) ([]model.Revision, error) {
	history := make([]model.Revision, 0)
	cursor := c.startCursor

	for {
		select {
		case <-ctx.Done():
			return history, ctx.Err()
		default:
		}

		pageURL := c.historyURL(slug, cursor)
		page, err := c.source.Fetch(ctx, pageURL)
		if err != nil || !page.OK() {
			c.logger.Debug("revision log page unavailable, ending crawl",
				"slug", slug,
				"cursor", cursor,
				"records", len(history),
			)
			return history, nil
		}

		doc, err := markup.Parse(bytes.NewReader(page.Body))
		if err != nil {
			return history, nil
		}

		rows := ParseRows(doc)
		for _, row := range rows {
			identity, err := c.authors.Resolve(ctx, row.Username)
			if err != nil {
				return history, err
			}
			history = append(history, model.Revision{
				Rev:     row.Rev,
				Date:    model.FormatRevisionTime(row.Rev),
				Author:  identity.DisplayName,
				Email:   identity.Email,
				Message: row.Summary,
			})
		}

		c.logger.Debug("parsed revision log page",
			"slug", slug,
			"cursor", cursor,
			"rows", len(rows),
		)

		next, ok := ParseNextCursor(doc)
		if !ok || next <= cursor {
			return history, nil
		}
		cursor = next

		if c.delay > 0 {
			select {
			case <-ctx.Done():
				return history, ctx.Err()
			case <-time.After(c.delay):
			}
		}
	}
}

// historyURL builds the revision-log URL for a slug and cursor.
func (c *Crawler) historyURL(slug string, cursor int) string {
	q := url.Values{}
	q.Set("do", "revisions")
	q.Set("first", strconv.Itoa(cursor))
	return strings.TrimRight(c.baseURL, "/") + "/" + slug + "?" + q.Encode()
}
