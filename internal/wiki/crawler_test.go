package wiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rfctools/wikihist/internal/fetch"
	"github.com/rfctools/wikihist/internal/model"
)

// stubResolver is an AuthorResolver that fabricates identities locally and
// records how often each username was resolved.
type stubResolver struct {
	mu    sync.Mutex
	calls map[string]int
}

func newStubResolver() *stubResolver {
	return &stubResolver{calls: make(map[string]int)}
}

func (r *stubResolver) Resolve(_ context.Context, username string) (model.AuthorIdentity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[username]++
	return model.AuthorIdentity{
		Username:    username,
		DisplayName: "Name of " + username,
		Email:       username + "@php.net",
	}, nil
}

// historyServer serves canned revision-log pages keyed by the first query
// parameter. Cursors without an entry return 404.
func historyServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("do") != "revisions" {
			http.Error(w, "unexpected request", http.StatusBadRequest)
			return
		}
		page, ok := pages[r.URL.Query().Get("first")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if _, err := w.Write([]byte(page)); err != nil {
			t.Errorf("write failed: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// newTestCrawler wires a Crawler against a canned-history server.
func newTestCrawler(t *testing.T, server *httptest.Server, opts ...CrawlerOption) (*Crawler, *stubResolver) {
	t.Helper()
	resolver := newStubResolver()
	source := fetch.NewHTTPSource(server.Client())
	opts = append([]CrawlerOption{WithBaseURL(server.URL)}, opts...)
	return NewCrawler(source, resolver, opts...), resolver
}

// TestCrawl tests the pagination state machine end to end.
func TestCrawl(t *testing.T) {
	t.Parallel()

	t.Run("concatenates pages in fetch order", func(t *testing.T) {
		t.Parallel()

		server := historyServer(t, map[string]string{
			"0": historyPage("20",
				historyRow("1657741004", "Status -&gt; accepted", "crell"),
				historyRow("1657050000", "tweaks", "crell"),
			),
			"20": historyPage("",
				historyRow("1000000000", "first draft", "jdoe"),
			),
		})

		crawler, _ := newTestCrawler(t, server)
		history, err := crawler.Crawl(context.Background(), "some_rfc")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		if len(history) != 3 {
			t.Fatalf("expected 3 revisions, got %d", len(history))
		}
		wantRevs := []int64{1657741004, 1657050000, 1000000000}
		for i, want := range wantRevs {
			if history[i].Rev != want {
				t.Errorf("revision %d: expected %d, got %d", i, want, history[i].Rev)
			}
		}
	})

	t.Run("derives git-style dates from revision identifiers", func(t *testing.T) {
		t.Parallel()

		server := historyServer(t, map[string]string{
			"0": historyPage("", historyRow("1000000000", "first draft", "jdoe")),
		})

		crawler, _ := newTestCrawler(t, server)
		history, err := crawler.Crawl(context.Background(), "some_rfc")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}
		if len(history) != 1 {
			t.Fatalf("expected 1 revision, got %d", len(history))
		}
		if history[0].Date != "Sun Sep 9 01:46:40 2001 +0000" {
			t.Errorf("unexpected date: %q", history[0].Date)
		}
	})

	t.Run("fills author fields from the resolver", func(t *testing.T) {
		t.Parallel()

		server := historyServer(t, map[string]string{
			"0": historyPage("",
				historyRow("200", "second", "crell"),
				historyRow("100", "first", "crell"),
			),
		})

		crawler, resolver := newTestCrawler(t, server)
		history, err := crawler.Crawl(context.Background(), "some_rfc")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		if history[0].Author != "Name of crell" || history[0].Email != "crell@php.net" {
			t.Errorf("unexpected author fields: %+v", history[0])
		}
		if resolver.calls["crell"] != 2 {
			t.Errorf("expected resolver called per row, got %d", resolver.calls["crell"])
		}
	})

	t.Run("first page failure yields empty result without error", func(t *testing.T) {
		t.Parallel()

		server := historyServer(t, map[string]string{})

		crawler, _ := newTestCrawler(t, server)
		history, err := crawler.Crawl(context.Background(), "missing_page")
		if err != nil {
			t.Fatalf("expected swallowed failure, got error: %v", err)
		}
		if history == nil {
			t.Fatal("expected empty slice, got nil")
		}
		if len(history) != 0 {
			t.Errorf("expected no revisions, got %d", len(history))
		}
	})

	t.Run("later page failure truncates the result", func(t *testing.T) {
		t.Parallel()

		server := historyServer(t, map[string]string{
			"0": historyPage("20", historyRow("300", "newest", "jdoe")),
			// Cursor 20 intentionally missing.
		})

		crawler, _ := newTestCrawler(t, server)
		history, err := crawler.Crawl(context.Background(), "some_rfc")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}
		if len(history) != 1 {
			t.Errorf("expected truncated history of 1, got %d", len(history))
		}
	})

	t.Run("server echoed cursor is authoritative", func(t *testing.T) {
		t.Parallel()

		// The server skips from 0 straight to 40; a crawler that
		// advanced by the fixed page size would miss it.
		server := historyServer(t, map[string]string{
			"0":  historyPage("40", historyRow("300", "newest", "jdoe")),
			"40": historyPage("", historyRow("100", "oldest", "jdoe")),
		})

		crawler, _ := newTestCrawler(t, server)
		history, err := crawler.Crawl(context.Background(), "some_rfc")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}
		if len(history) != 2 {
			t.Errorf("expected 2 revisions across the cursor jump, got %d", len(history))
		}
	})

	t.Run("terminates on non-advancing cursor", func(t *testing.T) {
		t.Parallel()

		// The server echoes the current offset back forever.
		server := historyServer(t, map[string]string{
			"0": historyPage("0", historyRow("300", "loop", "jdoe")),
		})

		crawler, _ := newTestCrawler(t, server)
		history, err := crawler.Crawl(context.Background(), "some_rfc")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}
		if len(history) != 1 {
			t.Errorf("expected exactly one page of results, got %d revisions", len(history))
		}
	})

	t.Run("terminates on regressive cursor", func(t *testing.T) {
		t.Parallel()

		server := historyServer(t, map[string]string{
			"20": historyPage("0", historyRow("300", "back", "jdoe")),
		})

		crawler, _ := newTestCrawler(t, server, WithStartCursor(20))
		history, err := crawler.Crawl(context.Background(), "some_rfc")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}
		if len(history) != 1 {
			t.Errorf("expected exactly one page of results, got %d revisions", len(history))
		}
	})

	t.Run("cancelled context returns accumulated records and the error", func(t *testing.T) {
		t.Parallel()

		server := historyServer(t, map[string]string{
			"0": historyPage("20", historyRow("300", "newest", "jdoe")),
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		crawler, _ := newTestCrawler(t, server)
		if _, err := crawler.Crawl(ctx, "some_rfc"); err == nil {
			t.Error("expected context error")
		}
	})
}
