package people

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rfctools/wikihist/internal/fetch"
	"github.com/rfctools/wikihist/internal/markup"
	"github.com/rfctools/wikihist/internal/model"
)

// Defaults for the php.net people directory, the installation the tool
// was built against. Both are configurable for other DokuWiki sites.
const (
	// DefaultBaseURL is the people-directory root; a username is
	// appended as a path segment to form a profile URL.
	DefaultBaseURL = "https://people.php.net"

	// DefaultMailDomain is the domain used to synthesize author
	// mailboxes from usernames.
	DefaultMailDomain = "php.net"
)

// Marker phrases the directory serves inside a 200 response when a profile
// is effectively unavailable. A body containing either is treated the same
// as a failed fetch.
const (
	markerNoSuchUser   = "No such user"
	markerServiceError = "Something happened to main"
)

// nameHeadingPath locates the display-name heading on a profile page.
const nameHeadingPath = "h1[property=foaf:name]"

// Directory resolves wiki usernames to author identities, caching every
// result for the lifetime of the directory (one crawl run).
//
// Design decision: The cache is an explicit injected object rather than
// hidden package state so that separate crawl runs never share or leak
// entries, and tests can assert on cache behavior directly.
type Directory struct {
	// source fetches profile pages.
	source fetch.PageSource

	// baseURL is the people-directory root URL.
	baseURL string

	// mailDomain is appended to usernames to synthesize mailboxes.
	mailDomain string

	// mu guards cache.
	mu sync.Mutex

	// cache holds every identity resolved during this run.
	// Entries are never evicted or re-fetched.
	cache map[string]model.AuthorIdentity

	// group collapses concurrent first lookups of the same username
	// into a single profile fetch.
	group singleflight.Group
}

// Option configures a Directory.
type Option func(*Directory)

// WithBaseURL sets the people-directory root URL.
func WithBaseURL(baseURL string) Option {
	return func(d *Directory) {
		d.baseURL = baseURL
	}
}

// WithMailDomain sets the domain used for synthesized mailboxes.
func WithMailDomain(domain string) Option {
	return func(d *Directory) {
		d.mailDomain = domain
	}
}

// NewDirectory creates a Directory backed by the given page source.
func NewDirectory(source fetch.PageSource, opts ...Option) *Directory {
	d := &Directory{
		source:     source,
		baseURL:    DefaultBaseURL,
		mailDomain: DefaultMailDomain,
		cache:      make(map[string]model.AuthorIdentity),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Resolve returns the identity for a username, fetching the profile page on
// first encounter and answering from the cache afterwards. Lookup failures
// never surface as errors; they degrade to the unresolved identity
// (display name = username, email = "unknown@" + mail domain), which is
// cached like any other result. The only error returned is context
// cancellation, and a cancelled lookup is not cached.
func (d *Directory) Resolve(ctx context.Context, username string) (model.AuthorIdentity, error) {
	if id, ok := d.cached(username); ok {
		return id, nil
	}

	v, err, _ := d.group.Do(username, func() (any, error) {
		// A lost singleflight race resolves from the cache.
		if id, ok := d.cached(username); ok {
			return id, nil
		}
		if err := ctx.Err(); err != nil {
			return model.AuthorIdentity{}, err
		}
		id := d.lookup(ctx, username)
		d.store(username, id)
		return id, nil
	})
	if err != nil {
		return model.AuthorIdentity{}, err
	}

	return v.(model.AuthorIdentity), nil
}

// Len returns the number of cached identities.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cache)
}

// cached returns the cached identity for a username, if any.
func (d *Directory) cached(username string) (model.AuthorIdentity, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, ok := d.cache[username]
	return id, ok
}

// store records an identity in the cache.
func (d *Directory) store(username string, id model.AuthorIdentity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache[username] = id
}

// lookup fetches and parses a profile page. It never fails: any transport
// error, non-200 status, error-marker body, or missing name heading yields
// the unresolved identity. There are no retries; one failed fetch stands
// for the rest of the run.
func (d *Directory) lookup(ctx context.Context, username string) model.AuthorIdentity {
	unresolved := model.AuthorIdentity{
		Username:    username,
		DisplayName: username,
		Email:       "unknown@" + d.mailDomain,
	}

	page, err := d.source.Fetch(ctx, d.profileURL(username))
	if err != nil || !page.OK() {
		return unresolved
	}

	body := string(page.Body)
	if strings.Contains(body, markerNoSuchUser) || strings.Contains(body, markerServiceError) {
		return unresolved
	}

	doc, err := markup.Parse(bytes.NewReader(page.Body))
	if err != nil {
		return unresolved
	}

	var name string
	if headings := markup.Query(doc, nameHeadingPath); len(headings) > 0 {
		name = strings.TrimSpace(markup.Text(headings[0]))
	}
	if name == "" {
		// Profile served 200 but carries no usable heading; treat it
		// the same as a missing profile.
		return unresolved
	}

	return model.AuthorIdentity{
		Username:    username,
		DisplayName: name,
		Email:       username + "@" + d.mailDomain,
	}
}

// profileURL builds the profile URL for a username.
func (d *Directory) profileURL(username string) string {
	return strings.TrimRight(d.baseURL, "/") + "/" + username
}
