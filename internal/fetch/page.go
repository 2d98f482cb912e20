package fetch

import "net/http"

// Page is a fetched document.
// The crawl core only ever looks at the status code and body; headers and
// redirects are the transport's concern.
type Page struct {
	// URL is the URL the page was fetched from.
	URL string

	// StatusCode is the HTTP response status code.
	StatusCode int

	// Body is the response body, truncated to the source's body limit.
	Body []byte
}

// OK reports whether the fetch produced a usable document.
// Anything other than 200 is treated as not found/unavailable.
func (p *Page) OK() bool {
	return p != nil && p.StatusCode == http.StatusOK
}
