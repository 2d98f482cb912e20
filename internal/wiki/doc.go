// Package wiki crawls DokuWiki revision logs.
//
// # Architecture
//
// The package is built around the Crawler type, which walks the paginated
// revision log (?do=revisions&first=<cursor>) of a single page. ParseRows
// and ParseNextCursor extract the per-page rows and the server-echoed next
// offset from the repaired markup; the Crawler loops until the server stops
// advancing the cursor.
//
// # Termination
//
// The crawl ends when any of these holds:
//   - a page fetch fails or returns non-200 (partial result, no error)
//   - the page has no next-page control
//   - the echoed next cursor is not strictly greater than the current one
//
// The last rule is the anti-loop guard: the server's value is authoritative
// for advancing, but it can never move the crawl backwards or hold it in
// place.
//
// # Tolerance
//
// Row extraction never aborts a page. Missing summary or user spans become
// empty strings; only rows with no parsable revision identifier are dropped.
package wiki
