package model

import "time"

// GitDate is the timestamp layout used for revision dates.
// It matches the default date format of git commit metadata, so an
// exported history can be replayed into git author/committer fields
// without reformatting.
const GitDate = "Mon Jan 2 15:04:05 2006 -0700"

// Revision represents a single entry of a wiki page's revision log.
// Records are immutable once built; a full crawl produces them in the
// order the server lists them (newest first).
type Revision struct {
	// Rev is the revision identifier assigned by the wiki.
	// DokuWiki uses the Unix timestamp (seconds) of the edit as the
	// identifier, so Rev is also the seed for Date.
	Rev int64 `json:"rev"`

	// Date is the revision time formatted per GitDate, always in UTC.
	Date string `json:"date"`

	// Author is the display name resolved through the people directory,
	// or the raw username when the profile could not be resolved.
	Author string `json:"author"`

	// Email is the synthesized author mailbox (username@<mail domain>),
	// or the unknown placeholder for unresolved authors.
	Email string `json:"email"`

	// Message is the cleaned change summary for the revision.
	Message string `json:"message"`
}

// History is the complete crawled revision log of one wiki page.
// Revisions preserve the server-provided order across all pages,
// concatenated in fetch order.
type History struct {
	// Slug is the wiki page slug the history was crawled from.
	Slug string `json:"slug"`

	// WikiURL is the base URL of the wiki installation.
	WikiURL string `json:"wiki_url,omitempty"`

	// FetchedAt is when the crawl started.
	FetchedAt time.Time `json:"fetched_at"`

	// Revisions are the revision records, newest first.
	Revisions []Revision `json:"revisions"`
}

// RevisionTime converts a revision identifier to its UTC time.
func RevisionTime(rev int64) time.Time {
	return time.Unix(rev, 0).UTC()
}

// FormatRevisionTime formats a revision identifier per GitDate.
func FormatRevisionTime(rev int64) string {
	return RevisionTime(rev).Format(GitDate)
}
