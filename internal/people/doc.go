// Package people resolves wiki usernames to human-readable identities.
//
// A Directory fetches a user's profile page from the people directory on
// first lookup, extracts the display name, synthesizes a mailbox from the
// username and mail domain, and memoizes the result for the rest of the
// crawl run. Unreachable or missing profiles degrade to an unresolved
// identity instead of failing the crawl.
//
// Concurrent first lookups of the same username are collapsed into one
// fetch via golang.org/x/sync/singleflight, so the at-most-one-fetch-per-
// username guarantee holds even if callers resolve authors in parallel.
package people
