package model

// AuthorIdentity is a wiki author resolved through the people directory.
// Identities are created lazily on first encounter of a username and are
// never mutated afterwards; they live for the duration of one crawl run.
type AuthorIdentity struct {
	// Username is the wiki login name. It is the cache key in the
	// author directory.
	Username string `json:"username"`

	// DisplayName is the human-readable name from the profile page,
	// or Username when the profile is unresolved.
	DisplayName string `json:"display_name"`

	// Email is Username@<mail domain> for resolved authors, or the
	// "unknown@" placeholder mailbox for unresolved ones.
	Email string `json:"email"`
}
