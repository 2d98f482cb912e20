package config

// WikiConfig holds the settings for one named wiki profile.
// A profile points wikihist at a DokuWiki installation other than the
// default php.net wiki.
type WikiConfig struct {
	// BaseURL is the revision-log root URL for this wiki.
	BaseURL string `yaml:"base_url,omitempty"`

	// PeopleURL is the people-directory root URL for author lookups.
	PeopleURL string `yaml:"people_url,omitempty"`

	// MailDomain is the domain for synthesized author mailboxes.
	MailDomain string `yaml:"mail_domain,omitempty"`

	// Delay overrides the global crawl delay for this wiki, in
	// time.ParseDuration syntax (e.g. "500ms", "2s").
	// If empty, the global CrawlDelay is used.
	Delay string `yaml:"delay,omitempty"`

	// UserAgent overrides the User-Agent header for this wiki.
	UserAgent string `yaml:"user_agent,omitempty"`
}

// File represents the structure of the .wikihist configuration file.
type File struct {
	// Wikis maps profile names to wiki configurations.
	// The profile is chosen with the --wiki flag.
	Wikis map[string]WikiConfig `yaml:"wikis,omitempty"`
}
