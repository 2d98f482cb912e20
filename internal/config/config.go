package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// Base URLs default to the php.net wiki, the installation this tool was
// built against; every one of them can be pointed at another DokuWiki site.
const (
	// DefaultWikiBaseURL is the revision-log root. The page slug is
	// appended as a path segment and the log is requested with
	// do=revisions&first=<cursor>.
	DefaultWikiBaseURL = "https://wiki.php.net/rfc"

	// DefaultPeopleBaseURL is the people-directory root used for author
	// profile lookups.
	DefaultPeopleBaseURL = "https://people.php.net"

	// DefaultMailDomain is the domain used to synthesize author
	// mailboxes (username@domain).
	DefaultMailDomain = "php.net"

	// DefaultPageSize is the number of revisions DokuWiki serves per log
	// page. The server echoes the next offset itself; this value only
	// documents the expected stride of the pagination cursor.
	DefaultPageSize = 20

	// DefaultTimeout is the per-request timeout. Public wiki mirrors can
	// be slow, so this is deliberately generous.
	DefaultTimeout = 30 * time.Second

	// DefaultCrawlDelay is the pause between revision-log page fetches.
	// This is a politeness setting toward the wiki operator.
	DefaultCrawlDelay = 500 * time.Millisecond

	// DefaultUserAgent identifies wikihist in HTTP requests so wiki
	// operators can recognize the traffic in their logs.
	DefaultUserAgent = "wikihist/1.0 (+https://github.com/rfctools/wikihist)"

	// DefaultMaxBodySize limits the response body size to read.
	// Revision-log pages are small; 5MB leaves ample headroom.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths.
	AppName = "wikihist"
)

// Config holds all configuration options for wikihist.
// It is populated from CLI flags and the optional config file and passed
// through the application via dependency injection rather than global state.
type Config struct {
	// WikiBaseURL is the revision-log root URL.
	WikiBaseURL string

	// PeopleBaseURL is the people-directory root URL for author lookups.
	PeopleBaseURL string

	// MailDomain is the domain for synthesized author mailboxes.
	MailDomain string

	// Timeout is the per-request timeout for page fetches.
	Timeout time.Duration

	// CrawlDelay is the pause between revision-log page fetches.
	CrawlDelay time.Duration

	// StartCursor is the offset of the first revision-log page requested.
	// Normally 0; a larger value skips the newest revisions.
	StartCursor int

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .wikihist in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// WikiConfigs holds named wiki profiles loaded from the config file.
	WikiConfigs *File

	// JSONReport enables JSON report output instead of the plain text
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the plain
	// text format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// SaveToDB indicates whether to archive crawled histories in the
	// local SQLite database.
	SaveToDB bool

	// DBDir is the directory holding the SQLite archive.
	// Defaults to the XDG data directory.
	DBDir string

	// Slugs is the list of wiki page slugs to crawl.
	Slugs []string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (URLs, timeout, crawl
// delay). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		WikiBaseURL:   DefaultWikiBaseURL,
		PeopleBaseURL: DefaultPeopleBaseURL,
		MailDomain:    DefaultMailDomain,
		Timeout:       DefaultTimeout,
		CrawlDelay:    DefaultCrawlDelay,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
	}
}

// ApplyWikiConfig overlays a named wiki profile from the config file onto
// the configuration. Unset profile fields leave the current values alone.
// An unknown profile name is an error so typos don't silently crawl the
// wrong wiki.
func (c *Config) ApplyWikiConfig(name string) error {
	if c.WikiConfigs == nil {
		return fmt.Errorf("no configuration file loaded, wiki profile %q unavailable", name)
	}
	wc, ok := c.WikiConfigs.Wikis[name]
	if !ok {
		return fmt.Errorf("unknown wiki profile %q", name)
	}
	if wc.BaseURL != "" {
		c.WikiBaseURL = wc.BaseURL
	}
	if wc.PeopleURL != "" {
		c.PeopleBaseURL = wc.PeopleURL
	}
	if wc.MailDomain != "" {
		c.MailDomain = wc.MailDomain
	}
	if wc.Delay != "" {
		d, err := time.ParseDuration(wc.Delay)
		if err != nil {
			return fmt.Errorf("invalid delay in wiki profile %q: %w", name, err)
		}
		c.CrawlDelay = d
	}
	if wc.UserAgent != "" {
		c.UserAgent = wc.UserAgent
	}
	return nil
}

// Validate checks the configuration for inconsistencies.
// It returns one of the package's sentinel errors so callers can match
// with errors.Is.
func (c *Config) Validate() error {
	if len(c.Slugs) == 0 {
		return ErrNoSlug
	}

	if !validBaseURL(c.WikiBaseURL) || !validBaseURL(c.PeopleBaseURL) {
		return ErrInvalidBaseURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	if c.StartCursor < 0 {
		return ErrInvalidStartCursor
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// validBaseURL reports whether s is an absolute http(s) URL.
func validBaseURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// XDGDataDir returns the XDG data directory for wikihist.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/wikihist
// On macOS: ~/Library/Application Support/wikihist
// On Windows: %LOCALAPPDATA%\wikihist
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
