// Package log provides logging helpers for wikihist, built on top of the
// standard slog package.
//
// The TruncateHandler caps the length of string attribute values before
// they reach the underlying handler. Crawl debugging logs fetched markup
// and long change summaries; truncation keeps terminal output readable
// while preserving the attribute keys.
//
// # Usage
//
//	logger := log.New(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("fetched page", "body", string(page.Body)) // value is capped
package log
