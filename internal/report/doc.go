// Package report renders crawled revision histories for output.
//
// Three formats are supported:
//   - SimpleWriter: human-readable text modeled on git log (default)
//   - JSONWriter: machine-readable JSON for downstream tooling
//   - MarkdownWriter: GitHub-flavored Markdown tables for documentation
//
// All writers implement the Writer interface, and MultiWriter fans a
// history out to several destinations at once (e.g. terminal and file).
package report
