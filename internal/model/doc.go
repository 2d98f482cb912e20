// Package model defines the core data structures used throughout wikihist.
//
// This package contains the following main types:
//   - Revision: One entry of a wiki page's revision log
//   - History: The full crawled revision log of one page
//   - AuthorIdentity: A username resolved to a display name and mailbox
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (wiki, people, report, database) need these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
