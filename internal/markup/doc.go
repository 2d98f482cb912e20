// Package markup provides tolerant HTML parsing and path-based queries.
//
// # Architecture
//
// The package is a thin adapter over golang.org/x/net/html. Parse builds a
// node tree through charset detection, and Query evaluates small XPath-like
// path selectors against the tree. Attr and Text read data out of matched
// nodes.
//
// Design decision: We implement a minimal path selector rather than pulling
// in a full CSS/XPath engine because:
//  1. The revision log and profile pages need only a handful of fixed paths
//  2. Child-axis semantics keep queries predictable on repaired markup
//  3. Reduces external dependencies
//
// # Tolerance
//
// Everything here is best-effort. Queries against missing structure return
// empty slices, attribute reads report absence explicitly, and text of a nil
// node is the empty string. Callers handle the absent case; nothing in this
// package panics or returns markup errors.
package markup
