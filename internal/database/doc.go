// Package database provides SQLite-based storage for crawled revision
// histories.
//
// The archive is strictly downstream of the crawl: the crawler never reads
// from it, and a missing or broken database never affects crawling. Each
// crawl is stored as a run (identified by UUID) together with its revision
// records in crawl order, so repeated crawls of the same page accumulate
// instead of overwriting.
//
// Design decision: We use modernc.org/sqlite (pure Go) rather than a CGO
// driver so the tool cross-compiles without a C toolchain.
package database
