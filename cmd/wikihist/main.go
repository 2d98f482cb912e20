// Package main provides the entry point for the wikihist CLI.
//
// wikihist retrieves the full edit history of DokuWiki pages (by default
// the php.net RFC wiki) and converts it into git-style revision records
// with resolved author identities.
//
// Usage:
//
//	wikihist history <page-slug>
//	wikihist show <page-slug>
//
// See --help for all available options.
package main

// main is the entry point for wikihist.
func main() {
	Execute()
}
