// Package config provides configuration structures and utilities for
// wikihist. It defines the crawl settings (base URLs, timeouts, politeness
// delay), report generation preferences, and the optional .wikihist YAML
// file holding named wiki profiles.
package config
