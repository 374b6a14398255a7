// Package config provides configuration structures and utilities for
// siteindex: crawl settings, validation, the optional .siteindex YAML
// file, and XDG directory helpers.
package config
