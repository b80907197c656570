// Package config provides configuration structures and utilities for
// migramap. It defines crawl options, site-specific profiles loaded from
// a YAML file, and XDG directory helpers.
package config
