// Package config loads, normalizes, and validates discripper configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and validates classification thresholds so
// downstream code receives sanitized values. Always obtain settings through
// this package rather than reading files directly.
package config
