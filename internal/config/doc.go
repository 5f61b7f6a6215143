// Package config loads, normalizes, and validates logograb configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GITHUB_TOKEN and the host's DISPATCHARR_LOGO_DIR. The Config type centralizes
// every knob the daemon and CLI need so the logo directory, catalog location and
// host database are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
