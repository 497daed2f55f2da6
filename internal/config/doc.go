// Package config loads, normalizes, and validates Cappuccino configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// daemon and CLI need: the data directory holding the clip database, the
// daemon socket and HTTP bind address, logging output, and notification
// settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
