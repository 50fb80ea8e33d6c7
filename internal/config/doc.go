// Package config loads, normalizes, and validates annunciator configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ANNUNCIATOR_API_TOKEN. The Config type centralizes every knob the CLI and
// composition sessions need, so the backend endpoint, station identity,
// language policy, and media player are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
