// Package config loads, normalizes, and validates crosscheck configuration.
//
// Configuration is TOML with a documented sample embedded in the binary.
// Load resolves an explicit path, then ~/.config/crosscheck/config.toml, then
// ./crosscheck.toml, applies defaults for anything unset, expands user paths,
// and rejects configs that would leave the reconciler without a storage
// endpoint or matching layouts.
package config
