// Package config loads, normalizes, and validates cineload configuration.
//
// Configuration comes from a TOML file (default ~/.config/cineload/config.toml)
// with repository defaults filled in for anything unset. The OMDb API key may
// also be supplied through the OMDB_API_KEY environment variable. Validation
// is strict: a missing API key is fatal and the pipeline never starts.
package config
