// Package omdb provides the HTTP client for the OMDb lookup API.
//
// The client queries by clean title and release year and maps the response
// into a typed Result. Numeric fields carrying the "N/A" sentinel, or values
// that fail to parse, become nil rather than errors; a missing match is
// reported as ErrNotFound so callers can distinguish it from transport
// failures. The caller decides retry policy; the client never retries.
package omdb
