// Package logging assembles the structured slog loggers used across cineload.
//
// It owns level and format parsing, console/JSON handler selection, and
// component tagging so every part of the pipeline emits log lines with the
// same shape. A no-op logger is provided for tests and wiring code that
// cannot fail.
//
// Prefer these constructors over hand-rolled slog setup.
package logging
