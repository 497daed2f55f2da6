// Package logging assembles structured slog loggers and attribute helpers used
// across Cappuccino services.
//
// It centralizes level and output plumbing for the console and JSON handlers,
// and exposes standardized field keys so the daemon, router, and capture code
// tag log lines consistently. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
