// Package logging provides structured logger construction for claimgate.
//
// Logging is built on log/slog. Level and format (json or text) come from
// configuration; Setup installs the configured logger as the process
// default so every component's slog.Default().With("component", ...)
// pattern picks it up.
package logging
