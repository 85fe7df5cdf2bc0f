// Package logging provides structured logging with context propagation for
// the pflow runtime, built on the standard library's log/slog. Level and
// format are controlled by the PFLOW_LOG_LEVEL environment variable and the
// CLI's --verbose flag; see cmd/pflow.
package logging
