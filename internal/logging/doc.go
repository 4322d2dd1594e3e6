// Package logging builds the slog loggers used across discripper.
//
// It offers a console handler that renders records as a single
// "timestamp LEVEL component: message key=value" line and a JSON handler for
// machine consumption. Attr helpers keep call sites terse and the no-op
// logger keeps collaborators testable without wiring real output.
package logging
