// Package history persists completed rip attempts to a local SQLite database
// so past sessions can be reviewed from the CLI.
package history
