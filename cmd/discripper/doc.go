// Package main hosts the discripper CLI entrypoint and command graph.
//
// The Cobra-based command tree runs the rip pipeline (inspect, classify,
// plan, execute), surfaces disc inspection and dependency checks, lists rip
// history, and watches for disc insertions. It centralizes configuration
// resolution and structured logging setup so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
