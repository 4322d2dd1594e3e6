// Package rip plans and supervises external ripping tools.
//
// Planning selects a backend (dvdbackup preferred, ffmpeg fallback), builds
// the full command for one title, and records whether the plan should
// execute. Execution spawns the command, fans both output streams into a
// single channel, drives a backend-specific progress reporter, and maps every
// failure into an ExecutionError with a stable exit code.
//
// There is no retry and no way to abort an in-flight tool; callers needing
// cancellation must wrap the process at a higher level. The destination
// overwrite guard is a pre-spawn existence check, not a lock: two concurrent
// executions against the same destination race, which is accepted because the
// intended usage is one rip at a time.
package rip
