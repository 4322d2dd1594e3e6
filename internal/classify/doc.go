// Package classify decides whether a disc holds a movie or a season of
// episodes.
//
// The heuristics work purely on title durations: a run of similarly sized
// 20-60 minute titles reads as a series, otherwise the longest title is
// treated as the main feature. Thresholds are configurable so unusual discs
// can be steered without code changes.
package classify
