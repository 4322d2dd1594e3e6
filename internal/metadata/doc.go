// Package metadata builds and writes the metadata.json document that
// accompanies a rip session: disc identity, classification outcome, planned
// tracks, optional ffprobe enrichment, and tool versions.
package metadata
