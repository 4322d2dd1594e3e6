package rip

import (
	"fmt"
	"path/filepath"
	"strings"

	"discripper/internal/deps"
)

const compressionPreset = "Fast 1080p30"

// ErrNoCompressionTool is returned when HandBrakeCLI does not resolve.
var ErrNoCompressionTool = fmt.Errorf("HandBrakeCLI not found on PATH")

// CompressionOutputPath derives the compressed twin of a ripped file,
// inserting a -compressed suffix before the extension.
func CompressionOutputPath(source string) string {
	ext := filepath.Ext(source)
	return strings.TrimSuffix(source, ext) + "-compressed" + ext
}

// CompressionCommand builds the HandBrakeCLI invocation for one ripped file.
func CompressionCommand(source string, resolve deps.Resolver) ([]string, error) {
	if resolve == nil {
		resolve = deps.LookPath
	}
	if _, ok := resolve("HandBrakeCLI"); !ok {
		return nil, ErrNoCompressionTool
	}
	return []string{
		"HandBrakeCLI",
		"--preset", compressionPreset,
		"-i", source,
		"-o", CompressionOutputPath(source),
	}, nil
}

// EmitCompressionPlan records the planned compression step as a structured
// event. Compression itself is left to the caller; the plan is advisory.
func EmitCompressionPlan(sink EventSink, source string, dryRun bool, resolve deps.Resolver) error {
	command, err := CompressionCommand(source, resolve)
	if err != nil {
		return err
	}
	status := "ready"
	if dryRun {
		status = "dry-run"
	}
	sink.Emit(fmt.Sprintf("EVENT=COMPRESS_PLAN STATUS=%s SOURCE=%q OUTPUT=%q COMMAND=%q",
		status, source, CompressionOutputPath(source), quoteCommand(command)))
	return nil
}
