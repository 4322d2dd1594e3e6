package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"discripper/internal/classify"
	"discripper/internal/deps"
	"discripper/internal/disc"
	"discripper/internal/rip"
)

// Document is the serialized shape of metadata.json.
type Document struct {
	GeneratedAt    time.Time      `json:"generated_at"`
	SessionID      string         `json:"session_id,omitempty"`
	Disc           DiscInfo       `json:"disc"`
	Classification Classification `json:"classification"`
	Tracks         []Track        `json:"tracks"`
	Tools          []Tool         `json:"tools,omitempty"`
}

// DiscInfo identifies the source disc.
type DiscInfo struct {
	Device string `json:"device"`
	Label  string `json:"label"`
	Title  string `json:"title,omitempty"`
}

// Classification records the movie/series decision.
type Classification struct {
	Type         string `json:"type"`
	EpisodeCount int    `json:"episode_count"`
}

// Track describes one planned rip target.
type Track struct {
	Index           int             `json:"index"`
	Label           string          `json:"label"`
	EpisodeCode     string          `json:"episode_code,omitempty"`
	DurationSeconds float64         `json:"duration_seconds"`
	ChapterSeconds  []float64       `json:"chapter_seconds,omitempty"`
	Backend         string          `json:"backend"`
	OutputPath      string          `json:"output_path"`
	OutputExists    bool            `json:"output_exists"`
	OutputBytes     int64           `json:"output_bytes,omitempty"`
	Probe           json.RawMessage `json:"probe,omitempty"`
}

// Tool records the resolved path and version banner of one external tool.
type Tool struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Version string `json:"version,omitempty"`
}

// Build assembles a document from the inspected disc, its classification, and
// the plans produced for it. Output files are stat'ed best-effort.
func Build(device string, d disc.Disc, classification classify.Result, plans []rip.Plan, sessionID string, now time.Time) Document {
	doc := Document{
		GeneratedAt: now.UTC(),
		SessionID:   sessionID,
		Disc: DiscInfo{
			Device: device,
			Label:  d.Label,
			Title:  disc.DisplayLabel(d.Label),
		},
		Classification: Classification{
			Type:         string(classification.Type),
			EpisodeCount: len(classification.Episodes),
		},
	}

	for i, plan := range plans {
		track := Track{
			Index:           i + 1,
			Label:           plan.Title.Label,
			DurationSeconds: plan.Title.Duration.Seconds(),
			Backend:         plan.Backend(),
			OutputPath:      plan.Destination,
		}
		if i < len(classification.EpisodeCodes) {
			track.EpisodeCode = classification.EpisodeCodes[i]
		}
		for _, chapter := range plan.Title.Chapters {
			track.ChapterSeconds = append(track.ChapterSeconds, chapter.Seconds())
		}
		if info, err := os.Stat(plan.Destination); err == nil {
			track.OutputExists = true
			track.OutputBytes = info.Size()
		}
		doc.Tracks = append(doc.Tracks, track)
	}
	return doc
}

// commandRunner executes an external command and returns its combined output.
// Swapped in tests.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// EnrichTracks attaches raw ffprobe output to tracks whose output file
// exists. Probe failures leave the track untouched.
func EnrichTracks(ctx context.Context, doc *Document, resolve deps.Resolver, run commandRunner) {
	if resolve == nil {
		resolve = deps.LookPath
	}
	if run == nil {
		run = runCommand
	}
	tool, ok := resolve("ffprobe")
	if !ok {
		return
	}
	for i := range doc.Tracks {
		track := &doc.Tracks[i]
		if !track.OutputExists {
			continue
		}
		output, err := run(ctx, tool,
			"-v", "error",
			"-print_format", "json",
			"-show_format",
			"-show_streams",
			"-show_chapters",
			track.OutputPath,
		)
		if err != nil || !json.Valid(output) {
			continue
		}
		track.Probe = json.RawMessage(output)
	}
}

// versionFlags maps tools to the flag their version banner hides behind.
var versionFlags = map[string]string{
	"lsdvd":        "-V",
	"ffprobe":      "-version",
	"ffmpeg":       "-version",
	"dvdbackup":    "--version",
	"HandBrakeCLI": "--version",
}

// ToolVersions probes the resolved tools for their version banners. Only the
// first output line is kept.
func ToolVersions(ctx context.Context, resolve deps.Resolver, run commandRunner) []Tool {
	if resolve == nil {
		resolve = deps.LookPath
	}
	if run == nil {
		run = runCommand
	}
	var tools []Tool
	for _, req := range deps.Requirements() {
		path, ok := resolve(req.Command)
		if !ok {
			continue
		}
		tool := Tool{Name: req.Name, Path: path}
		if flag, known := versionFlags[req.Command]; known {
			probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			output, err := run(probeCtx, path, flag)
			cancel()
			if err == nil || len(output) > 0 {
				tool.Version = firstLine(string(output))
			}
		}
		tools = append(tools, tool)
	}
	return tools
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

// Write serializes the document next to the rip outputs.
func Write(path string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure metadata directory: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}
