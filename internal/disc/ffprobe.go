package disc

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// InspectFFprobe reads a single-title view of device using ffprobe. It backs
// devices lsdvd cannot handle, at the cost of chapter detail.
func InspectFFprobe(ctx context.Context, tool, device string, timeout time.Duration) (Disc, error) {
	device = strings.TrimSpace(device)
	if device == "" {
		return Disc{}, fmt.Errorf("no device specified")
	}

	probeCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		probeCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	output, err := exec.CommandContext(
		probeCtx, tool,
		"-v", "error",
		"-show_entries", "format=duration:format_tags=title",
		"-of", "json",
		device,
	).Output()
	if err != nil {
		return Disc{}, fmt.Errorf("run ffprobe: %w", err)
	}
	return ParseFFprobeOutput(output)
}

type ffprobeDocument struct {
	Format struct {
		Duration string `json:"duration"`
		Tags     struct {
			Title string `json:"title"`
		} `json:"tags"`
	} `json:"format"`
}

// ParseFFprobeOutput decodes ffprobe -of json format output into a Disc with
// one title covering the whole device.
func ParseFFprobeOutput(output []byte) (Disc, error) {
	var doc ffprobeDocument
	if err := json.Unmarshal(output, &doc); err != nil {
		return Disc{}, fmt.Errorf("unexpected ffprobe output: %w", err)
	}

	label := strings.TrimSpace(doc.Format.Tags.Title)
	if label == "" {
		label = "Unknown Disc"
	}

	var duration time.Duration
	if doc.Format.Duration != "" {
		if seconds, err := strconv.ParseFloat(doc.Format.Duration, 64); err == nil {
			duration = secondsToDuration(seconds)
		}
	}

	titleLabel := label
	if titleLabel == "Unknown Disc" {
		titleLabel = "Title"
	}
	return Disc{Label: label, Titles: []Title{{Label: titleLabel, Duration: duration}}}, nil
}
