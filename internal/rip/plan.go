package rip

import (
	"fmt"
	"path/filepath"
	"strings"

	"discripper/internal/classify"
	"discripper/internal/deps"
	"discripper/internal/disc"
)

// Plan is the immutable description of one title's extraction job. It is
// created once by BuildPlan and consumed exactly once by an Executor.
type Plan struct {
	Device      string
	Title       disc.Title
	Destination string
	Command     []string
	WillExecute bool
}

// Backend returns the external tool name the plan will invoke.
func (p Plan) Backend() string {
	if len(p.Command) == 0 {
		return ""
	}
	return filepath.Base(p.Command[0])
}

// BuildPlan prepares the rip plan for one title. Tool selection prefers
// dvdbackup and falls back to ffmpeg; when neither resolves the build fails
// with ErrNoRipTool before any plan exists.
func BuildPlan(device string, title disc.Title, destination string, dryRun bool, resolve deps.Resolver) (Plan, error) {
	if resolve == nil {
		resolve = deps.LookPath
	}

	var command []string
	switch {
	case resolves(resolve, "dvdbackup"):
		command = dvdbackupCommand(device, title, destination)
	case resolves(resolve, "ffmpeg"):
		command = ffmpegCommand(device, destination)
	default:
		return Plan{}, ErrNoRipTool
	}

	return Plan{
		Device:      device,
		Title:       title,
		Destination: destination,
		Command:     command,
		WillExecute: !dryRun,
	}, nil
}

func resolves(resolve deps.Resolver, name string) bool {
	_, ok := resolve(name)
	return ok
}

func dvdbackupCommand(device string, title disc.Title, destination string) []string {
	return []string{
		"dvdbackup",
		"-i", device,
		"-o", filepath.Dir(destination),
		"-n", planLabel(destination, title),
		"-F",
	}
}

// ffmpegCommand builds the fallback command. The -progress pipe:2 flag is
// what makes stderr emit the key=value lines the ffmpeg reporter parses.
func ffmpegCommand(device, destination string) []string {
	return []string{
		"ffmpeg",
		"-hide_banner",
		"-nostats",
		"-loglevel", "error",
		"-progress", "pipe:2",
		"-i", device,
		destination,
	}
}

// planLabel picks the dvdbackup output name: destination stem, then title
// label, then a literal fallback.
func planLabel(destination string, title disc.Title) string {
	base := filepath.Base(destination)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem != "" && stem != "." {
		return stem
	}
	if strings.TrimSpace(title.Label) != "" {
		return title.Label
	}
	return "title"
}

// DestinationFactory resolves the output path for one title. The episode code
// is empty for movies; index is 1-based in classification order.
type DestinationFactory func(title disc.Title, episodeCode string, index int) (string, error)

// PlanDisc expands a classification result into an ordered plan sequence. It
// performs no I/O; any destination-resolution failure aborts immediately with
// no partial plan list.
func PlanDisc(device string, classification classify.Result, factory DestinationFactory, dryRun bool, resolve deps.Resolver) ([]Plan, error) {
	plans := make([]Plan, 0, len(classification.Episodes))
	for i, title := range classification.Episodes {
		code := ""
		if i < len(classification.EpisodeCodes) {
			code = classification.EpisodeCodes[i]
		}
		destination, err := factory(title, code, i+1)
		if err != nil {
			return nil, fmt.Errorf("resolve destination for %q: %w", title.Label, err)
		}
		plan, err := BuildPlan(device, title, destination, dryRun, resolve)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}
