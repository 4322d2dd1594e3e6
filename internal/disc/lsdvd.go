package disc

import (
	"context"
	"encoding/xml"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"
)

// Inspect reads the DVD title table from device using lsdvd.
func Inspect(ctx context.Context, tool, device string, timeout time.Duration) (Disc, error) {
	device = strings.TrimSpace(device)
	if device == "" {
		return Disc{}, fmt.Errorf("no device specified")
	}

	inspectCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		inspectCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	output, err := exec.CommandContext(inspectCtx, tool, "-Ox", "-c", device).Output()
	if err != nil {
		return Disc{}, fmt.Errorf("run lsdvd: %w", err)
	}
	return ParseLsdvdOutput(output)
}

type lsdvdDocument struct {
	Title  string       `xml:"title"`
	Tracks []lsdvdTrack `xml:"track"`
}

type lsdvdTrack struct {
	Index    int            `xml:"ix"`
	Length   float64        `xml:"length"`
	Chapters []lsdvdChapter `xml:"chapter"`
}

type lsdvdChapter struct {
	Index  int     `xml:"ix"`
	Length float64 `xml:"length"`
}

// ParseLsdvdOutput decodes lsdvd -Ox output into a Disc.
func ParseLsdvdOutput(output []byte) (Disc, error) {
	var doc lsdvdDocument
	if err := xml.Unmarshal(output, &doc); err != nil {
		return Disc{}, fmt.Errorf("unexpected lsdvd output: %w", err)
	}

	label := strings.TrimSpace(doc.Title)
	if label == "" {
		label = "Unknown Disc"
	}

	tracks := append([]lsdvdTrack(nil), doc.Tracks...)
	sort.SliceStable(tracks, func(i, j int) bool { return tracks[i].Index < tracks[j].Index })

	titles := make([]Title, 0, len(tracks))
	for _, track := range tracks {
		title := Title{
			Label:    trackLabel(track.Index),
			Duration: secondsToDuration(track.Length),
		}
		for _, chapter := range track.Chapters {
			title.Chapters = append(title.Chapters, secondsToDuration(chapter.Length))
		}
		titles = append(titles, title)
	}

	return Disc{Label: label, Titles: titles}, nil
}

func trackLabel(index int) string {
	if index > 0 {
		return fmt.Sprintf("Title %02d", index)
	}
	return "Title"
}

func secondsToDuration(seconds float64) time.Duration {
	if seconds < 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
