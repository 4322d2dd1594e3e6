package disc

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// InspectFixture loads disc information from a JSON fixture, used by simulated
// runs so the pipeline can execute without hardware.
func InspectFixture(path string) (Disc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Disc{}, fmt.Errorf("read fixture: %w", err)
	}

	var payload struct {
		Label  string `json:"label"`
		Titles []struct {
			Label    string            `json:"label"`
			Duration json.RawMessage   `json:"duration"`
			Chapters []json.RawMessage `json:"chapters"`
		} `json:"titles"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return Disc{}, fmt.Errorf("fixture %s does not contain valid JSON: %w", path, err)
	}

	label := strings.TrimSpace(payload.Label)
	if label == "" {
		label = "Unknown Disc"
	}

	titles := make([]Title, 0, len(payload.Titles))
	for index, entry := range payload.Titles {
		titleLabel := strings.TrimSpace(entry.Label)
		if titleLabel == "" {
			titleLabel = fmt.Sprintf("Title %02d", index+1)
		}
		title := Title{Label: titleLabel, Duration: parseFixtureDuration(entry.Duration)}
		for _, chapter := range entry.Chapters {
			title.Chapters = append(title.Chapters, parseFixtureDuration(chapter))
		}
		titles = append(titles, title)
	}

	return Disc{Label: label, Titles: titles}, nil
}

// parseFixtureDuration accepts either a number of seconds or a clock string
// such as "1:30:05.5".
func parseFixtureDuration(raw json.RawMessage) time.Duration {
	if len(raw) == 0 {
		return 0
	}

	var seconds float64
	if err := json.Unmarshal(raw, &seconds); err == nil {
		return secondsToDuration(seconds)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return 0
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0
	}
	total := 0.0
	for _, part := range parts {
		value, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0
		}
		total = total*60 + value
	}
	return secondsToDuration(total)
}
