package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"discripper/internal/config"
	"discripper/internal/disc"
)

const (
	fallbackName      = "untitled"
	fallbackSeparator = "_"
	outputExtension   = ".mp4"
)

var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

func isSafe(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// normalizeSeparator reduces a configured separator to a single usable ASCII
// character.
func normalizeSeparator(separator string) string {
	folded, _, err := transform.String(asciiFold, separator)
	if err != nil {
		return fallbackSeparator
	}
	for _, r := range folded {
		if r > 127 {
			continue
		}
		if isSafe(r) || r == '-' || r == '_' {
			return string(r)
		}
	}
	return fallbackSeparator
}

// SanitizeComponent returns value normalized for safe filesystem usage.
// Non-alphanumeric runs collapse into the separator; a value that sanitizes
// to nothing becomes "untitled".
func SanitizeComponent(value string, naming config.Naming) string {
	separator := normalizeSeparator(naming.Separator)

	folded, _, err := transform.String(asciiFold, value)
	if err != nil {
		folded = value
	}

	var b strings.Builder
	previousWasSeparator := false
	for _, r := range folded {
		if r > 127 {
			continue
		}
		if isSafe(r) {
			b.WriteRune(r)
			previousWasSeparator = false
			continue
		}
		if !previousWasSeparator {
			b.WriteString(separator)
			previousWasSeparator = true
		}
	}

	sanitized := strings.Trim(b.String(), separator)
	if sanitized == "" {
		sanitized = fallbackName
	}
	if naming.Lowercase {
		sanitized = strings.ToLower(sanitized)
	}
	return sanitized
}

// MovieOutputPath returns the destination for a movie title.
func MovieOutputPath(title disc.Title, cfg *config.Config) string {
	name := SanitizeComponent(title.Label, cfg.Naming)
	return filepath.Join(cfg.OutputDirectory, name+outputExtension)
}

// SeriesOutputPath returns the destination for one episode of a series,
// grouped under a directory named after the disc label.
func SeriesOutputPath(seriesLabel string, title disc.Title, episodeCode string, cfg *config.Config) string {
	series := SanitizeComponent(seriesLabel, cfg.Naming)
	episode := SanitizeComponent(title.Label, cfg.Naming)
	filename := fmt.Sprintf("%s-%s_%s%s", series, episodeCode, episode, outputExtension)
	return filepath.Join(cfg.OutputDirectory, series, filename)
}
