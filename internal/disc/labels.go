package disc

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var allDigitsPattern = regexp.MustCompile(`^\d+$`)

// IsTechnicalLabel reports whether a volume label looks like authoring noise
// rather than a human title, e.g. "DVD_VIDEO" or "12345".
func IsTechnicalLabel(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return true
	}
	upper := strings.ToUpper(label)
	for _, pattern := range []string{
		"LOGICAL_VOLUME_ID", "VOLUME_ID", "DVD_VIDEO", "UNTITLED", "UNKNOWN DISC",
	} {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return allDigitsPattern.MatchString(label)
}

// DisplayLabel turns a volume label into a human-presentable title, mapping
// separator runs to spaces and applying title casing.
func DisplayLabel(label string) string {
	if IsTechnicalLabel(label) {
		return "Unknown Disc"
	}

	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range label {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Unknown Disc"
	}
	return cases.Title(language.Und).String(title)
}
