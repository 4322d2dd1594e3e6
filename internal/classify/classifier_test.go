package classify_test

import (
	"testing"
	"time"

	"discripper/internal/classify"
	"discripper/internal/config"
	"discripper/internal/disc"
)

func title(label string, d time.Duration) disc.Title {
	return disc.Title{Label: label, Duration: d}
}

func TestClassifyDetectsSeries(t *testing.T) {
	d := disc.Disc{
		Label: "BOX_SET",
		Titles: []disc.Title{
			title("Title 01", 43*time.Minute),
			title("Title 02", 45*time.Minute),
			title("Title 03", 44*time.Minute),
			title("Title 04", 2*time.Minute), // menu stub, filtered out
		},
	}

	result := classify.Classify(d, classify.DefaultThresholds)
	if result.Type != classify.TypeSeries {
		t.Fatalf("expected series, got %s", result.Type)
	}
	if len(result.Episodes) != 3 || len(result.EpisodeCodes) != 3 {
		t.Fatalf("unexpected episode count: %d codes=%d", len(result.Episodes), len(result.EpisodeCodes))
	}
	if result.EpisodeCodes[0] != "s01e01" || result.EpisodeCodes[2] != "s01e03" {
		t.Fatalf("unexpected codes: %v", result.EpisodeCodes)
	}
	// Episodes are ordered by duration, stable on original index.
	if result.Episodes[0].Label != "Title 01" || result.Episodes[2].Label != "Title 02" {
		t.Fatalf("unexpected episode order: %+v", result.Episodes)
	}
}

func TestClassifyRejectsUnevenEpisodes(t *testing.T) {
	d := disc.Disc{
		Titles: []disc.Title{
			title("Title 01", 21*time.Minute),
			title("Title 02", 59*time.Minute),
		},
	}
	result := classify.Classify(d, classify.DefaultThresholds)
	if result.Type != classify.TypeMovie {
		t.Fatalf("expected movie for uneven durations, got %s", result.Type)
	}
	if len(result.Episodes) != 1 || result.Episodes[0].Label != "Title 02" {
		t.Fatalf("expected longest title selected, got %+v", result.Episodes)
	}
}

func TestClassifyMoviePicksLongestTitle(t *testing.T) {
	d := disc.Disc{
		Titles: []disc.Title{
			title("Title 01", 95*time.Minute),
			title("Title 02", 4*time.Minute),
			title("Title 03", 7*time.Minute),
		},
	}
	result := classify.Classify(d, classify.DefaultThresholds)
	if result.Type != classify.TypeMovie {
		t.Fatalf("expected movie, got %s", result.Type)
	}
	if result.Episodes[0].Label != "Title 01" {
		t.Fatalf("expected main feature, got %+v", result.Episodes[0])
	}
	if len(result.EpisodeCodes) != 0 {
		t.Fatalf("movies carry no episode codes: %v", result.EpisodeCodes)
	}
}

func TestClassifyEmptyDisc(t *testing.T) {
	result := classify.Classify(disc.Disc{}, classify.DefaultThresholds)
	if result.Type != classify.TypeMovie || len(result.Episodes) != 0 {
		t.Fatalf("unexpected result for empty disc: %+v", result)
	}
}

func TestThresholdsFromConfig(t *testing.T) {
	cfg := config.Classification{
		MovieMainTitleMinutes:    90,
		MovieTotalRuntimeMinutes: 240,
		SeriesMinDurationMinutes: 15,
		SeriesMaxDurationMinutes: 75,
		SeriesGapLimit:           0.5,
	}
	got := classify.ThresholdsFromConfig(cfg)
	if got.MovieMainTitle != 90*time.Minute || got.SeriesMaxDuration != 75*time.Minute {
		t.Fatalf("unexpected thresholds: %+v", got)
	}
	if got.SeriesGapLimit != 0.5 {
		t.Fatalf("unexpected gap limit: %v", got.SeriesGapLimit)
	}

	// Non-positive minutes fall back to defaults.
	got = classify.ThresholdsFromConfig(config.Classification{})
	if got.MovieMainTitle != classify.DefaultThresholds.MovieMainTitle {
		t.Fatalf("expected defaults for zero config, got %+v", got)
	}
}
