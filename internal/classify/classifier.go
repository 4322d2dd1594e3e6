package classify

import (
	"fmt"
	"math"
	"sort"
	"time"

	"discripper/internal/config"
	"discripper/internal/disc"
)

// DiscType distinguishes the two supported content layouts.
type DiscType string

const (
	TypeMovie  DiscType = "movie"
	TypeSeries DiscType = "series"
)

// Result describes the titles selected for ripping and their ordering.
type Result struct {
	Type         DiscType
	Episodes     []disc.Title
	EpisodeCodes []string
}

// Thresholds steer the classification heuristics.
type Thresholds struct {
	MovieMainTitle    time.Duration
	MovieTotalRuntime time.Duration
	SeriesMinDuration time.Duration
	SeriesMaxDuration time.Duration
	SeriesGapLimit    float64
}

// DefaultThresholds mirrors the sample configuration.
var DefaultThresholds = Thresholds{
	MovieMainTitle:    60 * time.Minute,
	MovieTotalRuntime: 3 * time.Hour,
	SeriesMinDuration: 20 * time.Minute,
	SeriesMaxDuration: 60 * time.Minute,
	SeriesGapLimit:    0.2,
}

// ThresholdsFromConfig converts configured minute values into durations,
// falling back to defaults for non-positive entries.
func ThresholdsFromConfig(cfg config.Classification) Thresholds {
	t := DefaultThresholds
	if cfg.MovieMainTitleMinutes > 0 {
		t.MovieMainTitle = minutes(cfg.MovieMainTitleMinutes)
	}
	if cfg.MovieTotalRuntimeMinutes > 0 {
		t.MovieTotalRuntime = minutes(cfg.MovieTotalRuntimeMinutes)
	}
	if cfg.SeriesMinDurationMinutes > 0 {
		t.SeriesMinDuration = minutes(cfg.SeriesMinDurationMinutes)
	}
	if cfg.SeriesMaxDurationMinutes > 0 {
		t.SeriesMaxDuration = minutes(cfg.SeriesMaxDurationMinutes)
	}
	if cfg.SeriesGapLimit >= 0 {
		t.SeriesGapLimit = cfg.SeriesGapLimit
	}
	return t
}

func minutes(v float64) time.Duration {
	return time.Duration(v * float64(time.Minute))
}

// Classify buckets a disc into movie or series content and returns the titles
// to rip in order.
func Classify(d disc.Disc, thresholds Thresholds) Result {
	if len(d.Titles) == 0 {
		return Result{Type: TypeMovie}
	}

	if episodes := seriesCandidates(d.Titles, thresholds); len(episodes) > 0 {
		codes := make([]string, len(episodes))
		for i := range episodes {
			codes[i] = fmt.Sprintf("s01e%02d", i+1)
		}
		return Result{Type: TypeSeries, Episodes: episodes, EpisodeCodes: codes}
	}

	longest := d.Titles[0]
	for _, title := range d.Titles[1:] {
		if title.Duration > longest.Duration {
			longest = title
		}
	}
	return Result{Type: TypeMovie, Episodes: []disc.Title{longest}}
}

// seriesCandidates returns episode-length titles when at least two exist and
// their durations cluster within the configured gap ratio of the average.
func seriesCandidates(titles []disc.Title, thresholds Thresholds) []disc.Title {
	type indexed struct {
		index int
		title disc.Title
	}

	var filtered []indexed
	for i, title := range titles {
		if title.Duration >= thresholds.SeriesMinDuration && title.Duration <= thresholds.SeriesMaxDuration {
			filtered = append(filtered, indexed{index: i, title: title})
		}
	}
	if len(filtered) < 2 {
		return nil
	}

	var total float64
	for _, item := range filtered {
		total += item.title.Duration.Seconds()
	}
	average := total / float64(len(filtered))
	if average == 0 {
		return nil
	}
	for _, item := range filtered {
		gap := math.Abs(item.title.Duration.Seconds()-average) / average
		if gap > thresholds.SeriesGapLimit {
			return nil
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].title.Duration != filtered[j].title.Duration {
			return filtered[i].title.Duration < filtered[j].title.Duration
		}
		return filtered[i].index < filtered[j].index
	})

	episodes := make([]disc.Title, len(filtered))
	for i, item := range filtered {
		episodes[i] = item.title
	}
	return episodes
}
