package naming_test

import (
	"path/filepath"
	"testing"

	"discripper/internal/config"
	"discripper/internal/disc"
	"discripper/internal/naming"
)

func TestSanitizeComponent(t *testing.T) {
	cases := []struct {
		name   string
		value  string
		naming config.Naming
		want   string
	}{
		{"spaces collapse", "Some Great Movie", config.Naming{Separator: "_"}, "Some_Great_Movie"},
		{"diacritics stripped", "Amélie à Paris", config.Naming{Separator: "_"}, "Amelie_a_Paris"},
		{"punctuation collapses", "Movie: The Sequel!!", config.Naming{Separator: "-"}, "Movie-The-Sequel"},
		{"lowercase option", "Some Movie", config.Naming{Separator: "_", Lowercase: true}, "some_movie"},
		{"empty becomes fallback", "???", config.Naming{Separator: "_"}, "untitled"},
		{"bad separator falls back", "a b", config.Naming{Separator: "超"}, "a_b"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := naming.SanitizeComponent(tc.value, tc.naming); got != tc.want {
				t.Fatalf("SanitizeComponent(%q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestMovieOutputPath(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDirectory = "/media/out"
	got := naming.MovieOutputPath(disc.Title{Label: "The Film"}, &cfg)
	if got != filepath.Join("/media/out", "The_Film.mp4") {
		t.Fatalf("unexpected movie path: %q", got)
	}
}

func TestSeriesOutputPath(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDirectory = "/media/out"
	got := naming.SeriesOutputPath("Box Set", disc.Title{Label: "Title 03"}, "s01e03", &cfg)
	want := filepath.Join("/media/out", "Box_Set", "Box_Set-s01e03_Title_03.mp4")
	if got != want {
		t.Fatalf("unexpected series path: %q want %q", got, want)
	}
}
