package rip

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"discripper/internal/classify"
	"discripper/internal/disc"
)

func stubResolver(available ...string) func(string) (string, bool) {
	set := make(map[string]string, len(available))
	for _, name := range available {
		set[name] = "/usr/bin/" + name
	}
	return func(name string) (string, bool) {
		path, ok := set[name]
		return path, ok
	}
}

func TestBuildPlanPrefersDvdbackup(t *testing.T) {
	title := disc.Title{Label: "Main Feature", Duration: 95 * time.Minute}
	plan, err := BuildPlan("/dev/sr0", title, "/out/movie.mp4", false, stubResolver("dvdbackup", "ffmpeg"))
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	want := []string{"dvdbackup", "-i", "/dev/sr0", "-o", "/out", "-n", "movie", "-F"}
	if !reflect.DeepEqual(plan.Command, want) {
		t.Fatalf("command = %v, want %v", plan.Command, want)
	}
	if !plan.WillExecute {
		t.Fatal("expected WillExecute for non-dry-run plan")
	}
}

func TestBuildPlanFallsBackToFFmpeg(t *testing.T) {
	title := disc.Title{Label: "Main Feature", Duration: 95 * time.Minute}
	plan, err := BuildPlan("/dev/sr0", title, "/out/movie.mp4", false, stubResolver("ffmpeg"))
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if plan.Command[0] != "ffmpeg" {
		t.Fatalf("command[0] = %q, want ffmpeg", plan.Command[0])
	}
	tail := plan.Command[len(plan.Command)-2:]
	if !reflect.DeepEqual(tail, []string{"/dev/sr0", "/out/movie.mp4"}) {
		t.Fatalf("command tail = %v", tail)
	}
	want := []string{"ffmpeg", "-hide_banner", "-nostats", "-loglevel", "error", "-progress", "pipe:2", "-i", "/dev/sr0", "/out/movie.mp4"}
	if !reflect.DeepEqual(plan.Command, want) {
		t.Fatalf("command = %v, want %v", plan.Command, want)
	}
}

func TestBuildPlanNoTools(t *testing.T) {
	_, err := BuildPlan("/dev/sr0", disc.Title{}, "/out/movie.mp4", false, stubResolver())
	if !errors.Is(err, ErrNoRipTool) {
		t.Fatalf("err = %v, want ErrNoRipTool", err)
	}
}

func TestPlanLabelFallbacks(t *testing.T) {
	cases := []struct {
		name        string
		destination string
		title       disc.Title
		want        string
	}{
		{"destination stem", "/out/feature.mp4", disc.Title{Label: "Disc Label"}, "feature"},
		{"title label", "/out/.mp4", disc.Title{Label: "Disc Label"}, "Disc Label"},
		{"literal fallback", "/out/.mp4", disc.Title{}, "title"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := planLabel(tc.destination, tc.title); got != tc.want {
				t.Fatalf("planLabel = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildPlanDryRun(t *testing.T) {
	plan, err := BuildPlan("/dev/sr0", disc.Title{}, "/out/movie.mp4", true, stubResolver("dvdbackup"))
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if plan.WillExecute {
		t.Fatal("dry-run plan must not execute")
	}
}

func TestPlanDiscSeries(t *testing.T) {
	episodes := []disc.Title{
		{Label: "Title 01", Duration: 42 * time.Minute},
		{Label: "Title 02", Duration: 43 * time.Minute},
	}
	classification := classify.Result{
		Type:         classify.TypeSeries,
		Episodes:     episodes,
		EpisodeCodes: []string{"s01e01", "s01e02"},
	}

	var seen []string
	factory := func(title disc.Title, code string, index int) (string, error) {
		seen = append(seen, fmt.Sprintf("%s/%s/%d", title.Label, code, index))
		return fmt.Sprintf("/out/show-%s.mp4", code), nil
	}

	plans, err := PlanDisc("/dev/sr0", classification, factory, false, stubResolver("dvdbackup"))
	if err != nil {
		t.Fatalf("PlanDisc: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("got %d plans, want 2", len(plans))
	}
	wantSeen := []string{"Title 01/s01e01/1", "Title 02/s01e02/2"}
	if !reflect.DeepEqual(seen, wantSeen) {
		t.Fatalf("factory calls = %v, want %v", seen, wantSeen)
	}
	if plans[1].Destination != "/out/show-s01e02.mp4" {
		t.Fatalf("destination = %q", plans[1].Destination)
	}
}

func TestPlanDiscFailsFast(t *testing.T) {
	classification := classify.Result{
		Type: classify.TypeSeries,
		Episodes: []disc.Title{
			{Label: "Title 01", Duration: 42 * time.Minute},
			{Label: "Title 02", Duration: 43 * time.Minute},
		},
		EpisodeCodes: []string{"s01e01", "s01e02"},
	}

	boom := errors.New("no destination")
	factory := func(title disc.Title, code string, index int) (string, error) {
		if index == 2 {
			return "", boom
		}
		return "/out/show.mp4", nil
	}

	plans, err := PlanDisc("/dev/sr0", classification, factory, false, stubResolver("dvdbackup"))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped factory error", err)
	}
	if plans != nil {
		t.Fatalf("expected no partial plan list, got %v", plans)
	}
}
