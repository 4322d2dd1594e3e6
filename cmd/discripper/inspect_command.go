package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"discripper/internal/classify"
	"discripper/internal/disc"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var fixture string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the disc's title table and classification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			d, err := inspectDisc(cmd.Context(), cfg, fixture)
			if err != nil {
				return err
			}
			classification := classify.Classify(d, classify.ThresholdsFromConfig(cfg.Classification))

			if jsonOutput {
				return writeInspectJSON(cmd, d, classification)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Disc: %s (%s)\n", disc.DisplayLabel(d.Label), string(classification.Type))

			rows := make([][]string, 0, len(d.Titles))
			selected := make(map[string]string, len(classification.Episodes))
			for i, episode := range classification.Episodes {
				code := ""
				if i < len(classification.EpisodeCodes) {
					code = classification.EpisodeCodes[i]
				}
				selected[episode.Label] = code
			}
			for _, title := range d.Titles {
				marker := ""
				code, picked := selected[title.Label]
				if picked {
					marker = "rip"
					if code != "" {
						marker = code
					}
				}
				rows = append(rows, []string{
					title.Label,
					formatDuration(title.Duration),
					fmt.Sprintf("%d", len(title.Chapters)),
					marker,
				})
			}
			columns := []tableColumn{
				column("Title"),
				numericColumn("Duration"),
				numericColumn("Chapters"),
				column("Plan"),
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(columns, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable output")
	cmd.Flags().StringVar(&fixture, "simulate", "", "Inspect a fixture file instead of a physical disc")

	return cmd
}

func writeInspectJSON(cmd *cobra.Command, d disc.Disc, classification classify.Result) error {
	type titleView struct {
		Label           string    `json:"label"`
		DurationSeconds float64   `json:"duration_seconds"`
		ChapterSeconds  []float64 `json:"chapter_seconds,omitempty"`
	}
	view := struct {
		Label        string      `json:"label"`
		Type         string      `json:"type"`
		EpisodeCodes []string    `json:"episode_codes,omitempty"`
		Titles       []titleView `json:"titles"`
	}{
		Label:        d.Label,
		Type:         string(classification.Type),
		EpisodeCodes: classification.EpisodeCodes,
	}
	for _, title := range d.Titles {
		tv := titleView{Label: title.Label, DurationSeconds: title.Duration.Seconds()}
		for _, chapter := range title.Chapters {
			tv.ChapterSeconds = append(tv.ChapterSeconds, chapter.Seconds())
		}
		view.Titles = append(view.Titles, tv)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(view)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
