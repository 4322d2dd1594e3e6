package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"discripper/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var session string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded rip sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled; set history.enabled = true in the config")
			}

			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			var entries []history.Entry
			if session != "" {
				entries, err = store.BySession(cmd.Context(), session)
			} else {
				entries, err = store.List(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No rips recorded.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				bytes := ""
				if entry.Bytes > 0 {
					bytes = strconv.FormatInt(entry.Bytes, 10)
				}
				rows = append(rows, []string{
					entry.CreatedAt.Local().Format(time.DateTime),
					shortSession(entry.SessionID),
					entry.DiscLabel,
					entry.Destination,
					entry.Backend,
					entry.Status,
					bytes,
				})
			}
			columns := append(
				textColumns("When", "Session", "Disc", "Destination", "Backend", "Status"),
				numericColumn("Bytes"),
			)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(columns, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	cmd.Flags().StringVar(&session, "session", "", "Show one session's entries in rip order")

	return cmd
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
