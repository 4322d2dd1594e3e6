package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"discripper/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}
			if err := config.WriteSample(target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Target path for the sample config")

	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rows := [][]string{
				{"device", cfg.Device},
				{"output_directory", cfg.OutputDirectory},
				{"compression", fmt.Sprintf("%t", cfg.Compression)},
				{"dry_run", fmt.Sprintf("%t", cfg.DryRun)},
				{"log_dir", cfg.LogDir},
				{"logging.level", cfg.Logging.Level},
				{"logging.format", cfg.Logging.Format},
				{"naming.separator", cfg.Naming.Separator},
				{"naming.lowercase", fmt.Sprintf("%t", cfg.Naming.Lowercase)},
				{"history.enabled", fmt.Sprintf("%t", cfg.History.Enabled)},
				{"history.path", cfg.HistoryPath()},
				{"classification.series_gap_limit", fmt.Sprintf("%g", cfg.Classification.SeriesGapLimit)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(textColumns("Key", "Value"), rows))
			return nil
		},
	}
}
