package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "discripper",
		Short:         "Rip the inserted disc to local video files",
		Long:          "discripper inspects the optical disc in the configured drive, classifies it as a movie or a series, and rips each selected title to the output directory.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRip(cmd, ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().BoolVar(&ctx.dryRun, "dry-run", false, "Plan everything but execute nothing")
	rootCmd.Flags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Log at debug level")
	rootCmd.Flags().StringVar(&ctx.device, "device", "", "Optical device node (overrides config)")
	rootCmd.Flags().StringVar(&ctx.output, "output", "", "Output directory (overrides config)")
	rootCmd.Flags().StringVar(&ctx.simulate, "simulate", "", "Inspect a fixture file instead of a physical disc")

	rootCmd.AddCommand(newInspectCommand(ctx))
	rootCmd.AddCommand(newDepsCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
