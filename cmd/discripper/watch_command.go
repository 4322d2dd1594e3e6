package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"discripper/internal/logging"
	"discripper/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Wait for disc insertions and rip automatically",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, cleanup, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			monitor := watch.NewMonitor(cfg.Device, logger, func(handlerCtx context.Context, device string) error {
				logger.Info("starting rip for inserted disc", logging.String(logging.FieldDevice, device))
				return runRip(cmd, ctx)
			})
			if monitor == nil {
				return fmt.Errorf("no device configured to watch")
			}
			if err := monitor.Start(runCtx); err != nil {
				return err
			}
			defer monitor.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for disc insertions. Press Ctrl-C to stop.\n", cfg.Device)
			<-runCtx.Done()
			return nil
		},
	}
}
