package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"discripper/internal/classify"
	"discripper/internal/config"
	"discripper/internal/deps"
	"discripper/internal/disc"
	"discripper/internal/history"
	"discripper/internal/logging"
	"discripper/internal/metadata"
	"discripper/internal/naming"
	"discripper/internal/rip"
)

const inspectTimeout = 60 * time.Second

// runRip drives the full pipeline: inspect, classify, plan, execute, record.
func runRip(cmd *cobra.Command, cliCtx *commandContext) error {
	cfg, err := cliCtx.ensureConfig()
	if err != nil {
		return err
	}

	logger, cleanup, err := cliCtx.newLogger(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	sessionID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldSessionID, sessionID))

	// One rip at a time. The lock protects against concurrent CLI runs,
	// not against other writers racing the destination check.
	lock := flock.New(lockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire rip lock: %w", err)
	}
	if !locked {
		return errors.New("another discripper run is in progress")
	}
	defer func() { _ = lock.Unlock() }()

	ctx := cmd.Context()
	d, err := inspectDisc(ctx, cfg, cliCtx.simulate)
	if err != nil {
		return err
	}
	logger.Info("disc inspected",
		logging.String(logging.FieldDevice, cfg.Device),
		logging.String("label", d.Label),
		logging.Int("titles", len(d.Titles)),
	)

	classification := classify.Classify(d, classify.ThresholdsFromConfig(cfg.Classification))
	if len(classification.Episodes) == 0 {
		return discNotDetectedf("disc %s has no rippable titles", cfg.Device)
	}
	logger.Info("disc classified",
		logging.String("type", string(classification.Type)),
		logging.Int("episodes", len(classification.Episodes)),
	)

	plans, err := rip.PlanDisc(cfg.Device, classification, destinationFactory(d, classification, cfg), cfg.DryRun, deps.LookPath)
	if err != nil {
		return err
	}

	sink := rip.MultiSink(rip.NewLogSink(logger), newEchoSink(cmd.ErrOrStderr(), cliCtx.verbose))
	executor := rip.NewExecutor(sink, logger)

	store := openHistory(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	var firstErr error
	for _, plan := range plans {
		result, execErr := executor.Execute(ctx, plan)
		recordOutcome(ctx, store, logger, sessionID, d.Label, plan, result, execErr)
		if execErr != nil && firstErr == nil {
			// Remaining plans still run; one bad title should not
			// abandon the rest of the disc.
			firstErr = execErr
		}
		if execErr == nil && cfg.Compression {
			if planErr := rip.EmitCompressionPlan(sink, plan.Destination, result == nil, deps.LookPath); planErr != nil {
				logger.Warn("compression plan unavailable", logging.Error(planErr))
			}
		}
	}

	if !cfg.DryRun {
		if err := writeMetadata(ctx, cfg, d, classification, plans, sessionID); err != nil {
			logger.Warn("metadata export failed", logging.Error(err))
		}
	}

	return firstErr
}

// inspectDisc reads the title table, preferring lsdvd with an ffprobe
// fallback. Fixture paths bypass hardware entirely.
func inspectDisc(ctx context.Context, cfg *config.Config, fixture string) (disc.Disc, error) {
	if fixture != "" {
		d, err := disc.InspectFixture(fixture)
		if err != nil {
			return disc.Disc{}, discNotDetectedf("read fixture: %v", err)
		}
		return d, nil
	}

	if tool, ok := deps.LookPath("lsdvd"); ok {
		d, err := disc.Inspect(ctx, tool, cfg.Device, inspectTimeout)
		if err == nil {
			return d, nil
		}
		// lsdvd fails on Blu-ray media; surface a targeted message when
		// a Blu-ray inspector is present on the host.
		for _, candidate := range disc.BluRayInspectorCandidates {
			if _, found := deps.LookPath(candidate); found {
				return disc.Disc{}, &discNotDetectedError{err: &disc.BluRayNotSupportedError{Device: cfg.Device, Tool: candidate}}
			}
		}
		if tool, ok := deps.LookPath("ffprobe"); ok {
			if d, probeErr := disc.InspectFFprobe(ctx, tool, cfg.Device, inspectTimeout); probeErr == nil {
				return d, nil
			}
		}
		return disc.Disc{}, discNotDetectedf("inspect %s: %v", cfg.Device, err)
	}

	if tool, ok := deps.LookPath("ffprobe"); ok {
		d, err := disc.InspectFFprobe(ctx, tool, cfg.Device, inspectTimeout)
		if err != nil {
			return disc.Disc{}, discNotDetectedf("inspect %s: %v", cfg.Device, err)
		}
		return d, nil
	}

	return disc.Disc{}, discNotDetectedf("no inspection tool available: install lsdvd or ffprobe")
}

// destinationFactory maps titles to output paths using the naming rules.
func destinationFactory(d disc.Disc, classification classify.Result, cfg *config.Config) rip.DestinationFactory {
	seriesLabel := disc.DisplayLabel(d.Label)
	return func(title disc.Title, episodeCode string, index int) (string, error) {
		if classification.Type == classify.TypeSeries && episodeCode != "" {
			return naming.SeriesOutputPath(seriesLabel, title, episodeCode, cfg), nil
		}
		// Disc labels like DVD_VIDEO add nothing; keep the title label then.
		label := title.Label
		if d.Label != "" && !disc.IsTechnicalLabel(d.Label) {
			label = disc.DisplayLabel(d.Label)
		}
		return naming.MovieOutputPath(disc.Title{Label: label, Duration: title.Duration, Chapters: title.Chapters}, cfg), nil
	}
}

func openHistory(cfg *config.Config, logger *slog.Logger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		logger.Warn("history store unavailable", logging.Error(err))
		return nil
	}
	return store
}

func recordOutcome(ctx context.Context, store *history.Store, logger *slog.Logger, sessionID, discLabel string, plan rip.Plan, result *rip.Result, execErr error) {
	if store == nil {
		return
	}
	entry := history.Entry{
		SessionID:   sessionID,
		Device:      plan.Device,
		DiscLabel:   discLabel,
		Destination: plan.Destination,
		Backend:     plan.Backend(),
	}
	switch {
	case execErr != nil:
		entry.Status = history.StatusFailed
		if errors.Is(execErr, rip.ErrDestinationExists) {
			entry.Status = history.StatusGuarded
		}
		var ripErr *rip.ExecutionError
		if errors.As(execErr, &ripErr) {
			entry.ExitCode = ripErr.ExitCode
		}
	case result == nil:
		entry.Status = history.StatusSkipped
	default:
		entry.Status = history.StatusSuccess
		if info, err := os.Stat(plan.Destination); err == nil {
			entry.Bytes = info.Size()
		}
	}
	if _, err := store.Record(ctx, entry); err != nil {
		logger.Warn("history record failed", logging.Error(err))
	}
}

func writeMetadata(ctx context.Context, cfg *config.Config, d disc.Disc, classification classify.Result, plans []rip.Plan, sessionID string) error {
	doc := metadata.Build(cfg.Device, d, classification, plans, sessionID, time.Now())
	metadata.EnrichTracks(ctx, &doc, deps.LookPath, nil)
	doc.Tools = metadata.ToolVersions(ctx, deps.LookPath, nil)
	return metadata.Write(metadataPath(cfg, plans), doc)
}

// metadataPath places metadata.json beside the session's outputs: in the
// series directory when all plans share one, otherwise in the output root.
func metadataPath(cfg *config.Config, plans []rip.Plan) string {
	dir := cfg.OutputDirectory
	if len(plans) > 0 {
		shared := filepath.Dir(plans[0].Destination)
		for _, plan := range plans[1:] {
			if filepath.Dir(plan.Destination) != shared {
				shared = cfg.OutputDirectory
				break
			}
		}
		dir = shared
	}
	return filepath.Join(dir, "metadata.json")
}

func lockPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "discripper.lock")
}
