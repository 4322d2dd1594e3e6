package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"discripper/internal/config"
	"discripper/internal/logging"
)

type commandContext struct {
	configFlag *string

	dryRun   bool
	verbose  bool
	device   string
	output   string
	simulate string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the config once and applies command-line overrides.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if device := strings.TrimSpace(c.device); device != "" {
			cfg.Device = device
		}
		if output := strings.TrimSpace(c.output); output != "" {
			cfg.OutputDirectory = output
		}
		if c.dryRun {
			cfg.DryRun = true
		}
		// Simulated discs never touch real hardware, so an execution
		// pass makes no sense there either.
		if strings.TrimSpace(c.simulate) != "" {
			cfg.DryRun = true
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// newLogger builds the session logger from config, honoring --verbose.
func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level := cfg.Logging.Level
	if c.verbose {
		level = "debug"
	}

	cleanup := func() {}
	opts := logging.Options{Level: level, Format: cfg.Logging.Format}
	if cfg.LogDir != "" {
		file, err := logging.OpenLogFile(filepath.Join(cfg.LogDir, "discripper.log"))
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		opts.Writer = file
		cleanup = func() { _ = file.Close() }
	}

	logger, err := logging.New(opts)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return logger, cleanup, nil
}
