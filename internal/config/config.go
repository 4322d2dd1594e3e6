package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Classification contains thresholds steering movie/series detection.
type Classification struct {
	MovieMainTitleMinutes    float64 `toml:"movie_main_title_minutes"`
	MovieTotalRuntimeMinutes float64 `toml:"movie_total_runtime_minutes"`
	SeriesMinDurationMinutes float64 `toml:"series_min_duration_minutes"`
	SeriesMaxDurationMinutes float64 `toml:"series_max_duration_minutes"`
	SeriesGapLimit           float64 `toml:"series_gap_limit"`
}

// Naming contains filesystem-safe name generation preferences.
type Naming struct {
	Separator string `toml:"separator"`
	Lowercase bool   `toml:"lowercase"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// History contains configuration for the rip history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config encapsulates all configuration values for discripper.
type Config struct {
	Device          string         `toml:"device"`
	OutputDirectory string         `toml:"output_directory"`
	Compression     bool           `toml:"compression"`
	DryRun          bool           `toml:"dry_run"`
	LogDir          string         `toml:"log_dir"`
	Classification  Classification `toml:"classification"`
	Naming          Naming         `toml:"naming"`
	Logging         Logging        `toml:"logging"`
	History         History        `toml:"history"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/discripper/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded. The boolean reports whether a file was found.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	for _, field := range []*string{&c.Device, &c.OutputDirectory, &c.LogDir, &c.History.Path} {
		trimmed := strings.TrimSpace(*field)
		if trimmed == "" {
			*field = ""
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return err
		}
		*field = expanded
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.OutputDirectory == "" {
		return errors.New("output_directory is required")
	}
	if c.Device == "" {
		return errors.New("device is required")
	}
	cl := c.Classification
	for name, value := range map[string]float64{
		"classification.movie_main_title_minutes":    cl.MovieMainTitleMinutes,
		"classification.movie_total_runtime_minutes": cl.MovieTotalRuntimeMinutes,
		"classification.series_min_duration_minutes": cl.SeriesMinDurationMinutes,
		"classification.series_max_duration_minutes": cl.SeriesMaxDurationMinutes,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if cl.SeriesGapLimit < 0 {
		return errors.New("classification.series_gap_limit must not be negative")
	}
	if cl.SeriesMinDurationMinutes > cl.SeriesMaxDurationMinutes {
		return errors.New("classification.series_min_duration_minutes exceeds series_max_duration_minutes")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// EnsureDirectories creates the output, log, and history directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.OutputDirectory}
	if c.LogDir != "" {
		dirs = append(dirs, c.LogDir)
	}
	if c.History.Enabled && c.History.Path != "" {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the effective history database location.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	expanded, err := expandPath("~/.local/share/discripper/history.db")
	if err != nil {
		return "history.db"
	}
	return expanded
}

// WriteSample writes the annotated sample configuration to path.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
