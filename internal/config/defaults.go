package config

const (
	defaultDevice          = "/dev/sr0"
	defaultOutputDirectory = "~/Videos"
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
	defaultNamingSeparator = "_"

	defaultMovieMainTitleMinutes    = 60
	defaultMovieTotalRuntimeMinutes = 180
	defaultSeriesMinDurationMinutes = 20
	defaultSeriesMaxDurationMinutes = 60
	defaultSeriesGapLimit           = 0.2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Device:          defaultDevice,
		OutputDirectory: defaultOutputDirectory,
		Classification: Classification{
			MovieMainTitleMinutes:    defaultMovieMainTitleMinutes,
			MovieTotalRuntimeMinutes: defaultMovieTotalRuntimeMinutes,
			SeriesMinDurationMinutes: defaultSeriesMinDurationMinutes,
			SeriesMaxDurationMinutes: defaultSeriesMaxDurationMinutes,
			SeriesGapLimit:           defaultSeriesGapLimit,
		},
		Naming: Naming{
			Separator: defaultNamingSeparator,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
