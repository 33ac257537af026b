package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/fished/internal/calendar"
	"github.com/username/fished/internal/config"
	"github.com/username/fished/internal/countdown"
	"github.com/username/fished/internal/lunar"
	"github.com/username/fished/internal/render"
	"github.com/username/fished/pkg/dateutil"
)

var (
	configPath          string
	dateOverride        string
	weekendOnlyFallback bool
	logger              = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fished",
		Short: "Countdown to payday, holidays and the end of the month",
		Long:  "Counts the days to paydays, Chinese public holidays and the month's last workday, honoring holidays and compensation workdays",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log settings
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.GetLevel())
				if err != nil {
					initLogger(cfg.Log.GetLevel()) // Fallback to console
				}
			} else if err == nil {
				initLogger(cfg.Log.GetLevel())
			} else {
				initLogger(zapcore.WarnLevel) // Default console logger
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			today, err := resolveToday(dateOverride, cfg.Location(), time.Now())
			if err != nil {
				return err
			}

			report, _, err := buildReport(cmd.Context(), cfg, today)
			if err != nil {
				return err
			}

			almanac := lunar.AlmanacFor(today.Year, today.Month, today.Day)
			return render.Text(cmd.OutOrStdout(), report, almanac)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: config.yaml in ., $HOME/.fished, /etc/fished)")
	rootCmd.PersistentFlags().StringVar(&dateOverride, "date", "", "Compute as if today were this date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().BoolVar(&weekendOnlyFallback, "weekend-only-fallback", false, "Use weekend rules only when holiday data is unavailable")

	rootCmd.AddCommand(calendarCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(updateHolidaysCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveToday returns the --date override, or the civil date of now in loc
func resolveToday(override string, loc *time.Location, now time.Time) (calendar.CalendarDate, error) {
	if override == "" {
		return calendar.DateOf(dateutil.StartOfDay(now.In(loc))), nil
	}
	t, err := dateutil.ParseDate(override)
	if err != nil {
		return calendar.CalendarDate{}, fmt.Errorf("invalid --date: %w", err)
	}
	return calendar.DateOf(t), nil
}

// buildSource returns the holiday data source the config selects
func buildSource(cfg *config.Config) calendar.Source {
	switch cfg.Holidays.Source {
	case config.SourceFile:
		logger.Debug("Using holiday data file", zap.String("file", cfg.Holidays.File))
		return calendar.NewFileSource(cfg.Holidays.File, logger)

	case config.SourceHTTP:
		logger.Debug("Using holiday data from HTTP", zap.String("url", cfg.Holidays.URL))
		primary := calendar.NewHTTPSource(cfg.Holidays.URL, cfg.Holidays.GetCacheTTL(), logger)

		var fallback calendar.Source = calendar.EmbeddedSource{}
		if cfg.Holidays.File != "" {
			fallback = calendar.NewFileSource(cfg.Holidays.File, logger)
		}
		return calendar.NewCompositeSource(primary, fallback, logger)
	}

	return calendar.EmbeddedSource{}
}

// storeYears are the years a run needs: this one and the next
func storeYears(today calendar.CalendarDate) []int {
	return []int{today.Year, today.Year + 1}
}

// loadStore loads the holiday store. Unavailable data is fatal unless the
// weekend-only fallback is enabled, in which case a nil store is returned.
func loadStore(ctx context.Context, cfg *config.Config, src calendar.Source, today calendar.CalendarDate) (*calendar.Store, error) {
	store, err := calendar.Load(ctx, src, storeYears(today), logger)
	if err == nil {
		return store, nil
	}

	if errors.Is(err, calendar.ErrDataUnavailable) && (cfg.Holidays.WeekendOnlyFallback || weekendOnlyFallback) {
		logger.Warn("Holiday data unavailable, using weekend rules only", zap.Error(err))
		return nil, nil
	}
	return nil, fmt.Errorf("failed to load holiday data: %w", err)
}

func buildReport(ctx context.Context, cfg *config.Config, today calendar.CalendarDate) (*countdown.Report, *calendar.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := loadStore(ctx, cfg, buildSource(cfg), today)
	if err != nil {
		return nil, nil, err
	}

	report, err := countdown.NewEngine(store, logger).Report(today, cfg.Paydays)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute countdowns: %w", err)
	}
	return report, store, nil
}

func initLogger(level zapcore.Level) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level zapcore.Level) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	// Setup encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Create core with lumberjack writer
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		level,
	)

	return zap.New(core), nil
}
