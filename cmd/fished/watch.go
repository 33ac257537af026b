package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/fished/internal/calendar"
	"github.com/username/fished/internal/config"
	"github.com/username/fished/internal/countdown"
	"github.com/username/fished/internal/daemon"
	"github.com/username/fished/internal/render"
)

const clearScreen = "\x1b[H\x1b[2J"

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the calendar view current, reloading holiday data when it changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loc := cfg.Location()

			src := buildSource(cfg)
			store, err := loadStore(cmd.Context(), cfg, src, calendar.DateOf(time.Now().In(loc)))
			if err != nil {
				return err
			}

			var watchFile string
			if cfg.Holidays.Source == config.SourceFile {
				watchFile = cfg.Holidays.File
			}

			out := cmd.OutOrStdout()
			opts := render.DetectOptions(cfg.Display.Color, out)
			holder := calendar.NewHolder(store)
			publish := func(report *countdown.Report) {
				if opts.Color {
					fmt.Fprint(out, clearScreen)
				}
				month := holder.Load().GetMonthInfo(report.Today.Year, report.Today.Month)
				if err := render.Grid(out, report, month, opts); err != nil {
					logger.Error("Failed to render", zap.Error(err))
				}
			}

			d := daemon.NewDaemon(holder, reloadLoader(src), daemon.Options{
				Paydays:         cfg.Paydays,
				Location:        loc,
				RefreshInterval: cfg.Watch.GetRefreshInterval(),
				WatchFile:       watchFile,
				SystemTray:      cfg.Watch.SystemTray,
			}, publish, logger)

			logger.Info("Starting watch mode",
				zap.String("source", cfg.Holidays.Source),
				zap.Bool("system_tray", cfg.Watch.SystemTray))

			return d.Start()
		},
	}

	return cmd
}

// reloadLoader reloads the store for watch mode. Only the first load may fall
// back to weekend rules; a failed reload reports its error so the daemon
// keeps serving the current store.
func reloadLoader(src calendar.Source) daemon.Loader {
	return func(ctx context.Context, today calendar.CalendarDate) (*calendar.Store, error) {
		store, err := calendar.Load(ctx, src, storeYears(today), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to reload holiday data: %w", err)
		}
		return store, nil
	}
}
