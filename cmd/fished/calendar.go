package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/username/fished/internal/config"
	"github.com/username/fished/internal/lunar"
	"github.com/username/fished/internal/render"
)

func calendarCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show year progress, this month's calendar and countdown cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			today, err := resolveToday(dateOverride, cfg.Location(), time.Now())
			if err != nil {
				return err
			}

			report, store, err := buildReport(cmd.Context(), cfg, today)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "grid":
				opts := render.DetectOptions(cfg.Display.Color, out)
				return render.Grid(out, report, store.GetMonthInfo(today.Year, today.Month), opts)
			case "yaml":
				return render.YAML(out, report, lunar.AlmanacFor(today.Year, today.Month, today.Day))
			default:
				return fmt.Errorf("unknown format %q, want grid or yaml", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "grid", "Output format: grid or yaml")

	return cmd
}
