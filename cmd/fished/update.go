package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/fished/internal/calendar"
	"github.com/username/fished/internal/config"
)

const defaultHolidayFile = "holidays.json"

func updateHolidaysCmd() *cobra.Command {
	var output string
	var url string

	cmd := &cobra.Command{
		Use:   "update-holidays",
		Short: "Download the latest holiday data and save it as the holiday file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if output == "" {
				output = cfg.Holidays.File
			}
			if output == "" {
				output = defaultHolidayFile
			}
			if url == "" {
				url = cfg.Holidays.URL
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			years, err := updateHolidays(ctx, calendar.NewHTTPSource(url, cfg.Holidays.GetCacheTTL(), logger), output)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated: %s (%d years)\n", output, len(years))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default: holidays.file, or holidays.json)")
	cmd.Flags().StringVar(&url, "url", "", "Download URL (default: holidays.url)")

	return cmd
}

// updateHolidays downloads the dataset, checks that it builds a valid store
// and replaces output with the downloaded document.
func updateHolidays(ctx context.Context, src *calendar.HTTPSource, output string) ([]int, error) {
	raw, err := src.FetchRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to download holiday data: %w", err)
	}

	// Validate before touching the current file
	ds, err := calendar.DecodeDataset(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	store, err := calendar.LoadAll(ctx, src, logger)
	if err != nil {
		return nil, fmt.Errorf("downloaded holiday data rejected: %w", err)
	}
	logger.Info("Holiday data validated",
		zap.String("name", ds.Name),
		zap.Ints("years", store.Years()))

	if err := writeFileAtomic(output, raw); err != nil {
		return nil, err
	}
	return store.Years(), nil
}

// writeFileAtomic writes data next to path and renames it into place, so
// readers and file watchers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
