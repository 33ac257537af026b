package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/username/fished/internal/calendar"
	"github.com/username/fished/internal/countdown"
)

const (
	dayCheckInterval = 1 * time.Minute
	reloadDebounce   = 200 * time.Millisecond
)

// Loader builds a fresh holiday store covering today
type Loader func(ctx context.Context, today calendar.CalendarDate) (*calendar.Store, error)

// Options configures a Daemon
type Options struct {
	Paydays         []int
	Location        *time.Location
	RefreshInterval time.Duration // how often the store is reloaded
	WatchFile       string        // holiday data file to watch; empty disables watching
	SystemTray      bool          // Show system tray icon (Windows only)
}

// Daemon keeps countdowns current in a long-running process. It recomputes
// when the day changes and reloads the holiday store on file change or on a
// schedule, swapping the whole store at once.
type Daemon struct {
	holder  *calendar.Holder
	load    Loader
	opts    Options
	publish func(*countdown.Report)
	logger  *zap.Logger
	clock   func() time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	trayApp *TrayApp

	mu         sync.Mutex
	lastDay    calendar.CalendarDate
	lastReport *countdown.Report
}

// NewDaemon creates a new daemon serving the store in holder. publish receives
// every recomputed report and may be nil.
func NewDaemon(holder *calendar.Holder, load Loader, opts Options, publish func(*countdown.Report), logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if publish == nil {
		publish = func(*countdown.Report) {}
	}

	return &Daemon{
		holder:  holder,
		load:    load,
		opts:    opts,
		publish: publish,
		logger:  logger,
		clock:   time.Now,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start starts the daemon, in the system tray when enabled (blocks until stopped)
func (d *Daemon) Start() error {
	// Initialize system tray if enabled (Windows only)
	if d.opts.SystemTray {
		d.logger.Info("Initializing system tray")
		trayApp, err := NewTrayApp(d, d.logger)
		if err != nil {
			d.logger.Warn("Failed to initialize system tray", zap.Error(err))
			// Fall back to non-tray mode
			return d.Run()
		}
		d.trayApp = trayApp
		// Run tray (blocks until Quit)
		d.trayApp.Run()
		return nil
	}

	d.logger.Info("Running without system tray")
	return d.Run()
}

// Run recomputes and reloads until Stop is called or a signal arrives
func (d *Daemon) Run() error {
	d.logger.Info("Watch mode started",
		zap.Duration("refresh_interval", d.opts.RefreshInterval),
		zap.String("watch_file", d.opts.WatchFile),
		zap.String("timezone", d.opts.Location.String()))

	var events <-chan fsnotify.Event
	var watchErrors <-chan error
	if d.opts.WatchFile != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		defer watcher.Close()

		// Watch the directory so editors that replace the file are still seen
		if err := watcher.Add(filepath.Dir(d.opts.WatchFile)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", d.opts.WatchFile, err)
		}
		events, watchErrors = watcher.Events, watcher.Errors
	}

	d.recompute()

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	dayTicker := time.NewTicker(dayCheckInterval)
	defer dayTicker.Stop()

	var refresh <-chan time.Time
	if d.opts.RefreshInterval > 0 {
		refreshTicker := time.NewTicker(d.opts.RefreshInterval)
		defer refreshTicker.Stop()
		refresh = refreshTicker.C
	}

	var debounce <-chan time.Time

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Info("Watch mode stopped")
			if d.trayApp != nil {
				d.trayApp.Stop()
			}
			return nil

		case sig := <-sigChan:
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			if d.trayApp != nil {
				d.trayApp.Stop()
			}
			d.Stop()
			return nil

		case now := <-dayTicker.C:
			if d.dayChanged(now) {
				d.logger.Info("Day changed, recomputing")
				d.recompute()
			}

		case <-refresh:
			d.Reload()

		case event := <-events:
			if d.isWatchedFile(event) {
				d.logger.Debug("Holiday file changed",
					zap.String("file", event.Name),
					zap.String("op", event.Op.String()))
				debounce = time.After(reloadDebounce)
			}

		case <-debounce:
			debounce = nil
			d.Reload()

		case err := <-watchErrors:
			d.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// Reload builds a new store and swaps it in. On failure the current store stays,
// and a loader answering with no store never replaces a loaded one.
func (d *Daemon) Reload() {
	store, err := d.load(d.ctx, d.today(d.clock()))
	if err == nil && store == nil && d.holder.Load() != nil {
		err = fmt.Errorf("%w: loader returned no store", calendar.ErrDataUnavailable)
	}
	if err != nil {
		d.logger.Error("Holiday reload failed, keeping current data", zap.Error(err))
		if d.trayApp != nil {
			d.trayApp.ShowNotification("Reload Failed", fmt.Sprintf("Error: %v", err))
		}
		return
	}

	d.holder.Swap(store)
	d.logger.Info("Holiday data reloaded", zap.Ints("years", store.Years()))
	d.recompute()
}

// LastReport returns the most recent report, nil before the first run
func (d *Daemon) LastReport() *countdown.Report {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastReport
}

func (d *Daemon) today(now time.Time) calendar.CalendarDate {
	return calendar.DateOf(now.In(d.opts.Location))
}

func (d *Daemon) dayChanged(now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.today(now) != d.lastDay
}

// recompute runs the engine against one snapshot of the store
func (d *Daemon) recompute() {
	today := d.today(d.clock())
	engine := countdown.NewEngine(d.holder.Load(), d.logger)

	report, err := engine.Report(today, d.opts.Paydays)
	if err != nil {
		d.logger.Error("Failed to compute countdowns",
			zap.Stringer("today", today),
			zap.Error(err))
		return
	}

	d.mu.Lock()
	d.lastDay = today
	d.lastReport = report
	d.mu.Unlock()

	if d.trayApp != nil {
		d.trayApp.SetStatus(Summary(report))
	}
	d.publish(report)
}

func (d *Daemon) isWatchedFile(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(d.opts.WatchFile) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// Summary condenses a report into a few lines for the tray tooltip
func Summary(r *countdown.Report) string {
	var lines []string
	if len(r.Wages) > 0 {
		next := r.Wages[0]
		if next.Status == countdown.StatusToday {
			lines = append(lines, fmt.Sprintf("%s发工资，今天发", next.Label))
		} else {
			lines = append(lines, fmt.Sprintf("%s发工资 还有%d天", next.Label, next.DaysUntil))
		}
	}
	if len(r.Holidays) > 0 {
		next := r.Holidays[0]
		if next.Status == countdown.StatusOngoing {
			lines = append(lines, fmt.Sprintf("%s假期中 还剩%d天", next.Label, next.DaysUntil))
		} else {
			lines = append(lines, fmt.Sprintf("%s 还有%d天", next.Label, next.DaysUntil))
		}
	} else {
		lines = append(lines, "假期: 无")
	}
	lines = append(lines, fmt.Sprintf("今年已过 %d%%", r.Year.Percent))
	return strings.Join(lines, "\n")
}
