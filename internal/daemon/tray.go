//go:build windows

package daemon

import (
	_ "embed"
	"strings"
	"syscall"
	"unsafe"

	"fyne.io/systray"
	"go.uber.org/zap"
)

//go:embed icon.ico
var trayIcon []byte

var (
	user32      = syscall.NewLazyDLL("user32.dll")
	messageBoxW = user32.NewProc("MessageBoxW")
)

const (
	MB_OK              = 0x00000000
	MB_ICONINFORMATION = 0x00000040
	MB_ICONWARNING     = 0x00000030
)

// summaryRows is how many lines of the summary get their own menu entry
const summaryRows = 3

// TrayApp shows the countdown summary in the Windows notification area
type TrayApp struct {
	daemon *Daemon
	logger *zap.Logger
	quit   chan struct{}
	rows   []*systray.MenuItem
	ready  chan struct{}
}

// NewTrayApp creates a new system tray application
func NewTrayApp(daemon *Daemon, logger *zap.Logger) (*TrayApp, error) {
	return &TrayApp{
		daemon: daemon,
		logger: logger,
		quit:   make(chan struct{}),
		ready:  make(chan struct{}),
	}, nil
}

// Run starts the system tray application (blocks until Quit)
func (t *TrayApp) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *TrayApp) onReady() {
	systray.SetIcon(trayIcon)
	systray.SetTitle("fished")
	systray.SetTooltip("fished")

	// Read-only countdown rows, filled by SetStatus
	for i := 0; i < summaryRows; i++ {
		row := systray.AddMenuItem("…", "")
		row.Disable()
		t.rows = append(t.rows, row)
	}
	systray.AddSeparator()
	mReload := systray.AddMenuItem("Reload Holidays", "Reload holiday data now")
	mStatus := systray.AddMenuItem("Status", "Show countdowns")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit the application")
	close(t.ready)

	go func() {
		if err := t.daemon.Run(); err != nil {
			t.logger.Error("Watch mode failed", zap.Error(err))
			systray.Quit()
		}
	}()

	go func() {
		for {
			select {
			case <-mReload.ClickedCh:
				t.logger.Info("Reload clicked from tray")
				go t.daemon.Reload()
			case <-mStatus.ClickedCh:
				t.showStatus()
			case <-mQuit.ClickedCh:
				t.logger.Info("Quit clicked from tray")
				t.daemon.Stop()
				systray.Quit()
				return
			case <-t.quit:
				systray.Quit()
				return
			}
		}
	}()
}

func (t *TrayApp) onExit() {
	t.logger.Info("System tray exited")
}

// Stop stops the system tray application
func (t *TrayApp) Stop() {
	select {
	case <-t.quit:
	default:
		close(t.quit)
	}
}

// SetStatus shows the countdown summary as the tooltip and the menu rows
func (t *TrayApp) SetStatus(summary string) {
	<-t.ready
	systray.SetTooltip(summary)

	lines := strings.Split(summary, "\n")
	for i, row := range t.rows {
		if i < len(lines) {
			row.SetTitle(lines[i])
			row.Show()
		} else {
			row.Hide()
		}
	}
}

// ShowNotification reports a failure through a message box; fyne.io/systray has no balloon API
func (t *TrayApp) ShowNotification(title, message string) {
	t.logger.Info("Notification", zap.String("title", title), zap.String("message", message))
	go showMessageBox(title, message, MB_ICONWARNING)
}

func (t *TrayApp) showStatus() {
	message := "No countdowns computed yet"
	if report := t.daemon.LastReport(); report != nil {
		message = Summary(report)
	}
	showMessageBox("fished", message, MB_ICONINFORMATION)
}

func showMessageBox(title, message string, icon uintptr) {
	titlePtr, _ := syscall.UTF16PtrFromString(title)
	messagePtr, _ := syscall.UTF16PtrFromString(message)
	messageBoxW.Call(
		0,
		uintptr(unsafe.Pointer(messagePtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		MB_OK|icon,
	)
}
