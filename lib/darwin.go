//go:build darwin

package changewallpaperlib

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/kbinani/screenshot"
)

type Monitor struct {
	Width     int
	Height    int
	left      int
	top       int
	index     int
	Wallpaper string
}

func (m *Monitor) name() string {
	return fmt.Sprintf("#%d%+d%+d", m.index, m.left, m.top)
}

func GetMonitors() ([]*Monitor, error) {
	n := screenshot.NumActiveDisplays()
	monitors := make([]*Monitor, 0, n)

	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		monitors = append(monitors, &Monitor{
			Width:  b.Dx(),
			Height: b.Dy(),
			left:   b.Min.X,
			top:    b.Min.Y,
			index:  i,
		})
	}

	return monitors, nil
}

func setMonitorWallpaper(m *Monitor, wallpaper string) error {
	if _, err := os.Stat(wallpaper); err != nil {
		return err
	}

	// System Events numbers desktops from 1
	script := fmt.Sprintf(
		`tell application "System Events" to set picture of desktop %d to %s`,
		m.index+1, strconv.Quote(wallpaper))

	out, err := exec.Command("osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("osascript failed: %s: %s", err, out)
	}

	m.Wallpaper = wallpaper
	return nil
}

// Each desktop is set immediately
func commitWallpapers(monitors []*Monitor) error {
	return nil
}

// No lock detection, System Events can still set wallpapers while locked
func CheckIfLocked() (bool, error) {
	return false, nil
}

// No-op
func AttachParentConsole() {}
