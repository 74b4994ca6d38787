package changewallpaperlib

import (
	"fmt"

	"github.com/awused/wallpaper-rotation/rotation"
)

// Desktop sets wallpapers on the monitors of the current session.
type Desktop struct {
	monitors []*Monitor
}

var _ rotation.Desktop = (*Desktop)(nil)
var _ rotation.Committer = (*Desktop)(nil)

func NewDesktop() *Desktop {
	return &Desktop{}
}

func (d *Desktop) Displays() ([]rotation.Display, error) {
	monitors, err := GetMonitors()
	if err != nil {
		return nil, err
	}
	d.monitors = monitors

	displays := make([]rotation.Display, len(monitors))
	for i, m := range monitors {
		displays[i] = m
	}
	return displays, nil
}

func (d *Desktop) SetWallpaper(disp rotation.Display, path string) error {
	m, ok := disp.(*Monitor)
	if !ok {
		return fmt.Errorf("Unexpected display type %T", disp)
	}

	return setMonitorWallpaper(m, path)
}

// Commit applies staged wallpapers on platforms that can't set one monitor
// at a time.
func (d *Desktop) Commit() error {
	return commitWallpapers(d.monitors)
}

func (m *Monitor) String() string {
	return fmt.Sprintf("%s %dx%d", m.name(), m.Width, m.Height)
}
