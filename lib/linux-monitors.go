//go:build !windows && !darwin

package changewallpaperlib

import (
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// How wallpapers get applied, see commitWallpapers
type environment int

const (
	unknown environment = iota
	gnome
	i3
)

type session struct {
	display string
	env     environment
}

type Monitor struct {
	Width     int
	Height    int
	left      int
	top       int
	output    string
	Wallpaper string

	session *session
}

func (m *Monitor) name() string {
	if m.output != "" {
		return m.output
	}
	return fmt.Sprintf("%+d%+d", m.left, m.top)
}

var displayRE = regexp.MustCompile(`^:[0-9]+`)

// ":0.1" and ":0" are the same X server
func trimDisplay(display string) string {
	if trimmed := displayRE.FindString(display); trimmed != "" {
		return trimmed
	}
	return display
}

// Only local X servers have a socket here
func isLocalX(display string) bool {
	_, err := os.Stat("/tmp/.X11-unix/X" + strings.TrimPrefix(display, ":"))
	return err == nil
}

// findDisplay returns "" when the user has no local X session.
func findDisplay() (string, error) {
	if d := trimDisplay(os.Getenv("DISPLAY")); d != "" {
		if !isLocalX(d) {
			return "", fmt.Errorf(
				"$DISPLAY [%s] is not a local X session, Wayland is not supported", d)
		}
		return d, nil
	}

	// Started from cron or a systemd timer
	out, err := runBash(
		`w "$USER" | { grep ' :[0-9]*' || test $? = 1; } | awk '{print $2}'`)
	if err != nil {
		return "", err
	}

	for _, d := range strings.Fields(out) {
		if d = trimDisplay(d); isLocalX(d) {
			return d, nil
		}
	}
	return "", nil
}

func classifyWM(wm string) environment {
	wm = strings.ToLower(wm)
	switch {
	case strings.Contains(wm, "gnome"):
		return gnome
	case wm == "i3":
		return i3
	default:
		return unknown
	}
}

func crtcMonitors(conn *xgb.Conn, s *session) ([]*Monitor, error) {
	if err := randr.Init(conn); err != nil {
		return nil, err
	}

	root := xproto.Setup(conn).DefaultScreen(conn).Root
	resources, err := randr.GetScreenResources(conn, root).Reply()
	if err != nil {
		return nil, err
	}

	monitors := []*Monitor{}
	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, 0).Reply()
		if err != nil {
			return nil, err
		}

		// Disabled
		if info.Mode == 0 || len(info.Outputs) == 0 {
			continue
		}

		m := &Monitor{
			Width:   int(info.Width),
			Height:  int(info.Height),
			left:    int(info.X),
			top:     int(info.Y),
			session: s,
		}

		out, err := randr.GetOutputInfo(conn, info.Outputs[0], 0).Reply()
		if err == nil {
			m.output = string(out.Name)
		}

		monitors = append(monitors, m)
	}

	return monitors, nil
}

// GetMonitors returns the monitors of the user's local X session in RandR
// order, or nothing if there is no session.
func GetMonitors() ([]*Monitor, error) {
	// Stop polluting stdout
	xgb.Logger.SetOutput(io.Discard)
	xgbutil.Logger.SetOutput(io.Discard)

	display, err := findDisplay()
	if err != nil || display == "" {
		return nil, err
	}

	X, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("Error connecting to X display [%s]: %w", display, err)
	}
	defer X.Conn().Close()

	s := &session{display: display}
	wm, err := ewmh.GetEwmhWM(X)
	if err != nil {
		return nil, fmt.Errorf(
			"Error reading window manager name on [%s]: %w", display, err)
	}

	s.env = classifyWM(wm)
	if s.env == unknown {
		// feh handles most of these
		log.Printf("Unrecognized WM/DE [%s], falling back to feh\n", wm)
	}

	return crtcMonitors(X.Conn(), s)
}
