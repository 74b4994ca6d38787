//go:build !windows && !darwin

package changewallpaperlib

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"
)

const dbusAddress = "DBUS_SESSION_BUS_ADDRESS"

func setDBUSAddress() error {
	dbus := os.Getenv(dbusAddress)
	if dbus == "" {
		// For now just assume we're dealing with per-user dbus sessions
		user, err := user.Current()
		if err != nil {
			return nil
		}
		uid := user.Uid
		if uid == "" {
			return errors.New("No $UID set")
		}
		return os.Setenv(dbusAddress, "unix:path=/run/user/"+uid+"/bus")
	}

	return nil
}

// BMP takes a lot of space but PNG takes non-trivial CPU time
const outputFormat = "bmp"

func getNextOutputFile(c *Config) (string, error) {
	dir, err := filepath.Abs(c.OutputDir)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(dir, "*."+outputFormat)
	if err != nil {
		return "", err
	}

	err = f.Close()
	if err != nil {
		return "", err
	}
	return f.Name(), nil
}

func setGnomeWallpaper(monitors []*Monitor, c *Config) error {
	err := os.MkdirAll(c.OutputDir, 0755)
	if err != nil {
		return fmt.Errorf(
			"Error creating OutputDir [%s]: %s", c.OutputDir, err)
	}

	wallpaper, err := getNextOutputFile(c)
	if err != nil {
		return err
	}
	err = combineImages(monitors, wallpaper)
	if err != nil {
		_ = os.Remove(wallpaper)
		return err
	}

	oldWall, err := runBash(`
		gsettings get org.gnome.desktop.background picture-uri
	`)
	if err != nil {
		return err
	}
	_, err = runBash(`
		gsettings set org.gnome.desktop.background picture-options spanned
		gsettings set org.gnome.desktop.background picture-uri "file://` + wallpaper + `"
		gsettings set org.gnome.desktop.background picture-uri-dark "file://` + wallpaper + `" || true
	`)
	if err != nil {
		return err
	}

	oldWall = strings.TrimPrefix(strings.Trim(oldWall, "'\n"), "file://")
	// Only remove files we own
	absOut, _ := filepath.Abs(c.OutputDir)
	if oldWall != wallpaper && filepath.Dir(oldWall) == absOut {
		// This could have already been removed, bury any errors
		_ = os.Remove(oldWall)
	}

	return nil
}

func setFehWallpapers(monitors []*Monitor) error {
	args := []string{"--no-fehbg", "--bg-fill"}

	for _, m := range monitors {
		if m.Wallpaper == "" {
			return fmt.Errorf("No wallpaper for monitor %s, feh needs one for each", m)
		}
		args = append(args, m.Wallpaper)
	}

	return exec.Command("feh", args...).Run()
}

// Staged until commitWallpapers since the wallpapers for every monitor are
// set in one call
func setMonitorWallpaper(m *Monitor, wallpaper string) error {
	fi, err := os.Stat(wallpaper)
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("Wallpaper [%s] is not a regular file", wallpaper)
	}

	m.Wallpaper = wallpaper
	return nil
}

func commitWallpapers(monitors []*Monitor) error {
	staged := false
	for _, m := range monitors {
		staged = staged || m.Wallpaper != ""
	}
	if !staged {
		return nil
	}

	c, err := GetConfig()
	if err != nil {
		return err
	}

	// Every monitor comes from the same session
	s := monitors[0].session

	os.Setenv("DISPLAY", s.display)

	err = setDBUSAddress()
	if err != nil {
		return err
	}

	if s.env == gnome {
		return setGnomeWallpaper(monitors, c)
	}
	return setFehWallpapers(monitors)
}

// CheckIfLocked reports whether the current logind session is locked.
// Sessions logind doesn't know about are treated as unlocked.
func CheckIfLocked() (bool, error) {
	id := os.Getenv("XDG_SESSION_ID")
	if id == "" {
		return false, nil
	}

	out, err := exec.Command(
		"loginctl", "show-session", id, "-p", "LockedHint").Output()
	if err != nil {
		return false, nil
	}

	return strings.TrimSpace(string(out)) == "LockedHint=yes", nil
}

// No-op
func AttachParentConsole() {}

func runBash(cmd string) (string, error) {
	// See http://redsymbol.net/articles/unofficial-bash-strict-mode/
	command := `
		set -euo pipefail
		IFS=$'\n\t'
		` + cmd + "\n"

	bash := exec.Command("/usr/bin/env", "bash")
	bash.Stdin = strings.NewReader(command)
	bash.Stderr = os.Stderr

	bashOut, err := bash.Output()
	return string(bashOut), err
}
