package changewallpaperlib

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/awused/awconf"
	"github.com/awused/wallpaper-rotation/rotation"
)

type Config struct {
	WallpaperDirectory  string
	HistoryFile         string
	HistoryBackend      string
	ImageFileExtensions []string
	// Where combined images are written on desktops that need a single image
	OutputDir string
	LogFile   string
}

// Overrides come from the command line or environment and take precedence
// over the config file.
type Overrides struct {
	ConfigFile         string
	WallpaperDirectory string
	HistoryFile        string
	HistoryBackend     string
}

const (
	LogBackend  = "log"
	BoltBackend = "bolt"
)

var conf *Config

func GetConfig() (*Config, error) {
	if conf != nil {
		return conf, nil
	}

	return nil, fmt.Errorf("Init never called")
}

// Init reads o.ConfigFile if set, otherwise wallpapers.toml from the usual
// config directories, then applies the overrides.
func Init(o Overrides) (*Config, error) {
	c := &Config{}

	var err error
	if o.ConfigFile != "" {
		_, err = toml.DecodeFile(o.ConfigFile, c)
	} else {
		err = awconf.LoadConfig("wallpapers", c)
	}

	if err != nil {
		if o.ConfigFile != "" ||
			(o.WallpaperDirectory == "" && o.HistoryFile == "") {
			return nil, err
		}
		// Enough was given on the command line to continue without a file
		log.Printf("Warning: no config file loaded: %s\n", err)
		c = &Config{}
	}

	c.applyOverrides(o)

	err = c.validate()
	if err != nil {
		return nil, err
	}

	conf = c
	return c, nil
}

func (c *Config) applyOverrides(o Overrides) {
	if o.WallpaperDirectory != "" {
		c.WallpaperDirectory = o.WallpaperDirectory
	}
	if o.HistoryFile != "" {
		c.HistoryFile = o.HistoryFile
	}
	if o.HistoryBackend != "" {
		c.HistoryBackend = o.HistoryBackend
	}
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".wallpapers")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") &&
		!strings.HasPrefix(path, `~\`) {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func (c *Config) validate() error {
	c.WallpaperDirectory = expandHome(c.WallpaperDirectory)
	c.HistoryFile = expandHome(c.HistoryFile)
	c.OutputDir = expandHome(c.OutputDir)
	c.LogFile = expandHome(c.LogFile)

	c.HistoryBackend = strings.ToLower(c.HistoryBackend)
	switch c.HistoryBackend {
	case "":
		c.HistoryBackend = LogBackend
	case LogBackend, BoltBackend:
	default:
		return fmt.Errorf("Unknown HistoryBackend [%s]", c.HistoryBackend)
	}

	if c.HistoryFile == "" {
		name := "history.log"
		if c.HistoryBackend == BoltBackend {
			name = "history.db"
		}
		c.HistoryFile = filepath.Join(defaultDir(), name)
	}

	fi, err := os.Stat(c.HistoryFile)
	if err == nil && fi.IsDir() {
		return fmt.Errorf("HistoryFile [%s] is a directory", c.HistoryFile)
	}

	if c.OutputDir == "" {
		c.OutputDir = defaultDir()
	}

	fi, err = os.Stat(c.OutputDir)
	if err == nil && !fi.IsDir() {
		return fmt.Errorf("OutputDir [%s] is a regular file", c.OutputDir)
	} else if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf(
				"Error calling os.Stat on OutputDir [%s]: %s", c.OutputDir, err)
		}
	}

	if len(c.ImageFileExtensions) == 0 {
		c.ImageFileExtensions = rotation.DefaultExtensions
	}

	return nil
}

// WallpaperDir returns the folder wallpapers are picked from. It is only
// required by commands that pick wallpapers.
func (c *Config) WallpaperDir() (string, error) {
	if c.WallpaperDirectory == "" {
		return "", fmt.Errorf("Config missing WallpaperDirectory")
	}
	return c.WallpaperDirectory, nil
}

// OpenHistory opens the configured history backend. Stores that hold
// resources implement io.Closer.
func OpenHistory(c *Config) (rotation.HistoryStore, error) {
	if c.HistoryBackend == BoltBackend {
		s, err := rotation.OpenBoltStore(c.HistoryFile)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return rotation.NewLogStore(c.HistoryFile), nil
}
