package main

import (
	"fmt"
	"io"
	"log"
	"os"

	lib "github.com/awused/wallpaper-rotation/lib"
	"github.com/awused/wallpaper-rotation/rotation"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const configFlag = "config"
const folderFlag = "folder"
const historyFlag = "history"
const backendFlag = "backend"

var logFile *os.File

func main() {
	lib.AttachParentConsole()

	// Must happen before flags are parsed so EnvVars can see .env values
	_ = godotenv.Load()

	app := cli.NewApp()
	app.Name = "wallpapers"
	app.Usage = "Rotate random wallpapers across multiple monitors"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  configFlag,
			Usage: "Read this TOML file instead of searching for wallpapers.toml",
		},
		&cli.StringFlag{
			Name:    folderFlag,
			Aliases: []string{"f"},
			EnvVars: []string{"WALLPAPERS_FOLDER"},
			Usage:   "Folder to pick wallpapers from, searched recursively",
		},
		&cli.StringFlag{
			Name:    historyFlag,
			EnvVars: []string{"WALLPAPERS_HISTORY"},
			Usage:   "File recording previously shown wallpapers",
		},
		&cli.StringFlag{
			Name:    backendFlag,
			EnvVars: []string{"WALLPAPERS_HISTORY_BACKEND"},
			Usage:   "History storage, \"log\" or \"bolt\"",
		},
	}
	app.Commands = []*cli.Command{
		randomCommand(),
		pickCommand(),
		previewCommand(),
		monitorsCommand(),
		historyCommand(),
		interactiveCommand(),
	}

	err := app.Run(os.Args)
	checkErr(err)
	closeLog()
}

// Only init when necessary
func beforeFunc(c *cli.Context) error {
	conf, err := lib.Init(lib.Overrides{
		ConfigFile:         c.String(configFlag),
		WallpaperDirectory: c.String(folderFlag),
		HistoryFile:        c.String(historyFlag),
		HistoryBackend:     c.String(backendFlag),
	})
	if err != nil {
		return err
	}

	if conf.LogFile != "" && logFile == nil {
		f, err := os.OpenFile(
			conf.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("Error opening log file: %w", err)
		}

		logFile = f
		log.SetOutput(f)
	}
	return nil
}

func closeLog() {
	if logFile != nil {
		log.SetOutput(os.Stderr)
		logFile.Close()
		logFile = nil
	}
}

func checkErr(err error) {
	if err != nil {
		log.Println(err)
		closeLog()
		os.Exit(1)
	}
}

// Call the returned function when done with the store
func openHistory(conf *lib.Config) (rotation.HistoryStore, func(), error) {
	store, err := lib.OpenHistory(conf)
	if err != nil {
		return nil, nil, err
	}

	return store, func() {
		if c, ok := store.(io.Closer); ok {
			if err := c.Close(); err != nil {
				log.Printf("Warning: error closing history: %s\n", err)
			}
		}
	}, nil
}

// Rotating still works without a readable history, it just forgets the run.
func openRotationHistory(conf *lib.Config) (rotation.HistoryStore, func()) {
	store, closeStore, err := openHistory(conf)
	if err != nil {
		log.Printf("Warning: %s, history will not be kept for this run\n", err)
		return rotation.NewMemoryStore(), func() {}
	}
	return store, closeStore
}

func newRotator(conf *lib.Config, store rotation.HistoryStore) *rotation.Rotator {
	return &rotation.Rotator{
		Desktop:    lib.NewDesktop(),
		Store:      store,
		Extensions: conf.ImageFileExtensions,
	}
}

func printReport(w io.Writer, report rotation.Report) {
	if report.Reset {
		fmt.Fprintln(w, "Every wallpaper has been shown, starting a new rotation")
	}

	for i, a := range report.Assignments {
		if a.Err != nil {
			fmt.Fprintf(w, "Monitor %d (%s): failed to set [%s]: %s\n",
				i, a.Display, a.Path, a.Err)
			continue
		}
		fmt.Fprintf(w, "Monitor %d (%s): %s\n", i, a.Display, a.Path)
	}
}
