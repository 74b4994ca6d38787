package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	lib "github.com/awused/wallpaper-rotation/lib"
	"github.com/awused/wallpaper-rotation/rotation"
	"github.com/urfave/cli/v2"
)

func previewCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "preview"
	cmd.Usage = "Preview a single wallpaper on every monitor"
	cmd.Description = "The wallpaper is not recorded in history"
	cmd.ArgsUsage = "FILE"
	cmd.Before = beforeFunc

	cmd.Action = previewAction

	return cmd
}

func previewAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("Missing input file")
	}

	w, err := filepath.Abs(c.Args().First())
	if err != nil {
		return err
	}

	fi, err := os.Stat(w)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("Input file [%s] is a directory", w)
	}

	report, err := preview(lib.NewDesktop(), w)
	if err != nil {
		return err
	}
	printReport(os.Stdout, report)

	// Windows will fail to read the wallpapers if we exit too fast
	if runtime.GOOS == "windows" {
		<-time.After(5 * time.Second)
	}
	return nil
}

// preview sets w on every display without touching history.
func preview(desktop rotation.Desktop, w rotation.ImagePath) (rotation.Report, error) {
	displays, err := desktop.Displays()
	if err != nil {
		return rotation.Report{}, err
	}

	if len(displays) == 0 {
		log.Println("No monitors detected.")
		return rotation.Report{}, nil
	}

	report := rotation.Report{Assignments: make([]rotation.Assignment, len(displays))}
	for i, d := range displays {
		report.Assignments[i] = rotation.Assignment{
			Display: d,
			Path:    w,
			Err:     desktop.SetWallpaper(d, w),
		}
	}

	if c, ok := desktop.(rotation.Committer); ok {
		if err := c.Commit(); err != nil {
			return report, err
		}
	}
	return report, nil
}
