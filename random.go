package main

import (
	"os"

	lib "github.com/awused/wallpaper-rotation/lib"
	"github.com/urfave/cli/v2"
)

const unlocked = "unlocked"
const dryRun = "dry-run"

func randomCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "random"
	cmd.Aliases = []string{"rotate"}
	cmd.Usage = "Randomly select a wallpaper for each monitor"
	cmd.Description = "Wallpapers are not repeated until every image in the " +
		"folder has been shown once"
	cmd.Before = beforeFunc
	cmd.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    unlocked,
			Aliases: []string{"u"},
			Usage:   "Checks to see if the screen is locked and aborts if it is",
		},
		&cli.BoolFlag{
			Name:    dryRun,
			Aliases: []string{"n"},
			Usage:   "Print the selection without setting wallpapers or updating history",
		},
	}

	cmd.Action = randomAction

	return cmd
}

func randomAction(c *cli.Context) error {
	conf, err := lib.GetConfig()
	if err != nil {
		return err
	}

	if c.Bool(unlocked) {
		locked, err := lib.CheckIfLocked()
		if err != nil {
			return err
		}
		if locked {
			// Silently exit, this isn't an error
			return nil
		}
	}

	folder, err := conf.WallpaperDir()
	if err != nil {
		return err
	}

	store, closeStore := openRotationHistory(conf)
	defer closeStore()

	r := newRotator(conf, store)
	r.DryRun = c.Bool(dryRun)

	report, err := r.Rotate(folder)
	if err != nil {
		return err
	}

	printReport(os.Stdout, report)
	return nil
}
