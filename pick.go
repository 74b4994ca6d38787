package main

import (
	"fmt"

	lib "github.com/awused/wallpaper-rotation/lib"
	"github.com/urfave/cli/v2"
)

const count = "count"

func pickCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "pick"
	cmd.Usage = "Pick wallpapers without setting them and print their paths"
	cmd.Description = "Picks are recorded in history exactly as if they had " +
		"been set, unless --dry-run is given"
	cmd.Before = beforeFunc
	cmd.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    count,
			Aliases: []string{"c"},
			Value:   1,
			Usage:   "Number of wallpapers to pick",
		},
		&cli.BoolFlag{
			Name:    dryRun,
			Aliases: []string{"n"},
			Usage:   "Do not record the picks in history",
		},
	}

	cmd.Action = pickAction

	return cmd
}

func pickAction(c *cli.Context) error {
	conf, err := lib.GetConfig()
	if err != nil {
		return err
	}

	folder, err := conf.WallpaperDir()
	if err != nil {
		return err
	}

	store, closeStore := openRotationHistory(conf)
	defer closeStore()

	r := newRotator(conf, store)
	r.DryRun = c.Bool(dryRun)

	sel, _, err := r.Pick(folder, c.Int(count))
	if err != nil {
		return err
	}

	for _, p := range sel.Picks {
		fmt.Println(p)
	}
	return nil
}
