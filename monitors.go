package main

import (
	"fmt"
	"io"
	"os"

	lib "github.com/awused/wallpaper-rotation/lib"
	"github.com/awused/wallpaper-rotation/rotation"
	"github.com/urfave/cli/v2"
)

func monitorsCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "monitors"
	cmd.Usage = "List monitors in the order wallpapers are assigned"
	cmd.Before = beforeFunc

	cmd.Action = func(c *cli.Context) error {
		return printMonitors(os.Stdout, lib.NewDesktop())
	}

	return cmd
}

func printMonitors(w io.Writer, desktop rotation.Desktop) error {
	displays, err := desktop.Displays()
	if err != nil {
		return err
	}

	if len(displays) == 0 {
		fmt.Fprintln(w, "No monitors detected.")
		return nil
	}

	for i, d := range displays {
		fmt.Fprintf(w, "Monitor %d: %s\n", i, d)
	}
	return nil
}
