package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	lib "github.com/awused/wallpaper-rotation/lib"
	"github.com/awused/wallpaper-rotation/rotation"
	"github.com/urfave/cli/v2"
)

func historyCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "history"
	cmd.Usage = "Inspect or reset the wallpapers shown in the current rotation"
	cmd.Subcommands = []*cli.Command{
		{
			Name:   "show",
			Usage:  "Print every wallpaper shown since the rotation started",
			Before: beforeFunc,
			Action: withHistory(func(store rotation.HistoryStore) error {
				return printHistory(os.Stdout, store)
			}),
		},
		{
			Name:   "clear",
			Usage:  "Start a new rotation, every wallpaper becomes eligible",
			Before: beforeFunc,
			Action: withHistory(func(store rotation.HistoryStore) error {
				return store.Clear()
			}),
		},
	}

	return cmd
}

func withHistory(f func(rotation.HistoryStore) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		conf, err := lib.GetConfig()
		if err != nil {
			return err
		}

		store, closeStore, err := openHistory(conf)
		if err != nil {
			return err
		}
		defer closeStore()

		return f(store)
	}
}

func printHistory(w io.Writer, store rotation.HistoryStore) error {
	history, err := store.Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(w, "No wallpapers have been shown yet.")
			return nil
		}
		log.Printf("Warning: %s\n", err)
	}

	for _, h := range history {
		fmt.Fprintln(w, h)
	}
	return nil
}
