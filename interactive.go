package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	lib "github.com/awused/wallpaper-rotation/lib"
	"github.com/awused/wallpaper-rotation/rotation"
	prompt "github.com/c-bata/go-prompt"
	"github.com/urfave/cli/v2"
)

func interactiveCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "interactive"
	cmd.Usage = "Step through the rotation from a prompt"
	cmd.Before = beforeFunc

	cmd.Action = interactiveAction

	return cmd
}

type shell struct {
	rotator *rotation.Rotator
	folder  string
	out     io.Writer
}

func interactiveAction(c *cli.Context) error {
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

	sh := &shell{
		rotator: newRotator(conf, store),
		folder:  folder,
		out:     os.Stdout,
	}

	// Large buffered channel so it doesn't block signals if it's busy
	sigs := make(chan os.Signal, 100)
	promptChan := make(chan struct{}, 1)
	inputChan := make(chan string)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(sigs)

	go func() {
		sh.promptUntilDone(inputChan)
		promptChan <- struct{}{}
	}()

	for {
		select {
		case <-promptChan:
			return nil
		case <-sigs:
			// Consume sigint so the history store is closed cleanly
			inputChan <- "exit"
		}
	}
}

func completer(d prompt.Document) []prompt.Suggest {
	s := []prompt.Suggest{
		{Text: "exit", Description: "Exit the program"},
		{Text: "next", Description: "Set a new wallpaper on every monitor"},
		{Text: "pick", Description: "Pick N wallpapers and print them, " +
			"recording them in history"},
		{Text: "history", Description: "Print the wallpapers shown in the " +
			"current rotation"},
		{Text: "clear", Description: "Start a new rotation"},
		{Text: "monitors", Description: "List the detected monitors"},
	}
	return prompt.FilterHasPrefix(s, d.TextBeforeCursor(), true)
}

func (sh *shell) promptUntilDone(inputChan chan string) {
	exit := prompt.OptionAddKeyBind(prompt.KeyBind{
		Key: prompt.ControlC,
		Fn: func(b *prompt.Buffer) {
			inputChan <- "exit"
		},
	})

	for {
		go func() {
			// prompt.Input is blocking, synchronous, and provides no way to abort it
			inputChan <- prompt.Input("> ", completer, exit)
		}()

		if !sh.execute(<-inputChan) {
			return
		}
	}
}

// execute runs a single command and returns false once the shell should exit.
func (sh *shell) execute(in string) bool {
	in = strings.ToLower(strings.TrimSpace(in))

	switch {
	case in == "":
	case in == "exit" || in == "quit":
		return false
	case in == "next" || in == "random":
		sh.next()
	case in == "pick":
		sh.pick(1)
	case strings.HasPrefix(in, "pick "):
		input := strings.TrimSpace(strings.TrimPrefix(in, "pick "))
		n, err := strconv.Atoi(input)
		if err != nil || n < 0 {
			fmt.Fprintf(sh.out, "Invalid input \"%s\"\n", input)
			break
		}
		sh.pick(n)
	case in == "history":
		sh.report(printHistory(sh.out, sh.rotator.Store))
	case in == "clear":
		if !sh.report(sh.rotator.Store.Clear()) {
			fmt.Fprintln(sh.out, "History cleared")
		}
	case in == "monitors":
		sh.report(printMonitors(sh.out, sh.rotator.Desktop))
	default:
		fmt.Fprintln(sh.out, "Unknown command")
	}
	return true
}

func (sh *shell) next() {
	rep, err := sh.rotator.Rotate(sh.folder)
	if sh.report(err) {
		return
	}
	printReport(sh.out, rep)
}

func (sh *shell) pick(n int) {
	sel, _, err := sh.rotator.Pick(sh.folder, n)
	if sh.report(err) {
		return
	}

	if sel.Reset {
		fmt.Fprintln(sh.out, "Every wallpaper has been shown, starting a new rotation")
	}
	for _, p := range sel.Picks {
		fmt.Fprintln(sh.out, p)
	}
}

// Errors never end the shell
func (sh *shell) report(err error) bool {
	if err != nil {
		fmt.Fprintln(sh.out, "Error:", err)
		return true
	}
	return false
}
