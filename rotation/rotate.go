package rotation

import (
	"fmt"
	"log"
	"math/rand"
)

// Display is an opaque handle for one connected monitor.
type Display interface {
	fmt.Stringer
}

// Desktop enumerates displays and sets their wallpapers.
type Desktop interface {
	// Displays returns the connected displays in assignment order.
	Displays() ([]Display, error)
	SetWallpaper(d Display, path ImagePath) error
}

// Committer is implemented by desktops that stage wallpapers in SetWallpaper
// and apply them all at once.
type Committer interface {
	Commit() error
}

type Assignment struct {
	Display Display
	Path    ImagePath
	Err     error
}

type Report struct {
	Assignments []Assignment
	Reset       bool
	// Neither of these fails the run.
	HistoryReadErr  error
	HistoryWriteErr error
}

// Failed returns the assignments that could not be applied.
func (r Report) Failed() []Assignment {
	failed := []Assignment{}
	for _, a := range r.Assignments {
		if a.Err != nil {
			failed = append(failed, a)
		}
	}
	return failed
}

type Rotator struct {
	Desktop    Desktop
	Store      HistoryStore
	Extensions []string
	// Nil means NewRand()
	Rand *rand.Rand
	// Select and report without setting wallpapers or writing history.
	DryRun bool
}

func (r *Rotator) rng() *rand.Rand {
	if r.Rand == nil {
		r.Rand = NewRand()
	}
	return r.Rand
}

// Pick selects count wallpapers from root and records them in history.
// Only scanning and selection errors are returned, history failures are
// logged and reported.
func (r *Rotator) Pick(root string, count int) (Selection, Report, error) {
	sel, report, err := r.selectFrom(root, count)
	if err != nil {
		return sel, report, err
	}

	if !r.DryRun {
		report.HistoryWriteErr = r.commit(sel)
	}
	return sel, report, nil
}

func (r *Rotator) selectFrom(root string, count int) (Selection, Report, error) {
	report := Report{}

	catalog, err := Scan(root, r.Extensions)
	if err != nil {
		return Selection{}, report, err
	}

	history, err := r.Store.Load()
	if err != nil {
		log.Printf("Warning: %s, treating history as empty\n", err)
		report.HistoryReadErr = err
		history = []ImagePath{}
	}

	sel, err := Select(r.rng(), catalog, history, count)
	if err != nil {
		return Selection{}, report, err
	}
	report.Reset = sel.Reset
	return sel, report, nil
}

func (r *Rotator) commit(sel Selection) error {
	err := Commit(r.Store, sel)
	if err != nil {
		log.Printf("Warning: %s\n", err)
	}
	return err
}

// Rotate assigns one wallpaper from root to every display. A display that
// fails does not stop the others, the failure is logged and reported.
func (r *Rotator) Rotate(root string) (Report, error) {
	displays, err := r.Desktop.Displays()
	if err != nil {
		return Report{}, err
	}

	if len(displays) == 0 {
		log.Println("No monitors detected.")
		return Report{}, nil
	}

	// History is written after the wallpapers are set
	sel, report, err := r.selectFrom(root, len(displays))
	if err != nil {
		return report, err
	}

	report.Assignments = make([]Assignment, len(displays))
	for i, d := range displays {
		report.Assignments[i] = Assignment{Display: d, Path: sel.Picks[i]}
		if r.DryRun {
			continue
		}

		if err := r.Desktop.SetWallpaper(d, sel.Picks[i]); err != nil {
			log.Printf("Error setting wallpaper [%s] on %s: %s\n",
				sel.Picks[i], d, err)
			report.Assignments[i].Err = err
		}
	}

	if r.DryRun {
		return report, nil
	}

	if c, ok := r.Desktop.(Committer); ok {
		if err := c.Commit(); err != nil {
			log.Printf("Error applying wallpapers: %s\n", err)
			for i := range report.Assignments {
				if report.Assignments[i].Err == nil {
					report.Assignments[i].Err = err
				}
			}
		}
	}

	report.HistoryWriteErr = r.commit(sel)
	return report, nil
}
