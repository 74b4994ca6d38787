package main

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/awused/wallpaper-rotation/rotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDisplay string

func (d testDisplay) String() string { return string(d) }

type testDesktop struct {
	displays []rotation.Display
	set      map[rotation.Display]rotation.ImagePath
	err      error
}

func (d *testDesktop) Displays() ([]rotation.Display, error) {
	return d.displays, d.err
}

func (d *testDesktop) SetWallpaper(
	disp rotation.Display, p rotation.ImagePath) error {
	d.set[disp] = p
	return nil
}

// readOnlyStore refuses every write.
type readOnlyStore struct {
	*rotation.MemoryStore
}

func (readOnlyStore) Append([]rotation.ImagePath) error {
	return fmt.Errorf("%w: read only", rotation.ErrLogWrite)
}

func (readOnlyStore) Clear() error {
	return fmt.Errorf("%w: read only", rotation.ErrLogWrite)
}

func newShell(t *testing.T, store rotation.HistoryStore, names ...string) (*shell, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0644))
	}

	out := &bytes.Buffer{}
	desktop := &testDesktop{
		displays: []rotation.Display{testDisplay("left"), testDisplay("right")},
		set:      map[rotation.Display]rotation.ImagePath{},
	}
	return &shell{
		rotator: &rotation.Rotator{
			Desktop: desktop,
			Store:   store,
			Rand:    rand.New(rand.NewSource(7)),
		},
		folder: dir,
		out:    out,
	}, out
}

func lines(b *bytes.Buffer) []string {
	s := strings.TrimSpace(b.String())
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestShellPick(t *testing.T) {
	store := rotation.NewMemoryStore()
	sh, out := newShell(t, store, "a.png", "b.jpg", "c.bmp")

	assert.True(t, sh.execute("pick 2"))

	printed := lines(out)
	require.Len(t, printed, 2)
	assert.NotEqual(t, printed[0], printed[1])

	history, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, printed, history)
}

func TestShellPickDefaultsToOne(t *testing.T) {
	sh, out := newShell(t, rotation.NewMemoryStore(), "a.png", "b.png")

	sh.execute("PICK")
	assert.Len(t, lines(out), 1)
}

func TestShellInvalidInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pick two", "Invalid input \"two\""},
		{"pick -1", "Invalid input \"-1\""},
		{"shuffle", "Unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			sh, out := newShell(t, rotation.NewMemoryStore(), "a.png")

			assert.True(t, sh.execute(tt.in))
			assert.Equal(t, []string{tt.want}, lines(out))
		})
	}
}

func TestShellPickErrorsDoNotExit(t *testing.T) {
	sh, out := newShell(t, rotation.NewMemoryStore(), "a.png")

	assert.True(t, sh.execute("pick 5"))
	assert.Contains(t, out.String(), "Error:")
	assert.Contains(t, out.String(), rotation.ErrInsufficientPool.Error())
}

func TestShellNext(t *testing.T) {
	store := rotation.NewMemoryStore()
	sh, out := newShell(t, store, "a.png", "b.png", "c.png")

	sh.execute("next")

	printed := lines(out)
	require.Len(t, printed, 2)
	assert.True(t, strings.HasPrefix(printed[0], "Monitor 0 (left): "))
	assert.True(t, strings.HasPrefix(printed[1], "Monitor 1 (right): "))

	history, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, history, 2)

	set := sh.rotator.Desktop.(*testDesktop).set
	assert.Equal(t, history[0], set[testDisplay("left")])
	assert.Equal(t, history[1], set[testDisplay("right")])
}

func TestShellHistoryAndClear(t *testing.T) {
	store := rotation.NewMemoryStore("/walls/a.png", "/walls/b.png")
	sh, out := newShell(t, store, "a.png")

	sh.execute("history")
	assert.Equal(t, []string{"/walls/a.png", "/walls/b.png"}, lines(out))

	out.Reset()
	sh.execute("clear")
	assert.Equal(t, []string{"History cleared"}, lines(out))

	history, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestShellClearFailure(t *testing.T) {
	sh, out := newShell(t, readOnlyStore{rotation.NewMemoryStore()}, "a.png")

	assert.True(t, sh.execute("clear"))
	assert.NotContains(t, out.String(), "History cleared")
	assert.Contains(t, out.String(), rotation.ErrLogWrite.Error())
}

func TestShellMonitors(t *testing.T) {
	sh, out := newShell(t, rotation.NewMemoryStore())

	sh.execute("monitors")
	assert.Equal(t, []string{"Monitor 0: left", "Monitor 1: right"}, lines(out))

	out.Reset()
	desktop := sh.rotator.Desktop.(*testDesktop)
	desktop.displays = nil
	sh.execute("monitors")
	assert.Equal(t, []string{"No monitors detected."}, lines(out))

	out.Reset()
	desktop.err = errors.New("no display server")
	sh.execute("monitors")
	assert.Equal(t, []string{"Error: no display server"}, lines(out))
}

func TestShellExit(t *testing.T) {
	sh, _ := newShell(t, rotation.NewMemoryStore())

	assert.False(t, sh.execute("exit"))
	assert.False(t, sh.execute(" Quit "))
	assert.True(t, sh.execute(""))
}

func TestPrintHistoryMissingLog(t *testing.T) {
	store := rotation.NewLogStore(filepath.Join(t.TempDir(), "history.log"))
	out := &bytes.Buffer{}

	require.NoError(t, printHistory(out, store))
	assert.Equal(t, []string{"No wallpapers have been shown yet."}, lines(out))
}

func TestPrintReport(t *testing.T) {
	out := &bytes.Buffer{}
	printReport(out, rotation.Report{
		Reset: true,
		Assignments: []rotation.Assignment{
			{Display: testDisplay("left"), Path: "/walls/a.png"},
			{
				Display: testDisplay("right"),
				Path:    "/walls/b.png",
				Err:     fmt.Errorf("permission denied"),
			},
		},
	})

	assert.Equal(t, []string{
		"Every wallpaper has been shown, starting a new rotation",
		"Monitor 0 (left): /walls/a.png",
		"Monitor 1 (right): failed to set [/walls/b.png]: permission denied",
	}, lines(out))
}

func TestPreviewSetsEveryDisplay(t *testing.T) {
	desktop := &testDesktop{
		displays: []rotation.Display{testDisplay("left"), testDisplay("right")},
		set:      map[rotation.Display]rotation.ImagePath{},
	}

	report, err := preview(desktop, "/walls/a.png")
	require.NoError(t, err)
	require.Len(t, report.Assignments, 2)
	assert.Empty(t, report.Failed())
	assert.Equal(t, map[rotation.Display]rotation.ImagePath{
		testDisplay("left"):  "/walls/a.png",
		testDisplay("right"): "/walls/a.png",
	}, desktop.set)
}
