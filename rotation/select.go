package rotation

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Selection is the outcome of one draw.
type Selection struct {
	// Picks are assigned to displays in order.
	Picks []ImagePath
	// Reset is set when the history is stale or every image has been shown.
	// The history must be cleared before Picks are appended to it.
	Reset bool
}

// NewRand returns a generator seeded from the system entropy source.
func NewRand() *rand.Rand {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}

// Select draws count distinct images from catalog, preferring images that
// are not in history. When fewer than count unseen images remain the rotation
// restarts: the draw uses the whole catalog and the selection asks for the
// history to be reset. Neither catalog nor history is modified.
func Select(
	rng *rand.Rand, catalog, history []ImagePath, count int) (Selection, error) {
	if count < 0 {
		return Selection{}, fmt.Errorf("Invalid number of wallpapers %d", count)
	}
	if count == 0 {
		return Selection{}, nil
	}
	if count > len(catalog) {
		return Selection{}, fmt.Errorf(
			"%w: %d wallpapers for %d displays",
			ErrInsufficientPool, len(catalog), count)
	}

	sel := Selection{}

	// Files were removed since the history was written
	if len(history) > len(catalog) {
		history = nil
		sel.Reset = true
	}

	seen := make(map[ImagePath]struct{}, len(history))
	for _, h := range history {
		seen[h] = struct{}{}
	}

	available := make([]ImagePath, 0, len(catalog))
	for _, p := range catalog {
		if _, ok := seen[p]; !ok {
			available = append(available, p)
		}
	}

	pool := available
	if len(available) < count {
		sel.Reset = true
		pool = catalog
	}

	sel.Picks = draw(rng, pool, count)
	return sel, nil
}

// Partial Fisher-Yates over a copy of pool
func draw(rng *rand.Rand, pool []ImagePath, k int) []ImagePath {
	shuffled := make([]ImagePath, len(pool))
	copy(shuffled, pool)

	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:k:k]
}

// Commit writes a selection to the store, clearing it first when the
// selection restarted the rotation. Both steps are attempted even if the
// first fails.
func Commit(store HistoryStore, sel Selection) error {
	var clearErr, appendErr error
	if sel.Reset {
		clearErr = store.Clear()
	}
	if len(sel.Picks) > 0 {
		appendErr = store.Append(sel.Picks)
	}
	return errors.Join(clearErr, appendErr)
}
