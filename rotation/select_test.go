package rotation

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func paths(names ...string) []ImagePath {
	out := make([]ImagePath, len(names))
	for i, n := range names {
		out[i] = "/walls/" + n + ".png"
	}
	return out
}

func assertDistinctFrom(t *testing.T, picks, catalog []ImagePath) {
	t.Helper()

	inCatalog := map[ImagePath]bool{}
	for _, c := range catalog {
		inCatalog[c] = true
	}

	seen := map[ImagePath]bool{}
	for _, p := range picks {
		assert.True(t, inCatalog[p], "pick %s not in catalog", p)
		assert.False(t, seen[p], "pick %s drawn twice", p)
		seen[p] = true
	}
}

func TestSelectPrefersUnseen(t *testing.T) {
	catalog := paths("a", "b", "c", "d", "e")
	store := NewMemoryStore(paths("a", "b", "c")...)
	history, err := store.Load()
	require.NoError(t, err)

	sel, err := Select(seeded(), catalog, history, 2)
	require.NoError(t, err)

	assert.False(t, sel.Reset)
	assert.ElementsMatch(t, paths("d", "e"), sel.Picks)

	require.NoError(t, Commit(store, sel))
	after, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, paths("a", "b", "c"), after[:3])
	assert.ElementsMatch(t, catalog, after)
}

func TestSelectExhaustedPoolRestartsRotation(t *testing.T) {
	catalog := paths("a", "b", "c", "d", "e")
	store := NewMemoryStore(catalog...)
	history, err := store.Load()
	require.NoError(t, err)

	sel, err := Select(seeded(), catalog, history, 2)
	require.NoError(t, err)

	assert.True(t, sel.Reset)
	require.Len(t, sel.Picks, 2)
	assertDistinctFrom(t, sel.Picks, catalog)

	require.NoError(t, Commit(store, sel))
	after, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sel.Picks, after)

	// The fresh cycle never runs out for a request the catalog can satisfy
	for i := 0; i < 20; i++ {
		history, err = store.Load()
		require.NoError(t, err)

		sel, err = Select(seeded(), catalog, history, 2)
		require.NoError(t, err)
		require.NoError(t, Commit(store, sel))
	}
}

func TestSelectPartialRemainderResets(t *testing.T) {
	catalog := paths("a", "b", "c", "d", "e")
	history := paths("a", "b", "c", "d")

	sel, err := Select(seeded(), catalog, history, 2)
	require.NoError(t, err)

	assert.True(t, sel.Reset)
	require.Len(t, sel.Picks, 2)
	assertDistinctFrom(t, sel.Picks, catalog)
}

func TestSelectInsufficientPool(t *testing.T) {
	_, err := Select(seeded(), paths("a", "b", "c"), nil, 5)
	require.ErrorIs(t, err, ErrInsufficientPool)

	_, err = Select(seeded(), paths("a", "b", "c"), nil, 4)
	require.ErrorIs(t, err, ErrInsufficientPool)
}

func TestSelectWholeCatalog(t *testing.T) {
	catalog := paths("a", "b", "c")

	sel, err := Select(seeded(), catalog, nil, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, catalog, sel.Picks)
}

func TestSelectZeroCount(t *testing.T) {
	catalog := paths("a", "b", "c")
	store := NewMemoryStore(paths("a", "x", "y", "z")...)
	history, err := store.Load()
	require.NoError(t, err)

	sel, err := Select(seeded(), catalog, history, 0)
	require.NoError(t, err)
	assert.Empty(t, sel.Picks)
	assert.False(t, sel.Reset)

	require.NoError(t, Commit(store, sel))
	after, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, history, after)
}

func TestSelectNegativeCount(t *testing.T) {
	_, err := Select(seeded(), paths("a"), nil, -1)
	require.Error(t, err)
}

func TestSelectStaleHistory(t *testing.T) {
	catalog := paths("a", "b", "c", "d", "e")
	// Longer than the catalog after files were deleted
	history := paths("a", "b", "c", "f", "g", "h")

	sel, err := Select(seeded(), catalog, history, 2)
	require.NoError(t, err)

	assert.True(t, sel.Reset)
	require.Len(t, sel.Picks, 2)
	assertDistinctFrom(t, sel.Picks, catalog)

	store := NewMemoryStore(history...)
	require.NoError(t, Commit(store, sel))
	after, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sel.Picks, after)
}

func TestSelectDoesNotModifyInputs(t *testing.T) {
	catalog := paths("a", "b", "c", "d", "e")
	history := paths("a")
	catalogCopy := append([]ImagePath{}, catalog...)
	historyCopy := append([]ImagePath{}, history...)

	_, err := Select(seeded(), catalog, history, 4)
	require.NoError(t, err)

	assert.Equal(t, catalogCopy, catalog)
	assert.Equal(t, historyCopy, history)
}

func TestSelectProperties(t *testing.T) {
	rng := seeded()
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	for n := 1; n <= len(names); n++ {
		catalog := paths(names[:n]...)
		for h := 0; h <= n; h++ {
			history := catalog[:h]
			for count := 0; count <= n; count++ {
				t.Run(fmt.Sprintf("n=%d,h=%d,count=%d", n, h, count), func(t *testing.T) {
					sel, err := Select(rng, catalog, history, count)
					require.NoError(t, err)
					require.Len(t, sel.Picks, count)
					assertDistinctFrom(t, sel.Picks, catalog)

					if n-h >= count {
						assert.False(t, sel.Reset)
						for _, p := range sel.Picks {
							assert.NotContains(t, history, p)
						}
					} else {
						assert.True(t, sel.Reset)
					}
				})
			}
		}
	}
}

func TestSelectReachesEveryImage(t *testing.T) {
	rng := seeded()
	catalog := paths("a", "b", "c", "d", "e")
	counts := map[ImagePath]int{}

	for i := 0; i < 500; i++ {
		sel, err := Select(rng, catalog, nil, 1)
		require.NoError(t, err)
		counts[sel.Picks[0]]++
	}

	for _, c := range catalog {
		assert.Positive(t, counts[c], "%s never picked", c)
	}
}

func TestFullRotationShowsEveryImageOnce(t *testing.T) {
	rng := seeded()
	catalog := paths("a", "b", "c", "d", "e", "f")
	store := NewMemoryStore()
	shown := []ImagePath{}

	for i := 0; i < 3; i++ {
		history, err := store.Load()
		require.NoError(t, err)

		sel, err := Select(rng, catalog, history, 2)
		require.NoError(t, err)
		assert.False(t, sel.Reset)
		require.NoError(t, Commit(store, sel))
		shown = append(shown, sel.Picks...)
	}

	assert.ElementsMatch(t, catalog, shown)
}

func TestCommitReportsBothFailures(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore(), failWrite: true}

	err := Commit(store, Selection{Picks: paths("a"), Reset: true})
	require.ErrorIs(t, err, ErrLogWrite)
}
