package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mohammad-safakhou/roomfinder/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func room(id string) models.Room {
	return models.Room{ID: id, Label: "Room " + id, City: "São Paulo", Description: "room " + id}
}

func ids(rooms []models.Room) []string {
	out := make([]string, len(rooms))
	for i, r := range rooms {
		out[i] = r.ID
	}
	return out
}

func TestIndexPreservesInsertionOrder(t *testing.T) {
	idx := NewIndex(room("b"))
	idx.Append(room("a"))
	idx.Append(room("c"))

	if diff := cmp.Diff([]string{"b", "a", "c"}, ids(idx.All())); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, idx.Len())
}

func TestIndexRemove(t *testing.T) {
	idx := NewIndex(room("1"), room("2"), room("3"))

	assert.True(t, idx.Remove("2"))
	assert.Equal(t, []string{"1", "3"}, ids(idx.All()))

	assert.False(t, idx.Remove("2"))
	assert.Equal(t, 2, idx.Len())
}

func TestIndexRemoveOnlyFirstMatch(t *testing.T) {
	idx := NewIndex()
	idx.Append(room("x"))
	dup := room("x")
	dup.Label = "second"
	idx.Append(dup)

	require.True(t, idx.Remove("x"))
	got, ok := idx.FindByID("x")
	require.True(t, ok)
	assert.Equal(t, "second", got.Label)
}

func TestIndexAppendUnique(t *testing.T) {
	idx := NewIndex(room("1"))
	require.NoError(t, idx.AppendUnique(room("2")))
	assert.ErrorIs(t, idx.AppendUnique(room("1")), models.ErrDuplicateRoom)
	assert.Equal(t, 2, idx.Len())
}

func TestIndexAllReturnsCopy(t *testing.T) {
	idx := NewIndex(room("1"))
	all := idx.All()
	all[0].Label = "mutated"

	got, ok := idx.FindByID("1")
	require.True(t, ok)
	assert.Equal(t, "Room 1", got.Label)

	_, ok = idx.FindByID("missing")
	assert.False(t, ok)
}

func TestSnapshotIsolation(t *testing.T) {
	idx := NewIndex(room("1"), room("2"))
	snap := idx.Snapshot()

	idx.Append(room("3"))
	idx.Remove("1")

	assert.Equal(t, []string{"1", "2"}, ids(snap.Rooms()))
	_, ok := snap.FindByID("3")
	assert.False(t, ok)
	r, ok := snap.FindByID("1")
	require.True(t, ok)
	assert.Equal(t, "Room 1", r.Label)
}

func TestSnapshotFindReturnsFirstDuplicate(t *testing.T) {
	first := room("x")
	second := room("x")
	second.Label = "second"
	snap := NewSnapshot([]models.Room{first, second})

	got, ok := snap.FindByID("x")
	require.True(t, ok)
	assert.Equal(t, "Room x", got.Label)
}

func TestIndexConcurrentAppends(t *testing.T) {
	idx := NewIndex()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = idx.AppendUnique(room(fmt.Sprintf("r-%d", i)))
			_ = idx.Snapshot()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, idx.Len())
	seen := map[string]bool{}
	for _, r := range idx.All() {
		assert.False(t, seen[r.ID], "duplicate %s", r.ID)
		seen[r.ID] = true
	}
}

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rooms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rooms:
  - id: "1"
    label: Room 1
    neighborhood: Pinheiros
    city: São Paulo
    capacity: 10
    image: /placeholder.svg
    description: Meeting room for ten people with parking
  - id: "2"
    label: Room 2
    city: Rio de Janeiro
    image: /placeholder.svg
`), 0o644))

	rooms, err := LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, 10, rooms[0].Capacity)
	assert.Equal(t, "Pinheiros", rooms[0].Neighborhood)

	idx := NewIndex(room("2"))
	assert.Equal(t, 1, Seed(idx, rooms))
	assert.Equal(t, []string{"2", "1"}, ids(idx.All()))
}

func TestLoadSeedErrors(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "noid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rooms:\n  - label: nameless\n"), 0o644))
	_, err = LoadSeed(path)
	assert.Error(t, err)
}
