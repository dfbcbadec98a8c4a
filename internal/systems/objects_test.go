package systems

import (
	"testing"

	"dungeon-core/internal/domain"

	"codeberg.org/anaseto/gruid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStashGrab(t *testing.T) {
	tests := []struct {
		name      string
		caps      domain.Capabilities
		wantHeld  int
		wantFloor int
		wantLen   int
		wantEvent domain.EventType
	}{
		{name: "taker", caps: domain.Caps(domain.CapTakeItem), wantHeld: 2, wantLen: 2, wantEvent: domain.EventItemTaken},
		{name: "crusher", caps: domain.Caps(domain.CapKillItem), wantLen: 0, wantEvent: domain.EventItemCrushed},
		{name: "indifferent", wantFloor: 2, wantLen: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, 10, 5)
			stash := NewStash(w)
			placePlayer(t, w, 0, 0)
			at := gruid.Point{X: 4, Y: 2}
			stash.Drop("potion", at)
			stash.Drop("scroll", at)
			stash.Drop("wand", gruid.Point{X: 6, Y: 2})

			ref, _ := spawn(t, w, &domain.Race{Name: tt.name, Speed: domain.NormalSpeed, Caps: tt.caps}, 4, 2)
			stash.Grab(ref, at)

			assert.Len(t, stash.HeldBy(ref), tt.wantHeld)
			assert.Len(t, stash.At(at), tt.wantFloor)
			assert.Equal(t, tt.wantLen+1, stash.Len(), "the wand is untouched")
			if tt.wantEvent != domain.EventUnknown {
				assert.Equal(t, 2, events(w).Count(tt.wantEvent))
			}
		})
	}
}

func TestStashFollowsCompaction(t *testing.T) {
	w := newTestWorld(t, 20, 5)
	stash := NewStash(w)
	placePlayer(t, w, 0, 0)
	thief := &domain.Race{Name: "magpie", Speed: domain.NormalSpeed, Caps: domain.Caps(domain.CapTakeItem)}

	// Дыра в нижних слотах: компактизация переселит вора
	holeRef, _ := spawn(t, w, goblinRace, 2, 2)
	ref, a := spawn(t, w, thief, 4, 2)
	item := stash.Drop("gem", a.Grid)
	stash.Grab(ref, a.Grid)
	require.Equal(t, ref, item.Holder)

	require.True(t, w.Actors.Delete(holeRef))
	w.Actors.Compact(0)

	moved := w.Actors.RefAt(w.Actors.OccupantAt(gruid.Point{X: 4, Y: 2}))
	require.False(t, moved.IsNil())
	assert.NotEqual(t, ref, moved)
	assert.Equal(t, moved, item.Holder)
	assert.Len(t, stash.HeldBy(moved), 1)

	// Вещи погибшего остаются на полу
	assert.Equal(t, 1, stash.DropAll(moved, gruid.Point{X: 4, Y: 2}))
	assert.True(t, item.Holder.IsNil())
	assert.Equal(t, "gem("+item.ID+")", item.String())
}

func TestStashDropsLootOfCompactedHolder(t *testing.T) {
	w := newTestWorld(t, 20, 5)
	stash := NewStash(w)
	placePlayer(t, w, 0, 0)
	thief := &domain.Race{Name: "magpie", Speed: domain.NormalSpeed, Caps: domain.Caps(domain.CapTakeItem)}

	ref, a := spawn(t, w, thief, 6, 3)
	item := stash.Drop("gem", a.Grid)
	stash.Grab(ref, a.Grid)
	require.Equal(t, ref, item.Holder)

	require.Equal(t, 1, w.Actors.Compact(1))
	assert.Nil(t, w.Actors.Get(ref))
	assert.True(t, item.Holder.IsNil())
	assert.Len(t, stash.At(gruid.Point{X: 6, Y: 3}), 1)
}

func TestStashTakeAndRelease(t *testing.T) {
	w := newTestWorld(t, 10, 5)
	stash := NewStash(w)
	p := placePlayer(t, w, 3, 2)
	hero := w.Actors.PlayerRef()

	underfoot := stash.Drop("torch", p.Grid)
	far := stash.Drop("rope", gruid.Point{X: 7, Y: 2})

	_, err := stash.Take(hero, far.ID)
	assert.ErrorIs(t, err, ErrOutOfReach)
	_, err = stash.Take(hero, "missing")
	assert.ErrorIs(t, err, ErrItemNotFound)

	it, err := stash.Take(hero, underfoot.ID)
	require.NoError(t, err)
	assert.Equal(t, hero, it.Holder)
	assert.Equal(t, 1, events(w).Count(domain.EventItemTaken))

	_, err = stash.Take(hero, underfoot.ID)
	assert.ErrorIs(t, err, ErrNotHolder, "already held")

	_, err = stash.Release(hero, far.ID, p.Grid)
	assert.ErrorIs(t, err, ErrNotHolder, "lying on the floor")

	it, err = stash.Release(hero, underfoot.ID, gruid.Point{X: 4, Y: 2})
	require.NoError(t, err)
	assert.True(t, it.Holder.IsNil())
	assert.Len(t, stash.At(gruid.Point{X: 4, Y: 2}), 1)
	assert.Empty(t, stash.HeldBy(hero))
}

func TestStashReset(t *testing.T) {
	w := newTestWorld(t, 10, 5)
	stash := NewStash(w)
	p := placePlayer(t, w, 3, 2)
	hero := w.Actors.PlayerRef()

	kept := stash.Drop("amulet", p.Grid)
	_, err := stash.Take(hero, kept.ID)
	require.NoError(t, err)
	stash.Drop("rock", gruid.Point{X: 5, Y: 2})

	stash.Reset(hero)
	assert.Equal(t, 1, stash.Len())
	assert.Len(t, stash.HeldBy(hero), 1)
}
