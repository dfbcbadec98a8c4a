package registry

import (
	"os"
	"testing"

	"dungeon-core/internal/domain"
	"dungeon-core/pkg/logger"
	"dungeon-core/pkg/utils"

	"codeberg.org/anaseto/gruid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

var (
	heroRace   = &domain.Race{Name: "hero", Speed: domain.NormalSpeed}
	goblinRace = &domain.Race{Name: "goblin", Level: 2, Speed: domain.NormalSpeed, Experience: 5}
	uniqueRace = &domain.Race{Name: "grip", Level: 2, Speed: domain.NormalSpeed, Caps: domain.Caps(domain.CapUnique)}
	questRace  = &domain.Race{Name: "keeper", Level: 2, Speed: domain.NormalSpeed, Caps: domain.Caps(domain.CapQuestor)}
)

func newTestRegistry(t *testing.T, max int) *Registry {
	t.Helper()
	r := New(Options{MaxActors: max, StartEnergyMax: 50, CompactIterationLimit: 50}, 40, 40, utils.NewRand(1))
	_, err := r.PlacePlayer(domain.Actor{Race: heroRace, Grid: gruid.Point{X: 0, Y: 0}, HP: 10, MaxHP: 10})
	require.NoError(t, err)
	return r
}

func spawnAt(t *testing.T, r *Registry, race *domain.Race, x, y int) domain.ActorRef {
	t.Helper()
	ref := r.Spawn(domain.Actor{Race: race, Grid: gruid.Point{X: x, Y: y}, HP: 5, MaxHP: 5})
	require.False(t, ref.IsNil(), "spawn at %d,%d failed", x, y)
	return ref
}

// checkOccupancy сверяет сетку занятости с клетками живых сущностей.
func checkOccupancy(t *testing.T, r *Registry) {
	t.Helper()
	seen := make(map[gruid.Point]int)
	for i := domain.PlayerIndex; i < r.Max(); i++ {
		a := r.At(i)
		if a == nil {
			continue
		}
		prev, dup := seen[a.Grid]
		assert.False(t, dup, "actors %d and %d share %v", prev, i, a.Grid)
		seen[a.Grid] = i
		assert.Equal(t, i, r.OccupantAt(a.Grid))
	}
}

func TestSpawnAppendsThenReusesDeadSlots(t *testing.T) {
	r := newTestRegistry(t, 4)

	a := spawnAt(t, r, goblinRace, 5, 5)
	b := spawnAt(t, r, goblinRace, 6, 5)
	assert.Equal(t, 2, a.Index())
	assert.Equal(t, 3, b.Index())

	full := r.Spawn(domain.Actor{Race: goblinRace, Grid: gruid.Point{X: 7, Y: 5}})
	assert.True(t, full.IsNil(), "registry with capacity 4 has only slots 2 and 3 for monsters")

	_, err := r.TrySpawn(domain.Actor{Race: goblinRace, Grid: gruid.Point{X: 7, Y: 5}})
	assert.ErrorIs(t, err, ErrFull)

	require.True(t, r.Delete(a))
	assert.Nil(t, r.Get(a))

	c := spawnAt(t, r, goblinRace, 7, 5)
	assert.Equal(t, 2, c.Index(), "first dead slot is reused")
	assert.NotEqual(t, a, c, "generation changes on reuse")
	assert.Nil(t, r.Get(a), "old ref stays stale")
	assert.NotNil(t, r.Get(c))
	checkOccupancy(t, r)
}

func TestSpawnStartEnergy(t *testing.T) {
	r := newTestRegistry(t, 64)
	for i := 0; i < 30; i++ {
		ref := spawnAt(t, r, goblinRace, i+1, 2)
		e := r.Get(ref).Energy
		assert.GreaterOrEqual(t, e, 0)
		assert.Less(t, e, 50)
	}
}

func TestSpawnRejectsOccupiedGrid(t *testing.T) {
	r := newTestRegistry(t, 8)
	spawnAt(t, r, goblinRace, 3, 3)

	ref := r.Spawn(domain.Actor{Race: goblinRace, Grid: gruid.Point{X: 3, Y: 3}})
	assert.True(t, ref.IsNil())

	_, err := r.TrySpawn(domain.Actor{Race: goblinRace, Grid: gruid.Point{X: 3, Y: 3}})
	assert.ErrorIs(t, err, ErrOccupied)

	_, err = r.TrySpawn(domain.Actor{Race: goblinRace, Grid: gruid.Point{X: 0, Y: 0}})
	assert.ErrorIs(t, err, ErrOccupied, "player grid is occupied too")
}

func TestPlayerCannotBeDeleted(t *testing.T) {
	r := newTestRegistry(t, 8)
	assert.False(t, r.Delete(r.PlayerRef()))
	assert.NotNil(t, r.Player())
}

func TestSwapAndMove(t *testing.T) {
	r := newTestRegistry(t, 8)
	a := spawnAt(t, r, goblinRace, 1, 1)
	b := spawnAt(t, r, goblinRace, 2, 1)

	r.Swap(gruid.Point{X: 1, Y: 1}, gruid.Point{X: 2, Y: 1})
	assert.Equal(t, gruid.Point{X: 2, Y: 1}, r.Get(a).Grid)
	assert.Equal(t, gruid.Point{X: 1, Y: 1}, r.Get(b).Grid)

	require.NoError(t, r.Move(a, gruid.Point{X: 5, Y: 5}))
	assert.Equal(t, 0, r.OccupantAt(gruid.Point{X: 2, Y: 1}))
	assert.ErrorIs(t, r.Move(a, gruid.Point{X: 1, Y: 1}), ErrOccupied)
	checkOccupancy(t, r)
}

func TestGroupsLeaderHandover(t *testing.T) {
	r := newTestRegistry(t, 8)
	boss := spawnAt(t, r, goblinRace, 1, 1)
	guard := spawnAt(t, r, goblinRace, 2, 1)
	grunt := spawnAt(t, r, goblinRace, 3, 1)

	id := r.NewGroup(boss)
	require.True(t, r.Join(id, guard, domain.RoleBodyguard))
	require.True(t, r.Join(id, grunt, domain.RoleMember))

	assert.Equal(t, r.Get(boss), r.LeaderOf(r.Get(guard)))
	assert.Equal(t, domain.RoleBodyguard, r.Get(guard).Role)

	r.Delete(boss)
	g := r.Group(id)
	require.NotNil(t, g)
	assert.Equal(t, guard, g.Leader)
	assert.Equal(t, domain.RoleLeader, r.Get(guard).Role)
	assert.Len(t, g.Members, 2)
}

func TestCompactRelocatesAndFixesReferences(t *testing.T) {
	r := newTestRegistry(t, 16)
	var refs []domain.ActorRef
	for i := 0; i < 6; i++ {
		refs = append(refs, spawnAt(t, r, goblinRace, 10+i, 10))
	}
	last := refs[len(refs)-1]

	// Ссылки на последнего: цель соседа, стая, отслеживание здоровья
	r.Get(refs[0]).Target = domain.MonsterTarget(last)
	r.Player().Target = domain.MonsterTarget(last)
	gid := r.NewGroup(last)
	require.True(t, r.Join(gid, refs[0], domain.RoleBodyguard))
	r.TrackHealth(last)

	obs := &recordingObserver{}
	r.AddObserver(obs)

	r.Delete(refs[1])
	r.Delete(refs[2])

	deleted := r.Compact(0)
	assert.Equal(t, 0, deleted)
	assert.Equal(t, 6, r.Max(), "player plus four live monsters")
	assert.Equal(t, 5, r.Count())

	assert.Nil(t, r.Get(last), "moved actor's old ref is stale")
	moved := r.HealthTracked()
	require.NotNil(t, r.Get(moved))
	assert.Less(t, moved.Index(), last.Index())

	assert.Equal(t, moved, r.Get(refs[0]).Target.Ref)
	assert.Equal(t, moved, r.Player().Target.Ref)
	assert.Equal(t, moved, r.Group(gid).Leader)
	assert.Equal(t, r.Get(moved), r.LeaderOf(r.Get(refs[0])))
	require.NotEmpty(t, obs.moves)
	assert.Contains(t, obs.moves, [2]domain.ActorRef{last, moved})
	assert.Equal(t, map[domain.ActorRef]gruid.Point{
		refs[1]: {X: 11, Y: 10},
		refs[2]: {X: 12, Y: 10},
	}, obs.removed)
	checkOccupancy(t, r)
}

type recordingObserver struct {
	moves   [][2]domain.ActorRef
	removed map[domain.ActorRef]gruid.Point
}

func (o *recordingObserver) Relocated(from, to domain.ActorRef) {
	o.moves = append(o.moves, [2]domain.ActorRef{from, to})
}

func (o *recordingObserver) Removed(ref domain.ActorRef, at gruid.Point) {
	if o.removed == nil {
		o.removed = make(map[domain.ActorRef]gruid.Point)
	}
	o.removed[ref] = at
}

func TestCompactTerminatesAndRespectsBound(t *testing.T) {
	tests := []struct {
		name string
		race *domain.Race
	}{
		{"ordinary", goblinRace},
		{"uniques", uniqueRace},
		{"questors only go after the iteration limit", questRace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t, 32)
			for i := 0; i < 20; i++ {
				// рядом с игроком: пороги дистанции тоже должны расслабиться
				spawnAt(t, r, tt.race, i%5+1, i/5+1)
			}

			deleted := r.Compact(12)
			assert.Equal(t, 12, deleted)
			assert.Equal(t, 9, r.Count())
			assert.LessOrEqual(t, r.Count(), r.Cap())
			assert.Equal(t, r.Count(), r.Max()-1, "no holes remain after compaction")
			checkOccupancy(t, r)
		})
	}
}

func TestCompactMoreThanExists(t *testing.T) {
	r := newTestRegistry(t, 8)
	spawnAt(t, r, goblinRace, 3, 3)
	spawnAt(t, r, goblinRace, 4, 3)

	deleted := r.Compact(100)
	assert.Equal(t, 2, deleted)
	assert.Equal(t, 1, r.Count())
	assert.NotNil(t, r.Player(), "player is never compacted")
}

func TestReserve(t *testing.T) {
	r := newTestRegistry(t, 6)
	for i := 0; i < 4; i++ {
		spawnAt(t, r, goblinRace, 10+i, 10)
	}
	r.Reserve(2)
	assert.LessOrEqual(t, r.Count(), 4)
}

func TestResetKeepsPlayerData(t *testing.T) {
	r := newTestRegistry(t, 8)
	r.Player().Level = 7
	mon := spawnAt(t, r, goblinRace, 2, 2)

	player := r.Reset(10, 10)
	assert.Equal(t, 7, player.Level)
	assert.Nil(t, r.Get(mon))
	assert.Equal(t, 0, r.Count())

	player.Grid = gruid.Point{X: 5, Y: 5}
	ref, err := r.PlacePlayer(player)
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerIndex, ref.Index())
	assert.Equal(t, 1, r.Count())
}
