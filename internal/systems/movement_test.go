package systems

import (
	"testing"

	"dungeon-core/internal/domain"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/rl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingCombat запоминает, кого и чем били.
type recordingCombat struct {
	melee   [][2]domain.ActorRef
	effects []domain.EffectID
	ranged  bool
}

func (c *recordingCombat) ResolveMelee(attacker, victim domain.ActorRef) {
	c.melee = append(c.melee, [2]domain.ActorRef{attacker, victim})
}

func (c *recordingCombat) ApplyEffect(_ domain.ActorRef, _ gruid.Point, effect domain.EffectID) {
	c.effects = append(c.effects, effect)
}

func (c *recordingCombat) TryRanged(domain.ActorRef) bool { return c.ranged }

func east() MoveDecision { return MoveDecision{Dir: 6} }

func TestPlainMoveAndWalls(t *testing.T) {
	w := newTestWorld(t, 10, 5)
	placePlayer(t, w, 0, 0)
	ref, a := spawn(t, w, goblinRace, 3, 2)

	assert.Equal(t, OutcomeMoved, w.ExecuteMove(ref, a, east(), NoStagger))
	assert.Equal(t, gruid.Point{X: 4, Y: 2}, a.Grid)
	assert.Equal(t, 1, events(w).Count(domain.EventMoved))

	// Гранит прямо по курсу: уходит вбок по таблице обхода
	w.Level.Set(gruid.Point{X: 5, Y: 2}, domain.TerrainWall)
	assert.Equal(t, OutcomeMoved, w.ExecuteMove(ref, a, east(), NoStagger))
	assert.Equal(t, gruid.Point{X: 5, Y: 3}, a.Grid, "SideDirs[6][1] = 3")

	// Со всех сторон постоянные стены - ход пропадает
	for _, d := range domain.DDD {
		w.Level.Set(a.Grid.Add(domain.DirOffset(d)), domain.TerrainPermWall)
	}
	assert.Equal(t, OutcomeIdle, w.ExecuteMove(ref, a, east(), NoStagger))
	assert.Equal(t, gruid.Point{X: 5, Y: 3}, a.Grid)
	checkOccupancy(t, w)
}

func TestTrackingDoesNotSidestep(t *testing.T) {
	w := newTestWorld(t, 10, 5)
	placePlayer(t, w, 0, 0)
	ref, a := spawn(t, w, goblinRace, 3, 2)
	w.Level.Set(gruid.Point{X: 4, Y: 2}, domain.TerrainWall)

	// Клетки за пределом зрения игрока: монстр идет только по следу
	w.View = NewPlayerView(w.Level, 1)
	assert.Equal(t, OutcomeIdle, w.ExecuteMove(ref, a, MoveDecision{Dir: 6, Tracking: true}, NoStagger))
	assert.Equal(t, gruid.Point{X: 3, Y: 2}, a.Grid)
}

func TestMeleeAndNeverBlow(t *testing.T) {
	w := newTestWorld(t, 10, 5)
	placePlayer(t, w, 4, 2)
	combat := &recordingCombat{}
	w.Combat = combat
	ref, a := spawn(t, w, goblinRace, 3, 2)

	assert.Equal(t, OutcomeAttacked, w.ExecuteMove(ref, a, east(), NoStagger))
	require.Len(t, combat.melee, 1)
	assert.Equal(t, w.Actors.PlayerRef(), combat.melee[0][1])
	assert.Equal(t, gruid.Point{X: 3, Y: 2}, a.Grid)

	// Не бьющий монстр обходит игрока
	shyRef, shy := spawn(t, w, &domain.Race{Name: "shy", Speed: domain.NormalSpeed, Caps: domain.Caps(domain.CapNeverBlow)}, 3, 1)
	outcome := w.ExecuteMove(shyRef, shy, MoveDecision{Dir: 3}, NoStagger)
	assert.Equal(t, OutcomeMoved, outcome)
	assert.Len(t, combat.melee, 1)
	checkOccupancy(t, w)
}

func TestNeverMoveStaysPut(t *testing.T) {
	w := newTestWorld(t, 10, 5)
	placePlayer(t, w, 0, 0)
	ref, a := spawn(t, w, &domain.Race{Name: "mold", Speed: domain.NormalSpeed, Caps: domain.Caps(domain.CapNeverMove)}, 3, 2)

	assert.Equal(t, OutcomeIdle, w.ExecuteMove(ref, a, east(), NoStagger))
	assert.Equal(t, gruid.Point{X: 3, Y: 2}, a.Grid)
}

func TestDoors(t *testing.T) {
	door := gruid.Point{X: 4, Y: 2}
	corridor := func(t *testing.T) *World {
		w := newTestWorld(t, 10, 5)
		fillWalls(w.Level)
		carve(w.Level, 1, 2, 8, 2)
		w.Level.Set(door, domain.TerrainDoorClosed)
		placePlayer(t, w, 8, 2)
		return w
	}

	t.Run("opener opens and stays", func(t *testing.T) {
		w := corridor(t)
		ref, a := spawn(t, w, &domain.Race{Name: "kobold", Level: 2, Speed: domain.NormalSpeed, Caps: domain.Caps(domain.CapOpenDoor)}, 3, 2)
		assert.Equal(t, OutcomeWorked, w.ExecuteMove(ref, a, east(), NoStagger))
		assert.Equal(t, domain.TerrainDoorOpen, w.Level.At(door))
		assert.Equal(t, gruid.Point{X: 3, Y: 2}, a.Grid)
		assert.Equal(t, 1, events(w).Count(domain.EventDoorOpened))

		// Следующий ход - в проем
		assert.Equal(t, OutcomeMoved, w.ExecuteMove(ref, a, east(), NoStagger))
		assert.Equal(t, door, a.Grid)
	})

	t.Run("basher falls into doorway", func(t *testing.T) {
		w := corridor(t)
		ref, a := spawn(t, w, &domain.Race{Name: "troll", Level: 10, Speed: domain.NormalSpeed, Caps: domain.Caps(domain.CapBashDoor)}, 3, 2)
		assert.Equal(t, OutcomeMoved, w.ExecuteMove(ref, a, east(), NoStagger))
		assert.Equal(t, domain.TerrainDoorBroken, w.Level.At(door))
		assert.Equal(t, door, a.Grid)
	})

	t.Run("locked door weakens", func(t *testing.T) {
		w := corridor(t)
		w.Level.SetLock(door, 3)
		ref, a := spawn(t, w, &domain.Race{Name: "kobold", Level: 2, Speed: domain.NormalSpeed, Caps: domain.Caps(domain.CapOpenDoor)}, 3, 2)
		a.HP = 100
		// rand(0, 100/10) = 7 > 3
		w.RNG = &scriptRNG{vals: []int{7}}
		assert.Equal(t, OutcomeWorked, w.ExecuteMove(ref, a, east(), NoStagger))
		assert.Equal(t, 2, w.Level.LockPower(door))
		assert.True(t, w.Level.IsClosedDoor(door))

		// Неудачная попытка тоже тратит ход
		w.RNG = &scriptRNG{vals: []int{1}}
		assert.Equal(t, OutcomeWorked, w.ExecuteMove(ref, a, east(), NoStagger))
		assert.Equal(t, 2, w.Level.LockPower(door))
		assert.Equal(t, gruid.Point{X: 3, Y: 2}, a.Grid)
	})

	t.Run("no hands", func(t *testing.T) {
		w := corridor(t)
		ref, a := spawn(t, w, goblinRace, 3, 2)
		assert.Equal(t, OutcomeIdle, w.ExecuteMove(ref, a, east(), NoStagger))
		assert.True(t, w.Level.IsClosedDoor(door))
	})
}

func TestWallCapabilities(t *testing.T) {
	tests := []struct {
		name      string
		caps      domain.Capabilities
		wantGrid  gruid.Point
		wantWall  bool // стена осталась на месте
		wantEvent domain.EventType
	}{
		{name: "ghost", caps: domain.Caps(domain.CapPassWall), wantGrid: gruid.Point{X: 4, Y: 2}, wantWall: true},
		{name: "umber hulk", caps: domain.Caps(domain.CapKillWall), wantGrid: gruid.Point{X: 4, Y: 2}, wantEvent: domain.EventWallDestroyed},
		{name: "giant", caps: domain.Caps(domain.CapSmashWall), wantGrid: gruid.Point{X: 4, Y: 2}, wantEvent: domain.EventWallsSmashed},
		{name: "goblin", wantGrid: gruid.Point{X: 3, Y: 2}, wantWall: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, 10, 5)
			fillWalls(w.Level)
			carve(w.Level, 1, 2, 3, 2)
			placePlayer(t, w, 1, 2)
			ref, a := spawn(t, w, &domain.Race{Name: tt.name, Speed: domain.NormalSpeed, Caps: tt.caps}, 3, 2)

			w.ExecuteMove(ref, a, east(), NoStagger)
			assert.Equal(t, tt.wantGrid, a.Grid)
			assert.Equal(t, tt.wantWall, w.Level.IsWall(gruid.Point{X: 4, Y: 2}))
			if tt.wantEvent != domain.EventUnknown {
				assert.Equal(t, 1, events(w).Count(tt.wantEvent))
			}
		})
	}

	// Постоянную стену не берет никто
	w := newTestWorld(t, 10, 5)
	fillWalls(w.Level)
	carve(w.Level, 1, 2, 3, 2)
	w.Level.Set(gruid.Point{X: 4, Y: 2}, domain.TerrainPermWall)
	placePlayer(t, w, 1, 2)
	ref, a := spawn(t, w, &domain.Race{Name: "ghost", Speed: domain.NormalSpeed, Caps: domain.Caps(domain.CapPassWall, domain.CapKillWall)}, 3, 2)
	w.ExecuteMove(ref, a, east(), NoStagger)
	assert.Equal(t, domain.TerrainPermWall, w.Level.At(gruid.Point{X: 4, Y: 2}))
}

func TestTerrainClasses(t *testing.T) {
	tests := []struct {
		name    string
		terrain rl.Cell
		caps    domain.Capabilities
		roll    int // для OneIn(2): 0 - замедлился
		want    Outcome
	}{
		{name: "swimmer crosses water", terrain: domain.TerrainWater, caps: domain.Caps(domain.CapSwim), want: OutcomeMoved},
		{name: "heavy race avoids water", terrain: domain.TerrainWater, caps: domain.Caps(domain.CapDrowns), want: OutcomeIdle},
		{name: "walker slowed by water", terrain: domain.TerrainWater, roll: 0, want: OutcomeWorked},
		{name: "walker wades", terrain: domain.TerrainWater, roll: 1, want: OutcomeMoved},
		{name: "fire immune on lava", terrain: domain.TerrainLava, caps: domain.Caps(domain.CapImFire), want: OutcomeMoved},
		{name: "lava scares others", terrain: domain.TerrainLava, want: OutcomeIdle},
		{name: "digger through rubble", terrain: domain.TerrainRubble, caps: domain.Caps(domain.CapKillWall), want: OutcomeMoved},
		{name: "rubble slows", terrain: domain.TerrainRubble, roll: 0, want: OutcomeWorked},
		{name: "walker clears rubble", terrain: domain.TerrainRubble, roll: 1, want: OutcomeMoved},
		{name: "animal in trees", terrain: domain.TerrainTree, caps: domain.Caps(domain.CapAnimal), want: OutcomeMoved},
		{name: "trees slow", terrain: domain.TerrainTree, roll: 0, want: OutcomeWorked},
		{name: "flyer over chasm", terrain: domain.TerrainChasm, caps: domain.Caps(domain.CapFly), want: OutcomeMoved},
		{name: "chasm blocks walkers", terrain: domain.TerrainChasm, want: OutcomeIdle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, 10, 5)
			fillWalls(w.Level)
			carve(w.Level, 1, 2, 3, 2)
			w.Level.Set(gruid.Point{X: 4, Y: 2}, tt.terrain)
			placePlayer(t, w, 1, 2)
			ref, a := spawn(t, w, &domain.Race{Name: tt.name, Speed: domain.NormalSpeed, Caps: tt.caps}, 3, 2)
			w.RNG = &scriptRNG{vals: []int{tt.roll}}

			assert.Equal(t, tt.want, w.ExecuteMove(ref, a, east(), NoStagger))
			if tt.want == OutcomeMoved {
				// стоять можно только там, куда пускает Passable
				assert.True(t, w.Level.Passable(a.Grid), "standing on %s", domain.TerrainName(w.Level.At(a.Grid)))
			}
		})
	}
}

func TestPushAndTrample(t *testing.T) {
	setup := func(t *testing.T, mover *domain.Race, blocker *domain.Race) (*World, domain.ActorRef, *domain.Actor, domain.ActorRef) {
		w := newTestWorld(t, 10, 5)
		fillWalls(w.Level)
		carve(w.Level, 1, 2, 8, 2)
		placePlayer(t, w, 8, 2)
		bref, _ := spawn(t, w, blocker, 4, 2)
		ref, a := spawn(t, w, mover, 3, 2)
		return w, ref, a, bref
	}

	t.Run("ogre tramples goblin", func(t *testing.T) {
		w, ref, a, bref := setup(t, ogreRace, goblinRace)
		assert.Equal(t, OutcomeMoved, w.ExecuteMove(ref, a, east(), NoStagger))
		assert.Equal(t, gruid.Point{X: 4, Y: 2}, a.Grid)
		assert.Nil(t, w.Actors.Get(bref))
		assert.Equal(t, 1, events(w).Count(domain.EventTrampled))
		checkOccupancy(t, w)
	})

	t.Run("uniques are not trampled", func(t *testing.T) {
		boss := &domain.Race{Name: "boss", Speed: domain.NormalSpeed, Caps: domain.Caps(domain.CapUnique)}
		w, ref, a, bref := setup(t, ogreRace, boss)
		assert.Equal(t, OutcomeIdle, w.ExecuteMove(ref, a, east(), NoStagger))
		assert.NotNil(t, w.Actors.Get(bref))
	})

	t.Run("shover swaps places", func(t *testing.T) {
		shover := &domain.Race{Name: "bully", Speed: domain.NormalSpeed, Experience: 30, Caps: domain.Caps(domain.CapMoveBody)}
		w, ref, a, bref := setup(t, shover, goblinRace)
		assert.Equal(t, OutcomeMoved, w.ExecuteMove(ref, a, east(), NoStagger))
		assert.Equal(t, gruid.Point{X: 4, Y: 2}, a.Grid)
		assert.Equal(t, gruid.Point{X: 3, Y: 2}, w.Actors.Get(bref).Grid)
		checkOccupancy(t, w)
	})

	t.Run("weaker cannot push", func(t *testing.T) {
		w, ref, a, bref := setup(t, goblinRace, ogreRace)
		assert.Equal(t, OutcomeIdle, w.ExecuteMove(ref, a, east(), NoStagger))
		assert.Equal(t, gruid.Point{X: 4, Y: 2}, w.Actors.Get(bref).Grid)
	})
}

// Сценарий: два монстра в одном проходе хотят в одну клетку. Второй по
// порядку не должен ее перезаписать.
func TestCollidingDestinations(t *testing.T) {
	w := newTestWorld(t, 10, 5)
	fillWalls(w.Level)
	carve(w.Level, 1, 2, 8, 2)
	placePlayer(t, w, 1, 2)
	aRef, a := spawn(t, w, goblinRace, 4, 2)
	bRef, b := spawn(t, w, goblinRace, 6, 2)

	assert.Equal(t, OutcomeMoved, w.ExecuteMove(aRef, a, east(), NoStagger))
	assert.Equal(t, gruid.Point{X: 5, Y: 2}, a.Grid)

	assert.Equal(t, OutcomeIdle, w.ExecuteMove(bRef, b, MoveDecision{Dir: 4}, NoStagger))
	assert.Equal(t, gruid.Point{X: 6, Y: 2}, b.Grid)
	assert.Equal(t, gruid.Point{X: 5, Y: 2}, a.Grid)
	checkOccupancy(t, w)
}

func TestFearWithoutExitFreezes(t *testing.T) {
	w := newTestWorld(t, 10, 5)
	fillWalls(w.Level)
	carve(w.Level, 3, 2, 3, 2)
	placePlayer(t, w, 0, 0)
	ref, a := spawn(t, w, goblinRace, 3, 2)
	a.Timed[domain.TimedFear] = 7

	assert.Equal(t, OutcomeFrozen, w.ExecuteMove(ref, a, east(), NoStagger))
	assert.Zero(t, a.Timed[domain.TimedFear])
	assert.Equal(t, 7, a.Timed[domain.TimedHold])
}

func TestWardAndDecoy(t *testing.T) {
	t.Run("weak monster bounces off ward", func(t *testing.T) {
		w := newTestWorld(t, 10, 5)
		fillWalls(w.Level)
		carve(w.Level, 1, 2, 8, 2)
		placePlayer(t, w, 8, 2)
		w.Level.SetWard(gruid.Point{X: 4, Y: 2}, true)
		ref, a := spawn(t, w, goblinRace, 3, 2)
		w.RNG = &scriptRNG{vals: []int{100}}

		assert.Equal(t, OutcomeIdle, w.ExecuteMove(ref, a, east(), NoStagger))
		assert.True(t, w.Level.Ward(gruid.Point{X: 4, Y: 2}))
	})

	t.Run("strong monster breaks ward", func(t *testing.T) {
		w := newTestWorld(t, 10, 5)
		combat := &recordingCombat{}
		w.Combat = combat
		placePlayer(t, w, 8, 2)
		w.Level.SetWard(gruid.Point{X: 4, Y: 2}, true)
		ref, a := spawn(t, w, ogreRace, 3, 2)
		// randint1(550) = 1 < 15
		w.RNG = &scriptRNG{vals: []int{0}}

		assert.Equal(t, OutcomeMoved, w.ExecuteMove(ref, a, east(), NoStagger))
		assert.False(t, w.Level.Ward(gruid.Point{X: 4, Y: 2}))
		assert.Equal(t, []domain.EffectID{domain.EffectWardBroken}, combat.effects)
	})

	t.Run("decoy is destroyed instead of entered", func(t *testing.T) {
		w := newTestWorld(t, 10, 5)
		placePlayer(t, w, 8, 2)
		w.Level.SetDecoy(gruid.Point{X: 4, Y: 2}, true)
		ref, a := spawn(t, w, goblinRace, 3, 2)

		assert.Equal(t, OutcomeWorked, w.ExecuteMove(ref, a, east(), NoStagger))
		assert.False(t, w.Level.Decoy(gruid.Point{X: 4, Y: 2}))
		assert.Equal(t, gruid.Point{X: 3, Y: 2}, a.Grid)
	})
}

func TestStepTriggersTrapAndPickup(t *testing.T) {
	w := newTestWorld(t, 10, 5)
	combat := &recordingCombat{}
	w.Combat = combat
	stash := NewStash(w)
	w.Objects = stash
	placePlayer(t, w, 8, 2)

	at := gruid.Point{X: 4, Y: 2}
	w.Level.SetTrap(at, true)
	stash.Drop("dagger", at)

	race := &domain.Race{Name: "thief", Speed: domain.NormalSpeed, Caps: domain.Caps(domain.CapTakeItem)}
	ref, a := spawn(t, w, race, 3, 2)

	require.Equal(t, OutcomeMoved, w.ExecuteMove(ref, a, east(), NoStagger))
	assert.Equal(t, []domain.EffectID{domain.EffectTrap}, combat.effects)
	assert.Len(t, stash.HeldBy(ref), 1)
	assert.Empty(t, stash.At(at))
}

func TestStaggerMovesRandomly(t *testing.T) {
	w := newTestWorld(t, 10, 10)
	placePlayer(t, w, 0, 0)
	ref, a := spawn(t, w, goblinRace, 5, 5)
	// ddd[3] = 4: на запад, направление решения игнорируется
	w.RNG = &scriptRNG{vals: []int{3}}

	assert.Equal(t, OutcomeMoved, w.ExecuteMove(ref, a, east(), InnateStagger))
	assert.Equal(t, gruid.Point{X: 4, Y: 5}, a.Grid)
}
