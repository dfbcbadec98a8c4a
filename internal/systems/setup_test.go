package systems

import (
	"os"
	"testing"

	"dungeon-core/internal/config"
	"dungeon-core/internal/domain"
	"dungeon-core/pkg/logger"
	"dungeon-core/pkg/utils"

	"codeberg.org/anaseto/gruid"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()

	// Exit with the result of the tests
	os.Exit(m.Run())
}

var (
	heroRace   = &domain.Race{Name: "hero", Speed: domain.NormalSpeed}
	goblinRace = &domain.Race{Name: "goblin", Level: 2, Speed: domain.NormalSpeed, Hearing: 20, Smell: 20, Experience: 5}
	ogreRace   = &domain.Race{Name: "ogre", Level: 15, Speed: domain.NormalSpeed, Hearing: 20, Experience: 50,
		Caps: domain.Caps(domain.CapKillBody, domain.CapOpenDoor, domain.CapBashDoor)}
	jackalRace = &domain.Race{Name: "jackal", Level: 1, Speed: domain.NormalSpeed, Hearing: 20, Smell: 30, Experience: 1,
		Caps: domain.Caps(domain.CapGroupAI, domain.CapAnimal)}
)

// worldOpt правит конфигурацию до создания мира.
type worldOpt func(cfg *config.Config)

// newTestWorld - открытый уровень w×h, залитый полом.
func newTestWorld(t *testing.T, w, h int, opts ...worldOpt) *World {
	t.Helper()
	cfg := config.Default()
	for _, o := range opts {
		o(cfg)
	}
	world := NewWorld(cfg, domain.NewLevel(w, h, 1), utils.NewRand(42))
	world.Notify = &domain.EventLog{}
	return world
}

// events возвращает журнал событий тестового мира.
func events(w *World) *domain.EventLog {
	return w.Notify.(*domain.EventLog)
}

func placePlayer(t *testing.T, w *World, x, y int) *domain.Actor {
	t.Helper()
	_, err := w.Actors.PlacePlayer(domain.Actor{
		Race:  heroRace,
		Grid:  gruid.Point{X: x, Y: y},
		HP:    100,
		MaxHP: 100,
		Speed: domain.NormalSpeed,
		Level: 10,
	})
	require.NoError(t, err)
	return w.Player()
}

func spawn(t *testing.T, w *World, race *domain.Race, x, y int) (domain.ActorRef, *domain.Actor) {
	t.Helper()
	ref := w.SpawnMonster(domain.Actor{Race: race, Grid: gruid.Point{X: x, Y: y}, HP: 20, MaxHP: 20})
	require.False(t, ref.IsNil(), "spawn at %d,%d failed", x, y)
	return ref, w.Actors.Get(ref)
}

// fillWalls заливает уровень гранитом, carve прорубает прямоугольник пола.
func fillWalls(lvl *domain.Level) {
	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			lvl.Set(gruid.Point{X: x, Y: y}, domain.TerrainWall)
		}
	}
}

func carve(lvl *domain.Level, x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			lvl.Set(gruid.Point{X: x, Y: y}, domain.TerrainFloor)
		}
	}
}

// checkOccupancy - никакие две сущности не стоят в одной клетке.
func checkOccupancy(t *testing.T, w *World) {
	t.Helper()
	seen := make(map[gruid.Point]int)
	for i := domain.PlayerIndex; i < w.Actors.Max(); i++ {
		a := w.Actors.At(i)
		if a == nil {
			continue
		}
		prev, dup := seen[a.Grid]
		require.False(t, dup, "actors %d and %d share %v", prev, i, a.Grid)
		seen[a.Grid] = i
		require.Equal(t, i, w.Actors.OccupantAt(a.Grid))
	}
}

// scriptRNG отдает заранее заданные значения, дальше нули.
type scriptRNG struct {
	vals []int
}

func (s *scriptRNG) next() int {
	if len(s.vals) == 0 {
		return 0
	}
	v := s.vals[0]
	s.vals = s.vals[1:]
	return v
}

func (s *scriptRNG) Int0(n int) int {
	if n <= 0 {
		return 0
	}
	return s.next() % n
}

func (s *scriptRNG) Int1(n int) int {
	if n <= 0 {
		return 0
	}
	return s.next()%n + 1
}

func (s *scriptRNG) OneIn(n int) bool {
	return s.Int0(n) == 0
}
