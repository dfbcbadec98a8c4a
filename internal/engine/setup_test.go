package engine

import (
	"os"
	"testing"

	"dungeon-core/internal/config"
	"dungeon-core/internal/domain"
	"dungeon-core/internal/systems"
	"dungeon-core/pkg/logger"
	"dungeon-core/pkg/utils"

	"codeberg.org/anaseto/gruid"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()

	os.Exit(m.Run())
}

var (
	heroRace    = &domain.Race{Name: "hero", Speed: domain.NormalSpeed}
	sleeperRace = &domain.Race{Name: "sleeper", Level: 1, Speed: domain.NormalSpeed}
)

// newSchedWorld - открытый уровень, игрок в углу с нулевой энергией.
// opts правят конфигурацию до создания мира.
func newSchedWorld(t *testing.T, w, h int, opts ...func(cfg *config.Config)) *systems.World {
	t.Helper()
	cfg := config.Default()
	for _, o := range opts {
		o(cfg)
	}
	world := systems.NewWorld(cfg, domain.NewLevel(w, h, 1), utils.NewRand(7))
	world.Notify = &domain.EventLog{}
	_, err := world.Actors.PlacePlayer(domain.Actor{
		Race:  heroRace,
		Grid:  gruid.Point{X: 0, Y: 0},
		HP:    100,
		MaxHP: 100,
		Speed: domain.NormalSpeed,
	})
	require.NoError(t, err)
	world.Player().Energy = 0
	return world
}

// spawnSleeper ставит монстра, который спит "вечно": планировщик его
// активирует, но он ничего не делает.
func spawnSleeper(t *testing.T, w *systems.World, x, y, speed int) (domain.ActorRef, *domain.Actor) {
	t.Helper()
	a := domain.Actor{Race: sleeperRace, Grid: gruid.Point{X: x, Y: y}, HP: 10, MaxHP: 10, Speed: speed}
	a.Timed[domain.TimedSleep] = 1 << 20
	ref := w.SpawnMonster(a)
	require.False(t, ref.IsNil())
	m := w.Actors.Get(ref)
	m.Energy = 0
	return ref, m
}

// alwaysAct - игрок тратит ровно один ход на каждое действие.
func alwaysAct(w *systems.World) int {
	return w.Cfg.Scheduler.MoveEnergy
}

type countingHousekeeper struct {
	turns []int64
}

func (h *countingHousekeeper) ProcessWorld(turn int64) {
	h.turns = append(h.turns, turn)
}

type countingLevels struct {
	calls int
}

func (l *countingLevels) ChangeLevel() {
	l.calls++
}
