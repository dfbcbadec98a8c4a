package engine

import (
	"dungeon-core/internal/domain"
	"dungeon-core/internal/systems"
	"dungeon-core/pkg/dungeon"
	"dungeon-core/pkg/logger"

	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
)

// populate расселяет монстров и раскладывает предметы из раскладки уровня.
// Игрок к этому моменту уже стоит на уровне. Возвращает число монстров.
func populate(w *systems.World, stash *systems.Stash, layout dungeon.Layout) int {
	log := logger.For("world_builder")
	spawned := 0

	for _, sp := range layout.Spawns {
		tmpl, ok := dungeon.Bestiary[sp.Key]
		if !ok {
			log.WithField("key", sp.Key).Warn("Unknown bestiary key")
			continue
		}

		leader := spawnFromTemplate(w, stash, tmpl, sp.Grid)
		if leader.IsNil() {
			continue
		}
		spawned++

		if sp.PackSize == 0 && tmpl.Bodyguards == 0 {
			continue
		}
		group := w.Actors.NewGroup(leader)
		join := func(n int, role domain.GroupRole) {
			for i := 0; i < n; i++ {
				at, ok := freeNear(w, sp.Grid)
				if !ok {
					return
				}
				ref := spawnFromTemplate(w, stash, tmpl, at)
				if ref.IsNil() {
					return
				}
				w.Actors.Join(group, ref, role)
				spawned++
			}
		}
		join(sp.PackSize-1, domain.RoleMember)
		join(tmpl.Bodyguards, domain.RoleBodyguard)
	}

	for _, it := range layout.Items {
		stash.Drop(it.Name, it.Grid)
	}

	log.WithFields(logrus.Fields{
		"depth":    layout.Level.Depth,
		"monsters": spawned,
		"items":    len(layout.Items),
	}).Info("Level populated")
	return spawned
}

// spawnFromTemplate создает монстра по записи бестиария. Монстр спит
// тем крепче, чем выше сон его расы.
func spawnFromTemplate(w *systems.World, stash *systems.Stash, tmpl dungeon.RaceTemplate, at gruid.Point) domain.ActorRef {
	a := domain.Actor{
		Race:  tmpl.Race,
		Grid:  at,
		HP:    tmpl.HP,
		MaxHP: tmpl.HP,
		Speed: tmpl.Race.Speed,
	}
	if s := tmpl.Race.Sleep; s > 0 {
		a.Timed[domain.TimedSleep] = 2*s + w.RNG.Int1(10*s)
	}

	ref := w.SpawnMonster(a)
	if ref.IsNil() {
		return ref
	}
	for _, name := range tmpl.Loot {
		it := stash.Drop(name, at)
		it.Holder = ref
	}
	return ref
}

// freeNear ищет свободную проходимую клетку вокруг p, кольцами до 3.
func freeNear(w *systems.World, p gruid.Point) (gruid.Point, bool) {
	for r := 1; r <= 3; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				q := p.Shift(dx, dy)
				if !w.Level.InBounds(q) || !w.Level.Passable(q) || w.Level.Damaging(q) {
					continue
				}
				if w.Actors.OccupantAt(q) == 0 {
					return q, true
				}
			}
		}
	}
	return gruid.Point{}, false
}
