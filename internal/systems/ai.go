package systems

import (
	"dungeon-core/internal/domain"

	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
)

// Stagger - причина случайного шага.
type Stagger uint8

const (
	NoStagger Stagger = iota
	ConfusedStagger
	InnateStagger
)

func (s Stagger) String() string {
	switch s {
	case ConfusedStagger:
		return "CONFUSED"
	case InnateStagger:
		return "INNATE"
	default:
		return "NONE"
	}
}

// StaggerChance возвращает (общий шанс, шанс из-за смятения) в процентах.
// Каждая ступень смятения сохраняет только (100-erratic)% точности,
// врожденная хаотичность добавляется сверху, итог не больше 100.
func StaggerChance(a *domain.Actor, erratic int) (int, int) {
	chance := 0
	for lvl := domain.EffectLevel(a.Timed[domain.TimedConf]); lvl > 0; lvl-- {
		accuracy := (100 - chance) * (100 - erratic) / 100
		chance = 100 - accuracy
	}
	confused := chance

	if a.Has(domain.CapRand25) {
		chance += 25
	}
	if a.Has(domain.CapRand50) {
		chance += 50
	}
	if chance > 100 {
		chance = 100
	}
	return chance, confused
}

// ShouldStagger бросает кубик на случайный шаг.
func (w *World) ShouldStagger(a *domain.Actor) Stagger {
	chance, confused := StaggerChance(a, w.Cfg.AI.ConfErraticChance)
	roll := w.RNG.Int0(100)
	switch {
	case roll >= chance:
		return NoStagger
	case roll < confused:
		return ConfusedStagger
	default:
		return InnateStagger
	}
}

// ChooseDirection переводит смещение в направление с учетом смещенных
// таблиц обхода (значения 10..19 - обход слева). Четность хода мира
// решает ничьи.
func ChooseDirection(offset gruid.Point, turn int64) int {
	dx, dy := offset.X, offset.Y
	ax, ay := abs(dx), abs(dy)
	even := turn%2 == 0

	var dir int
	switch {
	case ay > ax*2:
		// В основном по вертикали
		if dy > 0 {
			dir = 2
			if dx > 0 || (dx == 0 && even) {
				dir += 10
			}
		} else {
			dir = 8
			if dx < 0 || (dx == 0 && even) {
				dir += 10
			}
		}
	case ax > ay*2:
		// В основном по горизонтали
		if dx > 0 {
			dir = 6
			if dy < 0 || (dy == 0 && even) {
				dir += 10
			}
		} else {
			dir = 4
			if dy > 0 || (dy == 0 && even) {
				dir += 10
			}
		}
	case dy > 0:
		if dx > 0 {
			dir = 3
			if ay < ax || (ay == ax && even) {
				dir += 10
			}
		} else {
			dir = 1
			if ay > ax || (ay == ax && even) {
				dir += 10
			}
		}
	default:
		if dx > 0 {
			dir = 9
			if ay > ax || (ay == ax && even) {
				dir += 10
			}
		} else {
			dir = 7
			if ay < ax || (ay == ax && even) {
				dir += 10
			}
		}
	}
	return dir
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// MoveDecision - итог работы движка решений на один ход.
type MoveDecision struct {
	Dir      int  // строка таблицы SideDirs
	Tracking bool // направление выбрано по слуху или нюху
	Reason   string
}

// GetMove выбирает направление хода. false - разумного хода нет, ход
// пропадает.
//
// Порядок: оценка дистанции, телохранитель, наступление, спасение с
// опасной местности, засада стаи, бегство, окружение.
func (w *World) GetMove(ref domain.ActorRef, a *domain.Actor) (MoveDecision, bool) {
	target, ok := w.TargetGrid(a)
	if !ok {
		return MoveDecision{}, false
	}
	grid := target.Sub(a.Grid)
	groupAI := a.Has(domain.CapGroupAI)

	var dec MoveDecision
	done := false

	w.FindRange(ref, a)

	if a.Role == domain.RoleBodyguard && w.moveBodyguard(a) {
		grid = a.Goal.Sub(a.Grid)
		dec.Reason = "bodyguard"
		done = true
	}

	if !done {
		if found, tracking := w.advance(a); found {
			grid = a.Goal.Sub(a.Grid)
			dec.Tracking = tracking
			dec.Reason = "advance"
		}
	}

	if !done && w.TakingTerrainDamage(a) && w.findSafety(a, target) {
		w.flee(a)
		grid = a.Goal.Sub(a.Grid)
		dec.Reason = "escape terrain"
		done = true
	}

	// Стая выманивает цель из коридора
	if !done && groupAI && !a.PassesWalls() {
		threat := w.threatOf(a)
		if w.openAround(target) < w.Cfg.AI.CrowdedOpen && threat != nil && threat.HP > threat.MaxHP/2 {
			if w.findHiding(a, target) {
				grid = a.Goal.Sub(a.Grid)
				dec.Tracking = false
				dec.Reason = "ambush"
				done = true
			}
		}
	}

	if !done && w.Fleeing(a) {
		if w.findSafety(a, target) {
			w.flee(a)
			grid = a.Goal.Sub(a.Grid)
		} else {
			// Просто бежать прочь
			grid = gruid.Point{}.Sub(grid)
		}
		dec.Tracking = false
		dec.Reason = "flee"
		done = true
	}

	if !done && groupAI && w.InView(a.Grid) {
		fill := a.Grid.Add(grid)
		if domain.Distance(a.Grid, target) > 1 {
			// Занять свободную клетку рядом с целью
			tmp := w.RNG.Int0(8)
			for i := 0; i < 8; i++ {
				fill = target.Add(domain.DirOffset(domain.DDD[(tmp+i)%8]))
				if w.isEmpty(fill) {
					break
				}
			}
		}
		grid = fill.Sub(a.Grid)
		dec.Reason = "surround"
	}

	if grid == (gruid.Point{}) {
		return MoveDecision{}, false
	}
	dec.Dir = ChooseDirection(grid, w.Turn)

	if w.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		w.log.WithFields(logrus.Fields{
			"actor":     ref,
			"dir":       dec.Dir,
			"reason":    dec.Reason,
			"tracking":  dec.Tracking,
			"minRange":  a.MinRange,
			"bestRange": a.BestRange,
		}).Debug("Move chosen")
	}
	return dec, true
}
