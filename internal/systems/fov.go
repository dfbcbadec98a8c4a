package systems

import (
	"dungeon-core/internal/domain"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/rl"
)

// PlayerView - поле зрения игрока. Пересчитывается лениво: при первом
// запросе после того, как игрок сдвинулся или изменилась местность.
type PlayerView struct {
	lvl      *domain.Level
	fov      *rl.FOV
	maxSight int

	visible []bool
	origin  gruid.Point
	version uint64
	valid   bool
}

func NewPlayerView(lvl *domain.Level, maxSight int) *PlayerView {
	v := &PlayerView{maxSight: maxSight}
	v.Reset(lvl)
	return v
}

// Reset выбрасывает кэш (смена уровня).
func (v *PlayerView) Reset(lvl *domain.Level) {
	v.lvl = lvl
	v.fov = rl.NewFOV(lvl.Range())
	v.visible = make([]bool, lvl.Width*lvl.Height)
	v.valid = false
}

// InView - клетка p видна из клетки from.
func (v *PlayerView) InView(from, p gruid.Point) bool {
	if !v.lvl.InBounds(p) {
		return false
	}
	v.refresh(from)
	return v.visible[p.Y*v.lvl.Width+p.X]
}

// Visible возвращает все видимые клетки (для отладки и клиента).
func (v *PlayerView) Visible(from gruid.Point) []gruid.Point {
	v.refresh(from)
	var pts []gruid.Point
	for i, ok := range v.visible {
		if ok {
			pts = append(pts, gruid.Point{X: i % v.lvl.Width, Y: i / v.lvl.Width})
		}
	}
	return pts
}

func (v *PlayerView) refresh(from gruid.Point) {
	if v.valid && v.origin == from && v.version == v.lvl.Version() {
		return
	}
	for i := range v.visible {
		v.visible[i] = false
	}

	passable := func(p gruid.Point) bool {
		return v.lvl.Projectable(p)
	}
	for _, p := range v.fov.SSCVisionMap(from, v.maxSight, passable, false) {
		if !v.lvl.InBounds(p) || domain.Distance(from, p) > v.maxSight {
			continue
		}
		v.visible[p.Y*v.lvl.Width+p.X] = true
	}
	if v.lvl.InBounds(from) {
		v.visible[from.Y*v.lvl.Width+from.X] = true
	}

	v.origin = from
	v.version = v.lvl.Version()
	v.valid = true
}
