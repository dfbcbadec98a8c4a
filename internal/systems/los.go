package systems

import (
	"dungeon-core/internal/domain"
	"dungeon-core/pkg/logger"

	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
)

// HasLineOfSight проверяет прямую видимость между двумя точками.
// Использует алгоритм Брезенхэма (только целочисленная арифметика).
// Стартовая и конечная клетки препятствиями не считаются.
func HasLineOfSight(lvl *domain.Level, p1, p2 gruid.Point) bool {
	blocked := false
	walkLine(p1, p2, func(p gruid.Point) bool {
		if p == p1 || p == p2 {
			return true
		}
		if !lvl.InBounds(p) || !lvl.Projectable(p) {
			blocked = true
			if logger.Log.IsLevelEnabled(logrus.TraceLevel) {
				logger.Log.WithFields(logrus.Fields{
					"component":      "physics_system",
					"start_pos":      p1,
					"end_pos":        p2,
					"blocking_point": p,
				}).Trace("Line of sight blocked")
			}
			return false
		}
		return true
	})
	return !blocked
}

// NearPermanentWall - на прямой к цели (не дальше maxDist клеток) есть
// постоянная стена. Используется проходящими сквозь стены, чтобы понять,
// что напрямую не пройти.
func NearPermanentWall(lvl *domain.Level, from, to gruid.Point, maxDist int) bool {
	found := false
	steps := 0
	walkLine(from, to, func(p gruid.Point) bool {
		if p == from {
			return true
		}
		steps++
		if steps > maxDist || p == to {
			return false
		}
		if lvl.IsPermanent(p) {
			found = true
			return false
		}
		return true
	})
	return found
}

// walkLine обходит клетки отрезка по Брезенхэму, пока visit возвращает true.
func walkLine(p1, p2 gruid.Point, visit func(gruid.Point) bool) {
	x0, y0 := p1.X, p1.Y
	x1, y1 := p2.X, p2.Y

	dx, sx := x1-x0, 1
	if dx < 0 {
		dx, sx = -dx, -1
	}
	dy, sy := y1-y0, 1
	if dy < 0 {
		dy, sy = -dy, -1
	}

	err := dx - dy
	for {
		if !visit(gruid.Point{X: x0, Y: y0}) {
			return
		}
		if x0 == x1 && y0 == y1 {
			return
		}

		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}
