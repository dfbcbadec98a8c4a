package systems

import (
	"dungeon-core/internal/domain"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
)

// Heatmap - поле распространения звука или запаха от одного источника.
// 0 значит "не дошло", источник имеет значение 1, каждый шаг добавляет 1.
type Heatmap struct {
	width, height int
	cells         []uint16
	origin        gruid.Point
}

// At возвращает значение в клетке, 0 за пределами карты.
func (m *Heatmap) At(p gruid.Point) int {
	if m == nil || p.X < 0 || p.Y < 0 || p.X >= m.width || p.Y >= m.height {
		return 0
	}
	return int(m.cells[p.Y*m.width+p.X])
}

// Origin - клетка источника на момент расчета.
func (m *Heatmap) Origin() gruid.Point {
	return m.origin
}

// flowPather - соседи по восьми направлениям через проходимые клетки.
type flowPather struct {
	passable func(gruid.Point) bool
	nbs      paths.Neighbors
}

func (fp *flowPather) Neighbors(p gruid.Point) []gruid.Point {
	return fp.nbs.All(p, fp.passable)
}

// computeHeatmap заливает карту от источника поиском в ширину, не дальше
// depth шагов.
func computeHeatmap(pr *paths.PathRange, lvl *domain.Level, passable func(gruid.Point) bool, src gruid.Point, depth int) *Heatmap {
	m := &Heatmap{
		width:  lvl.Width,
		height: lvl.Height,
		cells:  make([]uint16, lvl.Width*lvl.Height),
		origin: src,
	}
	if !lvl.InBounds(src) {
		return m
	}

	fp := &flowPather{passable: func(p gruid.Point) bool {
		return lvl.InBounds(p) && passable(p)
	}}
	for _, n := range pr.BreadthFirstMap(fp, []gruid.Point{src}, depth) {
		m.cells[n.P.Y*m.width+n.P.X] = uint16(n.Cost + 1)
	}
	m.cells[src.Y*m.width+src.X] = 1
	return m
}
