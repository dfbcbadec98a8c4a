package domain

import "codeberg.org/anaseto/gruid"

// Направления нумеруются как на цифровой клавиатуре: 8 вверх, 2 вниз,
// 5 - на месте. Ось Y растет вниз.

// DDD - порядок перебора соседей: сначала кардинальные, потом диагонали.
var DDD = [8]int{2, 8, 6, 4, 3, 1, 9, 7}

var ddx = [10]int{0, -1, 0, 1, -1, 0, 1, -1, 0, 1}
var ddy = [10]int{0, 1, 1, 1, 0, 0, 0, -1, -1, -1}

// SideDirs - кандидаты хода для направления. Строки 0..9 смещены вправо,
// 10..19 влево. Исполнитель берет первые пять.
var SideDirs = [20][8]int{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{1, 4, 2, 7, 3, 8, 6, 9},
	{2, 1, 3, 4, 6, 7, 9, 8},
	{3, 2, 6, 1, 9, 4, 8, 7},
	{4, 7, 1, 8, 2, 9, 3, 6},
	{5, 5, 5, 5, 5, 5, 5, 5},
	{6, 3, 9, 2, 8, 1, 7, 4},
	{7, 8, 4, 9, 1, 6, 2, 3},
	{8, 9, 7, 6, 4, 3, 1, 2},
	{9, 6, 8, 3, 7, 2, 4, 1},

	{0, 0, 0, 0, 0, 0, 0, 0},
	{1, 2, 4, 3, 7, 6, 8, 9},
	{2, 3, 1, 6, 4, 9, 7, 8},
	{3, 6, 2, 9, 1, 8, 4, 7},
	{4, 1, 7, 2, 8, 3, 9, 6},
	{5, 5, 5, 5, 5, 5, 5, 5},
	{6, 9, 3, 8, 2, 7, 1, 4},
	{7, 4, 8, 1, 9, 2, 6, 3},
	{8, 7, 9, 4, 6, 1, 3, 2},
	{9, 8, 6, 7, 3, 4, 2, 1},
}

// DirOffset возвращает смещение для направления 0..9.
func DirOffset(dir int) gruid.Point {
	if dir < 0 || dir > 9 {
		return gruid.Point{}
	}
	return gruid.Point{X: ddx[dir], Y: ddy[dir]}
}

// DirOf - обратная операция: направление единичного смещения.
func DirOf(delta gruid.Point) int {
	for d := 1; d <= 9; d++ {
		if ddx[d] == delta.X && ddy[d] == delta.Y {
			return d
		}
	}
	return 0
}

// Distance - "игровое" расстояние: длинная ось плюс половина короткой.
func Distance(a, b gruid.Point) int {
	ay := abs(b.Y - a.Y)
	ax := abs(b.X - a.X)
	if ay > ax {
		return ay + (ax >> 1)
	}
	return ax + (ay >> 1)
}

// Adjacent - соседние клетки, включая диагональ.
func Adjacent(a, b gruid.Point) bool {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	return dx <= 1 && dy <= 1 && (dx != 0 || dy != 0)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// maxRing - самое дальнее кольцо, для которого заранее посчитаны смещения.
const maxRing = 20

var ringOffsets [maxRing + 1][]gruid.Point

func init() {
	for dy := -maxRing * 2; dy <= maxRing*2; dy++ {
		for dx := -maxRing * 2; dx <= maxRing*2; dx++ {
			d := Distance(gruid.Point{}, gruid.Point{X: dx, Y: dy})
			if d == 0 || d > maxRing {
				continue
			}
			ringOffsets[d] = append(ringOffsets[d], gruid.Point{X: dx, Y: dy})
		}
	}
}

// Ring возвращает смещения клеток ровно на расстоянии d (порядок построчный).
func Ring(d int) []gruid.Point {
	if d <= 0 || d > maxRing {
		return nil
	}
	return ringOffsets[d]
}
