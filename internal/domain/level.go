package domain

import (
	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/rl"
)

// Классы местности.
const (
	TerrainFloor rl.Cell = iota
	TerrainWall
	TerrainPermWall
	TerrainRubble
	TerrainDoorClosed
	TerrainDoorOpen
	TerrainDoorBroken
	TerrainWater
	TerrainLava
	TerrainTree
	TerrainChasm
)

var terrainNames = map[rl.Cell]string{
	TerrainFloor:      "floor",
	TerrainWall:       "granite wall",
	TerrainPermWall:   "permanent wall",
	TerrainRubble:     "rubble",
	TerrainDoorClosed: "closed door",
	TerrainDoorOpen:   "open door",
	TerrainDoorBroken: "broken door",
	TerrainWater:      "water",
	TerrainLava:       "lava",
	TerrainTree:       "tree",
	TerrainChasm:      "chasm",
}

// TerrainName - имя класса для логов.
func TerrainName(c rl.Cell) string {
	if s, ok := terrainNames[c]; ok {
		return s
	}
	return "unknown"
}

// TerrainOp - мутация местности, которую может вызвать движение.
type TerrainOp uint8

const (
	OpOpenDoor TerrainOp = iota
	OpBashDoor
	OpDestroyWall
	OpSmashWalls
)

// Level - один уровень подземелья: местность и наложенные на нее
// ловушки, обереги и приманки. Сущности здесь не хранятся, их занятость
// ведет реестр.
type Level struct {
	Depth  int
	Width  int
	Height int

	Terrain rl.Grid

	locks  map[gruid.Point]int
	traps  map[gruid.Point]bool
	wards  map[gruid.Point]bool
	decoys map[gruid.Point]bool
	rooms  []bool

	stairs    gruid.Point
	hasStairs bool

	version uint64
}

// NewLevel создает уровень, залитый полом.
func NewLevel(w, h, depth int) *Level {
	lvl := &Level{
		Depth:   depth,
		Width:   w,
		Height:  h,
		Terrain: rl.NewGrid(w, h),
		locks:   make(map[gruid.Point]int),
		traps:   make(map[gruid.Point]bool),
		wards:   make(map[gruid.Point]bool),
		decoys:  make(map[gruid.Point]bool),
		rooms:   make([]bool, w*h),
	}
	lvl.Terrain.Fill(TerrainFloor)
	return lvl
}

func (l *Level) Range() gruid.Range {
	return gruid.NewRange(0, 0, l.Width, l.Height)
}

func (l *Level) index(p gruid.Point) int {
	return p.Y*l.Width + p.X
}

// InBounds - клетка внутри карты.
func (l *Level) InBounds(p gruid.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < l.Width && p.Y < l.Height
}

// InBoundsFully - клетка внутри карты и не на ее краю.
func (l *Level) InBoundsFully(p gruid.Point) bool {
	return p.X > 0 && p.Y > 0 && p.X < l.Width-1 && p.Y < l.Height-1
}

// At возвращает класс местности; за пределами карты - постоянная стена.
func (l *Level) At(p gruid.Point) rl.Cell {
	if !l.InBounds(p) {
		return TerrainPermWall
	}
	return l.Terrain.At(p)
}

func (l *Level) Set(p gruid.Point, c rl.Cell) {
	if !l.InBounds(p) {
		return
	}
	l.Terrain.Set(p, c)
	if c != TerrainDoorClosed {
		delete(l.locks, p)
	}
	l.version++
}

// Version растет при каждом изменении местности. По нему наблюдатели
// понимают, что кэш поля зрения устарел.
func (l *Level) Version() uint64 {
	return l.version
}

// Passable - по клетке можно идти (с учетом правил класса местности).
func (l *Level) Passable(p gruid.Point) bool {
	switch l.At(p) {
	case TerrainFloor, TerrainDoorOpen, TerrainDoorBroken,
		TerrainWater, TerrainLava, TerrainTree, TerrainChasm:
		return true
	}
	return false
}

// Projectable - клетка не загораживает линию видимости.
func (l *Level) Projectable(p gruid.Point) bool {
	switch l.At(p) {
	case TerrainWall, TerrainPermWall, TerrainRubble, TerrainDoorClosed:
		return false
	}
	return true
}

func (l *Level) IsWall(p gruid.Point) bool {
	c := l.At(p)
	return c == TerrainWall || c == TerrainPermWall
}

func (l *Level) IsPermanent(p gruid.Point) bool {
	return l.At(p) == TerrainPermWall
}

func (l *Level) IsClosedDoor(p gruid.Point) bool {
	return l.At(p) == TerrainDoorClosed
}

// NoisePassable - звук проходит через двери, но не через камень.
func (l *Level) NoisePassable(p gruid.Point) bool {
	switch l.At(p) {
	case TerrainWall, TerrainPermWall, TerrainRubble:
		return false
	}
	return true
}

// ScentPassable - запах, в отличие от звука, закрытая дверь задерживает.
func (l *Level) ScentPassable(p gruid.Point) bool {
	return l.NoisePassable(p) && !l.IsClosedDoor(p)
}

// Damaging - клетка наносит урон стоящему на ней.
func (l *Level) Damaging(p gruid.Point) bool {
	return l.At(p) == TerrainLava
}

// LockPower - сила замка закрытой двери, 0 если не заперта.
func (l *Level) LockPower(p gruid.Point) int {
	return l.locks[p]
}

// SetLock запирает закрытую дверь. power <= 0 отпирает.
func (l *Level) SetLock(p gruid.Point, power int) {
	if power <= 0 || !l.IsClosedDoor(p) {
		delete(l.locks, p)
		return
	}
	l.locks[p] = power
}

// Mutate применяет изменение местности. Возвращает false, если операция к
// клетке неприменима.
func (l *Level) Mutate(p gruid.Point, op TerrainOp) bool {
	switch op {
	case OpOpenDoor:
		if !l.IsClosedDoor(p) {
			return false
		}
		l.Set(p, TerrainDoorOpen)
	case OpBashDoor:
		if !l.IsClosedDoor(p) {
			return false
		}
		l.Set(p, TerrainDoorBroken)
	case OpDestroyWall:
		switch l.At(p) {
		case TerrainWall, TerrainRubble, TerrainDoorClosed, TerrainDoorOpen, TerrainDoorBroken:
			l.Set(p, TerrainFloor)
		default:
			return false
		}
	case OpSmashWalls:
		changed := false
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				q := p.Shift(dx, dy)
				if l.InBoundsFully(q) && l.Mutate(q, OpDestroyWall) {
					changed = true
				}
			}
		}
		return changed
	default:
		return false
	}
	return true
}

func (l *Level) IsRoom(p gruid.Point) bool {
	return l.InBounds(p) && l.rooms[l.index(p)]
}

func (l *Level) SetRoom(p gruid.Point, room bool) {
	if l.InBounds(p) {
		l.rooms[l.index(p)] = room
	}
}

// --- Наложения: ловушки, обереги, приманки ---

func (l *Level) Trap(p gruid.Point) bool  { return l.traps[p] }
func (l *Level) Ward(p gruid.Point) bool  { return l.wards[p] }
func (l *Level) Decoy(p gruid.Point) bool { return l.decoys[p] }

func (l *Level) SetTrap(p gruid.Point, on bool)  { setOverlay(l.traps, p, on) }
func (l *Level) SetWard(p gruid.Point, on bool)  { setOverlay(l.wards, p, on) }
func (l *Level) SetDecoy(p gruid.Point, on bool) { setOverlay(l.decoys, p, on) }

func setOverlay(m map[gruid.Point]bool, p gruid.Point, on bool) {
	if on {
		m[p] = true
		return
	}
	delete(m, p)
}

// SetStairs ставит лестницу вниз. Лестница одна на уровень.
func (l *Level) SetStairs(p gruid.Point) {
	l.stairs, l.hasStairs = p, l.InBounds(p)
}

// Stairs возвращает клетку лестницы вниз, если она есть.
func (l *Level) Stairs() (gruid.Point, bool) {
	return l.stairs, l.hasStairs
}

// IsStairs - на клетке лестница.
func (l *Level) IsStairs(p gruid.Point) bool {
	return l.hasStairs && l.stairs == p
}
