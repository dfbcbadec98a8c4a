package dungeon

import (
	"dungeon-core/internal/domain"
	"dungeon-core/pkg/utils"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/rl"
)

// Rect - Вспомогательная структура для комнаты
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() gruid.Point {
	return gruid.Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// Spawn - монстр, которого надо поставить на уровень.
type Spawn struct {
	Key      string
	Grid     gruid.Point
	PackSize int
}

// ItemDrop - предмет на полу.
type ItemDrop struct {
	Name string
	Grid gruid.Point
}

// Layout - результат генерации: местность, старт, монстры и предметы.
type Layout struct {
	Level  *domain.Level
	Start  gruid.Point
	Rooms  []Rect
	Spawns []Spawn
	Items  []ItemDrop
}

func createRoom(lvl *domain.Level, room Rect) {
	for y := room.Y + 1; y < room.Y+room.H; y++ {
		for x := room.X + 1; x < room.X+room.W; x++ {
			p := gruid.Point{X: x, Y: y}
			lvl.Set(p, domain.TerrainFloor)
			lvl.SetRoom(p, true)
		}
	}
}

// carveCorridor прорубает коридор, не трогая пол комнат.
func carveCorridor(lvl *domain.Level, p gruid.Point) {
	if lvl.IsWall(p) {
		lvl.Set(p, domain.TerrainFloor)
	}
}

func createHCorridor(lvl *domain.Level, x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		carveCorridor(lvl, gruid.Point{X: x, Y: y})
	}
}

func createVCorridor(lvl *domain.Level, y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		carveCorridor(lvl, gruid.Point{X: x, Y: y})
	}
}

func (b *LevelBuilder) randRange(lo, hi int) int {
	return lo + b.rng.Int0(hi-lo+1)
}

// LevelBuilder предоставляет fluent API для создания уровней
type LevelBuilder struct {
	depth  int
	width  int
	height int
	rooms  []Rect
	lvl    *domain.Level
	spawns []Spawn
	items  []ItemDrop
	taken  map[gruid.Point]bool
	rng    utils.RNG
}

// NewLevel создает новый builder для уровня
func NewLevel(depth int, rng utils.RNG) *LevelBuilder {
	return &LevelBuilder{
		depth:  depth,
		width:  MapWidth,
		height: MapHeight,
		taken:  make(map[gruid.Point]bool),
		rng:    rng,
	}
}

// WithSize устанавливает размер карты
func (b *LevelBuilder) WithSize(width, height int) *LevelBuilder {
	b.width = width
	b.height = height
	return b
}

// fillRock заливает карту гранитом с постоянной рамкой по краю.
func (b *LevelBuilder) fillRock() {
	b.lvl = domain.NewLevel(b.width, b.height, b.depth)
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			p := gruid.Point{X: x, Y: y}
			if x == 0 || y == 0 || x == b.width-1 || y == b.height-1 {
				b.lvl.Set(p, domain.TerrainPermWall)
			} else {
				b.lvl.Set(p, domain.TerrainWall)
			}
		}
	}
}

// WithRooms генерирует комнаты и коридоры
func (b *LevelBuilder) WithRooms(maxRooms int) *LevelBuilder {
	b.fillRock()

	b.rooms = make([]Rect, 0, maxRooms)
	for i := 0; i < maxRooms; i++ {
		w := b.randRange(MinSize, MaxSize)
		h := b.randRange(MinSize, MaxSize)
		if w >= b.width-2 || h >= b.height-2 {
			continue
		}
		x := b.randRange(1, b.width-w-2)
		y := b.randRange(1, b.height-h-2)

		newRoom := Rect{X: x, Y: y, W: w, H: h}

		// Проверяем пересечения
		failed := false
		for _, other := range b.rooms {
			if newRoom.Intersects(other) {
				failed = true
				break
			}
		}
		if failed {
			continue
		}

		createRoom(b.lvl, newRoom)

		// Соединяем с предыдущей комнатой
		if len(b.rooms) > 0 {
			prev := b.rooms[len(b.rooms)-1].Center()
			curr := newRoom.Center()

			if b.rng.OneIn(2) {
				createHCorridor(b.lvl, prev.X, curr.X, prev.Y)
				createVCorridor(b.lvl, prev.Y, curr.Y, curr.X)
			} else {
				createVCorridor(b.lvl, prev.Y, curr.Y, prev.X)
				createHCorridor(b.lvl, prev.X, curr.X, curr.Y)
			}
		}
		b.rooms = append(b.rooms, newRoom)
	}

	return b
}

// isDoorway - коридорная клетка на границе комнаты: стены по одной оси,
// проход по другой.
func (b *LevelBuilder) isDoorway(p gruid.Point) bool {
	lvl := b.lvl
	if lvl.At(p) != domain.TerrainFloor || lvl.IsRoom(p) {
		return false
	}
	roomNear := false
	for _, d := range []gruid.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
		if lvl.IsRoom(p.Add(d)) {
			roomNear = true
		}
	}
	if !roomNear {
		return false
	}
	horiz := lvl.IsWall(p.Shift(0, -1)) && lvl.IsWall(p.Shift(0, 1))
	vert := lvl.IsWall(p.Shift(-1, 0)) && lvl.IsWall(p.Shift(1, 0))
	return horiz != vert
}

// WithDoors ставит двери во входы в комнаты. chance - процент входов с
// дверью, lockChance - процент запертых из них.
func (b *LevelBuilder) WithDoors(chance, lockChance int) *LevelBuilder {
	if b.lvl == nil {
		return b
	}
	for y := 1; y < b.height-1; y++ {
		for x := 1; x < b.width-1; x++ {
			p := gruid.Point{X: x, Y: y}
			if !b.isDoorway(p) || b.rng.Int0(100) >= chance {
				continue
			}
			b.lvl.Set(p, domain.TerrainDoorClosed)
			if b.rng.Int0(100) < lockChance {
				b.lvl.SetLock(p, b.randRange(1, 3+b.depth/3))
			}
		}
	}
	return b
}

// WithFeatures разбрасывает по комнатам воду, щебень, деревья и (глубже
// второго уровня) лаву. Первая комната остается чистой для старта.
func (b *LevelBuilder) WithFeatures(patches int) *LevelBuilder {
	if len(b.rooms) < 2 {
		return b
	}
	kinds := []struct {
		cell     rl.Cell
		minDepth int
	}{
		{domain.TerrainWater, 0},
		{domain.TerrainRubble, 0},
		{domain.TerrainTree, 0},
		{domain.TerrainLava, 3},
	}
	for i := 0; i < patches; i++ {
		k := kinds[b.rng.Int0(len(kinds))]
		if k.minDepth > b.depth {
			k = kinds[0]
		}
		room := b.rooms[1+b.rng.Int0(len(b.rooms)-1)]
		at := b.randomCellIn(room)
		size := b.randRange(1, 4)
		for j := 0; j < size; j++ {
			if b.lvl.IsRoom(at) && !b.taken[at] {
				b.lvl.Set(at, k.cell)
			}
			at = at.Add(gruid.Point{X: b.randRange(-1, 1), Y: b.randRange(-1, 1)})
		}
	}
	return b
}

// WithTraps прячет ловушки, обереги и приманки в коридорах и комнатах.
func (b *LevelBuilder) WithTraps(traps, wards, decoys int) *LevelBuilder {
	place := func(n int, set func(gruid.Point, bool)) {
		for i := 0; i < n && len(b.rooms) > 1; i++ {
			p, ok := b.freeFloor(b.rooms[1+b.rng.Int0(len(b.rooms)-1)])
			if !ok {
				continue
			}
			set(p, true)
			b.taken[p] = true
		}
	}
	place(traps, b.lvl.SetTrap)
	place(wards, b.lvl.SetWard)
	place(decoys, b.lvl.SetDecoy)
	return b
}

func (b *LevelBuilder) randomCellIn(room Rect) gruid.Point {
	return gruid.Point{
		X: room.X + 1 + b.rng.Int0(max(1, room.W-1)),
		Y: room.Y + 1 + b.rng.Int0(max(1, room.H-1)),
	}
}

// freeFloor ищет свободную клетку пола в комнате (макс 20 попыток).
func (b *LevelBuilder) freeFloor(room Rect) (gruid.Point, bool) {
	for attempt := 0; attempt < 20; attempt++ {
		p := b.randomCellIn(room)
		if b.lvl.At(p) == domain.TerrainFloor && !b.taken[p] && !b.lvl.Trap(p) {
			return p, true
		}
	}
	return gruid.Point{}, false
}

// SpawnMonsters ставит count монстров подходящей глубины в случайные
// комнаты, кроме первой.
func (b *LevelBuilder) SpawnMonsters(count int) *LevelBuilder {
	keys := Eligible(b.depth)
	if len(keys) == 0 {
		return b
	}
	for i := 0; i < count; i++ {
		b.SpawnEnemy(keys[b.rng.Int0(len(keys))], 1)
	}
	return b
}

// SpawnEnemy спавнит врага из шаблона
func (b *LevelBuilder) SpawnEnemy(key string, count int) *LevelBuilder {
	tmpl, ok := Bestiary[key]
	if !ok {
		return b
	}

	for i := 0; i < count && len(b.rooms) > 1; i++ {
		room := b.rooms[1+b.rng.Int0(len(b.rooms)-1)]
		p, ok := b.freeFloor(room)
		if !ok {
			continue
		}
		b.taken[p] = true
		b.spawns = append(b.spawns, Spawn{Key: key, Grid: p, PackSize: tmpl.Pack})
		if tmpl.Race.Has(domain.CapMimic) {
			b.items = append(b.items, ItemDrop{Name: "chest", Grid: p})
		}
	}
	return b
}

// SpawnItem спавнит предметы из шаблона
func (b *LevelBuilder) SpawnItem(name string, count int) *LevelBuilder {
	for i := 0; i < count && len(b.rooms) > 0; i++ {
		p, ok := b.freeFloor(b.rooms[b.rng.Int0(len(b.rooms))])
		if !ok {
			continue // Пропускаем этот предмет, если не нашли место
		}
		b.items = append(b.items, ItemDrop{Name: name, Grid: p})
	}
	return b
}

// PlaceExit ставит лестницу вниз в последнюю комнату.
func (b *LevelBuilder) PlaceExit() *LevelBuilder {
	if len(b.rooms) == 0 {
		return b
	}
	p := b.rooms[len(b.rooms)-1].Center()
	b.lvl.Set(p, domain.TerrainFloor)
	b.lvl.SetStairs(p)
	b.taken[p] = true
	return b
}

// GetStartPos возвращает стартовую позицию (центр первой комнаты)
func (b *LevelBuilder) GetStartPos() gruid.Point {
	if len(b.rooms) > 0 {
		return b.rooms[0].Center()
	}
	return gruid.Point{X: b.width / 2, Y: b.height / 2}
}

// Build собирает и возвращает готовый уровень
func (b *LevelBuilder) Build() Layout {
	if b.lvl == nil {
		b.fillRock()
	}
	start := b.GetStartPos()
	b.lvl.Set(start, domain.TerrainFloor)
	return Layout{
		Level:  b.lvl,
		Start:  start,
		Rooms:  b.rooms,
		Spawns: b.spawns,
		Items:  b.items,
	}
}
