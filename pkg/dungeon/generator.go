package dungeon

import (
	"dungeon-core/pkg/utils"
)

// Константы генерации
const (
	MapWidth  = 48
	MapHeight = 24
	MaxRooms  = 9
	MinSize   = 4
	MaxSize   = 10
)

// Generate - стандартный рецепт уровня подземелья.
func Generate(depth, width, height, monsters int, rng utils.RNG) Layout {
	return NewLevel(depth, rng).
		WithSize(width, height).
		WithRooms(MaxRooms).
		WithDoors(70, 25).
		WithFeatures(4+depth).
		PlaceExit().
		WithTraps(2+depth/2, 1, 1).
		SpawnMonsters(monsters+depth).
		SpawnItem(FloorItems[rng.Int0(len(FloorItems))], 3).
		SpawnItem(FloorItems[rng.Int0(len(FloorItems))], 2).
		Build()
}
