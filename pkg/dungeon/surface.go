package dungeon

import (
	"dungeon-core/internal/domain"
	"dungeon-core/pkg/utils"

	"codeberg.org/anaseto/gruid"
)

// GenerateSurface создает "домашний" уровень (поверхность): открытое поле
// с рощами и прудом, лестница вниз в центре.
func GenerateSurface(width, height int, rng utils.RNG) Layout {
	lvl := domain.NewLevel(width, height, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			isBoundary := x == 0 || y == 0 || x == width-1 || y == height-1
			if isBoundary {
				lvl.Set(gruid.Point{X: x, Y: y}, domain.TerrainPermWall)
			}
		}
	}

	center := gruid.Point{X: width / 2, Y: height / 2}
	scatter := func(n int, cell func(gruid.Point)) {
		for i := 0; i < n; i++ {
			p := gruid.Point{X: 1 + rng.Int0(width-2), Y: 1 + rng.Int0(height-2)}
			if domain.Distance(p, center) > 2 {
				cell(p)
			}
		}
	}
	scatter(width*height/20, func(p gruid.Point) { lvl.Set(p, domain.TerrainTree) })

	// Пруд в углу
	pond := gruid.Point{X: width / 4, Y: height / 4}
	for dy := -1; dy <= 1; dy++ {
		for dx := -2; dx <= 2; dx++ {
			lvl.Set(pond.Shift(dx, dy), domain.TerrainWater)
		}
	}

	lvl.Set(center, domain.TerrainFloor)
	lvl.SetStairs(center)
	start := center.Shift(0, 2)
	lvl.Set(start, domain.TerrainFloor)

	layout := Layout{Level: lvl, Start: start}
	// Пес фермера бродит по полю
	dog := gruid.Point{X: width - 3, Y: height - 3}
	if lvl.At(dog) != domain.TerrainFloor {
		lvl.Set(dog, domain.TerrainFloor)
	}
	layout.Spawns = append(layout.Spawns, Spawn{Key: "grip", Grid: dog})
	return layout
}
