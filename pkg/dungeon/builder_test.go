package dungeon

import (
	"testing"

	"dungeon-core/internal/domain"
	"dungeon-core/pkg/utils"

	"codeberg.org/anaseto/gruid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	layout := Generate(2, MapWidth, MapHeight, 8, utils.NewRand(7))
	lvl := layout.Level

	// 1. Проверка размеров мира
	require.NotNil(t, lvl)
	assert.Equal(t, MapWidth, lvl.Width)
	assert.Equal(t, MapHeight, lvl.Height)
	assert.Equal(t, 2, lvl.Depth)

	// 2. Рамка из постоянных стен
	for x := 0; x < lvl.Width; x++ {
		assert.True(t, lvl.IsPermanent(gruid.Point{X: x, Y: 0}))
		assert.True(t, lvl.IsPermanent(gruid.Point{X: x, Y: lvl.Height - 1}))
	}

	// 3. Игрок не должен появиться в стене
	assert.True(t, lvl.Passable(layout.Start), "start %v is blocked", layout.Start)

	// 4. Лестница есть и на нее можно встать
	stairs, ok := lvl.Stairs()
	require.True(t, ok, "level exit not placed")
	assert.True(t, lvl.Passable(stairs))

	// 5. Монстры стоят на полу, по одному в клетке, не в стартовой комнате
	require.NotEmpty(t, layout.Rooms)
	first := layout.Rooms[0]
	seen := make(map[gruid.Point]bool)
	for _, sp := range layout.Spawns {
		assert.Equal(t, domain.TerrainFloor, lvl.At(sp.Grid), "%s at %v", sp.Key, sp.Grid)
		assert.False(t, seen[sp.Grid], "two spawns at %v", sp.Grid)
		seen[sp.Grid] = true
		inFirst := sp.Grid.X > first.X && sp.Grid.X < first.X+first.W &&
			sp.Grid.Y > first.Y && sp.Grid.Y < first.Y+first.H
		assert.False(t, inFirst, "%s spawned in the start room", sp.Key)
		assert.LessOrEqual(t, Bestiary[sp.Key].Depth, 2)
	}

	// 6. Замки бывают только на закрытых дверях
	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			p := gruid.Point{X: x, Y: y}
			if lvl.LockPower(p) > 0 {
				assert.True(t, lvl.IsClosedDoor(p))
			}
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(1, 40, 20, 5, utils.NewRand(99))
	b := Generate(1, 40, 20, 5, utils.NewRand(99))

	assert.Equal(t, a.Start, b.Start)
	assert.Equal(t, a.Spawns, b.Spawns)
	assert.Equal(t, a.Items, b.Items)
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			p := gruid.Point{X: x, Y: y}
			require.Equal(t, a.Level.At(p), b.Level.At(p), "terrain differs at %v", p)
		}
	}
}

func TestGenerateSurface(t *testing.T) {
	layout := GenerateSurface(30, 16, utils.NewRand(1))

	assert.Equal(t, 0, layout.Level.Depth)
	assert.True(t, layout.Level.Passable(layout.Start))
	stairs, ok := layout.Level.Stairs()
	require.True(t, ok)
	assert.Equal(t, gruid.Point{X: 15, Y: 8}, stairs)
	require.Len(t, layout.Spawns, 1)
	assert.Equal(t, "grip", layout.Spawns[0].Key)
}

func TestEligible(t *testing.T) {
	shallow := Eligible(1)
	assert.Contains(t, shallow, "goblin")
	assert.NotContains(t, shallow, "troll")
	assert.Contains(t, Eligible(10), "troll")
	assert.Empty(t, Eligible(0))
}

func TestColorOf(t *testing.T) {
	assert.Equal(t, "#22D3EE", ColorOf(HeroRace))
	assert.Equal(t, Troll.Color, ColorOf(Troll.Race))
	assert.Equal(t, "#FFFFFF", ColorOf(nil))
}

// Тест вспомогательной функции пересечения комнат
func TestRect_Intersects(t *testing.T) {
	r1 := Rect{0, 0, 10, 10}
	r2 := Rect{5, 5, 10, 10} // Пересекается
	r3 := Rect{20, 20, 5, 5} // Не пересекается

	assert.True(t, r1.Intersects(r2), "Rects should intersect")
	assert.False(t, r1.Intersects(r3), "Rects should NOT intersect")
	assert.Equal(t, gruid.Point{X: 5, Y: 5}, r1.Center())
}
