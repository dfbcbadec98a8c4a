package systems

import (
	"testing"

	"dungeon-core/internal/domain"

	"codeberg.org/anaseto/gruid"
	"github.com/stretchr/testify/assert"
)

func TestHasLineOfSight(t *testing.T) {
	lvl := domain.NewLevel(10, 10, 1)
	lvl.Set(gruid.Point{X: 5, Y: 5}, domain.TerrainWall)
	lvl.Set(gruid.Point{X: 2, Y: 8}, domain.TerrainDoorOpen)

	tests := []struct {
		name string
		from gruid.Point
		to   gruid.Point
		want bool
	}{
		{"same cell", gruid.Point{X: 1, Y: 1}, gruid.Point{X: 1, Y: 1}, true},
		{"open row", gruid.Point{X: 0, Y: 0}, gruid.Point{X: 9, Y: 0}, true},
		{"wall in between", gruid.Point{X: 3, Y: 5}, gruid.Point{X: 7, Y: 5}, false},
		{"diagonal through wall", gruid.Point{X: 3, Y: 3}, gruid.Point{X: 7, Y: 7}, false},
		{"endpoint is the wall", gruid.Point{X: 3, Y: 5}, gruid.Point{X: 5, Y: 5}, true},
		{"open door is transparent", gruid.Point{X: 0, Y: 8}, gruid.Point{X: 4, Y: 8}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasLineOfSight(lvl, tt.from, tt.to))
			assert.Equal(t, tt.want, HasLineOfSight(lvl, tt.to, tt.from), "symmetric")
		})
	}
}

func TestNearPermanentWall(t *testing.T) {
	lvl := domain.NewLevel(20, 5, 1)
	lvl.Set(gruid.Point{X: 8, Y: 2}, domain.TerrainPermWall)

	assert.True(t, NearPermanentWall(lvl, gruid.Point{X: 2, Y: 2}, gruid.Point{X: 15, Y: 2}, 10))
	assert.False(t, NearPermanentWall(lvl, gruid.Point{X: 2, Y: 2}, gruid.Point{X: 15, Y: 2}, 5), "too far along the line")
	assert.False(t, NearPermanentWall(lvl, gruid.Point{X: 2, Y: 1}, gruid.Point{X: 15, Y: 1}, 20))
}

func TestPlayerViewCaching(t *testing.T) {
	lvl := domain.NewLevel(30, 10, 1)
	v := NewPlayerView(lvl, 5)
	from := gruid.Point{X: 10, Y: 5}

	assert.True(t, v.InView(from, from))
	assert.True(t, v.InView(from, gruid.Point{X: 15, Y: 5}))
	assert.False(t, v.InView(from, gruid.Point{X: 16, Y: 5}), "beyond max sight")
	assert.False(t, v.InView(from, gruid.Point{X: -1, Y: 5}))

	// Стена закрывает обзор: кэш сбрасывается по версии уровня
	lvl.Set(gruid.Point{X: 12, Y: 5}, domain.TerrainWall)
	assert.True(t, v.InView(from, gruid.Point{X: 12, Y: 5}), "the wall itself is lit")
	assert.False(t, v.InView(from, gruid.Point{X: 14, Y: 5}))

	// Смена точки обзора
	other := gruid.Point{X: 20, Y: 5}
	assert.True(t, v.InView(other, gruid.Point{X: 16, Y: 5}))
	assert.False(t, v.InView(other, gruid.Point{X: 10, Y: 5}))
	assert.NotEmpty(t, v.Visible(other))

	v.Reset(domain.NewLevel(5, 5, 2))
	assert.False(t, v.InView(from, gruid.Point{X: 12, Y: 5}))
}
