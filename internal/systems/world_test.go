package systems

import (
	"testing"

	"dungeon-core/internal/config"
	"dungeon-core/internal/domain"

	"codeberg.org/anaseto/gruid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnMonsterCompactsAhead(t *testing.T) {
	tests := []struct {
		name      string
		max       int
		reserve   int
		wantFreed int
	}{
		{name: "frees the configured reserve", max: 64, reserve: 20, wantFreed: 20},
		{name: "reserve capped at half the registry", max: 16, reserve: 20, wantFreed: 7},
		{name: "single slot", max: 16, reserve: 1, wantFreed: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t, 40, 40, func(cfg *config.Config) {
				cfg.Registry.MaxActors = tt.max
				cfg.Registry.CompactReserve = tt.reserve
			})
			placePlayer(t, w, 0, 0)
			for i := 0; w.Actors.Free() > 0; i++ {
				spawn(t, w, goblinRace, 5+i%30, 5+i/30)
			}
			full := w.Actors.Count()
			require.Equal(t, tt.max-1, full)

			ref := w.SpawnMonster(domain.Actor{Race: goblinRace, Grid: gruid.Point{X: 39, Y: 39}, HP: 5, MaxHP: 5})
			require.False(t, ref.IsNil())

			assert.Equal(t, full-tt.wantFreed+1, w.Actors.Count())
			assert.Equal(t, tt.wantFreed-1, w.Actors.Free())
			assert.NotNil(t, w.Player(), "player survives compaction")

			// Пока запас не исчерпан, новые монстры компактизацию не зовут
			before := w.Actors.Count()
			if w.Actors.Free() > 0 {
				w.SpawnMonster(domain.Actor{Race: goblinRace, Grid: gruid.Point{X: 38, Y: 39}, HP: 5, MaxHP: 5})
				assert.Equal(t, before+1, w.Actors.Count())
			}
		})
	}
}
