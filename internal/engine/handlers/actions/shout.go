package actions

import (
	"fmt"

	"dungeon-core/internal/engine/handlers"
	"dungeon-core/pkg/api"
)

// HandleShout - крик. Шум расходится по уровню и будит тех, кто слышит.
func HandleShout(ctx handlers.Context, p api.ShoutPayload) (handlers.Result, error) {
	self := ctx.Self()
	if self == nil {
		return handlers.Refused("Вы мертвы."), nil
	}
	self.Resting = false
	ctx.World.Senses.NoteNoise(ctx.Actor)

	text := p.Text
	if text == "" {
		text = "Эй!"
	}
	return handlers.Spent(ctx, fmt.Sprintf("%s кричит: %q", self.Name, text), "SPEECH"), nil
}
