package actions

import (
	"errors"
	"fmt"

	"dungeon-core/internal/engine/handlers"
	"dungeon-core/internal/systems"
	"dungeon-core/pkg/api"
)

// HandleDrop обрабатывает команду DROP - выброс предмета под ноги
func HandleDrop(ctx handlers.Context, p api.ItemPayload) (handlers.Result, error) {
	self := ctx.Self()
	if self == nil {
		return handlers.Refused("Вы мертвы."), nil
	}
	if ctx.Stash == nil || p.ItemID == "" {
		return handlers.Refused("Что выбросить?"), nil
	}

	it, err := ctx.Stash.Release(ctx.Actor, p.ItemID, self.Grid)
	switch {
	case errors.Is(err, systems.ErrItemNotFound), errors.Is(err, systems.ErrNotHolder):
		return handlers.Refused("Предмет не найден в инвентаре."), nil
	case err != nil:
		return handlers.Result{}, err
	}
	return handlers.Spent(ctx, fmt.Sprintf("%s выбрасывает %s.", self.Name, it.Name), "INFO"), nil
}
