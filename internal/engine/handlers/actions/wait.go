package actions

import (
	"fmt"

	"dungeon-core/internal/engine/handlers"
)

func HandleWait(ctx handlers.Context) (handlers.Result, error) {
	self := ctx.Self()
	if self == nil {
		return handlers.Refused("Вы мертвы."), nil
	}
	self.Resting = false
	return handlers.Spent(ctx, fmt.Sprintf("%s пропускает ход.", self.Name), "INFO"), nil
}

// HandleRest - отдых: регенерация быстрее, пока игрок не сделает что-то еще.
func HandleRest(ctx handlers.Context) (handlers.Result, error) {
	self := ctx.Self()
	if self == nil {
		return handlers.Refused("Вы мертвы."), nil
	}
	if self.HP >= self.MaxHP {
		self.Resting = false
		return handlers.Refused("Вы полны сил."), nil
	}
	msg := ""
	if !self.Resting {
		msg = fmt.Sprintf("%s садится отдохнуть.", self.Name)
	}
	self.Resting = true
	return handlers.Spent(ctx, msg, "INFO"), nil
}
