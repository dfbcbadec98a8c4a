package actions

import (
	"fmt"

	"dungeon-core/internal/domain"
	"dungeon-core/internal/engine/handlers"
	"dungeon-core/pkg/api"

	"codeberg.org/anaseto/gruid"
)

// HandleInteract открывает или закрывает соседнюю дверь.
func HandleInteract(ctx handlers.Context, p api.PositionPayload) (handlers.Result, error) {
	self := ctx.Self()
	if self == nil {
		return handlers.Refused("Вы мертвы."), nil
	}
	at := gruid.Point{X: p.X, Y: p.Y}
	if !domain.Adjacent(self.Grid, at) {
		return handlers.Refused("Нужно подойти ближе."), nil
	}

	lvl := ctx.World.Level
	switch lvl.At(at) {
	case domain.TerrainDoorClosed:
		return openDoor(ctx, self, at), nil
	case domain.TerrainDoorOpen:
		if ctx.World.Actors.OccupantAt(at) > 0 {
			return handlers.Refused("Что-то мешает закрыть дверь."), nil
		}
		lvl.Set(at, domain.TerrainDoorClosed)
		return handlers.Spent(ctx, fmt.Sprintf("%s закрывает дверь.", self.Name), "INFO"), nil
	case domain.TerrainDoorBroken:
		return handlers.Refused("Дверь сломана."), nil
	}
	return handlers.Refused("Здесь нечего открывать."), nil
}

// openDoor открывает дверь. Запертую дверь игрок вскрывает не сразу:
// каждая неудачная попытка ослабляет замок и стоит хода.
func openDoor(ctx handlers.Context, self *domain.Actor, at gruid.Point) handlers.Result {
	lvl := ctx.World.Level
	if lock := lvl.LockPower(at); lock > 0 {
		if !ctx.World.RNG.OneIn(lock + 1) {
			lvl.SetLock(at, lock-1)
			return handlers.Spent(ctx, fmt.Sprintf("%s возится с замком.", self.Name), "INFO")
		}
		lvl.SetLock(at, 0)
	}
	lvl.Mutate(at, domain.OpOpenDoor)
	return handlers.Spent(ctx, fmt.Sprintf("%s открывает дверь.", self.Name), "INFO")
}
