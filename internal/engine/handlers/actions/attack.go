package actions

import (
	"fmt"

	"dungeon-core/internal/domain"
	"dungeon-core/internal/engine/handlers"
	"dungeon-core/internal/systems"
	"dungeon-core/pkg/api"
)

func HandleAttack(ctx handlers.Context, p api.EntityPayload) (handlers.Result, error) {
	self := ctx.Self()
	if self == nil {
		return handlers.Refused("Вы мертвы."), nil
	}

	// 1. Поиск цели
	ref, err := domain.ParseActorRef(p.TargetID)
	if err != nil {
		return handlers.Refused("Цель не найдена."), nil
	}
	target := ctx.World.Actors.Get(ref)
	if target == nil || ref == ctx.Actor {
		return handlers.Refused("Цель не найдена."), nil
	}

	// 2. Только ближний бой
	if !domain.Adjacent(self.Grid, target.Grid) {
		return handlers.Refused("Цель слишком далеко."), nil
	}

	// 3. Сквозь стены бить нельзя
	if !systems.HasLineOfSight(ctx.World.Level, self.Grid, target.Grid) {
		return handlers.Refused("Вы не видите цель."), nil
	}

	name := target.Name
	ctx.World.Combat.ResolveMelee(ctx.Actor, ref)
	ctx.World.Senses.NoteNoise(ctx.Actor)
	self.Resting = false

	return handlers.Spent(ctx, fmt.Sprintf("%s атакует %s.", self.Name, name), "COMBAT"), nil
}
