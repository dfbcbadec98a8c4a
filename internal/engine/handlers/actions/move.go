package actions

import (
	"encoding/json"
	"fmt"

	"dungeon-core/internal/domain"
	"dungeon-core/internal/engine/handlers"
	"dungeon-core/pkg/api"
)

// levelTransition - событие, которое движок разбирает после хода.
type levelTransition struct {
	Event string `json:"event"`
	Depth int    `json:"depth"`
}

func HandleMove(ctx handlers.Context, p api.DirectionPayload) (handlers.Result, error) {
	self := ctx.Self()
	if self == nil {
		return handlers.Refused("Вы мертвы."), nil
	}
	w := ctx.World
	to := self.Grid.Shift(p.Dx, p.Dy)

	if !w.Level.InBounds(to) {
		return handlers.Refused("Путь прегражден."), nil
	}

	// Кто-то стоит в клетке - бьем
	if idx := w.Actors.OccupantAt(to); idx > 0 && idx != ctx.Actor.Index() {
		victim := w.Actors.At(idx)
		if victim == nil {
			return handlers.Refused("Путь прегражден."), nil
		}
		name := victim.Name
		w.Combat.ResolveMelee(ctx.Actor, w.Actors.RefAt(idx))
		w.Senses.NoteNoise(ctx.Actor)
		self.Resting = false
		return handlers.Spent(ctx, fmt.Sprintf("%s атакует %s.", self.Name, name), "COMBAT"), nil
	}

	if w.Level.IsClosedDoor(to) {
		return openDoor(ctx, self, to), nil
	}

	if !w.Level.Passable(to) {
		return handlers.Refused("Путь прегражден."), nil
	}

	var err error
	if ctx.Actor == w.Actors.PlayerRef() {
		err = w.MovePlayer(to)
	} else {
		err = w.Actors.Move(ctx.Actor, to)
		w.Senses.NoteMoved(ctx.Actor)
	}
	if err != nil {
		return handlers.Result{}, fmt.Errorf("move to %v: %w", to, err)
	}
	self.Resting = false

	if w.Level.Trap(to) {
		w.Combat.ApplyEffect(domain.NilActorRef, to, domain.EffectTrap)
		w.Level.SetTrap(to, false)
		return handlers.Spent(ctx, fmt.Sprintf("%s попадает в ловушку!", self.Name), "COMBAT"), nil
	}

	res := handlers.Spent(ctx, "", "")
	if w.Level.IsStairs(to) {
		raw, _ := json.Marshal(levelTransition{Event: "LEVEL_TRANSITION", Depth: w.Level.Depth + 1})
		res.Event = raw
	}
	return res, nil
}
