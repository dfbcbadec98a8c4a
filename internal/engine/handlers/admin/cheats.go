package admin

import (
	"fmt"

	"dungeon-core/internal/domain"
	"dungeon-core/internal/engine/handlers"
	"dungeon-core/pkg/api"
	"dungeon-core/pkg/dungeon"

	"codeberg.org/anaseto/gruid"
)

// HandleTeleport: { "x": 10, "y": 10 }
func HandleTeleport(ctx handlers.Context, p api.PositionPayload) (handlers.Result, error) {
	to := gruid.Point{X: p.X, Y: p.Y}
	w := ctx.World
	if !w.Level.InBounds(to) || !w.Level.Passable(to) {
		return handlers.Refused("Teleport failed: cell is not passable"), nil
	}
	if err := w.MovePlayer(to); err != nil {
		return handlers.Refused(fmt.Sprintf("Teleport failed: %v", err)), nil
	}
	return handlers.Result{Msg: "⚡ Teleported via Admin Magic", MsgType: "INFO"}, nil
}

// SpawnPayload: { "template": "orc" }
type SpawnPayload struct {
	Template string `json:"template"`
}

func HandleSpawn(ctx handlers.Context, p SpawnPayload) (handlers.Result, error) {
	tmpl, ok := dungeon.Bestiary[p.Template]
	if !ok {
		return handlers.Refused("Unknown template"), nil
	}
	self := ctx.Self()
	if self == nil {
		return handlers.Refused("No anchor to spawn near"), nil
	}

	// Первая свободная соседняя клетка
	w := ctx.World
	for _, d := range domain.DDD {
		at := self.Grid.Add(domain.DirOffset(d))
		if !w.Level.InBounds(at) || !w.Level.Passable(at) || w.Actors.OccupantAt(at) > 0 {
			continue
		}
		ref := w.SpawnMonster(domain.Actor{
			Race:  tmpl.Race,
			Grid:  at,
			HP:    tmpl.HP,
			MaxHP: tmpl.HP,
			Speed: tmpl.Race.Speed,
		})
		if ref.IsNil() {
			return handlers.Refused("Registry is full"), nil
		}
		return handlers.Result{Msg: fmt.Sprintf("Spawned %s", p.Template), MsgType: "INFO"}, nil
	}
	return handlers.Refused("No room to spawn"), nil
}

func HandleHeal(ctx handlers.Context) (handlers.Result, error) {
	self := ctx.Self()
	if self == nil {
		return handlers.Refused("Nobody to heal"), nil
	}
	self.HP = self.MaxHP
	self.Timed = [domain.TimedCount]int{}
	return handlers.Result{Msg: "❤️ Fully Healed", MsgType: "INFO"}, nil
}

func HandleKill(ctx handlers.Context, p api.EntityPayload) (handlers.Result, error) {
	ref, err := domain.ParseActorRef(p.TargetID)
	if err != nil {
		return handlers.Refused("Target not found"), nil
	}
	if ref.Index() == domain.PlayerIndex {
		return handlers.Refused("Refusing to smite the player"), nil
	}
	target := ctx.World.Actors.Get(ref)
	if target == nil {
		return handlers.Refused("Target not found"), nil
	}
	name := target.Name
	// Карты чувств и вещи убитого разбирают наблюдатели реестра
	ctx.World.Actors.Delete(ref)
	return handlers.Result{Msg: fmt.Sprintf("💀 Smited %s", name), MsgType: "COMBAT"}, nil
}

func HandleToggleOmni(ctx handlers.Context) (handlers.Result, error) {
	if ctx.Switcher == nil {
		return handlers.Refused("No observer attached"), nil
	}
	status := "OFF"
	if ctx.Switcher.ToggleOmniscience() {
		status = "ON"
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("👁️ God Vision toggled %s", status),
		MsgType: "INFO",
	}, nil
}
