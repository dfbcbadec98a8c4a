package systems

import (
	"dungeon-core/internal/config"
	"dungeon-core/internal/domain"
	"dungeon-core/internal/registry"
	"dungeon-core/pkg/logger"
	"dungeon-core/pkg/utils"

	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
)

// World - состояние одной игровой сессии: уровень, реестр, восприятие,
// счетчик ходов и внешние коллабораторы. Передается явно во все системы.
type World struct {
	Cfg    *config.Config
	Level  *domain.Level
	Actors *registry.Registry
	Senses *Perception
	View   *PlayerView
	RNG    utils.RNG

	Combat  domain.Combat
	Objects domain.Objects
	Notify  domain.Notifier

	Turn int64

	log *logrus.Entry
}

// NewWorld собирает сессию вокруг уровня. Коллабораторы по умолчанию -
// заглушки, их можно заменить после создания.
func NewWorld(cfg *config.Config, lvl *domain.Level, rng utils.RNG) *World {
	w := &World{
		Cfg:   cfg,
		Level: lvl,
		Actors: registry.New(registry.Options{
			MaxActors:             cfg.Registry.MaxActors,
			StartEnergyMax:        cfg.Scheduler.StartEnergyMax,
			CompactIterationLimit: cfg.Registry.CompactIterationLimit,
		}, lvl.Width, lvl.Height, rng),
		Senses:  NewPerception(lvl, cfg.Perception.FlowDepth, cfg.Perception.ScentDepth),
		View:    NewPlayerView(lvl, cfg.Perception.MaxSight),
		RNG:     rng,
		Combat:  domain.NopCombat{},
		Objects: domain.NopObjects{},
		log:     logger.For("world"),
	}
	w.Actors.AddObserver(w.Senses)
	return w
}

func (w *World) emit(ev domain.Event) {
	ev.Turn = w.Turn
	if w.Notify != nil {
		w.Notify.Notify(ev)
	}
}

// Player возвращает игрока.
func (w *World) Player() *domain.Actor {
	return w.Actors.Player()
}

// PlayerDead - игрока нет на уровне или он погиб.
func (w *World) PlayerDead() bool {
	p := w.Player()
	return p == nil || p.HP <= 0
}

// InView - клетку видно игроку.
func (w *World) InView(p gruid.Point) bool {
	player := w.Player()
	if player == nil {
		return false
	}
	return w.View.InView(player.Grid, p)
}

// resolveTarget возвращает цель сущности и ее клетку. Устаревшая цель-
// монстр сбрасывается на игрока. ok=false - преследовать некого.
func (w *World) resolveTarget(a *domain.Actor) (src domain.ActorRef, grid gruid.Point, ok bool) {
	switch a.Target.Kind {
	case domain.TargetMonster:
		if t := w.Actors.Get(a.Target.Ref); t != nil {
			return a.Target.Ref, t.Grid, true
		}
		a.Target = domain.PlayerTarget()
		return w.resolveTarget(a)
	case domain.TargetPlayer:
		if p := w.Player(); p != nil {
			return w.Actors.PlayerRef(), p.Grid, true
		}
	case domain.TargetLocation:
		return domain.NilActorRef, a.Target.Grid, true
	}
	return domain.NilActorRef, gruid.Point{}, false
}

// TargetGrid - клетка текущей цели.
func (w *World) TargetGrid(a *domain.Actor) (gruid.Point, bool) {
	_, g, ok := w.resolveTarget(a)
	return g, ok
}

// targetInView - цель видна: для игрока по его полю зрения, для
// остальных целей по прямой видимости.
func (w *World) targetInView(a *domain.Actor) bool {
	if a.Target.Kind == domain.TargetPlayer {
		return w.InView(a.Grid)
	}
	g, ok := w.TargetGrid(a)
	if !ok {
		return false
	}
	return HasLineOfSight(w.Level, a.Grid, g)
}

// Hates - клетка опасна для сущности (урон без сопротивления).
func (w *World) Hates(a *domain.Actor, p gruid.Point) bool {
	if !w.Level.Damaging(p) {
		return false
	}
	if a.Has(domain.CapImFire) {
		return false
	}
	return !(a.Has(domain.CapFly) && a.Has(domain.CapPowerful))
}

// TakingTerrainDamage - сущность стоит на опасной для нее клетке.
func (w *World) TakingTerrainDamage(a *domain.Actor) bool {
	return w.Hates(a, a.Grid)
}

// ChangeLevel заменяет уровень: реестр очищается, тепловые карты и поле
// зрения выбрасываются. Игрок ставится в клетку playerGrid.
func (w *World) ChangeLevel(lvl *domain.Level, playerGrid gruid.Point) error {
	player := w.Actors.Reset(lvl.Width, lvl.Height)
	w.Level = lvl
	w.Senses.Reset(lvl)
	w.View.Reset(lvl)

	player.Grid = playerGrid
	player.Handled = false
	if _, err := w.Actors.PlacePlayer(player); err != nil {
		return err
	}
	w.log.WithField("depth", lvl.Depth).Info("Level changed")
	w.emit(domain.Event{Type: domain.EventLevelChanged, Actor: w.Actors.PlayerRef(), Grid: playerGrid})
	return nil
}

// MovePlayer переносит игрока и помечает его тепловые карты устаревшими.
func (w *World) MovePlayer(to gruid.Point) error {
	if err := w.Actors.Move(w.Actors.PlayerRef(), to); err != nil {
		return err
	}
	w.Senses.NoteMoved(w.Actors.PlayerRef())
	return nil
}

// SpawnMonster размещает монстра с целью "игрок". Когда слоты кончились,
// компактизация освобождает сразу CompactReserve, а не один.
func (w *World) SpawnMonster(a domain.Actor) domain.ActorRef {
	if w.Actors.Free() < 1 {
		w.Actors.Reserve(w.Cfg.Registry.CompactReserve)
	}
	if a.Target.Kind == domain.TargetNone {
		a.Target = domain.PlayerTarget()
	}
	ref := w.Actors.Spawn(a)
	if !ref.IsNil() {
		w.emit(domain.Event{Type: domain.EventSpawned, Actor: ref, Grid: a.Grid})
	}
	return ref
}
