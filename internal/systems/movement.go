package systems

import (
	"dungeon-core/internal/domain"

	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
)

// Outcome - чем закончился ход монстра.
type Outcome uint8

const (
	OutcomeIdle       Outcome = iota // ход потрачен впустую
	OutcomeInactive                  // монстр не чувствует цель
	OutcomeLurking                   // мимик ждет в засаде
	OutcomeAsleep                    // спит
	OutcomeHeld                      // обездвижен или оглушен
	OutcomeMultiplied                // размножился
	OutcomeRanged                    // выстрел или заклинание
	OutcomeMoved                     // сделал шаг
	OutcomeAttacked                  // ударил в ближнем бою
	OutcomeWorked                    // возился с дверью, стеной или оберегом
	OutcomeFrozen                    // страх перешел в оцепенение
)

var outcomeNames = [...]string{
	OutcomeIdle:       "idle",
	OutcomeInactive:   "inactive",
	OutcomeLurking:    "lurking",
	OutcomeAsleep:     "asleep",
	OutcomeHeld:       "held",
	OutcomeMultiplied: "multiplied",
	OutcomeRanged:     "ranged",
	OutcomeMoved:      "moved",
	OutcomeAttacked:   "attacked",
	OutcomeWorked:     "worked",
	OutcomeFrozen:     "frozen",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// MarshalText нужен для CSV и JSON.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// canMove решает, может ли сущность войти в клетку, и при необходимости
// меняет местность (двери, стены). did выставляется, если сущность
// потратила ход, даже не войдя в клетку.
func (w *World) canMove(ref domain.ActorRef, a *domain.Actor, p gruid.Point, confused bool, did *bool) bool {
	lvl := w.Level

	// Опасная клетка отпугивает всех, кроме растерянных
	if !confused && w.Hates(a, p) {
		return false
	}

	switch lvl.At(p) {
	case domain.TerrainWater:
		switch {
		case a.Has(domain.CapFly) || a.Has(domain.CapSwim):
			return true
		case a.Has(domain.CapDrowns):
			return false
		case w.RNG.OneIn(2):
			w.slowedBy(ref, a, p, did)
			return false
		}
	case domain.TerrainLava:
		if !a.Has(domain.CapImFire) && !(a.Has(domain.CapFly) && a.Has(domain.CapPowerful)) {
			return false
		}
	case domain.TerrainRubble:
		// Завал непроходим: его разгребают, и шаг идет уже по полу
		if a.Has(domain.CapPassWall) {
			return true
		}
		if !a.Has(domain.CapKillWall) && w.RNG.OneIn(2) {
			w.slowedBy(ref, a, p, did)
			return false
		}
		lvl.Mutate(p, domain.OpDestroyWall)
		w.emit(domain.Event{Type: domain.EventWallDestroyed, Actor: ref, Grid: p})
		return true
	case domain.TerrainTree:
		if a.Race.Caps.HasAny(domain.CapAnimal, domain.CapFly) {
			return true
		}
		if w.RNG.OneIn(2) {
			w.slowedBy(ref, a, p, did)
			return false
		}
		return true
	case domain.TerrainChasm:
		return a.Has(domain.CapFly)
	}

	if lvl.Passable(p) {
		return true
	}
	if lvl.IsPermanent(p) {
		return false
	}

	switch {
	case a.Has(domain.CapPassWall):
		return true
	case a.Has(domain.CapSmashWall):
		lvl.Mutate(p, domain.OpSmashWalls)
		w.Combat.ApplyEffect(ref, p, domain.EffectSmashWalls)
		w.emit(domain.Event{Type: domain.EventWallsSmashed, Actor: ref, Grid: p})
		return true
	case a.Has(domain.CapKillWall):
		lvl.Mutate(p, domain.OpDestroyWall)
		w.emit(domain.Event{Type: domain.EventWallDestroyed, Actor: ref, Grid: p})
		return true
	case lvl.IsClosedDoor(p):
		return w.handleDoor(ref, a, p, did)
	}
	return false
}

func (w *World) slowedBy(ref domain.ActorRef, a *domain.Actor, p gruid.Point, did *bool) {
	*did = true
	w.emit(domain.Event{Type: domain.EventSlowedByTerrain, Actor: ref, Grid: p, Text: domain.TerrainName(w.Level.At(p))})
}

// handleDoor - открыть, выбить или поковырять замок. Запертая дверь
// только теряет единицу прочности замка при удаче.
func (w *World) handleDoor(ref domain.ActorRef, a *domain.Actor, p gruid.Point, did *bool) bool {
	canOpen := a.Has(domain.CapOpenDoor)
	canBash := a.Has(domain.CapBashDoor)
	if !canOpen && !canBash {
		return false
	}
	*did = true

	willBash := canBash && (!canOpen || w.RNG.OneIn(2))

	if power := w.Level.LockPower(p); power > 0 {
		if w.RNG.Int0(a.HP/10) > power {
			w.Level.SetLock(p, power-1)
			w.emit(domain.Event{Type: domain.EventLockWeakened, Actor: ref, Grid: p})
		}
		return false
	}

	if willBash {
		w.Level.Mutate(p, domain.OpBashDoor)
		w.emit(domain.Event{Type: domain.EventDoorBashed, Actor: ref, Grid: p})
		// Вваливается в проем
		return true
	}
	w.Level.Mutate(p, domain.OpOpenDoor)
	w.emit(domain.Event{Type: domain.EventDoorOpened, Actor: ref, Grid: p})
	return false
}

// breakWard - попытка сломать оберег. Сильные монстры справляются чаще.
func (w *World) breakWard(ref domain.ActorRef, a *domain.Actor, p gruid.Point) bool {
	if w.RNG.Int1(w.Cfg.Movement.GlyphHardness) >= a.Race.Level {
		return false
	}
	w.Level.SetWard(p, false)
	w.Combat.ApplyEffect(ref, p, domain.EffectWardBroken)
	w.emit(domain.Event{Type: domain.EventWardBroken, Actor: ref, Grid: p})
	return true
}

// tryPush - монстр в клетке: затоптать или протиснуться мимо.
func (w *World) tryPush(ref domain.ActorRef, a *domain.Actor, p gruid.Point) bool {
	otherRef, other := w.monsterAt(p)
	if other == nil {
		return false
	}

	killOK := w.canKillAt(a, p)
	moveOK := w.canShoveAt(a, p) && w.Level.Passable(a.Grid)
	if !killOK && !moveOK {
		return false
	}

	if killOK {
		w.emit(domain.Event{Type: domain.EventTrampled, Actor: ref, Other: otherRef, Grid: p})
		w.Actors.Delete(otherRef)
	} else {
		if other.Camouflaged {
			w.RevealMimic(otherRef, other)
		}
		w.emit(domain.Event{Type: domain.EventPushed, Actor: ref, Other: otherRef, Grid: p})
	}
	w.Actors.Swap(a.Grid, p)
	return true
}

// RevealMimic снимает маскировку.
func (w *World) RevealMimic(ref domain.ActorRef, a *domain.Actor) {
	if !a.Camouflaged {
		return
	}
	a.Camouflaged = false
	w.emit(domain.Event{Type: domain.EventMimicRevealed, Actor: ref, Grid: a.Grid})
}

// isTargetAt - в клетке стоит текущая цель-монстр.
func (w *World) isTargetAt(a *domain.Actor, p gruid.Point) bool {
	if a.Target.Kind != domain.TargetMonster {
		return false
	}
	ref, _ := w.monsterAt(p)
	return !ref.IsNil() && ref == a.Target.Ref
}

// ExecuteMove пробует до пяти клеток-кандидатов в порядке таблицы обхода
// (или случайно при шатании) и возвращает итог хода.
func (w *World) ExecuteMove(ref domain.ActorRef, a *domain.Actor, dec MoveDecision, stagger Stagger) Outcome {
	did := false
	outcome := OutcomeIdle

	for i := 0; i < w.Cfg.Movement.MaxCandidates && !did; i++ {
		var d int
		if stagger != NoStagger {
			d = domain.DDD[w.RNG.Int0(8)]
		} else {
			d = domain.SideDirs[dec.Dir][i]
		}
		next := a.Grid.Add(domain.DirOffset(d))

		// Выслеживающий монстр знает лучшее направление и не петляет
		if i > 0 && stagger == NoStagger && !w.InView(next) && dec.Tracking {
			break
		}
		if !w.Level.InBounds(next) {
			continue
		}

		// Игрок или цель-монстр: бить на месте
		if w.Actors.OccupantAt(next) == domain.PlayerIndex || w.isTargetAt(a, next) {
			if a.Has(domain.CapNeverBlow) {
				continue
			}
			w.Combat.ResolveMelee(ref, w.Actors.RefAt(w.Actors.OccupantAt(next)))
			w.emit(domain.Event{Type: domain.EventAttacked, Actor: ref, Other: w.Actors.RefAt(w.Actors.OccupantAt(next)), Grid: next})
			did, outcome = true, OutcomeAttacked
			break
		}
		if a.Has(domain.CapNeverMove) {
			return outcome
		}

		if !w.canMove(ref, a, next, stagger == ConfusedStagger, &did) {
			if did {
				outcome = OutcomeWorked
			}
			continue
		}

		if w.Level.Ward(next) && !w.breakWard(ref, a, next) {
			continue
		}

		if w.Level.Decoy(next) {
			if a.Has(domain.CapNeverBlow) {
				continue
			}
			w.Level.SetDecoy(next, false)
			w.emit(domain.Event{Type: domain.EventDecoyDestroyed, Actor: ref, Grid: next})
			did, outcome = true, OutcomeWorked
			break
		}

		if w.Actors.OccupantAt(next) != 0 {
			did = w.tryPush(ref, a, next)
		} else {
			w.Actors.Swap(a.Grid, next)
			did = true
		}

		if did && a.Grid == next {
			outcome = OutcomeMoved
			w.afterStep(ref, a)
		}
	}

	// Страх без выхода превращается в оцепенение
	if !did && a.Timed[domain.TimedFear] > 0 {
		amount := a.Timed[domain.TimedFear]
		a.Timed[domain.TimedFear] = 0
		a.Timed[domain.TimedHold] += amount
		w.emit(domain.Event{Type: domain.EventFrozenWithFear, Actor: ref, Grid: a.Grid})
		outcome = OutcomeFrozen
	}

	if w.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		w.log.WithFields(logrus.Fields{
			"actor":   ref,
			"grid":    a.Grid,
			"outcome": outcome,
			"stagger": stagger,
		}).Trace("Move executed")
	}
	return outcome
}

// afterStep - ловушки, маскировка, предметы и звук шагов.
func (w *World) afterStep(ref domain.ActorRef, a *domain.Actor) {
	at := a.Grid
	w.emit(domain.Event{Type: domain.EventMoved, Actor: ref, Grid: at})

	if w.Level.Trap(at) && !a.Has(domain.CapFly) {
		w.Combat.ApplyEffect(ref, at, domain.EffectTrap)
		w.emit(domain.Event{Type: domain.EventTrapTriggered, Actor: ref, Grid: at})
	}
	if a.Camouflaged {
		w.RevealMimic(ref, a)
	}
	w.Objects.Grab(ref, at)
	w.Senses.NoteMoved(ref)
}
