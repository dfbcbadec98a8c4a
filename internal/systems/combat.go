package systems

import (
	"fmt"

	"dungeon-core/internal/domain"
	"dungeon-core/pkg/logger"

	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
)

// Skirmish - простая реализация боя для демо-арены. Урон считается
// грубо: ядру важен только факт столкновения, а не формулы.
type Skirmish struct {
	w *World
	// Loot - куда высыпать имущество убитых (может быть nil).
	Loot *Stash
	log  *logrus.Entry
}

func NewSkirmish(w *World) *Skirmish {
	return &Skirmish{w: w, log: logger.For("combat_system")}
}

// power - "уровень" бойца: у игрока свой, у монстра уровень расы.
func power(a *domain.Actor) int {
	if a.Level > 0 {
		return a.Level
	}
	return a.Race.Level
}

func (s *Skirmish) ResolveMelee(attacker, victim domain.ActorRef) {
	a, v := s.w.Actors.Get(attacker), s.w.Actors.Get(victim)
	if a == nil || v == nil {
		s.log.WithFields(logrus.Fields{"attacker": attacker, "victim": victim}).Warn("Attack failed: stale participant")
		return
	}

	damage := 1 + s.w.RNG.Int1(power(a)/2+2)
	s.hit(attacker, victim, v, damage, "melee")
}

// hit наносит урон и разбирается с последствиями.
func (s *Skirmish) hit(source, victim domain.ActorRef, v *domain.Actor, damage int, kind string) {
	hpBefore := v.HP
	v.HP -= damage

	s.log.WithFields(logrus.Fields{
		"source":    source,
		"victim":    victim,
		"kind":      kind,
		"damage":    damage,
		"hp_before": hpBefore,
		"hp_after":  v.HP,
	}).Debug("Attack resolved")

	if victim.Index() == domain.PlayerIndex {
		if v.HP <= 0 {
			s.w.emit(domain.Event{Type: domain.EventPlayerDied, Actor: victim, Other: source, Grid: v.Grid})
		}
		return
	}

	if v.HP <= 0 {
		s.w.emit(domain.Event{Type: domain.EventKilled, Actor: victim, Other: source, Grid: v.Grid, Text: kind})
		if s.Loot != nil {
			s.Loot.DropAll(victim, v.Grid)
		}
		s.w.Senses.Forget(victim)
		s.w.Actors.Delete(victim)
		return
	}

	// Сильно раненый монстр может испугаться
	if v.HP < v.MaxHP/4 && s.w.RNG.OneIn(2) {
		v.Timed[domain.TimedFear] += s.w.RNG.Int1(10)
	}
	// Удар будит
	if v.Timed[domain.TimedSleep] > 0 {
		v.Timed[domain.TimedSleep] = 0
		s.w.emit(domain.Event{Type: domain.EventWoke, Actor: victim, Grid: v.Grid})
	}
}

func (s *Skirmish) ApplyEffect(source domain.ActorRef, at gruid.Point, effect domain.EffectID) {
	switch effect {
	case domain.EffectTrap:
		idx := s.w.Actors.OccupantAt(at)
		if v := s.w.Actors.At(idx); v != nil {
			s.hit(source, s.w.Actors.RefAt(idx), v, s.w.RNG.Int1(6), "trap")
		}
	case domain.EffectBurn:
		idx := s.w.Actors.OccupantAt(at)
		if v := s.w.Actors.At(idx); v != nil {
			s.hit(source, s.w.Actors.RefAt(idx), v, 2+s.w.RNG.Int1(4), "burn")
		}
	case domain.EffectSmashWalls:
		// Грохот слышно: карты источника устарели
		s.w.Senses.NoteNoise(source)
	case domain.EffectWardBroken:
		s.log.WithFields(logrus.Fields{"source": source, "grid": at}).Info("Ward broken")
	default:
		s.log.WithField("effect", fmt.Sprint(effect)).Warn("Unknown effect")
	}
}

// TryRanged - стрелки и колдуны бьют издалека, если цель видна.
func (s *Skirmish) TryRanged(actor domain.ActorRef) bool {
	a := s.w.Actors.Get(actor)
	if a == nil {
		return false
	}
	freq := max(a.Race.SpellFreq, a.Race.InnateFreq)
	if freq == 0 || !a.Race.Caps.HasAny(domain.CapArcher, domain.CapSpellcaster, domain.CapBreather) {
		return false
	}

	src, grid, ok := s.w.resolveTarget(a)
	if !ok || src.IsNil() || domain.Distance(a.Grid, grid) <= 1 {
		return false
	}
	if !HasLineOfSight(s.w.Level, a.Grid, grid) {
		return false
	}
	if s.w.RNG.Int1(100) > freq {
		return false
	}

	v := s.w.Actors.Get(src)
	if v == nil {
		return false
	}
	s.w.emit(domain.Event{Type: domain.EventAttacked, Actor: actor, Other: src, Grid: grid, Text: "ranged"})
	s.hit(actor, src, v, s.w.RNG.Int1(power(a)/3+2), "ranged")
	return true
}
