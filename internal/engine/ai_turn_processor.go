package engine

import (
	"dungeon-core/internal/domain"
	"dungeon-core/internal/systems"

	"github.com/sirupsen/logrus"
)

// ProcessMonsters дает ход монстрам, у которых энергии не меньше
// minEnergy. Слоты обходятся от старших к младшим, каждый монстр
// получает не больше одного хода за ход мира. Проход обрывается, как
// только игрок погиб или запрошена смена уровня.
func (s *Scheduler) ProcessMonsters(minEnergy int) {
	w := s.w
	move := s.cfg.Scheduler.MoveEnergy

	// Max может уменьшиться посреди прохода (компактизация при
	// размножении), At вернет nil для слотов за границей
	for i := w.Actors.Max() - 1; i > domain.PlayerIndex; i-- {
		if w.PlayerDead() || s.pending != nil {
			break
		}

		a := w.Actors.At(i)
		if a == nil || a.Handled || a.Energy < minEnergy {
			continue
		}
		a.Handled = true

		before := a.Energy
		moving := a.Energy >= move
		a.Energy += TurnEnergy(a.EffectiveSpeed(), move)
		if !moving {
			continue
		}
		a.Energy -= move
		after := a.Energy
		race := a.Race.Name

		ref := w.Actors.RefAt(i)
		outcome := w.Activate(ref)
		s.record(i, race, before, after, outcome)
	}
}

func (s *Scheduler) record(index int, race string, before, after int, outcome systems.Outcome) {
	s.Trace.add(Activation{
		Turn:         s.w.Turn,
		Index:        index,
		Race:         race,
		EnergyBefore: before,
		EnergyAfter:  after,
		Outcome:      outcome.String(),
	})
	if s.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		s.log.WithFields(logrus.Fields{
			"turn":    s.w.Turn,
			"index":   index,
			"race":    race,
			"outcome": outcome,
		}).Trace("Monster activated")
	}
}
