package systems

import (
	"dungeon-core/internal/domain"
	"dungeon-core/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Upkeep - медленный проход по миру раз в несколько ходов мира:
// регенерация и урон от опасной местности. Реализует domain.Housekeeper.
type Upkeep struct {
	w *World
	// RestBonus - во сколько раз быстрее лечится отдыхающий игрок.
	RestBonus int
	log       *logrus.Entry
}

func NewUpkeep(w *World) *Upkeep {
	return &Upkeep{w: w, RestBonus: 3, log: logger.For("upkeep")}
}

func (u *Upkeep) ProcessWorld(turn int64) {
	w := u.w
	burned, healed := 0, 0
	for i := domain.PlayerIndex; i < w.Actors.Max(); i++ {
		a := w.Actors.At(i)
		if a == nil {
			continue
		}
		if w.TakingTerrainDamage(a) {
			w.Combat.ApplyEffect(domain.NilActorRef, a.Grid, domain.EffectBurn)
			burned++
			continue
		}
		if u.regenerate(i, a) {
			healed++
		}
	}
	if burned+healed > 0 {
		u.log.WithFields(logrus.Fields{
			"turn":   turn,
			"burned": burned,
			"healed": healed,
		}).Debug("World processed")
	}
}

// regenerate лечит раненых: монстров на 1% (минимум 1), игрока
// быстрее во время отдыха.
func (u *Upkeep) regenerate(idx int, a *domain.Actor) bool {
	if a.HP <= 0 || !a.Hurt() {
		return false
	}
	gain := max(1, a.MaxHP/100)
	if idx == domain.PlayerIndex && a.Resting {
		gain *= u.RestBonus
	}
	a.HP = min(a.MaxHP, a.HP+gain)
	return true
}
