package systems

import (
	"dungeon-core/internal/domain"
)

// threatOf возвращает сущность, от которой монстр оценивает опасность:
// его цель, а для цели-клетки игрока.
func (w *World) threatOf(a *domain.Actor) *domain.Actor {
	src, _, ok := w.resolveTarget(a)
	if ok && !src.IsNil() {
		if t := w.Actors.Get(src); t != nil {
			return t
		}
	}
	return w.Player()
}

// threatLevel - уровень угрозы: у игрока свой уровень, у монстра уровень расы.
func threatLevel(t *domain.Actor) int {
	if t.Race != nil && t.Level == 0 {
		return t.Race.Level
	}
	return t.Level
}

// targetDistance - расстояние до цели (cdis).
func (w *World) targetDistance(a *domain.Actor) int {
	g, ok := w.TargetGrid(a)
	if !ok {
		return 0
	}
	return domain.Distance(a.Grid, g)
}

// FindRange пересчитывает MinRange и BestRange сущности.
//
// Испуганные бегут на FleeRange, телохранители держатся вплотную.
// Остальные сравнивают свою силу с силой угрозы: уровень плюс "боевой
// дух" (зависит от номера слота) против уровня цели, а при близких
// уровнях еще и доли здоровья в целочисленной арифметике.
func (w *World) FindRange(ref domain.ActorRef, a *domain.Actor) {
	fleeRange := w.Cfg.Derived.FleeRange

	switch {
	case a.Timed[domain.TimedFear] > 0 || a.Has(domain.CapFrightened):
		a.MinRange = fleeRange
	case a.Role == domain.RoleBodyguard:
		a.MinRange = 1
	default:
		a.MinRange = 1
		if threat := w.threatOf(a); threat != nil {
			pLev := threatLevel(threat)
			mLev := a.Race.Level + (ref.Index() & 0x08) + 25

			if mLev+3 < pLev {
				a.MinRange = fleeRange
			} else if mLev-5 < pLev {
				pChp, pMhp := int64(threat.HP), int64(threat.MaxHP)
				mChp, mMhp := int64(a.HP), int64(a.MaxHP)

				pVal := int64(pLev)*pMhp + (pChp << 2)
				mVal := int64(mLev)*mMhp + (mChp << 2)

				// Сильный противник пугает даже сильных монстров
				if pVal*mMhp > mVal*pMhp {
					a.MinRange = fleeRange
				}
			}
		}
	}

	if a.MinRange < fleeRange {
		if a.Has(domain.CapNeverMove) {
			a.MinRange += 3
		}
		if a.Has(domain.CapNeverBlow) {
			a.MinRange += 3
		}
	}

	if a.MinRange >= fleeRange {
		a.MinRange = fleeRange
	} else if w.targetDistance(a) < w.Cfg.AI.TurnRange {
		// Вблизи никто не убегает
		a.MinRange = 1
	}

	a.BestRange = a.MinRange
	if a.Has(domain.CapArcher) {
		a.BestRange += 3
	}
	if a.Race.InnateFreq > 24 {
		if a.Has(domain.CapBreather) && a.HP > a.MaxHP/2 {
			a.BestRange = 6
		}
	} else if a.Race.SpellFreq > 24 {
		a.BestRange += 3
	}
}

// Fleeing - сущность в режиме бегства.
func (w *World) Fleeing(a *domain.Actor) bool {
	return a.MinRange == w.Cfg.Derived.FleeRange
}
