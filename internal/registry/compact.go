package registry

import (
	"dungeon-core/internal/domain"

	"github.com/sirupsen/logrus"
)

// Compact освобождает место в реестре.
//
// Сначала до n монстров удаляется со спасброском. Пороги расслабляются с
// каждой итерацией: щадятся монстры выше 5*iter уровня и ближе
// 5*(20-iter) к игроку. После CompactIterationLimit итераций спасброски
// обнуляются, так что цикл конечен. Затем мертвые слоты вырезаются:
// проход идет с конца, и в каждую дыру переезжает последний живой слот
// вместе со всеми ссылками на него.
//
// Возвращает число удаленных сущностей. Compact(0) только уплотняет.
func (r *Registry) Compact(n int) int {
	deleted := 0
	if n > 0 {
		r.log.WithFields(logrus.Fields{
			"target": n,
			"live":   r.live,
		}).Info("Compacting monsters")
	}

	player := r.Player()
	for iter := 1; deleted < n; iter++ {
		if r.monsterCount() == 0 {
			break
		}

		maxLevel := 5 * iter
		minDist := 5 * (20 - iter)
		for i := domain.PlayerIndex + 1; i < r.max && deleted < n; i++ {
			a := r.At(i)
			if a == nil || a.Race.Level > maxLevel {
				continue
			}
			if player != nil && domain.Distance(a.Grid, player.Grid) < minDist {
				continue
			}

			chance := 90
			if a.Race.Has(domain.CapQuestor) && iter < r.opts.CompactIterationLimit {
				chance = 100
			}
			if a.Race.Has(domain.CapUnique) {
				chance = 99
			}
			if iter >= r.opts.CompactIterationLimit {
				chance = 0
			}
			if r.rng.Int0(100) < chance {
				continue
			}

			r.deleteAt(i)
			deleted++
		}
	}

	for i := r.max - 1; i > domain.PlayerIndex; i-- {
		if !r.slots[i].Dead() {
			continue
		}
		if last := r.max - 1; last != i {
			r.relocate(last, i)
		} else {
			r.slots[i] = domain.Actor{}
		}
		r.max--
	}
	return deleted
}

func (r *Registry) monsterCount() int {
	n := r.live
	if r.Player() != nil {
		n--
	}
	return n
}

// relocate переносит живую сущность из слота from в мертвый слот to и
// переписывает все ссылки на нее.
func (r *Registry) relocate(from, to int) {
	fromRef := r.RefAt(from)

	r.gens[to]++
	r.slots[to] = r.slots[from]
	r.slots[from] = domain.Actor{}
	r.gens[from]++
	toRef := r.RefAt(to)

	a := &r.slots[to]
	if r.inBounds(a.Grid) {
		r.occ[r.cell(a.Grid)] = to
	}
	r.relinkGroup(a, fromRef, toRef)
	if r.healthTrack == fromRef {
		r.healthTrack = toRef
	}
	for i := domain.PlayerIndex; i < r.max; i++ {
		other := &r.slots[i]
		if other.Dead() {
			continue
		}
		if other.Target.Kind == domain.TargetMonster && other.Target.Ref == fromRef {
			other.Target.Ref = toRef
		}
	}
	for _, o := range r.observers {
		o.Relocated(fromRef, toRef)
	}

	r.log.WithFields(logrus.Fields{
		"from": fromRef,
		"to":   toRef,
	}).Debug("Actor relocated")
}

// Reserve вызывается перед массовым размещением: если свободных слотов
// меньше need, запускается компактизация. need урезается до половины
// ёмкости, чтобы маленький реестр не вычищался целиком.
func (r *Registry) Reserve(need int) {
	if half := (len(r.slots) - 1) / 2; need > half {
		need = half
	}
	free := r.Free()
	if free >= need {
		return
	}
	r.Compact(need - free)
}
