package systems

import (
	"dungeon-core/internal/domain"

	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
)

// stunMissChance - оглушенный пропускает ход один раз из стольких.
const stunMissChance = 10

// CheckActive решает, участвует ли монстр в ходе: он должен так или
// иначе чувствовать цель, быть раненым или стоять на опасной клетке.
func (w *World) CheckActive(a *domain.Actor) bool {
	switch {
	case w.targetDistance(a) <= a.Race.Hearing && a.PassesWalls():
		a.Active = true
	case a.Hurt():
		a.Active = true
	case w.InView(a.Grid):
		a.Active = true
	case w.CanHear(a):
		a.Active = true
	case w.CanSmell(a):
		a.Active = true
	case w.TakingTerrainDamage(a):
		a.Active = true
	default:
		a.Active = false
	}
	return a.Active
}

// ProcessTimed тикает временные эффекты. true - монстр пропускает ход.
func (w *World) ProcessTimed(ref domain.ActorRef, a *domain.Actor) (bool, Outcome) {
	if a.Timed[domain.TimedSleep] > 0 {
		w.reduceSleep(ref, a)
		return true, OutcomeAsleep
	}

	a.Decrease(domain.TimedFast, 1)
	a.Decrease(domain.TimedSlow, 1)
	a.Decrease(domain.TimedHold, 1)
	a.Decrease(domain.TimedStun, 1)
	a.Decrease(domain.TimedConf, 1)
	if a.Timed[domain.TimedFear] > 0 {
		a.Decrease(domain.TimedFear, w.RNG.Int1(a.Race.Level/10+1))
	}

	if a.Timed[domain.TimedHold] > 0 {
		return true, OutcomeHeld
	}
	if a.Timed[domain.TimedStun] > 0 && w.RNG.OneIn(stunMissChance) {
		return true, OutcomeHeld
	}
	return false, OutcomeIdle
}

// reduceSleep - спящий монстр просыпается от шума игрока. Тихий игрок
// будит реже, а вблизи (по звуковой карте) монстр просыпается быстрее.
func (w *World) reduceSleep(ref domain.ActorRef, a *domain.Actor) {
	player := w.Player()
	if player == nil {
		return
	}
	stealth := player.Stealth
	if stealth < 0 {
		stealth = 0
	} else if stealth > 30 {
		stealth = 30
	}
	playerNoise := int64(1) << (30 - stealth)
	notice := int64(w.RNG.Int0(1024))
	if notice*notice*notice > playerNoise {
		return
	}

	reduction := 1
	local := w.Senses.Noise(w.Actors.PlayerRef(), player, a.Grid)
	if local > 0 && local < 50 {
		reduction = 100 / local
	}
	if a.Decrease(domain.TimedSleep, reduction) {
		w.emit(domain.Event{Type: domain.EventWoke, Actor: ref, Grid: a.Grid})
	}
}

// multiply - размножение. Чем теснее вокруг, тем реже.
func (w *World) multiply(ref domain.ActorRef, a *domain.Actor) bool {
	if w.Actors.ReproCount() >= w.Cfg.Registry.MaxRepro {
		return false
	}

	k := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if idx := w.Actors.OccupantAt(a.Grid.Shift(dx, dy)); idx != 0 && idx != domain.PlayerIndex {
				k++
			}
		}
	}
	if k >= 4 || !(k == 0 || w.RNG.OneIn(k*w.Cfg.AI.ReproRate)) {
		return false
	}
	if !a.Has(domain.CapMultiply) {
		return false
	}

	var free []gruid.Point
	for _, d := range domain.DDD {
		g := a.Grid.Add(domain.DirOffset(d))
		if w.Level.InBounds(g) && w.isEmpty(g) && !w.Hates(a, g) {
			free = append(free, g)
		}
	}
	if len(free) == 0 {
		return false
	}
	at := free[w.RNG.Int0(len(free))]

	child := domain.Actor{
		Race:   a.Race,
		Grid:   at,
		HP:     a.MaxHP,
		MaxHP:  a.MaxHP,
		Target: a.Target,
	}
	// Ссылка родителя может устареть после компактизации внутри спавна
	w.emit(domain.Event{Type: domain.EventMultiplied, Actor: ref, Grid: at})
	if w.SpawnMonster(child).IsNil() {
		return false
	}
	w.Actors.NoteRepro()
	return true
}

// MonsterTurn - полный ход активного монстра: размножение, дальняя атака,
// выбор направления и попытка шага. Вызывающий обязан заново получить
// сущность по индексу после этого вызова.
func (w *World) MonsterTurn(ref domain.ActorRef) Outcome {
	a := w.Actors.Get(ref)
	if a == nil {
		return OutcomeIdle
	}

	if w.multiply(ref, a) {
		return OutcomeMultiplied
	}
	if w.Combat.TryRanged(ref) {
		return OutcomeRanged
	}
	// Дальняя атака могла изменить реестр
	if a = w.Actors.Get(ref); a == nil {
		return OutcomeIdle
	}

	stagger := w.ShouldStagger(a)
	var dec MoveDecision
	if stagger == NoStagger {
		var ok bool
		if dec, ok = w.GetMove(ref, a); !ok {
			return OutcomeIdle
		}
	}

	outcome := w.ExecuteMove(ref, a, dec, stagger)
	if w.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		w.log.WithFields(logrus.Fields{
			"actor":   ref,
			"turn":    w.Turn,
			"outcome": outcome,
		}).Debug("Monster turn")
	}
	return outcome
}

// Activate - то, что планировщик делает с монстром, у которого хватило
// энергии: мимики ждут, неактивные стоят, остальные проживают ход.
func (w *World) Activate(ref domain.ActorRef) Outcome {
	a := w.Actors.Get(ref)
	if a == nil {
		return OutcomeIdle
	}
	if a.Camouflaged {
		return OutcomeLurking
	}
	if !w.CheckActive(a) {
		return OutcomeInactive
	}
	if skip, outcome := w.ProcessTimed(ref, a); skip {
		return outcome
	}
	return w.MonsterTurn(ref)
}
