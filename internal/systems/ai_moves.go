package systems

import (
	"dungeon-core/internal/domain"

	"codeberg.org/anaseto/gruid"
)

// --- Вспомогательные проверки клеток ---

// monsterAt возвращает монстра в клетке (игрок не считается).
func (w *World) monsterAt(p gruid.Point) (domain.ActorRef, *domain.Actor) {
	idx := w.Actors.OccupantAt(p)
	if idx == 0 || idx == domain.PlayerIndex {
		return domain.NilActorRef, nil
	}
	return w.Actors.RefAt(idx), w.Actors.At(idx)
}

// isEmpty - клетка проходима и никем не занята.
func (w *World) isEmpty(p gruid.Point) bool {
	return w.Level.Passable(p) && w.Actors.OccupantAt(p) == 0
}

// canKillAt - сущность может затоптать того, кто стоит в клетке
// (или клетка свободна от монстров).
func (w *World) canKillAt(a *domain.Actor, p gruid.Point) bool {
	_, other := w.monsterAt(p)
	if other == nil {
		return true
	}
	if other.Has(domain.CapUnique) {
		return false
	}
	return a.Has(domain.CapKillBody) && a.Worth() > other.Worth()
}

// canShoveAt - сущность может протолкнуться мимо того, кто стоит в клетке.
func (w *World) canShoveAt(a *domain.Actor, p gruid.Point) bool {
	_, other := w.monsterAt(p)
	if other == nil {
		return true
	}
	return a.Has(domain.CapMoveBody) && a.Worth() > other.Worth()
}

// --- Телохранитель ---

// moveBodyguard ведет телохранителя к лидеру. true - цель хода выбрана.
func (w *World) moveBodyguard(a *domain.Actor) bool {
	leader := w.Actors.LeaderOf(a)
	if leader == nil || leader == a {
		return false
	}

	dist := domain.Distance(a.Grid, leader.Grid)
	if dist <= 1 {
		return false
	}
	// Лидер далеко и не виден - спасайся сам
	if dist > w.Cfg.AI.BodyguardLeash && !HasLineOfSight(w.Level, a.Grid, leader.Grid) {
		return false
	}

	found := false
	var best gruid.Point
	for i := 7; i >= 0; i-- {
		g := a.Grid.Add(domain.DirOffset(domain.DDD[i]))
		if !w.Level.InBounds(g) {
			continue
		}
		if !w.canKillAt(a, g) && !w.canShoveAt(a, g) {
			continue
		}
		if w.Hates(a, g) {
			continue
		}
		if !w.Level.Passable(g) && !a.PassesWalls() {
			continue
		}
		if nd := domain.Distance(g, leader.Grid); nd < dist {
			best, dist, found = g, nd, true
			if dist <= 1 {
				break
			}
		}
	}
	if found {
		a.Goal = best
	}
	return found
}

// --- Наступление ---

// nearPermanentWall - сквозь-стенный монстр не пройдет напрямую, потому
// что на пути постоянная стена. Иногда монстр идет "по течению" и так.
func (w *World) nearPermanentWall(a *domain.Actor, target gruid.Point) bool {
	if HasLineOfSight(w.Level, a.Grid, target) {
		return false
	}
	if w.RNG.Int0(99) < 5 {
		return true
	}
	return NearPermanentWall(w.Level, a.Grid, target, w.Cfg.Perception.MaxSight)
}

// advance выбирает клетку для движения к цели. Возвращает (найдено,
// выслеживание). Выслеживание означает, что клетка выбрана по слуху или
// нюху, а не по прямому взгляду.
func (w *World) advance(a *domain.Actor) (bool, bool) {
	target, ok := w.TargetGrid(a)
	if !ok {
		return false, false
	}

	if a.PassesWalls() && !w.nearPermanentWall(a, target) {
		a.Goal = target
		return true, false
	}
	if w.targetInView(a) {
		a.Goal = target
		return true, false
	}

	found, haveBackup := false, false
	var backup gruid.Point

	if w.CanHear(a) {
		base := w.baseHearing(a)
		current := base - w.noiseAt(a, a.Grid)
		for _, d := range domain.DDD {
			g := a.Grid.Add(domain.DirOffset(d))
			if !w.Level.InBounds(g) {
				continue
			}
			noise := w.noiseAt(a, g)
			if noise == 0 {
				continue
			}
			if !w.canKillAt(a, g) && !w.canShoveAt(a, g) {
				continue
			}
			if w.Hates(a, g) {
				continue
			}
			heard := base - noise
			if heard > current {
				a.Goal = g
				found = true
				break
			}
			if heard == current {
				// Запасной ход, если ближе подойти нельзя
				backup, haveBackup = g, true
			}
		}
	}

	if !found && w.CanSmell(a) {
		current := a.Race.Smell - w.scentAt(a, a.Grid)
		for _, d := range domain.DDD {
			g := a.Grid.Add(domain.DirOffset(d))
			if !w.Level.InBounds(g) {
				continue
			}
			scent := w.scentAt(a, g)
			if scent == 0 {
				continue
			}
			if !w.canKillAt(a, g) && !w.canShoveAt(a, g) {
				continue
			}
			if w.Hates(a, g) {
				continue
			}
			if a.Race.Smell-scent > current {
				a.Goal = g
				found = true
				break
			}
		}
	}

	switch {
	case found:
		return true, true
	case haveBackup:
		a.Goal = backup
		return true, true
	}
	return false, false
}

// --- Засада и бегство ---

// openAround считает открытые клетки вокруг цели (пол или комната).
func (w *World) openAround(target gruid.Point) int {
	open := 0
	for _, d := range domain.DDD {
		g := target.Add(domain.DirOffset(d))
		if !w.Level.InBoundsFully(g) {
			continue
		}
		if w.Level.Passable(g) || w.Level.IsRoom(g) {
			open++
		}
	}
	return open
}

// findHiding ищет укрытие для засады: пустую клетку вне поля зрения
// игрока, на прямой видимости от монстра, не ближе 3/4 текущей
// дистанции. Из подходящих выбирается ближайшая к цели.
func (w *World) findHiding(a *domain.Actor, target gruid.Point) bool {
	minDist := domain.Distance(target, a.Grid)*3/4 + 2

	for d := 1; d <= w.Cfg.AI.SearchRings; d++ {
		best, bestDist := gruid.Point{}, 999
		for _, off := range domain.Ring(d) {
			g := a.Grid.Add(off)
			if !w.Level.InBoundsFully(g) || !w.isEmpty(g) {
				continue
			}
			if w.InView(g) || !HasLineOfSight(w.Level, a.Grid, g) {
				continue
			}
			if dis := domain.Distance(g, target); dis < bestDist && dis >= minDist {
				best, bestDist = g, dis
			}
		}
		if bestDist < 999 {
			a.Goal = best
			return true
		}
	}
	return false
}

// findSafety ищет безопасную клетку: проходимую, не опасную, вне поля
// зрения игрока и не слишком далекую по звуковой карте. Выбирается самая
// дальняя от угрозы в первом кольце, где нашлась хоть одна.
func (w *World) findSafety(a *domain.Actor, threat gruid.Point) bool {
	here := w.noiseAt(a, a.Grid)

	for d := 1; d <= w.Cfg.AI.SearchRings; d++ {
		best, bestDist := gruid.Point{}, 0
		for _, off := range domain.Ring(d) {
			g := a.Grid.Add(off)
			if !w.Level.InBoundsFully(g) || !w.Level.Passable(g) {
				continue
			}
			if w.noiseAt(a, g) > here+2*d {
				continue
			}
			if w.Hates(a, g) || w.InView(g) {
				continue
			}
			if dis := domain.Distance(g, threat); dis > bestDist {
				best, bestDist = g, dis
			}
		}
		if bestDist > 0 {
			a.Goal = best
			return true
		}
	}
	return false
}

// flee делает один шаг к убежищу (Goal), стараясь уйти подальше по
// звуковой карте. Диагонали проверяются первыми.
func (w *World) flee(a *domain.Actor) bool {
	if !w.TakingTerrainDamage(a) && w.targetDistance(a) >= a.BestRange {
		return false
	}

	best, bestScore := gruid.Point{}, -1
	for i := 7; i >= 0; i-- {
		g := a.Grid.Add(domain.DirOffset(domain.DDD[i]))
		if !w.Level.InBounds(g) {
			continue
		}
		dis := domain.Distance(g, a.Goal)
		score := 5000/(dis+3) - 500/(w.noiseAt(a, g)+1)
		if score < 0 {
			score = 0
		}
		if score < bestScore {
			continue
		}
		best, bestScore = g, score
	}
	if bestScore < 0 {
		return false
	}
	a.Goal = best
	return true
}
