package systems

import (
	"dungeon-core/internal/domain"
	"dungeon-core/pkg/logger"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
	"github.com/sirupsen/logrus"
)

// senseMaps - пара тепловых карт одного источника.
type senseMaps struct {
	noise *Heatmap
	scent *Heatmap
	dirty bool
}

// Perception ведет тепловые карты звука и запаха по источникам: игрок и
// монстры, которых кто-то выбрал целью.
//
// Карта пересчитывается целиком, и только когда источник сдвинулся или
// пошумел (NoteMoved/NoteNoise), при этом отдыхающий источник пересчет
// откладывает. Расчет ленивый: при первом чтении после пометки.
type Perception struct {
	lvl        *domain.Level
	pr         *paths.PathRange
	flowDepth  int
	scentDepth int

	maps map[domain.ActorRef]*senseMaps

	// Recomputes - счетчик пересчетов, для тестов и телеметрии.
	Recomputes int

	log *logrus.Entry
}

func NewPerception(lvl *domain.Level, flowDepth, scentDepth int) *Perception {
	p := &Perception{
		flowDepth:  flowDepth,
		scentDepth: scentDepth,
		log:        logger.For("perception"),
	}
	p.Reset(lvl)
	return p
}

// Reset выбрасывает все карты (смена уровня или загрузка).
func (p *Perception) Reset(lvl *domain.Level) {
	p.lvl = lvl
	p.pr = paths.NewPathRange(lvl.Range())
	p.maps = make(map[domain.ActorRef]*senseMaps)
}

// NoteMoved - источник сдвинулся.
func (p *Perception) NoteMoved(src domain.ActorRef) {
	if m, ok := p.maps[src]; ok {
		m.dirty = true
	}
}

// NoteNoise - источник сделал что-то шумное, не сходя с места.
func (p *Perception) NoteNoise(src domain.ActorRef) {
	p.NoteMoved(src)
}

// Forget удаляет карты источника (источник умер).
func (p *Perception) Forget(src domain.ActorRef) {
	delete(p.maps, src)
}

// Relocated переносит карты при переезде источника в другой слот.
func (p *Perception) Relocated(from, to domain.ActorRef) {
	if m, ok := p.maps[from]; ok {
		delete(p.maps, from)
		p.maps[to] = m
	}
}

// Removed - источник удален из реестра (убит, затоптан, вычищен
// компактизацией).
func (p *Perception) Removed(ref domain.ActorRef, _ gruid.Point) {
	p.Forget(ref)
}

// Sources - число отслеживаемых источников.
func (p *Perception) Sources() int {
	return len(p.maps)
}

func (p *Perception) get(src domain.ActorRef, origin *domain.Actor) *senseMaps {
	m, ok := p.maps[src]
	if !ok {
		m = &senseMaps{dirty: true}
		p.maps[src] = m
	}
	if m.noise == nil || (m.dirty && !origin.Resting) {
		p.recompute(m, origin.Grid)
	}
	return m
}

func (p *Perception) recompute(m *senseMaps, at gruid.Point) {
	m.noise = computeHeatmap(p.pr, p.lvl, p.lvl.NoisePassable, at, p.flowDepth)
	m.scent = computeHeatmap(p.pr, p.lvl, p.lvl.ScentPassable, at, p.scentDepth)
	m.dirty = false
	p.Recomputes++

	p.log.WithField("origin", at).Trace("Heatmaps recomputed")
}

// Noise - значение звуковой карты источника в клетке.
func (p *Perception) Noise(src domain.ActorRef, origin *domain.Actor, at gruid.Point) int {
	return p.get(src, origin).noise.At(at)
}

// Scent - значение карты запаха источника в клетке.
func (p *Perception) Scent(src domain.ActorRef, origin *domain.Actor, at gruid.Point) int {
	return p.get(src, origin).scent.At(at)
}

// NoiseMap возвращает карту целиком (для отладки и тестов).
func (p *Perception) NoiseMap(src domain.ActorRef, origin *domain.Actor) *Heatmap {
	return p.get(src, origin).noise
}

// ScentMap возвращает карту запаха целиком.
func (p *Perception) ScentMap(src domain.ActorRef, origin *domain.Actor) *Heatmap {
	return p.get(src, origin).scent
}

// --- Слух и нюх сущностей ---

// perceivedSource - источник, которого сущность воспринимает: ее цель,
// если это игрок или монстр. Для цели-клетки карт нет.
func (w *World) perceivedSource(a *domain.Actor) (domain.ActorRef, *domain.Actor, bool) {
	src, _, ok := w.resolveTarget(a)
	if !ok || src.IsNil() {
		return domain.NilActorRef, nil, false
	}
	origin := w.Actors.Get(src)
	if origin == nil {
		return domain.NilActorRef, nil, false
	}
	return src, origin, true
}

// noiseAt - значение карты звука цели сущности.
func (w *World) noiseAt(a *domain.Actor, p gruid.Point) int {
	src, origin, ok := w.perceivedSource(a)
	if !ok {
		return 0
	}
	return w.Senses.Noise(src, origin, p)
}

func (w *World) scentAt(a *domain.Actor, p gruid.Point) int {
	src, origin, ok := w.perceivedSource(a)
	if !ok {
		return 0
	}
	return w.Senses.Scent(src, origin, p)
}

// baseHearing - слух с поправкой на скрытность цели (есть только у игрока).
func (w *World) baseHearing(a *domain.Actor) int {
	base := a.Race.Hearing
	if a.Target.Kind == domain.TargetPlayer {
		if player := w.Player(); player != nil {
			base -= player.Stealth / 3
		}
	}
	return base
}

// CanHear - сущность слышит свою цель.
func (w *World) CanHear(a *domain.Actor) bool {
	heat := w.noiseAt(a, a.Grid)
	if heat == 0 {
		return false
	}
	return w.baseHearing(a)-heat > 0
}

// CanSmell - сущность чует свою цель.
func (w *World) CanSmell(a *domain.Actor) bool {
	if a.Race.Smell == 0 {
		return false
	}
	heat := w.scentAt(a, a.Grid)
	if heat == 0 {
		return false
	}
	return a.Race.Smell-heat > 0
}
