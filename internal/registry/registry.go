// Package registry хранит игрока и монстров в слотах фиксированной ёмкости.
package registry

import (
	"errors"

	"dungeon-core/internal/domain"
	"dungeon-core/pkg/logger"
	"dungeon-core/pkg/utils"

	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrFull - свободных слотов нет.
	ErrFull = errors.New("registry: no free actor slot")
	// ErrStaleRef - ссылка указывает на удаленную или переехавшую сущность.
	ErrStaleRef = errors.New("registry: stale actor reference")
	// ErrOccupied - клетка уже занята.
	ErrOccupied = errors.New("registry: grid is occupied")
)

// Options - параметры реестра.
type Options struct {
	MaxActors      int
	StartEnergyMax int
	// CompactIterationLimit - после этой итерации спасброски при
	// компактизации обнуляются, и цикл гарантированно завершается.
	CompactIterationLimit int
}

// Registry - арена слотов. Слот 0 зарезервирован, слот 1 - игрок.
//
// Инварианты:
//   - в одной клетке не больше одной живой сущности;
//   - индекс живой сущности меняется только при Compact;
//   - все слоты с индексом >= Max() пусты.
type Registry struct {
	slots []domain.Actor
	gens  []uint16
	max   int // первый неиспользованный индекс
	live  int // живых, не считая слот 0

	width, height int
	occ           []int // индекс сущности по клетке, 0 - пусто

	groups    map[domain.GroupID]*domain.Group
	nextGroup domain.GroupID

	healthTrack domain.ActorRef
	observers   []domain.RelocationObserver

	reproCount int

	opts Options
	rng  utils.RNG
	log  *logrus.Entry
}

// New создает реестр для уровня w x h.
func New(opts Options, w, h int, rng utils.RNG) *Registry {
	if opts.MaxActors < 2 {
		opts.MaxActors = 2
	}
	if opts.CompactIterationLimit <= 0 {
		opts.CompactIterationLimit = 1000
	}
	r := &Registry{
		slots:  make([]domain.Actor, opts.MaxActors),
		gens:   make([]uint16, opts.MaxActors),
		max:    domain.PlayerIndex + 1,
		opts:   opts,
		rng:    rng,
		groups: make(map[domain.GroupID]*domain.Group),
		log:    logger.For("registry"),
	}
	r.resize(w, h)
	return r
}

func (r *Registry) resize(w, h int) {
	r.width, r.height = w, h
	r.occ = make([]int, w*h)
}

// Reset очищает реестр под новый уровень. Возвращает данные игрока:
// вызывающий код выставляет ему новую клетку и кладет через PlacePlayer.
func (r *Registry) Reset(w, h int) domain.Actor {
	player := r.slots[domain.PlayerIndex]
	for i := range r.slots {
		r.slots[i] = domain.Actor{}
		if i != domain.PlayerIndex {
			r.gens[i]++
		}
	}
	r.max = domain.PlayerIndex + 1
	r.live = 0
	r.groups = make(map[domain.GroupID]*domain.Group)
	r.healthTrack = domain.NilActorRef
	r.reproCount = 0
	r.resize(w, h)
	return player
}

// Cap - ёмкость реестра.
func (r *Registry) Cap() int { return len(r.slots) }

// Max - верхняя граница занятых индексов (исключительно).
func (r *Registry) Max() int { return r.max }

// Count - число живых сущностей, включая игрока.
func (r *Registry) Count() int { return r.live }

// Free - сколько слотов еще можно занять (слот 0 не в счет).
func (r *Registry) Free() int { return len(r.slots) - 1 - r.live }

// ReproCount - сколько монстров появилось размножением.
func (r *Registry) ReproCount() int { return r.reproCount }

func (r *Registry) NoteRepro() { r.reproCount++ }

// AddObserver подписывает наблюдателя на переезды при компактизации и на
// удаления.
func (r *Registry) AddObserver(o domain.RelocationObserver) {
	r.observers = append(r.observers, o)
}

// RefAt возвращает ссылку на текущего жильца слота.
func (r *Registry) RefAt(index int) domain.ActorRef {
	if index <= 0 || index >= r.max {
		return domain.NilActorRef
	}
	return domain.PackActorRef(r.gens[index], index)
}

// At возвращает сущность по индексу, nil для мертвого или пустого слота.
func (r *Registry) At(index int) *domain.Actor {
	if index <= 0 || index >= r.max {
		return nil
	}
	a := &r.slots[index]
	if a.Dead() {
		return nil
	}
	return a
}

// Get резолвит ссылку; nil, если сущность удалена или переехала.
func (r *Registry) Get(ref domain.ActorRef) *domain.Actor {
	idx := ref.Index()
	if idx <= 0 || idx >= r.max || r.gens[idx] != ref.Generation() {
		return nil
	}
	return r.At(idx)
}

// Lookup - то же, что Get, но с ошибкой для внешнего кода.
func (r *Registry) Lookup(ref domain.ActorRef) (*domain.Actor, error) {
	if a := r.Get(ref); a != nil {
		return a, nil
	}
	return nil, ErrStaleRef
}

// PlayerRef - ссылка на игрока.
func (r *Registry) PlayerRef() domain.ActorRef {
	return domain.PackActorRef(r.gens[domain.PlayerIndex], domain.PlayerIndex)
}

// Player возвращает игрока (nil, если он еще не размещен).
func (r *Registry) Player() *domain.Actor {
	return r.At(domain.PlayerIndex)
}

// PlacePlayer кладет игрока в слот 1.
func (r *Registry) PlacePlayer(a domain.Actor) (domain.ActorRef, error) {
	if a.Race == nil {
		return domain.NilActorRef, errors.New("registry: player needs a race")
	}
	if !r.inBounds(a.Grid) {
		return domain.NilActorRef, errors.New("registry: player out of bounds")
	}
	if occ := r.occ[r.cell(a.Grid)]; occ != 0 && occ != domain.PlayerIndex {
		return domain.NilActorRef, ErrOccupied
	}

	old := &r.slots[domain.PlayerIndex]
	if !old.Dead() {
		if r.inBounds(old.Grid) && r.occ[r.cell(old.Grid)] == domain.PlayerIndex {
			r.occ[r.cell(old.Grid)] = 0
		}
		r.live--
	}
	r.slots[domain.PlayerIndex] = a
	r.occ[r.cell(a.Grid)] = domain.PlayerIndex
	r.live++
	return r.PlayerRef(), nil
}

// Spawn размещает монстра. Возвращает NilActorRef, если реестр полон
// или клетка занята: вызывающий код обязан это проверить.
func (r *Registry) Spawn(a domain.Actor) domain.ActorRef {
	if a.Race == nil || !r.inBounds(a.Grid) || r.occ[r.cell(a.Grid)] != 0 {
		return domain.NilActorRef
	}

	idx := 0
	if r.max < len(r.slots) {
		idx = r.max
		r.max++
	} else {
		for i := domain.PlayerIndex + 1; i < r.max; i++ {
			if r.slots[i].Dead() {
				idx = i
				break
			}
		}
	}
	if idx == 0 {
		r.log.WithField("capacity", len(r.slots)).Warn("Spawn failed: registry is full")
		return domain.NilActorRef
	}

	if a.Speed == 0 {
		a.Speed = a.Race.Speed
	}
	if a.Name == "" {
		a.Name = a.Race.Name
	}
	a.Energy = r.rng.Int0(r.opts.StartEnergyMax)
	a.Handled = false
	if a.Race.Has(domain.CapMimic) {
		a.Camouflaged = true
	}

	r.gens[idx]++
	r.slots[idx] = a
	r.occ[r.cell(a.Grid)] = idx
	r.live++

	ref := r.RefAt(idx)
	r.log.WithFields(logrus.Fields{
		"actor": ref,
		"race":  a.Race.Name,
		"grid":  a.Grid,
	}).Debug("Actor spawned")
	return ref
}

// TrySpawn - вариант Spawn с ошибкой.
func (r *Registry) TrySpawn(a domain.Actor) (domain.ActorRef, error) {
	ref := r.Spawn(a)
	if ref.IsNil() {
		if r.inBounds(a.Grid) && r.occ[r.cell(a.Grid)] != 0 {
			return ref, ErrOccupied
		}
		return ref, ErrFull
	}
	return ref, nil
}

// Delete помечает сущность мертвой. Слот не сдвигается: безопасно
// вызывать посреди прохода планировщика.
func (r *Registry) Delete(ref domain.ActorRef) bool {
	a := r.Get(ref)
	if a == nil || ref.Index() == domain.PlayerIndex {
		return false
	}
	r.deleteAt(ref.Index())
	return true
}

func (r *Registry) deleteAt(idx int) {
	a := &r.slots[idx]
	ref := r.RefAt(idx)
	at := a.Grid
	if r.occ[r.cell(at)] == idx {
		r.occ[r.cell(at)] = 0
	}
	r.leaveGroup(ref, a)
	if r.healthTrack == ref {
		r.healthTrack = domain.NilActorRef
	}
	*a = domain.Actor{}
	r.live--

	for _, o := range r.observers {
		o.Removed(ref, at)
	}
}

// --- Занятость клеток ---

func (r *Registry) inBounds(p gruid.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < r.width && p.Y < r.height
}

func (r *Registry) cell(p gruid.Point) int {
	return p.Y*r.width + p.X
}

// OccupantAt возвращает индекс сущности в клетке, 0 если пусто.
func (r *Registry) OccupantAt(p gruid.Point) int {
	if !r.inBounds(p) {
		return 0
	}
	return r.occ[r.cell(p)]
}

// ActorAt возвращает сущность в клетке.
func (r *Registry) ActorAt(p gruid.Point) *domain.Actor {
	return r.At(r.OccupantAt(p))
}

// Swap меняет местами жильцов двух клеток. Пустая клетка тоже годится,
// тогда это обычный шаг.
func (r *Registry) Swap(a, b gruid.Point) {
	if !r.inBounds(a) || !r.inBounds(b) {
		return
	}
	ia, ib := r.occ[r.cell(a)], r.occ[r.cell(b)]
	r.occ[r.cell(a)], r.occ[r.cell(b)] = ib, ia
	if ia != 0 {
		r.slots[ia].Grid = b
	}
	if ib != 0 {
		r.slots[ib].Grid = a
	}
}

// Move переносит сущность в пустую клетку.
func (r *Registry) Move(ref domain.ActorRef, to gruid.Point) error {
	a := r.Get(ref)
	if a == nil {
		return ErrStaleRef
	}
	if !r.inBounds(to) {
		return errors.New("registry: destination out of bounds")
	}
	if occ := r.occ[r.cell(to)]; occ != 0 && occ != ref.Index() {
		return ErrOccupied
	}
	r.Swap(a.Grid, to)
	return nil
}

// --- Отслеживание здоровья (UI) ---

func (r *Registry) TrackHealth(ref domain.ActorRef) { r.healthTrack = ref }

func (r *Registry) HealthTracked() domain.ActorRef { return r.healthTrack }
