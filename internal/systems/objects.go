package systems

import (
	"errors"
	"fmt"

	"dungeon-core/internal/domain"
	"dungeon-core/internal/registry"
	"dungeon-core/pkg/logger"
	"dungeon-core/pkg/utils"

	"codeberg.org/anaseto/gruid"
	"github.com/sirupsen/logrus"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrNotHolder    = errors.New("item is held by someone else")
	ErrOutOfReach   = errors.New("item is out of reach")
)

// Item - предмет демо-арены. Либо лежит на полу, либо принадлежит
// сущности (Holder). Владелец хранится ссылкой, компактизация ее правит.
type Item struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Grid   gruid.Point     `json:"grid"`
	Holder domain.ActorRef `json:"holder,omitempty"`
}

// Stash - все предметы уровня. Реализует domain.Objects (подбор при
// шаге) и domain.RelocationObserver (переезд владельцев).
type Stash struct {
	w     *World
	items map[string]*Item
	log   *logrus.Entry
}

func NewStash(w *World) *Stash {
	s := &Stash{
		w:     w,
		items: make(map[string]*Item),
		log:   logger.For("objects"),
	}
	w.Actors.AddObserver(s)
	return s
}

// Drop кладет новый предмет на пол.
func (s *Stash) Drop(name string, at gruid.Point) *Item {
	it := &Item{ID: utils.GenerateID(), Name: name, Grid: at}
	s.items[it.ID] = it
	return it
}

// At - предметы на полу в клетке.
func (s *Stash) At(p gruid.Point) []*Item {
	var out []*Item
	for _, it := range s.items {
		if it.Holder.IsNil() && it.Grid == p {
			out = append(out, it)
		}
	}
	return out
}

// HeldBy - предметы во владении сущности.
func (s *Stash) HeldBy(ref domain.ActorRef) []*Item {
	var out []*Item
	for _, it := range s.items {
		if it.Holder == ref {
			out = append(out, it)
		}
	}
	return out
}

func (s *Stash) Len() int { return len(s.items) }

// Grab - сущность встала на клетку: подобрать или раздавить то, что лежит.
func (s *Stash) Grab(actor domain.ActorRef, at gruid.Point) {
	a := s.w.Actors.Get(actor)
	if a == nil {
		return
	}
	take, crush := a.Has(domain.CapTakeItem), a.Has(domain.CapKillItem)
	if !take && !crush {
		return
	}

	for _, it := range s.At(at) {
		switch {
		case take:
			it.Holder = actor
			s.w.emit(domain.Event{Type: domain.EventItemTaken, Actor: actor, Grid: at, Text: it.Name})
		case crush:
			delete(s.items, it.ID)
			s.w.emit(domain.Event{Type: domain.EventItemCrushed, Actor: actor, Grid: at, Text: it.Name})
		}
	}
}

// Take забирает предмет с пола под ногами сущности.
func (s *Stash) Take(actor domain.ActorRef, id string) (*Item, error) {
	a := s.w.Actors.Get(actor)
	if a == nil {
		return nil, fmt.Errorf("take %s: %w", id, registry.ErrStaleRef)
	}
	it, ok := s.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	if !it.Holder.IsNil() {
		return nil, ErrNotHolder
	}
	if it.Grid != a.Grid {
		return nil, ErrOutOfReach
	}
	it.Holder = actor
	s.w.emit(domain.Event{Type: domain.EventItemTaken, Actor: actor, Grid: a.Grid, Text: it.Name})
	return it, nil
}

// Release кладет предмет сущности на пол в клетку at.
func (s *Stash) Release(actor domain.ActorRef, id string, at gruid.Point) (*Item, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	if it.Holder != actor {
		return nil, ErrNotHolder
	}
	it.Holder = domain.NilActorRef
	it.Grid = at
	return it, nil
}

// Relocated переписывает владельца после компактизации.
func (s *Stash) Relocated(from, to domain.ActorRef) {
	for _, it := range s.items {
		if it.Holder == from {
			it.Holder = to
		}
	}
}

// Removed - владелец исчез из реестра, его вещи остаются на полу.
func (s *Stash) Removed(ref domain.ActorRef, at gruid.Point) {
	s.DropAll(ref, at)
}

// DropAll высыпает имущество погибшей сущности на пол.
func (s *Stash) DropAll(holder domain.ActorRef, at gruid.Point) int {
	n := 0
	for _, it := range s.items {
		if it.Holder == holder {
			it.Holder = domain.NilActorRef
			it.Grid = at
			n++
		}
	}
	if n > 0 {
		s.log.WithFields(logrus.Fields{"holder": holder, "grid": at, "count": n}).Debug("Items dropped")
	}
	return n
}

// Reset выбрасывает предметы старого уровня. Имущество keep остается при нем.
func (s *Stash) Reset(keep domain.ActorRef) {
	for id, it := range s.items {
		if keep.IsNil() || it.Holder != keep {
			delete(s.items, id)
		}
	}
}

func (it *Item) String() string {
	return fmt.Sprintf("%s(%s)", it.Name, it.ID)
}
