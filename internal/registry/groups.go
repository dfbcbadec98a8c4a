package registry

import "dungeon-core/internal/domain"

// NewGroup создает стаю с лидером и возвращает ее номер.
func (r *Registry) NewGroup(leader domain.ActorRef) domain.GroupID {
	a := r.Get(leader)
	if a == nil {
		return 0
	}
	r.leaveGroup(leader, a)

	r.nextGroup++
	id := r.nextGroup
	r.groups[id] = &domain.Group{ID: id, Leader: leader, Members: []domain.ActorRef{leader}}
	a.Group = id
	a.Role = domain.RoleLeader
	return id
}

// Join добавляет сущность в стаю с указанной ролью.
func (r *Registry) Join(id domain.GroupID, ref domain.ActorRef, role domain.GroupRole) bool {
	g, ok := r.groups[id]
	a := r.Get(ref)
	if !ok || a == nil {
		return false
	}
	if a.Group == id {
		a.Role = role
		return true
	}
	r.leaveGroup(ref, a)

	g.Members = append(g.Members, ref)
	a.Group = id
	a.Role = role
	return true
}

// Group возвращает стаю по номеру.
func (r *Registry) Group(id domain.GroupID) *domain.Group {
	return r.groups[id]
}

// LeaderOf возвращает лидера стаи сущности (nil, если его нет).
func (r *Registry) LeaderOf(a *domain.Actor) *domain.Actor {
	if a == nil || a.Group == 0 {
		return nil
	}
	g, ok := r.groups[a.Group]
	if !ok {
		return nil
	}
	return r.Get(g.Leader)
}

func (r *Registry) leaveGroup(ref domain.ActorRef, a *domain.Actor) {
	if a.Group == 0 {
		return
	}
	g, ok := r.groups[a.Group]
	a.Group, a.Role = 0, domain.RoleNone
	if !ok {
		return
	}

	for i, m := range g.Members {
		if m == ref {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			break
		}
	}
	if len(g.Members) == 0 {
		delete(r.groups, g.ID)
		return
	}
	if g.Leader == ref {
		// Лидером становится первый оставшийся участник
		g.Leader = g.Members[0]
		if next := r.Get(g.Leader); next != nil {
			next.Role = domain.RoleLeader
		}
	}
}

// relinkGroup переписывает ссылку в стае при переезде слота.
func (r *Registry) relinkGroup(a *domain.Actor, from, to domain.ActorRef) {
	if a.Group == 0 {
		return
	}
	g, ok := r.groups[a.Group]
	if !ok {
		return
	}
	if g.Leader == from {
		g.Leader = to
	}
	for i, m := range g.Members {
		if m == from {
			g.Members[i] = to
		}
	}
}
