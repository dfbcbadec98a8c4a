package agent

import (
	"encoding/json"

	"dungeon-core/internal/domain"
	"dungeon-core/pkg/api"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
)

// restBelow - ниже этой доли здоровья бот отдыхает, если врагов не видно.
const restBelow = 0.3

// localMap - картина мира, восстановленная из снимка сервера. Все, чего
// бот не видел, считается непроходимым.
type localMap struct {
	size     gruid.Point
	known    map[gruid.Point]bool
	walkable map[gruid.Point]bool
	occupied map[gruid.Point]bool
	stairs   []gruid.Point
}

func buildLocalMap(state api.ServerResponse) *localMap {
	m := &localMap{
		known:    make(map[gruid.Point]bool, len(state.Map)),
		walkable: make(map[gruid.Point]bool, len(state.Map)),
		occupied: make(map[gruid.Point]bool),
	}
	if state.Grid != nil {
		m.size = gruid.Point{X: state.Grid.Width, Y: state.Grid.Height}
	}
	for _, tv := range state.Map {
		p := gruid.Point{X: tv.X, Y: tv.Y}
		m.known[p] = true
		// Закрытая дверь проходима: шаг в нее ее открывает
		if !tv.IsWall && tv.Terrain != "lava" && tv.Terrain != "chasm" {
			m.walkable[p] = true
		}
		if tv.IsStairs {
			m.stairs = append(m.stairs, p)
		}
	}
	for _, ev := range state.Entities {
		m.occupied[gruid.Point{X: ev.Pos.X, Y: ev.Pos.Y}] = true
	}
	return m
}

func (m *localMap) inBounds(p gruid.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.size.X && p.Y < m.size.Y
}

// frontier - известная проходимая клетка рядом с неизвестной.
func (m *localMap) frontier(p gruid.Point) bool {
	if !m.walkable[p] {
		return false
	}
	for _, d := range domain.DDD {
		q := p.Add(domain.DirOffset(d))
		if m.inBounds(q) && !m.known[q] {
			return true
		}
	}
	return false
}

// botPath реализует paths.Astar и paths.Pather поверх локальной карты.
// Занятые клетки обходятся, кроме самой цели.
type botPath struct {
	m    *localMap
	goal gruid.Point
	nbs  paths.Neighbors
}

func (bp *botPath) passable(p gruid.Point) bool {
	return bp.m.walkable[p] && (!bp.m.occupied[p] || p == bp.goal)
}

func (bp *botPath) Neighbors(p gruid.Point) []gruid.Point {
	return bp.nbs.All(p, bp.passable)
}

func (bp *botPath) Cost(from, to gruid.Point) int {
	return 1
}

func (bp *botPath) Estimation(from, to gruid.Point) int {
	return paths.DistanceChebyshev(from, to)
}

// Planner выбирает действие героя по снимку мира.
type Planner struct {
	pr   *paths.PathRange
	size gruid.Point
}

func NewPlanner() *Planner {
	return &Planner{}
}

func (pl *Planner) pathRange(size gruid.Point) *paths.PathRange {
	rg := gruid.NewRange(0, 0, size.X, size.Y)
	switch {
	case pl.pr == nil:
		pl.pr = paths.NewPathRange(rg)
	case pl.size != size:
		pl.pr.SetRange(rg)
	}
	pl.size = size
	return pl.pr
}

// Decide - по порядку: бить соседа, отдыхать раненым, идти к врагу, к
// предмету, к лестнице, к краю исследованного, иначе ждать.
func (pl *Planner) Decide(state api.ServerResponse) api.ClientCommand {
	var me *api.EntityView
	var foes []api.EntityView
	for i := range state.Entities {
		ev := state.Entities[i]
		switch {
		case ev.ID == state.MyEntityID:
			me = &state.Entities[i]
		case ev.Type == "MONSTER" && (ev.Stats == nil || !ev.Stats.IsDead):
			foes = append(foes, ev)
		}
	}
	if me == nil || state.Grid == nil {
		return command(domain.ActionWait, nil)
	}
	here := gruid.Point{X: me.Pos.X, Y: me.Pos.Y}

	// 1. Враг вплотную
	for _, f := range foes {
		if domain.Adjacent(here, gruid.Point{X: f.Pos.X, Y: f.Pos.Y}) {
			return command(domain.ActionAttack, api.EntityPayload{TargetID: f.ID})
		}
	}

	// 2. Раненому без врагов в поле зрения - отдых
	hurt := me.Stats != nil && me.Stats.MaxHP > 0 &&
		float64(me.Stats.HP) < restBelow*float64(me.Stats.MaxHP)
	if hurt && len(foes) == 0 {
		return command(domain.ActionRest, nil)
	}

	m := buildLocalMap(state)
	pr := pl.pathRange(m.size)

	// 3. Ближайший враг
	var goals []gruid.Point
	for _, f := range foes {
		goals = append(goals, gruid.Point{X: f.Pos.X, Y: f.Pos.Y})
	}
	if cmd, ok := pl.stepToward(pr, m, here, goals); ok {
		return cmd
	}

	// 4. Предметы на полу
	goals = goals[:0]
	for _, it := range state.Items {
		if it.Holder != "" {
			continue
		}
		p := gruid.Point{X: it.X, Y: it.Y}
		if p == here {
			return command(domain.ActionPickup, api.ItemPayload{})
		}
		goals = append(goals, p)
	}
	if cmd, ok := pl.stepToward(pr, m, here, goals); ok {
		return cmd
	}

	// 5. Лестница вниз
	if cmd, ok := pl.stepToward(pr, m, here, m.stairs); ok {
		return cmd
	}

	// 6. Разведка: ближайшая по пути граница известного
	if cmd, ok := pl.explore(pr, m, here); ok {
		return cmd
	}

	if me.Stats != nil && me.Stats.HP < me.Stats.MaxHP {
		return command(domain.ActionRest, nil)
	}
	return command(domain.ActionWait, nil)
}

// stepToward строит пути ко всем целям и делает шаг по кратчайшему.
func (pl *Planner) stepToward(pr *paths.PathRange, m *localMap, from gruid.Point, goals []gruid.Point) (api.ClientCommand, bool) {
	var best []gruid.Point
	for _, g := range goals {
		if g == from {
			continue
		}
		path := pr.AstarPath(&botPath{m: m, goal: g}, from, g)
		if len(path) < 2 {
			continue
		}
		if best == nil || len(path) < len(best) {
			best = path
		}
	}
	if best == nil {
		return api.ClientCommand{}, false
	}
	return moveCommand(from, best[1]), true
}

func (pl *Planner) explore(pr *paths.PathRange, m *localMap, from gruid.Point) (api.ClientCommand, bool) {
	bp := &botPath{m: m, goal: from}
	nodes := pr.BreadthFirstMap(bp, []gruid.Point{from}, m.size.X+m.size.Y)

	target, bestCost := gruid.Point{}, -1
	for _, n := range nodes {
		if n.P == from || !m.frontier(n.P) {
			continue
		}
		if bestCost < 0 || n.Cost < bestCost {
			target, bestCost = n.P, n.Cost
		}
	}
	if bestCost < 0 {
		return api.ClientCommand{}, false
	}
	return pl.stepToward(pr, m, from, []gruid.Point{target})
}

func moveCommand(from, to gruid.Point) api.ClientCommand {
	d := to.Sub(from)
	return command(domain.ActionMove, api.DirectionPayload{Dx: d.X, Dy: d.Y})
}

func command(action domain.ActionType, payload any) api.ClientCommand {
	cmd := api.ClientCommand{Action: action.String()}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err == nil {
			cmd.Payload = raw
		}
	}
	return cmd
}
