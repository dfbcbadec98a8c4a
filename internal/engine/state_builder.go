package engine

import (
	"fmt"
	"strconv"

	"dungeon-core/internal/domain"
	"dungeon-core/pkg/api"
	"dungeon-core/pkg/dungeon"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/rl"
)

type glyph struct {
	symbol, color string
}

var terrainGlyphs = map[rl.Cell]glyph{
	domain.TerrainFloor:      {".", "#333333"},
	domain.TerrainWall:       {"#", "#666666"},
	domain.TerrainPermWall:   {"#", "#444444"},
	domain.TerrainRubble:     {":", "#8B7355"},
	domain.TerrainDoorClosed: {"+", "#A0522D"},
	domain.TerrainDoorOpen:   {"'", "#A0522D"},
	domain.TerrainDoorBroken: {"'", "#6B3A1E"},
	domain.TerrainWater:      {"~", "#3B82F6"},
	domain.TerrainLava:       {"~", "#EF4444"},
	domain.TerrainTree:       {"♣", "#15803D"},
	domain.TerrainChasm:      {" ", "#000000"},
}

// RefID - ссылка на сущность в том виде, в каком ее видит клиент.
func RefID(ref domain.ActorRef) string {
	return strconv.FormatUint(uint64(ref), 10)
}

// buildState собирает снимок мира глазами игрока, без логов. Вызывать под mu.
func (s *Session) buildState() *api.ServerResponse {
	w := s.World
	lvl := w.Level
	god := s.omniscient

	// 1. Поле зрения и память (туман войны)
	visible := make(map[gruid.Point]bool)
	if p := w.Player(); p != nil && !w.PlayerDead() {
		for _, q := range w.View.Visible(p.Grid) {
			visible[q] = true
			s.explored[q] = true
		}
	}

	// 2. Карта: только то, что игрок когда-либо видел
	var tiles []api.TileView
	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			p := gruid.Point{X: x, Y: y}
			if !god && !s.explored[p] {
				continue
			}
			tiles = append(tiles, tileView(lvl, p, god || visible[p]))
		}
	}

	// 3. Сущности в поле зрения. Затаившихся мимиков видно только богу
	var entities []api.EntityView
	for i := domain.PlayerIndex; i < w.Actors.Max(); i++ {
		a := w.Actors.At(i)
		if a == nil {
			continue
		}
		if i != domain.PlayerIndex && !god && (!visible[a.Grid] || a.Camouflaged) {
			continue
		}
		entities = append(entities, s.entityView(i, a, god))
	}

	// 4. Предметы на полу в поле зрения и у игрока
	var items []api.ItemView
	for p := range visible {
		for _, it := range s.Stash.At(p) {
			items = append(items, itemView(it.ID, it.Name, it.Grid, ""))
		}
	}
	playerRef := w.Actors.PlayerRef()
	for _, it := range s.Stash.HeldBy(playerRef) {
		items = append(items, itemView(it.ID, it.Name, it.Grid, RefID(playerRef)))
	}

	resp := &api.ServerResponse{
		Type:       "UPDATE",
		Tick:       w.Turn,
		Status:     s.status.String(),
		MyEntityID: RefID(playerRef),
		Grid:       &api.GridMeta{Width: lvl.Width, Height: lvl.Height},
		Map:        tiles,
		Entities:   entities,
		Items:      items,
	}
	if s.status == StatusAwaitingInput {
		resp.ActiveEntityID = resp.MyEntityID
	}
	return resp
}

func tileView(lvl *domain.Level, p gruid.Point, isVisible bool) api.TileView {
	cell := lvl.At(p)
	g, ok := terrainGlyphs[cell]
	if !ok {
		g = glyph{"?", "#FF00FF"}
	}
	tv := api.TileView{
		X: p.X, Y: p.Y,
		Symbol:     g.symbol,
		Color:      g.color,
		Terrain:    domain.TerrainName(cell),
		IsWall:     !lvl.Passable(p) && !lvl.IsClosedDoor(p),
		IsVisible:  isVisible,
		IsExplored: true,
	}
	if lvl.IsStairs(p) {
		tv.IsStairs = true
		tv.Symbol, tv.Color = ">", "#FFFFFF"
	}
	return tv
}

// entityView конвертирует сущность в DTO. Внутреннее состояние монстров
// отдается только в режиме "божьего зрения".
func (s *Session) entityView(idx int, a *domain.Actor, god bool) api.EntityView {
	ref := s.World.Actors.RefAt(idx)
	view := api.EntityView{
		ID:   RefID(ref),
		Type: "MONSTER",
		Name: a.Name,
	}
	if idx == domain.PlayerIndex {
		view.Type = "PLAYER"
	}
	view.Pos.X, view.Pos.Y = a.Grid.X, a.Grid.Y
	view.Render.Symbol = a.Race.Glyph
	view.Render.Color = dungeon.ColorOf(a.Race)

	view.Stats = &api.StatsView{HP: a.HP, MaxHP: a.MaxHP, IsDead: a.HP <= 0}
	if idx == domain.PlayerIndex || god {
		view.Stats.Speed = a.EffectiveSpeed()
		view.Stats.Energy = a.Energy
	}

	if god && idx != domain.PlayerIndex {
		mind := &api.MindView{
			Target:    a.Target.String(),
			Active:    a.Active,
			MinRange:  a.MinRange,
			BestRange: a.BestRange,
		}
		for t := domain.Timed(0); t < domain.TimedCount; t++ {
			if a.Timed[t] > 0 {
				if mind.Timed == nil {
					mind.Timed = make(map[string]int)
				}
				mind.Timed[t.String()] = a.Timed[t]
			}
		}
		if a.Group != 0 {
			mind.Group = fmt.Sprintf("%s#%d", a.Role, a.Group)
		}
		view.Mind = mind
	}
	return view
}

func itemView(id, name string, at gruid.Point, holder string) api.ItemView {
	return api.ItemView{ID: id, Name: name, Symbol: "!", X: at.X, Y: at.Y, Holder: holder}
}
