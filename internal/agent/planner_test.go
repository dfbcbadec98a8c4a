package agent

import (
	"encoding/json"
	"testing"

	"dungeon-core/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// corridor строит снимок коридора w x 1, в котором известны клетки [0, known).
func corridor(w, known int) api.ServerResponse {
	state := api.ServerResponse{
		Type:       "UPDATE",
		Status:     "awaiting_input",
		MyEntityID: "1",
		Grid:       &api.GridMeta{Width: w, Height: 1},
	}
	state.ActiveEntityID = state.MyEntityID
	for x := 0; x < known; x++ {
		state.Map = append(state.Map, api.TileView{X: x, Y: 0, Terrain: "floor", IsExplored: true, IsVisible: true})
	}
	return state
}

func entity(id, kind string, x, y, hp, maxHP int) api.EntityView {
	ev := api.EntityView{ID: id, Type: kind, Name: id}
	ev.Pos.X, ev.Pos.Y = x, y
	ev.Stats = &api.StatsView{HP: hp, MaxHP: maxHP}
	return ev
}

func decodeMove(t *testing.T, cmd api.ClientCommand) api.DirectionPayload {
	t.Helper()
	require.Equal(t, "MOVE", cmd.Action)
	var p api.DirectionPayload
	require.NoError(t, json.Unmarshal(cmd.Payload, &p))
	return p
}

func TestPlanner_AttacksAdjacentFoe(t *testing.T) {
	state := corridor(6, 6)
	state.Entities = []api.EntityView{
		entity("1", "PLAYER", 2, 0, 10, 10),
		entity("7", "MONSTER", 3, 0, 5, 5),
	}

	cmd := NewPlanner().Decide(state)

	require.Equal(t, "ATTACK", cmd.Action)
	var p api.EntityPayload
	require.NoError(t, json.Unmarshal(cmd.Payload, &p))
	assert.Equal(t, "7", p.TargetID)
}

func TestPlanner_ApproachesVisibleFoe(t *testing.T) {
	state := corridor(8, 8)
	state.Entities = []api.EntityView{
		entity("1", "PLAYER", 1, 0, 10, 10),
		entity("9", "MONSTER", 5, 0, 5, 5),
	}

	p := decodeMove(t, NewPlanner().Decide(state))
	assert.Equal(t, api.DirectionPayload{Dx: 1, Dy: 0}, p)
}

func TestPlanner_RestsWhenHurtAndAlone(t *testing.T) {
	state := corridor(6, 6)
	state.Entities = []api.EntityView{entity("1", "PLAYER", 2, 0, 2, 10)}

	cmd := NewPlanner().Decide(state)
	assert.Equal(t, "REST", cmd.Action)
}

func TestPlanner_PicksUpItemUnderfoot(t *testing.T) {
	state := corridor(6, 6)
	state.Entities = []api.EntityView{entity("1", "PLAYER", 2, 0, 10, 10)}
	state.Items = []api.ItemView{{ID: "it1", Name: "Зелье", X: 2, Y: 0}}

	cmd := NewPlanner().Decide(state)
	assert.Equal(t, "PICKUP", cmd.Action)
}

func TestPlanner_IgnoresHeldItems(t *testing.T) {
	state := corridor(6, 6)
	state.Entities = []api.EntityView{entity("1", "PLAYER", 2, 0, 10, 10)}
	state.Items = []api.ItemView{{ID: "it1", X: 2, Y: 0, Holder: "1"}}

	cmd := NewPlanner().Decide(state)
	assert.Equal(t, "WAIT", cmd.Action)
}

func TestPlanner_WalksToStairs(t *testing.T) {
	state := corridor(6, 6)
	state.Map[4].IsStairs = true
	state.Entities = []api.EntityView{entity("1", "PLAYER", 4, 0, 10, 10)}
	state.Entities[0].Pos.X = 1

	p := decodeMove(t, NewPlanner().Decide(state))
	assert.Equal(t, 1, p.Dx)
	assert.Equal(t, 0, p.Dy)
}

func TestPlanner_ExploresFrontier(t *testing.T) {
	// Известны клетки 0..2, дальше темнота
	state := corridor(6, 3)
	state.Entities = []api.EntityView{entity("1", "PLAYER", 0, 0, 10, 10)}

	p := decodeMove(t, NewPlanner().Decide(state))
	assert.Equal(t, 1, p.Dx)
}

func TestPlanner_WaitsWithoutGoals(t *testing.T) {
	tests := []struct {
		name   string
		hp     int
		action string
	}{
		{name: "healthy", hp: 10, action: "WAIT"},
		{name: "scratched", hp: 8, action: "REST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := corridor(4, 4)
			state.Entities = []api.EntityView{entity("1", "PLAYER", 1, 0, tt.hp, 10)}
			assert.Equal(t, tt.action, NewPlanner().Decide(state).Action)
		})
	}
}

func TestPlanner_NoSelfInSnapshot(t *testing.T) {
	state := corridor(4, 4)
	assert.Equal(t, "WAIT", NewPlanner().Decide(state).Action)
}

func TestPlanner_ReusesPathRangeAcrossSizes(t *testing.T) {
	pl := NewPlanner()

	small := corridor(4, 4)
	small.Map[3].IsStairs = true
	small.Entities = []api.EntityView{entity("1", "PLAYER", 0, 0, 10, 10)}
	assert.Equal(t, 1, decodeMove(t, pl.Decide(small)).Dx)

	big := corridor(10, 10)
	big.Map[9].IsStairs = true
	big.Entities = []api.EntityView{entity("1", "PLAYER", 8, 0, 10, 10)}
	assert.Equal(t, 1, decodeMove(t, pl.Decide(big)).Dx)
	assert.Equal(t, 10, pl.size.X)
}
