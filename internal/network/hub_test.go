package network

import (
	"testing"

	"dungeon-core/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	alice := b.Register("alice")
	bob := b.Register("bob")
	assert.Equal(t, 2, b.SubscriberCount())
	_, ok := b.Subscriber("alice")
	assert.True(t, ok)

	b.Broadcast(api.ServerResponse{Type: "UPDATE", Tick: 1})
	assert.EqualValues(t, 1, (<-alice).Tick)
	assert.EqualValues(t, 1, (<-bob).Tick)

	b.SendTo("bob", api.ServerResponse{Tick: 2})
	assert.EqualValues(t, 2, (<-bob).Tick)
	assert.Empty(t, alice)

	stats := b.Subscribers()
	require.Len(t, stats, 2)
	assert.Equal(t, "alice", stats[0].ID)
	assert.EqualValues(t, 1, stats[0].Delivered)
	assert.EqualValues(t, 2, stats[1].Delivered)

	b.Unregister("alice")
	_, open := <-alice
	assert.False(t, open, "channel is closed on unregister")
	_, ok = b.Subscriber("alice")
	assert.False(t, ok)

	// Повторная регистрация закрывает старый канал
	again := b.Register("bob")
	_, open = <-bob
	assert.False(t, open)
	assert.NotNil(t, again)
}

func TestBroadcasterKeepsNewestWhenFull(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register("slow")
	total := cap(ch) + 10
	for i := 0; i < total; i++ {
		b.Broadcast(api.ServerResponse{Tick: int64(i)})
	}
	require.Len(t, ch, cap(ch))
	assert.EqualValues(t, 10, (<-ch).Tick, "oldest snapshots are replaced")

	var last api.ServerResponse
	for len(ch) > 0 {
		last = <-ch
	}
	assert.EqualValues(t, total-1, last.Tick)

	st, ok := b.Subscriber("slow")
	require.True(t, ok)
	assert.EqualValues(t, total, st.Delivered)
	assert.EqualValues(t, 10, st.Replaced)
	assert.Zero(t, st.Queued)
}

func TestBroadcasterFilters(t *testing.T) {
	b := NewBroadcaster()
	bot := b.Register("bot", OwnTurns("DEAD"))
	viewer := b.Register("viewer", WithoutMinds)

	mind := &api.MindView{}
	snapshots := []api.ServerResponse{
		{Tick: 1, ActiveEntityID: "m-3", MyEntityID: "p-0", Entities: []api.EntityView{{ID: "m-3", Mind: mind}}},
		{Tick: 2, ActiveEntityID: "p-0", MyEntityID: "p-0"},
		{Tick: 3, MyEntityID: "p-0"},
		{Tick: 4, Status: "DEAD", MyEntityID: "p-0"},
	}
	for _, msg := range snapshots {
		b.Broadcast(msg)
	}

	var got []int64
	for len(bot) > 0 {
		got = append(got, (<-bot).Tick)
	}
	assert.Equal(t, []int64{2, 4}, got, "only own turns and the end of the game")

	first := <-viewer
	require.Len(t, first.Entities, 1)
	assert.Nil(t, first.Entities[0].Mind)
	assert.Same(t, mind, snapshots[0].Entities[0].Mind, "broadcast message is not modified")
	assert.Len(t, viewer, len(snapshots)-1)

	st, _ := b.Subscriber("bot")
	assert.EqualValues(t, 2, st.Delivered)
	assert.EqualValues(t, 2, st.Filtered)
}
