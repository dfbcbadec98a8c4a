package engine

import (
	"testing"

	"dungeon-core/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal(t *testing.T) {
	names := map[domain.ActorRef]string{domain.PackActorRef(0, 2): "jackal"}
	j := NewJournal(func(ref domain.ActorRef) string { return names[ref] })

	j.Notify(domain.Event{Type: domain.EventMoved, Actor: domain.PackActorRef(0, 2)})
	j.Notify(domain.Event{Type: domain.EventWoke, Actor: domain.PackActorRef(0, 2)})
	j.Add("hello", "")

	entries := j.Drain()
	require.Len(t, entries, 2, "moves stay out of the player log")
	assert.Equal(t, "jackal просыпается.", entries[0].Text)
	assert.Equal(t, "INFO", entries[1].Type)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)

	assert.Empty(t, j.Drain())
	assert.Equal(t, 1, j.Count(domain.EventMoved))
	assert.Equal(t, 1, j.Count(domain.EventWoke))
}
