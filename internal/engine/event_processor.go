package engine

import (
	"encoding/json"

	"dungeon-core/internal/engine/handlers"
	"dungeon-core/internal/engine/handlers/events"
)

// processEvent - является точкой входа для обработки событий, возвращенных хендлерами.
func (s *Session) processEvent(ctx handlers.Context, eventData json.RawMessage) {
	var genericEvent struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(eventData, &genericEvent); err != nil {
		s.log.WithError(err).Error("Error parsing event")
		return
	}

	var (
		res handlers.Result
		err error
	)
	switch genericEvent.Event {
	case "LEVEL_TRANSITION":
		res, err = events.HandleLevelTransition(ctx, eventData)
	default:
		s.log.WithField("event", genericEvent.Event).Warn("Unknown event type")
		return
	}

	if err != nil {
		s.log.WithError(err).WithField("event", genericEvent.Event).Error("Event failed")
		return
	}
	if res.Msg != "" {
		s.Journal.Add(res.Msg, res.MsgType)
	}
}
