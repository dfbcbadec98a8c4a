package domain

import (
	"strings"

	"codeberg.org/anaseto/gruid"
)

// EventType - Внутренний числовой идентификатор события
type EventType uint8

const (
	EventUnknown EventType = iota
	EventMoved
	EventAttacked
	EventDoorOpened
	EventDoorBashed
	EventLockWeakened
	EventWallDestroyed
	EventWallsSmashed
	EventWardBroken
	EventDecoyDestroyed
	EventTrampled
	EventPushed
	EventSpawned
	EventMultiplied
	EventWoke
	EventFrozenWithFear
	EventTrapTriggered
	EventMimicRevealed
	EventSlowedByTerrain
	EventCompacted
	EventLevelChanged
	EventPlayerDied
	EventKilled
	EventItemTaken
	EventItemCrushed
)

// Маппинг для логов Domain -> String
var eventTypeToString = map[EventType]string{
	EventMoved:           "MOVED",
	EventAttacked:        "ATTACKED",
	EventDoorOpened:      "DOOR_OPENED",
	EventDoorBashed:      "DOOR_BASHED",
	EventLockWeakened:    "LOCK_WEAKENED",
	EventWallDestroyed:   "WALL_DESTROYED",
	EventWallsSmashed:    "WALLS_SMASHED",
	EventWardBroken:      "WARD_BROKEN",
	EventDecoyDestroyed:  "DECOY_DESTROYED",
	EventTrampled:        "TRAMPLED",
	EventPushed:          "PUSHED",
	EventSpawned:         "SPAWNED",
	EventMultiplied:      "MULTIPLIED",
	EventWoke:            "WOKE",
	EventFrozenWithFear:  "FROZEN_WITH_FEAR",
	EventTrapTriggered:   "TRAP_TRIGGERED",
	EventMimicRevealed:   "MIMIC_REVEALED",
	EventSlowedByTerrain: "SLOWED_BY_TERRAIN",
	EventCompacted:       "COMPACTED",
	EventLevelChanged:    "LEVEL_CHANGED",
	EventPlayerDied:      "PLAYER_DIED",
	EventKilled:          "KILLED",
	EventItemTaken:       "ITEM_TAKEN",
	EventItemCrushed:     "ITEM_CRUSHED",
}

// ParseEvent конвертирует строку из JSON в EventType
func ParseEvent(s string) EventType {
	upper := strings.ToUpper(s)
	for t, name := range eventTypeToString {
		if name == upper {
			return t
		}
	}
	return EventUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (e EventType) String() string {
	if val, ok := eventTypeToString[e]; ok {
		return val
	}
	return "UNKNOWN"
}

func (e EventType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EventType) UnmarshalText(b []byte) error {
	*e = ParseEvent(string(b))
	return nil
}

// Event - уведомление о том, что произошло в мире.
type Event struct {
	Type  EventType   `json:"type"`
	Turn  int64       `json:"turn"`
	Actor ActorRef    `json:"actor"`
	Other ActorRef    `json:"other,omitempty"`
	Grid  gruid.Point `json:"grid"`
	Text  string      `json:"text,omitempty"`
}

// NotifierFunc позволяет использовать функцию как Notifier.
type NotifierFunc func(ev Event)

func (f NotifierFunc) Notify(ev Event) { f(ev) }

// EventLog - Notifier, копящий события в памяти (для тестов и отладки).
type EventLog struct {
	Events []Event
}

func (l *EventLog) Notify(ev Event) {
	l.Events = append(l.Events, ev)
}

// Count возвращает число событий указанного типа.
func (l *EventLog) Count(t EventType) int {
	n := 0
	for _, ev := range l.Events {
		if ev.Type == t {
			n++
		}
	}
	return n
}
