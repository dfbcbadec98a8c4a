package engine

import (
	"fmt"
	"sync"
	"time"

	"dungeon-core/internal/domain"
	"dungeon-core/pkg/api"
	"dungeon-core/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Journal - игровой лог сессии. Реализует domain.Notifier: события мира
// превращаются в строки для клиента и дублируются в logrus.
type Journal struct {
	mu      sync.Mutex
	entries []api.LogEntry
	seq     uint64
	counts  map[domain.EventType]int

	// names подставляет имена участников события
	names func(ref domain.ActorRef) string

	log *logrus.Entry
}

func NewJournal(names func(ref domain.ActorRef) string) *Journal {
	if names == nil {
		names = func(ref domain.ActorRef) string { return ref.String() }
	}
	return &Journal{
		counts: make(map[domain.EventType]int),
		names:  names,
		log:    logger.For("game_log"),
	}
}

// Notify принимает событие мира.
func (j *Journal) Notify(ev domain.Event) {
	j.mu.Lock()
	j.counts[ev.Type]++
	j.mu.Unlock()

	fields := logrus.Fields{"event": ev.Type, "turn": ev.Turn, "actor": ev.Actor, "grid": ev.Grid}
	text, kind := j.describe(ev)
	if text == "" {
		j.log.WithFields(fields).Trace("World event")
		return
	}
	j.log.WithFields(fields).Debug(text)
	j.append(text, kind)
}

// Add пишет строку от хендлера.
func (j *Journal) Add(text, logType string) {
	if logType == "" {
		logType = "INFO"
	}
	j.log.WithField("log_type", logType).Info(text)
	j.append(text, logType)
}

func (j *Journal) append(text, logType string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.seq++
	j.entries = append(j.entries, api.LogEntry{
		ID:        fmt.Sprintf("%d_%d", j.seq, time.Now().UnixNano()),
		Text:      text,
		Type:      logType,
		Timestamp: time.Now().UnixMilli(),
	})
}

// Drain забирает строки, накопленные с прошлой рассылки.
func (j *Journal) Drain() []api.LogEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := j.entries
	j.entries = nil
	return out
}

// Count - сколько событий типа t пришло за сессию.
func (j *Journal) Count(t domain.EventType) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.counts[t]
}

// describe переводит событие в строку лога. Пустая строка - событие
// слишком мелкое для игрока (шаги, компактизация).
func (j *Journal) describe(ev domain.Event) (string, string) {
	who := j.names(ev.Actor)
	switch ev.Type {
	case domain.EventKilled:
		return fmt.Sprintf("%s погибает (%s).", who, ev.Text), "COMBAT"
	case domain.EventPlayerDied:
		return fmt.Sprintf("%s погибает. Игра окончена.", who), "COMBAT"
	case domain.EventDoorOpened:
		return fmt.Sprintf("%s открывает дверь.", who), "INFO"
	case domain.EventDoorBashed:
		return fmt.Sprintf("%s выбивает дверь!", who), "INFO"
	case domain.EventWallDestroyed, domain.EventWallsSmashed:
		return fmt.Sprintf("%s крушит камень.", who), "INFO"
	case domain.EventMultiplied:
		return fmt.Sprintf("%s размножается.", who), "INFO"
	case domain.EventWoke:
		return fmt.Sprintf("%s просыпается.", who), "INFO"
	case domain.EventMimicRevealed:
		return fmt.Sprintf("Это был %s!", who), "COMBAT"
	case domain.EventPushed:
		return fmt.Sprintf("%s протискивается мимо %s.", who, j.names(ev.Other)), "INFO"
	case domain.EventTrampled:
		return fmt.Sprintf("%s растаптывает %s.", who, j.names(ev.Other)), "COMBAT"
	case domain.EventWardBroken:
		return "Оберег сломан!", "INFO"
	case domain.EventItemTaken:
		return fmt.Sprintf("%s берет %s.", who, ev.Text), "INFO"
	case domain.EventItemCrushed:
		return fmt.Sprintf("%s уничтожает %s.", who, ev.Text), "INFO"
	case domain.EventTrapTriggered:
		return fmt.Sprintf("%s попадает в ловушку.", who), "COMBAT"
	}
	return "", ""
}
