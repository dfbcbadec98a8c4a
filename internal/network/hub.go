package network

import (
	"slices"
	"sync"
	"sync/atomic"

	"dungeon-core/pkg/api"
)

// QueueSize - сколько снимков ждет медленного подписчика.
const QueueSize = 100

// Filter решает, нужен ли снимок подписчику. Фильтр получает личную
// копию сообщения и может ее урезать, но срезы в ней общие: менять их
// можно только заменой, не на месте.
type Filter func(msg *api.ServerResponse) bool

// OwnTurns пропускает только снимки, где сервер ждет хода сущности
// подписчика, и снимки с одним из конечных статусов.
func OwnTurns(terminal ...string) Filter {
	return func(msg *api.ServerResponse) bool {
		if msg.ActiveEntityID != "" && msg.ActiveEntityID == msg.MyEntityID {
			return true
		}
		return slices.Contains(terminal, msg.Status)
	}
}

// WithoutMinds прячет внутреннее состояние монстров, которое попадает в
// снимок в режиме всевидения.
func WithoutMinds(msg *api.ServerResponse) bool {
	for i := range msg.Entities {
		if msg.Entities[i].Mind == nil {
			continue
		}
		entities := make([]api.EntityView, len(msg.Entities))
		for j, e := range msg.Entities {
			e.Mind = nil
			entities[j] = e
		}
		msg.Entities = entities
		break
	}
	return true
}

// SubscriberStats - счетчики доставки одного подписчика.
type SubscriberStats struct {
	ID        string `json:"id"`
	Delivered uint64 `json:"delivered"`
	Filtered  uint64 `json:"filtered"`
	Replaced  uint64 `json:"replaced"` // вытеснены более свежим снимком
	Queued    int    `json:"queued"`
}

type subscriber struct {
	ch      chan api.ServerResponse
	filters []Filter

	delivered atomic.Uint64
	filtered  atomic.Uint64
	replaced  atomic.Uint64
}

// deliver кладет снимок в очередь. Снимки полные, поэтому при забитой
// очереди выбрасывается самый старый, а не новый.
func (s *subscriber) deliver(msg api.ServerResponse) {
	for _, f := range s.filters {
		if !f(&msg) {
			s.filtered.Add(1)
			return
		}
	}
	for {
		select {
		case s.ch <- msg:
			s.delivered.Add(1)
			return
		default:
		}
		select {
		case <-s.ch:
			s.replaced.Add(1)
		default:
		}
	}
}

// Broadcaster раздает снимки мира подписчикам: клиентам websocket и ботам.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]*subscriber),
	}
}

// Register создает личный канал подписчика. Повторная регистрация того же
// id закрывает старый канал.
func (b *Broadcaster) Register(id string, filters ...Filter) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[id]; ok {
		close(old.ch)
	}

	sub := &subscriber{
		ch:      make(chan api.ServerResponse, QueueSize),
		filters: filters,
	}
	b.subscribers[id] = sub
	return sub.ch
}

// Unregister удаляет подписчика и закрывает его канал
func (b *Broadcaster) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[id]; ok {
		close(sub.ch)
		delete(b.subscribers, id)
	}
}

// SendTo отправляет снимок одному подписчику (первый снимок после входа).
func (b *Broadcaster) SendTo(id string, msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if sub, ok := b.subscribers[id]; ok {
		sub.deliver(msg)
	}
}

// Broadcast отправляет снимок всем. Игровой цикл не ждет медленных
// подписчиков: у них устаревшие снимки вытесняются свежими.
func (b *Broadcaster) Broadcast(msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		sub.deliver(msg)
	}
}

// Subscriber возвращает счетчики подписчика; false - такого нет.
func (b *Broadcaster) Subscriber(id string) (SubscriberStats, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sub, ok := b.subscribers[id]
	if !ok {
		return SubscriberStats{}, false
	}
	return sub.stats(id), true
}

// Subscribers - счетчики всех подписчиков, по id.
func (b *Broadcaster) Subscribers() []SubscriberStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]SubscriberStats, 0, len(b.subscribers))
	for id, sub := range b.subscribers {
		out = append(out, sub.stats(id))
	}
	slices.SortFunc(out, func(a, b SubscriberStats) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

func (s *subscriber) stats(id string) SubscriberStats {
	return SubscriberStats{
		ID:        id,
		Delivered: s.delivered.Load(),
		Filtered:  s.filtered.Load(),
		Replaced:  s.replaced.Load(),
		Queued:    len(s.ch),
	}
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
