package agent

import (
	"context"

	"dungeon-core/internal/engine"
	"dungeon-core/internal/network"
	"dungeon-core/pkg/api"
	"dungeon-core/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Bot представляет собой "Игрока-компьютера" (Headless Agent).
// Он подключается к сервису так же, как обычный клиент: получает снимки
// мира через хаб и отвечает командами. Сервис не знает, что играет бот.
//
// Жизненный цикл:
//  1. NewBot -> Регистрация в хабе, получение личного канала (Inbox).
//  2. Run -> Запуск в отдельной горутине, слушает свой Inbox.
//  3. Когда сервер ждет ввода героя, Planner выбирает команду.
type Bot struct {
	ID      string
	Service *engine.GameService
	Inbox   chan api.ServerResponse
	Planner *Planner

	log *logrus.Entry
}

func NewBot(id string, service *engine.GameService) *Bot {
	b := &Bot{
		ID:      id,
		Service: service,
		Inbox:   service.Hub.Register(id, network.OwnTurns(engine.StatusDead.String()), network.WithoutMinds),
		Planner: NewPlanner(),
		log:     logger.For("bot").WithField("bot", id),
	}
	b.log.Info("Agent connected")
	return b
}

// Run запускает цикл жизни бота. Должен быть запущен в горутине.
func (b *Bot) Run(ctx context.Context) {
	defer b.Service.Hub.Unregister(b.ID)

	for {
		select {
		case <-ctx.Done():
			b.log.Info("Agent shut down")
			return
		case state, ok := <-b.Inbox:
			if !ok {
				b.log.Info("Inbox closed")
				return
			}
			b.handle(state)
		}
	}
}

func (b *Bot) handle(state api.ServerResponse) {
	if state.Status == engine.StatusDead.String() {
		b.log.WithField("tick", state.Tick).Info("Hero is dead")
		return
	}
	// Хаб уже отсеивает чужие ходы, проверка остается для прямых вызовов
	if state.ActiveEntityID == "" || state.ActiveEntityID != state.MyEntityID {
		return
	}

	cmd := b.Planner.Decide(state)
	cmd.Token = b.ID
	b.log.WithFields(logrus.Fields{"tick": state.Tick, "action": cmd.Action}).Debug("Agent decided")
	b.Service.ProcessCommand(cmd)
}
