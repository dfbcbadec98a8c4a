package handlers

import (
	"encoding/json"

	"dungeon-core/internal/domain"
	"dungeon-core/internal/systems"
)

// Switcher - то, что хендлеры могут попросить у сессии помимо мира.
// Сессия неявно реализует этот интерфейс.
type Switcher interface {
	// Descend готовит следующий уровень. Смена произойдет на границе хода.
	Descend() error
	// ToggleOmniscience включает и выключает "божье зрение" наблюдателя.
	ToggleOmniscience() bool
}

// Context передает хендлеру состояние мира.
// Мы передаем ссылки, чтобы хендлер мог менять состояние (мутировать данные).
type Context struct {
	World    *systems.World
	Stash    *systems.Stash
	Actor    domain.ActorRef // Тот, кто выполняет команду
	Switcher Switcher
}

// Self возвращает исполнителя команды (nil, если он уже мертв).
func (c Context) Self() *domain.Actor {
	return c.World.Actors.Get(c.Actor)
}

// MoveEnergy - цена обычного действия.
func (c Context) MoveEnergy() int {
	return c.World.Cfg.Scheduler.MoveEnergy
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в логи сервиса напрямую, он возвращает данные.
type Result struct {
	Msg     string          // Текст лога
	MsgType string          // Тип лога (INFO, COMBAT, SPEECH, ERROR)
	Energy  int             // Потраченная энергия, 0 - действие бесплатное
	Event   json.RawMessage // Сырые данные события для обработки движком
}

// HandlerFunc - это контракт для любой команды (MOVE, ATTACK, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}

// Spent - результат действия, занявшего ход.
func Spent(ctx Context, msg, msgType string) Result {
	return Result{Msg: msg, MsgType: msgType, Energy: ctx.MoveEnergy()}
}

// Refused - действие не выполнено, ход не потрачен.
func Refused(msg string) Result {
	return Result{Msg: msg, MsgType: "ERROR"}
}
