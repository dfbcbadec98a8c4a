package actions

import "dungeon-core/internal/engine/handlers"

// HandleInit - приветствие при подключении. Ход не тратит.
func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Result{
		Msg:     "Добро пожаловать в подземелье.",
		MsgType: "INFO",
	}, nil
}
