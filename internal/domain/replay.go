package domain

import "encoding/json"

// ReplayAction - одна исполненная команда игрока.
type ReplayAction struct {
	Turn    int64           `json:"turn"`    // Ход мира в момент исполнения
	Token   string          `json:"token"`   // Кто прислал
	Action  ActionType      `json:"action"`  // Что сделал
	Payload json.RawMessage `json:"payload"` // С какими параметрами
}

// ReplaySession - полная запись партии. Мир восстанавливается из Seed,
// дальше команды повторяются в том же порядке.
type ReplaySession struct {
	Seed      int64          `json:"seed"`
	Timestamp int64          `json:"timestamp"`
	Depth     int            `json:"depth"` // Глубина, на которой запись закончилась
	Actions   []ReplayAction `json:"actions"`
}
