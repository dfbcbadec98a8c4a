package domain

import "strings"

// ActionType - Внутренний числовой идентификатор действия
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionInit
	ActionMove
	ActionAttack
	ActionWait
	ActionRest
	ActionShout
	ActionInteract
	ActionPickup
	ActionDrop

	// Админские команды выполняются сразу, вне очереди ходов
	ActionTeleport
	ActionSpawn
	ActionHeal
	ActionKill
	ActionOmni
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"INIT":     ActionInit,
	"MOVE":     ActionMove,
	"ATTACK":   ActionAttack,
	"WAIT":     ActionWait,
	"REST":     ActionRest,
	"SHOUT":    ActionShout,
	"INTERACT": ActionInteract,
	"PICKUP":   ActionPickup,
	"DROP":     ActionDrop,
	"TELEPORT": ActionTeleport,
	"SPAWN":    ActionSpawn,
	"HEAL":     ActionHeal,
	"KILL":     ActionKill,
	"OMNI":     ActionOmni,
}

// Маппинг для логов Domain -> String
var actionCmdToString = func() map[ActionType]string {
	m := make(map[ActionType]string, len(actionStringToCmd))
	for s, a := range actionStringToCmd {
		m[a] = s
	}
	return m
}()

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// Immediate - команда выполняется сразу по приходу и не ждет хода игрока.
func (a ActionType) Immediate() bool {
	return a == ActionInit || a >= ActionTeleport
}
