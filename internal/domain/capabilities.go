package domain

import (
	"math/bits"
	"strings"
)

// Capability - одна способность расы. Семантика каждого флага закреплена
// за движком решений и исполнителем движения.
type Capability uint8

const (
	CapPassWall    Capability = iota // проходит сквозь стены
	CapKillWall                      // прокапывает стены
	CapSmashWall                     // сносит стену вместе с окрестностью
	CapOpenDoor                      // открывает двери
	CapBashDoor                      // выбивает двери
	CapGroupAI                       // стайная тактика: засада и окружение
	CapNeverMove                     // стоит на месте
	CapNeverBlow                     // не бьет в ближнем бою
	CapFrightened                    // всегда держит дистанцию бегства
	CapRand25                        // +25% к случайному шагу
	CapRand50                        // +50% к случайному шагу
	CapKillBody                      // затаптывает более слабых
	CapMoveBody                      // расталкивает более слабых
	CapUnique                        // уникальный, не затаптывается
	CapQuestor                       // квестовый, не удаляется компактизацией
	CapFly                           // летает
	CapSwim                          // плавает
	CapImFire                        // иммунитет к огню
	CapPowerful                      // мощный (сильный летун пересекает лаву)
	CapAnimal                        // животное (легко проходит деревья)
	CapMultiply                      // размножается
	CapArcher                        // любит стрелять издалека
	CapBreather                      // дышит стихией
	CapSpellcaster                   // колдует
	CapMimic                         // маскируется под предмет
	CapDrowns                        // тяжелый, в воду не полезет
	CapTakeItem                      // подбирает предметы
	CapKillItem                      // давит предметы
	capCount
)

var capabilityNames = [capCount]string{
	CapPassWall:    "PASS_WALL",
	CapKillWall:    "KILL_WALL",
	CapSmashWall:   "SMASH_WALL",
	CapOpenDoor:    "OPEN_DOOR",
	CapBashDoor:    "BASH_DOOR",
	CapGroupAI:     "GROUP_AI",
	CapNeverMove:   "NEVER_MOVE",
	CapNeverBlow:   "NEVER_BLOW",
	CapFrightened:  "FRIGHTENED",
	CapRand25:      "RAND_25",
	CapRand50:      "RAND_50",
	CapKillBody:    "KILL_BODY",
	CapMoveBody:    "MOVE_BODY",
	CapUnique:      "UNIQUE",
	CapQuestor:     "QUESTOR",
	CapFly:         "FLY",
	CapSwim:        "SWIM",
	CapImFire:      "IM_FIRE",
	CapPowerful:    "POWERFUL",
	CapAnimal:      "ANIMAL",
	CapMultiply:    "MULTIPLY",
	CapArcher:      "ARCHER",
	CapBreather:    "BREATHER",
	CapSpellcaster: "SPELLCASTER",
	CapMimic:       "MIMIC",
	CapDrowns:      "DROWNS",
	CapTakeItem:    "TAKE_ITEM",
	CapKillItem:    "KILL_ITEM",
}

func (c Capability) String() string {
	if c < capCount {
		return capabilityNames[c]
	}
	return "UNKNOWN"
}

// ParseCapability конвертирует строку в флаг (нужно для загрузки рас из конфигов).
func ParseCapability(s string) (Capability, bool) {
	upper := strings.ToUpper(s)
	for i, name := range capabilityNames {
		if name == upper {
			return Capability(i), true
		}
	}
	return 0, false
}

// Capabilities - набор способностей.
type Capabilities uint64

// Caps собирает набор из списка флагов.
func Caps(list ...Capability) Capabilities {
	var set Capabilities
	for _, c := range list {
		set = set.With(c)
	}
	return set
}

func (s Capabilities) Has(c Capability) bool {
	return s&(1<<c) != 0
}

// HasAny - true, если есть хотя бы один из флагов.
func (s Capabilities) HasAny(list ...Capability) bool {
	for _, c := range list {
		if s.Has(c) {
			return true
		}
	}
	return false
}

func (s Capabilities) With(c Capability) Capabilities {
	return s | 1<<c
}

func (s Capabilities) Without(c Capability) Capabilities {
	return s &^ (1 << c)
}

func (s Capabilities) Len() int {
	return bits.OnesCount64(uint64(s))
}

func (s Capabilities) String() string {
	var names []string
	for c := Capability(0); c < capCount; c++ {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return strings.Join(names, "|")
}
