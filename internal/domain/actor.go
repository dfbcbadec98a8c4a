package domain

import "codeberg.org/anaseto/gruid"

// NormalSpeed - скорость, дающая 10 энергии за тик.
const NormalSpeed = 110

// Race - неизменяемый шаблон существа. Несколько сущностей делят одну расу.
type Race struct {
	Name       string       `json:"name" yaml:"name"`
	Glyph      string       `json:"glyph" yaml:"glyph"`
	Level      int          `json:"level" yaml:"level"`
	Speed      int          `json:"speed" yaml:"speed"`
	Hearing    int          `json:"hearing" yaml:"hearing"`
	Smell      int          `json:"smell" yaml:"smell"`
	Experience int          `json:"experience" yaml:"experience"` // "ценность" для толкания и затаптывания
	SpellFreq  int          `json:"spellFreq" yaml:"spell_freq"`
	InnateFreq int          `json:"innateFreq" yaml:"innate_freq"`
	Sleep      int          `json:"sleep" yaml:"sleep"`
	Caps       Capabilities `json:"caps" yaml:"-"`
}

func (r *Race) Has(c Capability) bool {
	return r != nil && r.Caps.Has(c)
}

// GroupRole - роль в стае.
type GroupRole uint8

const (
	RoleNone GroupRole = iota
	RoleMember
	RoleLeader
	RoleBodyguard
)

func (r GroupRole) String() string {
	switch r {
	case RoleMember:
		return "MEMBER"
	case RoleLeader:
		return "LEADER"
	case RoleBodyguard:
		return "BODYGUARD"
	default:
		return "NONE"
	}
}

// GroupID - номер стаи, 0 значит "без стаи".
type GroupID uint32

// Group - стая. Лидер и участники хранятся ссылками, а не указателями,
// чтобы компактизация могла их поправить.
type Group struct {
	ID      GroupID    `json:"id"`
	Leader  ActorRef   `json:"leader"`
	Members []ActorRef `json:"members"`
}

// Actor - игрок или монстр в слоте реестра.
//
// Мертвый слот - это слот с Race == nil. Указатель на Actor можно держать
// только в пределах одного хода: компактизация переносит данные между
// слотами.
type Actor struct {
	Race *Race       `json:"race,omitempty"`
	Name string      `json:"name"`
	Grid gruid.Point `json:"grid"`

	HP    int `json:"hp"`
	MaxHP int `json:"maxHp"`

	Speed  int `json:"speed"`  // базовая скорость
	Energy int `json:"energy"` // накопленная энергия

	Timed [TimedCount]int `json:"timed"`

	Target Target `json:"target"`
	// Goal - клетка, к которой сущность идет в текущем ходу.
	Goal gruid.Point `json:"goal"`

	Group GroupID   `json:"group,omitempty"`
	Role  GroupRole `json:"role,omitempty"`

	// Handled ставится планировщиком, когда сущность уже обработана в
	// текущем ходе мира.
	Handled bool `json:"-"`
	// Active - сущность чувствует цель и участвует в ходе.
	Active      bool `json:"active"`
	Camouflaged bool `json:"camouflaged,omitempty"`
	// MinRange и BestRange - последняя оценка дистанции боя.
	MinRange  int `json:"minRange"`
	BestRange int `json:"bestRange"`

	// Поля игрока
	Level   int  `json:"level,omitempty"`
	Stealth int  `json:"stealth,omitempty"`
	Resting bool `json:"resting,omitempty"`
}

// Dead - слот свободен для переиспользования.
func (a *Actor) Dead() bool {
	return a == nil || a.Race == nil
}

func (a *Actor) Has(c Capability) bool {
	return a != nil && a.Race.Has(c)
}

// EffectiveSpeed учитывает ускорение и замедление.
func (a *Actor) EffectiveSpeed() int {
	speed := a.Speed
	if a.Timed[TimedFast] > 0 {
		speed += 10
	}
	if a.Timed[TimedSlow] > 0 {
		speed -= 2 * EffectLevel(a.Timed[TimedSlow])
	}
	return speed
}

// Hurt - ранен.
func (a *Actor) Hurt() bool {
	return a.HP < a.MaxHP
}

// PassesWalls - умеет пройти или прокопать стену.
func (a *Actor) PassesWalls() bool {
	return a.Race.Caps.HasAny(CapPassWall, CapKillWall)
}

// Worth - "ценность" для состязания при толкании.
func (a *Actor) Worth() int {
	if a.Dead() {
		return 0
	}
	return a.Race.Experience
}

// Decrease уменьшает таймер, не опускаясь ниже нуля. Возвращает true, если
// эффект закончился именно сейчас.
func (a *Actor) Decrease(t Timed, amount int) bool {
	if a.Timed[t] == 0 {
		return false
	}
	a.Timed[t] -= amount
	if a.Timed[t] <= 0 {
		a.Timed[t] = 0
		return true
	}
	return false
}
