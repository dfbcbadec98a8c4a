package domain

import "codeberg.org/anaseto/gruid"

// EffectID - внешний эффект, который ядро только инициирует.
type EffectID uint8

const (
	EffectTrap       EffectID = iota + 1 // сработала ловушка под сущностью
	EffectSmashWalls                     // разрушение стен вокруг клетки
	EffectWardBroken                     // сломан оберег
	EffectBurn                           // опасная местность жжет стоящего
)

// Combat - расчет урона и эффектов. Ядро решает только "кто с кем
// столкнулся", цифры считаются снаружи.
type Combat interface {
	ResolveMelee(attacker, victim ActorRef)
	ApplyEffect(source ActorRef, at gruid.Point, effect EffectID)
	// TryRanged пытается выстрелить или колдовать. true - ход потрачен.
	TryRanged(actor ActorRef) bool
}

// Housekeeper - медленный проход раз в несколько ходов мира
// (регенерация, голод, таймеры ловушек).
type Housekeeper interface {
	ProcessWorld(turn int64)
}

// Objects - предметы на полу. Ядро сообщает только о том, что сущность
// встала на клетку.
type Objects interface {
	Grab(actor ActorRef, at gruid.Point)
}

// LevelChanger выполняет смену уровня, запрошенную во время хода.
type LevelChanger interface {
	ChangeLevel()
}

// Notifier получает события "выстрелил и забыл" для UI и логов.
type Notifier interface {
	Notify(ev Event)
}

// RelocationObserver узнает о переезде сущности в другой слот при
// компактизации, чтобы поправить свои ссылки (владельцы предметов и т.п.),
// и об удалении сущности из реестра. at - клетка, где она стояла.
type RelocationObserver interface {
	Relocated(from, to ActorRef)
	Removed(ref ActorRef, at gruid.Point)
}

// NopCombat - заглушка боя: ничего не делает, стрельбы нет.
type NopCombat struct{}

func (NopCombat) ResolveMelee(ActorRef, ActorRef)             {}
func (NopCombat) ApplyEffect(ActorRef, gruid.Point, EffectID) {}
func (NopCombat) TryRanged(ActorRef) bool                     { return false }

// NopObjects - уровень без предметов.
type NopObjects struct{}

func (NopObjects) Grab(ActorRef, gruid.Point) {}
