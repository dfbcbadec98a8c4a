package domain

// Timed - временный статус сущности. Значение таймера считается в ходах
// самой сущности.
type Timed uint8

const (
	TimedSleep Timed = iota
	TimedFear
	TimedConf
	TimedStun
	TimedHold
	TimedFast
	TimedSlow
	TimedCount
)

var timedNames = [TimedCount]string{
	TimedSleep: "SLEEP",
	TimedFear:  "FEAR",
	TimedConf:  "CONF",
	TimedStun:  "STUN",
	TimedHold:  "HOLD",
	TimedFast:  "FAST",
	TimedSlow:  "SLOW",
}

func (t Timed) String() string {
	if t < TimedCount {
		return timedNames[t]
	}
	return "UNKNOWN"
}

// maxEffectLevel - верхняя ступень силы эффекта.
const maxEffectLevel = 5

// EffectLevel переводит таймер в ступень силы эффекта: 1 на каждые
// неполные 10 ходов, но не больше пяти.
func EffectLevel(timer int) int {
	if timer <= 0 {
		return 0
	}
	lvl := (timer + 9) / 10
	if lvl > maxEffectLevel {
		lvl = maxEffectLevel
	}
	return lvl
}
