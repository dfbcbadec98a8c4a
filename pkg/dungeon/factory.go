package dungeon

import (
	"dungeon-core/internal/domain"

	"codeberg.org/anaseto/gruid"
)

// HeroRace - раса игрока.
var HeroRace = &domain.Race{Name: "adventurer", Glyph: "@", Level: 1, Speed: domain.NormalSpeed}

// CreatePlayer собирает игрока со стартовыми характеристиками.
func CreatePlayer(name string, at gruid.Point) domain.Actor {
	if name == "" {
		name = "Герой"
	}
	return domain.Actor{
		Race:    HeroRace,
		Name:    name,
		Grid:    at,
		HP:      100,
		MaxHP:   100,
		Speed:   domain.NormalSpeed,
		Level:   5,
		Stealth: 4,
		Target:  domain.NoTarget(),
	}
}
