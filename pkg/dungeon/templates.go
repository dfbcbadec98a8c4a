package dungeon

import (
	"sort"

	"dungeon-core/internal/domain"
)

// RaceTemplate - запись бестиария: раса плюс то, что нужно генератору.
type RaceTemplate struct {
	Race  *domain.Race
	Color string
	HP    int
	Depth int // минимальная глубина появления
	Pack  int // размер стаи, 0 - одиночка
	// Bodyguards - сколько телохранителей приводит лидер стаи.
	Bodyguards int
	Loot       []string
}

// --- ВРАГИ ---

var Goblin = RaceTemplate{
	Race: &domain.Race{
		Name: "cave goblin", Glyph: "g", Level: 2, Speed: domain.NormalSpeed,
		Hearing: 20, Smell: 20, Experience: 5, Sleep: 10,
		Caps: domain.Caps(domain.CapOpenDoor, domain.CapTakeItem),
	},
	Color: "#22C55E",
	HP:    12,
	Depth: 1,
	Loot:  []string{"copper coins"},
}

var Jackal = RaceTemplate{
	Race: &domain.Race{
		Name: "jackal", Glyph: "C", Level: 1, Speed: domain.NormalSpeed + 10,
		Hearing: 10, Smell: 50, Experience: 1, Sleep: 10,
		Caps: domain.Caps(domain.CapGroupAI, domain.CapAnimal),
	},
	Color: "#D97706",
	HP:    8,
	Depth: 1,
	Pack:  3,
}

var Orc = RaceTemplate{
	Race: &domain.Race{
		Name: "snaga", Glyph: "o", Level: 6, Speed: domain.NormalSpeed,
		Hearing: 20, Smell: 20, Experience: 10, Sleep: 30,
		Caps: domain.Caps(domain.CapOpenDoor, domain.CapBashDoor, domain.CapGroupAI),
	},
	Color:      "#A16207",
	HP:         20,
	Depth:      3,
	Pack:       2,
	Bodyguards: 1,
	Loot:       []string{"rusty dagger"},
}

var Archer = RaceTemplate{
	Race: &domain.Race{
		Name: "kobold archer", Glyph: "k", Level: 4, Speed: domain.NormalSpeed,
		Hearing: 20, Smell: 20, Experience: 8, SpellFreq: 30, Sleep: 20,
		Caps: domain.Caps(domain.CapArcher, domain.CapOpenDoor),
	},
	Color: "#16A34A",
	HP:    14,
	Depth: 2,
	Loot:  []string{"arrows"},
}

var Troll = RaceTemplate{
	Race: &domain.Race{
		Name: "stone troll", Glyph: "T", Level: 15, Speed: domain.NormalSpeed,
		Hearing: 20, Smell: 20, Experience: 60, Sleep: 50,
		Caps: domain.Caps(domain.CapKillBody, domain.CapBashDoor, domain.CapDrowns, domain.CapKillItem),
	},
	Color: "#9CA3AF",
	HP:    60,
	Depth: 5,
}

var Ghost = RaceTemplate{
	Race: &domain.Race{
		Name: "poltergeist", Glyph: "G", Level: 3, Speed: domain.NormalSpeed + 20,
		Hearing: 40, Experience: 8, Sleep: 10,
		Caps: domain.Caps(domain.CapPassWall, domain.CapFly, domain.CapRand50, domain.CapNeverBlow),
	},
	Color: "#E5E7EB",
	HP:    8,
	Depth: 2,
}

var Worm = RaceTemplate{
	Race: &domain.Race{
		Name: "white worm mass", Glyph: "w", Level: 1, Speed: domain.NormalSpeed - 10,
		Hearing: 7, Experience: 1, Sleep: 10,
		Caps: domain.Caps(domain.CapMultiply, domain.CapRand50, domain.CapAnimal, domain.CapKillItem),
	},
	Color: "#F3F4F6",
	HP:    5,
	Depth: 1,
}

var Umber = RaceTemplate{
	Race: &domain.Race{
		Name: "umber hulk", Glyph: "X", Level: 16, Speed: domain.NormalSpeed,
		Hearing: 20, Experience: 75, Sleep: 10,
		Caps: domain.Caps(domain.CapKillWall, domain.CapMoveBody),
	},
	Color: "#78350F",
	HP:    70,
	Depth: 6,
}

var Mimic = RaceTemplate{
	Race: &domain.Race{
		Name: "chest mimic", Glyph: "~", Level: 5, Speed: domain.NormalSpeed,
		Hearing: 30, Experience: 30, Sleep: 0,
		Caps: domain.Caps(domain.CapMimic, domain.CapNeverMove),
	},
	Color: "#F59E0B",
	HP:    30,
	Depth: 2,
	Loot:  []string{"gold ring"},
}

var Salamander = RaceTemplate{
	Race: &domain.Race{
		Name: "salamander", Glyph: "R", Level: 5, Speed: domain.NormalSpeed,
		Hearing: 14, Smell: 20, Experience: 10, Sleep: 20,
		Caps: domain.Caps(domain.CapImFire, domain.CapAnimal, domain.CapRand25, domain.CapBreather),
	},
	Color: "#EF4444",
	HP:    14,
	Depth: 3,
}

var Bat = RaceTemplate{
	Race: &domain.Race{
		Name: "fruit bat", Glyph: "b", Level: 1, Speed: domain.NormalSpeed + 10,
		Hearing: 12, Smell: 20, Experience: 1, Sleep: 10,
		Caps: domain.Caps(domain.CapFly, domain.CapAnimal, domain.CapRand50),
	},
	Color: "#6B7280",
	HP:    6,
	Depth: 1,
}

var Shaman = RaceTemplate{
	Race: &domain.Race{
		Name: "kobold shaman", Glyph: "k", Level: 4, Speed: domain.NormalSpeed,
		Hearing: 20, Smell: 20, Experience: 9, SpellFreq: 20, Sleep: 20,
		Caps: domain.Caps(domain.CapSpellcaster, domain.CapOpenDoor, domain.CapFrightened),
	},
	Color: "#60A5FA",
	HP:    11,
	Depth: 2,
	Loot:  []string{"scroll of light"},
}

var Grip = RaceTemplate{
	Race: &domain.Race{
		Name: "Grip, Farmer Maggot's Dog", Glyph: "C", Level: 5, Speed: domain.NormalSpeed + 20,
		Hearing: 30, Smell: 50, Experience: 30, Sleep: 0,
		Caps: domain.Caps(domain.CapUnique, domain.CapAnimal, domain.CapRand25),
	},
	Color: "#FBBF24",
	HP:    15,
	Depth: 1,
}

// Bestiary - все расы демо-арены по ключу.
var Bestiary = map[string]RaceTemplate{
	"goblin":     Goblin,
	"jackal":     Jackal,
	"orc":        Orc,
	"archer":     Archer,
	"troll":      Troll,
	"ghost":      Ghost,
	"worm":       Worm,
	"umber":      Umber,
	"mimic":      Mimic,
	"salamander": Salamander,
	"bat":        Bat,
	"shaman":     Shaman,
	"grip":       Grip,
}

// BestiaryKeys возвращает ключи в детерминированном порядке.
func BestiaryKeys() []string {
	keys := make([]string, 0, len(Bestiary))
	for k := range Bestiary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Eligible - ключи рас, которые могут появиться на глубине depth.
func Eligible(depth int) []string {
	var out []string
	for _, k := range BestiaryKeys() {
		if Bestiary[k].Depth <= depth {
			out = append(out, k)
		}
	}
	return out
}

// ColorOf подбирает цвет для расы (по имени), для отрисовки.
func ColorOf(r *domain.Race) string {
	if r == nil {
		return "#FFFFFF"
	}
	if r == HeroRace {
		return "#22D3EE"
	}
	for _, t := range Bestiary {
		if t.Race == r || t.Race.Name == r.Name {
			return t.Color
		}
	}
	return "#FFFFFF"
}

// --- ПРЕДМЕТЫ ---

// FloorItems - то, что генератор разбрасывает по комнатам.
var FloorItems = []string{
	"potion of cure light wounds",
	"flask of oil",
	"iron shot",
	"wooden torch",
	"ration of food",
}
