// Package config загружает настройки симуляции из YAML.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config хранит все параметры симуляции.
type Config struct {
	Seed int64 `yaml:"seed"`

	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Registry   RegistryConfig   `yaml:"registry"`
	Perception PerceptionConfig `yaml:"perception"`
	AI         AIConfig         `yaml:"ai"`
	Movement   MovementConfig   `yaml:"movement"`
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Replay     ReplayConfig     `yaml:"replay"`
	Arena      ArenaConfig      `yaml:"arena"`

	// Вычисляемые значения, заполняются после загрузки
	Derived DerivedConfig `yaml:"-"`
}

// SchedulerConfig - энергия и периодичность хозяйственного прохода.
type SchedulerConfig struct {
	MoveEnergy           int `yaml:"move_energy"`
	StartEnergyMax       int `yaml:"start_energy_max"`      // новая сущность получает rand(0..max-1)
	HousekeepingInterval int `yaml:"housekeeping_interval"` // каждые N ходов мира
}

// RegistryConfig - ёмкость реестра и параметры компактизации.
type RegistryConfig struct {
	MaxActors             int `yaml:"max_actors"`
	CompactIterationLimit int `yaml:"compact_iteration_limit"` // после этого спасброски обнуляются
	CompactReserve        int `yaml:"compact_reserve"`         // сколько слотов освобождать при переполнении
	MaxRepro              int `yaml:"max_repro"`
}

// PerceptionConfig - радиусы тепловых карт и зрения.
type PerceptionConfig struct {
	FlowDepth  int `yaml:"flow_depth"`
	ScentDepth int `yaml:"scent_depth"`
	MaxSight   int `yaml:"max_sight"`
}

// AIConfig - константы движка решений.
type AIConfig struct {
	FleeDistance      int `yaml:"flee_distance"`
	TurnRange         int `yaml:"turn_range"`
	ConfErraticChance int `yaml:"conf_erratic_chance"`
	ReproRate         int `yaml:"repro_rate"`
	BodyguardLeash    int `yaml:"bodyguard_leash"`
	SearchRings       int `yaml:"search_rings"`
	CrowdedOpen       int `yaml:"crowded_open"`
}

// MovementConfig - константы исполнителя движения.
type MovementConfig struct {
	GlyphHardness int `yaml:"glyph_hardness"`
	MaxCandidates int `yaml:"max_candidates"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	TickInterval time.Duration `yaml:"tick_interval"`
}

type TelemetryConfig struct {
	Dir string `yaml:"dir"` // пусто - выгрузка CSV отключена
}

type ReplayConfig struct {
	Dir string `yaml:"dir"` // пусто - запись партии не сохраняется
}

// ArenaConfig - размеры демонстрационного уровня.
type ArenaConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	Monsters int `yaml:"monsters"`
}

// DerivedConfig хранит значения, вычисляемые из остальных полей.
type DerivedConfig struct {
	// FleeRange - "бесконечная" дистанция бегства: предел зрения плюс запас.
	FleeRange int
}

// Load загружает конфигурацию из YAML-файла поверх встроенных значений.
// Если path пустой, используются только значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Поля, которых нет в файле, остаются прежними
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// Default возвращает встроенную конфигурацию. Паникует, если встроенный
// YAML сломан, что возможно только при ошибке сборки.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch {
	case c.Scheduler.MoveEnergy <= 0:
		return fmt.Errorf("scheduler.move_energy must be positive, got %d", c.Scheduler.MoveEnergy)
	case c.Scheduler.HousekeepingInterval <= 0:
		return fmt.Errorf("scheduler.housekeeping_interval must be positive, got %d", c.Scheduler.HousekeepingInterval)
	case c.Registry.MaxActors < 2:
		return fmt.Errorf("registry.max_actors must leave room for the player, got %d", c.Registry.MaxActors)
	case c.Registry.CompactReserve < 1:
		return fmt.Errorf("registry.compact_reserve must be at least 1, got %d", c.Registry.CompactReserve)
	case c.Movement.MaxCandidates < 1 || c.Movement.MaxCandidates > 8:
		return fmt.Errorf("movement.max_candidates must be in 1..8, got %d", c.Movement.MaxCandidates)
	}
	return nil
}

func (c *Config) computeDerived() {
	c.Derived.FleeRange = c.Perception.MaxSight + c.AI.FleeDistance
}

// WriteYAML сохраняет конфигурацию, например рядом с выгрузкой телеметрии.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
