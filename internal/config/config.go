package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Game     GameConfig     `toml:"game"`
	Timing   TimingConfig   `toml:"timing"`
	Data     DataConfig     `toml:"data"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Save     SaveConfig     `toml:"save"`
}

type GameConfig struct {
	CardsToDrawInFirstRound int `toml:"cards_to_draw_in_first_round"`
	CardsToDraw             int `toml:"cards_to_draw"`
	ReservesAtRoundBegin    int `toml:"reserves_at_round_begin"`
	SoftMaxCards            int `toml:"soft_max_cards"`
	HardMaxCards            int `toml:"hard_max_cards"`
	ShotEmptyDamage         int `toml:"shot_empty_damage"`
	ParrySlot               int `toml:"parry_slot"` // 1..5

	Encounter         []string `toml:"encounter"`          // enemy names
	EncounterModifier []string `toml:"encounter_modifier"` // reverse, double, jam
	RemainingTurns    int      `toml:"remaining_turns"`    // -1 = unlimited
	Seed              int64    `toml:"seed"`               // 0 = time based
}

type TimingConfig struct {
	TickRate         time.Duration `toml:"tick_rate"`
	BufferTime       time.Duration `toml:"buffer_time"`
	BannerDuration   time.Duration `toml:"banner_duration"`
	RotationStep     time.Duration `toml:"rotation_step"`
	PostShotDuration time.Duration `toml:"post_shot_duration"`
	DamageFlash      time.Duration `toml:"damage_flash"`
	DeathDuration    time.Duration `toml:"death_duration"`
}

type DataConfig struct {
	CardsFile   string `toml:"cards_file"`
	EnemiesFile string `toml:"enemies_file"`
	ScriptsDir  string `toml:"scripts_dir"`
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // postgres://... or a sqlite path / :memory:
	MaxOpenConns    int           `toml:"max_open_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type SaveConfig struct {
	AutosaveTicks int      `toml:"autosave_ticks"`
	BaseLives     int      `toml:"base_lives"`
	StartDeck     []string `toml:"start_deck"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("parse config %s: unknown key %q", path, undec[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config { return defaults() }

// Validate checks values the game cannot start without.
func (c *Config) Validate() error {
	g := c.Game
	switch {
	case g.SoftMaxCards <= 0:
		return fmt.Errorf("game.soft_max_cards must be positive")
	case g.HardMaxCards < g.SoftMaxCards:
		return fmt.Errorf("game.hard_max_cards (%d) below soft_max_cards (%d)", g.HardMaxCards, g.SoftMaxCards)
	case g.ParrySlot < 1 || g.ParrySlot > 5:
		return fmt.Errorf("game.parry_slot %d out of range 1..5", g.ParrySlot)
	case g.ReservesAtRoundBegin < 0:
		return fmt.Errorf("game.reserves_at_round_begin must not be negative")
	case len(g.Encounter) == 0:
		return fmt.Errorf("game.encounter lists no enemies")
	case g.RemainingTurns == 0 || g.RemainingTurns < -1:
		return fmt.Errorf("game.remaining_turns %d: want -1 or a positive count", g.RemainingTurns)
	}
	for _, m := range g.EncounterModifier {
		switch m {
		case "reverse", "double", "jam":
		default:
			return fmt.Errorf("game.encounter_modifier: unknown modifier %q", m)
		}
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q: want json or console", c.Logging.Format)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Game: GameConfig{
			CardsToDrawInFirstRound: 5,
			CardsToDraw:             2,
			ReservesAtRoundBegin:    4,
			SoftMaxCards:            8,
			HardMaxCards:            11,
			ShotEmptyDamage:         5,
			ParrySlot:               5,
			Encounter:               []string{"outlaw"},
			RemainingTurns:          -1,
		},
		Timing: TimingConfig{
			TickRate:         16 * time.Millisecond,
			BufferTime:       300 * time.Millisecond,
			BannerDuration:   900 * time.Millisecond,
			RotationStep:     120 * time.Millisecond,
			PostShotDuration: 200 * time.Millisecond,
			DamageFlash:      250 * time.Millisecond,
			DeathDuration:    1500 * time.Millisecond,
		},
		Data: DataConfig{
			CardsFile:   "data/yaml/cards.yaml",
			EnemiesFile: "data/yaml/enemies.yaml",
			ScriptsDir:  "scripts",
		},
		Database: DatabaseConfig{
			DSN:             "fortyfive.db",
			MaxOpenConns:    4,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Save: SaveConfig{
			AutosaveTicks: 300,
			BaseLives:     40,
			StartDeck:     []string{"bullet", "bullet", "bullet", "bullet", "silverBullet", "shield", "incendiaryBullet", "leadBullet"},
		},
	}
}
