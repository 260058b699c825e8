package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fortyfive.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[game]
soft_max_cards = 6
hard_max_cards = 9
encounter = ["bandit", "outlaw"]
encounter_modifier = ["reverse"]

[timing]
buffer_time = "50ms"

[logging]
format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Game.SoftMaxCards)
	assert.Equal(t, 9, cfg.Game.HardMaxCards)
	assert.Equal(t, []string{"bandit", "outlaw"}, cfg.Game.Encounter)
	assert.Equal(t, 50*time.Millisecond, cfg.Timing.BufferTime)
	assert.Equal(t, "json", cfg.Logging.Format)
	// untouched keys keep their defaults
	assert.Equal(t, 5, cfg.Game.ParrySlot)
	assert.Equal(t, "data/yaml/cards.yaml", cfg.Data.CardsFile)
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, "[game]\nsoft_max = 3\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"hard below soft", func(c *Config) { c.Game.HardMaxCards = c.Game.SoftMaxCards - 1 }, "hard_max_cards"},
		{"parry slot", func(c *Config) { c.Game.ParrySlot = 6 }, "parry_slot"},
		{"no enemies", func(c *Config) { c.Game.Encounter = nil }, "encounter"},
		{"bad modifier", func(c *Config) { c.Game.EncounterModifier = []string{"spin"} }, "spin"},
		{"zero turns", func(c *Config) { c.Game.RemainingTurns = 0 }, "remaining_turns"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
	require.NoError(t, Default().Validate())
}
