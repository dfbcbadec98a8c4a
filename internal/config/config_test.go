package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Scheduler.MoveEnergy)
	assert.Equal(t, 10, cfg.Scheduler.HousekeepingInterval)
	assert.Equal(t, 30, cfg.AI.ConfErraticChance)
	assert.Equal(t, 550, cfg.Movement.GlyphHardness)
	assert.Equal(t, 23, cfg.Derived.FleeRange)
	assert.Equal(t, 200*time.Millisecond, cfg.Server.TickInterval)
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 99\nperception:\n  max_sight: 10\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 10, cfg.Perception.MaxSight)
	assert.Equal(t, 32, cfg.Perception.FlowDepth, "untouched field keeps its default")
	assert.Equal(t, 13, cfg.Derived.FleeRange)
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheduler:\n  move_energy: 0\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("registry:\n  compact_reserve: 0\n"), 0644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "compact_reserve")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Seed = 1234

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), loaded.Seed)
}
