package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alucut/alucut/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Encoding)
	assert.False(t, cfg.Log.Development)

	assert.Equal(t, model.AlgorithmFFD, cfg.Engine.Mode)
	assert.Equal(t, 5.0, cfg.Engine.KerfWidth)
	assert.Equal(t, 300.0, cfg.Engine.ReclaimFloor)
	assert.Equal(t, 1.0, cfg.Engine.Weights.Waste)
	assert.Equal(t, 150, cfg.Engine.Genetic.MaxGenerations)
	assert.Equal(t, 0.15, cfg.Engine.Genetic.MutationRate)
	assert.Equal(t, 3, cfg.Engine.Genetic.TournamentSize)
	assert.Equal(t, 15, cfg.Engine.Genetic.PlateauWindow)

	assert.Equal(t, 50.0, cfg.Waste.MinimalMax)
	assert.Equal(t, 300.0, cfg.Waste.ReuseFloor)

	assert.Equal(t, 4.5, cfg.Rates.MaterialPerMeter)
	assert.Equal(t, 12.0, cfg.Rates.SetupPerChangeover)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	yaml := `
log:
  level: debug
  encoding: json
engine:
  mode: genetic
  kerf_width: 3.2
  genetic:
    max_generations: 40
waste:
  reuse_floor: 250
rates:
  material_per_meter: 6.1
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Encoding)
	assert.Equal(t, model.AlgorithmGenetic, cfg.Engine.Mode)
	assert.Equal(t, 3.2, cfg.Engine.KerfWidth)
	assert.Equal(t, 40, cfg.Engine.Genetic.MaxGenerations)
	assert.Equal(t, 250.0, cfg.Waste.ReuseFloor)
	assert.Equal(t, 6.1, cfg.Rates.MaterialPerMeter)

	// Untouched keys keep their defaults.
	assert.Equal(t, 0.15, cfg.Engine.Genetic.MutationRate)
	assert.Equal(t, 50.0, cfg.Waste.MinimalMax)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ALUCUT_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}
