package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/alucut/alucut/internal/analytics"
	"github.com/alucut/alucut/internal/model"
)

type Config struct {
	Log    LogConfig             `mapstructure:"log"`
	Engine model.AlgorithmConfig `mapstructure:"engine"`
	Waste  analytics.WasteConfig `mapstructure:"waste"`
	Rates  analytics.CostRates   `mapstructure:"rates"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", false)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)

	v.SetDefault("engine.mode", string(model.AlgorithmFFD))
	v.SetDefault("engine.kerf_width", 5.0)
	v.SetDefault("engine.reclaim_floor", 300.0)
	v.SetDefault("engine.weights.waste", 1.0)
	v.SetDefault("engine.weights.bar_count", 0.3)
	v.SetDefault("engine.weights.reclaimable", 0.2)
	v.SetDefault("engine.weights.cost", 0.5)
	v.SetDefault("engine.genetic.population_size", 0)
	v.SetDefault("engine.genetic.max_generations", 150)
	v.SetDefault("engine.genetic.mutation_rate", 0.15)
	v.SetDefault("engine.genetic.tournament_size", 3)
	v.SetDefault("engine.genetic.elite_count", 2)
	v.SetDefault("engine.genetic.plateau_window", 15)
	v.SetDefault("engine.genetic.time_budget", "0s")
	v.SetDefault("engine.genetic.seed", 1)

	v.SetDefault("waste.minimal_max", 50.0)
	v.SetDefault("waste.small_max", 150.0)
	v.SetDefault("waste.medium_max", 300.0)
	v.SetDefault("waste.large_max", 500.0)
	v.SetDefault("waste.reuse_floor", 300.0)

	v.SetDefault("rates.material_per_meter", 4.5)
	v.SetDefault("rates.labor_per_cut", 0.8)
	v.SetDefault("rates.waste_per_meter", 4.5)
	v.SetDefault("rates.setup_per_changeover", 12.0)
	v.SetDefault("rates.cutting_per_cut", 0.15)
	v.SetDefault("rates.machine_per_minute", 0.6)
	v.SetDefault("rates.minutes_per_cut", 0.25)
}

// Load reads configuration from the given YAML file, layered under
// ALUCUT_* environment variables. An empty path skips the file and uses
// defaults plus environment only.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ALUCUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
