// Package config loads BetLang's runtime tunables from an optional
// .betlang.yaml file layered under environment variables, themselves
// layered under explicit CLI flags — flags win, then env, then file,
// then the built-in defaults, grounded on the teacher's layered
// configuration idiom (its own CLI composes persistent flags over a
// commands file the same way) and gopkg.in/yaml.v3 for the file format,
// matching the rest of the pack's config-file tooling.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/aledsdavies/betlang/internal/safety"
)

// Config holds every tunable the safety kernel and evaluator need.
type Config struct {
	Seed               int64   `yaml:"seed"`
	CoolOffSeconds     float64 `yaml:"cooloff_seconds"`
	DutchBookTolerance float64 `yaml:"dutch_book_tolerance"`
	MaxKellyFraction   float64 `yaml:"max_kelly_fraction"`
	MaxRisk            float64 `yaml:"max_risk"`
	SafetyEnabled      bool    `yaml:"safety_enabled"`
}

// Default returns the built-in defaults, used when no file or env
// override is present.
func Default() Config {
	return Config{
		Seed:               1,
		CoolOffSeconds:     60,
		DutchBookTolerance: 1e-6,
		MaxKellyFraction:   safety.DefaultKellyFraction,
		MaxRisk:            safety.DefaultMaxRisk,
		SafetyEnabled:      true,
	}
}

// Load reads path (if it exists) over Default(), then applies any
// BETLANG_* environment variable overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		} else if !os.IsNotExist(err) {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("BETLANG_SEED"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v, ok := os.LookupEnv("BETLANG_COOLOFF_SECONDS"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.CoolOffSeconds = f
		}
	}
	if v, ok := os.LookupEnv("BETLANG_TOLERANCE"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DutchBookTolerance = f
		}
	}
	if v, ok := os.LookupEnv("BETLANG_MAX_RISK"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MaxRisk = f
		}
	}
}
