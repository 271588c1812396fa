package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"

	"github.com/flightcrew/skyquiz/internal/skyquiz"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/skyquiz.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:""`

	// Battery tuning per difficulty.
	DefaultBattery        int `env:"DEFAULT_BATTERY" envDefault:"100"`
	StartingBatteryEasy   int `env:"STARTING_BATTERY_EASY" envDefault:"100"`
	StartingBatteryMedium int `env:"STARTING_BATTERY_MEDIUM" envDefault:"90"`
	StartingBatteryHard   int `env:"STARTING_BATTERY_HARD" envDefault:"75"`
	BatteryRewardEasy     int `env:"BATTERY_REWARD_EASY" envDefault:"20"`
	BatteryRewardMedium   int `env:"BATTERY_REWARD_MEDIUM" envDefault:"15"`
	BatteryRewardHard     int `env:"BATTERY_REWARD_HARD" envDefault:"10"`
	BatteryPenaltyEasy    int `env:"BATTERY_PENALTY_EASY" envDefault:"20"`
	BatteryPenaltyMedium  int `env:"BATTERY_PENALTY_MEDIUM" envDefault:"25"`
	BatteryPenaltyHard    int `env:"BATTERY_PENALTY_HARD" envDefault:"30"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// Rules bundles the battery tuning into the domain's rule set.
func (c *Config) Rules() skyquiz.Rules {
	return skyquiz.Rules{
		DefaultBattery: c.DefaultBattery,
		StartingBattery: map[skyquiz.Difficulty]int{
			skyquiz.DifficultyEasy:   c.StartingBatteryEasy,
			skyquiz.DifficultyMedium: c.StartingBatteryMedium,
			skyquiz.DifficultyHard:   c.StartingBatteryHard,
		},
		BatteryReward: map[skyquiz.Difficulty]int{
			skyquiz.DifficultyEasy:   c.BatteryRewardEasy,
			skyquiz.DifficultyMedium: c.BatteryRewardMedium,
			skyquiz.DifficultyHard:   c.BatteryRewardHard,
		},
		BatteryPenalty: map[skyquiz.Difficulty]int{
			skyquiz.DifficultyEasy:   c.BatteryPenaltyEasy,
			skyquiz.DifficultyMedium: c.BatteryPenaltyMedium,
			skyquiz.DifficultyHard:   c.BatteryPenaltyHard,
		},
	}
}
