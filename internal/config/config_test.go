package config

import (
	"testing"

	"github.com/flightcrew/skyquiz/internal/skyquiz"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.DBPath != "data/skyquiz.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.DefaultBattery != 100 {
		t.Errorf("DefaultBattery = %d, want 100", cfg.DefaultBattery)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("STARTING_BATTERY_HARD", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
	}

	rules := cfg.Rules()
	if got := rules.Starting(skyquiz.DifficultyHard); got != 50 {
		t.Errorf("Starting(hard) = %d, want 50", got)
	}
	if got := rules.Reward(skyquiz.DifficultyMedium); got != 15 {
		t.Errorf("Reward(medium) = %d, want 15", got)
	}
	if got := rules.Penalty(skyquiz.DifficultyEasy); got != 20 {
		t.Errorf("Penalty(easy) = %d, want 20", got)
	}
}
