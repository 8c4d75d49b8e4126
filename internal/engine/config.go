package engine

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GameConfig holds the rules a game is created with.
type GameConfig struct {
	StartingMoney    int    `yaml:"starting_money"`
	StepsPerTurn     int    `yaml:"steps_per_turn"`
	HandSize         int    `yaml:"hand_size"`
	CardReplacements int    `yaml:"card_replacements"`
	MapWidth         int    `yaml:"map_width"`
	MapHeight        int    `yaml:"map_height"`
	StartAreaSize    int    `yaml:"start_area_size"`
	FloorPrices      []int  `yaml:"floor_prices"`
	Seed             uint64 `yaml:"seed"`
}

func DefaultConfig() GameConfig {
	return GameConfig{
		StartingMoney:    10,
		StepsPerTurn:     2,
		HandSize:         6,
		CardReplacements: 1,
		MapWidth:         10,
		MapHeight:        10,
		StartAreaSize:    3,
		FloorPrices:      []int{0, 4, 15, 2, 10, 22, 30},
	}
}

// LoadConfig reads a YAML rules file. Keys missing from the file keep their
// default values.
func LoadConfig(path string) (GameConfig, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read rules: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("rules %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("rules %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects rules a game cannot be built from.
func (c GameConfig) Validate() error {
	var errs []error
	positive := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}
	positive("steps_per_turn", c.StepsPerTurn)
	positive("hand_size", c.HandSize)
	positive("map_width", c.MapWidth)
	positive("map_height", c.MapHeight)
	positive("start_area_size", c.StartAreaSize)
	if c.StartingMoney < 0 {
		errs = append(errs, fmt.Errorf("starting_money must not be negative, got %d", c.StartingMoney))
	}
	if c.CardReplacements < 0 {
		errs = append(errs, fmt.Errorf("card_replacements must not be negative, got %d", c.CardReplacements))
	}
	if c.StartAreaSize > 0 && (c.MapWidth < 2*c.StartAreaSize || c.MapHeight < 2*c.StartAreaSize) {
		errs = append(errs, fmt.Errorf("map %dx%d too small for start areas of %d", c.MapWidth, c.MapHeight, c.StartAreaSize))
	}
	if len(c.FloorPrices) != FloorCount {
		errs = append(errs, fmt.Errorf("floor_prices needs %d entries, got %d", FloorCount, len(c.FloorPrices)))
	}
	for i, p := range c.FloorPrices {
		if p < 0 {
			errs = append(errs, fmt.Errorf("floor_prices[%d] must not be negative, got %d", i, p))
		}
	}
	return errors.Join(errs...)
}

func (c GameConfig) floorPrices() [FloorCount]int {
	var out [FloorCount]int
	copy(out[:], c.FloorPrices)
	return out
}
