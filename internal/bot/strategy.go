package bot

import (
	"fmt"
	"strconv"
)

// Strategy picks what a bot does with its actions.
type Strategy int

const (
	// StrategyMaxIncome builds the best paying card when it pays more than
	// 3, otherwise buys a floor or a tile.
	StrategyMaxIncome Strategy = iota + 1
	// StrategyFloorOnly buys floors and ends the turn when it cannot.
	StrategyFloorOnly
	// StrategyRandom tries the four actions in random order.
	StrategyRandom
	// StrategyFloorFirst opens with a floor, then builds or buys tiles.
	StrategyFloorFirst
	// StrategyBuildFirst opens with a build or tile, then buys floors.
	StrategyBuildFirst
)

var strategyNames = map[Strategy]string{
	StrategyMaxIncome:  "max_income",
	StrategyFloorOnly:  "floor_only",
	StrategyRandom:     "random",
	StrategyFloorFirst: "floor_first",
	StrategyBuildFirst: "build_first",
}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return "unknown"
}

// Strategies returns every strategy in numeric order.
func Strategies() []Strategy {
	return []Strategy{StrategyMaxIncome, StrategyFloorOnly, StrategyRandom, StrategyFloorFirst, StrategyBuildFirst}
}

// ParseStrategy accepts a strategy name or its number.
func ParseStrategy(s string) (Strategy, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if _, ok := strategyNames[Strategy(n)]; ok {
			return Strategy(n), nil
		}
	}
	for id, name := range strategyNames {
		if name == s {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}
