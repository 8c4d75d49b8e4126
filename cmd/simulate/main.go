package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"diceville/internal/bot"
	"diceville/internal/config"
	"diceville/internal/engine"
	"diceville/internal/logger"
	"diceville/internal/simulation"
)

func main() {
	var cfg config.Simulation
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("%v", err)
	}
	flag.IntVar(&cfg.Games, "games", cfg.Games, "number of games to play")
	flag.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "base seed, 0 picks one at random")
	flag.IntVar(&cfg.TurnLimit, "turns", cfg.TurnLimit, "turn cap per game")
	flag.StringVar(&cfg.RulesPath, "rules", cfg.RulesPath, "YAML rules file")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite file for per-game results")
	flag.StringVar(&cfg.TraceDir, "traces", cfg.TraceDir, "directory for compressed event traces")
	seats := flag.String("strategies", "1,2,3,4", "comma separated strategy per seat (number or name)")
	verbose := flag.Bool("v", false, "log every game")
	flag.Parse()

	logger.Init()
	if !*verbose {
		logger.Silence()
	}

	strategies, err := parseStrategies(*seats)
	if err != nil {
		config.Exitf("%v", err)
	}

	rules := engine.DefaultConfig()
	if cfg.RulesPath != "" {
		if rules, err = engine.LoadConfig(cfg.RulesPath); err != nil {
			config.Exitf("load rules: %v", err)
		}
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}

	var store *simulation.Store
	if cfg.DBPath != "" {
		if store, err = simulation.OpenStore(cfg.DBPath); err != nil {
			config.Exitf("%v", err)
		}
		defer store.Close()
	}

	runner, err := simulation.NewRunner(simulation.Options{
		Games:      cfg.Games,
		Seed:       cfg.Seed,
		TurnLimit:  cfg.TurnLimit,
		Strategies: strategies,
		Rules:      rules,
		TraceDir:   cfg.TraceDir,
	}, store)
	if err != nil {
		config.Exitf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := runner.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simulation stopped: %v\n", err)
	}

	fmt.Printf("games: %d (seed %d), unfinished: %d\n", sum.Games, cfg.Seed, sum.Unfinished)
	seen := make(map[bot.Strategy]bool)
	for _, s := range strategies {
		if seen[s] {
			continue
		}
		seen[s] = true
		fmt.Printf("%-12s %6d wins  %6.2f%%\n", s, sum.Wins[s], sum.WinRate(s))
	}
	if err != nil {
		os.Exit(1)
	}
}

func parseStrategies(list string) ([]bot.Strategy, error) {
	var out []bot.Strategy
	for _, field := range strings.Split(list, ",") {
		s, err := bot.ParseStrategy(strings.TrimSpace(field))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
