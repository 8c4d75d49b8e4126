package simulation

import (
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"diceville/internal/bot"
	"diceville/internal/engine"
	"diceville/internal/engine/buildings"
	"diceville/internal/logger"
)

// DefaultStrategies seats strategies 1 to 4, one per player.
var DefaultStrategies = []bot.Strategy{
	bot.StrategyMaxIncome, bot.StrategyFloorOnly, bot.StrategyRandom, bot.StrategyFloorFirst,
}

// Options configure a tournament.
type Options struct {
	Games     int
	Seed      uint64
	TurnLimit int
	// Strategies[i] plays seat i; its length sets the player count.
	Strategies []bot.Strategy
	Rules      engine.GameConfig
	// TraceDir receives one compressed event trace per game when set.
	TraceDir string
}

// Result is the outcome of one simulated game.
type Result struct {
	Game           int             `json:"game"`
	Seed           uint64          `json:"seed"`
	Strategies     []bot.Strategy  `json:"strategies"`
	Finished       bool            `json:"finished"`
	Winner         engine.PlayerID `json:"winner"`
	WinnerStrategy bot.Strategy    `json:"winner_strategy"`
	Turns          int             `json:"turns"`
	Balances       map[string]int  `json:"balances"`
	Floors         map[string]int  `json:"floors"`
}

// Summary aggregates a tournament.
type Summary struct {
	Games      int
	Unfinished int
	Wins       map[bot.Strategy]int
}

// WinRate is the percentage of all games won by s.
func (s Summary) WinRate(strategy bot.Strategy) float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins[strategy]) / float64(s.Games) * 100
}

// Runner plays bot-only games back to back.
type Runner struct {
	opts  Options
	store *Store
	log   *logrus.Entry
}

// NewRunner checks opts and fills in defaults. store may be nil.
func NewRunner(opts Options, store *Store) (*Runner, error) {
	if opts.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", opts.Games)
	}
	if opts.TurnLimit <= 0 {
		opts.TurnLimit = 10000
	}
	if len(opts.Strategies) == 0 {
		opts.Strategies = slices.Clone(DefaultStrategies)
	}
	if _, err := engine.Seats(len(opts.Strategies)); err != nil {
		return nil, err
	}
	if opts.Rules.StepsPerTurn == 0 {
		opts.Rules = engine.DefaultConfig()
	}
	if err := opts.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	return &Runner{
		opts:  opts,
		store: store,
		log:   logger.Log.WithField("component", "simulation"),
	}, nil
}

// Run plays every game and returns the tally. It stops early when ctx is
// cancelled.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	sum := Summary{Wins: make(map[bot.Strategy]int)}
	for n := 1; n <= r.opts.Games; n++ {
		res, err := r.Play(ctx, n)
		if err != nil {
			return sum, err
		}
		sum.Games++
		if res.Finished {
			sum.Wins[res.WinnerStrategy]++
		} else {
			sum.Unfinished++
		}
		if r.store != nil {
			if err := r.store.Save(ctx, res); err != nil {
				return sum, err
			}
		}
		r.log.WithFields(logrus.Fields{
			"game":     n,
			"winner":   res.Winner.String(),
			"strategy": res.WinnerStrategy.String(),
			"turns":    res.Turns,
		}).Info("game finished")
	}
	return sum, nil
}

// Play runs game n to completion or to the turn limit.
func (r *Runner) Play(ctx context.Context, n int) (Result, error) {
	rules := r.opts.Rules
	rules.Seed = r.opts.Seed + uint64(n)
	g, err := engine.NewGame(len(r.opts.Strategies), rules, buildings.NewCatalog())
	if err != nil {
		return Result{}, err
	}

	var trace *TraceWriter
	if r.opts.TraceDir != "" {
		trace, err = NewTraceWriter(TracePath(r.opts.TraceDir, n))
		if err != nil {
			return Result{}, err
		}
		defer trace.Close()
	}

	events, err := g.Start()
	if err != nil {
		return Result{}, err
	}
	if trace != nil {
		if err := trace.WriteEvents(n, g.Turns.Turn(), events); err != nil {
			return Result{}, fmt.Errorf("trace: %w", err)
		}
	}

	bots := make(map[engine.PlayerID]*bot.Bot)
	for i, p := range g.Players() {
		bots[p] = bot.New(p, r.opts.Strategies[i], rules.Seed)
	}

	turns := 0
	for !g.IsGameOver() && turns < r.opts.TurnLimit {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		turn := g.Turns.Turn()
		events, err := bots[g.CurrentPlayer()].PlayTurn(g)
		if err != nil {
			return Result{}, fmt.Errorf("game %d turn %d: %w", n, turn, err)
		}
		if trace != nil {
			if err := trace.WriteEvents(n, turn, events); err != nil {
				return Result{}, fmt.Errorf("trace: %w", err)
			}
		}
		turns++
	}

	res := Result{
		Game:       n,
		Seed:       rules.Seed,
		Strategies: slices.Clone(r.opts.Strategies),
		Finished:   g.IsGameOver(),
		Winner:     g.Winner(),
		Turns:      turns,
		Balances:   make(map[string]int),
		Floors:     make(map[string]int),
	}
	if res.Finished {
		res.WinnerStrategy = bots[res.Winner].Strategy
	}
	for _, p := range g.Players() {
		res.Balances[p.String()] = g.Economy.Balance(p)
		res.Floors[p.String()] = g.ActivatedFloorCount(p)
	}
	if trace != nil {
		if err := trace.Close(); err != nil {
			return res, fmt.Errorf("trace: %w", err)
		}
	}
	return res, nil
}
