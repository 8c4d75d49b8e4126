package simulation

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"diceville/internal/bot"
	"diceville/internal/engine"
)

func TestTraceRoundTrip(t *testing.T) {
	path := TracePath(t.TempDir(), 3)
	w, err := NewTraceWriter(path)
	if err != nil {
		t.Fatalf("NewTraceWriter: %v", err)
	}
	events := []engine.Event{
		{Type: engine.EventDiceRolled, Player: "host", Data: map[string]any{"sum": 7}},
		{Type: engine.EventMoneyChanged, Player: "enemy1", Data: map[string]any{"delta": 1}},
	}
	if err := w.WriteEvents(3, 12, events); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Write("late"); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("write after close err = %v", err)
	}

	got, err := ReadTrace(path)
	if err != nil {
		t.Fatalf("ReadTrace: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("read %d records, want 2", len(got))
	}
	if got[0].Game != 3 || got[0].Turn != 12 || got[0].Event.Type != engine.EventDiceRolled {
		t.Fatalf("first record = %+v", got[0])
	}
	if got[1].Event.Player != "enemy1" || got[1].Event.Data["delta"] != float64(1) {
		t.Fatalf("second record = %+v", got[1])
	}
}

func TestStoreWins(t *testing.T) {
	ctx := context.Background()
	s, err := OpenStore(filepath.Join(t.TempDir(), "db", "sim.sqlite"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer s.Close()

	results := []Result{
		{Game: 1, Finished: true, Winner: engine.PlayerHost, WinnerStrategy: bot.StrategyMaxIncome},
		{Game: 2, Finished: true, Winner: engine.PlayerEnemy1, WinnerStrategy: bot.StrategyFloorOnly},
		{Game: 3, Finished: true, Winner: engine.PlayerHost, WinnerStrategy: bot.StrategyMaxIncome},
		{Game: 4, Finished: false, Winner: engine.PlayerNone},
	}
	for _, r := range results {
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	n, err := s.Count(ctx)
	if err != nil || n != 4 {
		t.Fatalf("Count = %d, %v", n, err)
	}
	wins, err := s.Wins(ctx)
	if err != nil {
		t.Fatalf("Wins: %v", err)
	}
	want := map[bot.Strategy]int{bot.StrategyMaxIncome: 2, bot.StrategyFloorOnly: 1}
	if !reflect.DeepEqual(wins, want) {
		t.Fatalf("wins = %v, want %v", wins, want)
	}
}

func TestStoreKeepsFullSeedRange(t *testing.T) {
	ctx := context.Background()
	s, err := OpenStore(filepath.Join(t.TempDir(), "sim.sqlite"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer s.Close()

	want := Result{
		Game:           7,
		Seed:           math.MaxUint64,
		Strategies:     []bot.Strategy{bot.StrategyRandom, bot.StrategyBuildFirst},
		Finished:       true,
		Winner:         engine.PlayerEnemy1,
		WinnerStrategy: bot.StrategyBuildFirst,
		Turns:          88,
		Balances:       map[string]int{"host": 3, "enemy1": 12},
		Floors:         map[string]int{"host": 4, "enemy1": 7},
	}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, 7)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("loaded %+v\nwant %+v", got, want)
	}

	if err := s.Save(ctx, Result{Game: 8, Seed: 1 << 63, Winner: engine.PlayerNone}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = s.Load(ctx, 8)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Seed != 1<<63 || got.Finished || got.Winner != engine.PlayerNone {
		t.Fatalf("unfinished game loaded as %+v", got)
	}
}

func TestOpenStoreEmptyPath(t *testing.T) {
	if _, err := OpenStore(""); err == nil {
		t.Fatal("empty path should fail")
	}
}

func TestNewRunnerValidation(t *testing.T) {
	if _, err := NewRunner(Options{Games: 0}, nil); err == nil {
		t.Error("zero games should fail")
	}
	five := []bot.Strategy{1, 2, 3, 4, 5}
	if _, err := NewRunner(Options{Games: 1, Strategies: five}, nil); !errors.Is(err, engine.ErrInvalidPlayers) {
		t.Errorf("five seats err = %v", err)
	}
	bad := engine.DefaultConfig()
	bad.MapWidth = 3
	if _, err := NewRunner(Options{Games: 1, Rules: bad}, nil); err == nil {
		t.Error("invalid rules should fail")
	}
}

func TestRunnerRecordsGames(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := OpenStore(filepath.Join(dir, "sim.sqlite"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	r, err := NewRunner(Options{Games: 2, Seed: 100, TurnLimit: 400, TraceDir: filepath.Join(dir, "traces")}, store)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	sum, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	won := 0
	for _, n := range sum.Wins {
		won += n
	}
	if sum.Games != 2 || won+sum.Unfinished != 2 {
		t.Fatalf("summary = %+v", sum)
	}
	if n, _ := store.Count(ctx); n != 2 {
		t.Fatalf("stored %d games, want 2", n)
	}

	recs, err := ReadTrace(TracePath(filepath.Join(dir, "traces"), 1))
	if err != nil {
		t.Fatalf("ReadTrace: %v", err)
	}
	if len(recs) == 0 || recs[0].Event.Type != engine.EventTurnStart {
		t.Fatalf("trace should open with a turn start, got %d records", len(recs))
	}
}

func TestRunnerIsDeterministic(t *testing.T) {
	play := func() Result {
		r, err := NewRunner(Options{Games: 1, Seed: 5, TurnLimit: 300}, nil)
		if err != nil {
			t.Fatalf("NewRunner: %v", err)
		}
		res, err := r.Play(context.Background(), 1)
		if err != nil {
			t.Fatalf("Play: %v", err)
		}
		return res
	}
	a, b := play(), play()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("results differ:\n%+v\n%+v", a, b)
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := NewRunner(Options{Games: 3}, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if _, err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestWinRate(t *testing.T) {
	s := Summary{Games: 4, Wins: map[bot.Strategy]int{bot.StrategyRandom: 1}}
	if s.WinRate(bot.StrategyRandom) != 25 || s.WinRate(bot.StrategyFloorOnly) != 0 {
		t.Fatalf("win rates wrong: %v", s)
	}
	if (Summary{}).WinRate(bot.StrategyRandom) != 0 {
		t.Fatal("empty summary should report 0")
	}
}
