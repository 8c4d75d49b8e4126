package bot

import (
	"errors"
	"testing"

	"diceville/internal/engine"
	"diceville/internal/engine/buildings"
)

func newGame(t *testing.T, seed uint64) *engine.Game {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.Seed = seed
	g, err := engine.NewGame(4, cfg, buildings.NewCatalog())
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if _, err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return g
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
	}{
		{"1", StrategyMaxIncome},
		{"floor_only", StrategyFloorOnly},
		{"5", StrategyBuildFirst},
	}
	for _, tc := range tests {
		got, err := ParseStrategy(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseStrategy(%q) = %v, %v", tc.in, got, err)
		}
	}
	for _, bad := range []string{"0", "6", "greedy"} {
		if _, err := ParseStrategy(bad); err == nil {
			t.Errorf("ParseStrategy(%q) should fail", bad)
		}
	}
}

func TestPlayTurnOutOfTurn(t *testing.T) {
	g := newGame(t, 1)
	b := New(engine.PlayerEnemy2, StrategyRandom, 1)
	if _, err := b.PlayTurn(g); !errors.Is(err, engine.ErrNotYourTurn) {
		t.Fatalf("err = %v, want ErrNotYourTurn", err)
	}
}

func TestFloorOnlySpendsEveryStepOnFloors(t *testing.T) {
	g := newGame(t, 2)
	g.Economy.Set(engine.PlayerHost, 100)
	b := New(engine.PlayerHost, StrategyFloorOnly, 2)

	events, err := b.PlayTurn(g)
	if err != nil {
		t.Fatalf("PlayTurn: %v", err)
	}
	if n := g.ActivatedFloorCount(engine.PlayerHost); n != 3 {
		t.Fatalf("floors = %d, want 3", n)
	}
	for _, e := range events {
		if e.Type == engine.EventBuildingBuilt || e.Type == engine.EventTileBought {
			t.Fatalf("floor-only bot did %s", e.Type)
		}
	}
	if g.CurrentPlayer() != engine.PlayerEnemy1 {
		t.Fatalf("turn not ended, current = %s", g.CurrentPlayer())
	}
}

func TestFloorOnlyEndsTurnWhenBroke(t *testing.T) {
	g := newGame(t, 3)
	g.Economy.Set(engine.PlayerHost, 1)
	b := New(engine.PlayerHost, StrategyFloorOnly, 3)

	if _, err := b.PlayTurn(g); err != nil {
		t.Fatalf("PlayTurn: %v", err)
	}
	if g.ActivatedFloorCount(engine.PlayerHost) != 1 {
		t.Fatal("bought a floor it could not afford")
	}
	if g.CurrentPlayer() != engine.PlayerEnemy1 {
		t.Fatalf("turn not ended, current = %s", g.CurrentPlayer())
	}
}

func playGame(t *testing.T, seed uint64, strategies []Strategy, turns int) *engine.Game {
	t.Helper()
	g := newGame(t, seed)
	bots := make(map[engine.PlayerID]*Bot)
	for i, p := range g.Players() {
		bots[p] = New(p, strategies[i], seed)
	}
	for range turns {
		if g.IsGameOver() {
			break
		}
		if _, err := bots[g.CurrentPlayer()].PlayTurn(g); err != nil {
			t.Fatalf("PlayTurn: %v", err)
		}
		for _, p := range g.Players() {
			if g.Economy.Balance(p) < 0 {
				t.Fatalf("%s went negative", p)
			}
		}
	}
	return g
}

func TestBotsAreDeterministic(t *testing.T) {
	strategies := []Strategy{StrategyMaxIncome, StrategyRandom, StrategyFloorFirst, StrategyBuildFirst}
	a := playGame(t, 77, strategies, 600)
	b := playGame(t, 77, strategies, 600)

	if a.Winner() != b.Winner() || a.Turns.Turn() != b.Turns.Turn() {
		t.Fatalf("winner %s/%s turn %d/%d", a.Winner(), b.Winner(), a.Turns.Turn(), b.Turns.Turn())
	}
	for _, p := range a.Players() {
		if a.Economy.Balance(p) != b.Economy.Balance(p) || a.ActivatedFloorCount(p) != b.ActivatedFloorCount(p) {
			t.Fatalf("%s diverged", p)
		}
		if len(a.BuildingsOf(p)) != len(b.BuildingsOf(p)) {
			t.Fatalf("%s built %d vs %d", p, len(a.BuildingsOf(p)), len(b.BuildingsOf(p)))
		}
	}
}
