package engine_test

import (
	"errors"
	"testing"

	"diceville/internal/engine"
	"diceville/internal/engine/buildings"
)

type fixedDice struct {
	values []int
	next   int
}

func (d *fixedDice) IntN(n int) int {
	v := d.values[d.next%len(d.values)]
	d.next++
	return (v - 1) % n
}

func newTestGame(t *testing.T, n int) *engine.Game {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.Seed = 42
	g, err := engine.NewGame(n, cfg, buildings.NewCatalog())
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if _, err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return g
}

// rig makes the next dice come up as values, in order.
func rig(g *engine.Game, values ...int) {
	g.Dice = engine.NewDiceResolver(&fixedDice{values: values})
}

// place builds k for owner on one of their free tiles without changing
// their balance.
func place(t *testing.T, g *engine.Game, k engine.Kind, owner engine.PlayerID) *engine.Building {
	t.Helper()
	b, err := g.Catalog.New(k)
	if err != nil {
		t.Fatalf("New(%s): %v", k, err)
	}
	free := g.AvailableTiles(owner)
	if len(free) == 0 {
		t.Fatalf("%s has no free tile", owner)
	}
	tile := free[0]
	if b.Surface != engine.SurfaceAny {
		tile.Surface = b.Surface
	}
	g.Economy.Set(owner, g.Economy.Balance(owner)+b.Price)
	if err := g.BuildOnTile(b, tile.Pos, owner); err != nil {
		t.Fatalf("BuildOnTile(%s): %v", k, err)
	}
	g.TakeEvents()
	return b
}

func resolvedOrder(events []engine.Event) []string {
	var out []string
	for _, e := range events {
		switch e.Type {
		case engine.EventEffectResolved:
			out = append(out, e.Data["building"].(string))
		case engine.EventDeferredRun:
			out = append(out, "hq:"+e.Data["entry"].(string))
		}
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewGame(t *testing.T) {
	g := newTestGame(t, 4)
	if len(g.Players()) != 4 {
		t.Fatalf("expected 4 players, got %d", len(g.Players()))
	}
	if g.Phase != engine.PhaseRoll {
		t.Fatalf("expected Roll phase, got %s", g.Phase)
	}
	if g.CurrentPlayer() != engine.PlayerHost {
		t.Fatalf("first player = %s, want host", g.CurrentPlayer())
	}
	for _, p := range g.Players() {
		if g.Economy.Balance(p) != 10 {
			t.Errorf("%s starts with %d, want 10", p, g.Economy.Balance(p))
		}
		if g.ActivatedFloorCount(p) != 1 {
			t.Errorf("%s starts with %d floors, want 1", p, g.ActivatedFloorCount(p))
		}
		if len(g.OwnedTiles(p)) != 9 || len(g.AvailableTiles(p)) != 8 {
			t.Errorf("%s owns %d tiles (%d free), want 9 (8)", p, len(g.OwnedTiles(p)), len(g.AvailableTiles(p)))
		}
		hq := g.Headquarters(p)
		tile := g.Board.Tile(hq.Building.Pos)
		if tile.Building != hq.Building || tile.Surface != engine.SurfaceField {
			t.Errorf("%s headquarters tile = %+v", p, tile)
		}
	}
	for _, k := range g.Hand(engine.PlayerHost).Slots() {
		if k == engine.NoCard {
			t.Fatal("host hand should be full at the first turn")
		}
	}
}

func TestNewGameRejectsBadInput(t *testing.T) {
	if _, err := engine.NewGame(1, engine.DefaultConfig(), buildings.NewCatalog()); !errors.Is(err, engine.ErrInvalidPlayers) {
		t.Errorf("1 player err = %v", err)
	}
	if _, err := engine.NewGame(5, engine.DefaultConfig(), buildings.NewCatalog()); !errors.Is(err, engine.ErrInvalidPlayers) {
		t.Errorf("5 players err = %v", err)
	}
	cfg := engine.DefaultConfig()
	cfg.StepsPerTurn = 0
	if _, err := engine.NewGame(2, cfg, buildings.NewCatalog()); err == nil {
		t.Error("zero steps per turn should be rejected")
	}
}

func TestGreenIncomeOnOwnRoll(t *testing.T) {
	g := newTestGame(t, 2)
	place(t, g, engine.KindQueenBurger, engine.PlayerHost)
	rig(g, 1)

	roll, err := g.RollDice(false)
	if err != nil {
		t.Fatalf("RollDice: %v", err)
	}
	if roll.Sum != 1 || roll.Double {
		t.Fatalf("roll = %+v", roll)
	}
	if got := g.Economy.Balance(engine.PlayerHost); got != 11 {
		t.Fatalf("host balance = %d, want 11", got)
	}
	if g.Phase != engine.PhaseActions || !g.CanAct() {
		t.Fatal("player should be able to act after rolling")
	}
}

func TestRedPaysOwnerBeforeGreenPaysRoller(t *testing.T) {
	g := newTestGame(t, 2)
	place(t, g, engine.KindRiceField, engine.PlayerHost)
	place(t, g, engine.KindCasino, engine.PlayerEnemy1)
	rig(g, 4, 5)

	if _, err := g.RollDice(true); err != nil {
		t.Fatalf("RollDice: %v", err)
	}
	events := g.TakeEvents()

	want := []string{"Casino", "RiceField", "hq:FirstEntry"}
	if got := resolvedOrder(events); !equal(got, want) {
		t.Fatalf("resolution order = %v, want %v", got, want)
	}

	// the Casino charge must be settled before the RiceField payout
	var deltas []int
	for _, e := range events {
		if e.Type == engine.EventMoneyChanged && e.Player == engine.PlayerHost.String() {
			deltas = append(deltas, e.Data["delta"].(int))
		}
	}
	if len(deltas) != 2 || deltas[0] != -3 || deltas[1] != 3 {
		t.Fatalf("host money deltas = %v, want [-3 3]", deltas)
	}
	if g.Economy.Balance(engine.PlayerHost) != 10 || g.Economy.Balance(engine.PlayerEnemy1) != 13 {
		t.Fatalf("balances host=%d enemy1=%d", g.Economy.Balance(engine.PlayerHost), g.Economy.Balance(engine.PlayerEnemy1))
	}
}

func TestCategoryOrderBeatsRegistrationOrder(t *testing.T) {
	g := newTestGame(t, 2)
	place(t, g, engine.KindJammer, engine.PlayerHost)
	place(t, g, engine.KindTidalPowerPlant, engine.PlayerEnemy1)
	place(t, g, engine.KindMilitaryCamp, engine.PlayerEnemy1)
	rig(g, 3)

	if _, err := g.RollDice(false); err != nil {
		t.Fatalf("RollDice: %v", err)
	}
	want := []string{"MilitaryCamp", "TidalPowerPlant", "Jammer", "hq:FirstEntry"}
	if got := resolvedOrder(g.TakeEvents()); !equal(got, want) {
		t.Fatalf("resolution order = %v, want %v", got, want)
	}
	// host paid 1 to the camp; Tidal pays its owner even on another player's roll
	if g.Economy.Balance(engine.PlayerHost) != 9 || g.Economy.Balance(engine.PlayerEnemy1) != 13 {
		t.Fatalf("balances host=%d enemy1=%d", g.Economy.Balance(engine.PlayerHost), g.Economy.Balance(engine.PlayerEnemy1))
	}
}

func TestOwnRedBuildingDoesNotFire(t *testing.T) {
	g := newTestGame(t, 2)
	place(t, g, engine.KindEBankOffice, engine.PlayerHost)
	rig(g, 3, 4)

	if _, err := g.RollDice(true); err != nil {
		t.Fatalf("RollDice: %v", err)
	}
	for _, name := range resolvedOrder(g.TakeEvents()) {
		if name == "EBankOffice" {
			t.Fatal("roller's own Red building fired")
		}
	}
	if g.Economy.Balance(engine.PlayerHost) != 10 || g.Economy.Balance(engine.PlayerEnemy1) != 10 {
		t.Fatal("balances changed")
	}
}

func TestRedChargeAgainstBrokeRollerIsClamped(t *testing.T) {
	g := newTestGame(t, 2)
	place(t, g, engine.KindEBankOffice, engine.PlayerHost)
	if err := g.AdvanceTurn(); err != nil {
		t.Fatalf("AdvanceTurn: %v", err)
	}
	g.TakeEvents()
	g.Economy.Set(engine.PlayerEnemy1, 0)
	rig(g, 3, 4)

	if _, err := g.RollDice(true); err != nil {
		t.Fatalf("RollDice: %v", err)
	}
	events := g.TakeEvents()

	// no money moves until the EBank effect has resolved
	for _, e := range events {
		if e.Type == engine.EventEffectResolved {
			break
		}
		if e.Type == engine.EventMoneyChanged {
			t.Fatalf("unexpected money change before the EBank effect: %+v", e)
		}
	}
	if g.Economy.Balance(engine.PlayerHost) != 10 {
		t.Fatalf("owner was credited from a broke payer: %d", g.Economy.Balance(engine.PlayerHost))
	}
	// the first-entry floor then tops the broke roller up by 2
	if g.Economy.Balance(engine.PlayerEnemy1) != 2 {
		t.Fatalf("enemy1 balance = %d, want 2", g.Economy.Balance(engine.PlayerEnemy1))
	}
}

func TestFirstEntryGrant(t *testing.T) {
	tests := []struct {
		name  string
		kind  engine.Kind
		roll  int
		start int
		want  int
	}{
		{"nothing triggered", engine.KindQueenBurger, 6, 0, 2},
		{"only a zero-income building", engine.KindJammer, 6, 0, 2},
		{"own building paid out", engine.KindWindPowerPlant, 6, 0, 3},
		{"not broke", engine.KindQueenBurger, 6, 5, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, 2)
			place(t, g, tc.kind, engine.PlayerHost)
			g.Economy.Set(engine.PlayerHost, tc.start)
			rig(g, tc.roll)
			if _, err := g.RollDice(false); err != nil {
				t.Fatalf("RollDice: %v", err)
			}
			if got := g.Economy.Balance(engine.PlayerHost); got != tc.want {
				t.Fatalf("balance = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCommunicationFloorGivesPoorestAStep(t *testing.T) {
	g := newTestGame(t, 2)
	host, enemy := engine.PlayerHost, engine.PlayerEnemy1
	if err := g.PurchaseFloor(host, engine.FloorCommunication); err != nil {
		t.Fatalf("PurchaseFloor: %v", err)
	}
	for _, f := range []engine.FloorID{engine.FloorScience, engine.FloorTrade} {
		if err := g.PurchaseFloor(enemy, f); err != nil {
			t.Fatalf("PurchaseFloor(%s): %v", f, err)
		}
	}
	g.AdvanceTurn()
	g.AdvanceTurn()
	g.TakeEvents()

	hq := g.Headquarters(host)
	if q := hq.Queue(); len(q) != 1 || q[0].String() != "Communication" {
		t.Fatalf("queue at turn start = %v", q)
	}
	if g.PreviewIncome(host) != -1 {
		t.Fatalf("preview = %d, want -1", g.PreviewIncome(host))
	}

	rig(g, 6)
	if _, err := g.RollDice(false); err != nil {
		t.Fatalf("RollDice: %v", err)
	}
	if g.Turns.Remaining() != 3 {
		t.Fatalf("remaining = %d, want 3", g.Turns.Remaining())
	}
	if g.Economy.Balance(host) != 0 {
		t.Fatalf("poorest player got money: %d", g.Economy.Balance(host))
	}
	if q := hq.Queue(); len(q) != 1 || q[0].String() != "FirstEntry" {
		t.Fatalf("queue after roll = %v", q)
	}
}

func TestCommunicationFloorPaysRichest(t *testing.T) {
	g := newTestGame(t, 2)
	g.Economy.Set(engine.PlayerHost, 20)
	if err := g.PurchaseFloor(engine.PlayerHost, engine.FloorCommunication); err != nil {
		t.Fatalf("PurchaseFloor: %v", err)
	}
	g.AdvanceTurn()
	g.AdvanceTurn()
	if g.PreviewIncome(engine.PlayerHost) != 1 {
		t.Fatalf("preview = %d, want 1", g.PreviewIncome(engine.PlayerHost))
	}
	rig(g, 6)
	g.RollDice(false)
	if g.Economy.Balance(engine.PlayerHost) != 11 || g.Turns.Remaining() != 2 {
		t.Fatalf("balance=%d remaining=%d, want 11 and 2", g.Economy.Balance(engine.PlayerHost), g.Turns.Remaining())
	}
}

func TestQueueAdvancesOneEntryPerRoll(t *testing.T) {
	g := newTestGame(t, 2)
	host := engine.PlayerHost
	g.Economy.Set(host, 40)
	for _, f := range []engine.FloorID{engine.FloorCommunication, engine.FloorStrategic} {
		if err := g.PurchaseFloor(host, f); err != nil {
			t.Fatalf("PurchaseFloor(%s): %v", f, err)
		}
	}
	g.AdvanceTurn()
	g.AdvanceTurn()
	g.TakeEvents()
	rig(g, 6)

	runs := func() []string {
		var out []string
		for _, e := range g.TakeEvents() {
			if e.Type == engine.EventDeferredRun {
				out = append(out, e.Data["entry"].(string))
			}
		}
		return out
	}

	g.RollDice(false)
	if got := runs(); !equal(got, []string{"Communication"}) {
		t.Fatalf("first roll ran %v", got)
	}
	if n := len(g.Headquarters(host).Queue()); n != 2 {
		t.Fatalf("queue holds %d entries after the first roll, want 2", n)
	}

	g.AdvanceTurn()
	g.AdvanceTurn()
	g.TakeEvents()
	g.RollDice(false)
	if got := runs(); !equal(got, []string{"Strategic"}) {
		t.Fatalf("second roll ran %v", got)
	}
}

func TestStrategicFloorNeedsAllSpheres(t *testing.T) {
	g := newTestGame(t, 2)
	host := engine.PlayerHost
	g.Economy.Set(host, 30)
	if err := g.PurchaseFloor(host, engine.FloorStrategic); err != nil {
		t.Fatalf("PurchaseFloor: %v", err)
	}
	for _, k := range engine.SphereKinds() {
		place(t, g, k, host)
	}
	if !g.OwnsAllSpheres(host) {
		t.Fatal("host should own all spheres")
	}
	g.AdvanceTurn()
	g.AdvanceTurn()
	if g.PreviewIncome(host) != -1 {
		t.Fatalf("preview = %d, want -1", g.PreviewIncome(host))
	}
	rig(g, 1)
	g.RollDice(false)
	if g.Turns.Remaining() != 3 {
		t.Fatalf("remaining = %d, want 3", g.Turns.Remaining())
	}
}

func TestPurchaseFloorFailuresLeaveState(t *testing.T) {
	g := newTestGame(t, 2)
	host := engine.PlayerHost

	if err := g.PurchaseFloor(host, engine.FloorFirstEntry); !errors.Is(err, engine.ErrFloorActive) {
		t.Fatalf("err = %v, want ErrFloorActive", err)
	}
	if err := g.PurchaseFloor(host, engine.FloorInnovations); !errors.Is(err, engine.ErrNotEnoughMoney) {
		t.Fatalf("err = %v, want ErrNotEnoughMoney", err)
	}
	if err := g.PurchaseFloor(host, engine.FloorID(9)); !errors.Is(err, engine.ErrUnknownFloor) {
		t.Fatalf("err = %v, want ErrUnknownFloor", err)
	}
	if g.Economy.Balance(host) != 10 || g.ActivatedFloorCount(host) != 1 {
		t.Fatal("failed purchases changed state")
	}
}

func TestAllFloorsWin(t *testing.T) {
	g := newTestGame(t, 3)
	g.Economy.Set(engine.PlayerEnemy1, 1000)
	for f := engine.FloorScience; f <= engine.FloorStrategic; f++ {
		if g.IsGameOver() {
			t.Fatalf("game ended before floor %s", f)
		}
		if err := g.PurchaseFloor(engine.PlayerEnemy1, f); err != nil {
			t.Fatalf("PurchaseFloor(%s): %v", f, err)
		}
		if !g.Headquarters(engine.PlayerEnemy1).Floors()[f].Active {
			t.Fatalf("floor %s not active", f)
		}
	}
	if !g.IsGameOver() || g.Winner() != engine.PlayerEnemy1 {
		t.Fatalf("game over=%v winner=%s", g.IsGameOver(), g.Winner())
	}
	if _, err := g.Apply(engine.PlayerHost, engine.Action{Type: engine.ActionRollDice}); !errors.Is(err, engine.ErrGameOver) {
		t.Fatalf("Apply after win err = %v", err)
	}
	if err := g.AdvanceTurn(); !errors.Is(err, engine.ErrGameOver) {
		t.Fatalf("AdvanceTurn after win err = %v", err)
	}
}

func TestApplyTurnFlow(t *testing.T) {
	g := newTestGame(t, 2)
	host, enemy := engine.PlayerHost, engine.PlayerEnemy1
	rig(g, 6)

	if _, err := g.Apply(enemy, engine.Action{Type: engine.ActionRollDice}); !errors.Is(err, engine.ErrNotYourTurn) {
		t.Fatalf("out of turn err = %v", err)
	}
	if _, err := g.Apply(host, engine.Action{Type: engine.ActionBuyFloor, Floor: engine.FloorTrade}); !errors.Is(err, engine.ErrNotRolled) {
		t.Fatalf("buy before roll err = %v", err)
	}
	if _, err := g.Apply(host, engine.Action{Type: engine.ActionEndTurn}); !errors.Is(err, engine.ErrNotRolled) {
		t.Fatalf("end turn before roll err = %v", err)
	}

	events, err := g.Apply(host, engine.Action{Type: engine.ActionRollDice})
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if len(events) == 0 || events[0].Type != engine.EventDiceRolled {
		t.Fatalf("roll events = %+v", events)
	}
	if _, err := g.Apply(host, engine.Action{Type: engine.ActionRollDice}); !errors.Is(err, engine.ErrAlreadyRolled) {
		t.Fatalf("second roll err = %v", err)
	}

	if _, err := g.Apply(host, engine.Action{Type: engine.ActionBuyFloor, Floor: engine.FloorTrade}); err != nil {
		t.Fatalf("buy trade: %v", err)
	}
	if _, err := g.Apply(host, engine.Action{Type: engine.ActionBuyFloor, Floor: engine.FloorScience}); err != nil {
		t.Fatalf("buy science: %v", err)
	}
	if g.Economy.Balance(host) != 4 || g.Turns.Remaining() != 0 {
		t.Fatalf("balance=%d remaining=%d", g.Economy.Balance(host), g.Turns.Remaining())
	}
	if _, err := g.Apply(host, engine.Action{Type: engine.ActionBuyTile, X: 3, Y: 0}); !errors.Is(err, engine.ErrNoActionsLeft) {
		t.Fatalf("third action err = %v", err)
	}
	if g.ConsumeAction() {
		t.Fatal("ConsumeAction with an empty budget should report false")
	}

	events, err = g.Apply(host, engine.Action{Type: engine.ActionEndTurn})
	if err != nil {
		t.Fatalf("end turn: %v", err)
	}
	if g.CurrentPlayer() != enemy || g.Phase != engine.PhaseRoll {
		t.Fatalf("turn did not pass: current=%s phase=%s", g.CurrentPlayer(), g.Phase)
	}
	var started bool
	for _, e := range events {
		if e.Type == engine.EventTurnStart && e.Player == enemy.String() {
			started = true
		}
	}
	if !started {
		t.Fatal("end turn should report the next turn start")
	}
}

func TestApplyBuildAndBuyTile(t *testing.T) {
	g := newTestGame(t, 2)
	host := engine.PlayerHost
	rig(g, 6)
	g.Apply(host, engine.Action{Type: engine.ActionRollDice})

	hand := g.Hand(host)
	kind, ok := hand.Card(0)
	if !ok {
		t.Fatal("slot 0 empty")
	}

	// off the board: the card goes back and no action is spent
	if _, err := g.Apply(host, engine.Action{Type: engine.ActionBuild, Slot: 0, X: -1, Y: 0}); !errors.Is(err, engine.ErrInvalidAction) {
		t.Fatalf("off-board build err = %v", err)
	}
	if k, _ := hand.Card(0); k != kind || g.Turns.Remaining() != 2 {
		t.Fatalf("failed build kept card=%v remaining=%d", k, g.Turns.Remaining())
	}

	def, _ := g.Catalog.Definition(kind)
	tile := g.AvailableTiles(host)[0]
	if def.Surface != engine.SurfaceAny {
		tile.Surface = def.Surface
	}
	g.Economy.Set(host, 20)
	if _, err := g.Apply(host, engine.Action{Type: engine.ActionBuild, Slot: 0, X: tile.Pos.X, Y: tile.Pos.Y}); err != nil {
		t.Fatalf("build: %v", err)
	}
	if tile.Building == nil || tile.Building.Kind != kind || tile.Building.Owner != host {
		t.Fatalf("tile building = %+v", tile.Building)
	}
	if _, ok := hand.Card(0); ok {
		t.Fatal("used card still in hand")
	}
	if g.Economy.Balance(host) != 20-def.Price || g.Turns.Remaining() != 1 {
		t.Fatalf("balance=%d remaining=%d", g.Economy.Balance(host), g.Turns.Remaining())
	}

	if _, err := g.Apply(host, engine.Action{Type: engine.ActionBuyTile, X: 5, Y: 5}); !errors.Is(err, engine.ErrTileNotAdjacent) {
		t.Fatalf("far tile err = %v", err)
	}
	if _, err := g.Apply(host, engine.Action{Type: engine.ActionBuyTile, X: 3, Y: 0}); err != nil {
		t.Fatalf("buy tile: %v", err)
	}
	if g.Board.Tile(engine.Position{X: 3, Y: 0}).Owner != host {
		t.Fatal("tile not owned after purchase")
	}
	if g.Economy.Balance(host) != 20-def.Price-1 {
		t.Fatalf("tile should cost the active floor count, balance %d", g.Economy.Balance(host))
	}
}

func TestBuildOnTileValidation(t *testing.T) {
	g := newTestGame(t, 2)
	host := engine.PlayerHost
	hqPos := g.Headquarters(host).Building.Pos

	b, _ := g.Catalog.New(engine.KindOilRig)
	tile := g.AvailableTiles(host)[0]
	tile.Surface = engine.SurfaceField
	if err := g.BuildOnTile(b, tile.Pos, host); !errors.Is(err, engine.ErrWrongSurface) {
		t.Fatalf("wrong surface err = %v", err)
	}
	if err := g.BuildOnTile(b, hqPos, host); !errors.Is(err, engine.ErrTileOccupied) {
		t.Fatalf("occupied err = %v", err)
	}
	enemyTile := g.AvailableTiles(engine.PlayerEnemy1)[0]
	if err := g.BuildOnTile(b, enemyTile.Pos, host); !errors.Is(err, engine.ErrTileNotOwned) {
		t.Fatalf("foreign tile err = %v", err)
	}
	tile.Surface = engine.SurfaceWater
	g.Economy.Set(host, 3)
	if err := g.BuildOnTile(b, tile.Pos, host); !errors.Is(err, engine.ErrNotEnoughMoney) {
		t.Fatalf("poor err = %v", err)
	}
	if b.Placed() || tile.Building != nil || len(g.Buildings()) != 0 || g.Economy.Balance(host) != 3 {
		t.Fatal("failed builds changed state")
	}
	if _, err := g.Catalog.New(engine.KindHeadquarters); !errors.Is(err, engine.ErrUnknownBuilding) {
		t.Fatalf("headquarters should not be buildable, err = %v", err)
	}
}

func TestReplaceCardOncePerGame(t *testing.T) {
	g := newTestGame(t, 2)
	host := engine.PlayerHost
	rig(g, 6)
	g.Apply(host, engine.Action{Type: engine.ActionRollDice})

	before, _ := g.Hand(host).Card(1)
	if _, err := g.Apply(host, engine.Action{Type: engine.ActionReplaceCard, Slot: 1}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	after, _ := g.Hand(host).Card(1)
	if after == before || after == engine.NoCard {
		t.Fatalf("slot 1 went from %s to %s", before, after)
	}
	if _, err := g.Apply(host, engine.Action{Type: engine.ActionReplaceCard, Slot: 2}); !errors.Is(err, engine.ErrNoReplacements) {
		t.Fatalf("second replace err = %v", err)
	}
	if g.Turns.Remaining() != 1 {
		t.Fatalf("remaining = %d, want 1", g.Turns.Remaining())
	}
}

func TestDeterministicReplay(t *testing.T) {
	play := func() (map[engine.PlayerID]int, engine.PlayerID, int) {
		cfg := engine.DefaultConfig()
		cfg.Seed = 1234
		g, err := engine.NewGame(4, cfg, buildings.NewCatalog())
		if err != nil {
			t.Fatalf("NewGame: %v", err)
		}
		g.Start()
		events := 0
		for turn := 0; turn < 400 && !g.IsGameOver(); turn++ {
			p := g.CurrentPlayer()
			ev, err := g.Apply(p, engine.Action{Type: engine.ActionRollDice, TwoDice: turn%3 == 0})
			if err != nil {
				t.Fatalf("roll: %v", err)
			}
			events += len(ev)
			for f := engine.FloorScience; f <= engine.FloorStrategic && g.CanAct(); f++ {
				ev, err := g.Apply(p, engine.Action{Type: engine.ActionBuyFloor, Floor: f})
				if err == nil {
					events += len(ev)
				}
			}
			if g.IsGameOver() {
				break
			}
			ev, err = g.Apply(p, engine.Action{Type: engine.ActionEndTurn})
			if err != nil {
				t.Fatalf("end turn: %v", err)
			}
			events += len(ev)
		}
		return g.Economy.Snapshot(), g.Winner(), events
	}

	b1, w1, n1 := play()
	b2, w2, n2 := play()
	if w1 != w2 || n1 != n2 {
		t.Fatalf("runs diverged: winner %s/%s events %d/%d", w1, w2, n1, n2)
	}
	for p, v := range b1 {
		if b2[p] != v {
			t.Fatalf("%s balance %d vs %d", p, v, b2[p])
		}
	}
}

func TestBalancesNeverNegative(t *testing.T) {
	g := newTestGame(t, 4)
	for _, p := range g.Players() {
		place(t, g, engine.KindMilitaryCamp, p)
		place(t, g, engine.KindWeaponsFactory, p)
	}
	for turn := 0; turn < 200; turn++ {
		p := g.CurrentPlayer()
		if _, err := g.Apply(p, engine.Action{Type: engine.ActionRollDice, TwoDice: turn%2 == 0}); err != nil {
			t.Fatalf("roll: %v", err)
		}
		for _, q := range g.Players() {
			if g.Economy.Balance(q) < 0 {
				t.Fatalf("turn %d: %s balance %d", turn, q, g.Economy.Balance(q))
			}
		}
		if _, err := g.Apply(p, engine.Action{Type: engine.ActionEndTurn}); err != nil {
			t.Fatalf("end turn: %v", err)
		}
	}
}

func TestRedEffectsChargeTheRoller(t *testing.T) {
	tests := []struct {
		kind      engine.Kind
		sum       int
		wantHost  int
		wantEnemy int
	}{
		{engine.KindEBankOffice, 7, 11, 9},
		{engine.KindCasino, 9, 13, 7},
		{engine.KindDevastationSphere, 10, 18, 2},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			g := newTestGame(t, 2)
			place(t, g, tt.kind, engine.PlayerHost)

			// host is current; enemy1's roll is resolved directly
			g.ResolveDiceOutcome(engine.PlayerEnemy1, tt.sum, false)

			if h := g.Economy.Balance(engine.PlayerHost); h != tt.wantHost {
				t.Errorf("host = %d, want %d", h, tt.wantHost)
			}
			if e := g.Economy.Balance(engine.PlayerEnemy1); e != tt.wantEnemy {
				t.Errorf("enemy1 = %d, want %d", e, tt.wantEnemy)
			}
			if g.Roller() != engine.PlayerHost {
				t.Errorf("roller after resolution = %s, want host", g.Roller())
			}
		})
	}
}

func TestStepsForAnOffTurnRollerAreBanked(t *testing.T) {
	g := newTestGame(t, 2)
	cc := place(t, g, engine.KindControlCenter, engine.PlayerHost)
	cc.Enabled = true
	place(t, g, engine.KindQueenBurger, engine.PlayerEnemy1)

	// a full round so every building binds its hooks
	for range 2 {
		if err := g.AdvanceTurn(); err != nil {
			t.Fatal(err)
		}
	}
	if g.CurrentPlayer() != engine.PlayerHost {
		t.Fatalf("current = %s, want host", g.CurrentPlayer())
	}

	g.ResolveDiceOutcome(engine.PlayerEnemy1, 1, false)
	if g.Turns.Remaining() != 2 {
		t.Fatalf("host budget = %d, want 2", g.Turns.Remaining())
	}
	if g.BankedSteps(engine.PlayerEnemy1) != 1 {
		t.Fatalf("banked = %d, want 1", g.BankedSteps(engine.PlayerEnemy1))
	}
	if e := g.Economy.Balance(engine.PlayerEnemy1); e != 11 {
		t.Fatalf("enemy1 = %d, want 11", e)
	}

	if err := g.AdvanceTurn(); err != nil {
		t.Fatal(err)
	}
	if g.CurrentPlayer() != engine.PlayerEnemy1 || g.Turns.Remaining() != 3 {
		t.Fatalf("%s has %d steps, want enemy1 with 3", g.CurrentPlayer(), g.Turns.Remaining())
	}
	if g.BankedSteps(engine.PlayerEnemy1) != 0 {
		t.Fatal("banked steps not cleared")
	}
}
