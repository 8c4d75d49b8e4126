package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/sirupsen/logrus"

	"diceville/internal/logger"
)

var (
	ErrNotYourTurn     = errors.New("not your turn")
	ErrGameOver        = errors.New("game is over")
	ErrWrongPhase      = errors.New("wrong phase for this action")
	ErrAlreadyRolled   = errors.New("already rolled this turn")
	ErrNotRolled       = errors.New("dice not rolled yet")
	ErrNoActionsLeft   = errors.New("no actions left this turn")
	ErrNotEnoughMoney  = errors.New("not enough money")
	ErrFloorActive     = errors.New("floor already active")
	ErrUnknownFloor    = errors.New("unknown floor")
	ErrUnknownBuilding = errors.New("unknown building")
	ErrTileOccupied    = errors.New("tile occupied")
	ErrWrongSurface    = errors.New("wrong surface for building")
	ErrTileNotOwned    = errors.New("tile not owned")
	ErrTileNotAdjacent = errors.New("tile not adjacent to owned land")
	ErrInvalidAction   = errors.New("invalid action")
	ErrEmptySlot       = errors.New("empty hand slot")
	ErrNoReplacements  = errors.New("no card replacements left")
	ErrInvalidPlayers  = errors.New("invalid number of players")
	ErrPlayerNotFound  = errors.New("player not found")
)

// Game holds the entire game state. It is not safe for concurrent use;
// hosts serialize every call per game.
type Game struct {
	Config  GameConfig
	Catalog *Catalog
	Economy *Economy
	Bus     *EffectBus
	Turns   *TurnScheduler
	Dice    *DiceResolver
	Board   *Board

	Phase    GamePhase
	LastRoll *Roll

	players   []PlayerID
	hqs       map[PlayerID]*Headquarters
	hands     map[PlayerID]*Hand
	buildings []*Building
	rng       *rand.Rand
	double    bool
	roller    PlayerID // set while a roll is being resolved
	winner    PlayerID
	started   bool // turn-start hooks ran for the current turn
	events    []Event
	log       *logrus.Entry

	// steps granted to a roller outside their own turn, added at their
	// next turn start
	bankedSteps map[PlayerID]int
}

// NewGame creates a game for numPlayers seats. The board, start areas and
// headquarters are laid out from config.Seed; the first turn begins with Start.
func NewGame(numPlayers int, config GameConfig, catalog *Catalog) (*Game, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	seats, err := Seats(numPlayers)
	if err != nil {
		return nil, err
	}
	if catalog == nil || catalog.Len() == 0 {
		return nil, fmt.Errorf("%w: empty catalog", ErrUnknownBuilding)
	}

	rng := rand.New(rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15))
	g := &Game{
		Config:  config,
		Catalog: catalog,
		Economy: NewEconomy(seats, config.StartingMoney),
		Bus:     NewEffectBus(),
		Turns:   NewTurnScheduler(seats, config.StepsPerTurn),
		Dice:    NewDiceResolver(rng),
		Board:   NewBoard(config.MapWidth, config.MapHeight, rng),
		Phase:   PhaseSetup,
		players: seats,
		hqs:     make(map[PlayerID]*Headquarters, len(seats)),
		hands:   make(map[PlayerID]*Hand, len(seats)),
		rng:     rng,
		roller:  PlayerNone,
		winner:  PlayerNone,
		log:     logger.Log.WithField("seed", config.Seed),
	}

	for _, p := range seats {
		center := g.Board.claimStartArea(p, config.StartAreaSize)
		hq := newHeadquarters(p, config.floorPrices())
		hq.Building.Pos = center
		g.Board.Tile(center).Building = hq.Building
		g.hqs[p] = hq
		g.hands[p] = NewHand(config.HandSize, config.CardReplacements)
	}
	return g, nil
}

// Start opens the first turn for the first seat.
func (g *Game) Start() ([]Event, error) {
	if g.Phase != PhaseSetup {
		return nil, ErrWrongPhase
	}
	g.Turns.begin()
	g.Phase = PhaseRoll
	g.log.WithField("players", len(g.players)).Info("game started")
	g.ResolveTurnStart()
	return g.TakeEvents(), nil
}

// ResolveTurnStart runs the turn-start lifecycle for the current player:
// hand refill, re-arming of turn-scoped hooks, next-move invocations and
// the next-turn callbacks. Start and AdvanceTurn call it; further calls in
// the same turn do nothing.
func (g *Game) ResolveTurnStart() {
	if g.started || g.Phase != PhaseRoll {
		return
	}
	g.started = true
	p := g.Turns.Current()
	hq := g.hqs[p]

	g.hands[p].Refill(g.Catalog.Kinds(), g.rng)
	if n := g.bankedSteps[p]; n > 0 {
		delete(g.bankedSteps, p)
		g.Turns.GrantExtraSteps(n)
	}
	g.emit(EventTurnStart, p, map[string]any{
		"turn":     g.Turns.Turn(),
		"steps":    g.Turns.Remaining(),
		"previous": g.Turns.Previous(),
	})

	g.Bus.resetTurnScoped()
	for _, f := range hq.Floors() {
		if r, ok := f.effect.(floorDiceReactor); ok && f.Active {
			g.Bus.RegisterDiceRollHook(func(g *Game, roller PlayerID, sum int) {
				r.onDiceRoll(g, f, roller, sum)
			})
		}
	}
	for _, b := range g.buildings {
		if r, ok := b.effect.(DiceRollReactor); ok {
			g.Bus.RegisterDiceRollHook(func(g *Game, roller PlayerID, sum int) {
				r.OnDiceRoll(g, b, roller, sum)
			})
		}
	}

	for _, b := range g.buildings {
		if inv, ok := b.effect.(NextMoveInvoker); ok {
			inv.InvokeNextMove(g, b)
		}
		if hb, ok := b.effect.(EffectHookBinder); ok {
			hb.BindEffectHook(g, b)
		}
	}
	for _, f := range hq.Floors() {
		if inv, ok := f.effect.(floorInvoker); ok && f.Active {
			inv.invokeNextMove(g, f)
		}
	}

	if n := g.Bus.fireNextTurn(g); n > 0 {
		g.emit(EventHookFired, p, map[string]any{"hook": "next_turn", "count": n})
	}
}

// AdvanceTurn hands the turn to the next seat with a fresh budget and runs
// the turn-start lifecycle.
func (g *Game) AdvanceTurn() error {
	switch g.Phase {
	case PhaseGameOver:
		return ErrGameOver
	case PhaseSetup:
		return ErrWrongPhase
	}
	prev := g.Turns.Current()
	g.Turns.advance()
	g.Phase = PhaseRoll
	g.LastRoll = nil
	g.double = false
	g.started = false
	g.log.WithFields(logrus.Fields{
		"turn":   g.Turns.Turn(),
		"from":   prev.String(),
		"player": g.Turns.Current().String(),
	}).Debug("turn handed off")
	g.ResolveTurnStart()
	return nil
}

// RollDice rolls for the current player and resolves the outcome.
func (g *Game) RollDice(twoDice bool) (Roll, error) {
	switch g.Phase {
	case PhaseGameOver:
		return Roll{}, ErrGameOver
	case PhaseSetup:
		return Roll{}, ErrWrongPhase
	}
	if g.Turns.Rolled() {
		return Roll{}, ErrAlreadyRolled
	}
	roller := g.Turns.Current()
	roll := g.Dice.Roll(twoDice)
	g.Turns.markRolled()
	g.LastRoll = &roll
	g.emit(EventDiceRolled, roller, map[string]any{
		"values": roll.Values, "sum": roll.Sum, "double": roll.Double,
	})
	g.ResolveDiceOutcome(roller, roll.Sum, roll.Double)
	if g.Phase != PhaseGameOver {
		g.Phase = PhaseActions
	}
	return roll, nil
}

// DoubleRoll reports whether the roll being resolved used two dice.
func (g *Game) DoubleRoll() bool {
	return g.double
}

// CurrentPlayer returns whose turn it is.
func (g *Game) CurrentPlayer() PlayerID {
	return g.Turns.Current()
}

// CanAct reports whether the current player may spend an action.
func (g *Game) CanAct() bool {
	return g.Phase != PhaseGameOver && g.Turns.CanAct()
}

// ConsumeAction spends one step of the current budget; false means it was
// not possible and nothing changed.
func (g *Game) ConsumeAction() bool {
	if g.Phase == PhaseGameOver {
		return false
	}
	return g.Turns.ConsumeAction()
}

// Roller returns the player whose roll is being resolved. Outside dice
// resolution it is the current player.
func (g *Game) Roller() PlayerID {
	if g.roller != PlayerNone {
		return g.roller
	}
	return g.Turns.Current()
}

// GrantExtraSteps extends the roller's budget. A roller who is not the
// current player gets the steps at the start of their next turn.
func (g *Game) GrantExtraSteps(n int) {
	if n <= 0 {
		return
	}
	p := g.Roller()
	if p != g.Turns.Current() {
		if g.bankedSteps == nil {
			g.bankedSteps = make(map[PlayerID]int)
		}
		g.bankedSteps[p] += n
		g.emit(EventStepsGranted, p, map[string]any{"steps": n, "banked": g.bankedSteps[p]})
		return
	}
	g.Turns.GrantExtraSteps(n)
	g.emit(EventStepsGranted, p, map[string]any{
		"steps": n, "remaining": g.Turns.Remaining(),
	})
}

// BankedSteps returns the steps p will receive at their next turn start.
func (g *Game) BankedSteps(p PlayerID) int {
	return g.bankedSteps[p]
}

// Earn pays amount from the bank, or charges it when negative. The balance
// is clamped at zero; the applied change is returned.
func (g *Game) Earn(p PlayerID, amount int) int {
	delta := g.Economy.Earn(p, amount)
	if delta != 0 {
		g.emit(EventMoneyChanged, p, map[string]any{"delta": delta, "balance": g.Economy.Balance(p)})
	}
	return delta
}

// Transfer moves money between players. The payer is clamped at zero and
// the payee receives only what was actually paid.
func (g *Game) Transfer(from, to PlayerID, amount int) int {
	moved := g.Economy.Transfer(from, to, amount)
	if moved > 0 {
		g.emit(EventMoneyChanged, from, map[string]any{
			"delta": -moved, "balance": g.Economy.Balance(from), "to": to.String(),
		})
		g.emit(EventMoneyChanged, to, map[string]any{
			"delta": moved, "balance": g.Economy.Balance(to), "from": from.String(),
		})
	}
	return moved
}

func (g *Game) spend(p PlayerID, amount int) error {
	if !g.Economy.Spend(p, amount) {
		return ErrNotEnoughMoney
	}
	if amount > 0 {
		g.emit(EventMoneyChanged, p, map[string]any{"delta": -amount, "balance": g.Economy.Balance(p)})
	}
	return nil
}

// EnqueueDeferredEffect parks d on the owner's headquarters queue.
func (g *Game) EnqueueDeferredEffect(owner PlayerID, d Deferred) {
	hq := g.hqs[owner]
	if hq == nil {
		return
	}
	hq.Enqueue(d)
	g.emit(EventDeferredEnqueued, owner, map[string]any{"entry": d.String(), "queued": len(hq.queue)})
}

// PurchaseFloor debits a floor's price and activates it. Activating the
// last floor ends the game with p as winner.
func (g *Game) PurchaseFloor(p PlayerID, id FloorID) error {
	if g.Phase == PhaseGameOver {
		return ErrGameOver
	}
	hq := g.hqs[p]
	if hq == nil {
		return ErrPlayerNotFound
	}
	f, err := hq.Floor(id)
	if err != nil {
		return err
	}
	if f.Active {
		return ErrFloorActive
	}
	if err := g.spend(p, f.Price); err != nil {
		return err
	}
	f.Active = true
	g.emit(EventFloorActivated, p, map[string]any{
		"floor": id.String(), "price": f.Price, "active": hq.ActivatedCount(),
	})
	g.log.WithFields(logrus.Fields{
		"player": p.String(), "floor": id.String(), "turn": g.Turns.Turn(),
	}).Debug("floor activated")

	if hq.Complete() {
		g.finish(p)
	}
	return nil
}

func (g *Game) finish(winner PlayerID) {
	g.Phase = PhaseGameOver
	g.winner = winner
	g.emit(EventGameOver, winner, map[string]any{
		"winner": winner.String(), "turn": g.Turns.Turn(), "balances": g.balances(),
	})
	g.log.WithFields(logrus.Fields{
		"player": winner.String(), "turn": g.Turns.Turn(),
	}).Info("game over")
}

// BuildOnTile places an unplaced building on one of p's free tiles and
// debits its price.
func (g *Game) BuildOnTile(b *Building, pos Position, p PlayerID) error {
	if g.Phase == PhaseGameOver {
		return ErrGameOver
	}
	if b == nil || b.Placed() || b.Kind == KindHeadquarters {
		return fmt.Errorf("%w: building not placeable", ErrInvalidAction)
	}
	if g.hqs[p] == nil {
		return ErrPlayerNotFound
	}
	t := g.Board.Tile(pos)
	if t == nil {
		return fmt.Errorf("%w: tile %s off board", ErrInvalidAction, pos)
	}
	if t.Owner != p {
		return ErrTileNotOwned
	}
	if !t.Free() {
		return ErrTileOccupied
	}
	if !b.Surface.Accepts(t.Surface) {
		return ErrWrongSurface
	}
	if err := g.spend(p, b.Price); err != nil {
		return err
	}
	b.Owner = p
	b.Pos = pos
	b.ID = len(g.buildings)
	t.Building = b
	g.buildings = append(g.buildings, b)
	g.emit(EventBuildingBuilt, p, map[string]any{
		"building": b.Kind.String(), "id": b.ID, "x": pos.X, "y": pos.Y, "price": b.Price,
	})
	return nil
}

// BuyTile buys an unowned tile next to p's land. The price is p's active
// floor count.
func (g *Game) BuyTile(p PlayerID, pos Position) error {
	if g.Phase == PhaseGameOver {
		return ErrGameOver
	}
	if g.hqs[p] == nil {
		return ErrPlayerNotFound
	}
	t, err := g.Board.checkPurchase(p, pos)
	if err != nil {
		return err
	}
	cost := g.TileCost(p)
	if err := g.spend(p, cost); err != nil {
		return err
	}
	t.Owner = p
	g.emit(EventTileBought, p, map[string]any{
		"x": pos.X, "y": pos.Y, "surface": t.Surface.String(), "cost": cost,
	})
	return nil
}

// ReplaceCard redraws one hand slot.
func (g *Game) ReplaceCard(p PlayerID, slot int) (Kind, error) {
	h := g.hands[p]
	if h == nil {
		return NoCard, ErrPlayerNotFound
	}
	old, _ := h.Card(slot)
	k, err := h.Replace(slot, g.Catalog.Kinds(), g.rng)
	if err != nil {
		return NoCard, err
	}
	g.emit(EventCardReplaced, p, map[string]any{
		"slot": slot, "old": old.String(), "new": k.String(), "left": h.Replacements(),
	})
	return k, nil
}

// Apply is the single entry point for player actions.
func (g *Game) Apply(player PlayerID, action Action) ([]Event, error) {
	switch g.Phase {
	case PhaseGameOver:
		return nil, ErrGameOver
	case PhaseSetup:
		return nil, ErrWrongPhase
	}
	if player != g.Turns.Current() {
		return nil, ErrNotYourTurn
	}

	var err error
	switch action.Type {
	case ActionRollDice:
		_, err = g.RollDice(action.TwoDice)
	case ActionBuild:
		err = g.applyBuild(player, action)
	case ActionBuyTile:
		err = g.applyAction(func() error {
			return g.BuyTile(player, Position{X: action.X, Y: action.Y})
		})
	case ActionBuyFloor:
		err = g.applyAction(func() error {
			return g.PurchaseFloor(player, action.Floor)
		})
	case ActionReplaceCard:
		err = g.applyAction(func() error {
			_, err := g.ReplaceCard(player, action.Slot)
			return err
		})
	case ActionEndTurn:
		if !g.Turns.Rolled() {
			return nil, ErrNotRolled
		}
		err = g.AdvanceTurn()
	default:
		return nil, ErrInvalidAction
	}
	if err != nil {
		return nil, err
	}
	return g.TakeEvents(), nil
}

func (g *Game) requireAction() error {
	if !g.Turns.Rolled() {
		return ErrNotRolled
	}
	if !g.Turns.CanAct() {
		return ErrNoActionsLeft
	}
	return nil
}

// applyAction runs fn as one budgeted action.
func (g *Game) applyAction(fn func() error) error {
	if err := g.requireAction(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	g.Turns.ConsumeAction()
	return nil
}

func (g *Game) applyBuild(player PlayerID, action Action) error {
	return g.applyAction(func() error {
		hand := g.hands[player]
		kind, err := hand.Use(action.Slot)
		if err != nil {
			return err
		}
		b, err := g.Catalog.New(kind)
		if err != nil {
			hand.Return(action.Slot, kind)
			return err
		}
		if err := g.BuildOnTile(b, Position{X: action.X, Y: action.Y}, player); err != nil {
			hand.Return(action.Slot, kind)
			return err
		}
		return nil
	})
}

// Players returns the seats in the game.
func (g *Game) Players() []PlayerID {
	return slices.Clone(g.players)
}

// Headquarters returns p's headquarters, or nil for an unknown player.
func (g *Game) Headquarters(p PlayerID) *Headquarters {
	return g.hqs[p]
}

// Hand returns p's hand, or nil for an unknown player.
func (g *Game) Hand(p PlayerID) *Hand {
	return g.hands[p]
}

// ActivatedFloorCount returns how many of p's floors are active.
func (g *Game) ActivatedFloorCount(p PlayerID) int {
	if hq := g.hqs[p]; hq != nil {
		return hq.ActivatedCount()
	}
	return 0
}

// TileCost is what p pays for the next tile.
func (g *Game) TileCost(p PlayerID) int {
	return g.ActivatedFloorCount(p)
}

func (g *Game) IsGameOver() bool {
	return g.Phase == PhaseGameOver
}

// Winner returns the player with every floor active, or PlayerNone.
func (g *Game) Winner() PlayerID {
	return g.winner
}

// PreviewIncome is what the front of p's headquarters queue would pay now.
func (g *Game) PreviewIncome(p PlayerID) int {
	if hq := g.hqs[p]; hq != nil {
		return hq.PreviewIncome(g)
	}
	return 0
}

// CardIncome estimates what a building of kind k would pay p if it stood
// on p's land now. Unknown kinds are worth nothing.
func (g *Game) CardIncome(p PlayerID, k Kind) int {
	b, err := g.Catalog.New(k)
	if err != nil {
		return 0
	}
	b.Owner = p
	return b.Income(g)
}

// Buildings returns every placed building in registration order.
func (g *Game) Buildings() []*Building {
	return slices.Clone(g.buildings)
}

// BuildingsOf returns p's buildings in registration order. The
// headquarters is not included.
func (g *Game) BuildingsOf(p PlayerID) []*Building {
	var out []*Building
	for _, b := range g.buildings {
		if b.Owner == p {
			out = append(out, b)
		}
	}
	return out
}

// OwnedTiles returns every tile p owns.
func (g *Game) OwnedTiles(p PlayerID) []*Tile {
	return g.Board.TilesOf(p)
}

// AvailableTiles returns p's tiles that can still take a building.
func (g *Game) AvailableTiles(p PlayerID) []*Tile {
	return g.Board.FreeTilesOf(p)
}

// OwnsAllSpheres reports whether p has built all four sphere variants.
func (g *Game) OwnsAllSpheres(p PlayerID) bool {
	owned := make(map[Kind]bool)
	for _, b := range g.BuildingsOf(p) {
		if b.Emblem == EmblemSphere {
			owned[b.Kind] = true
		}
	}
	for _, k := range SphereKinds() {
		if !owned[k] {
			return false
		}
	}
	return true
}

// RichestPlayers returns the players in rotation with the most active floors.
func (g *Game) RichestPlayers() []PlayerID {
	return g.extremeByFloors(func(a, b int) bool { return a > b })
}

// PoorestPlayers returns the players in rotation with the fewest active floors.
func (g *Game) PoorestPlayers() []PlayerID {
	return g.extremeByFloors(func(a, b int) bool { return a < b })
}

func (g *Game) extremeByFloors(better func(a, b int) bool) []PlayerID {
	var out []PlayerID
	best := 0
	for _, p := range g.Turns.Order() {
		n := g.ActivatedFloorCount(p)
		switch {
		case len(out) == 0 || better(n, best):
			out = []PlayerID{p}
			best = n
		case n == best:
			out = append(out, p)
		}
	}
	return out
}

func (g *Game) balances() map[string]int {
	out := make(map[string]int, len(g.players))
	for _, p := range g.players {
		out[p.String()] = g.Economy.Balance(p)
	}
	return out
}
