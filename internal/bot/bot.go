package bot

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"diceville/internal/engine"
	"diceville/internal/logger"
)

// Bot plays one seat. It only talks to the game through Game.Apply, the
// same entry point remote players use, so it cannot bend the rules.
type Bot struct {
	Player   engine.PlayerID
	Strategy Strategy

	rng *rand.Rand
	log *logrus.Entry
}

// New creates a bot whose random choices are fixed by seed.
func New(player engine.PlayerID, strategy Strategy, seed uint64) *Bot {
	return &Bot{
		Player:   player,
		Strategy: strategy,
		rng:      rand.New(rand.NewPCG(seed, uint64(player)+1)),
		log: logger.Log.WithFields(logrus.Fields{
			"player":   player.String(),
			"strategy": strategy.String(),
		}),
	}
}

// PlayTurn rolls one die, spends actions while the strategy finds one that
// succeeds, then ends the turn. It returns every event of the turn.
func (b *Bot) PlayTurn(g *engine.Game) ([]engine.Event, error) {
	if g.CurrentPlayer() != b.Player {
		return nil, engine.ErrNotYourTurn
	}
	events, err := g.Apply(b.Player, engine.Action{Type: engine.ActionRollDice})
	if err != nil {
		return nil, fmt.Errorf("roll: %w", err)
	}

	actions := 0
	for g.CanAct() {
		ev, ok := b.act(g, actions)
		if !ok {
			break
		}
		events = append(events, ev...)
		actions++
	}
	if g.IsGameOver() {
		return events, nil
	}

	ev, err := g.Apply(b.Player, engine.Action{Type: engine.ActionEndTurn})
	if err != nil {
		return events, fmt.Errorf("end turn: %w", err)
	}
	b.log.WithFields(logrus.Fields{
		"actions": actions,
		"money":   g.Economy.Balance(b.Player),
		"floors":  g.ActivatedFloorCount(b.Player),
	}).Debug("turn played")
	return append(events, ev...), nil
}

// attempt tries one kind of action and reports whether the game took it.
type attempt func(g *engine.Game) ([]engine.Event, bool)

func (b *Bot) act(g *engine.Game, n int) ([]engine.Event, bool) {
	switch b.Strategy {
	case StrategyMaxIncome:
		return first(g, b.buildBest, b.buyFloor, b.buyTile)
	case StrategyFloorOnly:
		return b.buyFloor(g)
	case StrategyRandom:
		tries := []attempt{b.buyFloor, b.build, b.buyTile, b.replaceCard}
		b.rng.Shuffle(len(tries), func(i, j int) { tries[i], tries[j] = tries[j], tries[i] })
		return first(g, tries...)
	case StrategyFloorFirst:
		if n == 0 {
			return b.buyFloor(g)
		}
		return first(g, b.build, b.buyTile)
	case StrategyBuildFirst:
		if n == 0 {
			return first(g, b.build, b.buyTile)
		}
		return first(g, b.buyFloor, b.buyTile)
	}
	return nil, false
}

func first(g *engine.Game, tries ...attempt) ([]engine.Event, bool) {
	for _, try := range tries {
		if ev, ok := try(g); ok {
			return ev, true
		}
	}
	return nil, false
}

func (b *Bot) apply(g *engine.Game, a engine.Action) ([]engine.Event, bool) {
	ev, err := g.Apply(b.Player, a)
	if err != nil {
		b.log.WithError(err).WithField("action", a.Type).Debug("action refused")
		return nil, false
	}
	return ev, true
}

func (b *Bot) buyFloor(g *engine.Game) ([]engine.Event, bool) {
	hq := g.Headquarters(b.Player)
	if hq == nil {
		return nil, false
	}
	money := g.Economy.Balance(b.Player)
	var floors []engine.FloorID
	for _, f := range hq.Floors() {
		if !f.Active && f.Price <= money {
			floors = append(floors, f.ID)
		}
	}
	if len(floors) == 0 {
		return nil, false
	}
	return b.apply(g, engine.Action{Type: engine.ActionBuyFloor, Floor: floors[b.rng.IntN(len(floors))]})
}

// candidate is an affordable card with the free tiles it fits on.
type candidate struct {
	slot  int
	kind  engine.Kind
	tiles []*engine.Tile
}

func (b *Bot) candidates(g *engine.Game) []candidate {
	hand := g.Hand(b.Player)
	free := g.AvailableTiles(b.Player)
	if hand == nil || len(free) == 0 {
		return nil
	}
	money := g.Economy.Balance(b.Player)
	var out []candidate
	for slot, k := range hand.Slots() {
		if k == engine.NoCard {
			continue
		}
		def, err := g.Catalog.Definition(k)
		if err != nil || def.Price > money {
			continue
		}
		var tiles []*engine.Tile
		for _, t := range free {
			if def.Surface.Accepts(t.Surface) {
				tiles = append(tiles, t)
			}
		}
		if len(tiles) > 0 {
			out = append(out, candidate{slot: slot, kind: k, tiles: tiles})
		}
	}
	return out
}

func (b *Bot) buildOn(g *engine.Game, c candidate) ([]engine.Event, bool) {
	t := c.tiles[b.rng.IntN(len(c.tiles))]
	return b.apply(g, engine.Action{Type: engine.ActionBuild, Slot: c.slot, X: t.Pos.X, Y: t.Pos.Y})
}

func (b *Bot) build(g *engine.Game) ([]engine.Event, bool) {
	cs := b.candidates(g)
	if len(cs) == 0 {
		return nil, false
	}
	return b.buildOn(g, cs[b.rng.IntN(len(cs))])
}

// buildBest builds the card with the highest expected payout, if that
// payout is above 3.
func (b *Bot) buildBest(g *engine.Game) ([]engine.Event, bool) {
	var best candidate
	bestIncome := 3
	for _, c := range b.candidates(g) {
		if income := g.CardIncome(b.Player, c.kind); income > bestIncome {
			best, bestIncome = c, income
		}
	}
	if best.tiles == nil {
		return nil, false
	}
	return b.buildOn(g, best)
}

func (b *Bot) buyTile(g *engine.Game) ([]engine.Event, bool) {
	positions := g.Board.Purchasable(b.Player)
	if len(positions) == 0 || g.Economy.Balance(b.Player) < g.TileCost(b.Player) {
		return nil, false
	}
	pos := positions[b.rng.IntN(len(positions))]
	return b.apply(g, engine.Action{Type: engine.ActionBuyTile, X: pos.X, Y: pos.Y})
}

func (b *Bot) replaceCard(g *engine.Game) ([]engine.Event, bool) {
	hand := g.Hand(b.Player)
	if hand == nil || hand.Replacements() == 0 {
		return nil, false
	}
	slot := b.rng.IntN(hand.Size())
	if _, ok := hand.Card(slot); !ok {
		return nil, false
	}
	return b.apply(g, engine.Action{Type: engine.ActionReplaceCard, Slot: slot})
}
