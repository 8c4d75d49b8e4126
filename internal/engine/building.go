package engine

import (
	"fmt"
	"slices"
)

// Definition holds the static attributes of a building variant.
type Definition struct {
	Kind     Kind
	Category Category
	MinDice  int
	MaxDice  int
	Surface  Surface
	Emblem   Emblem
	Price    int

	// Enableable variants switch on for good the first time their effect runs.
	Enableable bool
}

// Covers reports whether a rolled sum falls in the building's dice range.
func (d Definition) Covers(sum int) bool {
	return d.MinDice <= sum && sum <= d.MaxDice
}

// Effect is the behaviour of one building variant. Every building instance
// gets its own Effect value, so variants may keep per-instance state.
type Effect interface {
	// Income previews what Apply would pay out now. It must not mutate state.
	Income(g *Game, b *Building) int
	// Apply runs the effect during dice resolution.
	Apply(g *Game, b *Building)
}

// DiceRollReactor is armed at turn start and called with the roll outcome
// before any category fires. It may only act by enqueueing deferred work.
type DiceRollReactor interface {
	OnDiceRoll(g *Game, b *Building, roller PlayerID, sum int)
}

// NextMoveInvoker is called at the start of every turn.
type NextMoveInvoker interface {
	InvokeNextMove(g *Game, b *Building)
}

// EffectHookBinder subscribes to building-effect notifications at the start
// of every turn. The subscription lasts until the next turn starts.
type EffectHookBinder interface {
	BindEffectHook(g *Game, b *Building)
}

// Building is a placed (or placeable) instance of a variant. Owner and
// position are set once by BuildOnTile and never change.
type Building struct {
	Definition
	ID      int
	Owner   PlayerID
	Pos     Position
	Enabled bool

	effect Effect
}

// Income previews the payoff of this building for the current roll state.
func (b *Building) Income(g *Game) int {
	if b.effect == nil {
		return 0
	}
	return b.effect.Income(g, b)
}

// Effect returns the variant behaviour attached to the building.
func (b *Building) Effect() Effect {
	return b.effect
}

// Placed reports whether the building has an owner on the board.
func (b *Building) Placed() bool {
	return b.Owner != PlayerNone
}

func (b *Building) String() string {
	return b.Kind.String()
}

// Factory creates a fresh Effect for a new building instance.
type Factory func() Effect

type catalogEntry struct {
	def     Definition
	factory Factory
}

// Catalog is the closed set of buildable variants.
type Catalog struct {
	entries map[Kind]catalogEntry
}

func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[Kind]catalogEntry)}
}

// Register adds a variant. Registering a kind twice replaces it.
func (c *Catalog) Register(def Definition, factory Factory) {
	c.entries[def.Kind] = catalogEntry{def: def, factory: factory}
}

// Definition returns the static attributes of a kind.
func (c *Catalog) Definition(k Kind) (Definition, error) {
	e, ok := c.entries[k]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %d", ErrUnknownBuilding, k)
	}
	return e.def, nil
}

// New creates an unplaced building of the given kind. Unknown kinds fail;
// there is no fallback variant.
func (c *Catalog) New(k Kind) (*Building, error) {
	e, ok := c.entries[k]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBuilding, k)
	}
	return &Building{
		Definition: e.def,
		ID:         -1,
		Owner:      PlayerNone,
		effect:     e.factory(),
	}, nil
}

// Kinds returns every registered kind in ascending order.
func (c *Catalog) Kinds() []Kind {
	kinds := make([]Kind, 0, len(c.entries))
	for k := range c.entries {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

func (c *Catalog) Len() int {
	return len(c.entries)
}
