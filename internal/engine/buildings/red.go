package buildings

import "diceville/internal/engine"

// tollEffect makes the roller pay the owner a fixed amount.
type tollEffect struct {
	amount int
}

func toll(amount int) engine.Factory {
	return func() engine.Effect { return tollEffect{amount: amount} }
}

func (e tollEffect) Income(*engine.Game, *engine.Building) int { return e.amount }

func (e tollEffect) Apply(g *engine.Game, b *engine.Building) {
	g.Transfer(g.Roller(), b.Owner, e.amount)
}

// casino charges 3 per multiplier level; each double roll that hits it
// raises the level for good.
type casino struct {
	multiplier int
}

func newCasino() engine.Effect {
	return &casino{multiplier: 1}
}

func (c *casino) Income(*engine.Game, *engine.Building) int { return 3 * c.multiplier }

func (c *casino) Apply(g *engine.Game, b *engine.Building) {
	g.Transfer(g.Roller(), b.Owner, 3*c.multiplier)
	if g.DoubleRoll() {
		c.multiplier++
	}
}

// devastation charges the roller one per free tile they own.
type devastation struct{}

func newDevastation() engine.Effect {
	return devastation{}
}

func (devastation) Income(g *engine.Game, _ *engine.Building) int {
	return len(g.AvailableTiles(g.Roller()))
}

func (d devastation) Apply(g *engine.Game, b *engine.Building) {
	g.Transfer(g.Roller(), b.Owner, d.Income(g, b))
}
