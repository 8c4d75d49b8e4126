package buildings

import "diceville/internal/engine"

// flatIncome pays the owner a fixed amount from the bank.
type flatIncome struct {
	amount int
}

func flat(amount int) engine.Factory {
	return func() engine.Effect { return flatIncome{amount: amount} }
}

func (e flatIncome) Income(*engine.Game, *engine.Building) int { return e.amount }

func (e flatIncome) Apply(g *engine.Game, b *engine.Building) {
	g.Earn(b.Owner, e.amount)
}

// tileIncome pays the owner one per owned tile of a surface.
type tileIncome struct {
	surface engine.Surface
}

func perTile(s engine.Surface) engine.Factory {
	return func() engine.Effect { return tileIncome{surface: s} }
}

func (e tileIncome) Income(g *engine.Game, b *engine.Building) int {
	return g.Board.SurfaceCount(b.Owner, e.surface)
}

func (e tileIncome) Apply(g *engine.Game, b *engine.Building) {
	g.Earn(b.Owner, e.Income(g, b))
}

// sphereIncome pays the income of every owned building with an emblem on a
// double roll, one building at a time, and 1 otherwise.
type sphereIncome struct {
	emblem engine.Emblem
}

func sphere(e engine.Emblem) engine.Factory {
	return func() engine.Effect { return sphereIncome{emblem: e} }
}

func (e sphereIncome) sources(g *engine.Game, b *engine.Building) []*engine.Building {
	var out []*engine.Building
	for _, o := range g.BuildingsOf(b.Owner) {
		if o.Emblem == e.emblem {
			out = append(out, o)
		}
	}
	return out
}

func (e sphereIncome) Income(g *engine.Game, b *engine.Building) int {
	if !g.DoubleRoll() {
		return 1
	}
	total := 0
	for _, o := range e.sources(g, b) {
		total += o.Income(g)
	}
	return total
}

func (e sphereIncome) Apply(g *engine.Game, b *engine.Building) {
	if !g.DoubleRoll() {
		g.Earn(b.Owner, 1)
		return
	}
	for _, o := range e.sources(g, b) {
		g.Earn(b.Owner, o.Income(g))
	}
}
