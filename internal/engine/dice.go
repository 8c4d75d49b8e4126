package engine

// DiceSource is the randomness behind every roll. *rand.Rand satisfies it.
type DiceSource interface {
	IntN(n int) int
}

// Roll is one dice outcome.
type Roll struct {
	Values []int `json:"values"`
	Sum    int   `json:"sum"`
	Double bool  `json:"double"`
}

// DiceResolver turns a DiceSource into rolls of one or two six-sided dice.
type DiceResolver struct {
	src DiceSource
}

func NewDiceResolver(src DiceSource) *DiceResolver {
	return &DiceResolver{src: src}
}

func (d *DiceResolver) die() int {
	return d.src.IntN(6) + 1
}

// Roll throws one die, or two when twoDice is set. Double marks a two-die
// roll, not matching faces.
func (d *DiceResolver) Roll(twoDice bool) Roll {
	if !twoDice {
		v := d.die()
		return Roll{Values: []int{v}, Sum: v}
	}
	a, b := d.die(), d.die()
	return Roll{Values: []int{a, b}, Sum: a + b, Double: true}
}
