package engine

import "maps"

// Economy is the per-player money ledger. Balances never go below zero.
type Economy struct {
	balances map[PlayerID]int
}

func NewEconomy(players []PlayerID, start int) *Economy {
	e := &Economy{balances: make(map[PlayerID]int, len(players))}
	for _, p := range players {
		e.Set(p, start)
	}
	return e
}

// Balance returns the player's money. Unknown players have zero.
func (e *Economy) Balance(p PlayerID) int {
	return e.balances[p]
}

// Set overwrites a balance, clamped at zero.
func (e *Economy) Set(p PlayerID, amount int) {
	e.balances[p] = max(amount, 0)
}

// Earn adds amount (which may be negative) and returns the change that was
// actually applied after clamping.
func (e *Economy) Earn(p PlayerID, amount int) int {
	before := e.balances[p]
	e.Set(p, before+amount)
	return e.balances[p] - before
}

// Spend debits amount if the player can afford it. It reports false and
// leaves the balance alone otherwise.
func (e *Economy) Spend(p PlayerID, amount int) bool {
	if amount < 0 || e.balances[p] < amount {
		return false
	}
	e.balances[p] -= amount
	return true
}

// Transfer moves up to amount from one player to another. The source is
// clamped at zero and the destination is credited only with what the
// source actually paid. It returns the amount moved.
func (e *Economy) Transfer(from, to PlayerID, amount int) int {
	if amount <= 0 {
		return 0
	}
	moved := min(amount, e.balances[from])
	e.balances[from] -= moved
	e.balances[to] += moved
	return moved
}

// Snapshot returns a copy of every balance.
func (e *Economy) Snapshot() map[PlayerID]int {
	return maps.Clone(e.balances)
}
