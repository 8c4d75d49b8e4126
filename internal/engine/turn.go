package engine

import "slices"

// TurnRecord is what remained of a finished turn.
type TurnRecord struct {
	Player    PlayerID `json:"player"`
	Remaining int      `json:"remaining"`
	Consumed  int      `json:"consumed"`
}

// TurnScheduler keeps the round-robin order and the current player's
// action budget.
type TurnScheduler struct {
	order     []PlayerID
	current   int
	maxSteps  int
	remaining int
	consumed  int
	rolled    bool
	turn      int
	previous  TurnRecord
}

func NewTurnScheduler(players []PlayerID, maxSteps int) *TurnScheduler {
	return &TurnScheduler{
		order:    slices.Clone(players),
		maxSteps: maxSteps,
		previous: TurnRecord{Player: PlayerNone},
	}
}

// begin opens the first turn for the first seat.
func (t *TurnScheduler) begin() {
	t.current = 0
	t.turn = 1
	t.reset()
}

// advance closes the current turn and hands off to the next seat.
func (t *TurnScheduler) advance() {
	t.previous = TurnRecord{
		Player:    t.Current(),
		Remaining: t.remaining,
		Consumed:  t.consumed,
	}
	if len(t.order) > 0 {
		t.current = (t.current + 1) % len(t.order)
	}
	t.turn++
	t.reset()
}

func (t *TurnScheduler) reset() {
	t.remaining = t.maxSteps
	t.consumed = 0
	t.rolled = false
}

// Current returns the player whose turn it is.
func (t *TurnScheduler) Current() PlayerID {
	if len(t.order) == 0 {
		return PlayerNone
	}
	return t.order[t.current]
}

// Order returns the remaining seats in turn order.
func (t *TurnScheduler) Order() []PlayerID {
	return slices.Clone(t.order)
}

// Remove takes a player out of the rotation. If it was their turn, the next
// seat becomes current without resetting the budget.
func (t *TurnScheduler) Remove(p PlayerID) bool {
	i := slices.Index(t.order, p)
	if i < 0 {
		return false
	}
	t.order = slices.Delete(t.order, i, i+1)
	switch {
	case len(t.order) == 0:
		t.current = 0
	case i < t.current:
		t.current--
	case t.current >= len(t.order):
		t.current = 0
	}
	return true
}

func (t *TurnScheduler) Turn() int            { return t.turn }
func (t *TurnScheduler) MaxSteps() int        { return t.maxSteps }
func (t *TurnScheduler) Remaining() int       { return t.remaining }
func (t *TurnScheduler) Consumed() int        { return t.consumed }
func (t *TurnScheduler) Rolled() bool         { return t.rolled }
func (t *TurnScheduler) Previous() TurnRecord { return t.previous }

func (t *TurnScheduler) markRolled() {
	t.rolled = true
}

// CanAct reports whether the current player has rolled and still has budget.
func (t *TurnScheduler) CanAct() bool {
	return t.rolled && t.remaining > 0
}

// ConsumeAction spends one step. It does nothing and reports false when
// CanAct is false.
func (t *TurnScheduler) ConsumeAction() bool {
	if !t.CanAct() {
		return false
	}
	t.remaining--
	t.consumed++
	return true
}

// GrantExtraSteps adds n steps to the current budget.
func (t *TurnScheduler) GrantExtraSteps(n int) {
	if n > 0 {
		t.remaining += n
	}
}
