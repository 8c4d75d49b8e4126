package engine

import (
	"fmt"
	"slices"
)

// FloorID is a slot on a headquarters, in purchase-independent order.
type FloorID int

const (
	FloorFirstEntry FloorID = iota
	FloorScience
	FloorInnovations
	FloorTrade
	FloorCommunication
	FloorExcitement
	FloorStrategic
)

// FloorCount is the number of floors; all of them active wins the game.
const FloorCount = 7

var floorNames = map[FloorID]string{
	FloorFirstEntry:    "FirstEntry",
	FloorScience:       "Science",
	FloorInnovations:   "Innovations",
	FloorTrade:         "Trade",
	FloorCommunication: "Communication",
	FloorExcitement:    "Excitement",
	FloorStrategic:     "Strategic",
}

func (f FloorID) String() string {
	if s, ok := floorNames[f]; ok {
		return s
	}
	return "Unknown"
}

// Deferred is work parked on a headquarters queue until the owner's next
// dice roll.
type Deferred interface {
	// Preview estimates what Run would pay now without mutating state.
	Preview(g *Game) int
	Run(g *Game)
	String() string
}

// floorEffect is the behaviour of one floor variant.
type floorEffect interface {
	preview(g *Game, f *Floor) int
	run(g *Game, f *Floor)
}

// floorDiceReactor floors are armed with the dice-roll hooks.
type floorDiceReactor interface {
	onDiceRoll(g *Game, f *Floor, roller PlayerID, sum int)
}

// floorInvoker floors are called at the start of their owner's turn.
type floorInvoker interface {
	invokeNextMove(g *Game, f *Floor)
}

// Floor is one level of a headquarters.
type Floor struct {
	ID     FloorID
	Price  int
	Owner  PlayerID
	Active bool

	effect floorEffect
}

func (f *Floor) Preview(g *Game) int { return f.effect.preview(g, f) }
func (f *Floor) Run(g *Game)         { f.effect.run(g, f) }
func (f *Floor) String() string      { return f.ID.String() }

// Headquarters is the per-player tower of floors plus its deferred queue.
type Headquarters struct {
	Owner    PlayerID
	Building *Building

	floors [FloorCount]*Floor
	queue  []Deferred
}

func newHeadquarters(owner PlayerID, prices [FloorCount]int) *Headquarters {
	h := &Headquarters{Owner: owner}
	for i := range h.floors {
		id := FloorID(i)
		h.floors[i] = &Floor{ID: id, Price: prices[i], Owner: owner, effect: newFloorEffect(id)}
	}
	h.floors[FloorFirstEntry].Active = true
	h.Building = &Building{
		Definition: Definition{Kind: KindHeadquarters, Category: CategoryHeadquarters, Surface: SurfaceAny},
		ID:         -1,
		Owner:      owner,
		Enabled:    true,
		effect:     headquartersEffect{h},
	}
	return h
}

func newFloorEffect(id FloorID) floorEffect {
	switch id {
	case FloorFirstEntry:
		return &firstEntryFloor{}
	case FloorCommunication:
		return communicationFloor{}
	case FloorStrategic:
		return strategicFloor{}
	default:
		return plainFloor{}
	}
}

// Floor returns a floor by id.
func (h *Headquarters) Floor(id FloorID) (*Floor, error) {
	if id < 0 || int(id) >= FloorCount {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFloor, id)
	}
	return h.floors[id], nil
}

// Floors returns the floors in slot order.
func (h *Headquarters) Floors() []*Floor {
	return h.floors[:]
}

// ActivatedCount returns how many floors are active.
func (h *Headquarters) ActivatedCount() int {
	n := 0
	for _, f := range h.floors {
		if f.Active {
			n++
		}
	}
	return n
}

// Complete reports whether every floor is active.
func (h *Headquarters) Complete() bool {
	return h.ActivatedCount() == FloorCount
}

// Enqueue appends deferred work to the back of the queue.
func (h *Headquarters) Enqueue(d Deferred) {
	h.queue = append(h.queue, d)
}

// Queue returns a copy of the pending entries, front first.
func (h *Headquarters) Queue() []Deferred {
	return slices.Clone(h.queue)
}

// Queued reports whether d is waiting in the queue.
func (h *Headquarters) Queued(d Deferred) bool {
	return slices.Contains(h.queue, d)
}

// PreviewIncome asks the front entry what it would pay.
func (h *Headquarters) PreviewIncome(g *Game) int {
	if len(h.queue) == 0 {
		return 0
	}
	return h.queue[0].Preview(g)
}

// advance pops and runs the front entry only. Later entries wait for the
// next roll even if they were due this turn.
func (h *Headquarters) advance(g *Game) (Deferred, bool) {
	if len(h.queue) == 0 {
		return nil, false
	}
	d := h.queue[0]
	h.queue = h.queue[1:]
	d.Run(g)
	return d, true
}

// headquartersEffect lets the headquarters building answer income queries
// like any other building.
type headquartersEffect struct {
	h *Headquarters
}

func (e headquartersEffect) Income(g *Game, _ *Building) int { return e.h.PreviewIncome(g) }
func (e headquartersEffect) Apply(g *Game, _ *Building)      { e.h.advance(g) }

type plainFloor struct{}

func (plainFloor) preview(*Game, *Floor) int { return 0 }
func (plainFloor) run(*Game, *Floor)         {}

// firstEntryFloor is a safety net: a broke roller whose roll pays them
// nothing gets 2 from the bank.
type firstEntryFloor struct {
	pending []*Building
}

func (e *firstEntryFloor) onDiceRoll(g *Game, f *Floor, roller PlayerID, sum int) {
	e.pending = g.BuildingsTriggeredBy(roller, sum)
	g.EnqueueDeferredEffect(f.Owner, f)
}

func (e *firstEntryFloor) qualifies(g *Game, f *Floor) bool {
	if g.Economy.Balance(f.Owner) != 0 {
		return false
	}
	if len(e.pending) == 0 {
		return true
	}
	// pending never holds a headquarters: those are not registered buildings
	owned, paying := 0, 0
	for _, b := range e.pending {
		if b.Owner == f.Owner {
			owned++
		}
		if b.Income(g) > 0 {
			paying++
		}
	}
	return owned == 0 || paying == 0
}

func (e *firstEntryFloor) preview(g *Game, f *Floor) int {
	if e.qualifies(g, f) {
		return 2
	}
	return 0
}

func (e *firstEntryFloor) run(g *Game, f *Floor) {
	if e.qualifies(g, f) {
		g.Earn(f.Owner, 2)
	}
	e.pending = nil
}

// communicationFloor rewards the leader in floors with money and the
// laggard with an extra step.
type communicationFloor struct{}

func (communicationFloor) invokeNextMove(g *Game, f *Floor) {
	g.EnqueueDeferredEffect(f.Owner, f)
}

func (communicationFloor) preview(g *Game, f *Floor) int {
	if slices.Contains(g.RichestPlayers(), f.Owner) {
		return 1
	}
	return -1
}

func (communicationFloor) run(g *Game, f *Floor) {
	switch {
	case slices.Contains(g.RichestPlayers(), f.Owner):
		g.Earn(f.Owner, 1)
	case slices.Contains(g.PoorestPlayers(), f.Owner):
		g.GrantExtraSteps(1)
	}
}

// strategicFloor grants a step to an owner holding all four spheres.
type strategicFloor struct{}

func (strategicFloor) invokeNextMove(g *Game, f *Floor) {
	g.EnqueueDeferredEffect(f.Owner, f)
}

func (strategicFloor) preview(g *Game, f *Floor) int {
	if g.OwnsAllSpheres(f.Owner) {
		return -1
	}
	return 0
}

func (strategicFloor) run(g *Game, f *Floor) {
	if g.OwnsAllSpheres(f.Owner) {
		g.GrantExtraSteps(1)
	}
}
