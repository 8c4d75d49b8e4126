package engine

import "slices"

// HookID identifies a registration so it can be removed later.
type HookID uint64

// DiceRollHook reacts to a roll outcome before any building fires.
type DiceRollHook func(g *Game, roller PlayerID, sum int)

// BuildingEffectHook runs right before a Red or Green building's effect.
type BuildingEffectHook func(g *Game, b *Building)

// TurnHook runs after every turn hand-off.
type TurnHook func(g *Game)

type hook[F any] struct {
	id HookID
	fn F
}

type hookList[F any] struct {
	hooks []hook[F]
}

func (l *hookList[F]) add(id HookID, fn F) {
	l.hooks = append(l.hooks, hook[F]{id: id, fn: fn})
}

func (l *hookList[F]) remove(id HookID) bool {
	for i, h := range l.hooks {
		if h.id == id {
			l.hooks = slices.Delete(l.hooks, i, i+1)
			return true
		}
	}
	return false
}

func (l *hookList[F]) contains(id HookID) bool {
	return slices.ContainsFunc(l.hooks, func(h hook[F]) bool { return h.id == id })
}

// snapshot copies the list so callbacks may register or unregister hooks
// while it is being walked. Every hook present when firing starts runs
// exactly once; hooks added during the walk wait for the next fire.
func (l *hookList[F]) snapshot() []hook[F] {
	return slices.Clone(l.hooks)
}

// EffectBus holds the subscriber lists that building and floor effects
// register into. Dice-roll and building-effect lists are turn scoped and
// cleared at every turn start; next-turn hooks live until unregistered.
type EffectBus struct {
	nextID         HookID
	diceRoll       hookList[DiceRollHook]
	buildingEffect hookList[BuildingEffectHook]
	nextTurn       hookList[TurnHook]
}

func NewEffectBus() *EffectBus {
	return &EffectBus{}
}

func (b *EffectBus) id() HookID {
	b.nextID++
	return b.nextID
}

// RegisterDiceRollHook subscribes fn to roll outcomes for the current turn.
func (b *EffectBus) RegisterDiceRollHook(fn DiceRollHook) HookID {
	id := b.id()
	b.diceRoll.add(id, fn)
	return id
}

// RegisterBuildingEffectHook subscribes fn to Red and Green effects for the
// current turn.
func (b *EffectBus) RegisterBuildingEffectHook(fn BuildingEffectHook) HookID {
	id := b.id()
	b.buildingEffect.add(id, fn)
	return id
}

// RegisterNextTurnHook subscribes fn to every turn hand-off.
func (b *EffectBus) RegisterNextTurnHook(fn TurnHook) HookID {
	id := b.id()
	b.nextTurn.add(id, fn)
	return id
}

// Unregister removes a hook from whichever list holds it. It is safe to
// call from inside the hook being fired.
func (b *EffectBus) Unregister(id HookID) bool {
	return b.diceRoll.remove(id) || b.buildingEffect.remove(id) || b.nextTurn.remove(id)
}

// Registered reports whether id is still subscribed.
func (b *EffectBus) Registered(id HookID) bool {
	return b.diceRoll.contains(id) || b.buildingEffect.contains(id) || b.nextTurn.contains(id)
}

// Counts returns the sizes of the dice-roll, building-effect and next-turn lists.
func (b *EffectBus) Counts() (diceRoll, buildingEffect, nextTurn int) {
	return len(b.diceRoll.hooks), len(b.buildingEffect.hooks), len(b.nextTurn.hooks)
}

func (b *EffectBus) resetTurnScoped() {
	b.diceRoll.hooks = nil
	b.buildingEffect.hooks = nil
}

func (b *EffectBus) fireDiceRoll(g *Game, roller PlayerID, sum int) int {
	hooks := b.diceRoll.snapshot()
	for _, h := range hooks {
		h.fn(g, roller, sum)
	}
	return len(hooks)
}

func (b *EffectBus) fireBuildingEffect(g *Game, bld *Building) int {
	hooks := b.buildingEffect.snapshot()
	for _, h := range hooks {
		h.fn(g, bld)
	}
	return len(hooks)
}

func (b *EffectBus) fireNextTurn(g *Game) int {
	hooks := b.nextTurn.snapshot()
	for _, h := range hooks {
		h.fn(g)
	}
	return len(hooks)
}
