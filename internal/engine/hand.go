package engine

import "slices"

// NoCard marks an empty hand slot.
const NoCard Kind = -1

// Hand is a player's fixed row of building cards. Cards in a hand are
// always distinct kinds.
type Hand struct {
	slots        []Kind
	replacements int
}

func NewHand(size, replacements int) *Hand {
	h := &Hand{slots: make([]Kind, size), replacements: replacements}
	for i := range h.slots {
		h.slots[i] = NoCard
	}
	return h
}

// Slots returns a copy of the hand, NoCard for empty slots.
func (h *Hand) Slots() []Kind {
	return slices.Clone(h.slots)
}

func (h *Hand) Size() int         { return len(h.slots) }
func (h *Hand) Replacements() int { return h.replacements }

// Card returns the kind in slot, or false for an empty or invalid slot.
func (h *Hand) Card(slot int) (Kind, bool) {
	if slot < 0 || slot >= len(h.slots) || h.slots[slot] == NoCard {
		return NoCard, false
	}
	return h.slots[slot], true
}

// Refill draws a card into every empty slot.
func (h *Hand) Refill(pool []Kind, src DiceSource) {
	for i := range h.slots {
		if h.slots[i] == NoCard {
			h.slots[i] = h.draw(pool, src, NoCard)
		}
	}
}

// draw picks a kind from pool that is not in the hand and is not except.
// It returns NoCard when the pool is exhausted.
func (h *Hand) draw(pool []Kind, src DiceSource, except Kind) Kind {
	var choices []Kind
	for _, k := range pool {
		if k != except && !slices.Contains(h.slots, k) {
			choices = append(choices, k)
		}
	}
	if len(choices) == 0 {
		return NoCard
	}
	return choices[src.IntN(len(choices))]
}

// Use takes the card out of slot.
func (h *Hand) Use(slot int) (Kind, error) {
	k, ok := h.Card(slot)
	if !ok {
		return NoCard, ErrEmptySlot
	}
	h.slots[slot] = NoCard
	return k, nil
}

// Return puts a card back into the slot it was used from.
func (h *Hand) Return(slot int, k Kind) {
	if slot >= 0 && slot < len(h.slots) && h.slots[slot] == NoCard {
		h.slots[slot] = k
	}
}

// Replace swaps the card in slot for a different kind. Each hand has a
// limited number of replacements per game.
func (h *Hand) Replace(slot int, pool []Kind, src DiceSource) (Kind, error) {
	old, ok := h.Card(slot)
	if !ok {
		return NoCard, ErrEmptySlot
	}
	if h.replacements <= 0 {
		return NoCard, ErrNoReplacements
	}
	h.slots[slot] = NoCard
	k := h.draw(pool, src, old)
	if k == NoCard {
		h.slots[slot] = old
		return NoCard, ErrNoReplacements
	}
	h.slots[slot] = k
	h.replacements--
	return k, nil
}
