package engine

// ActionType identifies player actions sent to Game.Apply.
type ActionType string

const (
	ActionRollDice    ActionType = "roll_dice"
	ActionBuild       ActionType = "build"
	ActionBuyTile     ActionType = "buy_tile"
	ActionBuyFloor    ActionType = "buy_floor"
	ActionReplaceCard ActionType = "replace_card"
	ActionEndTurn     ActionType = "end_turn"
)

// Action is a player's action input.
type Action struct {
	Type ActionType `json:"type"`
	// Params depend on Type:
	// roll_dice: TwoDice
	// build: Slot, X, Y
	// buy_tile: X, Y
	// buy_floor: Floor
	// replace_card: Slot
	TwoDice bool    `json:"two_dice,omitempty"`
	Slot    int     `json:"slot,omitempty"`
	X       int     `json:"x,omitempty"`
	Y       int     `json:"y,omitempty"`
	Floor   FloorID `json:"floor,omitempty"`
}

// EventType identifies events emitted by the engine.
type EventType string

const (
	EventTurnStart        EventType = "turn_start"
	EventDiceRolled       EventType = "dice_rolled"
	EventEffectResolved   EventType = "effect_resolved"
	EventHookFired        EventType = "hook_fired"
	EventDeferredEnqueued EventType = "deferred_enqueued"
	EventDeferredRun      EventType = "deferred_run"
	EventMoneyChanged     EventType = "money_changed"
	EventStepsGranted     EventType = "steps_granted"
	EventBuildingBuilt    EventType = "building_built"
	EventTileBought       EventType = "tile_bought"
	EventFloorActivated   EventType = "floor_activated"
	EventCardReplaced     EventType = "card_replaced"
	EventGameOver         EventType = "game_over"
)

// Event is emitted by the engine after state changes.
type Event struct {
	Type   EventType      `json:"type"`
	Player string         `json:"player,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

func (g *Game) emit(typ EventType, p PlayerID, data map[string]any) {
	e := Event{Type: typ, Data: data}
	if p != PlayerNone {
		e.Player = p.String()
	}
	g.events = append(g.events, e)
}

// TakeEvents returns and clears the events recorded since the last call.
func (g *Game) TakeEvents() []Event {
	events := g.events
	g.events = nil
	return events
}
