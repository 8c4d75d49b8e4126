package engine

// Resolve runs the effects a dice roll triggers, category by category.

// stage is one category step of dice resolution.
type stage struct {
	category Category
	// fires decides whether a building owned by owner fires for roller.
	fires func(roller, owner PlayerID) bool
	// hooked stages notify building-effect subscribers before each effect.
	hooked bool
}

func othersOnly(roller, owner PlayerID) bool { return owner != roller }
func rollerOnly(roller, owner PlayerID) bool { return owner == roller }
func anyOwner(_, _ PlayerID) bool            { return true }

// resolutionOrder is the fixed order after the dice-roll hooks. Blue and
// Grey effects are never amplified by building-effect subscribers.
var resolutionOrder = []stage{
	{category: CategoryRed, fires: othersOnly, hooked: true},
	{category: CategoryGreen, fires: rollerOnly, hooked: true},
	{category: CategoryBlue, fires: anyOwner},
	{category: CategoryGrey, fires: rollerOnly},
}

// ResolveDiceOutcome runs everything a roll of sum by roller triggers:
// dice-roll hooks, then Red, Green, Blue and Grey buildings in registration
// order, then one entry of the roller's headquarters queue. It runs to
// completion before returning. Effects charge and reward roller even when
// it is not the current player.
func (g *Game) ResolveDiceOutcome(roller PlayerID, sum int, double bool) {
	g.double = double
	g.roller = roller
	defer func() { g.roller = PlayerNone }()

	if n := g.Bus.fireDiceRoll(g, roller, sum); n > 0 {
		g.emit(EventHookFired, roller, map[string]any{"hook": "dice_roll", "sum": sum, "count": n})
	}

	for _, st := range resolutionOrder {
		for _, b := range g.buildings {
			if b.Category != st.category || !b.Covers(sum) || !st.fires(roller, b.Owner) {
				continue
			}
			if st.hooked {
				if n := g.Bus.fireBuildingEffect(g, b); n > 0 {
					g.emit(EventHookFired, roller, map[string]any{
						"hook": "building_effect", "building": b.Kind.String(), "count": n,
					})
				}
			}
			g.applyEffect(roller, b)
		}
	}

	hq := g.hqs[roller]
	if hq == nil {
		return
	}
	if d, ok := hq.advance(g); ok {
		g.emit(EventDeferredRun, roller, map[string]any{"entry": d.String(), "queued": len(hq.queue)})
	}
}

func (g *Game) applyEffect(roller PlayerID, b *Building) {
	if b.Enableable {
		b.Enabled = true
	}
	if b.effect != nil {
		b.effect.Apply(g, b)
	}
	g.emit(EventEffectResolved, roller, map[string]any{
		"building": b.Kind.String(),
		"category": b.Category.String(),
		"owner":    b.Owner.String(),
		"id":       b.ID,
	})
}

// BuildingsTriggeredBy lists what a roll of sum would set off for roller:
// the roller's own non-Red buildings and everyone else's non-Green ones.
func (g *Game) BuildingsTriggeredBy(roller PlayerID, sum int) []*Building {
	var own, others []*Building
	for _, b := range g.buildings {
		if !b.Covers(sum) {
			continue
		}
		switch {
		case b.Owner == roller && b.Category != CategoryRed:
			own = append(own, b)
		case b.Owner != roller && b.Category != CategoryGreen:
			others = append(others, b)
		}
	}
	return append(own, others...)
}
