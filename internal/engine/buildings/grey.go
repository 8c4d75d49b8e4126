package buildings

import "diceville/internal/engine"

// jammer only switches itself on.
type jammer struct{}

func newJammer() engine.Effect { return jammer{} }

func (jammer) Income(*engine.Game, *engine.Building) int { return 0 }
func (jammer) Apply(*engine.Game, *engine.Building)      {}

// mines pays its owner 5 whenever a Red effect fires, once enabled.
type mines struct{}

func newMines() engine.Effect { return mines{} }

func (mines) Income(*engine.Game, *engine.Building) int { return 0 }
func (mines) Apply(*engine.Game, *engine.Building)      {}

func (mines) BindEffectHook(g *engine.Game, b *engine.Building) {
	g.Bus.RegisterBuildingEffectHook(func(g *engine.Game, target *engine.Building) {
		if b.Enabled && target.Category == engine.CategoryRed {
			g.Earn(b.Owner, 5)
		}
	})
}

// controlCenter grants the roller a step whenever a Green effect fires,
// once enabled.
type controlCenter struct{}

func newControlCenter() engine.Effect { return controlCenter{} }

func (controlCenter) Income(*engine.Game, *engine.Building) int { return 0 }
func (controlCenter) Apply(*engine.Game, *engine.Building)      {}

func (controlCenter) BindEffectHook(g *engine.Game, b *engine.Building) {
	g.Bus.RegisterBuildingEffectHook(func(g *engine.Game, target *engine.Building) {
		if b.Enabled && target.Category == engine.CategoryGreen {
			g.GrantExtraSteps(1)
		}
	})
}

// transformation banks the steps its owner leaves unused. Each time its
// effect fires it arms a next-turn hook that, after one full round, adds the
// owner's leftover budget to the bank. At the owner's next turn start the
// refund is queued on their headquarters; running it returns the banked
// steps plus 2 money per step and disarms the hook.
type transformation struct {
	unused     int
	roundSeen  bool
	armed      bool
	hook       engine.HookID
	refundTask *refund
}

func newTransformation() engine.Effect {
	t := &transformation{}
	t.refundTask = &refund{t: t}
	return t
}

func (t *transformation) Income(*engine.Game, *engine.Building) int { return 0 }

func (t *transformation) Apply(g *engine.Game, b *engine.Building) {
	if t.armed {
		return
	}
	t.armed = true
	t.refundTask.owner = b.Owner
	t.hook = g.Bus.RegisterNextTurnHook(func(g *engine.Game) {
		t.accrue(g, b)
	})
}

func (t *transformation) accrue(g *engine.Game, b *engine.Building) {
	if !b.Enabled {
		return
	}
	if !t.roundSeen {
		t.roundSeen = true
		return
	}
	if prev := g.Turns.Previous(); prev.Player == b.Owner {
		t.unused += prev.Remaining
	}
}

func (t *transformation) InvokeNextMove(g *engine.Game, b *engine.Building) {
	if !t.armed || t.unused == 0 || g.CurrentPlayer() != b.Owner {
		return
	}
	hq := g.Headquarters(b.Owner)
	if hq == nil || hq.Queued(t.refundTask) {
		return
	}
	g.EnqueueDeferredEffect(b.Owner, t.refundTask)
}

// refund is the queued payout of a transformation.
type refund struct {
	t     *transformation
	owner engine.PlayerID
}

func (r *refund) Preview(*engine.Game) int { return 2 * r.t.unused }
func (r *refund) String() string           { return engine.KindTransformationSphere.String() }

func (r *refund) Run(g *engine.Game) {
	t := r.t
	n := t.unused
	g.GrantExtraSteps(n)
	g.Earn(r.owner, 2*n)
	t.unused = 0
	t.roundSeen = false
	t.armed = false
	g.Bus.Unregister(t.hook)
}
