package engine

// PublicViewData is the game state everyone at the table may see.
type PublicViewData struct {
	Phase     string             `json:"phase"`
	Turn      int                `json:"turn"`
	Current   string             `json:"current"`
	LastRoll  *Roll              `json:"last_roll,omitempty"`
	Remaining int                `json:"remaining"`
	Winner    string             `json:"winner,omitempty"`
	Players   []PublicPlayerData `json:"players"`
	Buildings []BuildingView     `json:"buildings"`
	MapWidth  int                `json:"map_width"`
	MapHeight int                `json:"map_height"`
	Tiles     []TileView         `json:"tiles"`
}

type PublicPlayerData struct {
	ID       string   `json:"id"`
	Money    int      `json:"money"`
	Floors   []string `json:"floors"`
	Active   int      `json:"active_floors"`
	Queue    []string `json:"queue,omitempty"`
	HandSize int      `json:"hand_size"`
}

type BuildingView struct {
	ID       int    `json:"id"`
	Kind     string `json:"kind"`
	Category string `json:"category"`
	Owner    string `json:"owner"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Enabled  bool   `json:"enabled,omitempty"`
}

type TileView struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Surface  string `json:"surface"`
	Owner    string `json:"owner,omitempty"`
	Building string `json:"building,omitempty"`
}

func (g *Game) PublicView() PublicViewData {
	pv := PublicViewData{
		Phase:     g.Phase.String(),
		Turn:      g.Turns.Turn(),
		Current:   g.Turns.Current().String(),
		LastRoll:  g.LastRoll,
		Remaining: g.Turns.Remaining(),
		MapWidth:  g.Board.Width,
		MapHeight: g.Board.Height,
	}
	if g.winner != PlayerNone {
		pv.Winner = g.winner.String()
	}

	for _, p := range g.players {
		hq := g.hqs[p]
		ppd := PublicPlayerData{
			ID:     p.String(),
			Money:  g.Economy.Balance(p),
			Active: hq.ActivatedCount(),
		}
		for _, f := range hq.Floors() {
			if f.Active {
				ppd.Floors = append(ppd.Floors, f.ID.String())
			}
		}
		for _, d := range hq.Queue() {
			ppd.Queue = append(ppd.Queue, d.String())
		}
		for _, k := range g.hands[p].Slots() {
			if k != NoCard {
				ppd.HandSize++
			}
		}
		pv.Players = append(pv.Players, ppd)
	}

	for _, b := range g.buildings {
		pv.Buildings = append(pv.Buildings, BuildingView{
			ID:       b.ID,
			Kind:     b.Kind.String(),
			Category: b.Category.String(),
			Owner:    b.Owner.String(),
			X:        b.Pos.X,
			Y:        b.Pos.Y,
			Enabled:  b.Enabled,
		})
	}

	g.Board.Each(func(t *Tile) {
		tv := TileView{X: t.Pos.X, Y: t.Pos.Y, Surface: t.Surface.String()}
		if t.Owner != PlayerNone {
			tv.Owner = t.Owner.String()
		}
		if t.Building != nil {
			tv.Building = t.Building.Kind.String()
		}
		pv.Tiles = append(pv.Tiles, tv)
	})

	return pv
}

// PlayerViewData is the game state visible to one seat.
type PlayerViewData struct {
	PublicViewData
	Hand          []string `json:"hand"`
	Replacements  int      `json:"replacements"`
	IsMyTurn      bool     `json:"is_my_turn"`
	CanRoll       bool     `json:"can_roll"`
	CanAct        bool     `json:"can_act"`
	PreviewIncome int      `json:"preview_income"`
	TileCost      int      `json:"tile_cost"`
}

func (g *Game) ViewFor(p PlayerID) PlayerViewData {
	pv := PlayerViewData{PublicViewData: g.PublicView()}
	h := g.hands[p]
	if h == nil {
		return pv
	}
	for _, k := range h.Slots() {
		name := ""
		if k != NoCard {
			name = k.String()
		}
		pv.Hand = append(pv.Hand, name)
	}
	pv.Replacements = h.Replacements()
	pv.IsMyTurn = g.Turns.Current() == p && g.Phase != PhaseGameOver
	pv.CanRoll = pv.IsMyTurn && g.Phase == PhaseRoll
	pv.CanAct = pv.IsMyTurn && g.CanAct()
	pv.PreviewIncome = g.PreviewIncome(p)
	pv.TileCost = g.TileCost(p)
	return pv
}
