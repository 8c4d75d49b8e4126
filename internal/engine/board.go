package engine

import "fmt"

// Position is a tile coordinate on the board.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Adjacent reports orthogonal adjacency.
func (p Position) Adjacent(o Position) bool {
	dx, dy := p.X-o.X, p.Y-o.Y
	return dx*dx+dy*dy == 1
}

// Tile is one board cell.
type Tile struct {
	Pos      Position  `json:"pos"`
	Surface  Surface   `json:"surface"`
	Owner    PlayerID  `json:"owner"`
	Building *Building `json:"-"`
}

// Free reports whether nothing stands on the tile.
func (t *Tile) Free() bool {
	return t.Building == nil
}

// Board is the rectangular tile map.
type Board struct {
	Width  int
	Height int
	tiles  [][]*Tile // [x][y]
}

// NewBoard fills a width x height map with random surfaces.
func NewBoard(width, height int, src DiceSource) *Board {
	surfaces := BoardSurfaces()
	b := &Board{Width: width, Height: height, tiles: make([][]*Tile, width)}
	for x := range width {
		b.tiles[x] = make([]*Tile, height)
		for y := range height {
			b.tiles[x][y] = &Tile{
				Pos:     Position{X: x, Y: y},
				Surface: surfaces[src.IntN(len(surfaces))],
				Owner:   PlayerNone,
			}
		}
	}
	return b
}

// Tile returns the tile at pos, or nil when pos is off the board.
func (b *Board) Tile(pos Position) *Tile {
	if pos.X < 0 || pos.Y < 0 || pos.X >= b.Width || pos.Y >= b.Height {
		return nil
	}
	return b.tiles[pos.X][pos.Y]
}

// Each visits every tile column by column.
func (b *Board) Each(fn func(*Tile)) {
	for _, col := range b.tiles {
		for _, t := range col {
			fn(t)
		}
	}
}

// StartOrigin returns the corner of a seat's start area.
func (b *Board) StartOrigin(p PlayerID, size int) Position {
	switch p {
	case PlayerEnemy1:
		return Position{X: 0, Y: b.Height - size}
	case PlayerEnemy2:
		return Position{X: b.Width - size, Y: 0}
	case PlayerEnemy3:
		return Position{X: b.Width - size, Y: b.Height - size}
	default:
		return Position{}
	}
}

// claimStartArea gives a size x size block to p and returns its center,
// which is turned into a field for the headquarters.
func (b *Board) claimStartArea(p PlayerID, size int) Position {
	origin := b.StartOrigin(p, size)
	for dx := range size {
		for dy := range size {
			b.tiles[origin.X+dx][origin.Y+dy].Owner = p
		}
	}
	center := Position{X: origin.X + size/2, Y: origin.Y + size/2}
	b.Tile(center).Surface = SurfaceField
	return center
}

// TilesOf returns every tile owned by p.
func (b *Board) TilesOf(p PlayerID) []*Tile {
	var out []*Tile
	b.Each(func(t *Tile) {
		if t.Owner == p {
			out = append(out, t)
		}
	})
	return out
}

// FreeTilesOf returns p's tiles with nothing built on them.
func (b *Board) FreeTilesOf(p PlayerID) []*Tile {
	var out []*Tile
	b.Each(func(t *Tile) {
		if t.Owner == p && t.Free() {
			out = append(out, t)
		}
	})
	return out
}

// SurfaceCount counts p's tiles of a surface.
func (b *Board) SurfaceCount(p PlayerID, s Surface) int {
	n := 0
	b.Each(func(t *Tile) {
		if t.Owner == p && t.Surface == s {
			n++
		}
	})
	return n
}

// Purchasable returns the unowned empty tiles next to any tile p owns.
func (b *Board) Purchasable(p PlayerID) []Position {
	var out []Position
	b.Each(func(t *Tile) {
		if t.Owner == PlayerNone && t.Free() && b.touches(p, t.Pos) {
			out = append(out, t.Pos)
		}
	})
	return out
}

func (b *Board) touches(p PlayerID, pos Position) bool {
	for _, d := range []Position{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		if n := b.Tile(Position{X: pos.X + d.X, Y: pos.Y + d.Y}); n != nil && n.Owner == p {
			return true
		}
	}
	return false
}

// checkPurchase validates a tile purchase without touching the board.
func (b *Board) checkPurchase(p PlayerID, pos Position) (*Tile, error) {
	t := b.Tile(pos)
	if t == nil {
		return nil, fmt.Errorf("%w: tile %s off board", ErrInvalidAction, pos)
	}
	if t.Owner != PlayerNone || !t.Free() {
		return nil, ErrTileOccupied
	}
	if !b.touches(p, pos) {
		return nil, ErrTileNotAdjacent
	}
	return t, nil
}
