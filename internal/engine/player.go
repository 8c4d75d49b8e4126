package engine

import "fmt"

// PlayerID identifies a seat at the table. Players carry no state of their
// own; the seat indexes into the ledger, headquarters and ownership maps.
type PlayerID int

const (
	PlayerNone   PlayerID = -1
	PlayerHost   PlayerID = 0
	PlayerEnemy1 PlayerID = 1
	PlayerEnemy2 PlayerID = 2
	PlayerEnemy3 PlayerID = 3
)

// MaxPlayers is the number of seats on the board.
const MaxPlayers = 4

var playerNames = map[PlayerID]string{
	PlayerNone:   "none",
	PlayerHost:   "host",
	PlayerEnemy1: "enemy1",
	PlayerEnemy2: "enemy2",
	PlayerEnemy3: "enemy3",
}

func (p PlayerID) String() string {
	if s, ok := playerNames[p]; ok {
		return s
	}
	return "unknown"
}

func (p PlayerID) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PlayerID) UnmarshalText(b []byte) error {
	id, err := ParsePlayer(string(b))
	if err != nil {
		return err
	}
	*p = id
	return nil
}

// ParsePlayer maps a seat name back to its id.
func ParsePlayer(name string) (PlayerID, error) {
	for id, s := range playerNames {
		if s == name && id != PlayerNone {
			return id, nil
		}
	}
	return PlayerNone, fmt.Errorf("unknown player %q", name)
}

// Seats returns the first n seats in table order.
func Seats(n int) ([]PlayerID, error) {
	if n < 2 || n > MaxPlayers {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlayers, n)
	}
	seats := make([]PlayerID, n)
	for i := range seats {
		seats[i] = PlayerID(i)
	}
	return seats, nil
}
