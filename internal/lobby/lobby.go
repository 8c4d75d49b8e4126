package lobby

import (
	"errors"
	"sync"

	"diceville/internal/engine"
)

var (
	ErrStarted       = errors.New("game already started")
	ErrFull          = errors.New("lobby is full")
	ErrNotEnough     = errors.New("not enough players")
	ErrNotReady      = errors.New("not all players ready")
	ErrUnknownPlayer = errors.New("player not in lobby")
)

// PlayerInfo holds lobby-level player information. Seat is assigned when
// the game starts.
type PlayerInfo struct {
	ID    string
	Name  string
	Ready bool
	Seat  engine.PlayerID
}

// Lobby represents a game lobby waiting for players.
type Lobby struct {
	mu         sync.Mutex
	ID         string
	Players    []*PlayerInfo
	MaxPlayers int
	MinPlayers int
	Started    bool
}

// NewLobby creates a new lobby.
func NewLobby(id string) *Lobby {
	return &Lobby{
		ID:         id,
		MaxPlayers: engine.MaxPlayers,
		MinPlayers: 2,
	}
}

// Join adds a player to the lobby. Joining again with a known id renames
// the player.
func (l *Lobby) Join(id, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, p := range l.Players {
		if p.ID == id {
			p.Name = name
			return nil
		}
	}
	if l.Started {
		return ErrStarted
	}
	if len(l.Players) >= l.MaxPlayers {
		return ErrFull
	}
	l.Players = append(l.Players, &PlayerInfo{ID: id, Name: name, Seat: engine.PlayerNone})
	return nil
}

// Leave removes a player from the lobby. Seats are kept once the game
// has started.
func (l *Lobby) Leave(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Started {
		return
	}
	for i, p := range l.Players {
		if p.ID == id {
			l.Players = append(l.Players[:i], l.Players[i+1:]...)
			return
		}
	}
}

// SetReady toggles a player's ready state.
func (l *Lobby) SetReady(id string, ready bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, p := range l.Players {
		if p.ID == id {
			p.Ready = ready
			return nil
		}
	}
	return ErrUnknownPlayer
}

// CanStart returns true if enough players are ready.
func (l *Lobby) CanStart() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.checkStart() == nil
}

func (l *Lobby) checkStart() error {
	if l.Started {
		return ErrStarted
	}
	if len(l.Players) < l.MinPlayers {
		return ErrNotEnough
	}
	for _, p := range l.Players {
		if !p.Ready {
			return ErrNotReady
		}
	}
	return nil
}

// Start marks the lobby as started and seats players in join order.
func (l *Lobby) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkStart(); err != nil {
		return err
	}
	for i, p := range l.Players {
		p.Seat = engine.PlayerID(i)
	}
	l.Started = true
	return nil
}

// IsStarted reports whether Start succeeded.
func (l *Lobby) IsStarted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Started
}

// Seat returns the seat of a player id, PlayerNone before the start.
func (l *Lobby) Seat(id string) (engine.PlayerID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, p := range l.Players {
		if p.ID == id {
			return p.Seat, nil
		}
	}
	return engine.PlayerNone, ErrUnknownPlayer
}

// GetPlayers returns a copy of the player list.
func (l *Lobby) GetPlayers() []PlayerInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]PlayerInfo, len(l.Players))
	for i, p := range l.Players {
		out[i] = *p
	}
	return out
}
