package protocol

// Message types: Server → Client
const (
	MsgLobbyUpdate = "lobby_update"
	MsgGameState   = "game_state"
	MsgPlayerState = "player_state"
	MsgYourTurn    = "your_turn"
	MsgGameOver    = "game_over"
	MsgError       = "error"
	MsgEvent       = "event"
)

// Message types: Client → Server
const (
	MsgJoin      = "join"
	MsgReady     = "ready"
	MsgStartGame = "start_game"
	// In-game actions use the same names as engine ActionType
	MsgRollDice    = "roll_dice"
	MsgBuild       = "build"
	MsgBuyTile     = "buy_tile"
	MsgBuyFloor    = "buy_floor"
	MsgReplaceCard = "replace_card"
	MsgEndTurn     = "end_turn"
)

// LobbyUpdate is sent to all clients when lobby state changes.
type LobbyUpdate struct {
	GameID     string        `json:"game_id"`
	Players    []LobbyPlayer `json:"players"`
	Started    bool          `json:"started"`
	MinPlayers int           `json:"min_players"`
	MaxPlayers int           `json:"max_players"`
}

type LobbyPlayer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
	Seat  string `json:"seat,omitempty"`
}

// JoinMsg is sent by a player to join the game.
type JoinMsg struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// ReadyMsg is sent by a player to toggle ready state.
type ReadyMsg struct {
	Ready bool `json:"ready"`
}

// YourTurnMsg tells a seat it may roll.
type YourTurnMsg struct {
	Seat string `json:"seat"`
	Turn int    `json:"turn"`
}

// GameOverMsg announces the winner with the final balances.
type GameOverMsg struct {
	Winner   string         `json:"winner"`
	Turn     int            `json:"turn"`
	Balances map[string]int `json:"balances"`
}

// ErrorMsg is sent to a client on error.
type ErrorMsg struct {
	Message string `json:"message"`
}
