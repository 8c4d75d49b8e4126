package server

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"diceville/internal/engine"
	"diceville/internal/engine/buildings"
	"diceville/internal/lobby"
	"diceville/internal/logger"
	"diceville/internal/protocol"
)

// Hub manages WebSocket connections and game state for one game room.
// Every engine call happens on the Run goroutine, which is what keeps a
// game's turns strictly sequential.
type Hub struct {
	mu         sync.Mutex
	gameID     string
	lobby      *lobby.Lobby
	rules      engine.GameConfig
	game       *engine.Game
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	incoming   chan IncomingMessage
	quit       chan struct{}
	stopOnce   sync.Once
	onClose    func()
	log        *logrus.Entry
}

func NewHub(gameID string, lob *lobby.Lobby, rules engine.GameConfig) *Hub {
	return &Hub{
		gameID:     gameID,
		lobby:      lob,
		rules:      rules,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan IncomingMessage, 256),
		quit:       make(chan struct{}),
		log:        logger.Log.WithField("game", gameID),
	}
}

// Run serves the room until the game ends, the last client leaves or Stop
// is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.sendLobbyUpdate()
			if h.game != nil {
				h.sendStateToClient(client)
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			empty := len(h.clients) == 0
			h.mu.Unlock()
			if empty {
				h.log.Info("last client left")
				h.shutdown()
				return
			}
			if h.game == nil && client.PlayerID() != "" {
				h.lobby.Leave(client.PlayerID())
				h.sendLobbyUpdate()
			}

		case msg := <-h.incoming:
			h.handleMessage(msg)
			if h.finished() {
				h.shutdown()
				return
			}

		case <-h.quit:
			return
		}
	}
}

// Stop ends the Run loop. It is safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

func (h *Hub) finished() bool {
	return h.game != nil && h.game.IsGameOver()
}

// shutdown closes every client after its queued messages are written,
// stops the hub and lets the owner forget the room.
func (h *Hub) shutdown() {
	h.mu.Lock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
	h.Stop()
	if h.onClose != nil {
		h.onClose()
	}
}

func (h *Hub) handleMessage(msg IncomingMessage) {
	switch msg.Envelope.Type {
	case protocol.MsgJoin:
		h.handleJoin(msg)
	case protocol.MsgReady:
		h.handleReady(msg)
	case protocol.MsgStartGame:
		h.handleStartGame(msg)
	default:
		h.handleGameAction(msg)
	}
}

func (h *Hub) handleJoin(msg IncomingMessage) {
	var join protocol.JoinMsg
	if err := msg.Envelope.Decode(&join); err != nil || join.PlayerID == "" {
		h.sendError(msg.Client, "invalid join message")
		return
	}
	if err := h.lobby.Join(join.PlayerID, join.Name); err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}
	msg.Client.setPlayerID(join.PlayerID)
	h.sendLobbyUpdate()
	if h.game != nil {
		h.sendStateToClient(msg.Client)
	}
}

func (h *Hub) handleReady(msg IncomingMessage) {
	var ready protocol.ReadyMsg
	if err := msg.Envelope.Decode(&ready); err != nil {
		h.sendError(msg.Client, "invalid ready message")
		return
	}
	if err := h.lobby.SetReady(msg.Client.PlayerID(), ready.Ready); err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}
	h.sendLobbyUpdate()
}

func (h *Hub) handleStartGame(msg IncomingMessage) {
	if err := h.lobby.Start(); err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}

	rules := h.rules
	if rules.Seed == 0 {
		rules.Seed = newSeed()
	}
	game, err := engine.NewGame(len(h.lobby.GetPlayers()), rules, buildings.NewCatalog())
	if err != nil {
		h.log.WithError(err).Error("create game")
		h.sendError(msg.Client, err.Error())
		return
	}
	h.game = game
	events, err := h.game.Start()
	if err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}
	h.log.WithFields(logrus.Fields{
		"players": len(h.game.Players()),
		"seed":    rules.Seed,
	}).Info("game started")

	h.sendLobbyUpdate()
	h.broadcastEvents(events)
	h.broadcastState()
	h.announceTurn()
}

func (h *Hub) handleGameAction(msg IncomingMessage) {
	if h.game == nil {
		h.sendError(msg.Client, "game not started")
		return
	}
	seat, err := h.lobby.Seat(msg.Client.PlayerID())
	if err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}

	action, err := parseAction(msg.Envelope)
	if err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}

	current := h.game.CurrentPlayer()
	events, err := h.game.Apply(seat, action)
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"player": seat.String(),
			"action": action.Type,
		}).WithError(err).Debug("action rejected")
		h.sendError(msg.Client, err.Error())
		return
	}

	h.broadcastEvents(events)
	h.broadcastState()
	if h.game.IsGameOver() {
		h.announceWinner()
		return
	}
	if h.game.CurrentPlayer() != current {
		h.announceTurn()
	}
}

var actionTypes = map[string]engine.ActionType{
	protocol.MsgRollDice:    engine.ActionRollDice,
	protocol.MsgBuild:       engine.ActionBuild,
	protocol.MsgBuyTile:     engine.ActionBuyTile,
	protocol.MsgBuyFloor:    engine.ActionBuyFloor,
	protocol.MsgReplaceCard: engine.ActionReplaceCard,
	protocol.MsgEndTurn:     engine.ActionEndTurn,
}

func parseAction(env protocol.Envelope) (engine.Action, error) {
	typ, ok := actionTypes[env.Type]
	if !ok {
		return engine.Action{}, fmt.Errorf("unknown message type %q", env.Type)
	}
	var action engine.Action
	if err := env.Decode(&action); err != nil {
		return engine.Action{}, fmt.Errorf("invalid payload")
	}
	action.Type = typ
	return action, nil
}

func (h *Hub) broadcastEvents(events []engine.Event) {
	for _, ev := range events {
		env := protocol.MustEnvelope(protocol.MsgEvent, ev)
		h.broadcastAll(env)
	}
}

func (h *Hub) broadcastState() {
	if h.game == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		h.sendStateToClient(client)
	}
}

func (h *Hub) sendStateToClient(client *Client) {
	if h.game == nil {
		return
	}
	seat := engine.PlayerNone
	if client.Type == ClientPlayer {
		seat, _ = h.lobby.Seat(client.PlayerID())
	}
	if seat == engine.PlayerNone {
		env := protocol.MustEnvelope(protocol.MsgGameState, h.game.PublicView())
		client.SendEnvelope(env)
		return
	}
	env := protocol.MustEnvelope(protocol.MsgPlayerState, h.game.ViewFor(seat))
	client.SendEnvelope(env)
}

func (h *Hub) announceTurn() {
	h.broadcastAll(protocol.MustEnvelope(protocol.MsgYourTurn, protocol.YourTurnMsg{
		Seat: h.game.CurrentPlayer().String(),
		Turn: h.game.Turns.Turn(),
	}))
}

func (h *Hub) announceWinner() {
	balances := make(map[string]int)
	for _, p := range h.game.Players() {
		balances[p.String()] = h.game.Economy.Balance(p)
	}
	h.broadcastAll(protocol.MustEnvelope(protocol.MsgGameOver, protocol.GameOverMsg{
		Winner:   h.game.Winner().String(),
		Turn:     h.game.Turns.Turn(),
		Balances: balances,
	}))
	h.log.WithFields(logrus.Fields{
		"winner": h.game.Winner().String(),
		"turn":   h.game.Turns.Turn(),
	}).Info("game over")
}

func (h *Hub) sendLobbyUpdate() {
	players := h.lobby.GetPlayers()
	lps := make([]protocol.LobbyPlayer, len(players))
	for i, p := range players {
		lp := protocol.LobbyPlayer{ID: p.ID, Name: p.Name, Ready: p.Ready}
		if p.Seat != engine.PlayerNone {
			lp.Seat = p.Seat.String()
		}
		lps[i] = lp
	}
	env := protocol.MustEnvelope(protocol.MsgLobbyUpdate, protocol.LobbyUpdate{
		GameID:     h.gameID,
		Players:    lps,
		Started:    h.lobby.IsStarted(),
		MinPlayers: h.lobby.MinPlayers,
		MaxPlayers: h.lobby.MaxPlayers,
	})
	h.broadcastAll(env)
}

func (h *Hub) broadcastAll(env protocol.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.Marshal(env)
	if err != nil {
		h.log.WithError(err).Error("broadcast marshal")
		return
	}
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.log.WithField("player", client.PlayerID()).Warn("client buffer full")
		}
	}
}

func (h *Hub) sendError(client *Client, message string) {
	env := protocol.MustEnvelope(protocol.MsgError, protocol.ErrorMsg{Message: message})
	client.SendEnvelope(env)
}
