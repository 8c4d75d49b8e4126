package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"diceville/internal/engine"
	"diceville/internal/lobby"
	"diceville/internal/logger"
	qr "diceville/internal/qrcode"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	LobbyMgr *lobby.Manager
	Rules    engine.GameConfig
	// PublicURL is the base of join links; the request host is used when empty.
	PublicURL    string
	MessageRate  float64
	MessageBurst int

	mu   sync.Mutex
	hubs map[string]*Hub
}

func NewHandlers(rules engine.GameConfig) *Handlers {
	return &Handlers{
		LobbyMgr:     lobby.NewManager(),
		Rules:        rules,
		MessageRate:  5,
		MessageBurst: 10,
		hubs:         make(map[string]*Hub),
	}
}

// CreateResponse is returned by /api/create.
type CreateResponse struct {
	GameID  string `json:"game_id"`
	JoinURL string `json:"join_url"`
	QRURL   string `json:"qr_url"`
}

// HandleCreateGame creates a new game lobby and starts its hub.
func (h *Handlers) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	gameID := h.LobbyMgr.Create()
	hub := NewHub(gameID, h.LobbyMgr.Get(gameID), h.Rules)
	hub.onClose = func() { h.closeGame(gameID) }
	h.mu.Lock()
	h.hubs[gameID] = hub
	h.mu.Unlock()
	go hub.Run()

	logger.Log.WithField("game", gameID).Info("game created")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CreateResponse{
		GameID:  gameID,
		JoinURL: h.joinURL(r, gameID),
		QRURL:   "/api/qr?game=" + url.QueryEscape(gameID),
	})
}

// Hub returns the hub of a game.
func (h *Handlers) Hub(gameID string) (*Hub, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hub, ok := h.hubs[gameID]
	return hub, ok
}

// closeGame forgets a room whose hub has stopped.
func (h *Handlers) closeGame(gameID string) {
	h.mu.Lock()
	delete(h.hubs, gameID)
	h.mu.Unlock()
	h.LobbyMgr.Remove(gameID)
	logger.Log.WithField("game", gameID).Info("game closed")
}

func (h *Handlers) joinURL(r *http.Request, gameID string) string {
	base := h.PublicURL
	if base == "" {
		base = "http://" + r.Host
	}
	return fmt.Sprintf("%s/ws?game=%s", base, url.QueryEscape(gameID))
}

// HandleQR generates a QR code PNG for joining the game.
func (h *Handlers) HandleQR(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		http.Error(w, "missing game parameter", http.StatusBadRequest)
		return
	}
	if _, ok := h.Hub(gameID); !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	png, err := qr.Generate(h.joinURL(r, gameID))
	if err != nil {
		http.Error(w, "QR generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// HandleWS handles WebSocket connections.
func (h *Handlers) HandleWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	playerID := r.URL.Query().Get("player")
	clientType := r.URL.Query().Get("type") // "tv" or "player"

	if gameID == "" {
		http.Error(w, "missing game parameter", http.StatusBadRequest)
		return
	}
	hub, ok := h.Hub(gameID)
	if !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithField("game", gameID).WithError(err).Warn("ws upgrade error")
		return
	}

	ct := ClientPlayer
	if clientType == "tv" {
		ct = ClientTV
	}

	limiter := rate.NewLimiter(rate.Limit(h.MessageRate), h.MessageBurst)
	client := NewClient(hub, conn, playerID, ct, limiter)
	select {
	case hub.register <- client:
	case <-hub.quit:
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// HandlePlayerID returns a new player ID.
func (h *Handlers) HandlePlayerID(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(lobby.NewID()))
}
