package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"diceville/internal/config"
	"diceville/internal/engine"
	"diceville/internal/logger"
)

// Server ties together HTTP serving and WebSocket handling.
type Server struct {
	handlers *Handlers
	port     int
}

func New(cfg config.Server, rules engine.GameConfig) *Server {
	h := NewHandlers(rules)
	h.PublicURL = cfg.PublicURL
	if cfg.MessageRate > 0 {
		h.MessageRate = cfg.MessageRate
	}
	if cfg.MessageBurst > 0 {
		h.MessageBurst = cfg.MessageBurst
	}
	return &Server{handlers: h, port: cfg.Port}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/create", s.handlers.HandleCreateGame)
	mux.HandleFunc("/api/qr", s.handlers.HandleQR)
	mux.HandleFunc("/api/player-id", s.handlers.HandlePlayerID)
	mux.HandleFunc("/ws", s.handlers.HandleWS)
	return mux
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Log.WithField("addr", addr).Info("diceville server starting")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
