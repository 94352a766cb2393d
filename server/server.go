// Package server exposes the agent over WebSocket. Each connection is one
// (user, persona) session with its own memory coordinator; messages on the
// socket are processed strictly one turn at a time.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/personakit/personakit/agent"
	"github.com/personakit/personakit/llm"
	"github.com/personakit/personakit/memory"
	"github.com/personakit/personakit/persona"
)

// Config configures the server. Persona, Store, and Connector are
// required; Retriever may be nil for personas without domain knowledge.
type Config struct {
	Persona   *persona.Config
	Store     memory.Store
	Retriever memory.Retriever
	Connector llm.Connector

	// MemoryConfig tunes fusion; nil uses memory.DefaultConfig().
	MemoryConfig *memory.Config

	// GenerateTimeout bounds each generation round trip; zero keeps the
	// agent default.
	GenerateTimeout time.Duration
}

// Server serves /ws chat sessions and a /healthz endpoint.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader
}

// New validates cfg and returns a server.
func New(cfg Config) (*Server, error) {
	if cfg.Persona == nil {
		return nil, fmt.Errorf("server: persona is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("server: store is required")
	}
	if cfg.Connector == nil {
		return nil, fmt.Errorf("server: connector is required")
	}
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}, nil
}

// Handler returns the HTTP handler, exposed separately for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	log.Printf("[SERVER] persona=%q listening on %s", s.cfg.Persona.PersonaID, addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"persona": s.cfg.Persona.PersonaID,
	})
}

// handleWS upgrades the connection and runs a turn-per-message loop. The
// user ID comes from the "user" query parameter; anonymous connections
// get a random one, which means a fresh memory namespace per visit.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		userID = uuid.New().String()
	}

	mgr, err := memory.NewManager(userID, s.cfg.Persona, s.cfg.Store, s.cfg.Retriever, s.cfg.MemoryConfig)
	if err != nil {
		log.Printf("[SERVER] session setup failed for user=%s: %v", userID, err)
		http.Error(w, "session setup failed", http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SERVER] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var opts []agent.Option
	if s.cfg.GenerateTimeout > 0 {
		opts = append(opts, agent.WithGenerateTimeout(s.cfg.GenerateTimeout))
	}
	a := agent.New(userID, s.cfg.Persona, mgr, s.cfg.Connector, opts...)

	log.Printf("[SERVER] session started user=%s persona=%s", userID, s.cfg.Persona.PersonaID)
	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[SERVER] session ended user=%s: %v", userID, err)
			return
		}
		if msgType != websocket.TextMessage || len(payload) == 0 {
			continue
		}

		response, err := a.ProcessQuery(r.Context(), string(payload))
		if err != nil {
			// Persistence failed; the turn is lost but the session survives.
			log.Printf("[SERVER] turn failed user=%s: %v", userID, err)
			response = "Something went wrong saving this conversation turn. Please try again."
		}

		if err := conn.WriteMessage(websocket.TextMessage, []byte(response)); err != nil {
			log.Printf("[SERVER] write failed user=%s: %v", userID, err)
			return
		}
	}
}
