// Package server exposes the HTTP and websocket surface: match creation
// endpoints, match history queries, and the inbound command dispatch for
// connected players.
package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"

	"ws-arcade/internal/arena"
	"ws-arcade/internal/games/asteroids"
	"ws-arcade/internal/games/tanks"
	"ws-arcade/internal/games/tictactoe"
	"ws-arcade/internal/games/tron"
	"ws-arcade/internal/hub"
	"ws-arcade/internal/storage"
)

// Registries bundles the per-game match registries the server routes to.
type Registries struct {
	TicTacToe *arena.Registry[*tictactoe.Match]
	Tron      *arena.Registry[*tron.Match]
	Asteroids *arena.Registry[*asteroids.Match]
	Tanks     *arena.Registry[*tanks.Match]
}

// Server routes HTTP requests and websocket commands to the match layer.
type Server struct {
	logger *log.Logger
	hub    *hub.Hub
	store  *storage.Store // nil when persistence is disabled
	reg    Registries

	mu       sync.Mutex
	sessions map[string]*session // connID -> bound seat
}

// session records which seat a connection holds after a join.
type session struct {
	game         string
	code         string
	sessionToken string
}

// New wires a server to its boundaries and installs the disconnect hook
// on the hub.
func New(logger *log.Logger, h *hub.Hub, store *storage.Store, reg Registries) *Server {
	s := &Server{
		logger:   logger,
		hub:      h,
		store:    store,
		reg:      reg,
		sessions: make(map[string]*session),
	}
	h.OnDisconnect = s.handleDisconnect
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/tictactoe/new", s.handleCreateTicTacToe)
	mux.HandleFunc("POST /api/tron/new", s.handleCreateTron)
	mux.HandleFunc("POST /api/asteroids/new", s.handleCreateAsteroids)
	mux.HandleFunc("POST /api/tanks/new", s.handleCreateTanks)

	mux.HandleFunc("GET /api/matches/recent", s.handleRecentMatches)
	mux.HandleFunc("GET /api/matches/{code}", s.handleMatchByCode)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("GET /ws", s.handleWebSocket)

	return mux
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type createRequest struct {
	PlayerName string `json:"playerName"`
	VsAI       bool   `json:"vsAi,omitempty"` // tanks only
}

type createResponse struct {
	Code         string `json:"code"`
	SessionToken string `json:"sessionToken"`
}

func decodeCreate(req *http.Request) createRequest {
	var body createRequest
	// An empty or malformed body just means defaults.
	_ = json.NewDecoder(req.Body).Decode(&body)
	if body.PlayerName == "" {
		body.PlayerName = "Player 1"
	}
	return body
}

func (s *Server) handleCreateTicTacToe(w http.ResponseWriter, req *http.Request) {
	body := decodeCreate(req)
	m, token, err := s.reg.TicTacToe.Create(body.PlayerName)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, createResponse{Code: m.Code(), SessionToken: token})
}

func (s *Server) handleCreateTron(w http.ResponseWriter, req *http.Request) {
	body := decodeCreate(req)
	m, token, err := s.reg.Tron.Create(body.PlayerName)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, createResponse{Code: m.Code(), SessionToken: token})
}

func (s *Server) handleCreateAsteroids(w http.ResponseWriter, req *http.Request) {
	body := decodeCreate(req)
	m, token, err := s.reg.Asteroids.Create(body.PlayerName)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, createResponse{Code: m.Code(), SessionToken: token})
}

func (s *Server) handleCreateTanks(w http.ResponseWriter, req *http.Request) {
	body := decodeCreate(req)
	m, token, err := s.reg.Tanks.Create(body.PlayerName)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if body.VsAI {
		m.AddAI()
	}
	writeJSON(w, http.StatusOK, createResponse{Code: m.Code(), SessionToken: token})
}

func (s *Server) handleRecentMatches(w http.ResponseWriter, req *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence disabled")
		return
	}
	records, err := s.store.RecentMatches(20)
	if err != nil {
		s.logger.Error("failed to query recent matches", "err", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleMatchByCode(w http.ResponseWriter, req *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence disabled")
		return
	}
	record, err := s.store.MatchByCode(req.PathValue("code"))
	if err != nil {
		s.logger.Error("failed to query match", "err", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleStats(w http.ResponseWriter, req *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence disabled")
		return
	}
	stats, err := s.store.StatsByGame()
	if err != nil {
		s.logger.Error("failed to query stats", "err", err)
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
		"matches": map[string]int{
			"tictactoe": s.reg.TicTacToe.Count(),
			"tron":      s.reg.Tron.Count(),
			"asteroids": s.reg.Asteroids.Count(),
			"tanks":     s.reg.Tanks.Count(),
		},
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, req *http.Request) {
	s.hub.Serve(w, req, s.handleMessage)
}
