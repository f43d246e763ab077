package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"ws-arcade/internal/arena"
	"ws-arcade/internal/games/asteroids"
	"ws-arcade/internal/games/tanks"
	"ws-arcade/internal/games/tictactoe"
	"ws-arcade/internal/games/tron"
	"ws-arcade/internal/hub"
	"ws-arcade/internal/storage"
)

func newTestServer(t *testing.T, store *storage.Store) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	h := hub.New(logger)
	reg := Registries{
		TicTacToe: arena.NewRegistry("tictactoe", tictactoe.New, logger),
		Tron:      arena.NewRegistry("tron", tron.New, logger),
		Asteroids: arena.NewRegistry("asteroids", asteroids.New, logger),
		Tanks:     arena.NewRegistry("tanks", tanks.New, logger),
	}
	return New(logger, h, store, reg)
}

func TestCreateEndpointIssuesCodeAndToken(t *testing.T) {
	s := newTestServer(t, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/tron/new", "application/json",
		strings.NewReader(`{"playerName":"alice"}`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body createResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Code) != 6 {
		t.Errorf("Expected 6-char code, got %q", body.Code)
	}
	if body.SessionToken == "" {
		t.Error("Expected a session token")
	}
	if s.reg.Tron.Count() != 1 {
		t.Errorf("Expected 1 tracked match, got %d", s.reg.Tron.Count())
	}
}

func TestCreateTanksVsAIStartsCountdown(t *testing.T) {
	s := newTestServer(t, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/tanks/new", "application/json",
		strings.NewReader(`{"playerName":"alice","vsAi":true}`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	var body createResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	m, ok := s.reg.Tanks.Lookup(body.Code)
	if !ok {
		t.Fatalf("Match %s not tracked", body.Code)
	}
	if m.Waiting() {
		t.Error("Expected AI match to leave the waiting phase immediately")
	}
}

func TestHistoryEndpoints(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer store.Close()

	if err := store.SaveMatchSummary(arena.MatchSummary{
		Game: "tron", Code: "ABC123", Player1Name: "alice", Player2Name: "bob",
		WinnerName: "alice", Status: "player1_wins",
	}); err != nil {
		t.Fatalf("seeding summary: %v", err)
	}

	s := newTestServer(t, store)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/matches/recent")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var records []storage.MatchRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		t.Fatalf("decoding records: %v", err)
	}
	if len(records) != 1 || records[0].Code != "ABC123" {
		t.Errorf("Expected the seeded match, got %+v", records)
	}

	resp2, err := http.Get(ts.URL + "/api/matches/NOSUCH")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown code, got %d", resp2.StatusCode)
	}
}

func TestHistoryUnavailableWithoutStore(t *testing.T) {
	s := newTestServer(t, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/matches/recent")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without persistence, got %d", resp.StatusCode)
	}
}

func TestJoinBindsSessionAndRoutesMoves(t *testing.T) {
	s := newTestServer(t, nil)

	m, hostToken, err := s.reg.TicTacToe.Create("alice")
	if err != nil {
		t.Fatalf("creating match: %v", err)
	}

	// Fresh player 2 joins without a token; the server mints one.
	guest := &hub.Client{ID: "conn-guest"}
	s.handleMessage(guest, []byte(`{"action":"join","game":"tictactoe","code":"`+m.Code()+`","playerName":"bob"}`))

	sess, ok := s.sessions[guest.ID]
	if !ok {
		t.Fatal("Expected a session for the joined connection")
	}
	if sess.game != "tictactoe" || sess.code != m.Code() {
		t.Errorf("Session bound wrong: %+v", sess)
	}
	if sess.sessionToken == "" {
		t.Error("Expected a minted session token")
	}

	// Host reattaches with the original token.
	host := &hub.Client{ID: "conn-host"}
	s.handleMessage(host, []byte(`{"action":"join","game":"tictactoe","code":"`+m.Code()+`","playerName":"alice","sessionToken":"`+hostToken+`"}`))
	if s.sessions[host.ID] == nil || s.sessions[host.ID].sessionToken != hostToken {
		t.Fatal("Expected host session to reuse the supplied token")
	}

	// X moves first: the host takes the center.
	s.handleMessage(host, []byte(`{"action":"move","position":4}`))
	if got := m.FullState(1).Board; got != "    X    " {
		t.Errorf("Expected X in the center, got %q", got)
	}

	// Guest answers in a corner.
	s.handleMessage(guest, []byte(`{"action":"move","position":0}`))
	if got := m.FullState(1).Board; got != "O   X    " {
		t.Errorf("Expected O in the corner, got %q", got)
	}
}

func TestJoinUnknownCodeLeavesNoSession(t *testing.T) {
	s := newTestServer(t, nil)

	c := &hub.Client{ID: "conn-1"}
	s.handleMessage(c, []byte(`{"action":"join","game":"tron","code":"NOSUCH","playerName":"bob"}`))
	if _, ok := s.sessions[c.ID]; ok {
		t.Error("Expected no session after a failed join")
	}

	s.handleMessage(c, []byte(`{"action":"direction","direction":"up"}`))
	// No session: the command is rejected without panicking.
}
