package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ws-arcade/internal/arena"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func summary(game, code, winner, status string) arena.MatchSummary {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return arena.MatchSummary{
		Game:         game,
		Code:         code,
		Player1Name:  "alice",
		Player2Name:  "bob",
		Player1Score: 3,
		Player2Score: 1,
		WinnerName:   winner,
		Status:       status,
		Turns:        7,
		StartedAt:    started,
		CompletedAt:  started.Add(90 * time.Second),
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Parent directories should have been created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveAndRetrieveSummaries(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveMatchSummary(summary("tron", "ABC123", "alice", "player1_wins")); err != nil {
		t.Fatalf("SaveMatchSummary() failed: %v", err)
	}
	if err := store.SaveMatchSummary(summary("tron", "DEF456", "", "draw")); err != nil {
		t.Fatalf("SaveMatchSummary() failed: %v", err)
	}
	if err := store.SaveMatchSummary(summary("tictactoe", "GHI789", "bob", "o_wins")); err != nil {
		t.Fatalf("SaveMatchSummary() failed: %v", err)
	}

	recent, err := store.RecentMatches(10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 matches, got %d", len(recent))
	}

	// Newest first
	if recent[0].Code != "GHI789" {
		t.Errorf("Expected newest match GHI789 first, got %s", recent[0].Code)
	}
	if recent[0].Game != "tictactoe" {
		t.Errorf("Expected game tictactoe, got %s", recent[0].Game)
	}
	if recent[0].WinnerName != "bob" {
		t.Errorf("Expected winner bob, got %q", recent[0].WinnerName)
	}
	if recent[0].Player1Score != 3 || recent[0].Player2Score != 1 {
		t.Errorf("Scores not round-tripped: %d/%d", recent[0].Player1Score, recent[0].Player2Score)
	}
	if recent[0].Turns != 7 {
		t.Errorf("Expected 7 turns, got %d", recent[0].Turns)
	}

	tronOnly, err := store.MatchesByGame("tron", 10)
	if err != nil {
		t.Fatalf("MatchesByGame() failed: %v", err)
	}
	if len(tronOnly) != 2 {
		t.Errorf("Expected 2 tron matches, got %d", len(tronOnly))
	}
	for _, r := range tronOnly {
		if r.Game != "tron" {
			t.Errorf("Expected only tron matches, got %s", r.Game)
		}
	}
}

func TestMatchByCode(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveMatchSummary(summary("asteroids", "ZZZ999", "alice", "game_over")); err != nil {
		t.Fatalf("SaveMatchSummary() failed: %v", err)
	}

	record, err := store.MatchByCode("ZZZ999")
	if err != nil {
		t.Fatalf("MatchByCode() failed: %v", err)
	}
	if record == nil {
		t.Fatal("Expected a record, got nil")
	}
	if record.Game != "asteroids" {
		t.Errorf("Expected game asteroids, got %s", record.Game)
	}
	if record.StartedAt.IsZero() || record.CompletedAt.IsZero() {
		t.Errorf("Timestamps not round-tripped: started=%v completed=%v", record.StartedAt, record.CompletedAt)
	}
	if got := record.CompletedAt.Sub(record.StartedAt); got != 90*time.Second {
		t.Errorf("Expected 90s duration, got %v", got)
	}

	missing, err := store.MatchByCode("NOSUCH")
	if err != nil {
		t.Fatalf("MatchByCode() failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unknown code, got %+v", missing)
	}
}

func TestStatsByGame(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveMatchSummary(summary("tanks", "AAA111", "alice", "game_over")); err != nil {
		t.Fatalf("SaveMatchSummary() failed: %v", err)
	}
	if err := store.SaveMatchSummary(summary("tanks", "BBB222", "", "game_over")); err != nil {
		t.Fatalf("SaveMatchSummary() failed: %v", err)
	}
	if err := store.SaveMatchSummary(summary("tanks", "CCC333", "", "abandoned")); err != nil {
		t.Fatalf("SaveMatchSummary() failed: %v", err)
	}

	stats, err := store.StatsByGame()
	if err != nil {
		t.Fatalf("StatsByGame() failed: %v", err)
	}

	tanks, ok := stats["tanks"]
	if !ok {
		t.Fatal("Expected stats for tanks")
	}
	if tanks.Matches != 3 {
		t.Errorf("Expected 3 matches, got %d", tanks.Matches)
	}
	if tanks.Draws != 1 {
		t.Errorf("Expected 1 draw, got %d", tanks.Draws)
	}
	if tanks.Abandoned != 1 {
		t.Errorf("Expected 1 abandoned match, got %d", tanks.Abandoned)
	}
}
