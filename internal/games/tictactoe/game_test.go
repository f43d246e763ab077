package tictactoe

import (
	"errors"
	"testing"
)

func newInProgress(t *testing.T) *Match {
	t.Helper()
	m := New("TTTEST", "alice", "tok-x")
	num, err := m.Join("bob", "tok-o", "conn-o")
	if err != nil {
		t.Fatalf("Join() failed: %v", err)
	}
	if num != 2 {
		t.Fatalf("Expected seat 2 for O, got %d", num)
	}
	if m.Status() != StatusInProgress {
		t.Fatalf("Expected in_progress after both seats filled, got %v", m.Status())
	}
	return m
}

func TestMoveValidation(t *testing.T) {
	m := New("TTTEST", "alice", "tok-x")

	// Moves before the second player joins are rejected.
	if _, err := m.MakeMove("tok-x", 0); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("Expected ErrNotInProgress for waiting match, got %v", err)
	}

	m = newInProgress(t)

	if _, err := m.MakeMove("tok-x", 9); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("Expected ErrInvalidPosition, got %v", err)
	}
	if _, err := m.MakeMove("tok-x", -1); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("Expected ErrInvalidPosition, got %v", err)
	}
	if _, err := m.MakeMove("nobody", 0); !errors.Is(err, ErrNotAPlayer) {
		t.Errorf("Expected ErrNotAPlayer, got %v", err)
	}

	// X moves first.
	if _, err := m.MakeMove("tok-o", 0); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("Expected ErrNotYourTurn for O's early move, got %v", err)
	}
	if _, err := m.MakeMove("tok-x", 4); err != nil {
		t.Fatalf("Valid X move failed: %v", err)
	}
	if _, err := m.MakeMove("tok-x", 0); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("Expected ErrNotYourTurn for X's double move, got %v", err)
	}
	if _, err := m.MakeMove("tok-o", 4); !errors.Is(err, ErrCellOccupied) {
		t.Errorf("Expected ErrCellOccupied, got %v", err)
	}
}

func TestXWinsRow(t *testing.T) {
	m := newInProgress(t)

	// X: 0, 1, 2 (top row); O: 3, 4.
	moves := []struct {
		tok string
		pos int
	}{
		{"tok-x", 0}, {"tok-o", 3}, {"tok-x", 1}, {"tok-o", 4},
	}
	for _, mv := range moves {
		if _, err := m.MakeMove(mv.tok, mv.pos); err != nil {
			t.Fatalf("Move %s@%d failed: %v", mv.tok, mv.pos, err)
		}
	}

	events, err := m.MakeMove("tok-x", 2)
	if err != nil {
		t.Fatalf("Winning move failed: %v", err)
	}
	if m.Status() != StatusXWins {
		t.Errorf("Expected x_wins, got %v", m.Status())
	}
	if len(events) != 2 {
		t.Fatalf("Expected MoveMade + GameOver, got %d events", len(events))
	}
	over, ok := events[1].Payload.(GameOverPayload)
	if !ok {
		t.Fatalf("Second event payload is %T, want GameOverPayload", events[1].Payload)
	}
	if over.WinnerName != "alice" {
		t.Errorf("Expected winner alice, got %q", over.WinnerName)
	}
	want := []int{0, 1, 2}
	if len(over.WinLine) != 3 || over.WinLine[0] != want[0] || over.WinLine[1] != want[1] || over.WinLine[2] != want[2] {
		t.Errorf("Expected win line %v, got %v", want, over.WinLine)
	}

	// Further moves are rejected and summary records the result.
	if _, err := m.MakeMove("tok-o", 5); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("Expected ErrNotInProgress after game over, got %v", err)
	}
	s := m.Summary()
	if s.Game != "tictactoe" || s.Status != "x_wins" || s.Turns != 5 {
		t.Errorf("Unexpected summary: %+v", s)
	}
}

func TestDrawAtNineMoves(t *testing.T) {
	m := newInProgress(t)

	// X O X / X O O / O X X: full board, no line.
	seq := []struct {
		tok string
		pos int
	}{
		{"tok-x", 0}, {"tok-o", 1}, {"tok-x", 2},
		{"tok-o", 4}, {"tok-x", 3}, {"tok-o", 5},
		{"tok-x", 7}, {"tok-o", 6}, {"tok-x", 8},
	}
	for _, mv := range seq {
		if _, err := m.MakeMove(mv.tok, mv.pos); err != nil {
			t.Fatalf("Move %s@%d failed: %v", mv.tok, mv.pos, err)
		}
	}
	if m.Status() != StatusDraw {
		t.Errorf("Expected draw on full board, got %v", m.Status())
	}
	if m.Summary().WinnerName != "" {
		t.Errorf("Expected no winner on draw, got %q", m.Summary().WinnerName)
	}
}

func TestJoinRules(t *testing.T) {
	m := newInProgress(t)

	// Known tokens reconnect to their seats.
	if num, err := m.Join("alice", "tok-x", "conn-x2"); err != nil || num != 1 {
		t.Errorf("X reconnect: got seat %d, err %v", num, err)
	}
	if num, err := m.Join("bob", "tok-o", "conn-o2"); err != nil || num != 2 {
		t.Errorf("O reconnect: got seat %d, err %v", num, err)
	}

	// A third session is rejected.
	if _, err := m.Join("carol", "tok-c", "conn-c"); err == nil {
		t.Error("Expected join to fail for a full match")
	}

	// Joining an ended match reports it as over.
	m.Abandon()
	if _, err := m.Join("carol", "tok-c", "conn-c"); !errors.Is(err, ErrGameOver) {
		t.Errorf("Expected ErrGameOver, got %v", err)
	}
}

func TestFullState(t *testing.T) {
	m := newInProgress(t)
	if _, err := m.MakeMove("tok-x", 4); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	st := m.FullState(2)
	if st.Board != "    X    " {
		t.Errorf("Unexpected board %q", st.Board)
	}
	if st.CurrentTurn != "O" || st.PlayerMark != "O" || st.MoveCount != 1 {
		t.Errorf("Unexpected state: %+v", st)
	}
}
