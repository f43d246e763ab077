package tron

import (
	"testing"
	"time"
)

func newRunning(t *testing.T) *Match {
	t.Helper()

	m := New("TRNTST", "alice", "tok-1")
	num, err := m.Join("bob", "tok-2", "conn-2")
	if err != nil {
		t.Fatalf("Join() failed: %v", err)
	}
	if num != 2 {
		t.Fatalf("Expected player number 2, got %d", num)
	}
	if m.Status() != StatusCountdown {
		t.Fatalf("Expected countdown after join, got %v", m.Status())
	}

	// Drain the 3-second countdown.
	now := time.Now()
	for i := 0; i < countdownTicks; i++ {
		m.Advance(now)
	}
	if m.Status() != StatusInProgress {
		t.Fatalf("Expected in_progress after countdown, got %v", m.Status())
	}
	return m
}

func TestJoinIdempotentBySessionToken(t *testing.T) {
	m := New("TRNTST", "alice", "tok-1")
	if _, err := m.Join("bob", "tok-2", "conn-2"); err != nil {
		t.Fatalf("Join() failed: %v", err)
	}

	// Same token again is a reconnect, not a new slot.
	num, err := m.Join("bob", "tok-2", "conn-2b")
	if err != nil {
		t.Fatalf("Rejoin failed: %v", err)
	}
	if num != 2 {
		t.Errorf("Expected rejoin to return player 2, got %d", num)
	}
	num, err = m.Join("alice", "tok-1", "conn-1")
	if err != nil {
		t.Fatalf("P1 rejoin failed: %v", err)
	}
	if num != 1 {
		t.Errorf("Expected rejoin to return player 1, got %d", num)
	}

	// A third token is rejected once the match left Waiting.
	if _, err := m.Join("carol", "tok-3", "conn-3"); err == nil {
		t.Error("Expected join to fail for a full match")
	}
}

func TestReversalRejectedAtInputTime(t *testing.T) {
	m := newRunning(t)

	// P1 heads right; a left request must not even be queued.
	m.SetDirection("tok-1", Left)
	if m.p1.Pending != nil {
		t.Errorf("Expected 180-degree reversal to be dropped, got pending %v", *m.p1.Pending)
	}

	m.SetDirection("tok-1", Up)
	if m.p1.Pending == nil || *m.p1.Pending != Up {
		t.Error("Expected valid direction change to be queued")
	}
}

func TestHeadOnSameCellDraw(t *testing.T) {
	m := newRunning(t)

	// P1 at x=15 heading right, P2 at x=45 heading left: they meet at
	// x=30 on the same tick (both reach the cell simultaneously).
	now := time.Now()
	for i := 0; i < 14; i++ {
		m.Advance(now)
	}
	if m.p1.X != 29 || m.p2.X != 31 {
		t.Fatalf("Unexpected positions before collision: p1=%d p2=%d", m.p1.X, m.p2.X)
	}

	m.Advance(now)
	if m.Status() != StatusDraw {
		t.Errorf("Expected draw on same-cell head-on, got %v", m.Status())
	}
	if m.p1.Alive || m.p2.Alive {
		t.Error("Expected both players dead after head-on collision")
	}

	// Terminal status is monotonic: further advances change nothing.
	if events := m.Advance(now); events != nil {
		t.Errorf("Expected no events after terminal status, got %d", len(events))
	}
	if m.Status() != StatusDraw {
		t.Errorf("Terminal status changed to %v", m.Status())
	}
}

func TestSwapCollisionDraw(t *testing.T) {
	m := newRunning(t)

	// Place the cycles head to head on adjacent cells so each one moves
	// into the cell the other just vacated.
	m.mu.Lock()
	m.p1.X, m.p1.Y, m.p1.Direction = 10, 10, Right
	m.p2.X, m.p2.Y, m.p2.Direction = 11, 10, Left
	m.mu.Unlock()

	m.Advance(time.Now())
	if m.Status() != StatusDraw {
		t.Errorf("Expected draw on position swap, got %v", m.Status())
	}
	if m.p1.Alive || m.p2.Alive {
		t.Error("Expected both players dead after swap collision")
	}
}

func TestTrailCollision(t *testing.T) {
	m := newRunning(t)

	// After 14 ticks p1 sits at (29,20) with p2 at (31,20). P2 dodges
	// up and turns back left while p1 drives straight into the trail p2
	// left along row 20.
	now := time.Now()
	for i := 0; i < 14; i++ {
		m.Advance(now)
	}
	m.SetDirection("tok-2", Up)
	m.Advance(now) // p1 -> (30,20), p2 -> (31,19)
	m.SetDirection("tok-2", Left)
	m.Advance(now) // p1 -> (31,20): p2 trail

	if m.Status() != StatusPlayer2Wins {
		t.Errorf("Expected player2_wins via trail collision, got %v", m.Status())
	}
	if m.p1.Alive {
		t.Error("Expected player 1 dead after trail hit")
	}
}

func TestWallCollision(t *testing.T) {
	m := newRunning(t)

	m.SetDirection("tok-1", Up)
	now := time.Now()
	m.Advance(now)

	// P1 at y=19 heading up: 20 more ticks hit the wall at y<0. P2
	// travels left from x=45 and has room for all of them.
	for i := 0; i < 19; i++ {
		m.Advance(now)
	}
	if m.Status() != StatusInProgress {
		t.Fatalf("Match ended early: %v", m.Status())
	}
	m.Advance(now)
	if m.Status() != StatusPlayer2Wins {
		t.Errorf("Expected player2_wins after wall hit, got %v", m.Status())
	}
}

func TestFullStateMatchesWorld(t *testing.T) {
	m := newRunning(t)
	now := time.Now()
	m.Advance(now)

	st := m.FullState(1)
	if st.P1.X != m.p1.X || st.P1.Y != m.p1.Y {
		t.Errorf("Snapshot P1 (%d,%d) drifted from world (%d,%d)", st.P1.X, st.P1.Y, m.p1.X, m.p1.Y)
	}
	if st.Tick != m.tickCount {
		t.Errorf("Snapshot tick %d != world tick %d", st.Tick, m.tickCount)
	}
	// Starting cells plus one tick of movement for both players.
	if len(st.Trails) != 4 {
		t.Errorf("Expected 4 trail cells, got %d", len(st.Trails))
	}
}

func TestSummary(t *testing.T) {
	m := newRunning(t)

	// Drive P1 into the wall.
	m.SetDirection("tok-1", Up)
	now := time.Now()
	for i := 0; i < 21; i++ {
		m.Advance(now)
	}
	if m.Status() != StatusPlayer2Wins {
		t.Fatalf("Expected player2_wins, got %v", m.Status())
	}

	s := m.Summary()
	if s.Game != "tron" || s.Code != "TRNTST" {
		t.Errorf("Unexpected summary identity: %+v", s)
	}
	if s.WinnerName != "bob" {
		t.Errorf("Expected winner bob, got %q", s.WinnerName)
	}
	if s.Status != "player2_wins" {
		t.Errorf("Expected status player2_wins, got %q", s.Status)
	}
}
