// Package tictactoe implements the move-driven 3x3 board game. Unlike
// the ticking games it never simulates between inputs: every state
// change happens inside MakeMove.
package tictactoe

import (
	"errors"
	"sync"
	"time"

	"ws-arcade/internal/arena"
)

var winPatterns = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // cols
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Move rejection reasons, sent verbatim to the offending player.
var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrNotInProgress   = errors.New("game is not in progress")
	ErrNotAPlayer      = errors.New("you are not a player in this game")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrGameOver        = errors.New("game is already over")
)

// Status is the match phase.
type Status int

const (
	StatusWaiting Status = iota
	StatusInProgress
	StatusXWins
	StatusOWins
	StatusDraw
	StatusAbandoned
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusInProgress:
		return "in_progress"
	case StatusXWins:
		return "x_wins"
	case StatusOWins:
		return "o_wins"
	case StatusDraw:
		return "draw"
	default:
		return "abandoned"
	}
}

func (s Status) terminal() bool {
	return s >= StatusXWins
}

type player struct {
	Name         string
	SessionToken string
	ConnID       string
}

// Match is one tic-tac-toe session. X is always the creator and always
// moves first.
type Match struct {
	mu sync.Mutex

	code        string
	board       [9]byte // ' ', 'X' or 'O'
	status      Status
	currentTurn byte
	moveCount   int
	winLine     []int
	x           player
	o           *player
	createdAt   time.Time
	startedAt   time.Time
}

// New creates a waiting match with the creator bound as X.
func New(code, playerName, sessionToken string) *Match {
	m := &Match{
		code:        code,
		status:      StatusWaiting,
		currentTurn: 'X',
		createdAt:   time.Now(),
		x:           player{Name: playerName, SessionToken: sessionToken},
	}
	for i := range m.board {
		m.board[i] = ' '
	}
	return m
}

// Code implements arena.Match.
func (m *Match) Code() string { return m.code }

// CreatedAt implements arena.Match.
func (m *Match) CreatedAt() time.Time { return m.createdAt }

// Ticking implements arena.Match. Tic-tac-toe has no simulation loop.
func (m *Match) Ticking() bool { return false }

// Waiting implements arena.Match.
func (m *Match) Waiting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status == StatusWaiting
}

// Finished implements arena.Match.
func (m *Match) Finished() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status.terminal()
}

// Status returns the current phase.
func (m *Match) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Abandon implements arena.Match.
func (m *Match) Abandon() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.status.terminal() {
		m.status = StatusAbandoned
	}
}

// Join implements arena.Match. A known session token reattaches its
// connection; a new token claims the O seat while the match is waiting.
func (m *Match) Join(playerName, sessionToken, connID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.x.SessionToken == sessionToken {
		m.x.ConnID = connID
		return 1, nil
	}
	if m.o != nil && m.o.SessionToken == sessionToken {
		m.o.ConnID = connID
		return 2, nil
	}

	if m.status.terminal() {
		return 0, ErrGameOver
	}
	if m.status != StatusWaiting || m.o != nil {
		return 0, arena.ErrMatchFull
	}

	m.o = &player{Name: playerName, SessionToken: sessionToken, ConnID: connID}
	m.status = StatusInProgress
	m.startedAt = time.Now()
	return 2, nil
}

// DropConnection implements arena.Match.
func (m *Match) DropConnection(connID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if connID == "" {
		return false
	}
	if m.x.ConnID == connID {
		m.x.ConnID = ""
		return true
	}
	if m.o != nil && m.o.ConnID == connID {
		m.o.ConnID = ""
		return true
	}
	return false
}

// Advance implements arena.Match. The game is move-driven, so the tick
// loop has nothing to do here.
func (m *Match) Advance(time.Time) []arena.Event { return nil }

// MakeMove places the caller's mark at position 0..8. On success it
// returns the events to broadcast; on failure the error names the
// reason and nothing changes.
func (m *Match) MakeMove(sessionToken string, position int) ([]arena.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if position < 0 || position > 8 {
		return nil, ErrInvalidPosition
	}
	if m.status != StatusInProgress {
		return nil, ErrNotInProgress
	}

	var mark byte
	switch {
	case m.x.SessionToken == sessionToken:
		mark = 'X'
	case m.o != nil && m.o.SessionToken == sessionToken:
		mark = 'O'
	default:
		return nil, ErrNotAPlayer
	}

	if m.currentTurn != mark {
		return nil, ErrNotYourTurn
	}
	if m.board[position] != ' ' {
		return nil, ErrCellOccupied
	}

	m.board[position] = mark
	m.moveCount++

	if line := m.checkWin(mark); line != nil {
		m.winLine = line
		if mark == 'X' {
			m.status = StatusXWins
		} else {
			m.status = StatusOWins
		}
	} else if m.moveCount >= 9 {
		m.status = StatusDraw
	} else {
		if mark == 'X' {
			m.currentTurn = 'O'
		} else {
			m.currentTurn = 'X'
		}
	}

	events := []arena.Event{arena.Group(EventMoveMade, MovePayload{
		Position:    position,
		Mark:        string(mark),
		CurrentTurn: string(m.currentTurn),
		MoveCount:   m.moveCount,
	})}
	if m.status.terminal() {
		events = append(events, arena.Group(arena.EventGameOver, GameOverPayload{
			Status:     m.status.String(),
			WinLine:    m.winLine,
			WinnerName: m.winnerNameLocked(),
		}))
	}
	return events, nil
}

func (m *Match) checkWin(mark byte) []int {
	for _, p := range winPatterns {
		if m.board[p[0]] == mark && m.board[p[1]] == mark && m.board[p[2]] == mark {
			return []int{p[0], p[1], p[2]}
		}
	}
	return nil
}

// PlayerNumber resolves a session token to a seat, 0 if unknown.
func (m *Match) PlayerNumber(sessionToken string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.x.SessionToken == sessionToken {
		return 1
	}
	if m.o != nil && m.o.SessionToken == sessionToken {
		return 2
	}
	return 0
}

func (m *Match) winnerNameLocked() string {
	switch m.status {
	case StatusXWins:
		return m.x.Name
	case StatusOWins:
		if m.o != nil {
			return m.o.Name
		}
	}
	return ""
}

// Summary implements arena.Match.
func (m *Match) Summary() arena.MatchSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	oName := ""
	if m.o != nil {
		oName = m.o.Name
	}
	started := m.startedAt
	if started.IsZero() {
		started = m.createdAt
	}
	return arena.MatchSummary{
		Game:        "tictactoe",
		Code:        m.code,
		Player1Name: m.x.Name,
		Player2Name: oName,
		WinnerName:  m.winnerNameLocked(),
		Status:      m.status.String(),
		Turns:       m.moveCount,
		StartedAt:   started,
		CompletedAt: time.Now(),
	}
}

// FullState builds the snapshot sent on join and reconnect.
func (m *Match) FullState(playerNumber int) StatePayload {
	m.mu.Lock()
	defer m.mu.Unlock()

	mark := "X"
	if playerNumber == 2 {
		mark = "O"
	}
	return StatePayload{
		Board:       string(m.board[:]),
		Status:      m.status.String(),
		CurrentTurn: string(m.currentTurn),
		PlayerMark:  mark,
		MoveCount:   m.moveCount,
	}
}

// Ensure Match satisfies the framework contract.
var _ arena.Match = (*Match)(nil)
