// Package tron implements the light-cycle race: a 60x40 grid where both
// players advance one cell per tick and leave an impassable trail.
package tron

import (
	"math"
	"sync"
	"time"

	"ws-arcade/internal/arena"
)

// Arena dimensions and timing.
const (
	GridWidth  = 60
	GridHeight = 40

	// TickPeriod is the fixed simulation step.
	TickPeriod = 100 * time.Millisecond

	// countdownTicks is 3 seconds at the 100ms tick.
	countdownTicks = 30
)

// Direction is a cycle's heading on the grid.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "right"
	}
}

// ParseDirection maps a wire direction to its enum; ok is false for an
// unknown value.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return 0, false
}

func opposite(a, b Direction) bool {
	return (a == Up && b == Down) || (a == Down && b == Up) ||
		(a == Left && b == Right) || (a == Right && b == Left)
}

// Status is the match phase.
type Status int

const (
	StatusWaiting Status = iota
	StatusCountdown
	StatusInProgress
	StatusPlayer1Wins
	StatusPlayer2Wins
	StatusDraw
	StatusAbandoned
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusCountdown:
		return "countdown"
	case StatusInProgress:
		return "in_progress"
	case StatusPlayer1Wins:
		return "player1_wins"
	case StatusPlayer2Wins:
		return "player2_wins"
	case StatusDraw:
		return "draw"
	default:
		return "abandoned"
	}
}

func (s Status) terminal() bool {
	return s == StatusPlayer1Wins || s == StatusPlayer2Wins || s == StatusDraw || s == StatusAbandoned
}

// Player holds one cycle's authoritative state.
type Player struct {
	X, Y      int
	Direction Direction
	Pending   *Direction
	Alive     bool

	Name         string
	SessionToken string
	ConnID       string
}

// Match is one light-cycle session. All mutation happens under mu:
// direction input merely stages the pending heading, consumed at the
// start of the next Advance.
type Match struct {
	mu sync.Mutex

	code      string
	status    Status
	grid      [GridWidth][GridHeight]byte // 0 empty, 1 P1 trail, 2 P2 trail
	p1        Player
	p2        *Player
	tickCount int
	countdown int
	createdAt time.Time
	startedAt time.Time
}

// New creates a waiting match with player 1 bound.
func New(code, playerName, sessionToken string) *Match {
	m := &Match{
		code:      code,
		status:    StatusWaiting,
		createdAt: time.Now(),
		p1: Player{
			X: 15, Y: 20,
			Direction:    Right,
			Alive:        true,
			Name:         playerName,
			SessionToken: sessionToken,
		},
	}
	m.grid[m.p1.X][m.p1.Y] = 1
	return m
}

// Code implements arena.Match.
func (m *Match) Code() string { return m.code }

// CreatedAt implements arena.Match.
func (m *Match) CreatedAt() time.Time { return m.createdAt }

// Status returns the current phase.
func (m *Match) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Ticking implements arena.Match.
func (m *Match) Ticking() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status == StatusCountdown || m.status == StatusInProgress
}

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

// Abandon implements arena.Match.
func (m *Match) Abandon() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.status.terminal() {
		m.status = StatusAbandoned
	}
}

// Join implements arena.Match. A known session token reattaches its
// connection; a new token binds player 2 while the match is waiting.
func (m *Match) Join(playerName, sessionToken, connID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.p1.SessionToken == sessionToken {
		m.p1.ConnID = connID
		return 1, nil
	}
	if m.p2 != nil && m.p2.SessionToken == sessionToken {
		m.p2.ConnID = connID
		return 2, nil
	}

	if m.status != StatusWaiting || m.p2 != nil {
		return 0, arena.ErrMatchFull
	}

	m.p2 = &Player{
		X: 45, Y: 20,
		Direction:    Left,
		Alive:        true,
		Name:         playerName,
		SessionToken: sessionToken,
		ConnID:       connID,
	}
	m.grid[m.p2.X][m.p2.Y] = 2
	m.status = StatusCountdown
	m.countdown = countdownTicks
	return 2, nil
}

// DropConnection implements arena.Match.
func (m *Match) DropConnection(connID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if connID == "" {
		return false
	}
	if m.p1.ConnID == connID {
		m.p1.ConnID = ""
		return true
	}
	if m.p2 != nil && m.p2.ConnID == connID {
		m.p2.ConnID = ""
		return true
	}
	return false
}

// SetDirection stages a heading change for the next tick. A request for
// the exact opposite of the current heading is rejected here, at input
// time, and never reaches the queue.
func (m *Match) SetDirection(sessionToken string, dir Direction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.playerByToken(sessionToken)
	if p == nil || !p.Alive {
		return
	}
	if opposite(p.Direction, dir) {
		return
	}
	d := dir
	p.Pending = &d
}

// Advance implements arena.Match: one grid step per tick.
func (m *Match) Advance(now time.Time) []arena.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.status {
	case StatusCountdown:
		m.countdown--
		if m.countdown <= 0 {
			m.status = StatusInProgress
			m.startedAt = now
			return []arena.Event{arena.Group(arena.EventCountdown, CountdownPayload{Seconds: 0})}
		}
		seconds := int(math.Ceil(float64(m.countdown) / 10.0))
		return []arena.Event{arena.Group(arena.EventCountdown, CountdownPayload{Seconds: seconds})}

	case StatusInProgress:
		return m.step()

	default:
		return nil
	}
}

// step advances both cycles one cell and resolves collisions in
// priority order: out-of-bounds, same-cell head-on, swap head-on, then
// trail occupancy.
func (m *Match) step() []arena.Event {
	if m.p2 == nil {
		return nil
	}
	m.tickCount++

	if m.p1.Pending != nil {
		m.p1.Direction = *m.p1.Pending
		m.p1.Pending = nil
	}
	if m.p2.Pending != nil {
		m.p2.Direction = *m.p2.Pending
		m.p2.Pending = nil
	}

	p1x, p1y := next(&m.p1)
	p2x, p2y := next(m.p2)

	p1Dead := p1x < 0 || p1x >= GridWidth || p1y < 0 || p1y >= GridHeight
	p2Dead := p2x < 0 || p2x >= GridWidth || p2y < 0 || p2y >= GridHeight

	// Both heading into the same cell.
	if !p1Dead && !p2Dead && p1x == p2x && p1y == p2y {
		p1Dead, p2Dead = true, true
	}

	// Trading cells: each moves into the cell the other just vacated.
	if !p1Dead && !p2Dead &&
		p1x == m.p2.X && p1y == m.p2.Y &&
		p2x == m.p1.X && p2y == m.p1.Y {
		p1Dead, p2Dead = true, true
	}

	if !p1Dead && m.grid[p1x][p1y] != 0 {
		p1Dead = true
	}
	if !p2Dead && m.grid[p2x][p2y] != 0 {
		p2Dead = true
	}

	var trails []TrailCell
	if p1Dead {
		m.p1.Alive = false
	} else {
		m.p1.X, m.p1.Y = p1x, p1y
		m.grid[p1x][p1y] = 1
		trails = append(trails, TrailCell{X: p1x, Y: p1y, Player: 1})
	}
	if p2Dead {
		m.p2.Alive = false
	} else {
		m.p2.X, m.p2.Y = p2x, p2y
		m.grid[p2x][p2y] = 2
		trails = append(trails, TrailCell{X: p2x, Y: p2y, Player: 2})
	}

	switch {
	case p1Dead && p2Dead:
		m.status = StatusDraw
	case p1Dead:
		m.status = StatusPlayer2Wins
	case p2Dead:
		m.status = StatusPlayer1Wins
	}

	events := []arena.Event{arena.Group(EventTick, TickPayload{
		P1:        CyclePayload{X: m.p1.X, Y: m.p1.Y, Alive: m.p1.Alive},
		P2:        CyclePayload{X: m.p2.X, Y: m.p2.Y, Alive: m.p2.Alive},
		NewTrails: trails,
		Tick:      m.tickCount,
	})}

	if m.status.terminal() {
		events = append(events, arena.Group(arena.EventGameOver, GameOverPayload{
			Status:     m.status.String(),
			WinnerName: m.winnerNameLocked(),
		}))
	}
	return events
}

func next(p *Player) (int, int) {
	switch p.Direction {
	case Up:
		return p.X, p.Y - 1
	case Down:
		return p.X, p.Y + 1
	case Left:
		return p.X - 1, p.Y
	default:
		return p.X + 1, p.Y
	}
}

func (m *Match) playerByToken(sessionToken string) *Player {
	if m.p1.SessionToken == sessionToken {
		return &m.p1
	}
	if m.p2 != nil && m.p2.SessionToken == sessionToken {
		return m.p2
	}
	return nil
}

// PlayerNumber resolves a session token to a slot, 0 if unknown.
func (m *Match) PlayerNumber(sessionToken string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.p1.SessionToken == sessionToken {
		return 1
	}
	if m.p2 != nil && m.p2.SessionToken == sessionToken {
		return 2
	}
	return 0
}

func (m *Match) winnerNameLocked() string {
	switch m.status {
	case StatusPlayer1Wins:
		return m.p1.Name
	case StatusPlayer2Wins:
		if m.p2 != nil {
			return m.p2.Name
		}
	}
	return ""
}

// Summary implements arena.Match.
func (m *Match) Summary() arena.MatchSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	p2Name := ""
	if m.p2 != nil {
		p2Name = m.p2.Name
	}
	started := m.startedAt
	if started.IsZero() {
		started = m.createdAt
	}
	return arena.MatchSummary{
		Game:        "tron",
		Code:        m.code,
		Player1Name: m.p1.Name,
		Player2Name: p2Name,
		WinnerName:  m.winnerNameLocked(),
		Status:      m.status.String(),
		Turns:       m.tickCount,
		StartedAt:   started,
		CompletedAt: time.Now(),
	}
}

// FullState builds the GameState snapshot sent on join and reconnect.
func (m *Match) FullState(playerNumber int) StatePayload {
	m.mu.Lock()
	defer m.mu.Unlock()

	var trails []TrailCell
	for x := 0; x < GridWidth; x++ {
		for y := 0; y < GridHeight; y++ {
			if m.grid[x][y] != 0 {
				trails = append(trails, TrailCell{X: x, Y: y, Player: int(m.grid[x][y])})
			}
		}
	}

	st := StatePayload{
		GridWidth:    GridWidth,
		GridHeight:   GridHeight,
		Status:       m.status.String(),
		PlayerNumber: playerNumber,
		Tick:         m.tickCount,
		Trails:       trails,
		P1:           NamedCyclePayload{CyclePayload: CyclePayload{X: m.p1.X, Y: m.p1.Y, Alive: m.p1.Alive}, Name: m.p1.Name},
	}
	if m.p2 != nil {
		st.P2 = &NamedCyclePayload{CyclePayload: CyclePayload{X: m.p2.X, Y: m.p2.Y, Alive: m.p2.Alive}, Name: m.p2.Name}
	}
	return st
}

// Ensure Match satisfies the framework contract.
var _ arena.Match = (*Match)(nil)
