// Package asteroids implements the co-op rock shooter: both ships share
// one wrapping arena, waves escalate until neither player has lives
// left, and the higher score takes the match.
package asteroids

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"ws-arcade/internal/arena"
)

// Arena dimensions and timing.
const (
	ArenaWidth  = 1200.0
	ArenaHeight = 800.0

	// TickPeriod is the fixed simulation step.
	TickPeriod = 60 * time.Millisecond

	countdownTicks = 48
)

// Ship tuning.
const (
	shipThrust        = 0.15
	shipMaxSpeed      = 5.0
	shipDrag          = 0.99
	shipRotationSpeed = 0.07
	shipRadius        = 15.0
	shipStartLives    = 3
	shipInvulnTicks   = 48
	shipRespawnDelay  = 32
)

// Bullet and wave tuning.
const (
	bulletSpeed         = 7.0
	bulletLifetime      = 60
	bulletCooldown      = 8
	maxBulletsPerPlayer = 5
	wavePauseTicks      = 32
	safeSpawnDistance   = 100.0
)

// Status is the match phase.
type Status int

const (
	StatusWaiting Status = iota
	StatusCountdown
	StatusInProgress
	StatusGameOver
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
	case StatusGameOver:
		return "game_over"
	default:
		return "abandoned"
	}
}

func (s Status) terminal() bool {
	return s == StatusGameOver || s == StatusAbandoned
}

// Match is one asteroids session. Inputs are staged by SetInput and
// consumed by the next Advance; everything else happens under mu inside
// the tick.
type Match struct {
	mu sync.Mutex

	code      string
	status    Status
	p1        Ship
	p2        *Ship
	p1Input   Input
	p2Input   Input
	asteroids []*Asteroid
	bullets   []*Bullet
	rng       *rand.Rand

	tickCount     int
	countdown     int
	wave          int
	wavePauseLeft int
	rocksChanged  bool
	nextRockID    int
	nextBulletID  int

	createdAt time.Time
	startedAt time.Time
}

// New creates a waiting match with player 1 bound.
func New(code, playerName, sessionToken string) *Match {
	return &Match{
		code:      code,
		status:    StatusWaiting,
		createdAt: time.Now(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		p1: Ship{
			X: ArenaWidth / 3, Y: ArenaHeight / 2,
			Alive:        true,
			Lives:        shipStartLives,
			Name:         playerName,
			SessionToken: sessionToken,
		},
	}
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

	m.p2 = &Ship{
		X: ArenaWidth * 2 / 3, Y: ArenaHeight / 2,
		Rotation:     math.Pi,
		Alive:        true,
		Lives:        shipStartLives,
		Name:         playerName,
		SessionToken: sessionToken,
		ConnID:       connID,
	}
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

// SetInput replaces a player's staged control snapshot.
func (m *Match) SetInput(sessionToken string, in Input) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.p1.SessionToken == sessionToken {
		m.p1Input = in
	} else if m.p2 != nil && m.p2.SessionToken == sessionToken {
		m.p2Input = in
	}
}

// Advance implements arena.Match: one 60ms simulation step.
func (m *Match) Advance(now time.Time) []arena.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.status {
	case StatusCountdown:
		m.countdown--
		if m.countdown <= 0 {
			m.status = StatusInProgress
			m.startedAt = now
			m.wave = 1
			m.spawnWave()
			return []arena.Event{arena.Group(arena.EventCountdown, CountdownPayload{Seconds: 0})}
		}
		seconds := int(math.Ceil(float64(m.countdown) / 16.0))
		return []arena.Event{arena.Group(arena.EventCountdown, CountdownPayload{Seconds: seconds})}

	case StatusInProgress:
		return m.step()

	default:
		return nil
	}
}

func (m *Match) step() []arena.Event {
	if m.p2 == nil {
		return nil
	}
	m.tickCount++
	m.rocksChanged = false

	var explosions []ExplosionPayload

	m.processInput(&m.p1, m.p1Input, 1)
	m.processInput(m.p2, m.p2Input, 2)

	moveShip(&m.p1)
	moveShip(m.p2)

	m.handleRespawn(&m.p1, 1)
	m.handleRespawn(m.p2, 2)

	m.moveBullets()
	m.moveAsteroids()

	m.checkNuke(&m.p1, m.p1Input, &explosions)
	m.checkNuke(m.p2, m.p2Input, &explosions)

	m.collideBullets(&explosions)
	m.collideShip(&m.p1, &explosions)
	m.collideShip(m.p2, &explosions)

	if len(m.asteroids) == 0 && m.wavePauseLeft <= 0 {
		m.wavePauseLeft = wavePauseTicks
	}
	if m.wavePauseLeft > 0 {
		m.wavePauseLeft--
		if m.wavePauseLeft <= 0 && len(m.asteroids) == 0 {
			m.wave++
			// A shared nuke drop every third wave.
			if m.wave%3 == 1 && m.wave > 1 {
				m.p1.NukesRemaining++
				m.p2.NukesRemaining++
			}
			m.spawnWave()
		}
	}

	statusChange := ""
	if m.p1.Lives <= 0 && !m.p1.Alive && m.p2.Lives <= 0 && !m.p2.Alive {
		m.status = StatusGameOver
		statusChange = m.status.String()
	}

	p2State := m.shipPayload(m.p2, m.p2Input)
	tick := TickPayload{
		Tick:       m.tickCount,
		P1:         m.shipPayload(&m.p1, m.p1Input),
		P2:         &p2State,
		Bullets:    m.bulletPayloads(),
		Explosions: explosions,
		P1Score:    m.p1.Score,
		P2Score:    m.p2.Score,
		P1Lives:    m.p1.Lives,
		P2Lives:    m.p2.Lives,
		P1Nukes:    m.p1.NukesRemaining,
		P2Nukes:    m.p2.NukesRemaining,
		Wave:       m.wave,
		Status:     statusChange,
	}
	// Rock positions are client-predicted; the full set goes out only
	// when it actually changed.
	if m.rocksChanged {
		tick.Asteroids = m.asteroidPayloads()
	}

	events := []arena.Event{arena.Group(EventTick, tick)}
	if m.status == StatusGameOver {
		events = append(events, arena.Group(arena.EventGameOver, GameOverPayload{
			P1Score:    m.p1.Score,
			P2Score:    m.p2.Score,
			Wave:       m.wave,
			WinnerName: m.winnerNameLocked(),
		}))
	}
	return events
}

func (m *Match) processInput(ship *Ship, in Input, playerNum int) {
	if !ship.Alive {
		return
	}

	if in.RotateLeft {
		ship.Rotation -= shipRotationSpeed
	}
	if in.RotateRight {
		ship.Rotation += shipRotationSpeed
	}

	if in.Thrust {
		ship.VX += math.Cos(ship.Rotation) * shipThrust
		ship.VY += math.Sin(ship.Rotation) * shipThrust
		speed := math.Hypot(ship.VX, ship.VY)
		if speed > shipMaxSpeed {
			ship.VX = ship.VX / speed * shipMaxSpeed
			ship.VY = ship.VY / speed * shipMaxSpeed
		}
	}

	if in.Fire && ship.FireCooldown <= 0 {
		live := 0
		for _, b := range m.bullets {
			if b.Owner == playerNum {
				live++
			}
		}
		if live < maxBulletsPerPlayer {
			m.nextBulletID++
			m.bullets = append(m.bullets, &Bullet{
				ID:             m.nextBulletID,
				X:              ship.X + math.Cos(ship.Rotation)*shipRadius,
				Y:              ship.Y + math.Sin(ship.Rotation)*shipRadius,
				VX:             math.Cos(ship.Rotation)*bulletSpeed + ship.VX*0.3,
				VY:             math.Sin(ship.Rotation)*bulletSpeed + ship.VY*0.3,
				Owner:          playerNum,
				TicksRemaining: bulletLifetime,
			})
			ship.FireCooldown = bulletCooldown
		}
	}

	if ship.FireCooldown > 0 {
		ship.FireCooldown--
	}
	if ship.InvulnerableFor > 0 {
		ship.InvulnerableFor--
	}

	// The nuke key is edge-triggered: releasing it re-arms the latch.
	if !in.Nuke {
		ship.nukeLatched = false
	}
}

func moveShip(ship *Ship) {
	if !ship.Alive {
		return
	}
	ship.VX *= shipDrag
	ship.VY *= shipDrag
	ship.X = wrap(ship.X+ship.VX, ArenaWidth)
	ship.Y = wrap(ship.Y+ship.VY, ArenaHeight)
}

func (m *Match) handleRespawn(ship *Ship, playerNum int) {
	if ship.Alive || ship.Lives <= 0 {
		return
	}
	ship.RespawnIn--
	if ship.RespawnIn <= 0 {
		ship.Alive = true
		ship.InvulnerableFor = shipInvulnTicks
		ship.VX, ship.VY = 0, 0
		ship.Y = ArenaHeight / 2
		if playerNum == 1 {
			ship.X = ArenaWidth / 3
			ship.Rotation = 0
		} else {
			ship.X = ArenaWidth * 2 / 3
			ship.Rotation = math.Pi
		}
	}
}

func (m *Match) moveBullets() {
	kept := m.bullets[:0]
	for _, b := range m.bullets {
		b.X = wrap(b.X+b.VX, ArenaWidth)
		b.Y = wrap(b.Y+b.VY, ArenaHeight)
		b.TicksRemaining--
		if b.TicksRemaining > 0 {
			kept = append(kept, b)
		}
	}
	m.bullets = kept
}

func (m *Match) moveAsteroids() {
	for _, a := range m.asteroids {
		a.X = wrap(a.X+a.VX, ArenaWidth)
		a.Y = wrap(a.Y+a.VY, ArenaHeight)
		a.Rotation += a.RotationSpeed
	}
}

func (m *Match) checkNuke(ship *Ship, in Input, explosions *[]ExplosionPayload) {
	if !ship.Alive || !in.Nuke || ship.nukeLatched {
		return
	}
	ship.nukeLatched = true

	if ship.NukesRemaining <= 0 {
		return
	}
	ship.NukesRemaining--

	for _, a := range m.asteroids {
		ship.Score += a.Size.Points()
	}
	*explosions = append(*explosions, ExplosionPayload{X: ship.X, Y: ship.Y, Size: "nuke"})
	m.asteroids = nil
	m.rocksChanged = true
}

func (m *Match) collideBullets(explosions *[]ExplosionPayload) {
	kept := m.bullets[:0]
	for _, b := range m.bullets {
		hit := false
		for _, a := range m.asteroids {
			if !circlesOverlap(b.X, b.Y, bulletRadius, a.X, a.Y, a.Size.Radius()) {
				continue
			}
			scorer := &m.p1
			if b.Owner == 2 {
				scorer = m.p2
			}
			scorer.Score += a.Size.Points()

			*explosions = append(*explosions, ExplosionPayload{X: a.X, Y: a.Y, Size: a.Size.String()})
			m.splitAsteroid(a)
			m.rocksChanged = true
			hit = true
			break
		}
		if !hit {
			kept = append(kept, b)
		}
	}
	m.bullets = kept
}

func (m *Match) collideShip(ship *Ship, explosions *[]ExplosionPayload) {
	if !ship.Alive || ship.InvulnerableFor > 0 {
		return
	}
	for _, a := range m.asteroids {
		if !circlesOverlap(ship.X, ship.Y, shipRadius, a.X, a.Y, a.Size.Radius()) {
			continue
		}
		ship.Alive = false
		ship.Lives--
		ship.RespawnIn = shipRespawnDelay
		ship.VX, ship.VY = 0, 0

		*explosions = append(*explosions, ExplosionPayload{X: ship.X, Y: ship.Y, Size: "ship"})
		*explosions = append(*explosions, ExplosionPayload{X: a.X, Y: a.Y, Size: a.Size.String()})
		m.splitAsteroid(a)
		m.rocksChanged = true
		return
	}
}

// splitAsteroid removes a and, unless it was small, replaces it with
// two faster children one size down, fanned off the parent heading.
func (m *Match) splitAsteroid(a *Asteroid) {
	for i, cur := range m.asteroids {
		if cur == a {
			m.asteroids = append(m.asteroids[:i], m.asteroids[i+1:]...)
			break
		}
	}
	if a.Size == SizeSmall {
		return
	}

	newSize := SizeMedium
	if a.Size == SizeMedium {
		newSize = SizeSmall
	}
	speed := math.Hypot(a.VX, a.VY)
	baseAngle := math.Atan2(a.VY, a.VX)

	for i := 0; i < 2; i++ {
		spread := 0.5
		if i == 0 {
			spread = -0.5
		}
		angle := baseAngle + spread + m.rng.Float64()*0.8 - 0.4
		newSpeed := speed * (1.2 + m.rng.Float64()*0.5)

		m.nextRockID++
		m.asteroids = append(m.asteroids, &Asteroid{
			ID:            m.nextRockID,
			X:             a.X,
			Y:             a.Y,
			VX:            math.Cos(angle) * newSpeed,
			VY:            math.Sin(angle) * newSpeed,
			Size:          newSize,
			Rotation:      m.rng.Float64() * 2 * math.Pi,
			RotationSpeed: m.rng.Float64()*0.06 - 0.03,
			ShapeVariant:  m.rng.Intn(5),
		})
	}
}

func (m *Match) spawnWave() {
	count := 4 + m.wave - 1
	if count > 11 {
		count = 11
	}
	speedMult := 1.0 + float64(m.wave-1)*0.1

	for i := 0; i < count; i++ {
		var x, y float64
		for {
			// Rocks enter from the arena edges, never on top of a ship.
			switch m.rng.Intn(4) {
			case 0:
				x, y = 0, m.rng.Float64()*ArenaHeight
			case 1:
				x, y = ArenaWidth, m.rng.Float64()*ArenaHeight
			case 2:
				x, y = m.rng.Float64()*ArenaWidth, 0
			default:
				x, y = m.rng.Float64()*ArenaWidth, ArenaHeight
			}
			if distanceSq(x, y, m.p1.X, m.p1.Y) < safeSpawnDistance*safeSpawnDistance {
				continue
			}
			if m.p2 != nil && distanceSq(x, y, m.p2.X, m.p2.Y) < safeSpawnDistance*safeSpawnDistance {
				continue
			}
			break
		}

		angle := m.rng.Float64() * 2 * math.Pi
		speed := (0.5 + m.rng.Float64()) * speedMult

		m.nextRockID++
		m.asteroids = append(m.asteroids, &Asteroid{
			ID:            m.nextRockID,
			X:             x,
			Y:             y,
			VX:            math.Cos(angle) * speed,
			VY:            math.Sin(angle) * speed,
			Size:          SizeLarge,
			Rotation:      m.rng.Float64() * 2 * math.Pi,
			RotationSpeed: m.rng.Float64()*0.04 - 0.02,
			ShapeVariant:  m.rng.Intn(5),
		})
	}
	m.rocksChanged = true
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
	if m.p2 == nil || m.p1.Score >= m.p2.Score {
		return m.p1.Name
	}
	return m.p2.Name
}

// Summary implements arena.Match.
func (m *Match) Summary() arena.MatchSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	p2Name, p2Score := "", 0
	if m.p2 != nil {
		p2Name, p2Score = m.p2.Name, m.p2.Score
	}
	winner := ""
	if m.status == StatusGameOver {
		winner = m.winnerNameLocked()
	}
	started := m.startedAt
	if started.IsZero() {
		started = m.createdAt
	}
	return arena.MatchSummary{
		Game:         "asteroids",
		Code:         m.code,
		Player1Name:  m.p1.Name,
		Player2Name:  p2Name,
		Player1Score: m.p1.Score,
		Player2Score: p2Score,
		WinnerName:   winner,
		Status:       m.status.String(),
		Turns:        m.tickCount,
		StartedAt:    started,
		CompletedAt:  time.Now(),
	}
}

// FullState builds the snapshot sent on join and reconnect.
func (m *Match) FullState(playerNumber int) StatePayload {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := StatePayload{
		ArenaWidth:   ArenaWidth,
		ArenaHeight:  ArenaHeight,
		Status:       m.status.String(),
		PlayerNumber: playerNumber,
		Tick:         m.tickCount,
		P1:           m.shipPayload(&m.p1, m.p1Input),
		P1Name:       m.p1.Name,
		Asteroids:    m.asteroidPayloads(),
		Bullets:      m.bulletPayloads(),
		P1Score:      m.p1.Score,
		P1Lives:      m.p1.Lives,
		P1Nukes:      m.p1.NukesRemaining,
		Wave:         m.wave,
	}
	if m.p2 != nil {
		p2 := m.shipPayload(m.p2, m.p2Input)
		st.P2 = &p2
		st.P2Name = m.p2.Name
		st.P2Score = m.p2.Score
		st.P2Lives = m.p2.Lives
		st.P2Nukes = m.p2.NukesRemaining
	}
	return st
}

func (m *Match) shipPayload(s *Ship, in Input) ShipPayload {
	return ShipPayload{
		X:            s.X,
		Y:            s.Y,
		Rotation:     s.Rotation,
		Alive:        s.Alive,
		Thrusting:    in.Thrust && s.Alive,
		Invulnerable: s.InvulnerableFor > 0,
	}
}

func (m *Match) asteroidPayloads() []AsteroidPayload {
	out := make([]AsteroidPayload, 0, len(m.asteroids))
	for _, a := range m.asteroids {
		out = append(out, AsteroidPayload{
			ID:           a.ID,
			X:            a.X,
			Y:            a.Y,
			Rotation:     a.Rotation,
			Size:         a.Size.String(),
			ShapeVariant: a.ShapeVariant,
		})
	}
	return out
}

func (m *Match) bulletPayloads() []BulletPayload {
	out := make([]BulletPayload, 0, len(m.bullets))
	for _, b := range m.bullets {
		out = append(out, BulletPayload{ID: b.ID, X: b.X, Y: b.Y, Owner: b.Owner})
	}
	return out
}

func circlesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	dx, dy := x1-x2, y1-y2
	rr := r1 + r2
	return dx*dx+dy*dy < rr*rr
}

func distanceSq(x1, y1, x2, y2 float64) float64 {
	dx, dy := x1-x2, y1-y2
	return dx*dx + dy*dy
}

func wrap(v, max float64) float64 {
	if v < 0 {
		return v + max
	}
	if v >= max {
		return v - max
	}
	return v
}

// Ensure Match satisfies the framework contract.
var _ arena.Match = (*Match)(nil)
