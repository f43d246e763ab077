// Package tanks implements the turn-based artillery duel: destructible
// terrain, a dealt weapon inventory, timed weapon-select and aiming
// phases, and 16ms projectile physics while a shot is in flight.
package tanks

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"ws-arcade/internal/arena"
)

// Arena dimensions and physics tuning.
const (
	ArenaWidth  = 1200.0
	ArenaHeight = 800.0

	// TickPeriod is the physics step. Countdown and turn-timer work run
	// on coarser multiples of it.
	TickPeriod = 16 * time.Millisecond

	TurnsPerPlayer = 10
	Gravity        = 0.15
	MaxPower       = 100.0
	TankWidth      = 30.0
	TankHeight     = 16.0
	BarrelLength   = 22.0
)

const (
	countdownTicks   = 30 // 3s at the 100ms countdown cadence
	weaponSelectTime = 15 * time.Second
	aimingTime       = 15 * time.Second
	aiThinkTime      = 1500 * time.Millisecond

	// Sub-tick cadences, in physics ticks.
	countdownEvery = int(100 * time.Millisecond / TickPeriod)
	slowEvery      = int(500 * time.Millisecond / TickPeriod)
)

// Status is the match phase.
type Status int

const (
	StatusWaiting Status = iota
	StatusCountdown
	StatusWeaponSelect
	StatusAiming
	StatusFiring
	StatusGameOver
	StatusAbandoned
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusCountdown:
		return "countdown"
	case StatusWeaponSelect:
		return "weapon_select"
	case StatusAiming:
		return "aiming"
	case StatusFiring:
		return "firing"
	case StatusGameOver:
		return "game_over"
	default:
		return "abandoned"
	}
}

func (s Status) terminal() bool {
	return s == StatusGameOver || s == StatusAbandoned
}

// Tank is one player's vehicle and aim state.
type Tank struct {
	X, Y         float64
	Health       int
	Score        int
	Angle        float64
	Power        float64
	Name         string
	SessionToken string
	ConnID       string
}

// Match is one artillery session.
type Match struct {
	mu sync.Mutex

	code    string
	status  Status
	p1      Tank
	p2      *Tank
	terrain Terrain
	rng     *rand.Rand

	aiGame  bool
	aiToken string

	currentTurn int // 1 or 2
	turnNumber  int // 1..TurnsPerPlayer*2
	p1Weapons   []Weapon
	p2Weapons   []Weapon
	selected    *Weapon
	projectiles []*Projectile

	countdown        int
	countdownCounter int
	slowCounter      int

	createdAt      time.Time
	startedAt      time.Time
	phaseStartedAt time.Time
}

// New creates a waiting match: fresh terrain, player 1 dug in at 20%
// of the arena width, and both loadouts dealt.
func New(code, playerName, sessionToken string) *Match {
	m := &Match{
		code:        code,
		status:      StatusWaiting,
		currentTurn: 1,
		turnNumber:  1,
		createdAt:   time.Now(),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	m.terrain.Generate(m.rng)

	m.p1 = Tank{
		X:            ArenaWidth * 0.2,
		Health:       100,
		Angle:        45,
		Power:        50,
		Name:         playerName,
		SessionToken: sessionToken,
	}
	m.p1.Y = ArenaHeight - m.terrain.HeightAt(m.p1.X)

	m.p1Weapons = RandomWeapons(TurnsPerPlayer, m.rng)
	m.p2Weapons = RandomWeapons(TurnsPerPlayer, m.rng)
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

// Ticking implements arena.Match. The match needs the loop from the
// countdown on: turn timers run even while nothing is in flight.
func (m *Match) Ticking() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status != StatusWaiting && !m.status.terminal()
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
// connection; a new token digs in at 80% of the arena width.
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

	m.p2 = &Tank{
		X:            ArenaWidth * 0.8,
		Health:       100,
		Angle:        135, // facing left
		Power:        50,
		Name:         playerName,
		SessionToken: sessionToken,
		ConnID:       connID,
	}
	m.p2.Y = ArenaHeight - m.terrain.HeightAt(m.p2.X)

	m.status = StatusCountdown
	m.countdown = countdownTicks
	return 2, nil
}

// AddAI fills the second seat with the computer player and starts the
// countdown. Only valid while the match is waiting.
func (m *Match) AddAI() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusWaiting || m.p2 != nil {
		return false
	}

	m.aiGame = true
	m.aiToken = "ai_" + m.code
	m.p2 = &Tank{
		X:            ArenaWidth * 0.8,
		Health:       100,
		Angle:        135,
		Power:        50,
		Name:         "CPU",
		SessionToken: m.aiToken,
	}
	m.p2.Y = ArenaHeight - m.terrain.HeightAt(m.p2.X)

	m.status = StatusCountdown
	m.countdown = countdownTicks
	return true
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

// Advance implements arena.Match. Every call is one physics tick;
// countdown and timer work run on their own coarser cadences.
func (m *Match) Advance(now time.Time) []arena.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	var events []arena.Event

	if m.status == StatusFiring {
		events = append(events, m.physicsTick()...)
	}

	m.countdownCounter++
	if m.countdownCounter >= countdownEvery {
		m.countdownCounter = 0
		if m.status == StatusCountdown {
			events = append(events, m.tickCountdown(now)...)
		}
	}

	m.slowCounter++
	if m.slowCounter >= slowEvery {
		m.slowCounter = 0
		if m.aiGame {
			events = append(events, m.aiTurn(now)...)
		}
		events = append(events, m.checkTurnTimer(now)...)
	}

	return events
}

func (m *Match) tickCountdown(now time.Time) []arena.Event {
	m.countdown--
	if m.countdown <= 0 {
		m.status = StatusWeaponSelect
		m.startedAt = now
		m.phaseStartedAt = now
		m.currentTurn = 1
		m.turnNumber = 1
		return []arena.Event{
			arena.Group(arena.EventCountdown, CountdownPayload{Seconds: 0}),
			m.turnStartEvent(),
		}
	}
	seconds := int(math.Ceil(float64(m.countdown) / 10.0))
	return []arena.Event{arena.Group(arena.EventCountdown, CountdownPayload{Seconds: seconds})}
}

// SelectWeapon takes a weapon out of the current player's inventory.
// Re-selecting during aiming swaps the previous pick back in.
func (m *Match) SelectWeapon(sessionToken string, w Weapon) ([]arena.Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectWeaponLocked(sessionToken, w, time.Now())
}

func (m *Match) selectWeaponLocked(sessionToken string, w Weapon, now time.Time) ([]arena.Event, bool) {
	if m.status != StatusWeaponSelect && m.status != StatusAiming {
		return nil, false
	}
	playerNum := m.playerNumberLocked(sessionToken)
	if playerNum != m.currentTurn {
		return nil, false
	}

	weapons := &m.p1Weapons
	if playerNum == 2 {
		weapons = &m.p2Weapons
	}

	if m.status == StatusAiming && m.selected != nil {
		*weapons = append(*weapons, *m.selected)
	}

	idx := -1
	for i, have := range *weapons {
		if have == w {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	sel := (*weapons)[idx]
	m.selected = &sel
	*weapons = append((*weapons)[:idx], (*weapons)[idx+1:]...)

	if m.status == StatusWeaponSelect {
		m.status = StatusAiming
		m.phaseStartedAt = now
	}

	return []arena.Event{arena.Group(EventWeaponSelected, WeaponSelectedPayload{
		PlayerNumber: playerNum,
		WeaponType:   int(sel),
		WeaponName:   GetWeapon(sel).Name,
		Weapons:      weaponSlots(*weapons),
	})}, true
}

// SetFiringParams updates the current player's aim and mirrors it to
// the opponent. excludeConn keeps the echo away from the aiming player.
func (m *Match) SetFiringParams(sessionToken string, angle, power float64, excludeConn string) []arena.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusAiming {
		return nil
	}
	playerNum := m.playerNumberLocked(sessionToken)
	if playerNum != m.currentTurn {
		return nil
	}

	tank := &m.p1
	if playerNum == 2 {
		tank = m.p2
	}
	tank.Angle = clamp(angle, 0, 180)
	tank.Power = clamp(power, 1, MaxPower)

	return []arena.Event{arena.GroupExcept(excludeConn, EventAimUpdate, AimUpdatePayload{
		Angle: tank.Angle,
		Power: tank.Power,
	})}
}

// Fire commits the shot with the given aim and launches the selected
// weapon's projectiles.
func (m *Match) Fire(sessionToken string, angle, power float64) ([]arena.Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusAiming {
		return nil, false
	}
	playerNum := m.playerNumberLocked(sessionToken)
	if playerNum != m.currentTurn {
		return nil, false
	}

	tank := &m.p1
	if playerNum == 2 {
		tank = m.p2
	}
	tank.Angle = clamp(angle, 0, 180)
	tank.Power = clamp(power, 1, MaxPower)

	if !m.launchProjectiles(tank, playerNum) {
		return nil, false
	}
	return []arena.Event{arena.Group(EventFired, FiredPayload{
		PlayerNumber: playerNum,
		Angle:        tank.Angle,
		Power:        tank.Power,
	})}, true
}

// checkTurnTimer force-fires a turn whose phase clock ran out.
func (m *Match) checkTurnTimer(now time.Time) []arena.Event {
	if m.status != StatusWeaponSelect && m.status != StatusAiming {
		return nil
	}
	if m.phaseStartedAt.IsZero() {
		return nil
	}

	elapsed := now.Sub(m.phaseStartedAt)
	limit := weaponSelectTime
	if m.status == StatusAiming {
		limit = aimingTime
	}
	if elapsed < limit {
		return nil
	}

	tank := &m.p1
	weapons := &m.p1Weapons
	if m.currentTurn == 2 {
		tank = m.p2
		weapons = &m.p2Weapons
	}

	if m.status == StatusWeaponSelect {
		if len(*weapons) > 0 {
			sel := (*weapons)[0]
			m.selected = &sel
			*weapons = (*weapons)[1:]
		} else {
			sel := WeaponStandard
			m.selected = &sel
		}
		m.status = StatusAiming
	}

	if !m.launchProjectiles(tank, m.currentTurn) {
		return nil
	}
	return []arena.Event{arena.Group(EventAutoFire, AutoFirePayload{CurrentPlayer: m.currentTurn})}
}

func (m *Match) launchProjectiles(tank *Tank, playerNum int) bool {
	if m.selected == nil {
		return false
	}
	weapon := GetWeapon(*m.selected)

	angleRad := tank.Angle * math.Pi / 180
	tipX := tank.X + math.Cos(angleRad)*BarrelLength
	tipY := tank.Y - math.Sin(angleRad)*BarrelLength
	powerScale := tank.Power / MaxPower * 12 * weapon.VelocityMultiplier

	if weapon.ProjectileCount > 1 {
		for i := 0; i < weapon.ProjectileCount; i++ {
			offset := (float64(i) - float64(weapon.ProjectileCount-1)/2) * weapon.SpreadAngle
			shotRad := (tank.Angle + offset) * math.Pi / 180
			m.projectiles = append(m.projectiles, &Projectile{
				X: tipX, Y: tipY,
				VX:     math.Cos(shotRad) * powerScale,
				VY:     -math.Sin(shotRad) * powerScale,
				Weapon: *m.selected,
				Owner:  playerNum,
				Active: true,
			})
		}
	} else {
		m.projectiles = append(m.projectiles, &Projectile{
			X: tipX, Y: tipY,
			VX:     math.Cos(angleRad) * powerScale,
			VY:     -math.Sin(angleRad) * powerScale,
			Weapon: *m.selected,
			Owner:  playerNum,
			Active: true,
		})
	}

	m.status = StatusFiring
	return true
}

// physicsTick steps every live projectile: gravity, terrain and tank
// collisions, bouncer and roller special cases. When the last shell
// dies, the turn advances.
func (m *Match) physicsTick() []arena.Event {
	var events []arena.Event
	var positions []ProjectilePosition
	var rollerTicks []RollerPosition

	for idx, proj := range m.projectiles {
		if !proj.Active {
			continue
		}
		proj.tick(Gravity)

		if proj.X < -50 || proj.X > ArenaWidth+50 || proj.Y > ArenaHeight+200 {
			proj.Active = false
			continue
		}

		// Y grows downward; terrain height grows up from the floor.
		terrainY := ArenaHeight - m.terrain.HeightAt(proj.X)
		if proj.Y >= terrainY && proj.X >= 0 && proj.X < TerrainWidth {
			weapon := GetWeapon(proj.Weapon)

			if weapon.MaxBounces > 0 && proj.BounceCount < weapon.MaxBounces {
				proj.BounceCount++
				proj.VY = -math.Abs(proj.VY) * 0.6
				proj.Y = terrainY - 2
				events = append(events, arena.Group(EventBounce, BouncePayload{X: proj.X, Y: proj.Y}))
				continue
			}

			if weapon.Rolls && !proj.Rolling {
				proj.Rolling = true
				proj.Y = terrainY
				proj.VY = 0
				if math.Abs(proj.VX) < 1 {
					if proj.VX >= 0 {
						proj.VX = 3
					} else {
						proj.VX = -3
					}
				}
				continue
			}

			proj.Active = false
			events = append(events, m.explode(proj.X, proj.Y, weapon, proj.Owner)...)
			continue
		}

		// The first few ticks are spent leaving the barrel.
		if proj.TicksAlive > 5 {
			if m.checkTankHit(proj, &m.p1) || (m.p2 != nil && m.checkTankHit(proj, m.p2)) {
				weapon := GetWeapon(proj.Weapon)
				events = append(events, m.explode(proj.X, proj.Y, weapon, proj.Owner)...)
				continue
			}
		}

		if proj.Rolling {
			proj.Y = ArenaHeight - m.terrain.HeightAt(proj.X)
			rollerTicks = append(rollerTicks, RollerPosition{X: proj.X, Y: proj.Y})

			if !proj.Active {
				weapon := GetWeapon(proj.Weapon)
				events = append(events, m.explode(proj.X, proj.Y, weapon, proj.Owner)...)
			}
		}

		if proj.Active {
			positions = append(positions, ProjectilePosition{X: proj.X, Y: proj.Y, Index: idx})
		}
	}

	out := make([]arena.Event, 0, len(events)+2)
	if len(positions) > 0 {
		out = append(out, arena.Group(EventProjectileTick, ProjectileTickPayload{Projectiles: positions}))
	}
	if len(rollerTicks) > 0 {
		out = append(out, arena.Group(EventRollerTick, RollerTickPayload{Positions: rollerTicks}))
	}
	out = append(out, events...)

	anyActive := false
	for _, p := range m.projectiles {
		if p.Active {
			anyActive = true
			break
		}
	}
	if !anyActive {
		m.projectiles = nil
		m.advanceTurn()
		if m.status == StatusGameOver {
			out = append(out, arena.Group(arena.EventGameOver, GameOverPayload{
				P1Score:    m.p1.Score,
				P2Score:    m.p2Score(),
				WinnerName: m.winnerNameLocked(),
				P1Health:   m.p1.Health,
				P2Health:   m.p2Health(),
			}))
		} else {
			out = append(out, m.turnStartEvent())
		}
	}

	return out
}

func (m *Match) checkTankHit(proj *Projectile, tank *Tank) bool {
	dx := proj.X - tank.X
	dy := proj.Y - tank.Y
	if math.Abs(dx) < TankWidth/2+5 && math.Abs(dy) < TankHeight/2+5 {
		proj.Active = false
		return true
	}
	return false
}

// explode deforms the terrain, applies splash damage to the opponent
// and reduced damage to the shooter, and resettles both tanks.
func (m *Match) explode(x, y float64, weapon WeaponData, owner int) []arena.Event {
	m.terrain.Deform(x, weapon.BlastRadius)

	p1Damage := m.damageAt(x, y, &m.p1, weapon)
	p2Damage := 0.0
	if m.p2 != nil {
		p2Damage = m.damageAt(x, y, m.p2, weapon)
	}

	directHit := false
	targetPlayer := 0
	totalDamage := 0.0

	if owner == 1 && p2Damage > 0 {
		m.p2.Health = max(0, m.p2.Health-int(math.Round(p2Damage)))
		m.p1.Score += int(math.Round(p2Damage))
		targetPlayer = 2
		totalDamage = p2Damage
		directHit = distance(x, y, m.p2.X, m.p2.Y) < TankWidth/2
	} else if owner == 2 && p1Damage > 0 {
		m.p1.Health = max(0, m.p1.Health-int(math.Round(p1Damage)))
		m.p2.Score += int(math.Round(p1Damage))
		targetPlayer = 1
		totalDamage = p1Damage
		directHit = distance(x, y, m.p1.X, m.p1.Y) < TankWidth/2
	}

	// The shooter takes half splash from their own shell.
	if owner == 1 && p1Damage > 0 {
		m.p1.Health = max(0, m.p1.Health-int(math.Round(p1Damage*0.5)))
	} else if owner == 2 && p2Damage > 0 {
		m.p2.Health = max(0, m.p2.Health-int(math.Round(p2Damage*0.5)))
	}

	m.p1.Y = ArenaHeight - m.terrain.HeightAt(m.p1.X)
	if m.p2 != nil {
		m.p2.Y = ArenaHeight - m.terrain.HeightAt(m.p2.X)
	}

	explosion := arena.Group(EventExplosion, ExplosionPayload{
		X:            x,
		Y:            y,
		Radius:       weapon.BlastRadius,
		WeaponType:   int(weapon.Type),
		TargetPlayer: targetPlayer,
		Damage:       math.Round(totalDamage*10) / 10,
		DirectHit:    directHit,
		P1Health:     m.p1.Health,
		P2Health:     m.p2Health(),
		P1Score:      m.p1.Score,
		P2Score:      m.p2Score(),
		Terrain:      m.terrain.Serialize(),
	})

	pos := TankPositionPayload{P1: TankPosition{X: m.p1.X, Y: m.p1.Y}}
	if m.p2 != nil {
		pos.P2 = &TankPosition{X: m.p2.X, Y: m.p2.Y}
	}
	return []arena.Event{explosion, arena.Group(EventTankPosition, pos)}
}

func (m *Match) damageAt(x, y float64, tank *Tank, weapon WeaponData) float64 {
	dist := distance(x, y, tank.X, tank.Y)
	if dist >= weapon.BlastRadius {
		return 0
	}
	damage := weapon.Damage * (1 - dist/weapon.BlastRadius)
	if dist < TankWidth/2 {
		damage *= 1.5
	}
	return math.Max(0, damage)
}

func (m *Match) advanceTurn() {
	m.turnNumber++
	if m.turnNumber > TurnsPerPlayer*2 || m.p1.Health <= 0 || (m.p2 != nil && m.p2.Health <= 0) {
		m.status = StatusGameOver
		return
	}

	if m.currentTurn == 1 {
		m.currentTurn = 2
	} else {
		m.currentTurn = 1
	}
	m.selected = nil
	m.status = StatusWeaponSelect
	m.phaseStartedAt = time.Now()
}

func (m *Match) turnStartEvent() arena.Event {
	weapons := m.p1Weapons
	if m.currentTurn == 2 {
		weapons = m.p2Weapons
	}
	return arena.Group(EventTurnStart, TurnStartPayload{
		CurrentPlayer: m.currentTurn,
		TurnNumber:    m.turnNumber,
		TimeLimit:     int(weaponSelectTime / time.Second),
		Weapons:       weaponSlots(weapons),
	})
}

// PhaseTimeRemaining reports seconds left on the current phase clock.
func (m *Match) PhaseTimeRemaining(now time.Time) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phaseTimeRemainingLocked(now)
}

func (m *Match) phaseTimeRemainingLocked(now time.Time) float64 {
	if m.phaseStartedAt.IsZero() {
		return 0
	}
	var limit time.Duration
	switch m.status {
	case StatusWeaponSelect:
		limit = weaponSelectTime
	case StatusAiming:
		limit = aimingTime
	default:
		return 0
	}
	remaining := limit - now.Sub(m.phaseStartedAt)
	if remaining < 0 {
		return 0
	}
	return remaining.Seconds()
}

// PlayerNumber resolves a session token to a slot, 0 if unknown.
func (m *Match) PlayerNumber(sessionToken string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playerNumberLocked(sessionToken)
}

func (m *Match) playerNumberLocked(sessionToken string) int {
	if m.p1.SessionToken == sessionToken {
		return 1
	}
	if m.p2 != nil && m.p2.SessionToken == sessionToken {
		return 2
	}
	return 0
}

func (m *Match) p2Health() int {
	if m.p2 == nil {
		return 0
	}
	return m.p2.Health
}

func (m *Match) p2Score() int {
	if m.p2 == nil {
		return 0
	}
	return m.p2.Score
}

// winnerNameLocked picks by score; equal scores are a draw.
func (m *Match) winnerNameLocked() string {
	if m.status != StatusGameOver {
		return ""
	}
	switch {
	case m.p1.Score > m.p2Score():
		return m.p1.Name
	case m.p2Score() > m.p1.Score:
		return m.p2.Name
	default:
		return ""
	}
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
		Game:         "tanks",
		Code:         m.code,
		Player1Name:  m.p1.Name,
		Player2Name:  p2Name,
		Player1Score: m.p1.Score,
		Player2Score: m.p2Score(),
		WinnerName:   m.winnerNameLocked(),
		Status:       m.status.String(),
		Turns:        m.turnNumber,
		StartedAt:    started,
		CompletedAt:  time.Now(),
	}
}

// FullState builds the snapshot sent on join and reconnect.
func (m *Match) FullState(playerNumber int) StatePayload {
	m.mu.Lock()
	defer m.mu.Unlock()

	var selected *int
	if m.selected != nil {
		v := int(*m.selected)
		selected = &v
	}

	st := StatePayload{
		ArenaWidth:  ArenaWidth,
		ArenaHeight: ArenaHeight,
		Terrain:     m.terrain.Serialize(),
		Player1: TankStatePayload{
			X: m.p1.X, Y: m.p1.Y,
			Health: m.p1.Health, Score: m.p1.Score,
			Name: m.p1.Name, Angle: m.p1.Angle, Power: m.p1.Power,
		},
		Status:         m.status.String(),
		PlayerNumber:   playerNumber,
		CurrentTurn:    m.currentTurn,
		TurnNumber:     m.turnNumber,
		SelectedWeapon: selected,
		Player1Weapons: weaponSlots(m.p1Weapons),
		Player2Weapons: weaponSlots(m.p2Weapons),
		TimeRemaining:  m.phaseTimeRemainingLocked(time.Now()),
	}
	if m.p2 != nil {
		st.Player2 = &TankStatePayload{
			X: m.p2.X, Y: m.p2.Y,
			Health: m.p2.Health, Score: m.p2.Score,
			Name: m.p2.Name, Angle: m.p2.Angle, Power: m.p2.Power,
		}
	}
	return st
}

func weaponSlots(weapons []Weapon) []WeaponSlot {
	out := make([]WeaponSlot, 0, len(weapons))
	for i, w := range weapons {
		out = append(out, WeaponSlot{Index: i, Type: int(w), Name: GetWeapon(w).Name})
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x1-x2, y1-y2)
}

// Ensure Match satisfies the framework contract.
var _ arena.Match = (*Match)(nil)
