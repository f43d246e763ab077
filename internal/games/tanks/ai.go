package tanks

import (
	"time"

	"ws-arcade/internal/arena"
)

// aiTurn plays the computer's move. It waits a moment into each phase
// so the opponent sees a deliberate pick rather than an instant one.
// Called with mu held, on the slow cadence.
func (m *Match) aiTurn(now time.Time) []arena.Event {
	if !m.aiGame || m.currentTurn != 2 {
		return nil
	}
	if m.status != StatusWeaponSelect && m.status != StatusAiming {
		return nil
	}
	if m.phaseStartedAt.IsZero() || now.Sub(m.phaseStartedAt) < aiThinkTime {
		return nil
	}

	if m.status == StatusWeaponSelect {
		if len(m.p2Weapons) == 0 {
			return nil
		}
		weapon := m.p2Weapons[m.rng.Intn(len(m.p2Weapons))]
		events, ok := m.selectWeaponLocked(m.aiToken, weapon, now)
		if !ok {
			return nil
		}
		// Commit the aim now; the shot fires on a later slow tick.
		m.p2.Angle = 95 + m.rng.Float64()*70
		m.p2.Power = 40 + m.rng.Float64()*50
		return events
	}

	if !m.launchProjectiles(m.p2, 2) {
		return nil
	}
	return []arena.Event{arena.Group(EventFired, FiredPayload{
		PlayerNumber: 2,
		Angle:        m.p2.Angle,
		Power:        m.p2.Power,
	})}
}
