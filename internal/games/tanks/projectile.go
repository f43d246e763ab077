package tanks

import "math"

// Projectile is one shell in flight. A roller keeps its horizontal
// velocity once grounded and detonates when friction stops it.
type Projectile struct {
	X, Y        float64
	VX, VY      float64
	Weapon      Weapon
	Owner       int
	Active      bool
	BounceCount int
	TicksAlive  int
	Rolling     bool
}

func (p *Projectile) tick(gravity float64) {
	if !p.Active {
		return
	}
	p.TicksAlive++

	if p.Rolling {
		p.VX *= 0.97
		p.X += p.VX
		if math.Abs(p.VX) < 0.3 {
			p.Active = false
		}
		return
	}

	p.VY += gravity
	p.X += p.VX
	p.Y += p.VY
}
