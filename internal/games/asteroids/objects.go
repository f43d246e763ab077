package asteroids

// Size is an asteroid's class; each split steps one size down.
type Size int

const (
	SizeLarge Size = iota
	SizeMedium
	SizeSmall
)

func (s Size) String() string {
	switch s {
	case SizeLarge:
		return "large"
	case SizeMedium:
		return "medium"
	default:
		return "small"
	}
}

// Radius returns the collision radius for this size.
func (s Size) Radius() float64 {
	switch s {
	case SizeLarge:
		return 40
	case SizeMedium:
		return 20
	default:
		return 10
	}
}

// Points returns the score awarded for destroying an asteroid of this
// size. Smaller rocks are harder to hit and pay more.
func (s Size) Points() int {
	switch s {
	case SizeLarge:
		return 20
	case SizeMedium:
		return 50
	default:
		return 100
	}
}

// Asteroid is one drifting rock.
type Asteroid struct {
	ID            int
	X, Y          float64
	VX, VY        float64
	Rotation      float64
	RotationSpeed float64
	Size          Size
	ShapeVariant  int
}

// Bullet is a live projectile. It expires after bulletLifetime ticks or
// on first asteroid contact.
type Bullet struct {
	ID             int
	X, Y           float64
	VX, VY         float64
	Owner          int
	TicksRemaining int
}

const bulletRadius = 2.0

// Ship is one player's vessel.
type Ship struct {
	X, Y            float64
	VX, VY          float64
	Rotation        float64
	Alive           bool
	Lives           int
	Score           int
	FireCooldown    int
	InvulnerableFor int
	RespawnIn       int
	NukesRemaining  int
	nukeLatched     bool
	Name            string
	SessionToken    string
	ConnID          string
}

// Input is one player's held-control snapshot, staged between ticks.
type Input struct {
	Thrust      bool `json:"thrust"`
	RotateLeft  bool `json:"rotateLeft"`
	RotateRight bool `json:"rotateRight"`
	Fire        bool `json:"fire"`
	Nuke        bool `json:"nuke"`
}
