package asteroids

// EventTick carries the per-tick world delta.
const EventTick = "Tick"

// CountdownPayload announces seconds until the first wave.
type CountdownPayload struct {
	Seconds int `json:"seconds"`
}

// ShipPayload is one ship's renderable state.
type ShipPayload struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Rotation     float64 `json:"rotation"`
	Alive        bool    `json:"alive"`
	Thrusting    bool    `json:"thrusting"`
	Invulnerable bool    `json:"invulnerable"`
}

// AsteroidPayload is one rock's renderable state.
type AsteroidPayload struct {
	ID           int     `json:"id"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Rotation     float64 `json:"rotation"`
	Size         string  `json:"size"`
	ShapeVariant int     `json:"shapeVariant"`
}

// BulletPayload is one projectile's renderable state.
type BulletPayload struct {
	ID    int     `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Owner int     `json:"owner"`
}

// ExplosionPayload marks a detonation for the client to animate. Size
// is "small", "medium", "large", "ship" or "nuke".
type ExplosionPayload struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size string  `json:"size"`
}

// TickPayload is the per-tick broadcast. Asteroids is empty unless the
// rock set changed this tick; bullets are always sent in full.
type TickPayload struct {
	Tick       int                `json:"tick"`
	P1         ShipPayload        `json:"p1"`
	P2         *ShipPayload       `json:"p2"`
	Asteroids  []AsteroidPayload  `json:"asteroids"`
	Bullets    []BulletPayload    `json:"bullets"`
	Explosions []ExplosionPayload `json:"explosions"`
	P1Score    int                `json:"p1Score"`
	P2Score    int                `json:"p2Score"`
	P1Lives    int                `json:"p1Lives"`
	P2Lives    int                `json:"p2Lives"`
	P1Nukes    int                `json:"p1Nukes"`
	P2Nukes    int                `json:"p2Nukes"`
	Wave       int                `json:"wave"`
	Status     string             `json:"status,omitempty"`
}

// GameOverPayload carries the final scores.
type GameOverPayload struct {
	P1Score    int    `json:"p1Score"`
	P2Score    int    `json:"p2Score"`
	Wave       int    `json:"wave"`
	WinnerName string `json:"winner"`
}

// StatePayload is the full snapshot sent on join and reconnect.
type StatePayload struct {
	ArenaWidth   float64           `json:"arenaWidth"`
	ArenaHeight  float64           `json:"arenaHeight"`
	Status       string            `json:"status"`
	PlayerNumber int               `json:"playerNumber"`
	Tick         int               `json:"tick"`
	P1           ShipPayload       `json:"p1"`
	P1Name       string            `json:"p1Name"`
	P2           *ShipPayload      `json:"p2"`
	P2Name       string            `json:"p2Name,omitempty"`
	Asteroids    []AsteroidPayload `json:"asteroids"`
	Bullets      []BulletPayload   `json:"bullets"`
	P1Score      int               `json:"p1Score"`
	P2Score      int               `json:"p2Score"`
	P1Lives      int               `json:"p1Lives"`
	P2Lives      int               `json:"p2Lives"`
	P1Nukes      int               `json:"p1Nukes"`
	P2Nukes      int               `json:"p2Nukes"`
	Wave         int               `json:"wave"`
}
