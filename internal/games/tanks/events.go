package tanks

// Event names specific to the artillery game.
const (
	EventTurnStart      = "TurnStart"
	EventWeaponSelected = "WeaponSelected"
	EventAimUpdate      = "AimUpdate"
	EventFired          = "Fired"
	EventAutoFire       = "AutoFire"
	EventProjectileTick = "ProjectileTick"
	EventBounce         = "Bounce"
	EventRollerTick     = "RollerTick"
	EventExplosion      = "Explosion"
	EventTankPosition   = "TankPositionUpdate"
)

// CountdownPayload announces seconds until the first turn.
type CountdownPayload struct {
	Seconds int `json:"seconds"`
}

// WeaponSlot is one inventory entry as shown to clients.
type WeaponSlot struct {
	Index int    `json:"index"`
	Type  int    `json:"type"`
	Name  string `json:"name"`
}

// TurnStartPayload opens a turn for the named player.
type TurnStartPayload struct {
	CurrentPlayer int          `json:"currentPlayer"`
	TurnNumber    int          `json:"turnNumber"`
	TimeLimit     int          `json:"timeLimit"`
	Weapons       []WeaponSlot `json:"weapons"`
}

// WeaponSelectedPayload announces the picked weapon and the remaining
// inventory.
type WeaponSelectedPayload struct {
	PlayerNumber int          `json:"playerNumber"`
	WeaponType   int          `json:"weaponType"`
	WeaponName   string       `json:"weaponName"`
	Weapons      []WeaponSlot `json:"weapons"`
}

// AimUpdatePayload mirrors the current player's aim to the opponent.
type AimUpdatePayload struct {
	Angle float64 `json:"angle"`
	Power float64 `json:"power"`
}

// FiredPayload announces a committed shot.
type FiredPayload struct {
	PlayerNumber int     `json:"playerNumber"`
	Angle        float64 `json:"angle"`
	Power        float64 `json:"power"`
}

// AutoFirePayload flags a shot forced by the turn timer.
type AutoFirePayload struct {
	CurrentPlayer int `json:"currentPlayer"`
}

// ProjectilePosition is one shell's position within a flight tick.
type ProjectilePosition struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Index int     `json:"index"`
}

// ProjectileTickPayload carries all live shell positions for one tick.
type ProjectileTickPayload struct {
	Projectiles []ProjectilePosition `json:"projectiles"`
}

// BouncePayload marks a bouncer impact point.
type BouncePayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RollerPosition is one grounded roller position.
type RollerPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RollerTickPayload carries roller ground positions for one tick.
type RollerTickPayload struct {
	Positions []RollerPosition `json:"positions"`
}

// ExplosionPayload reports a detonation, its damage and the updated
// health and score totals, plus the deformed terrain.
type ExplosionPayload struct {
	X            float64   `json:"x"`
	Y            float64   `json:"y"`
	Radius       float64   `json:"radius"`
	WeaponType   int       `json:"weaponType"`
	TargetPlayer int       `json:"targetPlayer"`
	Damage       float64   `json:"damage"`
	DirectHit    bool      `json:"directHit"`
	P1Health     int       `json:"p1Health"`
	P2Health     int       `json:"p2Health"`
	P1Score      int       `json:"p1Score"`
	P2Score      int       `json:"p2Score"`
	Terrain      []float64 `json:"terrain"`
}

// TankPosition is one tank's settled position after deformation.
type TankPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TankPositionPayload resyncs tank positions after the ground moved.
type TankPositionPayload struct {
	P1 TankPosition  `json:"p1"`
	P2 *TankPosition `json:"p2"`
}

// GameOverPayload carries the final scores and remaining health.
type GameOverPayload struct {
	P1Score    int    `json:"p1Score"`
	P2Score    int    `json:"p2Score"`
	WinnerName string `json:"winner"`
	P1Health   int    `json:"p1Health"`
	P2Health   int    `json:"p2Health"`
}

// TankStatePayload is one tank's full state inside a snapshot.
type TankStatePayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Health int     `json:"health"`
	Score  int     `json:"score"`
	Name   string  `json:"name"`
	Angle  float64 `json:"angle"`
	Power  float64 `json:"power"`
}

// StatePayload is the full snapshot sent on join and reconnect.
type StatePayload struct {
	ArenaWidth     float64           `json:"arenaWidth"`
	ArenaHeight    float64           `json:"arenaHeight"`
	Terrain        []float64         `json:"terrain"`
	Player1        TankStatePayload  `json:"player1"`
	Player2        *TankStatePayload `json:"player2"`
	Status         string            `json:"status"`
	PlayerNumber   int               `json:"playerNumber"`
	CurrentTurn    int               `json:"currentTurn"`
	TurnNumber     int               `json:"turnNumber"`
	SelectedWeapon *int              `json:"selectedWeapon"`
	Player1Weapons []WeaponSlot      `json:"player1Weapons"`
	Player2Weapons []WeaponSlot      `json:"player2Weapons"`
	TimeRemaining  float64           `json:"timeRemaining"`
}
