package tron

// Event names specific to the light-cycle race.
const EventTick = "Tick"

// CountdownPayload carries the remaining pre-game seconds.
type CountdownPayload struct {
	Seconds int `json:"seconds"`
}

// CyclePayload is one cycle's position in a tick delta.
type CyclePayload struct {
	X     int  `json:"x"`
	Y     int  `json:"y"`
	Alive bool `json:"alive"`
}

// NamedCyclePayload extends CyclePayload for full-state snapshots.
type NamedCyclePayload struct {
	CyclePayload
	Name string `json:"name"`
}

// TrailCell is one newly claimed grid cell.
type TrailCell struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Player int `json:"player"`
}

// TickPayload is the per-tick delta broadcast to the match group.
type TickPayload struct {
	P1        CyclePayload `json:"p1"`
	P2        CyclePayload `json:"p2"`
	NewTrails []TrailCell  `json:"newTrails"`
	Tick      int          `json:"tick"`
}

// GameOverPayload announces the terminal status.
type GameOverPayload struct {
	Status     string `json:"status"`
	WinnerName string `json:"winnerName,omitempty"`
}

// StatePayload is the full snapshot sent on join or reconnect.
type StatePayload struct {
	GridWidth    int                `json:"gridWidth"`
	GridHeight   int                `json:"gridHeight"`
	Status       string             `json:"status"`
	PlayerNumber int                `json:"playerNumber"`
	Tick         int                `json:"tick"`
	Trails       []TrailCell        `json:"trails"`
	P1           NamedCyclePayload  `json:"p1"`
	P2           *NamedCyclePayload `json:"p2,omitempty"`
}
