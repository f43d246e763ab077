package tictactoe

// EventMoveMade announces a placed mark to the whole match group.
const EventMoveMade = "MoveMade"

// MovePayload describes one placed mark.
type MovePayload struct {
	Position    int    `json:"position"`
	Mark        string `json:"mark"`
	CurrentTurn string `json:"currentTurn"`
	MoveCount   int    `json:"moveCount"`
}

// GameOverPayload carries the final status and, for a win, the three
// board positions of the winning line.
type GameOverPayload struct {
	Status     string `json:"status"`
	WinLine    []int  `json:"winLine,omitempty"`
	WinnerName string `json:"winnerName,omitempty"`
}

// StatePayload is the full snapshot sent to a joining or reconnecting
// player.
type StatePayload struct {
	Board       string `json:"board"`
	Status      string `json:"status"`
	CurrentTurn string `json:"currentTurn"`
	PlayerMark  string `json:"playerMark"`
	MoveCount   int    `json:"moveCount"`
}
