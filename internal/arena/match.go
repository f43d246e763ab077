// Package arena provides the shared match framework for all games:
// a registry of live matches keyed by short code, a fixed-period tick
// scheduler, and the boundary interfaces (broadcast, persistence) the
// framework fans results out through.
package arena

import (
	"errors"
	"time"
)

// Match is the contract every game's match type implements.
// All methods must be safe for concurrent use; a match guards its own
// state so that input staging and advancing never interleave partially.
type Match interface {
	// Code returns the short join code, immutable after creation.
	Code() string

	// CreatedAt is when the match was created, used for stale eviction.
	CreatedAt() time.Time

	// Ticking reports whether the scheduler should keep advancing this
	// match (neither waiting for a second player nor finished).
	Ticking() bool

	// Waiting reports whether the match is still waiting for player 2.
	Waiting() bool

	// Finished reports whether the match has reached a terminal status.
	Finished() bool

	// Abandon marks a match abandoned. Called by the housekeeping sweep
	// before a stale match is evicted; a no-op once terminal.
	Abandon()

	// Join binds or rebinds a player. If sessionToken already belongs to
	// a player slot, the connection is reattached and that player's
	// number returned (reconnect). Otherwise a new player 2 is bound
	// while the match is waiting. Returns the player number (1 or 2).
	Join(playerName, sessionToken, connID string) (int, error)

	// DropConnection clears the given connection reference if a player
	// owns it, leaving the session token bound for reconnect. Reports
	// whether the connection belonged to this match.
	DropConnection(connID string) bool

	// Advance runs one scheduler tick: consumes staged input, mutates
	// world state, and returns the events to broadcast. Must be a no-op
	// once the match is finished.
	Advance(now time.Time) []Event

	// Summary builds the persistence record for a completed match.
	Summary() MatchSummary
}

// Join errors surfaced to the offending connection as an Error event.
var (
	ErrMatchNotFound = errors.New("game not found")
	ErrMatchFull     = errors.New("game is full or already in progress")
)

// MatchSummary is the record handed to the persistence boundary after a
// match completes. Storage failures never affect gameplay.
type MatchSummary struct {
	Game         string
	Code         string
	Player1Name  string
	Player2Name  string
	Player1Score int
	Player2Score int
	WinnerName   string
	Status       string
	Turns        int
	StartedAt    time.Time
	CompletedAt  time.Time
}

// SummaryStore persists completed match summaries.
type SummaryStore interface {
	SaveMatchSummary(s MatchSummary) error
}
