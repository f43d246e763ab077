package arena

// Event names shared across games. Game packages define additional
// names for their own tick deltas (ProjectileTick, Bounce, ...).
const (
	EventGameState      = "GameState"
	EventCountdown      = "Countdown"
	EventOpponentJoined = "OpponentJoined"
	EventGameOver       = "GameOver"
	EventError          = "Error"
)

// Event is one named message produced by a match tick. By default it is
// delivered to every connection subscribed to the match; ConnID narrows
// delivery to a single connection and ExcludeConn to everyone else.
type Event struct {
	Name    string
	Payload any

	ConnID      string
	ExcludeConn string
}

// To builds an event targeted at a single connection.
func To(connID, name string, payload any) Event {
	return Event{Name: name, Payload: payload, ConnID: connID}
}

// Group builds an event for every subscriber of the match.
func Group(name string, payload any) Event {
	return Event{Name: name, Payload: payload}
}

// GroupExcept builds an event for every subscriber but one.
func GroupExcept(connID, name string, payload any) Event {
	return Event{Name: name, Payload: payload, ExcludeConn: connID}
}

// Broadcaster delivers events to the connections subscribed to a match.
// Implementations must not block the caller; sends are best effort.
type Broadcaster interface {
	ToGroup(code, event string, payload any)
	ToConn(connID, event string, payload any)
	ToGroupExcept(code, excludeConn, event string, payload any)
}
