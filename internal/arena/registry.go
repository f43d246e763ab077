package arena

import (
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"ws-arcade/internal/shortcode"
)

// Factory builds a fresh match with player 1 already bound to the given
// session token.
type Factory[M Match] func(code, playerName, sessionToken string) M

// NewSessionToken mints an opaque per-seat credential.
func NewSessionToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Registry tracks the live matches of one game type, keyed by short
// code. Safe for concurrent use from request paths and the scheduler.
type Registry[M Match] struct {
	game    string
	factory Factory[M]
	logger  *log.Logger

	mu      sync.RWMutex
	matches map[string]M
}

// NewRegistry creates an empty registry for one game type.
func NewRegistry[M Match](game string, factory Factory[M], logger *log.Logger) *Registry[M] {
	return &Registry[M]{
		game:    game,
		factory: factory,
		logger:  logger,
		matches: make(map[string]M),
	}
}

// Create allocates a fresh waiting match with player 1 bound to a newly
// issued session token. Returns the match and the token.
func (r *Registry[M]) Create(playerName string) (M, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero M
	code, err := shortcode.Generate(func(c string) bool {
		_, exists := r.matches[c]
		return exists
	})
	if err != nil {
		return zero, "", err
	}

	token := NewSessionToken()
	m := r.factory(code, playerName, token)
	r.matches[code] = m

	r.logger.Info("match created", "game", r.game, "code", code, "player", playerName)
	return m, token, nil
}

// Lookup returns the match for a code, if tracked.
func (r *Registry[M]) Lookup(code string) (M, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[strings.ToUpper(code)]
	return m, ok
}

// Join binds a player into a match, or reattaches a reconnecting player
// identified by sessionToken. Returns the player number.
func (r *Registry[M]) Join(code, playerName, sessionToken, connID string) (M, int, error) {
	m, ok := r.Lookup(code)
	if !ok {
		var zero M
		return zero, 0, ErrMatchNotFound
	}
	num, err := m.Join(playerName, sessionToken, connID)
	if err != nil {
		return m, 0, err
	}
	r.logger.Info("player joined", "game", r.game, "code", m.Code(), "player", playerName, "number", num)
	return m, num, nil
}

// Remove unconditionally drops a match from the registry.
func (r *Registry[M]) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[code]; ok {
		delete(r.matches, code)
		r.logger.Info("match removed", "game", r.game, "code", code)
	}
}

// Active returns the matches the scheduler must keep ticking.
func (r *Registry[M]) Active() []M {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]M, 0, len(r.matches))
	for _, m := range r.matches {
		if m.Ticking() {
			out = append(out, m)
		}
	}
	return out
}

// All returns every tracked match, used only for staleness sweeps.
func (r *Registry[M]) All() []M {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]M, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m)
	}
	return out
}

// Count returns the number of tracked matches.
func (r *Registry[M]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}

// HandleDisconnect clears the connection reference from whichever match
// owns it. The session token stays bound so the player can reconnect.
func (r *Registry[M]) HandleDisconnect(connID string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.matches {
		if m.DropConnection(connID) {
			r.logger.Info("player disconnected", "game", r.game, "code", m.Code())
			return
		}
	}
}
