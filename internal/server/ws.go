package server

import (
	"encoding/json"

	"ws-arcade/internal/arena"
	"ws-arcade/internal/games/asteroids"
	"ws-arcade/internal/games/tanks"
	"ws-arcade/internal/games/tictactoe"
	"ws-arcade/internal/games/tron"
	"ws-arcade/internal/hub"
)

// command is one inbound websocket frame. Fields beyond action are
// interpreted per game.
type command struct {
	Action string `json:"action"`

	// join
	Game         string `json:"game,omitempty"`
	Code         string `json:"code,omitempty"`
	PlayerName   string `json:"playerName,omitempty"`
	SessionToken string `json:"sessionToken,omitempty"`

	// tictactoe
	Position int `json:"position,omitempty"`

	// tron
	Direction string `json:"direction,omitempty"`

	// asteroids
	Input asteroids.Input `json:"input,omitempty"`

	// tanks
	WeaponType int     `json:"weaponType,omitempty"`
	Angle      float64 `json:"angle,omitempty"`
	Power      float64 `json:"power,omitempty"`
}

// joinedPayload confirms a seat and hands back the credential the
// client must present to reconnect.
type joinedPayload struct {
	Game         string `json:"game"`
	Code         string `json:"code"`
	PlayerNumber int    `json:"playerNumber"`
	SessionToken string `json:"sessionToken"`
}

// opponentJoinedPayload tells the waiting player who took the second seat.
type opponentJoinedPayload struct {
	OpponentName string `json:"opponentName"`
}

func (s *Server) handleMessage(c *hub.Client, data []byte) {
	var cmd command
	if err := json.Unmarshal(data, &cmd); err != nil {
		s.sendError(c.ID, "invalid message")
		return
	}

	if cmd.Action == "join" {
		s.handleJoin(c, cmd)
		return
	}

	s.mu.Lock()
	sess, ok := s.sessions[c.ID]
	s.mu.Unlock()
	if !ok {
		s.sendError(c.ID, "join a match first")
		return
	}

	switch sess.game {
	case "tictactoe":
		s.dispatchTicTacToe(c, sess, cmd)
	case "tron":
		s.dispatchTron(c, sess, cmd)
	case "asteroids":
		s.dispatchAsteroids(c, sess, cmd)
	case "tanks":
		s.dispatchTanks(c, sess, cmd)
	}
}

// handleJoin binds a connection to a seat. A missing session token means
// a fresh player 2; a known token reattaches after a disconnect.
func (s *Server) handleJoin(c *hub.Client, cmd command) {
	token := cmd.SessionToken
	fresh := token == ""
	if fresh {
		token = arena.NewSessionToken()
	}
	if cmd.PlayerName == "" {
		cmd.PlayerName = "Player 2"
	}

	var (
		code  string
		num   int
		err   error
		state any
	)
	switch cmd.Game {
	case "tictactoe":
		var m *tictactoe.Match
		if m, num, err = s.reg.TicTacToe.Join(cmd.Code, cmd.PlayerName, token, c.ID); err == nil {
			code, state = m.Code(), m.FullState(num)
		}
	case "tron":
		var m *tron.Match
		if m, num, err = s.reg.Tron.Join(cmd.Code, cmd.PlayerName, token, c.ID); err == nil {
			code, state = m.Code(), m.FullState(num)
		}
	case "asteroids":
		var m *asteroids.Match
		if m, num, err = s.reg.Asteroids.Join(cmd.Code, cmd.PlayerName, token, c.ID); err == nil {
			code, state = m.Code(), m.FullState(num)
		}
	case "tanks":
		var m *tanks.Match
		if m, num, err = s.reg.Tanks.Join(cmd.Code, cmd.PlayerName, token, c.ID); err == nil {
			code, state = m.Code(), m.FullState(num)
		}
	default:
		s.sendError(c.ID, "unknown game")
		return
	}
	if err != nil {
		s.sendError(c.ID, err.Error())
		return
	}

	s.hub.Subscribe(c, code)
	s.mu.Lock()
	s.sessions[c.ID] = &session{game: cmd.Game, code: code, sessionToken: token}
	s.mu.Unlock()

	s.hub.ToConn(c.ID, "Joined", joinedPayload{
		Game:         cmd.Game,
		Code:         code,
		PlayerNumber: num,
		SessionToken: token,
	})
	s.hub.ToConn(c.ID, arena.EventGameState, state)
	if fresh && num == 2 {
		s.hub.ToGroupExcept(code, c.ID, arena.EventOpponentJoined,
			opponentJoinedPayload{OpponentName: cmd.PlayerName})
	}
}

func (s *Server) dispatchTicTacToe(c *hub.Client, sess *session, cmd command) {
	m, ok := s.reg.TicTacToe.Lookup(sess.code)
	if !ok {
		s.sendError(c.ID, arena.ErrMatchNotFound.Error())
		return
	}
	switch cmd.Action {
	case "move":
		events, err := m.MakeMove(sess.sessionToken, cmd.Position)
		if err != nil {
			s.sendError(c.ID, err.Error())
			return
		}
		s.deliver(sess.code, events)
	default:
		s.sendError(c.ID, "unknown action")
	}
}

func (s *Server) dispatchTron(c *hub.Client, sess *session, cmd command) {
	m, ok := s.reg.Tron.Lookup(sess.code)
	if !ok {
		s.sendError(c.ID, arena.ErrMatchNotFound.Error())
		return
	}
	switch cmd.Action {
	case "direction":
		dir, ok := tron.ParseDirection(cmd.Direction)
		if !ok {
			s.sendError(c.ID, "invalid direction")
			return
		}
		m.SetDirection(sess.sessionToken, dir)
	default:
		s.sendError(c.ID, "unknown action")
	}
}

func (s *Server) dispatchAsteroids(c *hub.Client, sess *session, cmd command) {
	m, ok := s.reg.Asteroids.Lookup(sess.code)
	if !ok {
		s.sendError(c.ID, arena.ErrMatchNotFound.Error())
		return
	}
	switch cmd.Action {
	case "input":
		m.SetInput(sess.sessionToken, cmd.Input)
	default:
		s.sendError(c.ID, "unknown action")
	}
}

func (s *Server) dispatchTanks(c *hub.Client, sess *session, cmd command) {
	m, ok := s.reg.Tanks.Lookup(sess.code)
	if !ok {
		s.sendError(c.ID, arena.ErrMatchNotFound.Error())
		return
	}
	switch cmd.Action {
	case "selectWeapon":
		w := tanks.Weapon(cmd.WeaponType)
		if !tanks.ValidWeapon(w) {
			s.sendError(c.ID, "invalid weapon")
			return
		}
		events, ok := m.SelectWeapon(sess.sessionToken, w)
		if !ok {
			s.sendError(c.ID, "cannot select that weapon now")
			return
		}
		s.deliver(sess.code, events)
	case "aim":
		s.deliver(sess.code, m.SetFiringParams(sess.sessionToken, cmd.Angle, cmd.Power, c.ID))
	case "fire":
		events, ok := m.Fire(sess.sessionToken, cmd.Angle, cmd.Power)
		if !ok {
			s.sendError(c.ID, "cannot fire now")
			return
		}
		s.deliver(sess.code, events)
	default:
		s.sendError(c.ID, "unknown action")
	}
}

// deliver routes match events the same way the scheduler does for ticks.
func (s *Server) deliver(code string, events []arena.Event) {
	for _, e := range events {
		switch {
		case e.ConnID != "":
			s.hub.ToConn(e.ConnID, e.Name, e.Payload)
		case e.ExcludeConn != "":
			s.hub.ToGroupExcept(code, e.ExcludeConn, e.Name, e.Payload)
		default:
			s.hub.ToGroup(code, e.Name, e.Payload)
		}
	}
}

func (s *Server) sendError(connID, message string) {
	s.hub.ToConn(connID, arena.EventError, map[string]string{"message": message})
}

// handleDisconnect detaches a dropped connection from its match. The
// session token stays valid so the player can rejoin.
func (s *Server) handleDisconnect(connID string) {
	s.mu.Lock()
	sess, ok := s.sessions[connID]
	delete(s.sessions, connID)
	s.mu.Unlock()
	if !ok {
		return
	}

	switch sess.game {
	case "tictactoe":
		s.reg.TicTacToe.HandleDisconnect(connID)
	case "tron":
		s.reg.Tron.HandleDisconnect(connID)
	case "asteroids":
		s.reg.Asteroids.HandleDisconnect(connID)
	case "tanks":
		s.reg.Tanks.HandleDisconnect(connID)
	}
}
