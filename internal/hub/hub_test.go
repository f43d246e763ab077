package hub

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestHub() *Hub {
	return New(log.New(io.Discard))
}

// addClient registers a client directly, bypassing the websocket upgrade.
func addClient(h *Hub, id string) *Client {
	c := &Client{ID: id, hub: h, send: make(chan []byte, 8)}
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	return c
}

func receive(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case data := <-c.send:
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("unmarshaling frame: %v", err)
		}
		return env
	default:
		t.Fatalf("client %s received nothing", c.ID)
		return Envelope{}
	}
}

func assertEmpty(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("client %s unexpectedly received %s", c.ID, data)
	default:
	}
}

func TestSubscribeMovesBetweenGroups(t *testing.T) {
	h := newTestHub()
	c := addClient(h, "conn-1")

	h.Subscribe(c, "AAA111")
	if len(h.groups["AAA111"]) != 1 {
		t.Fatalf("Expected 1 member in AAA111, got %d", len(h.groups["AAA111"]))
	}

	h.Subscribe(c, "BBB222")
	if _, ok := h.groups["AAA111"]; ok {
		t.Error("Expected empty old group to be deleted")
	}
	if len(h.groups["BBB222"]) != 1 {
		t.Errorf("Expected 1 member in BBB222, got %d", len(h.groups["BBB222"]))
	}
	if c.group != "BBB222" {
		t.Errorf("Expected client group BBB222, got %s", c.group)
	}
}

func TestToGroupDeliversEnvelopeToAllMembers(t *testing.T) {
	h := newTestHub()
	c1 := addClient(h, "conn-1")
	c2 := addClient(h, "conn-2")
	outsider := addClient(h, "conn-3")
	h.Subscribe(c1, "AAA111")
	h.Subscribe(c2, "AAA111")

	h.ToGroup("AAA111", "Tick", map[string]int{"tick": 7})

	for _, c := range []*Client{c1, c2} {
		env := receive(t, c)
		if env.Event != "Tick" {
			t.Errorf("Expected Tick event, got %s", env.Event)
		}
	}
	assertEmpty(t, outsider)
}

func TestToGroupExceptSkipsOneConnection(t *testing.T) {
	h := newTestHub()
	c1 := addClient(h, "conn-1")
	c2 := addClient(h, "conn-2")
	h.Subscribe(c1, "AAA111")
	h.Subscribe(c2, "AAA111")

	h.ToGroupExcept("AAA111", "conn-1", "AimUpdate", nil)

	assertEmpty(t, c1)
	if env := receive(t, c2); env.Event != "AimUpdate" {
		t.Errorf("Expected AimUpdate, got %s", env.Event)
	}
}

func TestToConnTargetsOneClient(t *testing.T) {
	h := newTestHub()
	c1 := addClient(h, "conn-1")
	c2 := addClient(h, "conn-2")

	h.ToConn("conn-2", "Error", map[string]string{"message": "nope"})

	assertEmpty(t, c1)
	if env := receive(t, c2); env.Event != "Error" {
		t.Errorf("Expected Error, got %s", env.Event)
	}

	// Unknown connection is a no-op.
	h.ToConn("conn-9", "Error", nil)
}

func TestDropCleansUpAndNotifies(t *testing.T) {
	h := newTestHub()
	var dropped string
	h.OnDisconnect = func(connID string) { dropped = connID }

	c := addClient(h, "conn-1")
	h.Subscribe(c, "AAA111")

	h.drop(c)

	if h.ClientCount() != 0 {
		t.Errorf("Expected 0 clients, got %d", h.ClientCount())
	}
	if _, ok := h.groups["AAA111"]; ok {
		t.Error("Expected group to be removed with its last member")
	}
	if dropped != "conn-1" {
		t.Errorf("Expected disconnect callback for conn-1, got %q", dropped)
	}
	if _, open := <-c.send; open {
		t.Error("Expected send channel to be closed")
	}

	// Dropping twice is safe.
	h.drop(c)
}

func TestFanOutDuringDropDoesNotPanic(t *testing.T) {
	h := newTestHub()

	clients := make([]*Client, 0, 64)
	for i := 0; i < 64; i++ {
		c := addClient(h, fmt.Sprintf("conn-%d", i))
		h.Subscribe(c, "AAA111")
		clients = append(clients, c)
	}

	// Hammer group and targeted sends while every client is dropped
	// concurrently. A send landing on a closed channel would panic.
	var wg sync.WaitGroup
	for w := 0; w < 3; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				h.ToGroup("AAA111", "Tick", i)
				h.ToConn("conn-0", "Tick", i)
			}
		}()
	}
	for _, c := range clients {
		h.drop(c)
	}
	wg.Wait()

	if h.ClientCount() != 0 {
		t.Errorf("Expected all clients dropped, got %d", h.ClientCount())
	}
}

func TestEnqueueDropsFramesWhenBufferFull(t *testing.T) {
	h := newTestHub()
	c := &Client{ID: "conn-1", hub: h, send: make(chan []byte, 1)}
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	h.ToConn("conn-1", "Tick", 1)
	h.ToConn("conn-1", "Tick", 2) // buffer full, must not block

	env := receive(t, c)
	if env.Event != "Tick" {
		t.Errorf("Expected the first frame to survive, got %s", env.Event)
	}
	assertEmpty(t, c)
}
