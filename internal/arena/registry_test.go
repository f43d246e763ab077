package arena

import (
	"errors"
	"strings"
	"testing"

	"ws-arcade/internal/shortcode"
)

func newTestRegistry() *Registry[*fakeMatch] {
	return NewRegistry[*fakeMatch]("fake", fakeFactory, testLogger())
}

func TestCreateIssuesCodeAndToken(t *testing.T) {
	reg := newTestRegistry()

	m, token, err := reg.Create("alice")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if len(m.Code()) != shortcode.Length {
		t.Errorf("Code %q has length %d, want %d", m.Code(), len(m.Code()), shortcode.Length)
	}
	if token == "" || strings.Contains(token, "-") {
		t.Errorf("Expected a compact session token, got %q", token)
	}
	if reg.Count() != 1 {
		t.Errorf("Expected 1 tracked match, got %d", reg.Count())
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	reg := newTestRegistry()

	m, _, err := reg.Create("alice")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	got, ok := reg.Lookup(strings.ToLower(m.Code()))
	if !ok {
		t.Fatal("Lookup with lowercase code failed")
	}
	if got.Code() != m.Code() {
		t.Errorf("Lookup returned %q, want %q", got.Code(), m.Code())
	}
}

func TestJoinUnknownCode(t *testing.T) {
	reg := newTestRegistry()

	_, _, err := reg.Join("ZZZZZZ", "bob", "tok", "conn")
	if !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("Expected ErrMatchNotFound, got %v", err)
	}
}

func TestJoinFullMatch(t *testing.T) {
	reg := newTestRegistry()

	m, _, err := reg.Create("alice")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if _, num, err := reg.Join(m.Code(), "bob", "tok-2", "conn-2"); err != nil || num != 2 {
		t.Fatalf("First join: num=%d err=%v", num, err)
	}
	if _, _, err := reg.Join(m.Code(), "carol", "tok-3", "conn-3"); !errors.Is(err, ErrMatchFull) {
		t.Errorf("Expected ErrMatchFull, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	reg := newTestRegistry()

	m, _, err := reg.Create("alice")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	reg.Remove(m.Code())
	if reg.Count() != 0 {
		t.Errorf("Expected empty registry after removal, got %d", reg.Count())
	}
	// Removing again is a no-op.
	reg.Remove(m.Code())
}
