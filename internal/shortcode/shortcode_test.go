package shortcode

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerateDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		code, err := Generate(func(c string) bool { return seen[c] })
		if err != nil {
			t.Fatalf("Generate() failed: %v", err)
		}
		if len(code) != Length {
			t.Errorf("Expected length %d, got %q", Length, code)
		}
		for _, ch := range code {
			if !strings.ContainsRune(Alphabet, ch) {
				t.Errorf("Code %q contains character outside alphabet: %c", code, ch)
			}
		}
		if seen[code] {
			t.Errorf("Duplicate code generated: %q", code)
		}
		seen[code] = true
	}
}

func TestGenerateExhaustion(t *testing.T) {
	// Every code is taken: creation must fail after exactly 10 attempts.
	attempts := 0
	_, err := Generate(func(string) bool {
		attempts++
		return true
	})
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("Expected ErrExhausted, got %v", err)
	}
	if attempts != 10 {
		t.Errorf("Expected exactly 10 attempts, got %d", attempts)
	}
}

func TestGenerateNilPredicate(t *testing.T) {
	code, err := Generate(nil)
	if err != nil {
		t.Fatalf("Generate(nil) failed: %v", err)
	}
	if len(code) != Length {
		t.Errorf("Expected length %d, got %q", Length, code)
	}
}
