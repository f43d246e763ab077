// Package shortcode generates short human-shareable match codes.
// Codes use a fixed alphabet that excludes visually ambiguous characters
// (0/O, 1/I) so they survive being read aloud or typed from a phone screen.
package shortcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Alphabet is the set of characters codes are drawn from.
	Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// Length is the fixed code length.
	Length = 6

	// maxAttempts bounds collision retries before giving up.
	maxAttempts = 10
)

// ErrExhausted is returned when a unique code could not be found
// within the retry budget.
var ErrExhausted = fmt.Errorf("shortcode: no unique code after %d attempts", maxAttempts)

// Generate produces a random code that the taken predicate rejects as
// a duplicate. It retries up to 10 times before returning ErrExhausted.
func Generate(taken func(string) bool) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := random()
		if err != nil {
			return "", err
		}
		if taken == nil || !taken(code) {
			return code, nil
		}
	}
	return "", ErrExhausted
}

// random builds one code from crypto/rand.
func random() (string, error) {
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(Alphabet))))
		if err != nil {
			return "", fmt.Errorf("shortcode: reading randomness: %w", err)
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}
