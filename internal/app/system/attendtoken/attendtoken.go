// internal/app/system/attendtoken/attendtoken.go

// Package attendtoken generates the attendance token printed in an event's
// scannable code.
//
// A token is 32 bytes from a cryptographic source, encoded as lowercase
// base32 without padding: 52 characters, all in [a-z2-7], safe in URL
// paths without escaping. The token is not derived from the event ID.
package attendtoken

import (
	"encoding/base32"
	"errors"
	"strings"

	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Size is the number of random bytes in a token.
const Size = 32

// EncodedLen is the length of an encoded token.
var EncodedLen = encoding.EncodedLen(Size)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// ErrNoEntropy is returned when the random source fails.
var ErrNoEntropy = errors.New("attendtoken: random source unavailable")

// Generator produces attendance tokens. The zero value is ready to use.
type Generator struct {
	// Random returns n random bytes, or nil on failure.
	// Defaults to securecookie.GenerateRandomKey.
	Random func(n int) []byte
}

// Generate returns a fresh token for eventID.
func (g Generator) Generate(eventID primitive.ObjectID) (string, error) {
	random := g.Random
	if random == nil {
		random = securecookie.GenerateRandomKey
	}
	b := random(Size)
	if len(b) != Size {
		return "", ErrNoEntropy
	}
	return strings.ToLower(encoding.EncodeToString(b)), nil
}

// Parse normalizes a scanned payload and reports whether it is well formed.
func (Generator) Parse(payload string) (string, bool) {
	tok := Normalize(payload)
	return tok, WellFormed(tok)
}

// Normalize trims and lowercases a decoded payload so that scanners that
// upper-case QR text still resolve.
func Normalize(payload string) string {
	return strings.ToLower(strings.TrimSpace(payload))
}

// WellFormed reports whether s could be a token produced by Generate.
// It is a cheap pre-check; only the store decides whether it names an event.
func WellFormed(s string) bool {
	if len(s) != EncodedLen {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '2' || r > '7') {
			return false
		}
	}
	return true
}
