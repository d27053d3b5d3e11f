package session

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"
)

// EIDBytes is the number of random bytes behind an EID. Ten hex characters
// fit the radio local-name budget next to the advertisement prefix.
const EIDBytes = 5

// EID is the short identifier a payee device broadcasts.
type EID string

func (e EID) String() string {
	return string(e)
}

// ParseEID accepts exactly 2*EIDBytes hex characters and normalizes them to
// lower case.
func ParseEID(s string) (EID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != EIDBytes*2 {
		return "", ErrInvalidEID
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", ErrInvalidEID
	}
	return EID(s), nil
}

type EIDGenerator interface {
	NewEID() (EID, error)
}

type RandomEIDGenerator struct {
	Reader io.Reader
}

func NewRandomEIDGenerator() *RandomEIDGenerator {
	return &RandomEIDGenerator{Reader: rand.Reader}
}

func (g *RandomEIDGenerator) NewEID() (EID, error) {
	buf := make([]byte, EIDBytes)
	if _, err := io.ReadFull(g.Reader, buf); err != nil {
		return "", err
	}
	return EID(hex.EncodeToString(buf)), nil
}
