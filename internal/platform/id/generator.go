package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// Generator creates opaque public IDs for stored records.
type Generator interface {
	NewID() (string, error)
}

// PrefixedGenerator returns "<prefix>_<24 hex chars>" identifiers.
type PrefixedGenerator struct {
	prefix string
}

func NewPrefixedGenerator(prefix string) *PrefixedGenerator {
	return &PrefixedGenerator{prefix: strings.TrimSpace(prefix)}
}

func (g *PrefixedGenerator) NewID() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	if g.prefix == "" {
		return hex.EncodeToString(buf), nil
	}
	return g.prefix + "_" + hex.EncodeToString(buf), nil
}
