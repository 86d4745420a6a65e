// Package gameid generates time-sortable identifiers for hands and action
// records: a UUIDv7 encoded as 26 characters of Crockford base32, optionally
// behind a kind prefix such as "act_".
package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded ID without prefix.
const Length = 26

// Kind prefixes an ID with what it identifies.
type Kind string

const (
	Hand   Kind = "hand"
	Action Kind = "act"
)

// RandSource supplies random bytes; *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	IntN(n int) int
}

// Generator produces IDs from a clock and a source of randomness. It is safe
// for concurrent use.
type Generator struct {
	clock quartz.Clock

	mu         sync.Mutex
	randSource RandSource
}

// NewGenerator creates a generator. A nil clock uses the real clock and a nil
// RandSource uses crypto/rand.
func NewGenerator(clock quartz.Clock, randSource RandSource) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, randSource: randSource}
}

// Generate returns a bare 26-character ID.
func (g *Generator) Generate() string {
	uuid := g.generateUUIDv7()
	return encodeBase32(uuid)
}

// New returns an ID with the kind prefix, e.g. "act_01h5n0et5q6mt3v7ms1234abcd".
func (g *Generator) New(kind Kind) string {
	return string(kind) + "_" + g.Generate()
}

// generateUUIDv7 creates a 128-bit UUIDv7
func (g *Generator) generateUUIDv7() [16]byte {
	var uuid [16]byte

	// 48-bit millisecond timestamp, then random bits with the version and
	// variant fields overwritten.
	now := g.clock.Now().UnixMilli()

	uuid[0] = byte(now >> 40)
	uuid[1] = byte(now >> 32)
	uuid[2] = byte(now >> 24)
	uuid[3] = byte(now >> 16)
	uuid[4] = byte(now >> 8)
	uuid[5] = byte(now)

	g.mu.Lock()
	if g.randSource != nil {
		for i := 6; i < 16; i++ {
			uuid[i] = byte(g.randSource.IntN(256))
		}
	} else if _, err := rand.Read(uuid[6:]); err != nil {
		g.mu.Unlock()
		panic("failed to generate random bytes: " + err.Error())
	}
	g.mu.Unlock()

	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return uuid
}

// encodeBase32 encodes a 128-bit UUID as a 26-character base32 string
func encodeBase32(data [16]byte) string {
	result := make([]byte, Length)

	// 5 bits per character, the final character carrying the last 3 bits
	// shifted up.
	for i := range Length {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8
		if bitIndex <= 3 {
			value = (data[byteIndex] >> (3 - bitIndex)) & 0x1f
		} else {
			value = (data[byteIndex] << (bitIndex - 3)) & 0x1f
			if byteIndex+1 < 16 {
				value |= data[byteIndex+1] >> (11 - bitIndex)
			}
		}

		result[i] = alphabet[value]
	}

	return string(result)
}

// Timestamp recovers the millisecond creation time from an ID, with or
// without a kind prefix.
func Timestamp(id string) (time.Time, error) {
	if err := Validate(id); err != nil {
		return time.Time{}, err
	}
	id = strip(id)

	// The first 48 bits span the first ten characters (50 bits).
	var ms int64
	for i := range 10 {
		ms = ms<<5 | int64(strings.IndexByte(alphabet, id[i]))
	}
	return time.UnixMilli(ms >> 2), nil
}

// Validate checks that an ID is 26 base32 characters, optionally behind a
// kind prefix.
func Validate(id string) error {
	id = strip(id)
	if len(id) != Length {
		return fmt.Errorf("id must be exactly %d characters, got %d", Length, len(id))
	}

	// 26 characters hold 130 bits; the top two must be zero.
	if id[0] > '7' {
		return fmt.Errorf("id first character must be 0-7, got %c", id[0])
	}

	for i := range len(id) {
		if !strings.ContainsRune(alphabet, rune(id[i])) {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}

	return nil
}

func strip(id string) string {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		return id[i+1:]
	}
	return id
}
