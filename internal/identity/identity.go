// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

// Package identity synthesizes the network identifiers attached to simulated
// packets. Source addresses are random dotted quads; they carry no meaning
// and are not guaranteed unique.
package identity

import (
	"math/rand/v2"
	"strconv"
	"sync"
)

// Generator produces source addresses for simulated packets.
type Generator interface {
	NextSourceAddress() string
}

// Random draws every octet independently and uniformly from [1, 254].
// It is safe for concurrent use.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a generator seeded from the runtime's entropy source.
func NewRandom() *Random {
	return &Random{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded returns a reproducible generator.
func NewSeeded(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, seed))}
}

// New returns a seeded generator for a non-zero seed, otherwise an unseeded one.
func New(seed uint64) *Random {
	if seed == 0 {
		return NewRandom()
	}
	return NewSeeded(seed)
}

// NextSourceAddress returns the next synthetic IPv4 address.
func (g *Random) NextSourceAddress() string {
	g.mu.Lock()
	var octets [4]int
	for i := range octets {
		octets[i] = 1 + g.rng.IntN(254)
	}
	g.mu.Unlock()

	buf := make([]byte, 0, 15)
	for i, o := range octets {
		if i > 0 {
			buf = append(buf, '.')
		}
		buf = strconv.AppendInt(buf, int64(o), 10)
	}
	return string(buf)
}

// Fixed always returns the same address. Useful for golden-file tests.
type Fixed string

// NextSourceAddress returns the fixed address.
func (f Fixed) NextSourceAddress() string {
	return string(f)
}
