// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package identity

import (
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"testing"
)

func TestNextSourceAddress_OctetBounds(t *testing.T) {
	t.Parallel()

	g := NewSeeded(7)
	for i := 0; i < 5000; i++ {
		addr := g.NextSourceAddress()
		if _, err := netip.ParseAddr(addr); err != nil {
			t.Fatalf("invalid address %q: %v", addr, err)
		}
		parts := strings.Split(addr, ".")
		if len(parts) != 4 {
			t.Fatalf("address %q has %d octets", addr, len(parts))
		}
		for _, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				t.Fatalf("octet %q: %v", p, err)
			}
			if n < 1 || n > 254 {
				t.Fatalf("octet %d out of [1, 254] in %s", n, addr)
			}
		}
	}
}

func TestNewSeeded_Reproducible(t *testing.T) {
	t.Parallel()

	a, b := NewSeeded(99), NewSeeded(99)
	for i := 0; i < 100; i++ {
		if x, y := a.NextSourceAddress(), b.NextSourceAddress(); x != y {
			t.Fatalf("step %d: %s != %s", i, x, y)
		}
	}

	c := NewSeeded(100)
	same := 0
	for i := 0; i < 100; i++ {
		if a.NextSourceAddress() == c.NextSourceAddress() {
			same++
		}
	}
	if same == 100 {
		t.Error("different seeds produced identical sequences")
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	if New(0) == nil || New(5) == nil {
		t.Fatal("New returned nil")
	}
	if New(5).NextSourceAddress() != NewSeeded(5).NextSourceAddress() {
		t.Error("New with a seed should match NewSeeded")
	}
}

func TestRandom_ConcurrentUse(t *testing.T) {
	t.Parallel()

	g := NewRandom()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = g.NextSourceAddress()
			}
		}()
	}
	wg.Wait()
}

func TestFixed(t *testing.T) {
	t.Parallel()

	g := Fixed("10.0.0.1")
	if got := g.NextSourceAddress(); got != "10.0.0.1" {
		t.Errorf("NextSourceAddress() = %s", got)
	}
}
