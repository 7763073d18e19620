package quorumtest

import (
	"bytes"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/crypto"
)

// NewAddress returns a deterministic identity for given seed byte. Use a
// different seed for every actor in a test.
func NewAddress(seed byte) quorum.Address {
	key, err := crypto.KeyFromSeed(bytes.Repeat([]byte{seed}, 32))
	if err != nil {
		panic(err)
	}
	return key.Address()
}

// NewAddresses returns n distinct deterministic identities.
func NewAddresses(n int) []quorum.Address {
	res := make([]quorum.Address, n)
	for i := range res {
		res[i] = NewAddress(byte(i + 1))
	}
	return res
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) quorum.Address {
	t.Helper()

	addr, err := quorum.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
