package weavetest

import (
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/crypto"
)

// NewKey returns a random private key.
func NewKey() crypto.PrivateKey {
	return crypto.GenPrivateKey()
}

// NewAddress returns a random, valid address.
func NewAddress() treasury.Address {
	return NewKey().Address()
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) treasury.Address {
	t.Helper()

	addr, err := treasury.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
