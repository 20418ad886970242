package plasma

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLength is the size of a predicate address in bytes.
const AddressLength = 20

// Address identifies a predicate contract on the base chain.
type Address [AddressLength]byte

// EmptyAddress is the zero address.
var EmptyAddress = Address{}

// BytesToAddress returns an address from the given bytes, left-padded if the
// slice is shorter than an address.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// HexToAddress parses an address from its hex representation, with or without
// the 0x prefix.
func HexToAddress(h string) (Address, error) {
	h = strings.TrimPrefix(h, "0x")
	b, err := hex.DecodeString(h)
	if err != nil {
		return EmptyAddress, fmt.Errorf("could not decode address hex: %w", err)
	}
	if len(b) != AddressLength {
		return EmptyAddress, fmt.Errorf("invalid address length (%d != %d)", len(b), AddressLength)
	}
	return BytesToAddress(b), nil
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// Hex returns the hex representation of the address.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

func (a Address) String() string {
	return a.Hex()
}
