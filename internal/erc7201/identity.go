// Package erc7201 derives ERC-7201 namespace ids and storage slots and
// renders the comments a conforming contract carries.
package erc7201

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	// DefaultPrefix is used when nothing else names a prefix.
	DefaultPrefix = "erc7201"
	// Formula is the id scheme written in NatSpec tags.
	Formula = "erc7201"
	// PointerName is the storage pointer variable used by accessors.
	PointerName = "$"

	storageInfix = ".storage."
)

// ComputeID returns "<prefix>.storage.<contract>".
func ComputeID(prefix, contract string) string {
	return prefix + storageInfix + contract
}

// ParseID splits an id of the form "<prefix>.storage.<contract>" on the last
// ".storage." separator.
func ParseID(id string) (prefix, contract string, ok bool) {
	i := strings.LastIndex(id, storageInfix)
	if i <= 0 || i+len(storageInfix) >= len(id) {
		return "", "", false
	}
	return id[:i], id[i+len(storageInfix):], true
}

// SlotHash computes keccak256(abi.encode(uint256(keccak256(id)) - 1)) & ~bytes32(uint256(0xff))
// as 0x-prefixed lowercase hex.
func SlotHash(id string) string {
	h := keccak256([]byte(id))
	// uint256 - 1, wrapping; abi.encode of a uint256 is its 32-byte big-endian form
	for i := len(h) - 1; i >= 0; i-- {
		h[i]--
		if h[i] != 0xff {
			break
		}
	}
	slot := keccak256(h[:])
	slot[31] = 0
	return "0x" + hex.EncodeToString(slot[:])
}

// EqualHash compares two hex literals ignoring case.
func EqualHash(a, b string) bool {
	return strings.EqualFold(a, b)
}

// StructName returns the namespace struct name for a contract.
func StructName(contract string) string {
	return contract + "Storage"
}

// AccessorName returns the storage accessor function name for a contract.
func AccessorName(contract string) string {
	return "_get" + contract + "Storage"
}

// LocationName returns the slot constant name for a namespace struct.
func LocationName(structName string) string {
	return structName + "Location"
}

// ValidPrefix reports whether p is a non-empty dot-separated identifier path.
func ValidPrefix(p string) bool {
	if p == "" {
		return false
	}
	for _, part := range strings.Split(p, ".") {
		if part == "" {
			return false
		}
		for i, r := range part {
			switch {
			case r == '_' || r == '-' || r == '$':
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			case r >= '0' && r <= '9' && i > 0:
			default:
				return false
			}
		}
	}
	return true
}

func keccak256(b []byte) [32]byte {
	var out [32]byte
	h := sha3.NewLegacyKeccak256()
	h.Write(b)
	h.Sum(out[:0])
	return out
}
