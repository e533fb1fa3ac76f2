package erc7201

import (
	"regexp"
	"strings"
)

var (
	idTagRe = regexp.MustCompile(`@custom:storage-location\s+erc7201:([^\s*]+)`)
	hashRe  = regexp.MustCompile(`keccak256\(\s*abi\.encode\(\s*uint256\(\s*keccak256\(\s*"([^"]*)"\s*\)\s*\)\s*-\s*1\s*\)\s*\)\s*&\s*~\s*bytes32\(\s*uint256\(\s*0xff\s*\)\s*\)`)
	hexRe   = regexp.MustCompile(`^0[xX][0-9a-fA-F]{64}$`)
)

// FormatIDComment renders the NatSpec tag placed above a namespace struct.
func FormatIDComment(id string) string {
	return "/// @custom:storage-location " + Formula + ":" + id
}

// FormatHashComment renders the derivation comment placed above the slot constant.
func FormatHashComment(id string) string {
	return `// keccak256(abi.encode(uint256(keccak256("` + id + `")) - 1)) & ~bytes32(uint256(0xff))`
}

// FormatSlotConstant renders the slot constant declaration.
func FormatSlotConstant(structName, hash string) string {
	return "bytes32 private constant " + LocationName(structName) + " = " + hash + ";"
}

// FormatDerivation renders the hash comment and the constant on two lines,
// the second prefixed with indent.
func FormatDerivation(id, structName, indent string) string {
	return FormatHashComment(id) + "\n" + indent + FormatSlotConstant(structName, SlotHash(id))
}

// FindIDTag locates an erc7201 storage-location tag in comment text. off is
// the byte offset of the id inside text.
func FindIDTag(text string) (id string, off int, ok bool) {
	m := idTagRe.FindStringSubmatchIndex(text)
	if m == nil {
		return "", 0, false
	}
	return text[m[2]:m[3]], m[2], true
}

// FindHashComment locates a derivation comment and returns the embedded id
// and its byte offset inside text.
func FindHashComment(text string) (id string, off int, ok bool) {
	m := hashRe.FindStringSubmatchIndex(text)
	if m == nil {
		return "", 0, false
	}
	return text[m[2]:m[3]], m[2], true
}

// IsSlotLiteral reports whether s is a 32-byte hex literal.
func IsSlotLiteral(s string) bool {
	return hexRe.MatchString(strings.TrimSpace(s))
}
