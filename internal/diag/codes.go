package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// namespace drift (7201 after the standard)
	NsCanBeNamespaced        Code = 7201
	NsIDMismatch             Code = 7202
	NsIDMismatchHashComment  Code = 7203
	NsHashMismatch           Code = 7204
	NsStandaloneHashMismatch Code = 7205
)

var codeIDs = map[Code]string{
	UnknownCode:              "unknown",
	NsCanBeNamespaced:        "contract-can-be-namespaced",
	NsIDMismatch:             "namespace-id-mismatch",
	NsIDMismatchHashComment:  "namespace-id-mismatch-hash-comment",
	NsHashMismatch:           "namespace-hash-mismatch",
	NsStandaloneHashMismatch: "namespace-standalone-hash-mismatch",
}

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown diagnostic",
	NsCanBeNamespaced:        "Storage variables can move into an ERC-7201 namespace",
	NsIDMismatch:             "Namespace id differs from the canonical id",
	NsIDMismatchHashComment:  "Slot derivation comment names a non-canonical id",
	NsHashMismatch:           "Slot constant does not match the namespace id",
	NsStandaloneHashMismatch: "Slot constant does not match its derivation comment",
}

var codeSeverity = map[Code]Severity{
	NsCanBeNamespaced:        SevInfo,
	NsIDMismatch:             SevWarning,
	NsIDMismatchHashComment:  SevWarning,
	NsHashMismatch:           SevError,
	NsStandaloneHashMismatch: SevError,
}

// Codes lists every known namespace code in numeric order.
func Codes() []Code {
	return []Code{NsCanBeNamespaced, NsIDMismatch, NsIDMismatchHashComment, NsHashMismatch, NsStandaloneHashMismatch}
}

// ID returns the stable string code.
func (c Code) ID() string {
	if id, ok := codeIDs[c]; ok {
		return id
	}
	return codeIDs[UnknownCode]
}

// Number returns the numeric form, e.g. NS7204.
func (c Code) Number() string {
	return fmt.Sprintf("NS%04d", uint16(c))
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

// DefaultSeverity is the severity the validator reports the code with.
func (c Code) DefaultSeverity() Severity {
	return codeSeverity[c]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseCode resolves a string code or NSxxxx number.
func ParseCode(s string) (Code, bool) {
	for _, c := range Codes() {
		if c.ID() == s || c.Number() == s {
			return c, true
		}
	}
	return UnknownCode, false
}
