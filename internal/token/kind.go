package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	NumberLit
	StringLit

	KwPragma
	KwImport
	KwContract
	KwAbstract
	KwLibrary
	KwInterface
	KwIs
	KwStruct
	KwEnum
	KwEvent
	KwError
	KwUsing
	KwType
	KwFunction
	KwConstructor
	KwModifier
	KwFallback
	KwReceive
	KwReturns
	KwReturn
	KwMapping
	KwPublic
	KwPrivate
	KwInternal
	KwExternal
	KwConstant
	KwImmutable
	KwTransient
	KwOverride
	KwVirtual
	KwPayable
	KwView
	KwPure
	KwStorage
	KwMemory
	KwCalldata
	KwAssembly
	KwUnchecked
	KwEmit

	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Semicolon
	Comma
	Dot
	Colon
	Assign // =
	Arrow  // =>
	Op     // every other operator; Text carries the spelling
)

var kindNames = [...]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	Ident:         "Ident",
	NumberLit:     "NumberLit",
	StringLit:     "StringLit",
	KwPragma:      "pragma",
	KwImport:      "import",
	KwContract:    "contract",
	KwAbstract:    "abstract",
	KwLibrary:     "library",
	KwInterface:   "interface",
	KwIs:          "is",
	KwStruct:      "struct",
	KwEnum:        "enum",
	KwEvent:       "event",
	KwError:       "error",
	KwUsing:       "using",
	KwType:        "type",
	KwFunction:    "function",
	KwConstructor: "constructor",
	KwModifier:    "modifier",
	KwFallback:    "fallback",
	KwReceive:     "receive",
	KwReturns:     "returns",
	KwReturn:      "return",
	KwMapping:     "mapping",
	KwPublic:      "public",
	KwPrivate:     "private",
	KwInternal:    "internal",
	KwExternal:    "external",
	KwConstant:    "constant",
	KwImmutable:   "immutable",
	KwTransient:   "transient",
	KwOverride:    "override",
	KwVirtual:     "virtual",
	KwPayable:     "payable",
	KwView:        "view",
	KwPure:        "pure",
	KwStorage:     "storage",
	KwMemory:      "memory",
	KwCalldata:    "calldata",
	KwAssembly:    "assembly",
	KwUnchecked:   "unchecked",
	KwEmit:        "emit",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	LBracket:      "[",
	RBracket:      "]",
	Semicolon:     ";",
	Comma:         ",",
	Dot:           ".",
	Colon:         ":",
	Assign:        "=",
	Arrow:         "=>",
	Op:            "Op",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
