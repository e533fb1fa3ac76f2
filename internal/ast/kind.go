package ast

// Kind identifies the syntactic category of a Node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindSourceUnit
	KindPragma
	KindImport
	KindContract
	KindStruct
	KindStateVar
	KindFunction
	KindEnum
	KindEvent
	KindError
	KindUsing
	KindOther
)

var kindNames = [...]string{
	KindInvalid:    "Invalid",
	KindSourceUnit: "SourceUnit",
	KindPragma:     "Pragma",
	KindImport:     "Import",
	KindContract:   "Contract",
	KindStruct:     "Struct",
	KindStateVar:   "StateVar",
	KindFunction:   "Function",
	KindEnum:       "Enum",
	KindEvent:      "Event",
	KindError:      "Error",
	KindUsing:      "Using",
	KindOther:      "Other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// ContractKind distinguishes contract-like declarations.
type ContractKind uint8

const (
	ContractPlain ContractKind = iota
	ContractAbstract
	ContractLibrary
	ContractInterface
)

// HasStorage reports whether declarations of this kind may own state variables.
func (k ContractKind) HasStorage() bool {
	return k == ContractPlain || k == ContractAbstract
}

// FuncKind distinguishes callable declarations that own a body.
type FuncKind uint8

const (
	FuncFunction FuncKind = iota
	FuncConstructor
	FuncModifier
	FuncFallback
	FuncReceive
)

func (k FuncKind) String() string {
	switch k {
	case FuncConstructor:
		return "constructor"
	case FuncModifier:
		return "modifier"
	case FuncFallback:
		return "fallback"
	case FuncReceive:
		return "receive"
	default:
		return "function"
	}
}
