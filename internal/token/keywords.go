package token

import "strings"

var keywords = map[string]Kind{
	"pragma":      KwPragma,
	"import":      KwImport,
	"contract":    KwContract,
	"abstract":    KwAbstract,
	"library":     KwLibrary,
	"interface":   KwInterface,
	"is":          KwIs,
	"struct":      KwStruct,
	"enum":        KwEnum,
	"event":       KwEvent,
	"error":       KwError,
	"using":       KwUsing,
	"type":        KwType,
	"function":    KwFunction,
	"constructor": KwConstructor,
	"modifier":    KwModifier,
	"fallback":    KwFallback,
	"receive":     KwReceive,
	"returns":     KwReturns,
	"return":      KwReturn,
	"mapping":     KwMapping,
	"public":      KwPublic,
	"private":     KwPrivate,
	"internal":    KwInternal,
	"external":    KwExternal,
	"constant":    KwConstant,
	"immutable":   KwImmutable,
	"transient":   KwTransient,
	"override":    KwOverride,
	"virtual":     KwVirtual,
	"payable":     KwPayable,
	"view":        KwView,
	"pure":        KwPure,
	"storage":     KwStorage,
	"memory":      KwMemory,
	"calldata":    KwCalldata,
	"assembly":    KwAssembly,
	"unchecked":   KwUnchecked,
	"emit":        KwEmit,
}

// LookupKeyword returns the keyword kind for ident, if any.
// transient is only a keyword when the caller enables it (solc >= 0.8.27);
// earlier compilers accept it as an identifier.
func LookupKeyword(ident string, transient bool) (Kind, bool) {
	k, ok := keywords[ident]
	if ok && k == KwTransient && !transient {
		return Ident, false
	}
	return k, ok
}

// IsElementaryType reports whether name is a Solidity elementary type name.
func IsElementaryType(name string) bool {
	switch name {
	case "address", "bool", "string", "bytes", "int", "uint", "byte", "fixed", "ufixed":
		return true
	}
	for _, prefix := range []string{"uint", "int", "bytes", "ufixed", "fixed"} {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || rest == "" {
			continue
		}
		if strings.Trim(rest, "0123456789x") == "" && rest[0] >= '0' && rest[0] <= '9' {
			return true
		}
	}
	return false
}
