package langversion

import (
	"regexp"
	"strings"
)

var (
	pragmaRe  = regexp.MustCompile(`(?m)^\s*pragma\s+solidity\s+([^;]+);`)
	versionRe = regexp.MustCompile(`(\^|~|>=|<=|>|<|=)?\s*v?(\d+\.\d+(?:\.\d+)?)`)
)

// FromPragma picks a version from the first solidity pragma in src. Exact,
// caret, tilde and lower-bound constraints name their version; an upper
// bound alone is ignored.
func FromPragma(src []byte) (string, bool) {
	m := pragmaRe.FindSubmatch(src)
	if m == nil {
		return "", false
	}
	best := ""
	for _, part := range versionRe.FindAllStringSubmatch(string(m[1]), -1) {
		op, v := part[1], complete(part[2])
		if op == "<" || op == "<=" {
			continue
		}
		if best == "" || Compare(v, best) > 0 {
			best = v
		}
	}
	if best == "" || !Valid(best) {
		return "", false
	}
	return best, true
}

// complete pads "0.8" to "0.8.0".
func complete(v string) string {
	if strings.Count(v, ".") == 1 {
		return v + ".0"
	}
	return v
}
