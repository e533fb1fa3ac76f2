package refactor

import (
	"strings"

	"nsguard/internal/erc7201"
	"nsguard/internal/scan"
)

// layout carries the names and indentation one move fix renders with.
type layout struct {
	contract string
	id       string
	hash     string
	strct    string
	accessor string
	location string
	// indent is the contract member indentation; unit is one level.
	indent string
	unit   string
}

// joinLines joins ls so that every line after the first starts with indent.
// Empty lines get no trailing whitespace.
func joinLines(indent string, ls []string) string {
	var b strings.Builder
	for i, l := range ls {
		if i > 0 {
			b.WriteByte('\n')
			if l != "" {
				b.WriteString(indent)
			}
		}
		b.WriteString(l)
	}
	return b.String()
}

func field(v scan.Variable) string {
	return v.TypeText + " " + v.Name + ";"
}

func (l layout) pointerDecl() string {
	return l.strct + " storage " + erc7201.PointerName + " = " + l.accessor + "();"
}

func (l layout) structLines(vars []scan.Variable) []string {
	ls := []string{
		erc7201.FormatIDComment(l.id),
		"struct " + l.strct + " {",
	}
	for _, v := range vars {
		ls = append(ls, l.unit+field(v))
	}
	return append(ls, "}")
}

func (l layout) constantLines() []string {
	return []string{
		erc7201.FormatHashComment(l.id),
		"bytes32 private constant " + l.location + " = " + l.hash + ";",
	}
}

func (l layout) accessorLines() []string {
	return []string{
		"function " + l.accessor + "() private pure returns (" + l.strct + " storage " + erc7201.PointerName + ") {",
		l.unit + "assembly {",
		l.unit + l.unit + erc7201.PointerName + ".slot := " + l.location,
		l.unit + "}",
		"}",
	}
}

// constructorLines renders a constructor that only runs the moved
// initializers.
func (l layout) constructorLines(inits []string) []string {
	ls := []string{"constructor() {", l.unit + l.pointerDecl()}
	for _, s := range inits {
		ls = append(ls, l.unit+s)
	}
	return append(ls, "}")
}

// getterLines renders the external view function standing in for a public
// variable.
func (l layout) getterLines(v scan.Variable) []string {
	params := make([]string, 0, len(v.Getter.Params))
	access := erc7201.PointerName + "." + v.Name
	for _, p := range v.Getter.Params {
		params = append(params, p.Type+" "+p.Name)
		access += "[" + p.Name + "]"
	}
	return []string{
		"function " + v.Name + "(" + strings.Join(params, ", ") + ") external view returns (" + v.Getter.ReturnType + ") {",
		l.unit + l.pointerDecl(),
		l.unit + "return " + access + ";",
		"}",
	}
}

// namespaceBlock renders the full replacement for the first moved variable
// when the contract has no namespace struct yet.
func (l layout) namespaceBlock(vars []scan.Variable, withConstant, withAccessor bool, ctor []string) string {
	ls := l.structLines(vars)
	if withConstant {
		ls = append(ls, "")
		ls = append(ls, l.constantLines()...)
	}
	if withAccessor {
		ls = append(ls, "")
		ls = append(ls, l.accessorLines()...)
	}
	if len(ctor) > 0 {
		ls = append(ls, "")
		ls = append(ls, ctor...)
	}
	if vars[0].Getter != nil {
		ls = append(ls, "")
		ls = append(ls, l.getterLines(vars[0])...)
	}
	return joinLines(l.indent, ls)
}
