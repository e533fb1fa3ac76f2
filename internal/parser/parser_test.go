package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"nsguard/internal/ast"
	"nsguard/internal/parser"
	"nsguard/internal/source"
	"nsguard/internal/token"
)

func parse(t *testing.T, src string) parser.Result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sol", []byte(src))
	return parser.ParseFile(fs.Get(id), parser.Options{})
}

func contracts(tree *ast.Tree) []*ast.Node {
	var out []*ast.Node
	for n := range tree.Cursor(ast.KindContract).All(0) {
		out = append(out, n)
	}
	return out
}

const sample = `// SPDX-License-Identifier: MIT
pragma solidity ^0.8.20;

import "./Base.sol";

contract Foo is Base(1), Other {
    uint256 public x = 1;
    mapping(address => uint256) private balances;
    uint256[] internal values;
    uint256 constant MAX = 10;
    address immutable owner;

    /// @custom:storage-location erc7201:erc7201.storage.Foo
    struct FooStorage {
        uint256 y;
        string name;
    }

    event Bumped(uint256 indexed by);
    error Nope();

    constructor(address o) Base(2) {
        owner = o;
    }

    modifier onlyOwner() {
        require(msg.sender == owner);
        _;
    }

    function bump(uint256 by) external onlyOwner returns (uint256 next) {
        x += by;
        return x;
    }

    function _getFooStorage() private pure returns (FooStorage storage $) {
        assembly { $.slot := 0 }
    }
}
`

func TestParseContractMembers(t *testing.T) {
	res := parse(t, sample)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
	cs := contracts(res.Tree)
	if len(cs) != 1 {
		t.Fatalf("got %d contracts, want 1", len(cs))
	}
	c := cs[0]
	if c.Name != "Foo" || c.Broken || c.ContractKind != ast.ContractPlain {
		t.Fatalf("contract = %q broken=%v kind=%v", c.Name, c.Broken, c.ContractKind)
	}

	var vars []string
	for n := range res.Tree.Cursor(ast.KindStateVar).Within(c).All(0) {
		vars = append(vars, n.Name)
	}
	if diff := cmp.Diff([]string{"x", "balances", "values", "MAX", "owner"}, vars); diff != "" {
		t.Errorf("state vars (-want +got):\n%s", diff)
	}

	var fns []string
	for n := range res.Tree.Cursor(ast.KindFunction).Within(c).All(0) {
		fns = append(fns, n.FuncKind.String()+":"+n.Name)
	}
	want := []string{"constructor:constructor", "modifier:onlyOwner", "function:bump", "function:_getFooStorage"}
	if diff := cmp.Diff(want, fns); diff != "" {
		t.Errorf("functions (-want +got):\n%s", diff)
	}
}

func TestStateVarDetails(t *testing.T) {
	res := parse(t, sample)
	byName := map[string]*ast.Node{}
	for n := range res.Tree.Cursor(ast.KindStateVar).All(0) {
		byName[n.Name] = n
	}

	x := byName["x"]
	if x.Type.Text != "uint256" || !x.IsPublic() || !x.HasInit {
		t.Errorf("x = %+v", x)
	}
	if got := res.Tree.Text(x.Init); got != "1" {
		t.Errorf("x init = %q", got)
	}
	if got := res.Tree.Text(x.Span); got != "uint256 public x = 1;" {
		t.Errorf("x span text = %q", got)
	}

	b := byName["balances"]
	if !b.Type.Mapping || b.Type.Key.Text != "address" || b.Type.Elem.Text != "uint256" {
		t.Errorf("balances type = %+v", b.Type)
	}
	if b.Visibility != token.KwPrivate {
		t.Errorf("balances visibility = %v", b.Visibility)
	}

	v := byName["values"]
	if !v.Type.Array || v.Type.Elem.Text != "uint256" || v.Type.Text != "uint256[]" {
		t.Errorf("values type = %+v", v.Type)
	}
	if !byName["MAX"].Constant || !byName["owner"].Immutable {
		t.Errorf("constant/immutable flags not set")
	}
}

func TestStructAndFunctionShape(t *testing.T) {
	res := parse(t, sample)
	st, ok := res.Tree.Cursor(ast.KindStruct).Next(0)
	if !ok {
		t.Fatal("no struct")
	}
	if st.Name != "FooStorage" || len(st.Fields) != 2 || st.Fields[1].Name != "name" {
		t.Fatalf("struct = %+v", st)
	}
	if res.Tree.Text(st.Body.RBrace) != "}" {
		t.Errorf("struct rbrace text = %q", res.Tree.Text(st.Body.RBrace))
	}
	if cs := st.Comments(); len(cs) != 1 || cs[0].Kind != token.TriviaDocLine {
		t.Errorf("struct comments = %+v", cs)
	}

	var bump *ast.Node
	for n := range res.Tree.Cursor(ast.KindFunction).All(0) {
		if n.Name == "bump" {
			bump = n
		}
	}
	if bump == nil {
		t.Fatal("bump not found")
	}
	if len(bump.Params) != 1 || bump.Params[0].Name != "by" || bump.Params[0].Type.Text != "uint256" {
		t.Errorf("params = %+v", bump.Params)
	}
	if len(bump.Returns) != 1 || bump.Returns[0].Name != "next" {
		t.Errorf("returns = %+v", bump.Returns)
	}
	var body []string
	for _, tok := range res.Tree.BodyTokens(bump.Body) {
		body = append(body, tok.Text)
	}
	if diff := cmp.Diff([]string{"x", "+=", "by", ";", "return", "x", ";"}, body); diff != "" {
		t.Errorf("body tokens (-want +got):\n%s", diff)
	}

	var acc *ast.Node
	for n := range res.Tree.Cursor(ast.KindFunction).All(0) {
		if n.Name == "_getFooStorage" {
			acc = n
		}
	}
	if len(acc.Returns) != 1 || acc.Returns[0].Location != token.KwStorage || acc.Returns[0].Name != "$" {
		t.Errorf("accessor returns = %+v", acc.Returns)
	}
}

func TestPragmaText(t *testing.T) {
	res := parse(t, sample)
	pr, ok := res.Tree.Cursor(ast.KindPragma).Next(0)
	if !ok || pr.Text != "solidity ^0.8.20" {
		t.Fatalf("pragma = %+v", pr)
	}
}

func TestBrokenContractIsIsolated(t *testing.T) {
	src := `contract A {
    uint256 a;
    function f() public {
        a = 1;

contract B {
    uint256 b;
}
`
	res := parse(t, src)
	cs := contracts(res.Tree)
	if len(cs) != 2 {
		t.Fatalf("got %d contracts, want 2", len(cs))
	}
	if !cs[0].Broken || cs[0].Name != "A" {
		t.Errorf("A should be broken: %+v", cs[0])
	}
	if cs[1].Broken || cs[1].Name != "B" {
		t.Errorf("B should parse: %+v", cs[1])
	}
	if len(res.Errors) == 0 {
		t.Errorf("expected a syntax error for A")
	}
	var bvars []string
	for n := range res.Tree.Cursor(ast.KindStateVar).Within(cs[1]).All(0) {
		bvars = append(bvars, n.Name)
	}
	if diff := cmp.Diff([]string{"b"}, bvars); diff != "" {
		t.Errorf("B vars (-want +got):\n%s", diff)
	}
}

func TestLibrariesAndInterfaces(t *testing.T) {
	res := parse(t, "interface I { function f() external; }\nlibrary L { function g() internal pure {} }\nabstract contract C {}")
	cs := contracts(res.Tree)
	if len(cs) != 3 {
		t.Fatalf("got %d contracts", len(cs))
	}
	kinds := []ast.ContractKind{cs[0].ContractKind, cs[1].ContractKind, cs[2].ContractKind}
	want := []ast.ContractKind{ast.ContractInterface, ast.ContractLibrary, ast.ContractAbstract}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}
	if cs[0].ContractKind.HasStorage() || !cs[2].ContractKind.HasStorage() {
		t.Errorf("HasStorage mismatch")
	}
}

func TestNestedMappingAndFunctionTypeVar(t *testing.T) {
	res := parse(t, `contract C {
    mapping(address => mapping(uint256 => bool)) public seen;
    function (uint256) external returns (bool) cb;
}`)
	var vars []*ast.Node
	for n := range res.Tree.Cursor(ast.KindStateVar).All(0) {
		vars = append(vars, n)
	}
	if len(vars) != 2 {
		t.Fatalf("got %d vars", len(vars))
	}
	seen := vars[0].Type
	if !seen.Mapping || !seen.Elem.Mapping || seen.Elem.Key.Text != "uint256" || seen.Elem.Elem.Text != "bool" {
		t.Errorf("seen type = %+v", seen)
	}
	if vars[1].Name != "cb" {
		t.Errorf("function-typed var name = %q", vars[1].Name)
	}
	if fn, ok := res.Tree.Cursor(ast.KindFunction).Next(0); ok {
		t.Errorf("unexpected function node %q", fn.Name)
	}
}

func TestUnclosedFileLevelFunction(t *testing.T) {
	head := "contract Foo {\n    uint256 x;\n}\n\n"
	for _, tail := range []string{
		"function helper(uint256 a) pure (\n",
		"function helper() pure (uint256",
		"function helper(uint256 a",
		"function helper() returns (",
		"function helper() {",
	} {
		res := parse(t, head+tail)
		cs := contracts(res.Tree)
		if len(cs) != 1 || cs[0].Name != "Foo" || cs[0].Broken {
			t.Errorf("%q: contracts = %+v", tail, cs)
		}
		if len(res.Errors) == 0 {
			t.Errorf("%q: expected a syntax error", tail)
		}
	}
}

func TestEveryPrefixParses(t *testing.T) {
	for i := range len(sample) + 1 {
		res := parse(t, sample[:i])
		if res.Tree == nil {
			t.Fatalf("prefix %d: nil tree", i)
		}
	}
}
