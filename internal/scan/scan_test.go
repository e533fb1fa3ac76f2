package scan_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"nsguard/internal/erc7201"
	"nsguard/internal/parser"
	"nsguard/internal/scan"
	"nsguard/internal/source"
)

func scanSource(t *testing.T, src string) []scan.Contract {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.sol", []byte(src))
	res := parser.ParseFile(fs.Get(id), parser.Options{})
	return scan.File(res.Tree, scan.Options{Prefix: "erc7201"})
}

func TestFreeVariablesSkipConstantsAndImmutables(t *testing.T) {
	cs := scanSource(t, `contract Foo {
    uint256 public x = 1;
    mapping(address => uint256) balances;
    uint256 constant MAX = 1;
    address immutable owner;
    function f() public { x = 2; }
}`)
	if len(cs) != 1 {
		t.Fatalf("got %d contracts", len(cs))
	}
	var names []string
	for _, v := range cs[0].Vars {
		names = append(names, v.Name)
	}
	if diff := cmp.Diff([]string{"x", "balances"}, names); diff != "" {
		t.Fatalf("vars (-want +got):\n%s", diff)
	}
	x := cs[0].Vars[0]
	if x.Content != "uint256 public x = 1;" || x.TypeText != "uint256" {
		t.Errorf("x = %+v", x)
	}
	if x.Getter == nil || x.Getter.ReturnType != "uint256" || len(x.Getter.Params) != 0 {
		t.Errorf("x getter = %+v", x.Getter)
	}
	if cs[0].Vars[1].Getter != nil {
		t.Errorf("private var got a getter")
	}
	if len(cs[0].Functions) != 1 || cs[0].Functions[0].Name != "f" {
		t.Errorf("functions = %+v", cs[0].Functions)
	}
	if cs[0].Namespace != nil {
		t.Errorf("unexpected namespace struct")
	}
}

func TestGetterForMappingsAndArrays(t *testing.T) {
	cs := scanSource(t, `contract Foo {
    struct Pos { uint256 a; }
    mapping(string => mapping(uint256 => uint256[])) public deep;
    Pos[] public positions;
    string public name;
}`)
	vars := cs[0].Vars
	want := []*scan.Getter{
		{Params: []scan.GetterParam{{Type: "string calldata", Name: "key0"}, {Type: "uint256", Name: "key1"}, {Type: "uint256", Name: "index2"}}, ReturnType: "uint256"},
		{Params: []scan.GetterParam{{Type: "uint256", Name: "index0"}}, ReturnType: "Pos memory"},
		{ReturnType: "string memory"},
	}
	for i, w := range want {
		if diff := cmp.Diff(w, vars[i].Getter); diff != "" {
			t.Errorf("getter %s (-want +got):\n%s", vars[i].Name, diff)
		}
	}
}

func TestNamespaceStructAndAccessor(t *testing.T) {
	src := `contract Foo {
    /// @custom:storage-location erc7201:erc7201.storage.Foo
    struct FooStorage {
        uint256 y;
    }

    // keccak256(abi.encode(uint256(keccak256("erc7201.storage.Foo")) - 1)) & ~bytes32(uint256(0xff))
    bytes32 private constant FooStorageLocation = 0x0000000000000000000000000000000000000000000000000000000000000000;

    function _getFooStorage() private pure returns (FooStorage storage $) {
        assembly { $.slot := FooStorageLocation }
    }
}`
	cs := scanSource(t, src)
	c := cs[0]
	if c.Namespace == nil {
		t.Fatal("namespace struct not found")
	}
	if c.Namespace.StructName != "FooStorage" || c.Namespace.Prefix != "erc7201" || c.Namespace.ID != "erc7201.storage.Foo" {
		t.Errorf("namespace = %+v", c.Namespace)
	}
	if diff := cmp.Diff([]string{"y"}, c.Namespace.Fields); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}
	if src[c.Namespace.RBrace.Start:c.Namespace.RBrace.End] != "}" {
		t.Errorf("rbrace span wrong")
	}
	if got := src[c.Tagged.Span.Start:c.Tagged.Span.End]; got != "erc7201.storage.Foo" {
		t.Errorf("tag span text = %q", got)
	}
	if len(c.Constants) != 1 || !c.Constants[0].Paired || c.Constants[0].CommentID != "erc7201.storage.Foo" {
		t.Fatalf("constants = %+v", c.Constants)
	}
	k := c.Constants[0]
	if got := src[k.CommentIDSpan.Start:k.CommentIDSpan.End]; got != "erc7201.storage.Foo" {
		t.Errorf("comment id span text = %q", got)
	}
	if got := src[k.LiteralSpan.Start:k.LiteralSpan.End]; got != k.Literal {
		t.Errorf("literal span text = %q", got)
	}
	if c.Accessor == nil || c.Accessor.Name != "_getFooStorage" {
		t.Errorf("accessor = %+v", c.Accessor)
	}
	if len(c.Vars) != 0 {
		t.Errorf("vars = %+v", c.Vars)
	}
}

func TestMismatchedTagIsNotNamespace(t *testing.T) {
	cs := scanSource(t, `contract Foo {
    /// @custom:storage-location erc7201:erc7201.storage.Bar
    struct FooStorage { uint256 y; }
}`)
	c := cs[0]
	if c.Namespace != nil {
		t.Fatalf("mismatched tag must not count as namespace")
	}
	if c.Tagged == nil || c.Tagged.ID != "erc7201.storage.Bar" {
		t.Fatalf("tagged = %+v", c.Tagged)
	}
	if got := c.Canonical("erc7201"); got != "erc7201.storage.Foo" {
		t.Errorf("canonical = %q", got)
	}
}

func TestDeclaredPrefixIsKept(t *testing.T) {
	cs := scanSource(t, `contract Foo {
    /// @custom:storage-location erc7201:openzeppelin.storage.Foo
    struct FooStorage { uint256 y; }
}`)
	if cs[0].Namespace == nil || cs[0].Namespace.Prefix != "openzeppelin" {
		t.Fatalf("namespace = %+v", cs[0].Namespace)
	}
}

// Only the first tagged struct of a contract is examined. A second tagged
// struct with a wrong id is not reported: this documents the current
// first-match behaviour, which can hide a genuine mismatch.
func TestFirstTaggedStructWins(t *testing.T) {
	cs := scanSource(t, `contract Foo {
    /// @custom:storage-location erc7201:erc7201.storage.Foo
    struct FooStorage { uint256 y; }
    /// @custom:storage-location erc7201:erc7201.storage.Wrong
    struct OtherStorage { uint256 z; }
}`)
	c := cs[0]
	if c.Tagged.StructName != "FooStorage" {
		t.Fatalf("tagged = %+v", c.Tagged)
	}
	if c.Namespace == nil {
		t.Fatal("first struct should be the namespace")
	}
}

func TestSkipsLibrariesInterfacesAndBroken(t *testing.T) {
	cs := scanSource(t, `library L { }
interface I { }
contract Broken {
    uint256 a;
    function f() public {

contract Ok {
    uint256 b;
}`)
	if len(cs) != 1 || cs[0].Name != "Ok" {
		t.Fatalf("contracts = %+v", cs)
	}
}

func TestStandaloneConstantIsUnpaired(t *testing.T) {
	id := "erc7201.storage.Other"
	cs := scanSource(t, `contract Foo {
    // keccak256(abi.encode(uint256(keccak256("`+id+`")) - 1)) & ~bytes32(uint256(0xff))
    bytes32 private constant OTHER = `+erc7201.SlotHash(id)+`;
    bytes32 private constant PLAIN = 0x1111111111111111111111111111111111111111111111111111111111111111;
}`)
	ks := cs[0].Constants
	if len(ks) != 1 || ks[0].Paired || ks[0].CommentID != id {
		t.Fatalf("constants = %+v", ks)
	}
}

func TestVariableInitializerAndDocComment(t *testing.T) {
	src := `contract Foo {
    uint256 a = 1 + 2; // trailing
    // section

    /// @notice b docs
    /** more */
    uint256 b;
    uint256 c;
}`
	cs := scanSource(t, src)
	if len(cs) != 1 || len(cs[0].Vars) != 3 {
		t.Fatalf("contracts = %+v", cs)
	}
	a, b, c := cs[0].Vars[0], cs[0].Vars[1], cs[0].Vars[2]
	if a.Init != "1 + 2" || src[a.InitSpan.Start:a.InitSpan.End] != "1 + 2" {
		t.Errorf("a init = %q at %v", a.Init, a.InitSpan)
	}
	if a.HasDoc {
		t.Errorf("a has doc %v", a.Doc)
	}
	if !b.HasDoc || src[b.Doc.Start:b.Doc.End] != "/// @notice b docs\n    /** more */" {
		t.Errorf("b doc = %v %q", b.HasDoc, src[b.Doc.Start:b.Doc.End])
	}
	if b.Init != "" || c.HasDoc {
		t.Errorf("b init = %q, c doc = %v", b.Init, c.HasDoc)
	}
}
