package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"nsguard/internal/diagfmt"
	"nsguard/internal/erc7201"
)

const driftedFoo = `contract Foo {
    /// @custom:storage-location erc7201:erc7201.storage.Foo
    struct FooStorage {
        uint256 x;
    }

    bytes32 private constant FooStorageLocation = 0x0000000000000000000000000000000000000000000000000000000000000000;
}
`

// resetFlags restores every flag of the command tree to its default so
// tests can share the package-level commands.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NSGUARD_CACHE_ENABLED", "false")
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--quiet", "--color", "off"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSlotForID(t *testing.T) {
	out, err := execute(t, "slot", "example.main")
	if err != nil {
		t.Fatalf("slot: %v", err)
	}
	if !strings.Contains(out, "slot: 0x183a6125c38840424c4a85fa12bab2ab606c4b6d0e7cc73c0c06ba5300eab500") {
		t.Fatalf("output:\n%s", out)
	}
	// example.main has no .storage. part, so no struct or constant is rendered
	if strings.Contains(out, "constant") {
		t.Fatalf("unexpected constant:\n%s", out)
	}
}

func TestSlotForContractJSON(t *testing.T) {
	out, err := execute(t, "slot", "--contract", "Ownable", "--prefix", "openzeppelin", "--format", "json")
	if err != nil {
		t.Fatalf("slot: %v", err)
	}
	var got slotInfo
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	hash := "0x9016d09d72d40fdae2fd8ceac6b6234c7706214fd39c1cd1e609a0528c199300"
	want := slotInfo{
		ID:         "openzeppelin.storage.Ownable",
		Slot:       hash,
		Struct:     "OwnableStorage",
		IDComment:  "/// @custom:storage-location erc7201:openzeppelin.storage.Ownable",
		Derivation: `// keccak256(abi.encode(uint256(keccak256("openzeppelin.storage.Ownable")) - 1)) & ~bytes32(uint256(0xff))`,
		Constant:   "bytes32 private constant OwnableStorageLocation = " + hash + ";",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("slot (-want +got):\n%s", diff)
	}
}

func TestSlotRejectsIDAndContract(t *testing.T) {
	if _, err := execute(t, "slot", "a.storage.B", "--contract", "B"); err == nil {
		t.Fatal("expected error")
	}
}

func TestCheckJSONReportsErrors(t *testing.T) {
	path := writeSource(t, "Foo.sol", driftedFoo)
	out, err := execute(t, "check", "--format", "json", path)

	var ee *exitError
	if !errors.As(err, &ee) || ee.code != 1 {
		t.Fatalf("err = %v, want exit status 1", err)
	}
	var doc diagfmt.DiagnosticsOutput
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if doc.Count != 1 || doc.Diagnostics[0].Code != "namespace-hash-mismatch" || doc.Diagnostics[0].Severity != "error" {
		t.Fatalf("diagnostics = %+v", doc.Diagnostics)
	}
}

func TestCheckCleanFileExitsZero(t *testing.T) {
	path := writeSource(t, "Bar.sol", "contract Bar {}\n")
	if _, err := execute(t, "check", path); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestCheckStrictFailsOnWarnings(t *testing.T) {
	src := strings.Replace(driftedFoo, "erc7201:erc7201.storage.Foo", "erc7201:erc7201.storage.Other", 1)
	src = strings.Replace(src, "0x0000000000000000000000000000000000000000000000000000000000000000", erc7201.SlotHash("erc7201.storage.Other"), 1)
	path := writeSource(t, "Foo.sol", src)

	if _, err := execute(t, "check", path); err != nil {
		t.Fatalf("check without --strict: %v", err)
	}
	var ee *exitError
	if _, err := execute(t, "check", "--strict", path); !errors.As(err, &ee) || ee.code != 1 {
		t.Fatalf("check --strict err = %v", err)
	}
}

func TestFixAllRewritesSlot(t *testing.T) {
	path := writeSource(t, "Foo.sol", driftedFoo)
	out, err := execute(t, "fix", "--all", path)
	if err != nil {
		t.Fatalf("fix: %v\n%s", err, out)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Replace(driftedFoo, "0x0000000000000000000000000000000000000000000000000000000000000000", erc7201.SlotHash("erc7201.storage.Foo"), 1)
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Fatalf("file (-want +got):\n%s", diff)
	}
	if !strings.Contains(out, "Applied 1 fix(es)") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestFixDryRunLeavesFile(t *testing.T) {
	path := writeSource(t, "Foo.sol", driftedFoo)
	out, err := execute(t, "fix", "--all", "--dry-run", path)
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != driftedFoo {
		t.Fatal("dry run modified the file")
	}
	if !strings.Contains(out, "Would apply 1 fix(es)") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestFixRejectsConflictingModes(t *testing.T) {
	for _, args := range [][]string{
		{"fix", "--all", "--once"},
		{"fix", "--id", "x", "--all"},
		{"fix", "--refactors"},
	} {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]progressMode{"": progressAuto, "AUTO": progressAuto, "on": progressOn, " off ": progressOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("expected error")
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(nil); got != 0 {
		t.Fatalf("exitCode(nil) = %d", got)
	}
	if got := exitCode(&exitError{code: 1}); got != 1 {
		t.Fatalf("exitCode(exit 1) = %d", got)
	}
}
