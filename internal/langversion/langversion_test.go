package langversion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromPragma(t *testing.T) {
	tests := []struct {
		src  string
		want string
		ok   bool
	}{
		{"pragma solidity ^0.8.20;\ncontract A {}", "0.8.20", true},
		{"pragma solidity 0.8.28;", "0.8.28", true},
		{"// x\npragma solidity >=0.8.0 <0.9.0;", "0.8.0", true},
		{"pragma solidity ~0.7;", "0.7.0", true},
		{"pragma solidity <0.9.0;", "", false},
		{"pragma abicoder v2;\ncontract A {}", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := FromPragma([]byte(tt.src))
		if got != tt.want || ok != tt.ok {
			t.Errorf("FromPragma(%q) = %q, %v; want %q, %v", tt.src, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTransient(t *testing.T) {
	cases := map[string]bool{"0.8.26": false, "0.8.27": true, "0.8.28": true, "0.9.0": true, "0.7.6": false}
	for v, want := range cases {
		if got := (Version{Value: v}).Transient(); got != want {
			t.Errorf("Transient(%s) = %v, want %v", v, got, want)
		}
	}
	if !(Version{Value: "0.8.27"}).ParserOptions().Transient {
		t.Error("parser options do not enable transient")
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestResolvePriority(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "src", "Foo.sol")
	src := []byte("pragma solidity ^0.8.20;")
	var r Resolver

	if got := r.Resolve(Request{Path: file, Content: src}); got != (Version{Value: "0.8.20", Source: SourcePragma}) {
		t.Fatalf("pragma: got %+v", got)
	}

	write(t, filepath.Join(root, "hardhat.config.ts"), "export default { solidity: { version: \"0.8.24\" } };\n")
	if got := r.Resolve(Request{Path: file, Content: src}); got != (Version{Value: "0.8.24", Source: SourceHardhat}) {
		t.Fatalf("hardhat: got %+v", got)
	}

	write(t, filepath.Join(root, "brownie-config.yaml"), "compiler:\n  solc:\n    version: 0.8.25\n")
	if got := r.Resolve(Request{Path: file, Content: src}); got != (Version{Value: "0.8.25", Source: SourceBrownie}) {
		t.Fatalf("brownie: got %+v", got)
	}

	write(t, filepath.Join(root, "foundry.toml"), "[profile.default]\nsolc_version = \"0.8.27\"\n")
	if got := r.Resolve(Request{Path: file, Content: src}); got != (Version{Value: "0.8.27", Source: SourceFoundry}) {
		t.Fatalf("foundry: got %+v", got)
	}

	if got := r.Resolve(Request{Path: file, Content: src, Setting: "0.8.19"}); got != (Version{Value: "0.8.19", Source: SourceSetting}) {
		t.Fatalf("setting: got %+v", got)
	}
	if got := r.Resolve(Request{Path: file, Content: src, Setting: "latest-ish"}); got.Source != SourceFoundry {
		t.Fatalf("invalid setting should fall through, got %+v", got)
	}
}

func TestResolveDefaults(t *testing.T) {
	var r *Resolver
	got := r.Resolve(Request{Content: []byte("contract A {}")})
	if diff := cmp.Diff(Version{Value: Latest, Source: SourceDefault}, got); diff != "" {
		t.Fatalf("default (-want +got):\n%s", diff)
	}
}

func TestFoundryWithoutVersionFallsThrough(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "foundry.toml"), "[profile.default]\nsrc = \"src\"\n")
	var r Resolver
	got := r.Resolve(Request{Path: filepath.Join(root, "Foo.sol"), Content: []byte("pragma solidity 0.8.10;")})
	if got != (Version{Value: "0.8.10", Source: SourcePragma}) {
		t.Fatalf("got %+v", got)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	c, err := OpenDiskCache("nsguard", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := [32]byte{1, 2, 3}
	var out DiskEntry
	if hit, err := c.Get(key, &out); err != nil || hit {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}
	in := DiskEntry{Schema: diskCacheSchemaVersion, Path: "/p/foundry.toml", Value: "0.8.27", Source: string(SourceFoundry)}
	if err := c.Put(key, &in); err != nil {
		t.Fatal(err)
	}
	if hit, err := c.Get(key, &out); err != nil || !hit {
		t.Fatalf("cached: hit=%v err=%v", hit, err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("entry (-want +got):\n%s", diff)
	}
	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
	if hit, _ := c.Get(key, &out); hit {
		t.Fatal("entry survived DropAll")
	}
}

func TestResolverUsesDiskCache(t *testing.T) {
	root := t.TempDir()
	disk, err := OpenDiskCache("nsguard", filepath.Join(root, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	write(t, filepath.Join(root, "proj", "foundry.toml"), "[profile.default]\nsolc = \"0.8.21\"\n")
	r := Resolver{Disk: disk}
	req := Request{Path: filepath.Join(root, "proj", "Foo.sol")}
	first := r.Resolve(req)
	second := r.Resolve(req)
	want := Version{Value: "0.8.21", Source: SourceFoundry}
	if first != want || second != want {
		t.Fatalf("got %+v then %+v", first, second)
	}
	entries, err := os.ReadDir(filepath.Join(root, "cache", "solc"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one cache file, got %v (%v)", entries, err)
	}
}

func TestCache(t *testing.T) {
	c := NewCache()
	calls := 0
	resolve := func() Version { calls++; return Version{Value: "0.8.1", Source: SourcePragma} }

	c.Get("file:///a.sol", resolve)
	c.Get("file:///a.sol", resolve)
	if calls != 1 {
		t.Fatalf("expected one resolution, got %d", calls)
	}
	c.Forget("file:///a.sol")
	c.Get("file:///a.sol", resolve)
	c.Get("file:///b.sol", resolve)
	if calls != 3 || c.Len() != 2 {
		t.Fatalf("calls=%d len=%d", calls, c.Len())
	}
	c.Invalidate()
	if c.Len() != 0 {
		t.Fatalf("Invalidate left %d entries", c.Len())
	}
}
