package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestRelevant(t *testing.T) {
	tests := map[string]bool{
		"src/Token.sol":         true,
		"foundry.toml":          true,
		"hardhat.config.ts":     true,
		"brownie-config.yaml":   true,
		".nsguard.yaml":         true,
		"README.md":             false,
		"src/Token.sol.swp":     false,
		"node_modules/x/y.json": false,
	}
	for path, want := range tests {
		if got := Relevant(path); got != want {
			t.Errorf("Relevant(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestRunBatchesChanges(t *testing.T) {
	root := t.TempDir()
	w, err := New([]string{root}, Options{Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	batches := make(chan []string, 4)
	go func() {
		_ = w.Run(ctx, func(paths []string) { batches <- paths })
	}()

	foo := filepath.Join(root, "Foo.sol")
	if err := os.WriteFile(foo, []byte("contract Foo {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-batches:
		if !slices.Contains(paths, foo) {
			t.Fatalf("batch = %v", paths)
		}
		for _, p := range paths {
			if !Relevant(p) {
				t.Fatalf("irrelevant path in batch: %s", p)
			}
		}
	case <-ctx.Done():
		t.Fatal("no batch before timeout")
	}
}

func TestNewMissingRoot(t *testing.T) {
	if _, err := New([]string{filepath.Join(t.TempDir(), "missing")}, Options{}); err == nil {
		t.Fatal("expected error for missing root")
	}
}
