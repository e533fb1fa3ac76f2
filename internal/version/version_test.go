package version

import (
	"strings"
	"testing"
)

func TestColoredDisabledIsPlain(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	for _, v := range []string{"0.1.0-dev", "1.2.3", "1.0.0-beta.1", "1.2.3-rc.1+build.123", "nightly"} {
		Version = v
		if got := Colored(false); got != v {
			t.Errorf("Colored(false) = %q, want %q", got, v)
		}
	}
}

func TestColoredKeepsUnparsedVersion(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "nightly"
	if got := Colored(true); got != "nightly" {
		t.Fatalf("Colored(true) = %q", got)
	}
}

func TestColoredAddsEscapes(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "1.2.3-dev"
	got := Colored(true)
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-dev") {
		t.Fatalf("Colored(true) = %q", got)
	}
}
