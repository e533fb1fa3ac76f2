// Package langversion resolves the Solidity version a file is parsed with.
package langversion

import (
	"strings"

	"golang.org/x/mod/semver"

	"nsguard/internal/parser"
)

// Latest is used when nothing else names a version.
const Latest = "0.8.28"

// transientSince is the first release where transient is a keyword.
const transientSince = "0.8.27"

// Source tells where a version came from.
type Source string

const (
	SourceSetting Source = "setting"
	SourceFoundry Source = "foundry.toml"
	SourceBrownie Source = "brownie-config.yaml"
	SourceHardhat Source = "hardhat.config"
	SourcePragma  Source = "pragma"
	SourceDefault Source = "default"
)

// Version is a resolved compiler version.
type Version struct {
	Value  string
	Source Source
}

// Compare orders two x.y.z versions. Invalid versions sort first.
func Compare(a, b string) int {
	return semver.Compare(canon(a), canon(b))
}

// Valid reports whether v is a plain x.y.z version.
func Valid(v string) bool {
	c := canon(v)
	return semver.IsValid(c) && semver.Canonical(c) == c
}

func canon(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "v")
	return "v" + v
}

// Transient reports whether transient is a keyword at this version.
func (v Version) Transient() bool {
	return Compare(v.Value, transientSince) >= 0
}

// ParserOptions returns the parser configuration for v.
func (v Version) ParserOptions() parser.Options {
	return parser.Options{Transient: v.Transient()}
}
