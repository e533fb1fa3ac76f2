package langversion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// configFile is a build-tool config that may pin the compiler.
type configFile struct {
	name   string
	source Source
	read   func(path string) (string, error)
}

var configFiles = []configFile{
	{"foundry.toml", SourceFoundry, readFoundry},
	{"brownie-config.yaml", SourceBrownie, readBrownie},
	{"hardhat.config.ts", SourceHardhat, readHardhat},
	{"hardhat.config.js", SourceHardhat, readHardhat},
}

type foundryConfig struct {
	Profile map[string]struct {
		SolcVersion string `toml:"solc_version"`
		Solc        string `toml:"solc"`
	} `toml:"profile"`
}

func readFoundry(path string) (string, error) {
	var cfg foundryConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return "", fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	p := cfg.Profile["default"]
	if p.SolcVersion != "" {
		return p.SolcVersion, nil
	}
	return p.Solc, nil
}

type brownieConfig struct {
	Compiler struct {
		Solc struct {
			Version string `yaml:"version"`
		} `yaml:"solc"`
	} `yaml:"compiler"`
}

func readBrownie(path string) (string, error) {
	// #nosec G304 -- path is found by walking up from the source file
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var cfg brownieConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	return cfg.Compiler.Solc.Version, nil
}

var hardhatRe = regexp.MustCompile(`version\s*:\s*["'](\d+\.\d+\.\d+)["']`)

func readHardhat(path string) (string, error) {
	// #nosec G304 -- path is found by walking up from the source file
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if m := hardhatRe.FindSubmatch(data); m != nil {
		return string(m[1]), nil
	}
	return "", nil
}

// findConfig walks up from dir and returns the first build-tool config.
// The nearest directory wins; within one directory foundry beats brownie
// beats hardhat.
func findConfig(dir string) (path string, cf configFile, ok bool, err error) {
	if dir == "" {
		return "", configFile{}, false, nil
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", configFile{}, false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, c := range configFiles {
			candidate := filepath.Join(dir, c.name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, c, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", configFile{}, false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", configFile{}, false, nil
		}
		dir = parent
	}
}

func cleanVersion(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}
