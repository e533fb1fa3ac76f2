package diagfmt

import (
	"os"

	"golang.org/x/term"
)

// UseColor resolves a --color mode (auto|on|off) for f. NO_COLOR disables
// auto mode.
func UseColor(mode string, f *os.File) bool {
	switch mode {
	case "on", "always":
		return true
	case "off", "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}
