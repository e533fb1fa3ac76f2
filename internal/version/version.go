// Package version holds build metadata for the nsguard CLI. The variables
// can be overridden at build time via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored renders Version with each numeric component in its own color.
// Anything after the patch number is left plain, and so is a version that
// is not x.y.z.
func Colored(enabled bool) string {
	v := strings.TrimSpace(Version)
	core, suffix := v, ""
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		core, suffix = v[:i], v[i:]
	}
	parts := strings.SplitN(core, ".", 3)
	if !enabled || len(parts) != 3 {
		return v
	}
	paint := func(s string, attrs ...color.Attribute) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.Sprint(s)
	}
	return paint(parts[0], color.FgYellow, color.Bold) + "." +
		paint(parts[1], color.FgGreen, color.Bold) + "." +
		paint(parts[2], color.FgBlue, color.Bold) + suffix
}
