package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"nsguard/internal/diagfmt"
	"nsguard/internal/langversion"
	"nsguard/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
	// LatestSolc is the version assumed when nothing names one.
	LatestSolc string `json:"latest_solc"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show nsguard build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		full, err := cmd.Flags().GetBool("full")
		if err != nil {
			return err
		}
		colorMode, err := cmd.Flags().GetString("color")
		if err != nil {
			return err
		}
		payload := collectVersionInfo()
		switch strings.ToLower(format) {
		case "json":
			return renderVersionJSON(cmd.OutOrStdout(), payload)
		case "pretty":
			renderVersionPretty(cmd.OutOrStdout(), payload, full, diagfmt.UseColor(colorMode, os.Stdout))
			return nil
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		}
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().Bool("full", false, "include commit, build date and toolchain")
}

func collectVersionInfo() versionPayload {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "dev"
	}
	return versionPayload{
		Tool:       "nsguard",
		Version:    v,
		GitCommit:  strings.TrimSpace(version.GitCommit),
		BuildDate:  strings.TrimSpace(version.BuildDate),
		GoVersion:  runtime.Version(),
		LatestSolc: langversion.Latest,
	}
}

func renderVersionPretty(out io.Writer, p versionPayload, full, colorEnabled bool) {
	v := p.Version
	if p.Version == strings.TrimSpace(version.Version) {
		v = version.Colored(colorEnabled)
	}
	fmt.Fprintf(out, "nsguard %s\n", v)
	if !full {
		return
	}
	fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(p.GitCommit))
	fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(p.BuildDate))
	fmt.Fprintf(out, "go:     %s\n", p.GoVersion)
	fmt.Fprintf(out, "solc:   %s (default)\n", p.LatestSolc)
}

func renderVersionJSON(out io.Writer, p versionPayload) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
