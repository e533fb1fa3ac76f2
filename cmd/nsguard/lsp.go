package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nsguard/internal/lsp"
	"nsguard/internal/version"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the nsguard language server over stdio",
	RunE:  runLSP,
}

func runLSP(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Prefix:         e.cfg.Prefix,
		Solc:           e.cfg.SolidityVersion,
		MaxDiagnostics: e.cfg.MaxDiagnostics,
		Version:        version.Version,
		Resolver:       e.resolver,
		Logger:         e.logger,
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
