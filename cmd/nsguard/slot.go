package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"nsguard/internal/erc7201"
)

var slotCmd = &cobra.Command{
	Use:   "slot [flags] [id]",
	Short: "Print the ERC-7201 slot for a namespace id",
	Long: `Print the storage slot of a namespace id together with the NatSpec tag,
derivation comment and slot constant to paste into a contract.
Either pass the id, or --contract to derive it from the global --prefix.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSlot,
}

func init() {
	slotCmd.Flags().String("contract", "", "contract name; the id becomes <prefix>.storage.<contract>")
	slotCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type slotInfo struct {
	ID         string `json:"id"`
	Slot       string `json:"slot"`
	Struct     string `json:"struct,omitempty"`
	IDComment  string `json:"idComment"`
	Derivation string `json:"derivation"`
	Constant   string `json:"constant,omitempty"`
}

func runSlot(cmd *cobra.Command, args []string) error {
	contract, err := cmd.Flags().GetString("contract")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	var id string
	switch {
	case len(args) == 1 && contract != "":
		return fmt.Errorf("pass either an id or --contract, not both")
	case len(args) == 1:
		id = args[0]
	case contract != "":
		prefix, err := cmd.Flags().GetString("prefix")
		if err != nil {
			return err
		}
		if prefix == "" {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			prefix = e.cfg.Prefix
		}
		if !erc7201.ValidPrefix(prefix) {
			return fmt.Errorf("invalid prefix %q", prefix)
		}
		id = erc7201.ComputeID(prefix, contract)
	default:
		return fmt.Errorf("missing namespace id or --contract")
	}
	return renderSlot(cmd.OutOrStdout(), describeSlot(id), format)
}

func describeSlot(id string) slotInfo {
	info := slotInfo{
		ID:         id,
		Slot:       erc7201.SlotHash(id),
		IDComment:  erc7201.FormatIDComment(id),
		Derivation: erc7201.FormatHashComment(id),
	}
	if _, contract, ok := erc7201.ParseID(id); ok {
		info.Struct = erc7201.StructName(contract)
		info.Constant = erc7201.FormatSlotConstant(info.Struct, info.Slot)
	}
	return info
}

func renderSlot(w io.Writer, info slotInfo, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "pretty", "":
		fmt.Fprintf(w, "id:   %s\n", info.ID)
		fmt.Fprintf(w, "slot: %s\n\n", info.Slot)
		fmt.Fprintln(w, info.IDComment)
		if info.Struct != "" {
			fmt.Fprintf(w, "struct %s { ... }\n\n", info.Struct)
		}
		fmt.Fprintln(w, info.Derivation)
		if info.Constant != "" {
			fmt.Fprintln(w, info.Constant)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}
