package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"data-loader/feature/data/parsers"

	"github.com/spf13/cobra"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Parse a single data file and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		allowScript, _ := cmd.Flags().GetBool("allowjs")

		reg := parsers.Default()
		if allowScript {
			reg.Register(parsers.ScriptExt, parsers.Script)
		}

		file := args[0]
		ext := filepath.Ext(file)
		parse, ok := reg.Lookup(ext)
		if !ok {
			return fmt.Errorf("unsupported metadata type %q (supported: %v)", ext, reg.Extensions())
		}

		raw, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		value, err := parse(raw)
		if err != nil {
			return fmt.Errorf("malformed data in %s: %w", file, err)
		}

		out, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	inspectCmd.Flags().Bool("allowjs", false, "enable the script parser for .hcl files")
	RootCmd.AddCommand(inspectCmd)
}
