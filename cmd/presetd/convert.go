package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"presetd/internal/fooocus"
	"presetd/pkg/types"
)

// buildConvertCmd offers offline conversion between the internal preset
// schema and the Fooocus flat file format, without a running backend.
func buildConvertCmd() *cobra.Command {
	convert := &cobra.Command{
		Use:   "convert",
		Short: "Convert preset files between formats",
	}

	var name string
	importCmd := &cobra.Command{
		Use:   "import <fooocus-preset.json>",
		Short: "Convert a Fooocus preset file to the internal schema (stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			p, err := fooocus.Parse(data)
			if err != nil {
				return err
			}
			if name != "" {
				p.Name = name
			}
			out, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	importCmd.Flags().StringVar(&name, "name", "", "Name for the imported preset (default: base model)")

	exportCmd := &cobra.Command{
		Use:   "export <internal-preset.json>",
		Short: "Convert an internal preset file to the Fooocus format (stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var p types.PresetConfig
			if err := json.Unmarshal(data, &p); err != nil {
				return fmt.Errorf("parse internal preset: %w", err)
			}
			out, err := json.MarshalIndent(fooocus.Export(p), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	convert.AddCommand(importCmd, exportCmd)
	return convert
}
