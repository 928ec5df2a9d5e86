package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olsonanl/p3-assembly/pkg/export"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the schema as an OpenAPI 3 document",
	Long: `Renders the parameter schema as an OpenAPI 3 document with a single
POST operation, suitable for schema-driven form generators and client
codegen. Workspace types and implementation status travel as x-p3-*
extensions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := loadSpec(cmd)
		if err != nil {
			return err
		}

		doc, err := export.OpenAPIDocument(spec)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			logger.Debug("document written", zap.String("path", exportOutput))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (stdout if empty)")
}
