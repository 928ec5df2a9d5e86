package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olsonanl/p3-assembly/pkg/appspec"
)

var lintStrict bool

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check a schema document for structural errors",
	Long: `Parses the schema document and reports the first structural error
found: missing ids, unrecognized types, duplicate ids, enum defaults outside
the member list, and so on. A clean document prints its parameter ids.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var parserOpts []appspec.ParserOption
		if lintStrict {
			parserOpts = append(parserOpts, appspec.WithRejectUnknownKeys())
		}
		spec, err := loadSpec(cmd, parserOpts...)
		if err != nil {
			var schemaErr *appspec.SchemaError
			if errors.As(err, &schemaErr) {
				return fmt.Errorf("schema is invalid: %w", schemaErr)
			}
			return err
		}

		logger.Debug("schema parsed",
			zap.String("id", spec.ID),
			zap.Int("parameters", len(spec.Parameters)))

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d parameters\n", spec.ID, len(spec.Parameters))
		for _, param := range spec.Parameters {
			status := ""
			if !param.Implemented() {
				status = fmt.Sprintf("  [%s]", param.Status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %-28s %s%s\n", param.ID, param.Type, status)
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().BoolVar(&lintStrict, "strict", false, "reject undocumented keys in parameter entries")
}
