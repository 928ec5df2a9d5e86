package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	p3assembly "github.com/olsonanl/p3-assembly"
	"github.com/olsonanl/p3-assembly/pkg/params"
)

var (
	validateStrict      bool
	validateUnsupported string
)

var validateCmd = &cobra.Command{
	Use:   "validate [params.json]",
	Short: "Validate and normalize a parameter document",
	Long: `Validates the submitted parameter document against the schema. On
success the fully normalized document (defaults filled, values coerced) is
printed as JSON. On failure every violation is listed and the command exits
nonzero.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := loadSpec(cmd)
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read params: %w", err)
		}
		var submission params.Set
		if err := json.Unmarshal(raw, &submission); err != nil {
			return fmt.Errorf("params document is not a JSON object: %w", err)
		}

		policy, err := unsupportedPolicy(validateUnsupported)
		if err != nil {
			return err
		}

		result := p3assembly.ValidateSubmission(spec, submission, params.Options{
			Strict:      validateStrict,
			Unsupported: policy,
		})
		for _, warning := range result.Warnings {
			logger.Warn("unsupported parameter supplied",
				zap.String("parameter", warning.ID),
				zap.String("path", warning.Path),
				zap.String("detail", warning.Detail))
		}
		if !result.Valid() {
			for _, verr := range result.Errors {
				fmt.Fprintln(cmd.ErrOrStderr(), verr.Error())
			}
			return fmt.Errorf("%d validation error(s)", len(result.Errors))
		}

		out, err := json.MarshalIndent(result.Normalized, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func unsupportedPolicy(name string) (params.UnsupportedPolicy, error) {
	switch name {
	case "warn":
		return params.UnsupportedWarn, nil
	case "reject":
		return params.UnsupportedReject, nil
	case "ignore":
		return params.UnsupportedIgnore, nil
	default:
		return params.UnsupportedWarn, fmt.Errorf("unknown --unsupported policy %q (warn, reject, ignore)", name)
	}
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "reject parameters the schema does not declare")
	validateCmd.Flags().StringVar(&validateUnsupported, "unsupported", "warn", "policy for planned/deprecated parameters: warn, reject, ignore")
}
