package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	p3assembly "github.com/olsonanl/p3-assembly"
	"github.com/olsonanl/p3-assembly/pkg/params"
	"github.com/olsonanl/p3-assembly/pkg/prompt"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Build a parameter document interactively",
	Long: `Walks the schema in declaration order and prompts for each
implemented parameter. The collected document is validated and printed as
normalized JSON, ready to submit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := loadSpec(cmd)
		if err != nil {
			return err
		}

		submission, err := prompt.NewInteractive().Build(cmd.Context(), spec)
		if err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return errors.New("aborted")
			}
			return err
		}

		result := p3assembly.ValidateSubmission(spec, submission, params.Options{})
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
