package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/metcalfc/pacer/internal/define"
)

var defineCmd = &cobra.Command{
	Use:     "define WORD",
	Short:   "Look up the definition of a word",
	Example: paragraph("pacer define serendipity"),
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newDefiner()
		if err != nil {
			return err
		}
		if client == nil {
			return errors.New("definition lookups are disabled (define.enabled)")
		}

		def, err := client.Define(cmd.Context(), args[0])
		if errors.Is(err, define.ErrNotFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "No definition found for %q.\n", args[0])
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", keyword(define.Normalize(args[0])), def)
		return nil
	},
}
