package main

import (
	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/AkademIQ/internal/model"
)

func newExplainCmd(a *app) *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Explain the current document in a chosen style",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.printf("Explaining...\n")
			exp, err := a.api.Explain(cmd.Context(), a.session.DocumentID, style)
			if err != nil {
				return a.fail(err)
			}
			a.printf("\n%s\n", exp.Content)
			return nil
		},
	}
	cmd.Flags().StringVarP(&style, "style", "s", model.StyleLayman, "layman, professor or industry")
	return cmd
}
