package main

import "github.com/spf13/cobra"

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.Health(cmd.Context()); err != nil {
				return a.fail(err)
			}
			a.printf("Backend %s is healthy\n", a.api.BaseURL())
			return nil
		},
	}
}
