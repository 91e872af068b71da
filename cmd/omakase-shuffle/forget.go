package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newForgetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Forget the saved artist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.prefsStore()
			if err != nil {
				return err
			}
			if err := store.Delete(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.ok.Render("Saved artist forgotten."))
			return nil
		},
	}
}
