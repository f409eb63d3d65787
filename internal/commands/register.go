package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts.dir)
			if err != nil {
				return err
			}
			user, password, err := opts.credentials()
			if err != nil {
				return err
			}
			if err := a.svc.Register(user, password); err != nil {
				return err
			}
			a.snapshot("register: " + user)

			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", user)
			return nil
		},
	}
}
