package cmd

import (
	"github.com/habedi/sessionctl/auth"
	"github.com/spf13/cobra"
)

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credentials",
		Run: func(cmd *cobra.Command, args []string) {
			auth.MustFromContext(cmd.Context()).Logout(cmd.Context())
			cmd.Println("Logged out.")
		},
	}
}
