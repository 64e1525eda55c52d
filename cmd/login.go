package cmd

import (
	"github.com/habedi/sessionctl/auth"
	"github.com/habedi/sessionctl/pkg/clierr"
	"github.com/habedi/sessionctl/pkg/validation"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// loginCmd creates a new cobra.Command for logging in with email and password.
func loginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with your email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := auth.MustFromContext(cmd.Context())
			p := newPrompter(cmd)

			var err error
			if email == "" {
				if email, err = p.promptForInput("Email: "); err != nil {
					return clierr.New(clierr.Validation, "Failed to read the email.", err)
				}
			}
			if err := validation.ValidateEmail(email); err != nil {
				return clierr.New(clierr.Validation, err.Error(), err)
			}

			password, err := p.promptForPassword("Password: ")
			if err != nil {
				return clierr.New(clierr.Validation, "Failed to read the password.", err)
			}
			if err := validation.ValidateNonEmptyString("password", password); err != nil {
				return clierr.New(clierr.Validation, err.Error(), err)
			}

			return runLogin(cmd, store, email, password)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address to log in with (prompted when empty)")

	return cmd
}

// runLogin settles the stored session before logging in. Login must not
// overlap Initialize.
func runLogin(cmd *cobra.Command, store *auth.Store, email, password string) error {
	ctx := cmd.Context()
	if snap := initializeWithSpinner(cmd, store); snap.State == auth.Authenticated {
		log.Info().Str("user_id", snap.User.ID).Msg("Replacing an existing session")
	}

	if err := store.Login(ctx, email, password); err != nil {
		log.Error().Err(err).Msg("Login failed")
		return loginError(err)
	}

	cmd.Printf("Logged in as %s.\n", store.User().Email)
	return nil
}
