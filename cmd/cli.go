package cmd

import (
	"context"
	"os"

	"github.com/habedi/sessionctl/auth"
	"github.com/habedi/sessionctl/client"
	"github.com/habedi/sessionctl/config"
	"github.com/habedi/sessionctl/pkg/clierr"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app carries what the root command opens for its subcommands.
type app struct {
	cfgFile string
	closer  func() error
}

func (a *app) close() {
	if a.closer == nil {
		return
	}
	if err := a.closer(); err != nil {
		log.Error().Err(err).Msg("Failed to close the session storage.")
	}
	a.closer = nil
}

func Execute() {
	a := &app{}
	rootCmd := createRootCmd(a)
	err := rootCmd.ExecuteContext(context.Background())
	a.close()

	if err != nil {
		log.Error().Err(err).Msg("Command execution failed.")
		rootCmd.PrintErrln("Error:", err.Error())
		os.Exit(clierr.ExitCode(err))
	}
}

func createRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sessionctl",
		Short:         "Manage a client-side login session",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.openSession(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "Path to a YAML config file (default: <user config dir>/sessionctl/sessionctl.yaml)")
	flags.String("base-url", "", "Base URL of the authentication API (default: http://localhost:8080)")
	flags.Duration("timeout", 0, "Timeout for each API call (default: 30s)")
	flags.String("storage", "", "Where to keep the credentials [sqlite, redis] (default: sqlite)")
	flags.String("db-path", "", "Path of the SQLite session database (default: ~/.sessionctl/session.db)")
	flags.String("redis-addr", "", "Address of the Redis server for the redis storage (default: localhost:6379)")

	rootCmd.AddCommand(
		loginCmd(),
		logoutCmd(),
		statusCmd(),
		whoamiCmd(),
		versionCmd(),
	)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})

	return rootCmd
}

// openSession loads the configuration, opens the credential slot, and
// installs the session store in the command's context.
func (a *app) openSession(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return clierr.New(clierr.Validation, "Invalid configuration: "+err.Error(), err)
	}

	repo, closer, err := openTokenRepository(cfg.Storage)
	if err != nil {
		return clierr.New(clierr.Storage, "Failed to open the session storage.", err)
	}
	a.closer = closer

	store := auth.NewStore(repo, cfg.NewClient())
	cmd.SetContext(auth.NewContext(cmd.Context(), store))
	log.Debug().Str("base_url", cfg.API.BaseURL).Str("storage", cfg.Storage.Backend).Msg("Session store ready")
	return nil
}

// loginError maps a Store.Login error onto a user-facing error.
func loginError(err error) error {
	if client.IsUnauthorized(err) {
		return clierr.New(clierr.Unauthorized, "Invalid email or password.", err)
	}
	return clierr.New(clierr.Internal, "Login failed: "+err.Error(), err)
}
