package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/habedi/sessionctl/auth"
	"github.com/habedi/sessionctl/pkg/clierr"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// statusCmd restores the session and shows its state.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session state",
		Run: func(cmd *cobra.Command, args []string) {
			snap := initializeWithSpinner(cmd, auth.MustFromContext(cmd.Context()))
			renderStatus(cmd.OutOrStdout(), snap)
		},
	}
}

// whoamiCmd prints the email of the logged-in user.
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the email of the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := auth.MustFromContext(cmd.Context()).Initialize(cmd.Context())
			if snap.State != auth.Authenticated {
				return clierr.New(clierr.Unauthorized, "Not logged in. Run 'sessionctl login' first.", nil)
			}
			fmt.Fprintln(cmd.OutOrStdout(), snap.User.Email)
			return nil
		},
	}
}

// initializeWithSpinner runs Initialize and shows a spinner on an interactive
// stderr while the session is loading.
func initializeWithSpinner(cmd *cobra.Command, store *auth.Store) auth.Snapshot {
	ctx := cmd.Context()
	stderr, ok := cmd.ErrOrStderr().(*os.File)
	if !ok || !term.IsTerminal(int(stderr.Fd())) {
		return store.Initialize(ctx)
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(stderr),
		progressbar.OptionSetDescription("Restoring session..."),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan auth.Snapshot, 1)
	go func() { done <- store.Initialize(ctx) }()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case snap := <-done:
			_ = bar.Finish()
			return snap
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

// renderStatus prints snap as a two-column table.
func renderStatus(w io.Writer, snap auth.Snapshot) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)

	table.Append([]string{"State", snap.State.String()})
	if snap.User != nil {
		table.Append([]string{"User ID", snap.User.ID})
		table.Append([]string{"Email", snap.User.Email})
		if snap.User.Name != "" {
			table.Append([]string{"Name", snap.User.Name})
		}
	}
	table.Render()
}
