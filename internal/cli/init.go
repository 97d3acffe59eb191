package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the ledger",
		Long: `Open the configured state backend, creating it if needed, and append
the initial transaction log entry.

Example:
  quaestor init
  quaestor init --backend sqlite --path ./quaestor.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd)
		},
	}

	return cmd
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	l, closeStore, err := openLedger(opts)
	if err != nil {
		return err
	}
	defer closeStore()

	ws := l.Begin()
	entry, err := l.InitLedger(l.NewTx(time.Now()), ws)
	if err != nil {
		ws.Discard()
		return ledgerFailure(formatter, err)
	}
	if err := ws.Commit(); err != nil {
		return WrapExitError(ExitCommandError, "failed to commit", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(entry)
	}
	fmt.Fprintf(formatter.Writer, "✓ ledger initialized (tx %s)\n", entry.TransactionID)
	return nil
}
