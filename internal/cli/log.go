package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log <transactionID>",
		Short: "Read a transaction log entry",
		Long: `Read one transaction log entry by identifier.

Example:
  quaestor log 018f3c6e-1234-7abc-8def-0123456789ab`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runLog(opts *RootOptions, transactionID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	l, closeStore, err := openLedger(opts)
	if err != nil {
		return err
	}
	defer closeStore()

	entry, err := l.ReadLog(l.Begin(), transactionID)
	if err != nil {
		return ledgerFailure(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(entry)
	}
	fmt.Fprintf(formatter.Writer, "transaction: %s\n", entry.TransactionID)
	fmt.Fprintf(formatter.Writer, "author:      %s\n", entry.AuthorID)
	fmt.Fprintf(formatter.Writer, "time:        %s\n", entry.Time)
	fmt.Fprintf(formatter.Writer, "description: %s\n", entry.Description)
	return nil
}
