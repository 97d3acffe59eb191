package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <deployments|revocations|logs>",
		Short: "List records of one kind",
		Long: `List every record of one kind, in key order. Values that are not
well-formed records of the requested kind are skipped; use
'quaestor verify' to surface them.

Example:
  quaestor list deployments
  quaestor list logs --format json`,
		Args:          cobra.ExactArgs(1),
		ValidArgs:     []string{"deployments", "revocations", "logs"},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runList(opts *RootOptions, kind string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	l, closeStore, err := openLedger(opts)
	if err != nil {
		return err
	}
	defer closeStore()

	view := l.Begin()
	switch kind {
	case "deployments":
		deps, err := l.ListAllDeployments(view)
		if err != nil {
			return ledgerFailure(formatter, err)
		}
		if formatter.Format == "json" {
			return formatter.Success(deps)
		}
		for _, d := range deps {
			fmt.Fprintf(formatter.Writer, "%s\t%s\t%s\n", d.DeploymentID, d.AuthorID, d.Comment)
		}
		fmt.Fprintf(formatter.Writer, "%d deployment(s)\n", len(deps))
		return nil

	case "revocations":
		revs, err := l.ListAllRevocations(view)
		if err != nil {
			return ledgerFailure(formatter, err)
		}
		if formatter.Format == "json" {
			return formatter.Success(revs)
		}
		for _, r := range revs {
			fmt.Fprintf(formatter.Writer, "%s\t%s\t%s\n", r.RevocationID, r.TargetDeploymentID, r.Reason)
		}
		fmt.Fprintf(formatter.Writer, "%d revocation(s)\n", len(revs))
		return nil

	case "logs":
		entries, err := l.ListAllLogs(view)
		if err != nil {
			return ledgerFailure(formatter, err)
		}
		if formatter.Format == "json" {
			return formatter.Success(entries)
		}
		for _, e := range entries {
			fmt.Fprintf(formatter.Writer, "%s\t%s\t%s\t%s\n", e.TransactionID, e.Time, e.AuthorID, e.Description)
		}
		fmt.Fprintf(formatter.Writer, "%d log entry(ies)\n", len(entries))
		return nil

	default:
		return NewExitError(ExitCommandError,
			fmt.Sprintf("unknown kind %q: want deployments, revocations or logs", kind))
	}
}
