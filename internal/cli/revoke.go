package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// RevokeOptions holds flags for the revoke command.
type RevokeOptions struct {
	*RootOptions
	Reason string
	Author string
}

// NewRevokeCommand creates the revoke command.
func NewRevokeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RevokeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "revoke <deploymentID>",
		Short: "Revoke a deployment",
		Long: `Revoke a deployment: remove its record, write a revocation tombstone
pointing back at it, and append the audit log entry. All three writes
land atomically or not at all.

A missing or already revoked deployment fails with NOT_FOUND and
changes nothing.

Example:
  quaestor revoke web-v2 --reason "key compromised" --author alice`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRevoke(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Reason, "reason", "", "revocation reason (required)")
	_ = cmd.MarkFlagRequired("reason")
	cmd.Flags().StringVar(&opts.Author, "author", "", "author identifier (required)")
	_ = cmd.MarkFlagRequired("author")

	return cmd
}

func runRevoke(opts *RevokeOptions, deploymentID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	l, closeStore, err := openLedger(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore()

	ws := l.Begin()
	tx := l.NewTx(time.Now())
	rev, err := l.Revoke(tx, ws, deploymentID, opts.Reason, opts.Author)
	if err != nil {
		ws.Discard()
		return ledgerFailure(formatter, err)
	}
	if err := ws.Commit(); err != nil {
		return WrapExitError(ExitCommandError, "failed to commit", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(rev)
	}
	fmt.Fprintf(formatter.Writer, "✓ deployment %s revoked (revocation %s, tx %s)\n",
		rev.TargetDeploymentID, rev.RevocationID, tx.ID)
	return nil
}
