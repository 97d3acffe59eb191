package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// DeployOptions holds flags for the deploy command.
type DeployOptions struct {
	*RootOptions
	ID      string
	Author  string
	Comment string
	Payload string
}

// NewDeployCommand creates the deploy command.
func NewDeployCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeployOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Create a deployment record",
		Long: `Create a deployment record and its audit log entry in one atomic
transaction. Fails if the identifier is already taken.

Example:
  quaestor deploy --id web-v2 --author alice --comment "rollout" --payload @config
  quaestor deploy --id web-v2 --author alice --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "deployment identifier (required)")
	_ = cmd.MarkFlagRequired("id")
	cmd.Flags().StringVar(&opts.Author, "author", "", "author identifier (required)")
	_ = cmd.MarkFlagRequired("author")
	cmd.Flags().StringVar(&opts.Comment, "comment", "", "free-form comment")
	cmd.Flags().StringVar(&opts.Payload, "payload", "", "deployment payload")

	return cmd
}

func runDeploy(opts *DeployOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	l, closeStore, err := openLedger(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore()

	ws := l.Begin()
	tx := l.NewTx(time.Now())
	dep, err := l.CreateDeployment(tx, ws, opts.Author, opts.Comment, opts.Payload, opts.ID)
	if err != nil {
		ws.Discard()
		return ledgerFailure(formatter, err)
	}
	if err := ws.Commit(); err != nil {
		return WrapExitError(ExitCommandError, "failed to commit", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(dep)
	}
	fmt.Fprintf(formatter.Writer, "✓ deployment %s created (tx %s)\n", dep.DeploymentID, tx.ID)
	return nil
}
