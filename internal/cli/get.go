package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <deploymentID>",
		Short: "Read a deployment record",
		Long: `Read one deployment record by identifier.

Example:
  quaestor get web-v2
  quaestor get web-v2 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runGet(opts *RootOptions, deploymentID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	l, closeStore, err := openLedger(opts)
	if err != nil {
		return err
	}
	defer closeStore()

	dep, err := l.ReadDeployment(l.Begin(), deploymentID)
	if err != nil {
		return ledgerFailure(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(dep)
	}
	fmt.Fprintf(formatter.Writer, "deployment: %s\n", dep.DeploymentID)
	fmt.Fprintf(formatter.Writer, "author:     %s\n", dep.AuthorID)
	fmt.Fprintf(formatter.Writer, "comment:    %s\n", dep.Comment)
	fmt.Fprintf(formatter.Writer, "payload:    %s\n", dep.Payload)
	return nil
}
