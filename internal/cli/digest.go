package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DigestResult holds the state digest for JSON output.
type DigestResult struct {
	Digest string `json:"digest"`
}

// NewDigestCommand creates the digest command.
func NewDigestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print the world-state digest",
		Long: `Compute the digest of the entire world state: a hash over every key
and value in key order. Two replicas holding the same records print
the same digest.

Example:
  quaestor digest
  quaestor digest --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(rootOpts, cmd)
		},
	}

	return cmd
}

func runDigest(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	l, closeStore, err := openLedger(opts)
	if err != nil {
		return err
	}
	defer closeStore()

	digest, err := l.StateDigest(l.Begin())
	if err != nil {
		return ledgerFailure(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(DigestResult{Digest: digest})
	}
	fmt.Fprintln(formatter.Writer, digest)
	return nil
}
