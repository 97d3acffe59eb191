package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quaestor-io/quaestor/internal/record"
)

// VerifyFinding is one record that is classified but fails its kind's
// shape checks.
type VerifyFinding struct {
	Key     string `json:"key"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// VerifyResult holds the full verification report.
type VerifyResult struct {
	Digest        string          `json:"digest"`
	Deterministic bool            `json:"deterministic"`
	Records       int             `json:"records"`
	ByKind        map[string]int  `json:"by_kind"`
	Malformed     []string        `json:"malformed,omitempty"`    // keys whose values are not records
	Unclassified  []string        `json:"unclassified,omitempty"` // records matching no kind
	Invalid       []VerifyFinding `json:"invalid,omitempty"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify state determinism and record health",
		Long: `Recompute the world-state digest over two independent scans and
re-decode every stored value. Malformed values and shape violations
are reported but are legal world state; only digest divergence fails.

Exit codes:
  0 - Digest stable across scans
  1 - Digest divergence between scans
  2 - Command error (backend won't open, etc.)

Example:
  quaestor verify
  quaestor verify --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, cmd)
		},
	}

	return cmd
}

func runVerify(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	l, closeStore, err := openLedger(opts)
	if err != nil {
		return err
	}
	defer closeStore()

	// Two digests over two independent scans expose any ordering or
	// read instability in the backend.
	first, err := l.StateDigest(l.Begin())
	if err != nil {
		return ledgerFailure(formatter, err)
	}
	second, err := l.StateDigest(l.Begin())
	if err != nil {
		return ledgerFailure(formatter, err)
	}

	result := VerifyResult{
		Digest:        first,
		Deterministic: first == second && len(first) == 64,
		ByKind:        map[string]int{},
	}

	decoded, err := record.ListRaw(l.Begin())
	if err != nil {
		return ledgerFailure(formatter, err)
	}
	result.Records = len(decoded)

	for _, d := range decoded {
		switch {
		case d.Object == nil:
			result.Malformed = append(result.Malformed, d.Key)
		case d.Kind == nil:
			result.Unclassified = append(result.Unclassified, d.Key)
		default:
			result.ByKind[d.Kind.Name]++
			for _, ferr := range record.Validate(d.Kind, d.Object) {
				result.Invalid = append(result.Invalid, VerifyFinding{
					Key:     d.Key,
					Kind:    d.Kind.Name,
					Message: ferr.Error(),
				})
			}
		}
	}

	return outputVerify(formatter, result, second)
}

func outputVerify(formatter *OutputFormatter, result VerifyResult, second string) error {
	if formatter.Format == "json" {
		response := CLIResponse{Status: "ok", Data: result}
		if !result.Deterministic {
			response.Status = "error"
			response.Error = &CLIError{
				Code:    "E_DIGEST_DIVERGENCE",
				Message: fmt.Sprintf("digest divergence: %s != %s", result.Digest, second),
			}
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		if !result.Deterministic {
			return NewExitError(ExitFailure, "digest divergence between scans")
		}
		return nil
	}

	w := formatter.Writer
	if result.Deterministic {
		fmt.Fprintf(w, "✓ state digest stable: %s\n", result.Digest)
	} else {
		fmt.Fprintf(w, "✗ digest divergence: %s != %s\n", result.Digest, second)
	}

	fmt.Fprintf(w, "  records: %d", result.Records)
	for _, kind := range []string{"Deployment", "Revocation", "TransactionLog"} {
		if n := result.ByKind[kind]; n > 0 {
			fmt.Fprintf(w, " %s=%d", kind, n)
		}
	}
	fmt.Fprintln(w)

	for _, key := range result.Malformed {
		fmt.Fprintf(w, "  malformed value at %q (kept verbatim)\n", key)
	}
	for _, key := range result.Unclassified {
		fmt.Fprintf(w, "  record at %q matches no kind\n", key)
	}
	for _, finding := range result.Invalid {
		fmt.Fprintf(w, "  %s %q: %s\n", finding.Kind, finding.Key, finding.Message)
	}

	if !result.Deterministic {
		return NewExitError(ExitFailure, "digest divergence between scans")
	}
	return nil
}
