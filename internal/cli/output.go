package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/quaestor-io/quaestor/internal/ledger"
)

// Process exit codes. Failures the ledger reports (missing keys,
// duplicates, diverging digests, failed scenarios) exit 1; problems
// invoking the command at all (bad flags, unreadable paths, backends
// that will not open) exit 2.
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitCommandError = 2
)

// ExitError carries the process exit code a failed command should
// terminate with.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError returns an ExitError without an underlying cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode reports the exit code for err, walking wrapped errors.
// Anything that is not an ExitError counts as a plain failure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter renders command results as human-readable text or as
// a JSON envelope, depending on --format.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer // results
	ErrWriter io.Writer // diagnostics; Writer when unset
	Verbose   bool
}

// CLIResponse is the JSON envelope around every --format=json result.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError mirrors the ledger error taxonomy on the wire.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success renders data as the command's result.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.writeJSON(CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error renders a failed operation. Text mode prints the code and
// message on one line; details appear only under --verbose.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.writeJSON(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

func (f *OutputFormatter) writeJSON(resp CLIResponse) error {
	return json.NewEncoder(f.Writer).Encode(resp)
}

// VerboseLog prints a diagnostic line when --verbose is set. It goes
// to ErrWriter so JSON results on Writer stay parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// newFormatter builds the formatter every command shares: stdout for
// results, stderr for verbose diagnostics.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// ledgerFailure prints a failed ledger operation in the configured
// format and converts it to exit code 1, preserving the taxonomy code.
func ledgerFailure(f *OutputFormatter, err error) error {
	var le *ledger.Error
	if errors.As(err, &le) {
		_ = f.Error(string(le.Code), le.Message, nil)
		return WrapExitError(ExitFailure, le.Message, err)
	}
	_ = f.Error(string(ledger.CodeInternal), err.Error(), nil)
	return WrapExitError(ExitFailure, "operation failed", err)
}
