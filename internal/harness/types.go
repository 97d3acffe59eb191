package harness

// StepResult records one executed scenario step.
type StepResult struct {
	// Op is the operation name the step dispatched.
	Op string `json:"op"`

	// Output is the operation's JSON result, empty when the step
	// failed.
	Output string `json:"output,omitempty"`

	// Err is the error string for a failed step, whether or not the
	// failure was expected.
	Err string `json:"err,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success: every step behaved as
	// scripted and every assertion held.
	Pass bool `json:"pass"`

	// Steps records each executed step in order.
	Steps []StepResult `json:"steps"`

	// Errors contains validation error messages. Empty if Pass.
	Errors []string `json:"errors,omitempty"`

	// Digest is the final world-state digest.
	Digest string `json:"digest"`

	// Snapshot is the line-oriented dump of the final world state,
	// used for golden comparison.
	Snapshot []byte `json:"-"`
}

// NewResult creates a passing result to accumulate into.
func NewResult() *Result {
	return &Result{
		Pass:  true,
		Steps: []StepResult{},
	}
}

// AddError records a validation error and marks the result failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}
