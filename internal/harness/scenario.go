package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a scripted sequence
// of ledger operations with expected outcomes and final-state
// assertions, replayed against a fresh in-memory store.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description says what the scenario covers, for humans reading
	// failures.
	Description string `yaml:"description"`

	// TxIDs scripts the transaction identifiers consumed, in order, by
	// steps that mint a transaction context (InitLedger,
	// CreateDeployment, Revoke). Steps past the script receive
	// generated unscripted-tx-N identifiers.
	TxIDs []string `yaml:"txids,omitempty"`

	// RevIDs scripts the revocation identifiers, consumed in order by
	// Revoke steps. Past the script, unscripted-rev-N.
	RevIDs []string `yaml:"revids,omitempty"`

	// Time pins the scenario clock, RFC 3339. Defaults to
	// 2024-01-01T00:00:00Z so goldens are stable.
	Time string `yaml:"time,omitempty"`

	// Steps is the operation sequence.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one dispatched operation.
type Step struct {
	// Op is a ledger operation name (CreateDeployment, Revoke,
	// ReadDeployment, ...) or the harness pseudo-operation RawPut,
	// which writes an arbitrary value straight into the substrate to
	// model data the ledger never wrote.
	Op string `yaml:"op"`

	// Args are the operation's positional string arguments.
	Args []string `yaml:"args,omitempty"`

	// ExpectError names the error code this step must fail with
	// (NOT_FOUND, ALREADY_EXISTS, ...). Empty means the step must
	// succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion validates the final world state.
type Assertion struct {
	// Kind selects the check:
	//   - "absent": Key holds no value
	//   - "exists": Key holds a value
	//   - "log_count": exactly Count transaction log entries exist
	//   - "digest_stable": re-executing the scenario on a fresh store
	//     reproduces the final digest
	Kind string `yaml:"kind"`

	// Key is the world-state key (absent, exists).
	Key string `yaml:"key,omitempty"`

	// Count is the expected number of entries (log_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion kind constants.
const (
	AssertAbsent       = "absent"
	AssertExists       = "exists"
	AssertLogCount     = "log_count"
	AssertDigestStable = "digest_stable"
)

// RawPutOp is the harness pseudo-operation writing straight to the
// substrate: args are [key, value].
const RawPutOp = "RawPut"

// knownOps lists every operation a step may name.
var knownOps = map[string]bool{
	"InitLedger":       true,
	"CreateDeployment": true,
	"ReadDeployment":   true,
	"DeploymentExists": true,
	"Revoke":           true,
	"AppendLog":        true,
	"ReadLog":          true,
	"GetAllDeployments": true,
	"GetAllRevocations": true,
	"GetAllLogs":        true,
	"StateDigest":       true,
	RawPutOp:            true,
}

// knownErrorCodes lists the codes an expect_error may name.
var knownErrorCodes = map[string]bool{
	"NOT_FOUND":        true,
	"ALREADY_EXISTS":   true,
	"MALFORMED":        true,
	"INVALID_ARGUMENT": true,
	"INTERNAL":         true,
}

// LoadScenario reads and parses a scenario YAML file. Returns an
// error if the file doesn't exist, is malformed, contains unknown
// fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs
	// "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario rejects bad scenario files before any step runs,
// so failures point at the file rather than at a confusing replay.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if s.Time != "" {
		if _, err := time.Parse(time.RFC3339, s.Time); err != nil {
			return fmt.Errorf("time %q is not RFC 3339: %w", s.Time, err)
		}
	}

	for i, step := range s.Steps {
		if !knownOps[step.Op] {
			return fmt.Errorf("step %d: unknown op %q", i+1, step.Op)
		}
		if step.Op == RawPutOp && len(step.Args) != 2 {
			return fmt.Errorf("step %d: RawPut expects [key, value] args", i+1)
		}
		if step.ExpectError != "" && !knownErrorCodes[step.ExpectError] {
			return fmt.Errorf("step %d: unknown error code %q", i+1, step.ExpectError)
		}
	}

	for i, a := range s.Assertions {
		switch a.Kind {
		case AssertAbsent, AssertExists:
			if a.Key == "" {
				return fmt.Errorf("assertion %d: %s requires a key", i+1, a.Kind)
			}
		case AssertLogCount:
			if a.Count < 0 {
				return fmt.Errorf("assertion %d: log_count must not be negative", i+1)
			}
		case AssertDigestStable:
		default:
			return fmt.Errorf("assertion %d: unknown kind %q", i+1, a.Kind)
		}
	}

	return nil
}

// at returns the pinned scenario instant.
func (s *Scenario) at() time.Time {
	if s.Time == "" {
		return time.Time{}
	}
	// Validated at load time.
	at, _ := time.Parse(time.RFC3339, s.Time)
	return at
}
