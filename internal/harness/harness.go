package harness

import (
	"errors"
	"fmt"

	"github.com/quaestor-io/quaestor/internal/ledger"
	"github.com/quaestor-io/quaestor/internal/state"
	"github.com/quaestor-io/quaestor/internal/testutil"
)

// consumesTxID lists the operations that mint a transaction context
// and so consume one scripted transaction identifier each.
var consumesTxID = map[string]bool{
	"InitLedger":       true,
	"CreateDeployment": true,
	"Revoke":           true,
}

// Harness executes one scenario against a fresh in-memory store.
type Harness struct {
	store  *state.Memory
	ledger *ledger.Ledger
	clock  *testutil.FixedClock
}

// Run executes a scenario and returns its result.
//
// Each scenario runs in a fresh in-memory store for isolation. The
// clock is pinned and identifiers are scripted, so the same scenario
// replays to a byte-identical snapshot every time.
//
// Execution flow:
//  1. Fresh store, scripted identifier sources, pinned clock
//  2. Each step runs as its own unit of work: commit on success,
//     discard on error (expected or not)
//  3. Assertions evaluate against the committed final state; a
//     digest_stable assertion re-executes the whole scenario on a
//     second fresh store and compares the two final digests
//  4. The final state is digested and snapshotted
func Run(scenario *Scenario) (*Result, error) {
	h, result := executeSteps(scenario)
	defer h.store.Close()

	h.evaluateAssertions(scenario, result)

	digest, err := h.ledger.StateDigest(h.ledger.Begin())
	if err != nil {
		return nil, fmt.Errorf("final digest: %w", err)
	}
	result.Digest = digest

	snap, err := Snapshot(scenario.Name, h.store)
	if err != nil {
		return nil, fmt.Errorf("final snapshot: %w", err)
	}
	result.Snapshot = snap

	return result, nil
}

// executeSteps brings up a fresh store with scripted sources and a
// pinned clock, then runs every step. The caller owns the store.
func executeSteps(scenario *Scenario) (*Harness, *Result) {
	store := state.NewMemory()
	h := &Harness{
		store: store,
		ledger: ledger.New(store,
			ledger.WithTransactionIDs(testutil.NewScriptedSource("unscripted-tx", scenario.TxIDs...)),
			ledger.WithRevocationIDs(testutil.NewScriptedSource("unscripted-rev", scenario.RevIDs...))),
		clock: testutil.NewFixedClock(scenario.at()),
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		h.executeStep(i+1, step, result)
	}
	return h, result
}

func (h *Harness) executeStep(n int, step Step, result *Result) {
	sr := StepResult{Op: step.Op}

	// RawPut bypasses the ledger to model values written outside it.
	if step.Op == RawPutOp {
		if err := h.store.Put(step.Args[0], []byte(step.Args[1])); err != nil {
			sr.Err = err.Error()
			result.AddError(fmt.Sprintf("step %d (%s): substrate put failed: %v", n, step.Op, err))
		}
		result.Steps = append(result.Steps, sr)
		return
	}

	ws := h.ledger.Begin()
	var tx ledger.TxContext
	if consumesTxID[step.Op] {
		tx = h.ledger.NewTx(h.clock.Now())
	}

	out, err := h.ledger.Dispatch(tx, ws, step.Op, step.Args)

	switch {
	case step.ExpectError != "" && err == nil:
		ws.Discard()
		sr.Output = string(out)
		result.AddError(fmt.Sprintf("step %d (%s): expected error %s, but the step succeeded",
			n, step.Op, step.ExpectError))

	case step.ExpectError != "":
		ws.Discard()
		sr.Err = err.Error()
		if got := string(ledger.CodeOf(err)); got != step.ExpectError {
			result.AddError(fmt.Sprintf("step %d (%s): expected error %s, got %s",
				n, step.Op, step.ExpectError, got))
		}

	case err != nil:
		ws.Discard()
		sr.Err = err.Error()
		result.AddError(fmt.Sprintf("step %d (%s): unexpected error: %v", n, step.Op, err))

	default:
		if cerr := ws.Commit(); cerr != nil {
			sr.Err = cerr.Error()
			result.AddError(fmt.Sprintf("step %d (%s): commit failed: %v", n, step.Op, cerr))
		} else {
			sr.Output = string(out)
		}
	}

	result.Steps = append(result.Steps, sr)
}

func (h *Harness) evaluateAssertions(scenario *Scenario, result *Result) {
	view := h.ledger.Begin()

	for i, a := range scenario.Assertions {
		switch a.Kind {
		case AssertAbsent:
			present, err := h.keyPresent(a.Key)
			if err != nil {
				result.AddError(fmt.Sprintf("assertion %d (absent): %v", i+1, err))
			} else if present {
				result.AddError(fmt.Sprintf("assertion %d (absent): key %q holds a value", i+1, a.Key))
			}

		case AssertExists:
			present, err := h.keyPresent(a.Key)
			if err != nil {
				result.AddError(fmt.Sprintf("assertion %d (exists): %v", i+1, err))
			} else if !present {
				result.AddError(fmt.Sprintf("assertion %d (exists): key %q holds no value", i+1, a.Key))
			}

		case AssertLogCount:
			entries, err := h.ledger.ListAllLogs(view)
			if err != nil {
				result.AddError(fmt.Sprintf("assertion %d (log_count): %v", i+1, err))
			} else if len(entries) != a.Count {
				result.AddError(fmt.Sprintf("assertion %d (log_count): expected %d entries, found %d",
					i+1, a.Count, len(entries)))
			}

		case AssertDigestStable:
			// Replay on a second fresh store; step errors there mirror
			// the primary run, only the digests matter.
			first, err1 := h.ledger.StateDigest(h.ledger.Begin())
			replay, _ := executeSteps(scenario)
			second, err2 := replay.ledger.StateDigest(replay.ledger.Begin())
			replay.store.Close()
			switch {
			case err1 != nil:
				result.AddError(fmt.Sprintf("assertion %d (digest_stable): %v", i+1, err1))
			case err2 != nil:
				result.AddError(fmt.Sprintf("assertion %d (digest_stable): replay: %v", i+1, err2))
			case first != second:
				result.AddError(fmt.Sprintf("assertion %d (digest_stable): replay diverged: %s != %s",
					i+1, first, second))
			case len(first) != 64:
				result.AddError(fmt.Sprintf("assertion %d (digest_stable): digest %q is not 64 hex characters",
					i+1, first))
			}
		}
	}
}

func (h *Harness) keyPresent(key string) (bool, error) {
	_, err := h.store.Get(key)
	if errors.Is(err, state.ErrKeyAbsent) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
