// Package harness provides conformance testing for the quaestor
// ledger.
//
// The harness loads YAML scenarios, replays their operations against
// a fresh in-memory store, and validates expected errors, final-state
// assertions, and golden world-state snapshots.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "what this scenario covers"
//	txids: [tx-1, tx-2]
//	revids: [rev-1]
//	time: "2024-01-01T00:00:00Z"
//	steps:
//	  - op: CreateDeployment
//	    args: [A1, hello, payload, D1]
//	  - op: Revoke
//	    args: [D1, compromised, A2]
//	  - op: ReadDeployment
//	    args: [D1]
//	    expect_error: NOT_FOUND
//	assertions:
//	  - kind: absent
//	    key: D1
//	  - kind: exists
//	    key: rev-1
//	  - kind: log_count
//	    count: 2
//	  - kind: digest_stable
//
// # Assertion Kinds
//
// The following assertion kinds are supported:
//
//   - absent: the key holds no value in the final state
//   - exists: the key holds a value in the final state
//   - log_count: exactly N transaction log entries exist
//   - digest_stable: two independent scans digest identically
//
// # Deterministic Replay
//
// All scenarios execute with a pinned clock and scripted identifier
// sources so replay produces byte-identical world state.
//
// The harness uses:
//   - Scripted transaction and revocation IDs (testutil.ScriptedSource)
//   - A pinned UTC clock (testutil.FixedClock)
//   - An in-memory store, isolated per scenario
//
// The final state renders to a sorted "key = value" snapshot compared
// against golden files.
//
// # Usage
//
// Load and run a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/revoke.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
