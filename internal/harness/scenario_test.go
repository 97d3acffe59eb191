package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario drops YAML into a temp file and returns its path.
func writeScenario(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, `
name: smoke
description: create one deployment
txids: [tx-1]
time: "2024-03-01T08:00:00Z"
steps:
  - op: CreateDeployment
    args: [alice, hello, payload, D1]
  - op: ReadDeployment
    args: [D1]
assertions:
  - kind: exists
    key: D1
  - kind: log_count
    count: 1
  - kind: digest_stable
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "smoke", scenario.Name)
	assert.Equal(t, []string{"tx-1"}, scenario.TxIDs)
	require.Len(t, scenario.Steps, 2)
	assert.Equal(t, "CreateDeployment", scenario.Steps[0].Op)
	assert.Equal(t, []string{"alice", "hello", "payload", "D1"}, scenario.Steps[0].Args)
	require.Len(t, scenario.Assertions, 3)
	assert.Equal(t, AssertLogCount, scenario.Assertions[1].Kind)
	assert.Equal(t, 1, scenario.Assertions[1].Count)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: assertion singular is a typo
steps:
  - op: InitLedger
assertion:
  - kind: digest_stable
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "missing name",
			yaml: `
description: no name
steps:
  - op: InitLedger
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			yaml: `
name: bare
steps:
  - op: InitLedger
`,
			wantErr: "description is required",
		},
		{
			name: "no steps",
			yaml: `
name: empty
description: nothing to do
`,
			wantErr: "steps list is required",
		},
		{
			name: "bad time",
			yaml: `
name: bad-time
description: not a timestamp
time: "yesterday"
steps:
  - op: InitLedger
`,
			wantErr: `time "yesterday" is not RFC 3339`,
		},
		{
			name: "unknown op",
			yaml: `
name: bad-op
description: no such operation
steps:
  - op: DestroyEverything
`,
			wantErr: `step 1: unknown op "DestroyEverything"`,
		},
		{
			name: "rawput arity",
			yaml: `
name: bad-rawput
description: RawPut needs key and value
steps:
  - op: RawPut
    args: [only-key]
`,
			wantErr: "step 1: RawPut expects [key, value]",
		},
		{
			name: "unknown error code",
			yaml: `
name: bad-code
description: no such code
steps:
  - op: ReadDeployment
    args: [D1]
    expect_error: SOMETIMES_FAILS
`,
			wantErr: `step 1: unknown error code "SOMETIMES_FAILS"`,
		},
		{
			name: "exists without key",
			yaml: `
name: bad-assert
description: exists needs a key
steps:
  - op: InitLedger
assertions:
  - kind: exists
`,
			wantErr: "assertion 1: exists requires a key",
		},
		{
			name: "negative log count",
			yaml: `
name: bad-count
description: count below zero
steps:
  - op: InitLedger
assertions:
  - kind: log_count
    count: -3
`,
			wantErr: "assertion 1: log_count must not be negative",
		},
		{
			name: "unknown assertion kind",
			yaml: `
name: bad-kind
description: no such assertion
steps:
  - op: InitLedger
assertions:
  - kind: vibes_good
`,
			wantErr: `assertion 1: unknown kind "vibes_good"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScenario_At(t *testing.T) {
	s := &Scenario{Time: "2025-12-31T23:59:59Z"}
	at := s.at()
	assert.Equal(t, 2025, at.Year())
	assert.Equal(t, 59, at.Second())

	// Unset time yields the zero instant; the clock substitutes its
	// default.
	empty := &Scenario{}
	assert.True(t, empty.at().IsZero())
}
