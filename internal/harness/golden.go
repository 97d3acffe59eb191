package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/quaestor-io/quaestor/internal/state"
)

// Snapshot renders a world state as sorted "key = value" lines with a
// scenario header. Record values are canonical bytes, so the snapshot
// is deterministic and diffs line by line.
func Snapshot(name string, kv state.KV) ([]byte, error) {
	it, err := kv.Scan("", "")
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var b bytes.Buffer
	fmt.Fprintf(&b, "# scenario: %s\n", name)
	for it.Next() {
		fmt.Fprintf(&b, "%s = %s\n", it.Key(), it.Value())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its final-state
// snapshot against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files are the source of truth for expected world-state
// bytes; assertion failures inside the scenario also fail the test.
func RunWithGolden(t *testing.T, scenario *Scenario) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("scenario %s: %v", scenario.Name, err)
	}
	if !result.Pass {
		t.Errorf("scenario %s failed:", scenario.Name)
		for _, e := range result.Errors {
			t.Errorf("  %s", e)
		}
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, result.Snapshot)
}

// GoldenPath maps a scenario file to its golden file: a golden/
// sibling directory, same base name, .golden extension.
func GoldenPath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

// CompareGolden reports whether snapshot matches the golden file.
// A missing golden file is an error distinct from a mismatch.
func CompareGolden(path string, snapshot []byte) (bool, error) {
	want, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return bytes.Equal(want, snapshot), nil
}

// WriteGolden writes snapshot as the new golden file, creating the
// golden directory if needed.
func WriteGolden(path string, snapshot []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, snapshot, 0o644)
}
