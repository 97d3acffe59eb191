package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios_Golden replays every scenario under testdata/scenarios
// and compares the final world state against its golden file.
// Regenerate with: go test ./internal/harness -update
func TestScenarios_Golden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files, "no scenario files found")

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)
			RunWithGolden(t, scenario)
		})
	}
}

func TestGoldenPath(t *testing.T) {
	tests := []struct {
		scenario string
		want     string
	}{
		{
			scenario: "examples/scenarios/create-and-read.yaml",
			want:     filepath.Join("examples", "scenarios", "golden", "create-and-read.golden"),
		},
		{
			scenario: "lifecycle.yml",
			want:     filepath.Join("golden", "lifecycle.golden"),
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GoldenPath(tt.scenario))
	}
}

func TestCompareGolden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden", "state.golden")
	snapshot := []byte("# scenario: x\nD1 = {}\n")

	// Missing golden file is an error, not a mismatch.
	_, err := CompareGolden(path, snapshot)
	require.Error(t, err)

	require.NoError(t, WriteGolden(path, snapshot))

	match, err := CompareGolden(path, snapshot)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = CompareGolden(path, []byte("# scenario: x\nD1 = {\"changed\":true}\n"))
	require.NoError(t, err)
	assert.False(t, match)
}

func TestWriteGolden_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "golden", "out.golden")
	require.NoError(t, WriteGolden(path, []byte("content\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content\n", string(data))
}
