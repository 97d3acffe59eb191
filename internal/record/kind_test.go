package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinKinds(t *testing.T) {
	require.NotNil(t, Deployment)
	require.NotNil(t, Revocation)
	require.NotNil(t, TransactionLog)

	assert.Equal(t, "deploymentID", Deployment.KeyField)
	assert.Equal(t, "revocationID", Revocation.KeyField)
	assert.Equal(t, "transactionID", TransactionLog.KeyField)

	assert.Len(t, Deployment.Fields, 4)
	assert.Len(t, Revocation.Fields, 3)
	assert.Len(t, TransactionLog.Fields, 4)
	assert.Equal(t, TypeString, Deployment.Fields["payload"])
}

func TestLookup(t *testing.T) {
	k, ok := Lookup("Deployment")
	require.True(t, ok)
	assert.Same(t, Deployment, k)

	_, ok = Lookup("Nonexistent")
	assert.False(t, ok)
}

func TestPriorityOrder(t *testing.T) {
	prio := Priority()
	require.Len(t, prio, 3)
	assert.Same(t, TransactionLog, prio[0])
	assert.Same(t, Revocation, prio[1])
	assert.Same(t, Deployment, prio[2])
}

func TestLoadKindsRejectsBadSchemas(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "missing key",
			src: `
kind: Thing: { fields: { thingID: "string" } }
priority: ["Thing"]
`,
		},
		{
			name: "key not in fields",
			src: `
kind: Thing: { key: "thingID", fields: { other: "string" } }
priority: ["Thing"]
`,
		},
		{
			name: "non-string key field",
			src: `
kind: Thing: { key: "thingID", fields: { thingID: "int" } }
priority: ["Thing"]
`,
		},
		{
			name: "float field type",
			src: `
kind: Thing: { key: "thingID", fields: { thingID: "string", ratio: "float" } }
priority: ["Thing"]
`,
		},
		{
			name: "missing priority",
			src: `
kind: Thing: { key: "thingID", fields: { thingID: "string" } }
`,
		},
		{
			name: "priority names unknown kind",
			src: `
kind: Thing: { key: "thingID", fields: { thingID: "string" } }
priority: ["Other"]
`,
		},
		{
			name: "priority incomplete",
			src: `
kind: A: { key: "aID", fields: { aID: "string" } }
kind: B: { key: "bID", fields: { bID: "string" } }
priority: ["A"]
`,
		},
		{
			name: "duplicate key fields across kinds",
			src: `
kind: A: { key: "id", fields: { id: "string" } }
kind: B: { key: "id", fields: { id: "string" } }
priority: ["A", "B"]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadKinds(tt.src)
			assert.Error(t, err)
		})
	}
}

func TestLoadKindsValid(t *testing.T) {
	ks, err := loadKinds(`
kind: A: { key: "aID", fields: { aID: "string", n: "int", on: "bool" } }
kind: B: { key: "bID", fields: { bID: "string" } }
priority: ["B", "A"]
`)
	require.NoError(t, err)

	require.Len(t, ks.priority, 2)
	assert.Equal(t, "B", ks.priority[0].Name)
	assert.Equal(t, "A", ks.priority[1].Name)
	assert.Equal(t, TypeInt, ks.byName["A"].Fields["n"])
	assert.Equal(t, TypeBool, ks.byName["A"].Fields["on"])
}
