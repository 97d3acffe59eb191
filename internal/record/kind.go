package record

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed kinds.cue
var kindsCUE string

// FieldType is the declared type of a record field.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeInt    FieldType = "int"
	TypeBool   FieldType = "bool"
)

// Kind describes one record shape: its name, the field whose value is
// the record's key in the shared keyspace, and the full field set.
type Kind struct {
	Name     string
	KeyField string
	Fields   map[string]FieldType
}

// The three built-in kinds, resolved from kinds.cue at package init.
var (
	Deployment     *Kind
	Revocation     *Kind
	TransactionLog *Kind
)

// kindSet holds the loaded kind table plus the decode priority order.
type kindSet struct {
	byName   map[string]*Kind
	priority []*Kind
}

var builtin = func() *kindSet {
	ks, err := loadKinds(kindsCUE)
	if err != nil {
		// The embedded schema is a compile-time constant; failing to
		// parse it is a programming error.
		panic(fmt.Sprintf("record: load embedded kinds.cue: %v", err))
	}
	return ks
}()

func init() {
	Deployment = builtin.byName["Deployment"]
	Revocation = builtin.byName["Revocation"]
	TransactionLog = builtin.byName["TransactionLog"]
	if Deployment == nil || Revocation == nil || TransactionLog == nil {
		panic("record: kinds.cue is missing a built-in kind")
	}
}

// Lookup returns a kind by name.
func Lookup(name string) (*Kind, bool) {
	k, ok := builtin.byName[name]
	return k, ok
}

// Priority returns the kinds in classification order.
func Priority() []*Kind {
	return builtin.priority
}

// loadKinds parses a kinds.cue document into a kind table.
func loadKinds(src string) (*kindSet, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename("kinds.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile kinds: %w", err)
	}

	ks := &kindSet{byName: make(map[string]*Kind)}

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return nil, fmt.Errorf("no kind declarations found")
	}
	iter, err := kindVal.Fields()
	if err != nil {
		return nil, fmt.Errorf("iterate kinds: %w", err)
	}
	for iter.Next() {
		k, err := parseKind(iter.Label(), iter.Value())
		if err != nil {
			return nil, fmt.Errorf("kind %s: %w", iter.Label(), err)
		}
		ks.byName[k.Name] = k
	}

	prioVal := v.LookupPath(cue.ParsePath("priority"))
	if !prioVal.Exists() {
		return nil, fmt.Errorf("no priority declaration found")
	}
	prioIter, err := prioVal.List()
	if err != nil {
		return nil, fmt.Errorf("priority must be a list: %w", err)
	}
	seen := make(map[string]bool)
	for prioIter.Next() {
		name, err := prioIter.Value().String()
		if err != nil {
			return nil, fmt.Errorf("priority entry: %w", err)
		}
		k, ok := ks.byName[name]
		if !ok {
			return nil, fmt.Errorf("priority names unknown kind %q", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("priority lists kind %q twice", name)
		}
		seen[name] = true
		ks.priority = append(ks.priority, k)
	}
	if len(ks.priority) != len(ks.byName) {
		return nil, fmt.Errorf("priority covers %d of %d kinds", len(ks.priority), len(ks.byName))
	}

	// Disjoint key fields keep classification unambiguous regardless
	// of priority order.
	keyFields := make(map[string]string)
	for name, k := range ks.byName {
		if other, dup := keyFields[k.KeyField]; dup {
			return nil, fmt.Errorf("kinds %s and %s share key field %q", other, name, k.KeyField)
		}
		keyFields[k.KeyField] = name
	}

	return ks, nil
}

func parseKind(name string, v cue.Value) (*Kind, error) {
	if err := v.Err(); err != nil {
		return nil, err
	}

	keyVal := v.LookupPath(cue.ParsePath("key"))
	if !keyVal.Exists() {
		return nil, fmt.Errorf("key is required")
	}
	keyField, err := keyVal.String()
	if err != nil {
		return nil, fmt.Errorf("key: %w", err)
	}

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return nil, fmt.Errorf("fields are required")
	}
	iter, err := fieldsVal.Fields()
	if err != nil {
		return nil, fmt.Errorf("iterate fields: %w", err)
	}

	fields := make(map[string]FieldType)
	for iter.Next() {
		typeName, err := iter.Value().String()
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", iter.Label(), err)
		}
		ft := FieldType(typeName)
		switch ft {
		case TypeString, TypeInt, TypeBool:
		default:
			// No float type exists; nothing non-deterministic can be
			// declared.
			return nil, fmt.Errorf("field %s: invalid type %q", iter.Label(), typeName)
		}
		fields[iter.Label()] = ft
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("at least one field is required")
	}

	kt, ok := fields[keyField]
	if !ok {
		return nil, fmt.Errorf("key field %q is not declared in fields", keyField)
	}
	if kt != TypeString {
		return nil, fmt.Errorf("key field %q must be a string, got %s", keyField, kt)
	}

	return &Kind{Name: name, KeyField: keyField, Fields: fields}, nil
}
