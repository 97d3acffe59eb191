package record

import (
	"errors"
	"fmt"

	"github.com/quaestor-io/quaestor/internal/canon"
	"github.com/quaestor-io/quaestor/internal/state"
)

// ErrNotFound marks a read of an absent (or zero-length) key.
var ErrNotFound = errors.New("record not found")

// ErrMalformed marks a stored value that failed strict structured
// parsing.
var ErrMalformed = errors.New("malformed record")

// GetBytes returns the stored bytes for key. A zero-length value counts
// as absent, matching Exists.
func GetBytes(kv state.KV, key string) ([]byte, error) {
	data, err := kv.Get(key)
	if errors.Is(err, state.ErrKeyAbsent) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("get record %q: %w", key, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return data, nil
}

// Get returns the record under key, strictly parsed.
func Get(kv state.KV, key string) (canon.Object, error) {
	data, err := GetBytes(kv, key)
	if err != nil {
		return nil, err
	}
	obj, err := canon.UnmarshalObject(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrMalformed, key, err)
	}
	return obj, nil
}

// Exists reports whether key holds a non-empty value. Absence is never
// an error; only substrate failures surface.
func Exists(kv state.KV, key string) (bool, error) {
	data, err := kv.Get(key)
	if errors.Is(err, state.ErrKeyAbsent) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check record %q: %w", key, err)
	}
	return len(data) > 0, nil
}

// Put canonical-encodes the record and writes it unconditionally.
// Callers enforce create-if-absent where their lifecycle needs it.
func Put(kv state.KV, key string, obj canon.Object) error {
	data, err := canon.Marshal(obj)
	if err != nil {
		return fmt.Errorf("encode record %q: %w", key, err)
	}
	if err := kv.Put(key, data); err != nil {
		return fmt.Errorf("put record %q: %w", key, err)
	}
	return nil
}

// Delete removes the key unconditionally. Idempotence is NOT guaranteed
// here; callers that need create/delete symmetry check existence first.
func Delete(kv state.KV, key string) error {
	if err := kv.Delete(key); err != nil {
		return fmt.Errorf("delete record %q: %w", key, err)
	}
	return nil
}

// Decoded is one scanned keyspace entry after classification.
type Decoded struct {
	Key    string
	Object canon.Object // nil when the value failed strict parsing
	Kind   *Kind        // nil when unparseable or no kind matched
	Raw    string       // original value as an opaque string when Object is nil
}

// Classify assigns a parsed object to the first kind in priority order
// whose key field it carries, or nil.
func Classify(obj canon.Object) *Kind {
	for _, k := range Priority() {
		if obj.Has(k.KeyField) {
			return k
		}
	}
	return nil
}

// ListRaw scans the full keyspace and classifies every value. Values
// that fail strict parsing come back with Raw set and a nil Object; a
// bad value never aborts the scan.
func ListRaw(kv state.KV) ([]Decoded, error) {
	it, err := kv.Scan("", "")
	if err != nil {
		return nil, fmt.Errorf("scan keyspace: %w", err)
	}
	defer it.Close()

	var out []Decoded
	for it.Next() {
		key := it.Key()
		value := it.Value()

		obj, err := canon.UnmarshalObject(value)
		if err != nil {
			out = append(out, Decoded{Key: key, Raw: string(value)})
			continue
		}
		out = append(out, Decoded{Key: key, Object: obj, Kind: Classify(obj)})
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("scan keyspace: %w", err)
	}
	return out, nil
}

// List returns every record of one kind, in substrate scan order. That
// order is the keyspace's native byte order, not creation order.
func List(kv state.KV, kind *Kind) ([]canon.Object, error) {
	decoded, err := ListRaw(kv)
	if err != nil {
		return nil, err
	}

	var out []canon.Object
	for _, d := range decoded {
		if d.Kind == kind && d.Object != nil {
			out = append(out, d.Object)
		}
	}
	return out, nil
}
