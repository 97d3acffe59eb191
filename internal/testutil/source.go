package testutil

import (
	"fmt"
	"sync"
)

// ScriptedSource yields identifiers from a fixed script, then falls
// back to a deterministic generated sequence.
//
// Unlike ledger.FixedSource, which panics when its tokens run out,
// ScriptedSource keeps producing "<prefix>-N" identifiers past the end
// of the script. Scenario replay stays deterministic either way, and a
// scenario that scripts too few identifiers fails on its assertions
// instead of crashing the run.
//
// Thread-safety: ScriptedSource is safe for concurrent use via
// internal mutex.
type ScriptedSource struct {
	mu     sync.Mutex
	prefix string
	tokens []string
	idx    int
}

// NewScriptedSource creates a source that returns tokens in order and
// then continues with "<prefix>-1", "<prefix>-2", ...
func NewScriptedSource(prefix string, tokens ...string) *ScriptedSource {
	return &ScriptedSource{prefix: prefix, tokens: tokens}
}

// Generate returns the next identifier.
func (s *ScriptedSource) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.idx++
	if s.idx <= len(s.tokens) {
		return s.tokens[s.idx-1]
	}
	return fmt.Sprintf("%s-%d", s.prefix, s.idx-len(s.tokens))
}
