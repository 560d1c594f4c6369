package callback

import "math/big"

// AnyState is the state value Any's callback tree expects to receive from
// Lookup. Construct one with NewAnyState, pass it as the lookup state, and
// read Result afterward.
type AnyState struct {
	stack  []any
	result any
}

// NewAnyState creates an empty state for a single Any-backed lookup.
func NewAnyState() *AnyState {
	return &AnyState{}
}

// Result returns the fully materialized value after the lookup completes.
// It is nil if the lookup matched no data record.
func (s *AnyState) Result() any {
	return s.result
}

func (s *AnyState) push(c any) { s.stack = append(s.stack, c) }
func (s *AnyState) pop()       { s.stack = s.stack[:len(s.stack)-1] }

func (s *AnyState) assignNamed(name string, v any) {
	if len(s.stack) == 0 {
		return
	}
	if m, ok := s.stack[len(s.stack)-1].(map[string]any); ok {
		m[name] = v
	}
}

func (s *AnyState) assignIndexed(i int, v any) {
	if len(s.stack) == 0 {
		return
	}
	if arr, ok := s.stack[len(s.stack)-1].([]any); ok {
		arr[i] = v
	}
}

// Any builds a callback tree that materializes an entire record into a
// generic Go value: map[string]any for MAP, []any for ARRAY, string,
// int64, float64, bool, []byte, or *big.Int for leaves. The lookup state
// must be a *AnyState; read the result back with AnyState.Result.
//
// This is a convenience escape hatch for callers that want the whole
// record rather than a hand-built tree of sinks — the high-level, fully
// generic decode the core engine deliberately leaves out. Every sink here
// copies its value, so a lookup using Any allocates; use ObjectBuilder
// directly for the zero-allocation path.
func Any() *Callback {
	return anyNode(func(s *AnyState, v any) { s.result = v })
}

// anyNode builds one node of the Any tree. assign places this node's
// decoded value into whatever enclosing container (or the top-level
// result) it was reached from.
func anyNode(assign func(s *AnyState, v any)) *Callback {
	return &Callback{
		Shape: ShapeAny,
		Text: func(state any, v CharSeq) error {
			assign(state.(*AnyState), v.String())
			return nil
		},
		Int: func(state any, v int64) error {
			assign(state.(*AnyState), v)
			return nil
		},
		Float: func(state any, v float64) error {
			assign(state.(*AnyState), v)
			return nil
		},
		Bool: func(state any, v bool) error {
			assign(state.(*AnyState), v)
			return nil
		},
		Bytes: func(state any, v []byte) error {
			assign(state.(*AnyState), append([]byte(nil), v...))
			return nil
		},
		BigInt: func(state any, raw []byte) error {
			assign(state.(*AnyState), new(big.Int).SetBytes(raw))
			return nil
		},
		Fields: anyFields{},
		OnObjectBegin: func(state any) error {
			st := state.(*AnyState)
			m := make(map[string]any)
			assign(st, m)
			st.push(m)
			return nil
		},
		OnObjectEnd: func(state any) error {
			state.(*AnyState).pop()
			return nil
		},
		OnArrayBegin: func(state any, size int) error {
			st := state.(*AnyState)
			arr := make([]any, size)
			assign(st, arr)
			st.push(arr)
			return nil
		},
		OnArrayEnd: func(state any) error {
			state.(*AnyState).pop()
			return nil
		},
		PerElement: func(_ any, index, _ int) (*Callback, error) {
			i := index
			return anyNode(func(s *AnyState, v any) { s.assignIndexed(i, v) }), nil
		},
	}
}

// anyFields implements FieldLookup for Any: every key is of interest, and
// each occurrence gets a fresh node closing over that key's name.
type anyFields struct{}

func (anyFields) Lookup(key []byte) *Callback {
	name := string(key)
	return anyNode(func(s *AnyState, v any) { s.assignNamed(name, v) })
}
