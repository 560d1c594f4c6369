package callback

import "github.com/netradar/mmdbquery/internal/mmdberrors"

// ObjectBuilder accumulates field sinks for one object (MAP) node. Each key
// may be registered at most once; a duplicate or conflicting registration
// fails fast with a CallerContract-style error rather than silently
// overwriting the earlier sink, since that is almost always a programming
// mistake.
type ObjectBuilder struct {
	fields  map[string]*Callback
	onBegin ObjectBeginSink
	onEnd   ObjectEndSink
	err     error
}

// NewObject starts a builder for an object-shaped callback node.
func NewObject() *ObjectBuilder {
	return &ObjectBuilder{fields: make(map[string]*Callback)}
}

// OnBegin registers a sink invoked when the MAP's control byte is read,
// before any field is decoded.
func (b *ObjectBuilder) OnBegin(fn ObjectBeginSink) *ObjectBuilder {
	b.onBegin = fn
	return b
}

// OnEnd registers a sink invoked after every field of the MAP has been
// decoded or skipped.
func (b *ObjectBuilder) OnEnd(fn ObjectEndSink) *ObjectBuilder {
	b.onEnd = fn
	return b
}

func (b *ObjectBuilder) register(key string, child *Callback) {
	if b.err != nil {
		return
	}
	if _, exists := b.fields[key]; exists {
		b.err = mmdberrors.NewCallerContractError(
			"callback: duplicate registration for key %q", key)
		return
	}
	b.fields[key] = child
}

// Text registers sink as the handler for key when its value is a
// UTF8_STRING.
func (b *ObjectBuilder) Text(key string, sink TextSink) *ObjectBuilder {
	b.register(key, &Callback{Shape: ShapeText, Text: sink})
	return b
}

// Integer registers sink as the handler for key when its value is a
// UINT16, UINT32, or INT32.
func (b *ObjectBuilder) Integer(key string, sink IntSink) *ObjectBuilder {
	b.register(key, &Callback{Shape: ShapeInt, Int: sink})
	return b
}

// Number registers sink as the handler for key when its value is a DOUBLE
// or FLOAT.
func (b *ObjectBuilder) Number(key string, sink FloatSink) *ObjectBuilder {
	b.register(key, &Callback{Shape: ShapeFloat, Float: sink})
	return b
}

// Bool registers sink as the handler for key when its value is a BOOLEAN.
func (b *ObjectBuilder) Bool(key string, sink BoolSink) *ObjectBuilder {
	b.register(key, &Callback{Shape: ShapeBool, Bool: sink})
	return b
}

// Bytes registers sink as the handler for key when its value is BYTES.
func (b *ObjectBuilder) Bytes(key string, sink BytesSink) *ObjectBuilder {
	b.register(key, &Callback{Shape: ShapeBytes, Bytes: sink})
	return b
}

// BigInt registers sink as the handler for key when its value is a UINT64
// or UINT128, delivered as a raw big-endian byte view.
func (b *ObjectBuilder) BigInt(key string, sink BigIntSink) *ObjectBuilder {
	b.register(key, &Callback{Shape: ShapeBigInt, BigInt: sink})
	return b
}

// Object registers a nested object node under key. build configures the
// nested ObjectBuilder; its compiled Callback is then registered under key
// on the receiver.
func (b *ObjectBuilder) Object(key string, build func(*ObjectBuilder)) *ObjectBuilder {
	child := NewObject()
	build(child)
	cb, err := child.Build()
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	b.register(key, cb)
	return b
}

// Array registers an array node under key. perElement is asked for each
// element's callback in ascending index order; a nil return skips that
// element structurally.
func (b *ObjectBuilder) Array(
	key string,
	onBegin ArrayBeginSink,
	perElement ElementCallback,
	onEnd ArrayEndSink,
) *ObjectBuilder {
	b.register(key, &Callback{
		Shape:        ShapeArray,
		OnArrayBegin: onBegin,
		PerElement:   perElement,
		OnArrayEnd:   onEnd,
	})
	return b
}

// Raw registers an already-built Callback under key, letting callers share
// or compose subtrees across multiple parents.
func (b *ObjectBuilder) Raw(key string, cb *Callback) *ObjectBuilder {
	b.register(key, cb)
	return b
}

// Build compiles the accumulated fields into an immutable, hash-dispatched
// Callback. It returns the first CallerContract error encountered during
// construction, if any.
func (b *ObjectBuilder) Build() (*Callback, error) {
	if b.err != nil {
		return nil, b.err
	}
	fm := newFieldMap()
	for key, child := range b.fields {
		fm.put(key, child)
	}
	return &Callback{
		Shape:         ShapeObject,
		Fields:        fm,
		OnObjectBegin: b.onBegin,
		OnObjectEnd:   b.onEnd,
	}, nil
}

// MustBuild is Build, panicking on error. It is meant for package-level
// variable initialization where a malformed tree is a startup bug, not a
// runtime condition to handle.
func (b *ObjectBuilder) MustBuild() *Callback {
	cb, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cb
}

// RecordBuilder builds the top-level Callback passed to Lookup: an object
// node that additionally accepts an OnNetwork sink, invoked once per lookup
// regardless of whether a data record was matched.
type RecordBuilder struct {
	*ObjectBuilder
	onNetwork NetworkSink
}

// NewRecord starts a builder for a top-level lookup callback.
func NewRecord() *RecordBuilder {
	return &RecordBuilder{ObjectBuilder: NewObject()}
}

// OnNetwork registers the sink invoked with the queried address and matched
// prefix length.
func (b *RecordBuilder) OnNetwork(fn NetworkSink) *RecordBuilder {
	b.onNetwork = fn
	return b
}

// The methods below shadow their *ObjectBuilder counterparts so a
// RecordBuilder chain stays a *RecordBuilder end to end — including after a
// field registration — and OnNetwork can be called anywhere in the chain
// without downgrading to the embedded *ObjectBuilder and losing it.

// OnBegin registers a sink invoked when the record's MAP control byte is
// read, before any field is decoded.
func (b *RecordBuilder) OnBegin(fn ObjectBeginSink) *RecordBuilder {
	b.ObjectBuilder.OnBegin(fn)
	return b
}

// OnEnd registers a sink invoked after every field of the record has been
// decoded or skipped.
func (b *RecordBuilder) OnEnd(fn ObjectEndSink) *RecordBuilder {
	b.ObjectBuilder.OnEnd(fn)
	return b
}

// Text registers sink as the handler for key when its value is a
// UTF8_STRING.
func (b *RecordBuilder) Text(key string, sink TextSink) *RecordBuilder {
	b.ObjectBuilder.Text(key, sink)
	return b
}

// Integer registers sink as the handler for key when its value is a
// UINT16, UINT32, or INT32.
func (b *RecordBuilder) Integer(key string, sink IntSink) *RecordBuilder {
	b.ObjectBuilder.Integer(key, sink)
	return b
}

// Number registers sink as the handler for key when its value is a DOUBLE
// or FLOAT.
func (b *RecordBuilder) Number(key string, sink FloatSink) *RecordBuilder {
	b.ObjectBuilder.Number(key, sink)
	return b
}

// Bool registers sink as the handler for key when its value is a BOOLEAN.
func (b *RecordBuilder) Bool(key string, sink BoolSink) *RecordBuilder {
	b.ObjectBuilder.Bool(key, sink)
	return b
}

// Bytes registers sink as the handler for key when its value is BYTES.
func (b *RecordBuilder) Bytes(key string, sink BytesSink) *RecordBuilder {
	b.ObjectBuilder.Bytes(key, sink)
	return b
}

// BigInt registers sink as the handler for key when its value is a UINT64
// or UINT128, delivered as a raw big-endian byte view.
func (b *RecordBuilder) BigInt(key string, sink BigIntSink) *RecordBuilder {
	b.ObjectBuilder.BigInt(key, sink)
	return b
}

// Object registers a nested object node under key.
func (b *RecordBuilder) Object(key string, build func(*ObjectBuilder)) *RecordBuilder {
	b.ObjectBuilder.Object(key, build)
	return b
}

// Array registers an array node under key.
func (b *RecordBuilder) Array(
	key string,
	onBegin ArrayBeginSink,
	perElement ElementCallback,
	onEnd ArrayEndSink,
) *RecordBuilder {
	b.ObjectBuilder.Array(key, onBegin, perElement, onEnd)
	return b
}

// Raw registers an already-built Callback under key.
func (b *RecordBuilder) Raw(key string, cb *Callback) *RecordBuilder {
	b.ObjectBuilder.Raw(key, cb)
	return b
}

// Build compiles the record's Callback tree.
func (b *RecordBuilder) Build() (*Callback, error) {
	cb, err := b.ObjectBuilder.Build()
	if err != nil {
		return nil, err
	}
	cb.OnNetwork = b.onNetwork
	return cb, nil
}

// MustBuild is Build, panicking on error.
func (b *RecordBuilder) MustBuild() *Callback {
	cb, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cb
}
