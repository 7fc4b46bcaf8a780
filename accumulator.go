package jsonpath

import "github.com/valyala/fastjson"

// emission is a single (path, value) pair produced by a selector (spec §3
// Accumulator).
type emission struct {
	path  *pathNode
	value *fastjson.Value
}

// accumulator consumes emissions as a selector chain walks a document.
// Two implementations: materializing (buffers for post-processing) and
// callback (forwards immediately). Spec §9: "small interface with two
// concrete implementors."
type accumulator interface {
	emit(path *pathNode, v *fastjson.Value)
}

// bufferAccumulator is the materializing implementation: it owns its
// storage and is passed around by pointer, matching spec §9's "buffer
// implementors own their storage and are passed by mutable reference."
type bufferAccumulator struct {
	emissions []emission
}

func newBufferAccumulator() *bufferAccumulator {
	return &bufferAccumulator{}
}

func (b *bufferAccumulator) emit(path *pathNode, v *fastjson.Value) {
	b.emissions = append(b.emissions, emission{path: path, value: v})
}

// callbackAccumulator is short-lived and forwards each emission to a
// caller-supplied function immediately (spec §9).
type callbackAccumulator struct {
	fn func(path string, v *fastjson.Value)
}

func newCallbackAccumulator(fn func(path string, v *fastjson.Value)) *callbackAccumulator {
	return &callbackAccumulator{fn: fn}
}

func (c *callbackAccumulator) emit(path *pathNode, v *fastjson.Value) {
	c.fn(path.normalized(), v)
}
