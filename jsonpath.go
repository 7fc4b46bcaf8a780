// Package jsonpath implements a JSONPath query engine: compiling source
// expressions to a selector chain plus embedded postfix token programs,
// then evaluating them against a fastjson-backed document (spec §3–§7).
package jsonpath

import (
	"sort"

	"github.com/google/uuid"
	"github.com/valyala/fastjson"
)

// Options is a bitset controlling what Evaluate/Select return and how
// (spec §6). The zero value is "value" mode: emit matched values, no
// de-duplication, no sorting.
type Options uint8

const (
	// OptValue is the default: emit matched values rather than paths.
	OptValue Options = 0
	// OptPath swaps emitted values for their normalized path string.
	OptPath Options = 1 << iota
	// OptNoDups keeps only the first emission per distinct normalized path.
	OptNoDups Options = 1 << iota
	// OptSort orders results by normalized path before de-duplication.
	OptSort Options = 1 << iota
)

// Result is one (path, value) pair produced by an evaluation, modeled
// directly on original_source/src/JsonCons.JsonPath/JsonPathNode.cs's
// (Path, Value) pair (SPEC_FULL.md Supplemented Features).
type Result struct {
	Path  string
	Value *fastjson.Value
}

// CompiledExpression is the output of Compile: a root selector plus the
// bookkeeping needed to run it repeatedly against different documents
// (spec §6's CompiledExpression).
type CompiledExpression struct {
	root             Selector
	funcs            *functionRegistry
	literalArena     *fastjson.Arena
	lastEvaluationID uuid.UUID
}

// Compile parses source into a CompiledExpression. customFunctions may be
// nil; any entry there is looked up only after the built-in registry
// fails to resolve a name (spec §4.E "built-ins win on name collision").
func Compile(source string, customFunctions map[string]CustomFunction) (*CompiledExpression, error) {
	arena := &fastjson.Arena{}
	funcs := newFunctionRegistry(customFunctions)
	p, err := newParserState(source, funcs, arena)
	if err != nil {
		return nil, err
	}
	root, err := p.parseRoot()
	if err != nil {
		return nil, err
	}
	return &CompiledExpression{root: root, funcs: funcs, literalArena: arena}, nil
}

// evaluate runs the compiled chain against instance and returns the raw
// emissions before any option post-processing, each with a fresh
// evaluation-scoped resources arena (spec §3 Dynamic resources, §5
// "single-threaded, synchronous" — one resources struct per call).
func (c *CompiledExpression) evaluate(instance *fastjson.Value, opts Options) []emission {
	res := newResources()
	ctx := &evalContext{res: res, root: instance, options: opts, funcs: c.funcs}
	buf := newBufferAccumulator()
	c.root.selectNode(ctx, rootPathNode, instance, buf)
	return buf.emissions
}

// postProcess applies sort/nodups per Options (spec §3 invariant 4:
// "sort, if requested, runs before de-duplication; de-duplication keeps
// first-seen order post-sort").
func postProcess(emissions []emission, opts Options) []emission {
	if opts&OptSort != 0 {
		sorted := make([]emission, len(emissions))
		copy(sorted, emissions)
		sort.SliceStable(sorted, func(i, j int) bool {
			return pathLess(sorted[i].path, sorted[j].path)
		})
		emissions = sorted
	}
	if opts&OptNoDups != 0 {
		seen := make(map[string]bool, len(emissions))
		out := make([]emission, 0, len(emissions))
		for _, e := range emissions {
			p := e.path.normalized()
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, e)
		}
		emissions = out
	}
	return emissions
}

// toResults converts emissions to the public Result shape, honoring
// OptPath (spec §6 "path swaps emitted values for normalized path
// strings").
func toResults(emissions []emission, opts Options) []Result {
	out := make([]Result, len(emissions))
	for i, e := range emissions {
		if opts&OptPath != 0 {
			out[i] = Result{Path: e.path.normalized()}
			continue
		}
		out[i] = Result{Path: e.path.normalized(), Value: e.value}
	}
	return out
}

// Evaluate runs the compiled expression against instance and returns the
// matched results per opts (spec §6 "evaluate(compiled, instance,
// options) -> JSON"). Each call is tagged with a fresh evaluation id,
// retrievable via LastEvaluationID, for correlating repeated runs (a
// light reuse of the teacher's uuid.New() "opaque id" role, see
// SPEC_FULL.md DOMAIN STACK).
func (c *CompiledExpression) Evaluate(instance *fastjson.Value, opts Options) []Result {
	c.lastEvaluationID = uuid.New()
	emissions := postProcess(c.evaluate(instance, opts), opts)
	return toResults(emissions, opts)
}

// EvaluateCallback runs the compiled expression, invoking fn once per
// result in emission order after option post-processing (spec §6's
// callback overload).
func (c *CompiledExpression) EvaluateCallback(instance *fastjson.Value, opts Options, fn func(path string, v *fastjson.Value)) {
	c.lastEvaluationID = uuid.New()
	emissions := postProcess(c.evaluate(instance, opts), opts)
	for _, e := range emissions {
		fn(e.path.normalized(), e.value)
	}
}

// Select returns matched (path, value) results using opts as given
// (original_source's JsonPathExpression.Select).
func (c *CompiledExpression) Select(instance *fastjson.Value, opts Options) []Result {
	return c.Evaluate(instance, opts)
}

// SelectPaths returns only normalized path strings, regardless of
// whether OptPath is set (original_source's
// JsonPathExpression.SelectPaths).
func (c *CompiledExpression) SelectPaths(instance *fastjson.Value, opts Options) []string {
	emissions := postProcess(c.evaluate(instance, opts), opts)
	out := make([]string, len(emissions))
	for i, e := range emissions {
		out[i] = e.path.normalized()
	}
	return out
}

// SelectValues returns only matched values, regardless of whether
// OptPath is set (original_source's JsonPathExpression.SelectValues).
func (c *CompiledExpression) SelectValues(instance *fastjson.Value, opts Options) []*fastjson.Value {
	emissions := postProcess(c.evaluate(instance, opts), opts)
	out := make([]*fastjson.Value, len(emissions))
	for i, e := range emissions {
		out[i] = e.value
	}
	return out
}

// LastEvaluationID returns the uuid tagging the most recent Evaluate/
// EvaluateCallback call, the zero UUID if none has run yet.
func (c *CompiledExpression) LastEvaluationID() uuid.UUID {
	return c.lastEvaluationID
}

// Query compiles source and evaluates it against instance in one step
// (spec §6 "Top-level helpers... compile then evaluate").
func Query(source string, instance *fastjson.Value, opts Options) ([]Result, error) {
	compiled, err := Compile(source, nil)
	if err != nil {
		return nil, err
	}
	return compiled.Evaluate(instance, opts), nil
}

// ReplaceWithValue compiles source, matches it against instance, and
// overwrites every matched location in place with replacement (spec §5's
// mutation policy: matched locations are mutated in place rather than
// rebuilding the document). Array and object containers support in-place
// element replacement; replacing the document root itself is reported as
// an error since there is no container to mutate.
func ReplaceWithValue(source string, instance *fastjson.Value, replacement *fastjson.Value) error {
	compiled, err := Compile(source, nil)
	if err != nil {
		return err
	}
	return compiled.replaceWith(instance, func(*fastjson.Value) *fastjson.Value {
		return replacement
	})
}

// ReplaceWithCallback is like ReplaceWithValue but computes the
// replacement for each match from its current value, so the callback can
// perform a transform rather than a constant overwrite.
func ReplaceWithCallback(source string, instance *fastjson.Value, fn func(current *fastjson.Value) *fastjson.Value) error {
	compiled, err := Compile(source, nil)
	if err != nil {
		return err
	}
	return compiled.replaceWith(instance, fn)
}

// replaceWith walks the matched paths and mutates each location's parent
// container directly (spec §5 "mutation through a surviving alias is
// legal only at the immediate parent container, since fastjson values
// inside an array/object are stored in place"). The match set is
// computed up front via one immutable pass, so in-place writes never
// perturb the walk that found them.
func (c *CompiledExpression) replaceWith(instance *fastjson.Value, fn func(*fastjson.Value) *fastjson.Value) error {
	emissions := c.evaluate(instance, OptValue)
	for _, e := range emissions {
		if err := setAtPath(instance, e.path, fn(e.value)); err != nil {
			return err
		}
	}
	return nil
}

// setAtPath writes newValue into the container addressed by path's last
// step, starting from root. It re-walks from root rather than keeping a
// live container pointer from the match pass, since fastjson arrays and
// objects store values inline and the match pass never retains parent
// pointers (spec §9 "fastjson values are stored in place; no separate
// heap-boxed child pointers to retain").
func setAtPath(root *fastjson.Value, path *pathNode, newValue *fastjson.Value) error {
	components := path.components()
	if len(components) == 0 {
		return runtimeErrorf(ErrInvalidType, "cannot replace the document root")
	}
	cur := root
	for _, step := range components[:len(components)-1] {
		switch step.kind {
		case pathKey:
			obj, err := cur.Object()
			if err != nil {
				return runtimeErrorf(ErrInvalidType, "replace: path no longer resolves")
			}
			cur = obj.Get(step.key)
		case pathIndex:
			arr, err := cur.Array()
			if err != nil || step.index < 0 || step.index >= len(arr) {
				return runtimeErrorf(ErrInvalidType, "replace: path no longer resolves")
			}
			cur = arr[step.index]
		}
		if cur == nil {
			return runtimeErrorf(ErrInvalidType, "replace: path no longer resolves")
		}
	}
	last := components[len(components)-1]
	switch last.kind {
	case pathKey:
		obj, err := cur.Object()
		if err != nil {
			return runtimeErrorf(ErrInvalidType, "replace: parent is not an object")
		}
		obj.Set(last.key, newValue)
	case pathIndex:
		arr, err := cur.Array()
		if err != nil || last.index < 0 || last.index >= len(arr) {
			return runtimeErrorf(ErrInvalidType, "replace: parent is not an array, or index out of range")
		}
		cur.SetArrayItem(last.index, newValue)
	}
	return nil
}
