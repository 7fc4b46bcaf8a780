package jsonpath

import (
	"strconv"

	"github.com/valyala/fastjson"
)

// nodeKind is the tri-state cardinality hint spec §3 attaches to every
// selector's emission batch, used by the VM to decide whether a mid-
// expression selector token collapses to a bare value or wraps multiple
// emissions into an array (spec §4.D "selector(chain)").
type nodeKind uint8

const (
	nodeUnknown nodeKind = iota
	nodeSingle
	nodeMulti
)

// evalContext threads the handful of values every selectNode/VM call
// needs: the dynamic-resources arena, the document root, evaluation
// options, and the function registry. Generalized from the teacher's
// streamContext (internal/jsonpath/jsonpath.go) which threads similar
// per-evaluation state through a tree-walk.
type evalContext struct {
	res     *resources
	root    *fastjson.Value
	options Options
	funcs   *functionRegistry
}

// Selector is the interface every selector variant implements (spec §3
// Selector). Concrete variants embed chainLink for the shared
// append/tail plumbing.
type Selector interface {
	selectNode(ctx *evalContext, path *pathNode, v *fastjson.Value, acc accumulator) nodeKind
	next() Selector
	setTail(s Selector)
}

// chainLink supplies the mutable tail pointer every selector needs
// (spec §3 invariant 1: "tail is either null or another selector; append
// is associative and appends at the deep tail").
type chainLink struct {
	tailSel Selector
}

func (c *chainLink) next() Selector     { return c.tailSel }
func (c *chainLink) setTail(s Selector) { c.tailSel = s }

// appendTail walks to the deep tail of head and attaches next there,
// matching spec §3 invariant 1 exactly.
func appendTail(head, next Selector) {
	cur := head
	for cur.next() != nil {
		cur = cur.next()
	}
	cur.setTail(next)
}

// advance forwards (path, v) to sel's tail, or — if sel is the chain's
// terminal nil tail — emits it directly as the chain's final output.
func advance(ctx *evalContext, sel Selector, path *pathNode, v *fastjson.Value, acc accumulator) nodeKind {
	if sel == nil {
		acc.emit(path, v)
		return nodeSingle
	}
	return sel.selectNode(ctx, path, v, acc)
}

// ---- identifier ----

type identifierSelector struct {
	chainLink
	name string
}

func (s *identifierSelector) selectNode(ctx *evalContext, path *pathNode, v *fastjson.Value, acc accumulator) nodeKind {
	if v == nil {
		return nodeSingle
	}
	switch v.Type() {
	case fastjson.TypeObject:
		obj, err := v.Object()
		if err != nil {
			return nodeSingle
		}
		child := obj.Get(s.name)
		if child == nil {
			return nodeSingle
		}
		return advance(ctx, s.next(), path.withKey(s.name), child, acc)
	case fastjson.TypeArray:
		arr, err := v.Array()
		if err != nil {
			return nodeSingle
		}
		if s.name == "length" {
			if len(arr) > 0 {
				n := ctx.res.arena.NewNumberFloat64(float64(len(arr)))
				return advance(ctx, s.next(), path.withKey("length"), n, acc)
			}
			// DESIGN.md Open Question #2: length on a zero-length array
			// suppresses emission, per the source's surprising behaviour.
			return nodeSingle
		}
		if idx, err := strconv.Atoi(s.name); err == nil {
			resolved := idx
			if resolved < 0 {
				resolved += len(arr)
			}
			if resolved < 0 || resolved >= len(arr) {
				return nodeSingle
			}
			return advance(ctx, s.next(), path.withIndex(resolved), arr[resolved], acc)
		}
		return nodeSingle
	case fastjson.TypeString:
		if s.name == "length" {
			sb, err := v.StringBytes()
			if err != nil {
				return nodeSingle
			}
			n := ctx.res.arena.NewNumberFloat64(float64(codepointLen(string(sb))))
			return advance(ctx, s.next(), path.withKey("length"), n, acc)
		}
		return nodeSingle
	default:
		return nodeSingle
	}
}

// ---- index ----

type indexSelector struct {
	chainLink
	index int
}

func (s *indexSelector) selectNode(ctx *evalContext, path *pathNode, v *fastjson.Value, acc accumulator) nodeKind {
	if v == nil || v.Type() != fastjson.TypeArray {
		return nodeSingle
	}
	arr, err := v.Array()
	if err != nil {
		return nodeSingle
	}
	idx := s.index
	if idx < 0 {
		idx += len(arr)
	}
	if idx < 0 || idx >= len(arr) {
		return nodeSingle
	}
	return advance(ctx, s.next(), path.withIndex(idx), arr[idx], acc)
}

// ---- wildcard ----

type wildcardSelector struct {
	chainLink
}

func (s *wildcardSelector) selectNode(ctx *evalContext, path *pathNode, v *fastjson.Value, acc accumulator) nodeKind {
	if v == nil {
		return nodeMulti
	}
	switch v.Type() {
	case fastjson.TypeArray:
		arr, err := v.Array()
		if err != nil {
			return nodeMulti
		}
		for i, child := range arr {
			advance(ctx, s.next(), path.withIndex(i), child, acc)
		}
	case fastjson.TypeObject:
		obj, err := v.Object()
		if err != nil {
			return nodeMulti
		}
		for _, key := range sortedKeys(obj) {
			advance(ctx, s.next(), path.withKey(key), obj.Get(key), acc)
		}
	}
	return nodeMulti
}

// ---- slice ----

type sliceSelector struct {
	chainLink
	start, stop *int
	step        int
}

// bounds resolves start/stop defaults and clamps, per spec §3's
// Python-style half-open slice rule, ported from
// manuelibar-tree-shaker/internal/jsonpath/selector.go (SliceSelector).
func (s *sliceSelector) bounds(n int) (start, stop, step int) {
	step = s.step
	if step == 0 {
		step = 1
	}
	if step > 0 {
		start, stop = 0, n
	} else {
		start, stop = n-1, -1
	}
	if s.start != nil {
		start = normalizeIndex(*s.start, n)
	}
	if s.stop != nil {
		stop = normalizeIndex(*s.stop, n)
	}
	if step > 0 {
		start = clampInt(start, 0, n)
		stop = clampInt(stop, 0, n)
	} else {
		start = clampInt(start, -1, n-1)
		stop = clampInt(stop, -1, n-1)
	}
	return start, stop, step
}

func normalizeIndex(idx, n int) int {
	if idx < 0 {
		return idx + n
	}
	return idx
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *sliceSelector) selectNode(ctx *evalContext, path *pathNode, v *fastjson.Value, acc accumulator) nodeKind {
	if v == nil || v.Type() != fastjson.TypeArray {
		return nodeMulti
	}
	arr, err := v.Array()
	if err != nil {
		return nodeMulti
	}
	start, stop, step := s.bounds(len(arr))
	if step > 0 {
		for i := start; i < stop; i += step {
			advance(ctx, s.next(), path.withIndex(i), arr[i], acc)
		}
	} else {
		for i := start; i > stop; i += step {
			advance(ctx, s.next(), path.withIndex(i), arr[i], acc)
		}
	}
	return nodeMulti
}

// ---- recursive descent ----

type recursiveSelector struct {
	chainLink
}

func (s *recursiveSelector) selectNode(ctx *evalContext, path *pathNode, v *fastjson.Value, acc accumulator) nodeKind {
	s.walk(ctx, path, v, acc)
	return nodeMulti
}

// walk emits the current node through the tail, then recurses (not the
// tail — spec §4.C) into every child.
func (s *recursiveSelector) walk(ctx *evalContext, path *pathNode, v *fastjson.Value, acc accumulator) {
	ctx.res.depth++
	defer func() { ctx.res.depth-- }()
	if ctx.res.depth > maxRecursionDepth {
		return
	}
	advance(ctx, s.next(), path, v, acc)
	if v == nil {
		return
	}
	switch v.Type() {
	case fastjson.TypeArray:
		arr, err := v.Array()
		if err != nil {
			return
		}
		for i, child := range arr {
			s.walk(ctx, path.withIndex(i), child, acc)
		}
	case fastjson.TypeObject:
		obj, err := v.Object()
		if err != nil {
			return
		}
		for _, key := range sortedKeys(obj) {
			s.walk(ctx, path.withKey(key), obj.Get(key), acc)
		}
	}
}

// ---- union ----

type unionSelector struct {
	chainLink
	branches []Selector // each a fully formed sub-chain evaluated independently
}

func (s *unionSelector) selectNode(ctx *evalContext, path *pathNode, v *fastjson.Value, acc accumulator) nodeKind {
	for _, branch := range s.branches {
		branchAcc := newBufferAccumulator()
		branch.selectNode(ctx, path, v, branchAcc)
		for _, e := range branchAcc.emissions {
			advance(ctx, s.next(), e.path, e.value, acc)
		}
	}
	return nodeMulti
}

// ---- filter ----

type filterSelector struct {
	chainLink
	program []token
}

func (s *filterSelector) selectNode(ctx *evalContext, path *pathNode, v *fastjson.Value, acc accumulator) nodeKind {
	if v == nil {
		return nodeMulti
	}
	switch v.Type() {
	case fastjson.TypeArray:
		arr, err := v.Array()
		if err != nil {
			return nodeMulti
		}
		for i, child := range arr {
			s.testAndForward(ctx, path.withIndex(i), child, acc)
		}
	case fastjson.TypeObject:
		obj, err := v.Object()
		if err != nil {
			return nodeMulti
		}
		for _, key := range sortedKeys(obj) {
			s.testAndForward(ctx, path.withKey(key), obj.Get(key), acc)
		}
	}
	return nodeMulti
}

func (s *filterSelector) testAndForward(ctx *evalContext, path *pathNode, v *fastjson.Value, acc accumulator) {
	vm := newVM(ctx, ctx.root, v)
	result, _ := vm.run(s.program)
	if isTruthy(result) {
		advance(ctx, s.next(), path, v, acc)
	}
}

// ---- index-expression ----

type indexExprSelector struct {
	chainLink
	program []token
}

func (s *indexExprSelector) selectNode(ctx *evalContext, path *pathNode, v *fastjson.Value, acc accumulator) nodeKind {
	vm := newVM(ctx, ctx.root, v)
	result, _ := vm.run(s.program)
	if result == nil || v == nil {
		return nodeSingle
	}
	switch result.Type() {
	case fastjson.TypeNumber:
		if v.Type() != fastjson.TypeArray {
			return nodeSingle
		}
		f, err := result.Float64()
		if err != nil {
			return nodeSingle
		}
		arr, err := v.Array()
		if err != nil {
			return nodeSingle
		}
		idx := int(f)
		if idx < 0 {
			idx += len(arr)
		}
		if idx < 0 || idx >= len(arr) {
			return nodeSingle
		}
		return advance(ctx, s.next(), path.withIndex(idx), arr[idx], acc)
	case fastjson.TypeString:
		if v.Type() != fastjson.TypeObject {
			return nodeSingle
		}
		key, err := result.StringBytes()
		if err != nil {
			return nodeSingle
		}
		obj, err := v.Object()
		if err != nil {
			return nodeSingle
		}
		child := obj.Get(string(key))
		if child == nil {
			return nodeSingle
		}
		return advance(ctx, s.next(), path.withKey(string(key)), child, acc)
	default:
		return nodeSingle
	}
}

// ---- function-result ----

type functionResultSelector struct {
	chainLink
	program []token
}

func (s *functionResultSelector) selectNode(ctx *evalContext, path *pathNode, v *fastjson.Value, acc accumulator) nodeKind {
	vm := newVM(ctx, ctx.root, v)
	result, _ := vm.run(s.program)
	if result == nil {
		result = ctx.res.arena.NewNull()
	}
	return advance(ctx, s.next(), path, result, acc)
}

// ---- root-anchor ----

type rootAnchorSelector struct {
	chainLink
	subqueryID uint32
}

func (s *rootAnchorSelector) selectNode(ctx *evalContext, path *pathNode, v *fastjson.Value, acc accumulator) nodeKind {
	if entry := ctx.res.cacheLookup(s.subqueryID); entry != nil && !entry.inFlight {
		for _, e := range entry.emissions {
			acc.emit(e.path, e.value)
		}
		return entry.kind
	}
	entry := ctx.res.cacheBegin(s.subqueryID)
	buf := newBufferAccumulator()
	kind := advance(ctx, s.next(), rootPathNode, ctx.root, buf)
	entry.finish(buf.emissions, kind)
	for _, e := range buf.emissions {
		acc.emit(e.path, e.value)
	}
	return kind
}

// ---- current-anchor ----

type currentAnchorSelector struct {
	chainLink
}

func (s *currentAnchorSelector) selectNode(ctx *evalContext, path *pathNode, v *fastjson.Value, acc accumulator) nodeKind {
	return advance(ctx, s.next(), path, v, acc)
}
