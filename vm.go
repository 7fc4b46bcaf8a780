package jsonpath

import (
	"strconv"

	"github.com/valyala/fastjson"

	"github.com/jacoelho/jsonpathql/internal/stack"
)

// vm evaluates one postfix token program against a (root, current) pair
// (spec §3 "Expression VM", §4.D). It carries its own private value
// stack, since nested function-call arguments and parenthesized
// sub-expressions are evaluated via fresh recursive run() calls rather
// than by sharing one stack across calls (see token.go's comment on the
// structural-marker folding, and DESIGN.md's entry on function argument
// evaluation).
type vm struct {
	ctx     *evalContext
	root    *fastjson.Value
	current *fastjson.Value
	stack   *stack.Stack[*fastjson.Value]
	lastErr *RuntimeError
}

func newVM(ctx *evalContext, root, current *fastjson.Value) *vm {
	return &vm{ctx: ctx, root: root, current: current, stack: stack.New[*fastjson.Value]()}
}

func (m *vm) push(v *fastjson.Value) { m.stack.Push(v) }

func (m *vm) pop() *fastjson.Value {
	v, _ := m.stack.Pop()
	return v
}

// run evaluates a finished postfix program and returns its final value
// (nil only if the program left nothing on the stack, e.g. an empty
// program; a selector token whose chain matched nothing yields JSON
// null, see evalSelector). The returned *RuntimeError is the last
// one recorded during this run, if any; it never stops evaluation (spec
// §7's side-channel semantics) — siblings of a misbehaving operator still
// run, and their results still combine normally.
func (m *vm) run(program []token) (*fastjson.Value, *RuntimeError) {
	for _, tok := range program {
		switch tok.kind {
		case tokLiteral:
			m.push(tok.literal)
		case tokSelector:
			m.push(m.evalSelector(tok.sel))
		case tokUnaryOp:
			v := m.pop()
			m.push(m.applyUnary(tok, v))
		case tokBinaryOp:
			rhs := m.pop()
			lhs := m.pop()
			m.push(m.applyBinary(tok.binary, lhs, rhs))
		case tokFunction:
			m.push(m.evalFunction(tok))
		}
	}
	return m.pop(), m.lastErr
}

// evalSelector runs a path-reference token ($... or @...) against this
// vm's (root, current) pair and collapses its emissions per spec §4.D's
// nodeKind rule: zero emissions is null, a selector hinted/observed as
// single collapses to its bare value, anything else becomes an array.
func (m *vm) evalSelector(sel Selector) *fastjson.Value {
	buf := newBufferAccumulator()
	kind := sel.selectNode(m.ctx, rootPathNode, m.subjectFor(sel), buf)
	return m.collapseEmissions(buf.emissions, kind)
}

// subjectFor picks the node a selector chain starts walking from: the
// document root for a root-anchor, current for anything else (current-
// anchor, or a bare chain built from "@").
func (m *vm) subjectFor(sel Selector) *fastjson.Value {
	if _, ok := sel.(*rootAnchorSelector); ok {
		return m.root
	}
	return m.current
}

func (m *vm) collapseEmissions(emissions []emission, kind nodeKind) *fastjson.Value {
	switch len(emissions) {
	case 0:
		return m.ctx.res.arena.NewNull()
	case 1:
		if kind != nodeMulti {
			return emissions[0].value
		}
	}
	arr := m.ctx.res.arena.NewArray()
	for i, e := range emissions {
		arr.SetArrayItem(i, e.value)
	}
	return arr
}

func (m *vm) applyUnary(tok token, v *fastjson.Value) *fastjson.Value {
	switch tok.unary {
	case opNot:
		return boolValue(&m.ctx.res.arena, !isTruthy(v))
	case opNegate:
		f, ok := toFloat64(v)
		if !ok {
			m.lastErr = runtimeErrorf(ErrInvalidType, "unary '-' requires a number")
			return m.ctx.res.arena.NewNull()
		}
		return m.ctx.res.arena.NewNumberFloat64(-f)
	case opRegexMatch:
		s, ok := toString(v)
		if !ok {
			m.lastErr = runtimeErrorf(ErrInvalidType, "=~ requires a string operand")
			return m.ctx.res.arena.NewFalse()
		}
		return boolValue(&m.ctx.res.arena, tok.regex.re.MatchString(s))
	default:
		return m.ctx.res.arena.NewNull()
	}
}

func (m *vm) applyBinary(op binaryOp, lhs, rhs *fastjson.Value) *fastjson.Value {
	switch op {
	case opOr:
		return boolValue(&m.ctx.res.arena, isTruthy(lhs) || isTruthy(rhs))
	case opAnd:
		return boolValue(&m.ctx.res.arena, isTruthy(lhs) && isTruthy(rhs))
	case opEq:
		return boolValue(&m.ctx.res.arena, structuralEqual(lhs, rhs))
	case opNeq:
		return boolValue(&m.ctx.res.arena, !structuralEqual(lhs, rhs))
	case opLt, opLte, opGt, opGte:
		cmp, ok := orderedCompare(lhs, rhs)
		if !ok {
			// Comparison mismatch yields false without an error, per
			// spec §4.E's explicit permission list.
			return m.ctx.res.arena.NewFalse()
		}
		switch op {
		case opLt:
			return boolValue(&m.ctx.res.arena, cmp < 0)
		case opLte:
			return boolValue(&m.ctx.res.arena, cmp <= 0)
		case opGt:
			return boolValue(&m.ctx.res.arena, cmp > 0)
		default:
			return boolValue(&m.ctx.res.arena, cmp >= 0)
		}
	case opAdd, opSub, opMul, opDiv:
		return m.applyArithmetic(op, lhs, rhs)
	default:
		return m.ctx.res.arena.NewNull()
	}
}

// applyArithmetic implements +, -, *, / over numbers and '+' over strings
// (concatenation, spec §4.E). Per spec §4.D, the operation runs in int64
// when both operands fit int64, else uint64 when both fit uint64, else
// double — mirroring the source's is_int64()/is_uint64()/as_double()
// cascade (original_source/src/JsonPath/expression.hpp's Plus/Minus/Mult/
// DivOperator). This keeps large ids exact instead of rounding them
// through a float64 round-trip. Division by zero is a runtime error
// rather than a propagated panic (DESIGN.md Open Question #1); overflow
// within a chosen representation wraps per Go's int64/uint64 semantics
// (DESIGN.md Open Question #1).
func (m *vm) applyArithmetic(op binaryOp, lhs, rhs *fastjson.Value) *fastjson.Value {
	if op == opAdd {
		if ls, lok := toString(lhs); lok {
			if rs, rok := toString(rhs); rok {
				return m.ctx.res.arena.NewString(ls + rs)
			}
		}
	}
	lf, lok := toFloat64(lhs)
	rf, rok := toFloat64(rhs)
	if !lok || !rok {
		m.lastErr = runtimeErrorf(ErrInvalidType, "arithmetic operator requires numeric operands")
		return m.ctx.res.arena.NewNull()
	}
	if op == opDiv && rf == 0 {
		m.lastErr = runtimeErrorf(ErrInvalidType, "division by zero")
		return m.ctx.res.arena.NewNull()
	}

	if li, liok := toInt64(lhs); liok {
		if ri, riok := toInt64(rhs); riok {
			return m.ctx.res.arena.NewNumberString(strconv.FormatInt(applyInt64(op, li, ri), 10))
		}
	}
	if lu, luok := toUint64(lhs); luok {
		if ru, ruok := toUint64(rhs); ruok {
			return m.ctx.res.arena.NewNumberString(strconv.FormatUint(applyUint64(op, lu, ru), 10))
		}
	}
	return m.ctx.res.arena.NewNumberFloat64(applyFloat64(op, lf, rf))
}

func applyInt64(op binaryOp, l, r int64) int64 {
	switch op {
	case opAdd:
		return l + r
	case opSub:
		return l - r
	case opMul:
		return l * r
	default: // opDiv
		return l / r
	}
}

func applyUint64(op binaryOp, l, r uint64) uint64 {
	switch op {
	case opAdd:
		return l + r
	case opSub:
		return l - r
	case opMul:
		return l * r
	default: // opDiv
		return l / r
	}
}

func applyFloat64(op binaryOp, l, r float64) float64 {
	switch op {
	case opAdd:
		return l + r
	case opSub:
		return l - r
	case opMul:
		return l * r
	default: // opDiv
		return l / r
	}
}

// evalFunction evaluates each argument sub-program independently (one
// fresh recursive run() per argument) before invoking the callable, so
// nested calls like f(a, g(b)) never share a stack between f's and g's
// argument lists.
func (m *vm) evalFunction(tok token) *fastjson.Value {
	args := make([]*fastjson.Value, len(tok.args))
	for i, sub := range tok.args {
		argVM := newVM(m.ctx, m.root, m.current)
		v, err := argVM.run(sub)
		if err != nil {
			m.lastErr = err
		}
		args[i] = v
	}
	v, err := tok.fn.call(m.ctx, args)
	if err != nil {
		m.lastErr = err
	}
	return v
}
