package jsonpath

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/valyala/fastjson"
)

// function is a built-in or user-registered callable (spec §4.E,
// §5 "built-in operators/functions are process-wide singletons or
// compiled-expression-scoped"). Built-ins are process-wide singletons
// held in builtinFunctions; custom functions are compiled-expression-
// scoped, supplied to Compile.
type function struct {
	name  string
	arity int // 1 or 2; -1 would mean "unchecked", unused by any builtin here
	call  func(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError)
}

// CustomFunction is a user-registered function passed to Compile (spec §6
// "custom_functions?", §4.E "User-registered functions are looked up
// second (built-ins win on name collision)").
type CustomFunction struct {
	Arity int
	Call  func(args []*fastjson.Value, arena *fastjson.Arena) (*fastjson.Value, error)
}

// functionRegistry resolves a name to a function, built-ins first.
type functionRegistry struct {
	custom map[string]CustomFunction
}

func newFunctionRegistry(custom map[string]CustomFunction) *functionRegistry {
	return &functionRegistry{custom: custom}
}

func (r *functionRegistry) lookup(name string) (function, bool) {
	if fn, ok := builtinFunctions[name]; ok {
		return fn, true
	}
	if r.custom != nil {
		if cf, ok := r.custom[name]; ok {
			return function{
				name:  name,
				arity: cf.Arity,
				call: func(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError) {
					v, err := cf.Call(args, &ctx.res.arena)
					if err != nil {
						return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "%s: %v", name, err)
					}
					return v, nil
				},
			}, true
		}
	}
	return function{}, false
}

// builtinFunctions is the fixed registry from spec §4.E / §2(G).
var builtinFunctions = map[string]function{
	"abs":         {name: "abs", arity: 1, call: fnAbs},
	"ceil":        {name: "ceil", arity: 1, call: fnCeil},
	"floor":       {name: "floor", arity: 1, call: fnFloor},
	"to_number":   {name: "to_number", arity: 1, call: fnToNumber},
	"contains":    {name: "contains", arity: 2, call: fnContains},
	"starts_with": {name: "starts_with", arity: 2, call: fnStartsWith},
	"ends_with":   {name: "ends_with", arity: 2, call: fnEndsWith},
	"length":      {name: "length", arity: 1, call: fnLength},
	"count":       {name: "count", arity: 1, call: fnLength},
	"keys":        {name: "keys", arity: 1, call: fnKeys},
	"sum":         {name: "sum", arity: 1, call: fnSum},
	"prod":        {name: "prod", arity: 1, call: fnProd},
	"avg":         {name: "avg", arity: 1, call: fnAvg},
	"min":         {name: "min", arity: 1, call: fnMin},
	"max":         {name: "max", arity: 1, call: fnMax},
	"tokenize":    {name: "tokenize", arity: 2, call: fnTokenize},
}

func fnAbs(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError) {
	f, ok := toFloat64(args[0])
	if !ok {
		return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "abs: argument must be a number")
	}
	if f < 0 {
		f = -f
	}
	return ctx.res.arena.NewNumberFloat64(f), nil
}

func fnCeil(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError) {
	f, ok := toFloat64(args[0])
	if !ok {
		return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "ceil: argument must be a number")
	}
	return ctx.res.arena.NewNumberFloat64(ceilFloat(f)), nil
}

func fnFloor(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError) {
	f, ok := toFloat64(args[0])
	if !ok {
		return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "floor: argument must be a number")
	}
	return ctx.res.arena.NewNumberFloat64(floorFloat(f)), nil
}

func ceilFloat(f float64) float64 {
	i := float64(int64(f))
	if f > 0 && f != i {
		return i + 1
	}
	return i
}

func floorFloat(f float64) float64 {
	i := float64(int64(f))
	if f < 0 && f != i {
		return i - 1
	}
	return i
}

// fnToNumber permits null-without-error for unparseable input (spec §4.E).
func fnToNumber(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError) {
	v := args[0]
	if f, ok := toFloat64(v); ok {
		return ctx.res.arena.NewNumberFloat64(f), nil
	}
	if s, ok := toString(v); ok {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return ctx.res.arena.NewNumberFloat64(f), nil
		}
	}
	return ctx.res.arena.NewNull(), nil
}

func fnContains(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError) {
	haystack, needle := args[0], args[1]
	if haystack == nil {
		return ctx.res.arena.NewFalse(), nil
	}
	switch haystack.Type() {
	case fastjson.TypeArray:
		arr, err := haystack.Array()
		if err != nil {
			return ctx.res.arena.NewFalse(), nil
		}
		for _, el := range arr {
			if structuralEqual(el, needle) {
				return ctx.res.arena.NewTrue(), nil
			}
		}
		return ctx.res.arena.NewFalse(), nil
	case fastjson.TypeString:
		hs, ok1 := toString(haystack)
		ns, ok2 := toString(needle)
		if !ok1 || !ok2 {
			return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "contains: string form requires (string, string)")
		}
		return boolValue(&ctx.res.arena, strings.Contains(hs, ns)), nil
	default:
		return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "contains: unsupported argument type")
	}
}

func fnStartsWith(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError) {
	a, ok1 := toString(args[0])
	b, ok2 := toString(args[1])
	if !ok1 || !ok2 {
		return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "starts_with: requires (string, string)")
	}
	return boolValue(&ctx.res.arena, strings.HasPrefix(a, b)), nil
}

func fnEndsWith(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError) {
	a, ok1 := toString(args[0])
	b, ok2 := toString(args[1])
	if !ok1 || !ok2 {
		return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "ends_with: requires (string, string)")
	}
	return boolValue(&ctx.res.arena, strings.HasSuffix(a, b)), nil
}

func fnLength(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError) {
	v := args[0]
	if v == nil {
		return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "length: unsupported argument type")
	}
	switch v.Type() {
	case fastjson.TypeString:
		s, _ := toString(v)
		return ctx.res.arena.NewNumberFloat64(float64(codepointLen(s))), nil
	case fastjson.TypeArray:
		arr, _ := v.Array()
		return ctx.res.arena.NewNumberFloat64(float64(len(arr))), nil
	case fastjson.TypeObject:
		obj, _ := v.Object()
		return ctx.res.arena.NewNumberFloat64(float64(obj.Len())), nil
	default:
		return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "length: unsupported argument type")
	}
}

func fnKeys(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError) {
	v := args[0]
	if v == nil || v.Type() != fastjson.TypeObject {
		return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "keys: argument must be an object")
	}
	obj, _ := v.Object()
	out := ctx.res.arena.NewArray()
	i := 0
	obj.Visit(func(key []byte, _ *fastjson.Value) {
		out.SetArrayItem(i, ctx.res.arena.NewString(string(key)))
		i++
	})
	return out, nil
}

func numericArray(v *fastjson.Value) ([]float64, bool) {
	if v == nil || v.Type() != fastjson.TypeArray {
		return nil, false
	}
	arr, err := v.Array()
	if err != nil {
		return nil, false
	}
	out := make([]float64, 0, len(arr))
	for _, el := range arr {
		f, ok := toFloat64(el)
		if !ok {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}

func fnSum(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError) {
	nums, ok := numericArray(args[0])
	if !ok {
		return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "sum: argument must be an array of numbers")
	}
	var total float64
	for _, f := range nums {
		total += f
	}
	return ctx.res.arena.NewNumberFloat64(total), nil
}

func fnProd(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError) {
	nums, ok := numericArray(args[0])
	if !ok {
		return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "prod: argument must be an array of numbers")
	}
	total := 1.0
	for _, f := range nums {
		total *= f
	}
	return ctx.res.arena.NewNumberFloat64(total), nil
}

// fnAvg returns null (no error) on an empty array, per spec §4.E.
func fnAvg(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError) {
	nums, ok := numericArray(args[0])
	if !ok {
		return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "avg: argument must be an array of numbers")
	}
	if len(nums) == 0 {
		return ctx.res.arena.NewNull(), nil
	}
	var total float64
	for _, f := range nums {
		total += f
	}
	return ctx.res.arena.NewNumberFloat64(total / float64(len(nums))), nil
}

func fnMin(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError) {
	return minMax(ctx, args[0], false)
}

func fnMax(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError) {
	return minMax(ctx, args[0], true)
}

// minMax supports a uniformly-numeric or uniformly-string array (spec
// §4.E); the winning element is returned directly (not rebuilt), since
// it already lives in either the input document or the arena.
func minMax(ctx *evalContext, v *fastjson.Value, max bool) (*fastjson.Value, *RuntimeError) {
	if v == nil || v.Type() != fastjson.TypeArray {
		return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "min/max: argument must be an array")
	}
	arr, err := v.Array()
	if err != nil || len(arr) == 0 {
		return ctx.res.arena.NewNull(), nil
	}
	best := arr[0]
	for _, el := range arr[1:] {
		cmp, ok := orderedCompare(el, best)
		if !ok {
			return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "min/max: array elements must be uniformly numeric or uniformly string")
		}
		if (max && cmp > 0) || (!max && cmp < 0) {
			best = el
		}
	}
	return best, nil
}

// fnTokenize splits a string on a regex pattern, gated on regex support
// per spec §2(G) "tokenize (regex-gated)".
func fnTokenize(ctx *evalContext, args []*fastjson.Value) (*fastjson.Value, *RuntimeError) {
	s, ok1 := toString(args[0])
	pattern, ok2 := toString(args[1])
	if !ok1 || !ok2 {
		return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "tokenize: requires (string, string)")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return ctx.res.arena.NewNull(), runtimeErrorf(ErrInvalidType, "tokenize: invalid regex %q: %v", pattern, err)
	}
	parts := re.Split(s, -1)
	out := ctx.res.arena.NewArray()
	i := 0
	for _, p := range parts {
		if p == "" {
			continue
		}
		out.SetArrayItem(i, ctx.res.arena.NewString(p))
		i++
	}
	return out, nil
}

func boolValue(a *fastjson.Arena, b bool) *fastjson.Value {
	if b {
		return a.NewTrue()
	}
	return a.NewFalse()
}
