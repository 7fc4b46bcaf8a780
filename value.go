package jsonpath

import (
	"github.com/valyala/fastjson"
)

// isTruthy implements spec §3 invariant 5's three-valued truthiness.
func isTruthy(v *fastjson.Value) bool {
	if v == nil {
		return false
	}
	switch v.Type() {
	case fastjson.TypeNull:
		return false
	case fastjson.TypeFalse:
		return false
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeNumber:
		f, err := v.Float64()
		return err == nil && f != 0
	case fastjson.TypeString:
		sb, err := v.StringBytes()
		return err == nil && len(sb) != 0
	case fastjson.TypeArray:
		arr, err := v.Array()
		return err == nil && len(arr) != 0
	case fastjson.TypeObject:
		obj, err := v.Object()
		return err == nil && obj.Len() != 0
	default:
		return false
	}
}

// structuralEqual implements == / != per spec §4.D ("JSON value's
// structural equality").
func structuralEqual(a, b *fastjson.Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		// Numbers compare by value regardless of how Type() distinguishes
		// int/uint/float — fastjson models them all as TypeNumber, so this
		// branch only matters for the null/bool/string/array/object cases,
		// which must match exactly.
		return false
	}
	switch a.Type() {
	case fastjson.TypeNull:
		return true
	case fastjson.TypeTrue, fastjson.TypeFalse:
		return a.Type() == b.Type()
	case fastjson.TypeNumber:
		af, aerr := a.Float64()
		bf, berr := b.Float64()
		return aerr == nil && berr == nil && af == bf
	case fastjson.TypeString:
		as, aerr := a.StringBytes()
		bs, berr := b.StringBytes()
		return aerr == nil && berr == nil && string(as) == string(bs)
	case fastjson.TypeArray:
		aa, aerr := a.Array()
		ba, berr := b.Array()
		if aerr != nil || berr != nil || len(aa) != len(ba) {
			return false
		}
		for i := range aa {
			if !structuralEqual(aa[i], ba[i]) {
				return false
			}
		}
		return true
	case fastjson.TypeObject:
		ao, aerr := a.Object()
		bo, berr := b.Object()
		if aerr != nil || berr != nil || ao.Len() != bo.Len() {
			return false
		}
		equal := true
		ao.Visit(func(key []byte, av *fastjson.Value) {
			if !equal {
				return
			}
			bv := bo.Get(string(key))
			if bv == nil || !structuralEqual(av, bv) {
				equal = false
			}
		})
		return equal
	default:
		return false
	}
}

// orderedCompare implements < <= > >= for number-number and string-string
// pairs; any other pairing has no ordering (spec §4.D).
func orderedCompare(a, b *fastjson.Value) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	if a.Type() == fastjson.TypeNumber && b.Type() == fastjson.TypeNumber {
		af, aerr := a.Float64()
		bf, berr := b.Float64()
		if aerr != nil || berr != nil {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	if a.Type() == fastjson.TypeString && b.Type() == fastjson.TypeString {
		as, aerr := a.StringBytes()
		bs, berr := b.StringBytes()
		if aerr != nil || berr != nil {
			return 0, false
		}
		switch {
		case string(as) < string(bs):
			return -1, true
		case string(as) > string(bs):
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

func toFloat64(v *fastjson.Value) (float64, bool) {
	if v == nil || v.Type() != fastjson.TypeNumber {
		return 0, false
	}
	f, err := v.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// toInt64 reports whether v is a number that fits in an int64, per spec
// §4.D's arithmetic type cascade (int64, else uint64, else double).
// fastjson.Value.Int64 parses the number's original text directly, so a
// value like a 64-bit id keeps its exact precision instead of round-
// tripping through float64 first.
func toInt64(v *fastjson.Value) (int64, bool) {
	if v == nil || v.Type() != fastjson.TypeNumber {
		return 0, false
	}
	n, err := v.Int64()
	if err != nil {
		return 0, false
	}
	return n, true
}

// toUint64 is toInt64's sibling for values that overflow int64 but still
// fit an unsigned 64-bit integer (e.g. large positive ids).
func toUint64(v *fastjson.Value) (uint64, bool) {
	if v == nil || v.Type() != fastjson.TypeNumber {
		return 0, false
	}
	n, err := v.Uint64()
	if err != nil {
		return 0, false
	}
	return n, true
}

func toString(v *fastjson.Value) (string, bool) {
	if v == nil || v.Type() != fastjson.TypeString {
		return "", false
	}
	sb, err := v.StringBytes()
	if err != nil {
		return "", false
	}
	return string(sb), true
}

// codepointLen returns the number of Unicode code points in a string
// value, used by the identifier selector's and length()/count()'s
// "length" handling (spec §4.C, §4.E).
func codepointLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// sortedKeys returns the keys of an object in natural (insertion) order,
// used by wildcard, recursive-descent and filter iteration (spec §3
// Selector wildcard).
func sortedKeys(obj *fastjson.Object) []string {
	keys := make([]string, 0, obj.Len())
	obj.Visit(func(key []byte, _ *fastjson.Value) {
		keys = append(keys, string(key))
	})
	return keys
}
