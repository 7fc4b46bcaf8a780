package jsonpath

import (
	"testing"

	"github.com/valyala/fastjson"
)

func callBuiltin(t *testing.T, name string, args ...*fastjson.Value) (*fastjson.Value, *RuntimeError) {
	t.Helper()
	fn, ok := builtinFunctions[name]
	if !ok {
		t.Fatalf("no builtin named %q", name)
	}
	ctx := &evalContext{res: newResources()}
	return fn.call(ctx, args)
}

func num(f float64) *fastjson.Value {
	var a fastjson.Arena
	return a.NewNumberFloat64(f)
}

func str(s string) *fastjson.Value {
	var a fastjson.Arena
	return a.NewString(s)
}

func TestCeilFloor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   string
		in   float64
		want float64
	}{
		{name: "ceil_positive_fraction", fn: "ceil", in: 1.2, want: 2},
		{name: "ceil_negative_fraction", fn: "ceil", in: -1.2, want: -1},
		{name: "ceil_integer", fn: "ceil", in: 4, want: 4},
		{name: "floor_positive_fraction", fn: "floor", in: 1.8, want: 1},
		{name: "floor_negative_fraction", fn: "floor", in: -1.2, want: -2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, rerr := callBuiltin(t, tt.fn, num(tt.in))
			if rerr != nil {
				t.Fatalf("%s(%v) error: %v", tt.fn, tt.in, rerr)
			}
			f, _ := got.Float64()
			if f != tt.want {
				t.Fatalf("%s(%v) = %v, want %v", tt.fn, tt.in, f, tt.want)
			}
		})
	}
}

func TestMinMaxUniformity(t *testing.T) {
	t.Parallel()

	var a fastjson.Arena
	mixed := a.NewArray()
	mixed.SetArrayItem(0, num(1))
	mixed.SetArrayItem(1, str("x"))

	_, rerr := callBuiltin(t, "min", mixed)
	if rerr == nil {
		t.Fatalf("min() over mixed types: expected error, got nil")
	}

	nums := a.NewArray()
	nums.SetArrayItem(0, num(3))
	nums.SetArrayItem(1, num(1))
	nums.SetArrayItem(2, num(2))

	got, rerr := callBuiltin(t, "max", nums)
	if rerr != nil {
		t.Fatalf("max() error: %v", rerr)
	}
	f, _ := got.Float64()
	if f != 3 {
		t.Fatalf("max() = %v, want 3", f)
	}
}

func TestAvgEmptyArrayIsNullNotError(t *testing.T) {
	t.Parallel()

	var a fastjson.Arena
	empty := a.NewArray()
	got, rerr := callBuiltin(t, "avg", empty)
	if rerr != nil {
		t.Fatalf("avg([]) error: %v, want nil error", rerr)
	}
	if got.Type() != fastjson.TypeNull {
		t.Fatalf("avg([]) = %v, want null", got)
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	got, rerr := callBuiltin(t, "tokenize", str("a, b,  c"), str(`,\s*`))
	if rerr != nil {
		t.Fatalf("tokenize() error: %v", rerr)
	}
	arr, err := got.Array()
	if err != nil {
		t.Fatalf("tokenize() result not an array: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(arr) != len(want) {
		t.Fatalf("tokenize() len = %d, want %d", len(arr), len(want))
	}
	for i, v := range arr {
		s, _ := toString(v)
		if s != want[i] {
			t.Fatalf("tokenize()[%d] = %q, want %q", i, s, want[i])
		}
	}
}

func TestContainsTypeMismatchIsRuntimeError(t *testing.T) {
	t.Parallel()

	_, rerr := callBuiltin(t, "contains", num(1), str("x"))
	if rerr == nil {
		t.Fatalf("contains(number, string) expected runtime error, got nil")
	}
	if rerr.Code != ErrInvalidType {
		t.Fatalf("error code = %v, want %v", rerr.Code, ErrInvalidType)
	}
}
