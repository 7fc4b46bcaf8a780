package jsonpath

import "testing"

func evalScalar(t *testing.T, expr, doc string) string {
	t.Helper()
	compiled, err := Compile(expr, nil)
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", expr, err)
	}
	instance := mustParse(t, doc)
	values := compiled.SelectValues(instance, OptValue)
	if len(values) != 1 {
		t.Fatalf("SelectValues(%q) = %d values, want 1", expr, len(values))
	}
	return values[0].String()
}

func TestArithmeticCascade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
		doc  string
		want string
	}{
		{
			name: "int64_add_stays_exact",
			expr: "$.a + $.b",
			doc:  `{"a": 9007199254740993, "b": 1}`,
			want: "9007199254740994",
		},
		{
			name: "uint64_add_beyond_int64_range",
			expr: "$.a + $.b",
			doc:  `{"a": 9223372036854775808, "b": 1}`,
			want: "9223372036854775809",
		},
		{
			name: "mixed_int_and_float_falls_back_to_double",
			expr: "$.a + $.b",
			doc:  `{"a": 1, "b": 1.5}`,
			want: "2.5",
		},
		{
			name: "string_concat",
			expr: "$.a + $.b",
			doc:  `{"a": "foo", "b": "bar"}`,
			want: `"foobar"`,
		},
		{
			name: "int64_division_truncates",
			expr: "$.a / $.b",
			doc:  `{"a": 7, "b": 2}`,
			want: "3",
		},
		{
			name: "float_division_keeps_fraction",
			expr: "$.a / $.b",
			doc:  `{"a": 7.0, "b": 2}`,
			want: "3.5",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := evalScalar(t, tt.expr, tt.doc)
			if got != tt.want {
				t.Fatalf("%s = %s, want %s", tt.expr, got, tt.want)
			}
		})
	}
}

func TestArithmeticDivisionByZero(t *testing.T) {
	t.Parallel()

	compiled, err := Compile("$.a / $.b", nil)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	instance := mustParse(t, `{"a": 1, "b": 0}`)
	values := compiled.SelectValues(instance, OptValue)
	if len(values) != 1 || values[0].String() != "null" {
		t.Fatalf("division by zero = %v, want [null]", values)
	}
}
