package extractor

import (
	"testing"
)

func TestExtractJSONPath(t *testing.T) {
	tests := []struct {
		name           string
		body           []byte
		path           string
		wantValue      string
		wantError      bool
		expectNotFound bool
	}{
		{
			name:      "simple_field",
			body:      []byte(`{"user": {"name": "acme"}}`),
			path:      "$.user.name",
			wantValue: `"acme"`,
		},
		{
			name:      "filter_expression",
			body:      []byte(`{"items": [{"price": 5}, {"price": 15}]}`),
			path:      "$.items[?(@.price > 10)].price",
			wantValue: "15",
		},
		{
			name:           "no_match",
			body:           []byte(`{"a": 1}`),
			path:           "$.b",
			wantError:      true,
			expectNotFound: true,
		},
		{
			name:      "empty_body",
			body:      []byte{},
			path:      "$.a",
			wantError: true,
		},
		{
			name:      "empty_path",
			body:      []byte(`{}`),
			path:      "",
			wantError: true,
		},
		{
			name:      "invalid_expression",
			body:      []byte(`{}`),
			path:      "$.a[",
			wantError: true,
		},
		{
			name:      "malformed_json",
			body:      []byte(`{not json`),
			path:      "$.a",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONPath(tt.body, tt.path)

			if (err != nil) != tt.wantError {
				t.Fatalf("ExtractJSONPath() error = %v, wantError %v", err, tt.wantError)
			}
			if tt.expectNotFound && !IsNotFound(err) {
				t.Fatalf("ExtractJSONPath() expected ErrNotFound, got %v", err)
			}
			if tt.wantError {
				return
			}
			if got.String() != tt.wantValue {
				t.Fatalf("ExtractJSONPath() = %v, want %v", got.String(), tt.wantValue)
			}
		})
	}
}

func TestExtractJSONPathString(t *testing.T) {
	tests := []struct {
		name      string
		body      []byte
		path      string
		want      string
		wantError bool
	}{
		{
			name: "string_value_unquoted",
			body: []byte(`{"name": "acme"}`),
			path: "$.name",
			want: "acme",
		},
		{
			name: "number_value_stringified",
			body: []byte(`{"count": 42}`),
			path: "$.count",
			want: "42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONPathString(tt.body, tt.path)
			if (err != nil) != tt.wantError {
				t.Fatalf("ExtractJSONPathString() error = %v, wantError %v", err, tt.wantError)
			}
			if !tt.wantError && got != tt.want {
				t.Fatalf("ExtractJSONPathString() = %q, want %q", got, tt.want)
			}
		})
	}
}
