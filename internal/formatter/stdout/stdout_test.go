package stdout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/valyala/fastjson"

	jsonpath "github.com/jacoelho/jsonpathql"
)

func mustResults(t *testing.T, paths []string, raws []string) []jsonpath.Result {
	t.Helper()
	out := make([]jsonpath.Result, len(paths))
	for i := range paths {
		var p fastjson.Parser
		v, err := p.Parse(raws[i])
		if err != nil {
			t.Fatalf("parse %q: %v", raws[i], err)
		}
		out[i] = jsonpath.Result{Path: paths[i], Value: v}
	}
	return out
}

func TestFormatterTable(t *testing.T) {
	t.Parallel()

	results := mustResults(t,
		[]string{"$['a']", "$['b']"},
		[]string{"1", `"two"`},
	)

	var buf bytes.Buffer
	f := NewWithWriter(&buf, ModeBoth, false)
	if err := f.Format("doc.json", results); err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"doc.json:", "$['a'] = 1", `$['b'] = "two"`, "2 match(es)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestFormatterPathsOnly(t *testing.T) {
	t.Parallel()

	results := mustResults(t, []string{"$['a']"}, []string{"1"})

	var buf bytes.Buffer
	f := NewWithWriter(&buf, ModePaths, false)
	if err := f.Format("", results); err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	if !strings.Contains(buf.String(), "$['a']") {
		t.Fatalf("output = %q, want path", buf.String())
	}
	if strings.Contains(buf.String(), "= 1") {
		t.Fatalf("output = %q, should not contain value", buf.String())
	}
}

func TestFormatterJSON(t *testing.T) {
	t.Parallel()

	results := mustResults(t, []string{"$['a']"}, []string{"42"})

	var buf bytes.Buffer
	f := NewWithWriter(&buf, ModeBoth, true)
	if err := f.Format("doc.json", results); err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	var p fastjson.Parser
	v, err := p.Parse(buf.String())
	if err != nil {
		t.Fatalf("output is not valid JSON: %v (%q)", err, buf.String())
	}
	arr, err := v.Array()
	if err != nil || len(arr) != 1 {
		t.Fatalf("expected a 1-element array, got %v", v)
	}
	if got := string(arr[0].GetStringBytes("path")); got != "$['a']" {
		t.Fatalf("path = %q, want %q", got, "$['a']")
	}
	if fv, _ := arr[0].Get("value").Float64(); fv != 42 {
		t.Fatalf("value = %v, want 42", fv)
	}
}

func TestFormatterEmptyResults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := NewWithWriter(&buf, ModeBoth, false)
	if err := f.Format("empty.json", nil); err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if !strings.Contains(buf.String(), "0 match(es)") {
		t.Fatalf("output = %q, want 0 match(es)", buf.String())
	}
}
