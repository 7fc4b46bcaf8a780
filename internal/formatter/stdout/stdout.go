package stdout

import (
	"fmt"
	"io"
	"os"

	"github.com/valyala/fastjson"

	jsonpath "github.com/jacoelho/jsonpathql"
	"github.com/jacoelho/jsonpathql/internal/formatter"
)

// Mode selects which part of a Result this Formatter prints.
type Mode int

const (
	ModeBoth Mode = iota
	ModePaths
	ModeValues
)

// Formatter implements stdout-based output formatting for jsonpath
// results, either as "path = value" lines or as a JSON array.
type Formatter struct {
	writer io.Writer
	mode   Mode
	json   bool
}

// New creates a stdout formatter that writes to os.Stdout.
func New(mode Mode, jsonOutput bool) formatter.Formatter {
	return &Formatter{writer: os.Stdout, mode: mode, json: jsonOutput}
}

// NewWithWriter creates a formatter with a custom writer, useful for
// testing or redirecting output to a file.
func NewWithWriter(writer io.Writer, mode Mode, jsonOutput bool) formatter.Formatter {
	return &Formatter{writer: writer, mode: mode, json: jsonOutput}
}

// Format prints source's matches, either as a table or as a JSON array.
func (f *Formatter) Format(source string, results []jsonpath.Result) error {
	if f.json {
		return f.formatJSON(results)
	}
	return f.formatTable(source, results)
}

func (f *Formatter) formatTable(source string, results []jsonpath.Result) error {
	if source != "" {
		if _, err := fmt.Fprintf(f.writer, "%s:\n", source); err != nil {
			return err
		}
	}

	for _, r := range results {
		var err error
		switch f.mode {
		case ModePaths:
			_, err = fmt.Fprintln(f.writer, r.Path)
		case ModeValues:
			_, err = fmt.Fprintln(f.writer, valueString(r.Value))
		default:
			_, err = fmt.Fprintf(f.writer, "%s = %s\n", r.Path, valueString(r.Value))
		}
		if err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(f.writer, "%d match(es)\n", len(results)); err != nil {
		return err
	}

	return nil
}

// formatJSON builds a JSON array of the selected results using the same
// fastjson.Arena this module's jsonpath package uses for every other JSON
// value it produces, rather than reaching for encoding/json.
func (f *Formatter) formatJSON(results []jsonpath.Result) error {
	var arena fastjson.Arena
	out := arena.NewArray()

	for i, r := range results {
		switch f.mode {
		case ModePaths:
			out.SetArrayItem(i, arena.NewString(r.Path))
		case ModeValues:
			out.SetArrayItem(i, valueOrNull(&arena, r.Value))
		default:
			entry := arena.NewObject()
			entry.Set("path", arena.NewString(r.Path))
			entry.Set("value", valueOrNull(&arena, r.Value))
			out.SetArrayItem(i, entry)
		}
	}

	_, err := fmt.Fprintln(f.writer, out.String())
	return err
}

func valueOrNull(arena *fastjson.Arena, v *fastjson.Value) *fastjson.Value {
	if v == nil {
		return arena.NewNull()
	}
	return v
}

func valueString(v *fastjson.Value) string {
	if v == nil {
		return "null"
	}
	return v.String()
}
