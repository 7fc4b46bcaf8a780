package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/valyala/fastjson"

	jsonpath "github.com/jacoelho/jsonpathql"
	"github.com/jacoelho/jsonpathql/internal/config"
	"github.com/jacoelho/jsonpathql/internal/formatter"
	"github.com/jacoelho/jsonpathql/internal/formatter/stdout"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, exitResult := config.Parse(os.Args)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	compiled, err := jsonpath.Compile(cfg.Expression, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid expression: %v\n", err)
		return 1
	}

	out := newOutputFormatter(cfg)

	opts := jsonpath.OptValue
	if cfg.Unique {
		opts |= jsonpath.OptNoDups
	}
	if cfg.Sort {
		opts |= jsonpath.OptSort
	}

	sources := cfg.Files
	if len(sources) == 0 {
		sources = []string{"-"}
	}

	exitCode := 0
	for _, src := range sources {
		if err := runOne(compiled, src, opts, out, cfg.Trace); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", src, err)
			exitCode = 1
		}
	}

	return exitCode
}

func runOne(compiled *jsonpath.CompiledExpression, src string, opts jsonpath.Options, out formatter.Formatter, trace bool) error {
	data, label, err := readSource(src)
	if err != nil {
		return err
	}

	instance, err := parseDocument(data)
	if err != nil {
		return err
	}

	results := compiled.Evaluate(instance, opts)
	if trace {
		fmt.Fprintf(os.Stderr, "evaluation id: %s\n", compiled.LastEvaluationID())
	}
	return out.Format(label, results)
}

func readSource(src string) (data []byte, label string, err error) {
	if src == "-" {
		data, err = io.ReadAll(os.Stdin)
		return data, "<stdin>", err
	}
	data, err = os.ReadFile(src)
	return data, src, err
}

// parseDocument accepts either JSON or YAML input. YAML is decoded into a
// native Go tree and re-marshalled to JSON before handing it to fastjson,
// so the query engine only ever sees fastjson.Value (SPEC_FULL.md's
// goccy/go-yaml binding).
func parseDocument(data []byte) (*fastjson.Value, error) {
	var p fastjson.Parser
	if v, err := p.ParseBytes(data); err == nil {
		return v, nil
	}

	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("not valid JSON or YAML: %w", err)
	}

	reJSON, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("re-encode YAML document as JSON: %w", err)
	}

	return p.ParseBytes(reJSON)
}

func newOutputFormatter(cfg *config.Config) formatter.Formatter {
	mode := stdout.ModeBoth
	switch cfg.Output {
	case config.OutputPaths:
		mode = stdout.ModePaths
	case config.OutputValues:
		mode = stdout.ModeValues
	}
	return stdout.New(mode, strings.EqualFold(cfg.Format, "json"))
}
