package config

import (
	"errors"
	"flag"
	"io"
	"strings"

	"github.com/jacoelho/jsonpathql/internal/exit"
)

var (
	ErrNoArguments    = errors.New("no arguments provided")
	ErrNoExpression   = errors.New("no JSONPath expression specified")
	ErrConflictingOut = errors.New("-paths and -values are mutually exclusive")
)

// OutputMode selects which part of each match jpq prints.
type OutputMode int

const (
	OutputBoth OutputMode = iota
	OutputPaths
	OutputValues
)

// Config represents the complete configuration for the jpq tool.
type Config struct {
	Expression string
	Files      []string // empty means read a single document from stdin

	Output OutputMode
	Unique bool
	Sort   bool
	Format string // "table" or "json"
	Trace  bool   // print the evaluation id alongside results
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Expression == "" {
		return ErrNoExpression
	}
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		paths  = fs.Bool("paths", false, "Print only the normalized path of each match")
		values = fs.Bool("values", false, "Print only the value of each match")
		unique = fs.Bool("unique", false, "Deduplicate matches by normalized path")
		sorted = fs.Bool("sort", false, "Sort matches by normalized path")
		format = fs.String("format", "table", "Output format: table or json")
		trace  = fs.Bool("trace", false, "Print the evaluation id used to tag this run's results")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	if *paths && *values {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrConflictingOut, Usage())
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoExpression, Usage())
	}

	output := OutputBoth
	switch {
	case *paths:
		output = OutputPaths
	case *values:
		output = OutputValues
	}

	cfg := &Config{
		Expression: rest[0],
		Files:      rest[1:],
		Output:     output,
		Unique:     *unique,
		Sort:       *sorted,
		Format:     strings.ToLower(*format),
		Trace:      *trace,
	}

	if err := cfg.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return cfg, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `jpq - JSONPath query tool

Usage: jpq [options] <expression> [file1] [file2] ...

If no files are given, jpq reads a single JSON or YAML document from stdin.

Options:
  --paths           Print only the normalized path of each match
  --values          Print only the value of each match
  --unique          Deduplicate matches by normalized path
  --sort            Sort matches by normalized path
  --format FORMAT   Output format: table or json (default: table)
  --trace           Print the evaluation id used to tag this run's results
  -h, --help        Show this help message

Examples:
  jpq '$.store.book[*].title' catalog.json
  jpq --values '$..price' catalog.yaml
  jpq --format json '$.items[?(@.active)]' data.json
  cat data.json | jpq '$.user.name'`
}
