package formatter

import (
	jsonpath "github.com/jacoelho/jsonpathql"
)

// Formatter defines the interface for different output formats. A
// Formatter is responsible for deciding the output device (stdout, a
// file, etc.) as well as the layout.
type Formatter interface {
	// Format prints the results of evaluating an expression against one
	// source document. source is a file path, or "<stdin>" when the
	// document came from standard input.
	Format(source string, results []jsonpath.Result) error
}
