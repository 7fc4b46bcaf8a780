package config

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantErr    bool
		wantExpr   string
		wantFiles  []string
		wantOutput OutputMode
		wantUnique bool
		wantSort   bool
		wantFormat string
	}{
		{
			name:    "no arguments",
			args:    []string{},
			wantErr: true,
		},
		{
			name:    "no expression",
			args:    []string{"jpq"},
			wantErr: true,
		},
		{
			name:       "expression only, reads stdin",
			args:       []string{"jpq", "$.a"},
			wantExpr:   "$.a",
			wantFiles:  nil,
			wantOutput: OutputBoth,
			wantFormat: "table",
		},
		{
			name:      "expression with files",
			args:      []string{"jpq", "$.a", "one.json", "two.json"},
			wantExpr:  "$.a",
			wantFiles: []string{"one.json", "two.json"},
		},
		{
			name:       "paths only",
			args:       []string{"jpq", "--paths", "$.a", "f.json"},
			wantExpr:   "$.a",
			wantFiles:  []string{"f.json"},
			wantOutput: OutputPaths,
		},
		{
			name:       "values only",
			args:       []string{"jpq", "--values", "$.a", "f.json"},
			wantExpr:   "$.a",
			wantFiles:  []string{"f.json"},
			wantOutput: OutputValues,
		},
		{
			name:    "paths and values conflict",
			args:    []string{"jpq", "--paths", "--values", "$.a"},
			wantErr: true,
		},
		{
			name:       "unique and sort",
			args:       []string{"jpq", "--unique", "--sort", "$.a"},
			wantExpr:   "$.a",
			wantUnique: true,
			wantSort:   true,
		},
		{
			name:       "json format",
			args:       []string{"jpq", "--format", "JSON", "$.a"},
			wantExpr:   "$.a",
			wantFormat: "json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, exitResult := Parse(tt.args)

			if (exitResult != nil) != tt.wantErr {
				t.Fatalf("Parse() exitResult = %v, wantErr %v", exitResult, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if cfg.Expression != tt.wantExpr {
				t.Errorf("Expression = %q, want %q", cfg.Expression, tt.wantExpr)
			}
			if len(cfg.Files) != len(tt.wantFiles) {
				t.Errorf("Files = %v, want %v", cfg.Files, tt.wantFiles)
			}
			if cfg.Output != tt.wantOutput {
				t.Errorf("Output = %v, want %v", cfg.Output, tt.wantOutput)
			}
			if cfg.Unique != tt.wantUnique {
				t.Errorf("Unique = %v, want %v", cfg.Unique, tt.wantUnique)
			}
			if cfg.Sort != tt.wantSort {
				t.Errorf("Sort = %v, want %v", cfg.Sort, tt.wantSort)
			}
			wantFormat := tt.wantFormat
			if wantFormat == "" {
				wantFormat = "table"
			}
			if cfg.Format != wantFormat {
				t.Errorf("Format = %q, want %q", cfg.Format, wantFormat)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err != ErrNoExpression {
		t.Fatalf("Validate() = %v, want %v", err, ErrNoExpression)
	}

	cfg.Expression = "$.a"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}
