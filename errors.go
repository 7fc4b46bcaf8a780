package jsonpath

import "fmt"

// ErrorCode enumerates the abstract error codes from spec §6/§7. Compile
// errors and runtime errors share this vocabulary but surface through two
// strictly separate channels (spec §7).
type ErrorCode string

const (
	ErrSyntaxError                     ErrorCode = "syntax_error"
	ErrUnexpectedEOF                   ErrorCode = "unexpected_eof"
	ErrUnbalancedParentheses           ErrorCode = "unbalanced_parentheses"
	ErrExpectedRootOrFunction          ErrorCode = "expected_root_or_function"
	ErrExpectedKey                     ErrorCode = "expected_key"
	ErrExpectedForwardSlash            ErrorCode = "expected_forward_slash"
	ErrExpectedAnd                     ErrorCode = "expected_and"
	ErrExpectedOr                      ErrorCode = "expected_or"
	ErrExpectedComparator              ErrorCode = "expected_comparator"
	ErrExpectedCommaOrRightBracket     ErrorCode = "expected_comma_or_right_bracket"
	ErrExpectedRightBracket            ErrorCode = "expected_right_bracket"
	ErrExpectedBracketSpecifierOrUnion ErrorCode = "expected_bracket_specifier_or_union"
	ErrInvalidNumber                   ErrorCode = "invalid_number"
	ErrInvalidCodepoint                ErrorCode = "invalid_codepoint"
	ErrIllegalEscapedCharacter         ErrorCode = "illegal_escaped_character"
	ErrStepCannotBeZero                ErrorCode = "step_cannot_be_zero"
	ErrUnknownFunction                 ErrorCode = "unknown_function"
	ErrInvalidArity                    ErrorCode = "invalid_arity"
	ErrInvalidType                     ErrorCode = "invalid_type"
)

// CompileError is returned by Compile when source text cannot be turned
// into a CompiledExpression. No partial expression ever escapes a failed
// compilation (spec §4.G).
type CompileError struct {
	Code    ErrorCode
	Line    int
	Column  int
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("jsonpath: %s at %d:%d: %s", e.Code, e.Line, e.Column, e.Message)
}

// RuntimeError is the side-channel error code set by a misbehaving
// operator or function during evaluation (spec §7). It never aborts
// evaluation: the offending sub-expression's result is JSON null and its
// siblings still run. The most recent one is recorded on the VM that ran
// the expression; Evaluate and the other public entry points do not
// return it to the caller.
type RuntimeError struct {
	Code    ErrorCode
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("jsonpath: %s: %s", e.Code, e.Message)
}

func runtimeErrorf(code ErrorCode, format string, args ...any) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...)}
}
