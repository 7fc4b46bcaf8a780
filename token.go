package jsonpath

import "github.com/valyala/fastjson"

// tokenKind is the discriminant of the VM's tagged-union token type
// (spec §3 Token, §4.D). Generalized from the teacher's 4-member
// tokenType enum in internal/rq/expr/lexer.go.
//
// The structural begin_*/end_* markers spec §4.B describes (begin_union,
// begin_filter, begin_expression, function/end_function, ...) are folded
// away entirely during parsing in this implementation: parser.go resolves
// grouping, union branches, filter bodies and function argument lists via
// recursive calls that each return a finished postfix program directly,
// rather than by pushing bracket markers onto the output stack and
// rescanning for a matching marker on every end_*. The resulting postfix
// programs are identical either way; only the finished token kinds below
// ever reach the VM.
type tokenKind uint8

const (
	tokLiteral tokenKind = iota
	tokFunction
	tokUnaryOp
	tokBinaryOp
	tokSelector
)

type unaryOp uint8

const (
	opNegate unaryOp = iota
	opNot
	opRegexMatch
)

type binaryOp uint8

const (
	opOr binaryOp = iota
	opAnd
	opEq
	opNeq
	opLt
	opLte
	opGt
	opGte
	opAdd
	opSub
	opMul
	opDiv
)

// token is one element of a finished postfix program (spec §3 Token).
type token struct {
	kind tokenKind

	literal *fastjson.Value // tokLiteral
	unary   unaryOp         // tokUnaryOp
	binary  binaryOp        // tokBinaryOp
	sel     Selector        // tokSelector: the selector chain to run

	fn      function  // tokFunction: the resolved built-in or custom function
	fnName  string    // tokFunction, for error messages
	fnArity int       // tokFunction: -1 means unchecked arity
	args    [][]token // tokFunction: one postfix sub-program per argument

	regex *compiledRegex // tokUnaryOp(opRegexMatch) payload
}

// compiledRegex wraps a host-compiled regular expression plus whether it
// was declared case-insensitive, so unary regex-match tokens are
// self-contained (spec §4.D, §9 "regex operator carries an owned
// compiled pattern").
type compiledRegex struct {
	source          string
	caseInsensitive bool
	re              regexMatcher
}

// regexMatcher is satisfied by *regexp.Regexp; kept as an interface so
// tests can substitute a fake without linking the regexp package.
type regexMatcher interface {
	MatchString(s string) bool
}
