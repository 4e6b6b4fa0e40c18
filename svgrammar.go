/*
Package svgrammar is a SystemVerilog surface grammar together with a deterministic
disambiguation engine.

Consists of subpackages:
  - cmd/svparse: console utility parsing source files, validating the grammar, and dumping its tables;
  - grammar: data model (productions, terms, precedence levels, ambiguity entries, identifier roles),
    builder combinators, FIRST-set analysis, and build-time validation;
  - systemverilog: the production rule set, precedence table, and ambiguity table;
  - lexer: SystemVerilog lexical analyzer, recognizes (but never expands) compiler directives;
  - parser: grammar interpreter performing bounded parallel derivation;
  - source: defines source file type;
  - tree: syntax tree nodes, traversal, and identifier role queries.

Typical usage is:

1. Get the shared grammar instance with systemverilog.Grammar(). The grammar is validated
once, a defect causes a panic at that point, never at parse time.

2. Get the shared parser with systemverilog.Parser() (or create one with parser.New).

3. Parse any number of sources, possibly from different goroutines.
*/
package svgrammar

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	GrammarErrors = 1   // used by grammar
	LexicalErrors = 101 // used by lexer
	SyntaxErrors  = 201 // used by parser
	ParserErrors  = 301 // used by parser
)

// Error is the error type used by svgrammar subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos and lexer.Token implement this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}

// HasCode reports whether e is an *Error with given code.
func HasCode(e error, code int) bool {
	le, ok := e.(*Error)
	return ok && le.Code == code
}
