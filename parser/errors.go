package parser

import (
	"strings"

	"github.com/ava12/svgrammar"
	"github.com/ava12/svgrammar/lexer"
)

const (
	UnexpectedEofError = svgrammar.SyntaxErrors + iota
	UnexpectedTokenError
	UnresolvedAmbiguityError
)

const (
	UnknownStartError = svgrammar.ParserErrors + iota
	EmptyInputError
)

const maxExpected = 8

func expectedList(expected []string) string {
	if len(expected) > maxExpected {
		expected = append(expected[:maxExpected:maxExpected], "...")
	}
	return strings.Join(expected, ", ")
}

func unexpectedEofError(t *lexer.Token, expected []string, nonTerm string) *svgrammar.Error {
	return svgrammar.FormatErrorPos(t, UnexpectedEofError, "unexpected end of file in %s, expecting %s", nonTerm, expectedList(expected))
}

func unexpectedTokenError(t *lexer.Token, expected []string, nonTerm string) *svgrammar.Error {
	if len(expected) == 0 {
		return svgrammar.FormatErrorPos(t, UnexpectedTokenError, "unexpected %s %q in %s", t.TypeName(), t.Text(), nonTerm)
	}
	return svgrammar.FormatErrorPos(t, UnexpectedTokenError, "unexpected %s %q in %s, expecting %s", t.TypeName(), t.Text(), nonTerm, expectedList(expected))
}

func ambiguityError(t *lexer.Token, nonTerm string, candidates []string) *svgrammar.Error {
	return svgrammar.FormatErrorPos(t, UnresolvedAmbiguityError, "unresolved ambiguity in %s: no candidate of %s survives", nonTerm, strings.Join(candidates, ", "))
}

func unknownStartError(name string) *svgrammar.Error {
	return svgrammar.FormatError(UnknownStartError, "unknown start non-terminal %q", name)
}

func emptyInputError() *svgrammar.Error {
	return svgrammar.FormatError(EmptyInputError, "token list must end with end-of-file token")
}
