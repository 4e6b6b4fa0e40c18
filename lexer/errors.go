package lexer

import (
	"github.com/ava12/svgrammar"
)

const (
	// WrongCharError is returned when the source contains a character that cannot start a token.
	WrongCharError = svgrammar.LexicalErrors + iota
	// BadTokenError is returned for unterminated string literals and block comments.
	BadTokenError
	// UnterminatedDirectiveError is returned for a `define not closed by a newline
	// or an `include path missing its closing delimiter.
	UnterminatedDirectiveError
	// BadDirectiveError is returned for a directive with malformed arguments.
	BadDirectiveError
)

func wrongCharError(pos svgrammar.SourcePos, text string) *svgrammar.Error {
	return svgrammar.FormatErrorPos(pos, WrongCharError, "wrong character %q", text)
}

func badTokenError(pos svgrammar.SourcePos, what string) *svgrammar.Error {
	return svgrammar.FormatErrorPos(pos, BadTokenError, "unterminated %s", what)
}

func unterminatedDirectiveError(pos svgrammar.SourcePos, directive string) *svgrammar.Error {
	return svgrammar.FormatErrorPos(pos, UnterminatedDirectiveError, "unterminated %s directive", directive)
}

func badDirectiveError(pos svgrammar.SourcePos, directive, msg string) *svgrammar.Error {
	return svgrammar.FormatErrorPos(pos, BadDirectiveError, "malformed %s directive: %s", directive, msg)
}
