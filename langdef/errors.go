package langdef

import (
	"github.com/ava12/svgrammar"
)

// Rule description errors share the grammar error class with grammar defects.
const (
	UnexpectedEofError = svgrammar.GrammarErrors + 50 + iota
	UnexpectedTokenError
	WrongTokenError
	WrongStringError
	UnknownLevelError
	NonTerminalDefinedError
	UnknownDirectiveError
)

func eofError(t *token) *svgrammar.Error {
	return svgrammar.FormatErrorPos(t.pos, UnexpectedEofError, "unexpected EoF")
}

func unexpectedTokenError(t *token) *svgrammar.Error {
	return svgrammar.FormatErrorPos(t.pos, UnexpectedTokenError, "unexpected %s token %q", t.typ, t.text)
}

func wrongTokenError(t *token) *svgrammar.Error {
	return svgrammar.FormatErrorPos(t.pos, WrongTokenError, "wrong token %q", t.text)
}

func stringError(t *token) *svgrammar.Error {
	return svgrammar.FormatErrorPos(t.pos, WrongStringError, "incorrect string literal %s", t.text)
}

func levelError(t *token) *svgrammar.Error {
	return svgrammar.FormatErrorPos(t.pos, UnknownLevelError, "unknown precedence level %q", t.text[1:])
}

func defNonTermError(t *token) *svgrammar.Error {
	return svgrammar.FormatErrorPos(t.pos, NonTerminalDefinedError, "non-terminal %q already defined", t.text)
}

func directiveError(t *token) *svgrammar.Error {
	return svgrammar.FormatErrorPos(t.pos, UnknownDirectiveError, "unknown directive %q", t.text)
}
