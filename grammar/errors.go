package grammar

import (
	"strings"

	"github.com/ava12/svgrammar"
)

// Grammar defect codes. Every defect is fatal and reported by Builder.Build only.
const (
	UndefinedNonTerminalError = svgrammar.GrammarErrors + iota
	NonTerminalDefinedError
	UnusedNonTerminalError
	UnproductiveError
	RecursionError
	UndeclaredConflictError
	PrecedenceError
	AmbiguityEntryError
	UnknownTokenError
	RoleError
	OperatorPlacementError
)

const lastDefectCode = OperatorPlacementError

// IsDefect reports whether e is a grammar defect.
func IsDefect(e error) bool {
	le, ok := e.(*svgrammar.Error)
	return ok && le.Code >= svgrammar.GrammarErrors && le.Code <= lastDefectCode
}

func undefinedError(names []string) *svgrammar.Error {
	return svgrammar.FormatError(UndefinedNonTerminalError, "undefined non-terminals: %s", strings.Join(names, ", "))
}

func definedError(names []string) *svgrammar.Error {
	return svgrammar.FormatError(NonTerminalDefinedError, "non-terminals defined more than once: %s", strings.Join(names, ", "))
}

func unusedError(names []string) *svgrammar.Error {
	return svgrammar.FormatError(UnusedNonTerminalError, "unreachable non-terminals: %s", strings.Join(names, ", "))
}

func unproductiveError(names []string) *svgrammar.Error {
	return svgrammar.FormatError(UnproductiveError, "non-terminals with no finite derivation: %s", strings.Join(names, ", "))
}

func recursionError(names []string) *svgrammar.Error {
	return svgrammar.FormatError(RecursionError, "found left-recursive non-terminals: %s", strings.Join(names, ", "))
}

func conflictError(conflicts []string) *svgrammar.Error {
	return svgrammar.FormatError(UndeclaredConflictError, "undeclared conflicts: %s", strings.Join(conflicts, "; "))
}

func precedenceError(msg string, params ...any) *svgrammar.Error {
	return svgrammar.FormatError(PrecedenceError, msg, params...)
}

func entryError(msg string, params ...any) *svgrammar.Error {
	return svgrammar.FormatError(AmbiguityEntryError, msg, params...)
}

func unknownTokenError(kinds []string) *svgrammar.Error {
	return svgrammar.FormatError(UnknownTokenError, "unknown token kinds: %s", strings.Join(kinds, ", "))
}

func roleError(msg string, params ...any) *svgrammar.Error {
	return svgrammar.FormatError(RoleError, msg, params...)
}

func placementError(prod string) *svgrammar.Error {
	return svgrammar.FormatError(OperatorPlacementError, "operator alternative of %q must be a top level alternative referring to %q", prod, prod)
}
