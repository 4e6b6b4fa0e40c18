package lexer

import (
	"github.com/ava12/svgrammar/source"
)

// Token kinds emitted by the lexer.
const (
	KeywordKind            = "keyword"
	OperatorKind           = "operator"
	DirectiveKind          = "directive"
	SimpleIdentifierKind   = "simple_identifier"
	EscapedIdentifierKind  = "escaped_identifier"
	SystemTfIdentifierKind = "system_tf_identifier"
	UnsignedNumberKind     = "unsigned_number"
	BasedNumberKind        = "based_number"
	RealNumberKind         = "real_number"
	TimeLiteralKind        = "time_literal"
	UnbasedUnsizedKind     = "unbased_unsized_literal"
	StringKind             = "string_literal"
	MacroTextKind          = "macro_text"
	DefaultTextKind        = "default_text"
	IncludePathKind        = "include_path"
	NewlineKind            = "newline"
	EofKind                = "-end-of-file-"
)

// Kinds lists all token kinds a grammar may refer to.
var Kinds = []string{
	KeywordKind, OperatorKind, DirectiveKind, SimpleIdentifierKind, EscapedIdentifierKind,
	SystemTfIdentifierKind, UnsignedNumberKind, BasedNumberKind, RealNumberKind,
	TimeLiteralKind, UnbasedUnsizedKind, StringKind, MacroTextKind, DefaultTextKind,
	IncludePathKind, NewlineKind, EofKind,
}

// Comment is a piece of trivia preceding a token.
type Comment struct {
	Text string
	Pos  source.Pos
}

// Token is a single lexeme. Tokens are immutable.
type Token struct {
	kind     string
	text     string
	pos      source.Pos
	end      int
	comments []Comment
}

// NewToken creates a token of given kind spanning text starting at pos.
func NewToken(kind, text string, pos source.Pos) *Token {
	return &Token{kind: kind, text: text, pos: pos, end: pos.Pos() + len(text)}
}

// TypeName returns token kind.
func (t *Token) TypeName() string {
	return t.kind
}

// Text returns token text exactly as it appears in the source.
func (t *Token) Text() string {
	return t.text
}

// Pos returns token start position.
func (t *Token) Pos() source.Pos {
	return t.pos
}

// Offset returns byte offset of the first token byte.
func (t *Token) Offset() int {
	return t.pos.Pos()
}

// End returns byte offset following the last token byte.
func (t *Token) End() int {
	return t.end
}

// Source returns token source.
func (t *Token) Source() *source.Source {
	return t.pos.Source()
}

// SourceName returns token source name.
func (t *Token) SourceName() string {
	return t.pos.SourceName()
}

// Line returns 1-based line number of token start.
func (t *Token) Line() int {
	return t.pos.Line()
}

// Col returns 1-based column number of token start.
func (t *Token) Col() int {
	return t.pos.Col()
}

// Comments returns comments found between the previous token and this one.
func (t *Token) Comments() []Comment {
	return t.comments
}

// IsWord reports whether the token text may be matched by a grammar literal.
// Identifiers qualify too: SystemVerilog has soft keywords like "new" or "none"
// and reserved system names like "$unit".
func (t *Token) IsWord() bool {
	switch t.kind {
	case KeywordKind, OperatorKind, DirectiveKind, SimpleIdentifierKind, SystemTfIdentifierKind:
		return true
	}
	return false
}

// IsEof reports whether t is the end-of-file token.
func (t *Token) IsEof() bool {
	return t.kind == EofKind
}
