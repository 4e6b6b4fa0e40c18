// Package lexer implements SystemVerilog lexical analysis.
//
// The whole source is split into tokens at once. Comments are not tokens, they are
// attached to the following token as trivia. Compiler directives are recognized
// and emitted as tokens, nothing is expanded: a `define body becomes a single
// macro_text token followed by a newline token.
package lexer

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"github.com/ava12/svgrammar/source"
)

const (
	spaceGroup = iota + 1
	commentGroup
	stringGroup
	escapedGroup
	systemGroup
	basedGroup
	unbasedGroup
	timeGroup
	realGroup
	unsignedGroup
	wordGroup
	badGroup
	operatorGroup
	wrongGroup
)

var groupKinds = map[int]string{
	stringGroup:   StringKind,
	escapedGroup:  EscapedIdentifierKind,
	systemGroup:   SystemTfIdentifierKind,
	basedGroup:    BasedNumberKind,
	unbasedGroup:  UnbasedUnsizedKind,
	timeGroup:     TimeLiteralKind,
	realGroup:     RealNumberKind,
	unsignedGroup: UnsignedNumberKind,
}

var (
	tokenRe *regexp.Regexp
	nameRe  = regexp.MustCompile(`\A(?:[a-zA-Z_][a-zA-Z0-9_$]*|\\[!-~]+)`)
)

func init() {
	ops := make([]string, len(operators))
	copy(ops, operators)
	sort.SliceStable(ops, func(i, j int) bool {
		return len(ops[i]) > len(ops[j])
	})
	for i, op := range ops {
		ops[i] = regexp.QuoteMeta(op)
	}

	tokenRe = regexp.MustCompile(`\A(?:` +
		`([ \t\r\n\f\v]+)|` +
		`(//[^\n]*|/\*(?s:.*?)\*/)|` +
		`("(?:[^"\\\n]|\\(?s:.))*")|` +
		`(\\[!-~]+)|` +
		`(\$[a-zA-Z0-9_$]+)|` +
		`((?:[0-9][0-9_]*[ \t]*)?'[sS]?[bBoOdDhH][ \t]*[0-9a-fA-FxXzZ?][0-9a-fA-FxXzZ?_]*)|` +
		`('[01xXzZ]\b)|` +
		`([0-9][0-9_]*(?:\.[0-9][0-9_]*)?(?:fs|ps|ns|us|ms|s|step)\b)|` +
		`([0-9][0-9_]*(?:\.[0-9][0-9_]*(?:[eE][+-]?[0-9][0-9_]*)?|[eE][+-]?[0-9][0-9_]*))|` +
		`([0-9][0-9_]*)|` +
		`([a-zA-Z_][a-zA-Z0-9_$]*)|` +
		`("|/\*)|` +
		`(` + strings.Join(ops, "|") + `)|` +
		`((?s:.)))`)
}

type scanner struct {
	src      *source.Source
	content  []byte
	pos      int
	tokens   []*Token
	comments []Comment
}

// Tokenize splits the source into tokens. The last token is always of EofKind.
// Returns nil and *svgrammar.Error on lexical error.
func Tokenize(src *source.Source) ([]*Token, error) {
	s := &scanner{src: src, content: src.Content()}
	s.tokens = make([]*Token, 0, len(s.content)/4+1)
	for s.pos < len(s.content) {
		var e error
		if s.content[s.pos] == '`' {
			e = s.directive()
		} else {
			e = s.next()
		}
		if e != nil {
			return nil, e
		}
	}

	s.emit(EofKind, s.pos, s.pos)
	return s.tokens, nil
}

func (s *scanner) at(offset int) source.Pos {
	return source.NewPos(s.src, offset)
}

func (s *scanner) emit(kind string, start, end int) *Token {
	t := &Token{
		kind:     kind,
		text:     string(s.content[start:end]),
		pos:      s.at(start),
		end:      end,
		comments: s.comments,
	}
	s.comments = nil
	s.tokens = append(s.tokens, t)
	return t
}

func (s *scanner) comment(start, end int) {
	s.comments = append(s.comments, Comment{string(s.content[start:end]), s.at(start)})
}

func (s *scanner) next() error {
	m := tokenRe.FindSubmatchIndex(s.content[s.pos:])
	if m == nil {
		return wrongCharError(s.at(s.pos), string(s.content[s.pos:s.pos+1]))
	}

	group := 0
	for i := 1; i <= wrongGroup; i++ {
		if m[i*2] >= 0 {
			group = i
			break
		}
	}

	start, end := s.pos, s.pos+m[1]
	text := string(s.content[start:end])
	switch group {
	case spaceGroup:

	case commentGroup:
		s.comment(start, end)

	case wordGroup:
		if keywords.Has(s.content[start:end]) {
			s.emit(KeywordKind, start, end)
		} else {
			s.emit(SimpleIdentifierKind, start, end)
		}

	case operatorGroup:
		s.emit(OperatorKind, start, end)

	case badGroup:
		if text == `"` {
			return badTokenError(s.at(start), "string literal")
		}
		return badTokenError(s.at(start), "block comment")

	case wrongGroup:
		return wrongCharError(s.at(start), text)

	default:
		s.emit(groupKinds[group], start, end)
	}

	s.pos = end
	return nil
}

func (s *scanner) directive() error {
	start := s.pos
	m := nameRe.FindIndex(s.content[start+1:])
	if m == nil || s.content[start+1] == '\\' {
		return wrongCharError(s.at(start), "`")
	}

	nameEnd := start + 1 + m[1]
	name := string(s.content[start+1 : nameEnd])
	if !directives.HasString(name) {
		s.emit(OperatorKind, start, start+1)
		s.emit(SimpleIdentifierKind, start+1, nameEnd)
		s.pos = nameEnd
		return nil
	}

	s.emit(DirectiveKind, start, nameEnd)
	s.pos = nameEnd
	switch name {
	case "define":
		return s.define(start)
	case "include":
		return s.include(start)
	case "pragma":
		return s.pragma(start)
	}
	return nil
}

func (s *scanner) skipBlanks() {
	for s.pos < len(s.content) {
		switch s.content[s.pos] {
		case ' ', '\t', '\f', '\v':
			s.pos++
		case '\r':
			if s.pos+1 < len(s.content) && s.content[s.pos+1] == '\n' {
				return
			}
			s.pos++
		case '\\':
			l := s.continuation(s.pos)
			if l == 0 {
				return
			}
			s.pos += l
		default:
			return
		}
	}
}

// continuation returns the length of escaped newline at i or 0.
func (s *scanner) continuation(i int) int {
	rest := s.content[i:]
	if bytes.HasPrefix(rest, []byte("\\\n")) {
		return 2
	}
	if bytes.HasPrefix(rest, []byte("\\\r\n")) {
		return 3
	}
	return 0
}

func (s *scanner) atLineEnd() bool {
	return s.pos >= len(s.content) || s.content[s.pos] == '\n' ||
		(s.content[s.pos] == '\r' && s.pos+1 < len(s.content) && s.content[s.pos+1] == '\n')
}

func (s *scanner) name() bool {
	m := nameRe.FindIndex(s.content[s.pos:])
	if m == nil {
		return false
	}

	kind := SimpleIdentifierKind
	if s.content[s.pos] == '\\' {
		kind = EscapedIdentifierKind
	}
	s.emit(kind, s.pos, s.pos+m[1])
	s.pos += m[1]
	return true
}

func (s *scanner) operator() {
	s.emit(OperatorKind, s.pos, s.pos+1)
	s.pos++
}

func (s *scanner) define(start int) error {
	s.skipBlanks()
	if !s.name() {
		if s.atLineEnd() {
			return unterminatedDirectiveError(s.at(start), "`define")
		}
		return badDirectiveError(s.at(s.pos), "`define", "macro name expected")
	}

	if s.pos < len(s.content) && s.content[s.pos] == '(' {
		if e := s.formals(start); e != nil {
			return e
		}
	}

	return s.lineText(start, "`define")
}

func (s *scanner) formals(start int) error {
	s.operator()
	for {
		s.skipBlanks()
		if !s.name() {
			break
		}

		s.skipBlanks()
		if s.pos < len(s.content) && s.content[s.pos] == '=' {
			s.operator()
			s.skipBlanks()
			if e := s.defaultText(start); e != nil {
				return e
			}
		}

		s.skipBlanks()
		if s.pos >= len(s.content) {
			break
		}

		switch s.content[s.pos] {
		case ',':
			s.operator()
			continue
		case ')':
			s.operator()
			return nil
		}
		break
	}

	if s.atLineEnd() {
		return unterminatedDirectiveError(s.at(start), "`define")
	}
	return badDirectiveError(s.at(s.pos), "`define", "formal argument expected")
}

func (s *scanner) defaultText(start int) error {
	depth := 0
	textStart, textEnd := s.pos, s.pos
	i := s.pos
	for i < len(s.content) {
		c := s.content[i]
		if c == '\n' {
			break
		}

		if depth == 0 && (c == ',' || c == ')') {
			break
		}

		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '"':
			j := s.stringEnd(i)
			if j < 0 {
				return badTokenError(s.at(i), "string literal")
			}
			i = j
			textEnd = i
			continue
		case '\\':
			if l := s.continuation(i); l > 0 {
				i += l
				continue
			}
		}

		i++
		if c != ' ' && c != '\t' && c != '\r' {
			textEnd = i
		}
	}

	if i >= len(s.content) || s.content[i] == '\n' {
		return unterminatedDirectiveError(s.at(start), "`define")
	}

	if textEnd > textStart {
		s.emit(DefaultTextKind, textStart, textEnd)
	}
	s.pos = i
	return nil
}

// stringEnd returns the offset following the string literal starting at i, or -1.
func (s *scanner) stringEnd(i int) int {
	for i++; i < len(s.content); i++ {
		switch s.content[i] {
		case '\\':
			i++
		case '\n':
			return -1
		case '"':
			return i + 1
		}
	}
	return -1
}

// lineText emits the rest of the directive line as macro text and the terminating newline.
// Escaped newlines and block comments belong to the text, a line comment ends it.
func (s *scanner) lineText(start int, directive string) error {
	s.skipBlanks()
	textStart, textEnd := s.pos, s.pos
	commentStart := -1
	i := s.pos

loop:
	for i < len(s.content) {
		c := s.content[i]
		switch {
		case c == '\n':
			break loop

		case c == '\\' && s.continuation(i) > 0:
			i += s.continuation(i)
			textEnd = i
			continue

		case c == '"':
			j := s.stringEnd(i)
			if j < 0 {
				return badTokenError(s.at(i), "string literal")
			}
			i = j
			textEnd = i
			continue

		case c == '/' && i+1 < len(s.content) && s.content[i+1] == '/':
			commentStart = i
			nl := bytes.IndexByte(s.content[i:], '\n')
			if nl < 0 {
				i = len(s.content)
			} else {
				i += nl
			}
			break loop

		case c == '/' && i+1 < len(s.content) && s.content[i+1] == '*':
			j := bytes.Index(s.content[i+2:], []byte("*/"))
			if j < 0 {
				return badTokenError(s.at(i), "block comment")
			}
			i += j + 4
			textEnd = i
			continue
		}

		i++
		if c != ' ' && c != '\t' && c != '\r' {
			textEnd = i
		}
	}

	if i >= len(s.content) {
		return unterminatedDirectiveError(s.at(start), directive)
	}

	if textEnd > textStart {
		s.emit(MacroTextKind, textStart, textEnd)
	}
	if commentStart >= 0 {
		end := i
		if end > commentStart && s.content[end-1] == '\r' {
			end--
		}
		s.comment(commentStart, end)
	}
	s.emit(NewlineKind, i, i+1)
	s.pos = i + 1
	return nil
}

func (s *scanner) include(start int) error {
	s.skipBlanks()
	if s.pos >= len(s.content) {
		return unterminatedDirectiveError(s.at(start), "`include")
	}

	var closer byte
	switch s.content[s.pos] {
	case '"':
		closer = '"'
	case '<':
		closer = '>'
	default:
		return nil
	}

	i := s.pos + 1
	for i < len(s.content) && s.content[i] != closer && s.content[i] != '\n' {
		i++
	}
	if i >= len(s.content) || s.content[i] != closer {
		return unterminatedDirectiveError(s.at(start), "`include")
	}

	s.emit(IncludePathKind, s.pos, i+1)
	s.pos = i + 1
	return nil
}

func (s *scanner) pragma(start int) error {
	s.skipBlanks()
	if !s.name() {
		return badDirectiveError(s.at(s.pos), "`pragma", "pragma name expected")
	}

	return s.lineText(start, "`pragma")
}
