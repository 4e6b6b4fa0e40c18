package langdef

import (
	"io/fs"
	"regexp"
	"strconv"

	"github.com/ava12/svgrammar/grammar"
	"github.com/ava12/svgrammar/source"
)

const (
	stringTok    = "string"
	nameTok      = "name"
	dirTok       = "dir"
	tokenNameTok = "token-name"
	levelTok     = "level"
	opTok        = "op"
	wrongTok     = "wrong"
	eofTok       = "-end-of-file-"
)

const (
	equTok       = "="
	commaTok     = ","
	semicolonTok = ";"
	pipeTok      = "|"
	lBraceTok    = "("
	rBraceTok    = ")"
	lSquareTok   = "["
	rSquareTok   = "]"
	lCurlyTok    = "{"
	rCurlyTok    = "}"
)

const (
	startDir   = "!start"
	recoverDir = "!recover"
)

// token types in the order of capturing groups
var tokenTypes = []string{stringTok, nameTok, dirTok, tokenNameTok, levelTok, opTok, wrongTok}

var tokenRe = regexp.MustCompile(
	`^(?:\s+|#[^\n]*|` +
		`((?:"(?:[^\\"\n]|\\.)*")|(?:'[^'\n]*'))|` +
		`([a-zA-Z_][a-zA-Z_0-9]*)|` +
		`(![a-z]+)|` +
		`(\$[a-zA-Z_][a-zA-Z_0-9]*)|` +
		`(@[a-zA-Z_][a-zA-Z_0-9]*)|` +
		`([(){}\[\]=|,;])|` +
		`(.{1,10}))`)

type token struct {
	typ, text string
	pos       source.Pos
}

func (t *token) is(op string) bool {
	return t.typ == opTok && t.text == op
}

// ParseString parses rule description and adds rules to b.
// Returns *svgrammar.Error on error, b may contain part of the rules in this case.
func ParseString(b *grammar.Builder, name, content string) error {
	return Parse(b, source.NewString(name, content))
}

// ParseFS parses named rule description files in given order.
func ParseFS(b *grammar.Builder, fsys fs.FS, names ...string) error {
	for _, name := range names {
		content, e := fs.ReadFile(fsys, name)
		if e != nil {
			return e
		}

		e = Parse(b, source.New(name, content))
		if e != nil {
			return e
		}
	}
	return nil
}

// Parse parses rule description and adds rules to b.
func Parse(b *grammar.Builder, s *source.Source) error {
	tokens, e := tokenize(s)
	if e != nil {
		return e
	}

	c := &parseContext{b: b, tokens: tokens}
	return c.parse()
}

func tokenize(s *source.Source) ([]*token, error) {
	content := s.Content()
	result := make([]*token, 0, len(content)/4)
	offset := 0
	for offset < len(content) {
		m := tokenRe.FindSubmatchIndex(content[offset:])
		t := &token{text: string(content[offset : offset+m[1]]), pos: source.NewPos(s, offset)}
		offset += m[1]

		for i, typ := range tokenTypes {
			if m[i*2+2] >= 0 {
				t.typ = typ
				break
			}
		}

		switch t.typ {
		case "":
			continue
		case wrongTok:
			return nil, wrongTokenError(t)
		case stringTok:
			text, valid := unquote(t.text)
			if !valid {
				return nil, stringError(t)
			}
			t.text = text
		}
		result = append(result, t)
	}

	return append(result, &token{typ: eofTok, pos: source.NewPos(s, len(content))}), nil
}

func unquote(text string) (string, bool) {
	if text[0] == '\'' {
		text = text[1 : len(text)-1]
	} else {
		var e error
		text, e = strconv.Unquote(text)
		if e != nil {
			return "", false
		}
	}
	return text, text != ""
}

type parseContext struct {
	b      *grammar.Builder
	tokens []*token
	index  int
}

func (c *parseContext) fetch() *token {
	t := c.tokens[c.index]
	if t.typ != eofTok {
		c.index++
	}
	return t
}

func (c *parseContext) peek() *token {
	return c.tokens[c.index]
}

func (c *parseContext) fetchOne(typ string, e error) (*token, error) {
	if e != nil {
		return nil, e
	}

	t := c.fetch()
	if t.typ == typ || t.is(typ) {
		return t, nil
	}
	if t.typ == eofTok {
		return nil, eofError(t)
	}
	return nil, unexpectedTokenError(t)
}

func (c *parseContext) skipOne(op string, e error) error {
	_, e = c.fetchOne(op, e)
	return e
}

func (c *parseContext) skipIf(op string) bool {
	if c.peek().is(op) {
		c.fetch()
		return true
	}
	return false
}

func (c *parseContext) parse() error {
	var e error
	for e == nil {
		t := c.fetch()
		switch t.typ {
		case eofTok:
			return nil
		case dirTok:
			e = c.parseDir(t)
		case nameTok:
			e = c.parseRule(t)
		default:
			e = unexpectedTokenError(t)
		}
	}
	return e
}

func (c *parseContext) parseDir(dir *token) error {
	switch dir.text {
	case startDir:
		name, e := c.fetchOne(nameTok, nil)
		e = c.skipOne(semicolonTok, e)
		if e == nil {
			c.b.Start(name.text)
		}
		return e

	case recoverDir:
		name, e := c.fetchOne(nameTok, nil)
		if e != nil {
			return e
		}

		var before []string
		for c.peek().typ == stringTok {
			before = append(before, c.fetch().text)
		}
		e = c.skipOne(semicolonTok, e)
		if e == nil {
			c.b.Recover(name.text, before...)
		}
		return e
	}

	return directiveError(dir)
}

func (c *parseContext) parseRule(name *token) error {
	if c.b.Has(name.text) {
		return defNonTermError(name)
	}

	e := c.skipOne(equTok, nil)
	body, e := c.parseSequence(e)
	e = c.skipOne(semicolonTok, e)
	if e == nil {
		c.b.Define(name.text, body)
	}
	return e
}

func (c *parseContext) parseSequence(e error) (grammar.Term, error) {
	if e != nil {
		return nil, e
	}

	var items []grammar.Term
	for {
		item, e := c.parseItem()
		if e != nil {
			return nil, e
		}

		items = append(items, item)
		if !c.skipIf(commaTok) {
			break
		}
	}

	if len(items) == 1 {
		return items[0], nil
	}
	return grammar.Seq(items...), nil
}

func (c *parseContext) parseItem() (grammar.Term, error) {
	var variants []grammar.Term
	for {
		v, e := c.parseVariant()
		if e != nil {
			return nil, e
		}

		variants = append(variants, v)
		if !c.skipIf(pipeTok) {
			break
		}
	}

	if len(variants) == 1 {
		return variants[0], nil
	}
	return grammar.Or(variants...), nil
}

func (c *parseContext) parseVariant() (grammar.Term, error) {
	t := c.fetch()
	rank := 0
	if t.typ == levelTok {
		level, has := c.b.LevelByName(t.text[1:])
		if !has {
			return nil, levelError(t)
		}

		rank = level.Rank
		t = c.fetch()
	}

	var (
		result grammar.Term
		inner  grammar.Term
		e      error
	)
	switch {
	case t.typ == nameTok:
		result = grammar.Nt(t.text)
	case t.typ == tokenNameTok:
		result = grammar.Tok(t.text[1:])
	case t.typ == stringTok:
		result = grammar.Lit(t.text)
	case t.is(lBraceTok):
		result, e = c.parseSequence(nil)
		e = c.skipOne(rBraceTok, e)
	case t.is(lSquareTok):
		inner, e = c.parseSequence(nil)
		e = c.skipOne(rSquareTok, e)
		result = grammar.Opt(inner)
	case t.is(lCurlyTok):
		inner, e = c.parseSequence(nil)
		e = c.skipOne(rCurlyTok, e)
		result = grammar.Many(inner)
	case t.typ == eofTok:
		e = eofError(t)
	default:
		e = unexpectedTokenError(t)
	}

	if e != nil {
		return nil, e
	}
	if rank != 0 {
		result = grammar.Tag(rank, result)
	}
	return result, nil
}
