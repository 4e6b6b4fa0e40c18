package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/svgrammar"
	"github.com/ava12/svgrammar/source"
)

type tok struct {
	kind, text string
}

func tokenize(t *testing.T, text string) []*Token {
	t.Helper()
	tokens, e := Tokenize(source.NewString("test.sv", text))
	require.NoError(t, e)
	require.NotEmpty(t, tokens)
	require.True(t, tokens[len(tokens)-1].IsEof())
	return tokens
}

func toks(tokens []*Token) []tok {
	result := make([]tok, 0, len(tokens))
	for _, t := range tokens {
		if !t.IsEof() {
			result = append(result, tok{t.TypeName(), t.Text()})
		}
	}
	return result
}

func TestEmptySource(t *testing.T) {
	for _, text := range []string{"", " ", "\t\r\n ", "// comment only"} {
		tokens := tokenize(t, text)
		assert.Len(t, tokens, 1, "source %q", text)
	}
}

func TestTokenKinds(t *testing.T) {
	samples := []struct {
		src    string
		tokens []tok
	}{
		{"module m;", []tok{{KeywordKind, "module"}, {SimpleIdentifierKind, "m"}, {OperatorKind, ";"}}},
		{`\bus[0] $display`, []tok{{EscapedIdentifierKind, `\bus[0]`}, {SystemTfIdentifierKind, "$display"}}},
		{"8'hFF 'b0 4 'sd3 '1 'z", []tok{
			{BasedNumberKind, "8'hFF"}, {BasedNumberKind, "'b0"}, {BasedNumberKind, "4 'sd3"},
			{UnbasedUnsizedKind, "'1"}, {UnbasedUnsizedKind, "'z"},
		}},
		{"1.5ns 10ps 1step 2.5 1e3 42 1_000", []tok{
			{TimeLiteralKind, "1.5ns"}, {TimeLiteralKind, "10ps"}, {TimeLiteralKind, "1step"},
			{RealNumberKind, "2.5"}, {RealNumberKind, "1e3"}, {UnsignedNumberKind, "42"},
			{UnsignedNumberKind, "1_000"},
		}},
		{`"a \"b\""`, []tok{{StringKind, `"a \"b\""`}}},
		{"a<<<=b >>> c", []tok{
			{SimpleIdentifierKind, "a"}, {OperatorKind, "<<<="}, {SimpleIdentifierKind, "b"},
			{OperatorKind, ">>>"}, {SimpleIdentifierKind, "c"},
		}},
		{"@(*) (* full *) '{", []tok{
			{OperatorKind, "@"}, {OperatorKind, "(*)"}, {OperatorKind, "(*"}, {SimpleIdentifierKind, "full"},
			{OperatorKind, "*)"}, {OperatorKind, "'{"},
		}},
		{"8'(x) a==?b", []tok{
			{UnsignedNumberKind, "8"}, {OperatorKind, "'"}, {OperatorKind, "("}, {SimpleIdentifierKind, "x"},
			{OperatorKind, ")"}, {SimpleIdentifierKind, "a"}, {OperatorKind, "==?"}, {SimpleIdentifierKind, "b"},
		}},
		{"a && &b", []tok{
			{SimpleIdentifierKind, "a"}, {OperatorKind, "&&"}, {OperatorKind, "&"}, {SimpleIdentifierKind, "b"},
		}},
		{"new none this", []tok{
			{SimpleIdentifierKind, "new"}, {SimpleIdentifierKind, "none"}, {KeywordKind, "this"},
		}},
	}

	for _, s := range samples {
		assert.Equal(t, s.tokens, toks(tokenize(t, s.src)), "source %q", s.src)
	}
}

func TestPositions(t *testing.T) {
	tokens := tokenize(t, "module\n  m ;")
	require.Len(t, tokens, 4)
	assert.Equal(t, 2, tokens[1].Line())
	assert.Equal(t, 3, tokens[1].Col())
	assert.Equal(t, 9, tokens[1].Offset())
	assert.Equal(t, 10, tokens[1].End())
	assert.Equal(t, "test.sv", tokens[2].SourceName())
	assert.Equal(t, 12, tokens[3].Offset())
}

func TestCommentsAreTrivia(t *testing.T) {
	tokens := tokenize(t, "// head\n/* block */ wire w; // tail")
	require.Len(t, tokens, 4)
	comments := tokens[0].Comments()
	require.Len(t, comments, 2)
	assert.Equal(t, "// head", comments[0].Text)
	assert.Equal(t, "/* block */", comments[1].Text)
	assert.Equal(t, 2, comments[1].Pos.Line())
	assert.Empty(t, tokens[1].Comments())
	assert.Equal(t, "// tail", tokens[3].Comments()[0].Text)
}

func TestMacroDefinition(t *testing.T) {
	src := "`define MAX(a, b=8) ((a) > (b) ? (a) : (b)) // max\nwire w;"
	tokens := tokenize(t, src)
	expected := []tok{
		{DirectiveKind, "`define"}, {SimpleIdentifierKind, "MAX"}, {OperatorKind, "("},
		{SimpleIdentifierKind, "a"}, {OperatorKind, ","}, {SimpleIdentifierKind, "b"},
		{OperatorKind, "="}, {DefaultTextKind, "8"}, {OperatorKind, ")"},
		{MacroTextKind, "((a) > (b) ? (a) : (b))"}, {NewlineKind, "\n"},
		{KeywordKind, "wire"}, {SimpleIdentifierKind, "w"}, {OperatorKind, ";"},
	}
	assert.Equal(t, expected, toks(tokens))
	assert.Equal(t, "// max", tokens[10].Comments()[0].Text)
	assert.Equal(t, 1, tokens[10].Line())
}

func TestMacroDefinitionForms(t *testing.T) {
	samples := []struct {
		src    string
		tokens []tok
	}{
		{"`define EMPTY\n", []tok{
			{DirectiveKind, "`define"}, {SimpleIdentifierKind, "EMPTY"}, {NewlineKind, "\n"},
		}},
		{"`define W (8)\n", []tok{
			{DirectiveKind, "`define"}, {SimpleIdentifierKind, "W"}, {MacroTextKind, "(8)"}, {NewlineKind, "\n"},
		}},
		{"`define TWO a \\\n  b\n", []tok{
			{DirectiveKind, "`define"}, {SimpleIdentifierKind, "TWO"}, {MacroTextKind, "a \\\n  b"},
			{NewlineKind, "\n"},
		}},
		{"`define F(x, y = {1, 2}) x\r\n", []tok{
			{DirectiveKind, "`define"}, {SimpleIdentifierKind, "F"}, {OperatorKind, "("},
			{SimpleIdentifierKind, "x"}, {OperatorKind, ","}, {SimpleIdentifierKind, "y"},
			{OperatorKind, "="}, {DefaultTextKind, "{1, 2}"}, {OperatorKind, ")"},
			{MacroTextKind, "x"}, {NewlineKind, "\n"},
		}},
	}

	for _, s := range samples {
		assert.Equal(t, s.tokens, toks(tokenize(t, s.src)), "source %q", s.src)
	}
}

func TestDirectives(t *testing.T) {
	src := "`include \"defs.svh\"\n`include <uvm.svh>\n`ifdef SIM\n`timescale 1ns/1ps\n`endif\n`FOO(1)"
	expected := []tok{
		{DirectiveKind, "`include"}, {IncludePathKind, `"defs.svh"`},
		{DirectiveKind, "`include"}, {IncludePathKind, "<uvm.svh>"},
		{DirectiveKind, "`ifdef"}, {SimpleIdentifierKind, "SIM"},
		{DirectiveKind, "`timescale"}, {TimeLiteralKind, "1ns"}, {OperatorKind, "/"}, {TimeLiteralKind, "1ps"},
		{DirectiveKind, "`endif"},
		{OperatorKind, "`"}, {SimpleIdentifierKind, "FOO"}, {OperatorKind, "("}, {UnsignedNumberKind, "1"},
		{OperatorKind, ")"},
	}
	assert.Equal(t, expected, toks(tokenize(t, src)))
}

func TestPragma(t *testing.T) {
	expected := []tok{
		{DirectiveKind, "`pragma"}, {SimpleIdentifierKind, "protect"}, {MacroTextKind, "begin"},
		{NewlineKind, "\n"},
	}
	assert.Equal(t, expected, toks(tokenize(t, "`pragma protect begin\n")))
}

func TestErrors(t *testing.T) {
	samples := []struct {
		src       string
		code      int
		line, col int
	}{
		{"wire w;\n  \"abc", BadTokenError, 2, 3},
		{"/* open", BadTokenError, 1, 1},
		{"a ≠ b", WrongCharError, 1, 3},
		{"`define X 1", UnterminatedDirectiveError, 1, 1},
		{"\n`define F(a, b", UnterminatedDirectiveError, 2, 1},
		{"`define F(a = 1\n) x\n", UnterminatedDirectiveError, 1, 1},
		{"`include \"a.svh\n", UnterminatedDirectiveError, 1, 1},
		{"`include <a.svh", UnterminatedDirectiveError, 1, 1},
		{"`define 1x\n", BadDirectiveError, 1, 9},
		{"` x", WrongCharError, 1, 1},
	}

	for _, s := range samples {
		_, e := Tokenize(source.NewString("err.sv", s.src))
		require.Error(t, e, "source %q", s.src)
		le, ok := e.(*svgrammar.Error)
		require.True(t, ok, "source %q", s.src)
		assert.Equal(t, s.code, le.Code, "source %q: %s", s.src, le.Message)
		assert.Equal(t, s.line, le.Line, "source %q", s.src)
		assert.Equal(t, s.col, le.Col, "source %q", s.src)
		assert.Equal(t, "err.sv", le.SourceName)
	}
}
