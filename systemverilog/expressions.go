package systemverilog

import (
	"github.com/ava12/svgrammar/grammar"
)

func lits(texts ...string) grammar.Term {
	if len(texts) == 1 {
		return grammar.Lit(texts[0])
	}

	items := make([]grammar.Term, len(texts))
	for i, text := range texts {
		items[i] = grammar.Lit(text)
	}
	return grammar.Or(items...)
}

type binaryOp struct {
	level int
	ops   []string
}

var binaryOps = []binaryOp{
	{PowLevel, []string{"**"}},
	{MulLevel, []string{"*", "/", "%"}},
	{AddLevel, []string{"+", "-"}},
	{ShiftLevel, []string{"<<", ">>", "<<<", ">>>"}},
	{RelationalLevel, []string{"<", "<=", ">", ">="}},
	{EqualLevel, []string{"==", "!=", "===", "!==", "==?", "!=?"}},
	{AndLevel, []string{"&"}},
	{XorLevel, []string{"^", "~^", "^~"}},
	{OrLevel, []string{"|"}},
	{LogicalAndLevel, []string{"&&"}},
	{LogicalOrLevel, []string{"||"}},
}

// operators returns operator alternatives of named expression production.
func operators(name string) []grammar.Term {
	attrs := grammar.Many(grammar.Nt("attribute_instance"))
	self := grammar.Nt(name)
	result := []grammar.Term{
		grammar.Unary(UnaryLevel, grammar.Nt("unary_operator"), attrs, self),
	}
	for _, op := range binaryOps {
		result = append(result, grammar.Left(op.level, name, lits(op.ops...), attrs, self))
	}
	return append(result,
		grammar.Left(RelationalLevel, name, grammar.Lit("inside"), nil, grammar.Lit("{"), grammar.Nt("open_range_list"), grammar.Lit("}")),
		grammar.Right(ConditionalLevel, name, grammar.Lit("?"), attrs, self, grammar.Lit(":"), self),
		grammar.Right(ImplicationLevel, name, lits("->", "<->"), attrs, self),
	)
}

func defineExpressions(b *grammar.Builder) {
	expr := append([]grammar.Term{grammar.Nt("primary"), grammar.Nt("inc_or_dec_expression")}, operators("expression")...)
	b.Define("expression", grammar.Or(expr...))

	constExpr := append([]grammar.Term{grammar.Nt("constant_primary")}, operators("constant_expression")...)
	b.Define("constant_expression", grammar.Or(constExpr...))

	attrs := grammar.Many(grammar.Nt("attribute_instance"))
	b.Define("inc_or_dec_expression", grammar.Or(
		grammar.Unary(UnaryLevel, grammar.Nt("inc_or_dec_operator"), attrs, grammar.Nt("variable_lvalue")),
		grammar.Postfix(UnaryLevel, grammar.Nt("inc_or_dec_operator"), grammar.Nt("variable_lvalue"), attrs),
	))
}
