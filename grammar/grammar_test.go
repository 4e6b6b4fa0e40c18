package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/svgrammar"
)

const (
	condRank  = 4
	addRank   = 13
	mulRank   = 14
	unaryRank = 16
)

func levels(b *Builder) *Builder {
	return b.
		Level(unaryRank, "unary", AssocNone).
		Level(mulRank, "mul", AssocLeft).
		Level(addRank, "add", AssocLeft).
		Level(condRank, "conditional", AssocRight)
}

func exprBuilder() *Builder {
	b := levels(NewBuilder("calc")).Version("1")
	b.Define("expr", Or(
		Nt("primary"),
		Unary(unaryRank, Or(Lit("-"), Lit("!")), Nt("primary")),
		Left(addRank, "expr", Or(Lit("+"), Lit("-")), Many(Nt("attr")), Nt("expr")),
		Left(mulRank, "expr", Nt("mul_op"), nil, Nt("expr")),
		Right(condRank, "expr", Lit("?"), nil, Nt("expr"), Lit(":"), Nt("expr")),
	))
	b.Define("primary", Or(Nt("name"), Seq(Lit("("), Nt("expr"), Lit(")"))))
	b.Define("mul_op", Or(Lit("*"), Lit("/")))
	b.Define("attr", Seq(Lit("(*"), Tok("id"), Lit("*)")))
	b.Role("name", "ident")
	b.Define("ident", Tok("id"))
	return b
}

func TestBuildExpressionGrammar(t *testing.T) {
	g, e := exprBuilder().Build()
	require.NoError(t, e)

	assert.Equal(t, "expr", g.Start())
	assert.Equal(t, "calc", g.Name())
	assert.Equal(t, "1", g.Version())

	table := g.PrecedenceTable()
	expected := map[OpKey]int{
		{"-", 1}: unaryRank,
		{"!", 1}: unaryRank,
		{"+", 2}: addRank,
		{"-", 2}: addRank,
		{"*", 2}: mulRank,
		{"/", 2}: mulRank,
		{"?", 3}: condRank,
	}
	require.Len(t, table, len(expected))
	for key, rank := range expected {
		assert.Equal(t, rank, table[key].Rank, "operator %v", key)
	}
	assert.Equal(t, AssocRight, table[OpKey{"?", 3}].Assoc)

	expr := g.Production("expr")
	assert.Len(t, expr.Alternatives(), 2)
	assert.Len(t, expr.Operators(), 3)

	first := g.First(expr.Body)
	for _, key := range []string{"-", "!", "("} {
		i, has := g.LiteralKey(key)
		require.True(t, has, key)
		assert.True(t, first.Contains(i), key)
	}
	id, _ := g.TokenKey("id")
	assert.True(t, first.Contains(id))
	plus, _ := g.LiteralKey("+")
	assert.False(t, first.Contains(plus))

	assert.Equal(t, map[string]string{"name": "ident"}, g.Aliases())
	assert.Equal(t, []string{"name"}, g.Roles())

	levels := g.Levels()
	require.Len(t, levels, 4)
	assert.Equal(t, unaryRank, levels[0].Rank)
	assert.Equal(t, condRank, levels[3].Rank)
}

func TestNullable(t *testing.T) {
	opt := Opt(Lit("x"))
	rep := Some(Lit("y"))
	b := NewBuilder("n")
	b.Define("a", Seq(opt, rep, Nt("b")))
	b.Define("b", Many(Lit("z")))
	g, e := b.Build()
	require.NoError(t, e)

	assert.True(t, g.Nullable(opt))
	assert.False(t, g.Nullable(rep))
	assert.True(t, g.Nullable(g.Production("b").Body))
	assert.False(t, g.Nullable(g.Production("a").Body))
}

func TestRecoveryIsAttached(t *testing.T) {
	items := Many(Nt("item"))
	b := NewBuilder("r").Recover("item", "end")
	b.Define("block", Seq(Lit("begin"), items, Lit("end")))
	b.Define("item", Seq(Tok("id"), Lit(";")))
	_, e := b.Build()
	require.NoError(t, e)
	require.NotNil(t, items.Recovery)
	assert.Equal(t, []string{"end"}, items.Recovery.Before)
}

func TestDeclaredConflict(t *testing.T) {
	body := Or(Nt("b"), Nt("c"))
	b := NewBuilder("c")
	b.Define("a", body)
	b.Define("b", Seq(Tok("id"), Lit("x")))
	b.Define("c", Seq(Tok("id"), Lit("y")))
	b.Ambiguity(Parallel, "same leading identifier", "c", "b")

	g, e := b.Build()
	require.NoError(t, e)
	assert.Equal(t, Parallel, g.Strategy(body))

	entry, has := g.Ambiguity("b", "c")
	require.True(t, has)
	assert.Equal(t, "b,c", entry.Key())
	assert.Contains(t, g.AmbiguityTable(), "b,c")
}

func TestSoftWords(t *testing.T) {
	build := func(reserved bool) error {
		b := NewBuilder("s").SoftWords("id", func(string) bool { return reserved })
		b.Define("a", Or(Nt("b"), Nt("c")))
		b.Define("b", Seq(Lit("new"), Lit("(")))
		b.Define("c", Tok("id"))
		_, e := b.Build()
		return e
	}

	assert.True(t, svgrammar.HasCode(build(false), UndeclaredConflictError))
	assert.NoError(t, build(true))
}

func TestHeadLabel(t *testing.T) {
	p := &Production{Name: "p"}
	assert.Equal(t, "x", HeadLabel(p, Nt("x")))
	assert.Equal(t, "x", HeadLabel(p, Seq(Nt("x"), Lit(";"))))
	assert.Equal(t, "x", HeadLabel(p, Tag(1, Nt("x"))))
	assert.Equal(t, "x", HeadLabel(p, Seq(Tag(1, Nt("x")), Lit(";"))))
	assert.Equal(t, "p", HeadLabel(p, Seq(Lit("k"), Nt("x"))))
	assert.Equal(t, "p", HeadLabel(p, Many(Nt("x"))))
}

func TestDefects(t *testing.T) {
	samples := []struct {
		name  string
		code  int
		build func(b *Builder)
	}{
		{"undefined", UndefinedNonTerminalError, func(b *Builder) {
			b.Define("a", Nt("b"))
		}},
		{"undefined start", UndefinedNonTerminalError, func(b *Builder) {
			b.Start("z").Define("a", Lit("x"))
		}},
		{"duplicate", NonTerminalDefinedError, func(b *Builder) {
			b.Define("a", Lit("x")).Define("a", Lit("y"))
		}},
		{"unused", UnusedNonTerminalError, func(b *Builder) {
			b.Define("a", Lit("x")).Define("b", Lit("y"))
		}},
		{"unproductive", UnproductiveError, func(b *Builder) {
			b.Define("a", Seq(Lit("x"), Nt("b")))
			b.Define("b", Seq(Lit("y"), Nt("b")))
		}},
		{"left recursion", RecursionError, func(b *Builder) {
			b.Define("a", Or(Seq(Nt("a"), Lit("x")), Lit("y")))
		}},
		{"indirect left recursion", RecursionError, func(b *Builder) {
			b.Define("a", Or(Seq(Opt(Lit("z")), Nt("b"), Lit("x")), Lit("y")))
			b.Define("b", Seq(Many(Lit("w")), Nt("a")))
		}},
		{"undeclared conflict", UndeclaredConflictError, func(b *Builder) {
			b.Define("a", Or(Nt("b"), Nt("c")))
			b.Define("b", Seq(Tok("id"), Lit("x")))
			b.Define("c", Seq(Tok("id"), Lit("y")))
		}},
		{"nested nullable conflict", UndeclaredConflictError, func(b *Builder) {
			b.Define("a", Seq(Or(Opt(Lit("x")), Many(Lit("y"))), Lit("z")))
		}},
		{"operator on two levels", PrecedenceError, func(b *Builder) {
			levels(b).Define("e", Or(
				Tok("id"),
				Left(addRank, "e", Lit("+"), nil, Nt("e")),
				Left(mulRank, "e", Lit("+"), nil, Nt("e")),
			))
		}},
		{"associativity mismatch", PrecedenceError, func(b *Builder) {
			levels(b).Define("e", Or(Tok("id"), Right(addRank, "e", Lit("+"), nil, Nt("e"))))
		}},
		{"undefined level", PrecedenceError, func(b *Builder) {
			levels(b).Define("e", Or(Tok("id"), Tag(99, Lit("x"))))
		}},
		{"operator is not a literal", PrecedenceError, func(b *Builder) {
			levels(b).Define("e", Or(Tok("id"), Left(addRank, "e", Tok("id"), nil, Nt("e"))))
		}},
		{"nested operator", OperatorPlacementError, func(b *Builder) {
			levels(b).Define("e", Seq(Tok("id"), Or(Lit("x"), Left(addRank, "e", Lit("+"), nil, Nt("e")))))
		}},
		{"foreign operator", OperatorPlacementError, func(b *Builder) {
			levels(b).Define("e", Or(Tok("id"), Left(addRank, "f", Lit("+"), nil, Nt("e"))))
			b.Define("f", Tok("id"))
		}},
		{"confusable role", RoleError, func(b *Builder) {
			b.Define("a", Or(Seq(Lit("x"), Nt("r")), Seq(Lit("y"), Nt("s"))))
			b.Define("id", Tok("id"))
			b.Role("r", "id", "s")
			b.Role("s", "id")
		}},
		{"short entry", AmbiguityEntryError, func(b *Builder) {
			b.Define("a", Lit("x")).Ambiguity(Parallel, "", "a")
		}},
		{"undefined entry member", AmbiguityEntryError, func(b *Builder) {
			b.Define("a", Lit("x")).Ambiguity(Parallel, "", "a", "b")
		}},
		{"bad strategy", AmbiguityEntryError, func(b *Builder) {
			b.Define("a", Or(Nt("b"), Lit("x"))).Define("b", Lit("y")).Ambiguity(Strategy(42), "", "a", "b")
		}},
		{"unknown token", UnknownTokenError, func(b *Builder) {
			b.Tokens("id").Define("a", Seq(Tok("id"), Tok("num")))
		}},
	}

	for _, s := range samples {
		s := s // per-iteration copy (go 1.22 loop semantics)
		t.Run(s.name, func(t *testing.T) {
			b := NewBuilder(s.name)
			s.build(b)
			g, e := b.Build()
			assert.Nil(t, g)
			require.Error(t, e)
			assert.True(t, IsDefect(e), "%v", e)
			assert.True(t, svgrammar.HasCode(e, s.code), "expecting code %d, got %v", s.code, e)
		})
	}
}

func TestConfusableRoleWithDeferredEntry(t *testing.T) {
	b := NewBuilder("roles")
	b.Define("a", Or(Seq(Lit("x"), Nt("r")), Seq(Lit("y"), Nt("s"))))
	b.Define("id", Tok("id"))
	b.Role("r", "id", "s")
	b.Role("s", "id")
	b.Ambiguity(Deferred, "r may name an s", "r", "s")
	g, e := b.Build()
	require.NoError(t, e)
	assert.Equal(t, []string{"s"}, g.Production("r").Role.Confusable)
}

func TestConflictReportListsAll(t *testing.T) {
	b := NewBuilder("all")
	b.Define("a", Or(Nt("b"), Nt("c"), Nt("d")))
	b.Define("b", Seq(Tok("id"), Lit("x")))
	b.Define("c", Seq(Tok("id"), Lit("y")))
	b.Define("d", Seq(Tok("id"), Lit("z")))
	b.Ambiguity(Parallel, "", "b", "c")
	_, e := b.Build()
	require.Error(t, e)
	assert.Contains(t, e.Error(), "a: b / d")
	assert.Contains(t, e.Error(), "a: c / d")
	assert.NotContains(t, e.Error(), "a: b / c")
}
