package systemverilog

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/svgrammar/internal/test"
	"github.com/ava12/svgrammar/lexer"
	"github.com/ava12/svgrammar/parser"
	"github.com/ava12/svgrammar/source"
	"github.com/ava12/svgrammar/tree"
)

func parseFile(t *testing.T, name string) *tree.Node {
	t.Helper()
	src, e := source.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, e)
	root, errs, e := Parser().Parse(ctx(), src)
	require.NoError(t, e, name)
	require.Empty(t, errs, name)
	return root
}

func TestCorpus(t *testing.T) {
	files, e := filepath.Glob(filepath.Join("testdata", "*.sv"))
	require.NoError(t, e)
	require.NotEmpty(t, files)

	for _, name := range files {
		root := parseFile(t, filepath.Base(name))
		assert.Equal(t, "source_file", root.TypeName(), name)
		assert.Empty(t, tree.Errors(root), name)
	}
}

func TestCorpusConstructs(t *testing.T) {
	root := parseFile(t, "tb.sv")
	for _, name := range []string{
		"interface_declaration", "modport_declaration", "class_declaration", "class_constructor_declaration",
		"class_constraint", "program_declaration", "loop_generate_construct", "gate_instantiation",
		"concurrent_assertion_item", "bind_directive",
	} {
		assert.NotNil(t, tree.FindFirst(root, tree.IsA(name)), name)
	}

	root = parseFile(t, "checker.sv")
	assert.NotNil(t, tree.FindFirst(root, tree.IsA("checker_declaration")))
	assert.NotNil(t, tree.FindFirst(root, tree.IsA("clocking_declaration")))
}

var roundTripSamples = []struct {
	start, src string
}{
	{"statement", "a <= b;"},
	{"statement", "x++;"},
	{"statement", "f(1);"},
	{"statement", "if (a) b = 1; else c = 2;"},
	{"statement", "case (s) 0: y = a; 1, 2: y = b; default: y = 0; endcase"},
	{"statement", "for (int i = 0; i < 4; i += 1) x[i] = 0;"},
	{"statement", "foreach (arr[i]) arr[i] = i;"},
	{"statement", "begin : blk x = 1; end : blk"},
	{"statement", "fork a = 1; b = 2; join_none"},
	{"statement", "@(posedge clk) x <= 1;"},
	{"statement", "#10 x = 1;"},
	{"statement", `wait (done) $display("ok");`},
	{"statement", "-> ev;"},
	{"statement", "return x + 1;"},
	{"statement", `assert (a == b) else $error("mismatch");`},
	{"statement", "do x--; while (x > 0);"},
	{"statement", "repeat (3) @(negedge clk);"},
	{"statement", "s = {a, b, {2{c}}};"},
	{"statement", "p = '{default: 0};"},
	{"statement", "y = int'(x) + pkg::C;"},
	{"statement", "obj.method(1, .b(2));"},
	{"data_declaration", "logic [7:0] mem [0:255];"},
	{"data_declaration", "struct packed { logic a; logic [3:0] b; } s;"},
	{"data_declaration", "typedef_t v = 3;"},
	{"expression", "a || b ? c - d : 8'hff"},
	{"source_file", "module m (a, b); input a; output b; assign b = a; endmodule"},
	{"source_file", "module m #(W = 8) (input [W-1:0] a); endmodule : m"},
	{"source_file", "module m (.*); endmodule"},
	{"source_file", "module m; wire [3:0] w; and g1 (o, a, b); endmodule"},
	{"source_file", "module m; if (W > 1) begin : g x u (); end else begin y v (); end endmodule"},
	{"source_file", "module m; initial begin int q[$]; q.push_back(1); end endmodule"},
	{"source_file", "`timescale 1ns/1ps\n`default_nettype none\n"},
}

func TestTokenRoundTrip(t *testing.T) {
	for _, s := range roundTripSamples {
		tokens, e := lexer.Tokenize(source.NewString("sample.sv", s.src))
		require.NoError(t, e, s.src)

		root, errs, e := Parser().ParseTokens(ctx(), tokens, parser.StartAt(s.start))
		require.NoError(t, e, s.src)
		require.Empty(t, errs, s.src)
		assert.Equal(t, s.start, root.TypeName(), s.src)
		assert.Equal(t, tokens[:len(tokens)-1], tree.Tokens(root), s.src)
	}
}

func TestCorpusRoundTrip(t *testing.T) {
	for _, name := range []string{"counter.sv", "fifo.sv", "tb.sv", "checker.sv"} {
		src, e := source.ReadFile(filepath.Join("testdata", name))
		require.NoError(t, e)
		tokens, e := lexer.Tokenize(src)
		require.NoError(t, e)

		root, _, e := Parser().ParseTokens(ctx(), tokens)
		require.NoError(t, e, name)
		assert.Equal(t, tokens[:len(tokens)-1], tree.Tokens(root), name)
	}
}

func TestSyntaxErrors(t *testing.T) {
	samples := []struct {
		src       string
		code      int
		line, col int
	}{
		{"module m;\n  assign = 1;\nendmodule\n", parser.UnexpectedTokenError, 2, 10},
		{"module m; endmodule\nendmodule\n", parser.UnexpectedTokenError, 2, 1},
		{"module m; foo bar baz; endmodule", parser.UnresolvedAmbiguityError, 1, 11},
		{"module m; initial x = a + ; endmodule", parser.UnexpectedTokenError, 1, 27},
		{"module m(input a,\n output b;", parser.UnexpectedTokenError, 2, 10},
	}

	for _, s := range samples {
		root, errs, e := Parser().Parse(ctx(), srcOf(s.src))
		assert.Nil(t, root, s.src)
		assert.Empty(t, errs, s.src)
		test.ErrorCode(t, s.code, e, s.src)
		test.ErrorPos(t, s.line, s.col, e, s.src)
	}

	_, _, e := Parser().Parse(ctx(), srcOf("module m;"))
	test.ErrorCode(t, parser.UnexpectedEofError, e)

	_, _, e = Parser().Parse(ctx(), srcOf("module m;\n  assign = 1;\nendmodule\n"))
	if assert.Error(t, e) {
		assert.Contains(t, e.Error(), "continuous_assign")
	}

	_, _, e = Parser().Parse(ctx(), srcOf("module m; foo bar baz; endmodule"))
	if assert.Error(t, e) {
		assert.Contains(t, e.Error(), "module_instantiation")
		assert.Contains(t, e.Error(), "concurrent_assertion_item")
	}
}

func TestAmbiguityNotBlamedForLaterErrors(t *testing.T) {
	samples := []struct {
		src       string
		line, col int
	}{
		{"module m; initial x = a + ; endmodule", 1, 27},
		{"module m(input a,\n output b;", 2, 10},
		{"module m; initial x.y[3] <= ; endmodule", 1, 29},
		{"module m; initial begin x = 1; y ++ z; end endmodule", 1, 37},
	}

	for _, s := range samples {
		for _, opts := range [][]parser.Option{nil, {parser.Tolerant()}} {
			_, errs, e := Parser().Parse(ctx(), srcOf(s.src), opts...)
			if len(opts) > 0 {
				require.NoError(t, e, s.src)
				require.NotEmpty(t, errs, s.src)
				e = errs[0]
			}
			test.ErrorCode(t, parser.UnexpectedTokenError, e, s.src)
			test.ErrorPos(t, s.line, s.col, e, s.src)
			assert.NotContains(t, e.Error(), "unresolved ambiguity", s.src)
		}
	}
}

func TestDisabledAreas(t *testing.T) {
	samples := []struct {
		src       string
		line, col int
	}{
		{"module m;\n  specify\n  endspecify\nendmodule\n", 2, 3},
		{"module m;\n  covergroup cg;\n  endgroup\nendmodule\n", 2, 3},
		{"module m;\n  initial randsequence (main) main : a; endsequence\nendmodule\n", 2, 11},
		{"primitive p (o, a);\nendprimitive\n", 1, 1},
		{"config cfg;\nendconfig\n", 1, 1},
	}

	for _, s := range samples {
		_, _, e := Parser().Parse(ctx(), srcOf(s.src))
		test.ErrorCode(t, parser.UnexpectedTokenError, e, s.src)
		test.ErrorPos(t, s.line, s.col, e, s.src)
	}
}

func TestClosingLabelsUnchecked(t *testing.T) {
	root, errs, e := Parser().Parse(ctx(), srcOf("module m;\n  initial begin : a\n  end : b\nendmodule : n\n"))
	require.NoError(t, e)
	assert.Empty(t, errs)

	var labels []string
	for _, n := range tree.Find(root, tree.IsRoleOf("module_identifier", "block_identifier")) {
		labels = append(labels, n.TypeName()+":"+n.Token().Text())
	}
	assert.Equal(t, []string{"module_identifier:m", "block_identifier:a", "block_identifier:b", "module_identifier:n"}, labels)
}

func TestTolerantRecovery(t *testing.T) {
	root, errs, e := Parser().Parse(ctx(), srcOf("module m;\n  assign = 1;\n  wire w;\nendmodule\n"), parser.Tolerant())
	require.NoError(t, e)
	require.NotNil(t, root)
	require.Len(t, errs, 1)
	test.ErrorCode(t, parser.UnexpectedTokenError, errs[0])
	test.ErrorPos(t, 2, 10, errs[0])

	bad := tree.FindFirst(root, (*tree.Node).IsError)
	if assert.NotNil(t, bad) {
		assert.Equal(t, `(ERROR "assign" "=" "1" ";")`, tree.SExpr(bad))
	}
	net := tree.FindFirst(root, tree.IsA("net_declaration"))
	if assert.NotNil(t, net) {
		assert.Equal(t, "wirew;", tokenText(net))
	}

	root, errs, e = Parser().Parse(ctx(), srcOf("module m; initial begin x = ; y = 1; end endmodule"), parser.Tolerant())
	require.NoError(t, e)
	assert.Len(t, errs, 1)
	bad = tree.FindFirst(root, (*tree.Node).IsError)
	if assert.NotNil(t, bad) {
		assert.Equal(t, `(ERROR "x" "=" ";")`, tree.SExpr(bad))
		assert.Equal(t, "seq_block", bad.Parent().TypeName())
	}
	assert.NotNil(t, tree.FindFirst(root, tree.IsA("blocking_assignment")))

	root, errs, e = Parser().Parse(ctx(), srcOf("module m; foo bar baz; endmodule"), parser.Tolerant())
	require.NoError(t, e)
	assert.Len(t, errs, 1)
	assert.Equal(t, `(ERROR "foo" "bar" "baz" ";")`, tree.SExpr(tree.FindFirst(root, (*tree.Node).IsError)))
}

func TestParserOptions(t *testing.T) {
	_, _, e := Parser().Parse(ctx(), srcOf("a"), parser.StartAt("no_such_rule"))
	test.ErrorCode(t, parser.UnknownStartError, e)

	_, _, e = Parser().ParseTokens(ctx(), nil)
	test.ErrorCode(t, parser.EmptyInputError, e)

	src, e := source.ReadFile(filepath.Join("testdata", "tb.sv"))
	require.NoError(t, e)
	big := source.NewString("big.sv", strings.Repeat(string(src.Content()), 4))
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, e = Parser().Parse(cancelled, big)
	assert.True(t, errors.Is(e, context.Canceled))
}

func TestSharedParserIsConcurrent(t *testing.T) {
	names := []string{"counter.sv", "fifo.sv", "tb.sv", "checker.sv"}
	expected := make(map[string]string)
	for _, name := range names {
		expected[name] = tree.SExpr(parseFile(t, name))
	}

	done := make(chan struct{})
	for _, name := range names {
		name := name // per-iteration copy (go 1.22 loop semantics)
		go func() {
			defer func() { done <- struct{}{} }()
			src, e := source.ReadFile(filepath.Join("testdata", name))
			if !assert.NoError(t, e) {
				return
			}
			root, _, e := Parser().Parse(ctx(), src)
			if assert.NoError(t, e) {
				assert.Equal(t, expected[name], tree.SExpr(root), name)
			}
		}()
	}
	for range names {
		<-done
	}
}
