package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/svgrammar/lexer"
	"github.com/ava12/svgrammar/source"
)

// buildTree builds
// (source (module "module" module_identifier:m ";" (net "wire" net_identifier:w ";") (ERROR "x") "endmodule"))
func buildTree(t *testing.T) (*Node, map[string]*Node) {
	tokens, e := lexer.Tokenize(source.NewString("tree.sv", "module m; wire w; x endmodule"))
	require.NoError(t, e)
	require.Len(t, tokens, 9)

	index := make(map[string]*Node)
	root := NewNonTermNode("source")
	module := NewNonTermNode("module")
	net := NewNonTermNode("net")
	index["module"] = module
	index["net"] = net

	root.AppendChild(module)
	module.AppendChild(NewTokenNode(tokens[0]))
	index["m"] = NewRoleNode("module_identifier", tokens[1], RoleInfo{Category: "identifier", Context: "module"})
	module.AppendChild(index["m"])
	module.AppendChild(NewTokenNode(tokens[2]))
	module.AppendChild(net)
	net.AppendChild(NewTokenNode(tokens[3]))
	index["w"] = NewRoleNode("net_identifier", tokens[4], RoleInfo{
		Category:   "identifier",
		Candidates: []string{"variable_identifier"},
		Context:    "net",
	})
	net.AppendChild(index["w"])
	net.AppendChild(NewTokenNode(tokens[5]))
	index["error"] = NewErrorNode(errors.New("skipped"), tokens[6:7])
	module.AppendChild(index["error"])
	index["end"] = NewTokenNode(tokens[7])
	module.AppendChild(index["end"])
	return root, index
}

func TestSExpr(t *testing.T) {
	root, _ := buildTree(t)
	expected := `(source (module "module" module_identifier:m ";" (net "wire" net_identifier:w ";") (ERROR "x") "endmodule"))`
	assert.Equal(t, expected, SExpr(root))
	assert.Equal(t, "", SExpr(nil))
}

func TestTokensRoundTrip(t *testing.T) {
	root, _ := buildTree(t)
	var texts []string
	for _, tok := range Tokens(root) {
		texts = append(texts, tok.Text())
	}
	assert.Equal(t, []string{"module", "m", ";", "wire", "w", ";", "x", "endmodule"}, texts)
}

func TestNavigation(t *testing.T) {
	root, i := buildTree(t)
	module, net := i["module"], i["net"]

	assert.Nil(t, root.Parent())
	assert.Equal(t, root, Ancestor(net, 1))
	assert.Nil(t, Ancestor(net, 2))
	assert.Equal(t, 3, NodeLevel(i["w"]))
	assert.Equal(t, 0, NodeLevel(nil))

	assert.Equal(t, net, NthChild(module, 3))
	assert.Equal(t, i["end"], NthChild(module, -1))
	assert.Nil(t, NthChild(module, 10))
	assert.Len(t, Children(module), 6)

	assert.Equal(t, "module", FirstToken(root).Text())
	assert.Equal(t, "endmodule", LastToken(root).Text())
	assert.Equal(t, "wire", FirstToken(net).Text())
	assert.Equal(t, i["m"], NextTokenNode(FirstTokenNode(root)))
	assert.Equal(t, "x", NextTokenNode(net).Token().Text())
	assert.Nil(t, NextTokenNode(i["end"]))
	assert.Nil(t, FirstTokenNode(NewNonTermNode("empty")))
}

func TestDetach(t *testing.T) {
	root, i := buildTree(t)
	module := i["module"]

	Detach(i["net"])
	assert.Nil(t, i["net"].Parent())
	assert.Len(t, Children(module), 5)
	assert.Equal(t, i["error"], NthChild(module, 3))
	assert.Equal(t, NthChild(module, 2), i["error"].Prev())

	Detach(i["end"])
	assert.Equal(t, i["error"], module.LastChild())
	Detach(module)
	assert.Nil(t, root.FirstChild())
	assert.Nil(t, root.LastChild())

	root.AppendChild(i["net"])
	assert.Equal(t, root, i["net"].Parent())
	assert.Equal(t, `(source (net "wire" net_identifier:w ";"))`, SExpr(root))
}

func TestWalkOrder(t *testing.T) {
	root, _ := buildTree(t)
	var ltr, rtl []string
	Walk(root, WalkLtr, func(n *Node) bool {
		ltr = append(ltr, n.TypeName())
		return n.TypeName() != "net"
	})
	Walk(root, WalkRtl, func(n *Node) bool {
		if n.IsNonTerm() {
			rtl = append(rtl, n.TypeName())
		}
		return true
	})

	assert.Equal(t, []string{
		"source", "module", lexer.KeywordKind, "module_identifier", lexer.OperatorKind, "net",
		ErrorType, lexer.SimpleIdentifierKind, lexer.KeywordKind,
	}, ltr)
	assert.Equal(t, []string{"source", "module", ErrorType, "net"}, rtl)
}

func TestSelectors(t *testing.T) {
	root, i := buildTree(t)

	assert.Equal(t, []*Node{i["m"], i["w"]}, Roles(root))
	assert.Equal(t, []*Node{i["w"]}, Find(root, IsRoleOf("net_identifier")))
	assert.Equal(t, i["m"], FindFirst(root, IsNamed("m")))
	assert.Nil(t, FindFirst(root, IsNamed("q")))

	semis := NewSelector().Search(IsALiteral(";"), true).Apply(root)
	assert.Len(t, semis, 2)

	shallow := NewSelector().Search(IsA("module", "net"), false).Apply(root)
	assert.Equal(t, []*Node{i["module"]}, shallow)
	deep := NewSelector().Search(IsA("module", "net"), true).Apply(root)
	assert.Equal(t, []*Node{i["module"], i["net"]}, deep)

	parents := NewSelector().
		Search(IsAll(IsRoleOf(), IsNot(IsNamed("m"))), true).
		Extract(func(n *Node) []*Node { return []*Node{n.Parent()} }).
		Apply(root, root)
	assert.Equal(t, []*Node{i["net"]}, parents)

	keywords := NewSelector().Search(IsAny(IsALiteral("wire"), IsALiteral("endmodule")), true).Filter(IsNot(isNonTerm)).Apply(root)
	assert.Len(t, keywords, 2)
}

func isNonTerm(n *Node) bool {
	return n.IsNonTerm()
}

func TestRoleInfo(t *testing.T) {
	_, i := buildTree(t)
	w := i["w"]
	require.True(t, w.IsRole())
	assert.False(t, w.IsNonTerm())
	assert.Equal(t, "identifier", w.Role().Category)
	assert.Equal(t, []string{"variable_identifier"}, w.Role().Candidates)
	assert.Equal(t, "net", w.Role().Context)
	assert.Nil(t, i["end"].Role())
}

func TestErrors(t *testing.T) {
	root, i := buildTree(t)
	require.True(t, i["error"].IsError())
	errs := Errors(root)
	require.Len(t, errs, 1)
	assert.EqualError(t, errs[0], "skipped")
}

func TestDump(t *testing.T) {
	root, i := buildTree(t)
	expected := "net:\n" +
		"  keyword \"wire\"\n" +
		"  net_identifier \"w\" ?variable_identifier\n" +
		"  operator \";\"\n"
	assert.Equal(t, expected, Dump(i["net"]))
	assert.Contains(t, Dump(root), "\n    net:\n")
}
