// Package tree defines syntax tree nodes produced by the parser, traversal functions,
// node selectors, and identifier role queries.
package tree

import (
	"strconv"
	"strings"

	"github.com/ava12/svgrammar/lexer"
)

// ErrorType is the type name of nodes holding tokens skipped by tolerant recovery.
const ErrorType = "ERROR"

// Node is a syntax tree node. There are three kinds of nodes:
//   - non-terminal node: production match, has children;
//   - token node: a single token, type name is the token kind;
//   - role node: an identifier token matched by an identifier role production,
//     type name is the role name, has no children.
//
// Error nodes are non-terminal nodes of ErrorType type holding skipped tokens.
type Node struct {
	typeName   string
	token      *lexer.Token
	nonTerm    bool
	role       *RoleInfo
	err        error
	parent     *Node
	prev, next *Node
	firstChild *Node
	lastChild  *Node
}

// RoleInfo describes the identifier role a role node was matched as.
type RoleInfo struct {
	// Category is the underlying lexical rule, e.g. "identifier".
	Category string
	// Candidates lists other roles the identifier may really denote, empty if the role is certain.
	Candidates []string
	// Context is the name of the enclosing production.
	Context string
}

// NewTokenNode creates a token node.
func NewTokenNode(t *lexer.Token) *Node {
	return &Node{typeName: t.TypeName(), token: t}
}

// NewNonTermNode creates an empty non-terminal node.
func NewNonTermNode(typeName string) *Node {
	return &Node{typeName: typeName, nonTerm: true}
}

// NewRoleNode creates a role node for identifier token t.
func NewRoleNode(role string, t *lexer.Token, info RoleInfo) *Node {
	return &Node{typeName: role, token: t, role: &info}
}

// NewErrorNode creates an error node containing skipped tokens.
func NewErrorNode(e error, tokens []*lexer.Token) *Node {
	n := &Node{typeName: ErrorType, nonTerm: true, err: e}
	for _, t := range tokens {
		n.AppendChild(NewTokenNode(t))
	}
	return n
}

func (n *Node) IsNonTerm() bool {
	return n.nonTerm
}

func (n *Node) IsRole() bool {
	return n.role != nil
}

func (n *Node) IsError() bool {
	return n.nonTerm && n.typeName == ErrorType
}

// TypeName returns production name, token kind, or role name.
func (n *Node) TypeName() string {
	return n.typeName
}

// Token returns token of token and role nodes, nil for non-terminals.
func (n *Node) Token() *lexer.Token {
	return n.token
}

// Role returns role information or nil if n is not a role node.
func (n *Node) Role() *RoleInfo {
	return n.role
}

// Err returns error recorded in error node.
func (n *Node) Err() error {
	return n.err
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Prev() *Node {
	return n.prev
}

func (n *Node) Next() *Node {
	return n.next
}

func (n *Node) FirstChild() *Node {
	return n.firstChild
}

func (n *Node) LastChild() *Node {
	return n.lastChild
}

// AppendChild detaches c from its current parent and appends it to n.
func (n *Node) AppendChild(c *Node) {
	if c == nil {
		return
	}

	Detach(c)
	c.parent = n
	c.prev = n.lastChild
	if n.lastChild == nil {
		n.firstChild = c
	} else {
		n.lastChild.next = c
	}
	n.lastChild = c
}

// Ancestor returns ancestor of given level, 0 is the parent.
func Ancestor(n *Node, level int) *Node {
	for n != nil && level >= 0 {
		n = n.parent
		level--
	}
	return n
}

// NodeLevel returns node depth, the root has level 0.
func NodeLevel(n *Node) (l int) {
	if n == nil {
		return
	}

	for p := n.parent; p != nil; p = p.parent {
		l++
	}
	return
}

// NthChild returns child by index, negative indexes count from the last child (-1).
func NthChild(n *Node, i int) *Node {
	if n == nil {
		return nil
	}

	var c *Node
	if i >= 0 {
		c = n.firstChild
		for c != nil && i > 0 {
			c = c.next
			i--
		}
	} else {
		i++
		c = n.lastChild
		for c != nil && i < 0 {
			c = c.prev
			i++
		}
	}
	return c
}

// Children returns direct children of n.
func Children(n *Node) []*Node {
	if n == nil {
		return nil
	}

	var res []*Node
	for c := n.firstChild; c != nil; c = c.next {
		res = append(res, c)
	}
	return res
}

// FirstTokenNode returns the first token or role node covered by n.
func FirstTokenNode(n *Node) *Node {
	if n == nil || !n.nonTerm {
		return n
	}

	for c := n.firstChild; c != nil; c = c.next {
		if tn := FirstTokenNode(c); tn != nil {
			return tn
		}
	}
	return nil
}

// LastTokenNode returns the last token or role node covered by n.
func LastTokenNode(n *Node) *Node {
	if n == nil || !n.nonTerm {
		return n
	}

	for c := n.lastChild; c != nil; c = c.prev {
		if tn := LastTokenNode(c); tn != nil {
			return tn
		}
	}
	return nil
}

// NextTokenNode returns the first token node following n.
func NextTokenNode(n *Node) *Node {
	for n != nil {
		for nn := n.next; nn != nil; nn = nn.next {
			if tn := FirstTokenNode(nn); tn != nil {
				return tn
			}
		}
		n = n.parent
	}
	return nil
}

// FirstToken returns the first token covered by n.
func FirstToken(n *Node) *lexer.Token {
	tn := FirstTokenNode(n)
	if tn == nil {
		return nil
	}
	return tn.token
}

// LastToken returns the last token covered by n.
func LastToken(n *Node) *lexer.Token {
	tn := LastTokenNode(n)
	if tn == nil {
		return nil
	}
	return tn.token
}

// Tokens returns all tokens covered by n in source order.
func Tokens(n *Node) []*lexer.Token {
	var res []*lexer.Token
	Walk(n, WalkLtr, func(nn *Node) bool {
		if !nn.nonTerm {
			res = append(res, nn.token)
		}
		return true
	})
	return res
}

// Detach removes n from its parent.
func Detach(n *Node) {
	if n == nil || n.parent == nil {
		return
	}

	p := n.parent
	if n.prev == nil {
		p.firstChild = n.next
	} else {
		n.prev.next = n.next
	}
	if n.next == nil {
		p.lastChild = n.prev
	} else {
		n.next.prev = n.prev
	}
	n.parent, n.prev, n.next = nil, nil, nil
}

// NodeVisitor is called for each visited node, returning false skips node children.
type NodeVisitor func(n *Node) (walkChildren bool)

type WalkMode int

const (
	WalkLtr WalkMode = 0
	WalkRtl WalkMode = 1
)

// Walk visits n and its descendants depth first.
func Walk(n *Node, mode WalkMode, visitor NodeVisitor) {
	if n != nil {
		visitNode(n, visitor, mode&WalkRtl != 0)
	}
}

func visitNode(n *Node, v NodeVisitor, rtl bool) {
	if !v(n) {
		return
	}

	if rtl {
		for c := n.lastChild; c != nil; c = c.prev {
			visitNode(c, v, true)
		}
	} else {
		for c := n.firstChild; c != nil; c = c.next {
			visitNode(c, v, false)
		}
	}
}

type NodeFilter func(n *Node) bool
type NodeExtractor func(n *Node) []*Node

// Selector is a chain of node transformations applied to a node list.
type Selector struct {
	selectors []NodeExtractor
}

func NewSelector() *Selector {
	return &Selector{}
}

// Apply applies selector chain to input nodes and returns unique results in order.
func (s *Selector) Apply(input ...*Node) []*Node {
	var res []*Node
	index := make(map[*Node]bool)
	for _, n := range input {
		if n == nil {
			continue
		}

		ns := []*Node{n}
		for _, sel := range s.selectors {
			var next []*Node
			for _, nn := range ns {
				next = append(next, sel(nn)...)
			}
			ns = next
		}

		for _, nn := range ns {
			if !index[nn] {
				index[nn] = true
				res = append(res, nn)
			}
		}
	}
	return res
}

// Extract adds extractor to selector chain.
func (s *Selector) Extract(ne NodeExtractor) *Selector {
	if ne != nil {
		s.selectors = append(s.selectors, ne)
	}
	return s
}

// Filter keeps nodes matching nf.
func (s *Selector) Filter(nf NodeFilter) *Selector {
	return s.Extract(func(n *Node) []*Node {
		if nf(n) {
			return []*Node{n}
		}
		return nil
	})
}

// Search replaces each node with its matching descendants (including the node itself).
// If deepSearch is false descendants of matching nodes are not searched.
func (s *Selector) Search(nf NodeFilter, deepSearch bool) *Selector {
	return s.Extract(func(n *Node) []*Node {
		var res []*Node
		visitNode(n, func(nn *Node) bool {
			if nf(nn) {
				res = append(res, nn)
				return deepSearch
			}
			return true
		}, false)
		return res
	})
}

func IsNot(f NodeFilter) NodeFilter {
	return func(n *Node) bool {
		return !f(n)
	}
}

func IsAny(fs ...NodeFilter) NodeFilter {
	return func(n *Node) bool {
		for _, f := range fs {
			if f(n) {
				return true
			}
		}
		return false
	}
}

func IsAll(fs ...NodeFilter) NodeFilter {
	return func(n *Node) bool {
		for _, f := range fs {
			if !f(n) {
				return false
			}
		}
		return true
	}
}

// IsA matches nodes by type name.
func IsA(names ...string) NodeFilter {
	return func(n *Node) bool {
		for _, name := range names {
			if n.typeName == name {
				return true
			}
		}
		return false
	}
}

// IsALiteral matches token nodes by text.
func IsALiteral(texts ...string) NodeFilter {
	return func(n *Node) bool {
		if n.nonTerm || n.role != nil {
			return false
		}

		for _, text := range texts {
			if n.token.Text() == text {
				return true
			}
		}
		return false
	}
}

// IsRoleOf matches role nodes of any of given roles, any role if none given.
func IsRoleOf(roles ...string) NodeFilter {
	return func(n *Node) bool {
		return n.role != nil && (len(roles) == 0 || IsA(roles...)(n))
	}
}

// IsNamed matches role nodes holding identifier with given text.
func IsNamed(text string) NodeFilter {
	return func(n *Node) bool {
		return n.role != nil && n.token.Text() == text
	}
}

// Find returns all descendants of root (including root) matching nf in source order.
func Find(root *Node, nf NodeFilter) []*Node {
	return NewSelector().Search(nf, true).Apply(root)
}

// FindFirst returns the first node matching nf or nil.
func FindFirst(root *Node, nf NodeFilter) *Node {
	var res *Node
	Walk(root, WalkLtr, func(n *Node) bool {
		if res != nil {
			return false
		}
		if nf(n) {
			res = n
			return false
		}
		return true
	})
	return res
}

// Roles returns all role nodes under root.
func Roles(root *Node) []*Node {
	return Find(root, IsRoleOf())
}

// Errors returns errors recorded in error nodes under root.
func Errors(root *Node) []error {
	var res []error
	for _, n := range Find(root, (*Node).IsError) {
		res = append(res, n.err)
	}
	return res
}

// SExpr renders the tree in a compact S-expression form:
// non-terminals as (type children...), tokens as quoted text, role nodes as role:text.
func SExpr(n *Node) string {
	var sb strings.Builder
	writeSExpr(&sb, n)
	return sb.String()
}

func writeSExpr(sb *strings.Builder, n *Node) {
	switch {
	case n == nil:
		return
	case n.role != nil:
		sb.WriteString(n.typeName)
		sb.WriteByte(':')
		sb.WriteString(n.token.Text())
	case !n.nonTerm:
		sb.WriteString(strconv.Quote(n.token.Text()))
	default:
		sb.WriteByte('(')
		sb.WriteString(n.typeName)
		for c := n.firstChild; c != nil; c = c.next {
			sb.WriteByte(' ')
			writeSExpr(sb, c)
		}
		sb.WriteByte(')')
	}
}

// Dump renders the tree one node per line with two-space indentation per level.
func Dump(n *Node) string {
	var sb strings.Builder
	base := NodeLevel(n)
	Walk(n, WalkLtr, func(nn *Node) bool {
		sb.WriteString(strings.Repeat("  ", NodeLevel(nn)-base))
		switch {
		case nn.role != nil:
			sb.WriteString(nn.typeName + " " + strconv.Quote(nn.token.Text()))
			if len(nn.role.Candidates) > 0 {
				sb.WriteString(" ?" + strings.Join(nn.role.Candidates, "|"))
			}
		case !nn.nonTerm:
			sb.WriteString(nn.typeName + " " + strconv.Quote(nn.token.Text()))
		default:
			sb.WriteString(nn.typeName + ":")
		}
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}
