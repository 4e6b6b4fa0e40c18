package commands

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ava12/svgrammar/tree"
)

const (
	maxTokenLength = 40
	indentSize     = 2
)

// printTree writes the tree in a compact indented form:
// chains of single-child non-terminals are joined with colons,
// tokens are printed as kind("text"), role nodes as role("text") with a ?candidates suffix.
func printTree(w io.Writer, root *tree.Node, width int) {
	p := newPrinter(w, indentSize, width).Indent()
	printTreeNode(root, p)
	p.Newline()
}

func printTreeNode(n *tree.Node, p *printer) {
	if !n.IsNonTerm() {
		printTreeToken(n, p)
		return
	}

	label := n.TypeName()
	children := tree.Children(n)
	for len(children) == 1 && children[0].IsNonTerm() && !children[0].IsError() {
		n = children[0]
		children = tree.Children(n)
		label = label + ":" + n.TypeName()
	}
	p.Print(label + "{").Newline().Indent()

	for _, child := range children {
		printTreeNode(child, p)
	}

	p.Newline().Dedent().Print("}")
}

func printTreeToken(n *tree.Node, p *printer) {
	text := n.Token().Text()
	if utf8.RuneCountInString(text) > maxTokenLength {
		cut := 0
		for i := 0; i < maxTokenLength-3; i++ {
			_, size := utf8.DecodeRuneInString(text[cut:])
			cut += size
		}
		text = text[:cut] + "..."
	}

	s := fmt.Sprintf("%s(%q)", n.TypeName(), text)
	if r := n.Role(); r != nil && len(r.Candidates) > 0 {
		s += "?" + strings.Join(r.Candidates, "|")
	}
	p.Print(s)
}

type printer struct {
	w                        io.Writer
	indentSize, maxCol       int
	indentLevel, col         int
	indent, indentTpl, space string
	printed                  bool
}

func newPrinter(w io.Writer, indentSize, maxLineLength int) *printer {
	return &printer{
		w:          w,
		indentSize: indentSize,
		maxCol:     maxLineLength - 1,
		indentTpl:  "        ",
	}
}

func (p *printer) Print(s string) *printer {
	strlen := utf8.RuneCountInString(s)
	if p.printed && strlen+p.col+1 > p.maxCol {
		p.Newline()
	}
	fmt.Fprintf(p.w, "%s%s", p.space, s)
	p.col += len(p.space) + strlen
	p.space = " "
	p.printed = true
	return p
}

func (p *printer) Newline() *printer {
	if !p.printed {
		return p
	}

	fmt.Fprintln(p.w)
	p.space = p.indent
	p.printed = false
	p.col = len(p.space)
	return p
}

func (p *printer) Indent() *printer {
	p.indentLevel++
	size := p.indentLevel * p.indentSize
	for len(p.indentTpl) < size {
		p.indentTpl = p.indentTpl + p.indentTpl
	}
	p.indent = p.indentTpl[0:size]
	if !p.printed {
		p.space = p.indent
	}
	return p
}

func (p *printer) Dedent() *printer {
	p.indentLevel--
	p.indent = p.indentTpl[0 : p.indentLevel*p.indentSize]
	if !p.printed {
		p.space = p.indent
	}
	return p
}
