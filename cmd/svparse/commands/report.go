package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"

	"github.com/ava12/svgrammar"
	"github.com/ava12/svgrammar/tree"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// painter colours diagnostics according to the color mode.
type painter struct {
	errorLabel, warnLabel, okLabel, name *color.Color
}

func newPainter(mode string) *painter {
	p := &painter{
		errorLabel: color.New(color.FgRed, color.Bold),
		warnLabel:  color.New(color.FgYellow, color.Bold),
		okLabel:    color.New(color.FgGreen),
		name:       color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.errorLabel, p.warnLabel, p.okLabel, p.name} {
		switch mode {
		case "always":
			c.EnableColor()
		case "never":
			c.DisableColor()
		}
	}
	return p
}

func (p *painter) header(w io.Writer, name string) {
	fmt.Fprintln(w, p.name.Sprint(name))
}

func (p *painter) error(w io.Writer, e error) {
	fmt.Fprintf(w, "%s: %s\n", p.errorLabel.Sprint("error"), e.Error())
}

func (p *painter) warning(w io.Writer, e error) {
	fmt.Fprintf(w, "%s: %s\n", p.warnLabel.Sprint("warning"), e.Error())
}

func (p *painter) ok(w io.Writer, msg string, args ...any) {
	fmt.Fprintln(w, p.okLabel.Sprintf(msg, args...))
}

type jsonRole struct {
	Category   string   `json:"category"`
	Candidates []string `json:"candidates,omitempty"`
	Context    string   `json:"context"`
}

type jsonNode struct {
	Type     string      `json:"type"`
	Text     string      `json:"text,omitempty"`
	Line     int         `json:"line,omitempty"`
	Col      int         `json:"col,omitempty"`
	Role     *jsonRole   `json:"role,omitempty"`
	Error    string      `json:"error,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
}

type jsonSample struct {
	Source string      `json:"source"`
	Tree   *jsonNode   `json:"tree,omitempty"`
	Errors []jsonError `json:"errors,omitempty"`
}

func toJSONNode(n *tree.Node) *jsonNode {
	result := &jsonNode{Type: n.TypeName()}
	if t := n.Token(); t != nil {
		result.Text = t.Text()
		result.Line = t.Line()
		result.Col = t.Col()
	}
	if r := n.Role(); r != nil {
		result.Role = &jsonRole{r.Category, r.Candidates, r.Context}
	}
	if n.IsError() && n.Err() != nil {
		result.Error = n.Err().Error()
	}
	for _, c := range tree.Children(n) {
		result.Children = append(result.Children, toJSONNode(c))
	}
	return result
}

func toJSONError(e error) jsonError {
	if se, ok := e.(*svgrammar.Error); ok {
		return jsonError{se.Code, se.Message, se.Line, se.Col}
	}
	return jsonError{Message: e.Error()}
}

func writeJSON(w io.Writer, v any) error {
	content, e := json.MarshalIndent(v, "", "  ")
	if e != nil {
		return e
	}
	_, e = fmt.Fprintln(w, string(content))
	return e
}
