package grammar

import (
	"strconv"
	"strings"
)

// Term is a right-hand side element of a production.
// Terms are authored once and must not be modified after Builder.Build.
type Term interface {
	String() string
	term()
}

// Literal matches a token with exactly this text (keyword, operator, directive, soft keyword).
type Literal struct {
	Text string
}

// Token matches any token of given lexical category.
type Token struct {
	Kind string
}

// Ref is a nonterminal reference.
type Ref struct {
	Name string
	prod *Production
}

// Sequence matches all items one after another.
type Sequence struct {
	Items []Term
}

// Choice matches any of its alternatives.
type Choice struct {
	Items []Term
}

// Optional matches its item zero or one time.
type Optional struct {
	Item Term
}

// Repeat matches its item Min (0 or 1) or more times.
type Repeat struct {
	Item     Term
	Min      int
	Recovery *Recovery
}

// Recovery describes how a malformed list item is skipped in tolerant mode:
// up to and including the first ";" or up to (not including) the first token listed in Before.
type Recovery struct {
	Before []string
}

// Prec tags an alternative with a precedence level.
// Op is not nil for prefix and postfix operator alternatives, it is the operator term inside Item.
type Prec struct {
	Level int
	Op    Term
	Item  Term
}

// Binary is an operator alternative: Lhs Op {Attrs} Right...
// Lhs always refers to the production containing the alternative.
// Binary alternatives are evaluated by precedence climbing, never by plain recursion.
type Binary struct {
	Level int
	Assoc Assoc
	Lhs   *Ref
	Op    Term
	Attrs Term
	Right []Term
}

func (*Literal) term()  {}
func (*Token) term()    {}
func (*Ref) term()      {}
func (*Sequence) term() {}
func (*Choice) term()   {}
func (*Optional) term() {}
func (*Repeat) term()   {}
func (*Prec) term()     {}
func (*Binary) term()   {}

func (t *Literal) String() string {
	return strconv.Quote(t.Text)
}

func (t *Token) String() string {
	return "$" + t.Kind
}

func (t *Ref) String() string {
	return t.Name
}

// Production returns referenced production, nil before the grammar is built.
func (t *Ref) Production() *Production {
	return t.prod
}

func joinTerms(items []Term, sep string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, sep)
}

func (t *Sequence) String() string {
	return "(" + joinTerms(t.Items, ", ") + ")"
}

func (t *Choice) String() string {
	return "(" + joinTerms(t.Items, " | ") + ")"
}

func (t *Optional) String() string {
	return "[" + t.Item.String() + "]"
}

func (t *Repeat) String() string {
	if t.Min > 0 {
		return t.Item.String() + ", {" + t.Item.String() + "}"
	}
	return "{" + t.Item.String() + "}"
}

func (t *Prec) String() string {
	return "@" + strconv.Itoa(t.Level) + " " + t.Item.String()
}

func (t *Binary) String() string {
	parts := []Term{t.Lhs, t.Op}
	if t.Attrs != nil {
		parts = append(parts, t.Attrs)
	}
	parts = append(parts, t.Right...)
	return "@" + strconv.Itoa(t.Level) + " (" + joinTerms(parts, ", ") + ")"
}

func items(items []Term) Term {
	if len(items) == 1 {
		return items[0]
	}
	return &Sequence{items}
}

// Lit creates a literal term.
func Lit(text string) *Literal {
	return &Literal{text}
}

// Tok creates a token category term.
func Tok(kind string) *Token {
	return &Token{kind}
}

// Nt creates a nonterminal reference.
func Nt(name string) *Ref {
	return &Ref{Name: name}
}

// Seq creates a sequence.
func Seq(items ...Term) *Sequence {
	return &Sequence{items}
}

// Or creates a choice.
func Or(items ...Term) *Choice {
	return &Choice{items}
}

// Opt creates an optional term, several items form a sequence.
func Opt(list ...Term) *Optional {
	return &Optional{items(list)}
}

// Many creates a zero-or-more repetition, several items form a sequence.
func Many(list ...Term) *Repeat {
	return &Repeat{Item: items(list)}
}

// Some creates a one-or-more repetition, several items form a sequence.
func Some(list ...Term) *Repeat {
	return &Repeat{Item: items(list), Min: 1}
}

// Tag attaches precedence level to an alternative.
func Tag(level int, list ...Term) *Prec {
	return &Prec{Level: level, Item: items(list)}
}

// Unary creates a prefix operator alternative: op, rest...
func Unary(level int, op Term, rest ...Term) *Prec {
	return &Prec{Level: level, Op: op, Item: Seq(append([]Term{op}, rest...)...)}
}

// Postfix creates a postfix operator alternative: operand..., op.
func Postfix(level int, op Term, operand ...Term) *Prec {
	return &Prec{Level: level, Op: op, Item: Seq(append(operand, op)...)}
}

// Left creates a left-associative operator alternative: lhs, op, attrs, rhs...
// attrs may be nil. lhs must name the production the alternative belongs to.
func Left(level int, lhs string, op, attrs Term, rhs ...Term) *Binary {
	return &Binary{level, AssocLeft, Nt(lhs), op, attrs, rhs}
}

// Right creates a right-associative operator alternative, see Left.
func Right(level int, lhs string, op, attrs Term, rhs ...Term) *Binary {
	return &Binary{level, AssocRight, Nt(lhs), op, attrs, rhs}
}

// Walk calls f for t and all its subterms, depth first.
func Walk(t Term, f func(Term)) {
	if t == nil {
		return
	}

	f(t)
	switch t := t.(type) {
	case *Sequence:
		for _, item := range t.Items {
			Walk(item, f)
		}
	case *Choice:
		for _, item := range t.Items {
			Walk(item, f)
		}
	case *Optional:
		Walk(t.Item, f)
	case *Repeat:
		Walk(t.Item, f)
	case *Prec:
		Walk(t.Item, f)
	case *Binary:
		Walk(t.Lhs, f)
		Walk(t.Op, f)
		Walk(t.Attrs, f)
		for _, item := range t.Right {
			Walk(item, f)
		}
	}
}
