// Package parser interprets a validated grammar over a token list.
//
// The parser explores all derivations allowed by the grammar in parallel, memoizing
// results per non-terminal and token position. Choice points with overlapping
// alternatives are resolved by the strategy of the covering ambiguity entry,
// operator alternatives are evaluated by greedy precedence climbing.
// A Parser is immutable and may be shared by goroutines.
package parser

import (
	"context"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ava12/svgrammar/grammar"
	"github.com/ava12/svgrammar/lexer"
	"github.com/ava12/svgrammar/source"
	"github.com/ava12/svgrammar/tree"
)

const keyCacheSize = 4096

// Parser is a grammar interpreter.
type Parser struct {
	grammar *grammar.Grammar
	keys    *lru.Cache[string, []int]
}

// New creates a parser for validated grammar g.
func New(g *grammar.Grammar) *Parser {
	keys, e := lru.New[string, []int](keyCacheSize)
	if e != nil {
		panic(e)
	}
	return &Parser{g, keys}
}

// Grammar returns the interpreted grammar.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

type config struct {
	tolerant bool
	start    string
}

// Option modifies parsing behaviour.
type Option func(*config)

// Tolerant enables error recovery: a malformed item of a repetition declared recoverable
// is replaced with an error node and parsing continues.
func Tolerant() Option {
	return func(c *config) {
		c.tolerant = true
	}
}

// StartAt sets the non-terminal matched against the whole input instead of the grammar start symbol.
func StartAt(name string) Option {
	return func(c *config) {
		c.start = name
	}
}

// Parse tokenizes and parses the source.
// Returns the syntax tree and the list of errors recovered in tolerant mode,
// or nil and a lexical, syntax, or cancellation error.
func (p *Parser) Parse(ctx context.Context, src *source.Source, opts ...Option) (*tree.Node, []error, error) {
	tokens, e := lexer.Tokenize(src)
	if e != nil {
		return nil, nil, e
	}

	return p.ParseTokens(ctx, tokens, opts...)
}

// ParseTokens parses a token list, the last token must be of lexer.EofKind.
func (p *Parser) ParseTokens(ctx context.Context, tokens []*lexer.Token, opts ...Option) (*tree.Node, []error, error) {
	cfg := config{start: p.grammar.Start()}
	for _, opt := range opts {
		opt(&cfg)
	}

	start := p.grammar.Production(cfg.start)
	if start == nil {
		return nil, nil, unknownStartError(cfg.start)
	}
	if len(tokens) == 0 || !tokens[len(tokens)-1].IsEof() {
		return nil, nil, emptyInputError()
	}

	pc := newParseContext(ctx, p, tokens, cfg.tolerant)
	results := pc.matchProd(start, 0, 0)
	if pc.cancelled != nil {
		return nil, nil, pc.cancelled
	}

	eof := len(tokens) - 1
	var best *result
	for i := range results {
		r := &results[i]
		if r.end == eof && (best == nil || better(r, best)) {
			best = r
		}
	}
	if best == nil {
		pc.stack = append(pc.stack, start)
		for i := range results {
			pc.fail(results[i].end, "end of file")
		}
		return nil, nil, pc.syntaxError()
	}

	root := pc.buildTree(best)
	return root, tree.Errors(root), nil
}

func (pc *parseContext) buildTree(r *result) *tree.Node {
	nodes := r.nodes()
	if len(nodes) == 1 && nodes[0].prod != nil && nodes[0].prod.Role == nil {
		return pc.convert(nodes[0], "")
	}

	root := tree.NewNonTermNode(pc.grammar.Start())
	for _, n := range nodes {
		root.AppendChild(pc.convert(n, root.TypeName()))
	}
	return root
}

func (pc *parseContext) convert(n *node, context string) *tree.Node {
	switch {
	case n.err != nil:
		return tree.NewErrorNode(n.err, pc.tokens[n.from:n.to])

	case n.prod == nil:
		return tree.NewTokenNode(pc.tokens[n.from])

	case n.prod.Role != nil && n.kids == nil:
		var candidates []string
		candidates = append(candidates, n.prod.Role.Confusable...)
		for _, c := range n.candidates {
			if !slices.Contains(candidates, c) {
				candidates = append(candidates, c)
			}
		}
		return tree.NewRoleNode(n.prod.Name, pc.tokens[n.from], tree.RoleInfo{
			Category:   n.prod.Role.Of,
			Candidates: candidates,
			Context:    context,
		})
	}

	result := tree.NewNonTermNode(n.prod.Name)
	for _, kid := range n.kids {
		result.AppendChild(pc.convert(kid, n.prod.Name))
	}
	return result
}

// tokenKeys returns terminal keys of the grammar matching the token.
func (p *Parser) tokenKeys(t *lexer.Token) []int {
	cacheKey := t.TypeName() + "\x00" + t.Text()
	if keys, has := p.keys.Get(cacheKey); has {
		return keys
	}

	var keys []int
	if t.IsWord() {
		if i, has := p.grammar.LiteralKey(t.Text()); has {
			keys = append(keys, i)
		}
	}
	if i, has := p.grammar.TokenKey(t.TypeName()); has {
		keys = append(keys, i)
	}

	p.keys.Add(cacheKey, keys)
	return keys
}
