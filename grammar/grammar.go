// Package grammar defines the grammar data model: productions, terms, precedence levels,
// ambiguity entries, and identifier roles. A Grammar is assembled with a Builder
// and validated once by Builder.Build, it is immutable and safe for concurrent use afterwards.
package grammar

import (
	"sort"
	"strings"

	"github.com/ava12/svgrammar/internal/ints"
)

// Assoc is operator associativity.
type Assoc int

const (
	AssocNone Assoc = iota
	AssocLeft
	AssocRight
)

func (a Assoc) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	}
	return "none"
}

// PrecedenceLevel is a ranked operator class, higher rank binds tighter.
type PrecedenceLevel struct {
	Rank  int
	Name  string
	Assoc Assoc
}

// Strategy tells the engine how to resolve a declared ambiguity.
type Strategy int

const (
	// Precedence ranks same-span candidates by their precedence tags.
	Precedence Strategy = iota + 1
	// Specificity keeps only the candidates with the longest match.
	Specificity
	// Parallel keeps all candidates and lets the continuation prune them.
	Parallel
	// Deferred keeps the first candidate and records the confusion on the node
	// for a later name resolution phase.
	Deferred
)

var strategyNames = map[Strategy]string{
	Precedence:  "precedence",
	Specificity: "specificity",
	Parallel:    "parallel",
	Deferred:    "deferred",
}

func (s Strategy) String() string {
	name, has := strategyNames[s]
	if !has {
		return "none"
	}
	return name
}

// AmbiguityEntry declares a set of nonterminals whose expansions can share a token prefix.
type AmbiguityEntry struct {
	Set      []string
	Strategy Strategy
	Note     string
}

// Key returns canonical entry key: sorted set members joined with commas.
func (e AmbiguityEntry) Key() string {
	return setKey(e.Set)
}

func setKey(names []string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func (e AmbiguityEntry) covers(names ...string) bool {
	for _, name := range names {
		found := false
		for _, member := range e.Set {
			if member == name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// RoleInfo marks a production as an identifier role: a named view over rule Of.
// Confusable lists roles the same position may really denote.
type RoleInfo struct {
	Of         string
	Confusable []string
}

// Production is a named grammar rule.
type Production struct {
	Name string
	Body Term
	Role *RoleInfo

	index    int
	alts     []Term
	binaries []*Binary
}

// Hidden reports whether production nodes are spliced into their parents.
func (p *Production) Hidden() bool {
	return strings.HasPrefix(p.Name, "_")
}

// Index returns production index in Grammar.Productions.
func (p *Production) Index() int {
	return p.index
}

// Alternatives returns non-operator alternatives of the production body.
func (p *Production) Alternatives() []Term {
	return p.alts
}

// Operators returns operator alternatives in declaration order.
func (p *Production) Operators() []*Binary {
	return p.binaries
}

// OpKey identifies an operator in the precedence table.
type OpKey struct {
	Op    string
	Arity int
}

// Grammar is a validated immutable grammar.
type Grammar struct {
	name, version, start string

	prods    []*Production
	index    map[string]*Production
	levels   []PrecedenceLevel
	entries  []AmbiguityEntry
	aliases  map[string]string
	opLevels map[OpKey]PrecedenceLevel

	keys     []string
	keyIndex map[string]int
	softKeys *ints.Set
	softKind int
	first    map[Term]*ints.Set
	nullable map[Term]bool
	strategy map[*Choice]Strategy
}

// Name returns grammar name.
func (g *Grammar) Name() string {
	return g.name
}

// Version returns grammar version string.
func (g *Grammar) Version() string {
	return g.version
}

// Start returns the start symbol.
func (g *Grammar) Start() string {
	return g.start
}

// Productions returns all productions in definition order.
func (g *Grammar) Productions() []*Production {
	return g.prods
}

// Production returns named production or nil.
func (g *Grammar) Production(name string) *Production {
	return g.index[name]
}

// Levels returns precedence levels, highest rank first.
func (g *Grammar) Levels() []PrecedenceLevel {
	result := make([]PrecedenceLevel, len(g.levels))
	copy(result, g.levels)
	return result
}

// Level returns precedence level of given rank.
func (g *Grammar) Level(rank int) (PrecedenceLevel, bool) {
	for _, l := range g.levels {
		if l.Rank == rank {
			return l, true
		}
	}
	return PrecedenceLevel{}, false
}

// PrecedenceTable returns operator levels keyed by operator token and arity.
func (g *Grammar) PrecedenceTable() map[OpKey]PrecedenceLevel {
	result := make(map[OpKey]PrecedenceLevel, len(g.opLevels))
	for k, v := range g.opLevels {
		result[k] = v
	}
	return result
}

// AmbiguityTable returns declared ambiguity entries keyed by Entry.Key().
func (g *Grammar) AmbiguityTable() map[string]AmbiguityEntry {
	result := make(map[string]AmbiguityEntry, len(g.entries))
	for _, e := range g.entries {
		result[e.Key()] = e
	}
	return result
}

// Ambiguities returns declared ambiguity entries in declaration order.
func (g *Grammar) Ambiguities() []AmbiguityEntry {
	result := make([]AmbiguityEntry, len(g.entries))
	copy(result, g.entries)
	return result
}

// Ambiguity returns the entry declared for exactly this set of nonterminals.
func (g *Grammar) Ambiguity(set ...string) (AmbiguityEntry, bool) {
	key := setKey(set)
	for _, e := range g.entries {
		if e.Key() == key {
			return e, true
		}
	}
	return AmbiguityEntry{}, false
}

// Aliases maps every identifier role to its underlying rule.
func (g *Grammar) Aliases() map[string]string {
	result := make(map[string]string, len(g.aliases))
	for k, v := range g.aliases {
		result[k] = v
	}
	return result
}

// Roles returns names of all identifier role productions, sorted.
func (g *Grammar) Roles() []string {
	result := make([]string, 0, len(g.aliases))
	for name := range g.aliases {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// KeyCount returns the number of terminal keys.
func (g *Grammar) KeyCount() int {
	return len(g.keys)
}

// Key returns printable terminal key: quoted literal text or $kind.
func (g *Grammar) Key(index int) string {
	if index < 0 || index >= len(g.keys) {
		return ""
	}
	return g.keys[index]
}

// LiteralKey returns terminal key index of a literal used by the grammar.
func (g *Grammar) LiteralKey(text string) (int, bool) {
	i, has := g.keyIndex[(&Literal{text}).String()]
	return i, has
}

// TokenKey returns terminal key index of a token kind used by the grammar.
func (g *Grammar) TokenKey(kind string) (int, bool) {
	i, has := g.keyIndex["$"+kind]
	return i, has
}

// First returns the set of terminal keys that can start a match of t. Must not be modified.
func (g *Grammar) First(t Term) *ints.Set {
	s, has := g.first[t]
	if !has {
		return &ints.Set{}
	}
	return s
}

// Nullable reports whether t can match empty input.
func (g *Grammar) Nullable(t Term) bool {
	return g.nullable[t]
}

// Strategy returns the resolution strategy bound to a choice point with overlapping alternatives,
// 0 if alternatives never overlap.
func (g *Grammar) Strategy(c *Choice) Strategy {
	return g.strategy[c]
}
