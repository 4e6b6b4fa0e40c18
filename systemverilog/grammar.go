// Package systemverilog defines the SystemVerilog (IEEE 1800-2017) surface grammar:
// the production rule set, the operator precedence table, identifier roles,
// and the ambiguity table resolving overlapping productions.
//
// Structural rules live in rules/*.llx and are read with langdef,
// operator alternatives, roles, and ambiguity entries are added in Go.
// The grammar is built and validated once per process.
package systemverilog

import (
	"embed"
	"sync"

	"github.com/ava12/svgrammar/grammar"
	"github.com/ava12/svgrammar/langdef"
	"github.com/ava12/svgrammar/lexer"
	"github.com/ava12/svgrammar/parser"
)

// Name and Version identify the grammar.
const (
	Name    = "systemverilog"
	Version = "1800-2017"
)

//go:embed rules/*.llx
var rules embed.FS

// RuleFiles lists rule descriptions in load order.
var RuleFiles = []string{
	"rules/source.llx",
	"rules/declarations.llx",
	"rules/behavior.llx",
	"rules/expressions.llx",
	"rules/directives.llx",
}

// Precedence levels, higher rank binds tighter.
const (
	ParentLevel      = 17
	UnaryLevel       = 16
	PowLevel         = 15
	MulLevel         = 14
	AddLevel         = 13
	ShiftLevel       = 12
	RelationalLevel  = 11
	EqualLevel       = 10
	AndLevel         = 9
	XorLevel         = 8
	OrLevel          = 7
	LogicalAndLevel  = 6
	LogicalOrLevel   = 5
	ConditionalLevel = 4
	ImplicationLevel = 3
	AssignLevel      = 2
	ConcatLevel      = 1
)

var levels = []grammar.PrecedenceLevel{
	{Rank: ParentLevel, Name: "parent", Assoc: grammar.AssocNone},
	{Rank: UnaryLevel, Name: "unary", Assoc: grammar.AssocNone},
	{Rank: PowLevel, Name: "pow", Assoc: grammar.AssocLeft},
	{Rank: MulLevel, Name: "mul", Assoc: grammar.AssocLeft},
	{Rank: AddLevel, Name: "add", Assoc: grammar.AssocLeft},
	{Rank: ShiftLevel, Name: "shift", Assoc: grammar.AssocLeft},
	{Rank: RelationalLevel, Name: "relational", Assoc: grammar.AssocLeft},
	{Rank: EqualLevel, Name: "equal", Assoc: grammar.AssocLeft},
	{Rank: AndLevel, Name: "and", Assoc: grammar.AssocLeft},
	{Rank: XorLevel, Name: "xor", Assoc: grammar.AssocLeft},
	{Rank: OrLevel, Name: "or", Assoc: grammar.AssocLeft},
	{Rank: LogicalAndLevel, Name: "logical_and", Assoc: grammar.AssocLeft},
	{Rank: LogicalOrLevel, Name: "logical_or", Assoc: grammar.AssocLeft},
	{Rank: ConditionalLevel, Name: "conditional", Assoc: grammar.AssocRight},
	{Rank: ImplicationLevel, Name: "implication", Assoc: grammar.AssocRight},
	{Rank: AssignLevel, Name: "assign", Assoc: grammar.AssocNone},
	{Rank: ConcatLevel, Name: "concat", Assoc: grammar.AssocNone},
}

// NewBuilder returns a builder populated with the complete rule set.
// Callers may add entries before building, e.g. to test validation.
func NewBuilder() (*grammar.Builder, error) {
	return newBuilder(ambiguities)
}

func newBuilder(entries []ambiguity) (*grammar.Builder, error) {
	b := grammar.NewBuilder(Name).
		Version(Version).
		Tokens(lexer.Kinds...).
		SoftWords(lexer.SimpleIdentifierKind, lexer.IsKeyword)
	for _, l := range levels {
		b.Level(l.Rank, l.Name, l.Assoc)
	}

	if e := langdef.ParseFS(b, rules, RuleFiles...); e != nil {
		return nil, e
	}

	defineExpressions(b)
	defineRoles(b)
	defineAmbiguities(b, entries)
	return b, nil
}

// Build assembles and validates the grammar.
func Build() (*grammar.Grammar, error) {
	b, e := NewBuilder()
	if e != nil {
		return nil, e
	}

	return b.Build()
}

var (
	once          sync.Once
	sharedGrammar *grammar.Grammar
	sharedParser  *parser.Parser
)

// Grammar returns the shared validated grammar. Panics if the rule set is defective.
func Grammar() *grammar.Grammar {
	once.Do(func() {
		g, e := Build()
		if e != nil {
			panic(e)
		}

		sharedGrammar = g
		sharedParser = parser.New(g)
	})
	return sharedGrammar
}

// Parser returns the shared parser for the grammar.
func Parser() *parser.Parser {
	Grammar()
	return sharedParser
}
