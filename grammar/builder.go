package grammar

import (
	"regexp"

	"github.com/ava12/svgrammar/internal/ints"
)

// Builder collects productions, precedence levels, ambiguity entries, and roles.
// A Builder is used once: Build takes ownership of all added terms.
type Builder struct {
	name, version, start string

	prods      []*Production
	index      map[string]*Production
	duplicates []string
	levels     []PrecedenceLevel
	entries    []AmbiguityEntry
	recoveries map[string][]string
	kinds      map[string]bool
	softKind   string
	reserved   func(string) bool
}

// NewBuilder creates an empty builder for named grammar.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:       name,
		index:      make(map[string]*Production),
		recoveries: make(map[string][]string),
	}
}

// Version sets grammar version string.
func (b *Builder) Version(version string) *Builder {
	b.version = version
	return b
}

// Start sets the start symbol. Defaults to the first defined production.
func (b *Builder) Start(name string) *Builder {
	b.start = name
	return b
}

// Tokens declares token kinds the grammar may refer to. If never called, any kind is accepted.
func (b *Builder) Tokens(kinds ...string) *Builder {
	if b.kinds == nil {
		b.kinds = make(map[string]bool)
	}
	for _, k := range kinds {
		b.kinds[k] = true
	}
	return b
}

// SoftWords declares that identifier-shaped literals not reserved by the lexer
// are emitted as tokens of given kind, so such literals conflict with that kind.
func (b *Builder) SoftWords(kind string, reserved func(string) bool) *Builder {
	b.softKind = kind
	b.reserved = reserved
	return b
}

// Level adds a precedence level.
func (b *Builder) Level(rank int, name string, assoc Assoc) *Builder {
	b.levels = append(b.levels, PrecedenceLevel{rank, name, assoc})
	return b
}

// LevelByName returns a previously added precedence level.
func (b *Builder) LevelByName(name string) (PrecedenceLevel, bool) {
	for _, l := range b.levels {
		if l.Name == name {
			return l, true
		}
	}
	return PrecedenceLevel{}, false
}

// Define adds a production.
func (b *Builder) Define(name string, body Term) *Builder {
	b.add(&Production{Name: name, Body: body})
	return b
}

// Role adds an identifier role production: a view over rule of.
func (b *Builder) Role(name, of string, confusable ...string) *Builder {
	b.add(&Production{Name: name, Body: Nt(of), Role: &RoleInfo{of, confusable}})
	return b
}

func (b *Builder) add(p *Production) {
	if _, has := b.index[p.Name]; has {
		b.duplicates = append(b.duplicates, p.Name)
		return
	}

	p.index = len(b.prods)
	b.prods = append(b.prods, p)
	b.index[p.Name] = p
}

// Has reports whether named production is defined.
func (b *Builder) Has(name string) bool {
	_, has := b.index[name]
	return has
}

// Ambiguity declares an ambiguity entry.
func (b *Builder) Ambiguity(strategy Strategy, note string, set ...string) *Builder {
	b.entries = append(b.entries, AmbiguityEntry{set, strategy, note})
	return b
}

// Recover enables tolerant recovery for every repetition of the named item.
func (b *Builder) Recover(item string, before ...string) *Builder {
	b.recoveries[item] = before
	return b
}

var wordRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_$]*$`)

// Build validates collected definitions and returns immutable grammar.
// Returns nil and *svgrammar.Error describing grammar defects on failure.
func (b *Builder) Build() (*Grammar, error) {
	g := &Grammar{
		name:     b.name,
		version:  b.version,
		start:    b.start,
		prods:    b.prods,
		index:    b.index,
		entries:  b.entries,
		aliases:  make(map[string]string),
		opLevels: make(map[OpKey]PrecedenceLevel),
		keyIndex: make(map[string]int),
		first:    make(map[Term]*ints.Set),
		nullable: make(map[Term]bool),
		strategy: make(map[*Choice]Strategy),
	}
	g.levels = sortLevels(b.levels)
	if g.start == "" && len(g.prods) > 0 {
		g.start = g.prods[0].Name
	}

	var e error
	if len(b.duplicates) > 0 {
		e = definedError(b.duplicates)
	}
	e = b.resolveRefs(g, e)
	e = b.checkTokens(g, e)
	e = splitAlternatives(g, e)
	e = checkLevels(g, e)
	if e != nil {
		return nil, e
	}

	b.assignKeys(g)
	computeNullable(g)
	computeFirst(g)

	e = findUnused(g, e)
	e = findUnproductive(g, e)
	e = findRecursions(g, e)
	e = checkEntries(g, e)
	e = checkRoles(g, e)
	e = checkConflicts(g, e)
	if e != nil {
		return nil, e
	}

	return g, nil
}

func (b *Builder) resolveRefs(g *Grammar, e error) error {
	if e != nil {
		return e
	}

	var undefined []string
	seen := make(map[string]bool)
	missing := func(name string) {
		if !seen[name] {
			seen[name] = true
			undefined = append(undefined, name)
		}
	}

	if _, has := g.index[g.start]; !has {
		missing(g.start)
	}

	for _, p := range g.prods {
		Walk(p.Body, func(t Term) {
			switch t := t.(type) {
			case *Ref:
				t.prod = g.index[t.Name]
				if t.prod == nil {
					missing(t.Name)
				}
			case *Repeat:
				if r, ok := t.Item.(*Ref); ok {
					if before, has := b.recoveries[r.Name]; has {
						t.Recovery = &Recovery{before}
					}
				}
			}
		})
	}

	for name := range b.recoveries {
		if _, has := g.index[name]; !has {
			missing(name)
		}
	}

	if len(undefined) > 0 {
		return undefinedError(undefined)
	}
	return nil
}

func (b *Builder) checkTokens(g *Grammar, e error) error {
	if e != nil || b.kinds == nil {
		return e
	}

	var unknown []string
	seen := make(map[string]bool)
	for _, p := range g.prods {
		Walk(p.Body, func(t Term) {
			if tok, ok := t.(*Token); ok && !b.kinds[tok.Kind] && !seen[tok.Kind] {
				seen[tok.Kind] = true
				unknown = append(unknown, tok.Kind)
			}
		})
	}

	if len(unknown) > 0 {
		return unknownTokenError(unknown)
	}
	return nil
}

func (b *Builder) assignKeys(g *Grammar) {
	add := func(key string) int {
		i, has := g.keyIndex[key]
		if !has {
			i = len(g.keys)
			g.keys = append(g.keys, key)
			g.keyIndex[key] = i
		}
		return i
	}

	g.softKeys = &ints.Set{}
	for _, p := range g.prods {
		Walk(p.Body, func(t Term) {
			switch t := t.(type) {
			case *Literal:
				i := add(t.String())
				if b.reserved != nil && wordRe.MatchString(t.Text) && !b.reserved(t.Text) {
					g.softKeys.Add(i)
				}
			case *Token:
				add(t.String())
			}
		})
	}

	g.softKind = -1
	if b.softKind != "" {
		g.softKind = add("$" + b.softKind)
	}
}
