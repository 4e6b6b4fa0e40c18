package grammar

import (
	"sort"

	"github.com/ava12/svgrammar/internal/ints"
	"github.com/ava12/svgrammar/internal/queue"
)

func sortLevels(levels []PrecedenceLevel) []PrecedenceLevel {
	result := make([]PrecedenceLevel, len(levels))
	copy(result, levels)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Rank > result[j].Rank
	})
	return result
}

func splitAlternatives(g *Grammar, e error) error {
	if e != nil {
		return e
	}

	topLevel := make(map[*Binary]bool)
	for _, p := range g.prods {
		c, isChoice := p.Body.(*Choice)
		if !isChoice {
			p.alts = []Term{p.Body}
			continue
		}

		for _, alt := range c.Items {
			if b, ok := alt.(*Binary); ok {
				if b.Lhs.Name != p.Name {
					return placementError(p.Name)
				}
				topLevel[b] = true
				p.binaries = append(p.binaries, b)
			} else {
				p.alts = append(p.alts, alt)
			}
		}
	}

	for _, p := range g.prods {
		misplaced := false
		Walk(p.Body, func(t Term) {
			if b, ok := t.(*Binary); ok && !topLevel[b] {
				misplaced = true
			}
		})
		if misplaced {
			return placementError(p.Name)
		}
	}
	return nil
}

// literalsOf returns texts of all literals t may match if t consists of literals only.
func literalsOf(t Term, depth int) ([]string, bool) {
	if depth > 8 {
		return nil, false
	}

	switch t := t.(type) {
	case *Literal:
		return []string{t.Text}, true
	case *Ref:
		if t.prod == nil {
			return nil, false
		}
		return literalsOf(t.prod.Body, depth+1)
	case *Choice:
		var result []string
		for _, item := range t.Items {
			texts, ok := literalsOf(item, depth+1)
			if !ok {
				return nil, false
			}
			result = append(result, texts...)
		}
		return result, true
	}
	return nil, false
}

func checkLevels(g *Grammar, e error) error {
	if e != nil {
		return e
	}

	ranks := make(map[int]bool)
	names := make(map[string]bool)
	for _, l := range g.levels {
		if ranks[l.Rank] || names[l.Name] {
			return precedenceError("precedence level %q (rank %d) defined more than once", l.Name, l.Rank)
		}
		ranks[l.Rank] = true
		names[l.Name] = true
	}

	register := func(op Term, arity int, level PrecedenceLevel) error {
		texts, ok := literalsOf(op, 0)
		if !ok {
			return precedenceError("operator %s must consist of literals", op)
		}

		for _, text := range texts {
			key := OpKey{text, arity}
			if prev, has := g.opLevels[key]; has && prev.Rank != level.Rank {
				return precedenceError("operator %q (arity %d) bound to levels %q and %q", text, arity, prev.Name, level.Name)
			}
			g.opLevels[key] = level
		}
		return nil
	}

	for _, p := range g.prods {
		p := p // per-iteration copy (go 1.22 loop semantics)
		var pe error
		Walk(p.Body, func(t Term) {
			if pe != nil {
				return
			}

			switch t := t.(type) {
			case *Prec:
				level, has := g.Level(t.Level)
				if !has {
					pe = precedenceError("%s: undefined precedence level %d", p.Name, t.Level)
				} else if t.Op != nil {
					pe = register(t.Op, 1, level)
				}

			case *Binary:
				level, has := g.Level(t.Level)
				if !has {
					pe = precedenceError("%s: undefined precedence level %d", p.Name, t.Level)
				} else if level.Assoc != t.Assoc {
					pe = precedenceError("%s: %s operator %s on %s level %q", p.Name, t.Assoc, t.Op, level.Assoc, level.Name)
				} else {
					pe = register(t.Op, binaryArity(t), level)
				}
			}
		})
		if pe != nil {
			return pe
		}
	}
	return nil
}

func binaryArity(b *Binary) int {
	arity := 1
	for _, item := range b.Right {
		if r, ok := item.(*Ref); ok && r.Name == b.Lhs.Name {
			arity++
		}
	}
	return max(arity, 2)
}

func computeNullable(g *Grammar) {
	prodNull := make(map[*Production]bool)
	var isNull func(Term) bool
	isNull = func(t Term) bool {
		switch t := t.(type) {
		case *Ref:
			return prodNull[t.prod]
		case *Sequence:
			for _, item := range t.Items {
				if !isNull(item) {
					return false
				}
			}
			return true
		case *Choice:
			for _, item := range t.Items {
				if isNull(item) {
					return true
				}
			}
			return false
		case *Optional:
			return true
		case *Repeat:
			return t.Min == 0 || isNull(t.Item)
		case *Prec:
			return isNull(t.Item)
		}
		return false
	}

	for changed := true; changed; {
		changed = false
		for _, p := range g.prods {
			if !prodNull[p] && isNull(p.Body) {
				prodNull[p] = true
				changed = true
			}
		}
	}

	for _, p := range g.prods {
		g.nullable[p.Body] = prodNull[p]
		Walk(p.Body, func(t Term) {
			g.nullable[t] = isNull(t)
		})
	}
}

func computeFirst(g *Grammar) {
	prodFirst := make(map[*Production]*ints.Set, len(g.prods))
	for _, p := range g.prods {
		prodFirst[p] = &ints.Set{}
	}

	var first func(Term) *ints.Set
	first = func(t Term) *ints.Set {
		switch t := t.(type) {
		case *Literal, *Token:
			return ints.NewSet(g.keyIndex[t.String()])
		case *Ref:
			return prodFirst[t.prod].Copy()
		case *Binary:
			return prodFirst[t.Lhs.prod].Copy()
		case *Sequence:
			result := &ints.Set{}
			for _, item := range t.Items {
				result.Union(first(item))
				if !g.nullable[item] {
					break
				}
			}
			return result
		case *Choice:
			result := &ints.Set{}
			for _, item := range t.Items {
				result.Union(first(item))
			}
			return result
		case *Optional:
			return first(t.Item)
		case *Repeat:
			return first(t.Item)
		case *Prec:
			return first(t.Item)
		}
		return &ints.Set{}
	}

	for changed := true; changed; {
		changed = false
		for _, p := range g.prods {
			if prodFirst[p].Union(first(p.Body)) {
				changed = true
			}
		}
	}

	for _, p := range g.prods {
		Walk(p.Body, func(t Term) {
			if _, has := g.first[t]; !has {
				g.first[t] = first(t)
			}
		})
	}
}

func findUnused(g *Grammar, e error) error {
	if e != nil {
		return e
	}

	w := queue.NewWorklist(g.index[g.start])
	for {
		p, ok := w.Pop()
		if !ok {
			break
		}

		Walk(p.Body, func(t Term) {
			if r, ok := t.(*Ref); ok {
				w.Push(r.prod)
			}
		})
	}

	var unused []string
	for _, p := range g.prods {
		if !w.Seen(p) && p.Role == nil {
			unused = append(unused, p.Name)
		}
	}

	if len(unused) > 0 {
		return unusedError(unused)
	}
	return nil
}

func findUnproductive(g *Grammar, e error) error {
	if e != nil {
		return e
	}

	productive := make(map[*Production]bool)
	var isProductive func(Term) bool
	isProductive = func(t Term) bool {
		switch t := t.(type) {
		case *Literal, *Token:
			return true
		case *Ref:
			return productive[t.prod]
		case *Sequence:
			for _, item := range t.Items {
				if !isProductive(item) {
					return false
				}
			}
			return true
		case *Choice:
			for _, item := range t.Items {
				if isProductive(item) {
					return true
				}
			}
			return false
		case *Optional:
			return true
		case *Repeat:
			return t.Min == 0 || isProductive(t.Item)
		case *Prec:
			return isProductive(t.Item)
		}
		return false
	}

	for changed := true; changed; {
		changed = false
		for _, p := range g.prods {
			if !productive[p] && isProductive(p.Body) {
				productive[p] = true
				changed = true
			}
		}
	}

	var dead []string
	for _, p := range g.prods {
		if !productive[p] {
			dead = append(dead, p.Name)
		}
	}

	if len(dead) > 0 {
		return unproductiveError(dead)
	}
	return nil
}

// leftRefs collects productions that may be derived at the leftmost position of t.
// Operator alternatives are skipped: their left operand is handled by precedence climbing.
func leftRefs(g *Grammar, t Term, out map[*Production]bool) {
	switch t := t.(type) {
	case *Ref:
		out[t.prod] = true
	case *Sequence:
		for _, item := range t.Items {
			leftRefs(g, item, out)
			if !g.nullable[item] {
				break
			}
		}
	case *Choice:
		for _, item := range t.Items {
			leftRefs(g, item, out)
		}
	case *Optional:
		leftRefs(g, t.Item, out)
	case *Repeat:
		leftRefs(g, t.Item, out)
	case *Prec:
		leftRefs(g, t.Item, out)
	}
}

func findRecursions(g *Grammar, e error) error {
	if e != nil {
		return e
	}

	direct := make(map[*Production]map[*Production]bool, len(g.prods))
	for _, p := range g.prods {
		direct[p] = make(map[*Production]bool)
		leftRefs(g, p.Body, direct[p])
	}

	var recursive []string
	for _, p := range g.prods {
		w := queue.NewWorklist[*Production]()
		for r := range direct[p] {
			w.Push(r)
		}
		for {
			r, ok := w.Pop()
			if !ok {
				break
			}
			if r == p {
				recursive = append(recursive, p.Name)
				break
			}
			for next := range direct[r] {
				w.Push(next)
			}
		}
	}

	if len(recursive) > 0 {
		return recursionError(recursive)
	}
	return nil
}

func checkEntries(g *Grammar, e error) error {
	if e != nil {
		return e
	}

	keys := make(map[string]bool)
	for _, entry := range g.entries {
		unique := make(map[string]bool)
		for _, name := range entry.Set {
			if g.index[name] == nil {
				return entryError("ambiguity entry {%s}: undefined non-terminal %q", entry.Key(), name)
			}
			unique[name] = true
		}

		if len(unique) < 2 {
			return entryError("ambiguity entry {%s} must name at least two non-terminals", entry.Key())
		}
		if _, valid := strategyNames[entry.Strategy]; !valid {
			return entryError("ambiguity entry {%s}: unknown strategy %d", entry.Key(), entry.Strategy)
		}
		if keys[entry.Key()] {
			return entryError("ambiguity entry {%s} declared more than once", entry.Key())
		}
		keys[entry.Key()] = true
	}
	return nil
}

func checkRoles(g *Grammar, e error) error {
	if e != nil {
		return e
	}

	for _, p := range g.prods {
		if p.Role == nil {
			continue
		}

		if p.Hidden() {
			return roleError("identifier role %q cannot be hidden", p.Name)
		}
		g.aliases[p.Name] = p.Role.Of
		if len(p.Role.Confusable) == 0 {
			continue
		}

		set := append([]string{p.Name}, p.Role.Confusable...)
		for _, name := range p.Role.Confusable {
			if g.index[name] == nil {
				return roleError("identifier role %q: undefined confusable role %q", p.Name, name)
			}
		}

		covered := false
		for _, entry := range g.entries {
			if entry.Strategy == Deferred && entry.covers(set...) {
				covered = true
				break
			}
		}
		if !covered {
			return roleError("identifier role %q: no deferred ambiguity entry covers {%s}", p.Name, setKey(set))
		}
	}
	return nil
}

// HeadLabel returns the nonterminal naming alternative alt of production p in ambiguity entries:
// the leading nonterminal of the alternative or p itself.
func HeadLabel(p *Production, alt Term) string {
	t := alt
	if pr, ok := t.(*Prec); ok {
		t = pr.Item
	}
	if s, ok := t.(*Sequence); ok && len(s.Items) > 0 {
		t = s.Items[0]
		if pr, ok := t.(*Prec); ok {
			t = pr.Item
		}
	}
	if r, ok := t.(*Ref); ok {
		return r.Name
	}
	return p.Name
}

func (g *Grammar) expandSoft(s *ints.Set) *ints.Set {
	if g.softKind < 0 || !s.Intersects(g.softKeys) {
		return s
	}
	return s.Copy().Add(g.softKind)
}

// Overlap reports whether two terms can start with the same token.
func (g *Grammar) Overlap(a, b Term) bool {
	if g.nullable[a] && g.nullable[b] {
		return true
	}
	return g.expandSoft(g.First(a)).Intersects(g.expandSoft(g.First(b)))
}

func (g *Grammar) covering(a, b string) (AmbiguityEntry, bool) {
	for _, entry := range g.entries {
		if entry.covers(a, b) {
			return entry, true
		}
	}
	return AmbiguityEntry{}, false
}

// conflicts lists choice points with overlapping alternatives not covered by any entry.
func (g *Grammar) conflicts() []string {
	var missing []string
	seen := make(map[string]bool)
	for _, p := range g.prods {
		p := p // per-iteration copy (go 1.22 loop semantics)
		Walk(p.Body, func(t Term) {
			c, ok := t.(*Choice)
			if !ok {
				return
			}

			var strategy Strategy
			for i, a := range c.Items {
				if _, isBinary := a.(*Binary); isBinary {
					continue
				}
				for _, b := range c.Items[i+1:] {
					if _, isBinary := b.(*Binary); isBinary || !g.Overlap(a, b) {
						continue
					}

					la, lb := HeadLabel(p, a), HeadLabel(p, b)
					entry, found := g.covering(la, lb)
					if found {
						if strategy == 0 {
							strategy = entry.Strategy
						}
						continue
					}

					msg := p.Name + ": " + la + " / " + lb
					if !seen[msg] {
						seen[msg] = true
						missing = append(missing, msg)
					}
				}
			}
			if strategy != 0 {
				g.strategy[c] = strategy
			}
		})
	}
	return missing
}

func checkConflicts(g *Grammar, e error) error {
	if e != nil {
		return e
	}

	missing := g.conflicts()
	if len(missing) > 0 {
		return conflictError(missing)
	}
	return nil
}
