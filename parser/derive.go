package parser

import (
	"context"
	"slices"

	"github.com/ava12/svgrammar"
	"github.com/ava12/svgrammar/grammar"
	"github.com/ava12/svgrammar/lexer"
)

// node is a derivation node shared between alternative results.
// Token nodes have nil prod, error nodes have non-nil err.
type node struct {
	prod       *grammar.Production
	from, to   int
	kids       []*node
	candidates []string
	err        error
}

// chain is a reversed persistent list of sibling nodes.
type chain struct {
	node *node
	prev *chain
}

// result is a single way to match a term: token position after the match and matched nodes.
type result struct {
	end  int
	errs int
	prec int
	tail *chain
}

func (r *result) nodes() []*node {
	n := 0
	for c := r.tail; c != nil; c = c.prev {
		n++
	}

	res := make([]*node, n)
	for c := r.tail; c != nil; c = c.prev {
		n--
		res[n] = c.node
	}
	return res
}

func join(a, b *result) result {
	r := result{end: b.end, errs: a.errs + b.errs, prec: max(a.prec, b.prec), tail: a.tail}
	if r.tail == nil {
		r.tail = b.tail
		return r
	}

	for _, n := range b.nodes() {
		r.tail = &chain{n, r.tail}
	}
	return r
}

// better reports whether a is preferred to b, both ending at the same position:
// fewer recovered errors, then higher precedence tag, then the longest earlier child.
func better(a, b *result) bool {
	if a.errs != b.errs {
		return a.errs < b.errs
	}
	if a.prec != b.prec {
		return a.prec > b.prec
	}

	an, bn := a.nodes(), b.nodes()
	for i := 0; i < len(an) && i < len(bn); i++ {
		if an[i].to != bn[i].to {
			return an[i].to > bn[i].to
		}
	}
	return false
}

// merge adds r to the list keeping the best result per end position.
// list must not be shared.
func merge(list []result, r result) []result {
	for i := range list {
		if list[i].end == r.end {
			if better(&r, &list[i]) {
				list[i] = r
			}
			return list
		}
	}
	return append(list, r)
}

type memoKey struct {
	prod, pos, level int
}

// region is a choice point where several candidates of a parallel ambiguity entry were explored.
// alive is the farthest position reached by at least two candidates.
type region struct {
	start   int
	alive   int
	nonTerm string
	labels  []string
	failed  bool
}

type parseContext struct {
	ctx      context.Context
	grammar  *grammar.Grammar
	tokens   []*lexer.Token
	keys     [][]int
	tolerant bool

	memo      map[memoKey][]result
	memoReach map[memoKey]int
	active    map[memoKey]bool
	stack   []*grammar.Production
	regions []*region

	farthest    int
	expected    []string
	expectedSet map[string]bool
	farNonTerm  string
	farRegions  []*region

	// farthest token position examined by the current match
	reach int

	steps     int
	cancelled error
}

func newParseContext(ctx context.Context, p *Parser, tokens []*lexer.Token, tolerant bool) *parseContext {
	pc := &parseContext{
		ctx:       ctx,
		grammar:   p.grammar,
		tokens:    tokens,
		keys:      make([][]int, len(tokens)),
		tolerant:  tolerant,
		memo:      make(map[memoKey][]result),
		memoReach: make(map[memoKey]int),
		active:    make(map[memoKey]bool),
		farthest:  -1,
		reach:     -1,
		cancelled: ctx.Err(),
	}
	for i, t := range tokens {
		pc.keys[i] = p.tokenKeys(t)
	}
	return pc
}

func (pc *parseContext) tick() {
	pc.steps++
	if pc.steps&1023 == 0 && pc.cancelled == nil {
		pc.cancelled = pc.ctx.Err()
	}
}

func (pc *parseContext) top() *grammar.Production {
	if len(pc.stack) == 0 {
		return nil
	}
	return pc.stack[len(pc.stack)-1]
}

// fail records a terminal or non-terminal expected at token position pos.
// Regions enclosing every failure at the farthest position are kept as possible culprits.
func (pc *parseContext) fail(pos int, what string) {
	pc.extend(pos)
	if pos < pc.farthest || what == "" {
		return
	}

	if pos > pc.farthest {
		pc.farthest = pos
		pc.expected = nil
		pc.expectedSet = make(map[string]bool)
		pc.farNonTerm = ""
		if p := pc.top(); p != nil {
			pc.farNonTerm = p.Name
		}
		pc.farRegions = pc.farRegions[:0]
		for _, r := range pc.regions {
			if r.start < pos {
				pc.farRegions = append(pc.farRegions, r)
			}
		}
	} else {
		kept := pc.farRegions[:0]
		for _, r := range pc.farRegions {
			if slices.Contains(pc.regions, r) {
				kept = append(kept, r)
			}
		}
		pc.farRegions = kept
	}

	if !pc.expectedSet[what] {
		pc.expectedSet[what] = true
		pc.expected = append(pc.expected, what)
	}
}

func (pc *parseContext) syntaxError() *svgrammar.Error {
	if pc.farthest < 0 {
		pc.farthest = 0
	}

	for i := len(pc.farRegions) - 1; i >= 0; i-- {
		r := pc.farRegions[i]
		if r.failed && r.alive >= pc.farthest {
			return ambiguityError(pc.tokens[r.start], r.nonTerm, r.labels)
		}
	}

	t := pc.tokens[pc.farthest]
	if t.IsEof() {
		return unexpectedEofError(t, pc.expected, pc.farNonTerm)
	}
	return unexpectedTokenError(t, pc.expected, pc.farNonTerm)
}

// predicts reports whether term t can start at token position pos.
func (pc *parseContext) predicts(t grammar.Term, pos int) bool {
	if pc.grammar.Nullable(t) {
		return true
	}
	if pos >= len(pc.keys) {
		return false
	}

	first := pc.grammar.First(t)
	for _, k := range pc.keys[pos] {
		if first.Contains(k) {
			return true
		}
	}
	return false
}

// describe returns printable name of the leading terminal or non-terminal of t.
func describe(t grammar.Term) string {
	switch t := t.(type) {
	case *grammar.Literal, *grammar.Token, *grammar.Ref:
		return t.String()
	case *grammar.Sequence:
		if len(t.Items) > 0 {
			return describe(t.Items[0])
		}
	case *grammar.Prec:
		return describe(t.Item)
	case *grammar.Optional:
		return describe(t.Item)
	case *grammar.Repeat:
		return describe(t.Item)
	}
	return ""
}

// expect records failed term t, alternatives of hidden productions are listed instead of the production.
func (pc *parseContext) expect(pos int, t grammar.Term) {
	if r, ok := t.(*grammar.Ref); ok && r.Production().Hidden() {
		if c, ok := r.Production().Body.(*grammar.Choice); ok {
			for _, alt := range c.Items {
				pc.expect(pos, alt)
			}
			return
		}
	}
	pc.fail(pos, describe(t))
}

func (pc *parseContext) extend(pos int) {
	if pos > pc.reach {
		pc.reach = pos
	}
}

func (pc *parseContext) leaf(pos int) []result {
	pc.extend(pos)
	return []result{{end: pos + 1, tail: &chain{node: &node{from: pos, to: pos + 1}}}}
}

func (pc *parseContext) match(t grammar.Term, pos int) []result {
	if pc.cancelled != nil {
		return nil
	}

	switch t := t.(type) {
	case *grammar.Literal:
		if pos < len(pc.tokens) {
			tok := pc.tokens[pos]
			if tok.IsWord() && tok.Text() == t.Text {
				return pc.leaf(pos)
			}
		}
		pc.fail(pos, t.String())

	case *grammar.Token:
		if pos < len(pc.tokens) && pc.tokens[pos].TypeName() == t.Kind {
			return pc.leaf(pos)
		}
		pc.fail(pos, t.String())

	case *grammar.Ref:
		p := t.Production()
		if !pc.predicts(p.Body, pos) {
			pc.expect(pos, t)
			return nil
		}
		return pc.matchProd(p, pos, 0)

	case *grammar.Sequence:
		rs := []result{{end: pos}}
		for _, item := range t.Items {
			rs = pc.step(rs, item)
			if len(rs) == 0 {
				return nil
			}
		}
		return rs

	case *grammar.Choice:
		return pc.matchChoice(t, t.Items, pos)

	case *grammar.Optional:
		rs := append([]result(nil), pc.match(t.Item, pos)...)
		return merge(rs, result{end: pos})

	case *grammar.Repeat:
		return pc.matchRepeat(t, pos)

	case *grammar.Prec:
		var rs []result
		if p := pc.top(); t.Op != nil && p != nil && len(p.Operators()) > 0 {
			rs = pc.matchPrefix(p, t, pos)
		} else {
			rs = pc.match(t.Item, pos)
		}
		out := make([]result, 0, len(rs))
		for _, r := range rs {
			r.prec = t.Level
			out = append(out, r)
		}
		return out
	}

	return nil
}

// step continues every result in rs with item.
func (pc *parseContext) step(rs []result, item grammar.Term) []result {
	var out []result
	for i := range rs {
		for _, ir := range pc.match(item, rs[i].end) {
			ir := ir // per-iteration copy (go 1.22 loop semantics)
			out = merge(out, join(&rs[i], &ir))
		}
	}
	return out
}

func (pc *parseContext) matchProd(p *grammar.Production, pos, level int) []result {
	if pc.cancelled != nil {
		return nil
	}

	if len(p.Operators()) == 0 {
		level = 0
	}
	key := memoKey{p.Index(), pos, level}
	if rs, has := pc.memo[key]; has {
		pc.extend(pc.memoReach[key])
		return rs
	}
	if pc.active[key] {
		return nil
	}

	pc.tick()
	outer := pc.reach
	pc.reach = pos
	pc.active[key] = true
	pc.stack = append(pc.stack, p)

	var rs []result
	if len(p.Operators()) > 0 {
		rs = pc.matchOperand(p, pos, level)
	} else {
		rs = pc.wrap(p, pos, pc.match(p.Body, pos))
	}
	rs = untagged(rs)

	pc.stack = pc.stack[:len(pc.stack)-1]
	delete(pc.active, key)
	pc.memo[key] = rs
	pc.memoReach[key] = pc.reach
	pc.extend(outer)
	return rs
}

// untagged drops precedence tags: they rank alternatives of a single choice only.
func untagged(rs []result) []result {
	for i := range rs {
		if rs[i].prec != 0 {
			out := make([]result, len(rs))
			for j, r := range rs {
				r.prec = 0
				out[j] = r
			}
			return out
		}
	}
	return rs
}

// wrap turns body matches of p into production nodes.
// Hidden productions are spliced, single token role matches become role nodes.
func (pc *parseContext) wrap(p *grammar.Production, pos int, rs []result) []result {
	if p.Hidden() {
		return rs
	}

	out := make([]result, 0, len(rs))
	for i := range rs {
		r := &rs[i]
		var kids []*node
		if p.Role == nil || r.end != pos+1 {
			kids = r.nodes()
		}
		n := &node{prod: p, from: pos, to: r.end, kids: kids}
		out = append(out, result{end: r.end, errs: r.errs, prec: r.prec, tail: &chain{node: n}})
	}
	return out
}

func (pc *parseContext) matchChoice(c *grammar.Choice, alts []grammar.Term, pos int) []result {
	strategy := pc.grammar.Strategy(c)
	var predicted []grammar.Term
	for _, alt := range alts {
		if pc.predicts(alt, pos) {
			predicted = append(predicted, alt)
		} else {
			pc.expect(pos, alt)
		}
	}

	var reg *region
	if strategy == grammar.Parallel && len(predicted) > 1 {
		reg = &region{start: pos}
		if p := pc.top(); p != nil {
			reg.nonTerm = p.Name
			for _, alt := range predicted {
				reg.labels = append(reg.labels, grammar.HeadLabel(p, alt))
			}
		}
		pc.regions = append(pc.regions, reg)
	}

	var out []result
	if strategy == grammar.Deferred {
		out = pc.matchDeferred(predicted, pos)
	} else {
		var reaches []int
		for _, alt := range predicted {
			outer := pc.reach
			pc.reach = pos
			for _, r := range pc.match(alt, pos) {
				out = merge(out, r)
			}
			if reg != nil {
				reaches = append(reaches, pc.reach)
			}
			pc.extend(outer)
		}
		if reg != nil {
			slices.Sort(reaches)
			reg.alive = reaches[len(reaches)-2]
		}
	}

	if reg != nil {
		pc.regions = pc.regions[:len(pc.regions)-1]
		reg.failed = len(out) == 0
	}

	if strategy == grammar.Specificity && len(out) > 1 {
		longest := out[0]
		for _, r := range out[1:] {
			if r.end > longest.end {
				longest = r
			}
		}
		out = []result{longest}
	}
	return out
}

// matchDeferred keeps matches of the first matching alternative.
// A single role node records labels of other alternatives matching the same tokens as candidates.
func (pc *parseContext) matchDeferred(alts []grammar.Term, pos int) []result {
	var (
		out    []result
		others [][]result
		labels []string
	)
	p := pc.top()
	for _, alt := range alts {
		rs := pc.match(alt, pos)
		if len(rs) == 0 {
			continue
		}

		if out == nil {
			out = append(out, rs...)
		} else if p != nil {
			others = append(others, rs)
			labels = append(labels, grammar.HeadLabel(p, alt))
		}
	}

	for i := range out {
		r := &out[i]
		if r.tail == nil || r.tail.prev != nil || r.tail.node.prod == nil || r.tail.node.prod.Role == nil {
			continue
		}

		var candidates []string
		for j, rs := range others {
			for _, or := range rs {
				if or.end == r.end {
					candidates = append(candidates, labels[j])
					break
				}
			}
		}
		if len(candidates) > 0 {
			n := *r.tail.node
			n.candidates = candidates
			r.tail = &chain{node: &n}
		}
	}
	return out
}

func (pc *parseContext) matchRepeat(t *grammar.Repeat, pos int) []result {
	var out []result
	if t.Min == 0 {
		out = []result{{end: pos}}
	}

	frontier := []result{{end: pos}}
	for count := 1; len(frontier) > 0; count++ {
		far := 0
		for i := range frontier {
			if frontier[i].end > frontier[far].end {
				far = i
			}
		}

		var next []result
		progressed := false
		for i := range frontier {
			for _, ir := range pc.match(t.Item, frontier[i].end) {
				ir := ir // per-iteration copy (go 1.22 loop semantics)
				if ir.end > frontier[i].end {
					next = merge(next, join(&frontier[i], &ir))
					progressed = progressed || i == far
				}
			}
		}

		if !progressed && pc.tolerant && t.Recovery != nil {
			if r, ok := pc.recover(&frontier[far], t); ok {
				next = merge(next, r)
			}
		}

		if count >= t.Min {
			for _, r := range next {
				out = merge(out, r)
			}
		}
		frontier = next
	}
	return out
}

func (pc *parseContext) isStop(pos int, rec *grammar.Recovery) bool {
	t := pc.tokens[pos]
	if t.IsEof() {
		return true
	}

	for _, text := range rec.Before {
		if t.IsWord() && t.Text() == text {
			return true
		}
	}
	return false
}

// recover skips a malformed item: through the first ";" or up to a stop token.
func (pc *parseContext) recover(r *result, t *grammar.Repeat) (result, bool) {
	pos := r.end
	if pc.isStop(pos, t.Recovery) {
		return result{}, false
	}

	end := pos
	for {
		tok := pc.tokens[end]
		end++
		if tok.TypeName() == lexer.OperatorKind && tok.Text() == ";" {
			break
		}
		if pc.isStop(end, t.Recovery) {
			break
		}
	}

	var e *svgrammar.Error
	if pc.farthest >= pos && pc.farthest < end {
		e = unexpectedTokenError(pc.tokens[pc.farthest], pc.expected, pc.farNonTerm)
	} else {
		what := describe(t.Item)
		if p := pc.top(); p != nil {
			what = p.Name
		}
		e = unexpectedTokenError(pc.tokens[pos], nil, what)
	}

	n := &node{from: pos, to: end, err: e}
	return result{end: end, errs: r.errs + 1, prec: r.prec, tail: &chain{n, r.tail}}, true
}

// matchOperand matches operator production p at pos, applying only operators of level minLevel or higher.
func (pc *parseContext) matchOperand(p *grammar.Production, pos, minLevel int) []result {
	body, _ := p.Body.(*grammar.Choice)
	var out []result
	for _, r := range pc.wrap(p, pos, pc.matchChoice(body, p.Alternatives(), pos)) {
		out = merge(out, pc.climb(p, pos, r, minLevel))
	}
	return out
}

// matchPrefix matches a prefix operator alternative, its trailing operand binds at the operator level.
func (pc *parseContext) matchPrefix(p *grammar.Production, t *grammar.Prec, pos int) []result {
	seq, ok := t.Item.(*grammar.Sequence)
	if !ok || len(seq.Items) < 2 {
		return pc.match(t.Item, pos)
	}

	last := len(seq.Items) - 1
	if r, ok := seq.Items[last].(*grammar.Ref); !ok || r.Name != p.Name {
		return pc.match(t.Item, pos)
	}

	rs := []result{{end: pos}}
	for _, item := range seq.Items[:last] {
		rs = pc.step(rs, item)
		if len(rs) == 0 {
			return nil
		}
	}
	return pc.stepOperand(rs, p, t.Level)
}

// climb extends left operand starting at pos with binary operators while any applies.
// The longest application wins, so operators are greedy.
func (pc *parseContext) climb(p *grammar.Production, pos int, left result, minLevel int) result {
	for {
		var best *result
		for _, b := range p.Operators() {
			if b.Level < minLevel {
				continue
			}
			if !pc.predicts(b.Op, left.end) {
				continue
			}

			for _, r := range pc.applyOperator(p, b, pos, &left) {
				r := r // per-iteration copy (go 1.22 loop semantics)
				if best == nil || r.end > best.end || (r.end == best.end && better(&r, best)) {
					applied := r
					best = &applied
				}
			}
		}

		if best == nil {
			return left
		}
		left = *best
	}
}

func (pc *parseContext) applyOperator(p *grammar.Production, b *grammar.Binary, pos int, left *result) []result {
	rs := pc.step([]result{*left}, b.Op)
	if b.Attrs != nil && len(rs) > 0 {
		rs = pc.step(rs, b.Attrs)
	}

	last := len(b.Right) - 1
	for i, item := range b.Right {
		if len(rs) == 0 {
			return nil
		}

		if r, ok := item.(*grammar.Ref); ok && i == last && r.Name == p.Name {
			level := b.Level + 1
			if b.Assoc == grammar.AssocRight {
				level = b.Level
			}
			rs = pc.stepOperand(rs, p, level)
		} else {
			rs = pc.step(rs, item)
		}
	}

	out := make([]result, 0, len(rs))
	for i := range rs {
		r := &rs[i]
		n := &node{prod: p, from: pos, to: r.end, kids: r.nodes()}
		out = append(out, result{end: r.end, errs: r.errs, prec: b.Level, tail: &chain{node: n}})
	}
	return out
}

// stepOperand continues results with the longest operand of p bound at level.
func (pc *parseContext) stepOperand(rs []result, p *grammar.Production, level int) []result {
	var best *result
	for i := range rs {
		pos := rs[i].end
		if !pc.predicts(p.Body, pos) {
			pc.fail(pos, p.Name)
			continue
		}

		for _, or := range pc.matchProd(p, pos, level) {
			or := or // per-iteration copy (go 1.22 loop semantics)
			r := join(&rs[i], &or)
			if best == nil || r.end > best.end || (r.end == best.end && better(&r, best)) {
				best = &r
			}
		}
	}

	if best == nil {
		return nil
	}
	return []result{*best}
}
