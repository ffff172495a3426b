package parser

import (
	"github.com/lesk-go/relesk/group"
	"github.com/lesk-go/relesk/limits"
	"github.com/lesk-go/relesk/position"
	"github.com/lesk-go/relesk/rerror"
)

// parseIterated is stage 3: parse one atom/group via parseGrouped, then
// apply any following *, +, ?, or {n,m} quantifier to it by rewriting
// the group's own first/last/lazy sets and the followpos relation.
func (p *parser) parseIterated(g *group.Group) {
	originalPosition := position.New(p.idx)

	p.parseGrouped(g)

	c := p.c()
	if p.opts.XFreeSpacing {
		for isSpace(c) {
			c = p.cr()
		}
	}

	for {
		switch {
		case c == '*' || c == '+' || c == '?':
			if c == '*' || c == '?' {
				g.Nullable = true
			}
			if p.cr() == '?' {
				if err := g.IncrementLazyIndex(); err != nil {
					p.fail(rerror.ExceedsLimits, p.idx)
				}
				g.LazySet.Insert(position.New(uint32(g.LazyIndex)))
				if g.Nullable {
					g.LazifyOwnSet(group.TargetFirst)
				}
				p.idx++
			} else {
				g.GreedifyOwnSet(group.TargetFirst)
			}

			if c == '+' && !g.Nullable && !g.LazySet.IsEmpty() {
				more := g.Lazify(g.FirstPositions)
				g.LastPositions.ForEach(func(pos position.Position) {
					p.followSet(pos.IndexWithIter()).Extend(more)
				})
				g.FirstPositions.Extend(more)
			} else if c == '*' || c == '+' {
				g.LastPositions.ForEach(func(pos position.Position) {
					p.followSet(pos.IndexWithIter()).Extend(g.FirstPositions)
				})
			}

		case c == '{':
			p.parseBoundedRepeat(g, originalPosition)

		default:
			return
		}
		c = p.c()
	}
}

// parseBoundedRepeat handles `{n,m}`, `{n,}`, and `{n}`, virtually
// unrolling the sub-pattern m-1 more times by shifting the iteration
// field of every involved position.
func (p *parser) parseBoundedRepeat(g *group.Group, originalPosition position.Position) {
	p.idx++ // skip '{'
	k := p.parseDigit()
	if k > int(limits.MaxIter) {
		p.fail(rerror.ExceedsLimits, p.idx)
	}
	n := uint16(k)
	m := n
	unlimited := false

	if p.c() == ',' {
		p.idx++
		if isDigitByte(p.c()) {
			m = uint16(p.parseDigit())
		} else {
			unlimited = true
		}
	}

	if p.c() != '}' {
		p.fail(rerror.InvalidRepeat, p.idx)
	}

	oldNullable := g.Nullable
	if n == 0 {
		g.Nullable = true
	}
	if n > m {
		p.fail(rerror.InvalidRepeat, p.idx)
	}

	if p.cr() == '?' {
		if err := g.IncrementLazyIndex(); err != nil {
			p.fail(rerror.ExceedsLimits, p.idx)
		}
		g.LazySet.Insert(position.New(uint32(g.LazyIndex)))
		if g.Nullable {
			g.LazifyOwnSet(group.TargetFirst)
		}
		p.idx++
	} else if n < m && g.LazySet.IsEmpty() {
		g.GreedifyOwnSet(group.TargetFirst)
	}

	firstPositions := g.FirstPositions
	if !g.Nullable && !g.LazySet.IsEmpty() {
		firstPositions = g.Lazify(g.FirstPositions)
	}

	if g.Nullable && unlimited {
		g.LastPositions.ForEach(func(pos position.Position) {
			p.followSet(pos.IndexWithIter()).Extend(firstPositions)
		})
	} else if m > 0 {
		if g.Iteration != 0 && uint32(g.Iteration)*uint32(m) > uint32(limits.MaxIter) {
			p.fail(rerror.ExceedsLimits, p.idx)
		}

		moreFollow := make(map[position.Position]*position.Set)
		for pos, set := range p.followPositions {
			if pos.Idx() < originalPosition.Idx() {
				continue
			}
			for i := uint16(0); i+1 < m; i++ {
				shift := g.Iteration * (i + 1)
				key := pos.IncrementIter(shift)
				dst, ok := moreFollow[key]
				if !ok {
					dst = &position.Set{}
					moreFollow[key] = dst
				}
				set.ForEach(func(q position.Position) {
					dst.Insert(q.IncrementIter(shift))
				})
			}
		}
		for key, set := range moreFollow {
			p.followSet(key).Extend(*set)
		}

		for i := uint16(0); i+1 < m; i++ {
			g.LastPositions.ForEach(func(k position.Position) {
				firstPositions.ForEach(func(j position.Position) {
					p.followSet(k.IndexWithIter().IncrementIter(g.Iteration * i)).
						Insert(j.IncrementIter(g.Iteration * (i + 1)))
				})
			})
		}
		if unlimited {
			g.LastPositions.ForEach(func(k position.Position) {
				firstPositions.ForEach(func(j position.Position) {
					p.followSet(k.IndexWithIter().IncrementIter(g.Iteration * (m - 1))).
						Insert(j.IncrementIter(g.Iteration * (m - 1)))
				})
			})
		}
		if oldNullable {
			var more position.Set
			for i := uint16(1); i < m; i++ {
				firstPositions.ForEach(func(k position.Position) {
					more.Insert(k.IncrementIter(g.Iteration * i))
				})
			}
			g.FirstPositions.Extend(more)
		}

		var newLast position.Set
		start := n - 1
		if g.Nullable {
			start = 0
		}
		for i := start; i < m; i++ {
			g.LastPositions.ForEach(func(k position.Position) {
				newLast.Insert(k.IncrementIter(g.Iteration * i))
			})
		}
		g.LastPositions = newLast
		g.Iteration *= m
	} else {
		g.FirstPositions = position.Set{}
		g.LastPositions = position.Set{}
		g.LazySet = position.Set{}
	}
}

func (p *parser) parseDigit() int {
	k := 0
	for isDigitByte(p.c()) {
		k = k*10 + int(p.ci()-'0')
	}
	return k
}

func isDigitByte(c byte) bool {
	return c >= '0' && c <= '9'
}
