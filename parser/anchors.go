package parser

import (
	"github.com/lesk-go/relesk/group"
	"github.com/lesk-go/relesk/position"
)

// anchorEscapes are the escape letters recognized as zero-width anchors:
// \A (start of input), \B (non-word boundary), \b (word boundary),
// \< (start of word), \> (end of word).
const anchorEscapes = "ABb<>"

// indentEscapes are \i (indent) and \j (dedent), recognized but not
// carried further than ending the anchor-scanning loop — matching the
// original, which stops scanning on them without consuming.
const indentEscapes = "ij"

// parseAnchors is stage 2: consume any leading anchors (only meaningful
// at the very start of the whole pattern), then concatenate iterated
// atoms via parseIterated, finally tying the group's last positions to
// the anchors collected at the front.
func (p *parser) parseAnchors(g *group.Group) {
	var anchorPositions position.Set

	if p.isFirstGroup {
		for {
			if p.opts.XFreeSpacing {
				for isSpace(p.c()) {
					p.idx++
				}
			}
			if p.c() == '^' {
				anchorPositions.Insert(position.New(uint32(p.idx)))
				p.idx++
				p.isFirstGroup = false
				continue
			}
			if _, ok := p.escapesAt(p.idx, anchorEscapes); ok {
				anchorPositions.Insert(position.New(p.idx))
				p.idx += 2
				p.isFirstGroup = false
				continue
			}
			if _, ok := p.escapesAt(p.idx, indentEscapes); ok {
				p.isFirstGroup = false
				break
			}
			break
		}
	}

	p.parseIterated(g)

	newGroup := group.New(g.Idx)
	newGroup.LazyIndex = g.LazyIndex

	for c := p.c(); c != 0 && c != '|' && c != ')'; c = p.c() {
		p.parseIterated(newGroup)

		if !g.LazySet.IsEmpty() {
			lazyFirst := g.Lazify(newGroup.FirstPositions)
			newGroup.FirstPositions.Extend(lazyFirst)
		}

		if g.Nullable {
			g.FirstPositions.Extend(newGroup.FirstPositions)
		}

		g.LastPositions.ForEach(func(pos position.Position) {
			p.followSet(pos.IndexWithIter()).Extend(newGroup.FirstPositions)
		})

		if newGroup.Nullable {
			g.LastPositions.Extend(newGroup.LastPositions)
			g.LazySet.Extend(newGroup.LazySet)
		} else {
			g.LastPositions, newGroup.LastPositions = newGroup.LastPositions, g.LastPositions
			g.LazySet, newGroup.LazySet = newGroup.LazySet, g.LazySet
			g.Nullable = false
		}

		if newGroup.Iteration > g.Iteration {
			g.Iteration = newGroup.Iteration
		}

		newGroup = group.New(g.Idx)
		newGroup.LazyIndex = g.LazyIndex
	}

	anchorPositions.ForEach(func(a position.Position) {
		g.LastPositions.ForEach(func(k position.Position) {
			sticky := !g.Nullable || k.IndexWithIter() != a.IndexWithIter()
			p.followSet(k.IndexWithIter()).Insert(a.SetAnchor(sticky))
		})

		g.LastPositions = position.Of(a)
		if g.Nullable {
			g.FirstPositions.Insert(a)
			g.Nullable = false
		}
	})
}
