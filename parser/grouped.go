package parser

import (
	"github.com/lesk-go/relesk/group"
	"github.com/lesk-go/relesk/modifier"
	"github.com/lesk-go/relesk/position"
	"github.com/lesk-go/relesk/rerror"
)

// parseGrouped is stage 4: parse a single atom — a parenthesized group,
// a lookahead, a bracket expression, a quoted literal, or an ordinary
// (possibly escaped) character.
func (p *parser) parseGrouped(g *group.Group) {
	g.FirstPositions = position.Set{}
	g.LastPositions = position.Set{}
	g.LazySet = position.Set{}
	g.Nullable = true
	g.Iteration = 1

	c := p.c()

	switch {
	case c == '(':
		p.parseParenGroup(g)

	case c == '[':
		p.parseBracket(g)

	case (c == '"' && p.opts.QuoteWithX) || p.escapeLetterAt(p.idx) == 'Q':
		p.parseQuoted(g)

	case c == '#' && p.opts.XFreeSpacing:
		if nl, ok := p.findAt(p.idx, '\n'); ok {
			p.idx = nl + 1
		} else {
			p.idx = uint32(len(p.regex))
		}

	case isSpace(c) && p.opts.XFreeSpacing:
		p.idx++

	case c == ')':
		p.fail(rerror.MismatchedParens, p.idx)

	case c == '}':
		p.fail(rerror.MismatchedBraces, p.idx)

	case c != 0 && c != '|' && c != '?' && c != '*' && c != '+':
		g.FirstPositions.Insert(position.New(p.idx))
		g.LastPositions.Insert(position.New(p.idx))
		g.Nullable = false
		if p.opts.HasEscapeCharacter() && c == byte(p.opts.EscapeCharacter) {
			_, newIdx, err := DecodeEscape(p.regex, p.idx, p.opts, nil)
			if err != nil {
				p.fail(rerror.InvalidEscape, p.idx)
			}
			p.idx = newIdx
		} else {
			p.idx++
		}

	case p.isFirstGroup && c != 0:
		p.fail(rerror.EmptyExpression, p.idx)
	}
}

// escapeLetterAt returns the letter following the escape character at
// loc, or 0 if loc doesn't hold an escape.
func (p *parser) escapeLetterAt(loc uint32) byte {
	if p.opts.HasEscapeCharacter() && p.at(loc) == byte(p.opts.EscapeCharacter) {
		return p.at(loc + 1)
	}
	return 0
}

func (p *parser) parseParenGroup(g *group.Group) {
	c := p.cr()
	closeParen := true

	if c == '?' {
		c = p.cr()
		switch {
		case c == '#':
			if end, ok := p.findAt(p.idx, ')'); ok {
				p.idx = end + 1
			} else {
				p.fail(rerror.MismatchedParens, p.idx)
			}
			closeParen = false

		case c == '^':
			p.idx++
			p.parseAlternations(g)
			g.LastPositions.ForEach(func(pos position.Position) {
				p.followSet(pos.IndexWithIter()).Insert(position.New(0).SetAccept(true))
			})

		case c == '=':
			lookaheadStart := position.New(p.idx - 2)
			p.idx++
			p.parseAlternations(g)

			g.FirstPositions.Insert(lookaheadStart)
			if g.Nullable {
				g.LastPositions.Insert(lookaheadStart)
			}

			ticked := position.New(p.idx).SetTicked(true)
			g.LastPositions.ForEach(func(pos position.Position) {
				p.followSet(pos.IndexWithIter()).Insert(ticked)
			})
			g.LastPositions.Insert(ticked)
			if g.Nullable {
				g.FirstPositions.Insert(ticked)
				g.LastPositions.Insert(lookaheadStart)
			}

			p.lookaheads = append(p.lookaheads, [2]uint32{lookaheadStart.Idx(), ticked.Idx()})

		case c == ':':
			p.idx++
			p.parseAlternations(g)

		default:
			p.parseInlineModifiers(g, c)
			closeParen = false
		}
	} else {
		p.parseAlternations(g)
	}

	if closeParen {
		if p.c() == ')' {
			p.idx++
		} else {
			p.fail(rerror.MismatchedParens, p.idx)
		}
	}
}

// parseInlineModifiers handles `(?imqsx-imqsx:...)` and `(?imqsx-imqsx)φ`:
// a run of mode letters (optionally after a '-'), then the subpattern
// those modes apply to.
func (p *parser) parseInlineModifiers(g *group.Group, first byte) {
	modifierStart := p.idx
	savedQuote, savedFree := p.opts.QuoteWithX, p.opts.XFreeSpacing
	active := true
	c := first

	for {
		switch {
		case c == '-':
			active = false
		case c == 'q':
			p.opts.QuoteWithX = active
		case c == 'x':
			p.opts.XFreeSpacing = active
		case c != 'i' && c != 'm' && c != 's':
			p.fail(rerror.InvalidModifier, p.idx)
		}
		c = p.cr()
		if c == 0 || c == ':' || c == ')' {
			break
		}
	}
	if c != 0 {
		p.idx++
	}

	p.parseAlternations(g)

	active = true
	loc := modifierStart
	for {
		c = p.at(loc)
		loc++
		if c == '-' {
			active = false
		} else if c != 0 && c != 'q' && c != 'x' && c != ':' && c != ')' {
			mode, _, ok := modifier.ModeFromByte(c)
			if ok {
				p.mods.Set(mode, active, loc, p.idx)
			}
		}
		if c == 0 || c == ':' || c == ')' {
			break
		}
	}

	// A modifier run ending in ')' (the `(?imqsx)rest` form) has already
	// consumed its paren; only the `(?imqsx:...)` form still owes one.
	if c != ')' {
		if p.c() == ')' {
			p.idx++
		} else {
			p.fail(rerror.MismatchedParens, p.idx)
		}
	}

	p.opts.QuoteWithX = savedQuote
	p.opts.XFreeSpacing = savedFree
}

// parseAlternations is stage 1: alternatives joined by '|' within one
// group, merging each branch's first/last/lazy sets and nullability.
func (p *parser) parseAlternations(g *group.Group) {
	p.parseAnchors(g)

	for p.c() == '|' {
		p.idx++
		branch := group.New(g.Idx)
		branch.LazyIndex = g.LazyIndex
		p.parseAnchors(branch)

		g.FirstPositions.Extend(branch.FirstPositions)
		g.LastPositions.Extend(branch.LastPositions)
		g.LazySet.Extend(branch.LazySet)
		g.Nullable = g.Nullable || branch.Nullable
		if branch.Iteration > g.Iteration {
			g.Iteration = branch.Iteration
		}
	}
}

// parseBracket records a bracket expression's span; resolving it into a
// Chars set is deferred to the compiler package, which re-reads
// p.regex[idx:] starting at this same index.
func (p *parser) parseBracket(g *group.Group) {
	start := p.idx
	g.FirstPositions.Insert(position.New(start))
	g.LastPositions.Insert(position.New(start))
	g.Nullable = false

	c := p.cr()
	if c == '^' {
		c = p.cr()
	}
	for c != 0 {
		if c == '[' && p.at(p.idx+1) == ':' {
			if closeLoc, ok := p.findAt(p.idx+2, ':'); ok && p.at(closeLoc+1) == ']' {
				p.idx = closeLoc + 1
			}
		} else if p.opts.HasEscapeCharacter() && c == byte(p.opts.EscapeCharacter) && p.opts.BracketEscapes {
			p.idx++
		}
		c = p.cr()
		if c == ']' {
			break
		}
	}
	if c == 0 {
		p.fail(rerror.MismatchedBrackets, p.idx)
	}
	p.idx++
}

// parseQuoted handles `"..."` (when QuoteWithX is set) and `\Q...\E`
// literal quoting: every character in the quoted span becomes its own
// position, concatenated via the followpos map, with no metacharacter
// interpretation (escape decoding for \a\b\t\n\v\f\r-style sequences
// still applies).
func (p *parser) parseQuoted(g *group.Group) {
	doubleQuotes := p.c() == '"'
	if !doubleQuotes {
		p.idx++
	}

	p.cr()
	c := p.c()

	atClose := func() bool {
		if doubleQuotes {
			return c == '"'
		}
		return p.opts.HasEscapeCharacter() && c == byte(p.opts.EscapeCharacter) && p.at(p.idx+1) == 'E'
	}

	if c != 0 && !atClose() {
		quoteStart := p.idx
		g.FirstPositions.Insert(position.New(p.idx))
		var prev position.Position = position.NPos
		for {
			if doubleQuotes && p.opts.HasEscapeCharacter() && c == byte(p.opts.EscapeCharacter) && p.at(p.idx+1) == '"' {
				p.idx++
			}
			if prev != position.NPos {
				p.followSet(prev.IndexWithIter()).Insert(position.New(p.idx))
			}
			prev = position.New(p.idx)
			p.idx++
			c = p.c()
			if c == 0 || (doubleQuotes && c == '"') || (!doubleQuotes && atClose()) {
				break
			}
		}
		g.LastPositions.Insert(prev)
		g.Nullable = false
		p.mods.Set(modifier.ModeQ, true, quoteStart, prev.Idx())
	}

	if !doubleQuotes && p.c() != 0 {
		p.idx++
	}
	if p.c() != 0 {
		p.idx++
	} else {
		p.fail(rerror.MismatchedQuotation, p.idx)
	}
}
