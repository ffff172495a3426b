// Package parser implements stages 0-4 of the compiler: turning a regex
// string into a followpos map plus a start PositionSet, without ever
// building an NFA with explicit epsilon transitions. Parsing of bracket
// expressions `[...]` is deferred to the compiler package, which
// re-scans the bytes at a bracket position's index when it needs the
// Chars that position matches; at parse time only the span is checked
// for balance.
package parser

import (
	"math"

	"github.com/lesk-go/relesk/char"
	"github.com/lesk-go/relesk/group"
	"github.com/lesk-go/relesk/modifier"
	"github.com/lesk-go/relesk/options"
	"github.com/lesk-go/relesk/position"
	"github.com/lesk-go/relesk/rerror"
)

// metaOps are the bytes that end a run of plain literal text during the
// top-level string-literal fast path.
const metaOps = ".^$([{?*+"

// Result is everything the compiler package needs to run subset
// construction: the followpos relation, the start positions, and the
// regex text itself (character-class/escape resolution at a given
// position is done again, lazily, by the compiler).
type Result struct {
	Regex               []byte
	Options             options.Options
	Modifiers           *modifier.Map
	FollowPositions     map[position.Position]*position.Set
	StartPositions      position.Set
	SubpatternEndpoints []uint32
	TopGroup            *group.Group

	// Lookaheads records each `(?=...)` lookahead's [openIdx, closeIdx]
	// span (the indices of its '(' and ')' bytes) in discovery order; a
	// lookahead's position in this slice is its linear lookahead id.
	Lookaheads [][2]uint32
}

// Parser holds parse-time cursor state. Use Parse, not this type
// directly.
type parser struct {
	opts options.Options
	mods *modifier.Map

	regex []byte
	idx   uint32

	nextGroupIdx uint32
	isFirstGroup bool

	followPositions map[position.Position]*position.Set
	startPositions  position.Set

	lookaheads [][2]uint32

	top *group.Group
}

// abortError is the internal panic payload used to unwind out of deeply
// nested recursive-descent calls on a syntax/limit/semantic error.
type abortError struct{ err *rerror.Error }

// Parse parses regex under opts, returning the followpos relation the
// compiler needs. If opts.RaiseOnError is set, a parse error panics
// with *rerror.Error instead of being returned.
func Parse(regex string, opts options.Options) (result *Result, err error) {
	p := &parser{
		opts:            opts,
		mods:            modifier.NewMap(),
		regex:           []byte(regex),
		followPositions: make(map[position.Position]*position.Set),
		isFirstGroup:    true,
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ab, ok := r.(abortError)
		if !ok {
			panic(r)
		}
		if opts.RaiseOnError {
			panic(ab.err)
		}
		err = ab.err
	}()

	p.top = p.parseTop()

	result = &Result{
		Regex:               p.regex,
		Options:             p.opts,
		Modifiers:           p.mods,
		FollowPositions:     p.followPositions,
		StartPositions:      p.startPositions,
		SubpatternEndpoints: p.top.SubpatternEndpoints,
		TopGroup:            p.top,
		Lookaheads:          p.lookaheads,
	}
	return result, nil
}

func (p *parser) fail(kind rerror.Kind, offset uint32) {
	panic(abortError{rerror.New(kind, offset)})
}

// at returns the character at idx, or NUL past the end of the regex.
func (p *parser) at(idx uint32) byte {
	if int(idx) >= len(p.regex) {
		return 0
	}
	return p.regex[idx]
}

// c returns the character at the cursor.
func (p *parser) c() byte { return p.at(p.idx) }

// ci returns the character at the cursor, then advances it (post-increment).
func (p *parser) ci() byte {
	c := p.at(p.idx)
	p.idx++
	return c
}

// cr advances the cursor, then returns the new character (pre-increment).
func (p *parser) cr() byte {
	p.idx++
	return p.at(p.idx)
}

func (p *parser) nextGroupIndex() uint32 {
	if p.nextGroupIdx == math.MaxUint32 {
		p.fail(rerror.ExceedsLimits, p.idx)
	}
	p.nextGroupIdx++
	return p.nextGroupIdx
}

func (p *parser) eqAt(loc uint32, s string) bool {
	if int(loc)+len(s) > len(p.regex) {
		return false
	}
	return string(p.regex[loc:int(loc)+len(s)]) == s
}

// escapesAt reports whether the cursor at loc holds the escape character
// followed by one of the bytes in escapes, returning that byte.
func (p *parser) escapesAt(loc uint32, escapes string) (byte, bool) {
	if p.opts.HasEscapeCharacter() && p.at(loc) == byte(p.opts.EscapeCharacter) {
		next := p.at(loc + 1)
		for i := 0; i < len(escapes); i++ {
			if escapes[i] == next {
				return next, true
			}
		}
	}
	return 0, false
}

func (p *parser) findAt(idx uint32, c byte) (uint32, bool) {
	for i := idx; int(i) < len(p.regex); i++ {
		if p.regex[i] == c {
			return i, true
		}
	}
	return 0, false
}

func (p *parser) followSet(idx position.Position) *position.Set {
	s, ok := p.followPositions[idx]
	if !ok {
		s = &position.Set{}
		p.followPositions[idx] = s
	}
	return s
}

// parseTop is stage 0: global modifiers, top-level alternation of
// subpatterns (each either a plain string literal or a parsed group).
func (p *parser) parseTop() *group.Group {
	length := uint32(len(p.regex))
	top := group.New(0)

	p.parseGlobalModifiers()

	allLiteral := true
	for {
		top.Idx = p.nextGroupIndex()

		litStart := p.idx
		if lit, ok := p.scanLiteralAlternative(); ok {
			top.InsertString(lit, top.Idx)

			// A literal alternative still becomes part of the DFA: chain
			// one position per byte through the followpos map, ending in
			// an accept marker, exactly as the general path would have.
			prev := position.New(litStart)
			p.startPositions.Insert(prev)
			for i := litStart + 1; i < p.idx; i++ {
				p.followSet(prev).Insert(position.New(i))
				prev = position.New(i)
			}
			p.followSet(prev).Insert(position.New(top.Idx).SetAccept(true))
			top.SubpatternEndpoints = append(top.SubpatternEndpoints, p.idx)
		} else {
			allLiteral = false
			top.LazySet = position.Set{}
			p.parseAnchors(top)
			top.SubpatternEndpoints = append(top.SubpatternEndpoints, p.idx)

			p.startPositions.Extend(top.FirstPositions)
			if top.Nullable {
				top.AppendIdxAsLazyAccepted(&p.startPositions)
			}
			p.appendLastPositionsAsAccept(top)
		}

		if p.ci() != '|' {
			break
		}
	}

	if p.opts.InsensitiveCase {
		p.mods.Set(modifier.ModeI, true, 0, length-1)
	}
	if p.opts.Multiline {
		p.mods.Set(modifier.ModeM, true, 0, length-1)
	}
	if p.opts.SingleLine {
		p.mods.Set(modifier.ModeS, true, 0, length-1)
	}

	// The trie is only finalized when every alternative was a literal, so
	// HasLiteralTrie reports a pure literal alternation.
	if allLiteral {
		if err := top.Build(); err != nil {
			p.fail(rerror.InvalidSyntax, p.idx)
		}
	}

	return top
}

// appendLastPositionsAsAccept propagates g's last positions into the
// global followpos map as accept positions, unconditionally: a
// subpattern needs an accept marker reachable after its last position
// consumes a character whether or not the subpattern as a whole is
// nullable. (Nullability instead gates the separate start-position
// propagation a few lines up in parseTop, via AppendIdxAsLazyAccepted,
// which handles the subpattern matching the empty string immediately.)
func (p *parser) appendLastPositionsAsAccept(g *group.Group) {
	last := g.LastPositions
	last.ForEach(func(pos position.Position) {
		g.AppendIdxAsAccept(p.followSet(pos.IndexWithIter()))
	})
}

// scanLiteralAlternative reports whether the alternative starting at the
// cursor is free of regex metacharacters up to the next '|' or the end
// of the pattern, returning its decoded text. Free-spacing mode disables
// this fast path; under QuoteWithX a '"' (which opens a quoted span) also
// disqualifies the alternative.
func (p *parser) scanLiteralAlternative() (string, bool) {
	if p.opts.XFreeSpacing {
		return "", false
	}
	end := p.idx
	for {
		c := p.at(end)
		if c == 0 || c == '|' {
			break
		}
		if containsByte(metaOps, c) || (p.opts.QuoteWithX && c == '"') ||
			(p.opts.HasEscapeCharacter() && c == byte(p.opts.EscapeCharacter)) {
			return "", false
		}
		end++
	}
	if end == p.idx {
		return "", false
	}
	text := make([]byte, 0, end-p.idx)
	for p.idx < end {
		c := p.ci()
		if p.opts.InsensitiveCase {
			c = byte(char.Char(c).ToLower())
		}
		text = append(text, c)
	}
	return string(text), true
}

func containsByte(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return true
		}
	}
	return false
}

func (p *parser) parseGlobalModifiers() {
	if p.c() != '(' || p.at(p.idx+1) != '?' {
		return
	}
	save := p.idx
	p.idx = 2
	for isAlnum(p.c()) || p.c() == '-' {
		p.idx++
	}
	if p.c() != ')' {
		p.idx = save
		return
	}
	p.idx = 2
	active := true
	for c := p.c(); c != ')'; c = p.cr() {
		switch c {
		case '-':
			active = false
		case 'i':
			p.opts.InsensitiveCase = active
		case 'm':
			p.opts.Multiline = active
		case 'q':
			p.opts.QuoteWithX = active
		case 's':
			p.opts.SingleLine = active
		case 'x':
			p.opts.XFreeSpacing = active
		default:
			p.fail(rerror.InvalidModifier, p.idx)
		}
	}
	p.idx++
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
