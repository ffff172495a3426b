// Package group holds the parser-time bookkeeping for a capture group: the
// position sets the parser accumulates while descending the syntax tree
// (first/last/lazy), plus an optional string-literal trie for purely
// literal top-level alternations. Groups exist only during parsing and
// DFA construction, except the top-level group, which the compiled
// relesk.Program keeps so its string-literal trie stays queryable.
package group

import (
	"fmt"

	"github.com/coregx/ahocorasick"

	"github.com/lesk-go/relesk/position"
)

// Target names one of a Group's owned PositionSets, so callers can act on
// "whichever set" without holding a reference to it.
type Target int

const (
	TargetStart Target = iota
	TargetFirst
	TargetFollow
	TargetLast
	TargetLazy
)

func (t Target) String() string {
	switch t {
	case TargetStart:
		return "start_positions"
	case TargetFirst:
		return "first_positions"
	case TargetFollow:
		return "follow_positions"
	case TargetLast:
		return "last_positions"
	case TargetLazy:
		return "lazy_positions"
	default:
		return "unknown_positions"
	}
}

// Group is the parser's per-group scratch record: first/last position
// sets, nullability, iteration count, the lazy-quantifier bookkeeping, and
// (for a group that's nothing but a top-level alternation of string
// literals) a trie used to recognize those literals quickly.
type Group struct {
	Idx                 uint32
	FirstPositions      position.Set
	LastPositions       position.Set
	SubpatternEndpoints []uint32
	LazyIndex           uint8
	LazySet             position.Set
	Nullable            bool
	Iteration           uint16
	MinPatternLength    uint8

	trieBuilder *ahocorasick.Builder
	trieIndex   map[string]uint32
	trie        *ahocorasick.Automaton
}

// New returns a Group rooted at the given top-level index.
func New(idx uint32) *Group {
	return &Group{Idx: idx, trieIndex: make(map[string]uint32)}
}

// InsertString adds a string literal to the group's prefix trie, recording
// idx as the sub-group that literal belongs to. Building the automaton is
// deferred to Build, since ahocorasick's builder only runs once.
func (g *Group) InsertString(literal string, idx uint32) {
	if g.trieBuilder == nil {
		g.trieBuilder = ahocorasick.NewBuilder()
	}
	g.trieBuilder.AddPattern([]byte(literal))
	g.trieIndex[literal] = idx
}

// Build finalizes the string-literal trie. It is a no-op if InsertString
// was never called. Callers must call Build before using MatchesLiteral.
func (g *Group) Build() error {
	if g.trieBuilder == nil {
		return nil
	}
	automaton, err := g.trieBuilder.Build()
	if err != nil {
		return fmt.Errorf("group %d: building string-literal trie: %w", g.Idx, err)
	}
	g.trie = automaton
	return nil
}

// HasLiteralTrie reports whether this group is a pure alternation of
// string literals with a built trie.
func (g *Group) HasLiteralTrie() bool {
	return g.trie != nil
}

// MatchesLiteral reports whether haystack matches one of the group's
// string-literal alternatives at all.
func (g *Group) MatchesLiteral(haystack []byte) bool {
	return g.trie != nil && g.trie.IsMatch(haystack)
}

// AppendIdxAsLazyAccepted inserts Position(g.Idx) into positions as an
// accept position, tagged with every lazy byte in g.LazySet (or
// untagged, if LazySet is empty). Called only when g is nullable: it
// propagates the accept into the pattern's start positions so a
// nullable subpattern can match the empty string immediately.
func (g *Group) AppendIdxAsLazyAccepted(positions *position.Set) {
	if !g.Nullable {
		return
	}
	g.appendIdxAsAccept(positions)
}

// AppendIdxAsAccept inserts Position(g.Idx) into positions as an accept
// position, lazy-tagged the same way AppendIdxAsLazyAccepted is, but
// unconditionally: every last position of a subpattern needs an accept
// marker in its own followpos regardless of whether the subpattern as a
// whole is nullable, since that's the only thing that lets a non-empty
// match ever terminate.
func (g *Group) AppendIdxAsAccept(positions *position.Set) {
	g.appendIdxAsAccept(positions)
}

func (g *Group) appendIdxAsAccept(positions *position.Set) {
	base := position.New(g.Idx).SetAccept(true)
	if g.LazySet.IsEmpty() {
		positions.Insert(base)
		return
	}
	g.LazySet.ForEach(func(l position.Position) {
		positions.Insert(base.SetLazy(uint8(l.Idx())))
	})
}

// From returns the PositionSet named by target.
func (g *Group) From(target Target) *position.Set {
	switch target {
	case TargetFirst:
		return &g.FirstPositions
	case TargetLast:
		return &g.LastPositions
	case TargetLazy:
		return &g.LazySet
	default:
		panic(fmt.Sprintf("group: %s is not a valid Group-owned target", target))
	}
}

// ExtendWith extends the named target set in place with positions,
// without consuming positions.
func (g *Group) ExtendWith(target Target, positions position.Set) {
	g.From(target).Extend(positions)
}

// Lazify returns a lazy-tagged copy of positions: one copy per member of
// g.LazySet, each tagged with that lazy byte. If g.LazySet is empty,
// Lazify returns positions unchanged (still a copy).
func (g *Group) Lazify(positions position.Set) position.Set {
	if g.LazySet.IsEmpty() {
		return positions.Clone()
	}
	if positions.IsEmpty() {
		return position.Set{}
	}
	out := position.Set{}
	positions.ForEach(func(p position.Position) {
		g.LazySet.ForEach(func(l position.Position) {
			out.Insert(p.SetLazy(uint8(l.Idx())))
		})
	})
	return out
}

// ExtendWithLazy is ExtendWith but lazifies source first.
func (g *Group) ExtendWithLazy(target Target, source position.Set) {
	g.From(target).Extend(g.Lazify(source))
}

// GreedifyOwnSet replaces the named target set with a greedy-tagged
// version of itself: a position that's already lazy is left untouched,
// everything else is marked greedy.
func (g *Group) GreedifyOwnSet(target Target) {
	positions := g.From(target)
	*positions = position.Greedify(*positions)
}

// LazifyOwnSet replaces the named target set with a lazy-tagged version
// of itself, using g.LazySet. A no-op if either set is empty.
func (g *Group) LazifyOwnSet(target Target) {
	positions := g.From(target)
	if positions.IsEmpty() || g.LazySet.IsEmpty() {
		return
	}
	*positions = g.Lazify(*positions)
}

// IncrementLazyIndex bumps the group's lazy-quantifier counter, returning
// an error once it would overflow an 8-bit counter (more than 255 lazy
// quantifiers within one group).
func (g *Group) IncrementLazyIndex() error {
	if g.LazyIndex == 255 {
		return fmt.Errorf("group %d: lazy index exceeds internal field limits", g.Idx)
	}
	g.LazyIndex++
	return nil
}
