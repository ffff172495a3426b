// Package compiler runs subset construction over a parser.Result: turning
// the followpos relation into a DFA of *state.State nodes connected by
// compressed character-range edges, with lookahead groups resolved into
// Head/Tail markers on the states that open and close them.
//
// A scratch Compiler struct holds the position-set-keyed state table and
// the discovery-order chain behind a single exported Compile entry point;
// new states are built by recursion from stateFor.
package compiler

import (
	"sort"

	"github.com/lesk-go/relesk/char"
	"github.com/lesk-go/relesk/parser"
	"github.com/lesk-go/relesk/position"
	"github.com/lesk-go/relesk/state"
)

// Compiler holds the state table and discovery-order chain used during
// subset construction. Use Compile, not this type directly.
type Compiler struct {
	result *parser.Result

	states map[string]*state.State
	head   *state.State
	tail   *state.State
	nextID uint32

	// openToID/closeToID map a lookahead's '(' / ')' regex index to its
	// linear lookahead id (its position in result.Lookaheads).
	openToID  map[uint32]uint16
	closeToID map[uint32]uint16
}

// Compile runs subset construction over result, returning the DFA's
// start state. Every state reachable from it is linked via its Next
// field in discovery order.
func Compile(result *parser.Result) (*state.State, error) {
	c := &Compiler{
		result:    result,
		states:    make(map[string]*state.State),
		openToID:  make(map[uint32]uint16, len(result.Lookaheads)),
		closeToID: make(map[uint32]uint16, len(result.Lookaheads)),
	}
	for i, span := range result.Lookaheads {
		id := uint16(i)
		c.openToID[span[0]] = id
		c.closeToID[span[1]] = id
	}

	start, err := c.stateFor(result.StartPositions)
	if err != nil {
		return nil, err
	}
	return start, nil
}

// stateFor returns the (possibly newly built) state identified by raw,
// trimming lazy positions first so that two raw sets trimming to the
// same identity share one state.
func (c *Compiler) stateFor(raw position.Set) (*state.State, error) {
	trimmed := position.TrimLazy(raw)
	key := trimmed.Key()
	if existing, ok := c.states[key]; ok {
		return existing, nil
	}

	st := state.New(trimmed)
	st.ID = c.nextID
	c.nextID++
	c.states[key] = st
	c.link(st)

	c.markAcceptAndLookaheads(st, trimmed)

	if err := c.buildEdges(st, trimmed); err != nil {
		return nil, err
	}
	return st, nil
}

// link appends st to the discovery-order Next chain.
func (c *Compiler) link(st *state.State) {
	if c.head == nil {
		c.head = st
		c.tail = st
		return
	}
	c.tail.Next = st
	c.tail = st
}

// markAcceptAndLookaheads scans positions for accept markers (real
// subpattern ids, and the id-0 "redo" marker a `(?^...)` ignorable group
// inserts) and for lookahead open/close markers, setting st's Accept,
// Redo, Heads and Tails accordingly.
func (c *Compiler) markAcceptAndLookaheads(st *state.State, positions position.Set) {
	positions.ForEach(func(p position.Position) {
		switch {
		case p.IsAccept():
			if p.Accepts() == 0 {
				st.Redo = true
			} else if st.Accept == 0 {
				st.Accept = p.Accepts()
			}
		case p.IsTicked():
			if id, ok := c.closeToID[p.Idx()]; ok {
				st.Tails.Insert(id)
			}
		default:
			if id, ok := c.openToID[p.Idx()]; ok {
				st.Heads.Insert(id)
			}
		}
	})
}

// move is one position's contribution to a state's outgoing transitions:
// it matches chars and, on a match, proceeds to follow.
type move struct {
	chars  char.Chars
	follow *position.Set
}

// buildEdges computes st's outgoing transitions: every ordinary
// (non-accept, non-ticked, non-lookahead-marker) position in positions
// contributes the Chars it matches and the followpos set reached by
// consuming one of them; overlapping contributions are partitioned into
// a disjoint cover and adjacent equal-target ranges are merged before
// being materialized as edges, keeping the DFA's edge list compact.
func (c *Compiler) buildEdges(st *state.State, positions position.Set) error {
	var moves []move

	var failErr error
	positions.ForEach(func(p position.Position) {
		if failErr != nil {
			return
		}
		if p.IsAccept() || p.IsTicked() {
			return
		}
		if p.IsLazy() && p.IsGreedy() {
			return
		}
		if _, ok := c.openToID[p.Idx()]; ok {
			return
		}

		chars, err := charsForPosition(c.result.Regex, p, c.result.Modifiers, c.result.Options)
		if err != nil {
			failErr = err
			return
		}
		follow := c.followFor(p)
		if follow == nil || follow.IsEmpty() {
			return
		}
		moves = append(moves, move{chars: chars, follow: follow})
	})
	if failErr != nil {
		return failErr
	}
	if len(moves) == 0 {
		return nil
	}

	for _, part := range partition(moves) {
		target, err := c.stateFor(part.follow)
		if err != nil {
			return err
		}
		st.AddEdge(part.lo, part.hi, target)
	}
	return nil
}

// followFor looks up p's followpos set. A non-lazy position uses its
// base (index+iteration) entry directly. A lazy position gets its own
// variant entry, synthesized on first request by copying the base entry
// while propagating p's lazy tag to every non-ticked successor; the
// variant is memoized back into the map under the full lazy-tagged key,
// so each distinct (position, lazy tag) pair is synthesized at most
// once.
func (c *Compiler) followFor(p position.Position) *position.Set {
	base := p.IndexWithIter()
	if !p.IsLazy() {
		return c.result.FollowPositions[base]
	}
	key := base.SetLazy(p.Lazy())
	if s, ok := c.result.FollowPositions[key]; ok {
		return s
	}
	src := c.result.FollowPositions[base]
	if src == nil {
		return nil
	}
	variant := &position.Set{}
	src.ForEach(func(q position.Position) {
		if !q.IsTicked() {
			q = q.SetLazy(p.Lazy())
		}
		variant.Insert(q)
	})
	c.result.FollowPositions[key] = variant
	return variant
}

// partitionRange is one maximal run of characters sharing the same
// merged follow set, ready to become a single edge.
type partitionRange struct {
	lo, hi char.Char
	follow position.Set
}

// partition turns a set of (possibly overlapping) character ranges, each
// tagged with the followpos set reached by consuming that character,
// into a disjoint cover: for every elementary sub-range, the union of
// every move's follow set whose chars cover it. Adjacent elementary
// ranges that resolve to the identical follow set are merged into one
// partitionRange, which is what keeps e.g. `[a-zA-Z]` down to a small
// number of edges instead of one per byte.
func partition(moves []move) []partitionRange {
	boundSet := map[char.Char]bool{}
	for _, m := range moves {
		for _, r := range m.chars.Ranges() {
			boundSet[r[0]] = true
			if r[1] < char.MetaMAX {
				boundSet[r[1]+1] = true
			}
		}
	}
	bounds := make([]char.Char, 0, len(boundSet))
	for b := range boundSet {
		bounds = append(bounds, b)
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i] < bounds[j] })

	var elementary []partitionRange
	for i := 0; i+1 < len(bounds); i++ {
		lo := bounds[i]
		hi := bounds[i+1] - 1
		if hi < lo {
			continue
		}
		var union position.Set
		for _, m := range moves {
			if m.chars.Contains(lo) {
				union.Extend(*m.follow)
			}
		}
		if union.IsEmpty() {
			continue
		}
		elementary = append(elementary, partitionRange{lo: lo, hi: hi, follow: union})
	}

	return mergeAdjacent(elementary)
}

// mergeAdjacent coalesces consecutive elementary ranges that share an
// identical follow-set identity into one wider range.
func mergeAdjacent(ranges []partitionRange) []partitionRange {
	if len(ranges) == 0 {
		return nil
	}
	out := ranges[:1]
	for _, r := range ranges[1:] {
		last := &out[len(out)-1]
		if last.hi+1 == r.lo && last.follow.Key() == r.follow.Key() {
			last.hi = r.hi
			continue
		}
		out = append(out, r)
	}
	return out
}
