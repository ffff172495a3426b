// Package state defines the DFA node produced by subset construction: a
// PositionSet identity, an ordered set of character-range edges to other
// states, lookahead head/tail sets, and the bookkeeping the two-pass
// opcode encoder needs (first/index offsets).
//
// DFA cycles (every non-trivial automaton has them) mean states hold
// pointers to each other freely; the garbage collector keeps them
// alive, so states here are plain arena-held pointers —
// see DESIGN.md's Open Question resolution on state storage.
package state

import (
	"fmt"
	"sort"

	"github.com/lesk-go/relesk/char"
	"github.com/lesk-go/relesk/position"
)

// Edge is one character-range transition out of a State.
type Edge struct {
	Lo, Hi char.Char
	Target *State
}

// State is one node of the compiled DFA: its identity is Positions (two
// states discovered with equal PositionSets during subset construction
// are the same state), plus the discovery-order Next link, edges,
// opcode-offset bookkeeping, and lookahead sets for group accept
// disambiguation.
type State struct {
	Positions position.Set

	// ID is the arena index the compiler assigned this state at
	// creation time (0 for the start state, then increasing in
	// discovery order). It's distinct from First/Index, which are
	// opcode-table offsets assigned later by the encoder; ID exists so
	// traversals that need a dense, bounded handle (the predictor's
	// visited-state tracking, via internal/sparse) don't have to wait
	// for encoding to happen first.
	ID uint32

	// Next links states in the order subset construction discovered
	// them — not a DFA transition, just a traversal order used when
	// walking every state (e.g. during opcode encoding).
	Next *State

	Edges []Edge

	// First and Index are opcode-table offsets: First is fixed by the
	// encoder's first pass (before long-jump promotion can change
	// sizes), Index is the final offset after promotion.
	First uint32
	Index uint32

	// Accept is nonzero when this is a final state, naming which
	// subpattern/group it accepts.
	Accept uint32

	Heads, Tails LookaheadSet

	// Redo marks an ignorable final state (accept pops back into a
	// live continuation rather than truly terminating).
	Redo bool
}

// LookaheadSet is a small ordered set of lookahead group indices.
type LookaheadSet struct {
	items []uint16
}

// Insert adds v to the set if absent, keeping it sorted.
func (s *LookaheadSet) Insert(v uint16) {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i] >= v })
	if i < len(s.items) && s.items[i] == v {
		return
	}
	s.items = append(s.items, 0)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = v
}

// Contains reports whether v is a member of the set.
func (s LookaheadSet) Contains(v uint16) bool {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i] >= v })
	return i < len(s.items) && s.items[i] == v
}

// Slice returns the set's members in ascending order.
func (s LookaheadSet) Slice() []uint16 { return s.items }

// IsEmpty reports whether the set has no members.
func (s LookaheadSet) IsEmpty() bool { return len(s.items) == 0 }

// New returns a freshly allocated State identified by positions.
func New(positions position.Set) *State {
	return &State{Positions: positions}
}

// AddEdge appends a transition for the inclusive char range [lo, hi] to
// target, keeping Edges sorted by Lo. Subset construction is expected to
// hand edges already range-compacted and non-overlapping — AddEdge does
// not merge adjacent ranges itself.
func (s *State) AddEdge(lo, hi char.Char, target *State) {
	i := sort.Search(len(s.Edges), func(i int) bool { return s.Edges[i].Lo >= lo })
	s.Edges = append(s.Edges, Edge{})
	copy(s.Edges[i+1:], s.Edges[i:])
	s.Edges[i] = Edge{Lo: lo, Hi: hi, Target: target}
}

// EdgeFor returns the edge covering c, if any.
func (s *State) EdgeFor(c char.Char) (Edge, bool) {
	i := sort.Search(len(s.Edges), func(i int) bool { return s.Edges[i].Hi >= c })
	if i < len(s.Edges) && s.Edges[i].Lo <= c {
		return s.Edges[i], true
	}
	return Edge{}, false
}

// IsAccept reports whether this state is a final (accepting) state.
func (s *State) IsAccept() bool {
	return s.Accept != 0
}

// TrimLazy runs the lazy-position-trimming pass over s's identity set.
func (s *State) TrimLazy() {
	s.Positions = position.TrimLazy(s.Positions)
}

// String renders the state for debug logs as its opcode-table index.
func (s *State) String() string {
	return fmt.Sprintf("state<%d>", s.Index)
}

// NextStates walks the Next-linked discovery chain starting at s,
// calling f for every state including s itself.
func NextStates(s *State, f func(*State)) {
	for cur := s; cur != nil; cur = cur.Next {
		f(cur)
	}
}
