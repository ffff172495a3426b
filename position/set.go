package position

import (
	"sort"
	"strconv"
	"strings"
)

// Set is an ordered, deduplicated collection of Positions. It plays two
// roles in the compiler: the first/last position sets tracked during
// parsing, and the identity of a DFA state during subset construction
// (two states with equal Sets are the same state — see Set.Key).
//
// The zero value is an empty set ready to use.
type Set struct {
	items []Position // kept sorted ascending, deduplicated
}

// Of returns a new Set containing the given positions.
func Of(ps ...Position) Set {
	var s Set
	for _, p := range ps {
		s.Insert(p)
	}
	return s
}

// Len returns the number of positions in s.
func (s *Set) Len() int {
	return len(s.items)
}

// IsEmpty reports whether s has no members.
func (s *Set) IsEmpty() bool {
	return len(s.items) == 0
}

// Insert adds p to s if not already present, keeping s sorted.
func (s *Set) Insert(p Position) {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i] >= p })
	if i < len(s.items) && s.items[i] == p {
		return
	}
	s.items = append(s.items, 0)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = p
}

// Contains reports whether p is a member of s.
func (s *Set) Contains(p Position) bool {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i] >= p })
	return i < len(s.items) && s.items[i] == p
}

// Extend inserts every member of other into s.
func (s *Set) Extend(other Set) {
	for _, p := range other.items {
		s.Insert(p)
	}
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	out := Set{items: make([]Position, len(s.items))}
	copy(out.items, s.items)
	return out
}

// Slice returns the members of s in ascending order. The caller must not
// mutate the returned slice.
func (s Set) Slice() []Position {
	return s.items
}

// ForEach calls f for every member of s in ascending order.
func (s Set) ForEach(f func(Position)) {
	for _, p := range s.items {
		f(p)
	}
}

// Key returns a canonical, comparable representation of s suitable for
// use as a Go map key — this is how the compiler's state table recognizes
// that two PositionSets are the identical DFA state (spec invariant:
// "two states produced by the compiler with equal positions are the same
// state").
func (s Set) Key() string {
	var b strings.Builder
	b.Grow(len(s.items) * 17)
	for _, p := range s.items {
		b.WriteString(strconv.FormatUint(uint64(p), 36))
		b.WriteByte(',')
	}
	return b.String()
}

// Equal reports whether s and other contain exactly the same positions.
func (s Set) Equal(other Set) bool {
	if len(s.items) != len(other.items) {
		return false
	}
	for i := range s.items {
		if s.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

// Filter returns the subset of s for which keep returns true.
func (s Set) Filter(keep func(Position) bool) Set {
	var out Set
	for _, p := range s.items {
		if keep(p) {
			out.Insert(p)
		}
	}
	return out
}

// Map returns a new Set containing f(p) for every p in s.
func (s Set) Map(f func(Position) Position) Set {
	var out Set
	for _, p := range s.items {
		out.Insert(f(p))
	}
	return out
}

// Greedify returns a copy of s with every non-lazy member marked greedy;
// members that are already lazy are left untouched.
func Greedify(s Set) Set {
	return s.Map(func(p Position) Position {
		if p.IsLazy() {
			return p
		}
		return p.SetGreedy(true)
	})
}

// TrimLazy implements the lazy-position-trimming pass applied to each
// merged move's position-set during subset construction:
//
//   - Scanning from the high end of the ordered set, and stopping at the
//     first non-lazy position, a lazy accept, anchor, or ticked
//     (lookahead-close) position is retained with its lazy tag cleared,
//     and the lazy positions just below it that carry the same lazy tag
//     are dropped. Ticked positions are always sticky: never removed,
//     never lazified.
//   - That dropped run ends at the first accept/ticked/anchor position
//     or at a different lazy tag.
//   - A lazy but greedy position (outside that run) is promoted to
//     non-lazy rather than removed, and scanning continues past it; a
//     lazy, non-greedy, non-sticky position stops the scan entirely.
//   - Finally, every accepting position beyond the first (by order) is
//     dropped, except a redo (accept id 0) position, which is always
//     kept.
func TrimLazy(s Set) Set {
	items := append([]Position(nil), s.items...)
	removed := make([]bool, len(items))

	sticky := func(p Position) bool {
		return p.IsTicked() || p.IsAccept() || p.IsAnchor()
	}

	i := len(items) - 1
	for i >= 0 {
		if removed[i] {
			i--
			continue
		}
		p := items[i]
		if !p.IsLazy() {
			break
		}
		if sticky(p) {
			items[i] = p.SetLazy(0)
			lazyTag := p.Lazy()
			j := i - 1
			for j >= 0 {
				if removed[j] {
					j--
					continue
				}
				q := items[j]
				if sticky(q) || q.Lazy() != lazyTag {
					break
				}
				removed[j] = true
				j--
			}
			i = j
		} else if p.IsGreedy() {
			items[i] = p.SetLazy(0)
			i--
		} else {
			break
		}
	}

	var out Set
	firstAcceptSeen := false
	for idx, p := range items {
		if removed[idx] {
			continue
		}
		if p.IsAccept() && p.Accepts() != 0 {
			if firstAcceptSeen {
				continue
			}
			firstAcceptSeen = true
		}
		out.Insert(p)
	}
	return out
}
