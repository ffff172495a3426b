// Package predictor synthesizes fast-match accelerator tables: a
// breadth-first traversal of the compiled DFA, to a fixed depth, that
// records which bytes (and which rolling byte-pair hashes) can possibly
// occur at each position of a match, plus the literal prefix a pattern
// is guaranteed to start with when the DFA's first states are
// unbranching.
//
// The traversal uses internal/sparse.SparseSet for O(1) membership
// testing over a bounded integer universe (state IDs) during the walk.
package predictor

import (
	"github.com/lesk-go/relesk/char"
	"github.com/lesk-go/relesk/internal/sparse"
	"github.com/lesk-go/relesk/limits"
	"github.com/lesk-go/relesk/literal"
	"github.com/lesk-go/relesk/options"
	"github.com/lesk-go/relesk/state"
)

// MaxDepth is the fixed exploration depth of the predictor's
// breadth-first traversal.
const MaxDepth = 8

// MaxPrefixLen bounds the literal prefix Tables.Prefix may collapse to.
const MaxPrefixLen = 255

// Tables holds the three accelerator bitmaps plus the literal-prefix
// and minimum-match-length summary the wire format carries.
type Tables struct {
	// Prefix is the literal byte sequence the DFA is guaranteed to
	// consume first. Complete (and OnePreString) when the whole pattern
	// collapses to this one literal.
	Prefix literal.Prefix

	// OnePreString is true iff every state along Prefix had exactly one
	// outgoing single-byte edge and the chain ended on a final state with
	// no way to continue, collapsing the whole DFA into a literal the
	// runtime can compare verbatim instead of interpreting opcodes.
	OnePreString bool

	// MinPatternLength is the smallest depth at which a match can
	// complete, capped at MaxDepth.
	MinPatternLength uint8

	// PredictionBitmap[c] has bit k set iff byte c may appear at depth k
	// of some match, for k < MinPatternLength.
	PredictionBitmap [256]byte

	// MatchHashes[h] has bit k set iff the rolling hash h may occur at
	// depth k of some match. At depth 0 the index is the byte value
	// itself; deeper entries are keyed by hashByte over the previous
	// depth's label.
	MatchHashes [limits.HashMaxIdx]byte

	// MatchArray[h] is the finer-grained, depth-aware table used in
	// place of MatchHashes when MinPatternLength < 4: per depth k < 4 it
	// tracks bit 6-2k for reachability and bit 7-2k for
	// match-completion.
	MatchArray [limits.HashMaxIdx]byte
}

// Build runs the predictor over the DFA rooted at start and returns the
// resulting Tables. For a pattern that collapses entirely into its
// literal prefix the bitmap traversal is skipped: the runtime compares
// the prefix verbatim, so only the minimum length is recorded. opts is
// consulted at serialization time (Bytes), not here.
func Build(start *state.State, opts options.Options) *Tables {
	_ = opts // table selection happens in Bytes
	t := &Tables{MinPatternLength: MaxDepth}

	end := buildPrefix(start, t)

	if end != nil && !t.OnePreString {
		buildBitmaps(start, t)
	} else {
		n := t.Prefix.Len()
		if n > MaxDepth {
			n = MaxDepth
		}
		t.MinPatternLength = uint8(n)
	}

	mask := byte(1<<t.MinPatternLength) - 1
	for i := range t.PredictionBitmap {
		t.PredictionBitmap[i] &= mask
	}
	return t
}

// buildPrefix collapses the DFA's unbranching entry states into a
// literal byte prefix and decides the one-pre-string flag, returning the
// state the prefix walk stopped on.
func buildPrefix(start *state.State, t *Tables) *state.State {
	t.OnePreString = true
	cur := start
	var prefix []byte

	for cur.Accept == 0 {
		if len(cur.Edges) != 1 {
			t.OnePreString = false
			break
		}
		e := cur.Edges[0]
		if e.Lo.IsMeta() || e.Lo != e.Hi || len(prefix) >= MaxPrefixLen {
			t.OnePreString = false
			break
		}
		prefix = append(prefix, byte(e.Lo))
		cur = e.Target
	}

	// A final state that can still continue matching means the pattern
	// is more than its literal prefix.
	if cur.Accept != 0 && len(cur.Edges) > 0 {
		t.OnePreString = false
	}

	t.Prefix = literal.New(prefix, t.OnePreString)
	return cur
}

// frontierEntry is the per-state bookkeeping the breadth-first walk
// carries between depths: the 9-bit rolling-hash labels of every path
// reaching the state.
type frontierEntry struct {
	st     *state.State
	labels map[uint16]struct{}
}

// buildBitmaps runs the depth-bounded BFS populating PredictionBitmap,
// MatchHashes, MatchArray and MinPatternLength.
func buildBitmaps(start *state.State, t *Tables) {
	total := uint32(0)
	state.NextStates(start, func(*state.State) { total++ })
	seen := sparse.NewSparseSet(total + 1)

	frontier := []frontierEntry{{st: start}}

	for depth := 0; depth < MaxDepth && len(frontier) > 0; depth++ {
		seen.Clear()
		next := make(map[uint32]*frontierEntry)
		var nextOrder []uint32

		for _, fe := range frontier {
			for _, edge := range fe.st.Edges {
				if edge.Lo.IsMeta() {
					// Edges are sorted, so the metas are last; a match can
					// complete here without consuming another byte.
					if depth == 0 {
						t.MinPatternLength = 0
					}
					break
				}

				ends := matchEndsAfter(edge.Target, depth)
				if ends && (depth == 0 || t.MinPatternLength > uint8(depth)) {
					t.MinPatternLength = uint8(depth) + 1
				}

				if depth > 0 && depth >= 4 && uint8(depth) > t.MinPatternLength {
					continue
				}

				carry := depth < MaxDepth-1 && propagates(edge.Target)

				for c := uint16(edge.Lo); c <= uint16(edge.Hi); c++ {
					if depth == 0 {
						t.PredictionBitmap[c] |= 1
						t.MatchHashes[c] |= 1
						if ends {
							t.MatchArray[c] |= 1 << 7
						}
						t.MatchArray[c] |= 1 << 6
						if carry {
							addLabel(next, &nextOrder, seen, edge.Target, char.Char(c).Hash())
						}
						continue
					}

					if uint8(depth) <= t.MinPatternLength {
						t.PredictionBitmap[c] |= 1 << uint(depth)
					}
					for label := range fe.labels {
						h := hashByte(label, byte(c))
						t.MatchHashes[h] |= 1 << uint(depth)
						if depth < 4 {
							if depth == 3 || ends {
								t.MatchArray[h] |= 1 << uint(7-2*depth)
							}
							t.MatchArray[h] |= 1 << uint(6-2*depth)
						}
						if carry {
							addLabel(next, &nextOrder, seen, edge.Target, char.Char(h).Hash())
						}
					}
				}
			}
		}

		frontier = frontier[:0]
		for _, id := range nextOrder {
			frontier = append(frontier, *next[id])
		}
	}
}

// matchEndsAfter reports whether consuming an edge into target at the
// given depth can complete a match: the target accepts, the exploration
// horizon is reached, or the target continues only through zero-width
// meta conditions.
func matchEndsAfter(target *state.State, depth int) bool {
	if depth >= MaxDepth-1 || target.Accept != 0 {
		return true
	}
	for _, e := range target.Edges {
		if e.Lo.IsMeta() {
			return true
		}
	}
	return false
}

// propagates reports whether the walk should keep exploring past target:
// a state with no byte edges (or whose only edges are meta) is a dead
// end for byte-level prediction.
func propagates(target *state.State) bool {
	for _, e := range target.Edges {
		if !e.Lo.IsMeta() {
			return true
		}
	}
	return false
}

// addLabel records label as reaching st at the next depth, allocating
// the state's frontier entry on first sight.
func addLabel(next map[uint32]*frontierEntry, order *[]uint32, seen *sparse.SparseSet, st *state.State, label uint16) {
	if !seen.Contains(st.ID) {
		seen.Insert(st.ID)
		next[st.ID] = &frontierEntry{st: st, labels: make(map[uint16]struct{})}
		*order = append(*order, st.ID)
	}
	next[st.ID].labels[label] = struct{}{}
}

// hashByte folds the previous depth's 9-bit label with the next byte
// into the 12-bit index the match-hash and match-array tables are keyed
// by (limits.HashMaxIdx fixes the table size at 4096 entries).
func hashByte(h uint16, b byte) uint16 {
	return ((h << 3) ^ uint16(b)) & (limits.HashMaxIdx - 1)
}

// Bytes serializes t into its wire format: prefix length, a flags byte
// (MinPatternLength with bit 4 set when OnePreString), the prefix bytes,
// then — only when opts.PredictMatchArray is set — the 256-byte
// prediction bitmap and either the 4096-byte match-hash table
// (MinPatternLength >= 4) or the match-array table. Table entries are
// stored complemented, and the bitmap is masked so bits at or beyond
// MinPatternLength read as "no information".
func (t *Tables) Bytes(opts options.Options) []byte {
	flags := t.MinPatternLength
	if t.OnePreString {
		flags |= 0x10
	}

	out := make([]byte, 0, 2+len(t.Prefix.Bytes))
	out = append(out, byte(len(t.Prefix.Bytes)), flags)
	out = append(out, t.Prefix.Bytes...)

	if !opts.PredictMatchArray {
		return out
	}

	mask := byte(1<<t.MinPatternLength) - 1
	var bitmap [256]byte
	for i, b := range t.PredictionBitmap {
		bitmap[i] = ^b & mask
	}
	out = append(out, bitmap[:]...)

	if t.MinPatternLength >= 4 {
		var hashes [limits.HashMaxIdx]byte
		for i, b := range t.MatchHashes {
			hashes[i] = ^b
		}
		out = append(out, hashes[:]...)
	} else {
		var arr [limits.HashMaxIdx]byte
		for i, b := range t.MatchArray {
			arr[i] = ^b
		}
		out = append(out, arr[:]...)
	}
	return out
}
