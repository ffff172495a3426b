// Package modifier implements the Modifier Map: for each of the five mode
// letters (q, i, s, m, x) an interval set over regex byte indices
// recording where that mode is active. A lowercase letter in `(?imqsx:…)`
// enables the mode over a range; an uppercase letter disables it over a
// range — note this means "turn off for this range," not "turn off here
// and on everywhere else."
//
// No interval-range library appears anywhere in the example pack, so this
// is a small from-scratch sorted-disjoint-range set (see DESIGN.md).
package modifier

import "sort"

// Mode names one of the five mode letters, case-insensitively — Q and q
// both refer to ModeQ, the sign (enable vs. disable) is passed separately
// to Set.
type Mode byte

const (
	ModeQ Mode = 'q'
	ModeI Mode = 'i'
	ModeS Mode = 's'
	ModeM Mode = 'm'
	ModeX Mode = 'x'
)

// ModeFromByte maps a regex modifier letter (either case) to its Mode and
// reports whether the letter enables (true) or disables (false) that
// mode over the range it's applied to. ok is false for any other byte.
func ModeFromByte(b byte) (mode Mode, enable bool, ok bool) {
	switch b {
	case 'q':
		return ModeQ, true, true
	case 'Q':
		return ModeQ, false, true
	case 'i':
		return ModeI, true, true
	case 'I':
		return ModeI, false, true
	case 's':
		return ModeS, true, true
	case 'S':
		return ModeS, false, true
	case 'm':
		return ModeM, true, true
	case 'M':
		return ModeM, false, true
	case 'x':
		return ModeX, true, true
	case 'X':
		return ModeX, false, true
	default:
		return 0, false, false
	}
}

// span is an inclusive [lo, hi] range of regex indices.
type span struct{ lo, hi uint32 }

// Map is the modifier interval map: which regex index ranges have each
// mode enabled.
type Map struct {
	spans map[Mode][]span
}

// NewMap returns an empty Map (no modes active anywhere).
func NewMap() *Map {
	return &Map{spans: make(map[Mode][]span, 5)}
}

// Set enables or disables mode over [lo, hi] (inclusive): enabling
// unions the range in, disabling subtracts it out.
func (m *Map) Set(mode Mode, enable bool, lo, hi uint32) {
	if lo > hi {
		return
	}
	if enable {
		m.spans[mode] = unionSpan(m.spans[mode], span{lo, hi})
	} else {
		m.spans[mode] = subtractSpan(m.spans[mode], span{lo, hi})
	}
}

// IsSet reports whether mode is active at the given regex index.
func (m *Map) IsSet(index uint32, mode Mode) bool {
	spans := m.spans[mode]
	i := sort.Search(len(spans), func(i int) bool { return spans[i].hi >= index })
	return i < len(spans) && spans[i].lo <= index
}

func unionSpan(spans []span, s span) []span {
	spans = append(spans, s)
	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })

	merged := spans[:0]
	for _, cur := range spans {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if cur.lo <= last.hi+1 {
				if cur.hi > last.hi {
					last.hi = cur.hi
				}
				continue
			}
		}
		merged = append(merged, cur)
	}
	return merged
}

func subtractSpan(spans []span, s span) []span {
	var out []span
	for _, cur := range spans {
		if cur.hi < s.lo || cur.lo > s.hi {
			out = append(out, cur)
			continue
		}
		if cur.lo < s.lo {
			out = append(out, span{cur.lo, s.lo - 1})
		}
		if cur.hi > s.hi {
			out = append(out, span{s.hi + 1, cur.hi})
		}
	}
	return out
}
