// Package encoder serializes a compiled DFA (a *state.State chain) into
// a 32-bit opcode program: a first pass over the state chain assigning
// each state its word offset, a second pass re-assigning offsets with
// long-jump pairs when the first pass overflows 16 bits, then a single
// emission pass.
package encoder

import (
	"encoding/binary"

	"github.com/lesk-go/relesk/char"
	"github.com/lesk-go/relesk/limits"
	"github.com/lesk-go/relesk/rerror"
	"github.com/lesk-go/relesk/state"
)

// Opcode is one 32-bit instruction word.
type Opcode uint32

// Instruction tags occupying byte 4 (bits 24-31). Payload indices are
// restricted (limits.LookaheadMaxIdx, limits.AcceptMax, limits.GotoMaxIdx)
// so that a payload's own byte 3 stays below its tag, which is what keeps
// the "byte3 >= byte4 iff GOTO on a byte range" decoding rule
// collision-free: a genuine byte-range GOTO always has lo <= hi, i.e.
// byte3 >= byte4, and a meta GOTO has byte3 = 0 with byte4 in [1, 13],
// far below any tag.
const (
	tagHead Opcode = 0xFB000000
	tagTail Opcode = 0xFC000000
	tagRedo Opcode = 0xFD000000
	tagTake Opcode = 0xFE000000
	tagLong Opcode = 0xFF000000
)

const (
	haltSentinel = Opcode(0x00FFFFFF)

	longMarker = 0xFFFE // GOTO target: "read the next word as the real index"
	haltPseudo = 0xFFFF // GOTO target: "this edge leads straight to HALT"

	// longTotal is the word count past which GOTO targets stop fitting
	// their 16-bit inline field and long-jump promotion kicks in.
	longTotal = uint32(0x10000)
)

// Kind identifies what a decoded Opcode represents.
type Kind int

const (
	KindHalt Kind = iota
	KindHead
	KindTail
	KindRedo
	KindTake
	KindGoto
	KindLong
)

func opRedo() Opcode { return tagRedo }
func opHead(idx uint32) Opcode { return tagHead | Opcode(idx&0xFFFFFF) }
func opTail(idx uint32) Opcode { return tagTail | Opcode(idx&0xFFFFFF) }
func opTake(idx uint32) Opcode { return tagTake | Opcode(idx&0xFFFFFF) }

// opLong is the continuation word following a longMarker GOTO, carrying
// the full 24-bit target index.
func opLong(idx uint32) Opcode { return tagLong | Opcode(idx&0xFFFFFF) }

// opGoto encodes a transition: for a byte range, lo in byte 4, hi in
// byte 3, the 16-bit target (or longMarker/haltPseudo) in the low half.
// For a meta character, byte 4 holds the meta slot (1-13) and byte 3 is
// zero.
func opGoto(lo, hi char.Char, target uint32) Opcode {
	if lo.IsMeta() {
		return Opcode(uint32(lo&0xFF)<<24 | target)
	}
	return Opcode(uint32(lo)<<24 | uint32(hi)<<16 | target)
}

// Kind reports which instruction o decodes as.
func (o Opcode) Kind() Kind {
	if o == haltSentinel {
		return KindHalt
	}
	b4 := uint32(o >> 24)
	b3 := uint32(o>>16) & 0xFF
	if b3 >= b4 {
		return KindGoto
	}
	if b3 == 0 && b4 >= 1 && b4 <= 0x0D {
		return KindGoto // meta-character edge
	}
	switch Opcode(b4 << 24) {
	case tagHead:
		return KindHead
	case tagTail:
		return KindTail
	case tagRedo:
		return KindRedo
	case tagTake:
		return KindTake
	case tagLong:
		return KindLong
	}
	return KindGoto
}

// Index returns the 16-bit inline target of a GOTO word.
func (o Opcode) Index() uint32 { return uint32(o) & 0xFFFF }

// LongIndex returns the 24-bit payload of a HEAD/TAIL/TAKE/LONG word.
func (o Opcode) LongIndex() uint32 { return uint32(o) & 0xFFFFFF }

// Program is the encoded opcode vector for a compiled DFA.
type Program struct {
	Opcodes []Opcode
}

// Bytes serializes p as 32-bit little-endian words, the concatenated
// form emitters consume.
func (p *Program) Bytes() []byte {
	out := make([]byte, 4*len(p.Opcodes))
	for i, op := range p.Opcodes {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(op))
	}
	return out
}

// Encode walks every state reachable from start (its Next chain) and
// emits its opcode sequence: per state, a TAKE/REDO word if accepting,
// then TAIL words, then HEAD words, then edges (one GOTO per meta slot,
// range-compacted GOTOs otherwise; promoted GOTO..LONG pairs when the
// program is large), then an explicit HALT unless the state's edges
// already cover the full byte range.
func Encode(start *state.State) (*Program, error) {
	states := collect(start)

	total, err := layout(states)
	if err != nil {
		return nil, err
	}
	long := total >= longTotal

	var out []Opcode
	for _, s := range states {
		out = append(out, emit(s, long)...)
	}
	return &Program{Opcodes: out}, nil
}

// collect returns every state reachable from start, in Next-chain
// discovery order.
func collect(start *state.State) []*state.State {
	var out []*state.State
	state.NextStates(start, func(s *state.State) { out = append(out, s) })
	return out
}

// layout assigns every state's First and Index opcode offsets. The first
// pass assumes every GOTO fits its 16-bit inline target; when the
// resulting total overflows 16 bits, a second pass re-counts assuming a
// GOTO..LONG pair for any forward jump of 0x8000 or more and any
// backward jump of 0x10000 or more, re-assigning Index. First keeps its
// first-pass value so the forward-jump test stays stable between
// counting and emission.
func layout(states []*state.State) (uint32, error) {
	total := uint32(0)
	for _, s := range states {
		s.First = total
		s.Index = total
		n, err := wordCount(s, false)
		if err != nil {
			return 0, err
		}
		total += n
		if total > limits.GotoMaxIdx {
			return 0, rerror.New(rerror.ExceedsLimits, 0)
		}
	}
	if total < longTotal {
		return total, nil
	}

	total = 0
	for _, s := range states {
		s.Index = total
		n, err := wordCount(s, true)
		if err != nil {
			return 0, err
		}
		total += n
		if total > limits.GotoMaxIdx {
			return 0, rerror.New(rerror.ExceedsLimits, 0)
		}
	}
	return total, nil
}

// needsLong reports whether the edge from s to target must be emitted as
// a GOTO..LONG pair once long-jump promotion is active.
func needsLong(s, target *state.State) bool {
	return (target.First > s.First && target.First >= longTotal/2) ||
		target.Index >= longTotal
}

// wordCount returns how many opcode words s emits. long selects whether
// edges are counted with long-jump promotion applied.
func wordCount(s *state.State, long bool) (uint32, error) {
	n := uint32(0)
	if s.Accept != 0 {
		if s.Accept > limits.AcceptMax {
			return 0, rerror.New(rerror.ExceedsLimits, 0)
		}
		n++
	} else if s.Redo {
		n++
	}

	n += uint32(len(s.Tails.Slice()) + len(s.Heads.Slice()))

	for _, e := range s.Edges {
		w := uint32(1)
		if long && needsLong(s, e.Target) {
			w = 2
		}
		if e.Lo.IsMeta() {
			n += metaSlotCount(e.Lo, e.Hi) * w
			continue
		}
		n += w
	}

	if !coversFullByteRange(s.Edges) {
		n++
	}
	return n, nil
}

// metaSlotCount returns how many meta-character GOTOs an edge spanning
// [lo, hi] expands into: one per meta slot, since meta edges can't be
// range-compacted.
func metaSlotCount(lo, hi char.Char) uint32 {
	return uint32(hi-lo) + 1
}

// coversFullByteRange reports whether s's edges, taken together, cover
// every byte 0x00-0xFF — the condition under which the encoder elides
// the trailing HALT.
func coversFullByteRange(edges []state.Edge) bool {
	next := char.Char(0)
	for _, e := range edges {
		if e.Lo.IsMeta() {
			continue
		}
		if e.Lo > next {
			return false
		}
		if e.Hi >= next {
			next = e.Hi + 1
		}
		if next > 0xFF {
			return true
		}
	}
	return false
}

// emit renders s's opcode words, using the Index offsets layout assigned
// for GOTO/LONG addressing.
func emit(s *state.State, long bool) []Opcode {
	var out []Opcode

	switch {
	case s.Accept != 0:
		out = append(out, opTake(s.Accept))
	case s.Redo:
		out = append(out, opRedo())
	}

	for _, id := range s.Tails.Slice() {
		out = append(out, opTail(uint32(id)))
	}
	for _, id := range s.Heads.Slice() {
		out = append(out, opHead(uint32(id)))
	}

	for _, e := range s.Edges {
		push := func(lo, hi char.Char) {
			if long && needsLong(s, e.Target) {
				out = append(out, opGoto(lo, hi, longMarker), opLong(e.Target.Index))
				return
			}
			out = append(out, opGoto(lo, hi, e.Target.Index))
		}
		if e.Lo.IsMeta() {
			for c := e.Lo; c <= e.Hi; c++ {
				push(c, c)
			}
			continue
		}
		push(e.Lo, e.Hi)
	}

	if !coversFullByteRange(s.Edges) {
		out = append(out, haltSentinel)
	}
	return out
}

// DecodeGoto extracts the lo/hi/target fields of a GOTO-shaped opcode.
// Callers must first check o.Kind() == KindGoto.
func DecodeGoto(o Opcode) (lo, hi char.Char, target uint32) {
	lo = char.Char(o >> 24 & 0xFF)
	hi = char.Char(o >> 16 & 0xFF)
	target = uint32(o & 0xFFFF)
	return
}

// IsMetaGoto reports whether a GOTO-shaped opcode encodes a
// meta-character transition rather than a byte range (byte3 = 0,
// byte4 in the meta-slot band).
func IsMetaGoto(o Opcode) bool {
	hi := (o >> 16) & 0xFF
	lo := (o >> 24) & 0xFF
	return hi == 0 && lo >= 1 && lo <= 13
}

// IsHalt reports whether a GOTO's decoded target is the 16-bit halt
// pseudo-target, meaning the edge leads straight to HALT.
func IsHalt(target uint32) bool {
	return target == haltPseudo
}

// IsLong reports whether a decoded target is the long-jump marker,
// meaning the next word holds the real 24-bit index.
func IsLong(target uint32) bool {
	return target == longMarker
}
