package char

// Chars is a compact bitset over the full Char space: words 0-3 cover the
// 256 ordinary byte values, word 4 covers the 64-slot metacharacter band
// (only bits 1-13, for MetaMIN+1..MetaMIN+13, are ever meaningful).
//
// The zero value is the empty set.
type Chars struct {
	b [5]uint64
}

// NewChars returns an empty Chars set.
func NewChars() Chars {
	return Chars{}
}

// CharsOf returns a Chars set containing exactly the given characters.
func CharsOf(cs ...Char) Chars {
	var s Chars
	for _, c := range cs {
		s.Insert(c)
	}
	return s
}

// IsEmpty reports whether the set has no members.
func (s Chars) IsEmpty() bool {
	return s.b[0] == 0 && s.b[1] == 0 && s.b[2] == 0 && s.b[3] == 0 && s.b[4] == 0
}

// Contains reports whether c is a member of s.
func (s Chars) Contains(c Char) bool {
	return s.b[c>>6]&(1<<(uint(c)&0x3F)) != 0
}

// Insert adds c to s and returns s for chaining.
func (s *Chars) Insert(c Char) *Chars {
	s.b[c>>6] |= 1 << (uint(c) & 0x3F)
	return s
}

// InsertRange adds every character in [lo, hi] (inclusive) to s.
func (s *Chars) InsertRange(lo, hi Char) *Chars {
	for c := lo; c <= hi; c++ {
		s.Insert(c)
		if c == MetaMAX {
			break // nothing above MetaMAX fits the set; also avoids wraparound when hi == 0xFFFF
		}
	}
	return s
}

// Union returns s | other.
func (s Chars) Union(other Chars) Chars {
	var r Chars
	for i := range s.b {
		r.b[i] = s.b[i] | other.b[i]
	}
	return r
}

// Intersect returns s & other.
func (s Chars) Intersect(other Chars) Chars {
	var r Chars
	for i := range s.b {
		r.b[i] = s.b[i] & other.b[i]
	}
	return r
}

// Difference returns s with every member of other removed (s - other).
func (s Chars) Difference(other Chars) Chars {
	var r Chars
	for i := range s.b {
		r.b[i] = s.b[i] &^ other.b[i]
	}
	return r
}

// Intersects reports whether s and other share any member.
func (s Chars) Intersects(other Chars) bool {
	for i := range s.b {
		if s.b[i]&other.b[i] != 0 {
			return true
		}
	}
	return false
}

// IsSubset reports whether every member of s is also a member of other.
func (s Chars) IsSubset(other Chars) bool {
	return s.Difference(other).IsEmpty()
}

// Complement returns the complement of s restricted to the byte range
// 0-255; meta bits (word 4) are left untouched.
func (s Chars) Complement() Chars {
	r := s
	r.b[0] = ^r.b[0]
	r.b[1] = ^r.b[1]
	r.b[2] = ^r.b[2]
	r.b[3] = ^r.b[3]
	return r
}

// Lo returns the lowest member of s, or 0 if s is empty.
func (s Chars) Lo() Char {
	for i, word := range s.b {
		if word == 0 {
			continue
		}
		for j := 0; j < 64; j++ {
			if word&(1<<uint(j)) != 0 {
				return Char(i<<6 + j)
			}
		}
	}
	return 0
}

// Hi returns the highest member of s, or 0 if s is empty.
func (s Chars) Hi() Char {
	for i := len(s.b) - 1; i >= 0; i-- {
		word := s.b[i]
		if word == 0 {
			continue
		}
		for j := 63; j >= 0; j-- {
			if word&(1<<uint(j)) != 0 {
				return Char(i<<6 + j)
			}
		}
	}
	return 0
}

// MakeCaseInsensitive adds the case-swapped counterpart of every ASCII
// letter already in s.
func (s *Chars) MakeCaseInsensitive() {
	lower := s.Intersect(PosixLower)
	upper := s.Intersect(PosixUpper)
	for _, c := range lower.Members() {
		s.Insert(c.ToggleCase())
	}
	for _, c := range upper.Members() {
		s.Insert(c.ToggleCase())
	}
}

// Members returns the members of s in ascending order. Intended for small
// sets (character classes); not used on any hot path.
func (s Chars) Members() []Char {
	var out []Char
	for c := Char(0); c < MetaMAX; c++ {
		if s.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// Ranges returns the members of s as maximal contiguous [lo, hi] runs, in
// ascending order. This is the partition the compiler materializes as DFA
// edges (see compiler.Compiler's edge-merging step).
func (s Chars) Ranges() [][2]Char {
	var out [][2]Char
	var lo, hi Char
	open := false
	for c := Char(0); c < MetaMAX; c++ {
		if s.Contains(c) {
			if !open {
				lo, open = c, true
			}
			hi = c
		} else if open {
			out = append(out, [2]Char{lo, hi})
			open = false
		}
	}
	if open {
		out = append(out, [2]Char{lo, hi})
	}
	return out
}

// region POSIX character classes
//
// Fixed ASCII membership bitmaps; only the ASCII words (b[0..3]) are
// ever nonzero for a POSIX class.

// PosixClassName indexes PosixClasses and PosixClassNames.
type PosixClassName int

const (
	PosixASCII PosixClassName = iota
	PosixSpace
	PosixXDigit
	PosixCntrl
	PosixPrint
	PosixAlnum
	PosixAlpha
	PosixBlank
	PosixDigit
	PosixGraph
	PosixLowerName
	PosixPunct
	PosixUpperName
	PosixWord
	posixClassCount
)

// PosixClassNames gives the textual name for each PosixClassName, in the
// same order bracket-expression `[:name:]` lookups expect.
var PosixClassNames = [...]string{
	"ascii", "space", "xdigit", "cntrl", "print", "alnum", "alpha",
	"blank", "digit", "graph", "lower", "punct", "upper", "word",
}

var (
	PosixASCIIClass  = Chars{b: [5]uint64{0xFFFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF, 0, 0, 0}}
	PosixSpaceClass  = Chars{b: [5]uint64{0x0000000100003E00, 0x0000000000000000, 0, 0, 0}}
	PosixXDigitClass = Chars{b: [5]uint64{0x03FF000000000000, 0x0000007E0000007E, 0, 0, 0}}
	PosixCntrlClass  = Chars{b: [5]uint64{0x00000000FFFFFFFF, 0x8000000000000000, 0, 0, 0}}
	PosixPrintClass  = Chars{b: [5]uint64{0xFFFFFFFF00000000, 0x7FFFFFFFFFFFFFFF, 0, 0, 0}}
	PosixAlnumClass  = Chars{b: [5]uint64{0x03FF000000000000, 0x07FFFFFE07FFFFFE, 0, 0, 0}}
	PosixAlphaClass  = Chars{b: [5]uint64{0x0000000000000000, 0x07FFFFFE07FFFFFE, 0, 0, 0}}
	PosixBlankClass  = Chars{b: [5]uint64{0x0000000100000200, 0x0000000000000000, 0, 0, 0}}
	PosixDigitClass  = Chars{b: [5]uint64{0x03FF000000000000, 0x0000000000000000, 0, 0, 0}}
	PosixGraphClass  = Chars{b: [5]uint64{0xFFFFFFFE00000000, 0x7FFFFFFFFFFFFFFF, 0, 0, 0}}
	PosixLower       = Chars{b: [5]uint64{0x0000000000000000, 0x07FFFFFE00000000, 0, 0, 0}}
	PosixPunctClass  = Chars{b: [5]uint64{0xFC00FFFE00000000, 0x78000001F8000001, 0, 0, 0}}
	PosixUpper       = Chars{b: [5]uint64{0x0000000000000000, 0x0000000007FFFFFE, 0, 0, 0}}
	PosixWordClass   = Chars{b: [5]uint64{0x03FF000000000000, 0x07FFFFFE87FFFFFE, 0, 0, 0}}
)

// PosixClasses indexes the named classes by PosixClassName, for the
// \p{name}/\P{name} and [:name:] lookups in the compiler/parser.
var PosixClasses = [posixClassCount]*Chars{
	PosixASCII:     &PosixASCIIClass,
	PosixSpace:     &PosixSpaceClass,
	PosixXDigit:    &PosixXDigitClass,
	PosixCntrl:     &PosixCntrlClass,
	PosixPrint:     &PosixPrintClass,
	PosixAlnum:     &PosixAlnumClass,
	PosixAlpha:     &PosixAlphaClass,
	PosixBlank:     &PosixBlankClass,
	PosixDigit:     &PosixDigitClass,
	PosixGraph:     &PosixGraphClass,
	PosixLowerName: &PosixLower,
	PosixPunct:     &PosixPunctClass,
	PosixUpperName: &PosixUpper,
	PosixWord:      &PosixWordClass,
}

// FindPosixClassByName looks up a POSIX class by its `[:name:]`/`\p{name}`
// spelling (case-insensitive). ok is false for an unrecognized name.
func FindPosixClassByName(name string) (Chars, bool) {
	for i, n := range PosixClassNames {
		if equalFold(n, name) {
			return *PosixClasses[i], true
		}
	}
	return Chars{}, false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 0x20
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 0x20
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// endregion
