package parser

import (
	"github.com/lesk-go/relesk/char"
	"github.com/lesk-go/relesk/options"
	"github.com/lesk-go/relesk/rerror"
)

// DecodeEscape decodes the escape sequence starting at regex[idx] (which
// must hold the escape character), returning the character it denotes
// and the index just past the sequence. If into is non-nil, any escape
// that denotes a whole character class (\N, \p{...}, \P{...}, or a POSIX
// class shorthand such as \s or \w) unions its members into into instead
// of producing a single Char — exactly the same function serves both
// "decode one atom" (into == nil) and "decode inside a bracket
// expression" (into != nil).
func DecodeEscape(regex []byte, idx uint32, opts options.Options, into *char.Chars) (char.Char, uint32, error) {
	at := func(i uint32) char.Char {
		if int(i) >= len(regex) {
			return 0
		}
		return char.Char(regex[i])
	}

	idx++ // skip the escape character itself
	c := at(idx)
	idx++

	switch byte(c) {
	case '0':
		var v uint16
		d := at(idx)
		for i := 0; i < 3 && v < 32 && d >= '0' && d <= '7'; i++ {
			v = (v << 3) + uint16(d) - '0'
			idx++
			d = at(idx)
		}
		return char.Char(v), idx, nil

	case 'x', 'u':
		braced := at(idx) == '{'
		if braced {
			idx++
		}
		maxDigits := 2
		if byte(c) == 'u' {
			maxDigits = 4
		}
		var v uint16
		for i := 0; i < maxDigits && at(idx).IsHexDigit(); i++ {
			d := uint16(at(idx))
			if d > '9' {
				v = (v << 4) | ((d | 0x20) - ('a' - 10))
			} else {
				v = (v << 4) | (d - '0')
			}
			idx++
		}
		if braced {
			if at(idx) != '}' {
				return 0, idx, rerror.New(rerror.InvalidEscape, idx)
			}
			idx++
		}
		return char.Char(v), idx, nil

	case 'c':
		v := uint16(at(idx)) % 32
		idx++
		return char.Char(v), idx, nil

	case 'e':
		return char.Char(0x1B), idx, nil

	case 'N':
		if into != nil {
			into.InsertRange(char.Char(0), char.Char(9))
			into.InsertRange(char.Char(11), char.Char(255))
		}
		return char.EndOfLine, idx, nil

	case 'p', 'P':
		if at(idx) != '{' {
			break
		}
		idx++
		start := idx
		for at(idx) != '}' && at(idx) != 0 {
			idx++
		}
		if at(idx) != '}' {
			return 0, idx, rerror.New(rerror.InvalidEscape, idx)
		}
		name := string(regex[start:idx])
		idx++
		if into != nil {
			cls, ok := char.FindPosixClassByName(name)
			if !ok {
				return 0, idx, rerror.New(rerror.InvalidClass, idx)
			}
			if byte(c) == 'P' {
				cls = cls.Complement()
			}
			*into = into.Union(cls)
		}
		return char.EndOfLine, idx, nil
	}

	if decoded, ok := char.TryFromEscape(c); ok {
		return decoded, idx, nil
	}

	if into != nil {
		if cls, ok := posixClassForEscape(c); ok {
			*into = into.Union(cls)
			return char.EndOfLine, idx, nil
		}
	}

	return c, idx, nil
}

// posixClassForEscape maps the single-letter class shorthands (\d \D \w
// \W \s \S) to their POSIX class, complementing for the uppercase forms.
func posixClassForEscape(c char.Char) (char.Chars, bool) {
	var cls char.Chars
	var negate bool
	switch byte(c) {
	case 'd':
		cls = char.PosixDigitClass
	case 'D':
		cls, negate = char.PosixDigitClass, true
	case 'w':
		cls = char.PosixWordClass
	case 'W':
		cls, negate = char.PosixWordClass, true
	case 's':
		cls = char.PosixSpaceClass
	case 'S':
		cls, negate = char.PosixSpaceClass, true
	default:
		return char.Chars{}, false
	}
	if negate {
		cls = cls.Complement()
	}
	return cls, true
}
