package compiler

import (
	"github.com/lesk-go/relesk/char"
	"github.com/lesk-go/relesk/modifier"
	"github.com/lesk-go/relesk/options"
	"github.com/lesk-go/relesk/parser"
	"github.com/lesk-go/relesk/position"
	"github.com/lesk-go/relesk/rerror"
)

// charsForPosition computes the Chars a position matches.
// Bracket-expression and character-class content is parsed here rather
// than by the parser, which only bookkept the position's index during
// stage 4.
func charsForPosition(regex []byte, k position.Position, mods *modifier.Map, opts options.Options) (char.Chars, error) {
	idx := k.Idx()
	c := byte(0)
	if int(idx) < len(regex) {
		c = regex[idx]
	}

	if opts.HasEscapeCharacter() && c == byte(opts.EscapeCharacter) {
		return escapeChars(regex, k, mods, opts)
	}

	if mods.IsSet(idx, modifier.ModeQ) {
		return literalChars(c, idx, mods), nil
	}

	switch c {
	case '.':
		if mods.IsSet(idx, modifier.ModeS) {
			return allChars(), nil
		}
		return nonNewlineChars(), nil

	case '^':
		if mods.IsSet(idx, modifier.ModeM) {
			return char.CharsOf(char.BeginningOfLine), nil
		}
		return char.CharsOf(char.BeginningOfBuffer), nil

	case '$':
		if mods.IsSet(idx, modifier.ModeM) {
			return char.CharsOf(char.EndOfLine), nil
		}
		return char.CharsOf(char.EndOfBuffer), nil

	case '[':
		return bracketChars(regex, idx, mods, opts)

	default:
		return literalChars(c, idx, mods), nil
	}
}

// literalChars returns {c}, plus its case-swapped twin when i-mode is
// active at idx and c is alphabetic.
func literalChars(c byte, idx uint32, mods *modifier.Map) char.Chars {
	var cs char.Chars
	cc := char.Char(c)
	cs.Insert(cc)
	if mods.IsSet(idx, modifier.ModeI) && cc.IsAlphabetic() {
		cs.Insert(cc.ToggleCase())
	}
	return cs
}

// allChars returns every ordinary byte 0-255 (used for `.` under s-mode).
func allChars() char.Chars {
	var cs char.Chars
	cs.InsertRange(0, 255)
	return cs
}

// nonNewlineChars returns every ordinary byte except '\n' (used for `.`
// outside s-mode).
func nonNewlineChars() char.Chars {
	var cs char.Chars
	cs.InsertRange(0, 9)
	cs.InsertRange(11, 255)
	return cs
}

// escapeChars resolves an escape sequence starting at k.Idx() into the
// Chars it matches. Anchors (\A, \z, \i, \j, \k) are unconditional; word
// boundaries (\b, \B, \<, \>) pick their begin-of-match or end-of-match
// meta pair according to k's anchor flag. Everything else is resolved
// through parser.DecodeEscape, the same routine the bracket-expression
// parser below reuses.
func escapeChars(regex []byte, k position.Position, mods *modifier.Map, opts options.Options) (char.Chars, error) {
	idx := k.Idx()
	letter := byte(0)
	if int(idx)+1 < len(regex) {
		letter = regex[idx+1]
	}

	switch letter {
	case 'A':
		return char.CharsOf(char.BeginningOfBuffer), nil
	case 'z':
		return char.CharsOf(char.EndOfBuffer), nil
	case 'i':
		return char.CharsOf(char.IndentBoundary), nil
	case 'j':
		return char.CharsOf(char.DedentBoundary), nil
	case 'k':
		return char.CharsOf(char.UndentBoundary), nil

	case 'B':
		if k.IsAnchor() {
			return char.CharsOf(char.NonWordBoundary), nil
		}
		return char.CharsOf(char.NonWordEnd), nil

	case 'b':
		if k.IsAnchor() {
			return char.CharsOf(char.BeginWordBegin, char.EndWordBegin), nil
		}
		return char.CharsOf(char.BeginWordEnd, char.EndWordEnd), nil

	case '<':
		if k.IsAnchor() {
			return char.CharsOf(char.BeginWordBegin), nil
		}
		return char.CharsOf(char.BeginWordEnd), nil

	case '>':
		if k.IsAnchor() {
			return char.CharsOf(char.EndWordBegin), nil
		}
		return char.CharsOf(char.EndWordEnd), nil
	}

	var into char.Chars
	decoded, _, err := parser.DecodeEscape(regex, idx, opts, &into)
	if err != nil {
		return char.Chars{}, err
	}
	if !into.IsEmpty() {
		return into, nil
	}
	cs := char.CharsOf(decoded)
	if !decoded.IsMeta() && decoded.IsAlphabetic() && mods.IsSet(idx, modifier.ModeI) {
		cs.Insert(decoded.ToggleCase())
	}
	return cs, nil
}

// bracketChars parses the bracket expression `[...]` starting at idx,
// returning the Chars it matches: POSIX `[:name:]` sub-expressions
// (including the single-letter `[:c:]` alias for `\c`), `a-z` ranges
// (erroring if a>z), escapes (decoded via parser.DecodeEscape when
// BracketEscapes is on, the default; with it off a backslash is an
// ordinary member and a literal ']' must be written first, `[]abc]`),
// `^` negation (byte range only — meta bits are never flipped, per
// char.Chars.Complement), and a case-insensitive closure applied once
// at the end (the closure is idempotent and set-based, so the net
// membership matches incremental application).
func bracketChars(regex []byte, start uint32, mods *modifier.Map, opts options.Options) (char.Chars, error) {
	at := func(i uint32) byte {
		if int(i) >= len(regex) {
			return 0
		}
		return regex[i]
	}

	i := start + 1
	negate := at(i) == '^'
	if negate {
		i++
	}

	var cs char.Chars
	var pending char.Char
	havePending := false
	first := true

	flushPending := func() {
		if !havePending {
			return
		}
		cs.Insert(pending)
		if mods.IsSet(start, modifier.ModeI) && pending.IsAlphabetic() {
			cs.Insert(pending.ToggleCase())
		}
		havePending = false
	}

	for {
		c := at(i)
		if c == 0 {
			return char.Chars{}, rerror.New(rerror.MismatchedBrackets, i)
		}
		if c == ']' && !first {
			break
		}
		first = false

		// POSIX `[:name:]` sub-expression. The single-letter form `[:c:]`
		// is a historical alias for `\c` (so `[:d:]` means the same as
		// `\d`, not a named class called "d"); only a longer span names
		// an actual POSIX class.
		if c == '[' && at(i+1) == ':' {
			if closeLoc, ok := findByte(regex, i+2, ':'); ok && at(closeLoc+1) == ']' {
				if closeLoc == i+3 {
					flushPending()
					synth := []byte{byte(opts.EscapeCharacter), at(i + 2)}
					var into char.Chars
					decoded, _, err := parser.DecodeEscape(synth, 0, opts, &into)
					if err != nil {
						return char.Chars{}, err
					}
					if !into.IsEmpty() {
						cs = cs.Union(into)
					} else {
						pending = decoded
						havePending = true
					}
					i = closeLoc + 2
					continue
				}
				name := string(regex[i+2 : closeLoc])
				if cls, ok := char.FindPosixClassByName(name); ok {
					flushPending()
					cs = cs.Union(cls)
					i = closeLoc + 2
					continue
				}
				return char.Chars{}, rerror.New(rerror.InvalidCollating, i)
			}
		}

		// Range: "lo-hi", only once a pending single char is waiting
		// and the next byte isn't the closing ']'. Escape decoding
		// inside a range's upper bound follows the same BracketEscapes
		// gate as the plain-atom case below.
		if c == '-' && havePending && at(i+1) != 0 && at(i+1) != ']' {
			var hi char.Char
			var nextI uint32
			var isClass bool
			var err error
			if opts.HasEscapeCharacter() && at(i+1) == byte(opts.EscapeCharacter) && opts.BracketEscapes {
				hi, nextI, isClass, err = decodeBracketAtom(regex, i+1, opts)
				if err != nil {
					return char.Chars{}, err
				}
			} else {
				hi, nextI, isClass = char.Char(at(i+1)), i+2, false
			}
			if !isClass {
				if pending > hi {
					return char.Chars{}, rerror.New(rerror.InvalidClassRange, i)
				}
				cs.InsertRange(pending, hi)
				if mods.IsSet(start, modifier.ModeI) {
					for c := pending; c <= hi; c++ {
						if c.IsAlphabetic() {
							cs.Insert(c.ToggleCase())
						}
					}
				}
				havePending = false
				i = nextI
				continue
			}
		}

		flushPending()

		// A backslash inside brackets is only resolved to an escape
		// when BracketEscapes is on (the default). With it off, a
		// literal ']' must be written first in the class (`[]abc]`)
		// rather than escaped, and backslash is an ordinary member
		// character.
		if opts.HasEscapeCharacter() && c == byte(opts.EscapeCharacter) && opts.BracketEscapes {
			decoded, nextI, isClass, err := decodeBracketAtom(regex, i, opts)
			if err != nil {
				return char.Chars{}, err
			}
			if isClass {
				var into char.Chars
				_, _, _ = parser.DecodeEscape(regex, i, opts, &into)
				cs = cs.Union(into)
				i = nextI
				continue
			}
			pending = decoded
			havePending = true
			i = nextI
			continue
		}

		pending = char.Char(c)
		havePending = true
		i++
	}

	flushPending()

	if negate {
		cs = cs.Complement()
	}
	return cs, nil
}

// decodeBracketAtom decodes one escape at idx (which must hold the
// escape character), reporting whether it resolved to a whole class
// (\N, \p{...}, \d, ...) rather than a single Char.
func decodeBracketAtom(regex []byte, idx uint32, opts options.Options) (c char.Char, next uint32, isClass bool, err error) {
	var into char.Chars
	decoded, nextIdx, decErr := parser.DecodeEscape(regex, idx, opts, &into)
	if decErr != nil {
		return 0, idx, false, decErr
	}
	return decoded, nextIdx, !into.IsEmpty(), nil
}

func findByte(regex []byte, from uint32, target byte) (uint32, bool) {
	for i := from; int(i) < len(regex); i++ {
		if regex[i] == target {
			return i, true
		}
	}
	return 0, false
}
