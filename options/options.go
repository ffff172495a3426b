// Package options holds the compile-time settings that steer parsing
// and DFA/predictor construction: a plain struct of fields plus a
// DefaultOptions constructor, not a builder or functional-options API.
package options

import "fmt"

// Options controls how Compile parses a regex and shapes the resulting
// program. The zero value is not valid configuration — use
// DefaultOptions.
type Options struct {
	// BracketEscapes allows backslash escapes inside bracket expressions
	// ([...]), e.g. [\d\s]. Default: true.
	BracketEscapes bool

	// EscapeCharacter is the byte that introduces an escape sequence.
	// A value > 255 (use NoEscapeCharacter) disables escaping entirely.
	// Default: '\\'.
	EscapeCharacter uint16

	// InsensitiveCase makes the whole pattern case-insensitive. Default:
	// false.
	InsensitiveCase bool

	// Multiline makes ^ and $ match at internal line boundaries, not just
	// the start/end of the subject. Default: false.
	Multiline bool

	// SingleLine makes . match line terminators too. Default: false.
	SingleLine bool

	// XFreeSpacing ignores unescaped whitespace and # comments in the
	// pattern. Default: false.
	XFreeSpacing bool

	// QuoteWithX makes a double-quoted span "..." a literal string, the
	// way \Q...\E always is. Default: true.
	QuoteWithX bool

	// OptimizeFSM emits the DFA as structured direct-transition code
	// instead of an opcode table: Program.Bytes omits the opcode words,
	// leaving the DFA graph (Program.DFA) for a direct-code emitter,
	// followed by the predictor block as usual. Default: false (emit
	// the table).
	OptimizeFSM bool

	// PredictMatchArray makes the serialized predictor block include the
	// prediction bitmap and the match-hash (or match-array) table after
	// the prefix; without it the block carries only the prefix header.
	// The tables are built either way. Default: false.
	PredictMatchArray bool

	// Name labels the compiled program for emitters of generated source.
	// Compile does not read it, and no error message includes it.
	// Default: "".
	Name string

	// ZNamespace prefixes generated identifiers with a namespace when
	// emitting generated source. Default: "".
	ZNamespace string

	// RaiseOnError controls how Compile reports a failure: when true, a
	// compile error panics instead of being returned. Default: false
	// (always return the error).
	RaiseOnError bool

	// WriteToStderr is carried in Options but Compile does not read it:
	// nothing is written to stderr, and failures are reported only through
	// the returned error (or a panic under RaiseOnError). Default: false.
	WriteToStderr bool
}

// NoEscapeCharacter disables EscapeCharacter entirely.
const NoEscapeCharacter uint16 = 0x100

// DefaultOptions returns the Options a bare Compile call uses.
func DefaultOptions() Options {
	return Options{
		BracketEscapes:  true,
		EscapeCharacter: '\\',
		QuoteWithX:      true,
	}
}

// Validate reports whether o is internally consistent.
func (o Options) Validate() error {
	if o.EscapeCharacter > 0xFF && o.EscapeCharacter != NoEscapeCharacter {
		return fmt.Errorf("options: EscapeCharacter %#x is not a byte value or NoEscapeCharacter", o.EscapeCharacter)
	}
	return nil
}

// HasEscapeCharacter reports whether escape sequences are recognized at
// all under o.
func (o Options) HasEscapeCharacter() bool {
	return o.EscapeCharacter <= 0xFF
}
