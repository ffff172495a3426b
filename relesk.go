// Package relesk compiles a lexer-generator regular expression into a
// DFA opcode program plus the predictor tables that let a runtime skip
// states the DFA could never accept at a given offset.
//
// relesk only produces this compiled form; it is one stage of a larger
// lexer-generator pipeline and doesn't itself execute matches against
// input.
//
// Basic usage:
//
//	prog, err := relesk.Compile(`[a-z]+`, relesk.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data := prog.Bytes()
package relesk

import (
	"github.com/lesk-go/relesk/compiler"
	"github.com/lesk-go/relesk/encoder"
	"github.com/lesk-go/relesk/group"
	"github.com/lesk-go/relesk/options"
	"github.com/lesk-go/relesk/parser"
	"github.com/lesk-go/relesk/predictor"
	"github.com/lesk-go/relesk/state"
)

// Options configures a Compile call. It's an alias for options.Options
// so callers need only import this package for the common case.
type Options = options.Options

// DefaultOptions returns the baseline Options a bare Compile call uses.
func DefaultOptions() Options {
	return options.DefaultOptions()
}

// Program is a compiled pattern: the opcode words a lexer-generator
// runtime interprets, plus the predictor tables that accelerate it.
type Program struct {
	pattern   string
	start     *state.State
	opcodes   *encoder.Program
	predictor *predictor.Tables
	topGroup  *group.Group
	opts      Options
}

// Compile parses, compiles, and encodes pattern under opts.
//
// Example:
//
//	prog, err := relesk.Compile(`\d{3}-\d{4}`, relesk.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string, opts Options) (*Program, error) {
	fail := func(err error) (*Program, error) {
		if opts.RaiseOnError {
			panic(err)
		}
		return nil, err
	}

	if err := opts.Validate(); err != nil {
		return fail(err)
	}

	// Parse panics on its own under RaiseOnError.
	result, err := parser.Parse(pattern, opts)
	if err != nil {
		return nil, err
	}

	start, err := compiler.Compile(result)
	if err != nil {
		return fail(err)
	}

	prog, err := encoder.Encode(start)
	if err != nil {
		return fail(err)
	}

	tables := predictor.Build(start, opts)

	return &Program{
		pattern:   pattern,
		start:     start,
		opcodes:   prog,
		predictor: tables,
		topGroup:  result.TopGroup,
		opts:      opts,
	}, nil
}

// MustCompile compiles pattern under DefaultOptions and panics if it
// fails.
//
// Example:
//
//	var ident = relesk.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
func MustCompile(pattern string) *Program {
	p, err := Compile(pattern, DefaultOptions())
	if err != nil {
		panic("relesk: Compile(" + pattern + "): " + err.Error())
	}
	return p
}

// Opcodes returns the encoded instruction words, in emission order.
func (p *Program) Opcodes() []encoder.Opcode {
	return p.opcodes.Opcodes
}

// Predictor returns the accelerator tables built alongside the opcode
// program.
func (p *Program) Predictor() *predictor.Tables {
	return p.predictor
}

// DFA returns the start state of the compiled automaton; every state is
// reachable from it via the Next chain. Direct-code and Graphviz
// emitters render the program from this graph rather than the opcode
// table.
func (p *Program) DFA() *state.State {
	return p.start
}

// Bytes serializes the compiled pattern: the opcode words (omitted when
// p.opts.OptimizeFSM selects direct-code emission, since a direct-code
// emitter renders the DFA graph instead of interpreting a table),
// followed by the predictor block.
func (p *Program) Bytes() []byte {
	var out []byte
	if !p.opts.OptimizeFSM {
		out = p.opcodes.Bytes()
	}
	out = append(out, p.predictor.Bytes(p.opts)...)
	return out
}

// String returns the source pattern used to compile p.
func (p *Program) String() string {
	return p.pattern
}

// HasLiteralTrie reports whether pattern compiled to a pure alternation
// of string literals, in which case MatchesLiteral can answer a match
// query without interpreting a single opcode.
func (p *Program) HasLiteralTrie() bool {
	return p.topGroup != nil && p.topGroup.HasLiteralTrie()
}

// MatchesLiteral reports whether haystack matches one of the pattern's
// literal alternatives, when HasLiteralTrie is true. It always reports
// false otherwise; callers that need general matching must do so via
// the opcode program this package only compiles, not executes.
func (p *Program) MatchesLiteral(haystack []byte) bool {
	return p.topGroup != nil && p.topGroup.MatchesLiteral(haystack)
}
