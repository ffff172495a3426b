package relesk

import (
	"errors"
	"strings"
	"testing"

	"github.com/lesk-go/relesk/rerror"
)

func TestCompileLiteralPattern(t *testing.T) {
	prog, err := Compile("abc", DefaultOptions())
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if len(prog.Opcodes()) == 0 {
		t.Fatal("expected a non-empty opcode program")
	}
	tbl := prog.Predictor()
	if !tbl.OnePreString || string(tbl.Prefix.Bytes) != "abc" {
		t.Fatalf("expected predictor prefix %q, got OnePreString=%v Prefix=%q", "abc", tbl.OnePreString, tbl.Prefix.Bytes)
	}
}

func TestCompileInvalidPatternReturnsError(t *testing.T) {
	_, err := Compile("(unclosed", DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for an unbalanced group")
	}
}

func TestMustCompilePanicsOnError(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected MustCompile to panic on an invalid pattern")
		}
		msg, ok := r.(string)
		if !ok || !strings.HasPrefix(msg, "relesk: Compile(") {
			t.Fatalf("unexpected panic value: %v", r)
		}
	}()
	MustCompile("(unclosed")
}

func TestMustCompileSucceeds(t *testing.T) {
	prog := MustCompile(`[a-z]+`)
	if prog.String() != `[a-z]+` {
		t.Fatalf("String() = %q", prog.String())
	}
}

func TestProgramBytesIncludesOpcodesAndPredictor(t *testing.T) {
	prog, err := Compile("ab", DefaultOptions())
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	out := prog.Bytes()
	if len(out) < 4*len(prog.Opcodes()) {
		t.Fatalf("Bytes() too short: got %d bytes for %d opcodes", len(out), len(prog.Opcodes()))
	}
}

func TestCompileRejectsInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.EscapeCharacter = 0x200
	_, err := Compile("a", opts)
	if err == nil {
		t.Fatal("expected an error for an out-of-range EscapeCharacter")
	}
}

func TestCompileLiteralAlternationExposesTrie(t *testing.T) {
	prog, err := Compile("foo|bar|baz", DefaultOptions())
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if !prog.HasLiteralTrie() {
		t.Fatal("expected a pure string-literal alternation to build a literal trie")
	}
	if !prog.MatchesLiteral([]byte("bar")) {
		t.Fatal("expected MatchesLiteral to match one of the literal alternatives")
	}
	if prog.MatchesLiteral([]byte("qux")) {
		t.Fatal("did not expect MatchesLiteral to match a non-alternative")
	}
}

func TestCompileNonLiteralPatternHasNoTrie(t *testing.T) {
	prog, err := Compile(`[a-z]+`, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if prog.HasLiteralTrie() {
		t.Fatal("did not expect a character-class pattern to build a literal trie")
	}
	if prog.MatchesLiteral([]byte("anything")) {
		t.Fatal("expected MatchesLiteral to report false without a trie")
	}
}

func TestCompileExceedsLimits(t *testing.T) {
	// A bounded-repeat count above limits.MaxIter (65535) trips the
	// parser's own limit check deterministically.
	_, err := Compile("a{99999}", DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for a repeat count above the iteration limit")
	}
	if !errors.Is(err, rerror.ExceedsLimits) {
		t.Fatalf("expected rerror.ExceedsLimits, got %v", err)
	}
}

func TestCompileIterationProductOverflow(t *testing.T) {
	// Each count here is well under the iteration limit on its own;
	// sibling repeats stay independent and compile fine.
	if _, err := Compile("a{1000}b{1000}", DefaultOptions()); err != nil {
		t.Fatalf("sibling repeats within the limit should compile, got %v", err)
	}

	// Nesting multiplies the counts: 1000*1000 overflows the 16-bit
	// iteration field and must be rejected at the product check, not
	// silently wrapped.
	_, err := Compile("a{1000}{1000}", DefaultOptions())
	if err == nil {
		t.Fatal("expected an error when nested repeat counts multiply past the iteration limit")
	}
	if !errors.Is(err, rerror.ExceedsLimits) {
		t.Fatalf("expected rerror.ExceedsLimits, got %v", err)
	}
}

func TestProgramBytesOptimizeFSMOmitsOpcodes(t *testing.T) {
	opts := DefaultOptions()
	opts.OptimizeFSM = true
	prog, err := Compile("ab", opts)
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if prog.DFA() == nil {
		t.Fatal("expected the DFA graph to be exposed for direct-code emission")
	}
	table, err := Compile("ab", DefaultOptions())
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if got, want := len(prog.Bytes()), len(table.Bytes())-4*len(table.Opcodes()); got != want {
		t.Fatalf("Bytes() with OptimizeFSM = %d bytes, want %d (predictor block only)", got, want)
	}
}
