package predictor

import (
	"testing"

	"github.com/lesk-go/relesk/compiler"
	"github.com/lesk-go/relesk/options"
	"github.com/lesk-go/relesk/parser"
	"github.com/lesk-go/relesk/state"
)

func build(t *testing.T, pattern string) *Tables {
	t.Helper()
	opts := options.DefaultOptions()
	r, err := parser.Parse(pattern, opts)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", pattern, err)
	}
	start, err := compiler.Compile(r)
	if err != nil {
		t.Fatalf("Compile(%q) error = %v", pattern, err)
	}
	return Build(start, opts)
}

func TestBuildLiteralPrefix(t *testing.T) {
	tbl := build(t, "abc")
	if !tbl.OnePreString {
		t.Fatal("expected OnePreString to be true for a pure literal pattern")
	}
	if string(tbl.Prefix.Bytes) != "abc" {
		t.Fatalf("Prefix = %q, want %q", tbl.Prefix.Bytes, "abc")
	}
	if tbl.MinPatternLength != 3 {
		t.Fatalf("MinPatternLength = %d, want 3", tbl.MinPatternLength)
	}
}

func TestBuildAlternationHasNoLiteralPrefix(t *testing.T) {
	tbl := build(t, "a|b")
	if tbl.OnePreString {
		t.Fatal("a branching start state should not yield a one-pre-string prefix")
	}
	if !tbl.Prefix.IsEmpty() {
		t.Fatal("expected an empty prefix")
	}
}

func TestPredictionBitmapMarksReachableBytes(t *testing.T) {
	tbl := build(t, "a|b")
	if tbl.PredictionBitmap['a']&1 == 0 {
		t.Fatal("expected bit 0 set for 'a' at depth 0")
	}
	if tbl.PredictionBitmap['b']&1 == 0 {
		t.Fatal("expected bit 0 set for 'b' at depth 0")
	}
	if tbl.PredictionBitmap['c'] != 0 {
		t.Fatal("expected no bits set for an unreachable byte")
	}
}

func TestPredictionBitmapMaskedPastMinPatternLength(t *testing.T) {
	tbl := build(t, "abc")
	mask := byte(1<<tbl.MinPatternLength) - 1
	for _, b := range tbl.PredictionBitmap {
		if b&^mask != 0 {
			t.Fatalf("expected no bits set beyond MinPatternLength=%d, got %08b", tbl.MinPatternLength, b)
		}
	}
}

func TestBuildRespectsMaxDepth(t *testing.T) {
	tbl := build(t, "aaaaaaaaaaaaaaaa")
	if tbl.MinPatternLength != MaxDepth {
		t.Fatalf("MinPatternLength = %d, want capped at MaxDepth=%d", tbl.MinPatternLength, MaxDepth)
	}
}

func TestBytesWithoutMatchArray(t *testing.T) {
	opts := options.DefaultOptions()
	tbl := build(t, "abc")
	out := tbl.Bytes(opts)
	if len(out) != 2+len(tbl.Prefix.Bytes) {
		t.Fatalf("Bytes() length = %d, want %d", len(out), 2+len(tbl.Prefix.Bytes))
	}
	if out[0] != byte(len(tbl.Prefix.Bytes)) {
		t.Fatalf("Bytes()[0] (prefix length) = %d, want %d", out[0], len(tbl.Prefix.Bytes))
	}
	if out[1]&0x10 == 0 {
		t.Fatal("expected the one-pre-string flag bit set")
	}
}

func TestBytesWithMatchArray(t *testing.T) {
	opts := options.DefaultOptions()
	opts.PredictMatchArray = true
	r, err := parser.Parse("abc", opts)
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	start, err := compiler.Compile(r)
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	tbl := Build(start, opts)
	out := tbl.Bytes(opts)
	want := 2 + len(tbl.Prefix.Bytes) + 256 + 0x1000
	if len(out) != want {
		t.Fatalf("Bytes() length = %d, want %d", len(out), want)
	}
}

func TestBuildExercisesNextStates(t *testing.T) {
	opts := options.DefaultOptions()
	r, err := parser.Parse("[ab]c", opts)
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	start, err := compiler.Compile(r)
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	n := 0
	state.NextStates(start, func(*state.State) { n++ })
	if n == 0 {
		t.Fatal("expected at least one reachable state")
	}
	tbl := Build(start, opts)
	if tbl.PredictionBitmap['a']&1 == 0 || tbl.PredictionBitmap['b']&1 == 0 {
		t.Fatal("expected both 'a' and 'b' reachable at depth 0")
	}
}
