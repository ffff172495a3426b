package parser

import (
	"testing"

	"github.com/lesk-go/relesk/options"
)

func mustParse(t *testing.T, pattern string) *Result {
	t.Helper()
	r, err := Parse(pattern, options.DefaultOptions())
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", pattern, err)
	}
	return r
}

func TestParseLiteralConcatenation(t *testing.T) {
	r := mustParse(t, "ab")
	if r.StartPositions.IsEmpty() {
		t.Fatal("expected nonempty start positions for \"ab\"")
	}
	// position 0 ('a') should follow to position 1 ('b').
	var sawFollow bool
	for pos, set := range r.FollowPositions {
		if pos.Idx() == 0 && set.Len() > 0 {
			sawFollow = true
		}
	}
	if !sawFollow {
		t.Error("expected position 0 to have a followpos entry for concatenation")
	}
}

func TestParseAlternation(t *testing.T) {
	r := mustParse(t, "a|b")
	if r.StartPositions.Len() != 2 {
		t.Fatalf("StartPositions.Len() = %d, want 2 for \"a|b\"", r.StartPositions.Len())
	}
}

func TestParseStar(t *testing.T) {
	r := mustParse(t, "a*")
	if !r.TopGroup.Nullable {
		t.Error("\"a*\" should be nullable")
	}
}

func TestParsePlusIsNotNullable(t *testing.T) {
	r := mustParse(t, "a+")
	if r.TopGroup.Nullable {
		t.Error("\"a+\" should not be nullable")
	}
}

func TestParseBoundedRepeat(t *testing.T) {
	r := mustParse(t, "a{2,3}")
	if r.StartPositions.IsEmpty() {
		t.Fatal("expected nonempty start positions for \"a{2,3}\"")
	}
}

func TestParseGroupAndLookahead(t *testing.T) {
	r := mustParse(t, "a(?=b)")
	if r.StartPositions.IsEmpty() {
		t.Fatal("expected nonempty start positions for lookahead pattern")
	}
}

func TestParseBracketExpression(t *testing.T) {
	r := mustParse(t, "[a-z]+")
	if r.StartPositions.IsEmpty() {
		t.Fatal("expected nonempty start positions for bracket expression")
	}
}

func TestParseMismatchedParens(t *testing.T) {
	_, err := Parse("(a", options.DefaultOptions())
	if err == nil {
		t.Fatal("expected a mismatched-parens error")
	}
}

func TestParseMismatchedBrackets(t *testing.T) {
	_, err := Parse("[a-z", options.DefaultOptions())
	if err == nil {
		t.Fatal("expected a mismatched-brackets error")
	}
}

func TestParseEmptyExpressionRejected(t *testing.T) {
	_, err := Parse("*", options.DefaultOptions())
	if err == nil {
		t.Fatal("expected an empty-expression error for a bare quantifier")
	}
}

func TestParseRaiseOnErrorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when RaiseOnError is set")
		}
	}()
	opts := options.DefaultOptions()
	opts.RaiseOnError = true
	_, _ = Parse("(a", opts)
}

func TestParseBracketEscapesEnabledByDefault(t *testing.T) {
	// Under DefaultOptions, a backslash inside [...] introduces an
	// escape: the span scanner must not mistake the escaped ']' for the
	// closing bracket.
	for _, pattern := range []string{`[\]]`, `[\d]+`, `[\x41-\x5A]`} {
		if _, err := Parse(pattern, options.DefaultOptions()); err != nil {
			t.Errorf("Parse(%q) error = %v", pattern, err)
		}
	}

	opts := options.DefaultOptions()
	opts.BracketEscapes = false
	// With escapes disabled the backslash is an ordinary member, so the
	// first ']' closes the class and the trailing ']' is a literal atom.
	if _, err := Parse(`[\]]`, opts); err != nil {
		t.Errorf("Parse with BracketEscapes off error = %v", err)
	}
}

func TestParseStringLiteralAlternationUsesTrie(t *testing.T) {
	r := mustParse(t, "cat|dog|bird")
	if !r.TopGroup.HasLiteralTrie() {
		t.Fatal("a pure alternation of plain literals should build a string-literal trie")
	}
	if !r.TopGroup.MatchesLiteral([]byte("I saw a dog today")) {
		t.Error("MatchesLiteral should recognize one of the alternatives")
	}
}
