package char

import "testing"

func TestInsertAndContains(t *testing.T) {
	var s Chars
	s.Insert(Char('a'))
	s.Insert(BeginningOfLine)

	if !s.Contains(Char('a')) {
		t.Error("expected 'a' to be contained")
	}
	if !s.Contains(BeginningOfLine) {
		t.Error("expected BOL to be contained")
	}
	if s.Contains(Char('b')) {
		t.Error("did not expect 'b' to be contained")
	}
}

func TestInsertRangeAndRanges(t *testing.T) {
	var s Chars
	s.InsertRange(Char('a'), Char('c'))
	s.InsertRange(Char('g'), Char('i'))
	s.InsertRange(Char('k'), Char('k'))

	got := s.Ranges()
	want := [][2]Char{{Char('a'), Char('c')}, {Char('g'), Char('i')}, {Char('k'), Char('k')}}

	if len(got) != len(want) {
		t.Fatalf("Ranges() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Ranges()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSetAlgebra(t *testing.T) {
	var a, b Chars
	a.InsertRange(Char('a'), Char('m'))
	b.InsertRange(Char('h'), Char('z'))

	union := a.Union(b)
	if !union.Contains(Char('a')) || !union.Contains(Char('z')) {
		t.Error("union missing expected members")
	}

	inter := a.Intersect(b)
	if !inter.Contains(Char('h')) || inter.Contains(Char('a')) || inter.Contains(Char('z')) {
		t.Error("intersection incorrect")
	}

	diff := a.Difference(b)
	if diff.Contains(Char('h')) || !diff.Contains(Char('a')) {
		t.Error("difference incorrect")
	}

	if !inter.IsSubset(a) || !inter.IsSubset(b) {
		t.Error("intersection should be a subset of both operands")
	}

	if !a.Intersects(b) {
		t.Error("a and b should intersect")
	}
}

func TestComplementPreservesMetaBits(t *testing.T) {
	var s Chars
	s.Insert(BeginningOfLine)
	s.Insert(Char('a'))

	comp := s.Complement()
	if !comp.Contains(BeginningOfLine) {
		t.Error("Complement must never flip meta bits")
	}
	if comp.Contains(Char('a')) {
		t.Error("Complement should remove 'a' from the byte range")
	}
	if !comp.Contains(Char('b')) {
		t.Error("Complement should add bytes not originally present")
	}
}

func TestLoHi(t *testing.T) {
	var s Chars
	s.InsertRange(Char('f'), Char('z'))

	if got := s.Lo(); got != Char('f') {
		t.Errorf("Lo() = %v, want 'f'", got)
	}
	if got := s.Hi(); got != Char('z') {
		t.Errorf("Hi() = %v, want 'z'", got)
	}

	var empty Chars
	if got := empty.Lo(); got != 0 {
		t.Errorf("Lo() of empty set = %v, want 0", got)
	}
}

func TestMakeCaseInsensitive(t *testing.T) {
	var upper Chars
	upper.InsertRange(Char('A'), Char('Z'))
	upper.MakeCaseInsensitive()

	var lower Chars
	lower.InsertRange(Char('a'), Char('z'))
	lower.MakeCaseInsensitive()

	if upper != lower {
		t.Error("case-insensitive closure of [A-Z] should equal that of [a-z]")
	}
}

func TestPosixClassLookup(t *testing.T) {
	tests := []struct {
		name    string
		lookup  string
		contain Char
		exclude Char
	}{
		{"digit", "digit", Char('5'), Char('a')},
		{"alpha", "ALPHA", Char('q'), Char('5')},
		{"space", "Space", Char(' '), Char('x')},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, ok := FindPosixClassByName(tt.lookup)
			if !ok {
				t.Fatalf("class %q not found", tt.lookup)
			}
			if !set.Contains(tt.contain) {
				t.Errorf("class %q should contain %v", tt.lookup, tt.contain)
			}
			if set.Contains(tt.exclude) {
				t.Errorf("class %q should not contain %v", tt.lookup, tt.exclude)
			}
		})
	}

	if _, ok := FindPosixClassByName("nope"); ok {
		t.Error("unknown class name should not resolve")
	}
}
