package position

import "testing"

func TestSetInsertDedupAndOrder(t *testing.T) {
	var s Set
	s.Insert(New(5))
	s.Insert(New(1))
	s.Insert(New(5)) // duplicate
	s.Insert(New(3))

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	items := s.Slice()
	for i := 1; i < len(items); i++ {
		if items[i-1] >= items[i] {
			t.Fatalf("items not strictly ascending: %v", items)
		}
	}
}

func TestSetKeyIdentity(t *testing.T) {
	a := Of(New(1), New(2), New(3))
	b := Of(New(3), New(2), New(1))
	c := Of(New(1), New(2))

	if a.Key() != b.Key() {
		t.Error("sets with the same members (inserted in any order) must produce equal keys")
	}
	if a.Key() == c.Key() {
		t.Error("sets with different members must produce different keys")
	}
}

func TestSetEqualAndClone(t *testing.T) {
	a := Of(New(1), New(2))
	clone := a.Clone()
	clone.Insert(New(3))

	if a.Equal(clone) {
		t.Error("mutating the clone should not affect the original's equality")
	}
	if !a.Equal(Of(New(2), New(1))) {
		t.Error("Equal should ignore insertion order")
	}
}

func TestSetFilterAndMap(t *testing.T) {
	s := Of(New(1), New(2).SetAccept(true), New(3))
	accepting := s.Filter(Position.IsAccept)
	if accepting.Len() != 1 {
		t.Fatalf("Filter(IsAccept) len = %d, want 1", accepting.Len())
	}

	shifted := s.Map(func(p Position) Position { return p.IncrementIter(1) })
	shifted.ForEach(func(p Position) {
		if p.Iterations() != 1 {
			t.Errorf("Map did not apply to every member: %v", p)
		}
	})
}
