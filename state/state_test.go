package state

import (
	"testing"

	"github.com/lesk-go/relesk/char"
	"github.com/lesk-go/relesk/position"
)

func TestAddEdgeKeepsSortedOrder(t *testing.T) {
	s := New(position.Of(position.New(1)))
	target := New(position.Of(position.New(2)))

	s.AddEdge(char.Char('m'), char.Char('z'), target)
	s.AddEdge(char.Char('a'), char.Char('c'), target)
	s.AddEdge(char.Char('e'), char.Char('k'), target)

	for i := 1; i < len(s.Edges); i++ {
		if s.Edges[i-1].Lo >= s.Edges[i].Lo {
			t.Fatalf("edges not sorted: %v", s.Edges)
		}
	}
}

func TestEdgeFor(t *testing.T) {
	s := New(position.Set{})
	target := New(position.Set{})
	s.AddEdge(char.Char('a'), char.Char('z'), target)

	edge, ok := s.EdgeFor(char.Char('m'))
	if !ok || edge.Target != target {
		t.Fatal("EdgeFor should find the matching range")
	}

	if _, ok := s.EdgeFor(char.Char('0')); ok {
		t.Fatal("EdgeFor should miss a char outside any range")
	}
}

func TestIsAccept(t *testing.T) {
	s := New(position.Set{})
	if s.IsAccept() {
		t.Fatal("fresh state should not be accepting")
	}
	s.Accept = 3
	if !s.IsAccept() {
		t.Fatal("state with nonzero Accept should be accepting")
	}
}

func TestNextStatesWalksChain(t *testing.T) {
	a := New(position.Set{})
	b := New(position.Set{})
	c := New(position.Set{})
	a.Next = b
	b.Next = c

	var visited []*State
	NextStates(a, func(s *State) { visited = append(visited, s) })

	if len(visited) != 3 || visited[0] != a || visited[2] != c {
		t.Fatalf("NextStates should visit a, b, c in order, got %v", visited)
	}
}

func TestLookaheadSet(t *testing.T) {
	var s LookaheadSet
	s.Insert(5)
	s.Insert(2)
	s.Insert(5)

	if s.IsEmpty() || len(s.Slice()) != 2 {
		t.Fatalf("expected 2 distinct members, got %v", s.Slice())
	}
	if !s.Contains(2) || s.Contains(9) {
		t.Error("Contains behaved incorrectly")
	}
}
