package literal

import "testing"

func TestNewCopiesBytes(t *testing.T) {
	b := []byte("abc")
	p := New(b, true)
	b[0] = 'z'
	if p.Bytes[0] != 'a' {
		t.Fatalf("New should copy its input, got %q after mutating the source", p.Bytes)
	}
	if !p.Complete {
		t.Fatal("expected Complete to be true")
	}
}

func TestLenAndIsEmpty(t *testing.T) {
	if !New(nil, false).IsEmpty() {
		t.Fatal("expected an empty prefix for nil bytes")
	}
	p := New([]byte("abc"), false)
	if p.IsEmpty() {
		t.Fatal("expected non-empty prefix")
	}
	if p.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", p.Len())
	}
}

func TestCommonPrefix(t *testing.T) {
	tests := []struct {
		a, b, want string
	}{
		{"abcdef", "abcxyz", "abc"},
		{"abc", "abc", "abc"},
		{"abc", "xyz", ""},
		{"abc", "ab", "ab"},
		{"", "abc", ""},
	}
	for _, tt := range tests {
		got := CommonPrefix([]byte(tt.a), []byte(tt.b))
		if string(got) != tt.want {
			t.Errorf("CommonPrefix(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestHasPrefix(t *testing.T) {
	p := New([]byte("hello world"), false)
	if !p.HasPrefix([]byte("hello")) {
		t.Fatal("expected HasPrefix to match a true prefix")
	}
	if p.HasPrefix([]byte("world")) {
		t.Fatal("expected HasPrefix to reject a non-prefix substring")
	}
}

func TestString(t *testing.T) {
	p := New([]byte("abc"), true)
	if got := p.String(); got != "literal{abc, complete=true}" {
		t.Fatalf("String() = %q", got)
	}
}
