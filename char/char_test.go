package char

import "testing"

func TestIsMeta(t *testing.T) {
	tests := []struct {
		name string
		c    Char
		want bool
	}{
		{"ascii 'a'", Char('a'), false},
		{"ascii max byte", Char(255), false},
		{"meta MIN sentinel", MetaMIN, false},
		{"BOL", BeginningOfLine, true},
		{"meta MAX sentinel", MetaMAX, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.IsMeta(); got != tt.want {
				t.Errorf("IsMeta() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToggleCase(t *testing.T) {
	tests := []struct {
		name string
		c    Char
		want Char
	}{
		{"lower to upper", Char('a'), Char('A')},
		{"upper to lower", Char('Z'), Char('z')},
		{"digit unchanged", Char('5'), Char('5')},
		{"meta unchanged", BeginningOfLine, BeginningOfLine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.ToggleCase(); got != tt.want {
				t.Errorf("ToggleCase() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTryFromEscape(t *testing.T) {
	tests := []struct {
		name    string
		c       Char
		want    Char
		wantOk  bool
	}{
		{"a -> BEL", Char('a'), Char(0x07), true},
		{"n -> LF", Char('n'), Char('\n'), true},
		{"r -> CR", Char('r'), Char('\r'), true},
		{"not an escape letter", Char('x'), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TryFromEscape(tt.c)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if ok && got != tt.want {
				t.Errorf("TryFromEscape() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHash(t *testing.T) {
	// Hash must fit in 9 bits for any Char, including meta characters.
	for _, c := range []Char{0, 255, MetaMIN, BeginningOfLine, MetaMAX} {
		if h := c.Hash(); h >= 0x200 {
			t.Errorf("Hash(%v) = %#x, want < 0x200", c, h)
		}
	}
}

func TestIsAlphanumeric(t *testing.T) {
	tests := []struct {
		c    Char
		want bool
	}{
		{Char('a'), true},
		{Char('Z'), true},
		{Char('3'), true},
		{Char('_'), false},
		{BeginningOfLine, false},
	}
	for _, tt := range tests {
		if got := tt.c.IsAlphanumeric(); got != tt.want {
			t.Errorf("IsAlphanumeric(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}
