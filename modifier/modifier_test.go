package modifier

import "testing"

func TestModeFromByte(t *testing.T) {
	tests := []struct {
		b          byte
		mode       Mode
		enable, ok bool
	}{
		{'i', ModeI, true, true},
		{'I', ModeI, false, true},
		{'x', ModeX, true, true},
		{'q', ModeQ, true, true},
		{'z', 0, false, false},
	}
	for _, tt := range tests {
		mode, enable, ok := ModeFromByte(tt.b)
		if ok != tt.ok {
			t.Fatalf("ModeFromByte(%q) ok = %v, want %v", tt.b, ok, tt.ok)
		}
		if !ok {
			continue
		}
		if mode != tt.mode || enable != tt.enable {
			t.Errorf("ModeFromByte(%q) = (%v, %v), want (%v, %v)", tt.b, mode, enable, tt.mode, tt.enable)
		}
	}
}

func TestSetAndIsSet(t *testing.T) {
	m := NewMap()
	m.Set(ModeI, true, 10, 20)

	for i := uint32(0); i < 30; i++ {
		want := i >= 10 && i <= 20
		if got := m.IsSet(i, ModeI); got != want {
			t.Errorf("IsSet(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestDisableSubtractsRange(t *testing.T) {
	m := NewMap()
	m.Set(ModeM, true, 0, 100)
	m.Set(ModeM, false, 40, 60)

	if !m.IsSet(39, ModeM) || !m.IsSet(61, ModeM) {
		t.Error("range outside the disabled span should stay enabled")
	}
	for i := uint32(40); i <= 60; i++ {
		if m.IsSet(i, ModeM) {
			t.Errorf("index %d should be disabled", i)
		}
	}
}

func TestAdjacentEnablesMerge(t *testing.T) {
	m := NewMap()
	m.Set(ModeS, true, 0, 10)
	m.Set(ModeS, true, 11, 20)

	if len(m.spans[ModeS]) != 1 {
		t.Fatalf("adjacent ranges should merge into one span, got %d", len(m.spans[ModeS]))
	}
	if !m.IsSet(10, ModeS) || !m.IsSet(11, ModeS) {
		t.Error("merged span should cover the join point")
	}
}

func TestModesAreIndependent(t *testing.T) {
	m := NewMap()
	m.Set(ModeI, true, 0, 5)

	if m.IsSet(2, ModeX) {
		t.Error("setting ModeI must not affect ModeX")
	}
}
