package atlas

import (
	"image/color"
	"testing"
)

func TestColorForIndex(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "#101010"},
		{1, "#301010"},
		{7, "#F01010"},
		{8, "#103010"},
		{64, "#101030"},
		{511, "#F0F0F0"},
		{512, "#101010"}, // wraps
	}
	for _, tt := range tests {
		if got := ColorForIndex(tt.index); got != tt.want {
			t.Errorf("ColorForIndex(%d) = %s, want %s", tt.index, got, tt.want)
		}
	}
}

func TestKeyColor_InjectiveAndReserved(t *testing.T) {
	seen := make(map[color.NRGBA]int, ColorCapacity)
	for i := 0; i < ColorCapacity; i++ {
		c := KeyColor(i)
		if prev, ok := seen[c]; ok {
			t.Fatalf("KeyColor(%d) == KeyColor(%d) == %v", i, prev, c)
		}
		seen[c] = i
		if c.R == 0 && c.G == 0 && c.B == 0 {
			t.Errorf("KeyColor(%d) is black", i)
		}
		if c.R == 255 && c.G == 255 && c.B == 255 {
			t.Errorf("KeyColor(%d) is white", i)
		}
		if c.A != 255 {
			t.Errorf("KeyColor(%d) alpha = %d", i, c.A)
		}
	}
}

func TestParseHex(t *testing.T) {
	for i := 0; i < ColorCapacity; i += 37 {
		c, err := ParseHex(ColorForIndex(i))
		if err != nil {
			t.Fatalf("ParseHex: %v", err)
		}
		if c != KeyColor(i) {
			t.Errorf("ParseHex(ColorForIndex(%d)) = %v, want %v", i, c, KeyColor(i))
		}
	}

	for _, bad := range []string{"", "101010", "#10101", "#GG1010", "#1010101"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q) expected error", bad)
		}
	}
}
