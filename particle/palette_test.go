package particle

import "testing"

func TestPaletteCanonicalColors(t *testing.T) {
	got := Palette(5)
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	for i, c := range got {
		if c != basePalette[i] {
			t.Errorf("color %d = %+v, want %+v", i, c, basePalette[i])
		}
	}
}

func TestPaletteLargeK(t *testing.T) {
	const k = 12
	got := Palette(k)
	if len(got) != k {
		t.Fatalf("len = %d, want %d", len(got), k)
	}
	for i, c := range got {
		for name, v := range map[string]float32{"r": c.R, "g": c.G, "b": c.B} {
			if v < 0 || v > 1 {
				t.Errorf("color %d component %s = %v, want in [0, 1]", i, name, v)
			}
		}
	}
	seen := map[Color]bool{}
	for i, c := range got {
		if seen[c] {
			t.Errorf("color %d (%+v) repeats an earlier palette entry", i, c)
		}
		seen[c] = true
	}
}

func TestPaletteSingleType(t *testing.T) {
	got := Palette(1)
	if len(got) != 1 || got[0] != basePalette[0] {
		t.Errorf("Palette(1) = %+v, want just %+v", got, basePalette[0])
	}
}
