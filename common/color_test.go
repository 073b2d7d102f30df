package common

import "testing"

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in   string
		want Color
		err  bool
	}{
		{in: "#fff", want: Color{1, 1, 1, 1}},
		{in: "#000000", want: Color{0, 0, 0, 1}},
		{in: "ff0000", want: Color{1, 0, 0, 1}},
		{in: "#F9F9F9", want: Color{249.0 / 255, 249.0 / 255, 249.0 / 255, 1}},
		{in: "#ff", err: true},
		{in: "#gggggg", err: true},
	}

	for _, c := range cases {
		got, err := ParseHexColor(c.in)
		if c.err {
			if err == nil {
				t.Errorf("ParseHexColor(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHexColor(%q): unexpected error %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseHexColor(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestMustPalettePanicsOnBadEntry(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustPalette("#fff", "nope")
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "1", "2"); got != "1" {
		t.Errorf("Coalesce = %q, want %q", got, "1")
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Errorf("Coalesce = %d, want 0", got)
	}
}
