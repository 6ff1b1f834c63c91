package conv

import "testing"

func TestItoaUtoa(t *testing.T) {
	var buf [24]byte
	if got := string(Itoa(buf[:], -1234)); got != "-1234" {
		t.Fatalf("Itoa = %q", got)
	}
	if got := string(Utoa(buf[:], 0)); got != "0" {
		t.Fatalf("Utoa(0) = %q", got)
	}
}

func TestPadUint(t *testing.T) {
	type C struct {
		n     uint64
		width int
		want  string
	}
	for _, c := range []C{
		{5, 2, "05"},
		{50, 2, "50"},
		{123, 2, "23"},
		{0, 3, "000"},
		{59, 1, "9"},
	} {
		var buf [5]byte
		if got := string(PadUint(buf[:], c.n, c.width)); got != c.want {
			t.Fatalf("PadUint(%d,%d) = %q, want %q", c.n, c.width, got, c.want)
		}
	}
}

func TestTenths(t *testing.T) {
	type C struct {
		v    float32
		unit byte
		want string
	}
	for _, c := range []C{
		{40.0, '%', "40.0%"},
		{49.97, '%', "49.9%"},
		{11.25, 'V', "11.2V"},
		{0, 0, "0.0"},
		{100, '%', "100.0%"},
		{-3, '%', "0.0%"},
	} {
		var buf [24]byte
		if got := string(Tenths(buf[:], c.v, c.unit)); got != c.want {
			t.Fatalf("Tenths(%v,%q) = %q, want %q", c.v, c.unit, got, c.want)
		}
	}
}

func TestParseDigits(t *testing.T) {
	for s, want := range map[string]uint16{
		"":    0,
		"5":   5,
		"50":  50,
		"120": 120,
		"010": 10,
	} {
		if got := ParseDigits([]byte(s)); got != want {
			t.Fatalf("ParseDigits(%q) = %d, want %d", s, got, want)
		}
	}
}
