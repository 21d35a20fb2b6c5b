package broadword

import "testing"

func TestPopCount(t *testing.T) {
	cases := []struct {
		w    uint64
		want int
	}{
		{0, 0},
		{1, 1},
		{0b1011, 3},
		{^uint64(0), 64},
	}
	for _, c := range cases {
		if got := PopCount(c.w); got != c.want {
			t.Errorf("PopCount(%b) = %d, want %d", c.w, got, c.want)
		}
	}
}

func TestLSB(t *testing.T) {
	if got := LSB(0); got != 64 {
		t.Errorf("LSB(0) = %d, want 64", got)
	}
	if got := LSB(0b1000); got != 3 {
		t.Errorf("LSB(0b1000) = %d, want 3", got)
	}
}

func TestMSB(t *testing.T) {
	if got := MSB(0); got != -1 {
		t.Errorf("MSB(0) = %d, want -1", got)
	}
	if got := MSB(0b1000); got != 3 {
		t.Errorf("MSB(0b1000) = %d, want 3", got)
	}
	if got := MSB(0b1011); got != 3 {
		t.Errorf("MSB(0b1011) = %d, want 3", got)
	}
}

func TestSelect(t *testing.T) {
	w := uint64(0b101010) // bits set at 1, 3, 5
	if got := Select(w, 0); got != 1 {
		t.Errorf("Select(rank 0) = %d, want 1", got)
	}
	if got := Select(w, 1); got != 3 {
		t.Errorf("Select(rank 1) = %d, want 3", got)
	}
	if got := Select(w, 2); got != 5 {
		t.Errorf("Select(rank 2) = %d, want 5", got)
	}
	if got := Select(w, 3); got != 64 {
		t.Errorf("Select(rank 3) = %d, want 64 (exhausted)", got)
	}
}

func TestReverse(t *testing.T) {
	if got := Reverse(1); got != 1<<63 {
		t.Errorf("Reverse(1) = %b, want %b", got, uint64(1)<<63)
	}
	if got := Reverse(Reverse(0xdeadbeef)); got != 0xdeadbeef {
		t.Errorf("Reverse(Reverse(x)) = %x, want original", got)
	}
}
