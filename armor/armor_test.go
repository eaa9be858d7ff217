package armor

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/madpsy/aisasm/bitbuf"
)

func TestAlphabet(t *testing.T) {
	for _, tc := range []struct {
		v byte
		c byte
	}{
		{0, '0'}, {9, '9'}, {39, 'W'}, {40, '`'}, {63, 'w'},
	} {
		if c := Char(tc.v); c != tc.c {
			t.Errorf("Char(%d) = %q, expected %q", tc.v, c, tc.c)
		}
		if v, ok := Value(tc.c); !ok || v != tc.v {
			t.Errorf("Value(%q) = %d, %v; expected %d", tc.c, v, ok, tc.v)
		}
	}
	for _, c := range []byte{'X', '_', 'x', ' ', '/'} {
		if _, ok := Value(c); ok {
			t.Errorf("Value(%q) accepted", c)
		}
	}
}

func TestPackPad(t *testing.T) {
	b := bitbuf.New(0)
	_ = b.AppendUint(8, 6)
	_ = b.AppendUint(1, 2)
	s, pad, err := Pack(b, true)
	if err != nil {
		t.Fatal(err)
	}
	if s != "8@" || pad != 4 {
		t.Errorf("Pack = %q, %d; expected \"8@\", 4", s, pad)
	}
	if _, _, err := Pack(b, false); !errors.Is(err, ErrAlignment) {
		t.Errorf("unpadded Pack: expected ErrAlignment, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(289))
	for n := 0; n < 200; n++ {
		bits := make([]byte, n)
		for i := range bits {
			bits[i] = byte(r.Intn(2))
		}
		b := bitbuf.FromBits(bits)
		s, pad, err := Pack(b, true)
		if err != nil {
			t.Fatalf("Pack(%d bits): %v", n, err)
		}
		if pad < 0 || pad > MaxPad {
			t.Fatalf("pad %d", pad)
		}
		u, err := Unpack(s, pad)
		if err != nil {
			t.Fatalf("Unpack(%q, %d): %v", s, pad, err)
		}
		if !u.Equal(b) {
			t.Errorf("%d bits: round trip mismatch\n%s\n%s", n, b, u)
		}
	}
}

func TestUnpackErrors(t *testing.T) {
	if _, err := Unpack("8X", 0); !errors.Is(err, ErrArmor) {
		t.Errorf("bad char: expected ErrArmor, got %v", err)
	}
	if _, err := Unpack("8P", 6); !errors.Is(err, ErrArmor) {
		t.Errorf("pad 6: expected ErrArmor, got %v", err)
	}
}
