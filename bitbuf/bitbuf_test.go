package bitbuf

import (
	"errors"
	"testing"
)

func TestUintRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		v     uint64
		width int
	}{
		{0, 1}, {1, 1}, {8, 6}, {3, 2}, {445566778, 30}, {262143, 18}, {1023, 10},
	} {
		b := New(0)
		if err := b.AppendUint(tc.v, tc.width); err != nil {
			t.Fatalf("AppendUint(%d, %d): %v", tc.v, tc.width, err)
		}
		if b.Len() != tc.width {
			t.Errorf("AppendUint(%d, %d): got %d bits", tc.v, tc.width, b.Len())
		}
		if got, err := b.Uint(0, tc.width); err != nil || got != tc.v {
			t.Errorf("Uint(0, %d) = %d, %v; expected %d", tc.width, got, err, tc.v)
		}
	}
}

func TestUintRange(t *testing.T) {
	b := New(0)
	if err := b.AppendUint(64, 6); !errors.Is(err, ErrEncoding) {
		t.Errorf("AppendUint(64, 6): expected ErrEncoding, got %v", err)
	}
	if err := b.AppendUint(63, 6); err != nil {
		t.Errorf("AppendUint(63, 6): %v", err)
	}
}

func TestIntRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		v     int64
		width int
	}{
		{-1, 2}, {1, 2}, {-2, 2}, {-4188000, 25}, {2520000, 24}, {-1024, 11},
		{-32768, 16}, {32767, 16}, {0, 10},
	} {
		b := New(0)
		if err := b.AppendInt(tc.v, tc.width); err != nil {
			t.Fatalf("AppendInt(%d, %d): %v", tc.v, tc.width, err)
		}
		if got, err := b.Int(0, tc.width); err != nil || got != tc.v {
			t.Errorf("Int(0, %d) = %d, %v; expected %d", tc.width, got, err, tc.v)
		}
	}
}

func TestIntRange(t *testing.T) {
	for _, tc := range []struct {
		v     int64
		width int
	}{
		{2, 2}, {-3, 2}, {1024, 11}, {-1025, 11},
	} {
		if err := New(0).AppendInt(tc.v, tc.width); !errors.Is(err, ErrEncoding) {
			t.Errorf("AppendInt(%d, %d): expected ErrEncoding, got %v", tc.v, tc.width, err)
		}
	}
}

func TestSignedDecode(t *testing.T) {
	// 0b1110 in 4 bits is -2; 0b0110 is 6.
	b := FromBits([]byte{1, 1, 1, 0, 0, 1, 1, 0})
	if v, _ := b.Int(0, 4); v != -2 {
		t.Errorf("Int(0,4) = %d, expected -2", v)
	}
	if v, _ := b.Int(4, 4); v != 6 {
		t.Errorf("Int(4,4) = %d, expected 6", v)
	}
}

func TestText(t *testing.T) {
	b := New(0)
	if err := b.AppendText("HELLO 42", 84); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 84 {
		t.Fatalf("got %d bits, expected 84", b.Len())
	}
	if s, _ := b.Text(0, 84, true); s != "HELLO 42" {
		t.Errorf("stripped text %q", s)
	}
	if s, _ := b.Text(0, 84, false); s != "HELLO 42@@@@@@" {
		t.Errorf("padded text %q", s)
	}

	if err := New(0).AppendText("hello", 30); !errors.Is(err, ErrEncoding) {
		t.Errorf("lowercase text: expected ErrEncoding, got %v", err)
	}
	if err := New(0).AppendText("AB", 13); !errors.Is(err, ErrEncoding) {
		t.Errorf("width 13: expected ErrEncoding, got %v", err)
	}
	if err := New(0).AppendText("TOO LONG", 12); !errors.Is(err, ErrEncoding) {
		t.Errorf("overlong text: expected ErrEncoding, got %v", err)
	}
}

func TestSixBitAlphabet(t *testing.T) {
	for v := 0; v < 64; v++ {
		c := SixBitChar(byte(v))
		code, ok := SixBitCode(c)
		if !ok || int(code) != v {
			t.Errorf("SixBitCode(%q) = %d, %v; expected %d", c, code, ok, v)
		}
	}
	if _, ok := SixBitCode('a'); ok {
		t.Errorf("'a' accepted")
	}
}

func TestSliceConcat(t *testing.T) {
	a := New(0)
	_ = a.AppendUint(5, 3)
	b := New(0)
	_ = b.AppendUint(2, 2)
	a.Concat(b)
	if a.String() != "10110" {
		t.Errorf("Concat: %s", a.String())
	}
	s, err := a.Slice(1, 4)
	if err != nil || s.String() != "011" {
		t.Errorf("Slice(1,4) = %v, %v", s, err)
	}
	if _, err := a.Slice(2, 9); !errors.Is(err, ErrFormat) {
		t.Errorf("Slice past end: expected ErrFormat, got %v", err)
	}
	if _, err := a.Uint(3, 4); !errors.Is(err, ErrFormat) {
		t.Errorf("Uint past end: expected ErrFormat, got %v", err)
	}
}

func TestBytes(t *testing.T) {
	b := FromBytes([]byte{0xA5, 0x0F})
	if b.String() != "1010010100001111" {
		t.Errorf("FromBytes: %s", b.String())
	}
	got := b.Bytes()
	if len(got) != 2 || got[0] != 0xA5 || got[1] != 0x0F {
		t.Errorf("Bytes: % x", got)
	}
	_ = b.AppendUint(1, 1)
	if n := b.PadToByte(); n != 7 || b.Len() != 24 {
		t.Errorf("PadToByte added %d, len %d", n, b.Len())
	}
}
