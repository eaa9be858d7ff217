// Package armor converts AIS bit vectors to and from the 6-bit ASCII
// armoring used in the payload field of VDM/VDO/BBM sentences.
package armor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/madpsy/aisasm/bitbuf"
)

var (
	// ErrArmor is returned for payload characters outside the armor alphabet
	// or an impossible pad count.
	ErrArmor = errors.New("armor error")
	// ErrAlignment is returned when unpadded armoring is requested for a
	// bit vector whose length is not a multiple of 6.
	ErrAlignment = errors.New("alignment error")
)

// MaxPad is the largest pad count a sentence can declare.
const MaxPad = 5

// Char returns the armor character for a 6-bit value: 0-39 map to '0'-'W'
// and 40-63 to '`'-'w'.
func Char(v byte) byte {
	v &= 0x3f
	if v < 40 {
		return v + 48
	}
	return v + 56
}

// Value returns the 6-bit value of an armor character.
func Value(c byte) (byte, bool) {
	switch {
	case c >= 48 && c <= 87:
		return c - 48, true
	case c >= 96 && c <= 119:
		return c - 56, true
	}
	return 0, false
}

// Pack armors the bits. With padTo6 the bits are right-padded with zeros
// to a multiple of 6 and the number of pad bits is returned.
func Pack(b *bitbuf.Buffer, padTo6 bool) (string, int, error) {
	bits := b.Bits()
	pad := (6 - len(bits)%6) % 6
	if pad != 0 && !padTo6 {
		return "", 0, fmt.Errorf("%d bits is not a multiple of 6: %w", len(bits), ErrAlignment)
	}
	for i := 0; i < pad; i++ {
		bits = append(bits, 0)
	}

	var sb strings.Builder
	sb.Grow(len(bits) / 6)
	for i := 0; i < len(bits); i += 6 {
		var v byte
		for j := 0; j < 6; j++ {
			v = v<<1 | bits[i+j]
		}
		sb.WriteByte(Char(v))
	}
	return sb.String(), pad, nil
}

// Unpack converts armored characters back to bits and drops the trailing
// pad bits.
func Unpack(armored string, pad int) (*bitbuf.Buffer, error) {
	if pad < 0 || pad > MaxPad {
		return nil, fmt.Errorf("pad %d out of range: %w", pad, ErrArmor)
	}
	n := len(armored) * 6
	if pad > n {
		return nil, fmt.Errorf("pad %d exceeds %d payload bits: %w", pad, n, ErrArmor)
	}
	bits := make([]byte, 0, n)
	for i := 0; i < len(armored); i++ {
		v, ok := Value(armored[i])
		if !ok {
			return nil, fmt.Errorf("character %q at %d: %w", armored[i], i, ErrArmor)
		}
		for j := 5; j >= 0; j-- {
			bits = append(bits, (v>>uint(j))&1)
		}
	}
	return bitbuf.FromBits(bits[:n-pad]), nil
}
