// Package bitbuf holds AIS payloads as bit vectors and packs/unpacks the
// unsigned, two's-complement and 6-bit text fields they are made of.
package bitbuf

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEncoding is returned when a value does not fit the field it is
	// written to, or text holds a character outside the AIS alphabet.
	ErrEncoding = errors.New("encoding error")
	// ErrFormat is returned when a bit stream cannot be read as requested.
	ErrFormat = errors.New("format error")
)

// Buffer is an ordered sequence of bits. Each byte of bits holds a single
// bit (0 or 1), most significant bit of every field first.
type Buffer struct {
	bits []byte
}

// New returns an empty buffer with room for n bits.
func New(n int) *Buffer {
	return &Buffer{bits: make([]byte, 0, n)}
}

// FromBits wraps a slice of 0/1 bytes. Any non-zero byte is taken as 1.
func FromBits(bits []byte) *Buffer {
	b := &Buffer{bits: make([]byte, len(bits))}
	for i, v := range bits {
		if v != 0 {
			b.bits[i] = 1
		}
	}
	return b
}

// FromBytes expands each byte of raw into 8 bits (MSB first).
func FromBytes(raw []byte) *Buffer {
	b := &Buffer{bits: make([]byte, len(raw)*8)}
	for i, c := range raw {
		for j := 0; j < 8; j++ {
			b.bits[i*8+j] = (c >> (7 - j)) & 1
		}
	}
	return b
}

// Len returns the number of bits held.
func (b *Buffer) Len() int {
	return len(b.bits)
}

// Bits returns a copy of the bits, one per byte.
func (b *Buffer) Bits() []byte {
	return append([]byte(nil), b.bits...)
}

// Bytes packs the bits 8 per byte, zero-filling the last byte.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, (len(b.bits)+7)/8)
	for i, v := range b.bits {
		out[i/8] |= v << (7 - uint(i%8))
	}
	return out
}

// String renders the bits as a string of '0' and '1'.
func (b *Buffer) String() string {
	var sb strings.Builder
	sb.Grow(len(b.bits))
	for _, v := range b.bits {
		sb.WriteByte('0' + v)
	}
	return sb.String()
}

// Equal reports whether both buffers hold the same bits.
func (b *Buffer) Equal(o *Buffer) bool {
	if len(b.bits) != len(o.bits) {
		return false
	}
	for i := range b.bits {
		if b.bits[i] != o.bits[i] {
			return false
		}
	}
	return true
}

// Concat appends the bits of other to b.
func (b *Buffer) Concat(other *Buffer) *Buffer {
	b.bits = append(b.bits, other.bits...)
	return b
}

// Slice returns a copy of the bits in [start, end).
func (b *Buffer) Slice(start, end int) (*Buffer, error) {
	if start < 0 || end < start || end > len(b.bits) {
		return nil, fmt.Errorf("slice [%d,%d) of %d bits: %w", start, end, len(b.bits), ErrFormat)
	}
	return &Buffer{bits: append([]byte(nil), b.bits[start:end]...)}, nil
}

// PadToByte appends zero bits until the length is a multiple of 8 and
// returns the number of bits added.
func (b *Buffer) PadToByte() int {
	n := (8 - len(b.bits)%8) % 8
	b.AppendZeros(n)
	return n
}

// AppendZeros appends n zero bits, used for spare fields.
func (b *Buffer) AppendZeros(n int) {
	for i := 0; i < n; i++ {
		b.bits = append(b.bits, 0)
	}
}

// AppendUint writes v as an unsigned field of the given width.
func (b *Buffer) AppendUint(v uint64, width int) error {
	if width <= 0 || width > 64 {
		return fmt.Errorf("width %d: %w", width, ErrEncoding)
	}
	if width < 64 && v >= 1<<uint(width) {
		return fmt.Errorf("value %d does not fit %d unsigned bits: %w", v, width, ErrEncoding)
	}
	for i := width - 1; i >= 0; i-- {
		b.bits = append(b.bits, byte(v>>uint(i))&1)
	}
	return nil
}

// AppendInt writes v as a two's-complement field of the given width.
func (b *Buffer) AppendInt(v int64, width int) error {
	if width <= 1 || width > 64 {
		return fmt.Errorf("width %d: %w", width, ErrEncoding)
	}
	if width < 64 {
		limit := int64(1) << uint(width-1)
		if v < -limit || v >= limit {
			return fmt.Errorf("value %d does not fit %d signed bits: %w", v, width, ErrEncoding)
		}
	}
	u := uint64(v)
	for i := width - 1; i >= 0; i-- {
		b.bits = append(b.bits, byte(u>>uint(i))&1)
	}
	return nil
}

// AppendText writes s as 6-bit AIS characters, right-padded with '@' to
// width/6 characters. width must be a multiple of 6.
func (b *Buffer) AppendText(s string, width int) error {
	if width <= 0 || width%6 != 0 {
		return fmt.Errorf("text width %d is not a multiple of 6: %w", width, ErrEncoding)
	}
	n := width / 6
	if len(s) > n {
		return fmt.Errorf("text %q longer than %d characters: %w", s, n, ErrEncoding)
	}
	codes := make([]uint64, 0, n)
	for i := 0; i < len(s); i++ {
		c, ok := SixBitCode(s[i])
		if !ok {
			return fmt.Errorf("character %q not in the AIS alphabet: %w", s[i], ErrEncoding)
		}
		codes = append(codes, uint64(c))
	}
	for len(codes) < n {
		codes = append(codes, 0)
	}
	for _, c := range codes {
		if err := b.AppendUint(c, 6); err != nil {
			return err
		}
	}
	return nil
}

func (b *Buffer) check(off, width int) error {
	if width <= 0 || width > 64 || off < 0 || off+width > len(b.bits) {
		return fmt.Errorf("read %d bits at offset %d of %d: %w", width, off, len(b.bits), ErrFormat)
	}
	return nil
}

// Uint reads width bits at off as an unsigned integer.
func (b *Buffer) Uint(off, width int) (uint64, error) {
	if err := b.check(off, width); err != nil {
		return 0, err
	}
	return getUint(b.bits, off, width), nil
}

// Int reads width bits at off as a two's-complement integer.
func (b *Buffer) Int(off, width int) (int64, error) {
	if err := b.check(off, width); err != nil {
		return 0, err
	}
	return getSint(b.bits, off, width), nil
}

// Text reads width/6 characters at off. With stripAfterAt the result is
// cut at the first '@'; otherwise the padding is kept.
func (b *Buffer) Text(off, width int, stripAfterAt bool) (string, error) {
	if width%6 != 0 {
		return "", fmt.Errorf("text width %d is not a multiple of 6: %w", width, ErrFormat)
	}
	if err := b.check(off, width); err != nil && width > 0 {
		return "", err
	}
	var sb strings.Builder
	for i := 0; i < width/6; i++ {
		c := sixBitTable[getUint(b.bits, off+i*6, 6)]
		if c == '@' && stripAfterAt {
			break
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}

// getUint reads `length` bits from `bits` starting at `off`, big-endian.
func getUint(bits []byte, off, length int) uint64 {
	var v uint64
	for i := 0; i < length; i++ {
		v = v<<1 | uint64(bits[off+i])
	}
	return v
}

// getSint reads a signed two's-complement integer.
func getSint(bits []byte, off, length int) int64 {
	v := getUint(bits, off, length)
	if length < 64 && v&(1<<uint(length-1)) != 0 {
		return int64(v) - int64(1)<<uint(length)
	}
	return int64(v)
}
