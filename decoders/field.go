package decoders

import (
	"fmt"
	"math"

	"github.com/madpsy/aisasm/bitbuf"
)

// field describes a scaled integer on the wire. The physical value is
// raw/scale + offset; raw values outside [min, max] other than na are
// reserved.
type field struct {
	width  int
	signed bool
	min    int64
	max    int64
	na     int64
	scale  float64
	offset float64
}

func (f field) factor() float64 {
	if f.scale == 0 {
		return 1
	}
	return f.scale
}

func (f field) physical(raw int64) float64 {
	return float64(raw)/f.factor() + f.offset
}

// writer appends fields to a bit buffer and keeps the first error.
type writer struct {
	b   *bitbuf.Buffer
	err error
}

func newWriter() *writer {
	return &writer{b: bitbuf.New(0)}
}

func (w *writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *writer) uint(name string, v, width int) {
	if w.err != nil {
		return
	}
	if v < 0 {
		w.fail(fmt.Errorf("%s %d is negative: %w", name, v, ErrEncoding))
		return
	}
	if err := w.b.AppendUint(uint64(v), width); err != nil {
		w.fail(fmt.Errorf("%s: %w", name, err))
	}
}

func (w *writer) int(name string, v int64, width int) {
	if w.err != nil {
		return
	}
	if err := w.b.AppendInt(v, width); err != nil {
		w.fail(fmt.Errorf("%s: %w", name, err))
	}
}

func (w *writer) bool(v bool) {
	n := 0
	if v {
		n = 1
	}
	w.uint("flag", n, 1)
}

func (w *writer) spare(n int) {
	if w.err == nil {
		w.b.AppendZeros(n)
	}
}

func (w *writer) text(name, s string, width int) {
	if w.err != nil {
		return
	}
	if err := w.b.AppendText(bitbuf.Normalize(s), width); err != nil {
		w.fail(fmt.Errorf("%s: %w", name, err))
	}
}

func (w *writer) raw(name string, f field, raw int64) {
	if f.signed {
		w.int(name, raw, f.width)
	} else {
		w.uint(name, int(raw), f.width)
	}
}

func (w *writer) optInt(name string, f field, o Opt[int]) {
	raw := f.na
	if o.Valid {
		raw = int64(o.V) - int64(f.offset)
		if raw < f.min || raw > f.max {
			w.fail(fmt.Errorf("%s %d outside %d..%d: %w", name, o.V,
				int64(f.physical(f.min)), int64(f.physical(f.max)), ErrEncoding))
			return
		}
	}
	w.raw(name, f, raw)
}

func (w *writer) optFloat(name string, f field, o Opt[float64]) {
	raw := f.na
	if o.Valid {
		if math.IsNaN(o.V) || math.IsInf(o.V, 0) {
			w.fail(fmt.Errorf("%s %v: %w", name, o.V, ErrEncoding))
			return
		}
		raw = int64(math.Round((o.V - f.offset) * f.factor()))
		if raw < f.min || raw > f.max {
			w.fail(fmt.Errorf("%s %g outside %g..%g: %w", name, o.V,
				f.physical(f.min), f.physical(f.max), ErrEncoding))
			return
		}
	}
	w.raw(name, f, raw)
}

// coord writes a longitude or latitude in degrees. limit is 180 or 90;
// limit+1 is the "not available" value.
func (w *writer) coord(name string, v float64, limit float64, width int, scale float64) {
	if w.err != nil {
		return
	}
	if !(v >= -limit && v <= limit) && v != limit+1 {
		w.fail(fmt.Errorf("%s %g outside -%g..%g: %w", name, v, limit, limit, ErrEncoding))
		return
	}
	w.int(name, int64(math.Round(v*scale)), width)
}

// reader consumes fields from a bit buffer and keeps the first error.
type reader struct {
	b   *bitbuf.Buffer
	off int
	err error
}

func newReader(b *bitbuf.Buffer) *reader {
	return &reader{b: b}
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) remaining() int {
	return r.b.Len() - r.off
}

func (r *reader) uint(width int) int {
	if r.err != nil {
		return 0
	}
	v, err := r.b.Uint(r.off, width)
	if err != nil {
		r.fail(err)
		return 0
	}
	r.off += width
	return int(v)
}

func (r *reader) int(width int) int64 {
	if r.err != nil {
		return 0
	}
	v, err := r.b.Int(r.off, width)
	if err != nil {
		r.fail(err)
		return 0
	}
	r.off += width
	return v
}

func (r *reader) bool() bool {
	return r.uint(1) == 1
}

func (r *reader) skip(n int) {
	if r.err != nil {
		return
	}
	if r.off+n > r.b.Len() {
		r.fail(fmt.Errorf("skip %d at %d of %d bits: %w", n, r.off, r.b.Len(), ErrFormat))
		return
	}
	r.off += n
}

func (r *reader) text(width int) string {
	if r.err != nil {
		return ""
	}
	s, err := r.b.Text(r.off, width, true)
	if err != nil {
		r.fail(err)
		return ""
	}
	r.off += width
	return s
}

func (r *reader) raw(f field) int64 {
	if f.signed {
		return r.int(f.width)
	}
	return int64(r.uint(f.width))
}

func (r *reader) optInt(f field) Opt[int] {
	raw := r.raw(f)
	if r.err != nil || raw == f.na || raw < f.min || raw > f.max {
		return Opt[int]{}
	}
	return Some(int(raw + int64(f.offset)))
}

func (r *reader) optFloat(f field) Opt[float64] {
	raw := r.raw(f)
	if r.err != nil || raw == f.na || raw < f.min || raw > f.max {
		return Opt[float64]{}
	}
	return Some(f.physical(raw))
}

func (r *reader) coord(width int, scale float64) float64 {
	return float64(r.int(width)) / scale
}
