// Package decoders encodes and decodes the IMO Circ. 289 application
// specific messages carried in AIS message 8: the Area Notice, the
// Environmental Report and Meteorological/Hydrographic data.
package decoders

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/madpsy/aisasm/bitbuf"
)

var (
	// ErrEncoding is returned when a field value is out of range at encode.
	ErrEncoding = bitbuf.ErrEncoding
	// ErrFormat is returned when a decoded bit stream violates a field
	// constraint.
	ErrFormat = bitbuf.ErrFormat
	// ErrComposition is returned when sub-records are ordered or counted
	// in a way the message does not allow.
	ErrComposition = errors.New("composition error")
	// ErrSize is returned when an encoded message would exceed MaxMessageBits.
	ErrSize = errors.New("size error")
)

const (
	// EnvelopeBits is the length of the message 8 header.
	EnvelopeBits = 56
	// MaxMessageBits is the largest message 8 the link layer can carry.
	MaxMessageBits = 953
	// MessageBinaryBroadcast is AIS message 8.
	MessageBinaryBroadcast = 8
)

// Envelope is the common message 8 header.
type Envelope struct {
	MessageID       int    `json:"message_id"`
	RepeatIndicator int    `json:"repeat_indicator"`
	SourceID        uint32 `json:"source_id"`
	DAC             int    `json:"dac"`
	FI              int    `json:"fi"`
}

// Header returns the envelope itself, so that every message embedding an
// Envelope satisfies part of Message.
func (e Envelope) Header() Envelope {
	return e
}

func (e Envelope) encode(w *writer) {
	w.uint("message_id", e.MessageID, 6)
	w.uint("repeat_indicator", e.RepeatIndicator, 2)
	w.uint("source_id", int(e.SourceID), 30)
	w.spare(2)
	w.uint("dac", e.DAC, 10)
	w.uint("fi", e.FI, 6)
}

// DecodeEnvelope reads the 56-bit header at the start of b.
func DecodeEnvelope(b *bitbuf.Buffer) (Envelope, error) {
	r := newReader(b)
	var e Envelope
	e.MessageID = r.uint(6)
	e.RepeatIndicator = r.uint(2)
	e.SourceID = uint32(r.uint(30))
	r.skip(2)
	e.DAC = r.uint(10)
	e.FI = r.uint(6)
	if r.err != nil {
		return Envelope{}, fmt.Errorf("envelope: %w", r.err)
	}
	return e, nil
}

// Message is an application-specific message that can be encoded back to
// its full bit representation, envelope included.
type Message interface {
	Header() Envelope
	Encode() (*bitbuf.Buffer, error)
}

// Decoder turns message 8 bit vectors into typed messages.
type Decoder struct {
	// Now supplies the year for timestamps that carry only month and day.
	// Nil means time.Now.
	Now func() time.Time
	// Logger receives warnings about dropped sub-records. Nil means
	// log.Default().
	Logger *log.Logger
}

// DefaultDecoder uses the process clock and the standard logger.
var DefaultDecoder = &Decoder{}

// Decode decodes b with DefaultDecoder.
func Decode(b *bitbuf.Buffer) (Message, error) {
	return DefaultDecoder.Decode(b)
}

// Decode reads the envelope and dispatches on (MessageID, DAC, FI). An
// unregistered triple yields a *Binary holding the raw payload.
func (d *Decoder) Decode(b *bitbuf.Buffer) (Message, error) {
	env, err := DecodeEnvelope(b)
	if err != nil {
		return nil, err
	}
	payload, err := b.Slice(EnvelopeBits, b.Len())
	if err != nil {
		return nil, err
	}
	fn, ok := Get(env.MessageID, env.DAC, env.FI)
	if !ok {
		return &Binary{Envelope: env, Data: payload}, nil
	}
	return fn(d, env, payload)
}

func (d *Decoder) now() time.Time {
	if d == nil || d.Now == nil {
		return time.Now().UTC()
	}
	return d.Now().UTC()
}

func (d *Decoder) logf(format string, args ...interface{}) {
	if d != nil && d.Logger != nil {
		d.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Binary is a message 8 whose (DAC, FI) has no registered decoder.
type Binary struct {
	Envelope
	Data *bitbuf.Buffer `json:"-"`
}

// Encode re-emits the envelope followed by the raw payload.
func (m *Binary) Encode() (*bitbuf.Buffer, error) {
	w := newWriter()
	m.Envelope.encode(w)
	if w.err != nil {
		return nil, w.err
	}
	if m.Data != nil {
		w.b.Concat(m.Data)
	}
	return w.b, nil
}

// MarshalJSON reports the payload as a binary string.
func (m *Binary) MarshalJSON() ([]byte, error) {
	type binary struct {
		Envelope
		Bits int    `json:"bits"`
		Data string `json:"data"`
	}
	out := binary{Envelope: m.Envelope}
	if m.Data != nil {
		out.Bits = m.Data.Len()
		out.Data = m.Data.String()
	}
	return marshal(out)
}

// finish checks the size limit on an encoded message.
func finish(w *writer) (*bitbuf.Buffer, error) {
	if w.err != nil {
		return nil, w.err
	}
	if n := w.b.Len(); n > MaxMessageBits {
		return nil, fmt.Errorf("%d bits exceeds %d: %w", n, MaxMessageBits, ErrSize)
	}
	return w.b, nil
}

// residual checks the bits left after the last fixed-size record; up to
// 7 bits of byte alignment are allowed.
func residual(what string, r *reader) error {
	if r.err != nil {
		return fmt.Errorf("%s: %w", what, r.err)
	}
	if n := r.remaining(); n >= 8 {
		return fmt.Errorf("%s: %d trailing bits: %w", what, n, ErrFormat)
	}
	return nil
}
