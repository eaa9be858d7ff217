package decoders

import (
	"context"
	"fmt"

	"github.com/madpsy/aisasm/bitbuf"
	"github.com/madpsy/aisasm/sentence"
)

// bbmHeaderBits is the part of the envelope a BBM sentence leaves out:
// message id, repeat indicator, source id and spare.
const bbmHeaderBits = 40

// Frame encodes m and splits it into sentences. With byteAlign the bits
// are zero-padded to a whole number of bytes first, as a transmitter
// would put them on the air.
func Frame(ctx context.Context, f *sentence.Framer, m Message, opts sentence.Options, byteAlign bool) ([]*sentence.Sentence, error) {
	b, err := m.Encode()
	if err != nil {
		return nil, err
	}
	return FrameBits(ctx, f, b, opts, byteAlign)
}

// FrameBits splits an already encoded message, envelope included, into
// sentences. b is not modified.
func FrameBits(ctx context.Context, f *sentence.Framer, b *bitbuf.Buffer, opts sentence.Options, byteAlign bool) ([]*sentence.Sentence, error) {
	var err error
	if opts.Type == sentence.TypeBBM {
		// the transponder supplies the header up to the DAC
		b, err = b.Slice(bbmHeaderBits, b.Len())
	} else {
		b, err = b.Slice(0, b.Len())
	}
	if err != nil {
		return nil, err
	}
	if byteAlign {
		b.PadToByte()
	}
	return f.Frame(ctx, b, opts)
}

// DecodeMessage unarmors a reassembled message and decodes it. BBM
// payloads get a header with a zero source id.
func (d *Decoder) DecodeMessage(m *sentence.Message) (Message, error) {
	b, err := m.Bits()
	if err != nil {
		return nil, err
	}
	if m.Type == sentence.TypeBBM {
		hdr := newWriter()
		hdr.uint("message_id", MessageBinaryBroadcast, 6)
		hdr.spare(bbmHeaderBits - 6)
		b = hdr.b.Concat(b)
	}
	if b.Len() < EnvelopeBits {
		return nil, fmt.Errorf("%d bits is shorter than the envelope: %w", b.Len(), ErrFormat)
	}
	return d.Decode(b)
}
