package sentence

import (
	"context"
	"fmt"

	"github.com/madpsy/aisasm/armor"
	"github.com/madpsy/aisasm/bitbuf"
)

// Payload characters per sentence, keeping each sentence under the
// 82 character NMEA limit.
const (
	ChunkVDM = 60
	ChunkBBM = 41
)

// Options controls how a bit vector is framed.
type Options struct {
	Talker      string // defaults to "AI"
	Type        string // VDM, VDO or BBM; defaults to VDM
	Channel     string // "", "A", "B" for VDM/VDO; "0".."3" for BBM
	MessageType int    // BBM only; defaults to 8
}

// Framer splits armored payloads into sentences.
type Framer struct {
	Seq SequenceSource
}

// NewFramer returns a Framer backed by an in-process Counter.
func NewFramer() *Framer {
	return &Framer{Seq: NewCounter()}
}

// Frame armors b and splits it into as many sentences as needed. Only the
// last sentence carries the pad count.
func (f *Framer) Frame(ctx context.Context, b *bitbuf.Buffer, opts Options) ([]*Sentence, error) {
	if opts.Talker == "" {
		opts.Talker = "AI"
	}
	if len(opts.Talker) != 2 {
		return nil, fmt.Errorf("talker %q: %w", opts.Talker, ErrFraming)
	}
	if opts.Type == "" {
		opts.Type = TypeVDM
	}
	chunk := ChunkVDM
	switch opts.Type {
	case TypeVDM, TypeVDO:
	case TypeBBM:
		chunk = ChunkBBM
		if opts.Channel == "" {
			opts.Channel = "0"
		}
		if opts.MessageType == 0 {
			opts.MessageType = 8
		}
	default:
		return nil, fmt.Errorf("sentence type %q: %w", opts.Type, ErrFraming)
	}
	if !validChannel(opts.Type, opts.Channel) {
		return nil, fmt.Errorf("channel %q: %w", opts.Channel, ErrFraming)
	}

	payload, pad, err := armor.Pack(b, true)
	if err != nil {
		return nil, err
	}
	if payload == "" {
		return nil, fmt.Errorf("empty payload: %w", ErrFraming)
	}
	total := (len(payload) + chunk - 1) / chunk
	if total > 9 {
		return nil, fmt.Errorf("%d characters need %d sentences: %w", len(payload), total, ErrFraming)
	}

	seq := NoSequence
	if total > 1 || opts.Type == TypeBBM {
		seq, err = f.Seq.Next(ctx, opts.Channel)
		if err != nil {
			return nil, fmt.Errorf("allocating sequence id: %w", err)
		}
	}

	out := make([]*Sentence, 0, total)
	for i := 0; i < total; i++ {
		end := (i + 1) * chunk
		if end > len(payload) {
			end = len(payload)
		}
		s := &Sentence{
			Talker:      opts.Talker,
			Type:        opts.Type,
			Total:       total,
			Index:       i + 1,
			Sequence:    seq,
			Channel:     opts.Channel,
			MessageType: opts.MessageType,
			Payload:     payload[i*chunk : end],
		}
		if opts.Type != TypeBBM {
			s.MessageType = 0
		}
		if i == total-1 {
			s.Pad = pad
		}
		out = append(out, s)
	}
	return out, nil
}

// Strings renders sentences as lines without line terminators.
func Strings(ss []*Sentence) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.String()
	}
	return out
}
