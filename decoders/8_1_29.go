package decoders

import (
	"fmt"

	"github.com/madpsy/aisasm/bitbuf"
)

// ----------------------------------------------------------------------------
// Register this decoder for MessageID=8, DAC=1, FI=29
// ----------------------------------------------------------------------------

func init() {
	RegisterDecoder(8, 1, 29, decode_8_1_29)
}

// https://www.e-navigation.nl/content/text-description-0

// MaxDescriptionChars is the longest text that fits one message.
const MaxDescriptionChars = (MaxMessageBits - EnvelopeBits - 10) / 6

// TextDescription carries free text tied to another message, usually an
// Area Notice, through LinkID.
type TextDescription struct {
	Envelope
	LinkID int    `json:"link_id"`
	Text   string `json:"text"`
}

// NewTextDescription returns a description for the notice with linkID.
func NewTextDescription(source uint32, linkID int, text string) *TextDescription {
	return &TextDescription{
		Envelope: Envelope{MessageID: MessageBinaryBroadcast, SourceID: source, DAC: 1, FI: 29},
		LinkID:   linkID,
		Text:     bitbuf.Normalize(text),
	}
}

// Encode returns the full message bits.
func (m *TextDescription) Encode() (*bitbuf.Buffer, error) {
	if len(m.Text) == 0 {
		return nil, fmt.Errorf("text description without text: %w", ErrEncoding)
	}
	if len(m.Text) > MaxDescriptionChars {
		return nil, fmt.Errorf("text description of %d characters exceeds %d: %w", len(m.Text), MaxDescriptionChars, ErrSize)
	}
	env := m.Envelope
	env.MessageID = MessageBinaryBroadcast
	env.DAC, env.FI = 1, 29
	w := newWriter()
	env.encode(w)
	w.uint("link_id", m.LinkID, 10)
	w.text("text", m.Text, len(m.Text)*6)
	if w.err != nil {
		return nil, fmt.Errorf("text description: %w", w.err)
	}
	return finish(w)
}

func decode_8_1_29(_ *Decoder, env Envelope, payload *bitbuf.Buffer) (Message, error) {
	m := &TextDescription{Envelope: env}
	r := newReader(payload)
	m.LinkID = r.uint(10)
	m.Text = r.text(r.remaining() / 6 * 6)
	if r.err != nil {
		return nil, fmt.Errorf("decode_8_1_29: %w", r.err)
	}
	if m.Text == "" {
		return nil, fmt.Errorf("decode_8_1_29: no text: %w", ErrFormat)
	}
	return m, nil
}
