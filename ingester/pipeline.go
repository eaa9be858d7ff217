package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	ais "github.com/BertoldVdb/go-ais"
	"github.com/BertoldVdb/go-ais/aisnmea"

	"github.com/madpsy/aisasm/armor"
	"github.com/madpsy/aisasm/decoders"
	"github.com/madpsy/aisasm/logging"
	"github.com/madpsy/aisasm/metrics"
	"github.com/madpsy/aisasm/sentence"
)

// Record is one line of output.
type Record struct {
	Received  time.Time   `json:"received"`
	Source    string      `json:"source"`
	Station   string      `json:"station,omitempty"`
	Channel   string      `json:"channel,omitempty"`
	Decoder   string      `json:"decoder"`
	MessageID int         `json:"message_id"`
	UserID    uint32      `json:"user_id"`
	DAC       *int        `json:"dac,omitempty"`
	FI        *int        `json:"fi,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Message   interface{} `json:"message"`
	Raw       []string    `json:"raw,omitempty"`
}

const (
	decoderASM   = "asm"
	decoderGoAIS = "go-ais"
)

// Pipeline turns received lines into output records. It is not safe for
// concurrent use; the ingester drives it from one goroutine.
type Pipeline struct {
	Decoder    *decoders.Decoder
	Stats      *metrics.Stats
	Failed     *logging.FailedDecodeLog
	IncludeRaw bool
	Debug      bool

	enc      *json.Encoder
	logger   *log.Logger
	fallback *aisnmea.NMEACodec
	// one reassembler per source so unrelated feeds never share slots
	reassemblers map[string]*sentence.Reassembler
	dedupe       *dedupeWindow
	now          func() time.Time
}

// NewPipeline writes records to out.
func NewPipeline(out io.Writer, stats *metrics.Stats, failed *logging.FailedDecodeLog) *Pipeline {
	codec := ais.CodecNew(false, false)
	codec.DropSpace = true
	return &Pipeline{
		Decoder:      &decoders.Decoder{},
		Stats:        stats,
		Failed:       failed,
		enc:          json.NewEncoder(out),
		logger:       log.Default(),
		fallback:     aisnmea.NMEACodecNew(codec),
		reassemblers: make(map[string]*sentence.Reassembler),
		now:          time.Now,
	}
}

// SetDedupeWindow drops sentences repeated within d, across all sources.
// Zero disables it.
func (p *Pipeline) SetDedupeWindow(d time.Duration) {
	if d <= 0 {
		p.dedupe = nil
		return
	}
	p.dedupe = newDedupeWindow(d)
}

func (p *Pipeline) reassembler(source string) *sentence.Reassembler {
	r, ok := p.reassemblers[source]
	if !ok {
		r = sentence.NewReassembler(p.logger)
		r.Debug = p.Debug
		r.OnError = func(line string, err error) {
			p.Stats.Rejected(rejectReason(err))
			p.Failed.Failure(err, line)
		}
		p.reassemblers[source] = r
	}
	return r
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, sentence.ErrChecksum):
		return "checksum"
	case errors.Is(err, sentence.ErrReassembly):
		return "reassembly"
	case errors.Is(err, armor.ErrArmor):
		return "armor"
	}
	return "framing"
}

func errorClass(err error) string {
	switch {
	case errors.Is(err, decoders.ErrFormat):
		return "format"
	case errors.Is(err, armor.ErrAlignment), errors.Is(err, armor.ErrArmor):
		return "armor"
	}
	return "other"
}

// Handle processes one received line.
func (p *Pipeline) Handle(l Line) {
	p.Stats.Sentence(l.Source)
	if p.dedupe.isDuplicate(l.Text, p.now()) {
		p.Stats.Rejected("duplicate")
		logging.Debugf(p.Debug, "duplicate from %s: %s", l.Source, l.Text)
		return
	}
	msg := p.reassembler(l.Source).Push(l.Text)
	if msg == nil {
		return
	}
	rec, err := p.decode(msg)
	if err != nil {
		p.Stats.DecodeError(errorClass(err))
		p.Failed.Failure(err, msg.Raw())
		logging.Debugf(p.Debug, "decode failure: %v | raw: %s", err, msg.Raw())
		return
	}
	if rec == nil {
		return
	}
	rec.Received = p.now().UTC()
	rec.Source = l.Source
	rec.Station = msg.Station
	rec.Channel = msg.Channel
	if msg.Meta != (sentence.Metadata{}) {
		rec.Meta = msg.Meta
	}
	if p.IncludeRaw {
		rec.Raw = sentence.Strings(msg.Sentences)
	}
	if err := p.enc.Encode(rec); err != nil {
		log.Printf("Error writing record: %v", err)
	}
}

// decode routes message 8 and BBM payloads to the ASM decoders and
// everything else, including message 8 with an unknown DAC/FI, to go-ais.
func (p *Pipeline) decode(msg *sentence.Message) (*Record, error) {
	bits, err := msg.Bits()
	if err != nil {
		return nil, err
	}
	id := -1
	if v, err := bits.Uint(0, 6); err == nil {
		id = int(v)
	}
	if msg.Type == sentence.TypeBBM || id == decoders.MessageBinaryBroadcast {
		m, err := p.Decoder.DecodeMessage(msg)
		if err != nil {
			return nil, err
		}
		env := m.Header()
		_, unknown := m.(*decoders.Binary)
		if !unknown || msg.Type == sentence.TypeBBM {
			p.Stats.Decoded(env.MessageID, env.DAC, env.FI)
			dac, fi := env.DAC, env.FI
			return &Record{
				Decoder:   decoderASM,
				MessageID: env.MessageID,
				UserID:    env.SourceID,
				DAC:       &dac,
				FI:        &fi,
				Message:   m,
			}, nil
		}
	}
	return p.decodeFallback(msg)
}

func (p *Pipeline) decodeFallback(msg *sentence.Message) (*Record, error) {
	var pkt *aisnmea.VdmPacket
	for _, s := range msg.Sentences {
		// tags are not part of the sentence grammar go-ais reads
		body := s.Body()
		line := fmt.Sprintf("!%s*%02X", body, sentence.Checksum(body))
		v, err := p.fallback.ParseSentence(line)
		if err != nil {
			return nil, fmt.Errorf("go-ais: %w", err)
		}
		if v != nil && v.Packet != nil {
			pkt = v
		}
	}
	if pkt == nil {
		return nil, fmt.Errorf("go-ais: no packet from %d sentences: %w", len(msg.Sentences), decoders.ErrFormat)
	}
	hdr := pkt.Packet.GetHeader()
	p.Stats.Decoded(int(hdr.MessageID), 0, 0)
	return &Record{
		Decoder:   decoderGoAIS,
		MessageID: int(hdr.MessageID),
		UserID:    hdr.UserID,
		Message:   pkt.Packet,
	}, nil
}

// Expire drops partial groups older than ttl and reports the backlog.
func (p *Pipeline) Expire(ttl time.Duration) {
	pending := 0
	for source, r := range p.reassemblers {
		if n := r.Expire(ttl); n > 0 {
			logging.Debugf(p.Debug, "expired %d partial groups from %s", n, source)
		}
		pending += r.Pending()
	}
	p.Stats.Pending(pending)
	p.dedupe.filter(p.now())
}
