package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/madpsy/aisasm/decoders"
	"github.com/madpsy/aisasm/logging"
	"github.com/madpsy/aisasm/metrics"
	"github.com/madpsy/aisasm/sentence"
)

// Description is one input document: the message kind and its fields in
// the same JSON form the ingester prints.
type Description struct {
	Kind    string          `json:"kind"`
	Message json.RawMessage `json:"message"`
}

const (
	KindAreaNotice      = "area_notice"
	KindEnvReport       = "env_report"
	KindMetHydro        = "met_hydro"
	KindTextDescription = "text_description"
	KindTrafficSignal   = "traffic_signal"
)

// Build returns the message the description names. Fields left out keep
// the constructor's defaults, which are "not available" where the format
// has one.
func (d Description) Build() (decoders.Message, error) {
	var m decoders.Message
	switch d.Kind {
	case KindAreaNotice:
		m = &decoders.AreaNotice{}
	case KindEnvReport:
		m = decoders.NewEnvReport(0)
	case KindMetHydro:
		m = decoders.NewMetHydro(0)
	case KindTextDescription:
		m = decoders.NewTextDescription(0, 0, "")
	case KindTrafficSignal:
		m = decoders.NewMarineTrafficSignal(0, "")
	default:
		return nil, fmt.Errorf("unknown message kind %q", d.Kind)
	}
	if len(d.Message) == 0 {
		return nil, fmt.Errorf("%s: missing message", d.Kind)
	}
	if err := json.Unmarshal(d.Message, m); err != nil {
		return nil, fmt.Errorf("%s: %w", d.Kind, err)
	}
	return m, nil
}

// Emitter encodes descriptions and writes the resulting sentences to
// every sink.
type Emitter struct {
	Framer    *sentence.Framer
	Options   sentence.Options
	ByteAlign bool
	Sinks     []io.Writer
	Stats     *metrics.Stats
	Debug     bool
}

// Emit frames one message and writes each sentence, CR/LF terminated.
func (e *Emitter) Emit(ctx context.Context, m decoders.Message) ([]*sentence.Sentence, error) {
	b, err := m.Encode()
	if err != nil {
		return nil, err
	}
	// Encode fills in DAC/FI the stored envelope may lack
	env, err := decoders.DecodeEnvelope(b)
	if err != nil {
		return nil, err
	}
	ss, err := decoders.FrameBits(ctx, e.Framer, b, e.Options, e.ByteAlign)
	if err != nil {
		return nil, err
	}
	for _, s := range ss {
		line := s.String() + "\r\n"
		for _, w := range e.Sinks {
			if _, err := io.WriteString(w, line); err != nil {
				return ss, fmt.Errorf("writing sentence: %w", err)
			}
		}
	}
	if e.Stats != nil {
		e.Stats.Encoded(env.DAC, env.FI)
	}
	logging.Debugf(e.Debug, "framed %T into %d sentences", m, len(ss))
	return ss, nil
}

// Run emits every description read from r. Bad descriptions are logged
// and skipped; the count of failures is returned with the first error.
func (e *Emitter) Run(ctx context.Context, r io.Reader) (int, error) {
	dec := json.NewDecoder(r)
	failed := 0
	var first error
	for n := 1; ; n++ {
		if ctx.Err() != nil {
			return failed, ctx.Err()
		}
		var d Description
		if err := dec.Decode(&d); err != nil {
			if err == io.EOF {
				break
			}
			// the stream cannot be resynchronised after a syntax error
			return failed + 1, fmt.Errorf("description %d: %w", n, err)
		}
		m, err := d.Build()
		if err == nil {
			_, err = e.Emit(ctx, m)
		}
		if err != nil {
			failed++
			if first == nil {
				first = fmt.Errorf("description %d: %w", n, err)
			}
			log.Printf("description %d (%s): %v", n, d.Kind, err)
		}
	}
	return failed, first
}
