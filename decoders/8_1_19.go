package decoders

import (
	"fmt"

	"github.com/madpsy/aisasm/bitbuf"
)

// ----------------------------------------------------------------------------
// Register this decoder for MessageID=8, DAC=1, FI=19
// ----------------------------------------------------------------------------

func init() {
	RegisterDecoder(8, 1, 19, decode_8_1_19)
}

// https://www.e-navigation.nl/content/marine-traffic-signal

const (
	// trafficSignalBits is the payload up to the trailing spare.
	trafficSignalBits  = 202
	trafficSignalSpare = 102
)

// MarineTrafficSignal reports the state of a port traffic signal.
type MarineTrafficSignal struct {
	Envelope
	LinkID int     `json:"link_id"`
	Name   string  `json:"name"`
	Lon    float64 `json:"lon"`
	Lat    float64 `json:"lat"`
	Status int     `json:"status"`
	Signal int     `json:"signal"`
	// NextHour and NextMinute give the UTC time of the next shift;
	// 24 and 60 mean not available.
	NextHour   int `json:"next_hour"`
	NextMinute int `json:"next_minute"`
	NextSignal int `json:"next_signal"`
}

// NewMarineTrafficSignal returns a signal with position and next shift
// not available.
func NewMarineTrafficSignal(source uint32, name string) *MarineTrafficSignal {
	return &MarineTrafficSignal{
		Envelope:   Envelope{MessageID: MessageBinaryBroadcast, SourceID: source, DAC: 1, FI: 19},
		Name:       name,
		Lon:        LonNotAvailable,
		Lat:        LatNotAvailable,
		NextHour:   HourNotAvailable,
		NextMinute: MinuteNotAvailable,
	}
}

// SignalName returns the catalog text for the signal in service.
func (m *MarineTrafficSignal) SignalName() string {
	return TrafficSignalName(m.Signal)
}

// Encode returns the full message bits.
func (m *MarineTrafficSignal) Encode() (*bitbuf.Buffer, error) {
	env := m.Envelope
	env.MessageID = MessageBinaryBroadcast
	env.DAC, env.FI = 1, 19
	w := newWriter()
	env.encode(w)
	w.uint("link_id", m.LinkID, 10)
	w.text("name", m.Name, 120)
	w.coord("lon", m.Lon, 180, 25, 60000)
	w.coord("lat", m.Lat, 90, 24, 60000)
	w.uint("status", m.Status, 2)
	w.uint("signal", m.Signal, 5)
	if m.NextHour > HourNotAvailable || m.NextMinute > MinuteNotAvailable {
		w.fail(fmt.Errorf("next shift %02d:%02d: %w", m.NextHour, m.NextMinute, ErrEncoding))
	}
	w.uint("next_hour", m.NextHour, 5)
	w.uint("next_minute", m.NextMinute, 6)
	w.uint("next_signal", m.NextSignal, 5)
	w.spare(trafficSignalSpare)
	if w.err != nil {
		return nil, fmt.Errorf("marine traffic signal: %w", w.err)
	}
	return finish(w)
}

// Older transmitters omit the trailing spare, so only the defined fields
// are required.
func decode_8_1_19(_ *Decoder, env Envelope, payload *bitbuf.Buffer) (Message, error) {
	if payload.Len() < trafficSignalBits {
		return nil, fmt.Errorf("decode_8_1_19: %d bits, expected at least %d: %w", payload.Len(), trafficSignalBits, ErrFormat)
	}
	m := &MarineTrafficSignal{Envelope: env}
	r := newReader(payload)
	m.LinkID = r.uint(10)
	m.Name = r.text(120)
	m.Lon = r.coord(25, 60000)
	m.Lat = r.coord(24, 60000)
	m.Status = r.uint(2)
	m.Signal = r.uint(5)
	m.NextHour = r.uint(5)
	m.NextMinute = r.uint(6)
	m.NextSignal = r.uint(5)
	if r.err != nil {
		return nil, fmt.Errorf("decode_8_1_19: %w", r.err)
	}
	return m, nil
}
