package decoders

import (
	"encoding/json"
	"fmt"

	"github.com/madpsy/aisasm/bitbuf"
)

// ----------------------------------------------------------------------------
// Register this decoder for MessageID=8, DAC=1, FI=26
// ----------------------------------------------------------------------------

func init() {
	RegisterDecoder(8, 1, 26, decode_8_1_26)
}

// MaxSensorReports is the most reports an Environmental Report carries.
const MaxSensorReports = 8

// EnvReport is the IMO Circ. 289 Environmental Report.
type EnvReport struct {
	Envelope
	Reports []SensorReport `json:"reports"`
}

// NewEnvReport returns an empty report with its envelope filled in.
func NewEnvReport(source uint32) *EnvReport {
	return &EnvReport{Envelope: Envelope{MessageID: MessageBinaryBroadcast, SourceID: source, DAC: 1, FI: 26}}
}

// Add appends a sensor report.
func (m *EnvReport) Add(rep SensorReport) error {
	if len(m.Reports) >= MaxSensorReports {
		return fmt.Errorf("environmental report already has %d sensor reports: %w", MaxSensorReports, ErrComposition)
	}
	if rep == nil {
		return fmt.Errorf("nil sensor report: %w", ErrComposition)
	}
	m.Reports = append(m.Reports, rep)
	return nil
}

// Encode returns the full message bits.
func (m *EnvReport) Encode() (*bitbuf.Buffer, error) {
	if len(m.Reports) > MaxSensorReports {
		return nil, fmt.Errorf("%d sensor reports: %w", len(m.Reports), ErrComposition)
	}
	env := m.Envelope
	env.MessageID = MessageBinaryBroadcast
	env.DAC, env.FI = 1, 26
	w := newWriter()
	env.encode(w)
	if w.err != nil {
		return nil, w.err
	}
	for i, rep := range m.Reports {
		b, err := EncodeSensorReport(rep)
		if err != nil {
			return nil, fmt.Errorf("sensor report %d: %w", i, err)
		}
		w.b.Concat(b)
	}
	return finish(w)
}

func (m *EnvReport) MarshalJSON() ([]byte, error) {
	reports := make([]json.RawMessage, 0, len(m.Reports))
	for _, rep := range m.Reports {
		b, err := marshalReport(rep)
		if err != nil {
			return nil, err
		}
		reports = append(reports, b)
	}
	return marshal(struct {
		Envelope
		Reports []json.RawMessage `json:"reports"`
	}{m.Envelope, reports})
}

func (m *EnvReport) UnmarshalJSON(b []byte) error {
	var aux struct {
		Envelope
		Reports []json.RawMessage `json:"reports"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	m.Envelope = aux.Envelope
	m.Reports = nil
	for i, raw := range aux.Reports {
		rep, err := unmarshalReport(raw)
		if err != nil {
			return fmt.Errorf("reports[%d]: %w", i, err)
		}
		if err := m.Add(rep); err != nil {
			return err
		}
	}
	return nil
}

func decode_8_1_26(_ *Decoder, env Envelope, payload *bitbuf.Buffer) (Message, error) {
	m := &EnvReport{Envelope: env}
	r := newReader(payload)
	for i := 0; r.remaining() >= SensorReportBits; i++ {
		if i == MaxSensorReports {
			return nil, fmt.Errorf("decode_8_1_26: more than %d sensor reports: %w", MaxSensorReports, ErrFormat)
		}
		block, err := payload.Slice(r.off, r.off+SensorReportBits)
		if err != nil {
			return nil, fmt.Errorf("decode_8_1_26 report %d: %w", i, err)
		}
		rep, err := DecodeSensorReport(block)
		if err != nil {
			return nil, fmt.Errorf("decode_8_1_26 report %d: %w", i, err)
		}
		m.Reports = append(m.Reports, rep)
		r.skip(SensorReportBits)
	}
	if err := residual("decode_8_1_26", r); err != nil {
		return nil, err
	}
	return m, nil
}
