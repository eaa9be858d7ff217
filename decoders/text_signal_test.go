package decoders

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTextDescription(t *testing.T) {
	d := testDecoder(time.Now())
	m := NewTextDescription(366123456, 10, "whales sighted, slow to 10 kn")
	if m.Text != "WHALES SIGHTED, SLOW TO 10 KN" {
		t.Errorf("Text = %q", m.Text)
	}
	roundTrip(t, d, m)

	// byte alignment adds zero bits that read back as '@'
	b, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	b.PadToByte()
	out, err := d.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.(*TextDescription).Text; got != m.Text {
		t.Errorf("padded text %q", got)
	}

	long := NewTextDescription(1, 1, strings.Repeat("A", MaxDescriptionChars+1))
	if _, err := long.Encode(); !errors.Is(err, ErrSize) {
		t.Errorf("expected ErrSize, got %v", err)
	}
	if _, err := NewTextDescription(1, 1, strings.Repeat("A", MaxDescriptionChars)).Encode(); err != nil {
		t.Errorf("longest text: %v", err)
	}
	if _, err := NewTextDescription(1, 1, "").Encode(); !errors.Is(err, ErrEncoding) {
		t.Errorf("empty text: expected ErrEncoding, got %v", err)
	}
}

func TestMarineTrafficSignal(t *testing.T) {
	m := NewMarineTrafficSignal(2442001, "ROTTERDAM NIEUWE WAT")
	m.Lon, m.Lat = 4.05, 51.98
	m.Status, m.Signal, m.NextSignal = 1, 3, 2
	m.NextHour, m.NextMinute = 13, 45
	b, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != EnvelopeBits+trafficSignalBits+trafficSignalSpare {
		t.Errorf("%d bits", b.Len())
	}
	out := roundTrip(t, testDecoder(time.Now()), m).(*MarineTrafficSignal)
	if !strings.HasPrefix(out.SignalName(), "IALA port traffic signal 3") {
		t.Errorf("signal %q", out.SignalName())
	}

	// without the trailing spare
	short, _ := b.Slice(0, EnvelopeBits+trafficSignalBits)
	if _, err := Decode(short); err != nil {
		t.Errorf("decode without spare: %v", err)
	}
	short, _ = b.Slice(0, EnvelopeBits+trafficSignalBits-1)
	if _, err := Decode(short); !errors.Is(err, ErrFormat) {
		t.Errorf("truncated: expected ErrFormat, got %v", err)
	}

	m.NextHour = 25
	if _, err := m.Encode(); !errors.Is(err, ErrEncoding) {
		t.Errorf("hour 25: expected ErrEncoding, got %v", err)
	}
	if TrafficSignalName(31) != "reserved for future use" {
		t.Errorf("signal 31 %q", TrafficSignalName(31))
	}
}
