package sentence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/madpsy/aisasm/armor"
	"github.com/madpsy/aisasm/bitbuf"
)

func withChecksum(body string) string {
	return fmt.Sprintf("!%s*%02X", body, Checksum(body))
}

func TestChecksum(t *testing.T) {
	body := "AIVDM,1,1,,A,13u?etPv2;0n:dDPwUM1U1Cb069D,0"
	var want byte
	for _, c := range []byte(body) {
		want ^= c
	}
	if got := Checksum(body); got != want {
		t.Errorf("Checksum = %02X, expected %02X", got, want)
	}
	if Checksum("") != 0 {
		t.Errorf("empty checksum not zero")
	}
}

func TestParse(t *testing.T) {
	line := withChecksum("AIVDM,2,1,6,B,55?MbV02;H;s<HtKR20EHE:0@T4@Dn2222222216L961O5Gf0NSQEp6ClRp8,0")
	s, err := Parse(line + "\r\n")
	if err != nil {
		t.Fatal(err)
	}
	if s.Talker != "AI" || s.Type != TypeVDM || s.Total != 2 || s.Index != 1 || s.Sequence != 6 || s.Channel != "B" || s.Pad != 0 {
		t.Errorf("unexpected fields %+v", s)
	}
	if s.String() != line {
		t.Errorf("String() = %q, expected %q", s.String(), line)
	}
}

func TestParseBBM(t *testing.T) {
	line := withChecksum("AIBBM,1,1,3,0,8,04a9M>1@PU>0U>06185=08888888888888888888888,2")
	s, err := Parse(line)
	if err != nil {
		t.Fatal(err)
	}
	if s.Type != TypeBBM || s.MessageType != 8 || s.Sequence != 3 || s.Channel != "0" || s.Pad != 2 {
		t.Errorf("unexpected fields %+v", s)
	}
	if s.String() != line {
		t.Errorf("String() = %q, expected %q", s.String(), line)
	}
}

func TestParseMetadata(t *testing.T) {
	line := withChecksum("AIVDM,1,1,,A,13u?etPv2;0n:dDPwUM1U1Cb069D,0") + ",s23807,d-101,T46.2,S1733,x12,rORBCOMM001,1307718214"
	s, err := Parse(line)
	if err != nil {
		t.Fatal(err)
	}
	m := s.Meta
	if m.Station != "rORBCOMM001" {
		t.Errorf("station %q", m.Station)
	}
	if m.RSSI == nil || *m.RSSI != 23807 {
		t.Errorf("rssi %v", m.RSSI)
	}
	if m.SignalDBm == nil || *m.SignalDBm != -101 {
		t.Errorf("signal %v", m.SignalDBm)
	}
	if m.Slot == nil || *m.Slot != 1733 {
		t.Errorf("slot %v", m.Slot)
	}
	if m.Counter == nil || *m.Counter != 12 {
		t.Errorf("counter %v", m.Counter)
	}
	if m.Arrival == nil || *m.Arrival != 46.2 {
		t.Errorf("arrival %v", m.Arrival)
	}
	if m.Timestamp == nil || !m.Timestamp.Equal(time.Unix(1307718214, 0)) {
		t.Errorf("timestamp %v", m.Timestamp)
	}
	if s.String() != line {
		t.Errorf("String() = %q, expected %q", s.String(), line)
	}
}

func TestParseErrors(t *testing.T) {
	good := withChecksum("AIVDM,1,1,,A,13u?etPv2;0n:dDPwUM1U1Cb069D,0")
	for _, tc := range []struct {
		name string
		line string
		want error
	}{
		{"no bang", strings.TrimPrefix(good, "!"), ErrFraming},
		{"no checksum", "!AIVDM,1,1,,A,13u,0", ErrFraming},
		{"bad checksum", good[:len(good)-2] + "00", ErrChecksum},
		{"lowercase checksum", "!AIVDM,1,1,,A,13u,0*5a", ErrFraming},
		{"type", withChecksum("AIGGA,1,1,,A,13u,0"), ErrFraming},
		{"field count", withChecksum("AIVDM,1,1,,A,13u"), ErrFraming},
		{"index above total", withChecksum("AIVDM,2,3,1,A,13u,0"), ErrFraming},
		{"total zero", withChecksum("AIVDM,0,1,,A,13u,0"), ErrFraming},
		{"missing sequence", withChecksum("AIVDM,2,1,,A,13u,0"), ErrFraming},
		{"channel", withChecksum("AIVDM,1,1,,C,13u,0"), ErrFraming},
		{"pad", withChecksum("AIVDM,1,1,,A,13u,6"), ErrFraming},
		{"empty payload", withChecksum("AIVDM,1,1,,A,,0"), ErrFraming},
		{"armor", withChecksum("AIVDM,1,1,,A,13X,0"), armor.ErrArmor},
		{"bbm channel", withChecksum("AIBBM,1,1,1,A,8,13u,0"), ErrFraming},
	} {
		if _, err := Parse(tc.line); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func randomBits(n int) *bitbuf.Buffer {
	bits := make([]byte, n)
	for i := range bits {
		bits[i] = byte((i*7 + i/3) % 2)
	}
	return bitbuf.FromBits(bits)
}

func TestFrameSingle(t *testing.T) {
	f := NewFramer()
	ss, err := f.Frame(context.Background(), randomBits(168), Options{Channel: "A"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ss) != 1 {
		t.Fatalf("%d sentences", len(ss))
	}
	s := ss[0]
	if s.Sequence != NoSequence || s.Total != 1 || s.Index != 1 || s.Pad != 0 || len(s.Payload) != 28 {
		t.Errorf("unexpected sentence %+v", s)
	}
	if !strings.HasPrefix(s.String(), "!AIVDM,1,1,,A,") {
		t.Errorf("line %q", s.String())
	}
}

func TestFrameMulti(t *testing.T) {
	f := NewFramer()
	b := randomBits(424)
	ss, err := f.Frame(context.Background(), b, Options{Channel: "B"})
	if err != nil {
		t.Fatal(err)
	}
	// 424 bits = 71 characters, pad 2
	if len(ss) != 2 || len(ss[0].Payload) != ChunkVDM || len(ss[1].Payload) != 11 {
		t.Fatalf("unexpected framing: %v", Strings(ss))
	}
	if ss[0].Pad != 0 || ss[1].Pad != 2 {
		t.Errorf("pads %d, %d", ss[0].Pad, ss[1].Pad)
	}
	if ss[0].Sequence != 1 || ss[1].Sequence != 1 {
		t.Errorf("sequence ids %d, %d", ss[0].Sequence, ss[1].Sequence)
	}

	r := NewReassembler(log.New(io.Discard, "", 0))
	var got *Message
	for _, line := range Strings(ss) {
		if m := r.Push(line); m != nil {
			got = m
		}
	}
	if got == nil {
		t.Fatal("no message reassembled")
	}
	u, err := got.Bits()
	if err != nil {
		t.Fatal(err)
	}
	if !u.Equal(b) {
		t.Errorf("reassembled bits differ")
	}
}

func TestFrameBBM(t *testing.T) {
	f := NewFramer()
	ss, err := f.Frame(context.Background(), randomBits(300), Options{Type: TypeBBM})
	if err != nil {
		t.Fatal(err)
	}
	if len(ss) != 2 || len(ss[0].Payload) != ChunkBBM {
		t.Fatalf("unexpected framing: %v", Strings(ss))
	}
	for _, s := range ss {
		if s.Channel != "0" || s.MessageType != 8 || s.Sequence == NoSequence {
			t.Errorf("unexpected sentence %+v", s)
		}
		p, err := Parse(s.String())
		if err != nil {
			t.Fatal(err)
		}
		if p.String() != s.String() {
			t.Errorf("re-emit %q != %q", p.String(), s.String())
		}
	}
}

func TestFrameTooLong(t *testing.T) {
	if _, err := NewFramer().Frame(context.Background(), randomBits(6*60*9+1), Options{}); !errors.Is(err, ErrFraming) {
		t.Errorf("expected ErrFraming, got %v", err)
	}
}

func TestCounterPerChannel(t *testing.T) {
	c := NewCounter()
	ctx := context.Background()
	for want := 1; want <= 9; want++ {
		if n, _ := c.Next(ctx, "A"); n != want {
			t.Fatalf("A: got %d, expected %d", n, want)
		}
	}
	if n, _ := c.Next(ctx, "A"); n != 1 {
		t.Errorf("A did not wrap: %d", n)
	}
	if n, _ := c.Next(ctx, "B"); n != 1 {
		t.Errorf("B not independent: %d", n)
	}
}

func twoPart(seq int) (string, string) {
	a := withChecksum(fmt.Sprintf("AIVDM,2,1,%d,A,55?MbV02;H;s<HtKR20EHE:0@T4@Dn2222222216L961O5Gf0NSQEp6ClRp8,0", seq))
	b := withChecksum(fmt.Sprintf("AIVDM,2,2,%d,A,88888888880,2", seq))
	return a, b
}

func TestReassembleInOrder(t *testing.T) {
	r := NewReassembler(log.New(io.Discard, "", 0))
	a, b := twoPart(6)
	if m := r.Push(a); m != nil {
		t.Fatal("message emitted after first fragment")
	}
	if r.Pending() != 1 {
		t.Errorf("pending %d", r.Pending())
	}
	m := r.Push(b)
	if m == nil {
		t.Fatal("no message after second fragment")
	}
	if m.Pad != 2 || !strings.HasSuffix(m.Payload, "88888888880") || len(m.Sentences) != 2 {
		t.Errorf("unexpected message %+v", m)
	}
	if r.Pending() != 0 {
		t.Errorf("pending %d after completion", r.Pending())
	}
}

func TestReassembleOutOfOrder(t *testing.T) {
	var errs []error
	r := NewReassembler(log.New(io.Discard, "", 0))
	r.OnError = func(_ string, err error) { errs = append(errs, err) }
	a, b := twoPart(6)

	if m := r.Push(b); m != nil {
		t.Fatal("message from orphan fragment")
	}
	if r.Pending() != 0 {
		t.Errorf("orphan fragment kept a slot")
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrReassembly) {
		t.Errorf("errors %v", errs)
	}
	if m := r.Push(a); m != nil {
		t.Fatal("message from a lone first fragment")
	}
	// index 1 always opens a slot; only expiry clears it
	if r.Pending() != 1 {
		t.Errorf("pending after reverse order = %d, expected the first fragment held", r.Pending())
	}
	if n := r.Expire(-time.Second); n != 1 || r.Pending() != 0 {
		t.Errorf("expired %d, pending %d", n, r.Pending())
	}
	if len(errs) != 1 {
		t.Errorf("expiry reported errors %v", errs)
	}
}

func TestReassembleMismatch(t *testing.T) {
	r := NewReassembler(log.New(io.Discard, "", 0))
	a, _ := twoPart(3)
	r.Push(a)
	// wrong total for the open slot
	r.Push(withChecksum("AIVDM,3,2,3,A,88888888880,0"))
	if r.Pending() != 0 {
		t.Errorf("slot not flushed on mismatch")
	}
}

func TestReassembleIntermediatePad(t *testing.T) {
	r := NewReassembler(log.New(io.Discard, "", 0))
	if m := r.Push(withChecksum("AIVDM,2,1,4,A,55?MbV02,2")); m != nil || r.Pending() != 0 {
		t.Errorf("padded first fragment accepted")
	}
}

func TestReassembleStations(t *testing.T) {
	r := NewReassembler(log.New(io.Discard, "", 0))
	a, b := twoPart(5)
	r.Push(a + ",rSTATION1")
	r.Push(a + ",rSTATION2")
	if r.Pending() != 2 {
		t.Fatalf("stations share a slot: pending %d", r.Pending())
	}
	m := r.Push(b + ",rSTATION2")
	if m == nil || m.Station != "rSTATION2" {
		t.Errorf("unexpected message %+v", m)
	}
}

func TestExpire(t *testing.T) {
	now := time.Date(2011, 8, 6, 0, 0, 0, 0, time.UTC)
	r := NewReassembler(log.New(io.Discard, "", 0))
	r.now = func() time.Time { return now }
	a, b := twoPart(2)
	r.Push(a)
	now = now.Add(30 * time.Second)
	if n := r.Expire(time.Minute); n != 0 {
		t.Errorf("expired %d early", n)
	}
	now = now.Add(time.Minute)
	if n := r.Expire(time.Minute); n != 1 {
		t.Errorf("expired %d", n)
	}
	if m := r.Push(b); m != nil {
		t.Errorf("message completed after expiry")
	}
}

func TestSingleSentencePassThrough(t *testing.T) {
	r := NewReassembler(log.New(io.Discard, "", 0))
	line := withChecksum("AIVDM,1,1,,A,13u?etPv2;0n:dDPwUM1U1Cb069D,0")
	m := r.Push(line)
	if m == nil || m.Raw() != line {
		t.Fatalf("unexpected message %+v", m)
	}
}
