package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/madpsy/aisasm/decoders"
	"github.com/madpsy/aisasm/metrics"
	"github.com/madpsy/aisasm/sentence"
)

const descriptions = `
{"kind": "area_notice", "message": {"variant": "imo289", "source_id": 366123456, "link_id": 3, "area_type": 20,
  "when": "2011-08-06T12:00:00Z", "duration": 120,
  "sub_areas": [{"shape": "circle", "lon": -69.5, "lat": 42, "precision": 2, "radius": 1000}]}}
{"kind": "text_description", "message": {"source_id": 366123456, "link_id": 3, "text": "no anchoring"}}
{"kind": "met_hydro", "message": {"source_id": 2655619, "lon": 10.5, "lat": 59.25, "wind_speed": 12, "air_temp": -3.5}}
{"kind": "env_report", "message": {"source_id": 2655619, "reports": []}}
{"kind": "traffic_signal", "message": {"source_id": 2655619, "name": "PIER 7", "status": 1, "signal": 2}}
`

func decodeAll(t *testing.T, out string) []decoders.Message {
	t.Helper()
	r := sentence.NewReassembler(log.New(io.Discard, "", 0))
	r.OnError = func(line string, err error) {
		t.Errorf("%s: %v", line, err)
	}
	d := &decoders.Decoder{
		Now:    func() time.Time { return time.Date(2011, 8, 6, 0, 0, 0, 0, time.UTC) },
		Logger: log.New(io.Discard, "", 0),
	}
	var msgs []decoders.Message
	for _, line := range strings.Split(out, "\r\n") {
		if line == "" {
			continue
		}
		m := r.Push(line)
		if m == nil {
			continue
		}
		dm, err := d.DecodeMessage(m)
		if err != nil {
			t.Fatalf("%s: %v", m.Raw(), err)
		}
		msgs = append(msgs, dm)
	}
	return msgs
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	stats := metrics.New()
	e := &Emitter{
		Framer:  sentence.NewFramer(),
		Options: sentence.Options{Channel: "A"},
		Sinks:   []io.Writer{&out},
		Stats:   stats,
	}
	failed, err := e.Run(context.Background(), strings.NewReader(descriptions))
	if err != nil || failed != 0 {
		t.Fatalf("failed=%d err=%v", failed, err)
	}
	msgs := decodeAll(t, out.String())
	if len(msgs) != 5 {
		t.Fatalf("decoded %d messages", len(msgs))
	}

	n, ok := msgs[0].(*decoders.AreaNotice)
	if !ok {
		t.Fatalf("first message is %T", msgs[0])
	}
	if n.SourceID != 366123456 || n.AreaType != 20 || n.LinkID != 3 || !n.When.Equal(time.Date(2011, 8, 6, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("notice %+v", n)
	}
	if len(n.SubAreas) != 1 {
		t.Errorf("sub-areas %v", n.SubAreas)
	}

	td, ok := msgs[1].(*decoders.TextDescription)
	if !ok || td.Text != "NO ANCHORING" || td.LinkID != 3 {
		t.Errorf("text description %#v", msgs[1])
	}

	mh, ok := msgs[2].(*decoders.MetHydro)
	if !ok {
		t.Fatalf("third message is %T", msgs[2])
	}
	want := decoders.NewMetHydro(2655619)
	want.Lon, want.Lat = 10.5, 59.25
	want.WindSpeed = decoders.Some(12)
	want.AirTemp = decoders.Some(-3.5)
	if !mh.Equal(want) {
		t.Errorf("met/hydro\n got %+v\nwant %+v", mh, want)
	}

	if er, ok := msgs[3].(*decoders.EnvReport); !ok || len(er.Reports) != 0 {
		t.Errorf("env report %#v", msgs[3])
	}
	if ts, ok := msgs[4].(*decoders.MarineTrafficSignal); !ok || ts.Name != "PIER 7" || ts.Signal != 2 {
		t.Errorf("traffic signal %#v", msgs[4])
	}

	snap := stats.Roll(time.Now(), 0)
	if snap.Totals["encoded"] != 5 {
		t.Errorf("totals %v", snap.Totals)
	}
}

func TestRunBadDescriptions(t *testing.T) {
	in := `{"kind": "weather_report", "message": {}}
{"kind": "text_description", "message": {"source_id": 1, "text": ""}}
{"kind": "text_description", "message": {"source_id": 1, "text": "OK"}}
`
	var out bytes.Buffer
	e := &Emitter{Framer: sentence.NewFramer(), Sinks: []io.Writer{&out}}
	failed, err := e.Run(context.Background(), strings.NewReader(in))
	if failed != 2 {
		t.Errorf("failed = %d", failed)
	}
	if err == nil || !strings.Contains(err.Error(), "description 1") {
		t.Errorf("first error %v", err)
	}
	if got := strings.Count(out.String(), "\r\n"); got != 1 {
		t.Errorf("%d sentences written", got)
	}
}

func TestRunSyntaxError(t *testing.T) {
	e := &Emitter{Framer: sentence.NewFramer(), Sinks: []io.Writer{io.Discard}}
	if _, err := e.Run(context.Background(), strings.NewReader(`{"kind": `)); err == nil {
		t.Error("truncated JSON accepted")
	}
}

func TestBuildComposition(t *testing.T) {
	d := Description{Kind: KindAreaNotice, Message: []byte(`{"variant": "imo289", "when": "2011-08-06T12:00:00Z",
		"sub_areas": [{"shape": "text", "text": "FIRST"}]}`)}
	if _, err := d.Build(); !errors.Is(err, decoders.ErrComposition) {
		t.Errorf("text first: %v", err)
	}
	if _, err := (Description{Kind: KindMetHydro}).Build(); err == nil {
		t.Error("missing message accepted")
	}
}

func TestEmitBBM(t *testing.T) {
	var out bytes.Buffer
	cfg := defaultConfig()
	cfg.Type = "bbm"
	cfg.Channel = "1"
	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	e := &Emitter{Framer: sentence.NewFramer(), Options: opts, Sinks: []io.Writer{&out}}
	ss, err := e.Emit(context.Background(), decoders.NewTextDescription(0, 9, "HELLO"))
	if err != nil {
		t.Fatal(err)
	}
	if len(ss) != 1 || !strings.HasPrefix(ss[0].String(), "!AIBBM,1,1,") {
		t.Fatalf("sentences %v", sentence.Strings(ss))
	}
	msgs := decodeAll(t, out.String())
	if len(msgs) != 1 {
		t.Fatalf("decoded %d", len(msgs))
	}
	if td, ok := msgs[0].(*decoders.TextDescription); !ok || td.Text != "HELLO" || td.LinkID != 9 {
		t.Errorf("decoded %#v", msgs[0])
	}
}

func TestEmitCountsEncodedEnvelope(t *testing.T) {
	stats := metrics.New()
	e := &Emitter{Framer: sentence.NewFramer(), Sinks: []io.Writer{io.Discard}, Stats: stats, ByteAlign: true}
	// a notice built from JSON carries no DAC/FI until it is encoded
	m, err := Description{Kind: KindAreaNotice, Message: []byte(`{"variant": "imo289", "source_id": 366123456,
		"when": "2011-08-06T12:00:00Z", "sub_areas": [{"shape": "circle", "lon": -69.5, "lat": 42}]}`)}.Build()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Emit(context.Background(), m); err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	stats.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if want := `aisasm_messages_encoded_total{dac="1",fi="22"} 1`; !strings.Contains(rec.Body.String(), want) {
		t.Errorf("metrics missing %s:\n%s", want, rec.Body.String())
	}
}

func TestOptionsRejectsType(t *testing.T) {
	cfg := defaultConfig()
	cfg.Type = "ABM"
	if _, err := cfg.Options(); err == nil {
		t.Error("ABM accepted")
	}
}

func TestFlagOverrides(t *testing.T) {
	cfg := defaultConfig()
	cfg.RedisAddr = "redis:6379"
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var over flagOverrides
	over.register(fs)
	if err := fs.Parse([]string{"-type", "VDO", "-byte-align", "-udp", "a:1, b:2"}); err != nil {
		t.Fatal(err)
	}
	over.apply(fs, &cfg)
	if cfg.Type != "VDO" || !cfg.ByteAlign || cfg.RedisAddr != "redis:6379" {
		t.Errorf("cfg %+v", cfg)
	}
	if got := splitAndTrim(cfg.UDPDestinations, ","); len(got) != 2 || got[1] != "b:2" {
		t.Errorf("destinations %q", got)
	}
}
