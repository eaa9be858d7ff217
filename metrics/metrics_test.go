package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestFixedWindowCounter(t *testing.T) {
	c := NewFixedWindowCounter()
	for i := 0; i < 5; i++ {
		c.AddEvent()
	}
	if n := c.Swap(); n != 5 {
		t.Errorf("Swap = %d, expected 5", n)
	}
	if n := c.Count(); n != 0 {
		t.Errorf("Count after Swap = %d", n)
	}
	c.AddEvent()
	c.Reset()
	if n := c.Count(); n != 0 {
		t.Errorf("Count after Reset = %d", n)
	}
}

func TestStatsRoll(t *testing.T) {
	s := New()
	for i := 0; i < 20; i++ {
		s.Sentence("udp")
	}
	s.Rejected("checksum")
	s.Decoded(8, 1, 22)
	s.DecodeError("format")

	now := s.start.Add(10 * time.Second)
	snap := s.Roll(now, 10*time.Second)
	if snap.WindowCounts["sentences"] != 20 || snap.WindowCounts["decoded"] != 1 {
		t.Errorf("window counts %v", snap.WindowCounts)
	}
	if snap.WindowFailure != 2 {
		t.Errorf("window failures %d", snap.WindowFailure)
	}
	if snap.AvgPerSec != 2 {
		t.Errorf("avg %v", snap.AvgPerSec)
	}
	if snap.UptimeSeconds != 10 {
		t.Errorf("uptime %d", snap.UptimeSeconds)
	}

	snap = s.Roll(now.Add(10*time.Second), 10*time.Second)
	if snap.WindowCounts["sentences"] != 0 || snap.Totals["sentences"] != 20 {
		t.Errorf("second window %v totals %v", snap.WindowCounts, snap.Totals)
	}
	if snap.AvgPerSec != 1 {
		t.Errorf("avg %v", snap.AvgPerSec)
	}
}

func TestPrometheus(t *testing.T) {
	s := New()
	s.Sentence("serial")
	s.Sentence("serial")
	s.Decoded(8, 1, 31)
	s.Pending(3)
	if v := testutil.ToFloat64(s.sentences.WithLabelValues("serial")); v != 2 {
		t.Errorf("sentences = %v", v)
	}
	if v := testutil.ToFloat64(s.pending); v != 3 {
		t.Errorf("pending = %v", v)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `aisasm_messages_decoded_total{dac="1",fi="31",message_id="8"} 1`) {
		t.Errorf("missing decoded counter in:\n%s", body)
	}
}

func TestPoints(t *testing.T) {
	snap := Snapshot{
		Time:         time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		WindowCounts: map[string]int64{"sentences": 7},
		Totals:       map[string]int64{"sentences": 70},
	}
	pts, err := Points(snap, map[string]string{"station": "home"})
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 5 {
		t.Fatalf("%d points", len(pts))
	}
	found := false
	for _, p := range pts {
		if p.Name() != "metrics" || p.Tags()["station"] != "home" {
			t.Errorf("point %v", p)
		}
		if p.Tags()["metric"] == "window_sentences" {
			found = true
			f, _ := p.Fields()
			if f["value"] != int64(7) {
				t.Errorf("window_sentences = %v", f["value"])
			}
		}
	}
	if !found {
		t.Error("no window_sentences point")
	}
}
