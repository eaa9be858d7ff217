// Package metrics counts what the ingester and encoder see, exports the
// totals for Prometheus and optionally pushes windowed snapshots to
// InfluxDB.
package metrics

import (
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FixedWindowCounter counts events in a fixed-duration window and resets at each tick.
type FixedWindowCounter struct {
	mu    sync.Mutex
	count int64
}

func NewFixedWindowCounter() *FixedWindowCounter {
	return &FixedWindowCounter{}
}

func (c *FixedWindowCounter) AddEvent() {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
}

func (c *FixedWindowCounter) Count() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Swap returns the count and starts a new window.
func (c *FixedWindowCounter) Swap() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.count
	c.count = 0
	return n
}

func (c *FixedWindowCounter) Reset() {
	c.Swap()
}

// NumericAggregator maintains a running average.
type NumericAggregator struct {
	sum   float64
	count int
}

func (na *NumericAggregator) update(value float64) {
	na.sum += value
	na.count++
}

func (na *NumericAggregator) average() float64 {
	if na.count == 0 {
		return 0
	}
	return na.sum / float64(na.count)
}

// Stats is the shared set of counters. The zero value is not usable;
// call New.
type Stats struct {
	registry *prometheus.Registry

	sentences    *prometheus.CounterVec
	rejected     *prometheus.CounterVec
	decoded      *prometheus.CounterVec
	decodeErrors *prometheus.CounterVec
	encoded      *prometheus.CounterVec
	pending      prometheus.Gauge

	mu            sync.Mutex
	start         time.Time
	windowByKind  map[string]*FixedWindowCounter
	windowFailure *FixedWindowCounter
	ratePerSec    NumericAggregator
	totals        map[string]int64
}

// New returns Stats registered on a private Prometheus registry.
func New() *Stats {
	s := &Stats{
		registry: prometheus.NewRegistry(),
		sentences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aisasm_sentences_total",
			Help: "NMEA sentences received, by source.",
		}, []string{"source"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aisasm_sentences_rejected_total",
			Help: "Sentences dropped by the framer, by reason.",
		}, []string{"reason"}),
		decoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aisasm_messages_decoded_total",
			Help: "Messages decoded, by message id, DAC and FI.",
		}, []string{"message_id", "dac", "fi"}),
		decodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aisasm_decode_errors_total",
			Help: "Messages that failed to decode, by error class.",
		}, []string{"class"}),
		encoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aisasm_messages_encoded_total",
			Help: "Messages encoded, by DAC and FI.",
		}, []string{"dac", "fi"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aisasm_reassembly_pending",
			Help: "Multi-sentence groups waiting for more fragments.",
		}),
		start:         time.Now(),
		windowByKind:  make(map[string]*FixedWindowCounter),
		windowFailure: NewFixedWindowCounter(),
		totals:        make(map[string]int64),
	}
	s.registry.MustRegister(s.sentences, s.rejected, s.decoded, s.decodeErrors, s.encoded, s.pending)
	return s
}

// Handler serves the Prometheus text format.
func (s *Stats) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (s *Stats) Registry() *prometheus.Registry {
	return s.registry
}

func (s *Stats) window(kind string) *FixedWindowCounter {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.windowByKind[kind]
	if !ok {
		c = NewFixedWindowCounter()
		s.windowByKind[kind] = c
	}
	return c
}

func (s *Stats) total(name string) {
	s.mu.Lock()
	s.totals[name]++
	s.mu.Unlock()
}

// Sentence counts one received line.
func (s *Stats) Sentence(source string) {
	s.sentences.WithLabelValues(source).Inc()
	s.window("sentences").AddEvent()
	s.total("sentences")
}

// Rejected counts a sentence the framer dropped.
func (s *Stats) Rejected(reason string) {
	s.rejected.WithLabelValues(reason).Inc()
	s.windowFailure.AddEvent()
	s.total("rejected")
}

// Decoded counts a decoded message.
func (s *Stats) Decoded(messageID, dac, fi int) {
	s.decoded.WithLabelValues(strconv.Itoa(messageID), strconv.Itoa(dac), strconv.Itoa(fi)).Inc()
	s.window("decoded").AddEvent()
	s.total("decoded")
}

// DecodeError counts a message that could not be decoded.
func (s *Stats) DecodeError(class string) {
	s.decodeErrors.WithLabelValues(class).Inc()
	s.windowFailure.AddEvent()
	s.total("decode_errors")
}

// Encoded counts a message produced by the encoder.
func (s *Stats) Encoded(dac, fi int) {
	s.encoded.WithLabelValues(strconv.Itoa(dac), strconv.Itoa(fi)).Inc()
	s.window("encoded").AddEvent()
	s.total("encoded")
}

// Pending records the reassembler backlog.
func (s *Stats) Pending(n int) {
	s.pending.Set(float64(n))
}

// Snapshot is one closed window plus the running totals.
type Snapshot struct {
	Time          time.Time        `json:"time"`
	Window        time.Duration    `json:"window"`
	WindowCounts  map[string]int64 `json:"window_counts"`
	WindowFailure int64            `json:"window_failures"`
	AvgPerSec     float64          `json:"avg_sentences_per_sec"`
	Totals        map[string]int64 `json:"totals"`
	UptimeSeconds int              `json:"uptime_seconds"`
}

// Roll closes the current window, which is assumed to have lasted
// window, and returns its snapshot.
func (s *Stats) Roll(now time.Time, window time.Duration) Snapshot {
	s.mu.Lock()
	kinds := make([]string, 0, len(s.windowByKind))
	for k := range s.windowByKind {
		kinds = append(kinds, k)
	}
	s.mu.Unlock()
	sort.Strings(kinds)

	snap := Snapshot{
		Time:          now.UTC(),
		Window:        window,
		WindowCounts:  make(map[string]int64, len(kinds)),
		WindowFailure: s.windowFailure.Swap(),
		Totals:        make(map[string]int64),
		UptimeSeconds: int(now.Sub(s.start).Seconds()),
	}
	for _, k := range kinds {
		snap.WindowCounts[k] = s.window(k).Swap()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if window > 0 {
		s.ratePerSec.update(float64(snap.WindowCounts["sentences"]) / window.Seconds())
	}
	snap.AvgPerSec = s.ratePerSec.average()
	for k, v := range s.totals {
		snap.Totals[k] = v
	}
	return snap
}
