package sentence

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/madpsy/aisasm/armor"
	"github.com/madpsy/aisasm/bitbuf"
)

// Message is a complete armored payload, reassembled from one or more
// sentences.
type Message struct {
	Type      string      `json:"type"`
	Station   string      `json:"station,omitempty"`
	Channel   string      `json:"channel"`
	Payload   string      `json:"payload"`
	Pad       int         `json:"pad"`
	Meta      Metadata    `json:"meta"`
	Sentences []*Sentence `json:"-"`
}

// Bits unarmors the payload.
func (m *Message) Bits() (*bitbuf.Buffer, error) {
	return armor.Unpack(m.Payload, m.Pad)
}

// Raw returns the source sentences joined by CRLF.
func (m *Message) Raw() string {
	return strings.Join(Strings(m.Sentences), "\r\n")
}

type slotKey struct {
	station string
	channel string
	seq     int
}

func (k slotKey) String() string {
	return fmt.Sprintf("%s|%s|%d", k.station, k.channel, k.seq)
}

type slot struct {
	parts     []*Sentence
	firstSeen time.Time
	ts        time.Time
}

// Reassembler joins multi-sentence groups. Groups are keyed by receiving
// station, channel and sequential message identifier. Fragments must
// arrive in order; anything else flushes the group.
type Reassembler struct {
	// Logger receives discard annotations. Nil means log.Default().
	Logger *log.Logger
	// Debug enables per-fragment trace lines.
	Debug bool
	// OnError, when set, is called for every sentence that is discarded.
	OnError func(line string, err error)

	mu    sync.Mutex
	slots map[slotKey]*slot
	now   func() time.Time
}

// NewReassembler returns an empty Reassembler.
func NewReassembler(logger *log.Logger) *Reassembler {
	return &Reassembler{Logger: logger, slots: make(map[slotKey]*slot), now: time.Now}
}

func (r *Reassembler) logf(format string, args ...interface{}) {
	l := r.Logger
	if l == nil {
		l = log.Default()
	}
	l.Printf(format, args...)
}

func (r *Reassembler) discard(line string, err error) {
	r.logf("discarding %q: %v", line, err)
	if r.OnError != nil {
		r.OnError(line, err)
	}
}

// Push parses one line and feeds it to the reassembler. It returns a
// Message when the line completes one, and nil otherwise. Malformed lines
// are logged and dropped.
func (r *Reassembler) Push(line string) *Message {
	s, err := Parse(line)
	if err != nil {
		r.discard(line, err)
		return nil
	}
	return r.PushSentence(s)
}

// PushSentence feeds an already parsed sentence.
func (r *Reassembler) PushSentence(s *Sentence) *Message {
	if s.Total == 1 {
		return newMessage([]*Sentence{s})
	}

	key := slotKey{station: s.Meta.Station, channel: s.Channel, seq: s.Sequence}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slots == nil {
		r.slots = make(map[slotKey]*slot)
	}
	now := r.clock()

	if s.Index < s.Total && s.Pad != 0 {
		delete(r.slots, key)
		r.discard(s.String(), fmt.Errorf("fragment %d/%d carries pad %d: %w", s.Index, s.Total, s.Pad, ErrReassembly))
		return nil
	}

	if s.Index == 1 {
		if _, ok := r.slots[key]; ok && r.Debug {
			r.logf("[DEBUG] restarting incomplete group %s", key)
		}
		r.slots[key] = &slot{parts: []*Sentence{s}, firstSeen: now, ts: now}
		if r.Debug {
			r.logf("[DEBUG] started assembling %d-part message %s", s.Total, key)
		}
		return nil
	}

	e, ok := r.slots[key]
	if !ok || s.Index != len(e.parts)+1 || s.Total != e.parts[0].Total {
		delete(r.slots, key)
		r.discard(s.String(), fmt.Errorf("fragment %d/%d out of order for %s: %w", s.Index, s.Total, key, ErrReassembly))
		return nil
	}
	e.parts = append(e.parts, s)
	e.ts = now
	if r.Debug {
		r.logf("[DEBUG] received fragment %d/%d for %s", s.Index, s.Total, key)
	}
	if s.Index < s.Total {
		return nil
	}
	delete(r.slots, key)
	if r.Debug {
		r.logf("[DEBUG] assembled %d fragments for %s in %v", s.Total, key, now.Sub(e.firstSeen))
	}
	return newMessage(e.parts)
}

// Expire drops incomplete groups not touched within ttl and returns how
// many were dropped.
func (r *Reassembler) Expire(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock()
	n := 0
	for k, e := range r.slots {
		if now.Sub(e.ts) > ttl {
			delete(r.slots, k)
			n++
			if r.Debug {
				r.logf("[DEBUG] expired %d/%d fragments for %s", len(e.parts), e.parts[0].Total, k)
			}
		}
	}
	return n
}

// Pending returns the number of incomplete groups held.
func (r *Reassembler) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}

func (r *Reassembler) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}

func newMessage(parts []*Sentence) *Message {
	first, last := parts[0], parts[len(parts)-1]
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.Payload)
	}
	meta := first.Meta
	if meta.Timestamp == nil {
		meta.Timestamp = last.Meta.Timestamp
	}
	return &Message{
		Type:      first.Type,
		Station:   first.Meta.Station,
		Channel:   first.Channel,
		Payload:   sb.String(),
		Pad:       last.Pad,
		Meta:      meta,
		Sentences: parts,
	}
}
