// Package sentence parses and emits the NMEA 0183 sentences that carry
// armored AIS payloads (!AIVDM, !AIVDO and !--BBM), and reassembles
// multi-sentence messages.
package sentence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/madpsy/aisasm/armor"
)

var (
	// ErrChecksum is returned when the XOR checksum does not match.
	ErrChecksum = errors.New("checksum error")
	// ErrFraming is returned when a sentence does not match the grammar.
	ErrFraming = errors.New("framing error")
	// ErrReassembly is reported when fragments arrive out of order.
	ErrReassembly = errors.New("reassembly error")
)

// Sentence types.
const (
	TypeVDM = "VDM"
	TypeVDO = "VDO"
	TypeBBM = "BBM"
)

// NoSequence marks a blank sequential message identifier.
const NoSequence = -1

// Sentence is one parsed NMEA sentence carrying (part of) an armored payload.
type Sentence struct {
	Talker   string `json:"talker"`
	Type     string `json:"type"`
	Total    int    `json:"total"`
	Index    int    `json:"index"`
	Sequence int    `json:"sequence"`
	Channel  string `json:"channel"`
	// MessageType is only carried by BBM sentences.
	MessageType int      `json:"message_type,omitempty"`
	Payload     string   `json:"payload"`
	Pad         int      `json:"pad"`
	Tags        []string `json:"tags,omitempty"`
	Meta        Metadata `json:"meta"`
}

// Checksum returns the XOR of every byte of s.
func Checksum(s string) byte {
	var sum byte
	for i := 0; i < len(s); i++ {
		sum ^= s[i]
	}
	return sum
}

// Parse parses a single sentence. Trailing CR/LF and surrounding blanks
// are ignored.
func Parse(line string) (*Sentence, error) {
	line = strings.TrimSpace(line)
	if len(line) < 2 || line[0] != '!' {
		return nil, fmt.Errorf("%q: expected '!' start: %w", line, ErrFraming)
	}
	star := strings.IndexByte(line, '*')
	if star < 0 || star+3 > len(line) {
		return nil, fmt.Errorf("%q: missing checksum: %w", line, ErrFraming)
	}
	body := line[1:star]
	hex := line[star+1 : star+3]
	if !isUpperHex(hex) {
		return nil, fmt.Errorf("%q: checksum %q is not two uppercase hex digits: %w", line, hex, ErrFraming)
	}
	want, _ := strconv.ParseUint(hex, 16, 8)
	if got := Checksum(body); byte(want) != got {
		return nil, fmt.Errorf("%q: checksum %02X, computed %02X: %w", line, want, got, ErrChecksum)
	}

	s := &Sentence{Sequence: NoSequence}
	if rest := line[star+3:]; rest != "" {
		if rest[0] != ',' {
			return nil, fmt.Errorf("%q: junk after checksum: %w", line, ErrFraming)
		}
		s.Tags = strings.Split(rest[1:], ",")
		s.Meta = parseMetadata(s.Tags)
	}

	f := strings.Split(body, ",")
	if len(f[0]) != 5 {
		return nil, fmt.Errorf("%q: bad address field %q: %w", line, f[0], ErrFraming)
	}
	s.Talker, s.Type = f[0][:2], f[0][2:]
	want6 := 7
	switch s.Type {
	case TypeVDM, TypeVDO:
	case TypeBBM:
		want6 = 8
	default:
		return nil, fmt.Errorf("%q: unsupported sentence type %q: %w", line, s.Type, ErrFraming)
	}
	if len(f) != want6 {
		return nil, fmt.Errorf("%q: %d fields, expected %d: %w", line, len(f), want6, ErrFraming)
	}

	var err error
	if s.Total, err = digit(f[1], 1, 9); err != nil {
		return nil, fmt.Errorf("%q: total: %w", line, err)
	}
	if s.Index, err = digit(f[2], 1, s.Total); err != nil {
		return nil, fmt.Errorf("%q: index: %w", line, err)
	}
	if f[3] != "" {
		if s.Sequence, err = digit(f[3], 0, 9); err != nil {
			return nil, fmt.Errorf("%q: sequence: %w", line, err)
		}
	} else if s.Total > 1 || s.Type == TypeBBM {
		return nil, fmt.Errorf("%q: multi-sentence group without sequence id: %w", line, ErrFraming)
	}
	s.Channel = f[4]
	if !validChannel(s.Type, s.Channel) {
		return nil, fmt.Errorf("%q: channel %q: %w", line, s.Channel, ErrFraming)
	}

	p := 5
	if s.Type == TypeBBM {
		if s.MessageType, err = strconv.Atoi(f[5]); err != nil || s.MessageType < 0 || s.MessageType > 63 {
			return nil, fmt.Errorf("%q: message type %q: %w", line, f[5], ErrFraming)
		}
		p = 6
	}
	s.Payload = f[p]
	if s.Payload == "" {
		return nil, fmt.Errorf("%q: empty payload: %w", line, ErrFraming)
	}
	for i := 0; i < len(s.Payload); i++ {
		if _, ok := armor.Value(s.Payload[i]); !ok {
			return nil, fmt.Errorf("%q: payload character %q: %w", line, s.Payload[i], armor.ErrArmor)
		}
	}
	if s.Pad, err = digit(f[p+1], 0, armor.MaxPad); err != nil {
		return nil, fmt.Errorf("%q: pad: %w", line, err)
	}
	return s, nil
}

// Body returns the characters between '!' and '*'.
func (s *Sentence) Body() string {
	var sb strings.Builder
	sb.WriteString(s.Talker)
	sb.WriteString(s.Type)
	sb.WriteByte(',')
	sb.WriteString(strconv.Itoa(s.Total))
	sb.WriteByte(',')
	sb.WriteString(strconv.Itoa(s.Index))
	sb.WriteByte(',')
	if s.Sequence != NoSequence {
		sb.WriteString(strconv.Itoa(s.Sequence))
	}
	sb.WriteByte(',')
	sb.WriteString(s.Channel)
	sb.WriteByte(',')
	if s.Type == TypeBBM {
		sb.WriteString(strconv.Itoa(s.MessageType))
		sb.WriteByte(',')
	}
	sb.WriteString(s.Payload)
	sb.WriteByte(',')
	sb.WriteString(strconv.Itoa(s.Pad))
	return sb.String()
}

// String renders the sentence with its checksum and any metadata tags.
func (s *Sentence) String() string {
	body := s.Body()
	out := fmt.Sprintf("!%s*%02X", body, Checksum(body))
	if len(s.Tags) > 0 {
		out += "," + strings.Join(s.Tags, ",")
	}
	return out
}

func digit(f string, lo, hi int) (int, error) {
	if len(f) != 1 || f[0] < '0' || f[0] > '9' {
		return 0, fmt.Errorf("%q is not a digit: %w", f, ErrFraming)
	}
	v := int(f[0] - '0')
	if v < lo || v > hi {
		return 0, fmt.Errorf("%d outside %d..%d: %w", v, lo, hi, ErrFraming)
	}
	return v, nil
}

func isUpperHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return len(s) == 2
}

func validChannel(typ, ch string) bool {
	if typ == TypeBBM {
		// 0 = no preference, 1 = A, 2 = B, 3 = both
		return len(ch) == 1 && ch[0] >= '0' && ch[0] <= '3'
	}
	switch ch {
	case "", "A", "B", "1", "2":
		return true
	}
	return false
}
