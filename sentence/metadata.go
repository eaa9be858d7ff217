package sentence

import (
	"strconv"
	"strings"
	"time"
)

// Metadata holds the receiver annotations appended after the checksum
// (USCG NAIS style: ",r<station>,s<rssi>,d<dBm>,T<arrival>,S<slot>,x<counter>,<unix time>").
type Metadata struct {
	Station   string     `json:"station,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	RSSI      *int       `json:"rssi,omitempty"`
	SignalDBm *int       `json:"signal_dbm,omitempty"`
	Slot      *int       `json:"slot,omitempty"`
	Counter   *int       `json:"counter,omitempty"`
	Arrival   *float64   `json:"arrival,omitempty"`
}

func parseMetadata(tags []string) Metadata {
	var m Metadata
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if ts, err := strconv.ParseInt(tag, 10, 64); err == nil {
			t := time.Unix(ts, 0).UTC()
			m.Timestamp = &t
			continue
		}
		val := tag[1:]
		switch tag[0] {
		case 'r', 'b':
			m.Station = tag
		case 's':
			m.RSSI = atoiPtr(val)
		case 'd':
			m.SignalDBm = atoiPtr(val)
		case 'S':
			m.Slot = atoiPtr(val)
		case 'x':
			m.Counter = atoiPtr(val)
		case 'T':
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				m.Arrival = &f
			}
		default:
			// Some feeds put the receiver name last without a prefix.
			if m.Station == "" && !strings.ContainsAny(tag, "*!") {
				m.Station = tag
			}
		}
	}
	return m
}

func atoiPtr(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
