package decoders

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/madpsy/aisasm/bitbuf"
)

// AreaVariant selects one of the Area Notice wire layouts.
type AreaVariant int

const (
	// AreaIMO is IMO Circ. 289, DAC 1 FI 22, 87-bit sub-areas.
	AreaIMO AreaVariant = iota
	// AreaUSCGLegacy is the early USCG trial format, DAC 366 FI 22,
	// 90-bit sub-areas.
	AreaUSCGLegacy
	// AreaUSCG is DAC 367 FI 22 version 1, 96-bit sub-areas with
	// 1/10000 minute positions.
	AreaUSCG
)

type areaFormat struct {
	name    string
	dac, fi int
	// version is written after the envelope when non-zero
	version int
	// headerSpare trails the notice header
	headerSpare int
	sub         subLayout
}

var areaFormats = map[AreaVariant]areaFormat{
	AreaIMO:        {name: "imo289", dac: 1, fi: 22, sub: layoutIMO},
	AreaUSCGLegacy: {name: "uscg-legacy", dac: 366, fi: 22, sub: layoutLegacy},
	AreaUSCG:       {name: "uscg-v1", dac: 367, fi: 22, version: 1, headerSpare: 3, sub: layoutUSCG},
}

func (v AreaVariant) format() (areaFormat, error) {
	f, ok := areaFormats[v]
	if !ok {
		return areaFormat{}, fmt.Errorf("area notice variant %d: %w", int(v), ErrEncoding)
	}
	return f, nil
}

func (v AreaVariant) String() string {
	if f, ok := areaFormats[v]; ok {
		return f.name
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

func (v AreaVariant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *AreaVariant) UnmarshalText(b []byte) error {
	for k, f := range areaFormats {
		if f.name == string(b) {
			*v = k
			return nil
		}
	}
	return fmt.Errorf("unknown area notice variant %q", b)
}

// DurationNotAvailable is the wire value for an unknown duration.
const DurationNotAvailable = 262143

// MaxSubAreas is the most sub-areas a notice may carry.
const MaxSubAreas = 9

// AreaNotice is an IMO Circ. 289 Area Notice.
type AreaNotice struct {
	Envelope
	Variant  AreaVariant `json:"variant"`
	LinkID   int         `json:"link_id"`
	AreaType int         `json:"area_type"`
	// When is the start of validity, UTC, to the minute. The year is not
	// transmitted.
	When time.Time `json:"when"`
	// Duration in minutes.
	Duration Opt[int]  `json:"duration"`
	SubAreas []SubArea `json:"sub_areas"`
}

// NewAreaNotice returns an empty notice with its envelope filled in.
func NewAreaNotice(v AreaVariant, source uint32, areaType int, when time.Time, duration int, linkID int) *AreaNotice {
	n := &AreaNotice{
		Variant:  v,
		LinkID:   linkID,
		AreaType: areaType,
		When:     when.UTC().Truncate(time.Minute),
	}
	if duration != DurationNotAvailable {
		n.Duration = Some(duration)
	}
	n.Envelope = Envelope{MessageID: MessageBinaryBroadcast, SourceID: source}
	if f, err := v.format(); err == nil {
		n.DAC, n.FI = f.dac, f.fi
	}
	return n
}

// AreaTypeName returns the catalog text for the notice's area type.
func (n *AreaNotice) AreaTypeName() string {
	return AreaTypeName(n.AreaType)
}

// Add appends a sub-area. Polylines and polygons take their starting
// point from the preceding sub-area, and free text needs geometry before
// it.
func (n *AreaNotice) Add(sa SubArea) error {
	if len(n.SubAreas) >= MaxSubAreas {
		return fmt.Errorf("area notice already has %d sub-areas: %w", MaxSubAreas, ErrComposition)
	}
	sa, err := n.link(len(n.SubAreas), sa)
	if err != nil {
		return err
	}
	n.SubAreas = append(n.SubAreas, sa)
	return nil
}

// AddText appends as many free text sub-areas as s needs.
func (n *AreaNotice) AddText(s string) error {
	f, err := n.Variant.format()
	if err != nil {
		return err
	}
	s = bitbuf.Normalize(s)
	for len(s) > 0 {
		k := f.sub.textChars
		if k > len(s) {
			k = len(s)
		}
		if err := n.Add(FreeText{Text: s[:k]}); err != nil {
			return err
		}
		s = s[k:]
	}
	return nil
}

// link checks sa against the sub-area before position i and fills in an
// inherited origin.
func (n *AreaNotice) link(i int, sa SubArea) (SubArea, error) {
	var prev SubArea
	if i > 0 {
		prev = n.SubAreas[i-1]
	}
	switch v := sa.(type) {
	case Polyline:
		lon, lat, ok := anchorOf(prev)
		if !ok {
			return nil, fmt.Errorf("sub-area %d: polyline must follow a point or poly: %w", i, ErrComposition)
		}
		v.Lon, v.Lat = lon, lat
		return v, nil
	case Polygon:
		lon, lat, ok := anchorOf(prev)
		if !ok {
			return nil, fmt.Errorf("sub-area %d: polygon must follow a point or poly: %w", i, ErrComposition)
		}
		v.Lon, v.Lat = lon, lat
		return v, nil
	case FreeText:
		if !n.hasGeometry(i) {
			return nil, fmt.Errorf("sub-area %d: text before any geometry: %w", i, ErrComposition)
		}
		v.Text = bitbuf.Normalize(v.Text)
		return v, nil
	case Circle, Rectangle, Sector:
		return sa, nil
	case nil:
		return nil, fmt.Errorf("sub-area %d is nil: %w", i, ErrComposition)
	}
	return nil, fmt.Errorf("sub-area %d: unsupported type %T: %w", i, sa, ErrComposition)
}

func (n *AreaNotice) hasGeometry(before int) bool {
	for _, sa := range n.SubAreas[:before] {
		if sa.Shape() != ShapeText {
			return true
		}
	}
	return false
}

func anchorOf(sa SubArea) (float64, float64, bool) {
	switch v := sa.(type) {
	case Circle:
		return v.Lon, v.Lat, v.IsPoint()
	case Polyline:
		return v.Lon, v.Lat, true
	case Polygon:
		return v.Lon, v.Lat, true
	}
	return 0, 0, false
}

// Text returns the free text sub-areas joined in order.
func (n *AreaNotice) Text() string {
	var sb strings.Builder
	for _, sa := range n.SubAreas {
		if t, ok := sa.(FreeText); ok {
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

// Consumed reports whether sub-area i is a point that only anchors the
// poly following it and is not drawn by itself.
func (n *AreaNotice) Consumed(i int) bool {
	if i < 0 || i+1 >= len(n.SubAreas) {
		return false
	}
	c, ok := n.SubAreas[i].(Circle)
	if !ok || !c.IsPoint() {
		return false
	}
	switch n.SubAreas[i+1].(type) {
	case Polyline, Polygon:
		return true
	}
	return false
}

// Encode returns the full message bits.
func (n *AreaNotice) Encode() (*bitbuf.Buffer, error) {
	f, err := n.Variant.format()
	if err != nil {
		return nil, err
	}
	if len(n.SubAreas) > MaxSubAreas {
		return nil, fmt.Errorf("%d sub-areas: %w", len(n.SubAreas), ErrComposition)
	}
	// re-check ordering for notices built without Add
	check := &AreaNotice{Variant: n.Variant}
	for _, sa := range n.SubAreas {
		if err := check.Add(sa); err != nil {
			return nil, err
		}
	}
	if n.AreaType < 0 || n.AreaType > 127 {
		return nil, fmt.Errorf("area_type %d outside 0..127: %w", n.AreaType, ErrEncoding)
	}
	if n.When.IsZero() {
		return nil, fmt.Errorf("area notice without start time: %w", ErrEncoding)
	}

	env := n.Envelope
	env.MessageID = MessageBinaryBroadcast
	env.DAC, env.FI = f.dac, f.fi
	w := newWriter()
	env.encode(w)
	if f.version != 0 {
		w.uint("version", f.version, 6)
	}
	t := n.When.UTC()
	w.uint("link_id", n.LinkID, 10)
	w.uint("area_type", n.AreaType, 7)
	w.uint("month", int(t.Month()), 4)
	w.uint("day", t.Day(), 5)
	w.uint("hour", t.Hour(), 5)
	w.uint("minute", t.Minute(), 6)
	w.optInt("duration", field{width: 18, max: DurationNotAvailable - 1, na: DurationNotAvailable}, n.Duration)
	w.spare(f.headerSpare)
	if w.err != nil {
		return nil, fmt.Errorf("area notice: %w", w.err)
	}
	for i, sa := range check.SubAreas {
		sw, err := f.sub.encode(sa)
		if err != nil {
			return nil, fmt.Errorf("sub-area %d: %w", i, err)
		}
		w.b.Concat(sw.b)
	}
	return finish(w)
}

// UnmarshalJSON accepts sub-areas tagged with "shape".
func (n *AreaNotice) UnmarshalJSON(b []byte) error {
	type plain AreaNotice
	var aux struct {
		plain
		SubAreas []json.RawMessage `json:"sub_areas"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*n = AreaNotice(aux.plain)
	n.SubAreas = nil
	for i, raw := range aux.SubAreas {
		sa, err := unmarshalSubArea(raw)
		if err != nil {
			return fmt.Errorf("sub_areas[%d]: %w", i, err)
		}
		if err := n.Add(sa); err != nil {
			return err
		}
	}
	return nil
}

func decodeAreaNotice(v AreaVariant) DecoderFunc {
	return func(d *Decoder, env Envelope, payload *bitbuf.Buffer) (Message, error) {
		return d.decodeAreaNotice(v, env, payload)
	}
}

func (d *Decoder) decodeAreaNotice(variant AreaVariant, env Envelope, payload *bitbuf.Buffer) (*AreaNotice, error) {
	f, err := variant.format()
	if err != nil {
		return nil, err
	}
	n := &AreaNotice{Envelope: env, Variant: variant}
	r := newReader(payload)
	if f.version != 0 {
		if ver := r.uint(6); r.err == nil && ver != f.version {
			return nil, fmt.Errorf("area notice %s: version %d: %w", f.name, ver, ErrFormat)
		}
	}
	n.LinkID = r.uint(10)
	n.AreaType = r.uint(7)
	month := r.uint(4)
	day := r.uint(5)
	hour := r.uint(5)
	minute := r.uint(6)
	n.Duration = r.optInt(field{width: 18, max: DurationNotAvailable - 1, na: DurationNotAvailable})
	r.skip(f.headerSpare)
	if r.err != nil {
		return nil, fmt.Errorf("area notice header: %w", r.err)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 {
		return nil, fmt.Errorf("area notice time %02d-%02d %02d:%02d: %w", month, day, hour, minute, ErrFormat)
	}
	year := d.year(month)
	n.When = time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	// time.Date normalizes Feb 31 into March
	if n.When.Day() != day {
		return nil, fmt.Errorf("area notice date %d-%02d-%02d does not exist: %w", year, month, day, ErrFormat)
	}

	// Poly sub-areas start where the previous point or poly left off.
	var (
		anchor      *[2]float64
		hasGeometry bool
	)
	for i := 0; r.remaining() >= f.sub.bits; i++ {
		sa, shape := f.sub.decode(r)
		if r.err != nil {
			return nil, fmt.Errorf("area notice sub-area %d: %w", i, r.err)
		}
		switch v := sa.(type) {
		case Circle:
			anchor = nil
			if v.IsPoint() {
				anchor = &[2]float64{v.Lon, v.Lat}
			}
			hasGeometry = true
		case Rectangle, Sector:
			anchor = nil
			hasGeometry = true
		case Polyline:
			if anchor == nil {
				return nil, fmt.Errorf("area notice sub-area %d: polyline without a starting point: %w", i, ErrFormat)
			}
			v.Lon, v.Lat = anchor[0], anchor[1]
			sa = v
			hasGeometry = true
		case Polygon:
			if anchor == nil {
				return nil, fmt.Errorf("area notice sub-area %d: polygon without a starting point: %w", i, ErrFormat)
			}
			v.Lon, v.Lat = anchor[0], anchor[1]
			sa = v
			hasGeometry = true
		case FreeText:
			if !hasGeometry {
				return nil, fmt.Errorf("area notice sub-area %d: text before any geometry: %w", i, ErrFormat)
			}
			anchor = nil
		case nil:
			d.logf("area notice from %d: dropping sub-area %d with reserved shape %v", env.SourceID, i, shape)
			anchor = nil
			continue
		}
		if len(n.SubAreas) == MaxSubAreas {
			return nil, fmt.Errorf("area notice: more than %d sub-areas: %w", MaxSubAreas, ErrFormat)
		}
		n.SubAreas = append(n.SubAreas, sa)
	}
	if err := residual("area notice", r); err != nil {
		return nil, err
	}
	return n, nil
}

// year picks the year for a month seen in a message, allowing for
// messages that straddle New Year.
func (d *Decoder) year(month int) int {
	now := d.now()
	y := now.Year()
	switch {
	case month == 12 && now.Month() == time.January:
		y--
	case month == 1 && now.Month() == time.December:
		y++
	}
	return y
}
