package decoders

import (
	"encoding/json"
	"fmt"
	"math"
)

// Shape is the 3-bit sub-area discriminator.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeRectangle
	ShapeSector
	ShapePolyline
	ShapePolygon
	ShapeText
)

var shapeNames = []string{"circle", "rectangle", "sector", "polyline", "polygon", "text"}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("reserved(%d)", int(s))
	}
	return shapeNames[s]
}

// SubArea is one record of an Area Notice.
type SubArea interface {
	Shape() Shape
}

// Circle is a circle of Radius metres, or a point when Radius is 0.
type Circle struct {
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	Precision int     `json:"precision"`
	Radius    int     `json:"radius"`
}

// Rectangle is anchored at its south-west corner.
type Rectangle struct {
	Lon         float64 `json:"lon"`
	Lat         float64 `json:"lat"`
	Precision   int     `json:"precision"`
	EastDim     int     `json:"east_dim"`
	NorthDim    int     `json:"north_dim"`
	Orientation int     `json:"orientation"`
}

// Sector is a pie slice between two bearings.
type Sector struct {
	Lon        float64 `json:"lon"`
	Lat        float64 `json:"lat"`
	Precision  int     `json:"precision"`
	Radius     int     `json:"radius"`
	LeftBound  int     `json:"left_bound"`
	RightBound int     `json:"right_bound"`
}

// PolyPoint is a vertex relative to the previous one: a bearing in
// half-degree steps and a distance in metres.
type PolyPoint struct {
	Angle    float64 `json:"angle"`
	Distance int     `json:"distance"`
}

// Polyline is an open line. Lon and Lat are its starting point, inherited
// from the preceding point or poly sub-area; they are not on the wire.
type Polyline struct {
	Lon    float64     `json:"lon"`
	Lat    float64     `json:"lat"`
	Points []PolyPoint `json:"points"`
}

// Polygon is a closed Polyline.
type Polygon struct {
	Lon    float64     `json:"lon"`
	Lat    float64     `json:"lat"`
	Points []PolyPoint `json:"points"`
}

// FreeText carries part of the notice text.
type FreeText struct {
	Text string `json:"text"`
}

func (Circle) Shape() Shape    { return ShapeCircle }
func (Rectangle) Shape() Shape { return ShapeRectangle }
func (Sector) Shape() Shape    { return ShapeSector }
func (Polyline) Shape() Shape  { return ShapePolyline }
func (Polygon) Shape() Shape   { return ShapePolygon }
func (FreeText) Shape() Shape  { return ShapeText }

// IsPoint reports whether the circle is a zero-radius anchor.
func (c Circle) IsPoint() bool { return c.Radius == 0 }

func (c Circle) MarshalJSON() ([]byte, error) {
	type plain Circle
	return marshal(struct {
		Shape string `json:"shape"`
		plain
	}{ShapeCircle.String(), plain(c)})
}

func (c Rectangle) MarshalJSON() ([]byte, error) {
	type plain Rectangle
	return marshal(struct {
		Shape string `json:"shape"`
		plain
	}{ShapeRectangle.String(), plain(c)})
}

func (c Sector) MarshalJSON() ([]byte, error) {
	type plain Sector
	return marshal(struct {
		Shape string `json:"shape"`
		plain
	}{ShapeSector.String(), plain(c)})
}

func (c Polyline) MarshalJSON() ([]byte, error) {
	type plain Polyline
	return marshal(struct {
		Shape string `json:"shape"`
		plain
	}{ShapePolyline.String(), plain(c)})
}

func (c Polygon) MarshalJSON() ([]byte, error) {
	type plain Polygon
	return marshal(struct {
		Shape string `json:"shape"`
		plain
	}{ShapePolygon.String(), plain(c)})
}

func (c FreeText) MarshalJSON() ([]byte, error) {
	type plain FreeText
	return marshal(struct {
		Shape string `json:"shape"`
		plain
	}{ShapeText.String(), plain(c)})
}

// unmarshalSubArea decodes a sub-area tagged with "shape".
func unmarshalSubArea(b []byte) (SubArea, error) {
	var tag struct {
		Shape string `json:"shape"`
	}
	if err := json.Unmarshal(b, &tag); err != nil {
		return nil, err
	}
	var (
		sa  SubArea
		err error
	)
	switch tag.Shape {
	case "circle", "point":
		var v Circle
		err = json.Unmarshal(b, &v)
		sa = v
	case "rectangle":
		var v Rectangle
		err = json.Unmarshal(b, &v)
		sa = v
	case "sector":
		var v Sector
		err = json.Unmarshal(b, &v)
		sa = v
	case "polyline":
		var v Polyline
		err = json.Unmarshal(b, &v)
		sa = v
	case "polygon":
		var v Polygon
		err = json.Unmarshal(b, &v)
		sa = v
	case "text":
		var v FreeText
		err = json.Unmarshal(b, &v)
		sa = v
	default:
		return nil, fmt.Errorf("unknown sub-area shape %q", tag.Shape)
	}
	return sa, err
}

// scaleFactors is indexed by the 2-bit scale code.
var scaleFactors = [4]int{1, 10, 100, 1000}

// chooseScale returns the smallest scale code for which every value fits
// in width bits.
func chooseScale(name string, width int, values ...int) (int, error) {
	limit := 1<<width - 1
	for code, f := range scaleFactors {
		fits := true
		for _, v := range values {
			if v < 0 {
				return 0, fmt.Errorf("%s %d is negative: %w", name, v, ErrEncoding)
			}
			if scaled(v, f) > limit {
				fits = false
				break
			}
		}
		if fits {
			return code, nil
		}
	}
	return 0, fmt.Errorf("%s exceeds %d m: %w", name, limit*scaleFactors[3], ErrEncoding)
}

func scaled(v, f int) int {
	return int(math.Round(float64(v) / float64(f)))
}

// subLayout is one row of the parallel sub-area codec tables. Each Area
// Notice variant owns one and the widths are never mixed.
type subLayout struct {
	bits        int
	lonBits     int
	latBits     int
	coordScale  float64
	circleSpare int
	rectSpare   int
	sectorSpare int
	polyDist    int
	polySpare   int
	textChars   int
	textSpare   int
}

var (
	// IMO Circ. 289, 87 bits.
	layoutIMO = subLayout{
		bits: 87, lonBits: 25, latBits: 24, coordScale: 60000,
		circleSpare: 18, rectSpare: 5, sectorSpare: 0,
		polyDist: 10, polySpare: 2,
		textChars: 14, textSpare: 0,
	}
	// Early USCG trial messages, 90 bits.
	layoutLegacy = subLayout{
		bits: 90, lonBits: 25, latBits: 24, coordScale: 60000,
		circleSpare: 21, rectSpare: 8, sectorSpare: 3,
		polyDist: 11, polySpare: 1,
		textChars: 14, textSpare: 3,
	}
	// USCG DAC 367 version 1, 96 bits.
	layoutUSCG = subLayout{
		bits: 96, lonBits: 28, latBits: 27, coordScale: 600000,
		circleSpare: 21, rectSpare: 8, sectorSpare: 3,
		polyDist: 10, polySpare: 11,
		textChars: 15, textSpare: 3,
	}
)

func (l subLayout) position(w *writer, lon, lat float64, precision int) {
	w.coord("lon", lon, 180, l.lonBits, l.coordScale)
	w.coord("lat", lat, 90, l.latBits, l.coordScale)
	w.uint("precision", precision, 3)
}

func (l subLayout) encode(sa SubArea) (*writer, error) {
	w := newWriter()
	w.uint("shape", int(sa.Shape()), 3)
	switch v := sa.(type) {
	case Circle:
		code, err := chooseScale("radius", 12, v.Radius)
		if err != nil {
			return nil, err
		}
		w.uint("scale", code, 2)
		l.position(w, v.Lon, v.Lat, v.Precision)
		w.uint("radius", scaled(v.Radius, scaleFactors[code]), 12)
		w.spare(l.circleSpare)
	case Rectangle:
		code, err := chooseScale("rectangle dimension", 8, v.EastDim, v.NorthDim)
		if err != nil {
			return nil, err
		}
		w.uint("scale", code, 2)
		l.position(w, v.Lon, v.Lat, v.Precision)
		w.uint("east_dim", scaled(v.EastDim, scaleFactors[code]), 8)
		w.uint("north_dim", scaled(v.NorthDim, scaleFactors[code]), 8)
		l.bearing(w, "orientation", v.Orientation)
		w.spare(l.rectSpare)
	case Sector:
		code, err := chooseScale("radius", 12, v.Radius)
		if err != nil {
			return nil, err
		}
		w.uint("scale", code, 2)
		l.position(w, v.Lon, v.Lat, v.Precision)
		w.uint("radius", scaled(v.Radius, scaleFactors[code]), 12)
		l.bearing(w, "left_bound", v.LeftBound)
		l.bearing(w, "right_bound", v.RightBound)
		w.spare(l.sectorSpare)
	case Polyline:
		l.points(w, v.Points)
	case Polygon:
		l.points(w, v.Points)
	case FreeText:
		w.text("text", v.Text, l.textChars*6)
		w.spare(l.textSpare)
	default:
		return nil, fmt.Errorf("sub-area type %T: %w", sa, ErrEncoding)
	}
	if w.err != nil {
		return nil, w.err
	}
	if w.b.Len() != l.bits {
		panic(fmt.Sprintf("%v encoded to %d bits, expected %d", sa.Shape(), w.b.Len(), l.bits))
	}
	return w, nil
}

func (l subLayout) bearing(w *writer, name string, deg int) {
	if deg < 0 || deg > 359 {
		w.fail(fmt.Errorf("%s %d outside 0..359: %w", name, deg, ErrEncoding))
		return
	}
	w.uint(name, deg, 9)
}

// polyTerminator marks an unused poly point slot.
const polyTerminator = 720

func (l subLayout) points(w *writer, pts []PolyPoint) {
	if len(pts) == 0 || len(pts) > 4 {
		w.fail(fmt.Errorf("%d poly points, expected 1..4: %w", len(pts), ErrEncoding))
		return
	}
	dists := make([]int, len(pts))
	for i, p := range pts {
		dists[i] = p.Distance
	}
	code, err := chooseScale("poly distance", l.polyDist, dists...)
	if err != nil {
		w.fail(err)
		return
	}
	w.uint("scale", code, 2)
	for i := 0; i < 4; i++ {
		if i >= len(pts) {
			w.uint("angle", polyTerminator, 10)
			w.uint("distance", 0, l.polyDist)
			continue
		}
		a := int(math.Round(pts[i].Angle * 2))
		if a < 0 || a >= polyTerminator {
			w.fail(fmt.Errorf("poly angle %g outside 0..359.5: %w", pts[i].Angle, ErrEncoding))
			return
		}
		w.uint("angle", a, 10)
		w.uint("distance", scaled(pts[i].Distance, scaleFactors[code]), l.polyDist)
	}
	w.spare(l.polySpare)
}

// decode reads one sub-area. Reserved shapes return a nil SubArea and the
// shape code.
func (l subLayout) decode(r *reader) (SubArea, Shape) {
	start := r.off
	shape := Shape(r.uint(3))
	var sa SubArea
	switch shape {
	case ShapeCircle:
		f := scaleFactors[r.uint(2)]
		c := Circle{}
		c.Lon, c.Lat, c.Precision = l.readPosition(r)
		c.Radius = r.uint(12) * f
		sa = c
	case ShapeRectangle:
		f := scaleFactors[r.uint(2)]
		c := Rectangle{}
		c.Lon, c.Lat, c.Precision = l.readPosition(r)
		c.EastDim = r.uint(8) * f
		c.NorthDim = r.uint(8) * f
		c.Orientation = r.uint(9)
		sa = c
	case ShapeSector:
		f := scaleFactors[r.uint(2)]
		c := Sector{}
		c.Lon, c.Lat, c.Precision = l.readPosition(r)
		c.Radius = r.uint(12) * f
		c.LeftBound = r.uint(9)
		c.RightBound = r.uint(9)
		sa = c
	case ShapePolyline:
		sa = Polyline{Points: l.readPoints(r)}
	case ShapePolygon:
		sa = Polygon{Points: l.readPoints(r)}
	case ShapeText:
		sa = FreeText{Text: r.text(l.textChars * 6)}
	}
	// the remainder of the record is spare
	if r.err == nil {
		r.skip(l.bits - (r.off - start))
	}
	return sa, shape
}

func (l subLayout) readPosition(r *reader) (float64, float64, int) {
	lon := r.coord(l.lonBits, l.coordScale)
	lat := r.coord(l.latBits, l.coordScale)
	return lon, lat, r.uint(3)
}

func (l subLayout) readPoints(r *reader) []PolyPoint {
	f := scaleFactors[r.uint(2)]
	var pts []PolyPoint
	done := false
	for i := 0; i < 4; i++ {
		a := r.uint(10)
		d := r.uint(l.polyDist)
		if r.err != nil {
			return nil
		}
		if a == polyTerminator {
			done = true
			continue
		}
		if a > polyTerminator {
			r.fail(fmt.Errorf("poly angle %d: %w", a, ErrFormat))
			return nil
		}
		if !done {
			pts = append(pts, PolyPoint{Angle: float64(a) / 2, Distance: d * f})
		}
	}
	if len(pts) == 0 {
		r.fail(fmt.Errorf("poly without points: %w", ErrFormat))
		return nil
	}
	return pts
}
