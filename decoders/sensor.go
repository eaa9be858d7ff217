package decoders

import (
	"encoding/json"
	"fmt"

	"github.com/madpsy/aisasm/bitbuf"
)

// SensorReportBits is the fixed size of every environmental sensor report.
const SensorReportBits = 112

// Sensor report types.
const (
	ReportSiteLocation = iota
	ReportStationID
	ReportWind
	ReportWaterLevel
	ReportCurrent2D
	ReportCurrent3D
	ReportHorizontalCurrent
	ReportSeaState
	ReportSalinity
	ReportWeather
	ReportAirGap
)

// Wire fields shared by the sensor reports.
var (
	fWindKnots    = field{width: 7, max: 121, na: 122}
	fDirection    = field{width: 9, max: 359, na: 360}
	fDurationMin  = field{width: 8, max: 254, na: 255}
	fLevel        = field{width: 16, signed: true, min: -32767, max: 32767, na: -32768, scale: 100}
	fCurrentSpeed = field{width: 8, max: 246, na: 247, scale: 10}
	fDepth        = field{width: 9, max: 360, na: 361}
	fCurrentRange = field{width: 7, max: 121, na: 122}
	fWaveHeight   = field{width: 8, max: 250, na: 251, scale: 10}
	fPeriod       = field{width: 6, max: 60, na: 61}
	fBeaufort     = field{width: 4, max: 12, na: 13}
	fWaterTemp    = field{width: 10, max: 600, na: 601, scale: 10, offset: -10}
	fTempDepth    = field{width: 7, max: 120, na: 121, scale: 10}
	fSalinity     = field{width: 9, max: 500, na: 501, scale: 10}
	fConductivity = field{width: 10, max: 700, na: 701, scale: 100}
	fSeaPressure  = field{width: 16, max: 60000, na: 60001, scale: 10}
	fAirTemp      = field{width: 11, signed: true, min: -600, max: 600, na: -1024, scale: 10}
	fVisibility   = field{width: 8, max: 250, na: 251, scale: 10}
	fDewPoint     = field{width: 10, signed: true, min: -200, max: 500, na: 501, scale: 10}
	fAirPressure  = field{width: 9, max: 510, na: 511, offset: 799}
	fAltitude     = field{width: 11, max: 2000, na: 2001, scale: 10}
	fAirGap       = field{width: 13, min: 1, max: 8191, na: 0, scale: 100}
)

// Time tag values meaning "not available".
const (
	DayNotAvailable    = 0
	HourNotAvailable   = 24
	MinuteNotAvailable = 60
)

// SensorHeader is the 27-bit header every sensor report starts with.
type SensorHeader struct {
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	SiteID int `json:"site_id"`
}

func (h *SensorHeader) head() *SensorHeader { return h }

// SensorReport is one 112-bit record of an Environmental Report.
type SensorReport interface {
	ReportType() int
	head() *SensorHeader
	encodeBody(w *writer)
	decodeBody(r *reader)
}

// newSensorReport returns an empty report of type t with every sentinel
// field unset.
func newSensorReport(t int) (SensorReport, error) {
	switch t {
	case ReportSiteLocation:
		return &SiteLocation{}, nil
	case ReportStationID:
		return &StationID{}, nil
	case ReportWind:
		return &Wind{}, nil
	case ReportWaterLevel:
		return &WaterLevel{}, nil
	case ReportCurrent2D:
		return &Current2D{}, nil
	case ReportCurrent3D:
		return &Current3D{}, nil
	case ReportHorizontalCurrent:
		return &HorizontalCurrent{}, nil
	case ReportSeaState:
		return &SeaState{}, nil
	case ReportSalinity:
		return &Salinity{}, nil
	case ReportWeather:
		return &Weather{}, nil
	case ReportAirGap:
		return &AirGap{}, nil
	}
	return nil, fmt.Errorf("sensor report type %d: %w", t, ErrFormat)
}

func (w *writer) timeTag(prefix string, day, hour, minute int) {
	if day < 0 || day > 31 || hour < 0 || hour > 24 || minute < 0 || minute > 60 {
		w.fail(fmt.Errorf("%s time %d %02d:%02d out of range: %w", prefix, day, hour, minute, ErrEncoding))
		return
	}
	w.uint(prefix+"day", day, 5)
	w.uint(prefix+"hour", hour, 5)
	w.uint(prefix+"minute", minute, 6)
}

func (r *reader) timeTag() (int, int, int) {
	return r.uint(5), r.uint(5), r.uint(6)
}

// EncodeSensorReport returns the 112 bits of one report.
func EncodeSensorReport(rep SensorReport) (*bitbuf.Buffer, error) {
	h := rep.head()
	w := newWriter()
	w.uint("report_type", rep.ReportType(), 4)
	w.timeTag("", h.Day, h.Hour, h.Minute)
	w.uint("site_id", h.SiteID, 7)
	rep.encodeBody(w)
	if w.err != nil {
		return nil, fmt.Errorf("%s report: %w", lookup(SensorReportTypes, rep.ReportType()), w.err)
	}
	if w.b.Len() != SensorReportBits {
		panic(fmt.Sprintf("sensor report %d encoded to %d bits", rep.ReportType(), w.b.Len()))
	}
	return w.b, nil
}

// DecodeSensorReport reads one 112-bit report.
func DecodeSensorReport(b *bitbuf.Buffer) (SensorReport, error) {
	if b.Len() != SensorReportBits {
		return nil, fmt.Errorf("sensor report of %d bits: %w", b.Len(), ErrFormat)
	}
	r := newReader(b)
	rep, err := newSensorReport(r.uint(4))
	if err != nil {
		return nil, err
	}
	h := rep.head()
	h.Day, h.Hour, h.Minute = r.timeTag()
	h.SiteID = r.uint(7)
	rep.decodeBody(r)
	if r.err != nil {
		return nil, fmt.Errorf("%s report: %w", lookup(SensorReportTypes, rep.ReportType()), r.err)
	}
	return rep, nil
}

func marshalReport(rep SensorReport) (json.RawMessage, error) {
	b, err := json.Marshal(rep)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	m["report_type"], _ = json.Marshal(rep.ReportType())
	m["report_name"], _ = json.Marshal(lookup(SensorReportTypes, rep.ReportType()))
	return json.Marshal(m)
}

func unmarshalReport(b []byte) (SensorReport, error) {
	var tag struct {
		ReportType *int `json:"report_type"`
	}
	if err := json.Unmarshal(b, &tag); err != nil {
		return nil, err
	}
	if tag.ReportType == nil {
		return nil, fmt.Errorf("sensor report without report_type")
	}
	rep, err := newSensorReport(*tag.ReportType)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, rep); err != nil {
		return nil, err
	}
	return rep, nil
}
