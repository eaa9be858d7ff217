package decoders

import (
	"fmt"

	"github.com/madpsy/aisasm/bitbuf"
)

// ----------------------------------------------------------------------------
// Register this decoder for MessageID=8, DAC=1, FI=31
// ----------------------------------------------------------------------------

func init() {
	RegisterDecoder(8, 1, 31, decode_8_1_31)
}

// https://www.e-navigation.nl/content/meteorological-and-hydrographic-data

// MetHydroBits is the payload length after the envelope.
const MetHydroBits = 304

// Fields that differ from the sensor report encoding.
var (
	fMHWind         = field{width: 7, max: 126, na: 127}
	fMHHumidity     = field{width: 7, max: 100, na: 101}
	fMHVisibility   = field{width: 7, max: 126, na: 127, scale: 10}
	fMHWaterLevel   = field{width: 12, max: 4000, na: 4001, scale: 100, offset: -10}
	fMHCurrent      = field{width: 8, max: 250, na: 251, scale: 10}
	fMHCurrentLevel = field{width: 5, max: 30, na: 31}
	fMHWaterTemp    = field{width: 10, signed: true, min: -100, max: 500, na: 501, scale: 10}
)

// MetHydro is IMO Circ. 289 Meteorological and Hydrographic data.
// Wind in knots, temperatures in °C, pressure in hPa, visibility in NM,
// levels and heights in metres, currents in knots.
type MetHydro struct {
	Envelope
	Lon               float64      `json:"lon"`
	Lat               float64      `json:"lat"`
	PosAccuracy       bool         `json:"pos_accuracy"`
	Day               int          `json:"day"`
	Hour              int          `json:"hour"`
	Minute            int          `json:"minute"`
	WindSpeed         Opt[int]     `json:"wind_speed"`
	WindGust          Opt[int]     `json:"wind_gust"`
	WindDir           Opt[int]     `json:"wind_dir"`
	WindGustDir       Opt[int]     `json:"wind_gust_dir"`
	AirTemp           Opt[float64] `json:"air_temp"`
	Humidity          Opt[int]     `json:"humidity"`
	DewPoint          Opt[float64] `json:"dew_point"`
	Pressure          Opt[int]     `json:"pressure"`
	PressureTrend     int          `json:"pressure_trend"`
	VisibilityGreater bool         `json:"visibility_greater"`
	Visibility        Opt[float64] `json:"visibility"`
	WaterLevel        Opt[float64] `json:"water_level"`
	WaterLevelTrend   int          `json:"water_level_trend"`
	SurfCurrentSpeed  Opt[float64] `json:"surface_current_speed"`
	SurfCurrentDir    Opt[int]     `json:"surface_current_dir"`
	Current2Speed     Opt[float64] `json:"current2_speed"`
	Current2Dir       Opt[int]     `json:"current2_dir"`
	Current2Level     Opt[int]     `json:"current2_level"`
	Current3Speed     Opt[float64] `json:"current3_speed"`
	Current3Dir       Opt[int]     `json:"current3_dir"`
	Current3Level     Opt[int]     `json:"current3_level"`
	WaveHeight        Opt[float64] `json:"wave_height"`
	WavePeriod        Opt[int]     `json:"wave_period"`
	WaveDir           Opt[int]     `json:"wave_dir"`
	SwellHeight       Opt[float64] `json:"swell_height"`
	SwellPeriod       Opt[int]     `json:"swell_period"`
	SwellDir          Opt[int]     `json:"swell_dir"`
	SeaState          Opt[int]     `json:"sea_state"`
	WaterTemp         Opt[float64] `json:"water_temp"`
	Precipitation     int          `json:"precipitation"`
	Salinity          Opt[float64] `json:"salinity"`
	Ice               int          `json:"ice"`
}

// NewMetHydro returns a record with every field "not available".
func NewMetHydro(source uint32) *MetHydro {
	return &MetHydro{
		Envelope:        Envelope{MessageID: MessageBinaryBroadcast, SourceID: source, DAC: 1, FI: 31},
		Lon:             LonNotAvailable,
		Lat:             LatNotAvailable,
		Day:             DayNotAvailable,
		Hour:            HourNotAvailable,
		Minute:          MinuteNotAvailable,
		PressureTrend:   3,
		WaterLevelTrend: 3,
		Precipitation:   7,
		Ice:             3,
	}
}

// Equal compares two records with a 1e-3 tolerance on floating point
// fields.
func (m *MetHydro) Equal(o *MetHydro) bool {
	return ApproxEqual(m, o)
}

// Encode returns the full message bits.
func (m *MetHydro) Encode() (*bitbuf.Buffer, error) {
	env := m.Envelope
	env.MessageID = MessageBinaryBroadcast
	env.DAC, env.FI = 1, 31
	w := newWriter()
	env.encode(w)

	w.coord("lon", m.Lon, 180, 25, 60000)
	w.coord("lat", m.Lat, 90, 24, 60000)
	w.bool(m.PosAccuracy)
	w.timeTag("", m.Day, m.Hour, m.Minute)

	w.optInt("wind_speed", fMHWind, m.WindSpeed)
	w.optInt("wind_gust", fMHWind, m.WindGust)
	w.optInt("wind_dir", fDirection, m.WindDir)
	w.optInt("wind_gust_dir", fDirection, m.WindGustDir)

	w.optFloat("air_temp", fAirTemp, m.AirTemp)
	w.optInt("humidity", fMHHumidity, m.Humidity)
	w.optFloat("dew_point", fDewPoint, m.DewPoint)
	w.optInt("pressure", fAirPressure, m.Pressure)
	w.uint("pressure_trend", m.PressureTrend, 2)
	w.bool(m.VisibilityGreater)
	w.optFloat("visibility", fMHVisibility, m.Visibility)

	w.optFloat("water_level", fMHWaterLevel, m.WaterLevel)
	w.uint("water_level_trend", m.WaterLevelTrend, 2)

	w.optFloat("surface_current_speed", fMHCurrent, m.SurfCurrentSpeed)
	w.optInt("surface_current_dir", fDirection, m.SurfCurrentDir)
	w.optFloat("current2_speed", fMHCurrent, m.Current2Speed)
	w.optInt("current2_dir", fDirection, m.Current2Dir)
	w.optInt("current2_level", fMHCurrentLevel, m.Current2Level)
	w.optFloat("current3_speed", fMHCurrent, m.Current3Speed)
	w.optInt("current3_dir", fDirection, m.Current3Dir)
	w.optInt("current3_level", fMHCurrentLevel, m.Current3Level)

	w.optFloat("wave_height", fWaveHeight, m.WaveHeight)
	w.optInt("wave_period", fPeriod, m.WavePeriod)
	w.optInt("wave_dir", fDirection, m.WaveDir)
	w.optFloat("swell_height", fWaveHeight, m.SwellHeight)
	w.optInt("swell_period", fPeriod, m.SwellPeriod)
	w.optInt("swell_dir", fDirection, m.SwellDir)

	w.optInt("sea_state", fBeaufort, m.SeaState)
	w.optFloat("water_temp", fMHWaterTemp, m.WaterTemp)
	w.uint("precipitation", m.Precipitation, 3)
	w.optFloat("salinity", fSalinity, m.Salinity)
	w.uint("ice", m.Ice, 2)
	w.spare(10)

	if w.err != nil {
		return nil, fmt.Errorf("met/hydro: %w", w.err)
	}
	if n := w.b.Len() - EnvelopeBits; n != MetHydroBits {
		panic(fmt.Sprintf("met/hydro encoded to %d bits", n))
	}
	return finish(w)
}

func decode_8_1_31(_ *Decoder, env Envelope, payload *bitbuf.Buffer) (Message, error) {
	if payload.Len() < MetHydroBits {
		return nil, fmt.Errorf("decode_8_1_31: %d bits, expected %d: %w", payload.Len(), MetHydroBits, ErrFormat)
	}
	m := &MetHydro{Envelope: env}
	r := newReader(payload)

	m.Lon = r.coord(25, 60000)
	m.Lat = r.coord(24, 60000)
	m.PosAccuracy = r.bool()
	m.Day, m.Hour, m.Minute = r.timeTag()

	m.WindSpeed = r.optInt(fMHWind)
	m.WindGust = r.optInt(fMHWind)
	m.WindDir = r.optInt(fDirection)
	m.WindGustDir = r.optInt(fDirection)

	m.AirTemp = r.optFloat(fAirTemp)
	m.Humidity = r.optInt(fMHHumidity)
	m.DewPoint = r.optFloat(fDewPoint)
	m.Pressure = r.optInt(fAirPressure)
	m.PressureTrend = r.uint(2)
	m.VisibilityGreater = r.bool()
	m.Visibility = r.optFloat(fMHVisibility)

	m.WaterLevel = r.optFloat(fMHWaterLevel)
	m.WaterLevelTrend = r.uint(2)

	m.SurfCurrentSpeed = r.optFloat(fMHCurrent)
	m.SurfCurrentDir = r.optInt(fDirection)
	m.Current2Speed = r.optFloat(fMHCurrent)
	m.Current2Dir = r.optInt(fDirection)
	m.Current2Level = r.optInt(fMHCurrentLevel)
	m.Current3Speed = r.optFloat(fMHCurrent)
	m.Current3Dir = r.optInt(fDirection)
	m.Current3Level = r.optInt(fMHCurrentLevel)

	m.WaveHeight = r.optFloat(fWaveHeight)
	m.WavePeriod = r.optInt(fPeriod)
	m.WaveDir = r.optInt(fDirection)
	m.SwellHeight = r.optFloat(fWaveHeight)
	m.SwellPeriod = r.optInt(fPeriod)
	m.SwellDir = r.optInt(fDirection)

	m.SeaState = r.optInt(fBeaufort)
	m.WaterTemp = r.optFloat(fMHWaterTemp)
	m.Precipitation = r.uint(3)
	m.Salinity = r.optFloat(fSalinity)
	m.Ice = r.uint(2)
	r.skip(10)

	if err := residual("decode_8_1_31", r); err != nil {
		return nil, err
	}
	return m, nil
}
