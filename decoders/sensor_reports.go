package decoders

// Site location positions use 1/10000 minute.
const sensorCoordScale = 600000

// Not available positions.
const (
	LonNotAvailable = 181
	LatNotAvailable = 91
)

// SiteLocation (type 0) gives the position of a sensor site.
type SiteLocation struct {
	SensorHeader
	Lon      float64      `json:"lon"`
	Lat      float64      `json:"lat"`
	Altitude Opt[float64] `json:"altitude"`
	Owner    int          `json:"owner"`
	Timeout  int          `json:"timeout"`
}

func (*SiteLocation) ReportType() int { return ReportSiteLocation }

func (s *SiteLocation) encodeBody(w *writer) {
	w.coord("lon", s.Lon, 180, 28, sensorCoordScale)
	w.coord("lat", s.Lat, 90, 27, sensorCoordScale)
	w.optFloat("altitude", fAltitude, s.Altitude)
	w.uint("owner", s.Owner, 4)
	w.uint("timeout", s.Timeout, 3)
	w.spare(12)
}

func (s *SiteLocation) decodeBody(r *reader) {
	s.Lon = r.coord(28, sensorCoordScale)
	s.Lat = r.coord(27, sensorCoordScale)
	s.Altitude = r.optFloat(fAltitude)
	s.Owner = r.uint(4)
	s.Timeout = r.uint(3)
	r.skip(12)
}

// StationID (type 1) names a sensor site.
type StationID struct {
	SensorHeader
	Name string `json:"name"`
}

func (*StationID) ReportType() int { return ReportStationID }

func (s *StationID) encodeBody(w *writer) {
	w.text("name", s.Name, 84)
	w.spare(1)
}

func (s *StationID) decodeBody(r *reader) {
	s.Name = r.text(84)
	r.skip(1)
}

// Wind (type 2) carries present and forecast wind, in knots and degrees.
type Wind struct {
	SensorHeader
	Speed          Opt[int] `json:"speed"`
	Gust           Opt[int] `json:"gust"`
	Dir            Opt[int] `json:"dir"`
	GustDir        Opt[int] `json:"gust_dir"`
	DataDescr      int      `json:"data_descr"`
	ForecastSpeed  Opt[int] `json:"forecast_speed"`
	ForecastGust   Opt[int] `json:"forecast_gust"`
	ForecastDir    Opt[int] `json:"forecast_dir"`
	ForecastDay    int      `json:"forecast_day"`
	ForecastHour   int      `json:"forecast_hour"`
	ForecastMinute int      `json:"forecast_minute"`
	Duration       Opt[int] `json:"duration"`
}

func (*Wind) ReportType() int { return ReportWind }

func (s *Wind) encodeBody(w *writer) {
	w.optInt("speed", fWindKnots, s.Speed)
	w.optInt("gust", fWindKnots, s.Gust)
	w.optInt("dir", fDirection, s.Dir)
	w.optInt("gust_dir", fDirection, s.GustDir)
	w.uint("data_descr", s.DataDescr, 3)
	w.optInt("forecast_speed", fWindKnots, s.ForecastSpeed)
	w.optInt("forecast_gust", fWindKnots, s.ForecastGust)
	w.optInt("forecast_dir", fDirection, s.ForecastDir)
	w.timeTag("forecast_", s.ForecastDay, s.ForecastHour, s.ForecastMinute)
	w.optInt("duration", fDurationMin, s.Duration)
	w.spare(3)
}

func (s *Wind) decodeBody(r *reader) {
	s.Speed = r.optInt(fWindKnots)
	s.Gust = r.optInt(fWindKnots)
	s.Dir = r.optInt(fDirection)
	s.GustDir = r.optInt(fDirection)
	s.DataDescr = r.uint(3)
	s.ForecastSpeed = r.optInt(fWindKnots)
	s.ForecastGust = r.optInt(fWindKnots)
	s.ForecastDir = r.optInt(fDirection)
	s.ForecastDay, s.ForecastHour, s.ForecastMinute = r.timeTag()
	s.Duration = r.optInt(fDurationMin)
	r.skip(3)
}

// WaterLevel (type 3) carries a level in metres relative to Datum.
type WaterLevel struct {
	SensorHeader
	Type           int          `json:"type"`
	Level          Opt[float64] `json:"level"`
	Trend          int          `json:"trend"`
	Datum          int          `json:"datum"`
	DataDescr      int          `json:"data_descr"`
	ForecastType   int          `json:"forecast_type"`
	ForecastLevel  Opt[float64] `json:"forecast_level"`
	ForecastDay    int          `json:"forecast_day"`
	ForecastHour   int          `json:"forecast_hour"`
	ForecastMinute int          `json:"forecast_minute"`
	Duration       Opt[int]     `json:"duration"`
}

func (*WaterLevel) ReportType() int { return ReportWaterLevel }

func (s *WaterLevel) encodeBody(w *writer) {
	w.uint("type", s.Type, 1)
	w.optFloat("level", fLevel, s.Level)
	w.uint("trend", s.Trend, 2)
	w.uint("datum", s.Datum, 5)
	w.uint("data_descr", s.DataDescr, 3)
	w.uint("forecast_type", s.ForecastType, 1)
	w.optFloat("forecast_level", fLevel, s.ForecastLevel)
	w.timeTag("forecast_", s.ForecastDay, s.ForecastHour, s.ForecastMinute)
	w.optInt("duration", fDurationMin, s.Duration)
	w.spare(17)
}

func (s *WaterLevel) decodeBody(r *reader) {
	s.Type = r.uint(1)
	s.Level = r.optFloat(fLevel)
	s.Trend = r.uint(2)
	s.Datum = r.uint(5)
	s.DataDescr = r.uint(3)
	s.ForecastType = r.uint(1)
	s.ForecastLevel = r.optFloat(fLevel)
	s.ForecastDay, s.ForecastHour, s.ForecastMinute = r.timeTag()
	s.Duration = r.optInt(fDurationMin)
	r.skip(17)
}

// CurrentLayer is one depth of a 2D current profile.
type CurrentLayer struct {
	Speed Opt[float64] `json:"speed"`
	Dir   Opt[int]     `json:"dir"`
	Depth Opt[int]     `json:"depth"`
}

// Current2D (type 4) carries three current layers.
type Current2D struct {
	SensorHeader
	Layers    [3]CurrentLayer `json:"layers"`
	DataDescr int             `json:"data_descr"`
}

func (*Current2D) ReportType() int { return ReportCurrent2D }

func (s *Current2D) encodeBody(w *writer) {
	for _, l := range s.Layers {
		w.optFloat("speed", fCurrentSpeed, l.Speed)
		w.optInt("dir", fDirection, l.Dir)
		w.optInt("depth", fDepth, l.Depth)
	}
	w.uint("data_descr", s.DataDescr, 3)
	w.spare(4)
}

func (s *Current2D) decodeBody(r *reader) {
	for i := range s.Layers {
		s.Layers[i].Speed = r.optFloat(fCurrentSpeed)
		s.Layers[i].Dir = r.optInt(fDirection)
		s.Layers[i].Depth = r.optInt(fDepth)
	}
	s.DataDescr = r.uint(3)
	r.skip(4)
}

// Current3DLayer holds velocity components in knots at one depth.
type Current3DLayer struct {
	North Opt[float64] `json:"north"`
	East  Opt[float64] `json:"east"`
	Up    Opt[float64] `json:"up"`
	Depth Opt[int]     `json:"depth"`
}

// Current3D (type 5) carries two 3D current layers.
type Current3D struct {
	SensorHeader
	Layers    [2]Current3DLayer `json:"layers"`
	DataDescr int               `json:"data_descr"`
}

func (*Current3D) ReportType() int { return ReportCurrent3D }

func (s *Current3D) encodeBody(w *writer) {
	for _, l := range s.Layers {
		w.optFloat("north", fCurrentSpeed, l.North)
		w.optFloat("east", fCurrentSpeed, l.East)
		w.optFloat("up", fCurrentSpeed, l.Up)
		w.optInt("depth", fDepth, l.Depth)
	}
	w.uint("data_descr", s.DataDescr, 3)
	w.spare(16)
}

func (s *Current3D) decodeBody(r *reader) {
	for i := range s.Layers {
		s.Layers[i].North = r.optFloat(fCurrentSpeed)
		s.Layers[i].East = r.optFloat(fCurrentSpeed)
		s.Layers[i].Up = r.optFloat(fCurrentSpeed)
		s.Layers[i].Depth = r.optInt(fDepth)
	}
	s.DataDescr = r.uint(3)
	r.skip(16)
}

// HorizontalReading is a current measured at a bearing and distance from
// the site.
type HorizontalReading struct {
	Bearing  Opt[int]     `json:"bearing"`
	Distance Opt[int]     `json:"distance"`
	Speed    Opt[float64] `json:"speed"`
	Dir      Opt[int]     `json:"dir"`
	Depth    Opt[int]     `json:"depth"`
}

// HorizontalCurrent (type 6) carries two horizontal current readings.
type HorizontalCurrent struct {
	SensorHeader
	Readings [2]HorizontalReading `json:"readings"`
}

func (*HorizontalCurrent) ReportType() int { return ReportHorizontalCurrent }

func (s *HorizontalCurrent) encodeBody(w *writer) {
	for _, m := range s.Readings {
		w.optInt("bearing", fDirection, m.Bearing)
		w.optInt("distance", fCurrentRange, m.Distance)
		w.optFloat("speed", fCurrentSpeed, m.Speed)
		w.optInt("dir", fDirection, m.Dir)
		w.optInt("depth", fDepth, m.Depth)
	}
	w.spare(1)
}

func (s *HorizontalCurrent) decodeBody(r *reader) {
	for i := range s.Readings {
		s.Readings[i].Bearing = r.optInt(fDirection)
		s.Readings[i].Distance = r.optInt(fCurrentRange)
		s.Readings[i].Speed = r.optFloat(fCurrentSpeed)
		s.Readings[i].Dir = r.optInt(fDirection)
		s.Readings[i].Depth = r.optInt(fDepth)
	}
	r.skip(1)
}

// SeaState (type 7) carries swell, water temperature, waves and salinity.
type SeaState struct {
	SensorHeader
	SwellHeight    Opt[float64] `json:"swell_height"`
	SwellPeriod    Opt[int]     `json:"swell_period"`
	SwellDir       Opt[int]     `json:"swell_dir"`
	Beaufort       Opt[int]     `json:"beaufort"`
	SwellDataDescr int          `json:"swell_data_descr"`
	WaterTemp      Opt[float64] `json:"water_temp"`
	TempDepth      Opt[float64] `json:"temp_depth"`
	TempDataDescr  int          `json:"temp_data_descr"`
	WaveHeight     Opt[float64] `json:"wave_height"`
	WavePeriod     Opt[int]     `json:"wave_period"`
	WaveDir        Opt[int]     `json:"wave_dir"`
	WaveDataDescr  int          `json:"wave_data_descr"`
	Salinity       Opt[float64] `json:"salinity"`
}

func (*SeaState) ReportType() int { return ReportSeaState }

func (s *SeaState) encodeBody(w *writer) {
	w.optFloat("swell_height", fWaveHeight, s.SwellHeight)
	w.optInt("swell_period", fPeriod, s.SwellPeriod)
	w.optInt("swell_dir", fDirection, s.SwellDir)
	w.optInt("beaufort", fBeaufort, s.Beaufort)
	w.uint("swell_data_descr", s.SwellDataDescr, 3)
	w.optFloat("water_temp", fWaterTemp, s.WaterTemp)
	w.optFloat("temp_depth", fTempDepth, s.TempDepth)
	w.uint("temp_data_descr", s.TempDataDescr, 3)
	w.optFloat("wave_height", fWaveHeight, s.WaveHeight)
	w.optInt("wave_period", fPeriod, s.WavePeriod)
	w.optInt("wave_dir", fDirection, s.WaveDir)
	w.uint("wave_data_descr", s.WaveDataDescr, 3)
	w.optFloat("salinity", fSalinity, s.Salinity)
}

func (s *SeaState) decodeBody(r *reader) {
	s.SwellHeight = r.optFloat(fWaveHeight)
	s.SwellPeriod = r.optInt(fPeriod)
	s.SwellDir = r.optInt(fDirection)
	s.Beaufort = r.optInt(fBeaufort)
	s.SwellDataDescr = r.uint(3)
	s.WaterTemp = r.optFloat(fWaterTemp)
	s.TempDepth = r.optFloat(fTempDepth)
	s.TempDataDescr = r.uint(3)
	s.WaveHeight = r.optFloat(fWaveHeight)
	s.WavePeriod = r.optInt(fPeriod)
	s.WaveDir = r.optInt(fDirection)
	s.WaveDataDescr = r.uint(3)
	s.Salinity = r.optFloat(fSalinity)
}

// Salinity (type 8) carries water temperature, conductivity, pressure and
// salinity.
type Salinity struct {
	SensorHeader
	WaterTemp    Opt[float64] `json:"water_temp"`
	Conductivity Opt[float64] `json:"conductivity"`
	Pressure     Opt[float64] `json:"pressure"`
	Salinity     Opt[float64] `json:"salinity"`
	SalinityType int          `json:"salinity_type"`
	DataDescr    int          `json:"data_descr"`
}

func (*Salinity) ReportType() int { return ReportSalinity }

func (s *Salinity) encodeBody(w *writer) {
	w.optFloat("water_temp", fWaterTemp, s.WaterTemp)
	w.optFloat("conductivity", fConductivity, s.Conductivity)
	w.optFloat("pressure", fSeaPressure, s.Pressure)
	w.optFloat("salinity", fSalinity, s.Salinity)
	w.uint("salinity_type", s.SalinityType, 2)
	w.uint("data_descr", s.DataDescr, 3)
	w.spare(35)
}

func (s *Salinity) decodeBody(r *reader) {
	s.WaterTemp = r.optFloat(fWaterTemp)
	s.Conductivity = r.optFloat(fConductivity)
	s.Pressure = r.optFloat(fSeaPressure)
	s.Salinity = r.optFloat(fSalinity)
	s.SalinityType = r.uint(2)
	s.DataDescr = r.uint(3)
	r.skip(35)
}

// Weather (type 9) carries air temperature, precipitation, visibility,
// dew point and pressure.
type Weather struct {
	SensorHeader
	AirTemp           Opt[float64] `json:"air_temp"`
	AirTempDataDescr  int          `json:"air_temp_data_descr"`
	Precipitation     int          `json:"precipitation"`
	Visibility        Opt[float64] `json:"visibility"`
	DewPoint          Opt[float64] `json:"dew_point"`
	DewPointDataDescr int          `json:"dew_point_data_descr"`
	Pressure          Opt[int]     `json:"pressure"`
	PressureTrend     int          `json:"pressure_trend"`
	PressureDataDescr int          `json:"pressure_data_descr"`
	Salinity          Opt[float64] `json:"salinity"`
}

func (*Weather) ReportType() int { return ReportWeather }

func (s *Weather) encodeBody(w *writer) {
	w.optFloat("air_temp", fAirTemp, s.AirTemp)
	w.uint("air_temp_data_descr", s.AirTempDataDescr, 3)
	w.uint("precipitation", s.Precipitation, 2)
	w.optFloat("visibility", fVisibility, s.Visibility)
	w.optFloat("dew_point", fDewPoint, s.DewPoint)
	w.uint("dew_point_data_descr", s.DewPointDataDescr, 3)
	w.optInt("pressure", fAirPressure, s.Pressure)
	w.uint("pressure_trend", s.PressureTrend, 2)
	w.uint("pressure_data_descr", s.PressureDataDescr, 3)
	w.optFloat("salinity", fSalinity, s.Salinity)
	w.spare(25)
}

func (s *Weather) decodeBody(r *reader) {
	s.AirTemp = r.optFloat(fAirTemp)
	s.AirTempDataDescr = r.uint(3)
	s.Precipitation = r.uint(2)
	s.Visibility = r.optFloat(fVisibility)
	s.DewPoint = r.optFloat(fDewPoint)
	s.DewPointDataDescr = r.uint(3)
	s.Pressure = r.optInt(fAirPressure)
	s.PressureTrend = r.uint(2)
	s.PressureDataDescr = r.uint(3)
	s.Salinity = r.optFloat(fSalinity)
	r.skip(25)
}

// AirGap (type 10) carries air draft and air gap under a bridge, in metres.
type AirGap struct {
	SensorHeader
	AirDraft       Opt[float64] `json:"air_draft"`
	AirGap         Opt[float64] `json:"air_gap"`
	Trend          int          `json:"trend"`
	ForecastGap    Opt[float64] `json:"forecast_gap"`
	ForecastDay    int          `json:"forecast_day"`
	ForecastHour   int          `json:"forecast_hour"`
	ForecastMinute int          `json:"forecast_minute"`
}

func (*AirGap) ReportType() int { return ReportAirGap }

func (s *AirGap) encodeBody(w *writer) {
	w.optFloat("air_draft", fAirGap, s.AirDraft)
	w.optFloat("air_gap", fAirGap, s.AirGap)
	w.uint("trend", s.Trend, 2)
	w.optFloat("forecast_gap", fAirGap, s.ForecastGap)
	w.timeTag("forecast_", s.ForecastDay, s.ForecastHour, s.ForecastMinute)
	w.spare(28)
}

func (s *AirGap) decodeBody(r *reader) {
	s.AirDraft = r.optFloat(fAirGap)
	s.AirGap = r.optFloat(fAirGap)
	s.Trend = r.uint(2)
	s.ForecastGap = r.optFloat(fAirGap)
	s.ForecastDay, s.ForecastHour, s.ForecastMinute = r.timeTag()
	r.skip(28)
}
