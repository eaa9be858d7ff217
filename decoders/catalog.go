package decoders

import "encoding/json"

func marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func lookup(table []string, v int) string {
	if v < 0 || v >= len(table) || table[v] == "" {
		return "(reserved for future use)"
	}
	return table[v]
}

// AreaTypes is the IMO Circ. 289 area notice catalog, indexed by area_type.
var AreaTypes = [128]string{
	0:   "Caution Area: Marine mammals habitat (not observed)",
	1:   "Caution Area: Marine mammals in area - reduce speed",
	2:   "Caution Area: Marine mammals in area - stay clear",
	3:   "Caution Area: Marine mammals in area - report sightings",
	4:   "Caution Area: Protected habitat - reduce speed",
	5:   "Caution Area: Protected habitat - stay clear",
	6:   "Caution Area: Protected habitat - no fishing or anchoring",
	7:   "Caution Area: Derelicts (drifting objects)",
	8:   "Caution Area: Traffic congestion",
	9:   "Caution Area: Marine event",
	10:  "Caution Area: Divers down",
	11:  "Caution Area: Swim area",
	12:  "Caution Area: Dredge operations",
	13:  "Caution Area: Survey operations",
	14:  "Caution Area: Underwater operation",
	15:  "Caution Area: Seaplane operations",
	16:  "Caution Area: Fishery - nets in water",
	17:  "Caution Area: Cluster of fishing vessels",
	18:  "Caution Area: Fairway closed",
	19:  "Caution Area: Harbour closed",
	20:  "Caution Area: Risk (define in associated text field)",
	21:  "Caution Area: Underwater vehicle operation",
	22:  "(reserved for future use)",
	23:  "Environmental Caution Area: Storm front (line squall)",
	24:  "Environmental Caution Area: Hazardous sea ice",
	25:  "Environmental Caution Area: Storm warning (storm cell or line of storms)",
	26:  "Environmental Caution Area: High wind",
	27:  "Environmental Caution Area: High waves",
	28:  "Environmental Caution Area: Restricted visibility (fog, rain, etc.)",
	29:  "Environmental Caution Area: Strong currents",
	30:  "Environmental Caution Area: Heavy icing",
	31:  "(reserved for future use)",
	32:  "Restricted Area: Fishing prohibited",
	33:  "Restricted Area: No anchoring",
	34:  "Restricted Area: Entry approval required prior to transit",
	35:  "Restricted Area: Entry prohibited",
	36:  "Restricted Area: Active military OPAREA",
	37:  "Restricted Area: Firing - danger area",
	38:  "Restricted Area: Drifting Mines",
	39:  "(reserved for future use)",
	40:  "Anchorage Area: Anchorage open",
	41:  "Anchorage Area: Anchorage closed",
	42:  "Anchorage Area: Anchoring prohibited",
	43:  "Anchorage Area: Deep draft anchorage",
	44:  "Anchorage Area: Shallow draft anchorage",
	45:  "Anchorage Area: Vessel transfer operations",
	46:  "(reserved for future use)",
	47:  "(reserved for future use)",
	48:  "(reserved for future use)",
	49:  "(reserved for future use)",
	50:  "(reserved for future use)",
	51:  "(reserved for future use)",
	52:  "(reserved for future use)",
	53:  "(reserved for future use)",
	54:  "(reserved for future use)",
	55:  "(reserved for future use)",
	56:  "Security Alert - Level 1",
	57:  "Security Alert - Level 2",
	58:  "Security Alert - Level 3",
	59:  "(reserved for future use)",
	60:  "(reserved for future use)",
	61:  "(reserved for future use)",
	62:  "(reserved for future use)",
	63:  "(reserved for future use)",
	64:  "Distress Area: Vessel disabled and adrift",
	65:  "Distress Area: Vessel sinking",
	66:  "Distress Area: Vessel abandoning ship",
	67:  "Distress Area: Vessel requests medical assistance",
	68:  "Distress Area: Vessel flooding",
	69:  "Distress Area: Vessel fire/explosion",
	70:  "Distress Area: Vessel grounding",
	71:  "Distress Area: Vessel collision",
	72:  "Distress Area: Vessel listing/capsizing",
	73:  "Distress Area: Vessel under assault",
	74:  "Distress Area: Person overboard",
	75:  "Distress Area: SAR area",
	76:  "Distress Area: Pollution response area",
	77:  "(reserved for future use)",
	78:  "(reserved for future use)",
	79:  "(reserved for future use)",
	80:  "Instruction: Contact VTS at this point/juncture",
	81:  "Instruction: Contact Port Administration at this point/juncture",
	82:  "Instruction: Do not proceed beyond this point/juncture",
	83:  "Instruction: Await instructions prior to proceeding beyond this point/juncture",
	84:  "Proceed to this location - await instructions",
	85:  "Clearance granted - proceed to berth",
	86:  "(reserved for future use)",
	87:  "(reserved for future use)",
	88:  "Information: Pilot boarding position",
	89:  "Information: Icebreaker waiting area",
	90:  "Information: Places of refuge",
	91:  "Information: Position of icebreakers",
	92:  "Information: Location of response units",
	93:  "VTS active target",
	94:  "Rogue or suspicious vessel",
	95:  "Vessel requesting non-distress assistance",
	96:  "Chart Feature: Sunken vessel",
	97:  "Chart Feature: Submerged object",
	98:  "Chart Feature: Semi-submerged object",
	99:  "Chart Feature: Shoal area",
	100: "Chart Feature: Shoal area due north",
	101: "Chart Feature: Shoal area due east",
	102: "Chart Feature: Shoal area due south",
	103: "Chart Feature: Shoal area due west",
	104: "Chart Feature: Channel obstruction",
	105: "Chart Feature: Reduced vertical clearance",
	106: "Chart Feature: Bridge closed",
	107: "Chart Feature: Bridge partially open",
	108: "Chart Feature: Bridge fully open",
	109: "(reserved for future use)",
	110: "(reserved for future use)",
	111: "(reserved for future use)",
	112: "Report from ship: Icing info",
	113: "(reserved for future use)",
	114: "Report from ship: Miscellaneous information - define in associated text field",
	115: "(reserved for future use)",
	116: "(reserved for future use)",
	117: "(reserved for future use)",
	118: "(reserved for future use)",
	119: "(reserved for future use)",
	120: "Route: Recommended route",
	121: "Route: Alternative route",
	122: "Route: Recommended route through ice",
	123: "(reserved for future use)",
	124: "(reserved for future use)",
	125: "Other - Define in associated text field",
	126: "Cancellation - cancel area as identified by Message Linkage ID",
	127: "Undefined (default)",
}

// AreaTypeName returns the catalog text for an area_type.
func AreaTypeName(t int) string {
	return lookup(AreaTypes[:], t)
}

// SensorReportTypes names the environmental sensor report variants.
var SensorReportTypes = []string{
	"Site location",
	"Station ID",
	"Wind",
	"Water level",
	"Current flow (2D)",
	"Current flow (3D)",
	"Horizontal current flow",
	"Sea state",
	"Salinity",
	"Weather",
	"Air gap/Air draft",
}

// VerticalDatums names the water level reference datums.
var VerticalDatums = []string{
	"MLLW",
	"IGLD-85",
	"Local river datum",
	"STND",
	"MHHW",
	"MHW",
	"MSL",
	"MLW",
	"NGVD-29",
	"NAVD-88",
	"WGS-84",
	"LAT",
	"Pool",
	"Gauge",
	"Unknown/not available",
}

// Beaufort is the sea state scale; 13 is not available.
var Beaufort = []string{
	"Calm",
	"Light air",
	"Light breeze",
	"Gentle breeze",
	"Moderate breeze",
	"Fresh breeze",
	"Strong breeze",
	"High wind",
	"Gale",
	"Strong gale",
	"Storm",
	"Violent storm",
	"Hurricane force",
	"Not available",
}

// SensorQuality names the 3-bit data description codes.
var SensorQuality = []string{
	"No data",
	"Raw real time",
	"Real time with quality control",
	"Predicted (based on historical statistics)",
	"Forecast (predicted, refined with real-time information)",
	"Nowcast (a continuous forecast)",
	"(reserved for future use)",
	"Not available",
}

// Precipitation names the 3-bit precipitation type used by Met/Hydro data.
var Precipitation = []string{
	"(reserved)",
	"Rain",
	"Thunderstorm",
	"Freezing rain",
	"Mixed/ice",
	"Snow",
	"(reserved)",
	"Not available",
}

// WeatherPrecipitation names the 2-bit precipitation type of the weather
// sensor report.
var WeatherPrecipitation = []string{
	"Rain",
	"Rain and snow",
	"Snow",
	"Not available",
}

// Owners names the site owner codes; 15 is not available.
var Owners = map[int]string{
	0:  "Unknown",
	1:  "Hydrographic office",
	2:  "Inland waterway authority",
	3:  "Coastal directorate",
	4:  "Meteorological service",
	5:  "Port authority",
	6:  "Coast guard",
	15: "Not available",
}

// Timeouts names the data timeout codes of the site location report.
var Timeouts = []string{
	"Never",
	"10 minutes",
	"1 hour",
	"6 hours",
	"12 hours",
	"24 hours",
}

// Trends names the 2-bit trend codes.
var Trends = []string{
	"Steady",
	"Decreasing",
	"Increasing",
	"Not available",
}

// SalinityTypes names how a salinity value was obtained.
var SalinityTypes = []string{
	"Measured",
	"Calculated using PSS-78",
	"Calculated using other method",
}

// IceCodes names the ice indicator of Met/Hydro data.
var IceCodes = []string{
	"No",
	"Yes",
	"(reserved)",
	"Not available",
}

// OwnerName returns the owner text for a code.
func OwnerName(code int) string {
	if s, ok := Owners[code]; ok {
		return s
	}
	return "(reserved for future use)"
}

// SignalStatuses names the marine traffic signal status codes.
var SignalStatuses = []string{
	"not available",
	"in regular service",
	"irregular service",
	"reserved",
}

// TrafficSignals names the 5-bit port traffic signal codes.
var TrafficSignals = []string{
	"not available",
	"IALA port traffic signal 1: Serious emergency – all vessels to stop or divert according to instructions.",
	"IALA port traffic signal 2: Vessels shall not proceed.",
	"IALA port traffic signal 3: Vessels may proceed. One way traffic.",
	"IALA port traffic signal 4: Vessels may proceed. Two way traffic.",
	"IALA port traffic signal 5: A vessel may proceed only when it has received specific orders to do so.",
	"IALA port traffic signal 2a: Vessels shall not proceed, except that vessels which navigate outside the main channel need not comply with the main message.",
	"IALA port traffic signal 5a: A vessel may proceed only when it has received specific orders to do so; except that vessels which navigate outside the main channel need not comply with the main message.",
	"Japan Traffic Signal I: “in-bound” only acceptable.",
	"Japan Traffic Signal O: “out-bound” only acceptable.",
	"Japan Traffic Signal F: both “in- and out-bound” acceptable.",
	"Japan Traffic Signal XI: Code will shift to “I” in due time.",
	"Japan Traffic Signal XO: Code will shift to “O” in due time.",
	"Japan Traffic Signal X: Vessels shall not proceed, except a vessel which receives the direction from the competent authority.",
}

// TrafficSignalName returns the signal text for a code.
func TrafficSignalName(code int) string {
	if code >= 0 && code < len(TrafficSignals) {
		return TrafficSignals[code]
	}
	return "reserved for future use"
}
