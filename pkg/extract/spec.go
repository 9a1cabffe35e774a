package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// VehicleSpecData is a vehicle specification assembled from OCR output.
// Pointer fields stay nil when the spec sheet did not carry the value.
type VehicleSpecData struct {
	Brand   string
	Model   string
	Variant string

	LaunchDate  string
	VehicleType string // BEV, EREV, PHEV, HEV
	Segment     string // SUV, Sedan, MPV

	StartingPrice *float64
	CurrentPrice  *float64

	LengthMM    *int
	WidthMM     *int
	HeightMM    *int
	WheelbaseMM *int

	Acceleration  *float64
	TopSpeed      *int
	MotorPowerKW  *int
	MotorTorqueNM *int

	BatteryCapacity *float64
	RangeCLTC       *int
	RangeWLTP       *int
	RangeEPA        *int

	FuelTankVolume     *float64
	EngineDisplacement *float64

	MaxChargingPower   *int
	ChargingTime10To80 *int

	SourceURL  string
	Confidence float64
}

// Brand lookup for spec sheets. Exact match on the OCR brand string;
// BYD sub-brands fold into BYD.
var specBrandMap = map[string]string{
	"byd":          "BYD",
	"nio":          "NIO",
	"xpeng":        "XPENG",
	"li auto":      "LI_AUTO",
	"li":           "LI_AUTO",
	"zeekr":        "ZEEKR",
	"xiaomi":       "XIAOMI",
	"tesla":        "TESLA_CHINA",
	"tesla china":  "TESLA_CHINA",
	"geely":        "OTHER_BRAND",
	"changan":      "OTHER_BRAND",
	"saic":         "OTHER_BRAND",
	"gac":          "OTHER_BRAND",
	"aion":         "OTHER_BRAND",
	"avatr":        "OTHER_BRAND",
	"denza":        "OTHER_BRAND",
	"yangwang":     "BYD",
	"fangchengbao": "BYD",
	"deepal":       "OTHER_BRAND",
	"voyah":        "OTHER_BRAND",
	"im":           "OTHER_BRAND",
	"rising":       "OTHER_BRAND",
	"leapmotor":    "OTHER_BRAND",
	"neta":         "OTHER_BRAND",
	"arcfox":       "OTHER_BRAND",
}

// OCR key aliases resolved to canonical field names, applied in order
// so more specific keys win when a sheet carries both.
var specFieldMappings = []keywordMapping{
	{"length", "length_mm"},
	{"length_mm", "length_mm"},
	{"width", "width_mm"},
	{"width_mm", "width_mm"},
	{"height", "height_mm"},
	{"height_mm", "height_mm"},
	{"wheelbase", "wheelbase_mm"},
	{"wheelbase_mm", "wheelbase_mm"},
	{"battery", "battery_capacity"},
	{"battery_kwh", "battery_capacity"},
	{"battery_capacity", "battery_capacity"},
	{"range", "range_cltc"},
	{"range_km", "range_cltc"},
	{"range_cltc", "range_cltc"},
	{"cltc_range", "range_cltc"},
	{"range_wltp", "range_wltp"},
	{"wltp_range", "range_wltp"},
	{"range_epa", "range_epa"},
	{"epa_range", "range_epa"},
	{"power", "motor_power_kw"},
	{"motor_kw", "motor_power_kw"},
	{"motor_power", "motor_power_kw"},
	{"motor_power_kw", "motor_power_kw"},
	{"torque", "motor_torque_nm"},
	{"motor_torque", "motor_torque_nm"},
	{"motor_torque_nm", "motor_torque_nm"},
	{"acceleration", "acceleration"},
	{"0_100", "acceleration"},
	{"0-100", "acceleration"},
	{"top_speed", "top_speed"},
	{"max_speed", "top_speed"},
	{"price", "starting_price"},
	{"starting_price", "starting_price"},
	{"msrp", "starting_price"},
	{"charging_power", "max_charging_power"},
	{"max_charging", "max_charging_power"},
	{"max_charging_power", "max_charging_power"},
	{"charging_time", "charging_time_10_to_80"},
	{"charge_time", "charging_time_10_to_80"},
	{"type", "vehicle_type"},
	{"vehicle_type", "vehicle_type"},
	{"powertrain", "vehicle_type"},
}

var segmentSUVKeywords = []string{"suv", "x9", "l9", "l8", "l7", "l6", "es6", "es8", "el8", "ec6", "ec7", "g9", "g6"}

var segmentSedanKeywords = []string{"sedan", "et5", "et7", "p7", "p5", "model 3", "model s", "su7", "han"}

var segmentMPVKeywords = []string{"mpv", "mega", "d9", "denza d9"}

// SpecFromOCR builds a vehicle spec from an OCR payload. Returns nil
// when brand or model cannot be determined.
func SpecFromOCR(ocrData map[string]any, sourceURL string) *VehicleSpecData {
	if len(ocrData) == 0 {
		return nil
	}

	data := make(map[string]any, len(ocrData))
	for k, v := range ocrData {
		data[strings.ReplaceAll(strings.ToLower(k), " ", "_")] = v
	}

	brand := specBrand(data)
	model := anyToString(data["model"])
	if brand == "" || model == "" {
		return nil
	}

	variant := anyToString(data["variant"])
	if variant == "" {
		variant = anyToString(data["trim"])
	}
	if variant == "" {
		variant = "Standard"
	}

	spec := &VehicleSpecData{
		Brand:      brand,
		Model:      model,
		Variant:    variant,
		SourceURL:  sourceURL,
		Confidence: 0.9,
	}

	canon := map[string]any{}
	for _, m := range specFieldMappings {
		if v, ok := data[m.keyword]; ok && v != nil {
			canon[m.value] = v
		}
	}

	spec.LengthMM = specIntValue(canon["length_mm"])
	spec.WidthMM = specIntValue(canon["width_mm"])
	spec.HeightMM = specIntValue(canon["height_mm"])
	spec.WheelbaseMM = specIntValue(canon["wheelbase_mm"])
	spec.TopSpeed = specIntValue(canon["top_speed"])
	spec.MotorPowerKW = specIntValue(canon["motor_power_kw"])
	spec.MotorTorqueNM = specIntValue(canon["motor_torque_nm"])
	spec.RangeCLTC = specIntValue(canon["range_cltc"])
	spec.RangeWLTP = specIntValue(canon["range_wltp"])
	spec.RangeEPA = specIntValue(canon["range_epa"])
	spec.MaxChargingPower = specIntValue(canon["max_charging_power"])
	spec.ChargingTime10To80 = specIntValue(canon["charging_time_10_to_80"])

	spec.BatteryCapacity = specFloatValue(canon["battery_capacity"])
	spec.Acceleration = specFloatValue(canon["acceleration"])
	spec.StartingPrice = specFloatValue(canon["starting_price"])

	spec.VehicleType = normalizeVehicleType(anyToString(canon["vehicle_type"]))

	spec.Segment = anyToString(data["segment"])
	if spec.Segment == "" {
		spec.Segment = inferSegment(model)
	}

	return spec
}

func specBrand(data map[string]any) string {
	brand := anyToString(data["brand"])
	if brand == "" {
		return ""
	}
	if normalized, ok := specBrandMap[strings.ToLower(brand)]; ok {
		return normalized
	}
	return "OTHER_BRAND"
}

func anyToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

// specIntValue parses OCR values like "4,950", "675km" or 3060 into an
// int pointer.
func specIntValue(v any) *int {
	s, ok := numericString(v, "mm", "km", "kw")
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

func specFloatValue(v any) *float64 {
	s, ok := numericString(v, "kwh", "s")
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func numericString(v any, strip ...string) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s := strings.ReplaceAll(t, ",", "")
		for _, sub := range strip {
			s = strings.ReplaceAll(s, sub, "")
		}
		return strings.TrimSpace(s), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	default:
		return "", false
	}
}

func normalizeVehicleType(vtype string) string {
	if vtype == "" {
		return ""
	}
	lower := strings.ToLower(vtype)
	switch {
	case strings.Contains(lower, "bev"), strings.Contains(lower, "battery electric"), strings.Contains(lower, "pure electric"):
		return "BEV"
	case strings.Contains(lower, "erev"), strings.Contains(lower, "extended range"), strings.Contains(lower, "range extender"):
		return "EREV"
	case strings.Contains(lower, "phev"), strings.Contains(lower, "plug-in hybrid"):
		return "PHEV"
	case strings.Contains(lower, "hev"), strings.Contains(lower, "hybrid"):
		return "HEV"
	}
	return ""
}

func inferSegment(model string) string {
	modelLower := strings.ToLower(model)
	if containsAny(modelLower, segmentSUVKeywords) {
		return "SUV"
	}
	if containsAny(modelLower, segmentSedanKeywords) {
		return "Sedan"
	}
	if containsAny(modelLower, segmentMPVKeywords) {
		return "MPV"
	}
	return ""
}

// Payload renders the spec in the wire shape the platform's
// vehicle-specs endpoint expects. Unset numeric fields serialize as
// null.
func (s *VehicleSpecData) Payload() map[string]any {
	return map[string]any{
		"brand":              s.Brand,
		"model":              s.Model,
		"variant":            s.Variant,
		"launchDate":         emptyAsNil(s.LaunchDate),
		"vehicleType":        emptyAsNil(s.VehicleType),
		"segment":            emptyAsNil(s.Segment),
		"startingPrice":      s.StartingPrice,
		"currentPrice":       s.CurrentPrice,
		"lengthMm":           s.LengthMM,
		"widthMm":            s.WidthMM,
		"heightMm":           s.HeightMM,
		"wheelbaseMm":        s.WheelbaseMM,
		"acceleration":       s.Acceleration,
		"topSpeed":           s.TopSpeed,
		"motorPowerKw":       s.MotorPowerKW,
		"motorTorqueNm":      s.MotorTorqueNM,
		"batteryCapacity":    s.BatteryCapacity,
		"rangeCltc":          s.RangeCLTC,
		"rangeWltp":          s.RangeWLTP,
		"rangeEpa":           s.RangeEPA,
		"fuelTankVolume":     s.FuelTankVolume,
		"engineDisplacement": s.EngineDisplacement,
		"maxChargingPower":   s.MaxChargingPower,
		"chargingTime10To80": s.ChargingTime10To80,
		"sourceUrl":          s.SourceURL,
		"confidence":         s.Confidence,
	}
}

func emptyAsNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
