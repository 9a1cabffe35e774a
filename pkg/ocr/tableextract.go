package ocr

import (
	"strconv"
	"strings"
	"time"
)

// Metric is one EV metric pulled out of an OCR'd rankings or metrics
// table row.
type Metric struct {
	Brand      string
	MetricType string
	Value      float64
	Year       int
	Period     int
	PeriodType string

	YoYChange   *float64
	MoMChange   *float64
	MarketShare *float64
	Ranking     *int

	VehicleModel string
	Region       string
	Category     string
	DataSource   string
	Unit         string
	Confidence   float64
}

// TableContext carries the info shared by every row of one table.
// Zero fields fall back to SALES / current month / MONTHLY / CPCA.
type TableContext struct {
	MetricType string
	Year       int
	Period     int
	PeriodType string
	DataSource string
}

type brandAlias struct {
	key   string
	brand string
}

// brandAliases in scan order. Exact matches are tried against the whole
// list first, then containment in this order.
var brandAliases = []brandAlias{
	{"byd", "BYD"},
	{"nio", "NIO"},
	{"xpeng", "XPENG"},
	{"li auto", "LI_AUTO"},
	{"li", "LI_AUTO"},
	{"ideal", "LI_AUTO"},
	{"zeekr", "ZEEKR"},
	{"xiaomi", "XIAOMI"},
	{"tesla", "TESLA_CHINA"},
	{"tesla china", "TESLA_CHINA"},
	{"total", "INDUSTRY"},
	{"industry", "INDUSTRY"},
	{"market", "INDUSTRY"},
	{"geely", "OTHER_BRAND"},
	{"changan", "OTHER_BRAND"},
	{"saic", "OTHER_BRAND"},
	{"gac", "OTHER_BRAND"},
	{"aion", "OTHER_BRAND"},
	{"avatr", "OTHER_BRAND"},
	{"denza", "OTHER_BRAND"},
	{"yangwang", "OTHER_BRAND"},
	{"deepal", "OTHER_BRAND"},
	{"voyah", "OTHER_BRAND"},
	{"im", "OTHER_BRAND"},
	{"rising", "OTHER_BRAND"},
	{"leapmotor", "OTHER_BRAND"},
	{"leap motor", "OTHER_BRAND"},
	{"neta", "OTHER_BRAND"},
	{"hozon", "OTHER_BRAND"},
	{"arcfox", "OTHER_BRAND"},
	{"ora", "OTHER_BRAND"},
	{"wuling", "OTHER_BRAND"},
	{"hongqi", "OTHER_BRAND"},
	{"hiphi", "OTHER_BRAND"},
	{"volvo", "OTHER_BRAND"},
	{"polestar", "OTHER_BRAND"},
	{"bmw", "OTHER_BRAND"},
	{"mercedes", "OTHER_BRAND"},
	{"audi", "OTHER_BRAND"},
	{"volkswagen", "OTHER_BRAND"},
	{"vw", "OTHER_BRAND"},
	{"hyundai", "OTHER_BRAND"},
	{"kia", "OTHER_BRAND"},
	{"toyota", "OTHER_BRAND"},
	{"honda", "OTHER_BRAND"},
	{"great wall", "OTHER_BRAND"},
	{"chery", "OTHER_BRAND"},
	{"faw", "OTHER_BRAND"},
	{"dongfeng", "OTHER_BRAND"},
}

var brandExact = func() map[string]string {
	m := make(map[string]string, len(brandAliases))
	for _, a := range brandAliases {
		m[a.key] = a.brand
	}
	return m
}()

var (
	brandFields = []string{"brand", "company", "manufacturer", "oem", "name", "automaker"}
	valueFields = []string{"value", "sales", "deliveries", "delivery", "volume", "units", "count", "total", "wholesale", "production"}
	yoyFields   = []string{"yoy", "y-o-y", "year_on_year", "yoy_change", "yoy%"}
	momFields   = []string{"mom", "m-o-m", "month_on_month", "mom_change", "mom%"}
	shareFields = []string{"share", "market_share", "share%"}
	rankFields  = []string{"rank", "ranking", "#", "position"}
)

// ExtractRankings converts OCR table rows into metrics. Rows without a
// recognizable brand or value are dropped.
func ExtractRankings(rows []map[string]any, tc TableContext) []Metric {
	if len(rows) == 0 {
		return nil
	}

	now := time.Now()
	if tc.MetricType == "" {
		tc.MetricType = "SALES"
	}
	if tc.Year == 0 {
		tc.Year = now.Year()
	}
	if tc.Period == 0 {
		tc.Period = int(now.Month())
	}
	if tc.PeriodType == "" {
		tc.PeriodType = "MONTHLY"
	}
	if tc.DataSource == "" {
		tc.DataSource = "CPCA"
	}

	metrics := make([]Metric, 0, len(rows))
	for _, row := range rows {
		if m, ok := extractRow(row, tc); ok {
			metrics = append(metrics, m)
		}
	}
	return metrics
}

func extractRow(row map[string]any, tc TableContext) (Metric, bool) {
	normalized := make(map[string]any, len(row))
	for k, v := range row {
		normalized[strings.ReplaceAll(strings.ToLower(k), " ", "_")] = v
	}

	brand := extractRowBrand(normalized)
	if brand == "" {
		return Metric{}, false
	}
	value, ok := extractRowValue(normalized)
	if !ok {
		return Metric{}, false
	}

	return Metric{
		Brand:       brand,
		MetricType:  tc.MetricType,
		Value:       value,
		Year:        tc.Year,
		Period:      tc.Period,
		PeriodType:  tc.PeriodType,
		YoYChange:   rowFloat(normalized, yoyFields),
		MoMChange:   rowFloat(normalized, momFields),
		MarketShare: rowFloat(normalized, shareFields),
		Ranking:     rowInt(normalized, rankFields),
		DataSource:  tc.DataSource,
		Unit:        "vehicles",
		Confidence:  0.9,
	}, true
}

// NormalizeBrand maps a raw table brand name to its canonical form.
// Unknown names become OTHER_BRAND.
func NormalizeBrand(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return ""
	}
	if brand, ok := brandExact[lowered]; ok {
		return brand
	}
	for _, a := range brandAliases {
		// Short aliases ("li", "vw") need token boundaries so "li"
		// does not fire inside "wuling".
		if len(a.key) <= 3 {
			if containsToken(lowered, a.key) {
				return a.brand
			}
		} else if strings.Contains(lowered, a.key) {
			return a.brand
		}
	}
	return "OTHER_BRAND"
}

func extractRowBrand(row map[string]any) string {
	for _, field := range brandFields {
		if v, ok := row[field]; ok && v != nil {
			raw := anyString(v)
			if raw != "" {
				return NormalizeBrand(raw)
			}
		}
	}
	return ""
}

func extractRowValue(row map[string]any) (float64, bool) {
	for _, field := range valueFields {
		if v, ok := row[field]; ok && v != nil {
			if f, ok := anyFloat(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

func rowFloat(row map[string]any, fields []string) *float64 {
	for _, field := range fields {
		if v, ok := row[field]; ok && v != nil {
			if f, ok := anyFloat(v); ok {
				return &f
			}
		}
	}
	return nil
}

func rowInt(row map[string]any, fields []string) *int {
	for _, field := range fields {
		if v, ok := row[field]; ok && v != nil {
			if f, ok := anyFloat(v); ok {
				n := int(f)
				return &n
			}
		}
	}
	return nil
}

func anyString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	default:
		return ""
	}
}

func anyFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		cleaned := strings.NewReplacer(",", "", "%", "", " ", "").Replace(n)
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func containsToken(s, token string) bool {
	for start := 0; ; start++ {
		idx := strings.Index(s[start:], token)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(token)
		leftOK := idx == 0 || !isAlnum(s[idx-1])
		rightOK := end == len(s) || !isAlnum(s[end])
		if leftOK && rightOK {
			return true
		}
		start = idx
	}
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// Payload renders the metric as the ev-metrics API body.
func (m Metric) Payload() map[string]any {
	return map[string]any{
		"brand":        m.Brand,
		"metric":       m.MetricType,
		"periodType":   m.PeriodType,
		"year":         m.Year,
		"period":       m.Period,
		"value":        m.Value,
		"unit":         m.Unit,
		"yoyChange":    floatOrNil(m.YoYChange),
		"momChange":    floatOrNil(m.MoMChange),
		"marketShare":  floatOrNil(m.MarketShare),
		"ranking":      intOrNil(m.Ranking),
		"vehicleModel": stringOrNil(m.VehicleModel),
		"region":       stringOrNil(m.Region),
		"category":     stringOrNil(m.Category),
		"dataSource":   stringOrNil(m.DataSource),
		"confidence":   m.Confidence,
	}
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func intOrNil(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func stringOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
