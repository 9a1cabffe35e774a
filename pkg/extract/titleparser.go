// Package extract holds the pure parsing and classification logic the
// aggregation pipeline runs over article titles, summaries and OCR
// payloads before anything is submitted to the platform tables.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Period types for parsed metrics.
const (
	PeriodMonthly   = "MONTHLY"
	PeriodQuarterly = "QUARTERLY"
	PeriodYearly    = "YEARLY"
)

// Metric types for parsed metrics.
const (
	MetricDelivery        = "DELIVERY"
	MetricSales           = "SALES"
	MetricWholesale       = "WHOLESALE"
	MetricProduction      = "PRODUCTION"
	MetricBatteryInstall  = "BATTERY_INSTALL"
	MetricExports         = "EXPORTS"
	MetricImports         = "IMPORTS"
	MetricRegistrations   = "REGISTRATIONS"
	MetricDealerInventory = "DEALER_INVENTORY"
)

// TitleMetric is a metric extracted from an article title.
type TitleMetric struct {
	Brand        string
	MetricType   string
	Value        float64
	Year         int
	Month        int // 0 when the period is not monthly
	Quarter      int // 0 when the period is not quarterly
	PeriodType   string
	YoYChange    *float64
	MoMChange    *float64
	MarketShare  *float64
	Rank         *int
	VehicleModel string
	Region       string
	Category     string
	Unit         string
	Confidence   float64
}

type keywordMapping struct {
	keyword string
	value   string
}

// Brand aliases resolved longest-first so "li auto" wins over "li" and
// "tesla china" over "tesla". Short aliases only match on word
// boundaries ("ev" must not fire inside "seven").
var brandMappings = []keywordMapping{
	{"byd", "BYD"},
	{"nio", "NIO"},
	{"xpeng", "XPENG"},
	{"li auto", "LI_AUTO"},
	{"li", "LI_AUTO"},
	{"zeekr", "ZEEKR"},
	{"xiaomi", "XIAOMI"},
	{"tesla", "TESLA_CHINA"},
	{"tesla china", "TESLA_CHINA"},
	{"china", "INDUSTRY"},
	{"nev", "INDUSTRY"},
	{"ev", "INDUSTRY"},
	{"geely", "GEELY"},
	{"leapmotor", "LEAPMOTOR"},
	{"changan", "OTHER_BRAND"},
	{"saic", "OTHER_BRAND"},
	{"gac", "OTHER_BRAND"},
	{"dongfeng", "OTHER_BRAND"},
	{"faw", "OTHER_BRAND"},
	{"great wall", "OTHER_BRAND"},
	{"chery", "OTHER_BRAND"},
	{"neta", "OTHER_BRAND"},
	{"hozon", "OTHER_BRAND"},
	{"avatr", "OTHER_BRAND"},
	{"im", "OTHER_BRAND"},
	{"rising", "OTHER_BRAND"},
	{"aion", "OTHER_BRAND"},
	{"denza", "OTHER_BRAND"},
	{"yangwang", "OTHER_BRAND"},
	{"jiyue", "OTHER_BRAND"},
	{"deepal", "OTHER_BRAND"},
	{"voyah", "OTHER_BRAND"},
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
}

// Metric keywords checked in declaration order; the first hit wins.
var metricKeywords = []keywordMapping{
	{"deliveries", MetricDelivery},
	{"delivery", MetricDelivery},
	{"delivered", MetricDelivery},
	{"sales", MetricSales},
	{"sold", MetricSales},
	{"retail", MetricSales},
	{"wholesale", MetricWholesale},
	{"production", MetricProduction},
	{"produced", MetricProduction},
	{"output", MetricProduction},
	// "battery" alone is too loose: it fires on swap stations and
	// battery plants. Installation phrasings and the GWh unit only.
	{"battery installation", MetricBatteryInstall},
	{"battery install", MetricBatteryInstall},
	{"gwh", MetricBatteryInstall},
	{"exports", MetricExports},
	{"export", MetricExports},
	{"imports", MetricImports},
	{"import", MetricImports},
	{"registrations", MetricRegistrations},
	{"license plate", MetricRegistrations},
	{"inventory", MetricDealerInventory},
}

var monthNames = []struct {
	name  string
	month int
}{
	{"january", 1}, {"jan", 1},
	{"february", 2}, {"feb", 2},
	{"march", 3}, {"mar", 3},
	{"april", 4}, {"apr", 4},
	{"may", 5},
	{"june", 6}, {"jun", 6},
	{"july", 7}, {"jul", 7},
	{"august", 8}, {"aug", 8},
	{"september", 9}, {"sept", 9}, {"sep", 9},
	{"october", 10}, {"oct", 10},
	{"november", 11}, {"nov", 11},
	{"december", 12}, {"dec", 12},
}

var titleRegions = []keywordMapping{
	{"shanghai", "Shanghai"},
	{"beijing", "Beijing"},
	{"guangdong", "Guangdong"},
	{"shenzhen", "Shenzhen"},
	{"hangzhou", "Hangzhou"},
	{"guangzhou", "Guangzhou"},
	{"jiangsu", "Jiangsu"},
	{"zhejiang", "Zhejiang"},
	{"sichuan", "Sichuan"},
	{"chengdu", "Chengdu"},
}

var categoryKeywords = []keywordMapping{
	{"nev", "NEV"},
	{"bev", "BEV"},
	{"phev", "PHEV"},
	{"pure electric", "BEV"},
	{"plug-in hybrid", "PHEV"},
	{"passenger", "Passenger"},
	{"commercial", "Commercial"},
	{"suv", "SUV"},
	{"sedan", "Sedan"},
	{"mpv", "MPV"},
}

var (
	numberPattern   = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)
	millionPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*million`)
	wanPattern      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*万`)
	quarterPattern  = regexp.MustCompile(`q([1-4])\s*'?(\d{2,4})?`)
	yearOnlyPattern = regexp.MustCompile(`\b(20\d{2})\b`)

	modelPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Model\s*([3SXY])`),
		regexp.MustCompile(`(?i)(ET[579]|EC[67]|ES[68]|EL[68])`),
		regexp.MustCompile(`(?i)\b(P[57]|G[369]|X9)\b`),
		regexp.MustCompile(`(?i)\b(L[6789]|Mega)\b`),
		regexp.MustCompile(`(?i)\b(SU[0-9]+)\b`),
	}
	// Zeekr style 3-digit models (001, 007X); neighbor digits and commas
	// are checked manually since RE2 has no lookarounds.
	zeekrModelPattern = regexp.MustCompile(`([0-9]{3})([Xx]?)`)

	yoyDownPattern = regexp.MustCompile(`(?i)(?:down|decrease|decline|drop|fall|fell)\s*(\d+(?:\.\d+)?)\s*%?\s*(?:year-on-year|yoy|y-o-y)`)
	yoyUpPattern   = regexp.MustCompile(`(?i)(?:up|increase|rise|rose|grew|grow)\s*(\d+(?:\.\d+)?)\s*%?\s*(?:year-on-year|yoy|y-o-y)`)
	yoyNegPattern  = regexp.MustCompile(`(?i)-\s*(\d+(?:\.\d+)?)\s*%?\s*(?:year-on-year|yoy|y-o-y)`)
	yoyPosPattern  = regexp.MustCompile(`(?i)\+\s*(\d+(?:\.\d+)?)\s*%?\s*(?:year-on-year|yoy|y-o-y)`)

	momDownPattern = regexp.MustCompile(`(?i)(?:down|decrease|decline|drop|fall|fell)\s*(\d+(?:\.\d+)?)\s*%?\s*(?:month-on-month|mom|m-o-m)`)
	momUpPattern   = regexp.MustCompile(`(?i)(?:up|increase|rise|rose|grew|grow)\s*(\d+(?:\.\d+)?)\s*%?\s*(?:month-on-month|mom|m-o-m)`)
	momNegPattern  = regexp.MustCompile(`(?i)-\s*(\d+(?:\.\d+)?)\s*%?\s*(?:month-on-month|mom|m-o-m)`)
	momPosPattern  = regexp.MustCompile(`(?i)\+\s*(\d+(?:\.\d+)?)\s*%?\s*(?:month-on-month|mom|m-o-m)`)
)

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// containsWord reports whether sub occurs in s with non-word characters
// (or string edges) on both sides.
func containsWord(s, sub string) bool {
	if sub == "" {
		return false
	}
	from := 0
	for {
		i := strings.Index(s[from:], sub)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(sub)
		leftOK := start == 0 || !isWordByte(s[start-1])
		rightOK := end == len(s) || !isWordByte(s[end])
		if leftOK && rightOK {
			return true
		}
		from = start + 1
	}
}

// HasSignificantNumber reports whether the text contains a number that
// looks like a real quantity: >= 1000 or comma formatted.
func HasSignificantNumber(s string) bool {
	for _, numStr := range numberPattern.FindAllString(s, -1) {
		clean := strings.ReplaceAll(numStr, ",", "")
		value, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			continue
		}
		if value >= 1000 || strings.Contains(numStr, ",") {
			return true
		}
	}
	return false
}

// NeedsOCR reports whether the data likely lives in an image: the title
// carries no significant number.
func NeedsOCR(title string) bool {
	return !HasSignificantNumber(title)
}

// ParseTitle extracts an EV metric from an article title. The published
// date supplies the year and month when the title omits them. Returns
// nil when no brand, metric type, value or period can be found.
func ParseTitle(title string, published time.Time) *TitleMetric {
	if title == "" {
		return nil
	}

	titleLower := strings.ToLower(title)

	brand := extractBrand(titleLower)
	if brand == "" {
		return nil
	}

	metricType := extractMetricType(titleLower)
	if metricType == "" {
		return nil
	}

	year, month, quarter, periodType := extractPeriod(titleLower, published)
	if year == 0 {
		return nil
	}

	value, ok := extractValue(title, year)
	if !ok {
		return nil
	}

	unit := "vehicles"
	if metricType == MetricBatteryInstall {
		unit = "GWh"
	}

	return &TitleMetric{
		Brand:        brand,
		MetricType:   metricType,
		Value:        value,
		Year:         year,
		Month:        month,
		Quarter:      quarter,
		PeriodType:   periodType,
		YoYChange:    extractSignedChange(titleLower, yoyDownPattern, yoyUpPattern, yoyNegPattern, yoyPosPattern),
		MoMChange:    extractSignedChange(titleLower, momDownPattern, momUpPattern, momNegPattern, momPosPattern),
		VehicleModel: extractModel(title),
		Region:       extractTitleRegion(titleLower),
		Category:     extractCategory(titleLower),
		Unit:         unit,
		Confidence:   1.0,
	}
}

func extractBrand(titleLower string) string {
	best := ""
	bestLen := 0
	for _, m := range brandMappings {
		if len(m.keyword) > bestLen && containsWord(titleLower, m.keyword) {
			best = m.value
			bestLen = len(m.keyword)
		}
	}
	return best
}

func extractMetricType(titleLower string) string {
	for _, m := range metricKeywords {
		if strings.Contains(titleLower, m.keyword) {
			return m.value
		}
	}
	return ""
}

// extractValue picks the largest plausible quantity in the title.
// Standalone years and small percentages are excluded; "X million" and
// "X万" forms are scaled.
func extractValue(title string, year int) (float64, bool) {
	titleLower := strings.ToLower(title)

	if m := millionPattern.FindStringSubmatch(titleLower); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v * 1_000_000, true
		}
	}
	if m := wanPattern.FindStringSubmatch(title); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v * 10_000, true
		}
	}

	hasChangeContext := strings.Contains(titleLower, "%") ||
		strings.Contains(titleLower, "percent") ||
		strings.Contains(titleLower, "yoy") ||
		strings.Contains(titleLower, "mom")

	var best float64
	found := false
	for _, numStr := range numberPattern.FindAllString(title, -1) {
		clean := strings.ReplaceAll(numStr, ",", "")
		value, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			continue
		}
		if value < 100 && hasChangeContext {
			continue
		}
		if value < 100 {
			continue
		}
		// A bare 20xx without separators is the period, not the quantity.
		if !strings.Contains(numStr, ",") && value == float64(year) {
			continue
		}
		if value > best {
			best = value
			found = true
		}
	}
	return best, found
}

func extractPeriod(titleLower string, published time.Time) (year, month, quarter int, periodType string) {
	currentYear := time.Now().Year()
	if !published.IsZero() {
		currentYear = published.Year()
	}

	if m := quarterPattern.FindStringSubmatch(titleLower); m != nil {
		quarter, _ = strconv.Atoi(m[1])
		year = parseYearToken(m[2], currentYear)
		return year, 0, quarter, PeriodQuarterly
	}

	for _, mn := range monthNames {
		if !strings.Contains(titleLower, mn.name) {
			continue
		}
		year = currentYear
		re := regexp.MustCompile(mn.name + `\s*'?(\d{2,4})?`)
		if m := re.FindStringSubmatch(titleLower); m != nil && m[1] != "" {
			year = parseYearToken(m[1], currentYear)
		}
		return year, mn.month, 0, PeriodMonthly
	}

	if m := yearOnlyPattern.FindStringSubmatch(titleLower); m != nil {
		year, _ = strconv.Atoi(m[1])
		for _, kw := range []string{"full year", "annual", "yearly", "fy "} {
			if strings.Contains(titleLower, kw) {
				return year, 0, 0, PeriodYearly
			}
		}
		if !published.IsZero() {
			return year, int(published.Month()), 0, PeriodMonthly
		}
		return year, 0, 0, PeriodYearly
	}

	if !published.IsZero() {
		return published.Year(), int(published.Month()), 0, PeriodMonthly
	}

	return 0, 0, 0, ""
}

func parseYearToken(tok string, fallback int) int {
	if tok == "" {
		return fallback
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return fallback
	}
	if len(tok) == 4 {
		return v
	}
	return 2000 + v
}

// extractSignedChange tries down/up wordings first, then bare signed
// forms. Down and minus produce negative values.
func extractSignedChange(text string, down, up, neg, pos *regexp.Regexp) *float64 {
	if m := down.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			v = -v
			return &v
		}
	}
	if m := up.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &v
		}
	}
	if m := neg.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			v = -v
			return &v
		}
	}
	if m := pos.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &v
		}
	}
	return nil
}

func extractModel(title string) string {
	for _, re := range modelPatterns {
		if m := re.FindStringSubmatch(title); m != nil {
			return strings.ToUpper(m[1])
		}
	}

	// 3-digit Zeekr models: reject matches glued to digits or commas,
	// which would otherwise fire inside "20,011".
	for _, loc := range zeekrModelPattern.FindAllStringSubmatchIndex(title, -1) {
		start, end := loc[0], loc[1]
		leftOK := start == 0 || (title[start-1] != ',' && !isDigit(title[start-1]))
		rightOK := end == len(title) || (title[end] != ',' && !isDigit(title[end]))
		if leftOK && rightOK {
			return strings.ToUpper(title[start:end])
		}
	}

	return ""
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func extractTitleRegion(titleLower string) string {
	for _, r := range titleRegions {
		if strings.Contains(titleLower, r.keyword) {
			return r.value
		}
	}
	return ""
}

func extractCategory(titleLower string) string {
	for _, c := range categoryKeywords {
		if containsWord(titleLower, c.keyword) {
			return c.value
		}
	}
	return ""
}
