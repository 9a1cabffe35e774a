package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ev-platform-be/pkg/evtables"
)

// ErrMissingFields is returned when a classified article does not carry
// enough data in its title to build a table record.
var ErrMissingFields = errors.New("required fields missing from title")

// ArticleInfo carries the source fields attached to every extracted
// record.
type ArticleInfo struct {
	Title       string
	Summary     string
	SourceURL   string
	SourceTitle string
	ImageURL    string
	Published   time.Time
}

// IndustryRecord is a payload ready for one of the platform's industry
// table endpoints. For rankings tables the record is only a template:
// NeedsOCR is set and the row data has to come from image OCR.
type IndustryRecord struct {
	TableName string
	Data      map[string]any
	NeedsOCR  bool
	OCRType   string
}

type plantMapping struct {
	keyword string
	plant   string
	brand   string
}

var plantMappings = []plantMapping{
	{"shanghai", "Tesla Shanghai", "Tesla"},
	{"giga shanghai", "Tesla Shanghai", "Tesla"},
	{"tesla shanghai", "Tesla Shanghai", "Tesla"},
	{"fremont", "Tesla Fremont", "Tesla"},
	{"berlin", "Tesla Berlin", "Tesla"},
	{"texas", "Tesla Texas", "Tesla"},
	{"austin", "Tesla Texas", "Tesla"},
	{"byd shenzhen", "BYD Shenzhen", "BYD"},
	{"byd changsha", "BYD Changsha", "BYD"},
}

// Display names for battery makers, checked in order.
var batteryMakerNames = []keywordMapping{
	{"catl", "CATL"},
	{"byd", "BYD"},
	{"lg", "LG Energy Solution"},
	{"lg energy", "LG Energy Solution"},
	{"sk", "SK On"},
	{"sk on", "SK On"},
	{"panasonic", "Panasonic"},
	{"calb", "CALB"},
	{"gotion", "Gotion High-Tech"},
	{"eve", "EVE Energy"},
	{"sunwoda", "Sunwoda"},
	{"svolt", "SVOLT"},
	{"samsung", "Samsung SDI"},
	{"farasis", "Farasis Energy"},
}

var (
	percentagePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	gwhPattern        = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*gwh`)
	factorPattern     = regexp.MustCompile(`(\d\.\d+)`)
	industryYearRange = regexp.MustCompile(`\b(20[2-3]\d)\b`)
	dateRangePattern  = regexp.MustCompile(`(?:(\w+)\s*)?(\d{1,2})[-/](\d{1,2})`)
)

var monthByName = map[string]int{}

func init() {
	for _, mn := range monthNames {
		monthByName[mn.name] = mn.month
	}
}

// ExtractIndustryRecord builds the payload for the industry table the
// classifier picked. Returns (nil, nil) when the target is not an
// industry table, and ErrMissingFields when the title lacks required
// data.
func ExtractIndustryRecord(article ArticleInfo, c Classification) (*IndustryRecord, error) {
	if c.TargetTable == "" {
		return nil, nil
	}

	var (
		data     map[string]any
		needsOCR bool
		ocrType  string
	)

	switch c.TargetTable {
	case evtables.ChinaPassengerInventory:
		data = extractPassengerInventory(article)
	case evtables.ChinaBatteryInstallation:
		data = extractBatteryInstallation(article)
	case evtables.CaamNevSales, evtables.CpcaNevRetail, evtables.CpcaNevProduction:
		data = extractMonthlySales(article)
	case evtables.ChinaDealerInventoryFactor:
		data = extractDealerInventoryFactor(article)
	case evtables.ChinaViaIndex:
		data = extractViaIndex(article)
	case evtables.BatteryMakerMonthly:
		data = extractBatteryMakerMonthlyData(article, c)
	case evtables.PlantExports:
		data = extractPlantExportsData(article)
	case evtables.NevSalesSummary:
		data = extractNevSalesSummaryData(article)
	case evtables.AutomakerRankings:
		data, needsOCR, ocrType = extractAutomakerRankingsTemplate(article)
	case evtables.BatteryMakerRankings:
		data, needsOCR, ocrType = extractBatteryMakerRankingsTemplate(article, c)
	default:
		return nil, nil
	}

	if data == nil {
		return nil, fmt.Errorf("extract %s: %w", c.TargetTable, ErrMissingFields)
	}

	data["sourceUrl"] = article.SourceURL
	data["sourceTitle"] = article.SourceTitle
	if !article.Published.IsZero() {
		data["publishedAt"] = article.Published.Format(time.RFC3339)
	}
	if article.ImageURL != "" {
		data["imageUrl"] = article.ImageURL
	}

	return &IndustryRecord{
		TableName: c.TargetTable,
		Data:      data,
		NeedsOCR:  needsOCR,
		OCRType:   ocrType,
	}, nil
}

// extractTimePeriod finds year and month for industry articles. The
// title parser is tried first; non-vehicle titles fall back to a manual
// scan. A month later than the reference month means last year's data.
func extractTimePeriod(title string, published time.Time) (int, int) {
	if parsed := ParseTitle(title, published); parsed != nil {
		return parsed.Year, parsed.Month
	}

	titleLower := strings.ToLower(title)
	currentYear := time.Now().Year()
	refMonth := int(time.Now().Month())
	if !published.IsZero() {
		currentYear = published.Year()
		refMonth = int(published.Month())
	}

	month := 0
	for _, mn := range monthNames {
		if strings.Contains(titleLower, mn.name) {
			month = mn.month
			break
		}
	}

	year := 0
	if m := industryYearRange.FindStringSubmatch(title); m != nil {
		year, _ = strconv.Atoi(m[1])
	}

	if month != 0 && year == 0 {
		year = currentYear
		if month > refMonth {
			year--
		}
	}
	if year != 0 && month == 0 && !published.IsZero() {
		month = int(published.Month())
	}

	return year, month
}

// extractIndustryValue picks the main quantity, excluding year-like
// numbers. GWh figures win when preferGWh is set.
func extractIndustryValue(title string, preferGWh bool) (float64, bool) {
	if preferGWh {
		if m := gwhPattern.FindStringSubmatch(title); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v, true
			}
		}
	}

	if m := millionPattern.FindStringSubmatch(strings.ToLower(title)); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v * 1_000_000, true
		}
	}

	var best float64
	found := false
	for _, numStr := range numberPattern.FindAllString(title, -1) {
		clean := strings.ReplaceAll(numStr, ",", "")
		v, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			continue
		}
		if v < 100 || (v >= 2000 && v <= 2100) {
			continue
		}
		if v > best {
			best = v
			found = true
		}
	}
	return best, found
}

func extractPercentage(title string) (float64, bool) {
	if m := percentagePattern.FindStringSubmatch(title); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

func extractTitleChanges(title string) (*float64, *float64) {
	if parsed := ParseTitle(title, time.Time{}); parsed != nil {
		return parsed.YoYChange, parsed.MoMChange
	}
	return nil, nil
}

func extractPassengerInventory(a ArticleInfo) map[string]any {
	year, month := extractTimePeriod(a.Title, a.Published)
	value, ok := extractIndustryValue(a.Title, false)
	if year == 0 || month == 0 || !ok {
		return nil
	}
	return map[string]any{
		"year":  year,
		"month": month,
		"value": value,
		"unit":  "vehicles",
	}
}

func extractBatteryInstallation(a ArticleInfo) map[string]any {
	year, month := extractTimePeriod(a.Title, a.Published)
	value, ok := extractIndustryValue(a.Title, true)
	if year == 0 || month == 0 || !ok {
		return nil
	}
	return map[string]any{
		"year":         year,
		"month":        month,
		"installation": value,
		"unit":         "GWh",
	}
}

// extractMonthlySales covers the CAAM and CPCA monthly series, which
// share the same shape.
func extractMonthlySales(a ArticleInfo) map[string]any {
	year, month := extractTimePeriod(a.Title, a.Published)
	value, ok := extractIndustryValue(a.Title, false)
	if year == 0 || month == 0 || !ok {
		return nil
	}
	data := map[string]any{
		"year":  year,
		"month": month,
		"value": value,
		"unit":  "vehicles",
	}
	addChanges(data, a.Title, "yoyChange", "momChange")
	return data
}

func extractDealerInventoryFactor(a ArticleInfo) map[string]any {
	year, month := extractTimePeriod(a.Title, a.Published)
	m := factorPattern.FindStringSubmatch(a.Title)
	if year == 0 || month == 0 || m == nil {
		return nil
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return map[string]any{
		"year":  year,
		"month": month,
		"value": value,
		"unit":  "factor",
	}
}

func extractViaIndex(a ArticleInfo) map[string]any {
	year, month := extractTimePeriod(a.Title, a.Published)
	value, ok := extractPercentage(a.Title)
	if year == 0 || month == 0 || !ok {
		return nil
	}
	return map[string]any{
		"year":  year,
		"month": month,
		"value": value,
		"unit":  "percent",
	}
}

func extractBatteryMakerMonthlyData(a ArticleInfo, c Classification) map[string]any {
	year, month := extractTimePeriod(a.Title, a.Published)
	value, ok := extractIndustryValue(a.Title, true)

	maker := normalizeBatteryMaker(c.Dimensions["maker"], a.Title)

	if year == 0 || month == 0 || !ok || maker == "" {
		return nil
	}

	data := map[string]any{
		"maker":        maker,
		"year":         year,
		"month":        month,
		"installation": value,
		"unit":         "GWh",
	}
	addChanges(data, a.Title, "yoyChange", "momChange")
	return data
}

func normalizeBatteryMaker(maker, title string) string {
	if maker != "" {
		makerLower := strings.ToLower(maker)
		for _, m := range batteryMakerNames {
			if m.keyword == makerLower || strings.Contains(makerLower, m.keyword) {
				return m.value
			}
		}
		return maker
	}
	titleLower := strings.ToLower(title)
	for _, m := range batteryMakerNames {
		if containsWord(titleLower, m.keyword) {
			return m.value
		}
	}
	return ""
}

func extractPlantExportsData(a ArticleInfo) map[string]any {
	year, month := extractTimePeriod(a.Title, a.Published)
	value, ok := extractIndustryValue(a.Title, false)

	titleLower := strings.ToLower(a.Title)
	var plant, brand string
	for _, p := range plantMappings {
		if strings.Contains(titleLower, p.keyword) {
			plant = p.plant
			brand = p.brand
			break
		}
	}

	if year == 0 || month == 0 || !ok || plant == "" {
		return nil
	}

	data := map[string]any{
		"plant": plant,
		"brand": brand,
		"year":  year,
		"month": month,
		"value": value,
		"unit":  "vehicles",
	}
	addChanges(data, a.Title, "yoyChange", "momChange")
	return data
}

func extractNevSalesSummaryData(a ArticleInfo) map[string]any {
	year, month := extractTimePeriod(a.Title, a.Published)
	value, ok := extractIndustryValue(a.Title, false)

	m := dateRangePattern.FindStringSubmatch(a.Title)
	if m == nil || !ok {
		return nil
	}

	if year == 0 {
		year = time.Now().Year()
		if !a.Published.IsZero() {
			year = a.Published.Year()
		}
	}

	startDay, _ := strconv.Atoi(m[2])
	endDay, _ := strconv.Atoi(m[3])

	if m[1] != "" {
		if mn, found := monthByName[strings.ToLower(m[1])]; found {
			month = mn
		}
	}
	if month == 0 {
		month = int(time.Now().Month())
		if !a.Published.IsZero() {
			month = int(a.Published.Month())
		}
	}

	data := map[string]any{
		"dataSource":  "CPCA",
		"year":        year,
		"startDate":   fmt.Sprintf("%02d-%02d", month, startDay),
		"endDate":     fmt.Sprintf("%02d-%02d", month, endDay),
		"retailSales": value,
		"unit":        "vehicles",
	}
	addChanges(data, a.Title, "retailYoy", "retailMom")
	return data
}

func extractAutomakerRankingsTemplate(a ArticleInfo) (map[string]any, bool, string) {
	year, month := extractTimePeriod(a.Title, a.Published)
	if year == 0 || month == 0 {
		return nil, false, ""
	}
	return map[string]any{
		"year":       year,
		"month":      month,
		"dataSource": "CPCA",
	}, true, OCRRankings
}

func extractBatteryMakerRankingsTemplate(a ArticleInfo, c Classification) (map[string]any, bool, string) {
	year, month := extractTimePeriod(a.Title, a.Published)
	if year == 0 {
		return nil, false, ""
	}

	scope := c.Dimensions["scope"]
	if scope == "" {
		scope = "CHINA"
	}
	dataSource := "CABIA"
	if scope != "CHINA" {
		dataSource = "SNE"
	}

	data := map[string]any{
		"year":       year,
		"dataSource": dataSource,
		"scope":      scope,
	}
	if month != 0 {
		data["month"] = month
	}
	return data, true, OCRRankings
}

func addChanges(data map[string]any, title, yoyKey, momKey string) {
	yoy, mom := extractTitleChanges(title)
	if yoy != nil {
		data[yoyKey] = *yoy
	}
	if mom != nil {
		data[momKey] = *mom
	}
}
