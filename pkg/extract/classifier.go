package extract

import (
	"regexp"
	"strings"

	"ev-platform-be/pkg/evtables"
)

// Article types describing how an article should be processed.
const (
	TypeChinaPassengerInventory    = "CHINA_PASSENGER_INVENTORY"
	TypeChinaBatteryInstallation   = "CHINA_BATTERY_INSTALLATION"
	TypeCaamNevSales               = "CAAM_NEV_SALES"
	TypeChinaDealerInventoryFactor = "CHINA_DEALER_INVENTORY_FACTOR"
	TypeCpcaNevRetail              = "CPCA_NEV_RETAIL"
	TypeCpcaNevProduction          = "CPCA_NEV_PRODUCTION"
	TypeChinaViaIndex              = "CHINA_VIA_INDEX"
	TypeBatteryMakerMonthly        = "BATTERY_MAKER_MONTHLY"
	TypePlantExports               = "PLANT_EXPORTS"
	TypeAutomakerRankings          = "AUTOMAKER_RANKINGS"
	TypeBatteryMakerRankings       = "BATTERY_MAKER_RANKINGS"
	TypeNevSalesSummary            = "NEV_SALES_SUMMARY"
	TypeBrandMetric                = "BRAND_METRIC"
	TypeModelBreakdown             = "MODEL_BREAKDOWN"
	TypeRegionalData               = "REGIONAL_DATA"
	TypeVehicleSpec                = "VEHICLE_SPEC"
	TypeSkip                       = "SKIP"
)

// Kinds of image content the OCR prompts are tuned for.
const (
	OCRChart    = "chart"
	OCRTrend    = "trend"
	OCRRankings = "rankings"
	OCRMetrics  = "metrics"
	OCRSpecs    = "specs"
)

// Classification is the processing decision for one article.
type Classification struct {
	Type        string
	TargetTable string // empty for SKIP
	NeedsOCR    bool
	Dimensions  map[string]string
	Confidence  float64
	OCRDataType string
}

var (
	passengerInventoryPatterns = compileAll(
		`passenger\s*car\s*inventor`,
		`china\s*(?:auto|car|vehicle)\s*inventor`,
	)
	chinaBatteryPatterns = compileAll(
		`china\s*(?:ev\s*)?battery\s*install`,
		`power\s*battery\s*install.*china`,
		`china\s*power\s*battery`,
	)
	caamPatterns = compileAll(
		`caam\s*(?:nev|ev|new\s*energy)`,
		`caam.*sales`,
		`nev\s*sales.*(?:by\s*)?caam`,
		`sales\s*data\s*(?:by\s*)?caam`,
	)
	dealerInventoryPatterns = compileAll(
		`dealer\s*inventor.*(?:factor|coefficient|ratio)`,
		`inventor.*(?:factor|coefficient).*dealer`,
	)
	cpcaRetailPatterns = compileAll(
		`cpca.*nev.*retail`,
		`cpca.*retail.*nev`,
		`nev\s*retail\s*sales.*cpca`,
		`nev\s*retail\s*(?:data\s*)?(?:by\s*)?cpca`,
		`retail\s*(?:data|sales)\s*(?:by\s*)?cpca`,
	)
	cpcaProductionPatterns = compileAll(
		`cpca.*nev.*production`,
		`cpca.*production.*nev`,
		`nev\s*production.*cpca`,
		`nev\s*production\s*(?:data\s*)?(?:by\s*)?cpca`,
		`production\s*(?:data|output)\s*(?:by\s*)?cpca`,
	)
	viaIndexPatterns = compileAll(
		`via\s*index`,
		`vehicle\s*inventory\s*alert\s*index`,
		`inventory\s*alert\s*index`,
	)
	batteryMakerMonthlyPatterns = compileAll(
		`\b(?:catl|byd|lg|sk|panasonic|calb|gotion|eve|sunwoda)\b.*(?:battery|install|gwh)`,
		`(?:battery|install|gwh).*\b(?:catl|byd|lg|sk|panasonic|calb|gotion|eve|sunwoda)\b`,
	)
	plantExportsPatterns = compileAll(
		`(?:tesla|byd).*(?:shanghai|shenzhen|changsha).*export`,
		`(?:shanghai|shenzhen|changsha).*(?:plant|factory).*export`,
		`export.*(?:tesla|byd).*(?:shanghai|shenzhen|changsha)`,
	)
	nevSalesSummaryPatterns = compileAll(
		`nev\s*sales.*\d{1,2}[-/]\d{1,2}`,
		`\d{1,2}[-/]\d{1,2}.*nev\s*sales`,
		`cpca.*weekly.*nev`,
		`weekly.*cpca.*nev`,
	)
	automakerRankingsPatterns = compileAll(
		`cpca.*(?:top|ranking).*(?:automaker|brand|maker)`,
		`(?:top|ranking).*(?:automaker|brand|maker).*cpca`,
		`top[-\s]*(?:10|20|15).*(?:automaker|brand|maker)`,
		`(?:automaker|brand|maker).*(?:top|ranking)`,
	)
	batteryMakerRankingsPatterns = compileAll(
		`top.*battery\s*maker`,
		`battery\s*maker.*(?:ranking|top)`,
		`(?:cabia|sne).*battery.*ranking`,
		`global.*battery.*ranking`,
	)

	// Numbers formatted like real quantities: comma groups or 4+ digits.
	tableNumberPattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})+|\d{4,}`)
)

var specKeywords = []string{"main specs", "specifications", "spec sheet", "key specs"}

var breakdownKeywords = []string{"breakdown", "model breakdown", "by model"}

var classifierRegions = []string{
	"shanghai", "beijing", "guangdong", "shenzhen", "hangzhou",
	"guangzhou", "jiangsu", "zhejiang", "sichuan", "chengdu",
	"tianjin", "chongqing", "hubei", "wuhan",
}

var batteryMakers = []string{
	"catl", "byd", "lg", "sk", "panasonic", "calb", "gotion",
	"eve", "sunwoda", "svolt", "lishen", "farasis",
}

var salesKeywords = []string{"deliveries", "delivery", "sales", "sold", "wholesale"}

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(p))
	}
	return res
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func extractBatteryMaker(titleLower string) string {
	for _, maker := range batteryMakers {
		if containsWord(titleLower, maker) {
			return strings.ToUpper(maker)
		}
	}
	return ""
}

func extractClassifierRegion(titleLower string) string {
	for _, region := range classifierRegions {
		if strings.Contains(titleLower, region) {
			return strings.ToUpper(region[:1]) + region[1:]
		}
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// Classify decides the target table and processing strategy for an
// article. Specific indicators are matched before generic sales
// wording, so "dealer inventory factor" never ends up as a brand
// metric. Rankings tables always go through OCR since the full table
// lives in the image.
func Classify(title, summary string) Classification {
	titleLower := strings.ToLower(title)
	hasNumber := tableNumberPattern.MatchString(title)

	if matchAny(viaIndexPatterns, titleLower) {
		return Classification{
			Type:        TypeChinaViaIndex,
			TargetTable: evtables.ChinaViaIndex,
			NeedsOCR:    !hasNumber,
			Dimensions:  map[string]string{},
			Confidence:  0.95,
			OCRDataType: OCRChart,
		}
	}

	if matchAny(dealerInventoryPatterns, titleLower) {
		return Classification{
			Type:        TypeChinaDealerInventoryFactor,
			TargetTable: evtables.ChinaDealerInventoryFactor,
			NeedsOCR:    !hasNumber,
			Dimensions:  map[string]string{},
			Confidence:  0.95,
			OCRDataType: OCRChart,
		}
	}

	if matchAny(batteryMakerRankingsPatterns, titleLower) {
		scope := "CHINA"
		if strings.Contains(titleLower, "global") {
			scope = "GLOBAL"
		}
		return Classification{
			Type:        TypeBatteryMakerRankings,
			TargetTable: evtables.BatteryMakerRankings,
			NeedsOCR:    true,
			Dimensions:  map[string]string{"scope": scope},
			Confidence:  0.9,
			OCRDataType: OCRRankings,
		}
	}

	if matchAny(automakerRankingsPatterns, titleLower) {
		return Classification{
			Type:        TypeAutomakerRankings,
			TargetTable: evtables.AutomakerRankings,
			NeedsOCR:    true,
			Dimensions:  map[string]string{},
			Confidence:  0.9,
			OCRDataType: OCRRankings,
		}
	}

	if matchAny(nevSalesSummaryPatterns, titleLower) {
		return Classification{
			Type:        TypeNevSalesSummary,
			TargetTable: evtables.NevSalesSummary,
			NeedsOCR:    !hasNumber,
			Dimensions:  map[string]string{},
			Confidence:  0.9,
			OCRDataType: OCRTrend,
		}
	}

	if matchAny(plantExportsPatterns, titleLower) {
		return Classification{
			Type:        TypePlantExports,
			TargetTable: evtables.PlantExports,
			NeedsOCR:    !hasNumber,
			Dimensions:  map[string]string{},
			Confidence:  0.9,
			OCRDataType: OCRChart,
		}
	}

	if maker := extractBatteryMaker(titleLower); maker != "" && matchAny(batteryMakerMonthlyPatterns, titleLower) {
		return Classification{
			Type:        TypeBatteryMakerMonthly,
			TargetTable: evtables.BatteryMakerMonthly,
			NeedsOCR:    !hasNumber,
			Dimensions:  map[string]string{"maker": maker},
			Confidence:  0.9,
			OCRDataType: OCRChart,
		}
	}

	if matchAny(chinaBatteryPatterns, titleLower) {
		return Classification{
			Type:        TypeChinaBatteryInstallation,
			TargetTable: evtables.ChinaBatteryInstallation,
			NeedsOCR:    !hasNumber,
			Dimensions:  map[string]string{},
			Confidence:  0.9,
			OCRDataType: OCRChart,
		}
	}

	if matchAny(caamPatterns, titleLower) {
		return Classification{
			Type:        TypeCaamNevSales,
			TargetTable: evtables.CaamNevSales,
			NeedsOCR:    !hasNumber,
			Dimensions:  map[string]string{},
			Confidence:  0.9,
			OCRDataType: OCRChart,
		}
	}

	if matchAny(cpcaProductionPatterns, titleLower) {
		return Classification{
			Type:        TypeCpcaNevProduction,
			TargetTable: evtables.CpcaNevProduction,
			NeedsOCR:    !hasNumber,
			Dimensions:  map[string]string{},
			Confidence:  0.9,
			OCRDataType: OCRChart,
		}
	}

	if matchAny(cpcaRetailPatterns, titleLower) {
		return Classification{
			Type:        TypeCpcaNevRetail,
			TargetTable: evtables.CpcaNevRetail,
			NeedsOCR:    !hasNumber,
			Dimensions:  map[string]string{},
			Confidence:  0.9,
			OCRDataType: OCRChart,
		}
	}

	if matchAny(passengerInventoryPatterns, titleLower) {
		return Classification{
			Type:        TypeChinaPassengerInventory,
			TargetTable: evtables.ChinaPassengerInventory,
			NeedsOCR:    !hasNumber,
			Dimensions:  map[string]string{},
			Confidence:  0.9,
			OCRDataType: OCRChart,
		}
	}

	if containsAny(titleLower, specKeywords) {
		return Classification{
			Type:        TypeVehicleSpec,
			TargetTable: evtables.VehicleSpec,
			NeedsOCR:    true,
			Dimensions:  map[string]string{},
			Confidence:  0.95,
			OCRDataType: OCRSpecs,
		}
	}

	if containsAny(titleLower, breakdownKeywords) {
		return Classification{
			Type:        TypeModelBreakdown,
			TargetTable: evtables.EVMetric,
			NeedsOCR:    !hasNumber,
			Dimensions:  map[string]string{"vehicleModel": "parse_from_content"},
			Confidence:  0.9,
		}
	}

	if region := extractClassifierRegion(titleLower); region != "" {
		return Classification{
			Type:        TypeRegionalData,
			TargetTable: evtables.EVMetric,
			NeedsOCR:    !hasNumber,
			Dimensions:  map[string]string{"region": region},
			Confidence:  0.9,
		}
	}

	if containsAny(titleLower, salesKeywords) {
		return Classification{
			Type:        TypeBrandMetric,
			TargetTable: evtables.EVMetric,
			NeedsOCR:    !hasNumber,
			Dimensions:  map[string]string{},
			Confidence:  0.95,
		}
	}

	return Classification{
		Type:       TypeSkip,
		Dimensions: map[string]string{},
		Confidence: 0.5,
	}
}
