package extract

import (
	"testing"

	"ev-platform-be/pkg/evtables"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		wantType  string
		wantTable string
		wantOCR   bool
		dimKey    string
		dimVal    string
	}{
		{
			name:      "passenger car inventory",
			title:     "China passenger car inventory reaches 3.2 million units in Jan",
			wantType:  TypeChinaPassengerInventory,
			wantTable: evtables.ChinaPassengerInventory,
			wantOCR:   true,
		},
		{
			name:      "china battery installation",
			title:     "China EV battery installations hit 45.2 GWh in Jan",
			wantType:  TypeChinaBatteryInstallation,
			wantTable: evtables.ChinaBatteryInstallation,
			wantOCR:   true,
		},
		{
			name:      "caam nev sales",
			title:     "CAAM NEV sales: 1.2 million vehicles in Jan 2025",
			wantType:  TypeCaamNevSales,
			wantTable: evtables.CaamNevSales,
			wantOCR:   false,
		},
		{
			name:      "dealer inventory factor",
			title:     "China dealer inventory factor rises to 1.31 in Jan",
			wantType:  TypeChinaDealerInventoryFactor,
			wantTable: evtables.ChinaDealerInventoryFactor,
			wantOCR:   true,
		},
		{
			name:      "cpca nev retail",
			title:     "CPCA: NEV retail sales reach 850,000 in Jan",
			wantType:  TypeCpcaNevRetail,
			wantTable: evtables.CpcaNevRetail,
			wantOCR:   false,
		},
		{
			name:      "cpca nev production",
			title:     "CPCA: NEV production hits 920,000 in Jan",
			wantType:  TypeCpcaNevProduction,
			wantTable: evtables.CpcaNevProduction,
			wantOCR:   false,
		},
		{
			name:      "via index",
			title:     "China vehicle inventory alert index rises to 59.4% in Jan",
			wantType:  TypeChinaViaIndex,
			wantTable: evtables.ChinaViaIndex,
			wantOCR:   true,
		},
		{
			name:      "battery maker monthly catl",
			title:     "CATL battery installations in Jan: 25.6 GWh",
			wantType:  TypeBatteryMakerMonthly,
			wantTable: evtables.BatteryMakerMonthly,
			wantOCR:   true,
			dimKey:    "maker",
			dimVal:    "CATL",
		},
		{
			name:      "battery maker monthly byd",
			title:     "BYD battery installations hit 12.3 GWh in Jan",
			wantType:  TypeBatteryMakerMonthly,
			wantTable: evtables.BatteryMakerMonthly,
			wantOCR:   true,
			dimKey:    "maker",
			dimVal:    "BYD",
		},
		{
			name:      "plant exports",
			title:     "Tesla Shanghai exports 35,000 vehicles in Jan",
			wantType:  TypePlantExports,
			wantTable: evtables.PlantExports,
			wantOCR:   false,
		},
		{
			name:      "nev sales summary date range",
			title:     "CPCA: NEV sales Jan 1-18 reach 420,000",
			wantType:  TypeNevSalesSummary,
			wantTable: evtables.NevSalesSummary,
			wantOCR:   false,
		},
		{
			name:      "automaker rankings",
			title:     "CPCA top-selling automakers Jan 2025",
			wantType:  TypeAutomakerRankings,
			wantTable: evtables.AutomakerRankings,
			wantOCR:   true,
		},
		{
			name:      "battery rankings china scope",
			title:     "Top battery makers China Jan 2025",
			wantType:  TypeBatteryMakerRankings,
			wantTable: evtables.BatteryMakerRankings,
			wantOCR:   true,
			dimKey:    "scope",
			dimVal:    "CHINA",
		},
		{
			name:      "battery rankings global scope",
			title:     "Global battery maker rankings 2024",
			wantType:  TypeBatteryMakerRankings,
			wantTable: evtables.BatteryMakerRankings,
			wantOCR:   true,
			dimKey:    "scope",
			dimVal:    "GLOBAL",
		},
		{
			name:      "brand deliveries",
			title:     "Xpeng deliveries in Jan: 20,011",
			wantType:  TypeBrandMetric,
			wantTable: evtables.EVMetric,
			wantOCR:   false,
		},
		{
			name:      "brand sales with change",
			title:     "BYD NEV sales in Jan: 210,051, down 34% YoY",
			wantType:  TypeBrandMetric,
			wantTable: evtables.EVMetric,
			wantOCR:   false,
		},
		{
			name:      "regional license plates",
			title:     "Shanghai Apr NEV license plates: 45,000",
			wantType:  TypeRegionalData,
			wantTable: evtables.EVMetric,
			wantOCR:   false,
			dimKey:    "region",
			dimVal:    "Shanghai",
		},
		{
			name:      "vehicle spec sheet",
			title:     "NIO EC7: Main specs",
			wantType:  TypeVehicleSpec,
			wantTable: evtables.VehicleSpec,
			wantOCR:   true,
		},
		{
			name:      "model breakdown",
			title:     "Tesla Apr sales breakdown: 13,196 Model 3s",
			wantType:  TypeModelBreakdown,
			wantTable: evtables.EVMetric,
			wantOCR:   false,
			dimKey:    "vehicleModel",
			dimVal:    "parse_from_content",
		},
		{
			name:     "unrelated article skipped",
			title:    "NIO partners with charging network operator",
			wantType: TypeSkip,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.title, "")

			if got.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", got.Type, tt.wantType)
			}
			if got.TargetTable != tt.wantTable {
				t.Errorf("TargetTable = %q, want %q", got.TargetTable, tt.wantTable)
			}
			if got.NeedsOCR != tt.wantOCR {
				t.Errorf("NeedsOCR = %v, want %v", got.NeedsOCR, tt.wantOCR)
			}
			if tt.dimKey != "" {
				if got.Dimensions[tt.dimKey] != tt.dimVal {
					t.Errorf("Dimensions[%q] = %q, want %q", tt.dimKey, got.Dimensions[tt.dimKey], tt.dimVal)
				}
			}
		})
	}
}

func TestClassifyOCRDataType(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Global battery maker rankings 2024", OCRRankings},
		{"CPCA: NEV sales Jan 1-18 reach 420,000", OCRTrend},
		{"NIO EC7: Main specs", OCRSpecs},
		{"China vehicle inventory alert index rises to 59.4% in Jan", OCRChart},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := Classify(tt.title, ""); got.OCRDataType != tt.want {
				t.Errorf("OCRDataType = %q, want %q", got.OCRDataType, tt.want)
			}
		})
	}
}
