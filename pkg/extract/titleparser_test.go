package extract

import (
	"testing"
	"time"
)

var refDate = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

func TestParseTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantNil bool
		brand   string
		metric  string
		value   float64
		year    int
		month   int
		quarter int
		period  string
	}{
		{
			name:   "monthly delivery with comma value",
			title:  "Xpeng deliveries in Jan: 20,011",
			brand:  "XPENG",
			metric: MetricDelivery,
			value:  20011,
			year:   2025,
			month:  1,
			period: PeriodMonthly,
		},
		{
			name:   "sales with explicit month and year",
			title:  "NIO deliveries in December 2025: 31,138",
			brand:  "NIO",
			metric: MetricDelivery,
			value:  31138,
			year:   2025,
			month:  12,
			period: PeriodMonthly,
		},
		{
			name:    "quarterly deliveries",
			title:   "Li Auto deliveries in Q4 2025: 158,369",
			brand:   "LI_AUTO",
			metric:  MetricDelivery,
			value:   158369,
			year:    2025,
			quarter: 4,
			period:  PeriodQuarterly,
		},
		{
			name:   "value before month",
			title:  "Tesla China sales: 68,280 in January, up 15% YoY",
			brand:  "TESLA_CHINA",
			metric: MetricSales,
			value:  68280,
			year:   2025,
			month:  1,
			period: PeriodMonthly,
		},
		{
			name:   "million scaled industry value",
			title:  "China NEV sales in 2025: 12.4 million",
			brand:  "INDUSTRY",
			metric: MetricSales,
			value:  12_400_000,
			year:   2025,
			month:  1,
			period: PeriodMonthly,
		},
		{
			name:   "license plates map to registrations",
			title:  "Shanghai NEV license plates in Jan: 45,000",
			brand:  "INDUSTRY",
			metric: MetricRegistrations,
			value:  45000,
			year:   2025,
			month:  1,
			period: PeriodMonthly,
		},
		{
			name:    "unknown brand returns nil",
			title:   "CATL battery installations in Jan: 25.6 GWh",
			wantNil: true,
		},
		{
			name:    "no metric keyword returns nil",
			title:   "NIO opens 3,000th battery swap station",
			wantNil: true,
		},
		{
			name:    "battery outside installation context returns nil",
			title:   "Tesla battery pack plant reaches 500,000 cumulative packs",
			wantNil: true,
		},
		{
			name:    "empty title returns nil",
			title:   "",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTitle(tt.title, refDate)

			if tt.wantNil {
				if got != nil {
					t.Fatalf("ParseTitle(%q) = %+v, want nil", tt.title, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseTitle(%q) = nil, want metric", tt.title)
			}

			if got.Brand != tt.brand {
				t.Errorf("Brand = %q, want %q", got.Brand, tt.brand)
			}
			if got.MetricType != tt.metric {
				t.Errorf("MetricType = %q, want %q", got.MetricType, tt.metric)
			}
			if got.Value != tt.value {
				t.Errorf("Value = %v, want %v", got.Value, tt.value)
			}
			if got.Year != tt.year {
				t.Errorf("Year = %d, want %d", got.Year, tt.year)
			}
			if got.Month != tt.month {
				t.Errorf("Month = %d, want %d", got.Month, tt.month)
			}
			if got.Quarter != tt.quarter {
				t.Errorf("Quarter = %d, want %d", got.Quarter, tt.quarter)
			}
			if got.PeriodType != tt.period {
				t.Errorf("PeriodType = %q, want %q", got.PeriodType, tt.period)
			}
		})
	}
}

func TestParseTitleChanges(t *testing.T) {
	got := ParseTitle("BYD NEV sales in Jan: 210,051, down 34.07% year-on-year", refDate)
	if got == nil {
		t.Fatal("ParseTitle returned nil")
	}
	if got.YoYChange == nil || *got.YoYChange != -34.07 {
		t.Errorf("YoYChange = %v, want -34.07", got.YoYChange)
	}
	if got.MoMChange != nil {
		t.Errorf("MoMChange = %v, want nil", *got.MoMChange)
	}
	if got.Category != "NEV" {
		t.Errorf("Category = %q, want NEV", got.Category)
	}

	got = ParseTitle("Tesla China sales: 68,280 in January, up 15% YoY", refDate)
	if got == nil {
		t.Fatal("ParseTitle returned nil")
	}
	if got.YoYChange == nil || *got.YoYChange != 15 {
		t.Errorf("YoYChange = %v, want 15", got.YoYChange)
	}
}

func TestParseTitleModel(t *testing.T) {
	tests := []struct {
		title     string
		wantModel string
	}{
		{"Tesla Apr sales breakdown: 13,196 Model 3s", "3"},
		{"Xiaomi SU7 deliveries in Dec: 25,000", "SU7"},
		{"Zeekr 001 deliveries in Jan: 8,156", "001"},
		{"Xpeng deliveries in Jan: 20,011", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := ParseTitle(tt.title, refDate)
			if got == nil {
				t.Fatalf("ParseTitle(%q) = nil", tt.title)
			}
			if got.VehicleModel != tt.wantModel {
				t.Errorf("VehicleModel = %q, want %q", got.VehicleModel, tt.wantModel)
			}
		})
	}
}

func TestParseTitleRegionAndUnit(t *testing.T) {
	got := ParseTitle("Shanghai NEV license plates in Jan: 45,000", refDate)
	if got == nil {
		t.Fatal("ParseTitle returned nil")
	}
	if got.Region != "Shanghai" {
		t.Errorf("Region = %q, want Shanghai", got.Region)
	}
	if got.Unit != "vehicles" {
		t.Errorf("Unit = %q, want vehicles", got.Unit)
	}
}

func TestNeedsOCR(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Xpeng deliveries in Jan: 20,011", false},
		{"CATL battery installations in Jan: 25.6 GWh", true},
		{"China dealer inventory factor rises to 1.31 in Jan", true},
		{"NIO deliveries hit 31138 in December", false},
		{"BYD posts record monthly deliveries", true},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := NeedsOCR(tt.title); got != tt.want {
				t.Errorf("NeedsOCR(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestHasSignificantNumber(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"deliveries: 20,011", true},
		{"deliveries: 999", false},
		{"installed 45.2 GWh", false},
		{"reached 1000 units", true},
		{"no numbers here", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := HasSignificantNumber(tt.text); got != tt.want {
				t.Errorf("HasSignificantNumber(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
