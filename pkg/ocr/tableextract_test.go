package ocr

import "testing"

func sampleRows() []map[string]any {
	return []map[string]any{
		{"rank": 1, "brand": "BYD", "value": 339854, "mom": 13.6, "yoy": -15.7, "share": 25.4},
		{"rank": 2, "brand": "Tesla", "value": 68280, "mom": -5.3, "yoy": 15.2, "share": 5.1},
		{"rank": 3, "brand": "Li Auto", "value": 51952, "mom": 8.2, "yoy": 42.1, "share": 3.9},
		{"rank": 4, "brand": "NIO", "value": 20544, "mom": -12.1, "yoy": -25.3, "share": 1.5},
		{"rank": 5, "brand": "XPeng", "value": 20011, "mom": -34.1, "yoy": -46.7, "share": 1.5},
	}
}

func TestExtractRankings(t *testing.T) {
	metrics := ExtractRankings(sampleRows(), TableContext{
		MetricType: "SALES",
		Year:       2025,
		Period:     1,
		PeriodType: "MONTHLY",
		DataSource: "CPCA",
	})

	if len(metrics) != 5 {
		t.Fatalf("len(metrics) = %d, want 5", len(metrics))
	}

	wantBrands := []string{"BYD", "TESLA_CHINA", "LI_AUTO", "NIO", "XPENG"}
	for i, want := range wantBrands {
		if metrics[i].Brand != want {
			t.Errorf("metrics[%d].Brand = %q, want %q", i, metrics[i].Brand, want)
		}
	}

	first := metrics[0]
	if first.Value != 339854 {
		t.Errorf("Value = %v, want 339854", first.Value)
	}
	if first.Year != 2025 || first.Period != 1 || first.PeriodType != "MONTHLY" {
		t.Errorf("period = %d/%d/%s, want 2025/1/MONTHLY", first.Year, first.Period, first.PeriodType)
	}
	if first.YoYChange == nil || *first.YoYChange != -15.7 {
		t.Errorf("YoYChange = %v, want -15.7", first.YoYChange)
	}
	if first.MoMChange == nil || *first.MoMChange != 13.6 {
		t.Errorf("MoMChange = %v, want 13.6", first.MoMChange)
	}
	if first.MarketShare == nil || *first.MarketShare != 25.4 {
		t.Errorf("MarketShare = %v, want 25.4", first.MarketShare)
	}
	if first.Ranking == nil || *first.Ranking != 1 {
		t.Errorf("Ranking = %v, want 1", first.Ranking)
	}
	if first.Unit != "vehicles" || first.Confidence != 0.9 {
		t.Errorf("unit/confidence = %s/%v", first.Unit, first.Confidence)
	}
}

func TestExtractRankingsDefaults(t *testing.T) {
	metrics := ExtractRankings([]map[string]any{
		{"brand": "BYD", "value": 100000},
	}, TableContext{})

	if len(metrics) != 1 {
		t.Fatalf("len(metrics) = %d, want 1", len(metrics))
	}
	m := metrics[0]
	if m.MetricType != "SALES" {
		t.Errorf("MetricType = %q, want SALES", m.MetricType)
	}
	if m.PeriodType != "MONTHLY" {
		t.Errorf("PeriodType = %q, want MONTHLY", m.PeriodType)
	}
	if m.DataSource != "CPCA" {
		t.Errorf("DataSource = %q, want CPCA", m.DataSource)
	}
	if m.Year == 0 || m.Period == 0 {
		t.Errorf("year/period = %d/%d, want current date defaults", m.Year, m.Period)
	}
}

func TestExtractRankingsSkipsIncompleteRows(t *testing.T) {
	metrics := ExtractRankings([]map[string]any{
		{"rank": 1, "value": 50000},                  // no brand
		{"rank": 2, "brand": "Tesla"},                // no value
		{"rank": 3, "brand": "NIO", "value": 20544},  // ok
		{"rank": 4, "brand": "BYD", "value": "junk"}, // unparseable value
	}, TableContext{Year: 2025, Period: 2})

	if len(metrics) != 1 {
		t.Fatalf("len(metrics) = %d, want 1", len(metrics))
	}
	if metrics[0].Brand != "NIO" {
		t.Errorf("Brand = %q, want NIO", metrics[0].Brand)
	}
}

func TestExtractRankingsStringValues(t *testing.T) {
	metrics := ExtractRankings([]map[string]any{
		{"Rank": 1, "Brand": "BYD", "Sales": "339,854", "YoY": "-15.7%"},
	}, TableContext{Year: 2025, Period: 1})

	if len(metrics) != 1 {
		t.Fatalf("len(metrics) = %d, want 1", len(metrics))
	}
	m := metrics[0]
	if m.Value != 339854 {
		t.Errorf("Value = %v, want 339854", m.Value)
	}
	if m.YoYChange == nil || *m.YoYChange != -15.7 {
		t.Errorf("YoYChange = %v, want -15.7", m.YoYChange)
	}
}

func TestNormalizeBrand(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"BYD", "BYD"},
		{"Tesla China", "TESLA_CHINA"},
		{"Tesla", "TESLA_CHINA"},
		{"Ideal", "LI_AUTO"},
		{"Li Xiang", "LI_AUTO"},
		{"Total", "INDUSTRY"},
		{"SAIC-GM-Wuling", "OTHER_BRAND"},
		{"Geely Galaxy", "OTHER_BRAND"},
		{"Lynk & Co", "OTHER_BRAND"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeBrand(tt.raw); got != tt.want {
			t.Errorf("NormalizeBrand(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestMetricPayload(t *testing.T) {
	yoy := -15.7
	rank := 1
	m := Metric{
		Brand:      "BYD",
		MetricType: "SALES",
		Value:      339854,
		Year:       2025,
		Period:     1,
		PeriodType: "MONTHLY",
		YoYChange:  &yoy,
		Ranking:    &rank,
		DataSource: "CPCA",
		Unit:       "vehicles",
		Confidence: 0.9,
	}

	payload := m.Payload()
	if payload["brand"] != "BYD" || payload["metric"] != "SALES" {
		t.Errorf("payload identity fields = %v/%v", payload["brand"], payload["metric"])
	}
	if payload["yoyChange"] != -15.7 {
		t.Errorf("yoyChange = %v, want -15.7", payload["yoyChange"])
	}
	if payload["momChange"] != nil {
		t.Errorf("momChange = %v, want nil", payload["momChange"])
	}
	if payload["ranking"] != 1 {
		t.Errorf("ranking = %v, want 1", payload["ranking"])
	}
	if payload["vehicleModel"] != nil {
		t.Errorf("vehicleModel = %v, want nil", payload["vehicleModel"])
	}
	if payload["dataSource"] != "CPCA" {
		t.Errorf("dataSource = %v, want CPCA", payload["dataSource"])
	}
}
