package model

import (
	"reflect"
	"strings"
	"testing"

	"ev-platform-be/pkg/evtables"
)

func TestIndustryRegistryCoversAllTables(t *testing.T) {
	for _, table := range evtables.All() {
		entry, ok := IndustryTableFor(table.Name)
		if !ok {
			t.Errorf("no registry entry for %s", table.Name)
			continue
		}
		if len(entry.Columns) == 0 {
			t.Errorf("%s: no columns derived from model", table.Name)
		}
		for _, key := range entry.Keys {
			found := false
			for _, col := range entry.Columns {
				if col == key {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("%s: key %q is not a model column", table.Name, key)
			}
		}
	}
}

func TestIndustryModelForReturnsFreshPointers(t *testing.T) {
	a, ok := IndustryModelFor(evtables.CaamNevSales)
	if !ok {
		t.Fatal("CaamNevSales not registered")
	}
	b, _ := IndustryModelFor(evtables.CaamNevSales)
	if a == b {
		t.Error("IndustryModelFor returned the same pointer twice")
	}
	if _, ok := a.(*CaamNevSales); !ok {
		t.Errorf("IndustryModelFor(CaamNevSales) = %T, want *CaamNevSales", a)
	}

	if _, ok := IndustryModelFor("Users"); ok {
		t.Error("IndustryModelFor accepted an unknown table")
	}
}

func TestIndustryUpsertKeys(t *testing.T) {
	tests := []struct {
		table string
		keys  []string
	}{
		{evtables.CaamNevSales, []string{"year", "month"}},
		{evtables.BatteryMakerMonthly, []string{"year", "month", "maker"}},
		{evtables.PlantExports, []string{"year", "month", "plant"}},
		{evtables.NevSalesSummary, []string{"year", "startDate", "endDate"}},
		{evtables.AutomakerRankings, []string{"year", "month", "ranking"}},
		{evtables.BatteryMakerRankings, []string{"year", "month", "scope", "ranking"}},
		{evtables.NioPowerSnapshot, nil},
		{evtables.EVMetric, []string{"brand", "metric", "period", "vehicleModel", "region"}},
	}
	for _, tt := range tests {
		entry, ok := IndustryTableFor(tt.table)
		if !ok {
			t.Errorf("%s not registered", tt.table)
			continue
		}
		if !reflect.DeepEqual(entry.Keys, tt.keys) {
			t.Errorf("%s keys = %v, want %v", tt.table, entry.Keys, tt.keys)
		}
	}
}

// The generic repository maps json names to columns by snake-casing, so
// fields like yoyChange must pin their column explicitly.
func TestChangeColumnsArePinned(t *testing.T) {
	for _, table := range evtables.All() {
		entry, _ := IndustryTableFor(table.Name)
		typ := reflect.TypeOf(entry.New()).Elem()
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			jsonName, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			var want string
			switch jsonName {
			case "yoyChange":
				want = "column:yoy_change"
			case "momChange":
				want = "column:mom_change"
			default:
				continue
			}
			if !strings.Contains(field.Tag.Get("gorm"), want) {
				t.Errorf("%s.%s: gorm tag %q missing %q", table.Name, field.Name, field.Tag.Get("gorm"), want)
			}
		}
	}
}

func TestIndustryColumnsIncludeProvenance(t *testing.T) {
	for _, table := range evtables.All() {
		if table.Name == evtables.NioPowerSnapshot {
			continue
		}
		entry, _ := IndustryTableFor(table.Name)
		for _, want := range []string{"sourceUrl", "sourceTitle"} {
			found := false
			for _, col := range entry.Columns {
				if col == want {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("%s: missing %s column", table.Name, want)
			}
		}
	}
}
