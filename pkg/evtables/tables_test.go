package evtables

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		alias    string
		want     string
		wantOk   bool
	}{
		{"ChinaBatteryInstallation", ChinaBatteryInstallation, true},
		{"china-battery-installation", ChinaBatteryInstallation, true},
		{"china_battery_installation", ChinaBatteryInstallation, true},
		{"battery installations", ChinaBatteryInstallation, true},
		{"ev metrics", EVMetric, true},
		{"EV-Metrics", EVMetric, true},
		{"vehicle specs", VehicleSpec, true},
		{"VIA index", ChinaViaIndex, true},
		{"inventory alert index", ChinaViaIndex, true},
		{"automaker ranking", AutomakerRankings, true},
		{"Automaker Rankings", AutomakerRankings, true},
		{"nio power", NioPowerSnapshot, true},
		{"cpca nev retail", CpcaNevRetail, true},
		{"plant exports", PlantExports, true},
		{"", "", false},
		{"user accounts", "", false},
		{"notes", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			got, ok := Normalize(tt.alias)
			if ok != tt.wantOk {
				t.Fatalf("Normalize(%q) ok = %v, want %v", tt.alias, ok, tt.wantOk)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.alias, got, tt.want)
			}
		})
	}
}

func TestEndpointRoundTrip(t *testing.T) {
	for _, table := range All() {
		ep, ok := Endpoint(table.Name)
		if !ok {
			t.Fatalf("Endpoint(%q) not found", table.Name)
		}
		if ep != table.Endpoint {
			t.Errorf("Endpoint(%q) = %q, want %q", table.Name, ep, table.Endpoint)
		}

		name, ok := ByEndpoint(ep)
		if !ok || name != table.Name {
			t.Errorf("ByEndpoint(%q) = %q, %v, want %q", ep, name, ok, table.Name)
		}
	}

	if _, ok := Endpoint("Unknown"); ok {
		t.Error("Endpoint for unknown table should not resolve")
	}
}

func TestRequiredFieldsCoverage(t *testing.T) {
	// Every industry table fed by the extraction flow needs a required
	// set, so that malformed OCR output is caught before submission.
	for _, table := range All() {
		if !table.Industry || table.Name == NioPowerSnapshot {
			continue
		}
		fields, ok := RequiredFields(table.Name)
		if !ok {
			t.Errorf("RequiredFields(%q) missing", table.Name)
			continue
		}
		for _, want := range []string{"year", "sourceUrl", "sourceTitle"} {
			found := false
			for _, f := range fields {
				if f == want {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("RequiredFields(%q) missing %q", table.Name, want)
			}
		}
	}

	for _, name := range []string{EVMetric, VehicleSpec, NioPowerSnapshot} {
		if _, ok := RequiredFields(name); ok {
			t.Errorf("RequiredFields(%q) should not be defined", name)
		}
	}
}

func TestIsIndustry(t *testing.T) {
	if !IsIndustry(CaamNevSales) {
		t.Error("CaamNevSales should be an industry table")
	}
	if IsIndustry(EVMetric) {
		t.Error("EVMetric should not be an industry table")
	}
	if IsIndustry(VehicleSpec) {
		t.Error("VehicleSpec should not be an industry table")
	}
	if IsIndustry("Nope") {
		t.Error("unknown table should not be an industry table")
	}
}
