package model

import (
	"reflect"
	"strings"

	"ev-platform-be/pkg/evtables"
)

// IndustryTable binds a canonical table name to its gorm model.
// Keys lists the json fields forming the upsert key; an empty Keys means
// the table is append-only. Columns is filled from the model's json tags.
type IndustryTable struct {
	New     func() any
	Keys    []string
	Columns []string
}

var industryTables = map[string]IndustryTable{
	evtables.ChinaPassengerInventory: {
		New:  func() any { return &ChinaPassengerInventory{} },
		Keys: []string{"year", "month"},
	},
	evtables.ChinaBatteryInstallation: {
		New:  func() any { return &ChinaBatteryInstallation{} },
		Keys: []string{"year", "month"},
	},
	evtables.CaamNevSales: {
		New:  func() any { return &CaamNevSales{} },
		Keys: []string{"year", "month"},
	},
	evtables.ChinaDealerInventoryFactor: {
		New:  func() any { return &ChinaDealerInventoryFactor{} },
		Keys: []string{"year", "month"},
	},
	evtables.CpcaNevRetail: {
		New:  func() any { return &CpcaNevRetail{} },
		Keys: []string{"year", "month"},
	},
	evtables.CpcaNevProduction: {
		New:  func() any { return &CpcaNevProduction{} },
		Keys: []string{"year", "month"},
	},
	evtables.ChinaViaIndex: {
		New:  func() any { return &ChinaViaIndex{} },
		Keys: []string{"year", "month"},
	},
	evtables.BatteryMakerMonthly: {
		New:  func() any { return &BatteryMakerMonthly{} },
		Keys: []string{"year", "month", "maker"},
	},
	evtables.PlantExports: {
		New:  func() any { return &PlantExport{} },
		Keys: []string{"year", "month", "plant"},
	},
	evtables.NevSalesSummary: {
		New:  func() any { return &NevSalesSummary{} },
		Keys: []string{"year", "startDate", "endDate"},
	},
	evtables.AutomakerRankings: {
		New:  func() any { return &AutomakerRanking{} },
		Keys: []string{"year", "month", "ranking"},
	},
	evtables.BatteryMakerRankings: {
		New:  func() any { return &BatteryMakerRanking{} },
		Keys: []string{"year", "month", "scope", "ranking"},
	},
	evtables.NioPowerSnapshot: {
		New: func() any { return &NioPowerSnapshot{} },
	},
	evtables.EVMetric: {
		New:  func() any { return &EVMetric{} },
		Keys: []string{"brand", "metric", "period", "vehicleModel", "region"},
	},
	evtables.VehicleSpec: {
		New:  func() any { return &VehicleSpec{} },
		Keys: []string{"brand", "model"},
	},
}

func init() {
	for name, t := range industryTables {
		t.Columns = columnsOf(t.New())
		industryTables[name] = t
	}
}

func columnsOf(m any) []string {
	t := reflect.TypeOf(m).Elem()
	cols := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		cols = append(cols, name)
	}
	return cols
}

// IndustryModelFor returns a fresh model pointer for a canonical table name.
func IndustryModelFor(table string) (any, bool) {
	t, ok := industryTables[table]
	if !ok {
		return nil, false
	}
	return t.New(), true
}

// IndustryTableFor returns the registry entry for a canonical table name.
func IndustryTableFor(table string) (IndustryTable, bool) {
	t, ok := industryTables[table]
	return t, ok
}
