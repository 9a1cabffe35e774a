// Package evtables is the canonical registry of the platform's data
// tables: the industry time-series and ranking tables fed by the
// aggregation pipeline plus the EV metric and vehicle spec tables.
package evtables

import "strings"

// Canonical table names.
const (
	ChinaPassengerInventory    = "ChinaPassengerInventory"
	ChinaBatteryInstallation   = "ChinaBatteryInstallation"
	CaamNevSales               = "CaamNevSales"
	ChinaDealerInventoryFactor = "ChinaDealerInventoryFactor"
	CpcaNevRetail              = "CpcaNevRetail"
	CpcaNevProduction          = "CpcaNevProduction"
	ChinaViaIndex              = "ChinaViaIndex"
	BatteryMakerMonthly        = "BatteryMakerMonthly"
	PlantExports               = "PlantExports"
	NevSalesSummary            = "NevSalesSummary"
	AutomakerRankings          = "AutomakerRankings"
	BatteryMakerRankings       = "BatteryMakerRankings"
	NioPowerSnapshot           = "NioPowerSnapshot"
	EVMetric                   = "EVMetric"
	VehicleSpec                = "VehicleSpec"
)

// Table describes one platform table and its API endpoint segment.
type Table struct {
	Name     string
	Endpoint string
	Industry bool
}

var tables = []Table{
	{ChinaPassengerInventory, "china-passenger-inventory", true},
	{ChinaBatteryInstallation, "china-battery-installation", true},
	{CaamNevSales, "caam-nev-sales", true},
	{ChinaDealerInventoryFactor, "china-dealer-inventory-factor", true},
	{CpcaNevRetail, "cpca-nev-retail", true},
	{CpcaNevProduction, "cpca-nev-production", true},
	{ChinaViaIndex, "china-via-index", true},
	{BatteryMakerMonthly, "battery-maker-monthly", true},
	{PlantExports, "plant-exports", true},
	{NevSalesSummary, "nev-sales-summary", true},
	{AutomakerRankings, "automaker-rankings", true},
	{BatteryMakerRankings, "battery-maker-rankings", true},
	{NioPowerSnapshot, "nio-power-snapshot", true},
	{EVMetric, "ev-metrics", false},
	{VehicleSpec, "vehicle-specs", false},
}

// Fields a submission to each industry table must carry. Tables absent
// from the map accept any payload: EVMetric and VehicleSpec have their
// own richer validation server-side, and NioPowerSnapshot records come
// from a dedicated scraper rather than the extraction flow.
var requiredFields = map[string][]string{
	ChinaPassengerInventory:    {"year", "month", "value", "sourceUrl", "sourceTitle"},
	ChinaBatteryInstallation:   {"year", "month", "installation", "sourceUrl", "sourceTitle"},
	CaamNevSales:               {"year", "month", "value", "sourceUrl", "sourceTitle"},
	ChinaDealerInventoryFactor: {"year", "month", "value", "sourceUrl", "sourceTitle"},
	CpcaNevRetail:              {"year", "month", "value", "sourceUrl", "sourceTitle"},
	CpcaNevProduction:          {"year", "month", "value", "sourceUrl", "sourceTitle"},
	ChinaViaIndex:              {"year", "month", "value", "sourceUrl", "sourceTitle"},
	BatteryMakerMonthly:        {"year", "month", "maker", "installation", "sourceUrl", "sourceTitle"},
	PlantExports:               {"year", "month", "plant", "brand", "value", "sourceUrl", "sourceTitle"},
	NevSalesSummary:            {"year", "startDate", "endDate", "retailSales", "sourceUrl", "sourceTitle"},
	AutomakerRankings:          {"year", "month", "ranking", "automaker", "value", "sourceUrl", "sourceTitle"},
	BatteryMakerRankings:       {"year", "month", "ranking", "maker", "value", "sourceUrl", "sourceTitle"},
}

// RequiredFields returns the fields a record for the named table must
// carry, in validation order. ok is false for tables without a
// required set.
func RequiredFields(name string) ([]string, bool) {
	fields, ok := requiredFields[name]
	return fields, ok
}

// Natural-language aliases on top of the generated canonical forms.
var extraAliases = map[string]string{
	"ev metric":                 EVMetric,
	"ev metrics":                EVMetric,
	"metrics":                   EVMetric,
	"deliveries":                EVMetric,
	"vehicle spec":              VehicleSpec,
	"vehicle specs":             VehicleSpec,
	"specs":                     VehicleSpec,
	"specifications":            VehicleSpec,
	"battery installations":     ChinaBatteryInstallation,
	"battery installation":      ChinaBatteryInstallation,
	"passenger inventory":       ChinaPassengerInventory,
	"passenger car inventory":   ChinaPassengerInventory,
	"caam sales":                CaamNevSales,
	"caam nev":                  CaamNevSales,
	"dealer inventory factor":   ChinaDealerInventoryFactor,
	"inventory factor":          ChinaDealerInventoryFactor,
	"cpca retail":               CpcaNevRetail,
	"nev retail":                CpcaNevRetail,
	"cpca production":           CpcaNevProduction,
	"nev production":            CpcaNevProduction,
	"via index":                 ChinaViaIndex,
	"inventory alert index":     ChinaViaIndex,
	"battery maker":             BatteryMakerMonthly,
	"battery makers":            BatteryMakerMonthly,
	"plant export":              PlantExports,
	"plant exports":             PlantExports,
	"exports":                   PlantExports,
	"nev sales summary":         NevSalesSummary,
	"weekly nev sales":          NevSalesSummary,
	"automaker ranking":         AutomakerRankings,
	"automaker rankings":        AutomakerRankings,
	"brand rankings":            AutomakerRankings,
	"battery maker ranking":     BatteryMakerRankings,
	"battery maker rankings":    BatteryMakerRankings,
	"battery rankings":          BatteryMakerRankings,
	"nio power":                 NioPowerSnapshot,
	"nio power snapshot":        NioPowerSnapshot,
	"swap stations":             NioPowerSnapshot,
}

var aliasIndex = buildAliasIndex()

// fold collapses case, spaces, hyphens and underscores so that
// "CpcaNevRetail", "cpca-nev-retail" and "cpca nev retail" all meet.
func fold(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '-', '_', '\t':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func buildAliasIndex() map[string]string {
	idx := make(map[string]string, len(tables)*2+len(extraAliases))
	for _, t := range tables {
		idx[fold(t.Name)] = t.Name
		idx[fold(t.Endpoint)] = t.Name
	}
	for alias, name := range extraAliases {
		idx[fold(alias)] = name
	}
	return idx
}

// Normalize resolves a table alias (canonical name, endpoint path,
// snake_case, or a natural-language alias) to the canonical name.
func Normalize(alias string) (string, bool) {
	name, ok := aliasIndex[fold(alias)]
	return name, ok
}

// Endpoint returns the API endpoint segment for a canonical table name.
func Endpoint(name string) (string, bool) {
	for _, t := range tables {
		if t.Name == name {
			return t.Endpoint, true
		}
	}
	return "", false
}

// ByEndpoint resolves an endpoint segment back to the canonical name.
func ByEndpoint(path string) (string, bool) {
	for _, t := range tables {
		if t.Endpoint == path {
			return t.Name, true
		}
	}
	return "", false
}

// IsIndustry reports whether the table is one of the industry tables
// (everything except EVMetric and VehicleSpec).
func IsIndustry(name string) bool {
	for _, t := range tables {
		if t.Name == name {
			return t.Industry
		}
	}
	return false
}

// All returns the registry in declaration order.
func All() []Table {
	out := make([]Table, len(tables))
	copy(out, tables)
	return out
}
