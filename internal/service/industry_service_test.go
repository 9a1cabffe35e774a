package service

import (
	"errors"
	"testing"

	"ev-platform-be/pkg/evtables"
)

func TestValidateIndustryRecord(t *testing.T) {
	valid := map[string]any{
		"year":        float64(2026),
		"month":       float64(7),
		"value":       float64(980000),
		"sourceUrl":   "https://cnevdata.com/cpca-retail-july",
		"sourceTitle": "CPCA NEV retail July 2026",
	}

	if err := validateIndustryRecord(evtables.CpcaNevRetail, valid); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	t.Run("missing required field", func(t *testing.T) {
		record := map[string]any{
			"year":  float64(2026),
			"month": float64(7),
		}
		err := validateIndustryRecord(evtables.CpcaNevRetail, record)
		if !errors.Is(err, ErrInvalidRecord) {
			t.Errorf("err = %v, want ErrInvalidRecord", err)
		}
	})

	t.Run("year out of range", func(t *testing.T) {
		record := map[string]any{
			"year":        float64(1885),
			"month":       float64(7),
			"value":       float64(1),
			"sourceUrl":   "https://example.com",
			"sourceTitle": "t",
		}
		err := validateIndustryRecord(evtables.CpcaNevRetail, record)
		if !errors.Is(err, ErrInvalidRecord) {
			t.Errorf("err = %v, want ErrInvalidRecord", err)
		}
	})

	t.Run("month out of range", func(t *testing.T) {
		record := map[string]any{
			"year":        float64(2026),
			"month":       float64(13),
			"value":       float64(1),
			"sourceUrl":   "https://example.com",
			"sourceTitle": "t",
		}
		err := validateIndustryRecord(evtables.CpcaNevRetail, record)
		if !errors.Is(err, ErrInvalidRecord) {
			t.Errorf("err = %v, want ErrInvalidRecord", err)
		}
	})

	t.Run("snapshot table has no required set", func(t *testing.T) {
		if err := validateIndustryRecord(evtables.NioPowerSnapshot, map[string]any{"totalStations": float64(3300)}); err != nil {
			t.Errorf("snapshot record rejected: %v", err)
		}
	})
}

func TestNumberField(t *testing.T) {
	record := map[string]any{
		"float":  float64(12),
		"int":    7,
		"string": "12",
		"nil":    nil,
	}

	if v, ok := numberField(record, "float"); !ok || v != 12 {
		t.Errorf("float = %d, %v", v, ok)
	}
	if v, ok := numberField(record, "int"); !ok || v != 7 {
		t.Errorf("int = %d, %v", v, ok)
	}
	if _, ok := numberField(record, "string"); ok {
		t.Error("string value should not parse")
	}
	if _, ok := numberField(record, "nil"); ok {
		t.Error("nil value should not parse")
	}
	if _, ok := numberField(record, "absent"); ok {
		t.Error("absent key should not parse")
	}
}

func TestUsageMath(t *testing.T) {
	if got := roundCost(0.0000014999); got != 0.000001 {
		t.Errorf("roundCost = %v, want 0.000001", got)
	}
	if got := successRate(3, 4); got != 0.75 {
		t.Errorf("successRate = %v, want 0.75", got)
	}
	if got := successRate(0, 0); got != 0 {
		t.Errorf("successRate with no rows = %v, want 0", got)
	}
}
