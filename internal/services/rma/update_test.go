package rma

import (
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestBuildUpdateColumnsRejectsProtectedFields(t *testing.T) {
	for _, field := range []string{"status", "statusHistory", "rmaNumber", "rmaType", "id", "createdAt"} {
		_, err := buildUpdateColumns(map[string]interface{}{field: "x"})
		if err == nil {
			t.Errorf("Expected %q to be rejected", field)
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Expected a validation error for %q, got %T", field, err)
		}
	}
}

func TestBuildUpdateColumnsRejectsUnknownFields(t *testing.T) {
	_, err := buildUpdateColumns(map[string]interface{}{"warrantyVoided": true})
	if err == nil {
		t.Fatal("Unknown field should be rejected")
	}
}

func TestBuildUpdateColumnsMapsToSnakeCase(t *testing.T) {
	cols, err := buildUpdateColumns(map[string]interface{}{
		"internalNotes":          "checked by bench",
		"shippingTrackingNumber": "1Z999",
		"repairCost":             120.5,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cols["internal_notes"] != "checked by bench" {
		t.Error("internalNotes should map to internal_notes")
	}
	if cols["shipping_tracking_number"] != "1Z999" {
		t.Error("shippingTrackingNumber should map to shipping_tracking_number")
	}
	if cols["repair_cost"] != 120.5 {
		t.Error("repairCost should map to repair_cost")
	}
}

func TestBuildUpdateColumnsParsesDates(t *testing.T) {
	cols, err := buildUpdateColumns(map[string]interface{}{
		"estimatedReturnDate": "2026-09-15T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	got, ok := cols["estimated_return_date"].(time.Time)
	if !ok {
		t.Fatalf("Expected a time.Time, got %T", cols["estimated_return_date"])
	}
	want := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Parsed %v, want %v", got, want)
	}

	if _, err := buildUpdateColumns(map[string]interface{}{"actualReturnDate": "15/09/2026"}); err == nil {
		t.Error("Malformed date should be rejected")
	}
}

func TestBuildUpdateColumnsMetadata(t *testing.T) {
	cols, err := buildUpdateColumns(map[string]interface{}{
		"metadata": map[string]interface{}{"ticket": "HELP-812"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	m, ok := cols["metadata"].(datatypes.JSONMap)
	if !ok {
		t.Fatalf("Expected a JSON map, got %T", cols["metadata"])
	}
	if m["ticket"] != "HELP-812" {
		t.Errorf("Metadata value lost: %v", m)
	}

	if _, err := buildUpdateColumns(map[string]interface{}{"metadata": "not-an-object"}); err == nil {
		t.Error("Non-object metadata should be rejected")
	}
}
