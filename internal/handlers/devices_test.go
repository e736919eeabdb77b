package handlers

import (
	"testing"
	"time"

	"github.com/asseto/trackgo/internal/models"
)

func TestApplyAssignmentStartsWarranty(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	device := models.Device{Status: models.DeviceMovementInward}

	applyAssignment(&device, "Alice", "Rollout Q2", now)

	if device.AssignedTo != "Alice" || device.ProjectName != "Rollout Q2" {
		t.Errorf("Assignment fields not applied: %+v", device)
	}
	if device.Status != models.DeviceMovementOutward {
		t.Errorf("Expected outward status, got %s", device.Status)
	}
	if device.AssignedDate == nil || !device.AssignedDate.Equal(now) {
		t.Errorf("Expected assigned date %v, got %v", now, device.AssignedDate)
	}
	want := now.AddDate(1, 0, 0)
	if device.WarrantyEndDate == nil {
		t.Fatal("Expected warranty end date to be set on assignment")
	}
	if !device.WarrantyEndDate.Equal(want) {
		t.Errorf("Expected warranty end %v, got %v", want, *device.WarrantyEndDate)
	}
}

func TestApplyAssignmentReturnKeepsWarranty(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	device := models.Device{}
	applyAssignment(&device, "Bob", "", now)

	later := now.Add(48 * time.Hour)
	applyAssignment(&device, "", "", later)

	if device.AssignedTo != "" || device.ProjectName != "" || device.AssignedDate != nil {
		t.Errorf("Return to stock must clear assignment fields: %+v", device)
	}
	if device.Status != models.DeviceMovementInward {
		t.Errorf("Expected inward status, got %s", device.Status)
	}
	if device.WarrantyEndDate == nil {
		t.Error("Return to stock must not erase a running warranty")
	}
}
