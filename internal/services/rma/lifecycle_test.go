package rma

import (
	"testing"
	"time"

	"github.com/asseto/trackgo/internal/models"
)

func TestTransitionGraph(t *testing.T) {
	valid := []struct {
		from, to models.RMAStatus
	}{
		{models.RMAStatusPendingReview, models.RMAStatusApproved},
		{models.RMAStatusPendingReview, models.RMAStatusRejected},
		{models.RMAStatusApproved, models.RMAStatusInTransitToVendor},
		{models.RMAStatusInTransitToVendor, models.RMAStatusReceivedByVendor},
		{models.RMAStatusReceivedByVendor, models.RMAStatusUnderRepair},
		{models.RMAStatusUnderRepair, models.RMAStatusRepaired},
		{models.RMAStatusUnderRepair, models.RMAStatusReplaced},
		{models.RMAStatusRepaired, models.RMAStatusInTransitToClient},
		{models.RMAStatusReplaced, models.RMAStatusInTransitToClient},
		{models.RMAStatusInTransitToClient, models.RMAStatusCompleted},
	}
	for _, tc := range valid {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("Expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	invalid := []struct {
		from, to models.RMAStatus
	}{
		{models.RMAStatusPendingReview, models.RMAStatusCompleted},
		{models.RMAStatusPendingReview, models.RMAStatusUnderRepair},
		{models.RMAStatusApproved, models.RMAStatusRepaired},
		{models.RMAStatusRejected, models.RMAStatusApproved},
		{models.RMAStatusCompleted, models.RMAStatusCancelled},
		{models.RMAStatusCancelled, models.RMAStatusPendingReview},
	}
	for _, tc := range invalid {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("Expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestCancellationFromAnyNonTerminalState(t *testing.T) {
	nonTerminal := []models.RMAStatus{
		models.RMAStatusPendingReview,
		models.RMAStatusApproved,
		models.RMAStatusInTransitToVendor,
		models.RMAStatusReceivedByVendor,
		models.RMAStatusUnderRepair,
		models.RMAStatusRepaired,
		models.RMAStatusReplaced,
		models.RMAStatusInTransitToClient,
	}
	for _, s := range nonTerminal {
		if !CanTransition(s, models.RMAStatusCancelled) {
			t.Errorf("Cancellation should be reachable from %s", s)
		}
	}

	for _, s := range []models.RMAStatus{models.RMAStatusRejected, models.RMAStatusCompleted, models.RMAStatusCancelled} {
		if !IsTerminal(s) {
			t.Errorf("Expected %s to be terminal", s)
		}
	}
}

func TestValidStatus(t *testing.T) {
	if !ValidStatus(models.RMAStatusUnderRepair) {
		t.Error("under_repair should be a known status")
	}
	if ValidStatus(models.RMAStatus("shipped")) {
		t.Error("unknown status should not validate")
	}
}

func TestNewSubmission(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	p := CreateParams{
		SerialNumber:     "SN-001",
		RMAType:          models.RMATypeRepair,
		IssueDescription: "cracked screen",
		Priority:         models.RMAPriorityMedium,
	}

	r := newSubmission(p, "Alice", "alice@x.com", nil, "RMA-202608-0001", now)

	if r.Status != models.RMAStatusPendingReview {
		t.Errorf("Expected status pending_review, got %s", r.Status)
	}
	if !r.IsNewSubmission {
		t.Error("New submission flag should be set")
	}
	if r.DeviceID != nil {
		t.Error("Device should stay unlinked when no serial match exists")
	}
	if len(r.StatusHistory) != 1 {
		t.Fatalf("Expected exactly 1 history entry, got %d", len(r.StatusHistory))
	}
	if r.StatusHistory[0].Status != models.RMAStatusPendingReview {
		t.Errorf("First history entry should be pending_review, got %s", r.StatusHistory[0].Status)
	}
	if r.StatusHistory[0].UpdatedBy != "Alice" {
		t.Errorf("History entry should carry the reporter, got %q", r.StatusHistory[0].UpdatedBy)
	}
	if r.ReportedByEmail != "alice@x.com" {
		t.Errorf("Expected reporter email alice@x.com, got %q", r.ReportedByEmail)
	}
}

func TestApplyTransitionSideEffects(t *testing.T) {
	now := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)

	r := models.RMA{Status: models.RMAStatusPendingReview}
	appendHistory(&r, models.RMAStatusPendingReview, "Alice", "", now.Add(-time.Hour))

	applyTransition(&r, models.RMAStatusApproved, "Bob", "looks good", now)
	if r.Status != models.RMAStatusApproved {
		t.Errorf("Expected approved, got %s", r.Status)
	}
	if r.ApprovedBy != "Bob" {
		t.Errorf("Expected approvedBy Bob, got %q", r.ApprovedBy)
	}
	if r.ApprovedDate == nil || !r.ApprovedDate.Equal(now) {
		t.Error("Approved date should be set to the transition time")
	}
	if len(r.StatusHistory) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(r.StatusHistory))
	}
	if r.StatusHistory[1].Notes != "looks good" {
		t.Errorf("History notes mismatch: %q", r.StatusHistory[1].Notes)
	}

	// Completion backfills the actual return date when unset
	r2 := models.RMA{Status: models.RMAStatusInTransitToClient}
	applyTransition(&r2, models.RMAStatusCompleted, "Bob", "", now)
	if r2.CompletedDate == nil {
		t.Error("Completed date should be set")
	}
	if r2.ActualReturnDate == nil || !r2.ActualReturnDate.Equal(now) {
		t.Error("Actual return date should be backfilled on completion")
	}

	earlier := now.Add(-48 * time.Hour)
	r3 := models.RMA{Status: models.RMAStatusInTransitToClient, ActualReturnDate: &earlier}
	applyTransition(&r3, models.RMAStatusCompleted, "Bob", "", now)
	if !r3.ActualReturnDate.Equal(earlier) {
		t.Error("Existing actual return date must not be overwritten")
	}
}

func TestApplyApproval(t *testing.T) {
	now := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)
	vendorID := "7f1c7f6a-aaaa-bbbb-cccc-000000000001"
	eta := now.AddDate(0, 0, 14)

	r := models.RMA{Status: models.RMAStatusPendingReview, IsNewSubmission: true}
	appendHistory(&r, models.RMAStatusPendingReview, "Alice", "", now.Add(-time.Hour))

	applyApproval(&r, "Bob", "", &vendorID, &eta, now)

	if r.Status != models.RMAStatusApproved {
		t.Errorf("Expected approved, got %s", r.Status)
	}
	if r.IsNewSubmission {
		t.Error("Approval must clear the new-submission flag")
	}
	if r.ReviewedBy != "Bob" || r.ReviewedDate == nil {
		t.Error("Approval must record the reviewer")
	}
	if r.VendorID == nil || *r.VendorID != vendorID {
		t.Error("Vendor assignment should be applied")
	}
	if r.EstimatedReturnDate == nil || !r.EstimatedReturnDate.Equal(eta) {
		t.Error("Estimated return date should be applied")
	}
	if len(r.StatusHistory) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(r.StatusHistory))
	}
	if r.StatusHistory[1].Status != models.RMAStatusApproved {
		t.Errorf("Second history entry should be approved, got %s", r.StatusHistory[1].Status)
	}
	if r.StatusHistory[1].Notes != "RMA approved by admin" {
		t.Errorf("Default approval note expected, got %q", r.StatusHistory[1].Notes)
	}
}

func TestApplyRejection(t *testing.T) {
	now := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)

	r := models.RMA{Status: models.RMAStatusPendingReview, IsNewSubmission: true}
	appendHistory(&r, models.RMAStatusPendingReview, "Alice", "", now.Add(-time.Hour))

	applyRejection(&r, "Bob", "no proof of purchase", now)

	if r.Status != models.RMAStatusRejected {
		t.Errorf("Expected rejected, got %s", r.Status)
	}
	if r.RejectionReason != "no proof of purchase" {
		t.Errorf("Rejection reason mismatch: %q", r.RejectionReason)
	}
	if r.IsNewSubmission {
		t.Error("Rejection must clear the new-submission flag")
	}
	if len(r.StatusHistory) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(r.StatusHistory))
	}
	if r.StatusHistory[1].Notes != "no proof of purchase" {
		t.Error("Rejection reason should be recorded in the history entry")
	}
}
