package rma

import (
	"time"

	"github.com/asseto/trackgo/internal/models"
)

// transitionGraph is the allowed adjacency of the status state machine.
// Cancellation is reachable from every non-terminal state. Rejected,
// completed and cancelled are terminal.
var transitionGraph = map[models.RMAStatus][]models.RMAStatus{
	models.RMAStatusPendingReview:     {models.RMAStatusApproved, models.RMAStatusRejected, models.RMAStatusCancelled},
	models.RMAStatusApproved:          {models.RMAStatusInTransitToVendor, models.RMAStatusCancelled},
	models.RMAStatusInTransitToVendor: {models.RMAStatusReceivedByVendor, models.RMAStatusCancelled},
	models.RMAStatusReceivedByVendor:  {models.RMAStatusUnderRepair, models.RMAStatusCancelled},
	models.RMAStatusUnderRepair:       {models.RMAStatusRepaired, models.RMAStatusReplaced, models.RMAStatusCancelled},
	models.RMAStatusRepaired:          {models.RMAStatusInTransitToClient, models.RMAStatusCancelled},
	models.RMAStatusReplaced:          {models.RMAStatusInTransitToClient, models.RMAStatusCancelled},
	models.RMAStatusInTransitToClient: {models.RMAStatusCompleted, models.RMAStatusCancelled},
	models.RMAStatusRejected:          {},
	models.RMAStatusCompleted:         {},
	models.RMAStatusCancelled:         {},
}

// ValidStatus reports whether s is a known lifecycle state
func ValidStatus(s models.RMAStatus) bool {
	_, ok := transitionGraph[s]
	return ok
}

// IsTerminal reports whether no further transitions are possible from s
func IsTerminal(s models.RMAStatus) bool {
	next, ok := transitionGraph[s]
	return ok && len(next) == 0
}

// CanTransition reports whether the state machine permits from -> to
func CanTransition(from, to models.RMAStatus) bool {
	for _, s := range transitionGraph[from] {
		if s == to {
			return true
		}
	}
	return false
}

func validRMAType(t models.RMAType) bool {
	switch t {
	case models.RMATypeRepair, models.RMATypeReplacement, models.RMATypeRefund:
		return true
	}
	return false
}

func validPriority(p models.RMAPriority) bool {
	switch p {
	case models.RMAPriorityLow, models.RMAPriorityMedium, models.RMAPriorityHigh, models.RMAPriorityCritical:
		return true
	}
	return false
}

// appendHistory adds one ledger entry. The history is append-only; nothing
// in this package ever truncates or reorders it.
func appendHistory(r *models.RMA, status models.RMAStatus, updatedBy, notes string, now time.Time) {
	r.StatusHistory = append(r.StatusHistory, models.StatusEntry{
		Status:    status,
		UpdatedBy: updatedBy,
		Timestamp: now,
		Notes:     notes,
	})
}

// applyTransition moves r to the target status and records the side
// effects keyed by that status. The caller has already validated the
// transition against the graph.
func applyTransition(r *models.RMA, to models.RMAStatus, actor, notes string, now time.Time) {
	r.Status = to
	appendHistory(r, to, actor, notes, now)

	switch to {
	case models.RMAStatusApproved:
		r.ApprovedBy = actor
		t := now
		r.ApprovedDate = &t
	case models.RMAStatusCompleted:
		t := now
		r.CompletedDate = &t
		if r.ActualReturnDate == nil {
			r.ActualReturnDate = &t
		}
	}
}

// applyApproval performs the full administrative approval: status change,
// review bookkeeping and optional vendor assignment.
func applyApproval(r *models.RMA, approvedBy, notes string, vendorID *string, estimatedReturn *time.Time, now time.Time) {
	r.Status = models.RMAStatusApproved
	r.ApprovedBy = approvedBy
	t := now
	r.ApprovedDate = &t
	r.ReviewedBy = approvedBy
	r.ReviewedDate = &t
	r.IsNewSubmission = false

	if vendorID != nil {
		r.VendorID = vendorID
	}
	if estimatedReturn != nil {
		r.EstimatedReturnDate = estimatedReturn
	}

	if notes == "" {
		notes = "RMA approved by admin"
	}
	appendHistory(r, models.RMAStatusApproved, approvedBy, notes, now)
}

// applyRejection performs the administrative rejection
func applyRejection(r *models.RMA, rejectedBy, reason string, now time.Time) {
	r.Status = models.RMAStatusRejected
	r.RejectionReason = reason
	t := now
	r.ReviewedBy = rejectedBy
	r.ReviewedDate = &t
	r.IsNewSubmission = false

	appendHistory(r, models.RMAStatusRejected, rejectedBy, reason, now)
}
