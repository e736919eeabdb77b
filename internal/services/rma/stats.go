package rma

import (
	"context"

	"github.com/asseto/trackgo/internal/models"
)

// GroupCount is one bucket of a grouped aggregate
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Stats is the admin dashboard overview
type Stats struct {
	TotalRMAs      int64        `json:"totalRMAs"`
	PendingRMAs    int64        `json:"pendingRMAs"`
	NewSubmissions int64        `json:"newSubmissions"`
	InProgressRMAs int64        `json:"inProgressRMAs"`
	CompletedRMAs  int64        `json:"completedRMAs"`
	RejectedRMAs   int64        `json:"rejectedRMAs"`
	RMAsByType     []GroupCount `json:"rmasByType"`
	RMAsByPriority []GroupCount `json:"rmasByPriority"`
	AvgRepairCost  float64      `json:"avgRepairCost"`
}

// inProgressStatuses covers everything between approval and completion
var inProgressStatuses = []models.RMAStatus{
	models.RMAStatusApproved,
	models.RMAStatusInTransitToVendor,
	models.RMAStatusReceivedByVendor,
	models.RMAStatusUnderRepair,
	models.RMAStatusRepaired,
	models.RMAStatusReplaced,
	models.RMAStatusInTransitToClient,
}

// Stats aggregates the collection for the admin dashboard
func (e *Engine) Stats(ctx context.Context, caller *Identity) (*Stats, error) {
	if !caller.IsAdmin() {
		return nil, &AuthorizationError{Message: "admin role required"}
	}

	db := e.db.WithContext(ctx)
	s := &Stats{}

	if err := db.Model(&models.RMA{}).Count(&s.TotalRMAs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.RMA{}).Where("status = ?", models.RMAStatusPendingReview).Count(&s.PendingRMAs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.RMA{}).Where("is_new_submission = ?", true).Count(&s.NewSubmissions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.RMA{}).Where("status IN ?", inProgressStatuses).Count(&s.InProgressRMAs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.RMA{}).Where("status = ?", models.RMAStatusCompleted).Count(&s.CompletedRMAs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.RMA{}).Where("status = ?", models.RMAStatusRejected).Count(&s.RejectedRMAs).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.RMA{}).
		Select("rma_type AS key, COUNT(*) AS count").
		Group("rma_type").
		Scan(&s.RMAsByType).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.RMA{}).
		Select("priority AS key, COUNT(*) AS count").
		Group("priority").
		Scan(&s.RMAsByPriority).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.RMA{}).
		Where("repair_cost > 0").
		Select("COALESCE(AVG(repair_cost), 0)").
		Scan(&s.AvgRepairCost).Error; err != nil {
		return nil, err
	}

	return s, nil
}
