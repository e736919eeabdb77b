package rma

import (
	"context"
	"errors"
	"time"

	"github.com/asseto/trackgo/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// protectedFields may never be set through the general update path.
// Status and history go through Transition/Approve/Reject; the number
// and type are fixed at creation.
var protectedFields = map[string]bool{
	"id":            true,
	"rmaNumber":     true,
	"rmaType":       true,
	"status":        true,
	"statusHistory": true,
	"createdAt":     true,
	"updatedAt":     true,
}

// updatableColumns maps accepted payload keys to their columns
var updatableColumns = map[string]string{
	"serialNumber":           "serial_number",
	"invoiceNumber":          "invoice_number",
	"poNumber":               "po_number",
	"deviceId":               "device_id",
	"reason":                 "reason",
	"issueDescription":       "issue_description",
	"description":            "description",
	"reportedBy":             "reported_by",
	"reportedByEmail":        "reported_by_email",
	"reportedByPhone":        "reported_by_phone",
	"priority":               "priority",
	"vendorId":               "vendor_id",
	"vendorRmaNumber":        "vendor_rma_number",
	"shippingTrackingNumber": "shipping_tracking_number",
	"estimatedReturnDate":    "estimated_return_date",
	"actualReturnDate":       "actual_return_date",
	"repairCost":             "repair_cost",
	"replacementDeviceId":    "replacement_device_id",
	"resolutionNotes":        "resolution_notes",
	"internalNotes":          "internal_notes",
	"metadata":               "metadata",
	"notificationSent":       "notification_sent",
	"isNewSubmission":        "is_new_submission",
}

var dateFields = map[string]bool{
	"estimatedReturnDate": true,
	"actualReturnDate":    true,
}

// buildUpdateColumns validates a partial-update payload against the
// accepted field set. Attempts to smuggle protected fields fail rather
// than being silently dropped.
func buildUpdateColumns(fields map[string]interface{}) (map[string]interface{}, error) {
	cols := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if protectedFields[key] {
			return nil, newValidationError(key, "field cannot be updated through this operation")
		}
		col, ok := updatableColumns[key]
		if !ok {
			return nil, newValidationError(key, "unknown field")
		}

		if dateFields[key] {
			if s, ok := value.(string); ok {
				t, err := time.Parse(time.RFC3339, s)
				if err != nil {
					return nil, newValidationError(key, "must be an RFC 3339 timestamp")
				}
				value = t
			}
		}
		if key == "metadata" {
			if m, ok := value.(map[string]interface{}); ok {
				value = datatypes.JSONMap(m)
			} else if value != nil {
				return nil, newValidationError(key, "must be an object")
			}
		}

		cols[col] = value
	}
	return cols, nil
}

// Update applies a partial field update. Administrator-only. Status and
// statusHistory are explicitly rejected here; use the transition
// operations instead.
func (e *Engine) Update(ctx context.Context, id string, fields map[string]interface{}, caller *Identity) (*models.RMA, error) {
	if !caller.IsAdmin() {
		return nil, &AuthorizationError{Message: "admin role required"}
	}
	if len(fields) == 0 {
		return nil, newValidationError("body", "no fields to update")
	}

	cols, err := buildUpdateColumns(fields)
	if err != nil {
		return nil, err
	}

	db := e.db.WithContext(ctx)

	var r models.RMA
	if err := db.First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "RMA"}
		}
		return nil, err
	}

	if err := db.Model(&r).Updates(cols).Error; err != nil {
		return nil, err
	}

	return e.reload(ctx, r.ID)
}
