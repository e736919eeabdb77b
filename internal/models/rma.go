package models

import (
	"time"

	"gorm.io/datatypes"
)

// RMAStatus defines the lifecycle state of an RMA request
type RMAStatus string

const (
	RMAStatusPendingReview     RMAStatus = "pending_review" // Initial state, waiting for admin review
	RMAStatusApproved          RMAStatus = "approved"
	RMAStatusRejected          RMAStatus = "rejected"
	RMAStatusInTransitToVendor RMAStatus = "in_transit_to_vendor"
	RMAStatusReceivedByVendor  RMAStatus = "received_by_vendor"
	RMAStatusUnderRepair       RMAStatus = "under_repair"
	RMAStatusRepaired          RMAStatus = "repaired"
	RMAStatusReplaced          RMAStatus = "replaced"
	RMAStatusInTransitToClient RMAStatus = "in_transit_to_client"
	RMAStatusCompleted         RMAStatus = "completed"
	RMAStatusCancelled         RMAStatus = "cancelled"
)

// RMAType defines what the reporter is asking for
type RMAType string

const (
	RMATypeRepair      RMAType = "repair"
	RMATypeReplacement RMAType = "replacement"
	RMATypeRefund      RMAType = "refund"
)

// RMAPriority levels for triage
type RMAPriority string

const (
	RMAPriorityLow      RMAPriority = "low"
	RMAPriorityMedium   RMAPriority = "medium"
	RMAPriorityHigh     RMAPriority = "high"
	RMAPriorityCritical RMAPriority = "critical"
)

// Upload records the metadata of one stored file
type Upload struct {
	Filename   string    `json:"filename"`
	Path       string    `json:"path"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// AdditionalDoc is an uploaded document with a free-text description
type AdditionalDoc struct {
	Filename    string    `json:"filename"`
	Path        string    `json:"path"`
	Description string    `json:"description"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// AttachmentBundle groups the files attached to an RMA.
// Invoice and purchase order are single slots; photos and additional
// documents are ordered lists that keep insertion order.
type AttachmentBundle struct {
	Invoice        *Upload         `json:"invoice,omitempty"`
	PurchaseOrder  *Upload         `json:"purchaseOrder,omitempty"`
	Photos         []Upload        `json:"photos"`
	AdditionalDocs []AdditionalDoc `json:"additionalDocs"`
}

// StatusEntry is one line of the append-only status history ledger
type StatusEntry struct {
	Status    RMAStatus `json:"status"`
	UpdatedBy string    `json:"updatedBy"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

// RMA represents a return merchandise authorization request.
// Status is mutated only through the lifecycle engine; rmaNumber is
// assigned once at creation and never regenerated.
// Convention: Go PascalCase -> DB snake_case (GORM auto) -> JSON camelCase
type RMA struct {
	ID           string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	RMANumber    string `gorm:"column:rma_number;unique;not null" json:"rmaNumber"`
	SerialNumber string `gorm:"not null;index" json:"serialNumber"`

	InvoiceNumber string `json:"invoiceNumber,omitempty"`
	PONumber      string `gorm:"column:po_number" json:"poNumber,omitempty"`

	// Linked by serial lookup at creation, or by an admin later
	DeviceID *string `gorm:"type:uuid;index" json:"deviceId"`

	Status  RMAStatus `gorm:"default:'pending_review';index" json:"status"`
	RMAType RMAType   `gorm:"column:rma_type;not null" json:"rmaType"`

	Reason           string `json:"reason,omitempty"`
	IssueDescription string `gorm:"type:text;not null" json:"issueDescription"`
	Description      string `gorm:"type:text" json:"description,omitempty"`

	ReportedBy      string `gorm:"not null" json:"reportedBy"`
	ReportedByEmail string `gorm:"index" json:"reportedByEmail,omitempty"`
	ReportedByPhone string `json:"reportedByPhone,omitempty"`

	Attachments datatypes.JSONType[AttachmentBundle] `json:"attachments"`

	Priority RMAPriority `gorm:"default:'medium'" json:"priority"`

	VendorID               *string    `gorm:"type:uuid;index" json:"vendorId"`
	VendorRMANumber        string     `gorm:"column:vendor_rma_number" json:"vendorRmaNumber,omitempty"`
	ShippingTrackingNumber string     `json:"shippingTrackingNumber,omitempty"`
	EstimatedReturnDate    *time.Time `json:"estimatedReturnDate,omitempty"`
	ActualReturnDate       *time.Time `json:"actualReturnDate,omitempty"`

	RepairCost          float64 `gorm:"default:0" json:"repairCost"`
	ReplacementDeviceID *string `gorm:"type:uuid" json:"replacementDeviceId"`

	ResolutionNotes string `gorm:"type:text" json:"resolutionNotes,omitempty"`
	InternalNotes   string `gorm:"type:text" json:"internalNotes,omitempty"`

	ApprovedBy    string     `json:"approvedBy,omitempty"`
	ApprovedDate  *time.Time `json:"approvedDate,omitempty"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`

	ReviewedBy      string     `json:"reviewedBy,omitempty"`
	ReviewedDate    *time.Time `json:"reviewedDate,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejectionReason,omitempty"`

	StatusHistory datatypes.JSONSlice[StatusEntry] `json:"statusHistory"`

	IsNewSubmission  bool `gorm:"default:true" json:"isNewSubmission"`
	NotificationSent bool `gorm:"default:false" json:"notificationSent"`

	Metadata datatypes.JSONMap `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Device            *Device `gorm:"foreignKey:DeviceID" json:"device,omitempty"`
	Vendor            *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	ReplacementDevice *Device `gorm:"foreignKey:ReplacementDeviceID" json:"replacementDevice,omitempty"`
}

// TableName specifies the table name for RMA model
func (RMA) TableName() string {
	return "rma_requests"
}

// RMASequence is the per-month atomic counter backing rmaNumber generation
type RMASequence struct {
	Period  string `gorm:"primaryKey;size:6"` // YYYYMM
	Counter int64  `gorm:"not null;default:0"`
}

// TableName specifies the table name for RMASequence model
func (RMASequence) TableName() string {
	return "rma_sequences"
}
