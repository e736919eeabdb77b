package rma

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/asseto/trackgo/internal/database"
	"github.com/asseto/trackgo/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PriorityTriager suggests a priority for an issue description. Wired
// optionally; suggestions are advisory metadata, never overriding the
// reporter's own choice.
type PriorityTriager interface {
	SuggestPriority(ctx context.Context, issue string) (models.RMAPriority, error)
}

// Engine owns the RMA lifecycle: creation, status transitions, the
// status-history ledger and field-mutation rules. It holds no in-process
// locks; single-row updates rely on the database for isolation. Events
// are emitted only after the corresponding write has been confirmed.
type Engine struct {
	db      *database.DB
	emitter Emitter
	triage  PriorityTriager
	now     func() time.Time
}

// NewEngine creates a lifecycle engine bound to the given database and
// event transport.
func NewEngine(db *database.DB, emitter Emitter) *Engine {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	return &Engine{
		db:      db,
		emitter: emitter,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetTriager enables AI priority suggestions on new submissions
func (e *Engine) SetTriager(t PriorityTriager) {
	e.triage = t
}

// CreateParams is the submission payload. Reporter fields are overridden
// by the verified identity when the caller is authenticated.
type CreateParams struct {
	SerialNumber     string                   `json:"serialNumber"`
	RMAType          models.RMAType           `json:"rmaType"`
	IssueDescription string                   `json:"issueDescription"`
	InvoiceNumber    string                   `json:"invoiceNumber"`
	PONumber         string                   `json:"poNumber"`
	Reason           string                   `json:"reason"`
	Description      string                   `json:"description"`
	ReportedBy       string                   `json:"reportedBy"`
	ReportedByEmail  string                   `json:"reportedByEmail"`
	ReportedByPhone  string                   `json:"reportedByPhone"`
	Priority         models.RMAPriority       `json:"priority"`
	Metadata         map[string]interface{}   `json:"metadata"`
	Attachments      *models.AttachmentBundle `json:"-"`
}

// newSubmission builds the initial record: pending_review, flagged as a
// new submission, with the first history entry already appended.
func newSubmission(p CreateParams, reportedBy, reportedByEmail string, deviceID *string, rmaNumber string, now time.Time) models.RMA {
	bundle := models.AttachmentBundle{}
	if p.Attachments != nil {
		bundle = *p.Attachments
	}

	r := models.RMA{
		RMANumber:        rmaNumber,
		SerialNumber:     p.SerialNumber,
		InvoiceNumber:    p.InvoiceNumber,
		PONumber:         p.PONumber,
		DeviceID:         deviceID,
		Status:           models.RMAStatusPendingReview,
		RMAType:          p.RMAType,
		Reason:           p.Reason,
		IssueDescription: p.IssueDescription,
		Description:      p.Description,
		ReportedBy:       reportedBy,
		ReportedByEmail:  reportedByEmail,
		ReportedByPhone:  p.ReportedByPhone,
		Attachments:      datatypes.NewJSONType(bundle),
		Priority:         p.Priority,
		IsNewSubmission:  true,
		Metadata:         datatypes.JSONMap(p.Metadata),
	}
	appendHistory(&r, models.RMAStatusPendingReview, reportedBy, "RMA submitted by user", now)
	return r
}

// Create validates and stores a new submission, assigns the rmaNumber and
// announces the creation. Anonymous callers are allowed; authenticated
// callers have their verified name/email persisted instead of the
// client-supplied values.
func (e *Engine) Create(ctx context.Context, p CreateParams, caller *Identity) (*models.RMA, error) {
	reportedBy := p.ReportedBy
	reportedByEmail := p.ReportedByEmail
	if caller != nil {
		if caller.Name != "" {
			reportedBy = caller.Name
		}
		if caller.Email != "" {
			reportedByEmail = caller.Email
		}
	}

	if p.SerialNumber == "" {
		return nil, newValidationError("serialNumber", "serial number is required")
	}
	if p.RMAType == "" {
		return nil, newValidationError("rmaType", "RMA type is required")
	}
	if !validRMAType(p.RMAType) {
		return nil, newValidationError("rmaType", "must be repair, replacement or refund")
	}
	if p.IssueDescription == "" {
		return nil, newValidationError("issueDescription", "issue description is required")
	}
	if reportedBy == "" {
		return nil, newValidationError("reportedBy", "reporter name is required")
	}
	if p.Priority == "" {
		p.Priority = models.RMAPriorityMedium
	}
	if !validPriority(p.Priority) {
		return nil, newValidationError("priority", "must be low, medium, high or critical")
	}

	db := e.db.WithContext(ctx)
	now := e.now()

	// Serial lookup is best-effort: an unknown device is not an error,
	// an admin can link it later
	var deviceID *string
	var device models.Device
	err := db.Where("serial = ?", p.SerialNumber).First(&device).Error
	switch {
	case err == nil:
		deviceID = &device.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
		// leave unlinked
	default:
		return nil, err
	}

	rmaNumber, err := nextRMANumber(db, now)
	if err != nil {
		return nil, err
	}

	record := newSubmission(p, reportedBy, reportedByEmail, deviceID, rmaNumber, now)
	if err := db.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "RMA number collision, please retry"}
		}
		return nil, err
	}

	e.emitter.Emit(Event{
		Channel:   ChannelNotification,
		Type:      EventRMACreated,
		Title:     "New RMA Submission",
		Message:   "RMA " + record.RMANumber + " submitted for serial: " + record.SerialNumber,
		RMANumber: record.RMANumber,
		Priority:  string(record.Priority),
		Timestamp: now,
		Context:   map[string]interface{}{"rmaId": record.ID},
	})
	e.emitter.Emit(Event{
		Channel:   ChannelAdmin,
		Type:      EventRMACreated,
		Message:   "RMA " + record.RMANumber + " awaiting review",
		RMANumber: record.RMANumber,
		Priority:  string(record.Priority),
		Timestamp: now,
		Context: map[string]interface{}{
			"serialNumber": record.SerialNumber,
			"reportedBy":   record.ReportedBy,
		},
	})

	if e.triage != nil {
		go e.triageAsync(record.ID, record.IssueDescription)
	}

	return e.reload(ctx, record.ID)
}

// triageAsync asks the triager for a suggestion and records it in the
// metadata map. Failures are logged only.
func (e *Engine) triageAsync(id, issue string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	suggested, err := e.triage.SuggestPriority(ctx, issue)
	if err != nil {
		log.Printf("⚠️ Triage failed for RMA %s: %v", id, err)
		return
	}

	var r models.RMA
	if err := e.db.First(&r, "id = ?", id).Error; err != nil {
		return
	}
	if r.Metadata == nil {
		r.Metadata = datatypes.JSONMap{}
	}
	r.Metadata["suggestedPriority"] = string(suggested)
	if err := e.db.Model(&r).Update("metadata", r.Metadata).Error; err != nil {
		log.Printf("⚠️ Failed to store triage suggestion for RMA %s: %v", id, err)
	}
}

// reload fetches a record with its relations resolved, without scoping.
// Internal use only, after access has already been verified.
func (e *Engine) reload(ctx context.Context, id string) (*models.RMA, error) {
	var r models.RMA
	err := e.db.WithContext(ctx).
		Preload("Device").Preload("Device.Category").
		Preload("Vendor").Preload("ReplacementDevice").
		First(&r, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "RMA"}
		}
		return nil, err
	}
	return &r, nil
}

// GetByID returns one record if it lies inside the caller's scope
func (e *Engine) GetByID(ctx context.Context, id string, caller *Identity) (*models.RMA, error) {
	var r models.RMA
	err := e.db.WithContext(ctx).Scopes(VisibleTo(caller)).
		Preload("Device").Preload("Device.Category").
		Preload("Vendor").Preload("ReplacementDevice").
		First(&r, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "RMA"}
		}
		return nil, err
	}
	return &r, nil
}

// GetByNumber returns one record by its human-readable identifier,
// subject to the caller's scope
func (e *Engine) GetByNumber(ctx context.Context, rmaNumber string, caller *Identity) (*models.RMA, error) {
	var r models.RMA
	err := e.db.WithContext(ctx).Scopes(VisibleTo(caller)).
		Preload("Device").Preload("Device.Category").
		Preload("Vendor").Preload("ReplacementDevice").
		First(&r, "rma_number = ?", rmaNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "RMA"}
		}
		return nil, err
	}
	return &r, nil
}

// QueryFilter narrows a listing. Zero values mean "no restriction".
type QueryFilter struct {
	Status   models.RMAStatus
	Priority models.RMAPriority
	RMAType  models.RMAType
	DeviceID string
}

// Query lists records inside the caller's scope, newest first
func (e *Engine) Query(ctx context.Context, f QueryFilter, caller *Identity) ([]models.RMA, error) {
	tx := e.db.WithContext(ctx).Scopes(VisibleTo(caller)).
		Preload("Device").Preload("Device.Category").
		Preload("Vendor").Preload("ReplacementDevice")

	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		tx = tx.Where("priority = ?", f.Priority)
	}
	if f.RMAType != "" {
		tx = tx.Where("rma_type = ?", f.RMAType)
	}
	if f.DeviceID != "" {
		tx = tx.Where("device_id = ?", f.DeviceID)
	}

	var out []models.RMA
	if err := tx.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MyRequests lists the caller's own submissions. Authenticated callers
// are matched by identity; anonymous callers must supply a contact
// filter or the request is rejected.
func (e *Engine) MyRequests(ctx context.Context, caller *Identity, f ContactFilter) ([]models.RMA, error) {
	var scope func(*gorm.DB) *gorm.DB
	if caller != nil {
		scope = VisibleTo(caller)
	} else {
		var err error
		scope, err = ContactScope(f)
		if err != nil {
			return nil, err
		}
	}

	var out []models.RMA
	err := e.db.WithContext(ctx).Scopes(scope).
		Preload("Device").Preload("Vendor").Preload("ReplacementDevice").
		Order("created_at DESC").Limit(50).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PendingReview lists unprocessed submissions for the admin dashboard
func (e *Engine) PendingReview(ctx context.Context, caller *Identity) ([]models.RMA, error) {
	if !caller.IsAdmin() {
		return nil, &AuthorizationError{Message: "admin role required"}
	}

	var out []models.RMA
	err := e.db.WithContext(ctx).
		Preload("Device").Preload("Vendor").
		Where("status = ?", models.RMAStatusPendingReview).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Transition moves a record to a new status. Administrator-only. The
// target must be adjacent to the current status in the lifecycle graph;
// every accepted transition appends exactly one history entry.
func (e *Engine) Transition(ctx context.Context, id string, status models.RMAStatus, actor, notes string, caller *Identity) (*models.RMA, error) {
	if !caller.IsAdmin() {
		return nil, &AuthorizationError{Message: "admin role required"}
	}
	if status == "" {
		return nil, newValidationError("status", "status is required")
	}
	if actor == "" {
		return nil, newValidationError("updatedBy", "updatedBy is required")
	}
	if !ValidStatus(status) {
		return nil, newValidationError("status", "unknown status "+string(status))
	}

	db := e.db.WithContext(ctx)

	var r models.RMA
	if err := db.First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "RMA"}
		}
		return nil, err
	}

	if !CanTransition(r.Status, status) {
		return nil, newValidationError("status", "cannot transition from "+string(r.Status)+" to "+string(status))
	}

	now := e.now()
	applyTransition(&r, status, actor, notes, now)

	if err := db.Save(&r).Error; err != nil {
		return nil, err
	}

	e.emitter.Emit(Event{
		Channel:   ChannelNotification,
		Type:      EventRMAStatusUpdated,
		Title:     "RMA Status Updated",
		Message:   "RMA " + r.RMANumber + " status changed to " + string(status),
		RMANumber: r.RMANumber,
		Timestamp: now,
	})

	return e.reload(ctx, r.ID)
}

// ApproveParams carries the administrative approval payload
type ApproveParams struct {
	ApprovedBy          string     `json:"approvedBy"`
	Notes               string     `json:"notes"`
	VendorID            *string    `json:"vendorId"`
	EstimatedReturnDate *time.Time `json:"estimatedReturnDate"`
}

// Approve marks a pending submission as approved, records the reviewer
// and clears the new-submission flag.
func (e *Engine) Approve(ctx context.Context, id string, p ApproveParams, caller *Identity) (*models.RMA, error) {
	if !caller.IsAdmin() {
		return nil, &AuthorizationError{Message: "admin role required"}
	}
	if p.ApprovedBy == "" {
		return nil, newValidationError("approvedBy", "approver name is required")
	}

	db := e.db.WithContext(ctx)

	var r models.RMA
	if err := db.First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "RMA"}
		}
		return nil, err
	}

	if !CanTransition(r.Status, models.RMAStatusApproved) {
		return nil, newValidationError("status", "cannot approve an RMA in status "+string(r.Status))
	}

	now := e.now()
	applyApproval(&r, p.ApprovedBy, p.Notes, p.VendorID, p.EstimatedReturnDate, now)

	if err := db.Save(&r).Error; err != nil {
		return nil, err
	}

	e.emitter.Emit(Event{
		Channel:   ChannelNotification,
		Type:      EventRMAApproved,
		Title:     "RMA Approved",
		Message:   "RMA " + r.RMANumber + " has been approved",
		RMANumber: r.RMANumber,
		Timestamp: now,
		Context:   map[string]interface{}{"rmaId": r.ID},
	})

	return e.reload(ctx, r.ID)
}

// Reject marks a pending submission as rejected, recording the reason
func (e *Engine) Reject(ctx context.Context, id, rejectedBy, rejectionReason string, caller *Identity) (*models.RMA, error) {
	if !caller.IsAdmin() {
		return nil, &AuthorizationError{Message: "admin role required"}
	}
	if rejectedBy == "" {
		return nil, newValidationError("rejectedBy", "rejector name is required")
	}
	if rejectionReason == "" {
		return nil, newValidationError("rejectionReason", "rejection reason is required")
	}

	db := e.db.WithContext(ctx)

	var r models.RMA
	if err := db.First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "RMA"}
		}
		return nil, err
	}

	if !CanTransition(r.Status, models.RMAStatusRejected) {
		return nil, newValidationError("status", "cannot reject an RMA in status "+string(r.Status))
	}

	now := e.now()
	applyRejection(&r, rejectedBy, rejectionReason, now)

	if err := db.Save(&r).Error; err != nil {
		return nil, err
	}

	e.emitter.Emit(Event{
		Channel:   ChannelNotification,
		Type:      EventRMARejected,
		Title:     "RMA Rejected",
		Message:   "RMA " + r.RMANumber + " has been rejected",
		RMANumber: r.RMANumber,
		Timestamp: now,
		Context:   map[string]interface{}{"rmaId": r.ID},
	})

	return e.reload(ctx, r.ID)
}

// UploadAttachment places a file into one of the four attachment slots
func (e *Engine) UploadAttachment(ctx context.Context, id string, category AttachmentCategory, file FileMeta, caller *Identity) (*models.AttachmentBundle, error) {
	if !caller.IsAdmin() {
		return nil, &AuthorizationError{Message: "admin role required"}
	}
	if file.Filename == "" || file.Path == "" {
		return nil, newValidationError("file", "filename and path are required")
	}

	db := e.db.WithContext(ctx)

	var r models.RMA
	if err := db.First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "RMA"}
		}
		return nil, err
	}

	bundle := r.Attachments.Data()
	if err := addAttachment(&bundle, category, file, e.now()); err != nil {
		return nil, err
	}
	r.Attachments = datatypes.NewJSONType(bundle)

	if err := db.Save(&r).Error; err != nil {
		return nil, err
	}
	return &bundle, nil
}

// ResolveAttachment locates a stored file for download, subject to the
// caller's scope. The boundary layer streams the bytes.
func (e *Engine) ResolveAttachment(ctx context.Context, id string, category AttachmentCategory, index int, caller *Identity) (models.Upload, error) {
	var r models.RMA
	err := e.db.WithContext(ctx).Scopes(VisibleTo(caller)).First(&r, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Upload{}, &NotFoundError{Resource: "RMA"}
		}
		return models.Upload{}, err
	}
	return resolveAttachment(r.Attachments.Data(), category, index)
}

// Delete permanently removes a record. Administrator-only; hard removal
// with no tombstone.
func (e *Engine) Delete(ctx context.Context, id string, caller *Identity) error {
	if !caller.IsAdmin() {
		return &AuthorizationError{Message: "admin role required"}
	}

	res := e.db.WithContext(ctx).Delete(&models.RMA{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "RMA"}
	}
	return nil
}
