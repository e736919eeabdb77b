package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/asseto/trackgo/internal/middleware"
	"github.com/asseto/trackgo/internal/models"
	"github.com/asseto/trackgo/internal/services/printer"
	"github.com/asseto/trackgo/internal/services/rma"
	"github.com/gorilla/mux"
)

// createRMA accepts a JSON submission. Anonymous callers are allowed;
// authenticated callers have their identity recorded as the reporter.
func (r *Router) createRMA(w http.ResponseWriter, req *http.Request) {
	var params rma.CreateParams
	if err := json.NewDecoder(req.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	caller := middleware.CallerFromContext(req.Context())
	record, err := r.engine.Create(req.Context(), params, caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, record)
}

// listRMAs lists records visible to the caller, optionally filtered
func (r *Router) listRMAs(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	filter := rma.QueryFilter{
		Status:   models.RMAStatus(q.Get("status")),
		Priority: models.RMAPriority(q.Get("priority")),
		RMAType:  models.RMAType(q.Get("rmaType")),
		DeviceID: q.Get("deviceId"),
	}

	caller := middleware.CallerFromContext(req.Context())
	records, err := r.engine.Query(req.Context(), filter, caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// getRMA returns a single record inside the caller's scope
func (r *Router) getRMA(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	caller := middleware.CallerFromContext(req.Context())

	record, err := r.engine.GetByID(req.Context(), id, caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// getRMAByNumber looks up a record by its human-readable number
func (r *Router) getRMAByNumber(w http.ResponseWriter, req *http.Request) {
	rmaNumber := mux.Vars(req)["rmaNumber"]
	caller := middleware.CallerFromContext(req.Context())

	record, err := r.engine.GetByNumber(req.Context(), rmaNumber, caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// myRequests lists the caller's own submissions. Anonymous callers must
// supply email, phone or serialNumber query parameters.
func (r *Router) myRequests(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	filter := rma.ContactFilter{
		Email:        q.Get("email"),
		Phone:        q.Get("phone"),
		SerialNumber: q.Get("serialNumber"),
	}

	caller := middleware.CallerFromContext(req.Context())
	records, err := r.engine.MyRequests(req.Context(), caller, filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// pendingRMAs lists unprocessed submissions for the admin dashboard
func (r *Router) pendingRMAs(w http.ResponseWriter, req *http.Request) {
	caller := middleware.CallerFromContext(req.Context())
	records, err := r.engine.PendingReview(req.Context(), caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(records),
		"rmas":  records,
	})
}

// rmaStats returns aggregate counts for the admin dashboard
func (r *Router) rmaStats(w http.ResponseWriter, req *http.Request) {
	caller := middleware.CallerFromContext(req.Context())
	stats, err := r.engine.Stats(req.Context(), caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

type statusUpdateRequest struct {
	Status    models.RMAStatus `json:"status"`
	UpdatedBy string           `json:"updatedBy"`
	Notes     string           `json:"notes"`
}

// updateRMAStatus moves a record along the lifecycle graph
func (r *Router) updateRMAStatus(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	var body statusUpdateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	caller := middleware.CallerFromContext(req.Context())
	record, err := r.engine.Transition(req.Context(), id, body.Status, body.UpdatedBy, body.Notes, caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// approveRMA approves a pending submission
func (r *Router) approveRMA(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	var params rma.ApproveParams
	if err := json.NewDecoder(req.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	caller := middleware.CallerFromContext(req.Context())
	if params.ApprovedBy == "" && caller != nil {
		params.ApprovedBy = caller.Name
	}

	record, err := r.engine.Approve(req.Context(), id, params, caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

type rejectRequest struct {
	RejectedBy      string `json:"rejectedBy"`
	RejectionReason string `json:"rejectionReason"`
}

// rejectRMA rejects a pending submission with a reason
func (r *Router) rejectRMA(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	var body rejectRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	caller := middleware.CallerFromContext(req.Context())
	if body.RejectedBy == "" && caller != nil {
		body.RejectedBy = caller.Name
	}

	record, err := r.engine.Reject(req.Context(), id, body.RejectedBy, body.RejectionReason, caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// updateRMA applies a partial field update
func (r *Router) updateRMA(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	var fields map[string]interface{}
	if err := json.NewDecoder(req.Body).Decode(&fields); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	caller := middleware.CallerFromContext(req.Context())
	record, err := r.engine.Update(req.Context(), id, fields, caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// deleteRMA permanently removes a record
func (r *Router) deleteRMA(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	caller := middleware.CallerFromContext(req.Context())

	if err := r.engine.Delete(req.Context(), id, caller); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "RMA deleted successfully",
	})
}

// rmaFormPDF renders the printable RMA form
func (r *Router) rmaFormPDF(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	caller := middleware.CallerFromContext(req.Context())

	record, err := r.engine.GetByID(req.Context(), id, caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	pdfBytes, err := printer.GenerateRMAFormPDF(record)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", record.RMANumber))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.Write(pdfBytes)
}

// rmaQRCode renders a QR shipping label for the record
func (r *Router) rmaQRCode(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	caller := middleware.CallerFromContext(req.Context())

	record, err := r.engine.GetByID(req.Context(), id, caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	size := 256
	if s := req.URL.Query().Get("size"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 && parsed <= 1024 {
			size = parsed
		}
	}

	png, err := printer.QRLabel(record.RMANumber, size)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=86400")
	w.Write(png)
}

// parseDownloadIndex reads the optional index query parameter
func parseDownloadIndex(req *http.Request) int {
	if s := req.URL.Query().Get("index"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil {
			return parsed
		}
	}
	return 0
}
