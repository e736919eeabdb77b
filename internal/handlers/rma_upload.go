package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/asseto/trackgo/internal/middleware"
	"github.com/asseto/trackgo/internal/models"
	"github.com/asseto/trackgo/internal/services/rma"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// maxUploadSize caps a single multipart submission at 25MB
const maxUploadSize = 25 << 20

// storeUploadedFile writes one multipart file into the upload directory
// under a collision-free name and returns its metadata
func (r *Router) storeUploadedFile(fh *multipart.FileHeader) (rma.FileMeta, error) {
	src, err := fh.Open()
	if err != nil {
		return rma.FileMeta{}, err
	}
	defer src.Close()

	if err := os.MkdirAll(r.cfg.UploadDir, 0o755); err != nil {
		return rma.FileMeta{}, err
	}

	stored := uuid.New().String() + filepath.Ext(fh.Filename)
	path := filepath.Join(r.cfg.UploadDir, stored)

	dst, err := os.Create(path)
	if err != nil {
		return rma.FileMeta{}, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return rma.FileMeta{}, err
	}

	return rma.FileMeta{Filename: fh.Filename, Path: path}, nil
}

func (r *Router) storeAll(headers []*multipart.FileHeader) ([]rma.FileMeta, error) {
	var out []rma.FileMeta
	for _, fh := range headers {
		meta, err := r.storeUploadedFile(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, meta)
	}
	return out, nil
}

func rmaTypeFromForm(req *http.Request) models.RMAType {
	return models.RMAType(req.FormValue("rmaType"))
}

func rmaPriorityFromForm(req *http.Request) models.RMAPriority {
	return models.RMAPriority(req.FormValue("priority"))
}

// submitRMAWithFiles accepts a multipart submission: the JSON fields in
// the "data" form value plus categorized file fields. Files posted under
// the generic "files" field fall back to invoice-then-photos placement.
func (r *Router) submitRMAWithFiles(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadSize)
	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}

	var params rma.CreateParams
	if data := req.FormValue("data"); data != "" {
		if err := json.Unmarshal([]byte(data), &params); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid JSON in data field")
			return
		}
	} else {
		params.SerialNumber = req.FormValue("serialNumber")
		params.RMAType = rmaTypeFromForm(req)
		params.IssueDescription = req.FormValue("issueDescription")
		params.Reason = req.FormValue("reason")
		params.ReportedBy = req.FormValue("reportedBy")
		params.ReportedByEmail = req.FormValue("reportedByEmail")
		params.ReportedByPhone = req.FormValue("reportedByPhone")
		params.Priority = rmaPriorityFromForm(req)
	}

	var bulk rma.BulkFiles
	var err error
	form := req.MultipartForm
	if bulk.Invoice, err = r.storeAll(form.File["invoice"]); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}
	if bulk.PurchaseOrder, err = r.storeAll(form.File["purchaseOrder"]); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}
	if bulk.Photos, err = r.storeAll(form.File["photos"]); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}
	if bulk.AdditionalDocs, err = r.storeAll(form.File["additionalDocs"]); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}
	if bulk.Generic, err = r.storeAll(form.File["files"]); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}

	bundle := rma.DistributeFiles(bulk)
	params.Attachments = &bundle

	caller := middleware.CallerFromContext(req.Context())
	record, err := r.engine.Create(req.Context(), params, caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, record)
}

// uploadRMAAttachment stores one file into a named attachment slot
func (r *Router) uploadRMAAttachment(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	req.Body = http.MaxBytesReader(w, req.Body, maxUploadSize)
	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}

	file, fh, err := req.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	file.Close()

	meta, err := r.storeUploadedFile(fh)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}
	meta.Description = req.FormValue("description")

	category := rma.AttachmentCategory(req.FormValue("attachmentType"))
	caller := middleware.CallerFromContext(req.Context())

	bundle, err := r.engine.UploadAttachment(req.Context(), id, category, meta, caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bundle)
}

// downloadAttachment streams a stored file back to the caller
func (r *Router) downloadAttachment(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	category := rma.AttachmentCategory(req.URL.Query().Get("fileType"))
	index := parseDownloadIndex(req)

	caller := middleware.CallerFromContext(req.Context())
	upload, err := r.engine.ResolveAttachment(req.Context(), id, category, index, caller)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	f, err := os.Open(upload.Path)
	if err != nil {
		respondError(w, http.StatusNotFound, "File not found or access denied")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", upload.Filename))
	io.Copy(w, f)
}
