package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/asseto/trackgo/internal/models"
	"github.com/gorilla/mux"
)

// listVendors returns all vendors, optionally filtered by status
func (r *Router) listVendors(w http.ResponseWriter, req *http.Request) {
	tx := r.db.Order("vendor ASC")
	if status := req.URL.Query().Get("status"); status != "" {
		tx = tx.Where("status = ?", status)
	}

	var vendors []models.Vendor
	if err := tx.Find(&vendors).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch vendors")
		return
	}
	respondJSON(w, http.StatusOK, vendors)
}

// getVendor returns a single vendor
func (r *Router) getVendor(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var vendor models.Vendor
	if err := r.db.First(&vendor, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Vendor not found")
		return
	}
	respondJSON(w, http.StatusOK, vendor)
}

// createVendor registers a repair/replacement vendor
func (r *Router) createVendor(w http.ResponseWriter, req *http.Request) {
	var vendor models.Vendor
	if err := json.NewDecoder(req.Body).Decode(&vendor); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if vendor.Vendor == "" || vendor.Contact == "" || vendor.Email == "" || vendor.Phone == "" {
		respondError(w, http.StatusBadRequest, "Vendor, contact, email and phone are required")
		return
	}
	if vendor.Status == "" {
		vendor.Status = models.VendorStatusActive
	}

	if err := r.db.Create(&vendor).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create vendor")
		return
	}
	respondJSON(w, http.StatusCreated, vendor)
}

// updateVendor updates vendor fields
func (r *Router) updateVendor(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var vendor models.Vendor
	if err := r.db.First(&vendor, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Vendor not found")
		return
	}

	var patch models.Vendor
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	patch.ID = ""

	if err := r.db.Model(&vendor).Updates(patch).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update vendor")
		return
	}
	respondJSON(w, http.StatusOK, vendor)
}

// deleteVendor removes a vendor. RMAs referencing it keep the id; the
// relation simply stops resolving.
func (r *Router) deleteVendor(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	res := r.db.Delete(&models.Vendor{}, "id = ?", id)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete vendor")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "Vendor not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Vendor deleted successfully",
	})
}
