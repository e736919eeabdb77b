package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/asseto/trackgo/internal/models"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// generateSKU builds a readable stock-keeping unit from the category
// name plus a random suffix, retrying on the rare collision
func (r *Router) generateSKU(categoryName string) (string, error) {
	prefix := strings.ToUpper(categoryName)
	prefix = strings.Map(func(c rune) rune {
		if c >= 'A' && c <= 'Z' {
			return c
		}
		return -1
	}, prefix)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	if prefix == "" {
		prefix = "DEV"
	}

	for attempt := 0; attempt < 10; attempt++ {
		sku := fmt.Sprintf("%s-%d", prefix, 100+rand.Intn(900))
		var count int64
		if err := r.db.Model(&models.Device{}).Where("sku = ?", sku).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return sku, nil
		}
	}
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano()%100000), nil
}

// listDevices returns all devices, optionally filtered by category or
// movement status
func (r *Router) listDevices(w http.ResponseWriter, req *http.Request) {
	tx := r.db.Preload("Category").Order("created_at DESC")

	q := req.URL.Query()
	if categoryID := q.Get("categoryId"); categoryID != "" {
		tx = tx.Where("category_id = ?", categoryID)
	}
	if status := q.Get("status"); status != "" {
		tx = tx.Where("status = ?", status)
	}
	if serial := q.Get("serial"); serial != "" {
		tx = tx.Where("serial = ?", serial)
	}

	var devices []models.Device
	if err := tx.Find(&devices).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch devices")
		return
	}
	respondJSON(w, http.StatusOK, devices)
}

// getDevice returns a single device
func (r *Router) getDevice(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var device models.Device
	if err := r.db.Preload("Category").First(&device, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Device not found")
		return
	}
	respondJSON(w, http.StatusOK, device)
}

// createDevice registers a new asset. The SKU is generated server-side.
func (r *Router) createDevice(w http.ResponseWriter, req *http.Request) {
	var device models.Device
	if err := json.NewDecoder(req.Body).Decode(&device); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if device.Type == "" || device.Serial == "" || device.CategoryID == "" {
		respondError(w, http.StatusBadRequest, "Type, serial and categoryId are required")
		return
	}

	var category models.Category
	if err := r.db.First(&category, "id = ?", device.CategoryID).Error; err != nil {
		respondError(w, http.StatusBadRequest, "Unknown category")
		return
	}

	var existing int64
	if err := r.db.Model(&models.Device{}).Where("serial = ?", device.Serial).Count(&existing).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to check serial")
		return
	}
	if existing > 0 {
		respondError(w, http.StatusConflict, "A device with this serial already exists")
		return
	}

	sku, err := r.generateSKU(category.Name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate SKU")
		return
	}
	device.SKU = sku
	if device.Status == "" {
		device.Status = models.DeviceMovementInward
	}

	if err := r.db.Create(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(w, http.StatusConflict, "A device with this serial already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create device")
		return
	}

	device.Category = &category
	respondJSON(w, http.StatusCreated, device)
}

// updateDevice updates device fields. The SKU and serial stay fixed.
func (r *Router) updateDevice(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var device models.Device
	if err := r.db.First(&device, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Device not found")
		return
	}

	var patch models.Device
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	// Identity fields stay fixed; zero values are skipped by Updates
	patch.ID = ""
	patch.SKU = ""
	patch.Serial = ""
	patch.Category = nil

	if err := r.db.Model(&device).Updates(patch).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update device")
		return
	}

	r.db.Preload("Category").First(&device, "id = ?", id)
	respondJSON(w, http.StatusOK, device)
}

type assignDeviceRequest struct {
	AssignedTo  string `json:"assignedTo"`
	ProjectName string `json:"projectName"`
}

// applyAssignment mutates a device for a hand-out or a return to stock.
// Handing a device out starts a one year warranty clock from the
// assignment date; returning it keeps any running warranty intact.
func applyAssignment(device *models.Device, assignedTo, projectName string, now time.Time) {
	if assignedTo == "" {
		device.AssignedTo = ""
		device.ProjectName = ""
		device.AssignedDate = nil
		device.Status = models.DeviceMovementInward
		return
	}
	warrantyEnd := now.AddDate(1, 0, 0)
	device.AssignedTo = assignedTo
	device.ProjectName = projectName
	device.AssignedDate = &now
	device.WarrantyEndDate = &warrantyEnd
	device.Status = models.DeviceMovementOutward
}

// assignDevice hands a device out or takes it back. An empty assignedTo
// returns the device to stock.
func (r *Router) assignDevice(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var device models.Device
	if err := r.db.First(&device, "id = ?", id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Device not found")
		return
	}

	var body assignDeviceRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	applyAssignment(&device, body.AssignedTo, body.ProjectName, time.Now().UTC())

	if err := r.db.Save(&device).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update device")
		return
	}
	respondJSON(w, http.StatusOK, device)
}

// deleteDevice removes a device permanently
func (r *Router) deleteDevice(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	res := r.db.Delete(&models.Device{}, "id = ?", id)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete device")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "Device not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Device deleted successfully",
	})
}
