package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/asseto/trackgo/internal/models"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// listCategories returns all device categories
func (r *Router) listCategories(w http.ResponseWriter, req *http.Request) {
	var categories []models.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// createCategory registers a device category
func (r *Router) createCategory(w http.ResponseWriter, req *http.Request) {
	var category models.Category
	if err := json.NewDecoder(req.Body).Decode(&category); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if category.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	if err := r.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(w, http.StatusConflict, "Category already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

// deleteCategory removes a category unless devices still reference it
func (r *Router) deleteCategory(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var inUse int64
	if err := r.db.Model(&models.Device{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to check category usage")
		return
	}
	if inUse > 0 {
		respondError(w, http.StatusConflict, "Category is still in use by devices")
		return
	}

	res := r.db.Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Category deleted successfully",
	})
}
