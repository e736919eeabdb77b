package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/asseto/trackgo/internal/models"
	"github.com/gorilla/mux"
)

// listNotifications returns notifications from the last 30 days,
// newest first, capped at 100
func (r *Router) listNotifications(w http.ResponseWriter, req *http.Request) {
	since := time.Now().UTC().AddDate(0, 0, -30)

	tx := r.db.Where("created_at >= ?", since)
	if t := req.URL.Query().Get("type"); t != "" {
		tx = tx.Where("type = ?", t)
	}
	if req.URL.Query().Get("unread") == "true" {
		tx = tx.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := tx.Order("created_at DESC").Limit(100).Find(&notifications).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}
	respondJSON(w, http.StatusOK, notifications)
}

// unreadNotificationCount returns the number of unread notifications
func (r *Router) unreadNotificationCount(w http.ResponseWriter, req *http.Request) {
	var count int64
	if err := r.db.Model(&models.Notification{}).Where("is_read = ?", false).Count(&count).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to count notifications")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// markNotificationRead flags one notification as read
func (r *Router) markNotificationRead(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	res := r.db.Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update notification")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "Notification not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Notification marked as read",
	})
}

// createNotification lets an administrator post a manual announcement
func (r *Router) createNotification(w http.ResponseWriter, req *http.Request) {
	var notif models.Notification
	if err := json.NewDecoder(req.Body).Decode(&notif); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if notif.Message == "" {
		respondError(w, http.StatusBadRequest, "Message is required")
		return
	}
	if notif.Type == "" {
		notif.Type = models.NotificationInfo
	}

	if err := r.db.Create(&notif).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create notification")
		return
	}

	r.hub.Broadcast(notif)
	respondJSON(w, http.StatusCreated, notif)
}

// deleteNotification removes a notification
func (r *Router) deleteNotification(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	res := r.db.Delete(&models.Notification{}, "id = ?", id)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete notification")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "Notification not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Notification deleted successfully",
	})
}
