package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/asseto/trackgo/internal/config"
	"github.com/asseto/trackgo/internal/database"
	"github.com/asseto/trackgo/internal/middleware"
	"github.com/asseto/trackgo/internal/services/rma"
	"github.com/asseto/trackgo/internal/websocket"
	"github.com/gorilla/mux"
)

// Router wraps the mux router with the service collaborators the
// handlers need
type Router struct {
	*mux.Router
	db     *database.DB
	cfg    *config.Config
	engine *rma.Engine
	hub    *websocket.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, engine *rma.Engine, hub *websocket.Hub) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		db:     db,
		cfg:    cfg,
		engine: engine,
		hub:    hub,
	}

	secret := cfg.JWTSecret
	optionalAuth := middleware.OptionalAuth(secret)
	requireAuth := middleware.Auth(secret)

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Websocket endpoint; token via query parameter since browsers
	// cannot set headers on websocket upgrades
	r.HandleFunc("/ws", r.serveWs).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Auth routes
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/login", r.login).Methods("POST")

	authProfile := api.PathPrefix("/auth").Subrouter()
	authProfile.Use(requireAuth)
	authProfile.HandleFunc("/profile", r.profile).Methods("GET")

	// Public RMA surface: submission and anonymous self-lookup
	rmaPublic := api.PathPrefix("/rma").Subrouter()
	rmaPublic.Use(optionalAuth)
	rmaPublic.HandleFunc("", r.createRMA).Methods("POST")
	rmaPublic.HandleFunc("/submit", r.submitRMAWithFiles).Methods("POST")
	rmaPublic.HandleFunc("/my-requests", r.myRequests).Methods("GET")
	rmaPublic.HandleFunc("/number/{rmaNumber}", r.getRMAByNumber).Methods("GET")
	rmaPublic.HandleFunc("/{id}/attachments/download", r.downloadAttachment).Methods("GET")

	// Admin RMA surface
	rmaAdmin := api.PathPrefix("/rma").Subrouter()
	rmaAdmin.Use(requireAuth, middleware.AdminOnly)
	rmaAdmin.HandleFunc("/pending", r.pendingRMAs).Methods("GET")
	rmaAdmin.HandleFunc("/stats", r.rmaStats).Methods("GET")
	rmaAdmin.HandleFunc("/{id}/status", r.updateRMAStatus).Methods("PUT")
	rmaAdmin.HandleFunc("/{id}/approve", r.approveRMA).Methods("PUT")
	rmaAdmin.HandleFunc("/{id}/reject", r.rejectRMA).Methods("PUT")
	rmaAdmin.HandleFunc("/{id}/attachments", r.uploadRMAAttachment).Methods("POST")
	rmaAdmin.HandleFunc("/{id}", r.updateRMA).Methods("PUT")
	rmaAdmin.HandleFunc("/{id}", r.deleteRMA).Methods("DELETE")

	// Authenticated RMA surface (scoped reads)
	rmaAuth := api.PathPrefix("/rma").Subrouter()
	rmaAuth.Use(requireAuth)
	rmaAuth.HandleFunc("", r.listRMAs).Methods("GET")
	rmaAuth.HandleFunc("/{id}/form.pdf", r.rmaFormPDF).Methods("GET")
	rmaAuth.HandleFunc("/{id}/qrcode", r.rmaQRCode).Methods("GET")
	rmaAuth.HandleFunc("/{id}", r.getRMA).Methods("GET")

	// Device routes
	devices := api.PathPrefix("/devices").Subrouter()
	devices.Use(requireAuth)
	devices.HandleFunc("", r.listDevices).Methods("GET")
	devices.HandleFunc("/{id}", r.getDevice).Methods("GET")

	devicesAdmin := api.PathPrefix("/devices").Subrouter()
	devicesAdmin.Use(requireAuth, middleware.AdminOnly)
	devicesAdmin.HandleFunc("", r.createDevice).Methods("POST")
	devicesAdmin.HandleFunc("/{id}", r.updateDevice).Methods("PUT")
	devicesAdmin.HandleFunc("/{id}", r.deleteDevice).Methods("DELETE")
	devicesAdmin.HandleFunc("/{id}/assign", r.assignDevice).Methods("PUT")

	// Vendor routes
	vendors := api.PathPrefix("/vendors").Subrouter()
	vendors.Use(requireAuth)
	vendors.HandleFunc("", r.listVendors).Methods("GET")
	vendors.HandleFunc("/{id}", r.getVendor).Methods("GET")

	vendorsAdmin := api.PathPrefix("/vendors").Subrouter()
	vendorsAdmin.Use(requireAuth, middleware.AdminOnly)
	vendorsAdmin.HandleFunc("", r.createVendor).Methods("POST")
	vendorsAdmin.HandleFunc("/{id}", r.updateVendor).Methods("PUT")
	vendorsAdmin.HandleFunc("/{id}", r.deleteVendor).Methods("DELETE")

	// Category routes
	categories := api.PathPrefix("/categories").Subrouter()
	categories.Use(requireAuth)
	categories.HandleFunc("", r.listCategories).Methods("GET")

	categoriesAdmin := api.PathPrefix("/categories").Subrouter()
	categoriesAdmin.Use(requireAuth, middleware.AdminOnly)
	categoriesAdmin.HandleFunc("", r.createCategory).Methods("POST")
	categoriesAdmin.HandleFunc("/{id}", r.deleteCategory).Methods("DELETE")

	// Notification routes
	notifications := api.PathPrefix("/notifications").Subrouter()
	notifications.Use(requireAuth)
	notifications.HandleFunc("", r.listNotifications).Methods("GET")
	notifications.HandleFunc("/unread-count", r.unreadNotificationCount).Methods("GET")
	notifications.HandleFunc("/{id}/read", r.markNotificationRead).Methods("PUT")

	notificationsAdmin := api.PathPrefix("/notifications").Subrouter()
	notificationsAdmin.Use(requireAuth, middleware.AdminOnly)
	notificationsAdmin.HandleFunc("", r.createNotification).Methods("POST")
	notificationsAdmin.HandleFunc("/{id}", r.deleteNotification).Methods("DELETE")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"clients": r.hub.ClientCount(),
	})
}

// serveWs validates an optional token and hands the connection to the hub
func (r *Router) serveWs(w http.ResponseWriter, req *http.Request) {
	role := ""
	if token := req.URL.Query().Get("token"); token != "" {
		if id, err := identityFromToken(token, r.cfg.JWTSecret); err == nil {
			role = id.Role
		}
	}
	websocket.ServeWs(r.hub, role, w, req)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondServiceError maps service-layer errors to HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	var verr *rma.ValidationError
	var nferr *rma.NotFoundError
	var aerr *rma.AuthorizationError
	var cerr *rma.ConflictError

	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &nferr):
		respondError(w, http.StatusNotFound, nferr.Error())
	case errors.As(err, &aerr):
		respondError(w, http.StatusForbidden, aerr.Error())
	case errors.As(err, &cerr):
		respondError(w, http.StatusConflict, cerr.Error())
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
