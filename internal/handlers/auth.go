package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/asseto/trackgo/internal/middleware"
	"github.com/asseto/trackgo/internal/models"
	"github.com/asseto/trackgo/internal/services/rma"
	"github.com/asseto/trackgo/internal/utils"
	"gorm.io/gorm"
)

// identityFromToken validates a raw token and builds the caller identity
func identityFromToken(token, secret string) (*rma.Identity, error) {
	claims, err := utils.ValidateToken(token, secret)
	if err != nil {
		return nil, err
	}
	id := &rma.Identity{}
	if v, ok := claims["name"].(string); ok {
		id.Name = v
	}
	if v, ok := claims["email"].(string); ok {
		id.Email = v
	}
	if v, ok := claims["role"].(string); ok {
		id.Role = v
	}
	return id, nil
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// register creates a user account. The first registered account becomes
// the administrator; everyone after that is a regular user.
func (r *Router) register(w http.ResponseWriter, req *http.Request) {
	var body registerRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if body.Name == "" || body.Email == "" || body.Password == "" {
		respondError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	if len(body.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	var existing models.UserAuth
	err := r.db.Where("email = ?", body.Email).First(&existing).Error
	if err == nil {
		respondError(w, http.StatusConflict, "Email already registered")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusInternalServerError, "Failed to check existing users")
		return
	}

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	var count int64
	if err := r.db.Model(&models.UserAuth{}).Count(&count).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to check existing users")
		return
	}
	role := models.RoleUser
	if count == 0 {
		role = models.RoleAdmin
	}

	user := models.UserAuth{
		Name:     body.Name,
		Email:    body.Email,
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	if err := r.db.Create(&user).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	access, refresh, err := utils.GenerateTokens(&user, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"user":         user,
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

// login authenticates a user by email and password
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if body.Email == "" || body.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var user models.UserAuth
	if err := r.db.Where("email = ?", body.Email).First(&user).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		respondError(w, http.StatusForbidden, "Account is disabled")
		return
	}
	if !utils.CheckPasswordHash(body.Password, user.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	now := time.Now().UTC()
	r.db.Model(&user).Update("last_login", now)

	access, refresh, err := utils.GenerateTokens(&user, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":         user,
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

// profile returns the authenticated user's account
func (r *Router) profile(w http.ResponseWriter, req *http.Request) {
	caller := middleware.CallerFromContext(req.Context())
	if caller == nil {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var user models.UserAuth
	if err := r.db.Where("email = ?", caller.Email).First(&user).Error; err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
