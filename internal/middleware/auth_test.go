package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asseto/trackgo/internal/models"
	"github.com/asseto/trackgo/internal/services/rma"
	"github.com/asseto/trackgo/internal/utils"
)

const testSecret = "middleware-test-secret"

func adminToken(t *testing.T) string {
	t.Helper()
	user := &models.UserAuth{
		ID:    "5b2d9a00-0000-0000-0000-000000000001",
		Name:  "Root Admin",
		Email: "admin@x.com",
		Role:  models.RoleAdmin,
	}
	access, _, err := utils.GenerateTokens(user, testSecret)
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}
	return access
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/rma", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not run with a malformed header")
	}))

	req := httptest.NewRequest("GET", "/api/rma", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAuthAttachesIdentity(t *testing.T) {
	var got *rma.Identity
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CallerFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/rma", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got == nil {
		t.Fatal("Expected an identity in the request context")
	}
	if got.Email != "admin@x.com" || got.Name != "Root Admin" {
		t.Errorf("Identity fields mismatch: %+v", got)
	}
	if !got.IsAdmin() {
		t.Error("Admin role should carry through the token")
	}
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	called := false
	handler := OptionalAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if CallerFromContext(r.Context()) != nil {
			t.Error("Anonymous request should carry no identity")
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/api/rma", nil))

	if !called {
		t.Error("Anonymous request should reach the handler")
	}
}

func TestOptionalAuthRejectsBadToken(t *testing.T) {
	handler := OptionalAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not run with an invalid token")
	}))

	req := httptest.NewRequest("POST", "/api/rma", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAdminOnly(t *testing.T) {
	protected := AdminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	// No identity at all
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest("GET", "/api/rma/stats", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 without identity, got %d", rec.Code)
	}

	// Regular user through the full chain
	user := &models.UserAuth{ID: "x", Name: "Bob", Email: "bob@x.com", Role: models.RoleUser}
	token, _, err := utils.GenerateTokens(user, testSecret)
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}
	chain := Auth(testSecret)(protected)
	req := httptest.NewRequest("GET", "/api/rma/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for regular user, got %d", rec.Code)
	}

	// Admin passes
	req = httptest.NewRequest("GET", "/api/rma/stats", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for admin, got %d", rec.Code)
	}
}
