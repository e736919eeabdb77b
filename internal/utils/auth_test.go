package utils

import (
	"testing"

	"github.com/asseto/trackgo/internal/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("Hash must not equal the plaintext")
	}
	if !CheckPasswordHash("s3cret-pass", hash) {
		t.Error("Correct password should verify")
	}
	if CheckPasswordHash("wrong-pass", hash) {
		t.Error("Wrong password must not verify")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	user := &models.UserAuth{
		ID:    "8c9f4e8a-1111-2222-3333-444455556666",
		Name:  "Alice",
		Email: "alice@x.com",
		Role:  models.RoleAdmin,
	}

	access, refresh, err := GenerateTokens(user, "test-secret")
	if err != nil {
		t.Fatalf("GenerateTokens failed: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("Expected non-empty tokens")
	}

	claims, err := ValidateToken(access, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims["email"] != "alice@x.com" {
		t.Errorf("Expected email claim, got %v", claims["email"])
	}
	if claims["name"] != "Alice" {
		t.Errorf("Expected name claim, got %v", claims["name"])
	}
	if claims["role"] != models.RoleAdmin {
		t.Errorf("Expected admin role claim, got %v", claims["role"])
	}

	if _, err := ValidateToken(access, "other-secret"); err == nil {
		t.Error("Token signed with a different secret must not validate")
	}
	if _, err := ValidateToken("not-a-token", "test-secret"); err == nil {
		t.Error("Garbage token must not validate")
	}
}
