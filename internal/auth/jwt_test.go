package auth

import (
	"testing"

	"tracker-backend/internal/config"
	"tracker-backend/internal/models"
)

func testManager() *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "tracker-backend"
	return NewJWTManager(cfg)
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := testManager()

	baseID := 3
	user := &models.User{
		ID:       42,
		Username: "commander",
		Role:     models.RoleBaseCommander,
		BaseID:   &baseID,
	}

	token, err := m.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "commander" || claims.Role != models.RoleBaseCommander {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.BaseID == nil || *claims.BaseID != 3 {
		t.Errorf("expected base_id 3 in claims, got %v", claims.BaseID)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	m := testManager()

	token, err := m.GenerateToken(&models.User{ID: 1, Username: "admin", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	other := testManager()
	other.cfg.JWT.Secret = "different-secret"
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("expected validation to fail with wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	m := testManager()
	if _, err := m.ValidateToken("not.a.token"); err == nil {
		t.Error("expected validation to fail for garbage input")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "correct horse battery staple") {
		t.Error("expected password to verify")
	}
	if VerifyPassword(hash, "wrong password") {
		t.Error("expected wrong password to fail")
	}
}
