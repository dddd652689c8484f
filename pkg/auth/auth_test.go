package auth

import (
	"strings"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "thida", "manager")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "thida" {
		t.Errorf("Username = %q, want thida", claims.Username)
	}
	if claims.Role != "manager" {
		t.Errorf("Role = %q, want manager", claims.Role)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := ValidateToken(token); err == nil {
			t.Errorf("ValidateToken(%q) accepted an invalid token", token)
		}
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	token, err := GenerateToken(1, "admin", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("x", len(parts[2]))
	if _, err := ValidateToken(tampered); err == nil {
		t.Error("ValidateToken accepted a token with a forged signature")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash equals the plaintext password")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("CheckPassword rejected the correct password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword accepted a wrong password")
	}
}
