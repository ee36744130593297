package auth

import (
	"testing"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cure-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "s3cure-password" {
		t.Fatal("hash equals the plain password")
	}

	if !CheckPasswordHash("s3cure-password", hash) {
		t.Error("CheckPasswordHash() rejected the correct password")
	}
	if CheckPasswordHash("wrong-password", hash) {
		t.Error("CheckPasswordHash() accepted a wrong password")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	JwtSecret = []byte("test-secret")

	token, err := GenerateJWT("507f1f77bcf86cd799439011", "user@example.com", "end_user", "")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	if claims.UserID != "507f1f77bcf86cd799439011" {
		t.Errorf("UserID = %s", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %s", claims.Email)
	}
	if claims.Role != "end_user" {
		t.Errorf("Role = %s", claims.Role)
	}
}

func TestParseTokenRejectsTampering(t *testing.T) {
	JwtSecret = []byte("test-secret")
	token, err := GenerateJWT("507f1f77bcf86cd799439011", "user@example.com", "end_user", "")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	JwtSecret = []byte("different-secret")
	if _, err := ParseToken(token); err == nil {
		t.Error("ParseToken() accepted a token signed with another secret")
	}
}
