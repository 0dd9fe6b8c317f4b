package jwt

import (
	"errors"
	"testing"
	"time"

	"grocery-budget-backend/domain"

	"github.com/golang-jwt/jwt/v4"
)

func testService() *jwtService {
	return &jwtService{secretKey: "test-secret", issuer: "GROCERY_BUDGET"}
}

func TestGenerateAndResolveToken(t *testing.T) {
	service := testService()

	token := service.GenerateTokenUser("user-123", "u@example.com")
	if token == "" {
		t.Fatal("empty token")
	}

	userID, email, err := service.GetUserIDByToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != "user-123" || email != "u@example.com" {
		t.Fatalf("claims = %q / %q", userID, email)
	}
}

func TestGetUserIDByToken_Expired(t *testing.T) {
	service := testService()

	claims := jwtUserClaim{
		"user-123",
		"u@example.com",
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(service.secretKey))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_, _, err = service.GetUserIDByToken(token)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestGetUserIDByToken_WrongSecret(t *testing.T) {
	token := (&jwtService{secretKey: "other-secret", issuer: "GROCERY_BUDGET"}).
		GenerateTokenUser("user-123", "u@example.com")

	_, _, err := testService().GetUserIDByToken(token)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
