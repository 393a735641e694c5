package auth

import (
	"testing"

	"github.com/fathima-sithara/vidstream/internal/config"
	"github.com/fathima-sithara/vidstream/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testManager() *TokenManager {
	return NewTokenManager(config.JWTConf{
		AccessSecret:     "access-secret",
		AccessTTLMinutes: 1,
		RefreshSecret:    "refresh-secret",
		RefreshTTLDays:   1,
	})
}

func testUser() *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Username: "alice",
		Email:    "alice@x.com",
		FullName: "Alice A",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := testManager()
	u := testUser()

	token, exp, err := m.GenerateAccessToken(u)
	if err != nil || token == "" || exp.IsZero() {
		t.Fatalf("bad generate: %v", err)
	}

	claims, err := m.VerifyAccessToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != u.ID.Hex() || claims.Email != u.Email || claims.Username != u.Username || claims.FullName != u.FullName {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := testManager()
	id := primitive.NewObjectID().Hex()

	token, exp, err := m.GenerateRefreshToken(id)
	if err != nil || exp.IsZero() {
		t.Fatalf("bad generate: %v", err)
	}
	claims, err := m.VerifyRefreshToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != id {
		t.Fatalf("want %s got %s", id, claims.UserID)
	}
}

func TestTokensUniquePerIssuance(t *testing.T) {
	m := testManager()
	u := testUser()

	// back-to-back issuances land in the same second; the jti must still
	// make each token distinct or rotation re-mints the token it replaces
	r1, _, err := m.GenerateRefreshToken(u.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	r2, _, err := m.GenerateRefreshToken(u.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if r1 == r2 {
		t.Fatal("consecutive refresh tokens are identical")
	}

	a1, _, _ := m.GenerateAccessToken(u)
	a2, _, _ := m.GenerateAccessToken(u)
	if a1 == a2 {
		t.Fatal("consecutive access tokens are identical")
	}
}

func TestSecretsAreIndependent(t *testing.T) {
	m := testManager()
	u := testUser()

	access, _, _ := m.GenerateAccessToken(u)
	refresh, _, _ := m.GenerateRefreshToken(u.ID.Hex())

	if _, err := m.VerifyRefreshToken(access); err == nil {
		t.Fatal("access token verified against refresh secret")
	}
	if _, err := m.VerifyAccessToken(refresh); err == nil {
		t.Fatal("refresh token verified against access secret")
	}
}

func TestExpiredToken(t *testing.T) {
	m := NewTokenManager(config.JWTConf{
		AccessSecret:     "access-secret",
		AccessTTLMinutes: -1,
		RefreshSecret:    "refresh-secret",
		RefreshTTLDays:   1,
	})
	token, _, err := m.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.VerifyAccessToken(token); err != ErrTokenExpired {
		t.Fatalf("want ErrTokenExpired got %v", err)
	}
}

func TestMalformedToken(t *testing.T) {
	m := testManager()
	if _, err := m.VerifyAccessToken("not-a-token"); err != ErrInvalidToken {
		t.Fatalf("want ErrInvalidToken got %v", err)
	}
}
