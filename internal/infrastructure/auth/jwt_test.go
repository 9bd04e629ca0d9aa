package auth

import (
	"testing"
	"time"

	"github.com/dansever/estait-app-sub000/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestVerifier(at time.Time) *TokenVerifier {
	v := NewTokenVerifier(config.JWTConfig{
		Secret:   testSecret,
		Issuer:   "https://auth.estait.test",
		Audience: "authenticated",
	})
	v.now = func() time.Time { return at }
	return v
}

func TestTokenVerifier_RoundTrip(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	v := newTestVerifier(now)
	ownerID := uuid.New()

	token, err := v.Sign(ownerID, "landlord@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	got, err := claims.OwnerID()
	require.NoError(t, err)
	assert.Equal(t, ownerID, got)
	assert.Equal(t, "landlord@example.com", claims.Email)
	assert.Equal(t, time.Hour, claims.RemainingTTL(now))
}

func TestTokenVerifier_Rejections(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	v := newTestVerifier(now)
	ownerID := uuid.New()

	sign := func(claims jwt.Claims, method jwt.SigningMethod, key any) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	base := func() *Claims {
		return &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://auth.estait.test",
			Subject:   ownerID.String(),
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		}}
	}

	expired := base()
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))
	future := base()
	future.NotBefore = jwt.NewNumericDate(now.Add(time.Hour))
	wrongAudience := base()
	wrongAudience.Audience = jwt.ClaimStrings{"anon"}
	wrongIssuer := base()
	wrongIssuer.Issuer = "https://elsewhere.test"
	noSubject := base()
	noSubject.Subject = ""
	noExpiry := base()
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not.a.token", ErrInvalidToken},
		{"wrong secret", sign(base(), jwt.SigningMethodHS256, []byte("another-secret-key-of-32-chars!!")), ErrInvalidToken},
		{"wrong algorithm", sign(base(), jwt.SigningMethodHS512, []byte(testSecret)), ErrInvalidToken},
		{"expired", sign(expired, jwt.SigningMethodHS256, []byte(testSecret)), ErrExpiredToken},
		{"not yet valid", sign(future, jwt.SigningMethodHS256, []byte(testSecret)), ErrTokenNotYetValid},
		{"wrong audience", sign(wrongAudience, jwt.SigningMethodHS256, []byte(testSecret)), ErrWrongAudience},
		{"wrong issuer", sign(wrongIssuer, jwt.SigningMethodHS256, []byte(testSecret)), ErrInvalidToken},
		{"missing subject", sign(noSubject, jwt.SigningMethodHS256, []byte(testSecret)), ErrMissingSubject},
		{"missing expiry", sign(noExpiry, jwt.SigningMethodHS256, []byte(testSecret)), ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTokenVerifier_LeewayAcceptsClockSkew(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	signer := newTestVerifier(now.Add(-time.Hour - 10*time.Second))
	token, err := signer.Sign(uuid.New(), "", time.Hour)
	require.NoError(t, err)

	_, err = newTestVerifier(now).Verify(token)
	assert.NoError(t, err)
}
