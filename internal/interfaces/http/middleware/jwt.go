package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dansever/estait-app-sub000/internal/infrastructure/auth"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	OwnerIDKey    = "owner_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
	// DevOwnerHeader carries the owner ID when authentication is optional
	DevOwnerHeader = "X-Owner-ID"
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// Verifier is required for token validation
	Verifier *auth.TokenVerifier
	// Required rejects requests without a bearer token. When false a request
	// may name its owner through the X-Owner-ID header instead.
	Required bool
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	// Optional callback if token is invalid (default: return 401)
	OnError func(c *gin.Context, err error)
	Logger  *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(verifier *auth.TokenVerifier) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		Verifier: verifier,
		Required: true,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
		},
		SkipPathPrefixes: []string{
			"/swagger",
		},
	}
}

var errMissingCredentials = errors.New("missing credentials")

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(verifier *auth.TokenVerifier) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(verifier))
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipAuth(cfg, c.Request.URL.Path) {
			c.Next()
			return
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			if cfg.Required {
				handleAuthError(c, cfg, errMissingCredentials, "Missing authorization header")
				return
			}
			ownerID, err := uuid.Parse(c.GetHeader(DevOwnerHeader))
			if err != nil || ownerID == uuid.Nil {
				handleAuthError(c, cfg, errMissingCredentials, "Missing authorization header or X-Owner-ID")
				return
			}
			setOwner(c, ownerID)
			c.Next()
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, BearerPrefix)
		if !ok || tokenString == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		claims, err := cfg.Verifier.Verify(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}
		ownerID, err := claims.OwnerID()
		if err != nil {
			handleAuthError(c, cfg, err, "Token has no owner")
			return
		}

		c.Set(JWTClaimsKey, claims)
		setOwner(c, ownerID)

		if cfg.Logger != nil {
			cfg.Logger.Debug("JWT authentication successful",
				zap.String("owner_id", ownerID.String()),
				zap.String("email", claims.Email),
			)
		}

		c.Next()
	}
}

func skipAuth(cfg JWTMiddlewareConfig, path string) bool {
	for _, skipPath := range cfg.SkipPaths {
		if path == skipPath {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func setOwner(c *gin.Context, ownerID uuid.UUID) {
	c.Set(OwnerIDKey, ownerID)
	ctx := logger.WithOwnerID(c.Request.Context(), ownerID.String())
	c.Request = c.Request.WithContext(ctx)
}

// handleAuthError handles authentication errors
func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := "UNAUTHORIZED"
	errorMessage := "Authentication required"

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		errorCode = "TOKEN_EXPIRED"
		errorMessage = "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		errorCode = "TOKEN_NOT_VALID"
		errorMessage = "Token is not yet valid"
	case errors.Is(err, auth.ErrWrongAudience):
		errorCode = "INVALID_AUDIENCE"
		errorMessage = "Token audience does not match"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrMissingSubject):
		errorCode = "INVALID_TOKEN"
		errorMessage = "Invalid token"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    errorCode,
			"message": errorMessage,
		},
	})
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetOwnerID retrieves the authenticated owner from gin.Context
func GetOwnerID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(OwnerIDKey); exists {
		if id, ok := v.(uuid.UUID); ok && id != uuid.Nil {
			return id, true
		}
	}
	return uuid.Nil, false
}
