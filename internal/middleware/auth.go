package middleware

import (
	"errors"
	"net/http"

	"intranet/internal/metrics"
	"intranet/internal/models"
	"intranet/internal/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const identityKey = "identity"

// TokenDecoder verifies a session token.
type TokenDecoder interface {
	Decode(tokenString string) (models.Identity, error)
}

// AuthMiddleware creates a Gin middleware that authenticates the request from
// the session cookie. Missing or invalid tokens end the request with 401.
func AuthMiddleware(decoder TokenDecoder, cookieName string, m *metrics.Metrics, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		unauthorized := func(reason, message string) {
			if m != nil {
				m.AuthFailures.WithLabelValues(c.FullPath(), reason).Inc()
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
		}

		tokenString, err := c.Cookie(cookieName)
		if err != nil || tokenString == "" {
			unauthorized("missing_token", "Not authenticated")
			return
		}

		id, err := decoder.Decode(tokenString)
		if err != nil {
			if errors.Is(err, token.ErrTokenExpired) {
				unauthorized("expired_token", "Token expired")
				return
			}
			logger.Debug("Invalid session token", zap.Error(err))
			unauthorized("invalid_token", "Invalid or expired token")
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by AuthMiddleware.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

// SetIdentity is used by tests to bypass cookie decoding.
func SetIdentity(c *gin.Context, id models.Identity) {
	c.Set(identityKey, id)
}
