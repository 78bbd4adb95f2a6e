package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"intranet/internal/metrics"
	"intranet/internal/middleware"
	"intranet/internal/models"
	"intranet/internal/policy"
	"intranet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by request bodies.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
				_, err := models.ParseRole(fl.Field().String())
				return err == nil
			})
		}
	})
}

// respondError maps service and policy errors onto the HTTP error taxonomy.
// Unexpected errors are logged and reported with the generic fallback message.
func respondError(c *gin.Context, logger *zap.Logger, m *metrics.Metrics, err error, fallback string) {
	switch {
	case errors.Is(err, policy.ErrForbidden):
		if m != nil {
			m.AuthFailures.WithLabelValues(c.FullPath(), "forbidden").Inc()
		}
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmployeeExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmployeeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// caller returns the authenticated identity or writes a 401.
func caller(c *gin.Context) (models.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	}
	return id, ok
}

var errNonPositiveID = errors.New("id must be positive")

// optionalID reads a positive integer query parameter. Absent or empty yields nil.
func optionalID(c *gin.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	if v <= 0 {
		return nil, errNonPositiveID
	}
	return &v, nil
}
