package handler

import (
	"net/http"
	"time"

	"intranet/internal/metrics"
	"intranet/internal/models"
	"intranet/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CookieSettings controls the session cookie written at login.
type CookieSettings struct {
	Name   string
	Domain string
	Secure bool
}

type AuthHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	VerifyToken(c *gin.Context)
}

type authHandler struct {
	authService service.AuthService
	cookie      CookieSettings
	metrics     *metrics.Metrics
	logger      *zap.Logger
	now         func() time.Time
}

func NewAuthHandler(authService service.AuthService, cookie CookieSettings, m *metrics.Metrics, logger *zap.Logger) AuthHandler {
	return &authHandler{
		authService: authService,
		cookie:      cookie,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

func (h *authHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

// Register handles POST /api/auth/register
func (h *authHandler) Register(c *gin.Context) {
	var req models.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Failed to bind JSON for registration", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employee, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, h.metrics, err, "Failed to register employee")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Employee registered successfully",
		"employee_id": employee.ID,
	})
}

// Login handles POST /api/auth/login. The token only travels in the cookie.
func (h *authHandler) Login(c *gin.Context) {
	var req models.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, h.metrics, err, "Failed to login")
		return
	}

	maxAge := int(result.ExpiresAt.Sub(h.now()).Seconds())
	h.setCookie(c, result.Token, maxAge)

	c.JSON(http.StatusOK, gin.H{
		"message":       "Login successful",
		"employee_id":   result.Identity.EmployeeID,
		"department_id": result.Identity.DepartmentID,
		"role":          result.Identity.Role,
		"expires_at":    result.ExpiresAt,
	})
}

// Logout handles POST /api/auth/logout by expiring the session cookie.
func (h *authHandler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// VerifyToken handles GET /api/auth/verify-token
func (h *authHandler) VerifyToken(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, id)
}
