package handler

import (
	"net/http"

	"intranet/internal/metrics"
	"intranet/internal/models"
	"intranet/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EmployeeHandler interface {
	List(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Profile(c *gin.Context)
}

type employeeHandler struct {
	employeeService service.EmployeeService
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

func NewEmployeeHandler(employeeService service.EmployeeService, m *metrics.Metrics, logger *zap.Logger) EmployeeHandler {
	return &employeeHandler{
		employeeService: employeeService,
		metrics:         m,
		logger:          logger,
	}
}

// List handles GET /api/employees
func (h *employeeHandler) List(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	employees, err := h.employeeService.List(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, h.metrics, err, "Failed to fetch employees")
		return
	}

	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

// Update handles PUT /api/employees
func (h *employeeHandler) Update(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var req models.UpdateEmployeeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, h.metrics, err, "Failed to update employee")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Employee updated successfully",
		"employee": employee,
	})
}

// Delete handles DELETE /api/employees. The employee's news are removed with it.
func (h *employeeHandler) Delete(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var req models.DeleteEmployeeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.employeeService.Delete(c.Request.Context(), id, req.EmployeeID); err != nil {
		respondError(c, h.logger, h.metrics, err, "Failed to delete employee")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}

// Profile handles GET /api/profile
func (h *employeeHandler) Profile(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	profile, err := h.employeeService.Profile(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, h.metrics, err, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}
