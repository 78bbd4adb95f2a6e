package handler

import (
	"net/http"

	"intranet/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DepartmentHandler interface {
	List(c *gin.Context)
}

type departmentHandler struct {
	departmentService service.DepartmentService
	logger            *zap.Logger
}

func NewDepartmentHandler(departmentService service.DepartmentService, logger *zap.Logger) DepartmentHandler {
	return &departmentHandler{departmentService: departmentService, logger: logger}
}

// List handles GET /api/departments
func (h *departmentHandler) List(c *gin.Context) {
	departments, err := h.departmentService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, nil, err, "Failed to fetch departments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": departments})
}
