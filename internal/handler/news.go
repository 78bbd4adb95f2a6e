package handler

import (
	"net/http"

	"intranet/internal/metrics"
	"intranet/internal/models"
	"intranet/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NewsHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
}

type newsHandler struct {
	newsService service.NewsService
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewNewsHandler(newsService service.NewsService, m *metrics.Metrics, logger *zap.Logger) NewsHandler {
	return &newsHandler{
		newsService: newsService,
		metrics:     m,
		logger:      logger,
	}
}

// List handles GET /api/news?departmentId=&employeeId=
func (h *newsHandler) List(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	// departmentId is ignored when an employee is requested
	var query models.NewsQuery
	var err error
	if query.EmployeeID, err = optionalID(c, "employeeId"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employeeId"})
		return
	}
	if query.EmployeeID == nil {
		if query.DepartmentID, err = optionalID(c, "departmentId"); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid departmentId"})
			return
		}
	}

	items, err := h.newsService.List(c.Request.Context(), id, query)
	if err != nil {
		respondError(c, h.logger, h.metrics, err, "Failed to fetch news")
		return
	}

	c.JSON(http.StatusOK, gin.H{"news": items})
}

// Create handles POST /api/news
func (h *newsHandler) Create(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var req models.CreateNewsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	news, err := h.newsService.Create(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, h.metrics, err, "Failed to create news")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"news": news})
}
