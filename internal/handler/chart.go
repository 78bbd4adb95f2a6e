package handler

import (
	"net/http"
	"time"

	"intranet/internal/metrics"
	"intranet/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChartHandler interface {
	NewsPerDepartment(c *gin.Context)
}

type chartHandler struct {
	chartService service.ChartService
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

func NewChartHandler(chartService service.ChartService, m *metrics.Metrics, logger *zap.Logger) ChartHandler {
	return &chartHandler{
		chartService: chartService,
		metrics:      m,
		logger:       logger,
	}
}

// NewsPerDepartment handles GET /api/charts?startDate=&endDate=
// A plain date as endDate covers that whole day.
func (h *chartHandler) NewsPerDepartment(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	rawStart, rawEnd := c.Query("startDate"), c.Query("endDate")
	if rawStart == "" || rawEnd == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate and endDate are required"})
		return
	}
	start, _, err := service.ParseDate(rawStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate"})
		return
	}
	end, dateOnly, err := service.ParseDate(rawEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate"})
		return
	}
	if dateOnly {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}

	entries, err := h.chartService.NewsPerDepartment(c.Request.Context(), id, start, end)
	if err != nil {
		respondError(c, h.logger, h.metrics, err, "Failed to compute chart")
		return
	}

	c.JSON(http.StatusOK, entries)
}
