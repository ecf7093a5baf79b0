package handlers

import (
	"github.com/flowboard/backend/internal/services"
	"github.com/flowboard/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetStats returns the aggregated dashboard: overview counters, per-project
// and per-member statistics, recent activity and chart series
// GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, stats)
}
