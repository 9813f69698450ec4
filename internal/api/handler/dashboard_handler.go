package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/service"
)

type DashboardHandler struct {
	dispatcher *dispatch.Dispatcher
}

func NewDashboardHandler(d *dispatch.Dispatcher) *DashboardHandler {
	return &DashboardHandler{dispatcher: d}
}

// GET /dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	reply[*domain.DashboardSummary](c, h.dispatcher, http.StatusOK, service.GetDashboardSummary{})
}

// GET /dashboard/occupancy?date=YYYY-MM-DD, today when omitted.
func (h *DashboardHandler) Occupancy(c *gin.Context) {
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}
	reply[*domain.OccupancyReport](c, h.dispatcher, http.StatusOK, service.GetOccupancyReport{Date: date})
}

// GET /dashboard/revenue?date=YYYY-MM-DD
func (h *DashboardHandler) Revenue(c *gin.Context) {
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}
	reply[*domain.RevenueReport](c, h.dispatcher, http.StatusOK, service.GetRevenueReport{Date: date})
}
