package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/service"
)

type RateConfigHandler struct {
	dispatcher *dispatch.Dispatcher
}

func NewRateConfigHandler(d *dispatch.Dispatcher) *RateConfigHandler {
	return &RateConfigHandler{dispatcher: d}
}

// POST /rate-configs
func (h *RateConfigHandler) Create(c *gin.Context) {
	var dto domain.CreateRateConfigDTO
	if !bindJSON(c, &dto) {
		return
	}
	reply[*domain.RateConfig](c, h.dispatcher, http.StatusCreated, service.CreateRateConfig{CreateRateConfigDTO: dto})
}

// GET /rate-configs/:id
func (h *RateConfigHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reply[*domain.RateConfig](c, h.dispatcher, http.StatusOK, service.GetRateConfig{ID: id})
}

// PATCH /rate-configs/:id
func (h *RateConfigHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch domain.RateConfigPatch
	if !bindJSON(c, &patch) {
		return
	}
	reply[*domain.RateConfig](c, h.dispatcher, http.StatusOK, service.UpdateRateConfig{ID: id, Patch: patch})
}

// POST /rate-configs/:id/deactivate
func (h *RateConfigHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reply[*domain.RateConfig](c, h.dispatcher, http.StatusOK, service.DeactivateRateConfig{ID: id})
}

// GET /rate-configs/vehicle-type/:id
func (h *RateConfigHandler) ListByVehicleType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reply[[]domain.RateConfig](c, h.dispatcher, http.StatusOK, service.ListRateConfigs{VehicleTypeID: id})
}

// GET /rate-configs/vehicle-type/:id/active
func (h *RateConfigHandler) GetActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reply[*domain.RateConfig](c, h.dispatcher, http.StatusOK, service.GetActiveRateConfig{VehicleTypeID: id})
}
