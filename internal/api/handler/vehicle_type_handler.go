package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/service"
)

type VehicleTypeHandler struct {
	dispatcher *dispatch.Dispatcher
}

func NewVehicleTypeHandler(d *dispatch.Dispatcher) *VehicleTypeHandler {
	return &VehicleTypeHandler{dispatcher: d}
}

// POST /vehicle-types
func (h *VehicleTypeHandler) Create(c *gin.Context) {
	var dto domain.CreateVehicleTypeDTO
	if !bindJSON(c, &dto) {
		return
	}
	reply[*domain.VehicleType](c, h.dispatcher, http.StatusCreated, service.CreateVehicleType{CreateVehicleTypeDTO: dto})
}

// GET /vehicle-types?active=true
func (h *VehicleTypeHandler) List(c *gin.Context) {
	var q struct {
		Active bool `form:"active"`
	}
	if !bindQuery(c, &q) {
		return
	}
	reply[[]domain.VehicleType](c, h.dispatcher, http.StatusOK, service.ListVehicleTypes{ActiveOnly: q.Active})
}

// GET /vehicle-types/:id
func (h *VehicleTypeHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reply[*domain.VehicleType](c, h.dispatcher, http.StatusOK, service.GetVehicleType{ID: id})
}

// PATCH /vehicle-types/:id
func (h *VehicleTypeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch domain.VehicleTypePatch
	if !bindJSON(c, &patch) {
		return
	}
	reply[*domain.VehicleType](c, h.dispatcher, http.StatusOK, service.UpdateVehicleType{ID: id, Patch: patch})
}

// POST /vehicle-types/:id/deactivate
func (h *VehicleTypeHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reply[*domain.VehicleType](c, h.dispatcher, http.StatusOK, service.DeactivateVehicleType{ID: id})
}
